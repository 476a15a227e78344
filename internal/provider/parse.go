package provider

import (
	"encoding/json"
	"strings"

	"github.com/parleyhq/parley/internal/config"
)

// parsedResponse is the structured form extracted from raw model output.
type parsedResponse struct {
	Analysis        string   `json:"analysis"`
	Concerns        []string `json:"concerns"`
	Recommendations []string `json:"recommendations"`
	EffortEstimate  string   `json:"effort_estimate"`
}

// parseResponse turns raw model output into structured fields. It prefers a
// JSON object embedded in the content; when that fails and text fallback is
// enabled, it extracts sections from free text; otherwise the raw content
// becomes the analysis with empty lists.
func parseResponse(content string, cfg config.ResponseParsingConfig) parsedResponse {
	if cfg.MaxResponseLength > 0 && len(content) > cfg.MaxResponseLength {
		content = content[:cfg.MaxResponseLength]
	}

	if cfg.PreferredFormat != "text" {
		if parsed, ok := parseJSONBlock(content); ok {
			return parsed
		}
	}

	if cfg.FallbackToTextParsing {
		return extractFromText(content)
	}

	return parsedResponse{Analysis: content, EffortEstimate: "TBD"}
}

// parseJSONBlock finds the outermost {...} span in the content and decodes
// it. Models often wrap the object in prose or code fences.
func parseJSONBlock(content string) (parsedResponse, bool) {
	start := strings.Index(content, "{")
	end := strings.LastIndex(content, "}")
	if start < 0 || end <= start {
		return parsedResponse{}, false
	}

	var parsed parsedResponse
	if err := json.Unmarshal([]byte(content[start:end+1]), &parsed); err != nil {
		return parsedResponse{}, false
	}
	if parsed.Analysis == "" && len(parsed.Concerns) == 0 && len(parsed.Recommendations) == 0 {
		return parsedResponse{}, false
	}
	if parsed.Analysis == "" {
		parsed.Analysis = content[:start]
	}
	if parsed.EffortEstimate == "" {
		parsed.EffortEstimate = "TBD"
	}
	return parsed, true
}

// extractFromText pulls concerns, recommendations and an effort estimate out
// of free-form text by scanning for section headers and list markers.
func extractFromText(content string) parsedResponse {
	var (
		concerns        []string
		recommendations []string
		analysisLines   []string
		effort          = "TBD"
		section         = ""
	)

	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		lower := strings.ToLower(line)
		switch {
		case containsAny(lower, "concerns:", "risks:", "issues:"):
			section = "concerns"
			continue
		case containsAny(lower, "recommendations:", "suggestions:", "next steps:"):
			section = "recommendations"
			continue
		}

		item, isBullet := stripListMarker(line)

		switch section {
		case "concerns":
			if isBullet {
				concerns = append(concerns, item)
			}
		case "recommendations":
			if isBullet {
				recommendations = append(recommendations, item)
			}
		default:
			if containsAny(lower, "hour", "day", "week", "effort", "estimate") {
				effort = line
			} else if len(analysisLines) < 3 {
				analysisLines = append(analysisLines, line)
			}
		}
	}

	// No headed sections found: fall back to keyword scanning.
	if len(concerns) == 0 && len(recommendations) == 0 {
		for _, line := range strings.Split(content, "\n") {
			line = strings.TrimSpace(line)
			lower := strings.ToLower(line)
			switch {
			case containsAny(lower, "concern", "risk", "issue", "problem"):
				concerns = append(concerns, line)
			case containsAny(lower, "recommend", "suggest", "should"):
				recommendations = append(recommendations, line)
			}
		}
	}

	analysis := strings.Join(analysisLines, " ")
	if analysis == "" {
		analysis = content
		if len(analysis) > 300 {
			analysis = analysis[:300]
		}
	}

	return parsedResponse{
		Analysis:        analysis,
		Concerns:        concerns,
		Recommendations: recommendations,
		EffortEstimate:  effort,
	}
}

func containsAny(s string, substrs ...string) bool {
	for _, sub := range substrs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

// stripListMarker removes a leading bullet or numbered-list marker and
// reports whether one was present.
func stripListMarker(line string) (string, bool) {
	for _, marker := range []string{"- ", "* ", "• "} {
		if strings.HasPrefix(line, marker) {
			return strings.TrimSpace(line[len(marker):]), true
		}
	}
	// Numbered markers like "1." or "12)".
	i := 0
	for i < len(line) && line[i] >= '0' && line[i] <= '9' {
		i++
	}
	if i > 0 && i < len(line) && (line[i] == '.' || line[i] == ')') {
		return strings.TrimSpace(line[i+1:]), true
	}
	return line, false
}
