package provider

import (
	"fmt"
	"strings"
	"time"

	"github.com/parleyhq/parley/internal/roster"
	"github.com/parleyhq/parley/pkg/models"
)

// templateResponse synthesizes a deterministic response from the member's
// role and capabilities. It is the terminal link of the fallback chain, so
// every engine turn returns something even under total provider outage.
func templateResponse(member roster.Member, now time.Time) models.AgentResponse {
	caps := member.Capabilities
	text := fmt.Sprintf("%s assessment unavailable from AI providers.", member.Role)
	if len(caps) > 0 {
		text = fmt.Sprintf("%s assessment unavailable from AI providers; apply %s to scope the work.",
			member.Role, strings.Join(caps, ", "))
	}

	recommendations := make([]string, 0, len(caps))
	for _, c := range caps {
		recommendations = append(recommendations, fmt.Sprintf("Review the task through %s", c))
	}

	return models.AgentResponse{
		MemberID:        member.ID,
		Role:            member.Role,
		ResponseText:    text,
		EstimatedEffort: "TBD",
		Concerns:        []string{fmt.Sprintf("%s analysis is a placeholder pending provider availability", member.Role)},
		Recommendations: recommendations,
		TimestampUTC:    now,
		Succeeded:       false,
		ProviderUsed:    models.TemplateFallbackProvider,
	}
}
