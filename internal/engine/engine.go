// Package engine implements the interchangeable coordination strategies that
// process a task against the team roster. Every variant satisfies the same
// contract and calls the provider gateway once per agent turn.
package engine

import (
	"context"
	"fmt"
	"strings"

	"github.com/parleyhq/parley/internal/roster"
	"github.com/parleyhq/parley/pkg/models"
)

// Gateway is the single suspension point for all engines: one call per
// agent turn, always returning a response (possibly a flagged fallback).
type Gateway interface {
	Invoke(ctx context.Context, member roster.Member, task models.Task, promptContext string) models.AgentResponse
}

// Engine processes one task through a coordination strategy.
type Engine interface {
	// Name returns the registered architecture name, e.g. "sequential".
	Name() string
	// Describe returns a human-readable description of the strategy.
	Describe() string
	// Process runs the task through the strategy. Degraded agent turns do
	// not produce an error; an error is returned only for internal faults.
	Process(ctx context.Context, task models.Task) (*models.ArchitectureResult, error)
}

// contextFromResponses renders prior responses as prompt context so later
// turns can build on earlier ones.
func contextFromResponses(header string, responses []models.AgentResponse) string {
	if len(responses) == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString(header)
	b.WriteString("\n")
	for _, r := range responses {
		fmt.Fprintf(&b, "\n%s:\n- %s\n", r.Role, r.ResponseText)
		if len(r.Concerns) > 0 {
			fmt.Fprintf(&b, "- Concerns: %s\n", strings.Join(clip(r.Concerns, 2), "; "))
		}
		if len(r.Recommendations) > 0 {
			fmt.Fprintf(&b, "- Recommendations: %s\n", strings.Join(clip(r.Recommendations, 2), "; "))
		}
	}
	return b.String()
}

// clip returns at most n leading items.
func clip(items []string, n int) []string {
	if len(items) <= n {
		return items
	}
	return items[:n]
}
