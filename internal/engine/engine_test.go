package engine

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/parleyhq/parley/internal/roster"
	"github.com/parleyhq/parley/pkg/models"
)

// invocation records one gateway call for later assertions.
type invocation struct {
	memberID      string
	promptContext string
}

// fakeGateway scripts per-member responses and records every call. It is
// safe for the round-table engine's concurrent fan-out.
type fakeGateway struct {
	mu      sync.Mutex
	calls   []invocation
	respond func(member roster.Member, promptContext string) models.AgentResponse
}

func (g *fakeGateway) Invoke(_ context.Context, member roster.Member, _ models.Task, promptContext string) models.AgentResponse {
	g.mu.Lock()
	g.calls = append(g.calls, invocation{memberID: member.ID, promptContext: promptContext})
	g.mu.Unlock()

	if g.respond != nil {
		return g.respond(member, promptContext)
	}
	return okResponse(member, "analysis from "+member.Role)
}

func (g *fakeGateway) callIDs() []string {
	g.mu.Lock()
	defer g.mu.Unlock()
	ids := make([]string, len(g.calls))
	for i, c := range g.calls {
		ids[i] = c.memberID
	}
	return ids
}

func (g *fakeGateway) callCount(memberID string) int {
	g.mu.Lock()
	defer g.mu.Unlock()
	n := 0
	for _, c := range g.calls {
		if c.memberID == memberID {
			n++
		}
	}
	return n
}

func okResponse(member roster.Member, text string) models.AgentResponse {
	return models.AgentResponse{
		MemberID:     member.ID,
		Role:         member.Role,
		ResponseText: text,
		TimestampUTC: time.Now().UTC(),
		Succeeded:    true,
		ProviderUsed: "anthropic",
	}
}

func fallbackResponse(member roster.Member) models.AgentResponse {
	return models.AgentResponse{
		MemberID:     member.ID,
		Role:         member.Role,
		ResponseText: "fallback analysis",
		Concerns:     []string{"automated fallback response, needs human review"},
		TimestampUTC: time.Now().UTC(),
		Succeeded:    false,
		ProviderUsed: models.TemplateFallbackProvider,
	}
}

// testRoster builds a roster from (id, role) pairs, declared in order.
func testRoster(t *testing.T, pairs ...string) *roster.Roster {
	t.Helper()
	if len(pairs)%2 != 0 {
		t.Fatal("testRoster needs id/role pairs")
	}

	yaml := "members:\n"
	for i := 0; i < len(pairs); i += 2 {
		yaml += fmt.Sprintf("  - id: %s\n    role: %s\n    personality_prompt: You are the %s.\n",
			pairs[i], pairs[i+1], pairs[i+1])
	}

	r, err := roster.Parse([]byte(yaml))
	if err != nil {
		t.Fatalf("parsing test roster: %v", err)
	}
	return r
}

// fullTeam is the five-member roster most tests run against, deliberately
// declared out of pipeline order.
func fullTeam(t *testing.T) *roster.Roster {
	t.Helper()
	return testRoster(t,
		"manager", "Engineering Manager",
		"dev", "Developer",
		"product_owner", "Product Owner",
		"qa", "QA Engineer",
		"tech_lead", "Tech Lead",
	)
}

func testTask() models.Task {
	return models.Task{
		TaskID:      "task-1",
		Title:       "Add rate limiting",
		Description: "Protect the public API from abusive clients",
		Priority:    models.PriorityHigh,
	}
}
