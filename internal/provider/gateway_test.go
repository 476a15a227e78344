package provider

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/parleyhq/parley/internal/config"
	"github.com/parleyhq/parley/internal/roster"
	"github.com/parleyhq/parley/pkg/models"
)

// fakeProvider returns a canned completion or error.
type fakeProvider struct {
	name    string
	content string
	err     error
	calls   int
}

func (f *fakeProvider) Name() string { return f.name }

func (f *fakeProvider) Generate(ctx context.Context, prompt string) (*Completion, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return &Completion{Content: f.content, Model: "fake", InputTokens: 10, OutputTokens: 20}, nil
}

func testMember() roster.Member {
	return roster.Member{
		ID:                "tech_lead",
		Role:              "Tech Lead",
		Capabilities:      []string{"architecture", "code review"},
		PersonalityPrompt: "You are a careful tech lead.",
	}
}

func testTask() models.Task {
	return models.Task{TaskID: "T-1", Title: "X", Description: "Y", Priority: models.PriorityHigh}
}

func defaultParsing() config.ResponseParsingConfig {
	return config.ResponseParsingConfig{
		PreferredFormat:       "json",
		FallbackToTextParsing: true,
		MaxResponseLength:     8192,
	}
}

func TestInvokePrimarySucceeds(t *testing.T) {
	primary := &fakeProvider{
		name:    "anthropic",
		content: `{"analysis": "looks fine", "concerns": ["scale"], "recommendations": ["add tests"], "effort_estimate": "2 days"}`,
	}
	g := newGatewayForTest(defaultParsing(), NewCostTracker(true, 100), primary)

	resp := g.Invoke(context.Background(), testMember(), testTask(), "")

	if !resp.Succeeded {
		t.Error("response should be marked succeeded")
	}
	if resp.ProviderUsed != "anthropic" {
		t.Errorf("ProviderUsed = %q, want anthropic", resp.ProviderUsed)
	}
	if resp.ResponseText != "looks fine" {
		t.Errorf("ResponseText = %q", resp.ResponseText)
	}
	if resp.EstimatedEffort != "2 days" {
		t.Errorf("EstimatedEffort = %q", resp.EstimatedEffort)
	}
	if resp.Role != "Tech Lead" || resp.MemberID != "tech_lead" {
		t.Errorf("member identity wrong: %q %q", resp.Role, resp.MemberID)
	}
}

func TestInvokeFallsBackInDeclaredOrder(t *testing.T) {
	primary := &fakeProvider{name: "anthropic", err: errors.New("timeout")}
	second := &fakeProvider{name: "openai", err: errors.New("503")}
	third := &fakeProvider{name: "ollama", content: `{"analysis": "ok", "recommendations": ["ship it"]}`}
	g := newGatewayForTest(defaultParsing(), NewCostTracker(true, 100), primary, second, third)

	resp := g.Invoke(context.Background(), testMember(), testTask(), "")

	if resp.ProviderUsed != "ollama" {
		t.Errorf("ProviderUsed = %q, want ollama", resp.ProviderUsed)
	}
	if !resp.Succeeded {
		t.Error("fallback provider response should still be succeeded")
	}
	if primary.calls != 1 || second.calls != 1 || third.calls != 1 {
		t.Errorf("call counts = %d/%d/%d, want 1/1/1", primary.calls, second.calls, third.calls)
	}
}

func TestInvokeAllProvidersFail(t *testing.T) {
	primary := &fakeProvider{name: "anthropic", err: errors.New("down")}
	second := &fakeProvider{name: "openai", err: errors.New("down")}
	g := newGatewayForTest(defaultParsing(), NewCostTracker(true, 100), primary, second)

	resp := g.Invoke(context.Background(), testMember(), testTask(), "")

	if resp.Succeeded {
		t.Error("template fallback must be marked not succeeded")
	}
	if resp.ProviderUsed != models.TemplateFallbackProvider {
		t.Errorf("ProviderUsed = %q, want %q", resp.ProviderUsed, models.TemplateFallbackProvider)
	}
	if resp.ResponseText == "" {
		t.Error("template fallback must carry response text")
	}
	if len(resp.Recommendations) != 2 {
		t.Errorf("template recommendations = %v, want one per capability", resp.Recommendations)
	}
}

func TestInvokeEmptyChainUsesTemplate(t *testing.T) {
	g := newGatewayForTest(defaultParsing(), NewCostTracker(true, 100))

	resp := g.Invoke(context.Background(), testMember(), testTask(), "")
	if resp.ProviderUsed != models.TemplateFallbackProvider {
		t.Errorf("ProviderUsed = %q, want template fallback", resp.ProviderUsed)
	}
}

func TestInvokeCostCeilingSkipsProviders(t *testing.T) {
	primary := &fakeProvider{name: "anthropic", content: `{"analysis": "ok"}`}
	costs := NewCostTracker(true, 0.0001)
	// Prior usage already past the ceiling.
	costs.Add(1_000_000, 1_000_000)
	g := newGatewayForTest(defaultParsing(), costs, primary)

	resp := g.Invoke(context.Background(), testMember(), testTask(), "")

	if primary.calls != 0 {
		t.Errorf("primary was called %d times, want 0 once ceiling is hit", primary.calls)
	}
	if resp.ProviderUsed != models.TemplateFallbackProvider {
		t.Errorf("ProviderUsed = %q, want template fallback", resp.ProviderUsed)
	}
}

func TestInvokeRecordsTokenUsage(t *testing.T) {
	primary := &fakeProvider{name: "anthropic", content: `{"analysis": "ok"}`}
	costs := NewCostTracker(true, 100)
	g := newGatewayForTest(defaultParsing(), costs, primary)

	g.Invoke(context.Background(), testMember(), testTask(), "")

	in, out := costs.Total()
	if in != 10 || out != 20 {
		t.Errorf("tracked tokens = %d/%d, want 10/20", in, out)
	}
	if costs.Calls() != 1 {
		t.Errorf("Calls = %d, want 1", costs.Calls())
	}
}

func TestTemplateResponseDeterministic(t *testing.T) {
	g := newGatewayForTest(defaultParsing(), NewCostTracker(false, 0))

	a := g.Invoke(context.Background(), testMember(), testTask(), "")
	b := g.Invoke(context.Background(), testMember(), testTask(), "")

	if a.ResponseText != b.ResponseText {
		t.Error("template response text should be deterministic per member")
	}
	if len(a.Concerns) != len(b.Concerns) || a.Concerns[0] != b.Concerns[0] {
		t.Error("template concerns should be deterministic per member")
	}
}

func TestBuildPromptIncludesContext(t *testing.T) {
	prompt := buildPrompt(testMember(), testTask(), "Previous team analysis:\nProduct Owner: scope is clear")

	for _, want := range []string{
		"You are a careful tech lead.",
		"Title: X",
		"Priority: high",
		"Your role: Tech Lead",
		"Previous team analysis:",
		`"effort_estimate"`,
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
}
