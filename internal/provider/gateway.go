package provider

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/parleyhq/parley/internal/config"
	"github.com/parleyhq/parley/internal/roster"
	"github.com/parleyhq/parley/pkg/models"
)

const defaultCallTimeout = 30 * time.Second

// chainLink is one provider in the fallback chain with its call timeout.
type chainLink struct {
	provider Provider
	timeout  time.Duration
}

// Gateway issues single agent invocations against the configured provider
// chain. It never returns an error: when every provider fails, the templated
// fallback response stands in, flagged as not succeeded.
type Gateway struct {
	chain   []chainLink
	parsing config.ResponseParsingConfig
	costs   *CostTracker
}

// NewGateway builds a Gateway from configuration. Providers that cannot be
// constructed (e.g. missing API key) are skipped with a warning; the chain
// may end up empty, in which case every invocation uses the template
// fallback.
func NewGateway(cfg *config.Config) *Gateway {
	g := &Gateway{
		parsing: cfg.ResponseParsing,
		costs:   NewCostTracker(cfg.CostTracking.Enabled, cfg.CostTracking.DailyLimitUSD),
	}

	names := []string{cfg.PrimaryProvider}
	if cfg.FallbackEnabled {
		for _, name := range cfg.FallbackOrder {
			if name != cfg.PrimaryProvider {
				names = append(names, name)
			}
		}
	}

	for _, name := range names {
		pcfg, ok := cfg.Providers[name]
		if !ok {
			continue
		}
		p, err := New(name, pcfg)
		if err != nil {
			log.Printf("[gateway] provider %s not available: %v", name, err)
			continue
		}
		timeout := pcfg.Timeout
		if timeout <= 0 {
			timeout = defaultCallTimeout
		}
		g.chain = append(g.chain, chainLink{provider: p, timeout: timeout})
	}

	if len(g.chain) == 0 {
		log.Printf("[gateway] no providers available, all responses will use the template fallback")
	}

	return g
}

// newGatewayForTest builds a Gateway around explicit providers.
func newGatewayForTest(parsing config.ResponseParsingConfig, costs *CostTracker, providers ...Provider) *Gateway {
	g := &Gateway{parsing: parsing, costs: costs}
	for _, p := range providers {
		g.chain = append(g.chain, chainLink{provider: p, timeout: defaultCallTimeout})
	}
	return g
}

// Costs returns the shared cost tracker.
func (g *Gateway) Costs() *CostTracker {
	return g.costs
}

// Invoke asks one team member to respond to the task. The prompt combines
// the member's personality, the task fields, and any engine-supplied
// context. Provider failures are absorbed: the chain is walked in declared
// order and the template fallback terminates it.
func (g *Gateway) Invoke(ctx context.Context, member roster.Member, task models.Task, promptContext string) models.AgentResponse {
	now := time.Now().UTC()

	// The ceiling check happens before any provider call; once hit, the
	// rest of the process goes straight to the template.
	if g.costs != nil && g.costs.LimitReached() {
		log.Printf("[gateway] daily cost ceiling reached, templating response for %s", member.Role)
		return templateResponse(member, now)
	}

	prompt := buildPrompt(member, task, promptContext)

	for _, link := range g.chain {
		callCtx, cancel := context.WithTimeout(ctx, link.timeout)
		completion, err := link.provider.Generate(callCtx, prompt)
		cancel()
		if err != nil {
			log.Printf("[gateway] provider %s failed for %s: %v", link.provider.Name(), member.Role, err)
			continue
		}

		if g.costs != nil {
			g.costs.Add(completion.InputTokens, completion.OutputTokens)
		}

		parsed := parseResponse(completion.Content, g.parsing)
		return models.AgentResponse{
			MemberID:        member.ID,
			Role:            member.Role,
			ResponseText:    parsed.Analysis,
			EstimatedEffort: parsed.EffortEstimate,
			Concerns:        parsed.Concerns,
			Recommendations: parsed.Recommendations,
			TimestampUTC:    now,
			Succeeded:       true,
			ProviderUsed:    link.provider.Name(),
		}
	}

	return templateResponse(member, now)
}

// buildPrompt assembles the invocation prompt: personality first, then the
// task, then prior context from the engine, then the response format
// contract.
func buildPrompt(member roster.Member, task models.Task, promptContext string) string {
	var b strings.Builder

	b.WriteString(member.PersonalityPrompt)
	b.WriteString("\n\nTask assignment:\n")
	fmt.Fprintf(&b, "- ID: %s\n", task.TaskID)
	fmt.Fprintf(&b, "- Title: %s\n", task.Title)
	if task.Description != "" {
		fmt.Fprintf(&b, "- Description: %s\n", task.Description)
	}
	fmt.Fprintf(&b, "- Priority: %s\n", task.Priority)
	if len(task.ContextFiles) > 0 {
		fmt.Fprintf(&b, "- Context files: %s\n", strings.Join(task.ContextFiles, ", "))
	}

	fmt.Fprintf(&b, "\nYour role: %s\n", member.Role)
	if len(member.Capabilities) > 0 {
		fmt.Fprintf(&b, "Your capabilities: %s\n", strings.Join(member.Capabilities, ", "))
	}

	if promptContext != "" {
		b.WriteString("\n")
		b.WriteString(promptContext)
		b.WriteString("\n")
	}

	b.WriteString(`
Respond as JSON:
{
  "analysis": "your analysis of the task from your role's perspective",
  "concerns": ["specific concern", "..."],
  "recommendations": ["specific actionable recommendation", "..."],
  "effort_estimate": "realistic time estimate, e.g. '3-5 days'"
}
`)

	return b.String()
}
