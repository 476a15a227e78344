// Package provider integrates Parley with AI backends. A Gateway issues one
// "ask this member to respond" call per agent turn, working through a chain
// of configured providers and absorbing every failure into a usable response.
package provider

import (
	"context"
	"fmt"

	"github.com/parleyhq/parley/internal/config"
)

// Completion is the raw output of one provider call.
type Completion struct {
	// Content is the model's text output.
	Content string
	// Model is the model that answered.
	Model string
	// InputTokens is the prompt token count reported by the provider.
	InputTokens int64
	// OutputTokens is the completion token count reported by the provider.
	OutputTokens int64
}

// Provider is a single AI backend capable of answering a prompt.
type Provider interface {
	// Name returns the configured provider name (e.g. "anthropic").
	Name() string
	// Generate sends the prompt and returns the completion. The context
	// carries the per-call timeout.
	Generate(ctx context.Context, prompt string) (*Completion, error)
}

// New constructs a provider by its configured name.
func New(name string, cfg config.Provider) (Provider, error) {
	switch name {
	case "anthropic":
		return NewAnthropic(name, cfg)
	case "openai", "azure_openai":
		return NewOpenAI(name, cfg)
	case "ollama":
		return NewOllama(name, cfg)
	default:
		return nil, fmt.Errorf("unknown provider %q", name)
	}
}
