// Package config handles configuration loading for Parley. Provider settings
// come from a YAML file with environment variable overrides layered on top.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for Parley.
type Config struct {
	RosterPath      string                `mapstructure:"roster_path"`
	PrimaryProvider string                `mapstructure:"primary_provider"`
	FallbackEnabled bool                  `mapstructure:"fallback_enabled"`
	// FallbackOrder lists secondary providers in the order they are tried.
	FallbackOrder   []string              `mapstructure:"fallback_order"`
	Providers       map[string]Provider   `mapstructure:"providers"`
	ResponseParsing ResponseParsingConfig `mapstructure:"response_parsing"`
	CostTracking    CostTrackingConfig    `mapstructure:"cost_tracking"`
	RoundTable      RoundTableConfig      `mapstructure:"round_table"`
	Reactive        ReactiveConfig        `mapstructure:"reactive"`
}

// Provider holds settings for one AI backend.
type Provider struct {
	// Model is the model identifier to request.
	Model string `mapstructure:"model"`
	// MaxTokens caps the response length.
	MaxTokens int `mapstructure:"max_tokens"`
	// Temperature is the sampling temperature.
	Temperature float64 `mapstructure:"temperature"`
	// APIKey is the key used directly, if set.
	APIKey string `mapstructure:"api_key"`
	// APIKeyEnv names an environment variable to read the key from.
	APIKeyEnv string `mapstructure:"api_key_env"`
	// BaseURL overrides the provider endpoint (required for ollama).
	BaseURL string `mapstructure:"base_url"`
	// Timeout bounds each call to this provider.
	Timeout time.Duration `mapstructure:"timeout"`
	// UseAWSBedrock routes anthropic traffic through AWS Bedrock.
	UseAWSBedrock bool `mapstructure:"use_aws_bedrock"`
	// AWSRegion is the Bedrock region (e.g. "us-west-2").
	AWSRegion string `mapstructure:"aws_region"`
	// AWSProfile is the optional AWS profile name to use.
	AWSProfile string `mapstructure:"aws_profile"`
}

// ResolveAPIKey returns the configured key, consulting APIKeyEnv when no
// literal key is set.
func (p Provider) ResolveAPIKey() string {
	if p.APIKey != "" {
		return os.ExpandEnv(p.APIKey)
	}
	if p.APIKeyEnv != "" {
		return os.Getenv(p.APIKeyEnv)
	}
	return ""
}

// ResponseParsingConfig controls how raw provider output becomes a
// structured response.
type ResponseParsingConfig struct {
	// PreferredFormat is "json" or "text".
	PreferredFormat string `mapstructure:"preferred_format"`
	// FallbackToTextParsing enables free-text extraction when structured
	// parsing fails.
	FallbackToTextParsing bool `mapstructure:"fallback_to_text_parsing"`
	// MaxResponseLength truncates response text beyond this many bytes.
	MaxResponseLength int `mapstructure:"max_response_length"`
}

// CostTrackingConfig controls the process-wide spend ceiling.
type CostTrackingConfig struct {
	// Enabled turns the ceiling check on.
	Enabled bool `mapstructure:"enabled"`
	// DailyLimitUSD is the spend ceiling; once reached, providers are
	// skipped for the remainder of the process.
	DailyLimitUSD float64 `mapstructure:"daily_limit_usd"`
}

// RoundTableConfig holds round-table engine settings.
type RoundTableConfig struct {
	// MaxRounds is the round count R.
	MaxRounds int `mapstructure:"max_rounds"`
}

// ReactiveConfig holds reactive engine settings.
type ReactiveConfig struct {
	// EventCap bounds total processed events in one run.
	EventCap int `mapstructure:"event_cap"`
}

// Load reads configuration from the given path, falling back to defaults
// for anything unset. Environment variables override file values for keys.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config from %s: %w", path, err)
		}
	}

	v.AutomaticEnv()
	v.BindEnv("providers.anthropic.api_key", "ANTHROPIC_API_KEY")
	v.BindEnv("providers.openai.api_key", "OPENAI_API_KEY")

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Default returns a Config with default values and no file input.
func Default() *Config {
	v := viper.New()
	setDefaults(v)
	cfg := &Config{}
	// Defaults always unmarshal cleanly.
	_ = v.Unmarshal(cfg)
	return cfg
}

func (c *Config) validate() error {
	if c.PrimaryProvider == "" {
		return fmt.Errorf("config: primary_provider is required")
	}
	if _, ok := c.Providers[c.PrimaryProvider]; !ok {
		return fmt.Errorf("config: primary_provider %q has no provider entry", c.PrimaryProvider)
	}
	for _, name := range c.FallbackOrder {
		if _, ok := c.Providers[name]; !ok {
			return fmt.Errorf("config: fallback provider %q has no provider entry", name)
		}
	}
	if c.RoundTable.MaxRounds < 1 {
		return fmt.Errorf("config: round_table.max_rounds must be >= 1")
	}
	if c.Reactive.EventCap < 1 {
		return fmt.Errorf("config: reactive.event_cap must be >= 1")
	}
	return nil
}

// setDefaults configures default values.
func setDefaults(v *viper.Viper) {
	v.SetDefault("roster_path", "team.yaml")

	v.SetDefault("primary_provider", "anthropic")
	v.SetDefault("fallback_enabled", true)
	v.SetDefault("fallback_order", []string{"openai", "ollama"})

	v.SetDefault("providers.anthropic.model", "claude-sonnet-4-20250514")
	v.SetDefault("providers.anthropic.max_tokens", 1024)
	v.SetDefault("providers.anthropic.temperature", 0.7)
	v.SetDefault("providers.anthropic.timeout", "30s")

	v.SetDefault("providers.openai.model", "gpt-4o-mini")
	v.SetDefault("providers.openai.max_tokens", 1024)
	v.SetDefault("providers.openai.temperature", 0.7)
	v.SetDefault("providers.openai.timeout", "30s")

	v.SetDefault("providers.ollama.model", "llama3")
	v.SetDefault("providers.ollama.base_url", "http://localhost:11434")
	v.SetDefault("providers.ollama.timeout", "60s")

	v.SetDefault("response_parsing.preferred_format", "json")
	v.SetDefault("response_parsing.fallback_to_text_parsing", true)
	v.SetDefault("response_parsing.max_response_length", 8192)

	v.SetDefault("cost_tracking.enabled", true)
	v.SetDefault("cost_tracking.daily_limit_usd", 5.0)

	v.SetDefault("round_table.max_rounds", 3)
	v.SetDefault("reactive.event_cap", 50)
}
