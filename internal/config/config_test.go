package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.PrimaryProvider != "anthropic" {
		t.Errorf("PrimaryProvider = %q, want anthropic", cfg.PrimaryProvider)
	}
	if !cfg.FallbackEnabled {
		t.Error("FallbackEnabled should default to true")
	}
	if cfg.RoundTable.MaxRounds != 3 {
		t.Errorf("MaxRounds = %d, want 3", cfg.RoundTable.MaxRounds)
	}
	if cfg.Reactive.EventCap != 50 {
		t.Errorf("EventCap = %d, want 50", cfg.Reactive.EventCap)
	}
	if cfg.Providers["anthropic"].Timeout != 30*time.Second {
		t.Errorf("anthropic timeout = %v, want 30s", cfg.Providers["anthropic"].Timeout)
	}
	if cfg.CostTracking.DailyLimitUSD != 5.0 {
		t.Errorf("DailyLimitUSD = %v, want 5.0", cfg.CostTracking.DailyLimitUSD)
	}
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "parley.yaml")
	content := `
primary_provider: ollama
fallback_enabled: false
fallback_order: []
round_table:
  max_rounds: 5
cost_tracking:
  enabled: false
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if cfg.PrimaryProvider != "ollama" {
		t.Errorf("PrimaryProvider = %q, want ollama", cfg.PrimaryProvider)
	}
	if cfg.FallbackEnabled {
		t.Error("FallbackEnabled should be false")
	}
	if cfg.RoundTable.MaxRounds != 5 {
		t.Errorf("MaxRounds = %d, want 5", cfg.RoundTable.MaxRounds)
	}
	if cfg.CostTracking.Enabled {
		t.Error("cost tracking should be disabled")
	}
	// Unset sections keep defaults.
	if cfg.Reactive.EventCap != 50 {
		t.Errorf("EventCap = %d, want default 50", cfg.Reactive.EventCap)
	}
}

func TestLoadRejectsUnknownPrimary(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "parley.yaml")
	if err := os.WriteFile(path, []byte("primary_provider: nope\n"), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := Load(path); err == nil {
		t.Error("Load should reject a primary provider without a provider entry")
	}
}

func TestResolveAPIKey(t *testing.T) {
	t.Setenv("PARLEY_TEST_KEY", "sk-from-env")

	p := Provider{APIKeyEnv: "PARLEY_TEST_KEY"}
	if got := p.ResolveAPIKey(); got != "sk-from-env" {
		t.Errorf("ResolveAPIKey = %q, want sk-from-env", got)
	}

	p = Provider{APIKey: "sk-literal", APIKeyEnv: "PARLEY_TEST_KEY"}
	if got := p.ResolveAPIKey(); got != "sk-literal" {
		t.Errorf("literal key should win, got %q", got)
	}

	p = Provider{}
	if got := p.ResolveAPIKey(); got != "" {
		t.Errorf("ResolveAPIKey = %q, want empty", got)
	}
}
