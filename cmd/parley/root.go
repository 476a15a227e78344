package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/parleyhq/parley/internal/config"
	"github.com/parleyhq/parley/internal/engine"
	"github.com/parleyhq/parley/internal/manager"
	"github.com/parleyhq/parley/internal/provider"
	"github.com/parleyhq/parley/internal/roster"
)

var (
	configPath string
	rosterPath string
)

var rootCmd = &cobra.Command{
	Use:   "parley",
	Short: "Multi-architecture agent team orchestrator",
	Long: `Parley processes work items through a configurable team of AI agents,
using interchangeable coordination architectures:

  sequential   - pipeline hand-off, each agent builds on prior analysis
  round_table  - concurrent discussion rounds until consensus stabilizes
  reactive     - event-driven, agents react to each other's findings
  hierarchical - bottom-up analysis with decisions approved up the chain

Provider calls fall back through the configured chain; when every provider
fails, a deterministic template response keeps the run moving.`,
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to parley.yaml (defaults to built-in config)")
	rootCmd.PersistentFlags().StringVar(&rosterPath, "roster", "", "Path to the team roster YAML (overrides config)")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(architecturesCmd)
	rootCmd.AddCommand(versionCmd)
}

// loadConfig resolves the effective configuration from flags.
func loadConfig() (*config.Config, error) {
	if configPath == "" {
		cfg := config.Default()
		if rosterPath != "" {
			cfg.RosterPath = rosterPath
		}
		return cfg, nil
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if rosterPath != "" {
		cfg.RosterPath = rosterPath
	}
	return cfg, nil
}

// buildManager wires the roster, gateway and every engine into a manager.
func buildManager() (*manager.Manager, *provider.Gateway, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, fmt.Errorf("loading config: %w", err)
	}

	team, err := roster.Load(cfg.RosterPath)
	if err != nil {
		return nil, nil, fmt.Errorf("loading roster: %w", err)
	}

	gw := provider.NewGateway(cfg)

	mgr := manager.New()
	mgr.Register(engine.NewSequential(team, gw))
	mgr.Register(engine.NewRoundTable(team, gw, cfg.RoundTable.MaxRounds))
	mgr.Register(engine.NewReactive(team, gw, cfg.Reactive.EventCap))
	mgr.Register(engine.NewHierarchical(team, gw))
	return mgr, gw, nil
}
