package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/parleyhq/parley/internal/httpapi"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the orchestration API over HTTP",
	Long: `Start the JSON HTTP API.

Endpoints:
  GET  /architectures           List registered architectures
  POST /set_architecture        Switch the active architecture
  POST /process_with_agents     Process a task with the active architecture
  GET  /performance_comparison  Aggregate stats per architecture`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", ":8700", "Listen address")
}

func runServe(cmd *cobra.Command, args []string) error {
	mgr, _, err := buildManager()
	if err != nil {
		return err
	}

	fmt.Printf("%s Serving on %s (active architecture: %s)\n",
		color.GreenString("✓"), serveAddr, mgr.Active())
	return httpapi.New(mgr).ListenAndServe(serveAddr)
}
