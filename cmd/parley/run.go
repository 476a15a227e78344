package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/parleyhq/parley/pkg/models"
)

var (
	runDescription   string
	runPriority      string
	runTaskID        string
	runTaskFile      string
	runArchNames     []string
)

var runCmd = &cobra.Command{
	Use:   "run [title]",
	Short: "Process a task through the agent team",
	Long: `Process a task through the agent team using one or more coordination
architectures.

The task comes from the positional title plus flags, or from a JSON file
via --file. With a single --arch the result is printed in full; with
several, each architecture runs in turn and a performance comparison is
printed at the end.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runTask,
}

func init() {
	runCmd.Flags().StringVarP(&runDescription, "description", "d", "", "Detailed task description")
	runCmd.Flags().StringVarP(&runPriority, "priority", "p", string(models.PriorityMedium), "Task priority (low, medium, high, critical)")
	runCmd.Flags().StringVar(&runTaskID, "id", "", "Task id (generated when empty)")
	runCmd.Flags().StringVarP(&runTaskFile, "file", "f", "", "Read the task from a JSON file instead of flags")
	runCmd.Flags().StringSliceVarP(&runArchNames, "arch", "a", nil, "Architecture to use (repeatable; default: sequential)")
}

func runTask(cmd *cobra.Command, args []string) error {
	task, err := taskFromInput(args)
	if err != nil {
		return err
	}

	mgr, gw, err := buildManager()
	if err != nil {
		return err
	}

	archs := runArchNames
	if len(archs) == 0 {
		archs = []string{mgr.Active()}
	}

	ctx := context.Background()
	for _, arch := range archs {
		if err := mgr.SetArchitecture(arch); err != nil {
			return err
		}

		fmt.Printf("\n%s Processing %q with %s\n\n",
			color.CyanString("▶"), task.Title, color.New(color.Bold).Sprint(arch))

		result := mgr.ProcessTask(ctx, task)
		printResult(result)
	}

	if len(archs) > 1 {
		printComparison(mgr.ComparePerformance())
	}

	input, output := gw.Costs().Total()
	if calls := gw.Costs().Calls(); calls > 0 {
		fmt.Printf("\nProvider usage: %d calls, %d input / %d output tokens ($%.4f)\n",
			calls, input, output, gw.Costs().Cost())
	}
	return nil
}

// taskFromInput builds the task from --file or from the title and flags.
func taskFromInput(args []string) (models.Task, error) {
	var task models.Task

	if runTaskFile != "" {
		data, err := os.ReadFile(runTaskFile)
		if err != nil {
			return task, fmt.Errorf("reading task file: %w", err)
		}
		if err := json.Unmarshal(data, &task); err != nil {
			return task, fmt.Errorf("parsing task file: %w", err)
		}
	} else {
		if len(args) == 0 {
			return task, fmt.Errorf("a task title or --file is required")
		}
		task = models.Task{
			Title:       args[0],
			Description: runDescription,
			Priority:    models.Priority(runPriority),
		}
	}

	if runTaskID != "" {
		task.TaskID = runTaskID
	}
	if task.TaskID == "" {
		task.TaskID = uuid.New().String()
	}
	if task.Priority == "" {
		task.Priority = models.PriorityMedium
	}
	if !task.Priority.Valid() {
		return task, fmt.Errorf("unknown priority %q", task.Priority)
	}
	if task.Title == "" {
		return task, fmt.Errorf("task title must not be empty")
	}
	return task, nil
}

func printResult(result *models.ArchitectureResult) {
	for _, resp := range result.Responses {
		printResponse(resp)
	}

	for _, round := range result.Rounds {
		fmt.Printf("%s Round %d: %s\n", color.CyanString("●"), round.RoundNumber, round.Topic)
		for _, id := range sortedContributors(round) {
			printResponse(round.Contributions[id])
		}
		if len(round.ConsensusItems) > 0 {
			fmt.Printf("  %s Consensus: %s\n", color.GreenString("✓"), strings.Join(round.ConsensusItems, "; "))
		}
	}

	if len(result.Events) > 0 {
		fmt.Printf("%s %d events processed\n", color.CyanString("●"), len(result.Events))
		for _, ev := range result.Events {
			fmt.Printf("  %3d. %-22s from %s\n", ev.SequenceNumber, ev.Type, ev.SourceAgent)
		}
	}

	for _, d := range result.Decisions {
		symbol := color.YellowString("●")
		if d.Status == models.DecisionApproved {
			symbol = color.GreenString("✓")
		}
		fmt.Printf("%s [%s] %s (by %s, status %s)\n", symbol, d.Type, d.Description, d.ProposedBy, d.Status)
	}

	if result.Success {
		fmt.Printf("\n%s Completed in %.2fs\n", color.GreenString("✓"), result.ProcessingTimeSeconds)
	} else {
		fmt.Printf("\n%s Completed degraded in %.2fs: %s\n",
			color.RedString("✗"), result.ProcessingTimeSeconds, result.ErrorMessage)
	}
}

func printResponse(resp models.AgentResponse) {
	symbol := color.GreenString("✓")
	if !resp.Succeeded {
		symbol = color.YellowString("⚠")
	}
	fmt.Printf("%s %s (%s)\n", symbol, color.New(color.Bold).Sprint(resp.Role), resp.ProviderUsed)
	fmt.Printf("  %s\n", firstLine(resp.ResponseText))
	for _, c := range resp.Concerns {
		fmt.Printf("  %s %s\n", color.YellowString("⚠"), c)
	}
	for _, r := range resp.Recommendations {
		fmt.Printf("  %s %s\n", color.CyanString("→"), r)
	}
}

func printComparison(stats map[string]models.ArchitectureStats) {
	fmt.Printf("\n%s Performance comparison\n", color.New(color.Bold).Sprint("▶"))
	for name, s := range stats {
		fmt.Printf("  %-13s %d runs, avg %.2fs, %.0f%% success\n",
			name, s.Runs, s.AvgDurationSeconds, s.SuccessRate*100)
	}
}

// sortedContributors returns contribution keys in a stable order.
func sortedContributors(round models.DiscussionRound) []string {
	ids := make([]string, 0, len(round.Contributions))
	for id := range round.Contributions {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
