// Run command executes a tool as a child process in a fresh RunDir.
package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/venueforge/venuekit/internal/history"
	"github.com/venueforge/venuekit/internal/installer"
	"github.com/venueforge/venuekit/internal/runner"
	"github.com/venueforge/venuekit/pkg/types"
)

var runCmd = &cobra.Command{
	Use:   "run <tool> [-- tool-args...]",
	Short: "Run a tool from the manifest",
	Long: `Run installs the manifest version of the tool if needed, creates a
fresh run directory with the shared toolkit context, and executes the
tool as a child process. Output is streamed to the console and kept in
run.log; a report.json left by the tool is recorded in run history.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTool(cmd.Context(), args[0], args[1:])
	},
}

// runTool is the shared run path used by `run` and `menu`.
func runTool(ctx context.Context, name string, extraArgs []string) error {
	m, err := requireManifest()
	if err != nil {
		return err
	}
	tool, err := findTool(m, name)
	if err != nil {
		return err
	}

	if tool.RequiresDB && !cfg.Database.Configured() {
		return fmt.Errorf("%s needs the POS database; configure database.driver and dsn: %w",
			tool.Name, types.ErrDSNEmpty)
	}

	if tool.Confirm {
		prompt := fmt.Sprintf("Run %s@%s against this venue?", tool.Name, tool.Version)
		if !confirm(prompt) {
			return errAborted
		}
	}

	st, err := loadState()
	if err != nil {
		return err
	}
	inst := installer.New(dataDir, cfg.HTTPTimeout)
	installed, err := inst.Ensure(ctx, tool, st)
	if err != nil {
		return err
	}

	r := runner.New(dataDir, cfg.Database)
	record, err := r.Run(ctx, tool, installed, extraArgs)
	if err != nil {
		return err
	}

	if err := withHistory(func(store *history.Store) error {
		return store.Record(record)
	}); err != nil {
		return err
	}

	printRunResult(record)
	if record.Status != types.RunStatusOK {
		return fmt.Errorf("%w: %s exited with code %d", errToolFailed, tool.Name, record.ExitCode)
	}
	return nil
}

// printRunResult summarizes a finished run on the console.
func printRunResult(record *types.RunRecord) {
	fmt.Printf("\nrun %s finished: %s (exit %d, %s)\n",
		record.RunID, record.Status, record.ExitCode,
		record.FinishedAt.Sub(record.StartedAt).Round(timeRounding))
	if record.Report != nil && record.Report.Summary != "" {
		fmt.Println("report:", record.Report.Summary)
	}
}
