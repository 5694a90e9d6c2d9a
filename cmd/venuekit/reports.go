// Reports commands list run history and show individual run reports.
package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/venueforge/venuekit/internal/history"
	"github.com/venueforge/venuekit/internal/paths"
	"github.com/venueforge/venuekit/pkg/types"
)

var (
	flagReportsTool  string
	flagReportsLimit int
)

var reportsCmd = &cobra.Command{
	Use:   "reports",
	Short: "List past tool runs",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withHistory(func(store *history.Store) error {
			records, err := store.List(flagReportsTool, flagReportsLimit)
			if err != nil {
				return err
			}

			if flagJSON {
				return printJSON(records)
			}

			if len(records) == 0 {
				fmt.Println("no runs recorded")
				return nil
			}
			fmt.Printf("%-38s %-20s %-10s %-8s %s\n", "RUN", "TOOL", "VERSION", "STATUS", "STARTED")
			for _, rec := range records {
				fmt.Printf("%-38s %-20s %-10s %-8s %s\n",
					rec.RunID, rec.Tool, rec.ToolVersion, rec.Status,
					rec.StartedAt.Local().Format("2006-01-02 15:04:05"))
			}
			return nil
		})
	},
}

var reportsShowCmd = &cobra.Command{
	Use:   "show <run-id>",
	Short: "Show one run's record and report",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withHistory(func(store *history.Store) error {
			rec, err := store.Get(args[0])
			if err != nil {
				return err
			}

			if flagJSON {
				return printJSON(rec)
			}

			fmt.Println("run:     ", rec.RunID)
			fmt.Println("tool:    ", rec.Tool+"@"+rec.ToolVersion)
			fmt.Println("status:  ", rec.Status, "(exit", fmt.Sprint(rec.ExitCode)+")")
			fmt.Println("started: ", rec.StartedAt.Local().Format("2006-01-02 15:04:05"))
			fmt.Println("duration:", rec.FinishedAt.Sub(rec.StartedAt).Round(timeRounding))
			fmt.Println("log:     ", filepath.Join(paths.RunsDir(dataDir), rec.RunID, types.RunLogFileName))
			if rec.Report != nil {
				fmt.Println("report:")
				return printJSON(rec.Report)
			}
			fmt.Println("report:   (none)")
			return nil
		})
	},
}

func init() {
	reportsCmd.Flags().StringVar(&flagReportsTool, "tool", "", "filter by tool name")
	reportsCmd.Flags().IntVar(&flagReportsLimit, "limit", 20, "maximum runs to list (0 for all)")
	reportsCmd.AddCommand(reportsShowCmd)
}
