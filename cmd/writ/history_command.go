package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"
)

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var limit int
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "history [run-id]",
		Short: "Show recorded scan runs",
		Long: `Without arguments, list the most recent scan runs. With a run id,
show that run's per-file results.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			led, err := ctx.openLedger()
			if err != nil {
				return fmt.Errorf("open ledger: %w", err)
			}
			defer led.Close()

			if len(args) == 1 {
				results, err := led.ResultsForRun(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				if asJSON {
					return writeJSON(cmd, results)
				}
				if len(results) == 0 {
					fmt.Fprintf(cmd.OutOrStdout(), "No results recorded for run %s\n", args[0])
					return nil
				}
				rows := make([][]string, 0, len(results))
				for _, result := range results {
					license := result.LicenseID
					if license == "" {
						license = "-"
					}
					rows = append(rows, []string{result.Path, license, formatScore(result.Score)})
				}
				fmt.Fprintln(cmd.OutOrStdout(), renderTable(
					[]string{"Path", "License", "Score"}, rows,
					[]columnAlignment{alignLeft, alignLeft, alignRight}))
				return nil
			}

			runs, err := led.RecentRuns(cmd.Context(), limit)
			if err != nil {
				return err
			}
			if asJSON {
				return writeJSON(cmd, runs)
			}
			if len(runs) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No scan runs recorded")
				return nil
			}
			rows := make([][]string, 0, len(runs))
			for _, run := range runs {
				finished := "running"
				if run.FinishedAt != nil {
					finished = run.FinishedAt.Sub(run.StartedAt).Round(time.Millisecond).String()
				}
				rows = append(rows, []string{
					run.ID,
					run.Root,
					run.StartedAt.Local().Format("2006-01-02 15:04:05"),
					finished,
					strconv.Itoa(run.FilesScanned),
					strconv.Itoa(run.FilesMatched),
				})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"Run", "Root", "Started", "Took", "Files", "Matched"}, rows,
				[]columnAlignment{alignLeft, alignLeft, alignLeft, alignRight, alignRight, alignRight}))
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 10, "Number of runs to list")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Emit history as JSON")

	return cmd
}
