package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"writ/internal/corpus"
	"writ/internal/ledger"
	"writ/internal/logging"
	"writ/internal/scan"
)

func newScanCommand(ctx *commandContext) *cobra.Command {
	var optimize bool
	var changedOnly bool
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "scan <dir>",
		Short: "Scan a source tree for license files",
		Long: `Walk a directory tree, identify every license-candidate file against
the corpus, and record the outcome in the scan ledger.

Examples:
  writ scan .
  writ scan --optimize ~/src/project     # also locate licenses inside larger files
  writ scan --changed ~/src/project      # reuse results for unchanged files`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return fmt.Errorf("load configuration: %w", err)
			}
			store, err := ctx.ensureStore()
			if err != nil {
				return fmt.Errorf("load corpus: %w", err)
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return fmt.Errorf("setup logging: %w", err)
			}
			logger = logging.NewComponentLogger(logger, "scan")

			root, err := filepath.Abs(args[0])
			if err != nil {
				return fmt.Errorf("resolve scan root: %w", err)
			}

			strategy, err := scan.New(store, scan.Options{
				ConfidenceThreshold: cfg.Matching.MinScore,
				ShallowLimit:        cfg.Matching.ShallowLimit,
				Optimize:            optimize || cfg.Matching.Optimize,
				MaxPasses:           cfg.Matching.MaxPasses,
			})
			if err != nil {
				return err
			}

			led, err := ctx.openLedger()
			if err != nil {
				return fmt.Errorf("open ledger: %w", err)
			}
			defer led.Close()

			walkOpts := scan.WalkerOptions{
				Concurrency:  cfg.Scan.Concurrency,
				MaxFileBytes: cfg.Scan.MaxFileBytes,
				ExtraGlobs:   cfg.Scan.CandidateGlobs,
			}
			if changedOnly {
				walkOpts.Prior = func(path string, size int64, modTime time.Time) (scan.FileResult, bool) {
					prior, ok, lookupErr := led.PriorResult(cmd.Context(), path, size, modTime)
					if lookupErr != nil || !ok {
						return scan.FileResult{}, false
					}
					return scan.FileResult{LicenseID: prior.LicenseID, Score: prior.Score}, true
				}
			}
			walker := scan.NewWalker(strategy, walkOpts)

			var onResult func(scan.FileResult)
			var bar *progressbar.ProgressBar
			if !asJSON && isatty.IsTerminal(os.Stderr.Fd()) {
				bar = progressbar.NewOptions(-1,
					progressbar.OptionSetWriter(os.Stderr),
					progressbar.OptionSetDescription("scanning"),
					progressbar.OptionSpinnerType(14),
				)
				onResult = func(scan.FileResult) { _ = bar.Add(1) }
			}

			started := time.Now()
			results, err := walker.Walk(cmd.Context(), root, onResult)
			if bar != nil {
				_ = bar.Finish()
				fmt.Fprintln(os.Stderr)
			}
			if err != nil {
				return fmt.Errorf("scan %s: %w", root, err)
			}

			run, err := led.BeginRun(cmd.Context(), root, int(corpus.FormatVersion))
			if err != nil {
				return err
			}
			records := make([]ledger.Result, 0, len(results))
			matched := 0
			for _, result := range results {
				if result.LicenseID != "" {
					matched++
				}
				records = append(records, ledger.Result{
					Path:      result.Path,
					Size:      result.Size,
					ModTime:   result.ModTime,
					LicenseID: result.LicenseID,
					Score:     result.Score,
				})
			}
			if err := led.RecordResults(cmd.Context(), run.ID, records); err != nil {
				return err
			}
			if err := led.FinishRun(cmd.Context(), run.ID, len(results), matched); err != nil {
				return err
			}
			if _, err := led.PruneRuns(cmd.Context(), cfg.Scan.KeepRuns); err != nil {
				return err
			}

			logger.Info("scan finished", logging.Args(
				logging.String(logging.FieldRunID, run.ID),
				logging.String(logging.FieldPath, root),
				logging.Int("files", len(results)),
				logging.Int("matched", matched),
				logging.Duration("elapsed", time.Since(started)),
			)...)

			if asJSON {
				return writeJSON(cmd, scanOutput{RunID: run.ID, Root: root, Results: results})
			}
			return renderScanResults(cmd, root, run.ID, results, matched)
		},
	}

	cmd.Flags().BoolVar(&optimize, "optimize", false, "Locate licenses contained inside larger files")
	cmd.Flags().BoolVar(&changedOnly, "changed", false, "Reuse ledger results for files whose size and mtime are unchanged")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Emit results as JSON")

	return cmd
}

type scanOutput struct {
	RunID   string            `json:"run_id"`
	Root    string            `json:"root"`
	Results []scan.FileResult `json:"results"`
}

func renderScanResults(cmd *cobra.Command, root, runID string, results []scan.FileResult, matched int) error {
	out := cmd.OutOrStdout()
	if len(results) == 0 {
		fmt.Fprintf(out, "No license candidates found under %s\n", root)
		return nil
	}

	rows := make([][]string, 0, len(results))
	for _, result := range results {
		license := result.LicenseID
		if license == "" {
			license = "-"
		}
		rel, err := filepath.Rel(root, result.Path)
		if err != nil {
			rel = result.Path
		}
		rows = append(rows, []string{rel, license, formatScore(result.Score)})
	}
	fmt.Fprintln(out, renderTable([]string{"Path", "License", "Score"}, rows,
		[]columnAlignment{alignLeft, alignLeft, alignRight}))

	for _, result := range results {
		for _, contained := range result.Contained {
			rel, err := filepath.Rel(root, result.Path)
			if err != nil {
				rel = result.Path
			}
			fmt.Fprintf(out, "%s: contains %s at lines %d-%d (score %s)\n",
				rel, contained.License.Name, contained.StartLine+1, contained.EndLine, formatScore(contained.Score))
		}
	}

	fmt.Fprintf(out, "Scanned %d files, %d matched (run %s)\n", len(results), matched, shortID(runID))
	return nil
}
