package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"writ/internal/match"
	"writ/internal/textdiff"
	"writ/internal/textnorm"
)

func newIdentifyCommand(ctx *commandContext) *cobra.Command {
	var minScore float64
	var showDiff bool
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "identify [path]",
		Short: "Identify the license of a single text",
		Long: `Identify a text against the reference corpus and report the closest
license with its confidence score. Reads from stdin when no path is given
or when the path is "-".

Examples:
  writ identify LICENSE
  cat COPYING | writ identify
  writ identify --min-score 0.75 --diff NOTICE`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return fmt.Errorf("load configuration: %w", err)
			}
			store, err := ctx.ensureStore()
			if err != nil {
				return fmt.Errorf("load corpus: %w", err)
			}

			text, err := readInput(cmd, args)
			if err != nil {
				return err
			}

			threshold := cfg.Matching.MinScore
			if cmd.Flags().Changed("min-score") {
				threshold = minScore
			}

			matcher, err := match.New(store, match.Options{MinScore: threshold})
			if err != nil {
				return err
			}
			result, err := matcher.Analyze(cmd.Context(), textnorm.NewDocument(text))
			if err != nil {
				return fmt.Errorf("analyze text: %w", err)
			}

			out := cmd.OutOrStdout()
			if result.ID == "" {
				if asJSON {
					if err := writeJSON(cmd, identifyOutput{Score: result.Score}); err != nil {
						return err
					}
					return errNoMatch
				}
				fmt.Fprintf(out, "No match above %.2f (best score %.3f)\n", threshold, result.Score)
				return errNoMatch
			}

			entry, _ := store.Get(result.ID)
			// A perfect score has nothing to explain.
			if showDiff && result.Score < 1 {
				result.Diff = textdiff.Lines(entry.Text, text)
			}

			if asJSON {
				output := identifyOutput{License: result.ID, Kind: string(entry.Kind), Score: result.Score}
				for _, line := range result.Diff {
					output.Diff = append(output.Diff, line.Op.String()+" "+line.Text)
				}
				return writeJSON(cmd, output)
			}

			fmt.Fprintf(out, "License: %s\n", result.ID)
			fmt.Fprintf(out, "Kind:    %s\n", entry.Kind)
			fmt.Fprintf(out, "Score:   %s\n", formatScore(result.Score))
			if len(result.Diff) > 0 {
				fmt.Fprintln(out)
				for _, line := range result.Diff {
					fmt.Fprintf(out, "%s %s\n", line.Op, line.Text)
				}
			}
			return nil
		},
	}

	cmd.Flags().Float64Var(&minScore, "min-score", 0, "Confidence threshold override (0 to 1)")
	cmd.Flags().BoolVar(&showDiff, "diff", false, "Show a line diff against the matched license")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Emit the result as JSON")

	return cmd
}

type identifyOutput struct {
	License string   `json:"license,omitempty"`
	Kind    string   `json:"kind,omitempty"`
	Score   float64  `json:"score"`
	Diff    []string `json:"diff,omitempty"`
}

func readInput(cmd *cobra.Command, args []string) (string, error) {
	if len(args) == 0 || args[0] == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return string(data), nil
	}
	path := strings.TrimSpace(args[0])
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", path, err)
	}
	return string(data), nil
}
