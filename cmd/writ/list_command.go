package main

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/agnivade/levenshtein"
	"github.com/spf13/cobra"

	"writ/internal/corpus"
)

func newListCommand(ctx *commandContext) *cobra.Command {
	var find string
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the licenses in the active corpus",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := ctx.ensureStore()
			if err != nil {
				return fmt.Errorf("load corpus: %w", err)
			}

			if name := strings.TrimSpace(find); name != "" {
				return renderNearest(cmd, store, name)
			}

			if asJSON {
				entries := make([]listEntry, 0, store.Len())
				for _, entry := range store.Entries() {
					entries = append(entries, listEntry{
						ID:       entry.ID,
						Kind:     string(entry.Kind),
						Aliases:  entry.Aliases,
						Shingles: entry.Doc.Shingles().Len(),
					})
				}
				return writeJSON(cmd, entries)
			}

			rows := make([][]string, 0, store.Len())
			for _, entry := range store.Entries() {
				rows = append(rows, []string{
					entry.ID,
					string(entry.Kind),
					strings.Join(entry.Aliases, ", "),
					strconv.Itoa(entry.Doc.Shingles().Len()),
				})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"ID", "Kind", "Aliases", "Shingles"}, rows,
				[]columnAlignment{alignLeft, alignLeft, alignLeft, alignRight}))
			return nil
		},
	}

	cmd.Flags().StringVar(&find, "find", "", "Show the corpus names closest to this one")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Emit the listing as JSON")

	return cmd
}

type listEntry struct {
	ID       string   `json:"id"`
	Kind     string   `json:"kind"`
	Aliases  []string `json:"aliases,omitempty"`
	Shingles int      `json:"shingles"`
}

// renderNearest ranks every id and alias by edit distance to the query, so
// a near-miss like "Apche-2.0" still points at the intended entry.
func renderNearest(cmd *cobra.Command, store *corpus.Store, name string) error {
	type nearest struct {
		name     string
		id       string
		distance int
	}

	var candidates []nearest
	for _, entry := range store.Entries() {
		candidates = append(candidates, nearest{
			name:     entry.ID,
			id:       entry.ID,
			distance: levenshtein.ComputeDistance(strings.ToLower(name), strings.ToLower(entry.ID)),
		})
		for _, alias := range entry.Aliases {
			candidates = append(candidates, nearest{
				name:     alias,
				id:       entry.ID,
				distance: levenshtein.ComputeDistance(strings.ToLower(name), strings.ToLower(alias)),
			})
		}
	}
	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].distance != candidates[j].distance {
			return candidates[i].distance < candidates[j].distance
		}
		return candidates[i].name < candidates[j].name
	})

	limit := 5
	if len(candidates) < limit {
		limit = len(candidates)
	}
	rows := make([][]string, 0, limit)
	for _, c := range candidates[:limit] {
		rows = append(rows, []string{c.name, c.id, strconv.Itoa(c.distance)})
	}
	fmt.Fprintln(cmd.OutOrStdout(), renderTable(
		[]string{"Name", "ID", "Distance"}, rows,
		[]columnAlignment{alignLeft, alignLeft, alignRight}))
	return nil
}
