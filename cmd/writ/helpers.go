package main

import "fmt"

// formatScore renders a confidence score with enough precision to tell a
// near-perfect match from an exact one.
func formatScore(score float64) string {
	if score == 1 {
		return "1.000"
	}
	return fmt.Sprintf("%.3f", score)
}

// shortID abbreviates a run UUID for one-line summaries.
func shortID(id string) string {
	if len(id) <= 8 {
		return id
	}
	return id[:8]
}
