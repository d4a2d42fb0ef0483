package textdiff

import (
	"reflect"
	"strings"
	"testing"
)

func TestLinesIdenticalTexts(t *testing.T) {
	text := "one\ntwo\nthree"
	for _, line := range Lines(text, text) {
		if line.Op != OpSame {
			t.Errorf("line %q has op %v, want OpSame", line.Text, line.Op)
		}
	}
}

func TestLinesAddedAndRemoved(t *testing.T) {
	reference := "alpha\nbeta\ngamma"
	query := "alpha\ndelta\ngamma"

	var added, removed []string
	for _, line := range Lines(reference, query) {
		switch line.Op {
		case OpAdded:
			added = append(added, line.Text)
		case OpRemoved:
			removed = append(removed, line.Text)
		}
	}
	if !reflect.DeepEqual(removed, []string{"beta"}) {
		t.Errorf("removed = %v, want [beta]", removed)
	}
	if !reflect.DeepEqual(added, []string{"delta"}) {
		t.Errorf("added = %v, want [delta]", added)
	}
}

func TestLinesRoundTrip(t *testing.T) {
	tests := []struct {
		name      string
		reference string
		query     string
	}{
		{
			name:      "middle line replaced",
			reference: "a\nb\nc\nd",
			query:     "a\nx\nc\nd",
		},
		{
			name:      "line deleted",
			reference: "a\nb\nc",
			query:     "a\nc",
		},
		{
			name:      "line inserted",
			reference: "a\nc",
			query:     "a\nb\nc",
		},
		{
			name:      "blank lines preserved",
			reference: "a\n\nb\n\nc",
			query:     "a\n\nc",
		},
		{
			name:      "disjoint texts",
			reference: "one\ntwo",
			query:     "three\nfour",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			diff := Lines(tt.reference, tt.query)

			var refLines, queryLines []string
			for _, line := range diff {
				if line.Op == OpSame || line.Op == OpRemoved {
					refLines = append(refLines, line.Text)
				}
				if line.Op == OpSame || line.Op == OpAdded {
					queryLines = append(queryLines, line.Text)
				}
			}
			if got := strings.Join(refLines, "\n"); got != tt.reference {
				t.Errorf("reference reconstruction = %q, want %q", got, tt.reference)
			}
			if got := strings.Join(queryLines, "\n"); got != tt.query {
				t.Errorf("query reconstruction = %q, want %q", got, tt.query)
			}
		})
	}
}

func TestLinesDeterministic(t *testing.T) {
	reference := "shared\nremoved one\nshared two\nremoved two"
	query := "shared\nadded one\nshared two"
	first := Lines(reference, query)
	second := Lines(reference, query)
	if !reflect.DeepEqual(first, second) {
		t.Error("diff output is not deterministic")
	}
}

func TestOpString(t *testing.T) {
	if OpSame.String() != " " || OpAdded.String() != "+" || OpRemoved.String() != "-" {
		t.Errorf("unexpected op prefixes: %q %q %q", OpSame, OpAdded, OpRemoved)
	}
}
