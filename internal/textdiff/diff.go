package textdiff

import (
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// Op tags a diff line.
type Op int

const (
	// OpSame marks a line present in both texts.
	OpSame Op = iota
	// OpAdded marks a line present only in the query.
	OpAdded
	// OpRemoved marks a line present only in the reference.
	OpRemoved
)

// String returns the conventional single-character prefix for the op.
func (o Op) String() string {
	switch o {
	case OpAdded:
		return "+"
	case OpRemoved:
		return "-"
	default:
		return " "
	}
}

// Line is a single line of an alignment, tagged with how it differs.
type Line struct {
	Op   Op
	Text string
}

// Lines aligns the reference and query texts line by line, with the
// reference as the baseline. It is a pure function over the two texts and
// is only worth calling for the single best match; aligning every corpus
// candidate would dwarf the cost of scoring.
func Lines(reference, query string) []Line {
	dmp := diffmatchpatch.New()
	refRunes, queryRunes, lineIndex := dmp.DiffLinesToChars(terminated(reference), terminated(query))
	diffs := dmp.DiffMain(refRunes, queryRunes, false)
	diffs = dmp.DiffCharsToLines(diffs, lineIndex)

	var out []Line
	for _, d := range diffs {
		op := OpSame
		switch d.Type {
		case diffmatchpatch.DiffInsert:
			op = OpAdded
		case diffmatchpatch.DiffDelete:
			op = OpRemoved
		}
		for _, text := range splitLines(d.Text) {
			out = append(out, Line{Op: op, Text: text})
		}
	}
	return out
}

// terminated guarantees a trailing newline so the line-mode diff treats the
// final line as a complete unit.
func terminated(text string) string {
	if text == "" || strings.HasSuffix(text, "\n") {
		return text
	}
	return text + "\n"
}

func splitLines(text string) []string {
	if text == "" {
		return nil
	}
	// Chunks from the line-mode diff end in a newline; a bare "\n" is one
	// empty line, not zero lines.
	text = strings.TrimSuffix(text, "\n")
	return strings.Split(text, "\n")
}
