package textnorm

import (
	"strings"

	"writ/internal/ngram"
)

// Document couples a text's lines with the tokens and shingle set derived
// from the current line view. Documents are values: View and WhiteOut
// return new Documents and never mutate the receiver, so a Document can be
// shared across concurrent matches.
type Document struct {
	lines    []string
	start    int
	end      int
	tokens   []string
	shingles ngram.Set
}

// NewDocument normalizes raw text into a Document viewing every line.
func NewDocument(raw string) Document {
	lines := Lines(raw)
	tokens := tokensForLines(lines)
	return Document{
		lines:    lines,
		start:    0,
		end:      len(lines),
		tokens:   tokens,
		shingles: ngram.New(tokens, ngram.Width),
	}
}

// RestoreDocument rebuilds a Document from a cached token stream and
// shingle set without re-normalizing, preserving whatever normalization
// rules were in effect when the cache was written.
func RestoreDocument(raw string, tokens []string, shingles ngram.Set) Document {
	lines := Lines(raw)
	return Document{
		lines:    lines,
		start:    0,
		end:      len(lines),
		tokens:   tokens,
		shingles: shingles,
	}
}

// Tokens returns the normalized tokens of the current view. The returned
// slice must not be modified.
func (d Document) Tokens() []string {
	return d.tokens
}

// Shingles returns the shingle set of the current view.
func (d Document) Shingles() ngram.Set {
	return d.shingles
}

// Lines returns the lines inside the current view. The returned slice must
// not be modified.
func (d Document) Lines() []string {
	return d.lines[d.start:d.end]
}

// LineCount returns the total number of lines in the underlying text,
// regardless of the current view.
func (d Document) LineCount() int {
	return len(d.lines)
}

// LineView returns the current view as a 0-indexed [start, end) line range
// into the underlying text.
func (d Document) LineView() (start, end int) {
	return d.start, d.end
}

// View returns a new Document restricted to the [start, end) line range of
// the underlying text, with tokens and shingles re-derived from that range.
// Out-of-range bounds are clamped.
func (d Document) View(start, end int) Document {
	if start < 0 {
		start = 0
	}
	if end > len(d.lines) {
		end = len(d.lines)
	}
	if start > end {
		start = end
	}
	tokens := tokensForLines(d.lines[start:end])
	return Document{
		lines:    d.lines,
		start:    start,
		end:      end,
		tokens:   tokens,
		shingles: ngram.New(tokens, ngram.Width),
	}
}

// WhiteOut blanks the lines of the current view and returns a Document over
// the full remaining text. The scan strategy uses this to remove an
// identified license before searching the rest of a file for more.
func (d Document) WhiteOut() Document {
	lines := make([]string, len(d.lines))
	copy(lines, d.lines)
	for i := d.start; i < d.end; i++ {
		lines[i] = ""
	}
	tokens := tokensForLines(lines)
	return Document{
		lines:    lines,
		start:    0,
		end:      len(lines),
		tokens:   tokens,
		shingles: ngram.New(tokens, ngram.Width),
	}
}

// Text reassembles the lines of the current view.
func (d Document) Text() string {
	return strings.Join(d.Lines(), "\n")
}
