package textnorm

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// copyrightPatterns matches attribution lines that are stripped before
// tokenization. These vary per project (holder names, year lists) and carry
// no signal about which license the text is.
//
// The exact pattern set is a tuning knob; widening it trades a little
// precision on pathological inputs for robustness against reworded headers.
var copyrightPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)^\s*copyright\b`),
	regexp.MustCompile(`(?i)^\s*(\(c\)|©)\s`),
	regexp.MustCompile(`(?i)\ball rights reserved\b`),
	regexp.MustCompile(`^\s*(19|20)\d\d([,\s-]+(19|20)\d\d)*\s*$`),
}

// typographicReplacer folds common typographic characters to their ASCII
// equivalents so smart-quoted or dash-heavy reformattings of the same
// license normalize identically.
var typographicReplacer = strings.NewReplacer(
	"‘", "'",
	"’", "'",
	"“", `"`,
	"”", `"`,
	"–", "-",
	"—", "-",
	"…", "...",
	" ", " ",
)

// Lines splits raw text into lines, tolerating CRLF endings.
func Lines(raw string) []string {
	if raw == "" {
		return nil
	}
	lines := strings.Split(raw, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSuffix(line, "\r")
	}
	return lines
}

// Tokens normalizes raw text into a token stream. Empty or whitespace-only
// input yields an empty slice, which callers must treat as "no content"
// rather than attempting a match.
func Tokens(raw string) []string {
	return tokensForLines(Lines(raw))
}

// IsCopyrightLine reports whether a line matches one of the attribution
// heuristics and would be dropped during normalization.
func IsCopyrightLine(line string) bool {
	for _, pattern := range copyrightPatterns {
		if pattern.MatchString(line) {
			return true
		}
	}
	return false
}

func tokensForLines(lines []string) []string {
	var b strings.Builder
	for _, line := range lines {
		if IsCopyrightLine(line) {
			continue
		}
		b.WriteString(line)
		b.WriteByte('\n')
	}

	folded := norm.NFKC.String(typographicReplacer.Replace(b.String()))
	folded = strings.ToLower(folded)

	mapped := strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return r
		}
		return ' '
	}, folded)

	return strings.Fields(mapped)
}
