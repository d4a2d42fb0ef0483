// Package textnorm canonicalizes raw license text before matching.
//
// Normalization lowercases, folds Unicode and typographic punctuation to
// ASCII, collapses everything that is not a letter or digit into whitespace,
// and drops copyright/attribution lines that vary per project and would
// otherwise dilute similarity scores. The result is a deterministic token
// stream: identical input always yields identical tokens and shingles.
//
// A Document bundles the source lines with their derived tokens and shingle
// set, and supports line-range views so callers can score a window of a
// larger text without re-reading the source.
package textnorm
