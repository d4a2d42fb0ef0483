// Package textdiff explains an imperfect license match as a line-level
// alignment between the reference text and the query.
//
// The alignment runs diffmatchpatch in line mode, which maps each distinct
// line to a rune and diffs the rune strings, giving a longest-common-
// subsequence alignment over whole lines. Output is deterministic and
// round-trippable: the Same and Removed lines in order reproduce the
// reference, the Same and Added lines in order reproduce the query.
package textdiff
