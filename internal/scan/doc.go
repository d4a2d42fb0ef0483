// Package scan layers file- and tree-level scanning on top of the matcher.
//
// Strategy scans a single document: it identifies the overall best license
// and, in optimize mode, repeatedly narrows line bounds to locate license
// texts embedded in larger files (a README with a license appendix, a
// COPYING file holding two licenses back to back), whiting out each find
// before searching the remainder.
//
// Walker applies a Strategy across a source tree, picking out candidate
// files by name and scanning them concurrently.
package scan
