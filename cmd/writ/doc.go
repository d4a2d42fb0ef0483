// Package main hosts the writ CLI entrypoint and command graph.
//
// The Cobra-based command tree translates terminal invocations into corpus
// lookups, single-text identification, tree scans, cache maintenance, and
// scan-history queries. It centralizes configuration resolution, corpus
// loading, and structured logging setup so subcommands can focus on user
// experience instead of wiring.
//
// Keep this package lean: add new functionality by extending the internal
// packages first, then surface it through dedicated commands or flags here.
package main
