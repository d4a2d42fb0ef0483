// Package logging builds slog loggers with writ's console and JSON
// handlers, plus small helpers for standardized attribute keys.
//
// The CLI logs to stderr so command output on stdout stays parseable.
package logging
