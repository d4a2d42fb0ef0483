// Package ledger persists scan history in SQLite.
//
// Each invocation of a tree scan opens a run, records one row per
// candidate file, and closes the run with its counters. The history makes
// two things cheap: listing what past scans found, and skipping files
// whose size and modification time have not changed since the last run.
package ledger
