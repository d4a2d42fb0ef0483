package ledger

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

//go:embed schema.sql
var schemaSQL string

// schemaVersion is bumped on any schema change. The ledger is a cache of
// scan history, so a mismatched database is reported rather than migrated;
// deleting it loses nothing that cannot be regenerated.
const schemaVersion = 1

// ErrSchemaMismatch indicates the ledger database was created by a build
// with a different schema version.
var ErrSchemaMismatch = errors.New("ledger schema version mismatch")

// Store manages scan history persistence backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// Open initializes or connects to the ledger database at path.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("ensure ledger directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: path}
	if err := store.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *Store) initSchema(ctx context.Context) error {
	var tableExists int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(1) FROM sqlite_master WHERE type='table' AND name='schema_version'",
	).Scan(&tableExists)
	if err != nil {
		return fmt.Errorf("check schema_version table: %w", err)
	}

	if tableExists == 0 {
		return s.createSchema(ctx)
	}

	var version int
	if err := s.db.QueryRowContext(ctx, "SELECT version FROM schema_version LIMIT 1").Scan(&version); err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}
	if version != schemaVersion {
		return fmt.Errorf("%w: database has version %d, expected %d (delete %s to reset)",
			ErrSchemaMismatch, version, schemaVersion, s.path)
	}
	return nil
}

func (s *Store) createSchema(ctx context.Context) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin schema tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "INSERT INTO schema_version (version) VALUES (?)", schemaVersion); err != nil {
		return fmt.Errorf("record schema version: %w", err)
	}
	return tx.Commit()
}

// BeginRun opens a new scan run and returns it.
func (s *Store) BeginRun(ctx context.Context, root string, corpusVersion int) (*Run, error) {
	run := &Run{
		ID:            uuid.NewString(),
		Root:          root,
		StartedAt:     time.Now().UTC(),
		CorpusVersion: corpusVersion,
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO scan_runs (id, root, started_at, corpus_version) VALUES (?, ?, ?, ?)`,
		run.ID, run.Root, run.StartedAt.Format(time.RFC3339Nano), run.CorpusVersion,
	)
	if err != nil {
		return nil, fmt.Errorf("insert scan run: %w", err)
	}
	return run, nil
}

// FinishRun closes a run with its final counters.
func (s *Store) FinishRun(ctx context.Context, runID string, filesScanned, filesMatched int) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE scan_runs SET finished_at = ?, files_scanned = ?, files_matched = ? WHERE id = ?`,
		time.Now().UTC().Format(time.RFC3339Nano), filesScanned, filesMatched, runID,
	)
	if err != nil {
		return fmt.Errorf("finish scan run: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("finish scan run rows: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("finish scan run: run %s not found", runID)
	}
	return nil
}

// RecordResults inserts a run's file results in one transaction.
func (s *Store) RecordResults(ctx context.Context, runID string, results []Result) error {
	if len(results) == 0 {
		return nil
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin results tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO scan_results (run_id, path, size_bytes, mod_time, license_id, score)
         VALUES (?, ?, ?, ?, ?, ?)`,
	)
	if err != nil {
		return fmt.Errorf("prepare result insert: %w", err)
	}
	defer stmt.Close()

	for _, result := range results {
		_, err := stmt.ExecContext(ctx,
			runID,
			result.Path,
			result.Size,
			result.ModTime.UTC().Format(time.RFC3339Nano),
			nullableString(result.LicenseID),
			result.Score,
		)
		if err != nil {
			return fmt.Errorf("insert result %s: %w", result.Path, err)
		}
	}
	return tx.Commit()
}

// ResultsForRun returns a run's file results ordered by path.
func (s *Store) ResultsForRun(ctx context.Context, runID string) ([]Result, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT run_id, path, size_bytes, mod_time, license_id, score
         FROM scan_results WHERE run_id = ? ORDER BY path`,
		runID,
	)
	if err != nil {
		return nil, fmt.Errorf("query results: %w", err)
	}
	defer rows.Close()

	var results []Result
	for rows.Next() {
		result, err := scanResult(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, result)
	}
	return results, rows.Err()
}

// RecentRuns returns the most recently started runs, newest first.
func (s *Store) RecentRuns(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, root, started_at, finished_at, files_scanned, files_matched, corpus_version
         FROM scan_runs ORDER BY started_at DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var run Run
		var startedAt string
		var finishedAt sql.NullString
		if err := rows.Scan(&run.ID, &run.Root, &startedAt, &finishedAt,
			&run.FilesScanned, &run.FilesMatched, &run.CorpusVersion); err != nil {
			return nil, fmt.Errorf("scan run row: %w", err)
		}
		run.StartedAt, err = time.Parse(time.RFC3339Nano, startedAt)
		if err != nil {
			return nil, fmt.Errorf("parse started_at: %w", err)
		}
		if finishedAt.Valid {
			parsed, err := time.Parse(time.RFC3339Nano, finishedAt.String)
			if err != nil {
				return nil, fmt.Errorf("parse finished_at: %w", err)
			}
			run.FinishedAt = &parsed
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// PriorResult returns the most recent recorded result for a path whose
// size and modification time still match, so unchanged files can reuse
// their previous identification.
func (s *Store) PriorResult(ctx context.Context, path string, size int64, modTime time.Time) (*Result, bool, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT r.run_id, r.path, r.size_bytes, r.mod_time, r.license_id, r.score
         FROM scan_results r
         JOIN scan_runs s ON s.id = r.run_id
         WHERE r.path = ? AND r.size_bytes = ? AND r.mod_time = ?
         ORDER BY s.started_at DESC LIMIT 1`,
		path, size, modTime.UTC().Format(time.RFC3339Nano),
	)
	result, err := scanResult(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return &result, true, nil
}

// PruneRuns deletes all but the newest keep runs, cascading to their
// results.
func (s *Store) PruneRuns(ctx context.Context, keep int) (int64, error) {
	if keep < 0 {
		keep = 0
	}
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM scan_runs WHERE id NOT IN (
            SELECT id FROM scan_runs ORDER BY started_at DESC LIMIT ?
         )`,
		keep,
	)
	if err != nil {
		return 0, fmt.Errorf("prune runs: %w", err)
	}
	return res.RowsAffected()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanResult(row rowScanner) (Result, error) {
	var result Result
	var modTime string
	var licenseID sql.NullString
	if err := row.Scan(&result.RunID, &result.Path, &result.Size, &modTime, &licenseID, &result.Score); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Result{}, err
		}
		return Result{}, fmt.Errorf("scan result row: %w", err)
	}
	parsed, err := time.Parse(time.RFC3339Nano, modTime)
	if err != nil {
		return Result{}, fmt.Errorf("parse mod_time: %w", err)
	}
	result.ModTime = parsed
	result.LicenseID = licenseID.String
	return result, nil
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}
