package ledger

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "ledger.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestRunLifecycle(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	run, err := store.BeginRun(ctx, "/src/project", 1)
	if err != nil {
		t.Fatalf("BeginRun: %v", err)
	}
	if run.ID == "" {
		t.Fatal("BeginRun returned empty id")
	}

	results := []Result{
		{Path: "/src/project/LICENSE", Size: 1069, ModTime: time.Now(), LicenseID: "MIT", Score: 1.0},
		{Path: "/src/project/sub/COPYING", Size: 522, ModTime: time.Now(), LicenseID: "", Score: 0.41},
	}
	if err := store.RecordResults(ctx, run.ID, results); err != nil {
		t.Fatalf("RecordResults: %v", err)
	}
	if err := store.FinishRun(ctx, run.ID, 2, 1); err != nil {
		t.Fatalf("FinishRun: %v", err)
	}

	runs, err := store.RecentRuns(ctx, 5)
	if err != nil {
		t.Fatalf("RecentRuns: %v", err)
	}
	if len(runs) != 1 {
		t.Fatalf("RecentRuns returned %d runs, want 1", len(runs))
	}
	if runs[0].FilesScanned != 2 || runs[0].FilesMatched != 1 {
		t.Errorf("run counters = (%d, %d), want (2, 1)", runs[0].FilesScanned, runs[0].FilesMatched)
	}
	if runs[0].FinishedAt == nil {
		t.Error("finished run has no finished_at")
	}

	stored, err := store.ResultsForRun(ctx, run.ID)
	if err != nil {
		t.Fatalf("ResultsForRun: %v", err)
	}
	if len(stored) != 2 {
		t.Fatalf("ResultsForRun returned %d results, want 2", len(stored))
	}
	if stored[0].LicenseID != "MIT" || stored[0].Score != 1.0 {
		t.Errorf("stored[0] = %+v, want MIT at 1.0", stored[0])
	}
	if stored[1].LicenseID != "" {
		t.Errorf("unmatched file round-tripped license %q, want empty", stored[1].LicenseID)
	}
}

func TestFinishRunUnknownID(t *testing.T) {
	store := openTestStore(t)
	if err := store.FinishRun(context.Background(), "no-such-run", 0, 0); err == nil {
		t.Error("FinishRun accepted unknown run id")
	}
}

func TestPriorResult(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	modTime := time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)
	run, err := store.BeginRun(ctx, "/src", 1)
	if err != nil {
		t.Fatalf("BeginRun: %v", err)
	}
	record := Result{Path: "/src/LICENSE", Size: 1069, ModTime: modTime, LicenseID: "MIT", Score: 1.0}
	if err := store.RecordResults(ctx, run.ID, []Result{record}); err != nil {
		t.Fatalf("RecordResults: %v", err)
	}

	prior, ok, err := store.PriorResult(ctx, "/src/LICENSE", 1069, modTime)
	if err != nil {
		t.Fatalf("PriorResult: %v", err)
	}
	if !ok {
		t.Fatal("PriorResult did not find the unchanged file")
	}
	if prior.LicenseID != "MIT" {
		t.Errorf("prior.LicenseID = %q, want MIT", prior.LicenseID)
	}

	// a different size means the file changed
	if _, ok, err := store.PriorResult(ctx, "/src/LICENSE", 2000, modTime); err != nil || ok {
		t.Errorf("PriorResult(changed size) = ok=%v err=%v, want miss", ok, err)
	}
}

func TestPruneRuns(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	var lastID string
	for i := 0; i < 5; i++ {
		run, err := store.BeginRun(ctx, "/src", 1)
		if err != nil {
			t.Fatalf("BeginRun %d: %v", i, err)
		}
		lastID = run.ID
		// started_at must differ for deterministic pruning order
		time.Sleep(2 * time.Millisecond)
	}

	deleted, err := store.PruneRuns(ctx, 2)
	if err != nil {
		t.Fatalf("PruneRuns: %v", err)
	}
	if deleted != 3 {
		t.Errorf("PruneRuns deleted %d runs, want 3", deleted)
	}

	runs, err := store.RecentRuns(ctx, 10)
	if err != nil {
		t.Fatalf("RecentRuns: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("RecentRuns returned %d runs after prune, want 2", len(runs))
	}
	if runs[0].ID != lastID {
		t.Errorf("newest run %s was pruned", lastID)
	}
}

func TestSchemaVersionMismatch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ledger.db")
	store, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if _, err := store.db.Exec("UPDATE schema_version SET version = 99"); err != nil {
		t.Fatalf("bump version: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	_, err = Open(path)
	if !errors.Is(err, ErrSchemaMismatch) {
		t.Errorf("Open with future schema = %v, want ErrSchemaMismatch", err)
	}
}
