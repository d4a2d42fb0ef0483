package ledger

import "time"

// Run is one recorded tree scan.
type Run struct {
	ID            string     `json:"id"`
	Root          string     `json:"root"`
	StartedAt     time.Time  `json:"started_at"`
	FinishedAt    *time.Time `json:"finished_at,omitempty"`
	FilesScanned  int        `json:"files_scanned"`
	FilesMatched  int        `json:"files_matched"`
	CorpusVersion int        `json:"corpus_version"`
}

// Result is one file's outcome within a run. LicenseID is empty when the
// file did not clear the confidence threshold.
type Result struct {
	RunID     string    `json:"run_id"`
	Path      string    `json:"path"`
	Size      int64     `json:"size"`
	ModTime   time.Time `json:"mod_time"`
	LicenseID string    `json:"license_id,omitempty"`
	Score     float64   `json:"score"`
}
