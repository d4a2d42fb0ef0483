package scan

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"writ/internal/match"
	"writ/internal/textnorm"
)

// skipDirs are directory names never descended into during a tree walk.
var skipDirs = map[string]struct{}{
	".git":         {},
	".hg":          {},
	".svn":         {},
	"node_modules": {},
	"vendor":       {},
	"target":       {},
}

// candidateNames are filename stems that usually hold license text. The
// comparison is case-insensitive and ignores a single extension, so
// "license", "LICENSE.md", and "Copying.txt" all qualify.
var candidateNames = map[string]struct{}{
	"copying":        {},
	"copying.lesser": {},
	"copyright":      {},
	"license":        {},
	"licence":        {},
	"license-2.0":    {},
	"license-apache": {},
	"license-mit":    {},
	"mit-license":    {},
	"notice":         {},
	"unlicense":      {},
	"unlicence":      {},
}

// WalkerOptions configures a tree scan.
type WalkerOptions struct {
	// Concurrency caps parallel file scans. Zero or negative means
	// GOMAXPROCS.
	Concurrency int
	// MaxFileBytes skips files larger than this. Zero applies the 1 MiB
	// default; genuine license files are far smaller.
	MaxFileBytes int64
	// ExtraGlobs adds filename patterns (matched against the base name)
	// to the built-in candidate list.
	ExtraGlobs []string
	// Prior, when set, is consulted after stat and before reading the
	// file. Returning true reuses the prior outcome for an unchanged
	// file instead of rescanning it.
	Prior func(path string, size int64, modTime time.Time) (FileResult, bool)
}

// FileResult is the outcome of scanning one candidate file. LicenseID is
// empty when nothing cleared the strategy's confidence threshold.
type FileResult struct {
	Path      string      `json:"path"`
	Size      int64       `json:"size"`
	ModTime   time.Time   `json:"mod_time"`
	LicenseID string      `json:"license_id,omitempty"`
	Score     float64     `json:"score"`
	Contained []Contained `json:"contained,omitempty"`
}

// Walker scans a source tree for license files.
type Walker struct {
	strategy *Strategy
	opts     WalkerOptions
}

// NewWalker binds a walker to a scanning strategy.
func NewWalker(strategy *Strategy, opts WalkerOptions) *Walker {
	if opts.Concurrency <= 0 {
		opts.Concurrency = runtime.GOMAXPROCS(0)
	}
	if opts.MaxFileBytes <= 0 {
		opts.MaxFileBytes = 1 << 20
	}
	return &Walker{strategy: strategy, opts: opts}
}

// Candidates walks root and returns the license-candidate file paths in
// walk order, without scanning them.
func (w *Walker) Candidates(root string) ([]string, error) {
	var paths []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if _, skip := skipDirs[d.Name()]; skip && path != root {
				return filepath.SkipDir
			}
			return nil
		}
		if w.isCandidate(d.Name()) {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", root, err)
	}
	return paths, nil
}

// Walk scans every candidate file under root and returns results sorted
// by path. The onResult callback, when non-nil, fires once per finished
// file for progress reporting; it may be called from multiple goroutines.
func (w *Walker) Walk(ctx context.Context, root string, onResult func(FileResult)) ([]FileResult, error) {
	paths, err := w.Candidates(root)
	if err != nil {
		return nil, err
	}

	results := make([]FileResult, len(paths))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(w.opts.Concurrency)

	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			result, err := w.scanFile(ctx, path)
			if err != nil {
				return err
			}
			results[i] = result
			if onResult != nil {
				onResult(result)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	sort.Slice(results, func(i, j int) bool { return results[i].Path < results[j].Path })
	return results, nil
}

func (w *Walker) scanFile(ctx context.Context, path string) (FileResult, error) {
	info, err := os.Stat(path)
	if err != nil {
		return FileResult{}, fmt.Errorf("stat %s: %w", path, err)
	}
	result := FileResult{Path: path, Size: info.Size(), ModTime: info.ModTime().UTC()}

	if w.opts.Prior != nil {
		if prior, ok := w.opts.Prior(path, result.Size, result.ModTime); ok {
			prior.Path = path
			prior.Size = result.Size
			prior.ModTime = result.ModTime
			return prior, nil
		}
	}
	if info.Size() > w.opts.MaxFileBytes {
		return result, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return FileResult{}, fmt.Errorf("read %s: %w", path, err)
	}

	scanned, err := w.strategy.Scan(ctx, textnorm.NewDocument(string(data)))
	if err != nil {
		// A candidate file with no tokenizable content is recorded as
		// unmatched, not treated as a failed scan.
		if errors.Is(err, match.ErrEmptyQuery) {
			return result, nil
		}
		return FileResult{}, fmt.Errorf("scan %s: %w", path, err)
	}

	result.Score = scanned.Score
	if scanned.License != nil {
		result.LicenseID = scanned.License.Name
	}
	result.Contained = scanned.Containing
	return result, nil
}

func (w *Walker) isCandidate(name string) bool {
	lower := strings.ToLower(name)
	stem := strings.TrimSuffix(lower, filepath.Ext(lower))
	if _, ok := candidateNames[lower]; ok {
		return true
	}
	if _, ok := candidateNames[stem]; ok {
		return true
	}
	for _, glob := range w.opts.ExtraGlobs {
		if matched, err := filepath.Match(glob, name); err == nil && matched {
			return true
		}
	}
	return false
}
