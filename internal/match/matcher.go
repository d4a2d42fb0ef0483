package match

import (
	"context"
	"errors"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"

	"writ/internal/corpus"
	"writ/internal/ngram"
	"writ/internal/textdiff"
	"writ/internal/textnorm"
)

var (
	// ErrEmptyQuery indicates the query normalized to zero shingles.
	// Such a query cannot meaningfully score against anything, so it is
	// rejected before any scanning instead of surfacing as a spurious
	// low-confidence result.
	ErrEmptyQuery = errors.New("empty query document")
	// ErrInvalidThreshold indicates a minimum score outside [0, 1].
	ErrInvalidThreshold = errors.New("minimum score outside [0, 1]")
)

// Options configures a Matcher.
type Options struct {
	// MinScore is the confidence a best match must reach (inclusive) to
	// be identified. Must lie in [0, 1]; zero accepts any match.
	MinScore float64
	// Workers caps the parallel fan-out across store entries. Zero or
	// negative means GOMAXPROCS.
	Workers int
	// Exhaustive disables upper-bound pruning and scores every entry.
	// Results are identical either way; tests rely on that.
	Exhaustive bool
}

// DefaultOptions returns the options used by the CLI when the caller
// supplies nothing: a 0.9 confidence floor with automatic parallelism.
func DefaultOptions() Options {
	return Options{MinScore: 0.9}
}

// Result is the outcome of analyzing one query against the store. ID is
// empty when no entry cleared the threshold; Score still carries the best
// observed value for diagnostics. Diff is populated separately on request.
type Result struct {
	ID    string
	Score float64
	Diff  []textdiff.Line
}

// Matcher searches a read-only corpus store. A Matcher is safe for
// concurrent use; it never mutates the store or the query.
type Matcher struct {
	store *corpus.Store
	opts  Options
}

// New validates the options and binds a matcher to a store.
func New(store *corpus.Store, opts Options) (*Matcher, error) {
	if opts.MinScore < 0 || opts.MinScore > 1 {
		return nil, fmt.Errorf("%w: %v", ErrInvalidThreshold, opts.MinScore)
	}
	return &Matcher{store: store, opts: opts}, nil
}

// candidate tracks a best-so-far entry by its index into the sorted entry
// slice. Index order equals id order, so "lowest index wins ties" is the
// same deterministic tie-break on every run: first encountered in
// sorted-id traversal.
type candidate struct {
	index int
	score float64
}

// Analyze returns the best-scoring entry for the query document, or an
// empty ID when nothing reaches MinScore. Cancellation is checked between
// entries; a single entry's scoring is short enough to finish.
func (m *Matcher) Analyze(ctx context.Context, doc textnorm.Document) (Result, error) {
	query := doc.Shingles()
	if query.Len() == 0 {
		return Result{}, ErrEmptyQuery
	}

	entries := m.store.Entries()
	workers := m.opts.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if workers > len(entries) {
		workers = len(entries)
	}

	var best candidate
	var err error
	if workers <= 1 {
		best, err = m.scanRange(ctx, query, entries, 0)
	} else {
		best, err = m.scanParallel(ctx, query, entries, workers)
	}
	if err != nil {
		return Result{}, err
	}

	if best.index < 0 || best.score < m.opts.MinScore {
		return Result{Score: best.score}, nil
	}
	return Result{ID: entries[best.index].ID, Score: best.score}, nil
}

// scanRange evaluates a contiguous entry range, seeding the pruning bound
// from zero. offset translates range-local indexes back into store order.
func (m *Matcher) scanRange(ctx context.Context, query ngram.Set, entries []*corpus.Entry, offset int) (candidate, error) {
	best := candidate{index: -1}
	for i, entry := range entries {
		if err := ctx.Err(); err != nil {
			return candidate{index: -1}, err
		}
		reference := entry.Doc.Shingles()
		if !m.opts.Exhaustive && query.Bound(reference) <= best.score {
			// The Dice ceiling from sizes alone cannot beat the
			// current best, so the exact intersection is skipped.
			continue
		}
		if score := query.Dice(reference); score > best.score {
			best = candidate{index: offset + i, score: score}
		}
	}
	return best, nil
}

func (m *Matcher) scanParallel(ctx context.Context, query ngram.Set, entries []*corpus.Entry, workers int) (candidate, error) {
	locals := make([]candidate, workers)
	chunk := (len(entries) + workers - 1) / workers

	g, ctx := errgroup.WithContext(ctx)
	for w := 0; w < workers; w++ {
		w := w
		start := w * chunk
		end := start + chunk
		if end > len(entries) {
			end = len(entries)
		}
		if start >= end {
			locals[w] = candidate{index: -1}
			continue
		}
		g.Go(func() error {
			local, err := m.scanRange(ctx, query, entries[start:end], start)
			if err != nil {
				return err
			}
			locals[w] = local
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return candidate{index: -1}, err
	}

	best := candidate{index: -1}
	for _, local := range locals {
		if local.index < 0 {
			continue
		}
		if best.index < 0 || local.score > best.score ||
			(local.score == best.score && local.index < best.index) {
			best = local
		}
	}
	return best, nil
}
