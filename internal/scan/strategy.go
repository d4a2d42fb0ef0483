package scan

import (
	"context"
	"errors"
	"fmt"

	"writ/internal/corpus"
	"writ/internal/match"
	"writ/internal/ngram"
	"writ/internal/textnorm"
)

// Options configures a Strategy.
type Options struct {
	// ConfidenceThreshold is the score (inclusive) a match needs to be
	// reported, for the overall text and for contained finds alike.
	ConfidenceThreshold float64
	// ShallowLimit short-circuits the scan when the overall score is at
	// least this high; set it near 1.0 so optimize passes only run when
	// the whole-file match is imperfect.
	ShallowLimit float64
	// Optimize enables the deep scan that locates licenses inside larger
	// texts by narrowing line bounds.
	Optimize bool
	// MaxPasses caps optimize iterations, one per license found. It
	// exists to bound pathological inputs, not as a tuning knob.
	MaxPasses int
	// Workers is passed through to the matcher.
	Workers int
}

// DefaultOptions mirrors the conservative CLI defaults: report at 0.9,
// fast-exit at 0.99, no deep scanning.
func DefaultOptions() Options {
	return Options{
		ConfidenceThreshold: 0.9,
		ShallowLimit:        0.99,
		MaxPasses:           10,
	}
}

// Identified names a license found during a scan.
type Identified struct {
	Name string      `json:"name"`
	Kind corpus.Kind `json:"kind"`
}

// Contained is a license located inside a larger text, with the 0-indexed
// [start, end) line range where it sits.
type Contained struct {
	Score     float64    `json:"score"`
	License   Identified `json:"license"`
	StartLine int        `json:"start_line"`
	EndLine   int        `json:"end_line"`
}

// Result describes everything a scan discovered. License is nil when the
// overall text did not clear the confidence threshold; Score still carries
// the best observed value. Containing is populated only in optimize mode.
type Result struct {
	Score      float64
	License    *Identified
	Containing []Contained
}

// Strategy scans documents against a store with configured thresholds.
type Strategy struct {
	store   *corpus.Store
	matcher *match.Matcher
	opts    Options
}

// New validates the options and builds a Strategy. The inner matcher runs
// with a zero floor so the strategy always learns the best candidate and
// applies its own threshold.
func New(store *corpus.Store, opts Options) (*Strategy, error) {
	if opts.ConfidenceThreshold < 0 || opts.ConfidenceThreshold > 1 {
		return nil, fmt.Errorf("%w: confidence threshold %v", match.ErrInvalidThreshold, opts.ConfidenceThreshold)
	}
	if opts.ShallowLimit < 0 || opts.ShallowLimit > 1 {
		return nil, fmt.Errorf("%w: shallow limit %v", match.ErrInvalidThreshold, opts.ShallowLimit)
	}
	if opts.MaxPasses < 1 {
		opts.MaxPasses = DefaultOptions().MaxPasses
	}
	matcher, err := match.New(store, match.Options{MinScore: 0, Workers: opts.Workers})
	if err != nil {
		return nil, err
	}
	return &Strategy{store: store, matcher: matcher, opts: opts}, nil
}

// Scan analyzes the document, reporting the overall identification and,
// in optimize mode, every contained license meeting the threshold.
func (s *Strategy) Scan(ctx context.Context, doc textnorm.Document) (Result, error) {
	analysis, err := s.matcher.Analyze(ctx, doc)
	if err != nil {
		return Result{}, err
	}

	result := Result{Score: analysis.Score}
	if analysis.ID != "" && analysis.Score >= s.opts.ConfidenceThreshold {
		result.License = s.identified(analysis.ID)
		if analysis.Score >= s.opts.ShallowLimit {
			return result, nil
		}
	}

	if !s.opts.Optimize {
		return result, nil
	}

	// Each pass locates at most one license: narrow the bounds around the
	// current best candidate, record it if it clears the threshold, then
	// white out those lines and re-analyze what is left.
	current := doc
	for pass := 0; pass < s.opts.MaxPasses; pass++ {
		entry, ok := s.store.Get(analysis.ID)
		if !ok {
			break
		}
		optimized, score := optimizeBounds(current, entry.Doc.Shingles())
		if score < s.opts.ConfidenceThreshold {
			break
		}

		start, end := optimized.LineView()
		result.Containing = append(result.Containing, Contained{
			Score:     score,
			License:   Identified{Name: entry.ID, Kind: entry.Kind},
			StartLine: start,
			EndLine:   end,
		})

		current = optimized.WhiteOut()
		analysis, err = s.matcher.Analyze(ctx, current)
		if err != nil {
			// Whiting out the last license can leave nothing to
			// tokenize; that simply ends the scan.
			if errors.Is(err, match.ErrEmptyQuery) {
				break
			}
			return Result{}, err
		}
	}

	return result, nil
}

func (s *Strategy) identified(id string) *Identified {
	entry, ok := s.store.Get(id)
	if !ok {
		return &Identified{Name: id, Kind: corpus.KindCustom}
	}
	return &Identified{Name: entry.ID, Kind: entry.Kind}
}

// optimizeBounds searches for the line window of doc that scores highest
// against the reference shingle set. It hill-climbs each boundary with a
// geometrically shrinking step, which is deterministic and cheap: about
// O(log n) rounds of four candidate windows each.
func optimizeBounds(doc textnorm.Document, reference ngram.Set) (textnorm.Document, float64) {
	baseStart, baseEnd := doc.LineView()
	bestStart, bestEnd := baseStart, baseEnd
	bestScore := doc.Shingles().Dice(reference)

	span := baseEnd - baseStart
	for step := span / 2; step >= 1; step /= 2 {
		improved := true
		for improved {
			improved = false
			candidates := [][2]int{
				{bestStart + step, bestEnd},
				{bestStart - step, bestEnd},
				{bestStart, bestEnd + step},
				{bestStart, bestEnd - step},
			}
			for _, c := range candidates {
				start, end := clampRange(c[0], c[1], baseStart, baseEnd)
				if start == bestStart && end == bestEnd {
					continue
				}
				score := doc.View(start, end).Shingles().Dice(reference)
				if score > bestScore {
					bestScore = score
					bestStart, bestEnd = start, end
					improved = true
				}
			}
		}
	}

	return doc.View(bestStart, bestEnd), bestScore
}

func clampRange(start, end, lo, hi int) (int, int) {
	if start < lo {
		start = lo
	}
	if end > hi {
		end = hi
	}
	if start > end {
		start = end
	}
	return start, end
}
