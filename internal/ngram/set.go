package ngram

import (
	"sort"
	"strings"
)

// Width is the shingle width used across the tool. Changing it invalidates
// every serialized corpus cache, so the corpus format version must be bumped
// alongside it.
const Width = 2

// Set is a sorted multiset of shingles. The zero value is an empty set.
type Set struct {
	grams []string
}

// New builds a Set from a token stream using a sliding window of the given
// width. When fewer than width tokens are available the whole sequence
// collapses into a single shingle, so short texts still produce a non-empty
// set. An empty token stream produces an empty set.
func New(tokens []string, width int) Set {
	if len(tokens) == 0 {
		return Set{}
	}
	if width < 1 {
		width = 1
	}
	if len(tokens) < width {
		return Set{grams: []string{strings.Join(tokens, " ")}}
	}
	grams := make([]string, 0, len(tokens)-width+1)
	for i := 0; i+width <= len(tokens); i++ {
		grams = append(grams, strings.Join(tokens[i:i+width], " "))
	}
	sort.Strings(grams)
	return Set{grams: grams}
}

// FromGrams restores a Set from previously serialized shingles. The input is
// copied and re-sorted so the sorted invariant holds even for hand-built or
// corrupted gram lists.
func FromGrams(grams []string) Set {
	if len(grams) == 0 {
		return Set{}
	}
	cp := make([]string, len(grams))
	copy(cp, grams)
	sort.Strings(cp)
	return Set{grams: cp}
}

// Len returns the number of shingles, counting duplicates.
func (s Set) Len() int {
	return len(s.grams)
}

// Grams exposes the sorted shingles for serialization. The returned slice
// must not be modified.
func (s Set) Grams() []string {
	return s.grams
}

// Dice computes the Sørensen–Dice coefficient between the two multisets:
// 2·|A∩B| / (|A|+|B|), with the intersection respecting duplicate counts.
// Both sets empty yields 0.0 (no basis for comparison). The result is
// commutative and equals 1.0 exactly when the multisets are identical.
func (s Set) Dice(other Set) float64 {
	total := len(s.grams) + len(other.grams)
	if total == 0 {
		return 0
	}
	matches := 0
	i, j := 0, 0
	for i < len(s.grams) && j < len(other.grams) {
		switch {
		case s.grams[i] == other.grams[j]:
			matches++
			i++
			j++
		case s.grams[i] < other.grams[j]:
			i++
		default:
			j++
		}
	}
	return 2 * float64(matches) / float64(total)
}

// Bound returns the highest Dice score the two sets could possibly reach,
// computed from sizes alone: the intersection can never exceed the smaller
// set. The matcher uses this to skip full comparisons that cannot beat an
// already known score.
func (s Set) Bound(other Set) float64 {
	total := len(s.grams) + len(other.grams)
	if total == 0 {
		return 0
	}
	smaller := len(s.grams)
	if len(other.grams) < smaller {
		smaller = len(other.grams)
	}
	return 2 * float64(smaller) / float64(total)
}

// Equal reports whether both multisets contain exactly the same shingles.
func (s Set) Equal(other Set) bool {
	if len(s.grams) != len(other.grams) {
		return false
	}
	for i := range s.grams {
		if s.grams[i] != other.grams[i] {
			return false
		}
	}
	return true
}
