package ngram

import (
	"fmt"
	"math/rand"
	"sort"
	"testing"
)

func TestNewSliding(t *testing.T) {
	set := New([]string{"the", "quick", "brown", "fox"}, 2)
	want := []string{"brown fox", "quick brown", "the quick"}
	if got := set.Grams(); len(got) != len(want) {
		t.Fatalf("New() produced %d grams, want %d", len(got), len(want))
	}
	for i, gram := range set.Grams() {
		if gram != want[i] {
			t.Errorf("gram[%d] = %q, want %q", i, gram, want[i])
		}
	}
}

func TestNewSorted(t *testing.T) {
	set := New([]string{"zz", "yy", "xx", "aa", "bb"}, 2)
	if !sort.StringsAreSorted(set.Grams()) {
		t.Errorf("grams not sorted: %v", set.Grams())
	}
}

func TestNewShortInput(t *testing.T) {
	tests := []struct {
		name   string
		tokens []string
		want   int
	}{
		{"empty", nil, 0},
		{"single token", []string{"hello"}, 1},
		{"below width", []string{"hello", "world"}, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			set := New(tt.tokens, 3)
			if set.Len() != tt.want {
				t.Errorf("Len() = %d, want %d", set.Len(), tt.want)
			}
		})
	}
}

func TestNewRetainsDuplicates(t *testing.T) {
	set := New([]string{"a", "b", "a", "b"}, 2)
	// windows: "a b", "b a", "a b"
	if set.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", set.Len())
	}
	if set.Grams()[0] != "a b" || set.Grams()[1] != "a b" {
		t.Errorf("duplicate shingles not retained: %v", set.Grams())
	}
}

func TestDiceIdentical(t *testing.T) {
	set := New([]string{"one", "two", "three", "four"}, 2)
	if got := set.Dice(set); got != 1.0 {
		t.Errorf("Dice(self) = %v, want 1.0", got)
	}
}

func TestDiceDisjoint(t *testing.T) {
	a := New([]string{"one", "two", "three"}, 2)
	b := New([]string{"four", "five", "six"}, 2)
	if got := a.Dice(b); got != 0 {
		t.Errorf("Dice(disjoint) = %v, want 0", got)
	}
}

func TestDiceBothEmpty(t *testing.T) {
	var a, b Set
	if got := a.Dice(b); got != 0 {
		t.Errorf("Dice(empty, empty) = %v, want 0", got)
	}
	if got := a.Bound(b); got != 0 {
		t.Errorf("Bound(empty, empty) = %v, want 0", got)
	}
}

func TestDiceCommutative(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for round := 0; round < 50; round++ {
		a := randomSet(rng)
		b := randomSet(rng)
		if ab, ba := a.Dice(b), b.Dice(a); ab != ba {
			t.Fatalf("round %d: Dice not commutative: %v vs %v", round, ab, ba)
		}
	}
}

func TestBoundDominatesDice(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	for round := 0; round < 100; round++ {
		a := randomSet(rng)
		b := randomSet(rng)
		score := a.Dice(b)
		bound := a.Bound(b)
		if score > bound {
			t.Fatalf("round %d: Dice %v exceeds Bound %v", round, score, bound)
		}
	}
}

func TestDiceMultisetCounts(t *testing.T) {
	// "a b" appears twice on one side and once on the other; the
	// intersection must count it once, not twice.
	a := FromGrams([]string{"a b", "a b", "c d"})
	b := FromGrams([]string{"a b", "c d"})
	want := 2.0 * 2.0 / 5.0
	if got := a.Dice(b); got != want {
		t.Errorf("Dice() = %v, want %v", got, want)
	}
}

func TestFromGramsSorts(t *testing.T) {
	set := FromGrams([]string{"z z", "a a", "m m"})
	if !sort.StringsAreSorted(set.Grams()) {
		t.Errorf("FromGrams did not sort: %v", set.Grams())
	}
}

func randomSet(rng *rand.Rand) Set {
	n := rng.Intn(40)
	tokens := make([]string, 0, n)
	for i := 0; i < n; i++ {
		tokens = append(tokens, fmt.Sprintf("w%d", rng.Intn(25)))
	}
	return New(tokens, Width)
}
