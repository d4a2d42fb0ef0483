package testsupport

import (
	"testing"

	"writ/internal/corpus"
)

// Permissive-style fixture texts, long enough to shingle meaningfully but
// small enough to keep tests quick.
const (
	GrantText = "Permission is hereby granted to use copy and distribute this work\n" +
		"provided that the above notice appears in all copies\n" +
		"and that both the notice and this permission notice appear\n" +
		"in supporting documentation for the work\n"

	DisclaimText = "This work is provided as is without warranty of any kind\n" +
		"express or implied including the warranties of merchantability\n" +
		"and fitness for a particular purpose\n" +
		"in no event shall the provider be liable for any claim or damages\n"
)

// Sources returns a deterministic two-entry corpus input.
func Sources() []corpus.Source {
	return []corpus.Source{
		{ID: "grant-1.0", Aliases: []string{"grant"}, Text: GrantText},
		{ID: "disclaim-1.0", Text: DisclaimText},
	}
}

// NewStore builds the fixture corpus, failing the test on error.
func NewStore(t testing.TB) *corpus.Store {
	t.Helper()
	store, err := corpus.Build(Sources())
	if err != nil {
		t.Fatalf("build fixture corpus: %v", err)
	}
	return store
}
