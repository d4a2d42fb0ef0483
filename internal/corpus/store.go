package corpus

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"writ/internal/textnorm"
)

// ErrDuplicateEntry indicates two corpus sources share an id or alias.
var ErrDuplicateEntry = errors.New("duplicate corpus entry")

// Kind tags the flavor of a corpus entry.
type Kind string

const (
	// KindLicense is a full license text.
	KindLicense Kind = "license"
	// KindHeader is the short header form some licenses define.
	KindHeader Kind = "header"
	// KindException is a license exception text.
	KindException Kind = "exception"
	// KindCustom is a caller-supplied text outside any catalog.
	KindCustom Kind = "custom"
)

// Source is one raw text handed to Build.
type Source struct {
	ID      string
	Aliases []string
	Kind    Kind
	Text    string
}

// Entry is a reference text with its precomputed normalized document.
// Entries are owned by the Store and must not be modified.
type Entry struct {
	ID      string
	Aliases []string
	Kind    Kind
	Text    string
	Doc     textnorm.Document
}

// Store is an immutable collection of reference entries keyed by id.
type Store struct {
	entries map[string]*Entry
	sorted  []*Entry
	aliases map[string]string
}

// Build normalizes and shingles every source once and assembles a Store.
// Ids and aliases share one namespace; any collision fails with
// ErrDuplicateEntry rather than silently shadowing an entry.
func Build(sources []Source) (*Store, error) {
	store := &Store{
		entries: make(map[string]*Entry, len(sources)),
		aliases: make(map[string]string),
	}
	for _, src := range sources {
		id := strings.TrimSpace(src.ID)
		if id == "" {
			return nil, fmt.Errorf("corpus source with empty id")
		}
		if err := store.add(&Entry{
			ID:      id,
			Aliases: append([]string(nil), src.Aliases...),
			Kind:    normalizeKind(src.Kind),
			Text:    src.Text,
			Doc:     textnorm.NewDocument(src.Text),
		}); err != nil {
			return nil, err
		}
	}
	store.finish()
	return store, nil
}

func (s *Store) add(entry *Entry) error {
	if s.taken(entry.ID) {
		return fmt.Errorf("%w: %q", ErrDuplicateEntry, entry.ID)
	}
	s.entries[entry.ID] = entry
	for _, alias := range entry.Aliases {
		alias = strings.TrimSpace(alias)
		if alias == "" {
			continue
		}
		if s.taken(alias) {
			return fmt.Errorf("%w: alias %q of %q", ErrDuplicateEntry, alias, entry.ID)
		}
		s.aliases[alias] = entry.ID
	}
	return nil
}

func (s *Store) taken(name string) bool {
	if _, ok := s.entries[name]; ok {
		return true
	}
	_, ok := s.aliases[name]
	return ok
}

// finish freezes iteration order. Matching walks entries in sorted-id
// order, which is what makes tie-breaks deterministic across runs.
func (s *Store) finish() {
	s.sorted = make([]*Entry, 0, len(s.entries))
	for _, entry := range s.entries {
		s.sorted = append(s.sorted, entry)
	}
	sort.Slice(s.sorted, func(i, j int) bool { return s.sorted[i].ID < s.sorted[j].ID })
}

// Len returns the number of entries.
func (s *Store) Len() int {
	return len(s.entries)
}

// IDs returns the entry ids in sorted order.
func (s *Store) IDs() []string {
	ids := make([]string, 0, len(s.sorted))
	for _, entry := range s.sorted {
		ids = append(ids, entry.ID)
	}
	return ids
}

// Entries returns all entries in sorted-id order. The returned slice and
// the entries it points to are shared and must not be modified.
func (s *Store) Entries() []*Entry {
	return s.sorted
}

// Get resolves an id or alias to its entry.
func (s *Store) Get(name string) (*Entry, bool) {
	if entry, ok := s.entries[name]; ok {
		return entry, true
	}
	if id, ok := s.aliases[name]; ok {
		return s.entries[id], true
	}
	return nil, false
}

func normalizeKind(kind Kind) Kind {
	switch kind {
	case KindLicense, KindHeader, KindException, KindCustom:
		return kind
	case "":
		return KindLicense
	default:
		return KindCustom
	}
}
