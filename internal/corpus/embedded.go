package corpus

import (
	"embed"
	"fmt"
	"io/fs"
	"sort"
	"strings"
)

//go:embed licenses/*.txt
var embeddedTexts embed.FS

// embeddedAliases supplies common alternate spellings for the bundled
// license set.
var embeddedAliases = map[string][]string{
	"MIT":          {"Expat"},
	"Apache-2.0":   {"Apache2", "Apache-2"},
	"BSD-2-Clause": {"FreeBSD"},
	"Unlicense":    {"UNLICENSE"},
}

// Embedded builds a Store from the license texts compiled into the binary.
// It is the fallback corpus used before any cache has been built, so the
// tool gives useful answers out of the box.
func Embedded() (*Store, error) {
	entries, err := fs.ReadDir(embeddedTexts, "licenses")
	if err != nil {
		return nil, fmt.Errorf("read embedded corpus: %w", err)
	}

	sources := make([]Source, 0, len(entries))
	for _, entry := range entries {
		data, err := embeddedTexts.ReadFile("licenses/" + entry.Name())
		if err != nil {
			return nil, fmt.Errorf("read embedded text %s: %w", entry.Name(), err)
		}
		id := strings.TrimSuffix(entry.Name(), ".txt")
		sources = append(sources, Source{
			ID:      id,
			Aliases: embeddedAliases[id],
			Kind:    KindLicense,
			Text:    string(data),
		})
	}
	sort.Slice(sources, func(i, j int) bool { return sources[i].ID < sources[j].ID })
	return Build(sources)
}
