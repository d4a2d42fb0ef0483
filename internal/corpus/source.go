package corpus

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// FromDirectory collects one Source per *.txt file in dir, non-recursive.
// The entry id is the filename without its extension.
func FromDirectory(dir string) ([]Source, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read corpus directory: %w", err)
	}

	var sources []Source
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".txt") {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read corpus text %s: %w", path, err)
		}
		sources = append(sources, Source{
			ID:   strings.TrimSuffix(entry.Name(), ".txt"),
			Kind: KindLicense,
			Text: string(data),
		})
	}
	sort.Slice(sources, func(i, j int) bool { return sources[i].ID < sources[j].ID })
	return sources, nil
}

type manifest struct {
	Licenses []manifestEntry `toml:"licenses"`
}

type manifestEntry struct {
	ID      string   `toml:"id"`
	Path    string   `toml:"path"`
	Aliases []string `toml:"aliases"`
	Kind    string   `toml:"kind"`
}

// FromManifest reads a TOML manifest describing the corpus. Text paths are
// resolved relative to the manifest file, so a corpus directory can be
// checked in and built from anywhere:
//
//	[[licenses]]
//	id = "MIT"
//	path = "texts/mit.txt"
//	aliases = ["Expat"]
//	kind = "license"
func FromManifest(path string) ([]Source, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}

	var m manifest
	if err := toml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse manifest: %w", err)
	}
	if len(m.Licenses) == 0 {
		return nil, fmt.Errorf("manifest %s lists no licenses", path)
	}

	baseDir := filepath.Dir(path)
	sources := make([]Source, 0, len(m.Licenses))
	for _, entry := range m.Licenses {
		if strings.TrimSpace(entry.ID) == "" {
			return nil, fmt.Errorf("manifest entry with empty id")
		}
		textPath := entry.Path
		if !filepath.IsAbs(textPath) {
			textPath = filepath.Join(baseDir, textPath)
		}
		text, err := os.ReadFile(textPath)
		if err != nil {
			return nil, fmt.Errorf("read text for %q: %w", entry.ID, err)
		}
		sources = append(sources, Source{
			ID:      entry.ID,
			Aliases: entry.Aliases,
			Kind:    Kind(entry.Kind),
			Text:    string(text),
		})
	}
	return sources, nil
}
