package corpus

import (
	"os"
	"path/filepath"
	"testing"
)

func writeText(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func TestFromDirectory(t *testing.T) {
	dir := t.TempDir()
	writeText(t, filepath.Join(dir, "MIT.txt"), "mit text\n")
	writeText(t, filepath.Join(dir, "ISC.txt"), "isc text\n")
	writeText(t, filepath.Join(dir, "notes.md"), "not a corpus text\n")
	writeText(t, filepath.Join(dir, "nested", "Zlib.txt"), "skipped, not recursive\n")

	sources, err := FromDirectory(dir)
	if err != nil {
		t.Fatalf("FromDirectory: %v", err)
	}
	if len(sources) != 2 {
		t.Fatalf("FromDirectory returned %d sources, want 2: %+v", len(sources), sources)
	}
	// sorted by id
	if sources[0].ID != "ISC" || sources[1].ID != "MIT" {
		t.Errorf("ids = %q, %q; want ISC, MIT", sources[0].ID, sources[1].ID)
	}
	if sources[1].Text != "mit text\n" || sources[1].Kind != KindLicense {
		t.Errorf("MIT source = %+v", sources[1])
	}
}

func TestFromManifest(t *testing.T) {
	dir := t.TempDir()
	writeText(t, filepath.Join(dir, "texts", "mit.txt"), "mit text\n")
	writeText(t, filepath.Join(dir, "texts", "gpl-header.txt"), "header text\n")

	manifestPath := filepath.Join(dir, "corpus.toml")
	writeText(t, manifestPath, `
[[licenses]]
id = "MIT"
path = "texts/mit.txt"
aliases = ["Expat"]

[[licenses]]
id = "GPL-3.0-header"
path = "texts/gpl-header.txt"
kind = "header"
`)

	sources, err := FromManifest(manifestPath)
	if err != nil {
		t.Fatalf("FromManifest: %v", err)
	}
	if len(sources) != 2 {
		t.Fatalf("FromManifest returned %d sources, want 2", len(sources))
	}
	if sources[0].ID != "MIT" || sources[0].Aliases[0] != "Expat" || sources[0].Text != "mit text\n" {
		t.Errorf("MIT source = %+v", sources[0])
	}
	if sources[1].Kind != KindHeader {
		t.Errorf("kind = %q, want header", sources[1].Kind)
	}
}

func TestFromManifestErrors(t *testing.T) {
	dir := t.TempDir()

	manifestPath := filepath.Join(dir, "empty.toml")
	writeText(t, manifestPath, "# nothing here\n")
	if _, err := FromManifest(manifestPath); err == nil {
		t.Error("FromManifest accepted a manifest with no licenses")
	}

	manifestPath = filepath.Join(dir, "missing.toml")
	writeText(t, manifestPath, "[[licenses]]\nid = \"MIT\"\npath = \"does-not-exist.txt\"\n")
	if _, err := FromManifest(manifestPath); err == nil {
		t.Error("FromManifest accepted a missing text path")
	}
}
