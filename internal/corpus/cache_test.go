package corpus

import (
	"bytes"
	"encoding/binary"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestCacheRoundTrip(t *testing.T) {
	original := buildTestStore(t)

	var buf bytes.Buffer
	if err := original.Encode(&buf); err != nil {
		t.Fatalf("Encode: %v", err)
	}
	restored, err := Decode(&buf)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}

	if restored.Len() != original.Len() {
		t.Fatalf("restored %d entries, want %d", restored.Len(), original.Len())
	}
	for _, want := range original.Entries() {
		got, ok := restored.Get(want.ID)
		if !ok {
			t.Fatalf("restored store missing %q", want.ID)
		}
		if got.Text != want.Text {
			t.Errorf("%s: text mismatch", want.ID)
		}
		if got.Kind != want.Kind {
			t.Errorf("%s: kind = %q, want %q", want.ID, got.Kind, want.Kind)
		}
		if !reflect.DeepEqual(got.Aliases, want.Aliases) {
			t.Errorf("%s: aliases = %v, want %v", want.ID, got.Aliases, want.Aliases)
		}
		if !got.Doc.Shingles().Equal(want.Doc.Shingles()) {
			t.Errorf("%s: shingle set mismatch", want.ID)
		}
		if !reflect.DeepEqual(got.Doc.Tokens(), want.Doc.Tokens()) {
			t.Errorf("%s: token mismatch", want.ID)
		}
	}

	// alias resolution survives the round trip
	if _, ok := restored.Get("alpha-classic"); !ok {
		t.Error("restored store lost alias resolution")
	}
}

func TestDecodeVersionMismatch(t *testing.T) {
	store := buildTestStore(t)
	var buf bytes.Buffer
	if err := store.Encode(&buf); err != nil {
		t.Fatalf("Encode: %v", err)
	}

	data := buf.Bytes()
	binary.LittleEndian.PutUint16(data[len(cacheMagic):], FormatVersion+1)

	_, err := Decode(bytes.NewReader(data))
	if !errors.Is(err, ErrCacheVersion) {
		t.Errorf("Decode with bumped version = %v, want ErrCacheVersion", err)
	}
	if errors.Is(err, ErrCacheCorrupt) {
		t.Error("version mismatch misreported as corruption")
	}
}

func TestDecodeCorruptInput(t *testing.T) {
	store := buildTestStore(t)
	var buf bytes.Buffer
	if err := store.Encode(&buf); err != nil {
		t.Fatalf("Encode: %v", err)
	}
	full := buf.Bytes()

	tests := []struct {
		name string
		data []byte
	}{
		{"empty", nil},
		{"bad magic", []byte("NOPE\x00\x01\x00garbage")},
		{"truncated header", full[:3]},
		{"truncated payload", full[:len(full)-6]},
		{"garbage payload", append(append([]byte{}, full[:7]...), []byte("not zstd at all")...)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(bytes.NewReader(tt.data))
			if !errors.Is(err, ErrCacheCorrupt) {
				t.Errorf("Decode = %v, want ErrCacheCorrupt", err)
			}
		})
	}
}

func TestWriteFileReadFile(t *testing.T) {
	store := buildTestStore(t)
	path := filepath.Join(t.TempDir(), "cache", "corpus.bin")

	if err := store.WriteFile(path); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if _, err := os.Stat(path + ".tmp"); !errors.Is(err, os.ErrNotExist) {
		t.Error("temporary cache file left behind")
	}

	restored, err := ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if restored.Len() != store.Len() {
		t.Errorf("ReadFile returned %d entries, want %d", restored.Len(), store.Len())
	}
}

func TestEmbeddedRoundTrip(t *testing.T) {
	store, err := Embedded()
	if err != nil {
		t.Fatalf("Embedded: %v", err)
	}

	var buf bytes.Buffer
	if err := store.Encode(&buf); err != nil {
		t.Fatalf("Encode: %v", err)
	}
	restored, err := Decode(&buf)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}

	for _, want := range store.Entries() {
		got, ok := restored.Get(want.ID)
		if !ok || !got.Doc.Shingles().Equal(want.Doc.Shingles()) {
			t.Errorf("embedded entry %q did not survive the round trip", want.ID)
		}
	}
}
