package corpus

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
	"github.com/klauspost/compress/zstd"

	"writ/internal/ngram"
	"writ/internal/textnorm"
)

// FormatVersion identifies the cache layout together with the shingle
// width and normalization rules baked into it. Any change to those rules
// requires a bump so stale caches are rejected instead of silently
// producing skewed scores.
const FormatVersion uint16 = 1

const cacheMagic = "WRITC"

// Decode limits. Counts beyond these cannot come from a legitimate corpus
// and indicate a corrupt or hostile cache.
const (
	maxEntries   = 1 << 20
	maxListLen   = 1 << 24
	maxStringLen = 1 << 26
)

var (
	// ErrCacheVersion indicates the cache was written with a different
	// format version than this build expects.
	ErrCacheVersion = errors.New("corpus cache version mismatch")
	// ErrCacheCorrupt indicates the cache bytes do not parse as a corpus.
	ErrCacheCorrupt = errors.New("corpus cache corrupt")
)

// Encode serializes the store: a plain little-endian header carrying the
// magic and format version, then a zstd-compressed stream of entry records
// in sorted-id order.
func (s *Store) Encode(w io.Writer) error {
	if _, err := w.Write([]byte(cacheMagic)); err != nil {
		return fmt.Errorf("write cache magic: %w", err)
	}
	if err := binary.Write(w, binary.LittleEndian, FormatVersion); err != nil {
		return fmt.Errorf("write cache version: %w", err)
	}

	zw, err := zstd.NewWriter(w)
	if err != nil {
		return fmt.Errorf("init zstd writer: %w", err)
	}
	bw := bufio.NewWriter(zw)

	if err := writeUint32(bw, uint32(len(s.sorted))); err != nil {
		return err
	}
	for _, entry := range s.sorted {
		if err := writeEntry(bw, entry); err != nil {
			return fmt.Errorf("encode entry %q: %w", entry.ID, err)
		}
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("flush cache payload: %w", err)
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("close zstd writer: %w", err)
	}
	return nil
}

// Decode reads a cache produced by Encode into a fresh Store. A version
// tag that does not match FormatVersion fails with ErrCacheVersion before
// the payload is touched; anything that fails to parse afterwards surfaces
// as ErrCacheCorrupt.
func Decode(r io.Reader) (*Store, error) {
	header := make([]byte, len(cacheMagic)+2)
	if _, err := io.ReadFull(r, header); err != nil {
		return nil, fmt.Errorf("%w: read header: %w", ErrCacheCorrupt, err)
	}
	if !bytes.Equal(header[:len(cacheMagic)], []byte(cacheMagic)) {
		return nil, fmt.Errorf("%w: bad magic", ErrCacheCorrupt)
	}
	version := binary.LittleEndian.Uint16(header[len(cacheMagic):])
	if version != FormatVersion {
		return nil, fmt.Errorf("%w: cache has version %d, this build expects %d (rebuild with 'writ cache build')",
			ErrCacheVersion, version, FormatVersion)
	}

	zr, err := zstd.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("%w: init zstd reader: %w", ErrCacheCorrupt, err)
	}
	defer zr.Close()
	br := bufio.NewReader(zr)

	count, err := readUint32(br, maxEntries)
	if err != nil {
		return nil, fmt.Errorf("%w: read entry count: %w", ErrCacheCorrupt, err)
	}

	store := &Store{
		entries: make(map[string]*Entry, count),
		aliases: make(map[string]string),
	}
	for i := uint32(0); i < count; i++ {
		entry, err := readEntry(br)
		if err != nil {
			return nil, fmt.Errorf("%w: entry %d: %w", ErrCacheCorrupt, i, err)
		}
		if err := store.add(entry); err != nil {
			return nil, fmt.Errorf("%w: entry %d: %w", ErrCacheCorrupt, i, err)
		}
	}
	store.finish()
	return store, nil
}

// WriteFile encodes the store to path, holding an exclusive lock so two
// concurrent cache builds cannot interleave writes.
func (s *Store) WriteFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("ensure cache directory: %w", err)
	}

	lock := flock.New(path + ".lock")
	if err := lock.Lock(); err != nil {
		return fmt.Errorf("lock cache file: %w", err)
	}
	defer func() { _ = lock.Unlock() }()

	tmp := path + ".tmp"
	file, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("create cache file: %w", err)
	}
	if err := s.Encode(file); err != nil {
		_ = file.Close()
		_ = os.Remove(tmp)
		return err
	}
	if err := file.Close(); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("close cache file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("replace cache file: %w", err)
	}
	return nil
}

// ReadFile decodes a cache previously written by WriteFile.
func ReadFile(path string) (*Store, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open cache file: %w", err)
	}
	defer file.Close()
	return Decode(bufio.NewReader(file))
}

func writeEntry(w *bufio.Writer, entry *Entry) error {
	if err := writeString(w, entry.ID); err != nil {
		return err
	}
	if err := writeStrings(w, entry.Aliases); err != nil {
		return err
	}
	if err := writeString(w, string(entry.Kind)); err != nil {
		return err
	}
	if err := writeString(w, entry.Text); err != nil {
		return err
	}
	if err := writeStrings(w, entry.Doc.Tokens()); err != nil {
		return err
	}
	return writeStrings(w, entry.Doc.Shingles().Grams())
}

func readEntry(r *bufio.Reader) (*Entry, error) {
	id, err := readString(r)
	if err != nil {
		return nil, fmt.Errorf("id: %w", err)
	}
	aliases, err := readStrings(r)
	if err != nil {
		return nil, fmt.Errorf("aliases: %w", err)
	}
	kind, err := readString(r)
	if err != nil {
		return nil, fmt.Errorf("kind: %w", err)
	}
	text, err := readString(r)
	if err != nil {
		return nil, fmt.Errorf("text: %w", err)
	}
	tokens, err := readStrings(r)
	if err != nil {
		return nil, fmt.Errorf("tokens: %w", err)
	}
	grams, err := readStrings(r)
	if err != nil {
		return nil, fmt.Errorf("shingles: %w", err)
	}

	return &Entry{
		ID:      id,
		Aliases: aliases,
		Kind:    Kind(kind),
		Text:    text,
		Doc:     textnorm.RestoreDocument(text, tokens, ngram.FromGrams(grams)),
	}, nil
}

func writeUint32(w *bufio.Writer, v uint32) error {
	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], v)
	_, err := w.Write(buf[:])
	return err
}

func readUint32(r *bufio.Reader, limit uint32) (uint32, error) {
	var buf [4]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return 0, err
	}
	v := binary.LittleEndian.Uint32(buf[:])
	if v > limit {
		return 0, fmt.Errorf("count %d exceeds limit %d", v, limit)
	}
	return v, nil
}

func writeString(w *bufio.Writer, s string) error {
	if err := writeUint32(w, uint32(len(s))); err != nil {
		return err
	}
	_, err := w.WriteString(s)
	return err
}

func readString(r *bufio.Reader) (string, error) {
	length, err := readUint32(r, maxStringLen)
	if err != nil {
		return "", err
	}
	buf := make([]byte, length)
	if _, err := io.ReadFull(r, buf); err != nil {
		return "", err
	}
	return string(buf), nil
}

func writeStrings(w *bufio.Writer, values []string) error {
	if err := writeUint32(w, uint32(len(values))); err != nil {
		return err
	}
	for _, v := range values {
		if err := writeString(w, v); err != nil {
			return err
		}
	}
	return nil
}

func readStrings(r *bufio.Reader) ([]string, error) {
	count, err := readUint32(r, maxListLen)
	if err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, nil
	}
	values := make([]string, 0, count)
	for i := uint32(0); i < count; i++ {
		v, err := readString(r)
		if err != nil {
			return nil, err
		}
		values = append(values, v)
	}
	return values, nil
}
