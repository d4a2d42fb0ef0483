// Package corpus holds the reference license texts the matcher searches.
//
// A Store is built once, either from raw (id, text) sources or by decoding
// a versioned binary cache, and is read-only afterwards. That makes it safe
// to share one Store across any number of concurrent matches; reloading a
// cache produces a new Store value instead of mutating the old one.
//
// The cache format is a small little-endian header (magic + format version)
// followed by a zstd-compressed stream of entry records carrying the
// original text and the precomputed token and shingle data. The format
// version is bumped whenever the shingle width or a normalization rule
// changes, so a stale cache fails loudly instead of matching against
// incompatible shingles.
package corpus
