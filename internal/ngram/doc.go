// Package ngram builds word n-gram multisets ("shingles") from token
// streams and scores their overlap.
//
// A Set is a lexicographically sorted multiset of fixed-width shingles.
// Sorting is paid once at construction so that the Dice coefficient between
// two sets reduces to a linear merge-walk with no per-call allocation. Sets
// are never mutated after construction; callers that change the source text
// must build a new Set.
package ngram
