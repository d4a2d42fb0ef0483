// Package match finds the corpus entry most similar to a query document.
//
// The search walks store entries in sorted-id order and skips any entry
// whose size-derived Dice ceiling cannot beat the best score seen so far.
// Pruning is purely an optimization: it never changes which entry wins,
// and the Exhaustive option disables it so tests can assert both paths
// agree. With more than one worker the entries are partitioned into
// contiguous ranges, each worker keeps a local best, and a single
// deterministic max-reduction combines them, so no locking touches the
// store at any point.
package match
