// Package partition computes the index arithmetic of regular-sampling sort:
// block ranges, regular samples, pivots, and per-block bucket boundaries.
//
// Every function here is pure: it reads the slices it is given and writes only
// to the destination it is handed, so callers can run one invocation per block
// concurrently without synchronization.
package partition

import (
	"cmp"
	"slices"
	"sort"

	intbits "github.com/tamirms/psrs/internal/bits"
)

// Range is the half-open index interval [Lo, Hi).
type Range struct {
	Lo, Hi int
}

// Len returns Hi - Lo.
func (r Range) Len() int {
	return r.Hi - r.Lo
}

// Blocks splits n elements into p contiguous blocks.
// Block i covers [min(i*s, n), min((i+1)*s, n)) with s = ⌈n/p⌉, so the blocks
// tile [0, n) exactly and the last non-empty block absorbs the remainder.
// Trailing blocks are empty when (p-1)*s >= n.
// Returns nil for p <= 0.
func Blocks(n, p int) []Range {
	if p <= 0 {
		return nil
	}
	size := intbits.CeilDiv(n, p)
	blocks := make([]Range, p)
	for i := range blocks {
		blocks[i] = Range{
			Lo: min(i*size, n),
			Hi: min((i+1)*size, n),
		}
	}
	return blocks
}

// Sample appends p regular samples of the sorted block to dst and returns the
// extended slice. Sample i is taken at min(i*ω+1, len-1) with ω = len/p.
// An empty block contributes no samples.
func Sample[T cmp.Ordered](dst, block []T, p int) []T {
	m := len(block)
	if m == 0 || p <= 0 {
		return dst
	}
	omega := m / p
	for i := range p {
		dst = append(dst, block[min(i*omega+1, m-1)])
	}
	return dst
}

// SelectPivots sorts samples in place and returns the p-1 pivots taken at
// stride p: pivot k is samples[(k+1)*p], clamped to the last sample when
// empty blocks left fewer than p*p samples.
// Returns nil when p <= 1 or there are no samples.
func SelectPivots[T cmp.Ordered](samples []T, p int) []T {
	if p <= 1 || len(samples) == 0 {
		return nil
	}
	slices.Sort(samples)
	last := len(samples) - 1
	pivots := make([]T, p-1)
	for k := range pivots {
		pivots[k] = samples[min((k+1)*p, last)]
	}
	return pivots
}

// Boundaries fills row with the bucket boundaries of a sorted block.
// row must have len(pivots)+2 entries. row[0] = 0, row[len-1] = len(block),
// and row[k+1] is the number of elements <= pivots[k].
//
// Elements equal to a pivot belong to the lower bucket: the search predicate is
// pivot < v. Every block uses this same function, so buckets line up across
// blocks.
func Boundaries[T cmp.Ordered](row []int, block, pivots []T) {
	if len(row) != len(pivots)+2 {
		panic("partition: Boundaries: row length must be len(pivots)+2")
	}
	row[0] = 0
	lo := 0
	for k, pivot := range pivots {
		rest := block[lo:]
		lo += sort.Search(len(rest), func(j int) bool {
			return cmp.Less(pivot, rest[j])
		})
		row[k+1] = lo
	}
	row[len(row)-1] = len(block)
}
