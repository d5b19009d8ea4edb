// Package radix implements an LSD radix sort for integer slices.
//
// Each pass buckets on one byte: histogram, prefix sum, scatter.
// All byte histograms are counted in a single read of the input, and passes
// whose digit is identical for every element are skipped, so narrow value
// ranges (e.g. [0, 50) stored in uint32) cost one scatter instead of four.
package radix

import (
	"slices"
	"unsafe"

	"golang.org/x/exp/constraints"
)

// smallThreshold: slices this size or smaller go to pdqsort.
const smallThreshold = 256

// Sort sorts data ascending. It allocates a scratch buffer of len(data).
func Sort[T constraints.Integer](data []T) {
	if len(data) <= smallThreshold {
		slices.Sort(data)
		return
	}
	SortBuffer(data, make([]T, len(data)))
}

// SortBuffer sorts data ascending using buf as scratch space.
// buf must be at least len(data) long; its contents are clobbered.
func SortBuffer[T constraints.Integer](data, buf []T) {
	n := len(data)
	if n <= 1 {
		return
	}
	if len(buf) < n {
		panic("radix: SortBuffer: scratch buffer too small")
	}
	buf = buf[:n]

	var zero T
	width := int(unsafe.Sizeof(zero))
	signed := ^zero < zero

	// counts[p][d]: number of elements whose byte p equals d.
	var counts [8][256]int
	for _, v := range data {
		u := uint64(v)
		for p := range width {
			counts[p][byte(u>>(8*p))]++
		}
	}

	src, dst := data, buf
	for p := range width {
		c := &counts[p]
		shift := 8 * p
		if c[byte(uint64(src[0])>>shift)] == n {
			continue
		}

		// The top byte of a signed type carries the sign: 128..255 sort first.
		offset := 0
		if signed && p == width-1 {
			for d := 128; d < 256; d++ {
				c[d], offset = offset, offset+c[d]
			}
			for d := 0; d < 128; d++ {
				c[d], offset = offset, offset+c[d]
			}
		} else {
			for d := range 256 {
				c[d], offset = offset, offset+c[d]
			}
		}

		for _, v := range src {
			d := byte(uint64(v) >> shift)
			dst[c[d]] = v
			c[d]++
		}
		src, dst = dst, src
	}

	if &src[0] != &data[0] {
		copy(data, src)
	}
}
