// Package verify checks sort results: ordering, and that the output is a
// permutation of the input.
//
// Permutation checks use a multiset fingerprint: the wrapping sum of the xxh3
// hash of every element's little-endian encoding. Addition commutes, so the
// fingerprint does not depend on element order and can be computed before a
// sort and compared after it without keeping a copy of the input.
package verify

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/zeebo/xxh3"

	psrserrors "github.com/tamirms/psrs/errors"
	"github.com/tamirms/psrs/internal/encoding"
)

// IsSorted reports whether data is in non-decreasing order under cmp.Less.
func IsSorted[T cmp.Ordered](data []T) bool {
	return FirstUnsorted(data) < 0
}

// FirstUnsorted returns the smallest i with data[i] < data[i-1], or -1 if
// data is sorted.
func FirstUnsorted[T cmp.Ordered](data []T) int {
	for i := 1; i < len(data); i++ {
		if cmp.Less(data[i], data[i-1]) {
			return i
		}
	}
	return -1
}

// Fingerprint returns the order-independent multiset hash of data.
func Fingerprint[T encoding.Element](data []T) uint64 {
	k := encoding.KindOf[T]()
	size := k.Size()
	var buf [8]byte
	var sum uint64
	for _, v := range data {
		encoding.Put(k, buf[:], v)
		sum += xxh3.Hash(buf[:size])
	}
	return sum
}

// Check verifies data is sorted and has fingerprint want.
// Returns an error wrapping ErrNotSorted or ErrNotPermutation.
func Check[T encoding.Element](data []T, want uint64) error {
	if i := FirstUnsorted(data); i >= 0 {
		return fmt.Errorf("%w: data[%d]=%v < data[%d]=%v", psrserrors.ErrNotSorted, i, data[i], i-1, data[i-1])
	}
	if got := Fingerprint(data); got != want {
		return fmt.Errorf("%w: fingerprint %016x, want %016x", psrserrors.ErrNotPermutation, got, want)
	}
	return nil
}

// SameMultiset reports whether a and b hold exactly the same elements with
// the same multiplicities. It sorts copies and leaves its arguments intact.
func SameMultiset[T cmp.Ordered](a, b []T) bool {
	if len(a) != len(b) {
		return false
	}
	x, y := slices.Clone(a), slices.Clone(b)
	slices.Sort(x)
	slices.Sort(y)
	for i := range x {
		if cmp.Compare(x[i], y[i]) != 0 {
			return false
		}
	}
	return true
}
