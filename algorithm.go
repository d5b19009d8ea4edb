package psrs

import (
	"cmp"
	"fmt"
	"slices"

	psrserrors "github.com/tamirms/psrs/errors"
	"github.com/tamirms/psrs/internal/radix"
)

// LocalSortID identifies the algorithm used to sort each block in place.
type LocalSortID uint8

const (
	// LocalSortPDQ uses pattern-defeating quicksort (slices.Sort).
	LocalSortPDQ LocalSortID = 0

	// LocalSortRadix uses an LSD radix sort for built-in integer element
	// types. Other element types, including named integer types, fall back
	// to LocalSortPDQ.
	LocalSortRadix LocalSortID = 1
)

// String returns the algorithm name.
func (a LocalSortID) String() string {
	switch a {
	case LocalSortPDQ:
		return "pdq"
	case LocalSortRadix:
		return "radix"
	default:
		return "unknown"
	}
}

// ParseLocalSort returns the LocalSortID named by s ("pdq" or "radix").
func ParseLocalSort(s string) (LocalSortID, error) {
	switch s {
	case "pdq":
		return LocalSortPDQ, nil
	case "radix":
		return LocalSortRadix, nil
	}
	return 0, fmt.Errorf("%w: %q", psrserrors.ErrUnknownLocalSort, s)
}

func (a LocalSortID) valid() bool {
	return a == LocalSortPDQ || a == LocalSortRadix
}

// localSort sorts block ascending in place.
// buf is optional scratch space of at least len(block) for algorithms that
// need it; it is clobbered. A nil buf makes the algorithm allocate its own.
func localSort[T cmp.Ordered](id LocalSortID, block, buf []T) {
	if id == LocalSortRadix && radixSort(block, buf) {
		return
	}
	slices.Sort(block)
}

// radixSort dispatches to the radix sort for built-in integer types and
// reports whether it handled the block.
func radixSort[T cmp.Ordered](block, buf []T) bool {
	if len(buf) < len(block) {
		buf = make([]T, len(block))
	}
	switch b := any(block).(type) {
	case []int:
		radix.SortBuffer(b, any(buf).([]int))
	case []int8:
		radix.SortBuffer(b, any(buf).([]int8))
	case []int16:
		radix.SortBuffer(b, any(buf).([]int16))
	case []int32:
		radix.SortBuffer(b, any(buf).([]int32))
	case []int64:
		radix.SortBuffer(b, any(buf).([]int64))
	case []uint:
		radix.SortBuffer(b, any(buf).([]uint))
	case []uint8:
		radix.SortBuffer(b, any(buf).([]uint8))
	case []uint16:
		radix.SortBuffer(b, any(buf).([]uint16))
	case []uint32:
		radix.SortBuffer(b, any(buf).([]uint32))
	case []uint64:
		radix.SortBuffer(b, any(buf).([]uint64))
	case []uintptr:
		radix.SortBuffer(b, any(buf).([]uintptr))
	default:
		return false
	}
	return true
}
