// Package kway merges k individually sorted runs into one sorted output.
//
// The general case uses a min-heap of run cursors keyed by (head value, run
// index). Equal heads are taken from the lower-indexed run first, so the output
// is deterministic for a given input order even though the merge is not a
// stable sort of the original array.
package kway

import "cmp"

// Merger merges sorted runs, reusing its heap storage across calls.
// A Merger is NOT safe for concurrent use; give each worker its own.
type Merger[T cmp.Ordered] struct {
	heap *cursorHeap[T]
}

// NewMerger creates a Merger sized for k runs.
func NewMerger[T cmp.Ordered](k int) *Merger[T] {
	return &Merger[T]{heap: newCursorHeap[T](k)}
}

// Merge merges runs into dst and returns the number of elements written.
//
// Each run must be sorted ascending. dst must have exactly the combined length
// of the runs and must not overlap any run. A length mismatch is a caller bug
// and panics rather than silently dropping or duplicating elements.
func (m *Merger[T]) Merge(dst []T, runs [][]T) int {
	total := 0
	nonEmpty := 0
	last := -1
	for i, r := range runs {
		if len(r) > 0 {
			total += len(r)
			nonEmpty++
			last = i
		}
	}
	if total != len(dst) {
		panic("kway: Merge: destination length does not match run lengths")
	}

	switch nonEmpty {
	case 0:
		return 0
	case 1:
		return copy(dst, runs[last])
	case 2:
		first := 0
		for len(runs[first]) == 0 {
			first++
		}
		return merge2(dst, runs[first], runs[last])
	}

	h := m.heap
	h.clear()
	for i, r := range runs {
		if len(r) > 0 {
			h.items = append(h.items, cursor[T]{run: r, src: i})
		}
	}
	h.init()

	n := 0
	for h.len() > 0 {
		dst[n] = h.next()
		n++
	}
	return n
}

// Merge merges sorted runs into dst using a one-shot Merger.
func Merge[T cmp.Ordered](dst []T, runs [][]T) int {
	return NewMerger[T](len(runs)).Merge(dst, runs)
}

// merge2 is the two-run special case. Ties take from a, the lower-indexed run.
func merge2[T cmp.Ordered](dst, a, b []T) int {
	i, j, n := 0, 0, 0
	for i < len(a) && j < len(b) {
		if cmp.Less(b[j], a[i]) {
			dst[n] = b[j]
			j++
		} else {
			dst[n] = a[i]
			i++
		}
		n++
	}
	n += copy(dst[n:], a[i:])
	n += copy(dst[n:], b[j:])
	return n
}
