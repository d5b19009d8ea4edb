package kway

import "cmp"

// cursor is a read position in one sorted source run.
type cursor[T cmp.Ordered] struct {
	run []T // remaining elements; run[0] is the head
	src int // source index, used for tie-breaking
}

// cursorHeap is a min-heap of cursors ordered by (head value, source index).
// Uses an index-based heap for O(log k) fix/pop.
type cursorHeap[T cmp.Ordered] struct {
	items []cursor[T]
}

func newCursorHeap[T cmp.Ordered](capacity int) *cursorHeap[T] {
	return &cursorHeap[T]{
		items: make([]cursor[T], 0, capacity),
	}
}

// clear resets the heap for reuse without allocation.
func (h *cursorHeap[T]) clear() {
	clear(h.items)
	h.items = h.items[:0]
}

func (h *cursorHeap[T]) len() int {
	return len(h.items)
}

// push adds a non-empty run and maintains the heap property. O(log k).
func (h *cursorHeap[T]) push(run []T, src int) {
	h.items = append(h.items, cursor[T]{run: run, src: src})
	h.up(len(h.items) - 1)
}

// init establishes the heap property over items appended without push. O(k).
func (h *cursorHeap[T]) init() {
	n := len(h.items)
	for i := n/2 - 1; i >= 0; i-- {
		h.down(i, n)
	}
}

// next returns the minimum head and advances its cursor, removing the cursor
// once its run is exhausted. The heap must be non-empty.
func (h *cursorHeap[T]) next() T {
	top := &h.items[0]
	v := top.run[0]
	top.run = top.run[1:]
	if len(top.run) == 0 {
		n := len(h.items) - 1
		h.swap(0, n)
		h.items[n] = cursor[T]{}
		h.items = h.items[:n]
	}
	h.down(0, len(h.items))
	return v
}

func (h *cursorHeap[T]) swap(i, j int) {
	h.items[i], h.items[j] = h.items[j], h.items[i]
}

func (h *cursorHeap[T]) less(i, j int) bool {
	a, b := &h.items[i], &h.items[j]
	if c := cmp.Compare(a.run[0], b.run[0]); c != 0 {
		return c < 0
	}
	// Deterministic tie-break by source index
	return a.src < b.src
}

func (h *cursorHeap[T]) up(j int) {
	for {
		i := (j - 1) / 2 // parent
		if i == j || !h.less(j, i) {
			break
		}
		h.swap(i, j)
		j = i
	}
}

func (h *cursorHeap[T]) down(i, n int) {
	for {
		j1 := 2*i + 1
		if j1 >= n || j1 < 0 {
			break
		}
		j := j1 // left child
		if j2 := j1 + 1; j2 < n && h.less(j2, j1) {
			j = j2 // right child
		}
		if !h.less(j, i) {
			break
		}
		h.swap(i, j)
		i = j
	}
}
