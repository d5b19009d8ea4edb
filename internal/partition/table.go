package partition

// Table is the boundary table: one row of P+1 offsets per block, stored flat.
// Row i, entry k is the offset within block i where bucket k starts.
//
// A Table is written once, one row per block worker, and then read by all
// merge workers. Rows are disjoint, so the write phase needs no locking.
type Table struct {
	p    int
	rows []int
}

// NewTable allocates a table for p blocks and p buckets.
func NewTable(p int) *Table {
	return &Table{
		p:    p,
		rows: make([]int, p*(p+1)),
	}
}

// P returns the number of blocks (and buckets).
func (t *Table) P() int {
	return t.p
}

// Row returns the p+1 boundary offsets of block i.
// The returned slice aliases the table; it is the only slice block i's
// worker may write.
func (t *Table) Row(i int) []int {
	w := t.p + 1
	return t.rows[i*w : (i+1)*w : (i+1)*w]
}

// Sub returns the range of block i that belongs to bucket k, relative to the
// start of block i.
func (t *Table) Sub(i, k int) Range {
	row := t.Row(i)
	return Range{Lo: row[k], Hi: row[k+1]}
}

// BucketLens returns the total length of each bucket across all blocks.
func (t *Table) BucketLens() []int {
	lens := make([]int, t.p)
	for i := range t.p {
		row := t.Row(i)
		for k := range t.p {
			lens[k] += row[k+1] - row[k]
		}
	}
	return lens
}

// RunOffsets returns the prefix sum of bucket lengths: bucket k's merged run
// occupies [off[k], off[k+1]) of the output. len(off) == p+1 and off[p] is the
// total element count.
func (t *Table) RunOffsets() []int {
	lens := t.BucketLens()
	off := make([]int, t.p+1)
	for k, n := range lens {
		off[k+1] = off[k] + n
	}
	return off
}
