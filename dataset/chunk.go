package dataset

import (
	"encoding/binary"
	"runtime"

	"github.com/cespare/xxhash/v2"
	"golang.org/x/sync/errgroup"

	intbits "github.com/tamirms/psrs/internal/bits"
)

func numChunks(n int) int {
	return intbits.CeilDiv(n, chunkElems)
}

// forEachChunk calls fn(c, lo, hi) for every chunk [lo, hi) of n elements,
// running up to GOMAXPROCS chunks at once. fn must only write state owned by
// chunk c.
func forEachChunk(n int, fn func(c, lo, hi int) error) error {
	var g errgroup.Group
	g.SetLimit(runtime.GOMAXPROCS(0))
	for c := range numChunks(n) {
		lo := c * chunkElems
		hi := min(lo+chunkElems, n)
		g.Go(func() error {
			return fn(c, lo, hi)
		})
	}
	return g.Wait()
}

// foldHashes folds per-chunk payload hashes, in chunk order, into the payload
// hash stored in the footer.
func foldHashes(hashes []uint64) uint64 {
	h := xxhash.New()
	var buf [8]byte
	for _, v := range hashes {
		binary.LittleEndian.PutUint64(buf[:], v)
		if _, err := h.Write(buf[:]); err != nil {
			panic("hash.Hash.Write returned unexpected error: " + err.Error())
		}
	}
	return h.Sum64()
}
