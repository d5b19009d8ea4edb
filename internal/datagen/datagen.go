// Package datagen fills slices with seeded pseudo-random values.
//
// Generators are counter-mode: element i is derived only from (seed, i), so
// the output is identical for any worker count and any chunking.
package datagen

import (
	"encoding/binary"
	"fmt"
	"runtime"

	"github.com/spaolacci/murmur3"
	"golang.org/x/exp/constraints"
	"golang.org/x/sync/errgroup"

	psrserrors "github.com/tamirms/psrs/errors"
	intbits "github.com/tamirms/psrs/internal/bits"
)

// chunkSize is the number of elements one worker fills per task.
const chunkSize = 1 << 16

// hashIndex returns the 64-bit murmur3 hash of i under seed.
func hashIndex(seed uint32, i uint64) uint64 {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], i)
	return murmur3.Sum64WithSeed(buf[:], seed)
}

// Uniform fills dst with values uniformly distributed in [lo, hi).
// Returns ErrInvalidRange if hi <= lo.
func Uniform[T constraints.Integer](dst []T, lo, hi T, seed uint32, workers int) error {
	if hi <= lo {
		return fmt.Errorf("%w: [%v, %v)", psrserrors.ErrInvalidRange, lo, hi)
	}
	// Modular subtraction gives the width for signed types too.
	base := uint64(lo)
	span := uint64(hi) - base
	return fill(dst, workers, func(i int) T {
		return T(base + intbits.FastRange64(hashIndex(seed, uint64(i)), span))
	})
}

// UniformFloat fills dst with values uniformly distributed in [lo, hi).
// Returns ErrInvalidRange if hi <= lo or either bound is NaN.
func UniformFloat[T constraints.Float](dst []T, lo, hi T, seed uint32, workers int) error {
	if !(hi > lo) {
		return fmt.Errorf("%w: [%v, %v)", psrserrors.ErrInvalidRange, lo, hi)
	}
	width := float64(hi) - float64(lo)
	return fill(dst, workers, func(i int) T {
		unit := float64(hashIndex(seed, uint64(i))>>11) / (1 << 53)
		v := T(float64(lo) + unit*width)
		if v >= hi { // rounding at the top of the range
			v = lo
		}
		return v
	})
}

// fill computes dst[i] = gen(i) in parallel chunks.
func fill[T any](dst []T, workers int, gen func(i int) T) error {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	var g errgroup.Group
	g.SetLimit(workers)
	for lo := 0; lo < len(dst); lo += chunkSize {
		hi := min(lo+chunkSize, len(dst))
		g.Go(func() error {
			for i := lo; i < hi; i++ {
				dst[i] = gen(i)
			}
			return nil
		})
	}
	return g.Wait()
}
