package radix

import (
	"encoding/binary"
	"hash/fnv"
	"math"
	"math/rand/v2"
	"slices"
	"testing"

	"golang.org/x/exp/constraints"
)

// Named seeds for deterministic reproduction.
const (
	testSeed1 = 0x1234567890ABCDEF
	testSeed2 = 0xFEDCBA9876543210
)

func newTestRNG(t testing.TB) *rand.Rand {
	t.Helper()
	h := fnv.New128a()
	h.Write([]byte(t.Name()))
	sum := h.Sum(nil)
	s1 := binary.LittleEndian.Uint64(sum[:8])
	s2 := binary.LittleEndian.Uint64(sum[8:])
	return rand.New(rand.NewPCG(testSeed1^s1, testSeed2^s2))
}

// checkAgainstStdlib sorts a copy with slices.Sort and compares element-wise.
func checkAgainstStdlib[T constraints.Integer](t *testing.T, data []T) {
	t.Helper()
	want := slices.Clone(data)
	slices.Sort(want)
	Sort(data)
	if !slices.Equal(data, want) {
		for i := range data {
			if data[i] != want[i] {
				t.Fatalf("n=%d: mismatch at %d: got %v, want %v", len(data), i, data[i], want[i])
			}
		}
	}
}

func randomInts[T constraints.Integer](rng *rand.Rand, n int) []T {
	out := make([]T, n)
	for i := range out {
		out[i] = T(rng.Uint64())
	}
	return out
}

var testSizes = []int{0, 1, 2, 255, 256, 257, 1000, 4096, 50_000}

func TestSortSignedWidths(t *testing.T) {
	rng := newTestRNG(t)
	for _, n := range testSizes {
		checkAgainstStdlib(t, randomInts[int8](rng, n))
		checkAgainstStdlib(t, randomInts[int16](rng, n))
		checkAgainstStdlib(t, randomInts[int32](rng, n))
		checkAgainstStdlib(t, randomInts[int64](rng, n))
		checkAgainstStdlib(t, randomInts[int](rng, n))
	}
}

func TestSortUnsignedWidths(t *testing.T) {
	rng := newTestRNG(t)
	for _, n := range testSizes {
		checkAgainstStdlib(t, randomInts[uint8](rng, n))
		checkAgainstStdlib(t, randomInts[uint16](rng, n))
		checkAgainstStdlib(t, randomInts[uint32](rng, n))
		checkAgainstStdlib(t, randomInts[uint64](rng, n))
		checkAgainstStdlib(t, randomInts[uint](rng, n))
	}
}

// TestSortExtremes mixes min/max values with small negatives so the sign pass
// and the skipped middle passes are both exercised.
func TestSortExtremes(t *testing.T) {
	data := make([]int64, 0, 1200)
	for i := range 300 {
		data = append(data, math.MinInt64, math.MaxInt64, int64(-i), int64(i))
	}
	checkAgainstStdlib(t, data)

	u := make([]uint32, 0, 900)
	for i := range 300 {
		u = append(u, math.MaxUint32, 0, uint32(i))
	}
	checkAgainstStdlib(t, u)
}

// TestSortNarrowRange covers the benchmark default distribution: values in
// [0, 50) stored in a wide type, where only the low-byte pass does work.
func TestSortNarrowRange(t *testing.T) {
	rng := newTestRNG(t)
	data := make([]uint32, 10_000)
	for i := range data {
		data[i] = rng.Uint32N(50)
	}
	checkAgainstStdlib(t, data)
}

func TestSortAllEqual(t *testing.T) {
	data := make([]int32, 1000)
	for i := range data {
		data[i] = -7
	}
	checkAgainstStdlib(t, data)
}

func TestSortBufferTooSmall(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("SortBuffer with short scratch should panic")
		}
	}()
	SortBuffer([]int32{3, 2, 1}, make([]int32, 2))
}

func BenchmarkSortUint32(b *testing.B) {
	rng := rand.New(rand.NewPCG(testSeed1, testSeed2))
	src := randomInts[uint32](rng, 1<<20)
	data := make([]uint32, len(src))
	buf := make([]uint32, len(src))
	b.SetBytes(int64(len(src) * 4))
	b.ResetTimer()
	for range b.N {
		copy(data, src)
		SortBuffer(data, buf)
	}
}
