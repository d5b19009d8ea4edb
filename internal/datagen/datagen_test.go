package datagen

import (
	"errors"
	"math"
	"slices"
	"testing"

	psrserrors "github.com/tamirms/psrs/errors"
)

func TestUniformRange(t *testing.T) {
	dst := make([]int32, 200000)
	if err := Uniform(dst, 0, 50, 7, 4); err != nil {
		t.Fatal(err)
	}
	var seen [50]int
	for i, v := range dst {
		if v < 0 || v >= 50 {
			t.Fatalf("dst[%d] = %d outside [0, 50)", i, v)
		}
		seen[v]++
	}
	// Expect ~4000 per value; a value missing entirely means a broken mapping.
	for v, n := range seen {
		if n < 3000 || n > 5000 {
			t.Errorf("value %d occurs %d times, expected about 4000", v, n)
		}
	}
}

func TestUniformSignedFullWidth(t *testing.T) {
	dst := make([]int8, 10000)
	if err := Uniform(dst, math.MinInt8, math.MaxInt8, 1, 2); err != nil {
		t.Fatal(err)
	}
	lo, hi := slices.Min(dst), slices.Max(dst)
	if lo != math.MinInt8 {
		t.Errorf("min = %d, expected %d to appear in 10000 draws", lo, math.MinInt8)
	}
	if hi != math.MaxInt8-1 {
		t.Errorf("max = %d, want %d (hi is exclusive)", hi, math.MaxInt8-1)
	}
}

func TestUniformNegativeRange(t *testing.T) {
	dst := make([]int64, 5000)
	if err := Uniform(dst, -10, -5, 3, 1); err != nil {
		t.Fatal(err)
	}
	for i, v := range dst {
		if v < -10 || v >= -5 {
			t.Fatalf("dst[%d] = %d outside [-10, -5)", i, v)
		}
	}
}

// TestUniformWorkerIndependent verifies output depends only on the seed.
func TestUniformWorkerIndependent(t *testing.T) {
	const n = 3*chunkSize + 17
	want := make([]uint64, n)
	if err := Uniform(want, 100, 1<<40, 99, 1); err != nil {
		t.Fatal(err)
	}
	for _, w := range []int{0, 2, 3, 16} {
		got := make([]uint64, n)
		if err := Uniform(got, 100, 1<<40, 99, w); err != nil {
			t.Fatal(err)
		}
		if !slices.Equal(got, want) {
			t.Fatalf("workers=%d produced different output", w)
		}
	}

	other := make([]uint64, n)
	if err := Uniform(other, 100, 1<<40, 100, 4); err != nil {
		t.Fatal(err)
	}
	if slices.Equal(other, want) {
		t.Fatal("different seeds produced identical output")
	}
}

func TestUniformInvalidRange(t *testing.T) {
	dst := make([]uint16, 4)
	for _, r := range [][2]uint16{{5, 5}, {9, 3}} {
		if err := Uniform(dst, r[0], r[1], 0, 1); !errors.Is(err, psrserrors.ErrInvalidRange) {
			t.Errorf("Uniform [%d, %d): expected ErrInvalidRange, got %v", r[0], r[1], err)
		}
	}
	if err := UniformFloat(make([]float64, 1), 1, math.NaN(), 0, 1); !errors.Is(err, psrserrors.ErrInvalidRange) {
		t.Errorf("UniformFloat with NaN bound: expected ErrInvalidRange, got %v", err)
	}
}

func TestUniformFloat(t *testing.T) {
	dst := make([]float32, 50000)
	if err := UniformFloat[float32](dst, -1, 1, 5, 3); err != nil {
		t.Fatal(err)
	}
	var neg int
	for i, v := range dst {
		if v < -1 || v >= 1 {
			t.Fatalf("dst[%d] = %v outside [-1, 1)", i, v)
		}
		if v < 0 {
			neg++
		}
	}
	if neg < 20000 || neg > 30000 {
		t.Errorf("%d negatives out of %d, expected about half", neg, len(dst))
	}
}

func TestUniformEmpty(t *testing.T) {
	if err := Uniform([]int{}, 0, 1, 0, 4); err != nil {
		t.Fatal(err)
	}
}
