package dataset

import (
	"errors"
	"math"
	"math/rand/v2"
	"os"
	"path/filepath"
	"slices"
	"testing"

	psrserrors "github.com/tamirms/psrs/errors"
	"github.com/tamirms/psrs/internal/encoding"
	"github.com/tamirms/psrs/verify"
)

func roundTrip[T encoding.Element](t *testing.T, data []T, opts ...WriteOption) *Info {
	t.Helper()
	path := filepath.Join(t.TempDir(), "data.psrt")
	if err := Write(path, data, opts...); err != nil {
		t.Fatalf("Write: %v", err)
	}
	got, info, err := Read[T](path)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if len(got) != len(data) {
		t.Fatalf("Read returned %d elements, want %d", len(got), len(data))
	}
	for i := range data {
		// Compare bit patterns so NaN round-trips count as equal.
		k := encoding.KindOf[T]()
		if encoding.Bits(k, got[i]) != encoding.Bits(k, data[i]) {
			t.Fatalf("element %d = %v, want %v", i, got[i], data[i])
		}
	}
	st, err := Stat(path)
	if err != nil {
		t.Fatalf("Stat: %v", err)
	}
	if *st != *info {
		t.Fatalf("Stat = %+v, Read info = %+v", st, info)
	}
	return info
}

func TestRoundTripKinds(t *testing.T) {
	t.Run("uint8", func(t *testing.T) {
		roundTrip(t, []uint8{0, 1, 255, 7})
	})
	t.Run("int16", func(t *testing.T) {
		roundTrip(t, []int16{math.MinInt16, -1, 0, math.MaxInt16})
	})
	t.Run("uint32", func(t *testing.T) {
		roundTrip(t, []uint32{math.MaxUint32, 0, 50})
	})
	t.Run("int64", func(t *testing.T) {
		roundTrip(t, []int64{math.MinInt64, math.MaxInt64, 0, -42})
	})
	t.Run("float32", func(t *testing.T) {
		roundTrip(t, []float32{float32(math.Inf(-1)), -0.5, 3.25, float32(math.NaN())})
	})
	t.Run("float64", func(t *testing.T) {
		roundTrip(t, []float64{math.SmallestNonzeroFloat64, math.MaxFloat64, math.NaN()})
	})
	t.Run("empty", func(t *testing.T) {
		info := roundTrip(t, []int32{})
		if info.Count != 0 {
			t.Fatalf("Count = %d, want 0", info.Count)
		}
	})
}

func TestRoundTripInfo(t *testing.T) {
	data := []int32{1, 2, 2, 9}
	info := roundTrip(t, data, WithSeed(77), WithSorted(true))
	want := Info{
		Kind:        encoding.KindInt32,
		Count:       4,
		Sorted:      true,
		Seed:        77,
		Fingerprint: verify.Fingerprint(data),
	}
	if *info != want {
		t.Fatalf("Info = %+v, want %+v", *info, want)
	}
}

// TestRoundTripManyChunks crosses several chunk boundaries with a ragged tail.
func TestRoundTripManyChunks(t *testing.T) {
	rng := rand.New(rand.NewPCG(3, 4))
	data := make([]uint64, 3*chunkElems+5)
	for i := range data {
		data[i] = rng.Uint64()
	}
	info := roundTrip(t, data)
	if info.Fingerprint != verify.Fingerprint(data) {
		t.Fatal("stored fingerprint does not match data")
	}
}

func TestWriteOverwrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.psrt")
	if err := Write(path, []uint16{1, 2, 3, 4, 5, 6}); err != nil {
		t.Fatal(err)
	}
	if err := Write(path, []uint16{9}); err != nil {
		t.Fatal(err)
	}
	got, _, err := Read[uint16](path)
	if err != nil {
		t.Fatal(err)
	}
	if !slices.Equal(got, []uint16{9}) {
		t.Fatalf("Read = %v, want [9]", got)
	}
}

func TestWriteMissingDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "data.psrt")
	if err := Write(path, []int8{1}); err == nil {
		t.Fatal("expected error writing into a missing directory")
	}
}

// ---------------------------------------------------------------------------
// Open errors
// ---------------------------------------------------------------------------

func TestReadNonExistent(t *testing.T) {
	if _, _, err := Read[int32]("/nonexistent/path/data.psrt"); err == nil {
		t.Error("expected error for non-existent path")
	}
	if _, err := Stat("/nonexistent/path/data.psrt"); err == nil {
		t.Error("expected Stat error for non-existent path")
	}
}

func TestReadEmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.psrt")
	if err := os.WriteFile(path, nil, 0o644); err != nil {
		t.Fatal(err)
	}
	if _, _, err := Read[int32](path); !errors.Is(err, psrserrors.ErrTruncatedFile) {
		t.Errorf("expected ErrTruncatedFile, got %v", err)
	}
}

func TestReadKindMismatch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.psrt")
	if err := Write(path, []int32{1, 2, 3}); err != nil {
		t.Fatal(err)
	}
	if _, _, err := Read[uint32](path); !errors.Is(err, psrserrors.ErrKindMismatch) {
		t.Errorf("expected ErrKindMismatch, got %v", err)
	}
	if _, _, err := Read[float32](path); !errors.Is(err, psrserrors.ErrKindMismatch) {
		t.Errorf("expected ErrKindMismatch for same-width float, got %v", err)
	}
}

// ---------------------------------------------------------------------------
// Corruption detection
// ---------------------------------------------------------------------------

// TestCorruptionDetection writes a valid file, damages one part of it, and
// checks Read reports the expected sentinel.
func TestCorruptionDetection(t *testing.T) {
	data := make([]int32, 1000)
	for i := range data {
		data[i] = int32(i * 7 % 50)
	}

	tests := []struct {
		name    string
		corrupt func(b []byte) []byte
		want    error
	}{
		{"magic", func(b []byte) []byte { b[0] ^= 0xFF; return b }, psrserrors.ErrInvalidMagic},
		{"version", func(b []byte) []byte { b[4] = 9; return b }, psrserrors.ErrInvalidVersion},
		{"kind", func(b []byte) []byte { b[6] = 200; return b }, psrserrors.ErrUnsupportedKind},
		{"elem_size", func(b []byte) []byte { b[7] = 8; return b }, psrserrors.ErrCorruptedFile},
		{"count_too_large", func(b []byte) []byte { b[8]++; return b }, psrserrors.ErrTruncatedFile},
		{"count_overflow", func(b []byte) []byte { b[15] = 0xFF; return b }, psrserrors.ErrCorruptedFile},
		{"payload_flip", func(b []byte) []byte { b[headerSize+123] ^= 0x01; return b }, psrserrors.ErrChecksumFailed},
		{"payload_hash", func(b []byte) []byte { b[len(b)-footerSize] ^= 0x80; return b }, psrserrors.ErrChecksumFailed},
		{"truncated", func(b []byte) []byte { return b[:len(b)-1] }, psrserrors.ErrTruncatedFile},
		{"trailing_garbage", func(b []byte) []byte { return append(b, 0) }, psrserrors.ErrCorruptedFile},
		{"header_only", func(b []byte) []byte { return b[:headerSize] }, psrserrors.ErrTruncatedFile},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "data.psrt")
			if err := Write(path, data); err != nil {
				t.Fatal(err)
			}
			raw, err := os.ReadFile(path)
			if err != nil {
				t.Fatal(err)
			}
			if err := os.WriteFile(path, tc.corrupt(raw), 0o644); err != nil {
				t.Fatal(err)
			}
			if _, _, err := Read[int32](path); !errors.Is(err, tc.want) {
				t.Fatalf("Read: expected %v, got %v", tc.want, err)
			}
		})
	}
}

// TestStatSkipsPayload verifies Stat does not read the payload, so payload
// damage goes unnoticed until Read.
func TestStatSkipsPayload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.psrt")
	if err := Write(path, []uint8{1, 2, 3, 4}, WithSeed(5)); err != nil {
		t.Fatal(err)
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	raw[headerSize] ^= 0xFF
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		t.Fatal(err)
	}
	info, err := Stat(path)
	if err != nil {
		t.Fatalf("Stat: %v", err)
	}
	if info.Count != 4 || info.Seed != 5 || info.Kind != encoding.KindUint8 {
		t.Fatalf("Stat = %+v", info)
	}
	if _, _, err := Read[uint8](path); !errors.Is(err, psrserrors.ErrChecksumFailed) {
		t.Fatalf("expected ErrChecksumFailed, got %v", err)
	}
}
