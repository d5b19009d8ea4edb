// Psrsfile generates, sorts, and checks dataset files.
//
// Usage:
//
//	go run ./cmd/psrsfile gen   -o data.psrt -n 10000000 -kind int32 -min 0 -max 50
//	go run ./cmd/psrsfile sort  -i data.psrt -o sorted.psrt -p 16
//	go run ./cmd/psrsfile check -i sorted.psrt
//	go run ./cmd/psrsfile info  -i sorted.psrt
//
// sort verifies its output against the fingerprint stored in the input file
// before writing anything.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"time"

	"golang.org/x/exp/constraints"

	"github.com/tamirms/psrs"
	"github.com/tamirms/psrs/dataset"
	psrserrors "github.com/tamirms/psrs/errors"
	"github.com/tamirms/psrs/internal/datagen"
	"github.com/tamirms/psrs/internal/encoding"
	"github.com/tamirms/psrs/verify"
)

// intElement is an integer type that can be stored in a dataset.
type intElement interface {
	constraints.Integer
	encoding.Element
}

// handlers holds the per-kind instantiations of each subcommand.
type handlers struct {
	gen   func(path string, n int, lo, hi float64, seed uint32, workers int) error
	sort  func(ctx context.Context, in, out string, opts []psrs.Option) error
	check func(path string) error
}

func intHandlers[T intElement]() handlers {
	return handlers{gen: genInts[T], sort: sortFile[T], check: checkFile[T]}
}

func floatHandlers[T constraints.Float]() handlers {
	return handlers{gen: genFloats[T], sort: sortFile[T], check: checkFile[T]}
}

var byKind = map[encoding.Kind]handlers{
	encoding.KindUint8:   intHandlers[uint8](),
	encoding.KindUint16:  intHandlers[uint16](),
	encoding.KindUint32:  intHandlers[uint32](),
	encoding.KindUint64:  intHandlers[uint64](),
	encoding.KindInt8:    intHandlers[int8](),
	encoding.KindInt16:   intHandlers[int16](),
	encoding.KindInt32:   intHandlers[int32](),
	encoding.KindInt64:   intHandlers[int64](),
	encoding.KindFloat32: floatHandlers[float32](),
	encoding.KindFloat64: floatHandlers[float64](),
}

func usage() {
	fmt.Fprintf(os.Stderr, "usage: psrsfile <gen|sort|check|info> [flags]\n")
}

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	cmd, args := os.Args[1], os.Args[2:]
	var err error
	switch cmd {
	case "gen":
		err = runGen(args)
	case "sort":
		err = runSort(ctx, args)
	case "check":
		err = runCheck(args)
	case "info":
		err = runInfo(args)
	default:
		usage()
		os.Exit(2)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "psrsfile %s: %v\n", cmd, err)
		stop()
		os.Exit(1)
	}
}

func lookup(k encoding.Kind) (handlers, error) {
	h, ok := byKind[k]
	if !ok {
		return handlers{}, fmt.Errorf("%w: %s", psrserrors.ErrUnsupportedKind, k)
	}
	return h, nil
}

func runGen(args []string) error {
	fs := flag.NewFlagSet("gen", flag.ExitOnError)
	out := fs.String("o", "", "output dataset path")
	n := fs.Int("n", 10_000_000, "number of elements")
	kindName := fs.String("kind", "int32", "element kind (uint8..uint64, int8..int64, float32, float64)")
	lo := fs.Float64("min", 0, "minimum value (inclusive)")
	hi := fs.Float64("max", 50, "maximum value (exclusive)")
	seed := fs.Uint("seed", 0x1234, "generator seed")
	workers := fs.Int("workers", 0, "generator workers (0 = GOMAXPROCS)")
	_ = fs.Parse(args) // ExitOnError
	if *out == "" {
		return fmt.Errorf("-o is required")
	}

	kind, ok := encoding.ParseKind(*kindName)
	if !ok {
		return fmt.Errorf("%w: %q", psrserrors.ErrUnsupportedKind, *kindName)
	}
	h, err := lookup(kind)
	if err != nil {
		return err
	}

	start := time.Now()
	if err := h.gen(*out, *n, *lo, *hi, uint32(*seed), *workers); err != nil {
		return err
	}
	fmt.Printf("Wrote %d %s values in [%g, %g) to %s in %v\n", *n, kind, *lo, *hi, *out, time.Since(start))
	return nil
}

func genInts[T intElement](path string, n int, lo, hi float64, seed uint32, workers int) error {
	data := make([]T, n)
	if err := datagen.Uniform(data, T(lo), T(hi), seed, workers); err != nil {
		return err
	}
	return dataset.Write(path, data, dataset.WithSeed(uint64(seed)))
}

func genFloats[T constraints.Float](path string, n int, lo, hi float64, seed uint32, workers int) error {
	data := make([]T, n)
	if err := datagen.UniformFloat(data, T(lo), T(hi), seed, workers); err != nil {
		return err
	}
	return dataset.Write(path, data, dataset.WithSeed(uint64(seed)))
}

func runSort(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("sort", flag.ExitOnError)
	in := fs.String("i", "", "input dataset path")
	out := fs.String("o", "", "output dataset path")
	p := fs.Int("p", 0, "partitions (0 = GOMAXPROCS)")
	workers := fs.Int("workers", 0, "worker bound (0 = GOMAXPROCS)")
	localName := fs.String("local", "pdq", "local sort algorithm: pdq or radix")
	_ = fs.Parse(args) // ExitOnError
	if *in == "" || *out == "" {
		return fmt.Errorf("-i and -o are required")
	}

	local, err := psrs.ParseLocalSort(*localName)
	if err != nil {
		return err
	}
	info, err := dataset.Stat(*in)
	if err != nil {
		return err
	}
	h, err := lookup(info.Kind)
	if err != nil {
		return err
	}
	opts := []psrs.Option{psrs.WithWorkers(*workers), psrs.WithLocalSort(local)}
	if *p > 0 {
		opts = append(opts, psrs.WithPartitions(*p))
	}
	return h.sort(ctx, *in, *out, opts)
}

func sortFile[T encoding.Element](ctx context.Context, in, out string, opts []psrs.Option) error {
	readStart := time.Now()
	data, info, err := dataset.Read[T](in)
	if err != nil {
		return err
	}
	readDuration := time.Since(readStart)

	var st psrs.Stats
	sortStart := time.Now()
	if err := psrs.SortContext(ctx, data, append(opts, psrs.WithStats(&st))...); err != nil {
		return err
	}
	sortDuration := time.Since(sortStart)

	if err := verify.Check(data, info.Fingerprint); err != nil {
		return err
	}

	writeStart := time.Now()
	if err := dataset.Write(out, data, dataset.WithSeed(info.Seed), dataset.WithSorted(true)); err != nil {
		return err
	}
	writeDuration := time.Since(writeStart)

	fmt.Printf("Sorted %d %s values with P=%d (imbalance %.3f)\n", len(data), info.Kind, st.Partitions, st.Imbalance())
	fmt.Printf("  read   %v\n", readDuration)
	fmt.Printf("  sort   %v\n", sortDuration)
	fmt.Printf("  write  %v\n", writeDuration)
	return nil
}

func runCheck(args []string) error {
	fs := flag.NewFlagSet("check", flag.ExitOnError)
	in := fs.String("i", "", "dataset path")
	_ = fs.Parse(args) // ExitOnError
	if *in == "" {
		return fmt.Errorf("-i is required")
	}
	info, err := dataset.Stat(*in)
	if err != nil {
		return err
	}
	h, err := lookup(info.Kind)
	if err != nil {
		return err
	}
	return h.check(*in)
}

// checkFile verifies the payload checksum and fingerprint of a dataset, and
// its order when the file claims to be sorted.
func checkFile[T encoding.Element](path string) error {
	data, info, err := dataset.Read[T](path)
	if err != nil {
		return err
	}
	if got := verify.Fingerprint(data); got != info.Fingerprint {
		return fmt.Errorf("%w: fingerprint %016x, stored %016x", psrserrors.ErrCorruptedFile, got, info.Fingerprint)
	}
	first := verify.FirstUnsorted(data)
	if info.Sorted && first >= 0 {
		return fmt.Errorf("%w: file is flagged sorted but data[%d] < data[%d]", psrserrors.ErrNotSorted, first, first-1)
	}
	fmt.Printf("%s: OK (%d %s values, sorted=%v)\n", path, info.Count, info.Kind, first < 0)
	return nil
}

func runInfo(args []string) error {
	fs := flag.NewFlagSet("info", flag.ExitOnError)
	in := fs.String("i", "", "dataset path")
	_ = fs.Parse(args) // ExitOnError
	if *in == "" {
		return fmt.Errorf("-i is required")
	}
	info, err := dataset.Stat(*in)
	if err != nil {
		return err
	}
	fmt.Printf("Kind:        %s\n", info.Kind)
	fmt.Printf("Count:       %d\n", info.Count)
	fmt.Printf("Sorted:      %v\n", info.Sorted)
	fmt.Printf("Seed:        %#x\n", info.Seed)
	fmt.Printf("Fingerprint: %016x\n", info.Fingerprint)
	return nil
}
