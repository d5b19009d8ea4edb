package psrs

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"time"

	"golang.org/x/sync/errgroup"

	psrserrors "github.com/tamirms/psrs/errors"
	"github.com/tamirms/psrs/internal/kway"
	"github.com/tamirms/psrs/internal/partition"
)

// Sort sorts data ascending in place using p partitions.
//
// p < 1 is treated as 1, which degenerates to a plain single-threaded sort.
// Elements are ordered with cmp.Less, so NaN sorts before every other
// float value.
func Sort[T cmp.Ordered](data []T, p int) {
	// Default options with a background context cannot fail.
	_ = SortContext(context.Background(), data, WithPartitions(p))
}

// SortContext sorts data ascending in place.
//
// Cancellation is observed at phase barriers. When ctx is cancelled the
// workers already started finish their current item, no further phase is
// started, and ctx.Err() is returned. data is then left as some permutation
// of its original contents, but not necessarily sorted.
func SortContext[T cmp.Ordered](ctx context.Context, data []T, opts ...Option) error {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	if !cfg.localSort.valid() {
		return fmt.Errorf("%w: %d", psrserrors.ErrUnknownLocalSort, cfg.localSort)
	}
	if cfg.stats != nil {
		cfg.stats.reset()
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	n := len(data)
	if n == 0 {
		return nil
	}
	p := cfg.effectivePartitions(n)
	if p == 1 {
		start := time.Now()
		localSort(cfg.localSort, data, nil)
		if st := cfg.stats; st != nil {
			st.Elements = n
			st.Partitions = 1
			st.BlockLens = []int{n}
			st.BucketLens = []int{n}
			st.Phases.LocalSort = time.Since(start)
		}
		return nil
	}

	s := newSortRun(ctx, cfg, data, p)
	return s.run()
}

// sortRun holds the per-call state of one parallel sort.
// All buffers are owned by the call; concurrent sorts share nothing.
type sortRun[T cmp.Ordered] struct {
	ctx     context.Context
	cfg     *config
	data    []T
	p       int
	workers int

	blocks  []partition.Range
	samples []T // block i writes its samples into samples[i*p : (i+1)*p]
	counts  []int
	pivots  []T
	table   *partition.Table
	offsets []int
	scratch []T // merge output; also radix scratch during local sort

	timings PhaseTimings
}

func newSortRun[T cmp.Ordered](ctx context.Context, cfg *config, data []T, p int) *sortRun[T] {
	return &sortRun[T]{
		ctx:     ctx,
		cfg:     cfg,
		data:    data,
		p:       p,
		workers: cfg.effectiveWorkers(p),
		blocks:  partition.Blocks(len(data), p),
		samples: make([]T, p*p),
		counts:  make([]int, p),
		table:   partition.NewTable(p),
		scratch: make([]T, len(data)),
	}
}

func (s *sortRun[T]) run() error {
	steps := []struct {
		fn  func() error
		dur *time.Duration
	}{
		{func() error { return s.parallel(s.sortBlock) }, &s.timings.LocalSort},
		{func() error { return s.parallel(s.sampleBlock) }, &s.timings.Sample},
		{s.selectPivots, &s.timings.Pivot},
		{s.partition, &s.timings.Partition},
		{func() error { return s.parallel(s.mergeBucket) }, &s.timings.Merge},
		{s.assemble, &s.timings.Assemble},
	}
	for _, step := range steps {
		if err := s.ctx.Err(); err != nil {
			return err
		}
		start := time.Now()
		if err := step.fn(); err != nil {
			return err
		}
		*step.dur = time.Since(start)
	}
	s.record()
	return nil
}

// parallel runs fn(i) for every i in [0, p) on at most s.workers goroutines
// and waits for all of them. The wait is the phase barrier.
func (s *sortRun[T]) parallel(fn func(i int)) error {
	g, ctx := errgroup.WithContext(s.ctx)
	g.SetLimit(s.workers)
	for i := range s.p {
		if ctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			fn(i)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	return s.ctx.Err()
}

func (s *sortRun[T]) block(i int) []T {
	b := s.blocks[i]
	return s.data[b.Lo:b.Hi]
}

// sortBlock sorts block i in place. The block's slice of scratch is free
// until the merge phase, so it doubles as radix sort scratch.
func (s *sortRun[T]) sortBlock(i int) {
	b := s.blocks[i]
	localSort(s.cfg.localSort, s.data[b.Lo:b.Hi], s.scratch[b.Lo:b.Hi])
}

func (s *sortRun[T]) sampleBlock(i int) {
	dst := s.samples[i*s.p : i*s.p : (i+1)*s.p]
	s.counts[i] = len(partition.Sample(dst, s.block(i), s.p))
}

// selectPivots gathers the samples of every block and picks P-1 pivots.
// Empty blocks leave gaps in the sample buffer, which are compacted away.
func (s *sortRun[T]) selectPivots() error {
	n := 0
	for i, c := range s.counts {
		n += copy(s.samples[n:], s.samples[i*s.p:i*s.p+c])
	}
	s.samples = s.samples[:n]
	s.pivots = partition.SelectPivots(s.samples, s.p)
	return nil
}

// partition fills the boundary table and fixes every bucket's output offset.
func (s *sortRun[T]) partition() error {
	if err := s.parallel(s.partitionBlock); err != nil {
		return err
	}
	s.offsets = s.table.RunOffsets()
	return nil
}

func (s *sortRun[T]) partitionBlock(i int) {
	partition.Boundaries(s.table.Row(i), s.block(i), s.pivots)
}

// mergeBucket merges bucket k's sub-slice of every block into its exclusive
// region of scratch. Offsets are fixed before the phase starts, so regions
// of different buckets never overlap.
func (s *sortRun[T]) mergeBucket(k int) {
	runs := make([][]T, s.p)
	for i := range s.p {
		sub := s.table.Sub(i, k)
		runs[i] = s.block(i)[sub.Lo:sub.Hi]
	}
	kway.NewMerger[T](s.p).Merge(s.scratch[s.offsets[k]:s.offsets[k+1]], runs)
}

// assemble copies the merged runs back into data in bucket order.
func (s *sortRun[T]) assemble() error {
	copy(s.data, s.scratch)
	return nil
}

func (s *sortRun[T]) record() {
	st := s.cfg.stats
	if st == nil {
		return
	}
	st.Elements = len(s.data)
	st.Partitions = s.p
	st.BlockLens = make([]int, s.p)
	for i, b := range s.blocks {
		st.BlockLens[i] = b.Len()
	}
	st.BucketLens = make([]int, s.p)
	for k := range s.p {
		st.BucketLens[k] = s.offsets[k+1] - s.offsets[k]
	}
	st.Samples = len(s.samples)
	st.Phases = s.timings
}

// Sorted returns a sorted copy of data, leaving data unchanged.
func Sorted[T cmp.Ordered](data []T, opts ...Option) ([]T, error) {
	out := slices.Clone(data)
	if err := SortContext(context.Background(), out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}
