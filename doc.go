// Package psrs implements Parallel Sort by Regular Sampling: an in-place,
// ascending, multi-core sort of a slice of ordered values.
//
// The input is split into P contiguous blocks. Each block is sorted
// independently, P regular samples are drawn from every sorted block, and
// P-1 pivots chosen from the sorted samples cut every block into P
// sub-slices. Bucket k gathers sub-slice k of every block; the buckets are
// merged independently and concatenated in bucket order. Each phase runs on
// a bounded set of workers and ends at a barrier before the next begins.
//
// # Basic Usage
//
// Sorting with ten partitions:
//
//	data := []int32{9, 3, 7, 1, 8}
//	psrs.Sort(data, 10)
//
// Sorting with cancellation, a radix local sort, and statistics:
//
//	var st psrs.Stats
//	err := psrs.SortContext(ctx, data,
//	    psrs.WithPartitions(16),
//	    psrs.WithWorkers(8),
//	    psrs.WithLocalSort(psrs.LocalSortRadix),
//	    psrs.WithStats(&st),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Printf("imbalance %.2f\n", st.Imbalance())
//
// # Package Structure
//
// The implementation is organized as follows:
//
//   - Public API: sort.go (Sort, SortContext, phase orchestration)
//   - Configuration: options.go (Option, With* functions)
//   - Local sort dispatch: algorithm.go (LocalSortID, pdq and radix)
//   - Statistics: stats.go (Stats, PhaseTimings)
//   - Index arithmetic: internal/partition/ (blocks, samples, pivots, boundary table)
//   - Merging: internal/kway/ (k-way heap merge)
//   - Integer sort: internal/radix/ (LSD radix sort)
//   - Sorted-data files: dataset/ (mmap-backed binary format)
//   - Result checking: verify/ (sortedness, multiset fingerprint)
//   - Input generation: internal/datagen/ (seeded parallel generators)
package psrs
