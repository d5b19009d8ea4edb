package psrs

import "time"

// PhaseTimings holds the wall-clock time spent in each phase of a sort.
// Each parallel phase is timed from its first dispatch to its barrier.
type PhaseTimings struct {
	LocalSort time.Duration
	Sample    time.Duration
	Pivot     time.Duration
	Partition time.Duration
	Merge     time.Duration
	Assemble  time.Duration
}

// Total returns the sum of all phase timings.
func (t PhaseTimings) Total() time.Duration {
	return t.LocalSort + t.Sample + t.Pivot + t.Partition + t.Merge + t.Assemble
}

// Stats describes how a sort partitioned its input.
type Stats struct {
	Elements   int   // N
	Partitions int   // effective P after clamping
	BlockLens  []int // length of each input block
	BucketLens []int // length of each output bucket (merged run)
	Samples    int   // number of regular samples gathered
	Phases     PhaseTimings
}

// Imbalance returns the largest bucket length divided by the mean bucket
// length. A perfectly balanced partition returns 1. Returns 0 when no buckets
// were formed.
func (s *Stats) Imbalance() float64 {
	if len(s.BucketLens) == 0 || s.Elements == 0 {
		return 0
	}
	largest := 0
	for _, n := range s.BucketLens {
		largest = max(largest, n)
	}
	mean := float64(s.Elements) / float64(len(s.BucketLens))
	return float64(largest) / mean
}

func (s *Stats) reset() {
	*s = Stats{}
}
