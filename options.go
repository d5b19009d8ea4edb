package psrs

import "runtime"

// Option is a functional option for configuring a sort.
type Option func(*config)

type config struct {
	partitions int // P; 0 means GOMAXPROCS
	workers    int // concurrent worker bound; 0 means GOMAXPROCS
	localSort  LocalSortID
	stats      *Stats
}

func defaultConfig() *config {
	return &config{
		partitions: 0, // Default to one partition per execution unit; use WithPartitions(p) to override
		workers:    0,
		localSort:  LocalSortPDQ,
	}
}

// WithPartitions sets the partition count P.
// P < 1 is treated as 1 (a plain single-threaded sort). P larger than the
// input length is clamped to the input length.
func WithPartitions(p int) Option {
	return func(c *config) {
		c.partitions = max(p, 1)
	}
}

// WithWorkers bounds how many partition workers run at once.
// P need not equal the worker count; with fewer workers than partitions the
// phases are oversubscribed and run in waves. n <= 0 uses GOMAXPROCS.
func WithWorkers(n int) Option {
	return func(c *config) {
		c.workers = n
	}
}

// WithLocalSort selects the algorithm each worker uses to sort its block.
// Default is LocalSortPDQ.
func WithLocalSort(id LocalSortID) Option {
	return func(c *config) {
		c.localSort = id
	}
}

// WithStats records partition statistics and phase timings of the sort into s.
// s is overwritten on every call it is passed to.
func WithStats(s *Stats) Option {
	return func(c *config) {
		c.stats = s
	}
}

// effectivePartitions returns P clamped to [1, n].
func (c *config) effectivePartitions(n int) int {
	p := c.partitions
	if p == 0 {
		p = runtime.GOMAXPROCS(0)
	}
	return max(min(p, n), 1)
}

// effectiveWorkers returns the worker bound for p partitions.
func (c *config) effectiveWorkers(p int) int {
	w := c.workers
	if w <= 0 {
		w = runtime.GOMAXPROCS(0)
	}
	return max(min(w, p), 1)
}
