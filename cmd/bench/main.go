// Bench measures parallel sort by regular sampling against a single-threaded
// sort of the same generated input.
//
// Usage:
//
//	go run ./cmd/bench -n 10000000 -p 10 -mode both
//
// Flags:
//
//	-n           Number of elements (default: 10,000,000)
//	-p           Number of partitions (default: 10)
//	-workers     Worker bound, 0 for GOMAXPROCS (default: 0)
//	-min, -max   Generated value range [min, max) (default: [0, 50))
//	-warmups     Untimed runs before measuring (default: 1)
//	-runs        Timed runs per mode (default: 5)
//	-mode        psrs, serial, or both (default: both)
//	-local       Local sort algorithm: pdq or radix (default: pdq)
//	-seed        Generator seed (default: 0x1234)
package main

import (
	"context"
	"flag"
	"fmt"
	"math"
	"os"
	"runtime"
	"runtime/metrics"
	"runtime/pprof"
	"slices"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/tamirms/psrs"
	"github.com/tamirms/psrs/internal/datagen"
	"github.com/tamirms/psrs/verify"
)

// getMaxRSS returns the maximum resident set size in bytes.
// Uses getrusage(RUSAGE_SELF) which tracks peak RSS since process start.
func getMaxRSS() uint64 {
	var rusage syscall.Rusage
	if err := syscall.Getrusage(syscall.RUSAGE_SELF, &rusage); err != nil {
		return 0
	}
	// On macOS, MaxRss is in bytes. On Linux, it's in kilobytes.
	maxRSS := uint64(rusage.Maxrss)
	if runtime.GOOS == "linux" {
		maxRSS *= 1024
	}
	return maxRSS
}

// peakHeapSampler records the largest live heap seen every 10ms.
// Uses runtime/metrics so sampling does not stop the world.
type peakHeapSampler struct {
	peak atomic.Uint64
	done chan struct{}
}

func startPeakHeapSampler() *peakHeapSampler {
	s := &peakHeapSampler{done: make(chan struct{})}
	go func() {
		samples := []metrics.Sample{
			{Name: "/memory/classes/heap/objects:bytes"},
		}
		ticker := time.NewTicker(10 * time.Millisecond)
		defer ticker.Stop()
		for {
			select {
			case <-s.done:
				return
			case <-ticker.C:
				metrics.Read(samples)
				heapBytes := samples[0].Value.Uint64()
				for {
					old := s.peak.Load()
					if heapBytes <= old || s.peak.CompareAndSwap(old, heapBytes) {
						break
					}
				}
			}
		}
	}()
	return s
}

func (s *peakHeapSampler) stop() uint64 {
	close(s.done)
	return s.peak.Load()
}

// summary aggregates the timed runs of one mode.
type summary struct {
	runs []time.Duration
}

func (s summary) mean() time.Duration {
	var total time.Duration
	for _, d := range s.runs {
		total += d
	}
	return total / time.Duration(len(s.runs))
}

func (s summary) min() time.Duration { return slices.Min(s.runs) }
func (s summary) max() time.Duration { return slices.Max(s.runs) }

func ms(d time.Duration) float64 {
	return float64(d.Nanoseconds()) / 1e6
}

func main() {
	nFlag := flag.Int("n", 10_000_000, "number of elements")
	pFlag := flag.Int("p", 10, "number of partitions")
	workersFlag := flag.Int("workers", 0, "worker bound (0 = GOMAXPROCS)")
	minFlag := flag.Int64("min", 0, "minimum generated value (inclusive)")
	maxFlag := flag.Int64("max", 50, "maximum generated value (exclusive)")
	warmupsFlag := flag.Int("warmups", 1, "untimed warm-up runs per mode")
	runsFlag := flag.Int("runs", 5, "timed runs per mode")
	modeFlag := flag.String("mode", "both", "mode: psrs, serial, or both")
	localFlag := flag.String("local", "pdq", "local sort algorithm: pdq or radix")
	seedFlag := flag.Uint("seed", 0x1234, "generator seed")
	cpuprofile := flag.String("cpuprofile", "", "write cpu profile of the timed psrs runs to file")
	flag.Parse()

	runPSRS := *modeFlag == "psrs" || *modeFlag == "both"
	runSerial := *modeFlag == "serial" || *modeFlag == "both"
	if !runPSRS && !runSerial {
		fmt.Printf("Unknown mode: %s (use 'psrs', 'serial' or 'both')\n", *modeFlag)
		return
	}
	if *runsFlag < 1 {
		fmt.Println("-runs must be at least 1")
		return
	}
	local, err := psrs.ParseLocalSort(*localFlag)
	if err != nil {
		fmt.Printf("%v (use 'pdq' or 'radix')\n", err)
		return
	}
	if *minFlag < math.MinInt32 || *maxFlag > math.MaxInt32 {
		fmt.Println("-min and -max must fit in int32")
		return
	}

	fmt.Println("Generating data...")
	genStart := time.Now()
	orig := make([]int32, *nFlag)
	if err := datagen.Uniform(orig, int32(*minFlag), int32(*maxFlag), uint32(*seedFlag), *workersFlag); err != nil {
		fmt.Printf("Generate failed: %v\n", err)
		return
	}
	genDuration := time.Since(genStart)
	fingerprint := verify.Fingerprint(orig)
	work := make([]int32, len(orig))

	var st psrs.Stats
	opts := []psrs.Option{
		psrs.WithPartitions(*pFlag),
		psrs.WithWorkers(*workersFlag),
		psrs.WithLocalSort(local),
		psrs.WithStats(&st),
	}
	ctx := context.Background()

	// runOnce sorts a fresh copy of the input and checks the result.
	runOnce := func(parallel bool) (time.Duration, error) {
		copy(work, orig)
		start := time.Now()
		if parallel {
			if err := psrs.SortContext(ctx, work, opts...); err != nil {
				return 0, err
			}
		} else {
			slices.Sort(work)
		}
		elapsed := time.Since(start)
		return elapsed, verify.Check(work, fingerprint)
	}

	measure := func(name string, parallel bool) (summary, bool) {
		fmt.Printf("Running %s (%d warm-up, %d timed)...\n", name, *warmupsFlag, *runsFlag)
		for range *warmupsFlag {
			if _, err := runOnce(parallel); err != nil {
				fmt.Printf("%s warm-up failed: %v\n", name, err)
				return summary{}, false
			}
		}
		var s summary
		for i := range *runsFlag {
			d, err := runOnce(parallel)
			if err != nil {
				fmt.Printf("%s run %d failed: %v\n", name, i+1, err)
				return summary{}, false
			}
			fmt.Printf("  %-6s run %2d: %9.3f ms\n", name, i+1, ms(d))
			s.runs = append(s.runs, d)
		}
		return s, true
	}

	runtime.GC()
	baselineRSS := getMaxRSS()
	sampler := startPeakHeapSampler()

	var serialSum, psrsSum summary
	if runSerial {
		var ok bool
		if serialSum, ok = measure("serial", false); !ok {
			sampler.stop()
			return
		}
	}
	if runPSRS {
		if *cpuprofile != "" {
			f, err := os.Create(*cpuprofile)
			if err != nil {
				fmt.Printf("could not create CPU profile: %v\n", err)
				return
			}
			defer func() { _ = f.Close() }()
			if err := pprof.StartCPUProfile(f); err != nil {
				fmt.Printf("could not start CPU profile: %v\n", err)
				return
			}
		}
		var ok bool
		psrsSum, ok = measure("psrs", true)
		if *cpuprofile != "" {
			pprof.StopCPUProfile()
		}
		if !ok {
			sampler.stop()
			return
		}
	}

	peakHeap := sampler.stop()
	peakRSS := getMaxRSS() - baselineRSS

	fmt.Printf("\n")
	fmt.Printf("╔═════════════════════╦════════════════╦══════════════════╗\n")
	fmt.Printf("║ N: %-17d║ P: %-12d║ Local: %-10s║\n", *nFlag, st.Partitions, local)
	fmt.Printf("╠═════════════════════╬════════════════╬══════════════════╣\n")
	fmt.Printf("║ Metric              ║ Value          ║ Note             ║\n")
	fmt.Printf("╠═════════════════════╬════════════════╬══════════════════╣\n")
	fmt.Printf("║ Generate time       ║ %9.3f ms   ║ [%d, %d)%*s║\n", ms(genDuration), *minFlag, *maxFlag, pad(*minFlag, *maxFlag), "")
	if runSerial {
		fmt.Printf("║ Serial mean         ║ %9.3f ms   ║ -                ║\n", ms(serialSum.mean()))
		fmt.Printf("║ Serial min / max    ║ %9.3f ms   ║ max %9.3f ms ║\n", ms(serialSum.min()), ms(serialSum.max()))
	}
	if runPSRS {
		fmt.Printf("║ PSRS mean           ║ %9.3f ms   ║ -                ║\n", ms(psrsSum.mean()))
		fmt.Printf("║ PSRS min / max      ║ %9.3f ms   ║ max %9.3f ms ║\n", ms(psrsSum.min()), ms(psrsSum.max()))
		fmt.Printf("║   - Local sort      ║ %9.3f ms   ║ last run         ║\n", ms(st.Phases.LocalSort))
		fmt.Printf("║   - Sample          ║ %9.3f ms   ║ last run         ║\n", ms(st.Phases.Sample))
		fmt.Printf("║   - Pivot           ║ %9.3f ms   ║ last run         ║\n", ms(st.Phases.Pivot))
		fmt.Printf("║   - Partition       ║ %9.3f ms   ║ last run         ║\n", ms(st.Phases.Partition))
		fmt.Printf("║   - Merge           ║ %9.3f ms   ║ last run         ║\n", ms(st.Phases.Merge))
		fmt.Printf("║   - Assemble        ║ %9.3f ms   ║ last run         ║\n", ms(st.Phases.Assemble))
		fmt.Printf("║ Bucket imbalance    ║ %9.3f      ║ max / mean       ║\n", st.Imbalance())
	}
	if runPSRS && runSerial {
		fmt.Printf("║ Speedup (mean)      ║ %9.2fx     ║ serial / psrs    ║\n", float64(serialSum.mean())/float64(psrsSum.mean()))
	}
	fmt.Printf("║ Peak heap memory    ║ %9.1f MB   ║ -                ║\n", float64(peakHeap)/1_000_000)
	fmt.Printf("║ Peak RSS growth     ║ %9.1f MB   ║ -                ║\n", float64(peakRSS)/1_000_000)
	fmt.Printf("╚═════════════════════╩════════════════╩══════════════════╝\n")
}

// pad returns the padding that right-aligns the range note in its column.
func pad(lo, hi int64) int {
	w := len(fmt.Sprintf("[%d, %d)", lo, hi))
	return max(17-w, 0)
}
