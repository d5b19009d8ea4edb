//go:build linux

package dataset

import "golang.org/x/sys/unix"

// MADV_POPULATE_WRITE (Linux 5.14+). Older kernels return EINVAL.
const madvPopulateWrite = 23

// prefaultRegion populates the writable pages of a freshly mapped payload so
// parallel encoders do not take page faults one page at a time.
// Best-effort: errors are ignored.
func prefaultRegion(data []byte) {
	if len(data) == 0 {
		return
	}
	_ = unix.Madvise(data, madvPopulateWrite)
}
