//go:build linux

package dataset

import "golang.org/x/sys/unix"

// fadviseSequential tells the kernel the dataset is about to be read front
// to back, so readahead can run ahead of the decoders. Errors are ignored.
func fadviseSequential(fd int, offset, length int64) {
	_ = unix.Fadvise(fd, offset, length, unix.FADV_SEQUENTIAL)
}
