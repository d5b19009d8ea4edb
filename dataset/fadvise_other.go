//go:build !linux

package dataset

// fadviseSequential is a no-op outside Linux.
func fadviseSequential(fd int, offset, length int64) {}
