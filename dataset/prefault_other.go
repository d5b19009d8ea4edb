//go:build !linux

package dataset

// prefaultRegion is a no-op outside Linux.
func prefaultRegion(data []byte) {}
