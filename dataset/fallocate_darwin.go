//go:build darwin

package dataset

import (
	"os"

	"golang.org/x/sys/unix"
)

// fallocateFile reserves size bytes for file with F_PREALLOCATE and sets its
// length.
func fallocateFile(file *os.File, size int64) error {
	fst := unix.Fstore_t{
		Flags:   unix.F_ALLOCATEALL,
		Posmode: unix.F_PEOFPOSMODE,
		Length:  size,
	}
	// F_PREALLOCATE only reserves space; failure still leaves truncate to
	// set the length.
	_ = unix.FcntlFstore(file.Fd(), unix.F_PREALLOCATE, &fst)
	return unix.Ftruncate(int(file.Fd()), size)
}
