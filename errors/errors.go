// Package errors defines all exported error sentinels for the psrs module.
//
// This is the single source of truth for error values. The root psrs package,
// the dataset and verify packages, and the commands all import from here,
// so errors.Is checks work across package boundaries.
package errors

import "errors"

// Configuration errors
var (
	ErrUnknownLocalSort = errors.New("psrs: unknown local sort algorithm")
	ErrInvalidRange     = errors.New("psrs: invalid value range (hi must be greater than lo)")
)

// Verification errors
var (
	ErrNotSorted      = errors.New("psrs: output is not in non-decreasing order")
	ErrNotPermutation = errors.New("psrs: output is not a permutation of the input")
	ErrLengthMismatch = errors.New("psrs: length mismatch")
)

// Dataset file errors
var (
	ErrInvalidMagic    = errors.New("psrs: invalid magic number")
	ErrInvalidVersion  = errors.New("psrs: unsupported version")
	ErrTruncatedFile   = errors.New("psrs: dataset file is truncated")
	ErrChecksumFailed  = errors.New("psrs: dataset checksum verification failed")
	ErrCorruptedFile   = errors.New("psrs: dataset file is corrupted")
	ErrUnsupportedKind = errors.New("psrs: unsupported element kind")
	ErrKindMismatch    = errors.New("psrs: element kind does not match requested type")
)
