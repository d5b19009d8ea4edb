package dataset

import (
	"errors"
	"fmt"
	"os"

	"github.com/cespare/xxhash/v2"
	"github.com/edsrzf/mmap-go"

	"github.com/tamirms/psrs/internal/encoding"
	"github.com/tamirms/psrs/verify"
)

// WriteOption is a functional option for Write.
type WriteOption func(*writeConfig)

type writeConfig struct {
	seed   uint64
	sorted bool
}

// WithSeed records the seed the data was generated from.
func WithSeed(seed uint64) WriteOption {
	return func(c *writeConfig) {
		c.seed = seed
	}
}

// WithSorted marks the data as sorted. Write does not check the claim;
// readers that care should run verify.Check.
func WithSorted(sorted bool) WriteOption {
	return func(c *writeConfig) {
		c.sorted = sorted
	}
}

// fileWriter owns the file and mapping of a dataset being written.
type fileWriter struct {
	path string
	file *os.File
	mmap mmap.MMap
	data []byte
}

// Write stores data at path, replacing any existing file.
//
// The file is pre-allocated and memory-mapped, and the payload is encoded in
// parallel chunks directly into the mapping. On failure the partial file is
// removed.
func Write[T encoding.Element](path string, data []T, opts ...WriteOption) error {
	cfg := &writeConfig{}
	for _, opt := range opts {
		opt(cfg)
	}

	kind := encoding.KindOf[T]()
	size := kind.Size()
	payloadSize := len(data) * size
	total := headerSize + payloadSize + footerSize

	w, err := createWriter(path, total)
	if err != nil {
		return err
	}

	payload := w.data[headerSize : headerSize+payloadSize]
	prefaultRegion(payload)

	hashes := make([]uint64, numChunks(len(data)))
	fps := make([]uint64, len(hashes))
	err = forEachChunk(len(data), func(c, lo, hi int) error {
		region := payload[lo*size : hi*size]
		encoding.Encode(region, data[lo:hi])
		hashes[c] = xxhash.Sum64(region)
		fps[c] = verify.Fingerprint(data[lo:hi])
		return nil
	})
	if err != nil {
		return w.abort(fmt.Errorf("encode payload: %w", err))
	}

	var fp uint64
	for _, v := range fps {
		fp += v
	}

	hdr := header{
		Magic:    magic,
		Version:  version,
		Kind:     kind,
		ElemSize: uint8(size),
		Count:    uint64(len(data)),
		Seed:     cfg.seed,
	}
	if cfg.sorted {
		hdr.Flags |= flagSorted
	}
	hdr.encodeTo(w.data[:headerSize])

	ftr := footer{
		PayloadHash: foldHashes(hashes),
		Fingerprint: fp,
	}
	ftr.encodeTo(w.data[headerSize+payloadSize:])

	return w.finish()
}

// createWriter creates path, reserves size bytes, and maps it read-write.
func createWriter(path string, size int) (*fileWriter, error) {
	file, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create dataset file: %w", err)
	}
	w := &fileWriter{path: path, file: file}

	// Pre-allocate disk blocks to prevent SIGBUS on disk full
	if err := fallocateFile(file, int64(size)); err != nil {
		return nil, w.abort(fmt.Errorf("failed to allocate disk space: %w", err))
	}

	mm, err := mmap.MapRegion(file, size, mmap.RDWR, 0, 0)
	if err != nil {
		return nil, w.abort(fmt.Errorf("failed to mmap file: %w", err))
	}
	w.mmap = mm
	w.data = []byte(mm)
	return w, nil
}

// finish flushes and releases the mapping and file.
// On error, delegates to abort for cleanup.
func (w *fileWriter) finish() error {
	// Flush dirty pages to file (ensures writes visible before unmap)
	if err := w.mmap.Flush(); err != nil {
		return w.abort(fmt.Errorf("mmap flush failed: %w", err))
	}

	// Nil mmap regardless of outcome to prevent close() from retrying.
	unmapErr := w.mmap.Unmap()
	w.mmap = nil
	if unmapErr != nil {
		return w.abort(fmt.Errorf("mmap unmap failed: %w", unmapErr))
	}

	closeErr := w.file.Close()
	w.file = nil
	if closeErr != nil {
		return w.abort(fmt.Errorf("close failed: %w", closeErr))
	}
	return nil
}

// close releases the mapping and file. Idempotent.
func (w *fileWriter) close() error {
	var unmapErr error
	if w.mmap != nil {
		unmapErr = w.mmap.Unmap()
		w.mmap = nil
	}
	var closeErr error
	if w.file != nil {
		closeErr = w.file.Close()
		w.file = nil
	}
	return errors.Join(unmapErr, closeErr)
}

// abort closes the writer and removes the partial file, joining any cleanup
// failures onto primary.
func (w *fileWriter) abort(primary error) error {
	return errors.Join(primary, w.close(), os.Remove(w.path))
}
