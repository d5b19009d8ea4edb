package dataset

import (
	"errors"
	"fmt"
	"os"

	"github.com/cespare/xxhash/v2"
	"github.com/edsrzf/mmap-go"

	psrserrors "github.com/tamirms/psrs/errors"
	"github.com/tamirms/psrs/internal/encoding"
)

// Read loads the dataset at path into a new slice.
//
// The element type T must match the kind recorded in the file. The payload
// checksum is verified while decoding; a mismatch returns ErrChecksumFailed
// and no data.
func Read[T encoding.Element](path string) ([]T, *Info, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open dataset file: %w", err)
	}
	defer file.Close()

	stat, err := file.Stat()
	if err != nil {
		return nil, nil, fmt.Errorf("stat dataset file: %w", err)
	}
	if stat.Size() < headerSize+footerSize {
		return nil, nil, psrserrors.ErrTruncatedFile
	}

	fadviseSequential(int(file.Fd()), 0, stat.Size())

	mm, err := mmap.Map(file, mmap.RDONLY, 0)
	if err != nil {
		return nil, nil, fmt.Errorf("mmap dataset file: %w", err)
	}

	out, info, err := decode[T]([]byte(mm))
	if unmapErr := mm.Unmap(); unmapErr != nil {
		err = errors.Join(err, fmt.Errorf("mmap unmap failed: %w", unmapErr))
	}
	if err != nil {
		return nil, nil, err
	}
	return out, info, nil
}

// decode validates and decodes a complete dataset image.
func decode[T encoding.Element](data []byte) ([]T, *Info, error) {
	hdr, ftr, err := parse(data[:headerSize], data[len(data)-footerSize:], int64(len(data)))
	if err != nil {
		return nil, nil, err
	}
	if want := encoding.KindOf[T](); hdr.Kind != want {
		return nil, nil, fmt.Errorf("%w: file holds %s, requested %s", psrserrors.ErrKindMismatch, hdr.Kind, want)
	}

	size := int(hdr.ElemSize)
	payload := data[headerSize : headerSize+hdr.payloadSize()]
	out := make([]T, hdr.Count)
	hashes := make([]uint64, numChunks(len(out)))
	err = forEachChunk(len(out), func(c, lo, hi int) error {
		region := payload[lo*size : hi*size]
		hashes[c] = xxhash.Sum64(region)
		encoding.Decode(out[lo:hi], region)
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	if got := foldHashes(hashes); got != ftr.PayloadHash {
		return nil, nil, fmt.Errorf("%w: payload hash %016x, want %016x", psrserrors.ErrChecksumFailed, got, ftr.PayloadHash)
	}
	return out, newInfo(hdr, ftr), nil
}

// parse decodes the header and footer and checks the header against the
// actual file size.
func parse(hbuf, fbuf []byte, fileSize int64) (*header, *footer, error) {
	hdr, err := decodeHeader(hbuf)
	if err != nil {
		return nil, nil, err
	}
	want, ok := hdr.fileSize()
	if !ok {
		return nil, nil, psrserrors.ErrCorruptedFile
	}
	if fileSize < want {
		return nil, nil, psrserrors.ErrTruncatedFile
	}
	if fileSize > want {
		return nil, nil, psrserrors.ErrCorruptedFile
	}
	ftr, err := decodeFooter(fbuf)
	if err != nil {
		return nil, nil, err
	}
	return hdr, ftr, nil
}

// Stat reads only the header and footer of the dataset at path.
// It does not verify the payload checksum.
func Stat(path string) (*Info, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open dataset file: %w", err)
	}
	defer file.Close()

	stat, err := file.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat dataset file: %w", err)
	}
	size := stat.Size()
	if size < headerSize+footerSize {
		return nil, psrserrors.ErrTruncatedFile
	}

	var hbuf [headerSize]byte
	var fbuf [footerSize]byte
	if _, err := file.ReadAt(hbuf[:], 0); err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	if _, err := file.ReadAt(fbuf[:], size-footerSize); err != nil {
		return nil, fmt.Errorf("read footer: %w", err)
	}
	hdr, ftr, err := parse(hbuf[:], fbuf[:], size)
	if err != nil {
		return nil, err
	}
	return newInfo(hdr, ftr), nil
}
