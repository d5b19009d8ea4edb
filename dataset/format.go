package dataset

import (
	"encoding/binary"

	psrserrors "github.com/tamirms/psrs/errors"
	"github.com/tamirms/psrs/internal/encoding"
)

const (
	// magic number for dataset files, "PSRT" in little-endian
	magic = uint32(0x54525350)

	// version is the current format version
	version = uint16(0x0001)

	// headerSize is the exact size of the serialized header (64 bytes)
	headerSize = 64

	// footerSize is the exact size of the serialized footer (32 bytes)
	footerSize = 32

	// chunkElems is the number of elements per payload chunk. The payload hash
	// is defined over chunks of this size, so changing it changes the format.
	chunkElems = 1 << 16
)

// Header flags
const (
	flagSorted = 1 << 0
)

// header is the 64-byte file header.
//
// Layout:
//
//	Offset  Size  Field     Type
//	0       4     Magic     0x54525350 ("PSRT")
//	4       2     Version   0x0001
//	6       1     Kind      uint8 (encoding.Kind)
//	7       1     ElemSize  uint8 (bytes per element)
//	8       8     Count     uint64_le
//	16      1     Flags     uint8 (bit 0 = sorted)
//	17      8     Seed      uint64_le (generator seed, 0 if unknown)
//	25      39    Reserved  [39]byte (zero)
type header struct {
	Magic    uint32
	Version  uint16
	Kind     encoding.Kind
	ElemSize uint8
	Count    uint64
	Flags    uint8
	Seed     uint64
	Reserved [39]byte
}

// encodeTo serializes the header to an existing buffer.
func (h *header) encodeTo(buf []byte) {
	binary.LittleEndian.PutUint32(buf[0:4], h.Magic)
	binary.LittleEndian.PutUint16(buf[4:6], h.Version)
	buf[6] = uint8(h.Kind)
	buf[7] = h.ElemSize
	binary.LittleEndian.PutUint64(buf[8:16], h.Count)
	buf[16] = h.Flags
	binary.LittleEndian.PutUint64(buf[17:25], h.Seed)
	copy(buf[25:64], h.Reserved[:])
}

// decodeHeader parses and validates a 64-byte header.
func decodeHeader(buf []byte) (*header, error) {
	if len(buf) < headerSize {
		return nil, psrserrors.ErrTruncatedFile
	}

	h := &header{
		Magic:    binary.LittleEndian.Uint32(buf[0:4]),
		Version:  binary.LittleEndian.Uint16(buf[4:6]),
		Kind:     encoding.Kind(buf[6]),
		ElemSize: buf[7],
		Count:    binary.LittleEndian.Uint64(buf[8:16]),
		Flags:    buf[16],
		Seed:     binary.LittleEndian.Uint64(buf[17:25]),
	}
	copy(h.Reserved[:], buf[25:64])

	if h.Magic != magic {
		return nil, psrserrors.ErrInvalidMagic
	}
	if h.Version != version {
		return nil, psrserrors.ErrInvalidVersion
	}
	if !h.Kind.Valid() {
		return nil, psrserrors.ErrUnsupportedKind
	}
	if int(h.ElemSize) != h.Kind.Size() {
		return nil, psrserrors.ErrCorruptedFile
	}

	return h, nil
}

// payloadSize returns the payload length in bytes. Callers must have checked
// Count against the file size first.
func (h *header) payloadSize() int {
	return int(h.Count) * int(h.ElemSize)
}

// fileSize returns the exact file size implied by the header, and false if
// it does not fit in an int64.
func (h *header) fileSize() (int64, bool) {
	const maxPayload = 1<<62 - headerSize - footerSize
	if h.Count > maxPayload/uint64(h.ElemSize) {
		return 0, false
	}
	return headerSize + int64(h.Count)*int64(h.ElemSize) + footerSize, true
}

// footer is the 32-byte file footer.
//
// Layout:
//
//	Offset  Size  Field        Type
//	0       8     PayloadHash  uint64_le (xxHash64 over per-chunk xxHash64s)
//	8       8     Fingerprint  uint64_le (order-independent multiset hash)
//	16      16    Reserved     [16]byte (zero)
type footer struct {
	PayloadHash uint64
	Fingerprint uint64
	Reserved    [16]byte
}

// encodeTo serializes the footer into an existing buffer.
func (f *footer) encodeTo(buf []byte) {
	binary.LittleEndian.PutUint64(buf[0:8], f.PayloadHash)
	binary.LittleEndian.PutUint64(buf[8:16], f.Fingerprint)
	copy(buf[16:32], f.Reserved[:])
}

// decodeFooter parses a 32-byte footer.
func decodeFooter(buf []byte) (*footer, error) {
	if len(buf) < footerSize {
		return nil, psrserrors.ErrTruncatedFile
	}

	f := &footer{
		PayloadHash: binary.LittleEndian.Uint64(buf[0:8]),
		Fingerprint: binary.LittleEndian.Uint64(buf[8:16]),
	}
	copy(f.Reserved[:], buf[16:32])

	return f, nil
}

// Info describes a dataset file.
type Info struct {
	Kind        encoding.Kind
	Count       uint64
	Sorted      bool
	Seed        uint64
	Fingerprint uint64
}

func newInfo(h *header, f *footer) *Info {
	return &Info{
		Kind:        h.Kind,
		Count:       h.Count,
		Sorted:      h.Flags&flagSorted != 0,
		Seed:        h.Seed,
		Fingerprint: f.Fingerprint,
	}
}
