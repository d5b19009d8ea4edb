// Package encoding provides fixed-width little-endian serialization for the
// element types the dataset format and fingerprints support.
//
// Every supported type has a fixed byte width, so an array of N elements
// always encodes to exactly N*Size bytes.
package encoding

import (
	"encoding/binary"
	"math"
	"unsafe"
)

// Element is the set of fixed-width types that can be encoded.
// Platform-sized types (int, uint, uintptr) are excluded because their width
// is not portable across files.
type Element interface {
	~uint8 | ~uint16 | ~uint32 | ~uint64 |
		~int8 | ~int16 | ~int32 | ~int64 |
		~float32 | ~float64
}

// Kind identifies an element type in a serialized header.
type Kind uint8

const (
	KindInvalid Kind = iota
	KindUint8
	KindUint16
	KindUint32
	KindUint64
	KindInt8
	KindInt16
	KindInt32
	KindInt64
	KindFloat32
	KindFloat64
)

var kindNames = [...]string{
	KindInvalid: "invalid",
	KindUint8:   "uint8",
	KindUint16:  "uint16",
	KindUint32:  "uint32",
	KindUint64:  "uint64",
	KindInt8:    "int8",
	KindInt16:   "int16",
	KindInt32:   "int32",
	KindInt64:   "int64",
	KindFloat32: "float32",
	KindFloat64: "float64",
}

// String returns the Go type name of the kind.
func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// Valid reports whether k names a supported element type.
func (k Kind) Valid() bool {
	return k > KindInvalid && k <= KindFloat64
}

// Size returns the encoded width of one element in bytes, or 0 for an invalid kind.
func (k Kind) Size() int {
	switch k {
	case KindUint8, KindInt8:
		return 1
	case KindUint16, KindInt16:
		return 2
	case KindUint32, KindInt32, KindFloat32:
		return 4
	case KindUint64, KindInt64, KindFloat64:
		return 8
	}
	return 0
}

// IsFloat reports whether k is a floating-point kind.
func (k Kind) IsFloat() bool {
	return k == KindFloat32 || k == KindFloat64
}

// ParseKind returns the kind named by s (as returned by Kind.String).
func ParseKind(s string) (Kind, bool) {
	for k, name := range kindNames {
		if Kind(k) != KindInvalid && name == s {
			return Kind(k), true
		}
	}
	return KindInvalid, false
}

// KindOf returns the kind of T. Named types report the kind of their
// underlying type.
func KindOf[T Element]() Kind {
	var zero T
	one := T(1)
	size := unsafe.Sizeof(zero)
	if one/2 != 0 {
		if size == 4 {
			return KindFloat32
		}
		return KindFloat64
	}
	signed := zero-one < zero
	switch size {
	case 1:
		if signed {
			return KindInt8
		}
		return KindUint8
	case 2:
		if signed {
			return KindInt16
		}
		return KindUint16
	case 4:
		if signed {
			return KindInt32
		}
		return KindUint32
	default:
		if signed {
			return KindInt64
		}
		return KindUint64
	}
}

// Bits returns the raw bit pattern of v, zero-extended to 64 bits.
// The low Size bytes are exactly what Put writes.
func Bits[T Element](k Kind, v T) uint64 {
	switch k {
	case KindFloat32:
		return uint64(math.Float32bits(float32(v)))
	case KindFloat64:
		return math.Float64bits(float64(v))
	case KindUint8, KindInt8:
		return uint64(uint8(v))
	case KindUint16, KindInt16:
		return uint64(uint16(v))
	case KindUint32, KindInt32:
		return uint64(uint32(v))
	default:
		return uint64(v)
	}
}

// FromBits is the inverse of Bits.
func FromBits[T Element](k Kind, u uint64) T {
	switch k {
	case KindFloat32:
		return T(math.Float32frombits(uint32(u)))
	case KindFloat64:
		return T(math.Float64frombits(u))
	case KindInt8:
		return T(int8(u))
	case KindInt16:
		return T(int16(u))
	case KindInt32:
		return T(int32(u))
	case KindInt64:
		return T(int64(u))
	default:
		return T(u)
	}
}

// Put writes v to buf in little-endian order. buf must hold at least k.Size() bytes.
func Put[T Element](k Kind, buf []byte, v T) {
	u := Bits(k, v)
	switch k.Size() {
	case 1:
		buf[0] = byte(u)
	case 2:
		binary.LittleEndian.PutUint16(buf, uint16(u))
	case 4:
		binary.LittleEndian.PutUint32(buf, uint32(u))
	case 8:
		binary.LittleEndian.PutUint64(buf, u)
	default:
		panic("encoding: Put: invalid kind")
	}
}

// Get reads one little-endian element of kind k from buf.
func Get[T Element](k Kind, buf []byte) T {
	var u uint64
	switch k.Size() {
	case 1:
		u = uint64(buf[0])
	case 2:
		u = uint64(binary.LittleEndian.Uint16(buf))
	case 4:
		u = uint64(binary.LittleEndian.Uint32(buf))
	case 8:
		u = binary.LittleEndian.Uint64(buf)
	default:
		panic("encoding: Get: invalid kind")
	}
	return FromBits[T](k, u)
}

// Encode writes src to dst. dst must hold at least len(src)*KindOf[T]().Size() bytes.
// Returns the number of bytes written.
func Encode[T Element](dst []byte, src []T) int {
	k := KindOf[T]()
	size := k.Size()
	_ = dst[:len(src)*size] // bounds check hint
	for i, v := range src {
		Put(k, dst[i*size:], v)
	}
	return len(src) * size
}

// Decode fills dst from src. src must hold at least len(dst)*KindOf[T]().Size() bytes.
func Decode[T Element](dst []T, src []byte) {
	k := KindOf[T]()
	size := k.Size()
	_ = src[:len(dst)*size] // bounds check hint
	for i := range dst {
		dst[i] = Get[T](k, src[i*size:])
	}
}
