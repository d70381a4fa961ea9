// Package mmdbdata is the Data Section Encoder: it serializes the
// deduplicated token table, latitude/longitude table, and payload records
// into the append-only byte buffer that follows the 16-byte marker in an
// MMDB file, per the control-byte layout in the MaxMind DB format.
package mmdbdata

import (
	"encoding/binary"
	"math"

	ipErrors "github.com/sjzar/ip2mmdb/pkg/errors"
)

// Data type numbers from the MaxMind DB format. Types above 7 are
// "extended": the control byte's top 3 bits are 0, and an extra byte
// (the type number minus 7) follows to name the real type.
const (
	typePointer = 1
	typeString  = 2
	typeDouble  = 3
	typeUint16  = 5
	typeUint32  = 6
	typeMap     = 7
	typeUint64  = 9  // extended, selector byte 9-7 = 2
	typeArray   = 11 // extended, selector byte 11-7 = 4
)

const (
	size1Max = 29
	size2Max = 285
	size3Max = 65821
	size4Max = size3Max + 1<<24
)

// appendSize appends the control byte (and, for extended types, the type
// selector byte) plus any length-extension bytes needed to encode n
// entries/bytes of the given type.
func appendSize(buf []byte, typ int, n int) ([]byte, error) {
	if n < 0 || n >= size4Max {
		return nil, ipErrors.ErrStringTooLong
	}

	extended := typ > 7
	top3 := typ
	if extended {
		top3 = 0
	}

	switch {
	case n < size1Max:
		buf = append(buf, byte(top3<<5)|byte(n))
	case n < size2Max:
		buf = append(buf, byte(top3<<5)|29)
	case n < size3Max:
		buf = append(buf, byte(top3<<5)|30)
	default:
		buf = append(buf, byte(top3<<5)|31)
	}

	if extended {
		buf = append(buf, byte(typ-7))
	}

	switch {
	case n < size1Max:
		// no extension bytes
	case n < size2Max:
		buf = append(buf, byte(n-size1Max))
	case n < size3Max:
		v := n - size2Max
		buf = append(buf, byte(v>>8), byte(v))
	default:
		v := n - size3Max
		buf = append(buf, byte(v>>16), byte(v>>8), byte(v))
	}

	return buf, nil
}

// AppendString appends a UTF-8 string record.
func AppendString(buf []byte, s string) ([]byte, error) {
	buf, err := appendSize(buf, typeString, len(s))
	if err != nil {
		return nil, err
	}
	return append(buf, s...), nil
}

// AppendDouble appends an IEEE-754 double record.
func AppendDouble(buf []byte, f float64) []byte {
	buf = append(buf, byte(typeDouble<<5)|8)
	var tmp [8]byte
	binary.BigEndian.PutUint64(tmp[:], math.Float64bits(f))
	return append(buf, tmp[:]...)
}

// AppendMapHeader appends the control byte introducing a map of n
// entries. The caller writes the 2n key/value encodings that follow.
func AppendMapHeader(buf []byte, n int) ([]byte, error) {
	return appendSize(buf, typeMap, n)
}

// AppendArrayHeader appends the (possibly extended) control byte
// introducing an array of n entries. The caller writes the n entry
// encodings that follow.
func AppendArrayHeader(buf []byte, n int) ([]byte, error) {
	return appendSize(buf, typeArray, n)
}

// AppendUint appends the smallest unsigned integer record (uint16,
// uint32, or extended uint64) that fits num.
func AppendUint(buf []byte, num uint64) []byte {
	switch {
	case num < 1<<8:
		return append(buf, byte(typeUint16<<5)|1, byte(num))
	case num < 1<<16:
		buf = append(buf, byte(typeUint16<<5)|2)
		var tmp [2]byte
		binary.BigEndian.PutUint16(tmp[:], uint16(num))
		return append(buf, tmp[:]...)
	case num < 1<<32:
		buf = append(buf, byte(typeUint32<<5)|4)
		var tmp [4]byte
		binary.BigEndian.PutUint32(tmp[:], uint32(num))
		return append(buf, tmp[:]...)
	default:
		buf = append(buf, 0|byte(8), byte(typeUint64-7))
		var tmp [8]byte
		binary.BigEndian.PutUint64(tmp[:], num)
		return append(buf, tmp[:]...)
	}
}

// AppendPointer appends a pointer record targeting the byte offset n
// within the data section, selecting the smallest of the format's four
// pointer size classes.
func AppendPointer(buf []byte, n uint64) ([]byte, error) {
	switch {
	case n < 2048:
		return append(buf,
			byte(typePointer<<5)|byte((0<<3))|byte(n>>8),
			byte(n),
		), nil
	case n < 526336:
		v := n - 2048
		return append(buf,
			byte(typePointer<<5)|byte(1<<3)|byte(v>>16),
			byte(v>>8), byte(v),
		), nil
	case n < 134217728:
		v := n - 526336
		return append(buf,
			byte(typePointer<<5)|byte(2<<3)|byte(v>>24),
			byte(v>>16), byte(v>>8), byte(v),
		), nil
	case n <= math.MaxUint32:
		var tmp [4]byte
		binary.BigEndian.PutUint32(tmp[:], uint32(n))
		return append(buf, byte(typePointer<<5)|byte(3<<3), tmp[0], tmp[1], tmp[2], tmp[3]), nil
	default:
		return nil, ipErrors.ErrPointerOverflow
	}
}
