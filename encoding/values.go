package encoding

import (
	"fmt"
	"math"

	"github.com/arloliu/midas/endian"
	"github.com/arloliu/midas/errs"
	"github.com/arloliu/midas/format"
)

// ValueDecoder materializes raw bank payloads into typed Go slices.
//
// The decoder is immutable and stateless; the zero value is not usable, create
// one with NewValueDecoder.
type ValueDecoder struct {
	engine endian.EndianEngine
}

// NewValueDecoder creates a new value decoder using the specified endian engine.
//
// Parameters:
//   - engine: Endian engine for byte order (the MIDAS wire format is little-endian)
//
// Returns:
//   - ValueDecoder: A new decoder instance (stateless, can be reused)
func NewValueDecoder(engine endian.EndianEngine) ValueDecoder {
	return ValueDecoder{engine: engine}
}

// Decode converts raw payload bytes of type t into its Go representation.
//
// The returned value never aliases data, so callers may reuse the input buffer.
//
// Parameters:
//   - t: Type tag of the payload
//   - data: Raw payload bytes, padding excluded
//
// Returns:
//   - any: Typed slice, string or raw bytes (see package documentation)
//   - error: ErrUnknownBankType for an unknown tag, ErrMisalignedBankLength if
//     len(data) is not a multiple of the element width
func (d ValueDecoder) Decode(t format.TypeID, data []byte) (any, error) {
	if !t.IsValid() {
		return nil, fmt.Errorf("%w: tag %d", errs.ErrUnknownBankType, uint32(t))
	}

	if width := t.Size(); width > 0 && len(data)%width != 0 {
		return nil, fmt.Errorf("%w: %d bytes of %s (width %d)",
			errs.ErrMisalignedBankLength, len(data), t, width)
	}

	switch t {
	case format.TypeByte:
		return clone(data), nil
	case format.TypeSByte:
		return decodeFixed(data, 1, func(b []byte) int8 { return int8(b[0]) }), nil
	case format.TypeChar:
		return string(data), nil
	case format.TypeWord:
		return decodeFixed(data, 2, d.engine.Uint16), nil
	case format.TypeShort:
		return decodeFixed(data, 2, func(b []byte) int16 { return int16(d.engine.Uint16(b)) }), nil //nolint:gosec
	case format.TypeDword, format.TypeBitfield:
		return decodeFixed(data, 4, d.engine.Uint32), nil
	case format.TypeInt:
		return decodeFixed(data, 4, func(b []byte) int32 { return int32(d.engine.Uint32(b)) }), nil //nolint:gosec
	case format.TypeBool:
		return decodeFixed(data, 4, func(b []byte) bool { return d.engine.Uint32(b) != 0 }), nil
	case format.TypeFloat:
		return decodeFixed(data, 4, func(b []byte) float32 { return math.Float32frombits(d.engine.Uint32(b)) }), nil
	case format.TypeDouble:
		return decodeFixed(data, 8, func(b []byte) float64 { return math.Float64frombits(d.engine.Uint64(b)) }), nil
	case format.TypeString, format.TypeArray, format.TypeStruct, format.TypeKey, format.TypeLink:
		return clone(data), nil
	default:
		return nil, fmt.Errorf("%w: tag %d", errs.ErrUnknownBankType, uint32(t))
	}
}

func decodeFixed[T any](data []byte, width int, conv func([]byte) T) []T {
	out := make([]T, len(data)/width)
	for i := range out {
		offset := i * width
		out[i] = conv(data[offset : offset+width])
	}

	return out
}

func clone(data []byte) []byte {
	out := make([]byte, len(data))
	copy(out, data)

	return out
}

// ValueEncoder serializes typed Go values into raw bank payload bytes.
type ValueEncoder struct {
	engine endian.EndianEngine
}

// NewValueEncoder creates a new value encoder using the specified endian engine.
func NewValueEncoder(engine endian.EndianEngine) ValueEncoder {
	return ValueEncoder{engine: engine}
}

// Append serializes values as type t and appends the raw bytes to dst.
//
// Accepted value types are the ones ValueDecoder.Decode produces for t. A []byte
// is accepted for every tag and copied verbatim, provided its length is a
// multiple of the element width.
//
// Parameters:
//   - dst: Destination buffer
//   - t: Type tag of the bank
//   - values: Typed slice, string (CHAR) or raw bytes
//
// Returns:
//   - []byte: dst with the payload appended (no padding)
//   - error: ErrUnknownBankType, ErrTypeMismatch or ErrMisalignedBankLength
func (e ValueEncoder) Append(dst []byte, t format.TypeID, values any) ([]byte, error) {
	if !t.IsValid() {
		return dst, fmt.Errorf("%w: tag %d", errs.ErrUnknownBankType, uint32(t))
	}

	if raw, ok := values.([]byte); ok {
		if width := t.Size(); width > 0 && len(raw)%width != 0 {
			return dst, fmt.Errorf("%w: %d bytes of %s (width %d)",
				errs.ErrMisalignedBankLength, len(raw), t, width)
		}

		return append(dst, raw...), nil
	}

	switch v := values.(type) {
	case []int8:
		if t == format.TypeSByte {
			for _, x := range v {
				dst = append(dst, byte(x))
			}

			return dst, nil
		}
	case string:
		if t == format.TypeChar {
			return append(dst, v...), nil
		}
	case []uint16:
		if t == format.TypeWord {
			for _, x := range v {
				dst = e.engine.AppendUint16(dst, x)
			}

			return dst, nil
		}
	case []int16:
		if t == format.TypeShort {
			for _, x := range v {
				dst = e.engine.AppendUint16(dst, uint16(x)) //nolint:gosec
			}

			return dst, nil
		}
	case []uint32:
		if t == format.TypeDword || t == format.TypeBitfield {
			for _, x := range v {
				dst = e.engine.AppendUint32(dst, x)
			}

			return dst, nil
		}
	case []int32:
		if t == format.TypeInt {
			for _, x := range v {
				dst = e.engine.AppendUint32(dst, uint32(x)) //nolint:gosec
			}

			return dst, nil
		}
	case []bool:
		if t == format.TypeBool {
			for _, x := range v {
				var word uint32
				if x {
					word = 1
				}
				dst = e.engine.AppendUint32(dst, word)
			}

			return dst, nil
		}
	case []float32:
		if t == format.TypeFloat {
			for _, x := range v {
				dst = e.engine.AppendUint32(dst, math.Float32bits(x))
			}

			return dst, nil
		}
	case []float64:
		if t == format.TypeDouble {
			for _, x := range v {
				dst = e.engine.AppendUint64(dst, math.Float64bits(x))
			}

			return dst, nil
		}
	}

	return dst, fmt.Errorf("%w: cannot encode %T as %s", errs.ErrTypeMismatch, values, t)
}
