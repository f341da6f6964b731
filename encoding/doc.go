// Package encoding converts raw bank payload bytes into typed Go values and back.
//
// Every MIDAS type tag maps to exactly one Go representation. The mapping is a
// closed switch over format.TypeID; unknown tags are an error, never a fallback.
//
//	Type tag   | Width | Go value
//	-----------|-------|-----------------------------------------
//	BYTE       | 1     | []byte
//	SBYTE      | 1     | []int8
//	CHAR       | 1     | string (kept verbatim, trailing nulls included)
//	WORD       | 2     | []uint16
//	SHORT      | 2     | []int16
//	DWORD      | 4     | []uint32
//	INT        | 4     | []int32
//	BOOL       | 4     | []bool (a 4-byte word compared against zero)
//	FLOAT      | 4     | []float32
//	DOUBLE     | 8     | []float64
//	BITFIELD   | 4     | []uint32
//	STRING     | var   | []byte (uninterpreted)
//	ARRAY      | var   | []byte (uninterpreted)
//	STRUCT     | var   | []byte (uninterpreted)
//	KEY        | var   | []byte (uninterpreted)
//	LINK       | var   | []byte (uninterpreted)
//
// Fixed-width payloads must be an exact multiple of the element width;
// a remainder is reported as errs.ErrMisalignedBankLength rather than truncated.
//
// All multi-byte values are little-endian on the wire.
package encoding

// Element is the set of Go element types a fixed-width bank can decode into.
type Element interface {
	~uint8 | ~int8 | ~uint16 | ~int16 | ~uint32 | ~int32 | ~float32 | ~float64 | ~bool
}
