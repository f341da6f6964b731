package format

import (
	"fmt"
	"strings"
)

type (
	// TypeID is a MIDAS type tag (TID_xxx). The numeric values are part of the
	// wire format shared with the producer and must never change.
	TypeID uint32
	// CompressionType identifies how a byte source is wrapped.
	CompressionType uint8
)

const (
	TypeByte     TypeID = 1  // TypeByte is an unsigned byte.
	TypeSByte    TypeID = 2  // TypeSByte is a signed byte.
	TypeChar     TypeID = 3  // TypeChar is a single character, decoded into a string.
	TypeWord     TypeID = 4  // TypeWord is a 16-bit unsigned integer.
	TypeShort    TypeID = 5  // TypeShort is a 16-bit signed integer.
	TypeDword    TypeID = 6  // TypeDword is a 32-bit unsigned integer.
	TypeInt      TypeID = 7  // TypeInt is a 32-bit signed integer.
	TypeBool     TypeID = 8  // TypeBool is a 4-byte boolean.
	TypeFloat    TypeID = 9  // TypeFloat is a 4-byte IEEE 754 float.
	TypeDouble   TypeID = 10 // TypeDouble is an 8-byte IEEE 754 float.
	TypeBitfield TypeID = 11 // TypeBitfield is a 32-bit bitfield.
	TypeString   TypeID = 12 // TypeString is a null-terminated string.
	TypeArray    TypeID = 13 // TypeArray is an array with unknown contents.
	TypeStruct   TypeID = 14 // TypeStruct is a structure with fixed length.
	TypeKey      TypeID = 15 // TypeKey is a key (directory) in the online database.
	TypeLink     TypeID = 16 // TypeLink is a link in the online database.

	CompressionNone  CompressionType = 0x1 // CompressionNone represents a raw stream.
	CompressionGzip  CompressionType = 0x2 // CompressionGzip represents a gzip stream.
	CompressionLZ4   CompressionType = 0x3 // CompressionLZ4 represents an LZ4 frame stream.
	CompressionZstd  CompressionType = 0x4 // CompressionZstd represents a Zstandard stream.
	CompressionBzip2 CompressionType = 0x5 // CompressionBzip2 represents a bzip2 stream.
)

type typeInfo struct {
	name string
	size int
}

// registry is indexed by TypeID; index 0 is unused.
var registry = [...]typeInfo{
	TypeByte:     {"BYTE", 1},
	TypeSByte:    {"SBYTE", 1},
	TypeChar:     {"CHAR", 1},
	TypeWord:     {"WORD", 2},
	TypeShort:    {"SHORT", 2},
	TypeDword:    {"DWORD", 4},
	TypeInt:      {"INT", 4},
	TypeBool:     {"BOOL", 4},
	TypeFloat:    {"FLOAT", 4},
	TypeDouble:   {"DOUBLE", 8},
	TypeBitfield: {"BITFIELD", 4},
	TypeString:   {"STRING", 0},
	TypeArray:    {"ARRAY", 0},
	TypeStruct:   {"STRUCT", 0},
	TypeKey:      {"KEY", 0},
	TypeLink:     {"LINK", 0},
}

// IsValid reports whether t is one of the known type tags.
func (t TypeID) IsValid() bool {
	return t >= TypeByte && t <= TypeLink
}

// Size returns the fixed byte width of one element of type t.
//
// Variable-width types (STRING, ARRAY, STRUCT, KEY, LINK) and unknown tags
// return 0.
func (t TypeID) Size() int {
	if !t.IsValid() {
		return 0
	}

	return registry[t].size
}

func (t TypeID) String() string {
	if !t.IsValid() {
		return fmt.Sprintf("Unknown(%d)", uint32(t))
	}

	return registry[t].name
}

// ParseTypeName converts a dump type token such as "INT" or "DWORD" into its TypeID.
//
// Parameters:
//   - name: Type token without the TID_ prefix (case sensitive, as written by the producer)
//
// Returns:
//   - TypeID: Matching type tag
//   - bool: false if the token names no known type
func ParseTypeName(name string) (TypeID, bool) {
	name = strings.TrimPrefix(name, "TID_")
	for id := TypeByte; id <= TypeLink; id++ {
		if registry[id].name == name {
			return id, true
		}
	}

	return 0, false
}

func (c CompressionType) String() string {
	switch c {
	case CompressionNone:
		return "None"
	case CompressionGzip:
		return "Gzip"
	case CompressionLZ4:
		return "LZ4"
	case CompressionZstd:
		return "Zstd"
	case CompressionBzip2:
		return "Bzip2"
	default:
		return "Unknown"
	}
}

// Suffix returns the conventional file name suffix for c, or "" for raw streams.
func (c CompressionType) Suffix() string {
	switch c {
	case CompressionGzip:
		return ".gz"
	case CompressionLZ4:
		return ".lz4"
	case CompressionZstd:
		return ".zst"
	case CompressionBzip2:
		return ".bz2"
	default:
		return ""
	}
}

// DetectCompression selects the stream wrapping from a file name suffix.
// Names without a recognised suffix are treated as raw streams.
func DetectCompression(name string) CompressionType {
	lower := strings.ToLower(name)
	switch {
	case strings.HasSuffix(lower, ".gz"):
		return CompressionGzip
	case strings.HasSuffix(lower, ".lz4"):
		return CompressionLZ4
	case strings.HasSuffix(lower, ".zst"), strings.HasSuffix(lower, ".zstd"):
		return CompressionZstd
	case strings.HasSuffix(lower, ".bz2"):
		return CompressionBzip2
	default:
		return CompressionNone
	}
}
