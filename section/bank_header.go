package section

import (
	"fmt"
	"math"

	"github.com/arloliu/midas/endian"
	"github.com/arloliu/midas/errs"
	"github.com/arloliu/midas/format"
)

// BankFormat selects the width of the per-bank headers of one event.
type BankFormat uint8

const (
	BankFormat16  BankFormat = 0x1 // BankFormat16 is the narrow 8-byte BANK header.
	BankFormat32  BankFormat = 0x2 // BankFormat32 is the wide 12-byte BANK32 header.
	BankFormat32A BankFormat = 0x3 // BankFormat32A is the 16-byte BANK32A header with aligned payloads.
)

// BankFormatFromFlags derives the bank header format from the prologue flags.
//
// Bit 4 selects the wide headers. The aligned variant requires bit 5 together
// with bit 4; bit 5 alone is ignored.
func BankFormatFromFlags(flags uint32) BankFormat {
	if flags&FlagBankFormat32Bit == 0 {
		return BankFormat16
	}
	if flags&FlagBankFormat64Align != 0 {
		return BankFormat32A
	}

	return BankFormat32
}

// Flags returns the prologue flag word a producer writes for this format.
func (f BankFormat) Flags() uint32 {
	switch f {
	case BankFormat32:
		return FlagBankFormatVersion | FlagBankFormat32Bit
	case BankFormat32A:
		return FlagBankFormatVersion | FlagBankFormat32Bit | FlagBankFormat64Align
	default:
		return FlagBankFormatVersion
	}
}

// HeaderSize returns the size in bytes of one bank header in this format.
func (f BankFormat) HeaderSize() int {
	switch f {
	case BankFormat32:
		return WideBankHeaderSize
	case BankFormat32A:
		return AlignedBankHeaderSize
	default:
		return NarrowBankHeaderSize
	}
}

// MaxDataSize returns the largest bank payload the format can describe.
func (f BankFormat) MaxDataSize() uint32 {
	if f == BankFormat16 {
		return math.MaxUint16
	}

	return math.MaxUint32
}

func (f BankFormat) String() string {
	switch f {
	case BankFormat16:
		return "BANK"
	case BankFormat32:
		return "BANK32"
	case BankFormat32A:
		return "BANK32A"
	default:
		return "Unknown"
	}
}

// BankPrologue is the 8-byte record in front of the bank array of an ordinary event.
type BankPrologue struct {
	// DataSize is the declared size of all banks that follow, padding included.
	// It does not count this 8-byte prologue: producers write the bank-array
	// size as event size minus 8, so a well-formed event has
	// DataSize == EventHeader.DataSize - BankPrologueSize, and the full body is
	// 8 + sum(bank header + data + padding). It is a consistency field; the
	// event header bounds the bank scan.
	DataSize uint32 // byte offset 0-3
	// Flags holds the bank format bits.
	Flags uint32 // byte offset 4-7
}

// Parse parses the prologue from a byte slice.
//
// Parameters:
//   - data: Byte slice containing the prologue (must be exactly 8 bytes)
//
// Returns:
//   - error: ErrInvalidHeaderSize if data is not 8 bytes
func (p *BankPrologue) Parse(data []byte) error {
	if len(data) != BankPrologueSize {
		return fmt.Errorf("%w: bank prologue needs %d bytes, got %d",
			errs.ErrInvalidHeaderSize, BankPrologueSize, len(data))
	}

	engine := endian.GetLittleEndianEngine()
	p.DataSize = engine.Uint32(data[0:4])
	p.Flags = engine.Uint32(data[4:8])

	return nil
}

// Bytes serializes the prologue into a new 8-byte slice.
func (p BankPrologue) Bytes() []byte {
	return p.AppendBytes(make([]byte, 0, BankPrologueSize))
}

// AppendBytes appends the 8-byte serialized prologue to dst.
func (p BankPrologue) AppendBytes(dst []byte) []byte {
	engine := endian.GetLittleEndianEngine()
	dst = engine.AppendUint32(dst, p.DataSize)
	dst = engine.AppendUint32(dst, p.Flags)

	return dst
}

// Format returns the bank header format selected by the flags.
func (p BankPrologue) Format() BankFormat {
	return BankFormatFromFlags(p.Flags)
}

// BankHeader is the per-bank record in front of each bank payload.
type BankHeader struct {
	// Name is the 4-character bank name.
	Name string
	// Type is the raw type tag; it is validated by the bank decoder, not here.
	Type format.TypeID
	// DataSize is the payload size in bytes, padding excluded.
	DataSize uint32
	// Reserved is only present in BANK32A headers.
	Reserved uint32
}

// ParseBankHeader parses a bank header of the given format.
//
// Parameters:
//   - data: Byte slice holding at least f.HeaderSize() bytes
//   - f: Header format selected by the bank prologue
//
// Returns:
//   - BankHeader: Parsed header
//   - error: ErrInvalidHeaderSize if data is too short
func ParseBankHeader(data []byte, f BankFormat) (BankHeader, error) {
	size := f.HeaderSize()
	if len(data) < size {
		return BankHeader{}, fmt.Errorf("%w: %s header needs %d bytes, got %d",
			errs.ErrInvalidHeaderSize, f, size, len(data))
	}

	engine := endian.GetLittleEndianEngine()
	h := BankHeader{Name: string(data[0:BankNameSize])}

	switch f {
	case BankFormat32, BankFormat32A:
		h.Type = format.TypeID(engine.Uint32(data[4:8]))
		h.DataSize = engine.Uint32(data[8:12])
		if f == BankFormat32A {
			h.Reserved = engine.Uint32(data[12:16])
		}
	default:
		h.Type = format.TypeID(engine.Uint16(data[4:6]))
		h.DataSize = uint32(engine.Uint16(data[6:8]))
	}

	return h, nil
}

// AppendBytes appends the serialized header in format f to dst.
//
// Returns:
//   - []byte: dst with the header appended
//   - error: ErrInvalidBankName if the name is not 4 bytes, ErrBankTooLarge if the
//     type tag or size does not fit the narrow 16-bit fields
func (h BankHeader) AppendBytes(dst []byte, f BankFormat) ([]byte, error) {
	if len(h.Name) != BankNameSize {
		return dst, fmt.Errorf("%w: %q must be %d bytes", errs.ErrInvalidBankName, h.Name, BankNameSize)
	}
	if h.DataSize > f.MaxDataSize() {
		return dst, fmt.Errorf("%w: bank %q size %d exceeds %s limit %d",
			errs.ErrBankTooLarge, h.Name, h.DataSize, f, f.MaxDataSize())
	}

	engine := endian.GetLittleEndianEngine()
	dst = append(dst, h.Name...)

	switch f {
	case BankFormat32, BankFormat32A:
		dst = engine.AppendUint32(dst, uint32(h.Type))
		dst = engine.AppendUint32(dst, h.DataSize)
		if f == BankFormat32A {
			dst = engine.AppendUint32(dst, h.Reserved)
		}
	default:
		if uint32(h.Type) > math.MaxUint16 {
			return dst, fmt.Errorf("%w: bank %q type %d exceeds 16 bits", errs.ErrBankTooLarge, h.Name, h.Type)
		}
		dst = engine.AppendUint16(dst, uint16(h.Type))
		dst = engine.AppendUint16(dst, uint16(h.DataSize)) //nolint:gosec
	}

	return dst, nil
}
