// Package event decodes and encodes MIDAS events: the 16-byte event header
// and the body that follows it.
//
// An ordinary body is an 8-byte bank prologue followed by an array of banks,
// each a bank header, its payload and zero padding up to the next multiple of
// eight bytes. Internal events (BOR, EOR and message events) carry text
// terminated by a single null byte instead of banks.
package event

import (
	"github.com/arloliu/midas/section"
)

// Body is the decoded payload of one event.
//
// Exactly one of Banks and Raw is meaningful: Banks for ordinary events, Raw
// for internal events.
type Body struct {
	// DataSize is the declared total_bank_bytes of the prologue.
	DataSize uint32
	// Flags is the prologue flag word.
	Flags uint32
	// Format is the bank header format selected by Flags.
	Format section.BankFormat
	// ScannedSize is the number of bank bytes actually consumed by the scan,
	// bank headers and padding included. Like DataSize it excludes the 8-byte
	// prologue.
	ScannedSize uint32
	// Banks holds the banks of an ordinary event in stream order.
	Banks *BankMap
	// Raw holds the text of an internal event without its null terminator.
	Raw []byte
}

// Consistent reports whether the declared total_bank_bytes matches the bytes
// consumed by the bank scan. Internal events are always consistent.
func (b *Body) Consistent() bool {
	return b.Banks == nil || b.DataSize == b.ScannedSize
}

// Bank returns the bank named name, or nil.
func (b *Body) Bank(name string) *Bank {
	if b == nil {
		return nil
	}

	return b.Banks.Get(name)
}

// Event is a decoded header together with its body.
type Event struct {
	Header section.EventHeader
	Body   *Body
}

// EncodeHeader serializes h into its 16-byte wire form.
func EncodeHeader(h section.EventHeader) []byte {
	return h.Bytes()
}
