package event

import (
	"fmt"
	"iter"

	"github.com/arloliu/midas/errs"
	"github.com/arloliu/midas/format"
	"github.com/arloliu/midas/internal/ordered"
)

// Bank is one named, typed data chunk of an event body.
type Bank struct {
	// Name is the 4-character bank name.
	Name string
	// Type is the wire type tag of the payload.
	Type format.TypeID
	// DataSize is the payload length in bytes, padding excluded.
	DataSize uint32
	// Data holds the decoded payload:
	//   - []uint8, []int8, []uint16, []int16, []uint32, []int32, []float32,
	//     []float64 or []bool for fixed-width numeric tags
	//   - string for TID_CHAR, kept verbatim including trailing nulls
	//   - []byte for TID_BYTE and the variable-width tags
	Data any
	// Raw is the undecoded payload, padding excluded.
	Raw []byte
}

// Len returns the number of decoded elements, or the byte length for
// variable-width banks.
func (b *Bank) Len() int {
	if size := b.Type.Size(); size > 0 {
		return int(b.DataSize) / size
	}

	return int(b.DataSize)
}

// Text returns the payload of a TID_CHAR bank.
func (b *Bank) Text() (string, error) {
	s, ok := b.Data.(string)
	if !ok {
		return "", fmt.Errorf("%w: bank %q is %s, not CHAR", errs.ErrTypeMismatch, b.Name, b.Type)
	}

	return s, nil
}

// Bools returns the payload of a TID_BOOL bank.
func (b *Bank) Bools() ([]bool, error) {
	return Values[bool](b)
}

func (b *Bank) String() string {
	return fmt.Sprintf("%s %s[%d]", b.Name, b.Type, b.Len())
}

// Values returns the decoded payload of b as a []T.
//
// T must match the Go element type produced for the bank's type tag, for
// example float32 for TID_FLOAT or uint32 for TID_DWORD and TID_BITFIELD.
//
// Example:
//
//	adc, err := event.Values[uint16](body.Banks.Get("ADC0"))
func Values[T any](b *Bank) ([]T, error) {
	if b == nil {
		return nil, fmt.Errorf("%w: nil bank", errs.ErrTypeMismatch)
	}

	values, ok := b.Data.([]T)
	if !ok {
		var zero T
		return nil, fmt.Errorf("%w: bank %q holds %T, not []%T", errs.ErrTypeMismatch, b.Name, b.Data, zero)
	}

	return values, nil
}

// BankMap maps bank names to banks in stream order.
//
// Bank names are unique by convention only. Setting a name that already exists
// replaces the earlier bank and moves it to the last position, as if the
// earlier bank had never been read.
type BankMap struct {
	m ordered.Map[string, *Bank]
}

// NewBankMap creates an empty BankMap.
func NewBankMap() *BankMap {
	return &BankMap{}
}

// Set inserts b under b.Name.
func (bm *BankMap) Set(b *Bank) {
	bm.m.Set(b.Name, b)
}

// Get returns the bank named name, or nil if there is none.
func (bm *BankMap) Get(name string) *Bank {
	if bm == nil {
		return nil
	}
	b, _ := bm.m.Get(name)

	return b
}

// Has reports whether a bank named name exists.
func (bm *BankMap) Has(name string) bool {
	return bm != nil && bm.m.Has(name)
}

// Len returns the number of banks.
func (bm *BankMap) Len() int {
	if bm == nil {
		return 0
	}

	return bm.m.Len()
}

// Names returns the bank names in order.
func (bm *BankMap) Names() []string {
	if bm == nil {
		return nil
	}

	return bm.m.Keys()
}

// All iterates over the banks in order.
func (bm *BankMap) All() iter.Seq2[string, *Bank] {
	if bm == nil {
		return func(func(string, *Bank) bool) {}
	}

	return bm.m.All()
}
