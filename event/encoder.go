package event

import (
	"fmt"

	"github.com/arloliu/midas/encoding"
	"github.com/arloliu/midas/endian"
	"github.com/arloliu/midas/errs"
	"github.com/arloliu/midas/format"
	"github.com/arloliu/midas/internal/pool"
	"github.com/arloliu/midas/section"
)

// Encoder assembles the body of an ordinary event bank by bank.
//
// The encoder computes bank padding and the prologue's total_bank_bytes. It
// borrows its buffer from a pool: call Release when done. An Encoder is not
// safe for concurrent use.
//
// Example:
//
//	enc := event.NewEncoder(section.BankFormat32)
//	defer enc.Release()
//
//	if err := enc.AddBank("FLOA", format.TypeFloat, []float32{-1, 2, -3, 4}); err != nil {
//	    return err
//	}
//	data := enc.Encode(section.EventHeader{EventID: 1, SerialNumber: 7})
type Encoder struct {
	format section.BankFormat
	values encoding.ValueEncoder
	buf    *pool.ByteBuffer
	banks  int
}

// NewEncoder creates an encoder writing bank headers in format f.
func NewEncoder(f section.BankFormat) *Encoder {
	e := &Encoder{
		format: f,
		values: encoding.NewValueEncoder(endian.GetLittleEndianEngine()),
		buf:    pool.GetEventBuffer(),
	}
	e.Reset()

	return e
}

// Format returns the bank header format of the encoder.
func (e *Encoder) Format() section.BankFormat {
	return e.format
}

// Len returns the number of banks added since the last Reset.
func (e *Encoder) Len() int {
	return e.banks
}

// AddBank appends one bank.
//
// values must be of the Go type Bank.Data holds for t, or a []byte holding the
// raw little-endian payload. On error the encoder is left unchanged.
//
// Returns:
//   - error: errs.ErrUnknownBankType, errs.ErrInvalidBankName, errs.ErrTypeMismatch,
//     errs.ErrMisalignedBankLength or errs.ErrBankTooLarge
func (e *Encoder) AddBank(name string, t format.TypeID, values any) error {
	if !t.IsValid() {
		return fmt.Errorf("%w: bank %q type %d", errs.ErrUnknownBankType, name, uint32(t))
	}

	start := e.buf.Len()
	header := section.BankHeader{Name: name, Type: t}

	// Reserve the header with a zero size; it is rewritten once the size is known.
	b, err := header.AppendBytes(e.buf.B, e.format)
	if err != nil {
		return err
	}
	dataStart := len(b)

	b, err = e.values.Append(b, t, values)
	if err != nil {
		e.buf.B = b[:start]
		return fmt.Errorf("bank %q: %w", name, err)
	}

	size := uint64(len(b) - dataStart)
	if size > uint64(e.format.MaxDataSize()) {
		e.buf.B = b[:start]
		return fmt.Errorf("%w: bank %q size %d exceeds %s limit %d",
			errs.ErrBankTooLarge, name, size, e.format, e.format.MaxDataSize())
	}

	header.DataSize = uint32(size)
	if _, err := header.AppendBytes(b[start:start], e.format); err != nil {
		e.buf.B = b[:start]
		return err
	}

	for range section.Padding(header.DataSize) {
		b = append(b, 0)
	}

	e.buf.B = b
	e.banks++

	return nil
}

// Payload returns a copy of the event payload: prologue plus banks.
func (e *Encoder) Payload() []byte {
	e.patchPrologue()

	out := make([]byte, e.buf.Len())
	copy(out, e.buf.Bytes())

	return out
}

// Encode returns the complete event: h with DataSize set to the payload size,
// followed by the payload.
func (e *Encoder) Encode(h section.EventHeader) []byte {
	e.patchPrologue()

	h.DataSize = uint32(e.buf.Len()) //nolint:gosec
	out := make([]byte, 0, section.EventHeaderSize+e.buf.Len())
	out = h.AppendBytes(out)

	return append(out, e.buf.Bytes()...)
}

// Reset drops all banks so the encoder can build another event.
func (e *Encoder) Reset() {
	e.buf.Reset()
	e.buf.B = section.BankPrologue{Flags: e.format.Flags()}.AppendBytes(e.buf.B)
	e.banks = 0
}

// Release returns the encoder's buffer to the pool. The encoder must not be
// used afterwards.
func (e *Encoder) Release() {
	pool.PutEventBuffer(e.buf)
	e.buf = nil
}

func (e *Encoder) patchPrologue() {
	prologue := section.BankPrologue{
		DataSize: uint32(e.buf.Len() - section.BankPrologueSize), //nolint:gosec
		Flags:    e.format.Flags(),
	}
	prologue.AppendBytes(e.buf.B[:0])
}

// EncodeInternal returns a complete internal event (BOR, EOR or message)
// carrying text followed by the null terminator.
func EncodeInternal(h section.EventHeader, text []byte) []byte {
	h.DataSize = uint32(len(text) + section.MessageTerminatorBytes) //nolint:gosec

	out := make([]byte, 0, section.EventHeaderSize+int(h.DataSize))
	out = h.AppendBytes(out)
	out = append(out, text...)

	return append(out, 0)
}

// Encode serializes a decoded event back into its wire form.
//
// Internal events are written from Body.Raw. Ordinary events are rebuilt from
// each bank's Raw payload (or Data when Raw is nil) in the body's bank format, so padding and
// total_bank_bytes are recomputed. An ordinary event whose body is empty and
// carries no prologue is written with an empty payload.
func Encode(ev *Event) ([]byte, error) {
	h := ev.Header
	body := ev.Body
	if body == nil {
		body = &Body{}
	}

	if h.IsInternal() {
		return EncodeInternal(h, body.Raw), nil
	}

	if body.Banks.Len() == 0 && body.Flags == 0 && body.DataSize == 0 {
		h.DataSize = 0
		return h.Bytes(), nil
	}

	f := body.Format
	if f == 0 {
		f = section.BankFormat16
	}

	enc := NewEncoder(f)
	defer enc.Release()

	for name, bank := range body.Banks.All() {
		var payload any = bank.Raw
		if bank.Raw == nil {
			payload = bank.Data
		}
		if err := enc.AddBank(name, bank.Type, payload); err != nil {
			return nil, err
		}
	}

	return enc.Encode(h), nil
}
