package event

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/arloliu/midas/encoding"
	"github.com/arloliu/midas/endian"
	"github.com/arloliu/midas/errs"
	"github.com/arloliu/midas/section"
	"github.com/arloliu/midas/source"
)

// maxPayloadPrealloc bounds the buffer reserved up front for one payload, so a
// corrupt size field on a stream of unknown length cannot trigger a huge allocation.
const maxPayloadPrealloc = 1 << 20

// DecodeHeader reads the event header at the current offset of src.
//
// Returns:
//   - section.EventHeader: The decoded header
//   - bool: false at a clean end of stream (no bytes left)
//   - error: errs.ErrTruncatedHeader if only 1 to 15 bytes are left
func DecodeHeader(src source.Source) (section.EventHeader, bool, error) {
	offset := src.Tell()

	var buf [section.EventHeaderSize]byte
	n, err := io.ReadFull(src, buf[:])
	if err != nil {
		switch {
		case n == 0 && errors.Is(err, io.EOF):
			return section.EventHeader{}, false, nil
		case errors.Is(err, io.ErrUnexpectedEOF):
			return section.EventHeader{}, false, fmt.Errorf("%w: %d of %d bytes at offset %d",
				errs.ErrTruncatedHeader, n, section.EventHeaderSize, offset)
		default:
			return section.EventHeader{}, false, err
		}
	}

	h, err := section.ParseEventHeader(buf[:])
	if err != nil {
		return section.EventHeader{}, false, err
	}

	return h, true, nil
}

// DecodeBody reads and decodes the payload of the event whose header was just
// read from src. The source must be positioned at the first payload byte.
func DecodeBody(src source.Source, h section.EventHeader) (*Body, error) {
	offset := src.Tell()

	payload, err := readPayload(src, h.DataSize)
	if err != nil {
		if source.IsEOF(err) {
			return nil, fmt.Errorf("%w: event %d serial %d wants %d bytes at offset %d, got %d",
				errs.ErrTruncatedPayload, h.EventID, h.SerialNumber, h.DataSize, offset, len(payload))
		}

		return nil, err
	}

	return ParseBody(h, payload, offset)
}

func readPayload(src io.Reader, size uint32) ([]byte, error) {
	if size <= maxPayloadPrealloc {
		buf := make([]byte, size)
		n, err := io.ReadFull(src, buf)

		return buf[:n], err
	}

	var buf bytes.Buffer
	buf.Grow(maxPayloadPrealloc)
	n, err := io.CopyN(&buf, src, int64(size))
	if err == nil && n < int64(size) {
		err = io.ErrUnexpectedEOF
	}
	if errors.Is(err, io.EOF) {
		err = io.ErrUnexpectedEOF
	}

	return buf.Bytes(), err
}

// ParseBody decodes an event payload that is already in memory.
//
// The bank scan is bounded by len(payload), the size taken from the event
// header. The prologue's total_bank_bytes does not bound it; compare DataSize
// and ScannedSize (or call Body.Consistent) to detect a mismatch.
//
// Parameters:
//   - h: Header of the event the payload belongs to
//   - payload: Exactly h.DataSize bytes following the header
//   - base: Stream offset of payload[0], used in error messages
//
// Returns:
//   - *Body: Decoded body; Raw for internal events, Banks otherwise
//   - error: errs.ErrInvalidPayloadSize, errs.ErrInvalidBankHeader,
//     errs.ErrUnknownBankType or errs.ErrMisalignedBankLength
func ParseBody(h section.EventHeader, payload []byte, base int64) (*Body, error) {
	if h.IsInternal() {
		body := &Body{Raw: []byte{}}
		if len(payload) > 0 {
			body.Raw = payload[:len(payload)-section.MessageTerminatorBytes]
		}

		return body, nil
	}

	if len(payload) == 0 {
		return &Body{Banks: NewBankMap()}, nil
	}

	if len(payload) < section.BankPrologueSize {
		return nil, fmt.Errorf("%w: event %d serial %d has %d payload bytes at offset %d, need at least %d",
			errs.ErrInvalidPayloadSize, h.EventID, h.SerialNumber, len(payload), base, section.BankPrologueSize)
	}

	var prologue section.BankPrologue
	if err := prologue.Parse(payload[:section.BankPrologueSize]); err != nil {
		return nil, err
	}

	body := &Body{
		DataSize: prologue.DataSize,
		Flags:    prologue.Flags,
		Format:   prologue.Format(),
		Banks:    NewBankMap(),
	}

	if err := scanBanks(body, payload, base); err != nil {
		return nil, err
	}

	return body, nil
}

func scanBanks(body *Body, payload []byte, base int64) error {
	decoder := encoding.NewValueDecoder(endian.GetLittleEndianEngine())
	headerSize := body.Format.HeaderSize()
	end := len(payload)
	off := section.BankPrologueSize

	for off < end-4 {
		if off+headerSize > end {
			return fmt.Errorf("%w: %s header at offset %d overruns event end %d",
				errs.ErrInvalidBankHeader, body.Format, base+int64(off), base+int64(end))
		}

		bh, err := section.ParseBankHeader(payload[off:], body.Format)
		if err != nil {
			return err
		}

		if !bh.Type.IsValid() {
			return fmt.Errorf("%w: bank %q type %d at offset %d",
				errs.ErrUnknownBankType, bh.Name, uint32(bh.Type), base+int64(off))
		}

		dataStart := off + headerSize
		dataEnd := dataStart + int(bh.DataSize)
		if dataEnd > end || dataEnd < dataStart {
			return fmt.Errorf("%w: bank %q size %d at offset %d overruns event end %d",
				errs.ErrInvalidBankHeader, bh.Name, bh.DataSize, base+int64(off), base+int64(end))
		}

		raw := payload[dataStart:dataEnd]
		data, err := decoder.Decode(bh.Type, raw)
		if err != nil {
			return fmt.Errorf("bank %q at offset %d: %w", bh.Name, base+int64(off), err)
		}

		body.Banks.Set(&Bank{
			Name:     bh.Name,
			Type:     bh.Type,
			DataSize: bh.DataSize,
			Data:     data,
			Raw:      raw,
		})

		off = min(dataEnd+int(section.Padding(bh.DataSize)), end)
	}

	body.ScannedSize = uint32(off - section.BankPrologueSize) //nolint:gosec

	return nil
}
