package section

import (
	"fmt"
	"time"

	"github.com/arloliu/midas/endian"
	"github.com/arloliu/midas/errs"
)

// EventID is the 16-bit event type tag of an event header.
type EventID uint16

// IsBOR reports whether the id marks the directory dump written at run/segment open.
func (id EventID) IsBOR() bool {
	return id == EventIDBOR
}

// IsEOR reports whether the id marks the directory dump written at run/segment close.
func (id EventID) IsEOR() bool {
	return id == EventIDEOR
}

// IsMessage reports whether the id marks a free-text log message event.
func (id EventID) IsMessage() bool {
	return id == EventIDMessage
}

// IsInternal reports whether the id marks any internal event (dump or message).
func (id EventID) IsInternal() bool {
	return id.IsBOR() || id.IsEOR() || id.IsMessage()
}

func (id EventID) String() string {
	switch id {
	case EventIDBOR:
		return "BOR"
	case EventIDEOR:
		return "EOR"
	case EventIDMessage:
		return "MSG"
	default:
		return fmt.Sprintf("%d", uint16(id))
	}
}

// EventHeader represents the fixed-size header in front of every event.
type EventHeader struct {
	// EventID identifies the event type. Three reserved values mark internal events.
	EventID EventID // byte offset 0-1
	// TriggerMask holds the trigger bits of the event.
	TriggerMask uint16 // byte offset 2-3
	// SerialNumber is assigned by the producer. It is not guaranteed to be
	// strictly increasing across files.
	SerialNumber uint32 // byte offset 4-7
	// Timestamp is the event time in Unix seconds.
	Timestamp uint32 // byte offset 8-11
	// DataSize is the number of payload bytes that follow the header.
	DataSize uint32 // byte offset 12-15
}

// Parse parses the header from a byte slice.
//
// Parameters:
//   - data: Byte slice containing the header (must be exactly 16 bytes)
//
// Returns:
//   - error: ErrInvalidHeaderSize if data is not 16 bytes
func (h *EventHeader) Parse(data []byte) error {
	if len(data) != EventHeaderSize {
		return fmt.Errorf("%w: event header needs %d bytes, got %d",
			errs.ErrInvalidHeaderSize, EventHeaderSize, len(data))
	}

	engine := endian.GetLittleEndianEngine()

	h.EventID = EventID(engine.Uint16(data[0:2]))
	h.TriggerMask = engine.Uint16(data[2:4])
	h.SerialNumber = engine.Uint32(data[4:8])
	h.Timestamp = engine.Uint32(data[8:12])
	h.DataSize = engine.Uint32(data[12:16])

	return nil
}

// Bytes serializes the EventHeader into a new 16-byte slice.
func (h EventHeader) Bytes() []byte {
	return h.AppendBytes(make([]byte, 0, EventHeaderSize))
}

// AppendBytes appends the 16-byte serialized header to dst.
func (h EventHeader) AppendBytes(dst []byte) []byte {
	engine := endian.GetLittleEndianEngine()

	dst = engine.AppendUint16(dst, uint16(h.EventID))
	dst = engine.AppendUint16(dst, h.TriggerMask)
	dst = engine.AppendUint32(dst, h.SerialNumber)
	dst = engine.AppendUint32(dst, h.Timestamp)
	dst = engine.AppendUint32(dst, h.DataSize)

	return dst
}

// TotalSize returns the number of bytes this event occupies in the stream,
// header included.
func (h EventHeader) TotalSize() int64 {
	return EventHeaderSize + int64(h.DataSize)
}

// Time returns the event timestamp as a time.Time in UTC.
func (h EventHeader) Time() time.Time {
	return time.Unix(int64(h.Timestamp), 0).UTC()
}

// IsBOR reports whether this event holds the directory dump written at open.
func (h EventHeader) IsBOR() bool { return h.EventID.IsBOR() }

// IsEOR reports whether this event holds the directory dump written at close.
func (h EventHeader) IsEOR() bool { return h.EventID.IsEOR() }

// IsMessage reports whether this event holds a free-text log message.
func (h EventHeader) IsMessage() bool { return h.EventID.IsMessage() }

// IsInternal reports whether this event carries protocol metadata instead of banks.
func (h EventHeader) IsInternal() bool { return h.EventID.IsInternal() }

// ParseEventHeader parses an EventHeader from the first 16 bytes of data.
//
// Parameters:
//   - data: Byte slice containing the header (must be at least 16 bytes)
//
// Returns:
//   - EventHeader: Parsed header struct
//   - error: ErrInvalidHeaderSize if data is shorter than 16 bytes
func ParseEventHeader(data []byte) (EventHeader, error) {
	if len(data) < EventHeaderSize {
		return EventHeader{}, fmt.Errorf("%w: event header needs %d bytes, got %d",
			errs.ErrInvalidHeaderSize, EventHeaderSize, len(data))
	}

	h := EventHeader{}
	if err := h.Parse(data[:EventHeaderSize]); err != nil {
		return EventHeader{}, err
	}

	return h, nil
}
