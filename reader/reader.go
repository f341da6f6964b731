// Package reader provides cursor-based sequential access to the events of a
// MIDAS file.
//
// A Reader separates reading an event header from materializing its body, so
// that callers can peek at headers and skip bodies they do not need:
//
//	r, err := reader.Open("run00137.mid.lz4")
//	if err != nil {
//	    return err
//	}
//	defer r.Close()
//
//	for {
//	    ok, err := r.ReadNextHeader()
//	    if err != nil || !ok {
//	        return err
//	    }
//	    if r.Header().EventID != 1 {
//	        continue // body skipped
//	    }
//	    body, err := r.ReadBody()
//	    ...
//	}
package reader

import (
	"errors"
	"fmt"
	"iter"
	"log/slog"

	"github.com/arloliu/midas/errs"
	"github.com/arloliu/midas/event"
	"github.com/arloliu/midas/internal/options"
	"github.com/arloliu/midas/odb"
	"github.com/arloliu/midas/section"
	"github.com/arloliu/midas/source"
)

// State is the position of a Reader's cursor relative to the current event.
type State uint8

const (
	// AtBoundary means the cursor sits at the start of an event header.
	AtBoundary State = iota
	// HeaderLoaded means the header of the current event has been decoded.
	HeaderLoaded
	// BodyLoaded means both header and body of the current event are decoded.
	BodyLoaded
)

func (s State) String() string {
	switch s {
	case AtBoundary:
		return "AtBoundary"
	case HeaderLoaded:
		return "HeaderLoaded"
	case BodyLoaded:
		return "BodyLoaded"
	default:
		return fmt.Sprintf("State(%d)", uint8(s))
	}
}

// Reader iterates over the events of one byte source.
//
// The Reader owns its source and closes it in Close. It is not safe for
// concurrent use; open one Reader per goroutine, even for the same file.
type Reader struct {
	src    source.Source
	logger *slog.Logger
	strict bool

	state         State
	header        section.EventHeader
	body          *event.Body
	payloadOffset int64
	nextOffset    int64
	// resync is set when a header read failed after consuming bytes; the
	// source must seek back to nextOffset before the next decode.
	resync bool
	closed bool
}

// New creates a Reader over src and takes ownership of it.
func New(src source.Source, opts ...Option) (*Reader, error) {
	cfg := newConfig()
	if err := options.Apply(cfg, opts...); err != nil {
		return nil, err
	}

	return newReader(src, cfg), nil
}

// Open opens the file at path, choosing the decompression from its suffix.
//
// Returns:
//   - *Reader: Reader positioned at the first event
//   - error: errs.ErrCodecUnavailable if the file's codec is not registered,
//     or the error of opening the file
func Open(path string, opts ...Option) (*Reader, error) {
	cfg := newConfig()
	if err := options.Apply(cfg, opts...); err != nil {
		return nil, err
	}

	src, err := source.Open(path,
		source.WithRegistry(cfg.registry),
		options.When(cfg.hasCompression, source.WithCompression(cfg.compression)),
	)
	if err != nil {
		return nil, err
	}

	cfg.logger.Debug("opened event file", "path", path, "compression", src.Compression().String())

	return newReader(src, cfg), nil
}

func newReader(src source.Source, cfg *Config) *Reader {
	return &Reader{
		src:        src,
		logger:     cfg.logger,
		strict:     cfg.strictTotalSize,
		nextOffset: src.Tell(),
	}
}

// State returns the cursor state.
func (r *Reader) State() State {
	return r.state
}

// Header returns the current event header. It is the zero header in state AtBoundary.
func (r *Reader) Header() section.EventHeader {
	return r.header
}

// Body returns the current event body, or nil unless the state is BodyLoaded.
func (r *Reader) Body() *event.Body {
	return r.body
}

// Offset returns the stream offset of the next event header.
func (r *Reader) Offset() int64 {
	return r.nextOffset
}

// Name returns the name of the underlying source.
func (r *Reader) Name() string {
	return r.src.Name()
}

// ReadNextHeader decodes the next event header, skipping the body of the
// current event if it has not been read.
//
// Returns:
//   - bool: false at a clean end of stream; the state is then AtBoundary
//   - error: errs.ErrTruncatedHeader, errs.ErrInvalidPayloadSize if the event
//     claims more bytes than the source holds, errs.ErrTruncatedPayload if a
//     compressed stream ends inside the skipped body. After an error the reader
//     stays at the failed event, so a repeated call reports the same error.
func (r *Reader) ReadNextHeader() (bool, error) {
	if r.closed {
		return false, errs.ErrReaderClosed
	}

	if r.state != AtBoundary || r.resync {
		if err := r.src.SeekAbsolute(r.nextOffset); err != nil {
			eventOffset := r.payloadOffset - section.EventHeaderSize
			r.reset(r.src.Tell())
			if errors.Is(err, errs.ErrInvalidSeek) {
				return false, fmt.Errorf("%w: event at offset %d ends beyond the stream: %w",
					errs.ErrTruncatedPayload, eventOffset, err)
			}

			return false, err
		}
	}
	r.reset(r.nextOffset)

	h, ok, err := event.DecodeHeader(r.src)
	if err != nil {
		r.resync = true
		return false, err
	}
	if !ok {
		return false, nil
	}

	payloadOffset := r.src.Tell()
	nextOffset := payloadOffset + int64(h.DataSize)
	if size, known := r.src.Size(); known && nextOffset > size {
		r.resync = true
		return false, fmt.Errorf("%w: event %s serial %d at offset %d claims %d payload bytes, %d remain",
			errs.ErrInvalidPayloadSize, h.EventID, h.SerialNumber, r.nextOffset, h.DataSize, size-payloadOffset)
	}

	r.header = h
	r.payloadOffset = payloadOffset
	r.nextOffset = nextOffset
	r.state = HeaderLoaded

	return true, nil
}

// ReadBody decodes the body of the current event.
//
// Calling ReadBody twice returns the same body. If decoding fails the reader
// stays in HeaderLoaded, so ReadNextHeader can skip the damaged event.
//
// Returns:
//   - *event.Body: Decoded body
//   - error: errs.ErrNoHeaderLoaded in state AtBoundary, or a decode error
func (r *Reader) ReadBody() (*event.Body, error) {
	if r.closed {
		return nil, errs.ErrReaderClosed
	}

	switch r.state {
	case AtBoundary:
		return nil, errs.ErrNoHeaderLoaded
	case BodyLoaded:
		return r.body, nil
	}

	if r.src.Tell() != r.payloadOffset {
		if err := r.src.SeekAbsolute(r.payloadOffset); err != nil {
			return nil, err
		}
	}

	body, err := event.DecodeBody(r.src, r.header)
	if err != nil {
		return nil, err
	}

	if !body.Consistent() {
		if r.strict {
			return nil, fmt.Errorf("%w: event serial %d declares %d bank bytes, banks span %d",
				errs.ErrInvalidPayloadSize, r.header.SerialNumber, body.DataSize, body.ScannedSize)
		}

		r.logger.Warn("total_bank_bytes disagrees with event size",
			"serial", r.header.SerialNumber,
			"offset", r.payloadOffset-section.EventHeaderSize,
			"declared", body.DataSize,
			"scanned", body.ScannedSize)
	}

	r.body = body
	r.state = BodyLoaded

	return body, nil
}

// ReadNextEvent reads the next header and its body.
//
// Returns:
//   - *event.Event: The event, nil at a clean end of stream
//   - error: Any error of ReadNextHeader or ReadBody
func (r *Reader) ReadNextEvent() (*event.Event, error) {
	ok, err := r.ReadNextHeader()
	if err != nil || !ok {
		return nil, err
	}

	body, err := r.ReadBody()
	if err != nil {
		return nil, err
	}

	return &event.Event{Header: r.header, Body: body}, nil
}

// All rewinds the reader and iterates over every event.
//
// Iteration stops after the first error, which is yielded with a nil event.
//
// Example:
//
//	for ev, err := range r.All() {
//	    if err != nil {
//	        return err
//	    }
//	    fmt.Println(ev.Header.SerialNumber, ev.Body.Banks.Names())
//	}
func (r *Reader) All() iter.Seq2[*event.Event, error] {
	return func(yield func(*event.Event, error) bool) {
		if err := r.Rewind(); err != nil {
			yield(nil, err)
			return
		}

		for {
			ev, err := r.ReadNextEvent()
			if err != nil {
				yield(nil, err)
				return
			}
			if ev == nil || !yield(ev, nil) {
				return
			}
		}
	}
}

// Rewind moves the cursor back to the start of the stream.
func (r *Reader) Rewind() error {
	if r.closed {
		return errs.ErrReaderClosed
	}

	if err := r.src.SeekAbsolute(0); err != nil {
		return fmt.Errorf("rewind %s: %w", r.src.Name(), err)
	}
	r.reset(0)
	r.logger.Debug("rewound", "source", r.src.Name())

	return nil
}

// FindOpenDump returns the directory dump of the first BOR event.
//
// On success the reader is left at the BOR event in state BodyLoaded.
//
// Returns:
//   - *odb.Dump: The parsed dump
//   - error: errs.ErrDumpNotFound if the stream has no BOR event; the reader
//     is rewound on every error
func (r *Reader) FindOpenDump() (*odb.Dump, error) {
	return r.findDump(section.EventIDBOR)
}

// FindCloseDump returns the directory dump of the first EOR event.
// It behaves like FindOpenDump.
func (r *Reader) FindCloseDump() (*odb.Dump, error) {
	return r.findDump(section.EventIDEOR)
}

func (r *Reader) findDump(id section.EventID) (*odb.Dump, error) {
	dump, err := r.scanForDump(id)
	if err != nil {
		if rewindErr := r.Rewind(); rewindErr != nil {
			return nil, errors.Join(err, rewindErr)
		}

		return nil, err
	}

	return dump, nil
}

func (r *Reader) scanForDump(id section.EventID) (*odb.Dump, error) {
	if err := r.Rewind(); err != nil {
		return nil, err
	}

	r.logger.Debug("searching for dump", "event", id.String())

	for {
		ok, err := r.ReadNextHeader()
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, fmt.Errorf("%w: no %s event in %s", errs.ErrDumpNotFound, id, r.src.Name())
		}

		if r.header.EventID != id {
			continue
		}

		body, err := r.ReadBody()
		if err != nil {
			return nil, err
		}

		dump, err := odb.Parse(body.Raw)
		if err != nil {
			return nil, fmt.Errorf("%s event serial %d: %w", id, r.header.SerialNumber, err)
		}

		r.logger.Debug("found dump", "event", id.String(), "offset", r.payloadOffset-section.EventHeaderSize)

		return dump, nil
	}
}

// CountEvents counts the ordinary events of the stream, skipping BOR, EOR and
// message events. Bodies are never decoded. The reader is rewound before and
// after counting.
func (r *Reader) CountEvents() (int, error) {
	if err := r.Rewind(); err != nil {
		return 0, err
	}

	count := 0
	for {
		ok, err := r.ReadNextHeader()
		if err != nil {
			if rewindErr := r.Rewind(); rewindErr != nil {
				return count, errors.Join(err, rewindErr)
			}

			return count, err
		}
		if !ok {
			break
		}

		if r.header.IsInternal() {
			r.logger.Debug("skipping internal event", "event", r.header.EventID.String(), "serial", r.header.SerialNumber)
			continue
		}
		count++
	}

	return count, r.Rewind()
}

// Close releases the underlying source. It is safe to call more than once.
func (r *Reader) Close() error {
	if r.closed {
		return nil
	}
	r.closed = true
	r.reset(r.nextOffset)

	return r.src.Close()
}

func (r *Reader) reset(next int64) {
	r.state = AtBoundary
	r.header = section.EventHeader{}
	r.body = nil
	r.nextOffset = next
	r.payloadOffset = next
	r.resync = false
}
