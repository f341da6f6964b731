// Package errs defines the sentinel errors returned by the midas packages.
//
// Errors are wrapped with positional context (byte offset, bank name, type tag)
// using fmt.Errorf("%w: ..."), so callers should compare with errors.Is.
package errs

import "errors"

// Byte source errors.
var (
	ErrCodecUnavailable = errors.New("compression codec unavailable")
	ErrSourceClosed     = errors.New("byte source closed")
	ErrInvalidSeek      = errors.New("invalid seek offset")
	ErrStreamReset      = errors.New("compressed stream could not be restarted")
)

// Event framing errors.
var (
	ErrTruncatedHeader    = errors.New("truncated event header")
	ErrTruncatedPayload   = errors.New("truncated event payload")
	ErrInvalidHeaderSize  = errors.New("invalid header size")
	ErrInvalidPayloadSize = errors.New("invalid event payload size")
)

// Bank container errors.
var (
	ErrMisalignedBankLength = errors.New("bank length is not a multiple of its type width")
	ErrUnknownBankType      = errors.New("unknown bank type")
	ErrInvalidBankHeader    = errors.New("invalid bank header")
	ErrInvalidBankName      = errors.New("invalid bank name")
	ErrBankTooLarge         = errors.New("bank too large for header format")
	ErrTypeMismatch         = errors.New("bank data type mismatch")
)

// Directory dump errors.
var (
	ErrUnrecognizedDumpFormat = errors.New("unrecognized dump format")
	ErrUnknownDumpType        = errors.New("unknown dump type")
	ErrUnhandledTag           = errors.New("unhandled dump tag")
	ErrInvalidDumpValue       = errors.New("invalid dump value")
	ErrMissingAttribute       = errors.New("missing dump attribute")
)

// Reader errors.
var (
	ErrNoHeaderLoaded = errors.New("no event header loaded")
	ErrDumpNotFound   = errors.New("directory dump event not found")
	ErrReaderClosed   = errors.New("reader closed")
)

// Writer errors.
var (
	ErrWriterClosed      = errors.New("writer closed")
	ErrNotInternalEvent  = errors.New("event id is not an internal event")
	ErrInvalidBankFormat = errors.New("invalid bank format")
)
