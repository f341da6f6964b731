// Package odb parses directory dumps: the XML or JSON snapshots of the online
// database that MIDAS writes into BOR and EOR events.
//
// A dump decodes into a Tree of ordered entries. Every key also gets a
// KeyInfo sidecar addressable as "<name>/key".
package odb

import (
	"bytes"
	"fmt"
	"time"

	"github.com/arloliu/midas/errs"
)

// Format identifies the text representation of a dump.
type Format uint8

const (
	FormatUnknown Format = iota
	FormatXML
	FormatJSON
)

func (f Format) String() string {
	switch f {
	case FormatXML:
		return "xml"
	case FormatJSON:
		return "json"
	default:
		return "unknown"
	}
}

// Dump is a decoded directory dump.
type Dump struct {
	// Format is the text representation the dump was parsed from.
	Format Format
	// WrittenAt is the creation time recorded in an XML dump's header comment.
	// It is the zero time when the comment is missing or unparsable, and
	// always for JSON dumps.
	WrittenAt time.Time
	// Tree is the root directory.
	Tree *Tree
}

// HasWrittenAt reports whether the creation time could be recovered.
func (d *Dump) HasWrittenAt() bool {
	return !d.WrittenAt.IsZero()
}

// Parse decodes a dump, choosing the decoder from the first non-whitespace
// byte: '<' selects XML and '{' selects JSON.
//
// Empty input yields an empty dump.
//
// Returns:
//   - *Dump: The decoded dump
//   - error: errs.ErrUnrecognizedDumpFormat, errs.ErrUnknownDumpType,
//     errs.ErrUnhandledTag, errs.ErrInvalidDumpValue or errs.ErrMissingAttribute
func Parse(data []byte) (*Dump, error) {
	trimmed := bytes.TrimLeft(data, " \t\r\n")
	if len(trimmed) == 0 {
		return &Dump{Tree: NewTree()}, nil
	}

	switch trimmed[0] {
	case '<':
		return parseXML(trimmed)
	case '{':
		return parseJSON(trimmed)
	default:
		return nil, fmt.Errorf("%w: first character is %q, want '<' or '{'",
			errs.ErrUnrecognizedDumpFormat, trimmed[0])
	}
}
