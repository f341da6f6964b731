// Package midas reads and writes MIDAS event files: the data-acquisition
// container format of the MIDAS framework.
//
// A file is a sequence of events. Each event has a 16-byte header followed by
// either a set of named, typed banks or, for the internal BOR, EOR and message
// events, a text payload. BOR and EOR events carry an XML or JSON dump of the
// online database taken when a run starts and stops.
//
// # Core Features
//
//   - Raw, gzip, LZ4 and Zstandard files, selected by file suffix
//   - Header-only traversal that skips bodies without decoding them
//   - BANK, BANK32 and BANK32A bank headers
//   - Typed bank payloads for all fixed-width type tags
//   - XML and JSON directory dumps with per-key metadata
//   - A producer side for writing and converting files
//
// # Basic Usage
//
// Reading all events of a run:
//
//	r, err := midas.Open("run00137.mid.lz4")
//	if err != nil {
//	    return err
//	}
//	defer r.Close()
//
//	for ev, err := range r.All() {
//	    if err != nil {
//	        return err
//	    }
//	    if ev.Header.IsInternal() {
//	        continue
//	    }
//	    adc, err := event.Values[uint16](ev.Body.Bank("ADC0"))
//	    ...
//	}
//
// Reading the run number from the BOR dump:
//
//	dump, err := r.FindOpenDump()
//	if err != nil {
//	    return err
//	}
//	run, _ := dump.Tree.Find("Runinfo/Run number")
//
// # Package Structure
//
// This package provides convenient top-level wrappers. For fine-grained
// control use the reader, writer, event, odb and source packages directly.
package midas

import (
	"github.com/arloliu/midas/event"
	"github.com/arloliu/midas/odb"
	"github.com/arloliu/midas/reader"
	"github.com/arloliu/midas/section"
	"github.com/arloliu/midas/source"
	"github.com/arloliu/midas/writer"
)

// Open opens a MIDAS file for sequential reading.
//
// The decompression is chosen from the suffix: ".gz", ".lz4", ".zst" or none.
//
// Available options:
//   - reader.WithLogger(*slog.Logger)
//   - reader.WithRegistry(*compress.Registry)
//   - reader.WithCompression(format.CompressionType)
//   - reader.WithStrictTotalSize(bool)
//
// Returns:
//   - *reader.Reader: Reader positioned at the first event
//   - error: errs.ErrCodecUnavailable if the codec is not available, or a file error
func Open(path string, opts ...reader.Option) (*reader.Reader, error) {
	return reader.Open(path, opts...)
}

// OpenBytes creates a reader over an in-memory file. name only selects the
// decompression, as the path does for Open.
func OpenBytes(name string, data []byte, opts ...reader.Option) (*reader.Reader, error) {
	src, err := source.FromBytes(name, data)
	if err != nil {
		return nil, err
	}

	r, err := reader.New(src, opts...)
	if err != nil {
		_ = src.Close()
		return nil, err
	}

	return r, nil
}

// CountEvents returns the number of ordinary events in the file at path.
//
// BOR, EOR and message events are not counted.
func CountEvents(path string, opts ...reader.Option) (int, error) {
	r, err := reader.Open(path, opts...)
	if err != nil {
		return 0, err
	}
	defer r.Close()

	return r.CountEvents()
}

// ParseDump parses an XML or JSON directory dump.
//
// Example:
//
//	dump, err := midas.ParseDump(body.Raw)
func ParseDump(data []byte) (*odb.Dump, error) {
	return odb.Parse(data)
}

// Create creates a MIDAS file for writing, compressed according to its suffix.
func Create(path string, opts ...writer.Option) (*writer.Writer, error) {
	return writer.Create(path, opts...)
}

// NewEncoder creates an event encoder writing wide BANK32 headers, the
// format current MIDAS front-ends produce.
func NewEncoder() *event.Encoder {
	return event.NewEncoder(section.BankFormat32)
}
