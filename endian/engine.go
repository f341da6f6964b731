// Package endian provides byte order utilities for binary encoding and decoding.
//
// Every multi-byte field in a MIDAS event (header, bank prologue, bank headers and
// bank payloads) is little-endian. The codec packages never hard-code
// binary.LittleEndian directly; they take an EndianEngine so a single point
// defines the wire byte order.
//
// # Basic Usage
//
//	engine := endian.GetLittleEndianEngine()
//	id := engine.Uint16(buf[0:2])
//	buf = engine.AppendUint32(buf, size)
//
// # Thread Safety
//
// All functions and methods in this package are safe for concurrent use.
// The returned EndianEngine instances are immutable and stateless.
package endian

import "encoding/binary"

// EndianEngine combines ByteOrder and AppendByteOrder interfaces from encoding/binary
// into a single interface for convenient byte order operations.
//
// This interface is satisfied by binary.LittleEndian and binary.BigEndian from
// the standard library.
type EndianEngine interface {
	binary.ByteOrder
	binary.AppendByteOrder
}

// GetLittleEndianEngine returns the little-endian engine used by the MIDAS wire format.
func GetLittleEndianEngine() EndianEngine {
	return binary.LittleEndian
}
