// Package section defines the fixed-size binary records of the MIDAS event format.
//
// This package handles the byte-level layout of the record kinds that frame every
// event. It performs no I/O: every type parses from and serializes to a byte slice
// of known size.
//
// # Event Structure
//
//	┌─────────────────────────────────────────────────────────┐
//	│ EventHeader (16 bytes)                                  │
//	│  - EventID, TriggerMask, SerialNumber, Timestamp        │
//	│  - DataSize: bytes that follow this header              │
//	├─────────────────────────────────────────────────────────┤
//	│ BankPrologue (8 bytes, ordinary events only)            │
//	│  - DataSize: bytes of all banks that follow             │
//	│  - Flags: bank header format selection                  │
//	├─────────────────────────────────────────────────────────┤
//	│ BankHeader (8, 12 or 16 bytes)                          │
//	│ Bank payload (DataSize bytes)                           │
//	│ Padding (0-7 bytes, to the next 8-byte boundary)        │
//	├─────────────────────────────────────────────────────────┤
//	│ ... more banks ...                                      │
//	└─────────────────────────────────────────────────────────┘
//
// Internal events (directory dumps and log messages) carry DataSize-1 bytes of
// text followed by a single null byte instead of a bank prologue.
//
// # Header Format
//
// EventHeader (16 bytes, little-endian):
//
//	Bytes  | Field         | Type   | Description
//	-------|---------------|--------|----------------------------------
//	0-1    | EventID       | uint16 | Event type; 0x8000-0x8002 are reserved
//	2-3    | TriggerMask   | uint16 | Trigger bits
//	4-7    | SerialNumber  | uint32 | Producer-assigned counter
//	8-11   | Timestamp     | uint32 | Unix seconds
//	12-15  | DataSize      | uint32 | Size of everything after the header
//
// # Bank Header Formats
//
//	Format   | Size | Layout
//	---------|------|------------------------------------------------
//	BANK     | 8    | name[4], uint16 type, uint16 size
//	BANK32   | 12   | name[4], uint32 type, uint32 size
//	BANK32A  | 16   | name[4], uint32 type, uint32 size, uint32 reserved
//
// Bit 4 of the prologue flags selects BANK32. BANK32A additionally sets bit 5.
package section
