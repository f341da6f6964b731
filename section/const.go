package section

// offset and section sizes of the event format
const (
	EventHeaderSize        = 16 // fixed event header size in bytes
	BankPrologueSize       = 8  // bank array prologue size in bytes
	NarrowBankHeaderSize   = 8  // BANK header size in bytes
	WideBankHeaderSize     = 12 // BANK32 header size in bytes
	AlignedBankHeaderSize  = 16 // BANK32A header size in bytes
	BankNameSize           = 4  // bank names are exactly 4 characters
	BankAlignment          = 8  // bank payloads are padded to this boundary
	MessageTerminatorBytes = 1  // internal event payloads end with one null byte
)

// Bank prologue flag bits.
const (
	FlagBankFormatVersion = 0x0001 // BANK_FORMAT_VERSION, always set by producers
	FlagBankFormat32Bit   = 0x0010 // bit 4: 32-bit bank headers
	FlagBankFormat64Align = 0x0020 // bit 5: 32-bit headers with 8-byte aligned payloads
)

// Reserved event identifiers of internal events.
const (
	EventIDBOR     EventID = 0x8000 // directory dump written when a run/segment opens
	EventIDEOR     EventID = 0x8001 // directory dump written when a run/segment closes
	EventIDMessage EventID = 0x8002 // free-text log message
)

// MagicTriggerMask is the trigger mask producers write into dump events ("MI").
const MagicTriggerMask = 0x494d

// PaddedSize rounds a bank payload size up to the next 8-byte boundary.
func PaddedSize(size uint32) uint32 {
	return (size + BankAlignment - 1) &^ (BankAlignment - 1)
}

// Padding returns the number of zero bytes that follow a bank payload of the given size.
func Padding(size uint32) uint32 {
	return PaddedSize(size) - size
}
