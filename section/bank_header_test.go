package section

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/midas/errs"
	"github.com/arloliu/midas/format"
)

func TestBankFormatFromFlags(t *testing.T) {
	tests := []struct {
		flags uint32
		want  BankFormat
	}{
		{0, BankFormat16},
		{FlagBankFormatVersion, BankFormat16},
		{FlagBankFormatVersion | FlagBankFormat32Bit, BankFormat32},
		{FlagBankFormat32Bit, BankFormat32},
		{FlagBankFormatVersion | FlagBankFormat32Bit | FlagBankFormat64Align, BankFormat32A},
		{FlagBankFormatVersion | FlagBankFormat64Align, BankFormat16},
	}

	for _, tt := range tests {
		require.Equal(t, tt.want, BankFormatFromFlags(tt.flags), "flags 0x%x", tt.flags)
	}

	for _, f := range []BankFormat{BankFormat16, BankFormat32, BankFormat32A} {
		require.Equal(t, f, BankFormatFromFlags(f.Flags()))
	}
}

func TestBankFormat_HeaderSize(t *testing.T) {
	require.Equal(t, 8, BankFormat16.HeaderSize())
	require.Equal(t, 12, BankFormat32.HeaderSize())
	require.Equal(t, 16, BankFormat32A.HeaderSize())
	require.Equal(t, "BANK32A", BankFormat32A.String())
}

func TestBankPrologue_RoundTrip(t *testing.T) {
	p := BankPrologue{DataSize: 123, Flags: BankFormat32.Flags()}
	data := p.Bytes()
	require.Len(t, data, BankPrologueSize)

	var parsed BankPrologue
	require.NoError(t, parsed.Parse(data))
	require.Equal(t, p, parsed)
	require.Equal(t, BankFormat32, parsed.Format())

	require.ErrorIs(t, parsed.Parse(data[:7]), errs.ErrInvalidHeaderSize)
}

func TestBankHeader_RoundTrip(t *testing.T) {
	for _, f := range []BankFormat{BankFormat16, BankFormat32, BankFormat32A} {
		t.Run(f.String(), func(t *testing.T) {
			h := BankHeader{Name: "FLOA", Type: format.TypeFloat, DataSize: 16}
			data, err := h.AppendBytes(nil, f)
			require.NoError(t, err)
			require.Len(t, data, f.HeaderSize())

			parsed, err := ParseBankHeader(data, f)
			require.NoError(t, err)
			require.Equal(t, h, parsed)
		})
	}
}

func TestBankHeader_NarrowLayout(t *testing.T) {
	h := BankHeader{Name: "ADC0", Type: format.TypeWord, DataSize: 6}
	data, err := h.AppendBytes(nil, BankFormat16)
	require.NoError(t, err)
	require.Equal(t, []byte{'A', 'D', 'C', '0', 4, 0, 6, 0}, data)
}

func TestBankHeader_Errors(t *testing.T) {
	t.Run("short data", func(t *testing.T) {
		_, err := ParseBankHeader(make([]byte, 11), BankFormat32)
		require.ErrorIs(t, err, errs.ErrInvalidHeaderSize)
	})

	t.Run("bad name", func(t *testing.T) {
		_, err := BankHeader{Name: "TOOLONG", Type: format.TypeInt}.AppendBytes(nil, BankFormat16)
		require.ErrorIs(t, err, errs.ErrInvalidBankName)
	})

	t.Run("narrow overflow", func(t *testing.T) {
		_, err := BankHeader{Name: "BIGB", Type: format.TypeByte, DataSize: 70000}.AppendBytes(nil, BankFormat16)
		require.ErrorIs(t, err, errs.ErrBankTooLarge)

		_, err = BankHeader{Name: "BIGB", Type: format.TypeByte, DataSize: 70000}.AppendBytes(nil, BankFormat32)
		require.NoError(t, err)
	})
}

func TestPadding(t *testing.T) {
	tests := []struct {
		size    uint32
		padded  uint32
		padding uint32
	}{
		{0, 0, 0},
		{1, 8, 7},
		{7, 8, 1},
		{8, 8, 0},
		{9, 16, 7},
		{16, 16, 0},
	}

	for _, tt := range tests {
		require.Equal(t, tt.padded, PaddedSize(tt.size))
		require.Equal(t, tt.padding, Padding(tt.size))
	}
}
