package encoding

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/midas/endian"
	"github.com/arloliu/midas/errs"
	"github.com/arloliu/midas/format"
)

func TestValueDecoder_Decode(t *testing.T) {
	dec := NewValueDecoder(endian.GetLittleEndianEngine())

	tests := []struct {
		name string
		t    format.TypeID
		data []byte
		want any
	}{
		{"byte", format.TypeByte, []byte("abc\x00def"), []byte("abc\x00def")},
		{"sbyte", format.TypeSByte, []byte{0xff, 0x02, 0xfd, 0x04}, []int8{-1, 2, -3, 4}},
		{"char keeps nulls", format.TypeChar, []byte("abc\x00123"), "abc\x00123"},
		{"word", format.TypeWord, []byte{1, 0, 2, 0, 0xff, 0xff}, []uint16{1, 2, 65535}},
		{"short", format.TypeShort, []byte{0xff, 0xff, 2, 0}, []int16{-1, 2}},
		{"dword", format.TypeDword, []byte{1, 0, 0, 0, 0, 0, 0, 0x80}, []uint32{1, 0x80000000}},
		{"int", format.TypeInt, []byte{0xfd, 0xff, 0xff, 0xff, 4, 0, 0, 0}, []int32{-3, 4}},
		{"bool", format.TypeBool, []byte{1, 0, 0, 0, 0, 0, 0, 0, 0, 2, 0, 0}, []bool{true, false, true}},
		{"bitfield", format.TypeBitfield, []byte{3, 0, 0, 0}, []uint32{3}},
		{"empty float", format.TypeFloat, []byte{}, []float32{}},
		{"string raw", format.TypeString, []byte("hello\x00"), []byte("hello\x00")},
		{"struct raw", format.TypeStruct, []byte{1, 2, 3}, []byte{1, 2, 3}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := dec.Decode(tt.t, tt.data)
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestValueDecoder_Floats(t *testing.T) {
	enc := NewValueEncoder(endian.GetLittleEndianEngine())
	dec := NewValueDecoder(endian.GetLittleEndianEngine())

	raw, err := enc.Append(nil, format.TypeFloat, []float32{-1, 2, -3, 4})
	require.NoError(t, err)
	require.Len(t, raw, 16)

	got, err := dec.Decode(format.TypeFloat, raw)
	require.NoError(t, err)
	require.Equal(t, []float32{-1, 2, -3, 4}, got)

	raw, err = enc.Append(nil, format.TypeDouble, []float64{math.Pi, math.Inf(-1)})
	require.NoError(t, err)

	got, err = dec.Decode(format.TypeDouble, raw)
	require.NoError(t, err)
	require.Equal(t, []float64{math.Pi, math.Inf(-1)}, got)
}

func TestValueDecoder_DoesNotAlias(t *testing.T) {
	dec := NewValueDecoder(endian.GetLittleEndianEngine())
	data := []byte{1, 2, 3}

	got, err := dec.Decode(format.TypeByte, data)
	require.NoError(t, err)

	data[0] = 0xff
	require.Equal(t, []byte{1, 2, 3}, got)
}

func TestValueDecoder_Errors(t *testing.T) {
	dec := NewValueDecoder(endian.GetLittleEndianEngine())

	t.Run("unknown type", func(t *testing.T) {
		_, err := dec.Decode(format.TypeID(42), []byte{1})
		require.ErrorIs(t, err, errs.ErrUnknownBankType)

		_, err = dec.Decode(format.TypeID(0), nil)
		require.ErrorIs(t, err, errs.ErrUnknownBankType)
	})

	t.Run("misaligned", func(t *testing.T) {
		_, err := dec.Decode(format.TypeInt, []byte{1, 2, 3, 4, 5})
		require.ErrorIs(t, err, errs.ErrMisalignedBankLength)

		_, err = dec.Decode(format.TypeDouble, make([]byte, 12))
		require.ErrorIs(t, err, errs.ErrMisalignedBankLength)
	})
}

func TestValueEncoder_RoundTrip(t *testing.T) {
	enc := NewValueEncoder(endian.GetLittleEndianEngine())
	dec := NewValueDecoder(endian.GetLittleEndianEngine())

	tests := []struct {
		t      format.TypeID
		values any
	}{
		{format.TypeByte, []byte("abcdefg")},
		{format.TypeSByte, []int8{-1, 2, -3, 4}},
		{format.TypeChar, "abc123"},
		{format.TypeWord, []uint16{1, 2, 3, 4}},
		{format.TypeShort, []int16{-1, 2, -3, 4}},
		{format.TypeDword, []uint32{1, 2, 3, 4}},
		{format.TypeInt, []int32{-1, 2, -3, 4}},
		{format.TypeBool, []bool{true, false, true, false}},
		{format.TypeFloat, []float32{-1, 2, -3, 4}},
		{format.TypeDouble, []float64{-1, 2, -3, 4}},
		{format.TypeBitfield, []uint32{1, 2, 3, 4}},
	}

	for _, tt := range tests {
		t.Run(tt.t.String(), func(t *testing.T) {
			raw, err := enc.Append(nil, tt.t, tt.values)
			require.NoError(t, err)

			got, err := dec.Decode(tt.t, raw)
			require.NoError(t, err)
			require.Equal(t, tt.values, got)
		})
	}
}

func TestValueEncoder_Errors(t *testing.T) {
	enc := NewValueEncoder(endian.GetLittleEndianEngine())

	_, err := enc.Append(nil, format.TypeFloat, []float64{1})
	require.ErrorIs(t, err, errs.ErrTypeMismatch)

	_, err = enc.Append(nil, format.TypeInt, []byte{1, 2})
	require.ErrorIs(t, err, errs.ErrMisalignedBankLength)

	_, err = enc.Append(nil, format.TypeID(99), []byte{})
	require.ErrorIs(t, err, errs.ErrUnknownBankType)

	prefix := []byte{9, 9}
	out, err := enc.Append(prefix, format.TypeWord, []uint16{0x0102})
	require.NoError(t, err)
	require.Equal(t, []byte{9, 9, 2, 1}, out)
}
