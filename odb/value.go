package odb

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/arloliu/midas/errs"
	"github.com/arloliu/midas/format"
)

// NaN is the value stored for FLOAT and DOUBLE keys that hold not-a-number.
const NaN = "NaN"

// dumpType resolves the type attribute of a key and checks that its values can
// be decoded from text.
func dumpType(name string) (format.TypeID, error) {
	t, ok := format.ParseTypeName(name)
	if !ok {
		return 0, fmt.Errorf("%w: %q", errs.ErrUnknownDumpType, name)
	}

	switch t {
	case format.TypeInt, format.TypeWord, format.TypeDword, format.TypeBool,
		format.TypeString, format.TypeLink, format.TypeFloat, format.TypeDouble:
		return t, nil
	default:
		return 0, fmt.Errorf("%w: %q", errs.ErrUnknownDumpType, name)
	}
}

// decodeText converts the text of a key or array element.
//
//   - INT becomes int64
//   - WORD and DWORD become the display string "0x" + lowercase hex
//   - BOOL is true only for the literal "y"
//   - STRING and LINK are kept verbatim
//   - FLOAT and DOUBLE become float64, or the string NaN for not-a-number
func decodeText(text string, t format.TypeID) (any, error) {
	switch t {
	case format.TypeInt:
		v, err := strconv.ParseInt(strings.TrimSpace(text), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: %s %q", errs.ErrInvalidDumpValue, t, text)
		}

		return v, nil
	case format.TypeWord, format.TypeDword:
		v, err := strconv.ParseInt(strings.TrimSpace(text), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: %s %q", errs.ErrInvalidDumpValue, t, text)
		}

		return fmt.Sprintf("0x%x", v), nil
	case format.TypeBool:
		return text == "y", nil
	case format.TypeString, format.TypeLink:
		return text, nil
	case format.TypeFloat, format.TypeDouble:
		trimmed := strings.TrimSpace(text)
		switch strings.ToLower(trimmed) {
		case "nan", "-nan", "+nan":
			return NaN, nil
		}

		v, err := strconv.ParseFloat(trimmed, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: %s %q", errs.ErrInvalidDumpValue, t, text)
		}
		if math.IsNaN(v) {
			return NaN, nil
		}

		return v, nil
	default:
		return nil, fmt.Errorf("%w: %s", errs.ErrUnknownDumpType, t)
	}
}
