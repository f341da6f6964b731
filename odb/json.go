package odb

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
	"github.com/tidwall/jsonc"

	"github.com/arloliu/midas/errs"
	"github.com/arloliu/midas/format"
)

func parseJSON(data []byte) (*Dump, error) {
	// Invalid UTF-8 bytes are dropped rather than rejected.
	cleaned := strings.ToValidUTF8(string(data), "")
	stripped := escapeControlChars(jsonc.ToJSON([]byte(cleaned)))

	if !gjson.ValidBytes(stripped) {
		return nil, fmt.Errorf("%w: malformed JSON dump", errs.ErrInvalidDumpValue)
	}

	root := gjson.ParseBytes(stripped)
	if !root.IsObject() {
		return nil, fmt.Errorf("%w: JSON dump root is not an object", errs.ErrUnrecognizedDumpFormat)
	}

	tree, err := jsonTree(root)
	if err != nil {
		return nil, err
	}

	return &Dump{Format: FormatJSON, Tree: tree}, nil
}

// jsonTree converts one JSON object, keeping member order. Members named
// "<name>/key" holding an object with a numeric "type" become sidecars.
func jsonTree(obj gjson.Result) (*Tree, error) {
	tree := NewTree()

	var err error
	obj.ForEach(func(key, value gjson.Result) bool {
		name := key.String()

		if base, ok := strings.CutSuffix(name, KeySuffix); ok && base != "" {
			if info, ok := jsonKeyInfo(value); ok {
				tree.SetKey(base, info)
				return true
			}
		}

		var v any
		v, err = jsonValue(value)
		if err != nil {
			err = fmt.Errorf("%q: %w", name, err)
			return false
		}
		tree.Set(name, v)

		return true
	})
	if err != nil {
		return nil, err
	}

	return tree, nil
}

func jsonValue(r gjson.Result) (any, error) {
	switch r.Type {
	case gjson.Null:
		return nil, nil
	case gjson.False:
		return false, nil
	case gjson.True:
		return true, nil
	case gjson.String:
		return r.Str, nil
	case gjson.Number:
		return jsonNumber(r), nil
	}

	if r.IsObject() {
		return jsonTree(r)
	}

	if r.IsArray() {
		elems := r.Array()
		values := make([]any, 0, len(elems))
		for i, elem := range elems {
			v, err := jsonValue(elem)
			if err != nil {
				return nil, fmt.Errorf("[%d]: %w", i, err)
			}
			values = append(values, v)
		}

		return values, nil
	}

	return nil, fmt.Errorf("%w: unexpected JSON value %q", errs.ErrInvalidDumpValue, r.Raw)
}

// jsonNumber keeps integral numbers exact as int64 and everything else as float64.
func jsonNumber(r gjson.Result) any {
	if !strings.ContainsAny(r.Raw, ".eE") {
		if v, err := strconv.ParseInt(r.Raw, 10, 64); err == nil {
			return v
		}
	}

	return r.Num
}

func jsonKeyInfo(r gjson.Result) (KeyInfo, bool) {
	if !r.IsObject() {
		return KeyInfo{}, false
	}

	typ := r.Get("type")
	if typ.Type != gjson.Number {
		return KeyInfo{}, false
	}

	return KeyInfo{
		Type:      format.TypeID(typ.Uint()), //nolint:gosec
		ItemSize:  int(r.Get("item_size").Int()),
		NumValues: int(r.Get("num_values").Int()),
		Link:      r.Get("link").String(),
	}, true
}

// escapeControlChars escapes raw control characters inside JSON strings, which
// MIDAS writes unescaped in free-text values.
func escapeControlChars(data []byte) []byte {
	const hex = "0123456789abcdef"

	var out []byte
	inString, escaped := false, false
	for i, c := range data {
		switch {
		case escaped:
			escaped = false
		case inString && c == '\\':
			escaped = true
		case c == '"':
			inString = !inString
		case inString && c < 0x20:
			if out == nil {
				out = make([]byte, 0, len(data)+16)
				out = append(out, data[:i]...)
			}
			out = append(out, '\\', 'u', '0', '0', hex[c>>4], hex[c&0xf])

			continue
		}

		if out != nil {
			out = append(out, c)
		}
	}

	if out == nil {
		return data
	}

	return out
}
