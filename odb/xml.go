package odb

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/htmlindex"

	"github.com/arloliu/midas/errs"
	"github.com/arloliu/midas/format"
)

// writtenAtLayout is the ctime layout of the header comment, e.g.
// "<!-- created by MXML on Fri Jan  4 10:51:22 2019 -->".
const writtenAtLayout = time.ANSIC

func parseXML(data []byte) (*Dump, error) {
	dump := &Dump{
		Format:    FormatXML,
		WrittenAt: xmlWrittenAt(data),
		Tree:      NewTree(),
	}

	dec := xml.NewDecoder(bytes.NewReader(data))
	dec.CharsetReader = charsetReader

	// The root element's own name is not checked; only its children are.
	for {
		tok, err := dec.Token()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return dump, nil
			}

			return nil, xmlError(dec, err)
		}

		if _, ok := tok.(xml.StartElement); ok {
			break
		}
	}

	if err := parseXMLDir(dec, dump.Tree); err != nil {
		return nil, err
	}

	return dump, nil
}

// xmlWrittenAt extracts the timestamp between " on " and " -->" of the first comment.
func xmlWrittenAt(data []byte) time.Time {
	s := string(data)

	start := strings.Index(s, "<!--")
	if start < 0 {
		return time.Time{}
	}
	s = s[start:]

	on := strings.Index(s, " on ")
	end := strings.Index(s, " -->")
	if on < 0 || end < 0 || end < on+4 {
		return time.Time{}
	}

	ts, err := time.ParseInLocation(writtenAtLayout, strings.TrimSpace(s[on+4:end]), time.UTC)
	if err != nil {
		return time.Time{}
	}

	return ts
}

// parseXMLDir consumes the children of a directory element up to its end tag.
func parseXMLDir(dec *xml.Decoder, tree *Tree) error {
	for {
		tok, err := dec.Token()
		if err != nil {
			return xmlError(dec, err)
		}

		switch el := tok.(type) {
		case xml.EndElement:
			return nil
		case xml.StartElement:
			if err := parseXMLEntry(dec, el, tree); err != nil {
				return err
			}
		}
	}
}

func parseXMLEntry(dec *xml.Decoder, el xml.StartElement, tree *Tree) error {
	switch el.Name.Local {
	case "dir", "key", "keyarray":
	default:
		return unhandledTag(dec, el)
	}

	name, err := xmlAttr(dec, el, "name")
	if err != nil {
		return err
	}

	switch el.Name.Local {
	case "key":
		return parseXMLKey(dec, el, name, tree)
	case "keyarray":
		return parseXMLKeyArray(dec, el, name, tree)
	}

	sub := NewTree()
	if err := parseXMLDir(dec, sub); err != nil {
		return err
	}
	tree.Set(name, sub)

	return nil
}

func parseXMLKey(dec *xml.Decoder, el xml.StartElement, name string, tree *Tree) error {
	typeName, err := xmlAttr(dec, el, "type")
	if err != nil {
		return err
	}

	text, err := xmlText(dec)
	if err != nil {
		return err
	}

	t, err := dumpType(typeName)
	if err != nil {
		return fmt.Errorf("key %q: %w", name, err)
	}

	v, err := decodeText(text, t)
	if err != nil {
		return fmt.Errorf("key %q: %w", name, err)
	}

	info, err := xmlKeyInfo(dec, el, t, text)
	if err != nil {
		return err
	}

	tree.Set(name, v)
	tree.SetKey(name, info)

	return nil
}

func parseXMLKeyArray(dec *xml.Decoder, el xml.StartElement, name string, tree *Tree) error {
	typeName, err := xmlAttr(dec, el, "type")
	if err != nil {
		return err
	}

	t, err := dumpType(typeName)
	if err != nil {
		return fmt.Errorf("keyarray %q: %w", name, err)
	}

	info, err := xmlKeyInfo(dec, el, t, "")
	if err != nil {
		return err
	}

	numStr, err := xmlAttr(dec, el, "num_values")
	if err != nil {
		return err
	}
	info.NumValues, err = strconv.Atoi(numStr)
	if err != nil {
		return fmt.Errorf("%w: keyarray %q num_values %q", errs.ErrInvalidDumpValue, name, numStr)
	}

	values := make([]any, 0, max(info.NumValues, 0))
	for {
		tok, err := dec.Token()
		if err != nil {
			return xmlError(dec, err)
		}

		switch child := tok.(type) {
		case xml.EndElement:
			tree.Set(name, values)
			tree.SetKey(name, info)

			return nil
		case xml.StartElement:
			if child.Name.Local != "value" {
				return unhandledTag(dec, child)
			}

			text, err := xmlText(dec)
			if err != nil {
				return err
			}

			v, err := decodeText(text, t)
			if err != nil {
				return fmt.Errorf("keyarray %q[%d]: %w", name, len(values), err)
			}
			values = append(values, v)
		}
	}
}

// xmlKeyInfo builds the sidecar of a key; text is the key's own text, the
// link target for LINK keys.
func xmlKeyInfo(dec *xml.Decoder, el xml.StartElement, t format.TypeID, text string) (KeyInfo, error) {
	info := KeyInfo{Type: t}

	switch t {
	case format.TypeLink:
		info.Link = text
	case format.TypeString:
		size, err := xmlAttr(dec, el, "size")
		if err != nil {
			return KeyInfo{}, err
		}
		info.ItemSize, err = strconv.Atoi(size)
		if err != nil {
			return KeyInfo{}, fmt.Errorf("%w: string size %q", errs.ErrInvalidDumpValue, size)
		}
	}

	return info, nil
}

// xmlText collects the character data of a leaf element up to its end tag.
func xmlText(dec *xml.Decoder) (string, error) {
	var sb strings.Builder
	for {
		tok, err := dec.Token()
		if err != nil {
			return "", xmlError(dec, err)
		}

		switch el := tok.(type) {
		case xml.CharData:
			sb.Write(el)
		case xml.StartElement:
			return "", unhandledTag(dec, el)
		case xml.EndElement:
			return sb.String(), nil
		}
	}
}

func xmlAttr(dec *xml.Decoder, el xml.StartElement, name string) (string, error) {
	for _, attr := range el.Attr {
		if attr.Name.Local == name {
			return attr.Value, nil
		}
	}

	line, _ := dec.InputPos()

	return "", fmt.Errorf("%w: <%s> has no %q attribute at line %d",
		errs.ErrMissingAttribute, el.Name.Local, name, line)
}

func unhandledTag(dec *xml.Decoder, el xml.StartElement) error {
	line, _ := dec.InputPos()
	return fmt.Errorf("%w: <%s> at line %d", errs.ErrUnhandledTag, el.Name.Local, line)
}

func xmlError(dec *xml.Decoder, err error) error {
	if errors.Is(err, io.EOF) {
		err = io.ErrUnexpectedEOF
	}
	line, _ := dec.InputPos()

	return fmt.Errorf("%w: malformed XML dump near line %d: %w", errs.ErrInvalidDumpValue, line, err)
}

// charsetReader decodes dumps that declare a non UTF-8 encoding. MIDAS
// declares ISO-8859-1 but usually writes UTF-8, so input that is already valid
// UTF-8 passes through unchanged.
func charsetReader(label string, input io.Reader) (io.Reader, error) {
	data, err := io.ReadAll(input)
	if err != nil {
		return nil, err
	}

	if utf8.Valid(data) {
		return bytes.NewReader(data), nil
	}

	var enc encoding.Encoding = charmap.ISO8859_1
	switch strings.ToLower(label) {
	case "iso-8859-1", "iso8859-1", "latin1", "latin-1":
	default:
		if e, err := htmlindex.Get(label); err == nil {
			enc = e
		}
	}

	return enc.NewDecoder().Reader(bytes.NewReader(data)), nil
}
