package odb

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/midas/errs"
	"github.com/arloliu/midas/format"
)

const borDump = `<?xml version="1.0" encoding="ISO-8859-1"?>
<!-- created by MXML on Fri Jan  4 10:51:22 2019 -->
<odb root="/" filename="run00137.xml" xmlns:xsi="http://www.w3.org/2001/XMLSchema-instance">
  <dir name="Runinfo">
    <key name="State" type="INT">1</key>
    <key name="Run number" type="INT">137</key>
    <key name="Start time" type="STRING" size="32">Fri Jan  4 10:51:22 2019</key>
    <key name="Online Mode" type="BOOL">y</key>
    <key name="Transition in progress" type="BOOL">n</key>
    <key name="Start time binary" type="DWORD">1546595482</key>
  </dir>
  <dir name="Equipment">
    <dir name="Trigger">
      <keyarray name="Gains" type="FLOAT" num_values="3">
        <value index="0">1.5</value>
        <value index="1">nan</value>
        <value index="2">-2</value>
      </keyarray>
      <keyarray name="Channels" type="WORD" num_values="2">
        <value>16</value>
        <value>255</value>
      </keyarray>
    </dir>
  </dir>
  <key name="Current run" type="LINK">/Runinfo/Run number</key>
  <key name="Threshold" type="DOUBLE">-nan</key>
</odb>
`

func mustParse(t *testing.T, text string) *Dump {
	t.Helper()

	dump, err := Parse([]byte(text))
	require.NoError(t, err)
	require.NotNil(t, dump.Tree)

	return dump
}

func TestParseXML_RunNumber(t *testing.T) {
	dump := mustParse(t, `<odb><key name="Run number" type="INT">137</key></odb>`)
	require.Equal(t, FormatXML, dump.Format)

	v, ok := dump.Tree.Get("Run number")
	require.True(t, ok)
	require.Equal(t, int64(137), v)

	key, ok := dump.Tree.Get("Run number/key")
	require.True(t, ok)
	require.Equal(t, KeyInfo{Type: format.TypeInt}, key)

	require.Equal(t, 1, dump.Tree.Len())
}

func TestParseXML_DwordAsHex(t *testing.T) {
	dump := mustParse(t, `<odb><key name="Mask" type="DWORD">255</key><key name="W" type="WORD">0</key></odb>`)

	v, _ := dump.Tree.Get("Mask")
	require.Equal(t, "0xff", v)

	v, _ = dump.Tree.Get("W")
	require.Equal(t, "0x0", v)
}

func TestParseXML_FullDump(t *testing.T) {
	dump := mustParse(t, borDump)

	require.True(t, dump.HasWrittenAt())
	require.Equal(t, time.Date(2019, 1, 4, 10, 51, 22, 0, time.UTC), dump.WrittenAt)

	tree := dump.Tree
	require.Equal(t, []string{"Runinfo", "Equipment", "Current run", "Threshold"}, tree.Names())

	runinfo, ok := tree.Dir("Runinfo")
	require.True(t, ok)
	require.Equal(t, 6, runinfo.Len())
	_, ok = runinfo.Key("Runinfo")
	require.False(t, ok)

	tests := []struct {
		path string
		want any
	}{
		{"Runinfo/State", int64(1)},
		{"Runinfo/Run number", int64(137)},
		{"/Runinfo/Start time", "Fri Jan  4 10:51:22 2019"},
		{"Runinfo/Online Mode", true},
		{"Runinfo/Transition in progress", false},
		{"Runinfo/Start time binary", "0x5c2f2c9a"},
		{"Equipment/Trigger/Gains", []any{1.5, NaN, -2.0}},
		{"Equipment/Trigger/Channels", []any{"0x10", "0xff"}},
		{"Current run", "/Runinfo/Run number"},
		{"Threshold", NaN},
		{"Runinfo/Start time/key", KeyInfo{Type: format.TypeString, ItemSize: 32}},
		{"Equipment/Trigger/Gains/key", KeyInfo{Type: format.TypeFloat, NumValues: 3}},
		{"Current run/key", KeyInfo{Type: format.TypeLink, Link: "/Runinfo/Run number"}},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			v, ok := tree.Find(tt.path)
			require.True(t, ok)
			require.Equal(t, tt.want, v)
		})
	}

	_, ok = tree.Find("Runinfo/Missing")
	require.False(t, ok)
	_, ok = tree.Find("Nope/State")
	require.False(t, ok)

	info, ok := tree.FindKey("Equipment/Trigger/Channels")
	require.True(t, ok)
	require.True(t, info.IsArray())
	require.Equal(t, format.TypeWord, info.Type)
}

func TestParseXML_WrittenAt(t *testing.T) {
	tests := []struct {
		name string
		text string
		want time.Time
	}{
		{"no comment", `<odb></odb>`, time.Time{}},
		{"no timestamp", `<!-- created by hand --><odb></odb>`, time.Time{}},
		{"bad timestamp", `<!-- created by MXML on yesterday --><odb></odb>`, time.Time{}},
		{"valid", `<!-- created by MXML on Mon Dec 25 08:00:01 2023 --><odb></odb>`,
			time.Date(2023, 12, 25, 8, 0, 1, 0, time.UTC)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dump := mustParse(t, tt.text)
			require.Equal(t, tt.want, dump.WrittenAt)
			require.Equal(t, !tt.want.IsZero(), dump.HasWrittenAt())
		})
	}
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name string
		text string
		want error
	}{
		{"plain text", "hello", errs.ErrUnrecognizedDumpFormat},
		{"json array", "[1, 2]", errs.ErrUnrecognizedDumpFormat},
		{"unhandled tag", `<odb><blob name="x"/></odb>`, errs.ErrUnhandledTag},
		{"unhandled nested tag", `<odb><dir name="a"><dir name="b"><entry/></dir></dir></odb>`, errs.ErrUnhandledTag},
		{"unhandled array child", `<odb><keyarray name="a" type="INT" num_values="1"><item>1</item></keyarray></odb>`, errs.ErrUnhandledTag},
		{"element inside key", `<odb><key name="a" type="INT"><b/></key></odb>`, errs.ErrUnhandledTag},
		{"unknown type", `<odb><key name="a" type="UINT64">1</key></odb>`, errs.ErrUnknownDumpType},
		{"undecodable type", `<odb><key name="a" type="CHAR">x</key></odb>`, errs.ErrUnknownDumpType},
		{"unknown array type", `<odb><keyarray name="a" type="BYTE" num_values="0"></keyarray></odb>`, errs.ErrUnknownDumpType},
		{"bad int", `<odb><key name="a" type="INT">abc</key></odb>`, errs.ErrInvalidDumpValue},
		{"bad float", `<odb><keyarray name="a" type="DOUBLE" num_values="1"><value>x</value></keyarray></odb>`, errs.ErrInvalidDumpValue},
		{"missing name", `<odb><key type="INT">1</key></odb>`, errs.ErrMissingAttribute},
		{"missing type", `<odb><key name="a">1</key></odb>`, errs.ErrMissingAttribute},
		{"missing size", `<odb><key name="a" type="STRING">x</key></odb>`, errs.ErrMissingAttribute},
		{"truncated xml", `<odb><dir name="a">`, errs.ErrInvalidDumpValue},
		{"malformed json", `{"a": }`, errs.ErrInvalidDumpValue},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.text))
			require.ErrorIs(t, err, tt.want)
		})
	}
}

func TestParse_Empty(t *testing.T) {
	for _, text := range []string{"", "  \n\t"} {
		dump := mustParse(t, text)
		require.Equal(t, FormatUnknown, dump.Format)
		require.Equal(t, 0, dump.Tree.Len())
	}
}

func TestParse_LeadingWhitespace(t *testing.T) {
	dump := mustParse(t, "\n  <odb><key name=\"x\" type=\"INT\">-4</key></odb>")
	v, _ := dump.Tree.Get("x")
	require.Equal(t, int64(-4), v)
}

func TestParseXML_SidecarDoesNotCollide(t *testing.T) {
	dump := mustParse(t, `<odb>
		<key name="A/key" type="STRING" size="8">real</key>
		<key name="A" type="INT">1</key>
	</odb>`)

	tree := dump.Tree
	require.Equal(t, 2, tree.Len())

	v, ok := tree.Get("A/key")
	require.True(t, ok)
	require.Equal(t, "real", v)

	info, ok := tree.Key("A")
	require.True(t, ok)
	require.Equal(t, format.TypeInt, info.Type)

	info, ok = tree.Key("A/key")
	require.True(t, ok)
	require.Equal(t, format.TypeString, info.Type)
}

func TestParseXML_Charset(t *testing.T) {
	header := `<?xml version="1.0" encoding="ISO-8859-1"?>`

	latin1 := header + "<odb><key name=\"Comment\" type=\"STRING\" size=\"8\">caf\xe9</key></odb>"
	dump := mustParse(t, latin1)
	v, _ := dump.Tree.Get("Comment")
	require.Equal(t, "café", v)

	utf8 := header + "<odb><key name=\"Comment\" type=\"STRING\" size=\"8\">café</key></odb>"
	dump = mustParse(t, utf8)
	v, _ = dump.Tree.Get("Comment")
	require.Equal(t, "café", v)
}

func TestParseJSON(t *testing.T) {
	text := `{
  "Runinfo": {
    "State": 1,
    "State/key": {"type": 7, "access_mode": 35},
    "Start time": "Fri Jan  4 10:51:22 2019",
    "Start time/key": {"type": 12, "item_size": 32},
    "Rate": 2.5,
    "Online Mode": true,
  },
  // comment lines are stripped
  "Gains": [1, 2.5, "0x10", null],
  "Gains/key": {"type": 9, "num_values": 4},
  "Notes/key": "not a sidecar",
  "Comment": "bad` + "\xff" + ` byte",
  "Log": "line1` + "\n" + `line2"
}`

	dump := mustParse(t, text)
	require.Equal(t, FormatJSON, dump.Format)
	require.False(t, dump.HasWrittenAt())

	tree := dump.Tree
	require.Equal(t, []string{"Runinfo", "Gains", "Notes/key", "Comment", "Log"}, tree.Names())

	runinfo, ok := tree.Dir("Runinfo")
	require.True(t, ok)
	require.Equal(t, []string{"State", "Start time", "Rate", "Online Mode"}, runinfo.Names())

	v, _ := runinfo.Get("State")
	require.Equal(t, int64(1), v)
	v, _ = runinfo.Get("Rate")
	require.Equal(t, 2.5, v)
	v, _ = runinfo.Get("Online Mode")
	require.Equal(t, true, v)

	v, _ = tree.Find("Runinfo/State/key")
	require.Equal(t, KeyInfo{Type: format.TypeInt}, v)
	v, _ = tree.Find("Runinfo/Start time/key")
	require.Equal(t, KeyInfo{Type: format.TypeString, ItemSize: 32}, v)

	v, _ = tree.Get("Gains")
	require.Equal(t, []any{int64(1), 2.5, "0x10", nil}, v)
	info, _ := tree.Key("Gains")
	require.Equal(t, 4, info.NumValues)

	v, _ = tree.Get("Notes/key")
	require.Equal(t, "not a sidecar", v)

	v, _ = tree.Get("Comment")
	require.Equal(t, "bad byte", v)

	v, _ = tree.Get("Log")
	require.Equal(t, "line1\nline2", v)
}

func TestTree_Leaves(t *testing.T) {
	tree := mustParse(t, borDump).Tree

	var paths []string
	for path := range tree.Leaves() {
		paths = append(paths, path)
	}

	require.Equal(t, []string{
		"Runinfo/State",
		"Runinfo/Run number",
		"Runinfo/Start time",
		"Runinfo/Online Mode",
		"Runinfo/Transition in progress",
		"Runinfo/Start time binary",
		"Equipment/Trigger/Gains",
		"Equipment/Trigger/Channels",
		"Current run",
		"Threshold",
	}, paths)
}

func TestTree_SetMovesToEnd(t *testing.T) {
	tree := NewTree()
	tree.Set("a", int64(1))
	tree.Set("b", int64(2))
	tree.Set("a", int64(3))

	require.Equal(t, []string{"b", "a"}, tree.Names())
}
