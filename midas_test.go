package midas

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/midas/errs"
	"github.com/arloliu/midas/event"
	"github.com/arloliu/midas/format"
	"github.com/arloliu/midas/section"
)

const borXML = `<?xml version="1.0" encoding="ISO-8859-1"?>
<!-- created by MXML on Fri Jan  4 10:51:22 2019 -->
<odb root="/"><dir name="Runinfo"><key name="Run number" type="INT">137</key></dir></odb>`

func writeTestFile(t *testing.T, name string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	w, err := Create(path)
	require.NoError(t, err)

	require.NoError(t, w.WriteDump(section.EventHeader{EventID: section.EventIDBOR, SerialNumber: 137}, []byte(borXML)))

	enc := NewEncoder()
	defer enc.Release()
	for serial := uint32(1); serial <= 4; serial++ {
		enc.Reset()
		require.NoError(t, enc.AddBank("FLOA", format.TypeFloat, []float32{-1, 2, -3, 4}))
		require.NoError(t, w.WriteBanks(section.EventHeader{EventID: 1, SerialNumber: serial}, enc))
	}
	require.NoError(t, w.Close())

	return path
}

func TestOpen(t *testing.T) {
	path := writeTestFile(t, "run00137.mid.gz")

	r, err := Open(path)
	require.NoError(t, err)
	defer r.Close()

	dump, err := r.FindOpenDump()
	require.NoError(t, err)
	run, ok := dump.Tree.Find("Runinfo/Run number")
	require.True(t, ok)
	require.Equal(t, int64(137), run)

	var serials []uint32
	for ev, err := range r.All() {
		require.NoError(t, err)
		if ev.Header.IsInternal() {
			continue
		}

		values, err := event.Values[float32](ev.Body.Bank("FLOA"))
		require.NoError(t, err)
		require.Equal(t, []float32{-1, 2, -3, 4}, values)
		serials = append(serials, ev.Header.SerialNumber)
	}
	require.Equal(t, []uint32{1, 2, 3, 4}, serials)
}

func TestCountEvents(t *testing.T) {
	n, err := CountEvents(writeTestFile(t, "run00137.mid"))
	require.NoError(t, err)
	require.Equal(t, 4, n)

	_, err = CountEvents(filepath.Join(t.TempDir(), "missing.mid"))
	require.Error(t, err)

	_, err = CountEvents(filepath.Join(t.TempDir(), "missing.mid.bz2"))
	require.ErrorIs(t, err, errs.ErrCodecUnavailable)
}

func TestOpenBytes(t *testing.T) {
	data := event.EncodeInternal(section.EventHeader{EventID: section.EventIDEOR}, []byte(borXML))

	r, err := OpenBytes("eor.mid", data)
	require.NoError(t, err)
	defer r.Close()

	dump, err := r.FindCloseDump()
	require.NoError(t, err)
	require.True(t, dump.HasWrittenAt())

	_, err = r.FindOpenDump()
	require.ErrorIs(t, err, errs.ErrDumpNotFound)
}

func TestParseDump(t *testing.T) {
	dump, err := ParseDump([]byte(`{"Runinfo": {"Run number": 137}}`))
	require.NoError(t, err)

	run, ok := dump.Tree.Find("Runinfo/Run number")
	require.True(t, ok)
	require.Equal(t, int64(137), run)

	_, err = ParseDump([]byte("# not a dump"))
	require.ErrorIs(t, err, errs.ErrUnrecognizedDumpFormat)
}
