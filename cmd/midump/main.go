// midump prints the contents of MIDAS event files.
//
// By default it lists one row per event. Other modes count the ordinary
// events, print the directory dump of the BOR or EOR event, show how the
// directory changed over the run, or rewrite the file with a different
// compression or bank header format.
package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/pflag"

	"github.com/arloliu/midas/event"
	"github.com/arloliu/midas/format"
	"github.com/arloliu/midas/odb"
	"github.com/arloliu/midas/reader"
	"github.com/arloliu/midas/section"
	"github.com/arloliu/midas/writer"
)

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

type flags struct {
	count      bool
	banks      bool
	diff       bool
	dump       string
	convert    string
	bankFormat string
	limit      int
	strict     bool
	logLevel   string
}

var errUsage = errors.New("usage: midump [flags] <file>")

func run(args []string, stdout, stderr io.Writer) error {
	var f flags

	flagSet := pflag.NewFlagSet("midump", pflag.ContinueOnError)
	flagSet.SetOutput(stderr)
	flagSet.BoolVar(&f.count, "count", false, "print the number of ordinary events")
	flagSet.BoolVar(&f.banks, "banks", false, "list the banks of each event")
	flagSet.StringVar(&f.dump, "odb", "", "print the directory dump of the bor or eor event")
	flagSet.BoolVar(&f.diff, "diff", false, "print the directory changes between the bor and eor dumps")
	flagSet.StringVar(&f.convert, "convert", "", "rewrite the file to this path, compressed according to its suffix")
	flagSet.StringVar(&f.bankFormat, "bank-format", "", "bank header format used by --convert: bank, bank32 or bank32a")
	flagSet.IntVar(&f.limit, "limit", 0, "stop listing after this many events (0 lists all)")
	flagSet.BoolVar(&f.strict, "strict", false, "fail on events whose total_bank_bytes disagrees with the event size")
	flagSet.StringVar(&f.logLevel, "log-level", "warn", "log level: debug, info, warn or error")

	if err := flagSet.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return err
	}

	if flagSet.NArg() != 1 {
		return errUsage
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(f.logLevel)); err != nil {
		return fmt.Errorf("invalid --log-level %q: %w", f.logLevel, err)
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	r, err := reader.Open(flagSet.Arg(0),
		reader.WithLogger(logger),
		reader.WithStrictTotalSize(f.strict),
	)
	if err != nil {
		return err
	}
	defer r.Close()

	switch {
	case f.count:
		return printCount(r, stdout)
	case f.dump != "":
		return printDump(r, f.dump, stdout)
	case f.diff:
		return printDiff(r, stdout)
	case f.convert != "":
		return convert(r, f.convert, f.bankFormat, logger, stdout)
	default:
		return printEvents(r, f.banks, f.limit, stdout)
	}
}

func printCount(r *reader.Reader, out io.Writer) error {
	n, err := r.CountEvents()
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(out, n)

	return err
}

func printEvents(r *reader.Reader, banks bool, limit int, out io.Writer) error {
	t := table.NewWriter()
	t.SetOutputMirror(out)
	header := table.Row{"Serial", "Event", "Trigger", "Time", "Size"}
	if banks {
		header = append(header, "Banks")
	}
	t.AppendHeader(header)

	rows := 0
	for ev, err := range r.All() {
		if err != nil {
			return err
		}
		if limit > 0 && rows == limit {
			break
		}

		h := ev.Header
		row := table.Row{h.SerialNumber, h.EventID, fmt.Sprintf("0x%04x", h.TriggerMask),
			h.Time().Format(time.RFC3339), h.DataSize}
		if banks {
			row = append(row, bankList(ev))
		}
		t.AppendRow(row)
		rows++
	}
	t.Render()

	return nil
}

func bankList(ev *event.Event) string {
	if ev.Header.IsInternal() {
		return ""
	}

	names := make([]string, 0, ev.Body.Banks.Len())
	for _, b := range ev.Body.Banks.All() {
		names = append(names, b.String())
	}

	return strings.Join(names, ", ")
}

func loadDump(r *reader.Reader, which string) (*odb.Dump, error) {
	switch strings.ToLower(which) {
	case "bor":
		return r.FindOpenDump()
	case "eor":
		return r.FindCloseDump()
	default:
		return nil, fmt.Errorf("invalid --odb %q: want bor or eor", which)
	}
}

func printDump(r *reader.Reader, which string, out io.Writer) error {
	dump, err := loadDump(r, which)
	if err != nil {
		return err
	}

	if dump.HasWrittenAt() {
		fmt.Fprintf(out, "%s dump written at %s\n", dump.Format, dump.WrittenAt.Format(time.RFC3339))
	}

	t := table.NewWriter()
	t.SetOutputMirror(out)
	t.AppendHeader(table.Row{"Path", "Type", "Value"})
	for path, v := range dump.Tree.Leaves() {
		typ := ""
		if info, ok := dump.Tree.FindKey(path); ok {
			typ = info.Type.String()
		}
		t.AppendRow(table.Row{path, typ, formatValue(v)})
	}
	t.Render()

	return nil
}

func printDiff(r *reader.Reader, out io.Writer) error {
	bor, err := r.FindOpenDump()
	if err != nil {
		return err
	}
	eor, err := r.FindCloseDump()
	if err != nil {
		return err
	}

	t := table.NewWriter()
	t.SetOutputMirror(out)
	t.AppendHeader(table.Row{"Path", "Change", "BOR", "EOR"})
	for _, c := range odb.Diff(bor.Tree, eor.Tree) {
		t.AppendRow(table.Row{c.Path, c.Kind, formatValue(c.Old), formatValue(c.New)})
	}
	t.Render()

	return nil
}

func formatValue(v any) string {
	switch v := v.(type) {
	case nil:
		return ""
	case *odb.Tree:
		return fmt.Sprintf("<dir: %d entries>", v.Len())
	default:
		return fmt.Sprint(v)
	}
}

var bankFormats = map[string]section.BankFormat{
	"bank":    section.BankFormat16,
	"bank32":  section.BankFormat32,
	"bank32a": section.BankFormat32A,
}

func convert(r *reader.Reader, path, bankFormat string, logger *slog.Logger, out io.Writer) error {
	var opts []writer.Option
	if bankFormat != "" {
		f, ok := bankFormats[strings.ToLower(bankFormat)]
		if !ok {
			return fmt.Errorf("invalid --bank-format %q: want bank, bank32 or bank32a", bankFormat)
		}
		opts = append(opts, writer.WithBankFormat(f))
	}

	// The output only appears under its final name once every event is written.
	tmp := path + ".partial"
	opts = append(opts, writer.WithCompression(format.DetectCompression(path)))
	w, err := writer.Create(tmp, opts...)
	if err != nil {
		return err
	}

	if err := copyEvents(r, w); err != nil {
		_ = w.Close()
		return errors.Join(err, os.Remove(tmp))
	}
	if err := w.Close(); err != nil {
		return errors.Join(err, os.Remove(tmp))
	}
	if err := os.Rename(tmp, path); err != nil {
		return errors.Join(err, os.Remove(tmp))
	}

	logger.Info("converted event file", "from", r.Name(), "to", path, "events", w.Events(), "bytes", w.Bytes())
	_, err = fmt.Fprintf(out, "wrote %d events (%d bytes) to %s\n", w.Events(), w.Bytes(), path)

	return err
}

func copyEvents(r *reader.Reader, w *writer.Writer) error {
	for ev, err := range r.All() {
		if err != nil {
			return err
		}
		if err := w.WriteEvent(ev); err != nil {
			return err
		}
	}

	return nil
}
