// Command cupx inspects and builds CUPX waypoint containers.
//
// Usage:
//
//	cupx info FILE            show container summary and warnings
//	cupx list FILE            list picture names
//	cupx record FILE          write the record text to stdout
//	cupx extract FILE [NAME]  extract pictures (all when no NAME given)
//	cupx pack --record FILE --out FILE [PICTURE...]
package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"

	"github.com/gliderkit/cupx"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		if !errors.Is(err, pflag.ErrHelp) {
			fmt.Fprintln(os.Stderr, "cupx:", err)
		}
		os.Exit(1)
	}
}

func run(args []string) error {
	if len(args) == 0 {
		usage()
		return errors.New("missing command")
	}
	switch args[0] {
	case "info":
		return runInfo(args[1:])
	case "list":
		return runList(args[1:])
	case "record":
		return runRecord(args[1:])
	case "extract":
		return runExtract(args[1:])
	case "pack":
		return runPack(args[1:])
	case "help", "-h", "--help":
		usage()
		return nil
	default:
		usage()
		return fmt.Errorf("unknown command %q", args[0])
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, `usage: cupx <command> [flags] [args]

commands:
  info FILE            show container summary and warnings
  list FILE            list picture names
  record FILE          write the record text to stdout
  extract FILE [NAME]  extract pictures (all when no NAME given)
  pack                 build a container from a record and picture files`)
}

// commonFlags holds flags shared by the read commands.
type commonFlags struct {
	verbose  bool
	encoding string
}

func (c *commonFlags) register(flags *pflag.FlagSet) {
	flags.BoolVarP(&c.verbose, "verbose", "v", false, "log debug details to stderr")
	flags.StringVar(&c.encoding, "encoding", "auto", "record text encoding: auto, utf-8, windows-1252")
}

func (c *commonFlags) openOptions() ([]cupx.OpenOption, error) {
	var opts []cupx.OpenOption
	if c.verbose {
		opts = append(opts, cupx.WithLogger(newLogger()))
	}
	switch strings.ToLower(c.encoding) {
	case "auto":
	case "utf-8", "utf8":
		opts = append(opts, cupx.WithEncoding(cupx.EncodingUTF8))
	case "windows-1252", "cp1252":
		opts = append(opts, cupx.WithEncoding(cupx.EncodingWindows1252))
	default:
		return nil, fmt.Errorf("unknown encoding %q", c.encoding)
	}
	return opts, nil
}

func newLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

// openArg opens the container named by the single positional argument and
// prints its warnings to stderr.
func openArg(flags *pflag.FlagSet, common *commonFlags) (*cupx.File, error) {
	if flags.NArg() != 1 {
		return nil, errors.New("expected exactly one container file")
	}
	opts, err := common.openOptions()
	if err != nil {
		return nil, err
	}
	f, warnings, err := cupx.Open(flags.Arg(0), opts...)
	if err != nil {
		return nil, err
	}
	for _, w := range warnings {
		fmt.Fprintln(os.Stderr, "warning:", w)
	}
	return f, nil
}

func runInfo(args []string) error {
	flags := pflag.NewFlagSet("info", pflag.ContinueOnError)
	var common commonFlags
	common.register(flags)
	if err := flags.Parse(args); err != nil {
		return err
	}

	f, err := openArg(flags, &common)
	if err != nil {
		return err
	}
	defer f.Close()

	names := f.PictureNames()
	fmt.Printf("size:     %d bytes\n", f.Size())
	fmt.Printf("pictures: %d\n", len(names))
	if rec, ok := f.Record().(*cupx.RawRecord); ok {
		fmt.Printf("record:   %d bytes (%s)\n", len(rec.Text), rec.Encoding)
	}
	return nil
}

func runList(args []string) error {
	flags := pflag.NewFlagSet("list", pflag.ContinueOnError)
	var common commonFlags
	common.register(flags)
	if err := flags.Parse(args); err != nil {
		return err
	}

	f, err := openArg(flags, &common)
	if err != nil {
		return err
	}
	defer f.Close()

	for _, name := range f.PictureNames() {
		fmt.Println(name)
	}
	return nil
}

func runRecord(args []string) error {
	flags := pflag.NewFlagSet("record", pflag.ContinueOnError)
	var common commonFlags
	common.register(flags)
	if err := flags.Parse(args); err != nil {
		return err
	}

	f, err := openArg(flags, &common)
	if err != nil {
		return err
	}
	defer f.Close()

	rec, ok := f.Record().(*cupx.RawRecord)
	if !ok {
		return fmt.Errorf("unexpected record type %T", f.Record())
	}
	_, err = os.Stdout.Write(rec.Text)
	return err
}

func runExtract(args []string) error {
	flags := pflag.NewFlagSet("extract", pflag.ContinueOnError)
	var common commonFlags
	common.register(flags)
	outDir := flags.StringP("out", "o", ".", "destination directory")
	if err := flags.Parse(args); err != nil {
		return err
	}
	if flags.NArg() < 1 {
		return errors.New("expected a container file")
	}

	opts, err := common.openOptions()
	if err != nil {
		return err
	}
	f, warnings, err := cupx.Open(flags.Arg(0), opts...)
	if err != nil {
		return err
	}
	defer f.Close()
	for _, w := range warnings {
		fmt.Fprintln(os.Stderr, "warning:", w)
	}

	names := flags.Args()[1:]
	if len(names) == 0 {
		names = f.PictureNames()
	}
	for _, name := range names {
		if err := extractPicture(f, name, *outDir); err != nil {
			return err
		}
	}
	return nil
}

func extractPicture(f *cupx.File, name, outDir string) error {
	rc, err := f.OpenPicture(name)
	if err != nil {
		return err
	}
	defer rc.Close()

	// Entry names come from the archive; keep only the base name so a
	// hostile container cannot write outside the destination.
	dest := filepath.Join(outDir, filepath.Base(filepath.FromSlash(name)))
	out, err := os.Create(dest)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, rc); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

func runPack(args []string) error {
	flags := pflag.NewFlagSet("pack", pflag.ContinueOnError)
	verbose := flags.BoolP("verbose", "v", false, "log debug details to stderr")
	recordPath := flags.String("record", "", "path to the record file (required)")
	outPath := flags.StringP("out", "o", "", "output container path (required)")
	level := flags.Int("level", -1, "deflate level (0 stores, 9 compresses hardest)")
	if err := flags.Parse(args); err != nil {
		return err
	}
	if *recordPath == "" || *outPath == "" {
		return errors.New("pack requires --record and --out")
	}

	text, err := os.ReadFile(*recordPath)
	if err != nil {
		return err
	}

	opts := []cupx.WriterOption{cupx.WriteWithCompressionLevel(*level)}
	if *verbose {
		opts = append(opts, cupx.WriteWithLogger(newLogger()))
	}
	w := cupx.NewWriter(&cupx.RawRecord{Text: text}, opts...)
	for _, pic := range flags.Args() {
		w.AddPicture(filepath.Base(pic), cupx.PictureFile(pic))
	}
	return w.WriteFile(*outPath)
}
