// nessie-dis prints human-readable listings of Nessie bytecode chunks.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/tliron/commonlog"
	_ "github.com/tliron/commonlog/simple"

	"github.com/nessie-lang/nessie/bytecode"
	"github.com/nessie-lang/nessie/manifest"
)

const loggerName = "nessie.dis"

// options holds the effective settings after merging nessie.toml and flags.
type options struct {
	verbosity     int
	logFile       *string
	name          string
	validate      bool
	showConstants bool
	annotate      bool
	paths         []string
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	opts, err := parseOptions(args, stderr)
	if err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 2
	}

	commonlog.Configure(opts.verbosity, opts.logFile)
	log := commonlog.GetLogger(loggerName)

	out := bufio.NewWriter(stdout)
	defer out.Flush()

	for i, path := range opts.paths {
		if i > 0 {
			fmt.Fprintln(out)
		}
		if err := disassembleFile(out, path, opts, log); err != nil {
			log.Errorf("%s: %s", path, err)
			out.Flush()
			fmt.Fprintf(stderr, "Error: %s: %v\n", path, err)
			return 1
		}
	}
	return 0
}

func parseOptions(args []string, stderr io.Writer) (*options, error) {
	fs := flag.NewFlagSet("nessie-dis", flag.ContinueOnError)
	fs.SetOutput(stderr)

	dir := fs.String("C", ".", "Directory to search upward for "+manifest.FileName)
	verbosity := fs.Int("v", 0, "Log verbosity (higher is more detailed)")
	logFile := fs.String("log", "", "Write logs to this file instead of stderr")
	name := fs.String("name", "", "Header name for anonymous chunks")
	noValidate := fs.Bool("no-validate", false, "Skip chunk validation before printing")
	constants := fs.Bool("constants", false, "Print the constant pool after the listing")
	annotate := fs.Bool("annotate", false, "Annotate constant loads and jump targets")

	fs.Usage = func() {
		fmt.Fprintf(stderr, "Usage: nessie-dis [options] files...\n\n")
		fmt.Fprintf(stderr, "Prints a listing of each CBOR-encoded bytecode chunk.\n\n")
		fmt.Fprintf(stderr, "Options:\n")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() == 0 {
		fs.Usage()
		return nil, fmt.Errorf("no input files")
	}

	m, err := manifest.FindAndLoad(*dir)
	if err != nil {
		return nil, err
	}
	if m == nil {
		m = manifest.Default()
	}

	opts := &options{
		verbosity:     m.Log.Verbosity,
		logFile:       m.LogFile(),
		name:          m.Disasm.DefaultName,
		validate:      m.Disasm.Validate,
		showConstants: m.Disasm.ShowConstants,
		annotate:      m.Disasm.Annotate,
		paths:         fs.Args(),
	}

	// Explicit flags win over the manifest.
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "v":
			opts.verbosity = *verbosity
		case "log":
			// An empty path means stderr, as in the manifest.
			opts.logFile = nil
			if *logFile != "" {
				opts.logFile = logFile
			}
		case "name":
			opts.name = *name
		case "no-validate":
			opts.validate = !*noValidate
		case "constants":
			opts.showConstants = *constants
		case "annotate":
			opts.annotate = *annotate
		}
	})
	return opts, nil
}

func disassembleFile(w io.Writer, path string, opts *options, log commonlog.Logger) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	chunk, err := bytecode.UnmarshalChunk(data)
	if err != nil {
		return err
	}
	log.Debugf("%s: %d instructions, %d constants", path, chunk.Len(), len(chunk.Constants()))

	if opts.validate {
		if err := chunk.Validate(); err != nil {
			return err
		}
	}

	name, ok := chunk.Name()
	if !ok {
		name = opts.name
	}

	var annotate func(int) string
	if opts.annotate {
		annotate = func(offset int) string { return bytecode.OperandAnnotation(chunk, offset) }
	}
	if err := bytecode.DisassembleAnnotated(w, chunk, name, annotate); err != nil {
		return err
	}
	if opts.showConstants {
		return bytecode.DisassembleConstants(w, chunk)
	}
	return nil
}
