package commands

import (
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/cznethub/bblocktools/internal/cliutil"
	"github.com/cznethub/bblocktools/resolver"
	"github.com/cznethub/bblocktools/schema"
)

// ResolveFlags contains flags for the resolve command.
type ResolveFlags struct {
	Sources      string
	Bblock       string
	File         string
	FlattenAllOf bool
	KeepMetadata bool
	StripKeys    string
	Output       string
	Quiet        bool
	Verbose      bool
}

// SetupResolveFlags creates and configures a FlagSet for the resolve command.
func SetupResolveFlags() (*flag.FlagSet, *ResolveFlags) {
	fs := flag.NewFlagSet("resolve", flag.ContinueOnError)
	flags := &ResolveFlags{}

	fs.StringVar(&flags.Sources, "sources", DefaultSourcesDir(), "building-block source tree")
	fs.StringVar(&flags.Bblock, "bblock", "", "building block name under the sources tree")
	fs.StringVar(&flags.File, "file", "", "direct path to a schema file")
	fs.BoolVar(&flags.FlattenAllOf, "flatten-allof", false, "merge allOf compositions after resolution")
	fs.BoolVar(&flags.KeepMetadata, "keep-metadata", false, "keep authoring metadata keys")
	fs.StringVar(&flags.StripKeys, "strip-keys", "", "comma-separated metadata keys to strip instead of the default set")
	fs.StringVar(&flags.Output, "o", "", "output file path (default: stdout)")
	fs.StringVar(&flags.Output, "output", "", "output file path (default: stdout)")
	fs.BoolVar(&flags.Quiet, "q", false, "quiet mode: only output the document, no diagnostic messages")
	fs.BoolVar(&flags.Quiet, "quiet", false, "quiet mode: only output the document, no diagnostic messages")
	fs.BoolVar(&flags.Verbose, "v", false, "verbose mode: log resolution steps to stderr")

	fs.Usage = func() {
		cliutil.Writef(fs.Output(), "Usage: bblocktools resolve [flags]\n\n")
		cliutil.Writef(fs.Output(), "Resolve a building block into a self-contained schema with every $ref inlined.\n\n")
		cliutil.Writef(fs.Output(), "Flags:\n")
		fs.PrintDefaults()
		cliutil.Writef(fs.Output(), "\nExamples:\n")
		cliutil.Writef(fs.Output(), "  bblocktools resolve -sources _sources -bblock dataDownload -o resolved.json\n")
		cliutil.Writef(fs.Output(), "  bblocktools resolve -file _sources/dataDownload/schema.yaml --flatten-allof\n")
		cliutil.Writef(fs.Output(), "  bblocktools resolve -bblock dataDownload -q > resolved.json\n")
		cliutil.Writef(fs.Output(), "\nNotes:\n")
		cliutil.Writef(fs.Output(), "  - Remote http(s) references are kept verbatim\n")
		cliutil.Writef(fs.Output(), "  - Circular file references are an error\n")
		cliutil.Writef(fs.Output(), "  - Set %s to change the default source tree\n", EnvSourcesDir)
	}

	return fs, flags
}

// HandleResolve executes the resolve command.
func HandleResolve(args []string) error {
	fs, flags := SetupResolveFlags()

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}

	if (flags.Bblock == "") == (flags.File == "") {
		fs.Usage()
		return fmt.Errorf("exactly one of -bblock or -file is required")
	}

	r := resolver.New(flags.Sources)
	r.FlattenAllOf = flags.FlattenAllOf
	r.KeepMetadata = flags.KeepMetadata
	r.StripKeys = splitCommaList(flags.StripKeys)
	if flags.Verbose {
		r.Logger = resolver.NewSlogAdapter(slog.New(slog.NewTextHandler(os.Stderr, nil)))
	}

	var (
		doc    *schema.Value
		source string
		err    error
	)
	if flags.Bblock != "" {
		source = flags.Bblock
		doc, err = r.ResolveBlock(flags.Bblock)
	} else {
		source = flags.File
		doc, err = r.ResolveFile(flags.File)
	}
	if err != nil {
		return err
	}

	if !flags.Quiet {
		cliutil.Writef(os.Stderr, "resolved %s", source)
		if flags.Output != "" {
			cliutil.Writef(os.Stderr, " -> %s", flags.Output)
		}
		cliutil.Writef(os.Stderr, "\n")
	}
	return writeDocument(doc, flags.Output)
}
