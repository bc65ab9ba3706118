package commands

import (
	"errors"
	"flag"
	"io"
	"os"

	"github.com/cznethub/bblocktools/differ"
	"github.com/cznethub/bblocktools/internal/cliutil"
)

// CompareFlags contains flags for the compare command.
type CompareFlags struct {
	Sources string
}

// SetupCompareFlags creates and configures a FlagSet for the compare command.
func SetupCompareFlags() (*flag.FlagSet, *CompareFlags) {
	fs := flag.NewFlagSet("compare", flag.ContinueOnError)
	flags := &CompareFlags{}

	fs.StringVar(&flags.Sources, "sources", DefaultSourcesDir(), "building-block source tree")

	fs.Usage = func() {
		cliutil.Writef(fs.Output(), "Usage: bblocktools compare [flags]\n\n")
		cliutil.Writef(fs.Output(), "Compare every building block's schema.yaml against its companion JSON\n")
		cliutil.Writef(fs.Output(), "schema and report drift. Sources are never modified.\n\n")
		cliutil.Writef(fs.Output(), "Flags:\n")
		fs.PrintDefaults()
		cliutil.Writef(fs.Output(), "\nExit Codes:\n")
		cliutil.Writef(fs.Output(), "  0    Comparison ran, with or without differences\n")
		cliutil.Writef(fs.Output(), "  1    Comparison could not run (unreadable sources tree)\n")
	}

	return fs, flags
}

// HandleCompare executes the compare command.
func HandleCompare(args []string) error {
	return runCompare(args, os.Stdout)
}

// runCompare is HandleCompare with the report destination injected.
// Drift is reported, never returned as an error.
func runCompare(args []string, w io.Writer) error {
	fs, flags := SetupCompareFlags()

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}

	report, err := differ.New(flags.Sources).Compare()
	if err != nil {
		return err
	}
	report.Render(w)
	return nil
}
