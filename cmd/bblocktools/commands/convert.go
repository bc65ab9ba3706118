package commands

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/cznethub/bblocktools/converter"
	"github.com/cznethub/bblocktools/internal/cliutil"
	"github.com/cznethub/bblocktools/schema"
)

// ConvertFlags contains flags for the convert command.
type ConvertFlags struct {
	Profile string
	All     bool
	In      string
	Out     string
	Quiet   bool
}

// SetupConvertFlags creates and configures a FlagSet for the convert command.
func SetupConvertFlags() (*flag.FlagSet, *ConvertFlags) {
	fs := flag.NewFlagSet("convert", flag.ContinueOnError)
	flags := &ConvertFlags{}

	fs.StringVar(&flags.Profile, "profile", "", "convert a single profile's resolved document")
	fs.BoolVar(&flags.All, "all", false, "convert every profile under <in>/resolved")
	fs.StringVar(&flags.In, "in", DefaultOutputDir(), "artifact root holding resolved/<name>/schema.json")
	fs.StringVar(&flags.Out, "out", "", "artifact root for jsonforms output (default: same as -in)")
	fs.BoolVar(&flags.Quiet, "q", false, "quiet mode: no diagnostic messages")
	fs.BoolVar(&flags.Quiet, "quiet", false, "quiet mode: no diagnostic messages")

	fs.Usage = func() {
		cliutil.Writef(fs.Output(), "Usage: bblocktools convert (-profile NAME | -all) [flags]\n\n")
		cliutil.Writef(fs.Output(), "Convert resolved profile documents into the restricted forms dialect.\n\n")
		cliutil.Writef(fs.Output(), "Flags:\n")
		fs.PrintDefaults()
		cliutil.Writef(fs.Output(), "\nExamples:\n")
		cliutil.Writef(fs.Output(), "  bblocktools convert -profile adaEMPA -in build\n")
		cliutil.Writef(fs.Output(), "  bblocktools convert -all -in build -out dist\n")
		cliutil.Writef(fs.Output(), "\nNotes:\n")
		cliutil.Writef(fs.Output(), "  - Reads <in>/resolved/<name>/schema.json\n")
		cliutil.Writef(fs.Output(), "  - Writes <out>/jsonforms/profiles/<name>/schema.json\n")
		cliutil.Writef(fs.Output(), "  - Critical issues fail the command; warnings and infos are reported\n")
	}

	return fs, flags
}

// HandleConvert executes the convert command.
func HandleConvert(args []string) error {
	fs, flags := SetupConvertFlags()

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}

	if (flags.Profile != "") == flags.All {
		fs.Usage()
		return fmt.Errorf("exactly one of -profile or -all is required")
	}
	if flags.Out == "" {
		flags.Out = flags.In
	}

	var names []string
	if flags.Profile != "" {
		names = []string{flags.Profile}
	} else {
		var err error
		names, err = resolvedProfileNames(flags.In)
		if err != nil {
			return err
		}
	}

	for _, name := range names {
		if err := convertProfile(name, flags); err != nil {
			return err
		}
	}
	return nil
}

// resolvedProfileNames lists the profile directories under <in>/resolved.
func resolvedProfileNames(in string) ([]string, error) {
	entries, err := os.ReadDir(filepath.Join(in, "resolved"))
	if err != nil {
		return nil, fmt.Errorf("listing resolved profiles: %w", err)
	}
	var names []string
	for _, entry := range entries {
		if entry.IsDir() {
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}

func convertProfile(name string, flags *ConvertFlags) error {
	inPath := filepath.Join(flags.In, "resolved", name, "schema.json")
	doc, err := schema.ParseFile(inPath)
	if err != nil {
		return err
	}

	result := converter.Convert(doc)
	if !flags.Quiet && len(result.Issues) > 0 {
		cliutil.Writef(os.Stderr, "%s: %d conversion issue(s)\n", name, len(result.Issues))
		for _, issue := range result.Issues {
			cliutil.Writef(os.Stderr, "  %s\n", issue.String())
		}
	}
	if err := result.Err(name); err != nil {
		return err
	}

	outPath := filepath.Join(flags.Out, "jsonforms", "profiles", name, "schema.json")
	if err := writeDocument(result.Document, outPath); err != nil {
		return err
	}
	if !flags.Quiet {
		cliutil.Writef(os.Stderr, "%s: wrote %s\n", name, outPath)
	}
	return nil
}
