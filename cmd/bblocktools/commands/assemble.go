package commands

import (
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/cznethub/bblocktools/internal/cliutil"
	"github.com/cznethub/bblocktools/profiles"
	"github.com/cznethub/bblocktools/resolver"
)

// AssembleFlags contains flags for the assemble command.
type AssembleFlags struct {
	Sources  string
	Profiles string
	Codes    string
	Out      string
	Profile  string
	Quiet    bool
	Verbose  bool
}

// SetupAssembleFlags creates and configures a FlagSet for the assemble command.
func SetupAssembleFlags() (*flag.FlagSet, *AssembleFlags) {
	fs := flag.NewFlagSet("assemble", flag.ContinueOnError)
	flags := &AssembleFlags{}

	fs.StringVar(&flags.Sources, "sources", DefaultSourcesDir(), "building-block source tree")
	fs.StringVar(&flags.Profiles, "profiles", "", "profile registry file (default: <sources>/profiles.yaml)")
	fs.StringVar(&flags.Codes, "codes", "", "allowed-codes table file (default: <sources>/codes.yaml if present)")
	fs.StringVar(&flags.Out, "out", DefaultOutputDir(), "artifact root")
	fs.StringVar(&flags.Profile, "profile", "", "assemble only this profile (default: every registry entry)")
	fs.BoolVar(&flags.Quiet, "q", false, "quiet mode: no diagnostic messages")
	fs.BoolVar(&flags.Quiet, "quiet", false, "quiet mode: no diagnostic messages")
	fs.BoolVar(&flags.Verbose, "v", false, "verbose mode: log pipeline steps to stderr")

	fs.Usage = func() {
		cliutil.Writef(fs.Output(), "Usage: bblocktools assemble [flags]\n\n")
		cliutil.Writef(fs.Output(), "Run the full pipeline for registered profiles: resolve, compose the base,\n")
		cliutil.Writef(fs.Output(), "flatten, convert to the forms dialect, filter code enumerations, and write\n")
		cliutil.Writef(fs.Output(), "resolved/ and jsonforms/ artifacts.\n\n")
		cliutil.Writef(fs.Output(), "Flags:\n")
		fs.PrintDefaults()
		cliutil.Writef(fs.Output(), "\nExamples:\n")
		cliutil.Writef(fs.Output(), "  bblocktools assemble -sources _sources -out build\n")
		cliutil.Writef(fs.Output(), "  bblocktools assemble -profile adaEMPA\n")
		cliutil.Writef(fs.Output(), "\nNotes:\n")
		cliutil.Writef(fs.Output(), "  - Set %s and %s to change the defaults\n", EnvSourcesDir, EnvOutputDir)
		cliutil.Writef(fs.Output(), "  - A profile with critical conversion issues fails the command\n")
	}

	return fs, flags
}

// HandleAssemble executes the assemble command.
func HandleAssemble(args []string) error {
	fs, flags := SetupAssembleFlags()

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}

	registryPath := flags.Profiles
	if registryPath == "" {
		registryPath = filepath.Join(flags.Sources, "profiles.yaml")
	}
	registry, err := profiles.LoadRegistry(registryPath)
	if err != nil {
		return err
	}

	assembler := profiles.NewAssembler(flags.Sources, flags.Out, registry)
	if flags.Verbose {
		assembler.Logger = resolver.NewSlogAdapter(slog.New(slog.NewTextHandler(os.Stderr, nil)))
	}

	codesPath := flags.Codes
	if codesPath == "" {
		// The codes table is optional unless explicitly requested.
		fallback := filepath.Join(flags.Sources, "codes.yaml")
		if _, err := os.Stat(fallback); err == nil {
			codesPath = fallback
		}
	}
	if codesPath != "" {
		codes, err := profiles.LoadCodesTable(codesPath)
		if err != nil {
			return err
		}
		assembler.Codes = codes
	}

	var results []*profiles.ProfileResult
	if flags.Profile != "" {
		result, err := assembler.AssembleProfile(flags.Profile)
		if err != nil {
			return err
		}
		results = []*profiles.ProfileResult{result}
	} else {
		results, err = assembler.AssembleAll()
		if err != nil {
			return err
		}
	}

	if !flags.Quiet {
		cliutil.Banner(os.Stderr, "Profile Assembly")
		for _, result := range results {
			cliutil.Writef(os.Stderr, "%s (block %s", result.Profile.Name, result.Profile.Block)
			if result.Profile.Base != "" {
				cliutil.Writef(os.Stderr, ", base %s", result.Profile.Base)
			}
			cliutil.Writef(os.Stderr, ")\n")
			cliutil.Writef(os.Stderr, "  resolved: %s\n", result.ResolvedPath)
			cliutil.Writef(os.Stderr, "  forms:    %s\n", result.FormsPath)
			for _, issue := range result.Conversion.Issues {
				cliutil.Writef(os.Stderr, "  %s\n", issue.String())
			}
		}
		cliutil.Writef(os.Stderr, "\nassembled %d profile(s)\n", len(results))
	}
	if len(results) == 0 {
		return fmt.Errorf("no profiles registered in %s", registryPath)
	}
	return nil
}
