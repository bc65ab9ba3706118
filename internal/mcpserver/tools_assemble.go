package mcpserver

import (
	"context"
	"os"
	"path/filepath"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/cznethub/bblocktools/profiles"
)

type assembleInput struct {
	SourcesDir   string `json:"sources_dir,omitempty"   jsonschema:"Building-block source tree. Defaults to BBLOCKS_SOURCES_DIR."`
	OutputDir    string `json:"output_dir,omitempty"    jsonschema:"Artifact root. Defaults to BBLOCKS_OUTPUT_DIR."`
	ProfilesFile string `json:"profiles_file,omitempty" jsonschema:"Profile registry path. Relative paths are resolved against the sources dir. Defaults to BBLOCKS_PROFILES_FILE."`
	CodesFile    string `json:"codes_file,omitempty"    jsonschema:"Allowed-codes table path. Relative paths are resolved against the sources dir. Defaults to BBLOCKS_CODES_FILE; a missing default disables enum filtering."`
	Profile      string `json:"profile,omitempty"       jsonschema:"Assemble only this profile. Omit to assemble every registry entry."`
}

type assembledProfile struct {
	Name         string `json:"name"`
	Block        string `json:"block"`
	Base         string `json:"base,omitempty"`
	ResolvedPath string `json:"resolved_path,omitempty"`
	FormsPath    string `json:"forms_path,omitempty"`
	IssueCount   int    `json:"issue_count"`
	WarningCount int    `json:"warning_count"`
}

type assembleOutput struct {
	Assembled []assembledProfile `json:"assembled"`
}

func handleAssemble(_ context.Context, _ *mcp.CallToolRequest, input assembleInput) (*mcp.CallToolResult, assembleOutput, error) {
	sourcesDir := input.SourcesDir
	if sourcesDir == "" {
		sourcesDir = cfg.SourcesDir
	}
	outputDir := input.OutputDir
	if outputDir == "" {
		outputDir = cfg.OutputDir
	}

	registry, err := profiles.LoadRegistry(resolveAgainst(sourcesDir, input.ProfilesFile, cfg.ProfilesFile))
	if err != nil {
		return errResult(err), assembleOutput{}, nil
	}

	assembler := profiles.NewAssembler(sourcesDir, outputDir, registry)
	assembler.FlattenAllOf = cfg.FlattenAllOf

	codesPath := resolveAgainst(sourcesDir, input.CodesFile, cfg.CodesFile)
	if _, statErr := os.Stat(codesPath); statErr == nil {
		codes, err := profiles.LoadCodesTable(codesPath)
		if err != nil {
			return errResult(err), assembleOutput{}, nil
		}
		assembler.Codes = codes
	} else if input.CodesFile != "" {
		// An explicitly requested codes table must exist.
		return errResult(statErr), assembleOutput{}, nil
	}

	var results []*profiles.ProfileResult
	if input.Profile != "" {
		result, err := assembler.AssembleProfile(input.Profile)
		if err != nil {
			return errResult(err), assembleOutput{}, nil
		}
		results = []*profiles.ProfileResult{result}
	} else {
		results, err = assembler.AssembleAll()
		if err != nil {
			return errResult(err), assembleOutput{}, nil
		}
	}

	output := assembleOutput{Assembled: makeSlice[assembledProfile](len(results))}
	for _, result := range results {
		output.Assembled = append(output.Assembled, assembledProfile{
			Name:         result.Profile.Name,
			Block:        result.Profile.Block,
			Base:         result.Profile.Base,
			ResolvedPath: result.ResolvedPath,
			FormsPath:    result.FormsPath,
			IssueCount:   len(result.Conversion.Issues),
			WarningCount: result.Conversion.WarningCount,
		})
	}
	return nil, output, nil
}

// resolveAgainst picks the explicit path over the configured default and
// anchors relative paths at the sources directory.
func resolveAgainst(sourcesDir, explicit, fallback string) string {
	path := explicit
	if path == "" {
		path = fallback
	}
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(sourcesDir, path)
}
