package mcpserver

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/cznethub/bblocktools/differ"
)

type compareInput struct {
	SourcesDir string `json:"sources_dir,omitempty" jsonschema:"Building-block source tree. Defaults to BBLOCKS_SOURCES_DIR."`
}

type comparedBlock struct {
	Name     string   `json:"name"`
	Status   string   `json:"status"`
	Findings []string `json:"findings,omitempty"`
}

type compareOutput struct {
	Total     int             `json:"total"`
	Checked   int             `json:"checked"`
	Passed    int             `json:"passed"`
	Differing int             `json:"differing"`
	Skipped   int             `json:"skipped"`
	Blocks    []comparedBlock `json:"blocks,omitempty"`
}

func handleCompare(_ context.Context, _ *mcp.CallToolRequest, input compareInput) (*mcp.CallToolResult, compareOutput, error) {
	sourcesDir := input.SourcesDir
	if sourcesDir == "" {
		sourcesDir = cfg.SourcesDir
	}

	report, err := differ.New(sourcesDir).Compare()
	if err != nil {
		return errResult(err), compareOutput{}, nil
	}

	output := compareOutput{
		Total:     report.Total,
		Checked:   report.Checked,
		Passed:    report.Passed,
		Differing: report.Differing,
		Skipped:   report.Skipped,
		Blocks:    makeSlice[comparedBlock](len(report.Results)),
	}
	for _, result := range report.Results {
		output.Blocks = append(output.Blocks, comparedBlock{
			Name:     result.Name,
			Status:   result.Status.String(),
			Findings: result.Findings,
		})
	}
	return nil, output, nil
}
