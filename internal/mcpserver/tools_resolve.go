package mcpserver

import (
	"context"
	"fmt"
	"os"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/cznethub/bblocktools/resolver"
	"github.com/cznethub/bblocktools/schema"
)

type resolveInput struct {
	Bblock       string   `json:"bblock,omitempty"        jsonschema:"Building block name under the sources dir"`
	File         string   `json:"file,omitempty"          jsonschema:"Direct path to a schema file. Exactly one of bblock or file must be set."`
	SourcesDir   string   `json:"sources_dir,omitempty"   jsonschema:"Building-block source tree. Defaults to BBLOCKS_SOURCES_DIR."`
	FlattenAllOf *bool    `json:"flatten_allof,omitempty" jsonschema:"Merge allOf compositions after resolution. Defaults to BBLOCKS_FLATTEN_ALLOF."`
	KeepMetadata bool     `json:"keep_metadata,omitempty" jsonschema:"Keep authoring metadata keys instead of stripping them"`
	StripKeys    []string `json:"strip_keys,omitempty"    jsonschema:"Metadata keys to strip instead of the default set"`
	Output       string   `json:"output,omitempty"        jsonschema:"File path to write the resolved document. If omitted the document is returned inline."`
}

type resolveOutput struct {
	Source    string `json:"source"`
	WrittenTo string `json:"written_to,omitempty"`
	Document  string `json:"document,omitempty"`
}

func handleResolve(_ context.Context, _ *mcp.CallToolRequest, input resolveInput) (*mcp.CallToolResult, resolveOutput, error) {
	if (input.Bblock == "") == (input.File == "") {
		return errResult(fmt.Errorf("exactly one of bblock or file is required")), resolveOutput{}, nil
	}

	sourcesDir := input.SourcesDir
	if sourcesDir == "" {
		sourcesDir = cfg.SourcesDir
	}

	r := resolver.New(sourcesDir)
	r.KeepMetadata = input.KeepMetadata
	r.StripKeys = input.StripKeys
	if input.FlattenAllOf != nil {
		r.FlattenAllOf = *input.FlattenAllOf
	} else {
		r.FlattenAllOf = cfg.FlattenAllOf
	}

	var (
		doc    *schema.Value
		source string
		err    error
	)
	if input.Bblock != "" {
		source = input.Bblock
		doc, err = r.ResolveBlock(input.Bblock)
	} else {
		source = input.File
		doc, err = r.ResolveFile(input.File)
	}
	if err != nil {
		return errResult(err), resolveOutput{}, nil
	}

	data, err := doc.MarshalJSONIndent("  ")
	if err != nil {
		return errResult(err), resolveOutput{}, nil
	}

	output := resolveOutput{Source: source}
	if input.Output != "" {
		if err := os.WriteFile(input.Output, data, 0o644); err != nil {
			return errResult(fmt.Errorf("failed to write output file: %w", err)), resolveOutput{}, nil
		}
		output.WrittenTo = input.Output
	} else {
		output.Document = string(data)
	}
	return nil, output, nil
}
