// Package mcpserver implements an MCP (Model Context Protocol) server that
// exposes the building-block pipeline as MCP tools over stdio.
package mcpserver

import (
	"context"
	"regexp"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/cznethub/bblocktools"
)

const serverInstructions = `bblocktools MCP server — resolves, converts, assembles, and compares building-block schemas.

Configuration: defaults are configurable via BBLOCKS_* environment variables set in your MCP client config; every tool input can override them per call.

Key settings:
- BBLOCKS_SOURCES_DIR (default: .) — building-block source tree
- BBLOCKS_OUTPUT_DIR (default: build) — artifact root for assemble
- BBLOCKS_PROFILES_FILE (default: profiles.yaml, relative to the sources dir) — profile registry
- BBLOCKS_CODES_FILE (default: codes.yaml, relative to the sources dir) — allowed-codes table
- BBLOCKS_FLATTEN_ALLOF (default: true) — merge allOf compositions after resolution`

// Run starts the MCP server over stdio and blocks until the client
// disconnects or the context is cancelled.
func Run(ctx context.Context) error {
	server := mcp.NewServer(
		&mcp.Implementation{Name: "bblocktools", Version: bblocktools.Version()},
		&mcp.ServerOptions{
			Instructions: serverInstructions,
		},
	)
	registerAllTools(server)
	return server.Run(ctx, &mcp.StdioTransport{})
}

func registerAllTools(server *mcp.Server) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "resolve",
		Description: "Resolve a building block into a self-contained schema: every local and cross-file $ref is inlined, $defs are removed, and authoring metadata is stripped. Provide either bblock (a block name under the sources dir) or file (a direct schema path). Remote http(s) refs are kept verbatim. Circular file references are an error.",
	}, handleResolve)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "convert",
		Description: "Convert a resolved schema document into the restricted draft-07 forms dialect: anyOf unions are merged, const becomes single-value enum, contains is rewritten onto items, and unsupported keywords are dropped. Returns the converted document plus one issue per rewrite or drop. Provide either file or inline content.",
	}, handleConvert)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "assemble",
		Description: "Run the full pipeline for registered profiles: resolve the building block, compose the base profile, flatten, convert to the forms dialect, filter code enumerations, and write resolved/ and jsonforms/ artifacts. Omit profile to assemble every registry entry.",
	}, handleAssemble)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "compare",
		Description: "Compare every building block's schema.yaml against its companion JSON schema and report drift: property coverage, type and required mismatches, constraint differences, and description drift. Ref path spelling and $defs presence are never flagged. Sources are never modified.",
	}, handleCompare)
}

// makeSlice returns nil when n is 0 (preserving omitempty JSON semantics),
// otherwise returns make([]T, 0, n) for pre-allocated appending.
func makeSlice[T any](n int) []T {
	if n == 0 {
		return nil
	}
	return make([]T, 0, n)
}

// sanitizeError strips absolute filesystem paths from error messages
// to prevent leaking internal directory structure to MCP clients.
var pathPattern = regexp.MustCompile(`(?:/(?:home|tmp|var|Users|etc|opt|usr|private|root|mnt|srv|run|snap|nix)[a-zA-Z0-9._/-]*)`)

func sanitizeError(err error) string {
	if err == nil {
		return ""
	}
	return pathPattern.ReplaceAllString(err.Error(), "<path>")
}

// errResult creates an MCP error result from an error.
func errResult(err error) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		IsError: true,
		Content: []mcp.Content{&mcp.TextContent{Text: sanitizeError(err)}},
	}
}
