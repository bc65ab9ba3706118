// Package commands provides CLI command handlers for bblocktools.
package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/cznethub/bblocktools/schema"
)

// Environment variables supplying flag defaults. A .env file in the working
// directory is loaded at startup; explicit flags always win.
const (
	EnvSourcesDir = "BBLOCKS_SOURCES_DIR"
	EnvOutputDir  = "BBLOCKS_OUTPUT_DIR"
)

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// DefaultSourcesDir returns the building-block source tree to use when no
// -sources flag is given.
func DefaultSourcesDir() string {
	return envOr(EnvSourcesDir, ".")
}

// DefaultOutputDir returns the artifact root to use when no output flag is
// given.
func DefaultOutputDir() string {
	return envOr(EnvOutputDir, "build")
}

// splitCommaList splits a comma-separated flag value, trimming whitespace
// and dropping empty entries.
func splitCommaList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

// writeDocument writes the document as indented JSON to the given path,
// creating parent directories as needed. An empty path writes to stdout.
func writeDocument(doc *schema.Value, outPath string) error {
	data, err := doc.MarshalJSONIndent("  ")
	if err != nil {
		return fmt.Errorf("marshaling document: %w", err)
	}
	if outPath == "" {
		_, err := os.Stdout.Write(data)
		return err
	}
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}
	if err := os.WriteFile(outPath, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", outPath, err)
	}
	return nil
}
