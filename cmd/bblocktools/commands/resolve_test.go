package commands

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/tools/txtar"
)

func extractTxtar(t *testing.T, archive string) string {
	t.Helper()
	dir := t.TempDir()
	for _, f := range txtar.Parse([]byte(archive)).Files {
		path := filepath.Join(dir, f.Name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, f.Data, 0o644))
	}
	return dir
}

const resolveSources = `
-- dataDownload/bblock.json --
{"name": "Data Download"}
-- dataDownload/schema.yaml --
type: object
title: Data Download
properties:
  url:
    $ref: '#/$defs/URL'
$defs:
  URL:
    type: string
    format: uri
`

func TestHandleResolveToFile(t *testing.T) {
	dir := extractTxtar(t, resolveSources)
	outPath := filepath.Join(t.TempDir(), "resolved.json")

	err := HandleResolve([]string{"-sources", dir, "-bblock", "dataDownload", "-o", outPath, "-q"})
	require.NoError(t, err)

	data, err := os.ReadFile(outPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"format": "uri"`)
	assert.NotContains(t, string(data), "$defs")
}

func TestHandleResolveRequiresExactlyOneSource(t *testing.T) {
	assert.Error(t, HandleResolve([]string{"-q"}))
	assert.Error(t, HandleResolve([]string{"-bblock", "a", "-file", "b", "-q"}))
}

func TestHandleResolveCustomStripKeys(t *testing.T) {
	dir := extractTxtar(t, resolveSources)
	outPath := filepath.Join(t.TempDir(), "resolved.json")

	err := HandleResolve([]string{
		"-sources", dir,
		"-file", filepath.Join(dir, "dataDownload", "schema.yaml"),
		"-strip-keys", "title",
		"-o", outPath, "-q",
	})
	require.NoError(t, err)

	data, err := os.ReadFile(outPath)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "Data Download")
	assert.Contains(t, string(data), `"format": "uri"`)
}

func TestHandleResolveUnknownFlag(t *testing.T) {
	fs, _ := SetupResolveFlags()
	fs.SetOutput(io.Discard)
	assert.Error(t, fs.Parse([]string{"-definitely-not-a-flag"}))
}
