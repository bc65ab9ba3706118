package commands

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cznethub/bblocktools/bberrors"
)

func writeResolved(t *testing.T, root, name, doc string) {
	t.Helper()
	dir := filepath.Join(root, "resolved", name)
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "schema.json"), []byte(doc), 0o644))
}

func TestHandleConvertSingleProfile(t *testing.T) {
	root := t.TempDir()
	writeResolved(t, root, "adaEMPA", `{
  "type": "object",
  "properties": {
    "kind": {"const": "dataset"}
  }
}`)

	err := HandleConvert([]string{"-profile", "adaEMPA", "-in", root, "-q"})
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(root, "jsonforms", "profiles", "adaEMPA", "schema.json"))
	require.NoError(t, err)
	assert.Contains(t, string(data), `"enum"`)
	assert.NotContains(t, string(data), `"const"`)
}

func TestHandleConvertAll(t *testing.T) {
	root := t.TempDir()
	out := t.TempDir()
	writeResolved(t, root, "one", `{"type": "object"}`)
	writeResolved(t, root, "two", `{"type": "object"}`)

	err := HandleConvert([]string{"-all", "-in", root, "-out", out, "-q"})
	require.NoError(t, err)

	assert.FileExists(t, filepath.Join(out, "jsonforms", "profiles", "one", "schema.json"))
	assert.FileExists(t, filepath.Join(out, "jsonforms", "profiles", "two", "schema.json"))
}

func TestHandleConvertCriticalFails(t *testing.T) {
	root := t.TempDir()
	writeResolved(t, root, "broken", `[1, 2]`)

	err := HandleConvert([]string{"-profile", "broken", "-in", root, "-q"})
	require.Error(t, err)
	assert.ErrorIs(t, err, bberrors.ErrConversion)

	// A failed conversion must not publish a forms artifact.
	assert.NoFileExists(t, filepath.Join(root, "jsonforms", "profiles", "broken", "schema.json"))
}

func TestHandleConvertRequiresExactlyOneMode(t *testing.T) {
	assert.Error(t, HandleConvert([]string{"-q"}))
	assert.Error(t, HandleConvert([]string{"-profile", "a", "-all", "-q"}))
}

func TestHandleConvertMissingInput(t *testing.T) {
	err := HandleConvert([]string{"-all", "-in", filepath.Join(t.TempDir(), "nope"), "-q"})
	assert.Error(t, err)
}
