package profiles

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cznethub/bblocktools/bberrors"
)

func TestParseRegistry(t *testing.T) {
	reg, err := ParseRegistry([]byte(`
profiles:
  - name: base
    block: baseRecord
  - name: empa
    block: empaRecord
    base: base
`), "profiles.yaml")
	require.NoError(t, err)

	assert.Equal(t, []string{"base", "empa"}, reg.Names())

	empa, ok := reg.Get("empa")
	require.True(t, ok)
	assert.Equal(t, "empaRecord", empa.Block)
	assert.Equal(t, "base", empa.Base)

	_, ok = reg.Get("missing")
	assert.False(t, ok)
}

func TestParseRegistryValidation(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{
			name: "missing profile name",
			yaml: "profiles:\n  - block: someBlock\n",
		},
		{
			name: "missing block",
			yaml: "profiles:\n  - name: base\n",
		},
		{
			name: "duplicate name",
			yaml: "profiles:\n  - name: base\n    block: a\n  - name: base\n    block: b\n",
		},
		{
			name: "unknown base",
			yaml: "profiles:\n  - name: empa\n    block: a\n    base: ghost\n",
		},
		{
			name: "base cycle",
			yaml: "profiles:\n  - name: a\n    block: x\n    base: b\n  - name: b\n    block: y\n    base: a\n",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseRegistry([]byte(tt.yaml), "profiles.yaml")
			require.Error(t, err)
			assert.True(t, errors.Is(err, bberrors.ErrConfig))
		})
	}
}

func TestParseRegistryMalformed(t *testing.T) {
	_, err := ParseRegistry([]byte("profiles: [unclosed"), "profiles.yaml")
	require.Error(t, err)
	assert.True(t, errors.Is(err, bberrors.ErrParse))
}

func TestLoadRegistryMissingFile(t *testing.T) {
	_, err := LoadRegistry(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, bberrors.ErrConfig))
}

func TestLoadRegistry(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profiles.yaml")
	require.NoError(t, os.WriteFile(path, []byte("profiles:\n  - name: base\n    block: baseRecord\n"), 0o644))

	reg, err := LoadRegistry(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"base"}, reg.Names())
}
