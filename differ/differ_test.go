package differ

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/tools/txtar"

	"github.com/cznethub/bblocktools/schema"
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

func resultByName(t *testing.T, report *Report, name string) BlockResult {
	t.Helper()
	for _, result := range report.Results {
		if result.Name == name {
			return result
		}
	}
	t.Fatalf("no result for block %q", name)
	return BlockResult{}
}

func TestCompareConsistentBlock(t *testing.T) {
	dir := extractTxtar(t, `
-- consistent/bblock.json --
{"name": "Consistent"}
-- consistent/schema.yaml --
type: object
description: A dataset download.
properties:
  url:
    type: string
required: [url]
-- consistent/consistentSchema.json --
{
  "type": "object",
  "description": "a dataset download.",
  "properties": {
    "url": {"type": "string"}
  },
  "required": ["url"]
}
`)
	report, err := New(dir).Compare()
	require.NoError(t, err)

	assert.Equal(t, 1, report.Total)
	assert.Equal(t, 1, report.Passed)
	assert.False(t, report.HasDifferences())
	assert.Equal(t, StatusOK, resultByName(t, report, "consistent").Status)
}

func TestCompareDetectsDrift(t *testing.T) {
	dir := extractTxtar(t, `
-- drifted/bblock.json --
{"name": "Drifted"}
-- drifted/schema.yaml --
type: object
properties:
  url:
    type: string
    minLength: 1
  size:
    type: integer
required: [url]
allOf:
  - required: [size]
-- drifted/schema.json --
{
  "type": "string",
  "properties": {
    "url": {"type": "string", "minLength": 2},
    "checksum": {"type": "string"}
  },
  "required": ["url"]
}
`)
	report, err := New(dir).Compare()
	require.NoError(t, err)
	assert.True(t, report.HasDifferences())

	result := resultByName(t, report, "drifted")
	assert.Equal(t, StatusDiff, result.Status)

	findings := strings.Join(result.Findings, "\n")
	assert.Contains(t, findings, "properties in YAML only: [size]")
	assert.Contains(t, findings, "properties in JSON only: [checksum]")
	assert.Contains(t, findings, `top-level type: YAML="object" vs JSON="string"`)
	assert.Contains(t, findings, "required in YAML only: [size]")
	assert.Contains(t, findings, "properties.url.minLength: YAML=1 vs JSON=2")
}

func TestCompareIgnoresRefSpellingAndDefs(t *testing.T) {
	dir := extractTxtar(t, `
-- refs/bblock.json --
{"name": "Refs"}
-- refs/schema.yaml --
type: object
properties:
  creator:
    $ref: ../person/schema.yaml
-- refs/refsSchema.json --
{
  "type": "object",
  "properties": {
    "creator": {"$ref": "#/$defs/Person"}
  },
  "$defs": {
    "Person": {"type": "object"}
  }
}
`)
	report, err := New(dir).Compare()
	require.NoError(t, err)
	assert.False(t, report.HasDifferences(), "ref spelling and $defs presence are not drift")
}

func TestCompareFlagsRefVersusInline(t *testing.T) {
	dir := extractTxtar(t, `
-- mixed/bblock.json --
{"name": "Mixed"}
-- mixed/schema.yaml --
type: object
properties:
  creator:
    $ref: ../person/schema.yaml
-- mixed/mixedSchema.json --
{
  "type": "object",
  "properties": {
    "creator": {"type": "object"}
  }
}
`)
	report, err := New(dir).Compare()
	require.NoError(t, err)

	result := resultByName(t, report, "mixed")
	assert.Equal(t, StatusDiff, result.Status)
	assert.Contains(t, strings.Join(result.Findings, "\n"),
		"properties.creator: YAML has $ref, JSON has inline definition")
}

func TestCompareDescriptionDrift(t *testing.T) {
	archive := func(jsonDesc string) string {
		return `
-- block/bblock.json --
{"name": "Block"}
-- block/schema.yaml --
description: The persistent identifier.
type: object
-- block/blockSchema.json --
{"description": "` + jsonDesc + `", "type": "object"}
`
	}

	t.Run("case and whitespace are not drift", func(t *testing.T) {
		report, err := New(extractTxtar(t, archive("  the Persistent Identifier.  "))).Compare()
		require.NoError(t, err)
		assert.False(t, report.HasDifferences())
	})

	t.Run("wording change is drift", func(t *testing.T) {
		report, err := New(extractTxtar(t, archive("A persistent identifier."))).Compare()
		require.NoError(t, err)
		result := resultByName(t, report, "block")
		assert.Equal(t, StatusDiff, result.Status)
		assert.Contains(t, result.Findings[0], "description differs")
	})
}

func TestCompareNumericRepresentation(t *testing.T) {
	dir := extractTxtar(t, `
-- nums/bblock.json --
{"name": "Nums"}
-- nums/schema.yaml --
type: object
properties:
  size:
    type: number
    minimum: 1
-- nums/numsSchema.json --
{
  "type": "object",
  "properties": {
    "size": {"type": "number", "minimum": 1.0}
  }
}
`)
	report, err := New(dir).Compare()
	require.NoError(t, err)
	assert.False(t, report.HasDifferences(), "1 and 1.0 are the same constraint")
}

func TestCompareSkipsAndErrors(t *testing.T) {
	dir := extractTxtar(t, `
-- noyaml/bblock.json --
{"name": "NoYAML"}
-- noyaml/noyamlSchema.json --
{"type": "object"}
-- nojson/bblock.json --
{"name": "NoJSON"}
-- nojson/schema.yaml --
type: object
-- badyaml/bblock.json --
{"name": "BadYAML"}
-- badyaml/schema.yaml --
type: [unclosed
-- badyaml/badyamlSchema.json --
{"type": "object"}
`)
	report, err := New(dir).Compare()
	require.NoError(t, err)

	assert.Equal(t, 3, report.Total)
	assert.Equal(t, 2, report.Skipped)
	assert.Equal(t, StatusSkip, resultByName(t, report, "noyaml").Status)
	assert.Equal(t, StatusSkip, resultByName(t, report, "nojson").Status)
	assert.Equal(t, StatusError, resultByName(t, report, "badyaml").Status)
	assert.True(t, report.HasDifferences())
}

func TestCompanionJSONDiscoveryOrder(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "blockSchema.json"), []byte("{}"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "schema.json"), []byte("{}"), 0o644))

	assert.Equal(t, filepath.Join(dir, "blockSchema.json"), findCompanionJSON(dir, "block"))

	require.NoError(t, os.Remove(filepath.Join(dir, "blockSchema.json")))
	assert.Equal(t, filepath.Join(dir, "schema.json"), findCompanionJSON(dir, "block"))

	require.NoError(t, os.Remove(filepath.Join(dir, "schema.json")))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "BLOCKSCHEMA.JSON"), []byte("{}"), 0o644))
	assert.Equal(t, filepath.Join(dir, "BLOCKSCHEMA.JSON"), findCompanionJSON(dir, "block"))
}

func TestReportRender(t *testing.T) {
	report := &Report{
		SourcesDir: "/src",
		Total:      2,
		Checked:    2,
		Passed:     1,
		Differing:  1,
		Results: []BlockResult{
			{Name: "good", Status: StatusOK},
			{Name: "bad", Status: StatusDiff, Findings: []string{"top-level type: YAML=\"object\" vs JSON=\"string\""}},
		},
	}

	var buf strings.Builder
	report.Render(&buf)
	out := buf.String()

	assert.Contains(t, out, "Total blocks: 2 | Checked: 2 | Passed: 1 | Differences: 1 | Skipped: 0")
	assert.Contains(t, out, "OK  good")
	assert.Contains(t, out, "DIFF  bad")
	assert.Contains(t, out, "1 building block(s) have inconsistencies.")
}

func TestCompareNeverMutatesSources(t *testing.T) {
	dir := extractTxtar(t, `
-- block/bblock.json --
{"name": "Block"}
-- block/schema.yaml --
type: object
-- block/blockSchema.json --
{"type": "string"}
`)
	before, err := os.ReadFile(filepath.Join(dir, "block", "schema.yaml"))
	require.NoError(t, err)

	_, err = New(dir).Compare()
	require.NoError(t, err)

	after, err := os.ReadFile(filepath.Join(dir, "block", "schema.yaml"))
	require.NoError(t, err)
	assert.Equal(t, before, after)

	// Parsed and compared, nothing written anywhere in the block dir.
	entries, err := os.ReadDir(filepath.Join(dir, "block"))
	require.NoError(t, err)
	assert.Len(t, entries, 3)
}

func TestCompareValuesScalarRendering(t *testing.T) {
	a, err := schema.ParseBytes([]byte(`{"maxLength": 10}`))
	require.NoError(t, err)
	b, err := schema.ParseBytes([]byte(`{"maxLength": 20}`))
	require.NoError(t, err)

	findings := compareValues(a, b, "")
	require.Len(t, findings, 1)
	assert.Equal(t, "maxLength: YAML=10 vs JSON=20", findings[0])
}
