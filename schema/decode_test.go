package schema

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cznethub/bblocktools/bberrors"
)

func TestParseBytesPreservesOrder(t *testing.T) {
	doc := []byte(`
type: object
title: Data Download
properties:
  url:
    type: string
  size:
    type: integer
required:
  - url
`)
	v, err := ParseBytes(doc)
	require.NoError(t, err)
	require.True(t, v.IsObject())

	assert.Equal(t, []string{"type", "title", "properties", "required"}, v.Keys())
	assert.Equal(t, []string{"url", "size"}, v.Field("properties").Keys())
	assert.Equal(t, []string{"url"}, v.Field("required").StringItems())
}

func TestParseBytesScalarTypes(t *testing.T) {
	doc := []byte(`
str: hello
quotedNum: "42"
num: 42
flt: 4.5
yes: true
nothing: null
`)
	v, err := ParseBytes(doc)
	require.NoError(t, err)

	assert.Equal(t, "hello", v.Field("str").Scalar())
	assert.Equal(t, "42", v.Field("quotedNum").Scalar())
	assert.Equal(t, int64(42), v.Field("num").Scalar())
	assert.Equal(t, float64(4.5), v.Field("flt").Scalar())
	assert.Equal(t, true, v.Field("yes").Scalar())
	assert.True(t, v.Field("nothing").IsNull())
}

func TestParseBytesAcceptsJSON(t *testing.T) {
	doc := []byte(`{"type": "object", "properties": {"id": {"type": "string"}}}`)
	v, err := ParseBytes(doc)
	require.NoError(t, err)
	assert.Equal(t, "object", v.Field("type").Scalar())
	assert.Equal(t, "string", v.Field("properties").Field("id").Field("type").Scalar())
}

func TestParseBytesExpandsAnchors(t *testing.T) {
	doc := []byte(`
base: &id
  type: string
copy: *id
`)
	v, err := ParseBytes(doc)
	require.NoError(t, err)
	assert.True(t, v.Field("base").Equal(v.Field("copy")))
}

func TestParseBytesEmptyDocument(t *testing.T) {
	v, err := ParseBytes(nil)
	require.NoError(t, err)
	assert.True(t, v.IsObject())
	assert.Equal(t, 0, v.Len())
}

func TestParseFileReportsPath(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "schema.yaml")
	require.NoError(t, os.WriteFile(path, []byte("type: [unclosed"), 0o644))

	_, err := ParseFile(path)
	require.Error(t, err)

	var perr *bberrors.ParseError
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, path, perr.Path)
	assert.True(t, errors.Is(err, bberrors.ErrParse))
}

func TestMarshalJSONIndentRoundTrip(t *testing.T) {
	doc := []byte(`
type: object
properties:
  name:
    type: string
    enum: [a, b]
  count:
    type: integer
    default: 3
`)
	v, err := ParseBytes(doc)
	require.NoError(t, err)

	out, err := v.MarshalJSONIndent("  ")
	require.NoError(t, err)

	want := `{
  "type": "object",
  "properties": {
    "name": {
      "type": "string",
      "enum": [
        "a",
        "b"
      ]
    },
    "count": {
      "type": "integer",
      "default": 3
    }
  }
}
`
	assert.Equal(t, want, string(out))

	// Output is stable: parse the emitted JSON and emit again.
	again, err := ParseBytes(out)
	require.NoError(t, err)
	out2, err := again.MarshalJSONIndent("  ")
	require.NoError(t, err)
	assert.Equal(t, string(out), string(out2))
}

func TestMarshalJSONCompact(t *testing.T) {
	v := NewObject()
	v.Set("enum", NewArray(Str("a"), NewScalar(1), Bool(true), Null()))

	out, err := v.MarshalJSON()
	require.NoError(t, err)
	assert.Equal(t, `{"enum":["a",1,true,null]}`, string(out))
}

func TestMarshalYAMLQuotesAmbiguousStrings(t *testing.T) {
	v := NewObject()
	v.Set("const", Str("true"))
	v.Set("default", Str("42"))
	v.Set("title", Str("plain"))

	out, err := v.MarshalYAML()
	require.NoError(t, err)

	reparsed, err := ParseBytes(out)
	require.NoError(t, err)
	assert.Equal(t, "true", reparsed.Field("const").Scalar())
	assert.Equal(t, "42", reparsed.Field("default").Scalar())
	assert.Equal(t, "plain", reparsed.Field("title").Scalar())
}
