package resolver

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cznethub/bblocktools/bberrors"
	"github.com/cznethub/bblocktools/schema"
)

func parseDoc(t *testing.T, doc string) *schema.Value {
	t.Helper()
	v, err := schema.ParseBytes([]byte(doc))
	require.NoError(t, err)
	return v
}

func TestFlattenMergesProperties(t *testing.T) {
	v := parseDoc(t, `
allOf:
  - type: object
    properties:
      name:
        type: string
    required: [name]
  - properties:
      url:
        type: string
        format: uri
    required: [url]
`)
	flat, err := FlattenAllOf(v)
	require.NoError(t, err)

	assert.False(t, flat.Has("allOf"))
	assert.Equal(t, "object", flat.Field("type").Scalar())
	assert.Equal(t, []string{"name", "url"}, flat.Field("properties").Keys())
	assert.Equal(t, []string{"name", "url"}, flat.Field("required").StringItems())
}

func TestFlattenRequiredUnionDeduplicates(t *testing.T) {
	v := parseDoc(t, `
allOf:
  - required: [name, url]
  - required: [url, license]
`)
	flat, err := FlattenAllOf(v)
	require.NoError(t, err)
	assert.Equal(t, []string{"name", "url", "license"}, flat.Field("required").StringItems())
}

func TestFlattenReplacePrecedence(t *testing.T) {
	// Both sources define the property with a composition construct; the
	// overlay replaces the base wholesale instead of producing an object
	// with two sibling union keywords.
	v := parseDoc(t, `
allOf:
  - properties:
      distribution:
        anyOf:
          - type: string
          - type: number
  - properties:
      distribution:
        anyOf:
          - type: boolean
`)
	flat, err := FlattenAllOf(v)
	require.NoError(t, err)

	dist := flat.Field("properties").Field("distribution")
	anyOf := dist.Field("anyOf")
	require.Equal(t, 1, anyOf.Len())
	assert.Equal(t, "boolean", anyOf.Item(0).Field("type").Scalar())
}

func TestFlattenNarrowPrecedence(t *testing.T) {
	// The overlay carries only refining constraints, so the base structure
	// survives and the constraint narrows.
	v := parseDoc(t, `
allOf:
  - properties:
      x:
        type: string
        enum: [a, b]
  - properties:
      x:
        enum: [a]
`)
	flat, err := FlattenAllOf(v)
	require.NoError(t, err)

	x := flat.Field("properties").Field("x")
	assert.Equal(t, "string", x.Field("type").Scalar())
	assert.Equal(t, []string{"a"}, x.Field("enum").StringItems())
}

func TestFlattenScalarConflictLastWins(t *testing.T) {
	v := parseDoc(t, `
allOf:
  - properties:
      x:
        minLength: 3
        description: first
  - properties:
      x:
        minLength: 5
`)
	flat, err := FlattenAllOf(v)
	require.NoError(t, err)

	x := flat.Field("properties").Field("x")
	assert.Equal(t, int64(5), x.Field("minLength").Scalar())
	assert.Equal(t, "first", x.Field("description").Scalar())
}

func TestFlattenNestedAllOf(t *testing.T) {
	v := parseDoc(t, `
properties:
  contact:
    allOf:
      - type: object
        properties:
          email:
            type: string
      - required: [email]
`)
	flat, err := FlattenAllOf(v)
	require.NoError(t, err)

	contact := flat.Field("properties").Field("contact")
	assert.False(t, contact.Has("allOf"))
	assert.Equal(t, "object", contact.Field("type").Scalar())
	assert.Equal(t, []string{"email"}, contact.Field("required").StringItems())
}

func TestFlattenPreservesUnions(t *testing.T) {
	v := parseDoc(t, `
allOf:
  - properties:
      kind:
        oneOf:
          - type: string
          - type: number
`)
	flat, err := FlattenAllOf(v)
	require.NoError(t, err)
	assert.Equal(t, 2, flat.Field("properties").Field("kind").Field("oneOf").Len())
}

func TestFlattenConflictDetected(t *testing.T) {
	// A property that already carries incompatible sibling union keywords
	// trips the defensive check as soon as something merges into it.
	v := parseDoc(t, `
allOf:
  - properties:
      x:
        anyOf:
          - type: string
        oneOf:
          - type: number
  - properties:
      x:
        description: refine only
`)
	_, err := FlattenAllOf(v)
	require.Error(t, err)
	require.True(t, errors.Is(err, bberrors.ErrMergeConflict))

	var mergeErr *bberrors.MergeConflictError
	require.True(t, errors.As(err, &mergeErr))
	assert.Equal(t, "properties.x", mergeErr.Path)
	assert.Equal(t, []string{"anyOf", "oneOf"}, mergeErr.Keywords)
}

func TestFlattenKeyOrderStable(t *testing.T) {
	v := parseDoc(t, `
title: Block
allOf:
  - type: object
    properties:
      a:
        type: string
  - properties:
      b:
        type: string
`)
	flat, err := FlattenAllOf(v)
	require.NoError(t, err)

	// Keys of the node come first in declaration order, then keys
	// contributed by allOf entries in entry order.
	assert.Equal(t, []string{"title", "type", "properties"}, flat.Keys())
	assert.Equal(t, []string{"a", "b"}, flat.Field("properties").Keys())
}
