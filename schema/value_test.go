package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObjectKeyOrder(t *testing.T) {
	obj := NewObject()
	obj.Set("type", Str("object"))
	obj.Set("properties", NewObject())
	obj.Set("required", NewArray(Str("name")))

	assert.Equal(t, []string{"type", "properties", "required"}, obj.Keys())

	// Re-setting an existing key keeps its original position.
	obj.Set("type", Str("string"))
	assert.Equal(t, []string{"type", "properties", "required"}, obj.Keys())

	obj.Delete("properties")
	assert.Equal(t, []string{"type", "required"}, obj.Keys())
	assert.False(t, obj.Has("properties"))
}

func TestScalarNormalization(t *testing.T) {
	assert.Equal(t, int64(5), NewScalar(5).Scalar())
	assert.Equal(t, int64(5), NewScalar(int32(5)).Scalar())
	assert.Equal(t, float64(1.5), NewScalar(float32(1.5)).Scalar())
	assert.Nil(t, NewScalar(nil).Scalar())
}

func TestDeepCopyIsIndependent(t *testing.T) {
	orig := NewObject()
	props := NewObject()
	props.Set("name", objWithType("string"))
	orig.Set("properties", props)
	orig.Set("required", NewArray(Str("name")))

	clone := orig.DeepCopy()
	require.True(t, orig.Equal(clone))

	clone.Field("properties").Set("extra", objWithType("number"))
	clone.Field("required").Append(Str("extra"))

	assert.False(t, orig.Field("properties").Has("extra"))
	assert.Equal(t, 1, orig.Field("required").Len())
}

func TestEqualIgnoresKeyOrder(t *testing.T) {
	a := NewObject()
	a.Set("type", Str("object"))
	a.Set("title", Str("Download"))

	b := NewObject()
	b.Set("title", Str("Download"))
	b.Set("type", Str("object"))

	assert.True(t, a.Equal(b))
}

func TestEqualArrayOrderSignificant(t *testing.T) {
	a := NewArray(Str("one"), Str("two"))
	b := NewArray(Str("two"), Str("one"))
	assert.False(t, a.Equal(b))
}

func TestEqualNumericNormalization(t *testing.T) {
	// The same value parsed from JSON and YAML may land as int64 or float64.
	assert.True(t, NewScalar(int64(3)).Equal(NewScalar(float64(3))))
	assert.False(t, NewScalar(int64(3)).Equal(NewScalar(float64(3.5))))
}

func TestNilValueAccessors(t *testing.T) {
	var v *Value
	assert.True(t, v.IsNull())
	assert.True(t, v.IsScalar())
	assert.False(t, v.IsObject())
	assert.Equal(t, 0, v.Len())
	_, ok := v.Get("x")
	assert.False(t, ok)
	assert.Nil(t, v.DeepCopy())
}

func TestStringItems(t *testing.T) {
	arr := NewArray(Str("a"), NewScalar(int64(1)), Str("b"))
	assert.Equal(t, []string{"a", "b"}, arr.StringItems())
}

func objWithType(typ string) *Value {
	o := NewObject()
	o.Set("type", Str(typ))
	return o
}
