package schema

// Kind identifies which variant of the tagged union a Value holds.
type Kind int

const (
	// KindScalar is a string, number, boolean, or null leaf.
	KindScalar Kind = iota
	// KindObject is an ordered mapping of string keys to child values.
	KindObject
	// KindArray is a sequence of child values.
	KindArray
)

// String returns the string representation of the kind.
func (k Kind) String() string {
	switch k {
	case KindScalar:
		return "scalar"
	case KindObject:
		return "object"
	case KindArray:
		return "array"
	default:
		return "unknown"
	}
}

// Value is a recursive tagged value: object, array, or scalar.
// Object keys keep their declaration order from the source document.
//
// The zero value is the null scalar.
type Value struct {
	kind   Kind
	keys   []string
	fields map[string]*Value
	items  []*Value
	scalar any
}

// NewObject returns an empty object value.
func NewObject() *Value {
	return &Value{
		kind:   KindObject,
		fields: make(map[string]*Value),
	}
}

// NewArray returns an array value holding the given items.
func NewArray(items ...*Value) *Value {
	return &Value{kind: KindArray, items: items}
}

// NewScalar returns a scalar value. v must be a string, int64, float64,
// bool, or nil; other numeric types are normalized to int64/float64.
func NewScalar(v any) *Value {
	switch n := v.(type) {
	case int:
		v = int64(n)
	case int32:
		v = int64(n)
	case float32:
		v = float64(n)
	}
	return &Value{kind: KindScalar, scalar: v}
}

// Null returns the null scalar value.
func Null() *Value {
	return &Value{kind: KindScalar}
}

// Str returns a string scalar value.
func Str(s string) *Value {
	return &Value{kind: KindScalar, scalar: s}
}

// Bool returns a boolean scalar value.
func Bool(b bool) *Value {
	return &Value{kind: KindScalar, scalar: b}
}

// Kind returns which variant this value holds.
func (v *Value) Kind() Kind {
	if v == nil {
		return KindScalar
	}
	return v.kind
}

// IsObject reports whether the value is an object.
func (v *Value) IsObject() bool { return v != nil && v.kind == KindObject }

// IsArray reports whether the value is an array.
func (v *Value) IsArray() bool { return v != nil && v.kind == KindArray }

// IsScalar reports whether the value is a scalar (including null).
func (v *Value) IsScalar() bool { return v == nil || v.kind == KindScalar }

// IsNull reports whether the value is the null scalar.
func (v *Value) IsNull() bool { return v == nil || (v.kind == KindScalar && v.scalar == nil) }

// Len returns the number of keys (object), items (array), or 0 (scalar).
func (v *Value) Len() int {
	switch v.Kind() {
	case KindObject:
		return len(v.keys)
	case KindArray:
		return len(v.items)
	default:
		return 0
	}
}

// Keys returns the object's keys in declaration order.
// Returns nil for non-objects. The slice is a copy and safe to retain.
func (v *Value) Keys() []string {
	if !v.IsObject() {
		return nil
	}
	out := make([]string, len(v.keys))
	copy(out, v.keys)
	return out
}

// Get returns the child value for key and whether it exists.
func (v *Value) Get(key string) (*Value, bool) {
	if !v.IsObject() {
		return nil, false
	}
	child, ok := v.fields[key]
	return child, ok
}

// Field returns the child value for key, or nil if absent.
func (v *Value) Field(key string) *Value {
	child, _ := v.Get(key)
	return child
}

// Has reports whether the object has the given key.
func (v *Value) Has(key string) bool {
	_, ok := v.Get(key)
	return ok
}

// Set stores child under key, appending the key to the declaration order
// when it is new. Panics if v is not an object.
func (v *Value) Set(key string, child *Value) {
	if !v.IsObject() {
		panic("schema: Set on non-object value")
	}
	if _, exists := v.fields[key]; !exists {
		v.keys = append(v.keys, key)
	}
	v.fields[key] = child
}

// Delete removes key from the object. It is a no-op when the key is absent
// or the value is not an object.
func (v *Value) Delete(key string) {
	if !v.IsObject() {
		return
	}
	if _, exists := v.fields[key]; !exists {
		return
	}
	delete(v.fields, key)
	for i, k := range v.keys {
		if k == key {
			v.keys = append(v.keys[:i], v.keys[i+1:]...)
			break
		}
	}
}

// Items returns the array's items. The slice is shared; callers that mutate
// it must own the value. Returns nil for non-arrays.
func (v *Value) Items() []*Value {
	if !v.IsArray() {
		return nil
	}
	return v.items
}

// Item returns the i-th array item, or nil when out of range.
func (v *Value) Item(i int) *Value {
	if !v.IsArray() || i < 0 || i >= len(v.items) {
		return nil
	}
	return v.items[i]
}

// Append adds items to the end of the array. Panics if v is not an array.
func (v *Value) Append(items ...*Value) {
	if !v.IsArray() {
		panic("schema: Append on non-array value")
	}
	v.items = append(v.items, items...)
}

// SetItems replaces the array's items. Panics if v is not an array.
func (v *Value) SetItems(items []*Value) {
	if !v.IsArray() {
		panic("schema: SetItems on non-array value")
	}
	v.items = items
}

// Scalar returns the underlying scalar value (string, int64, float64,
// bool, or nil). Returns nil for objects and arrays.
func (v *Value) Scalar() any {
	if !v.IsScalar() || v == nil {
		return nil
	}
	return v.scalar
}

// AsString returns the scalar as a string and whether it is one.
func (v *Value) AsString() (string, bool) {
	if v == nil {
		return "", false
	}
	s, ok := v.scalar.(string)
	return s, ok && v.kind == KindScalar
}

// AsBool returns the scalar as a bool and whether it is one.
func (v *Value) AsBool() (bool, bool) {
	if v == nil {
		return false, false
	}
	b, ok := v.scalar.(bool)
	return b, ok && v.kind == KindScalar
}

// AsNumber returns the scalar as a float64 and whether it is numeric.
// Integers are converted losslessly for the magnitudes seen in schemas.
func (v *Value) AsNumber() (float64, bool) {
	if v == nil || v.kind != KindScalar {
		return 0, false
	}
	switch n := v.scalar.(type) {
	case int64:
		return float64(n), true
	case float64:
		return n, true
	default:
		return 0, false
	}
}

// StringItems returns the array's items as strings, skipping non-strings.
func (v *Value) StringItems() []string {
	if !v.IsArray() {
		return nil
	}
	out := make([]string, 0, len(v.items))
	for _, item := range v.items {
		if s, ok := item.AsString(); ok {
			out = append(out, s)
		}
	}
	return out
}

// DeepCopy returns a structurally independent copy of the value.
func (v *Value) DeepCopy() *Value {
	if v == nil {
		return nil
	}
	switch v.kind {
	case KindObject:
		out := NewObject()
		for _, k := range v.keys {
			out.Set(k, v.fields[k].DeepCopy())
		}
		return out
	case KindArray:
		items := make([]*Value, len(v.items))
		for i, item := range v.items {
			items[i] = item.DeepCopy()
		}
		return NewArray(items...)
	default:
		return &Value{kind: KindScalar, scalar: v.scalar}
	}
}

// Equal reports structural equality. Object key order is ignored; array
// order is significant. Integer and float scalars compare numerically,
// since the same document parsed from YAML and JSON may differ in numeric
// representation.
func (v *Value) Equal(other *Value) bool {
	if v == nil || other == nil {
		return v.IsNull() && other.IsNull()
	}
	if v.kind != other.kind {
		return false
	}
	switch v.kind {
	case KindObject:
		if len(v.keys) != len(other.keys) {
			return false
		}
		for k, child := range v.fields {
			oc, ok := other.fields[k]
			if !ok || !child.Equal(oc) {
				return false
			}
		}
		return true
	case KindArray:
		if len(v.items) != len(other.items) {
			return false
		}
		for i, item := range v.items {
			if !item.Equal(other.items[i]) {
				return false
			}
		}
		return true
	default:
		return scalarsEqual(v.scalar, other.scalar)
	}
}

func scalarsEqual(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	af, aNum := asNumber(a)
	bf, bNum := asNumber(b)
	if aNum && bNum {
		return af == bf
	}
	return a == b
}

func asNumber(v any) (float64, bool) {
	switch n := v.(type) {
	case int64:
		return float64(n), true
	case float64:
		return n, true
	default:
		return 0, false
	}
}
