package resolver

import (
	"sort"

	"github.com/cznethub/bblocktools/bberrors"
	"github.com/cznethub/bblocktools/schema"
)

// compositionKeys are the constructs that make a property value a complete
// schema definition in its own right. When an overlay property carries one
// of these, it replaces the base property instead of merging into it.
var compositionKeys = []string{"type", "oneOf", "anyOf", "allOf", "$ref"}

// conflictKeys are mutually incompatible as siblings on one property after
// flattening. Well-formed inputs never merge into such a shape; the check
// is defensive.
var conflictKeys = []string{"anyOf", "oneOf", "$ref"}

// FlattenAllOf recursively merges every allOf into its parent object.
// Properties, required lists, and refining constraints from all entries are
// combined; anyOf and oneOf are preserved as-is. Overlapping properties
// follow the replace-or-narrow rule of [mergeValues].
func FlattenAllOf(v *schema.Value) (*schema.Value, error) {
	return flattenValue(v, "")
}

func flattenValue(v *schema.Value, path string) (*schema.Value, error) {
	switch v.Kind() {
	case schema.KindObject:
		// Flatten children first so nested allOf under properties or items
		// are merged before this level.
		result := schema.NewObject()
		for _, k := range v.Keys() {
			child, err := flattenValue(v.Field(k), joinPath(path, k))
			if err != nil {
				return nil, err
			}
			result.Set(k, child)
		}

		allOf := result.Field("allOf")
		if !allOf.IsArray() {
			return result, nil
		}

		merged := schema.NewObject()
		for _, k := range result.Keys() {
			if k == "allOf" {
				continue
			}
			merged.Set(k, result.Field(k))
		}
		for _, entry := range allOf.Items() {
			if !entry.IsObject() {
				continue
			}
			var err error
			merged, err = mergeValues(merged, entry, path, false)
			if err != nil {
				return nil, err
			}
		}
		return merged, nil

	case schema.KindArray:
		out := schema.NewArray()
		for _, item := range v.Items() {
			child, err := flattenValue(item, path)
			if err != nil {
				return nil, err
			}
			out.Append(child)
		}
		return out, nil

	default:
		return v, nil
	}
}

// mergeValues deep-merges overlay into base, overlay taking precedence.
//
// Inside a properties map, an overlay value that is a complete schema
// definition (carries type, oneOf, anyOf, allOf, or $ref) replaces the base
// definition wholesale; two composed schemas defining the same property with
// different composition constructs must not end up as sibling keywords.
// An overlay value carrying only refining constraints (enum, pattern,
// bounds) is merged field by field so the base structure survives.
//
// required lists are unioned across both sources, first occurrence order.
// Remaining scalar conflicts resolve last-declared-wins.
func mergeValues(base, overlay *schema.Value, path string, inProperties bool) (*schema.Value, error) {
	result := base.DeepCopy()
	for _, k := range overlay.Keys() {
		ov := overlay.Field(k)
		childPath := joinPath(path, k)

		existing, exists := result.Get(k)
		switch {
		case exists && existing.IsObject() && ov.IsObject():
			if inProperties && isCompleteSchema(ov) {
				result.Set(k, ov.DeepCopy())
				continue
			}
			merged, err := mergeValues(existing, ov, childPath, k == "properties")
			if err != nil {
				return nil, err
			}
			if inProperties {
				if conflicts := conflictingKeywords(merged); len(conflicts) > 1 {
					return nil, &bberrors.MergeConflictError{
						Path:     childPath,
						Keywords: conflicts,
					}
				}
			}
			result.Set(k, merged)

		case exists && k == "required" && existing.IsArray() && ov.IsArray():
			result.Set(k, unionStrings(existing, ov))

		default:
			result.Set(k, ov.DeepCopy())
		}
	}
	return result, nil
}

func isCompleteSchema(v *schema.Value) bool {
	for _, k := range compositionKeys {
		if v.Has(k) {
			return true
		}
	}
	return false
}

func conflictingKeywords(v *schema.Value) []string {
	var found []string
	for _, k := range conflictKeys {
		if v.Has(k) {
			found = append(found, k)
		}
	}
	sort.Strings(found)
	return found
}

// unionStrings unions two string arrays, keeping first occurrence order.
func unionStrings(a, b *schema.Value) *schema.Value {
	seen := make(map[string]bool)
	out := schema.NewArray()
	for _, arr := range []*schema.Value{a, b} {
		for _, item := range arr.Items() {
			s, ok := item.AsString()
			if !ok {
				out.Append(item.DeepCopy())
				continue
			}
			if seen[s] {
				continue
			}
			seen[s] = true
			out.Append(schema.Str(s))
		}
	}
	return out
}

func joinPath(path, key string) string {
	if path == "" {
		return key
	}
	return path + "." + key
}
