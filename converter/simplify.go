package converter

import (
	"fmt"

	"github.com/cznethub/bblocktools/schema"
)

// annotationKeys never count as narrowing constraints when pushing sibling
// keys of a oneOf into its branches.
var annotationKeys = map[string]bool{
	"title":       true,
	"description": true,
	"$comment":    true,
	"$schema":     true,
	"examples":    true,
	"default":     true,
	"deprecated":  true,
}

// simplifyUnions rewrites discriminated unions bottom-up: anyOf unions of
// object branches collapse into one merged object, oneOf unions survive as
// explicit alternatives with sibling narrowing constraints pushed into every
// branch.
func simplifyUnions(v *schema.Value, path string, result *ConversionResult) {
	switch v.Kind() {
	case schema.KindObject:
		for _, k := range v.Keys() {
			simplifyUnions(v.Field(k), joinPath(path, k), result)
		}
		if v.Has("anyOf") {
			flattenAnyOf(v, path, result)
		}
		if v.Has("oneOf") {
			pushNarrowingIntoBranches(v, path, result)
		}
	case schema.KindArray:
		for i, item := range v.Items() {
			simplifyUnions(item, fmt.Sprintf("%s[%d]", path, i), result)
		}
	}
}

// flattenAnyOf merges the branches of an anyOf into the node itself: the
// merged property set is the union of all branch property sets, and a
// property appearing in several branches with enumerated or fixed values
// gets the deduplicated union of every branch's allowed values. Only
// properties required by every branch stay required.
func flattenAnyOf(node *schema.Value, path string, result *ConversionResult) {
	branches := node.Field("anyOf")

	// A union of bare value sets (enum, const, or nested unions of them)
	// collapses into one enumeration.
	if values := branchValueUnion(branches); values != nil {
		node.Delete("anyOf")
		var existing []*schema.Value
		if enum := node.Field("enum"); enum.IsArray() {
			existing = enum.Items()
		}
		node.Delete("const")
		node.Set("enum", unionValues(existing, values))
		result.record(ConversionIssue{
			Path:     path,
			Keyword:  "anyOf",
			Message:  fmt.Sprintf("collapsed %d value-set branches into one enum", branches.Len()),
			Severity: SeverityInfo,
		})
		return
	}

	for _, branch := range branches.Items() {
		if !isObjectSchema(branch) {
			result.record(ConversionIssue{
				Path:     path,
				Keyword:  "anyOf",
				Message:  "union has a non-object branch; left unflattened",
				Severity: SeverityWarning,
			})
			return
		}
	}

	node.Delete("anyOf")

	merged := node.Field("properties")
	if !merged.IsObject() {
		merged = schema.NewObject()
	}

	for _, branch := range branches.Items() {
		if typ := branch.Field("type"); typ != nil && !node.Has("type") {
			node.Set("type", typ.DeepCopy())
		}
		props := branch.Field("properties")
		if !props.IsObject() {
			continue
		}
		for _, name := range props.Keys() {
			incoming := props.Field(name)
			existing, ok := merged.Get(name)
			if !ok {
				merged.Set(name, incoming.DeepCopy())
				continue
			}
			merged.Set(name, mergeUnionProperty(existing, incoming, joinPath(path, "properties."+name), result))
		}
	}

	if merged.Len() > 0 {
		node.Set("properties", merged)
	}
	if required := intersectRequired(node, branches); required.Len() > 0 {
		node.Set("required", required)
	} else {
		node.Delete("required")
	}

	result.record(ConversionIssue{
		Path:     path,
		Keyword:  "anyOf",
		Message:  fmt.Sprintf("flattened %d union branches into one object", branches.Len()),
		Severity: SeverityInfo,
	})
}

// mergeUnionProperty combines two branch definitions of the same property.
// When both carry allowed-value sets (enum, const, or a nested union of
// them), the result enumerates the union of both sets. Otherwise the first
// definition wins.
func mergeUnionProperty(existing, incoming *schema.Value, path string, result *ConversionResult) *schema.Value {
	existingValues := allowedValues(existing)
	incomingValues := allowedValues(incoming)

	if len(existingValues) > 0 && len(incomingValues) > 0 {
		out := existing.DeepCopy()
		out.Delete("const")
		out.Delete("anyOf")
		out.Delete("oneOf")
		out.Set("enum", unionValues(existingValues, incomingValues))
		return out
	}

	if !existing.Equal(incoming) {
		result.record(ConversionIssue{
			Path:     path,
			Message:  "branches define this property differently; first definition wins",
			Severity: SeverityInfo,
		})
	}
	return existing
}

// branchValueUnion returns the union of the branches' allowed values when
// every branch is a bare value set: no properties, just enum, const, or a
// nested union of them. Returns nil when any branch carries structure.
func branchValueUnion(branches *schema.Value) []*schema.Value {
	var values []*schema.Value
	for _, branch := range branches.Items() {
		if !branch.IsObject() || branch.Has("properties") {
			return nil
		}
		branchValues := allowedValues(branch)
		if len(branchValues) == 0 {
			return nil
		}
		values = append(values, branchValues...)
	}
	return values
}

// isObjectSchema reports whether a branch describes an object shape.
func isObjectSchema(branch *schema.Value) bool {
	if !branch.IsObject() {
		return false
	}
	if typ, ok := branch.Field("type").AsString(); ok {
		return typ == "object"
	}
	return branch.Has("properties")
}

// allowedValues collects the allowed-value set of a property definition:
// enum entries, a const value, and recursively any values reachable through
// a nested anyOf or oneOf on the same property.
func allowedValues(prop *schema.Value) []*schema.Value {
	if !prop.IsObject() {
		return nil
	}
	var values []*schema.Value
	if enum := prop.Field("enum"); enum.IsArray() {
		values = append(values, enum.Items()...)
	}
	if c, ok := prop.Get("const"); ok {
		values = append(values, c)
	}
	for _, key := range []string{"anyOf", "oneOf"} {
		if union := prop.Field(key); union.IsArray() {
			for _, branch := range union.Items() {
				values = append(values, allowedValues(branch)...)
			}
		}
	}
	return values
}

// unionValues deduplicates the concatenation of both sets, preserving first
// occurrence order.
func unionValues(sets ...[]*schema.Value) *schema.Value {
	out := schema.NewArray()
	for _, set := range sets {
		for _, v := range set {
			duplicate := false
			for _, have := range out.Items() {
				if have.Equal(v) {
					duplicate = true
					break
				}
			}
			if !duplicate {
				out.Append(v.DeepCopy())
			}
		}
	}
	return out
}

// intersectRequired keeps the node's own required entries and adds the
// properties required by every branch, in first-branch order.
func intersectRequired(node *schema.Value, branches *schema.Value) *schema.Value {
	out := schema.NewArray()
	seen := make(map[string]bool)
	if own := node.Field("required"); own.IsArray() {
		for _, name := range own.StringItems() {
			if !seen[name] {
				seen[name] = true
				out.Append(schema.Str(name))
			}
		}
	}

	if branches.Len() == 0 {
		return out
	}
	first := branches.Item(0).Field("required")
	for _, name := range first.StringItems() {
		inAll := true
		for _, branch := range branches.Items()[1:] {
			if !containsString(branch.Field("required"), name) {
				inAll = false
				break
			}
		}
		if inAll && !seen[name] {
			seen[name] = true
			out.Append(schema.Str(name))
		}
	}
	return out
}

func containsString(arr *schema.Value, want string) bool {
	for _, s := range arr.StringItems() {
		if s == want {
			return true
		}
	}
	return false
}

// pushNarrowingIntoBranches keeps a oneOf intact but merges every sibling
// narrowing constraint into each branch, so the constraint holds no matter
// which branch the user picks.
func pushNarrowingIntoBranches(node *schema.Value, path string, result *ConversionResult) {
	branches := node.Field("oneOf")
	if !branches.IsArray() {
		return
	}

	var pushed []string
	for _, k := range node.Keys() {
		if k == "oneOf" || k == "type" || annotationKeys[k] {
			continue
		}
		pushed = append(pushed, k)
	}
	if len(pushed) == 0 {
		return
	}

	for _, branch := range branches.Items() {
		if !branch.IsObject() {
			continue
		}
		for _, k := range pushed {
			mergeConstraint(branch, k, node.Field(k))
		}
	}
	for _, k := range pushed {
		node.Delete(k)
	}

	result.record(ConversionIssue{
		Path:     path,
		Keyword:  "oneOf",
		Message:  fmt.Sprintf("pushed narrowing constraints into %d branches: %v", branches.Len(), pushed),
		Severity: SeverityInfo,
	})
}

// mergeConstraint merges one overlay constraint into a branch, the overlay
// taking precedence. Objects merge recursively, required lists union, and
// anything else is replaced.
func mergeConstraint(branch *schema.Value, key string, overlay *schema.Value) {
	existing, ok := branch.Get(key)
	switch {
	case ok && existing.IsObject() && overlay.IsObject():
		for _, k := range overlay.Keys() {
			mergeConstraint(existing, k, overlay.Field(k))
		}
	case ok && key == "required" && existing.IsArray() && overlay.IsArray():
		seen := make(map[string]bool)
		out := schema.NewArray()
		for _, arr := range []*schema.Value{existing, overlay} {
			for _, name := range arr.StringItems() {
				if !seen[name] {
					seen[name] = true
					out.Append(schema.Str(name))
				}
			}
		}
		branch.Set(key, out)
	default:
		branch.Set(key, overlay.DeepCopy())
	}
}
