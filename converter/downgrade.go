package converter

import (
	"fmt"

	"github.com/cznethub/bblocktools/schema"
)

// rewriteContains turns an array-level membership test into a shape the
// renderer can express: the mandatory values join the items enumeration and
// become the array's default, so the field starts pre-filled with them.
//
// Only a bare fixed-value or enumeration shape is recognized; anything else
// is left in place for dropUnsupported.
func rewriteContains(v *schema.Value, path string, result *ConversionResult) {
	forEachSchemaNode(v, path, func(node *schema.Value, nodePath string) {
		contains, ok := node.Get("contains")
		if !ok {
			return
		}
		mandatory := bareAllowedValues(contains)
		if len(mandatory) == 0 {
			return
		}

		items := node.Field("items")
		if !items.IsObject() {
			items = schema.NewObject()
			node.Set("items", items)
		}
		var existing []*schema.Value
		if enum := items.Field("enum"); enum.IsArray() {
			existing = enum.Items()
		}
		items.Set("enum", unionValues(existing, mandatory))

		if !node.Has("default") {
			defaults := schema.NewArray()
			for _, val := range mandatory {
				defaults.Append(val.DeepCopy())
			}
			node.Set("default", defaults)
		}

		node.Delete("contains")
		node.Delete("minContains")
		node.Delete("maxContains")

		result.record(ConversionIssue{
			Path:     nodePath,
			Keyword:  "contains",
			Message:  "rewritten to items enum with default",
			Severity: SeverityWarning,
		})
	})
}

// bareAllowedValues returns the mandatory values of a contains schema that
// consists of a single const or a single enum, allowing annotations only.
// A schema with any other constraint key is not recognized.
func bareAllowedValues(contains *schema.Value) []*schema.Value {
	if !contains.IsObject() {
		return nil
	}
	var constraintKeys []string
	for _, k := range contains.Keys() {
		switch k {
		case "title", "description", "$comment":
			continue
		}
		constraintKeys = append(constraintKeys, k)
	}
	if len(constraintKeys) != 1 {
		return nil
	}
	switch constraintKeys[0] {
	case "const":
		return []*schema.Value{contains.Field("const")}
	case "enum":
		if enum := contains.Field("enum"); enum.IsArray() {
			return enum.Items()
		}
	}
	return nil
}

// rewriteConst converts every fixed-value constraint into a single-value
// enumeration plus a default, giving the renderer a pre-filled but still
// visible field.
func rewriteConst(v *schema.Value, path string, result *ConversionResult) {
	forEachSchemaNode(v, path, func(node *schema.Value, nodePath string) {
		val, ok := node.Get("const")
		if !ok {
			return
		}
		if !node.Has("enum") {
			node.Set("enum", schema.NewArray(val.DeepCopy()))
		}
		if !node.Has("default") {
			node.Set("default", val.DeepCopy())
		}
		node.Delete("const")

		result.record(ConversionIssue{
			Path:     nodePath,
			Keyword:  "const",
			Message:  "rewritten to enum and default",
			Severity: SeverityInfo,
		})
	})
}

// dropUnsupported removes the constructs the renderer has no equivalent
// for. Each drop is recorded; the functionality loss is accepted rather
// than approximated.
func dropUnsupported(v *schema.Value, path string, result *ConversionResult) {
	forEachSchemaNode(v, path, func(node *schema.Value, nodePath string) {
		drop := func(key, message string) {
			if !node.Has(key) {
				return
			}
			node.Delete(key)
			result.record(ConversionIssue{
				Path:     nodePath,
				Keyword:  key,
				Message:  message,
				Severity: SeverityWarning,
			})
		}

		drop("prefixItems", "tuple arrays are not renderable; dropped")
		if items := node.Field("items"); items.IsArray() {
			drop("items", "tuple arrays are not renderable; dropped")
		}
		if ap, ok := node.Get("additionalProperties"); ok {
			if closed, isBool := ap.AsBool(); isBool && !closed {
				drop("additionalProperties", "closed-object constraint is not renderable; dropped")
			}
		}
		drop("unevaluatedProperties", "unevaluated-properties constraint is not renderable; dropped")
		drop("not", "negation has no renderer equivalent; dropped")
		drop("contains", "unrecognized contains shape; dropped")

		// Without contains these bounds have nothing to apply to.
		for _, key := range []string{"minContains", "maxContains"} {
			if node.Has(key) {
				node.Delete(key)
				result.record(ConversionIssue{
					Path:     nodePath,
					Keyword:  key,
					Message:  "dropped together with contains",
					Severity: SeverityInfo,
				})
			}
		}
	})
}

// forEachSchemaNode visits every object node in the tree pre-order. The
// visit function may mutate the node; children are enumerated afterwards.
func forEachSchemaNode(v *schema.Value, path string, visit func(node *schema.Value, path string)) {
	switch v.Kind() {
	case schema.KindObject:
		visit(v, path)
		for _, k := range v.Keys() {
			forEachSchemaNode(v.Field(k), joinPath(path, k), visit)
		}
	case schema.KindArray:
		for i, item := range v.Items() {
			forEachSchemaNode(item, fmt.Sprintf("%s[%d]", path, i), visit)
		}
	}
}
