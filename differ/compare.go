package differ

import (
	"fmt"
	"sort"
	"strings"

	"golang.org/x/text/cases"

	"github.com/cznethub/bblocktools/schema"
)

// checkPropertyCoverage reports the high-level disagreements: top-level
// property sets, top-level type, and required fields (including those
// declared inside allOf entries).
func checkPropertyCoverage(yamlDoc, jsonDoc *schema.Value) []string {
	var findings []string

	yamlProps := propertyNames(yamlDoc)
	jsonProps := propertyNames(jsonDoc)
	if only := minus(yamlProps, jsonProps); len(only) > 0 {
		findings = append(findings, fmt.Sprintf("properties in YAML only: %v", only))
	}
	if only := minus(jsonProps, yamlProps); len(only) > 0 {
		findings = append(findings, fmt.Sprintf("properties in JSON only: %v", only))
	}

	yamlType, _ := yamlDoc.Field("type").AsString()
	jsonType, _ := jsonDoc.Field("type").AsString()
	if yamlType != jsonType {
		findings = append(findings, fmt.Sprintf("top-level type: YAML=%q vs JSON=%q", yamlType, jsonType))
	}

	yamlReq := extractRequired(yamlDoc)
	jsonReq := extractRequired(jsonDoc)
	if only := minus(yamlReq, jsonReq); len(only) > 0 {
		findings = append(findings, fmt.Sprintf("required in YAML only: %v", only))
	}
	if only := minus(jsonReq, yamlReq); len(only) > 0 {
		findings = append(findings, fmt.Sprintf("required in JSON only: %v", only))
	}
	return findings
}

// extractRequired collects required names from the document root and from
// every allOf entry.
func extractRequired(doc *schema.Value) map[string]bool {
	required := make(map[string]bool)
	for _, name := range doc.Field("required").StringItems() {
		required[name] = true
	}
	if allOf := doc.Field("allOf"); allOf.IsArray() {
		for _, entry := range allOf.Items() {
			for _, name := range entry.Field("required").StringItems() {
				required[name] = true
			}
		}
	}
	return required
}

func propertyNames(doc *schema.Value) map[string]bool {
	names := make(map[string]bool)
	if props := doc.Field("properties"); props.IsObject() {
		for _, name := range props.Keys() {
			names[name] = true
		}
	}
	return names
}

func minus(a, b map[string]bool) []string {
	var out []string
	for name := range a {
		if !b[name] {
			out = append(out, name)
		}
	}
	sort.Strings(out)
	return out
}

// compareValues compares two schema values structurally, returning one
// finding per difference.
func compareValues(yamlVal, jsonVal *schema.Value, path string) []string {
	switch {
	case yamlVal.IsObject() && jsonVal.IsObject():
		return compareObjects(yamlVal, jsonVal, path)
	case yamlVal.IsArray() && jsonVal.IsArray():
		return compareArrays(yamlVal, jsonVal, path)
	case !yamlVal.Equal(jsonVal):
		return []string{fmt.Sprintf("%s: YAML=%s vs JSON=%s", orRoot(path), render(yamlVal), render(jsonVal))}
	default:
		return nil
	}
}

func compareArrays(yamlArr, jsonArr *schema.Value, path string) []string {
	var findings []string
	if yamlArr.Len() != jsonArr.Len() {
		findings = append(findings, fmt.Sprintf("%s: array length differs: YAML=%d vs JSON=%d",
			orRoot(path), yamlArr.Len(), jsonArr.Len()))
	}
	n := yamlArr.Len()
	if jsonArr.Len() < n {
		n = jsonArr.Len()
	}
	for i := 0; i < n; i++ {
		findings = append(findings, compareValues(yamlArr.Item(i), jsonArr.Item(i), fmt.Sprintf("%s[%d]", path, i))...)
	}
	return findings
}

// compareObjects compares two object nodes. Reference path spelling and
// $defs presence are representational choices and never produce findings;
// description text is compared case-insensitively after trimming.
func compareObjects(yamlObj, jsonObj *schema.Value, path string) []string {
	yamlRef := yamlObj.Has("$ref")
	jsonRef := jsonObj.Has("$ref")
	switch {
	case yamlRef && jsonRef:
		// Both reference out; the paths are allowed to differ.
		return nil
	case yamlRef:
		return []string{fmt.Sprintf("%s: YAML has $ref, JSON has inline definition", orRoot(path))}
	case jsonRef:
		return []string{fmt.Sprintf("%s: JSON has $ref, YAML has inline definition", orRoot(path))}
	}

	var findings []string
	yamlKeys := keysWithoutDefs(yamlObj)
	jsonKeys := keysWithoutDefs(jsonObj)

	for _, k := range sortedMinus(yamlKeys, jsonKeys) {
		findings = append(findings, fmt.Sprintf("%s: property %q in YAML only", orRoot(path), k))
	}
	for _, k := range sortedMinus(jsonKeys, yamlKeys) {
		findings = append(findings, fmt.Sprintf("%s: property %q in JSON only", orRoot(path), k))
	}

	var shared []string
	for _, k := range yamlKeys {
		if contains(jsonKeys, k) {
			shared = append(shared, k)
		}
	}
	sort.Strings(shared)

	for _, k := range shared {
		childPath := k
		if path != "" {
			childPath = path + "." + k
		}
		yamlChild := yamlObj.Field(k)
		jsonChild := jsonObj.Field(k)

		if k == "description" {
			yamlDesc, yOK := yamlChild.AsString()
			jsonDesc, jOK := jsonChild.AsString()
			if yOK && jOK {
				if !descriptionsMatch(yamlDesc, jsonDesc) {
					findings = append(findings, fmt.Sprintf("%s: description differs: YAML=%q vs JSON=%q",
						childPath, truncate(yamlDesc, 80), truncate(jsonDesc, 80)))
				}
				continue
			}
		}
		findings = append(findings, compareValues(yamlChild, jsonChild, childPath)...)
	}
	return findings
}

// descriptionsMatch compares description text ignoring case and surrounding
// whitespace.
func descriptionsMatch(a, b string) bool {
	fold := cases.Fold()
	return fold.String(strings.TrimSpace(a)) == fold.String(strings.TrimSpace(b))
}

func keysWithoutDefs(obj *schema.Value) []string {
	var keys []string
	for _, k := range obj.Keys() {
		if k == "$defs" {
			continue
		}
		keys = append(keys, k)
	}
	return keys
}

func sortedMinus(a, b []string) []string {
	var out []string
	for _, k := range a {
		if !contains(b, k) {
			out = append(out, k)
		}
	}
	sort.Strings(out)
	return out
}

func contains(keys []string, want string) bool {
	for _, k := range keys {
		if k == want {
			return true
		}
	}
	return false
}

func orRoot(path string) string {
	if path == "" {
		return "(root)"
	}
	return path
}

func render(v *schema.Value) string {
	out, err := v.MarshalJSON()
	if err != nil {
		return "<unrenderable>"
	}
	return string(out)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
