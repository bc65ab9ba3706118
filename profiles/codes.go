package profiles

import (
	"os"

	"go.yaml.in/yaml/v4"

	"github.com/cznethub/bblocktools/bberrors"
	"github.com/cznethub/bblocktools/schema"
)

// CodeSet restricts one enumerated property per profile.
type CodeSet struct {
	// Property is the property name whose enumeration is filtered.
	Property string `yaml:"property"`
	// Catalog is the global ordered list of legal codes.
	Catalog []string `yaml:"catalog"`
	// Generic codes are always legal and appended for every profile.
	Generic []string `yaml:"generic,omitempty"`
	// PerProfile maps a profile name to the subset of the catalog it may
	// use. Profiles absent from the map get the full catalog.
	PerProfile map[string][]string `yaml:"profiles,omitempty"`
}

// CodesTable is the declarative profile-to-legal-codes mapping. All
// per-profile filtering flows through it.
type CodesTable struct {
	Sets []CodeSet `yaml:"codes"`
}

// LoadCodesTable reads an allowed-codes table from a YAML file.
func LoadCodesTable(path string) (*CodesTable, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &bberrors.ConfigError{
			Option:  "codes",
			Value:   path,
			Message: "cannot read allowed-codes table",
			Cause:   err,
		}
	}
	var table CodesTable
	if err := yaml.Unmarshal(data, &table); err != nil {
		return nil, &bberrors.ParseError{
			Path:    path,
			Message: "invalid allowed-codes table",
			Cause:   err,
		}
	}
	return &table, nil
}

// AllowedFor computes the legal codes of this set for one profile: the
// catalog intersected with the profile's entry (catalog order preserved),
// with the generic codes appended. Profiles without an entry get the full
// catalog plus the generic codes. The result is deduplicated.
func (s CodeSet) AllowedFor(profile string) []string {
	selected := s.Catalog
	if entry, ok := s.PerProfile[profile]; ok {
		allowed := make(map[string]bool, len(entry))
		for _, code := range entry {
			allowed[code] = true
		}
		selected = nil
		for _, code := range s.Catalog {
			if allowed[code] {
				selected = append(selected, code)
			}
		}
	}

	seen := make(map[string]bool, len(selected)+len(s.Generic))
	var out []string
	for _, group := range [][]string{selected, s.Generic} {
		for _, code := range group {
			if seen[code] {
				continue
			}
			seen[code] = true
			out = append(out, code)
		}
	}
	return out
}

// Apply rewrites the enumerations of every set's property in a forms
// document to the profile's allowed codes. A property matches when it is a
// direct child of a properties map, carries an enum, and has the set's
// name. The document is mutated in place.
func (t *CodesTable) Apply(doc *schema.Value, profile string) {
	if t == nil {
		return
	}
	for _, set := range t.Sets {
		allowed := set.AllowedFor(profile)
		enum := schema.NewArray()
		for _, code := range allowed {
			enum.Append(schema.Str(code))
		}
		rewriteEnums(doc, set.Property, enum)
	}
}

func rewriteEnums(v *schema.Value, property string, enum *schema.Value) {
	switch v.Kind() {
	case schema.KindObject:
		if props := v.Field("properties"); props.IsObject() {
			if target := props.Field(property); target.IsObject() && target.Has("enum") {
				target.Set("enum", enum.DeepCopy())
			}
		}
		for _, k := range v.Keys() {
			rewriteEnums(v.Field(k), property, enum)
		}
	case schema.KindArray:
		for _, item := range v.Items() {
			rewriteEnums(item, property, enum)
		}
	}
}
