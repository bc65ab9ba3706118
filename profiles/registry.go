package profiles

import (
	"fmt"
	"os"

	"go.yaml.in/yaml/v4"

	"github.com/cznethub/bblocktools/bberrors"
)

// Profile names one assembled record type.
type Profile struct {
	// Name is the profile identifier used in artifact paths.
	Name string `yaml:"name"`
	// Block is the building block the profile assembles.
	Block string `yaml:"block"`
	// Base optionally names another profile this one extends.
	Base string `yaml:"base,omitempty"`
}

// Registry is the ordered set of profiles to assemble, loaded from
// profiles.yaml.
type Registry struct {
	Profiles []Profile

	byName map[string]Profile
}

type registryFile struct {
	Profiles []Profile `yaml:"profiles"`
}

// LoadRegistry reads and validates a profiles.yaml file.
func LoadRegistry(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &bberrors.ConfigError{
			Option:  "profiles",
			Value:   path,
			Message: "cannot read profile registry",
			Cause:   err,
		}
	}
	return ParseRegistry(data, path)
}

// ParseRegistry decodes registry content. source is used in error messages.
func ParseRegistry(data []byte, source string) (*Registry, error) {
	var file registryFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, &bberrors.ParseError{
			Path:    source,
			Message: "invalid profile registry",
			Cause:   err,
		}
	}

	reg := &Registry{
		Profiles: file.Profiles,
		byName:   make(map[string]Profile, len(file.Profiles)),
	}
	for _, p := range file.Profiles {
		if p.Name == "" {
			return nil, &bberrors.ConfigError{
				Option:  "profiles",
				Value:   source,
				Message: "profile without a name",
			}
		}
		if p.Block == "" {
			return nil, &bberrors.ConfigError{
				Option:  "profiles",
				Value:   p.Name,
				Message: "profile without a building block",
			}
		}
		if _, dup := reg.byName[p.Name]; dup {
			return nil, &bberrors.ConfigError{
				Option:  "profiles",
				Value:   p.Name,
				Message: "duplicate profile name",
			}
		}
		reg.byName[p.Name] = p
	}

	// Base references must exist and must not form a cycle.
	for _, p := range file.Profiles {
		if p.Base == "" {
			continue
		}
		if _, ok := reg.byName[p.Base]; !ok {
			return nil, &bberrors.ConfigError{
				Option:  "profiles",
				Value:   p.Name,
				Message: fmt.Sprintf("unknown base profile %q", p.Base),
			}
		}
		if err := reg.checkBaseChain(p); err != nil {
			return nil, err
		}
	}
	return reg, nil
}

func (r *Registry) checkBaseChain(start Profile) error {
	seen := map[string]bool{start.Name: true}
	current := start
	for current.Base != "" {
		next, ok := r.byName[current.Base]
		if !ok {
			return nil
		}
		if seen[next.Name] {
			return &bberrors.ConfigError{
				Option:  "profiles",
				Value:   start.Name,
				Message: fmt.Sprintf("base chain contains a cycle through %q", next.Name),
			}
		}
		seen[next.Name] = true
		current = next
	}
	return nil
}

// Get returns the profile with the given name.
func (r *Registry) Get(name string) (Profile, bool) {
	p, ok := r.byName[name]
	return p, ok
}

// Names returns the profile names in registry order.
func (r *Registry) Names() []string {
	names := make([]string, len(r.Profiles))
	for i, p := range r.Profiles {
		names[i] = p.Name
	}
	return names
}
