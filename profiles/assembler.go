package profiles

import (
	"fmt"
	"path/filepath"

	"github.com/cznethub/bblocktools/bberrors"
	"github.com/cznethub/bblocktools/converter"
	"github.com/cznethub/bblocktools/resolver"
	"github.com/cznethub/bblocktools/schema"
)

// ProfileResult holds the outcome of assembling one profile.
type ProfileResult struct {
	// Profile is the registry entry that was assembled.
	Profile Profile
	// Resolved is the fully inlined document in the richer dialect.
	Resolved *schema.Value
	// Forms is the forms-ready document with per-profile codes applied.
	Forms *schema.Value
	// Conversion carries the issues found while downgrading.
	Conversion *converter.ConversionResult
	// ResolvedPath and FormsPath are where the artifacts were written.
	// Empty when the assembler has no output directory.
	ResolvedPath string
	FormsPath    string
}

// Assembler runs the whole pipeline for registered profiles: resolve the
// building block, compose the base profile, flatten, convert to the forms
// dialect, filter enumerations, and write both artifacts.
type Assembler struct {
	// SourcesDir is the building-block source tree.
	SourcesDir string
	// OutputDir is the artifact root. Empty disables writing.
	OutputDir string
	// Registry lists the profiles to assemble.
	Registry *Registry
	// Codes is the allowed-codes table. Nil disables enum filtering.
	Codes *CodesTable
	// FlattenAllOf merges compositions after resolution. On by default;
	// the forms renderer cannot present nested compositions.
	FlattenAllOf bool
	// Logger receives assembly diagnostics. Defaults to NopLogger.
	Logger resolver.Logger

	// assembled memoizes resolved documents by profile name, so a base
	// shared by several overlays is built once per Assembler.
	assembled map[string]*schema.Value
}

// NewAssembler creates an Assembler writing artifacts under outputDir.
func NewAssembler(sourcesDir, outputDir string, registry *Registry) *Assembler {
	return &Assembler{
		SourcesDir:   sourcesDir,
		OutputDir:    outputDir,
		Registry:     registry,
		FlattenAllOf: true,
		Logger:       resolver.NopLogger{},
		assembled:    make(map[string]*schema.Value),
	}
}

// AssembleAll assembles every registered profile in registry order. It
// stops at the first failing profile, returning the results completed so
// far alongside the error; a failed profile never gets partial artifacts.
func (a *Assembler) AssembleAll() ([]*ProfileResult, error) {
	results := make([]*ProfileResult, 0, len(a.Registry.Profiles))
	for _, p := range a.Registry.Profiles {
		result, err := a.AssembleProfile(p.Name)
		if err != nil {
			return results, err
		}
		results = append(results, result)
	}
	return results, nil
}

// AssembleProfile assembles one profile by name and writes its artifacts.
func (a *Assembler) AssembleProfile(name string) (*ProfileResult, error) {
	profile, ok := a.Registry.Get(name)
	if !ok {
		return nil, &bberrors.ConfigError{
			Option:  "profile",
			Value:   name,
			Message: "profile is not registered",
		}
	}
	logger := a.logger().With("profile", name)
	logger.Debug("assembling profile", "block", profile.Block)

	resolved, err := a.resolvedDocument(profile)
	if err != nil {
		return nil, err
	}

	conversion := converter.Convert(resolved)
	if err := conversion.Err(name); err != nil {
		return nil, err
	}
	for _, issue := range conversion.Issues {
		logger.Debug("conversion issue", "issue", issue.String())
	}

	forms := conversion.Document
	if a.Codes != nil {
		a.Codes.Apply(forms, name)
	}

	result := &ProfileResult{
		Profile:    profile,
		Resolved:   resolved,
		Forms:      forms,
		Conversion: conversion,
	}
	if a.OutputDir == "" {
		return result, nil
	}

	result.ResolvedPath = filepath.Join(a.OutputDir, "resolved", name, "schema.json")
	result.FormsPath = filepath.Join(a.OutputDir, "jsonforms", "profiles", name, "schema.json")
	if err := writeArtifact(result.ResolvedPath, resolved); err != nil {
		return nil, err
	}
	if err := writeArtifact(result.FormsPath, forms); err != nil {
		return nil, err
	}
	logger.Info("profile assembled", "resolved", result.ResolvedPath, "forms", result.FormsPath)
	return result, nil
}

// resolvedDocument builds (or reuses) the assembled resolved document for a
// profile. An overlay composes its base's already-assembled document via a
// synthetic allOf, so nested overlays inherit the base's prior flattening.
func (a *Assembler) resolvedDocument(profile Profile) (*schema.Value, error) {
	if doc, ok := a.assembled[profile.Name]; ok {
		return doc.DeepCopy(), nil
	}

	r := resolver.New(a.SourcesDir)
	r.Logger = a.logger()
	doc, err := r.ResolveBlock(profile.Block)
	if err != nil {
		return nil, fmt.Errorf("resolving block %s for profile %s: %w", profile.Block, profile.Name, err)
	}

	if profile.Base != "" {
		base, ok := a.Registry.Get(profile.Base)
		if !ok {
			return nil, &bberrors.ConfigError{
				Option:  "profile",
				Value:   profile.Name,
				Message: fmt.Sprintf("unknown base profile %q", profile.Base),
			}
		}
		baseDoc, err := a.resolvedDocument(base)
		if err != nil {
			return nil, err
		}
		composed := schema.NewObject()
		composed.Set("allOf", schema.NewArray(baseDoc, doc))
		doc = composed
	}

	if a.FlattenAllOf {
		doc, err = resolver.FlattenAllOf(doc)
		if err != nil {
			return nil, err
		}
	}

	a.assembled[profile.Name] = doc
	return doc.DeepCopy(), nil
}

func (a *Assembler) logger() resolver.Logger {
	if a.Logger == nil {
		return resolver.NopLogger{}
	}
	return a.Logger
}

func writeArtifact(path string, doc *schema.Value) error {
	data, err := doc.MarshalJSONIndent("  ")
	if err != nil {
		return err
	}
	return writeFileAtomic(path, data)
}
