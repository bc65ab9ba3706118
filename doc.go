// Package bblocktools assembles modular building-block schemas into
// self-contained profile schemas and downgrades them into the restricted
// dialect consumed by the CzForm dynamic form renderer.
//
// # Overview
//
// The library consists of five primary packages:
//
//   - schema: Parse schema documents into an ordered, recursive value tree
//   - resolver: Inline every $ref and optionally flatten allOf compositions
//   - converter: Simplify unions and downgrade to the forms dialect
//   - profiles: Assemble per-profile artifacts and restrict code enumerations
//   - differ: Report drift between dual representations of a building block
//
// # Quick Start
//
// Resolve a building block into a self-contained schema:
//
//	import "github.com/cznethub/bblocktools/resolver"
//
//	r := resolver.New("_sources")
//	doc, err := r.ResolveBlock("dataDownload")
//	if err != nil {
//		log.Fatal(err)
//	}
//
// Convert a resolved document into a forms-ready document:
//
//	import "github.com/cznethub/bblocktools/converter"
//
//	c := converter.New()
//	result, err := c.Convert(doc)
//	if err != nil {
//		log.Fatal(err)
//	}
//	if result.HasCriticalIssues() {
//		log.Fatalf("conversion lost required constructs: %d critical", result.CriticalCount)
//	}
//
// Assemble every registered profile:
//
//	import "github.com/cznethub/bblocktools/profiles"
//
//	reg, err := profiles.LoadRegistry("profiles.yaml")
//	if err != nil {
//		log.Fatal(err)
//	}
//	a := profiles.NewAssembler("_sources", "build", reg)
//	if err := a.AssembleAll(); err != nil {
//		log.Fatal(err)
//	}
//
// # Pipeline
//
// Source Schema Store -> Reference Resolver -> resolved document ->
// Composition Flattener (optional) -> Union Simplifier + Dialect Downgrader ->
// forms-ready document. The Consistency Checker (differ) runs orthogonally
// against the source store and never mutates it.
//
// The entire pipeline is a pure, synchronous tree transformation per profile.
// Each top-level resolution call allocates its own context and caches, so
// profiles may be assembled in parallel without synchronization.
//
// # Error Handling
//
// Fatal errors (parse failures, missing reference targets, true reference
// cycles) abort the affected profile's build; the pipeline never emits a
// partially resolved artifact. Structured error types live in the bberrors
// package and support errors.Is / errors.As. Lossy-but-accepted dialect
// downgrades are reported as conversion issues with severity levels rather
// than errors.
//
// # Command-Line Interface
//
//	# Resolve a single building block
//	bblocktools resolve -bblock dataDownload --flatten-allof -o resolved.json
//
//	# Convert resolved documents into forms-ready documents
//	bblocktools convert -all -in build/resolved -out build/jsonforms/profiles
//
//	# Full per-profile pipeline
//	bblocktools assemble -sources _sources -profiles profiles.yaml -out build
//
//	# Report drift between dual representations
//	bblocktools compare -sources _sources
//
// Install the CLI:
//
//	go install github.com/cznethub/bblocktools/cmd/bblocktools@latest
package bblocktools
