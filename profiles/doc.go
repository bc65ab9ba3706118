// Package profiles assembles complete per-profile schema artifacts from
// building-block sources.
//
// Import path: github.com/cznethub/bblocktools/profiles
//
// A profile names a building block to assemble and may extend a base
// profile: the overlay composes the base's already-assembled resolved
// document through a synthetic allOf, so nested overlays inherit the base's
// prior flattening. Each assembled profile yields two artifacts under the
// output directory:
//
//	resolved/<name>/schema.json           fully inlined, richer dialect
//	jsonforms/profiles/<name>/schema.json forms-ready, restricted dialect
//
// Per-profile restricted enumerations come from the allowed-codes table:
// a property's dropdown values are the intersection of the global catalog
// with the profile's entry, plus an always-legal generic subset. That
// intersection is the only place per-profile filtering logic lives.
//
// Artifacts are built fully in memory and written atomically; a failed
// build never replaces a previously valid artifact with a partial one.
package profiles
