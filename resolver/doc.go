// Package resolver turns a modular building-block schema into a single
// self-contained document.
//
// Import path: github.com/cznethub/bblocktools/resolver
//
// Resolution replaces every $ref with the referenced content: relative file
// references (with or without a fragment) are loaded and resolved in their
// own file's context, and document-local fragment references into $defs are
// resolved with a two-pass scheme that permits acyclic cross-references
// between sibling definitions. True reference cycles across files fail with
// a [bberrors.ReferenceError] naming the full visited chain.
//
// Each top-level call allocates a fresh [Context] holding the visited chain
// and the per-call caches, so parallel resolutions never share state and
// output is deterministic regardless of build order.
//
// The package also hosts the composition flattener: [FlattenAllOf] merges
// allOf entries into their parent object using a replace-or-narrow heuristic
// for overlapping properties.
package resolver
