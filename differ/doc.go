// Package differ checks the two independently authored representations of
// each building block for drift.
//
// Import path: github.com/cznethub/bblocktools/differ
//
// Many building blocks keep a schema.yaml next to a hand-maintained
// companion JSON schema. The differ reports where the two disagree:
// property-set differences, top-level type mismatches, required-field
// differences (including inside allOf entries), constraint value
// differences, and description drift beyond case and surrounding
// whitespace. Reference path spelling and the presence of a $defs map are
// legitimate representational choices and are never flagged.
//
// Findings are a report, not errors: the differ never mutates sources and
// drift alone never fails a build.
package differ
