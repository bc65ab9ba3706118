// Package converter rewrites a fully resolved schema into the restricted
// dialect understood by the dynamic form renderer.
//
// Import path: github.com/cznethub/bblocktools/converter
//
// Conversion runs two stages over a copy of the input:
//
//  1. Union simplification: anyOf unions of object branches are flattened
//     into one merged object whose discriminator enumerations are the union
//     of every branch's allowed values, while oneOf unions are preserved as
//     explicit alternatives with sibling narrowing constraints pushed into
//     each branch.
//  2. Dialect downgrade: membership-test constraints on arrays become items
//     enumerations with a default, fixed-value constraints become a
//     single-value enumeration plus default, and constructs the renderer
//     cannot express (tuple items, closed objects, negation) are dropped.
//
// The two const-related rewrites are order-sensitive: the contains rewrite
// must see the original const shape, so it always runs first.
//
// Every drop or rewrite is recorded as a [ConversionIssue] on the
// [ConversionResult]; critical issues mark the result unsuccessful.
package converter
