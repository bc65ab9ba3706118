// Package schema provides the recursive value tree that the whole pipeline
// operates on, plus parsing, ordered marshalling, JSON Pointer traversal,
// and $ref string handling.
//
// A [Value] is a tagged union of three kinds: object (an ordered mapping of
// key to child value), array (a sequence of child values), and scalar
// (string, integer, float, boolean, or null). Source documents are decoded
// from YAML or JSON via yaml.Node so that object key order survives the
// round trip; artifacts are emitted with the same ordering.
//
// Every transformation in resolver, converter, profiles, and differ is an
// explicit recursive walk over this single type, dispatched on kind and on
// keyword presence. There is no separate AST.
package schema
