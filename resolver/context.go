package resolver

import (
	"path/filepath"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/cznethub/bblocktools/bberrors"
	"github.com/cznethub/bblocktools/schema"
)

const (
	// MaxCachedDocuments bounds the per-call parsed document cache.
	// Evicted entries are simply re-parsed on the next reference.
	MaxCachedDocuments = 100
)

// Context carries the state of one top-level resolution call: the visited
// reference chain used for cycle detection, a cache of fully resolved files,
// and a bounded cache of parsed-but-unresolved documents.
//
// A Context is never shared between top-level calls, so parallel resolutions
// stay isolated and deterministic.
type Context struct {
	// chain is the stack of canonical file paths currently being resolved.
	chain []string
	// inFlight marks the chain entries for O(1) cycle checks.
	inFlight map[string]bool
	// resolved caches fully resolved documents by canonical path.
	resolved map[string]*schema.Value
	// withDefs caches resolved documents with their $defs still present,
	// the base for cross-file fragment pointers.
	withDefs map[string]*schema.Value
	// docs caches parsed source documents by canonical path.
	docs *lru.Cache[string, *schema.Value]

	logger Logger
}

// NewContext allocates the state for one top-level resolution call.
func NewContext(logger Logger) *Context {
	if logger == nil {
		logger = NopLogger{}
	}
	// Size is a positive constant, so construction cannot fail.
	docs, _ := lru.New[string, *schema.Value](MaxCachedDocuments)
	return &Context{
		inFlight: make(map[string]bool),
		resolved: make(map[string]*schema.Value),
		withDefs: make(map[string]*schema.Value),
		docs:     docs,
		logger:   logger,
	}
}

// enter pushes a canonical path onto the visited chain, failing with a
// circular reference error when the path is already on it.
func (c *Context) enter(canonical string) error {
	if c.inFlight[canonical] {
		return &bberrors.ReferenceError{
			Ref:        canonical,
			IsCircular: true,
			Chain:      append(append([]string{}, c.chain...), canonical),
		}
	}
	c.inFlight[canonical] = true
	c.chain = append(c.chain, canonical)
	return nil
}

// leave pops the most recent entry off the visited chain.
func (c *Context) leave() {
	last := c.chain[len(c.chain)-1]
	c.chain = c.chain[:len(c.chain)-1]
	delete(c.inFlight, last)
}

// loadDoc parses the document at the canonical path, serving repeats from
// the per-call cache. The cached tree is never mutated; callers copy any
// content they embed into output.
func (c *Context) loadDoc(canonical string) (*schema.Value, error) {
	if doc, ok := c.docs.Get(canonical); ok {
		return doc, nil
	}
	doc, err := schema.ParseFile(canonical)
	if err != nil {
		return nil, err
	}
	c.docs.Add(canonical, doc)
	return doc, nil
}

// canonicalPath normalizes a path for cache keys and cycle detection.
func canonicalPath(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		return filepath.Clean(path)
	}
	return filepath.Clean(abs)
}
