package resolver

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/cznethub/bblocktools/bberrors"
	"github.com/cznethub/bblocktools/schema"
)

// DefaultStripKeys are the bookkeeping keys removed from resolved output
// unless KeepMetadata is set. Keys with the x-jsonld prefix are always
// stripped regardless of this set, as is $schema anywhere below the root.
var DefaultStripKeys = []string{"$id", "x-jsonld-prefixes", "x-jsonld-context", "x-jsonld-extra-terms"}

const placeholderPrefix = "unresolved fragment ref: "

// Resolver resolves building-block schemas into self-contained documents.
// The zero value is not usable; construct with [New].
type Resolver struct {
	// SourcesDir is the building-block source tree searched by ResolveBlock.
	SourcesDir string
	// KeepMetadata preserves $id, x-jsonld-*, and nested $schema keys.
	KeepMetadata bool
	// StripKeys overrides DefaultStripKeys. Ignored when KeepMetadata is set.
	StripKeys []string
	// FlattenAllOf merges allOf entries into single objects after resolution.
	FlattenAllOf bool
	// Logger receives resolution diagnostics. Defaults to NopLogger.
	Logger Logger
}

// New creates a Resolver over the given building-block sources directory.
func New(sourcesDir string) *Resolver {
	return &Resolver{
		SourcesDir: sourcesDir,
		Logger:     NopLogger{},
	}
}

// ResolveBlock resolves a building block by name, searching SourcesDir for
// its schema entry point.
func (r *Resolver) ResolveBlock(name string) (*schema.Value, error) {
	path, err := FindBlockSchema(r.SourcesDir, name)
	if err != nil {
		return nil, err
	}
	return r.ResolveFile(path)
}

// ResolveFile resolves an arbitrary schema file by path. Every $ref in the
// result has been replaced by the referenced content, metadata keys are
// stripped (unless KeepMetadata), and allOf entries are merged when
// FlattenAllOf is set.
func (r *Resolver) ResolveFile(path string) (*schema.Value, error) {
	logger := r.Logger
	if logger == nil {
		logger = NopLogger{}
	}
	ctx := NewContext(logger)

	canonical := canonicalPath(path)
	logger.Debug("resolving schema", "file", canonical)

	resolved, err := r.resolveFile(ctx, canonical)
	if err != nil {
		return nil, err
	}

	if !r.KeepMetadata {
		strip := stripSet(r.StripKeys)
		resolved = stripMetadata(resolved, strip, true)
	}
	if r.FlattenAllOf {
		resolved, err = FlattenAllOf(resolved)
		if err != nil {
			return nil, err
		}
	}
	return resolved, nil
}

// resolveFile loads and fully resolves one file, caching the result in the
// Context so each unique file is resolved at most once per top-level call.
func (r *Resolver) resolveFile(ctx *Context, canonical string) (*schema.Value, error) {
	if cached, ok := ctx.resolved[canonical]; ok {
		return cached.DeepCopy(), nil
	}
	if err := ctx.enter(canonical); err != nil {
		return nil, err
	}
	defer ctx.leave()

	doc, err := ctx.loadDoc(canonical)
	if err != nil {
		return nil, err
	}
	if !doc.IsObject() {
		return doc.DeepCopy(), nil
	}

	// Resolve $defs first so fragment-only refs can find them. Pass 1
	// resolves each definition with an empty local-defs context, leaving a
	// placeholder wherever one definition references a sibling. Pass 2
	// substitutes those placeholders from the now-populated map. Two tree
	// walks bound the work regardless of how the definitions reference
	// each other.
	defs := make(map[string]*schema.Value)
	var defOrder []string
	if rawDefs := doc.Field("$defs"); rawDefs.IsObject() {
		defOrder = rawDefs.Keys()
		for _, name := range defOrder {
			resolved, err := r.resolveNode(ctx, rawDefs.Field(name), canonical, nil, true)
			if err != nil {
				return nil, err
			}
			defs[name] = resolved
		}
		for _, name := range defOrder {
			inlined, err := r.inlineDefs(ctx, defs[name], canonical, defs)
			if err != nil {
				return nil, err
			}
			defs[name] = inlined
		}
	}

	resolved, err := r.resolveNode(ctx, doc, canonical, defs, false)
	if err != nil {
		return nil, err
	}
	// Keep the document with its resolved $defs available for cross-file
	// fragment refs, which point into the target before the removal.
	ctx.withDefs[canonical] = resolved

	// Definitions have been inlined everywhere they were referenced.
	stripped := resolved.DeepCopy()
	stripped.Delete("$defs")

	ctx.resolved[canonical] = stripped
	return stripped.DeepCopy(), nil
}

// resolveNode recursively replaces $ref constructs in node. src is the
// canonical path of the file the node came from; defs holds the file's
// resolved local definitions. When lenient is true, unresolvable local
// fragment refs become placeholders instead of errors (used for the $defs
// passes, where sibling definitions are not yet available).
func (r *Resolver) resolveNode(ctx *Context, node *schema.Value, src string, defs map[string]*schema.Value, lenient bool) (*schema.Value, error) {
	switch node.Kind() {
	case schema.KindObject:
		if ref, ok := schema.RefString(node); ok {
			return r.resolveRefNode(ctx, node, ref, src, defs, lenient)
		}
		out := schema.NewObject()
		for _, k := range node.Keys() {
			child, err := r.resolveNode(ctx, node.Field(k), src, defs, lenient)
			if err != nil {
				return nil, err
			}
			out.Set(k, child)
		}
		return out, nil

	case schema.KindArray:
		out := schema.NewArray()
		for _, item := range node.Items() {
			child, err := r.resolveNode(ctx, item, src, defs, lenient)
			if err != nil {
				return nil, err
			}
			out.Append(child)
		}
		return out, nil

	default:
		return node.DeepCopy(), nil
	}
}

// resolveRefNode resolves one object carrying a $ref, merging any sibling
// keys over the referenced content.
func (r *Resolver) resolveRefNode(ctx *Context, node *schema.Value, ref, src string, defs map[string]*schema.Value, lenient bool) (*schema.Value, error) {
	resolved, err := r.resolveRef(ctx, ref, src, defs, lenient)
	if err != nil {
		return nil, err
	}

	siblings := schema.NewObject()
	for _, k := range node.Keys() {
		if k == "$ref" {
			continue
		}
		siblings.Set(k, node.Field(k))
	}
	if siblings.Len() == 0 {
		return resolved, nil
	}

	resolvedSiblings, err := r.resolveNode(ctx, siblings, src, defs, lenient)
	if err != nil {
		return nil, err
	}
	if !resolved.IsObject() {
		ctx.logger.Warn("dropping sibling keys of non-object $ref target", "ref", ref, "file", src)
		return resolved, nil
	}
	return mergeValues(resolved, resolvedSiblings, "", false)
}

// resolveRef resolves a single $ref string to its referenced content.
func (r *Resolver) resolveRef(ctx *Context, ref, src string, defs map[string]*schema.Value, lenient bool) (*schema.Value, error) {
	parsed := schema.ParseRef(ref)

	// Remote references stay as-is; resolution is a local, offline process.
	if parsed.IsRemote() {
		ctx.logger.Debug("keeping remote reference", "ref", ref, "file", src)
		out := schema.NewObject()
		out.Set("$ref", schema.Str(ref))
		return out, nil
	}

	if parsed.IsLocal() {
		if name, ok := localDefName(parsed.Fragment); ok {
			if def, found := defs[name]; found {
				return def.DeepCopy(), nil
			}
		}
		if lenient {
			return placeholder(ref), nil
		}
		return nil, &bberrors.ReferenceError{
			Ref:     ref,
			Source:  src,
			Pointer: parsed.Fragment,
			Message: "fragment not found in local definitions",
		}
	}

	target := canonicalPath(filepath.Join(filepath.Dir(src), parsed.File))
	if _, err := os.Stat(target); err != nil {
		return nil, &bberrors.ReferenceError{
			Ref:     ref,
			Source:  src,
			Message: fmt.Sprintf("file not found: %s", target),
			Cause:   err,
		}
	}

	resolved, err := r.resolveFile(ctx, target)
	if err != nil {
		return nil, err
	}
	if parsed.Fragment == "" {
		return resolved, nil
	}
	base := ctx.withDefs[target]
	if base == nil {
		base = resolved
	}
	fragment, err := schema.ResolvePointer(base, parsed.Fragment)
	if err != nil {
		return nil, &bberrors.ReferenceError{
			Ref:     ref,
			Source:  src,
			Pointer: parsed.Fragment,
			Message: fmt.Sprintf("fragment not found in %s", target),
			Cause:   err,
		}
	}
	return fragment.DeepCopy(), nil
}

// inlineDefs is the second $defs pass: it substitutes the placeholders left
// by the first pass with the resolved sibling definitions, and resolves any
// leftover $ref now that the full definitions map is available. Substituted
// content is not walked again, which is what lets mutually referencing
// definitions terminate.
func (r *Resolver) inlineDefs(ctx *Context, node *schema.Value, src string, defs map[string]*schema.Value) (*schema.Value, error) {
	switch node.Kind() {
	case schema.KindObject:
		if name, ok := placeholderDefName(node); ok {
			if def, found := defs[name]; found {
				return def.DeepCopy(), nil
			}
		}
		if _, ok := schema.RefString(node); ok {
			return r.resolveNode(ctx, node, src, defs, true)
		}
		out := schema.NewObject()
		for _, k := range node.Keys() {
			child, err := r.inlineDefs(ctx, node.Field(k), src, defs)
			if err != nil {
				return nil, err
			}
			out.Set(k, child)
		}
		return out, nil

	case schema.KindArray:
		out := schema.NewArray()
		for _, item := range node.Items() {
			child, err := r.inlineDefs(ctx, item, src, defs)
			if err != nil {
				return nil, err
			}
			out.Append(child)
		}
		return out, nil

	default:
		return node, nil
	}
}

// localDefName extracts X from a fragment of the form /$defs/X.
func localDefName(fragment string) (string, bool) {
	parts := strings.Split(strings.TrimPrefix(fragment, "/"), "/")
	if len(parts) == 2 && parts[0] == "$defs" {
		return parts[1], true
	}
	return "", false
}

// placeholder builds the reversible marker used between the two $defs passes.
func placeholder(ref string) *schema.Value {
	out := schema.NewObject()
	out.Set("$comment", schema.Str(placeholderPrefix+ref))
	return out
}

// placeholderDefName recognizes a placeholder object and returns the sibling
// definition name it stands for.
func placeholderDefName(v *schema.Value) (string, bool) {
	if !v.IsObject() || v.Len() != 1 {
		return "", false
	}
	comment, ok := v.Field("$comment").AsString()
	if !ok || !strings.HasPrefix(comment, placeholderPrefix+"#/$defs/") {
		return "", false
	}
	return comment[strings.LastIndex(comment, "/")+1:], true
}

func stripSet(keys []string) map[string]bool {
	if keys == nil {
		keys = DefaultStripKeys
	}
	set := make(map[string]bool, len(keys))
	for _, k := range keys {
		set[k] = true
	}
	return set
}

// stripMetadata removes bookkeeping keys from the tree: everything in strip,
// any key with the x-jsonld prefix, and $schema below the root.
func stripMetadata(v *schema.Value, strip map[string]bool, isRoot bool) *schema.Value {
	switch v.Kind() {
	case schema.KindObject:
		out := schema.NewObject()
		for _, k := range v.Keys() {
			if strip[k] || strings.HasPrefix(k, "x-jsonld") {
				continue
			}
			if k == "$schema" && !isRoot {
				continue
			}
			out.Set(k, stripMetadata(v.Field(k), strip, false))
		}
		return out
	case schema.KindArray:
		out := schema.NewArray()
		for _, item := range v.Items() {
			out.Append(stripMetadata(item, strip, false))
		}
		return out
	default:
		return v
	}
}

// FindBlockSchema locates the schema entry point for a building block by
// name. The flat layout <sources>/<name>/schema.yaml|schema.json is checked
// first; otherwise the tree is searched for directories carrying a
// bblock.json sidecar whose name matches.
func FindBlockSchema(sourcesDir, name string) (string, error) {
	for _, base := range []string{"schema.yaml", "schema.json"} {
		flat := filepath.Join(sourcesDir, name, base)
		if _, err := os.Stat(flat); err == nil {
			return flat, nil
		}
	}

	var sidecars []string
	err := filepath.WalkDir(sourcesDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && d.Name() == "bblock.json" {
			sidecars = append(sidecars, path)
		}
		return nil
	})
	if err != nil {
		return "", &bberrors.ConfigError{
			Option:  "sources-dir",
			Value:   sourcesDir,
			Message: "cannot search sources directory",
			Cause:   err,
		}
	}
	sort.Strings(sidecars)
	for _, sidecar := range sidecars {
		dir := filepath.Dir(sidecar)
		if filepath.Base(dir) != name {
			continue
		}
		for _, base := range []string{"schema.yaml", "schema.json"} {
			candidate := filepath.Join(dir, base)
			if _, err := os.Stat(candidate); err == nil {
				return candidate, nil
			}
		}
	}

	return "", &bberrors.ConfigError{
		Option:  "bblock",
		Value:   name,
		Message: fmt.Sprintf("building block not found in %s", sourcesDir),
	}
}
