package schema

import "strings"

// Reference is a parsed $ref string: an optional file part and an optional
// fragment (JSON Pointer) part.
type Reference struct {
	// File is the part before '#': a relative path, absolute path, or URL.
	// Empty for document-local references like "#/$defs/Identifier".
	File string
	// Fragment is the part after '#', without the '#' itself. Empty when the
	// reference addresses a whole document.
	Fragment string
}

// ParseRef splits a $ref string into its file and fragment parts.
func ParseRef(ref string) Reference {
	file, fragment, found := strings.Cut(ref, "#")
	if !found {
		return Reference{File: ref}
	}
	return Reference{File: file, Fragment: fragment}
}

// IsLocal reports whether the reference addresses the current document.
func (r Reference) IsLocal() bool { return r.File == "" }

// IsRemote reports whether the file part is an http or https URL. Remote
// references are left untouched by resolution.
func (r Reference) IsRemote() bool {
	return strings.HasPrefix(r.File, "http://") || strings.HasPrefix(r.File, "https://")
}

// String reassembles the reference into $ref form.
func (r Reference) String() string {
	if r.Fragment == "" {
		return r.File
	}
	return r.File + "#" + r.Fragment
}

// RefString returns the $ref value of v when v is an object whose $ref is a
// string, and reports whether it has one.
func RefString(v *Value) (string, bool) {
	if !v.IsObject() {
		return "", false
	}
	return v.Field("$ref").AsString()
}
