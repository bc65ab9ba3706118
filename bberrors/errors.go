package bberrors

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for use with errors.Is().
// These allow quick checks without type assertions.
var (
	// ErrParse indicates a parsing failure occurred.
	ErrParse = errors.New("parse error")

	// ErrReference indicates a reference resolution failure.
	ErrReference = errors.New("reference error")

	// ErrCircularReference indicates a circular $ref chain was detected.
	ErrCircularReference = errors.New("circular reference")

	// ErrMergeConflict indicates composition flattening yielded an invalid merge.
	ErrMergeConflict = errors.New("merge conflict")

	// ErrConversion indicates a forms-dialect conversion failure.
	ErrConversion = errors.New("conversion error")

	// ErrConfig indicates an invalid configuration.
	ErrConfig = errors.New("configuration error")
)

// ParseError represents a failure to parse a source schema document.
// This includes YAML/JSON deserialization errors and structural issues.
type ParseError struct {
	// Path is the file path or source identifier
	Path string
	// Line is the line number where the error occurred (0 if unknown)
	Line int
	// Column is the column number where the error occurred (0 if unknown)
	Column int
	// Message describes the parsing failure
	Message string
	// Cause is the underlying error, if any
	Cause error
}

// Error returns a human-readable error message.
func (e *ParseError) Error() string {
	msg := "parse error"
	if e.Path != "" {
		msg += " in " + e.Path
	}
	if e.Line > 0 {
		msg += fmt.Sprintf(" at line %d", e.Line)
		if e.Column > 0 {
			msg += fmt.Sprintf(", column %d", e.Column)
		}
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying cause for error chaining.
func (e *ParseError) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error type.
func (e *ParseError) Is(target error) bool {
	return target == ErrParse
}

// ReferenceError represents a failure to resolve a $ref.
// This includes missing target files, missing fragment paths, and circular
// reference chains.
type ReferenceError struct {
	// Ref is the reference string that failed to resolve
	Ref string
	// Source is the document the reference appeared in
	Source string
	// Pointer is the fragment path within the target, if any
	Pointer string
	// IsCircular is true if this error is due to a circular reference chain
	IsCircular bool
	// Chain holds the full visited chain for circular references,
	// from the outermost reference to the repeated one
	Chain []string
	// Message provides additional context about the failure
	Message string
	// Cause is the underlying error, if any
	Cause error
}

// Error returns a human-readable error message.
func (e *ReferenceError) Error() string {
	msg := "reference error"
	if e.IsCircular {
		msg = "circular reference"
	}
	if e.Ref != "" {
		msg += ": " + e.Ref
	}
	if e.Source != "" {
		msg += " in " + e.Source
	}
	if e.IsCircular && len(e.Chain) > 0 {
		msg += " (chain: " + strings.Join(e.Chain, " -> ") + ")"
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying cause for error chaining.
func (e *ReferenceError) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error type.
// Matches ErrReference, and also ErrCircularReference when the circular
// flag is set.
func (e *ReferenceError) Is(target error) bool {
	if target == ErrReference {
		return true
	}
	if target == ErrCircularReference && e.IsCircular {
		return true
	}
	return false
}

// MergeConflictError represents a composition merge that still produced an
// invalid result despite the replace-vs-merge heuristic. This is a defensive
// check and is expected never to fire on well-formed building blocks.
type MergeConflictError struct {
	// Path is the logical path to the merged property
	Path string
	// Keywords are the conflicting sibling keywords that survived the merge
	Keywords []string
	// Message describes the conflict
	Message string
}

// Error returns a human-readable error message.
func (e *MergeConflictError) Error() string {
	msg := "merge conflict"
	if e.Path != "" {
		msg += " at " + e.Path
	}
	if len(e.Keywords) > 0 {
		msg += ": conflicting keywords " + strings.Join(e.Keywords, ", ")
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	return msg
}

// Unwrap returns nil as MergeConflictError has no underlying cause.
func (e *MergeConflictError) Unwrap() error {
	return nil
}

// Is reports whether target matches this error type.
func (e *MergeConflictError) Is(target error) bool {
	return target == ErrMergeConflict
}

// ConversionError represents a failure during forms-dialect conversion.
type ConversionError struct {
	// Profile is the profile being converted, if known
	Profile string
	// Path is the logical path where conversion failed
	Path string
	// Message describes the conversion failure
	Message string
	// Cause is the underlying error, if any
	Cause error
}

// Error returns a human-readable error message.
func (e *ConversionError) Error() string {
	msg := "conversion error"
	if e.Profile != "" {
		msg += " for profile " + e.Profile
	}
	if e.Path != "" {
		msg += " at " + e.Path
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying cause for error chaining.
func (e *ConversionError) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error type.
func (e *ConversionError) Is(target error) bool {
	return target == ErrConversion
}

// ConfigError represents an invalid configuration or input.
// This includes invalid options, missing required inputs, and conflicting settings.
type ConfigError struct {
	// Option is the name of the problematic configuration option
	Option string
	// Value is the invalid value that was provided (may be nil)
	Value any
	// Message describes the configuration error
	Message string
	// Cause is the underlying error, if any
	Cause error
}

// Error returns a human-readable error message.
func (e *ConfigError) Error() string {
	msg := "configuration error"
	if e.Option != "" {
		msg += " for " + e.Option
	}
	if e.Value != nil {
		msg += fmt.Sprintf(" (value: %v)", e.Value)
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying cause for error chaining.
func (e *ConfigError) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error type.
func (e *ConfigError) Is(target error) bool {
	return target == ErrConfig
}
