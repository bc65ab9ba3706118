// Package bberrors provides structured error types for the bblocktools library.
//
// Import path: github.com/cznethub/bblocktools/bberrors
//
// This package enables programmatic error handling via [errors.Is] and [errors.As],
// allowing callers to distinguish between different categories of errors and implement
// appropriate recovery strategies.
//
// # Error Types
//
// The package provides five core error types:
//
//   - [ParseError]: YAML/JSON parsing failures in source schema documents
//   - [ReferenceError]: $ref resolution failures and circular reference chains
//   - [MergeConflictError]: composition flattening produced an invalid merge
//   - [ConversionError]: forms-dialect conversion failures
//   - [ConfigError]: Invalid configuration or input options
//
// # Sentinel Errors
//
// Each error type has a corresponding sentinel error for use with errors.Is():
//
//   - [ErrParse]: Matches any [ParseError]
//   - [ErrReference]: Matches any [ReferenceError]
//   - [ErrCircularReference]: Matches [ReferenceError] with IsCircular=true
//   - [ErrMergeConflict]: Matches any [MergeConflictError]
//   - [ErrConversion]: Matches any [ConversionError]
//   - [ErrConfig]: Matches any [ConfigError]
//
// # Usage
//
//	doc, err := resolver.New(sourcesDir).ResolveBlock("dataDownload")
//	if err != nil {
//	    var refErr *bberrors.ReferenceError
//	    if errors.As(err, &refErr) {
//	        if refErr.IsCircular {
//	            // Report the full reference chain to the schema author
//	        }
//	    }
//	}
//
// Consistency drift is intentionally not an error category: the differ
// reports findings in its result and never fails the build.
package bberrors
