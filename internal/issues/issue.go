// Package issues provides the issue type shared by conversion and profile
// assembly reporting.
package issues

import (
	"fmt"

	"github.com/cznethub/bblocktools/internal/severity"
)

// Issue represents a single problem or lossy transformation found while
// converting a schema to the forms dialect.
type Issue struct {
	// Path is the dotted path to the schema node (e.g., "properties.distribution").
	Path string
	// Keyword is the schema keyword the issue is about (e.g., "contains").
	Keyword string
	// Message is a human-readable description of the issue.
	Message string
	// Severity indicates the severity level of the issue.
	Severity severity.Severity
	// Value is the dropped or rewritten value, when useful for diagnosis.
	Value any
}

// String returns a formatted one-line representation of the issue.
// Uses different symbols based on severity level:
// - "✗" for Critical severity
// - "⚠" for Warning severity
// - "ℹ" for Info severity
func (i Issue) String() string {
	var symbol string
	switch i.Severity {
	case severity.SeverityCritical:
		symbol = "✗"
	case severity.SeverityWarning:
		symbol = "⚠"
	case severity.SeverityInfo:
		symbol = "ℹ"
	default:
		symbol = "?"
	}

	location := i.Path
	if location == "" {
		location = "(root)"
	}
	if i.Keyword != "" {
		location = fmt.Sprintf("%s [%s]", location, i.Keyword)
	}
	return fmt.Sprintf("%s %s: %s", symbol, location, i.Message)
}
