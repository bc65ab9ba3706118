package converter

import (
	"github.com/cznethub/bblocktools/bberrors"
	"github.com/cznethub/bblocktools/internal/issues"
	"github.com/cznethub/bblocktools/internal/severity"
	"github.com/cznethub/bblocktools/schema"
)

// FormsDialect is the $schema identifier of the renderer's dialect.
const FormsDialect = "http://json-schema.org/draft-07/schema#"

// Severity indicates the severity level of a conversion issue.
type Severity = severity.Severity

const (
	// SeverityInfo indicates informational messages about conversion choices.
	SeverityInfo = severity.SeverityInfo
	// SeverityWarning indicates lossy conversions or best-effort transformations.
	SeverityWarning = severity.SeverityWarning
	// SeverityCritical indicates constructs that cannot be converted (data loss).
	SeverityCritical = severity.SeverityCritical
)

// ConversionIssue represents a single conversion issue or limitation.
type ConversionIssue = issues.Issue

// ConversionResult contains the outcome of one schema conversion.
type ConversionResult struct {
	// Document is the forms-ready document.
	Document *schema.Value
	// Issues contains all conversion issues in the order they were found.
	Issues []ConversionIssue
	// InfoCount is the total number of info messages.
	InfoCount int
	// WarningCount is the total number of warnings.
	WarningCount int
	// CriticalCount is the total number of critical issues.
	CriticalCount int
	// Success is true if conversion completed without critical issues.
	Success bool
}

// HasCriticalIssues returns true if there are any critical issues.
func (r *ConversionResult) HasCriticalIssues() bool {
	return r.CriticalCount > 0
}

// HasWarnings returns true if there are any warnings.
func (r *ConversionResult) HasWarnings() bool {
	return r.WarningCount > 0
}

// Err returns a ConversionError describing the first critical issue, or nil
// when the conversion succeeded. profile names the profile being built and
// may be empty.
func (r *ConversionResult) Err(profile string) error {
	if !r.HasCriticalIssues() {
		return nil
	}
	for _, issue := range r.Issues {
		if issue.Severity == SeverityCritical {
			return &bberrors.ConversionError{
				Profile: profile,
				Path:    issue.Path,
				Message: issue.Message,
			}
		}
	}
	return nil
}

func (r *ConversionResult) record(issue ConversionIssue) {
	r.Issues = append(r.Issues, issue)
	switch issue.Severity {
	case SeverityInfo:
		r.InfoCount++
	case SeverityWarning:
		r.WarningCount++
	case SeverityCritical:
		r.CriticalCount++
	}
}

// Convert rewrites a fully resolved document into the forms dialect.
// The input is never mutated.
func Convert(doc *schema.Value) *ConversionResult {
	result := &ConversionResult{}

	if !doc.IsObject() {
		result.record(ConversionIssue{
			Message:  "document is not an object",
			Severity: SeverityCritical,
		})
		result.Document = doc.DeepCopy()
		return result
	}

	out := doc.DeepCopy()
	simplifyUnions(out, "", result)

	// The contains rewrite must run before the const rewrite: it detects
	// bare const/enum shapes, which the const rewrite destroys.
	rewriteContains(out, "", result)
	rewriteConst(out, "", result)
	dropUnsupported(out, "", result)

	if out.Has("$schema") {
		out.Set("$schema", schema.Str(FormsDialect))
	}

	result.Document = out
	result.Success = !result.HasCriticalIssues()
	return result
}

func joinPath(path, key string) string {
	if path == "" {
		return key
	}
	return path + "." + key
}
