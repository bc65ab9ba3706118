// Package severity provides severity level constants for issues reported by
// the converter, profiles, and differ packages.
//
// The levels are ordered from least to most severe:
// Info < Warning < Critical.
package severity

// Severity indicates how serious a reported issue is.
type Severity int

const (
	// SeverityInfo indicates informational messages about processing choices.
	// These are non-actionable notices that may be useful for debugging.
	SeverityInfo Severity = iota

	// SeverityWarning indicates lossy conversions: a construct was dropped or
	// rewritten into a weaker form, and the artifact is still usable.
	SeverityWarning

	// SeverityCritical indicates a construct that cannot be converted at all.
	// A profile build with critical issues must not publish its artifacts.
	SeverityCritical
)

// String returns the string representation of the severity level.
func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "info"
	case SeverityWarning:
		return "warning"
	case SeverityCritical:
		return "critical"
	default:
		return "unknown"
	}
}
