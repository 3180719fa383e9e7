// Package severity provides severity level constants and utilities
// for issues reported while generating a client.
//
//   - SeverityInfo: Informational messages about choices made (hoisted types, open enums)
//   - SeverityWarning: A component, request or structure was skipped or left inline
//   - SeverityError: The run produced output that is known to be incomplete
//   - SeverityCritical: The run could not produce output
//
// The severity levels are ordered from least to most severe:
// Info < Warning < Error < Critical
package severity

import "fmt"

// Severity indicates the severity level of an issue found during generation.
type Severity int

const (
	// SeverityError indicates output known to be incomplete.
	SeverityError Severity = iota

	// SeverityWarning indicates a unit that was skipped or left unoptimised.
	SeverityWarning

	// SeverityInfo indicates informational messages about processing choices.
	SeverityInfo

	// SeverityCritical indicates the run could not produce output.
	SeverityCritical
)

// String returns the string representation of the severity level.
func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "info"
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	case SeverityCritical:
		return "critical"
	default:
		return "unknown"
	}
}

// Rank orders severities from least (0) to most severe (3).
// Unknown values rank below info.
func (s Severity) Rank() int {
	switch s {
	case SeverityInfo:
		return 0
	case SeverityWarning:
		return 1
	case SeverityError:
		return 2
	case SeverityCritical:
		return 3
	default:
		return -1
	}
}

// AtLeast reports whether s is as severe as other or more.
func (s Severity) AtLeast(other Severity) bool {
	return s.Rank() >= other.Rank()
}

// Parse converts a severity name into a Severity.
func Parse(name string) (Severity, error) {
	switch name {
	case "info":
		return SeverityInfo, nil
	case "warning", "warn":
		return SeverityWarning, nil
	case "error":
		return SeverityError, nil
	case "critical":
		return SeverityCritical, nil
	default:
		return SeverityInfo, fmt.Errorf("severity: unknown level %q", name)
	}
}
