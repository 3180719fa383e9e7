// Package issues provides the issue type collected while generating a client.
package issues

import (
	"errors"
	"fmt"

	"github.com/arlyon/async-stripe-sub040/internal/severity"
)

// Issue represents a single problem or notice found during generation.
type Issue struct {
	// Component is the component path the issue belongs to (empty for run-level issues)
	Component string
	// Operation identifies the operation ("get /v1/customers"), if any
	Operation string
	// Path is the dotted location inside the component (e.g., "fields.address")
	Path string
	// Message is a human-readable description of the issue
	Message string
	// Severity indicates the severity level of the issue
	Severity severity.Severity
	// Err is the categorised error behind the issue, if any
	Err error
}

// Location returns the most specific location known for the issue.
func (i Issue) Location() string {
	loc := i.Component
	if i.Operation != "" {
		if loc != "" {
			loc += " "
		}
		loc += "[" + i.Operation + "]"
	}
	if i.Path != "" {
		if loc != "" {
			loc += "."
		}
		loc += i.Path
	}
	if loc == "" {
		return "(run)"
	}
	return loc
}

// String returns a formatted string representation of the issue.
// Uses different symbols based on severity level:
// - "✗" for Error or Critical severity
// - "⚠" for Warning severity
// - "ℹ" for Info severity
func (i Issue) String() string {
	return fmt.Sprintf("%s %s: %s", Symbol(i.Severity), i.Location(), i.Message)
}

// Symbol returns the marker used when printing an issue of the given severity.
func Symbol(s severity.Severity) string {
	switch s {
	case severity.SeverityError, severity.SeverityCritical:
		return "✗"
	case severity.SeverityWarning:
		return "⚠"
	case severity.SeverityInfo:
		return "ℹ"
	default:
		return "?"
	}
}

// Is reports whether the error behind the issue matches target.
func (i Issue) Is(target error) bool {
	return i.Err != nil && errors.Is(i.Err, target)
}

// Counts tallies issues per severity.
type Counts struct {
	Info     int
	Warning  int
	Error    int
	Critical int
}

// Count tallies the given issues by severity.
func Count(list []Issue) Counts {
	var c Counts
	for _, issue := range list {
		switch issue.Severity {
		case severity.SeverityInfo:
			c.Info++
		case severity.SeverityWarning:
			c.Warning++
		case severity.SeverityError:
			c.Error++
		case severity.SeverityCritical:
			c.Critical++
		}
	}
	return c
}
