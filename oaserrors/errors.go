// Package oaserrors provides structured error types for stripegen.
//
// These error types enable programmatic error handling via errors.Is() and
// errors.As(), allowing callers to distinguish between the error categories of
// a generation run and to decide whether the run can continue.
//
// # Error Categories
//
//   - SpecError: the input document violates structural expectations
//   - ReferenceError: $ref resolution failures and circular references
//   - ComponentError: inference or assembly failed for one component or request
//   - DedupConflictError: two structures proposed the same hoisted name
//   - EmitterError: an internal consistency violation while rendering
//   - IOError: writing the output tree failed
//   - ConfigError: invalid configuration or input options
//
// # Propagation
//
// Component errors and dedup conflicts are local: the driver records them as
// issues and skips the unit. Spec, emitter and I/O errors abort the run.
package oaserrors

import (
	"errors"
	"fmt"
)

// Sentinel errors for use with errors.Is().
// These allow quick checks without type assertions.
var (
	// ErrSpecMalformed indicates the input document is not usable.
	ErrSpecMalformed = errors.New("spec malformed")

	// ErrReference indicates a reference resolution failure.
	ErrReference = errors.New("reference error")

	// ErrCircularReference indicates a circular $ref was detected.
	ErrCircularReference = errors.New("circular reference")

	// ErrInferenceFailed indicates a schema shape has no IR representation.
	ErrInferenceFailed = errors.New("inference failed")

	// ErrAssemblyFailed indicates a component or operation could not be assembled.
	ErrAssemblyFailed = errors.New("assembly failed")

	// ErrDedupConflict indicates two structures proposed the same hoisted ident.
	ErrDedupConflict = errors.New("dedup conflict")

	// ErrEmitterBug indicates an internal consistency violation during emission.
	ErrEmitterBug = errors.New("emitter bug")

	// ErrIO indicates writing the output failed.
	ErrIO = errors.New("io error")

	// ErrConfig indicates an invalid configuration.
	ErrConfig = errors.New("configuration error")
)

// SpecError represents an input document that violates structural expectations,
// such as a missing components section or an unsupported OpenAPI version.
type SpecError struct {
	// Path is the file path or source identifier
	Path string
	// Section is the document section at fault (e.g., "components.schemas")
	Section string
	// Message describes the problem
	Message string
	// Cause is the underlying error, if any
	Cause error
}

// Error returns a human-readable error message.
func (e *SpecError) Error() string {
	msg := "spec malformed"
	if e.Path != "" {
		msg += " in " + e.Path
	}
	if e.Section != "" {
		msg += " at " + e.Section
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
func (e *SpecError) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error type.
func (e *SpecError) Is(target error) bool {
	return target == ErrSpecMalformed
}

// ReferenceError represents a failure to resolve a $ref.
type ReferenceError struct {
	// Ref is the reference string that failed to resolve
	Ref string
	// Component is the component whose schema contained the reference
	Component string
	// IsCircular is true if this error is due to a circular reference
	IsCircular bool
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
	if e.Component != "" {
		msg += " (in " + e.Component + ")"
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
// Matches ErrReference, and also ErrCircularReference when IsCircular is set.
func (e *ReferenceError) Is(target error) bool {
	if target == ErrReference {
		return true
	}
	return target == ErrCircularReference && e.IsCircular
}

// Stage identifies the pipeline stage that produced a ComponentError.
type Stage int

const (
	// StageInference marks failures while mapping schemas to IR types.
	StageInference Stage = iota
	// StageAssembly marks failures while assembling objects or requests.
	StageAssembly
)

// String returns the stage name.
func (s Stage) String() string {
	switch s {
	case StageInference:
		return "inference"
	case StageAssembly:
		return "assembly"
	default:
		return "unknown"
	}
}

// ComponentError represents a failure local to one component or operation.
// The driver records it and skips the unit; the run continues.
type ComponentError struct {
	// Stage is the pipeline stage that failed
	Stage Stage
	// Component is the component path, if known
	Component string
	// Operation identifies the operation ("post /v1/customers"), if any
	Operation string
	// Field is the field name that led to the failure, if any
	Field string
	// Message describes the failure
	Message string
	// Cause is the underlying error, if any
	Cause error
}

// Error returns a human-readable error message.
func (e *ComponentError) Error() string {
	msg := e.Stage.String() + " failed"
	if e.Component != "" {
		msg += " for " + e.Component
	}
	if e.Operation != "" {
		msg += " (" + e.Operation + ")"
	}
	if e.Field != "" {
		msg += " at field " + e.Field
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
func (e *ComponentError) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error type.
func (e *ComponentError) Is(target error) bool {
	switch e.Stage {
	case StageInference:
		return target == ErrInferenceFailed
	case StageAssembly:
		return target == ErrAssemblyFailed
	default:
		return false
	}
}

// DedupConflictError reports two distinct structures that derived the same
// hoisted identifier. The deduplicator leaves both inline.
type DedupConflictError struct {
	// Component is the component being deduplicated
	Component string
	// Ident is the contested identifier
	Ident string
}

// Error returns a human-readable error message.
func (e *DedupConflictError) Error() string {
	return fmt.Sprintf("dedup conflict in %s: ident %s proposed by distinct structures", e.Component, e.Ident)
}

// Is reports whether target matches this error type.
func (e *DedupConflictError) Is(target error) bool {
	return target == ErrDedupConflict
}

// EmitterError represents an internal consistency violation found while
// rendering. It is fatal to the run.
type EmitterError struct {
	// Component is the component being rendered
	Component string
	// Ident is the identifier being rendered, if any
	Ident string
	// Message describes the violation
	Message string
	// Cause is the underlying error, if any
	Cause error
}

// Error returns a human-readable error message.
func (e *EmitterError) Error() string {
	msg := "emitter bug"
	if e.Component != "" {
		msg += " in " + e.Component
	}
	if e.Ident != "" {
		msg += " (" + e.Ident + ")"
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
func (e *EmitterError) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error type.
func (e *EmitterError) Is(target error) bool {
	return target == ErrEmitterBug
}

// IOError represents a failure writing the output tree.
type IOError struct {
	// Path is the file or directory being written
	Path string
	// Op is the operation that failed ("mkdir", "write", "remove")
	Op string
	// Cause is the underlying error
	Cause error
}

// Error returns a human-readable error message.
func (e *IOError) Error() string {
	msg := "io error"
	if e.Op != "" {
		msg += " during " + e.Op
	}
	if e.Path != "" {
		msg += " of " + e.Path
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying cause for error chaining.
func (e *IOError) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error type.
func (e *IOError) Is(target error) bool {
	return target == ErrIO
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

// Exit codes returned by the CLI for each fatal category.
const (
	ExitOK            = 0
	ExitFailure       = 1
	ExitSpecMalformed = 2
	ExitEmitterBug    = 3
	ExitIO            = 4
	ExitConfig        = 5
)

// ExitCode maps an error to the process exit code for its category.
// A nil error maps to ExitOK; uncategorised errors map to ExitFailure.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitOK
	case errors.Is(err, ErrSpecMalformed), errors.Is(err, ErrReference):
		return ExitSpecMalformed
	case errors.Is(err, ErrEmitterBug):
		return ExitEmitterBug
	case errors.Is(err, ErrIO):
		return ExitIO
	case errors.Is(err, ErrConfig):
		return ExitConfig
	default:
		return ExitFailure
	}
}

// IsLocal reports whether err belongs to a category that only affects a
// single unit (inference, assembly, dedup) and should not abort the run.
func IsLocal(err error) bool {
	return errors.Is(err, ErrInferenceFailed) ||
		errors.Is(err, ErrAssemblyFailed) ||
		errors.Is(err, ErrDedupConflict)
}
