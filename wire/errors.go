package wire

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for use with errors.Is().
var (
	// ErrUnknownVariant indicates a closed enumeration met an undeclared value.
	ErrUnknownVariant = errors.New("wire: unknown variant")

	// ErrInvalidID indicates an id without an accepted prefix.
	ErrInvalidID = errors.New("wire: invalid id")

	// ErrIncomplete indicates a required key was absent.
	ErrIncomplete = errors.New("wire: incomplete object")

	// ErrNoVariant indicates no branch of an untagged union accepted the value.
	ErrNoVariant = errors.New("wire: no variant matched")

	// ErrNull indicates null for a field that is neither optional nor nullable.
	ErrNull = errors.New("wire: null for non-nullable field")
)

// UnknownVariantError is returned by closed enumerations and closed unions.
type UnknownVariantError struct {
	// Type is the generated type name
	Type string
	// Value is the rejected wire value
	Value string
}

// Error returns a human-readable error message.
func (e *UnknownVariantError) Error() string {
	return fmt.Sprintf("wire: unknown variant %q of %s", e.Value, e.Type)
}

// Is reports whether target matches this error type.
func (e *UnknownVariantError) Is(target error) bool {
	return target == ErrUnknownVariant
}

// UnknownVariant returns an *UnknownVariantError.
func UnknownVariant(typ, value string) error {
	return &UnknownVariantError{Type: typ, Value: value}
}

// InvalidIDError is returned when an id does not carry an accepted prefix.
type InvalidIDError struct {
	Type     string
	Value    string
	Prefixes []string
}

// Error returns a human-readable error message.
func (e *InvalidIDError) Error() string {
	if len(e.Prefixes) == 0 {
		return fmt.Sprintf("wire: invalid %s %q", e.Type, e.Value)
	}
	return fmt.Sprintf("wire: invalid %s %q: expected prefix %s", e.Type, e.Value, strings.Join(e.Prefixes, " or "))
}

// Is reports whether target matches this error type.
func (e *InvalidIDError) Is(target error) bool {
	return target == ErrInvalidID
}

// IncompleteError is returned when a builder finishes without a required key.
type IncompleteError struct {
	Type string
	// Missing lists the absent wire keys, when the builder reports them
	Missing []string
}

// Error returns a human-readable error message.
func (e *IncompleteError) Error() string {
	if len(e.Missing) == 0 {
		return "wire: incomplete " + e.Type
	}
	return fmt.Sprintf("wire: incomplete %s: missing %s", e.Type, strings.Join(e.Missing, ", "))
}

// Is reports whether target matches this error type.
func (e *IncompleteError) Is(target error) bool {
	return target == ErrIncomplete
}

// NoVariantError is returned when every branch of an untagged union fails.
type NoVariantError struct {
	Type string
	// Errs holds the error of each branch, in declaration order
	Errs []error
}

// Error returns a human-readable error message.
func (e *NoVariantError) Error() string {
	return fmt.Sprintf("wire: no variant of %s matched (%d tried)", e.Type, len(e.Errs))
}

// Unwrap returns the branch errors.
func (e *NoVariantError) Unwrap() []error {
	return e.Errs
}

// Is reports whether target matches this error type.
func (e *NoVariantError) Is(target error) bool {
	return target == ErrNoVariant
}
