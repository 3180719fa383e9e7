package oaserrors

import (
	"errors"
	"fmt"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSpecError(t *testing.T) {
	t.Run("Error message with all fields", func(t *testing.T) {
		err := &SpecError{
			Path:    "spec3.sdk.json",
			Section: "components.schemas",
			Message: "section missing",
			Cause:   errors.New("underlying"),
		}
		assert.Equal(t, "spec malformed in spec3.sdk.json at components.schemas: section missing: underlying", err.Error())
	})

	t.Run("Error message with minimal fields", func(t *testing.T) {
		assert.Equal(t, "spec malformed", (&SpecError{}).Error())
	})

	t.Run("Is matches ErrSpecMalformed only", func(t *testing.T) {
		err := &SpecError{}
		assert.ErrorIs(t, err, ErrSpecMalformed)
		assert.NotErrorIs(t, err, ErrEmitterBug)
	})
}

func TestReferenceError(t *testing.T) {
	t.Run("circular", func(t *testing.T) {
		err := &ReferenceError{Ref: "#/components/schemas/item", Component: "item", IsCircular: true}
		assert.Equal(t, "circular reference: #/components/schemas/item (in item)", err.Error())
		assert.ErrorIs(t, err, ErrReference)
		assert.ErrorIs(t, err, ErrCircularReference)
	})

	t.Run("missing", func(t *testing.T) {
		err := &ReferenceError{Ref: "#/components/schemas/nope", Message: "not found"}
		assert.Equal(t, "reference error: #/components/schemas/nope: not found", err.Error())
		assert.ErrorIs(t, err, ErrReference)
		assert.NotErrorIs(t, err, ErrCircularReference)
	})
}

func TestComponentError(t *testing.T) {
	tests := []struct {
		name     string
		err      *ComponentError
		expected string
		sentinel error
		other    error
	}{
		{
			name:     "inference with field",
			err:      &ComponentError{Stage: StageInference, Component: "charge", Field: "source", Message: "incompatible union"},
			expected: "inference failed for charge at field source: incompatible union",
			sentinel: ErrInferenceFailed,
			other:    ErrAssemblyFailed,
		},
		{
			name:     "assembly with operation",
			err:      &ComponentError{Stage: StageAssembly, Component: "customer", Operation: "post /v1/customers/{customer}", Message: "placeholder mismatch"},
			expected: "assembly failed for customer (post /v1/customers/{customer}): placeholder mismatch",
			sentinel: ErrAssemblyFailed,
			other:    ErrInferenceFailed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.err.Error())
			assert.ErrorIs(t, tt.err, tt.sentinel)
			assert.NotErrorIs(t, tt.err, tt.other)
			assert.True(t, IsLocal(tt.err))
		})
	}
}

func TestDedupConflictError(t *testing.T) {
	err := &DedupConflictError{Component: "issuing.card", Ident: "CustomFieldLabel"}
	assert.Contains(t, err.Error(), "CustomFieldLabel")
	assert.ErrorIs(t, err, ErrDedupConflict)
	assert.True(t, IsLocal(err))
}

func TestEmitterAndIOErrors(t *testing.T) {
	emitErr := &EmitterError{Component: "invoice", Ident: "InvoiceStatus", Message: "template failed", Cause: errors.New("boom")}
	assert.Equal(t, "emitter bug in invoice (InvoiceStatus): template failed: boom", emitErr.Error())
	assert.ErrorIs(t, emitErr, ErrEmitterBug)
	assert.False(t, IsLocal(emitErr))

	ioErr := &IOError{Path: "out/core/customer.go", Op: "write", Cause: os.ErrPermission}
	assert.Equal(t, "io error during write of out/core/customer.go: permission denied", ioErr.Error())
	assert.ErrorIs(t, ioErr, ErrIO)
	assert.ErrorIs(t, ioErr, os.ErrPermission)
}

func TestConfigError(t *testing.T) {
	err := &ConfigError{Option: "open_enum_threshold", Value: -1, Message: "must be positive"}
	assert.Equal(t, "configuration error for open_enum_threshold (value: -1): must be positive", err.Error())
	assert.ErrorIs(t, err, ErrConfig)
}

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code int
	}{
		{"nil", nil, ExitOK},
		{"spec", &SpecError{}, ExitSpecMalformed},
		{"wrapped spec", fmt.Errorf("generator: %w", &SpecError{}), ExitSpecMalformed},
		{"reference", &ReferenceError{Ref: "#/x"}, ExitSpecMalformed},
		{"emitter", &EmitterError{}, ExitEmitterBug},
		{"io", &IOError{}, ExitIO},
		{"config", &ConfigError{}, ExitConfig},
		{"plain", errors.New("plain"), ExitFailure},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.code, ExitCode(tt.err))
		})
	}
}

func TestErrorsAs(t *testing.T) {
	wrapped := fmt.Errorf("outer: %w", &ComponentError{Stage: StageAssembly, Component: "price"})
	var compErr *ComponentError
	require.ErrorAs(t, wrapped, &compErr)
	assert.Equal(t, "price", compErr.Component)
	assert.Equal(t, "assembly", compErr.Stage.String())
}
