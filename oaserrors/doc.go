// Package oaserrors provides structured error types for the stripegen generator.
//
// Import path: github.com/arlyon/async-stripe-sub040/oaserrors
//
// This package enables programmatic error handling via [errors.Is] and [errors.As],
// allowing callers to distinguish between the error categories of a generation
// run and to map fatal ones to process exit codes.
//
// # Error Types
//
//   - [SpecError]: the input document violates structural expectations
//   - [ReferenceError]: $ref resolution failures and circular references
//   - [ComponentError]: local inference or assembly failure
//   - [DedupConflictError]: two structures proposed the same hoisted identifier
//   - [EmitterError]: internal consistency violation while rendering
//   - [IOError]: output tree could not be written
//   - [ConfigError]: invalid configuration or input options
//
// # Sentinel Errors
//
//   - [ErrSpecMalformed]: Matches any [SpecError]
//   - [ErrReference]: Matches any [ReferenceError]
//   - [ErrCircularReference]: Matches [ReferenceError] with IsCircular=true
//   - [ErrInferenceFailed]: Matches [ComponentError] with StageInference
//   - [ErrAssemblyFailed]: Matches [ComponentError] with StageAssembly
//   - [ErrDedupConflict]: Matches any [DedupConflictError]
//   - [ErrEmitterBug]: Matches any [EmitterError]
//   - [ErrIO]: Matches any [IOError]
//   - [ErrConfig]: Matches any [ConfigError]
//
// # Usage Examples
//
//	result, err := generator.GenerateWithOptions(generator.WithFilePath("spec3.sdk.json"))
//	if err != nil {
//	    os.Exit(oaserrors.ExitCode(err))
//	}
//
// Extract error details with errors.As():
//
//	var compErr *oaserrors.ComponentError
//	if errors.As(err, &compErr) {
//	    fmt.Printf("skipped %s: %s\n", compErr.Component, compErr.Message)
//	}
package oaserrors
