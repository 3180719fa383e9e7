// Package options provides shared utilities for option validation across packages.
package options

import "github.com/arlyon/async-stripe-sub040/oaserrors"

// ValidateSingleInputSource ensures exactly one input source is specified.
// sources is a variadic list of booleans indicating whether each source is set.
// noSourceMsg is the error message when no source is specified.
// multiSourceMsg is the error message when multiple sources are specified.
// The returned error is an *oaserrors.ConfigError for the "input" option.
func ValidateSingleInputSource(noSourceMsg, multiSourceMsg string, sources ...bool) error {
	count := 0
	for _, set := range sources {
		if set {
			count++
		}
	}

	switch {
	case count == 0:
		return &oaserrors.ConfigError{Option: "input", Message: noSourceMsg}
	case count > 1:
		return &oaserrors.ConfigError{Option: "input", Value: count, Message: multiSourceMsg}
	}
	return nil
}
