package parser

import (
	"fmt"

	"github.com/hashicorp/go-version"
)

// SupportedVersions is the range of OpenAPI versions the generator accepts.
const SupportedVersions = ">= 3.0.0, < 3.2.0"

var supportedConstraint = version.MustConstraints(version.NewConstraint(SupportedVersions))

// checkVersion parses the declared openapi version and verifies that it is
// supported.
func checkVersion(declared string) (*version.Version, error) {
	if declared == "" {
		return nil, fmt.Errorf("missing openapi version field")
	}
	v, err := version.NewVersion(declared)
	if err != nil {
		return nil, fmt.Errorf("invalid openapi version %q: %w", declared, err)
	}
	if !supportedConstraint.Check(v) {
		return nil, fmt.Errorf("openapi version %s is not supported (want %s)", declared, SupportedVersions)
	}
	return v, nil
}
