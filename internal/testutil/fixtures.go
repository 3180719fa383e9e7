// Package testutil provides fixtures shared by package tests.
package testutil

import (
	_ "embed"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arlyon/async-stripe-sub040/parser"
)

// StripeMini is a compact Stripe-shaped OpenAPI document. It covers
// expandable fields, deleted companions, object-discriminated unions, open
// and closed enums, duplicate inline objects, list responses, form and
// query parameters, a component with a dangling reference and an operation
// whose path parameter has no placeholder.
//
//go:embed testdata/stripe_mini.yaml
var StripeMini []byte

// StripeMiniPath is the fixture's name in errors and logs.
const StripeMiniPath = "stripe_mini.yaml"

// ParseStripeMini parses the StripeMini fixture, failing the test on error.
func ParseStripeMini(t testing.TB) *parser.Document {
	t.Helper()
	doc, err := parser.ParseWithOptions(
		parser.WithBytes(StripeMini),
		parser.WithSourceName(StripeMiniPath),
	)
	require.NoError(t, err)
	return doc
}

// ParseYAML parses an inline YAML document, failing the test on error.
func ParseYAML(t testing.TB, src string) *parser.Document {
	t.Helper()
	doc, err := parser.ParseWithOptions(parser.WithBytes([]byte(src)))
	require.NoError(t, err)
	return doc
}
