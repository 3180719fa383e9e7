// Package stripegen generates a typed Go client for the Stripe API from the
// Stripe OpenAPI document.
//
// The generator reads spec3.sdk.json (or any document with the same Stripe
// extensions), infers a Go type for every component schema and writes one
// package per feature area. Each component file holds the struct or enum,
// its id newtype, the hoisted inline types and a request builder for every
// operation attached to the component.
//
// # Packages
//
//   - generator: the end-to-end pipeline and output writer
//   - parser: loading the OpenAPI document
//   - wire: the runtime imported by generated code (streaming decode,
//     id newtypes, expandable fields, pagination)
//   - oaserrors: error categories and CLI exit codes
//
// # Quick Start
//
//	result, err := generator.GenerateWithOptions(
//		generator.WithFilePath("spec3.sdk.json"),
//		generator.WithModulePath("github.com/acme/stripe"),
//		generator.WithOutputDir("./stripe"),
//	)
//
// The stripegen command wraps the same pipeline:
//
//	stripegen generate --spec spec3.sdk.json --out ./stripe --module github.com/acme/stripe
//
// Generated code depends only on the wire package and the standard library
// plus github.com/go-json-experiment/json.
package stripegen
