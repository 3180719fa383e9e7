// Package parser loads the Stripe OpenAPI document into an immutable,
// order-preserving model.
//
// Documents are decoded through yaml.Node trees so that component schemas,
// properties and operations keep the order they have in the source. Both
// JSON and YAML input are accepted.
//
// # Usage
//
//	doc, err := parser.ParseWithOptions(parser.WithFilePath("spec3.sdk.json"))
//	if err != nil {
//	    return err
//	}
//	for path, schema := range doc.ComponentSchemas() {
//	    fmt.Println(path, schema.Title)
//	}
//
// # References
//
// Only local component references ("#/components/schemas/<name>") are
// supported. A [Resolver] follows them lazily and reports circular chains
// as [oaserrors.ReferenceError] values instead of looping.
//
// # Versions
//
// Documents must declare an openapi version within [SupportedVersions].
package parser
