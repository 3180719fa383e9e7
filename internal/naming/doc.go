// Package naming provides shared case conversion utilities for stripegen packages.
//
// Schema names in the Stripe specification mix snake_case ("payment_intent"),
// dotted namespaces ("issuing.card") and occasional camelCase. Every function in
// this package first splits its input into words with [Words], so that all
// conversions agree on word boundaries:
//
//   - [ToPascalCase]: exported Go identifiers, with Go initialisms (ID, URL, ...)
//   - [ToCamelCase]: unexported Go identifiers
//   - [ToSnakeCase]: file names and wire-style names
//   - [EscapeKeyword]: Go keyword escaping
//
// As an internal package, these functions are not part of the public API
// and may change without notice.
package naming
