package ir

import (
	"strings"

	"github.com/arlyon/async-stripe-sub040/internal/naming"
)

// Ident is a validated exported identifier in PascalCase.
// It always starts with a letter and contains no whitespace.
type Ident string

// NewIdent builds an identifier from a raw schema name in camelCase,
// snake_case, dotted or spaced form.
// Example: NewIdent("tax.registration") -> "TaxRegistration"
func NewIdent(raw string) Ident {
	return Ident(naming.StartWithLetter(naming.ToPascalCase(raw), "V"))
}

// JoinIdent appends a field name to a parent identifier.
// Example: JoinIdent("Invoice", "status") -> "InvoiceStatus"
func JoinIdent(parent Ident, field string) Ident {
	if parent == "" {
		return NewIdent(field)
	}
	return Ident(string(parent) + naming.ToPascalCase(field))
}

// String returns the exported Go form.
func (i Ident) String() string { return string(i) }

// Snake returns the snake_case form used for file names.
func (i Ident) Snake() string { return naming.ToSnakeCase(string(i)) }

// Unexported returns the camelCase form, escaped if it is a Go keyword.
func (i Ident) Unexported() string {
	return naming.EscapeKeyword(naming.ToCamelCase(string(i)))
}

// IsZero reports whether the identifier is empty.
func (i Ident) IsZero() bool { return i == "" }

// ComponentPath is the canonical name of a component in components.schemas,
// e.g. "customer" or "tax.registration". Paths order lexicographically.
type ComponentPath string

const schemaRefPrefix = "#/components/schemas/"

// ComponentPathFromRef converts "#/components/schemas/<name>" into a path.
// It reports false for references outside the components map.
func ComponentPathFromRef(ref string) (ComponentPath, bool) {
	name, ok := strings.CutPrefix(ref, schemaRefPrefix)
	if !ok || name == "" {
		return "", false
	}
	return ComponentPath(name), true
}

// Ref returns the $ref string pointing at this component.
func (p ComponentPath) Ref() string { return schemaRefPrefix + string(p) }

// String returns the path.
func (p ComponentPath) String() string { return string(p) }

// Ident returns the top-level identifier for the component.
func (p ComponentPath) Ident() Ident { return NewIdent(string(p)) }

// Snake returns the file-name form of the path.
// Example: "issuing.card" -> "issuing_card"
func (p ComponentPath) Snake() string { return naming.ToSnakeCase(string(p)) }

// Namespace returns the dotted prefix of the path, or "" when there is none.
// Example: "treasury.financial_account" -> "treasury"
func (p ComponentPath) Namespace() string {
	ns, _, ok := strings.Cut(string(p), ".")
	if !ok {
		return ""
	}
	return ns
}

// Namespace tracks identifiers in use across the generated output.
type Namespace interface {
	Taken(ident Ident) bool
	Reserve(idents ...Ident)
}

// IdentSet is a map-backed Namespace.
type IdentSet map[Ident]bool

// Taken reports whether ident is in the set.
func (s IdentSet) Taken(ident Ident) bool { return s[ident] }

// Reserve adds idents to the set.
func (s IdentSet) Reserve(idents ...Ident) {
	for _, i := range idents {
		s[i] = true
	}
}
