package naming

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// initialisms are rendered fully upper case in exported identifiers,
// following Go naming conventions.
var initialisms = map[string]string{
	"acss": "ACSS",
	"api":  "API",
	"bacs": "BACS",
	"html": "HTML",
	"http": "HTTP",
	"iban": "IBAN",
	"id":   "ID",
	"ids":  "IDs",
	"ip":   "IP",
	"json": "JSON",
	"pdf":  "PDF",
	"sepa": "SEPA",
	"sql":  "SQL",
	"ssn":  "SSN",
	"uri":  "URI",
	"url":  "URL",
	"urls": "URLs",
}

// goKeywords contains Go reserved keywords that cannot be used as identifiers.
var goKeywords = map[string]bool{
	"break": true, "case": true, "chan": true, "const": true, "continue": true,
	"default": true, "defer": true, "else": true, "fallthrough": true, "for": true,
	"func": true, "go": true, "goto": true, "if": true, "import": true,
	"interface": true, "map": true, "package": true, "range": true, "return": true,
	"select": true, "struct": true, "switch": true, "type": true, "var": true,
}

// title upper-cases the first letter of a word. Casers are stateful, so a
// fresh one is created per call.
func title(w string) string {
	return cases.Title(language.Und, cases.NoLower).String(w)
}

// Words splits s into lower-case words. Any rune that is not a letter or digit
// separates words, as does a lower-to-upper transition ("paymentIntent") and
// the end of an upper-case run followed by a lower-case letter ("APIClient").
// Example: "tax.registration" -> ["tax", "registration"]
// Example: "APIClient" -> ["api", "client"]
func Words(s string) []string {
	var words []string
	var current []rune

	flush := func() {
		if len(current) > 0 {
			words = append(words, strings.ToLower(string(current)))
			current = current[:0]
		}
	}

	runes := []rune(s)
	for i, r := range runes {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			flush()
			continue
		}
		if unicode.IsUpper(r) && len(current) > 0 {
			prev := runes[i-1]
			nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
			if unicode.IsLower(prev) || unicode.IsDigit(prev) || (unicode.IsUpper(prev) && nextLower) {
				flush()
			}
		}
		current = append(current, r)
	}
	flush()
	return words
}

// ToPascalCase converts a string to an exported Go identifier fragment.
// Go initialisms are upper-cased.
// Example: "payment_intent" -> "PaymentIntent"
// Example: "customer_id" -> "CustomerID"
func ToPascalCase(s string) string {
	var b strings.Builder
	for _, w := range Words(s) {
		if up, ok := initialisms[w]; ok {
			b.WriteString(up)
			continue
		}
		b.WriteString(title(w))
	}
	return b.String()
}

// ToCamelCase converts a string to an unexported Go identifier fragment.
// Example: "payment_intent" -> "paymentIntent"
// Example: "id" -> "id"
func ToCamelCase(s string) string {
	words := Words(s)
	if len(words) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString(words[0])
	for _, w := range words[1:] {
		if up, ok := initialisms[w]; ok {
			b.WriteString(up)
			continue
		}
		b.WriteString(title(w))
	}
	return b.String()
}

// ToSnakeCase converts a string to snake_case.
// Example: "TaxRegistration" -> "tax_registration"
// Example: "issuing.card" -> "issuing_card"
func ToSnakeCase(s string) string {
	return strings.Join(Words(s), "_")
}

// EscapeKeyword appends an underscore to Go keywords.
// The check is case-sensitive; exported names can never be keywords.
func EscapeKeyword(name string) string {
	if goKeywords[name] {
		return name + "_"
	}
	return name
}

// IsKeyword reports whether name is a Go keyword.
func IsKeyword(name string) bool {
	return goKeywords[name]
}

// StartWithLetter prefixes s with fallback when it does not begin with a letter.
// Example: StartWithLetter("3ds", "V") -> "V3ds"
func StartWithLetter(s, fallback string) string {
	if s == "" {
		return fallback
	}
	for _, r := range s {
		if unicode.IsLetter(r) {
			return s
		}
		break
	}
	return fallback + s
}

// Capitalize upper-cases the first rune of s, leaving the rest untouched.
// Example: "the customer" -> "The customer"
func Capitalize(s string) string {
	if s == "" {
		return ""
	}
	runes := []rune(s)
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}
