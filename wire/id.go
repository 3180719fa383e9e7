package wire

import "strings"

// HasIDPrefix reports whether s starts with one of prefixes and carries
// something after it. With no prefixes any non-empty string qualifies.
func HasIDPrefix(s string, prefixes ...string) bool {
	if len(prefixes) == 0 {
		return s != ""
	}
	for _, p := range prefixes {
		if strings.HasPrefix(s, p) && len(s) > len(p) {
			return true
		}
	}
	return false
}

// ParseID validates s as an id of type typ.
func ParseID[ID ~string](typ, s string, prefixes ...string) (ID, error) {
	if !HasIDPrefix(s, prefixes...) {
		return "", &InvalidIDError{Type: typ, Value: s, Prefixes: prefixes}
	}
	return ID(s), nil
}
