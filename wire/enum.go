package wire

import "slices"

// ParseEnum maps a wire string onto one of known. A closed enumeration
// rejects other values with an *UnknownVariantError; an open one keeps
// the value and warns through the package Logger.
func ParseEnum[E ~string](typ, s string, open bool, known ...E) (E, error) {
	e := E(s)
	if slices.Contains(known, e) {
		return e, nil
	}
	if !open {
		return "", UnknownVariant(typ, s)
	}
	WarnUnknown(typ, s)
	return e, nil
}

// Known reports whether e is one of known.
func Known[E ~string](e E, known ...E) bool {
	return slices.Contains(known, e)
}
