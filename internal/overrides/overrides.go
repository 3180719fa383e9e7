// Package overrides holds the operator-supplied override table: package
// pins, variant renames, id prefixes and forced enum openness.
//
// The table is usually loaded by internal/config from the `overrides` key
// of .stripegen.yaml:
//
//	overrides:
//	  packages:
//	    tax.registration: misc
//	  variants:
//	    InvoiceStatus:
//	      void: Voided
//	  id_prefixes:
//	    invoice: [in_, ii_]
//	  open_enums:
//	    IssuingCardShippingStatus: true
package overrides

import (
	"fmt"

	"github.com/arlyon/async-stripe-sub040/internal/ir"
)

// Table is the override table. The zero value overrides nothing.
type Table struct {
	// Packages pins a component path to a package name.
	Packages map[string]string `mapstructure:"packages" yaml:"packages"`
	// Variants renames enum variants: enum ident -> wire value -> variant ident.
	Variants map[string]map[string]string `mapstructure:"variants" yaml:"variants"`
	// IDPrefixes sets the accepted id prefixes of a component.
	IDPrefixes map[string][]string `mapstructure:"id_prefixes" yaml:"id_prefixes"`
	// OpenEnums forces an enum ident open (true) or closed (false).
	OpenEnums map[string]bool `mapstructure:"open_enums" yaml:"open_enums"`
}

// Package returns the pinned package of a component.
func (t *Table) Package(path ir.ComponentPath) (string, bool) {
	if t == nil {
		return "", false
	}
	pkg, ok := t.Packages[string(path)]
	return pkg, ok && pkg != ""
}

// VariantIdent returns the renamed identifier of a variant.
func (t *Table) VariantIdent(enum ir.Ident, wire string) (ir.Ident, bool) {
	if t == nil {
		return "", false
	}
	name, ok := t.Variants[string(enum)][wire]
	if !ok || name == "" {
		return "", false
	}
	return ir.NewIdent(name), true
}

// Prefixes returns the overridden id prefixes of a component.
func (t *Table) Prefixes(path ir.ComponentPath) ([]string, bool) {
	if t == nil {
		return nil, false
	}
	p, ok := t.IDPrefixes[string(path)]
	return p, ok && len(p) > 0
}

// EnumOpen returns the forced openness of an enum.
func (t *Table) EnumOpen(enum ir.Ident) (open, ok bool) {
	if t == nil {
		return false, false
	}
	open, ok = t.OpenEnums[string(enum)]
	return open, ok
}

// Validate rejects entries that cannot be applied.
func (t *Table) Validate(packages []string) error {
	if t == nil {
		return nil
	}
	known := make(map[string]bool, len(packages))
	for _, p := range packages {
		known[p] = true
	}
	for path, pkg := range t.Packages {
		if len(known) > 0 && !known[pkg] {
			return fmt.Errorf("overrides: component %s pinned to unknown package %q", path, pkg)
		}
	}
	for path, prefixes := range t.IDPrefixes {
		for _, p := range prefixes {
			if p == "" {
				return fmt.Errorf("overrides: component %s has an empty id prefix", path)
			}
		}
	}
	return nil
}
