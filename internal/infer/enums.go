package infer

import (
	"strconv"

	"github.com/arlyon/async-stripe-sub040/internal/ir"
	"github.com/arlyon/async-stripe-sub040/parser"
)

// enumObject builds an inline string enumeration named <Owner><Field>.
func (in *Inferrer) enumObject(s *parser.Schema, values []string, ctx Context) *ir.InlineObject {
	ident := ctx.Parent
	if ctx.Field != "" || ident == "" {
		ident = in.unique(ir.JoinIdent(ctx.Parent, ctx.Field))
	}
	return &ir.InlineObject{
		Data: in.FieldlessEnum(s, values, ident),
		Meta: in.meta(s, ctx, ident),
	}
}

// FieldlessEnum builds the enumeration ident with the given wire values.
// Duplicate values are dropped; order is preserved.
func (in *Inferrer) FieldlessEnum(s *parser.Schema, values []string, ident ir.Ident) *ir.FieldlessEnum {
	return &ir.FieldlessEnum{
		Variants: in.stringVariants(ident, values),
		Open:     in.IsOpen(s, ident, len(dedupe(values))),
	}
}

func (in *Inferrer) stringVariants(enum ir.Ident, values []string) []*ir.Variant {
	values = dedupe(values)
	out := make([]*ir.Variant, 0, len(values))
	seen := make(map[ir.Ident]bool, len(values))
	for _, wire := range values {
		ident, ok := in.opts.Overrides.VariantIdent(enum, wire)
		if !ok {
			ident = VariantIdent(wire)
		}
		base := ident
		for i := 2; seen[ident]; i++ {
			ident = ir.Ident(string(base) + strconv.Itoa(i))
		}
		seen[ident] = true
		out = append(out, &ir.Variant{Wire: wire, Ident: ident})
	}
	return out
}

// VariantIdent derives a variant identifier from its wire string.
// The empty string, used by Stripe to unset fields, becomes Empty.
func VariantIdent(wire string) ir.Ident {
	if wire == "" {
		return "Empty"
	}
	return ir.NewIdent(wire)
}

// IsOpen decides whether an enumeration accepts unknown values. Rules apply
// in order: the override table, then the x-stripeBypassValidation and
// x-stripeNonExhaustive annotations, then the variant-count threshold.
func (in *Inferrer) IsOpen(s *parser.Schema, ident ir.Ident, variants int) bool {
	if open, ok := in.opts.Overrides.EnumOpen(ident); ok {
		return open
	}
	if s != nil && (s.BypassValidation || s.NonExhaustive) {
		return true
	}
	return in.opts.OpenEnumThreshold > 0 && variants > in.opts.OpenEnumThreshold
}

func dedupe(values []string) []string {
	seen := make(map[string]bool, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		if seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	return out
}
