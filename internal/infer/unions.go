package infer

import (
	"fmt"
	"strconv"

	"github.com/arlyon/async-stripe-sub040/internal/ir"
	"github.com/arlyon/async-stripe-sub040/internal/maputil"
	"github.com/arlyon/async-stripe-sub040/oaserrors"
	"github.com/arlyon/async-stripe-sub040/parser"
)

// DiscriminatorField is the wire field whose literal tags Stripe objects.
const DiscriminatorField = "object"

// inferUnion handles anyOf/oneOf. Null and empty-string branches make the
// result optional; the remaining branches pick one of the union shapes.
func (in *Inferrer) inferUnion(s *parser.Schema, branches []*parser.Schema, ctx Context) (ir.Type, error) {
	optional := s.Nullable
	var kept []*parser.Schema
	for _, b := range branches {
		switch {
		case b == nil:
			continue
		case b.IsEmptyStringLiteral(), b.Type == "null":
			optional = true
			continue
		case b.Nullable:
			optional = true
		}
		kept = append(kept, b)
	}
	if len(kept) == 0 {
		return nil, in.fail(ctx, "union has no usable branches", nil)
	}

	t, err := in.unionType(s, kept, ctx)
	if err != nil {
		return nil, err
	}
	if optional {
		return ir.Optional(t), nil
	}
	return t, nil
}

func (in *Inferrer) unionType(s *parser.Schema, kept []*parser.Schema, ctx Context) (ir.Type, error) {
	if refs, ok := in.expansion(s, kept, ctx); ok {
		target, err := in.expansionTarget(s, refs, ctx)
		if err != nil {
			return nil, err
		}
		return ir.Wrap(ir.Expandable, target), nil
	}
	if len(kept) == 1 {
		return in.Infer(kept[0], ctx)
	}
	if allRefs(kept) {
		return in.refUnion(s, kept, ctx)
	}
	if values, ok := allStringEnums(kept); ok {
		return in.enumObject(s, values, ctx), nil
	}
	return in.untagged(s, kept, ctx)
}

// expansion reports whether the union is an expandable reference: either it
// carries x-expansionResources, or the owner lists the field as expandable
// and the branches are one id string plus references.
func (in *Inferrer) expansion(s *parser.Schema, kept []*parser.Schema, ctx Context) ([]*parser.Schema, bool) {
	if len(s.ExpansionResources) > 0 {
		return s.ExpansionResources, true
	}
	if ctx.Owner == nil || !ctx.Owner.IsExpandable(ctx.Field) {
		return nil, false
	}
	var refs []*parser.Schema
	strs := 0
	for _, b := range kept {
		switch {
		case b.IsRef():
			refs = append(refs, b)
		case b.Type == "string" && len(b.Enum) == 0:
			strs++
		default:
			return nil, false
		}
	}
	return refs, strs == 1 && len(refs) > 0
}

func (in *Inferrer) expansionTarget(s *parser.Schema, refs []*parser.Schema, ctx Context) (ir.Type, error) {
	if len(refs) == 1 {
		return in.Infer(refs[0], ctx)
	}
	return in.refUnion(s, refs, ctx)
}

// refUnion builds a union of component references. When every component
// declares a distinct `object` literal the union is tagged by it; otherwise
// variants are tried in order.
func (in *Inferrer) refUnion(s *parser.Schema, refs []*parser.Schema, ctx Context) (ir.Type, error) {
	variants := make([]*ir.Variant, 0, len(refs))
	paths := make([]ir.ComponentPath, 0, len(refs))
	literals := make(map[string]bool, len(refs))
	tagged := true
	for _, r := range refs {
		t, err := in.inferRef(r, ctx)
		if err != nil {
			return nil, err
		}
		path := t.(*ir.Ref).Path
		target, _ := in.doc.Component(path)
		lit, ok := target.Property(DiscriminatorField).ConstString()
		if !ok || literals[lit] {
			tagged = false
		}
		literals[lit] = true
		paths = append(paths, path)
		variants = append(variants, &ir.Variant{Wire: lit, Ident: path.Ident(), Inner: t})
	}
	if !tagged {
		for i, v := range variants {
			v.Wire = string(paths[i])
		}
	}
	uniqueVariantIdents(variants)

	ident := in.objectIdent(s, ctx)
	enum := &ir.Enum{Variants: variants}
	if tagged {
		enum.Discriminator = DiscriminatorField
	}
	enum.Open = in.unionOpen(s, ident)
	return &ir.InlineObject{Data: enum, Meta: in.meta(s, ctx, ident)}, nil
}

// unionOpen applies the override table and the non-exhaustive annotation.
// Unions are never opened by variant count.
func (in *Inferrer) unionOpen(s *parser.Schema, ident ir.Ident) bool {
	if open, ok := in.opts.Overrides.EnumOpen(ident); ok {
		return open
	}
	return s.NonExhaustive
}

// untagged builds a union whose variants are tried in order. Branches that
// infer to the same type collapse; branches that share a JSON shape other
// than an object cannot be told apart and fail inference.
func (in *Inferrer) untagged(s *parser.Schema, kept []*parser.Schema, ctx Context) (ir.Type, error) {
	types := make([]ir.Type, 0, len(kept))
	for _, b := range kept {
		t, err := in.Infer(b, ctx)
		if err != nil {
			return nil, err
		}
		dup := false
		for _, prev := range types {
			if ir.Equal(prev, t) {
				dup = true
				break
			}
		}
		if !dup {
			types = append(types, t)
		}
	}
	if len(types) == 1 {
		return types[0], nil
	}

	shapes := make(map[string]bool, len(types))
	variants := make([]*ir.Variant, 0, len(types))
	for _, t := range types {
		shape := jsonShape(t)
		if shape != "object" && shapes[shape] {
			return nil, in.fail(ctx, fmt.Sprintf("union has incompatible branches sharing JSON shape %s", shape), oaserrors.ErrInferenceFailed)
		}
		shapes[shape] = true
		ident := variantIdentForType(t)
		variants = append(variants, &ir.Variant{Wire: ident.Snake(), Ident: ident, Inner: t})
	}
	uniqueVariantIdents(variants)

	ident := in.objectIdent(s, ctx)
	return &ir.InlineObject{
		Data: &ir.Enum{Variants: variants, Open: false},
		Meta: in.meta(s, ctx, ident),
	}, nil
}

func uniqueVariantIdents(variants []*ir.Variant) {
	seen := make(map[ir.Ident]bool, len(variants))
	for _, v := range variants {
		base := v.Ident
		for i := 2; seen[v.Ident]; i++ {
			v.Ident = ir.Ident(string(base) + strconv.Itoa(i))
		}
		seen[v.Ident] = true
	}
}

func variantIdentForType(t ir.Type) ir.Ident {
	switch v := ir.Unwrap(t).(type) {
	case *ir.Ref:
		return v.Path.Ident()
	case *ir.Simple:
		if v.Kind == ir.JSON {
			return "Value"
		}
		return ir.NewIdent(v.Kind.String())
	case *ir.Compound:
		return ir.NewIdent(v.Container.String())
	case *ir.InlineObject:
		switch v.Data.(type) {
		case *ir.FieldlessEnum:
			return "Enum"
		case *ir.Enum:
			return "Union"
		}
		return "Object"
	case *ir.ObjectID:
		return "ID"
	}
	return "Value"
}

// jsonShape classifies the JSON token a type decodes from.
func jsonShape(t ir.Type) string {
	switch v := ir.Unwrap(t).(type) {
	case *ir.Simple:
		switch v.Kind {
		case ir.Bool:
			return "bool"
		case ir.Int64, ir.UInt64, ir.Float64, ir.Timestamp:
			return "number"
		case ir.JSON:
			return "any"
		}
		return "string"
	case *ir.Compound:
		switch v.Container {
		case ir.List:
			return "array"
		case ir.Map:
			return "map"
		}
		return "object"
	case *ir.InlineObject:
		if _, ok := v.Data.(*ir.FieldlessEnum); ok {
			return "string"
		}
		return "object"
	case *ir.ObjectID:
		return "string"
	}
	return "object"
}

func allRefs(branches []*parser.Schema) bool {
	for _, b := range branches {
		if !b.IsRef() {
			return false
		}
	}
	return true
}

// allStringEnums merges the values of branches that are all string enums.
func allStringEnums(branches []*parser.Schema) ([]string, bool) {
	var values []string
	for _, b := range branches {
		if len(b.Enum) == 0 || (b.Type != "" && b.Type != "string") {
			return nil, false
		}
		values = append(values, b.Enum...)
	}
	return values, true
}

// inferAllOf merges the properties of every allOf member into one object.
func (in *Inferrer) inferAllOf(s *parser.Schema, ctx Context) (ir.Type, error) {
	if len(s.AllOf) == 1 && s.Properties.Len() == 0 {
		return in.Infer(s.AllOf[0], ctx)
	}
	merged := &parser.Schema{
		Type:        "object",
		Title:       s.Title,
		Description: s.Description,
		Properties:  maputil.NewOrdered[string, *parser.Schema](),
	}
	if err := in.mergeInto(merged, s, ctx); err != nil {
		return nil, err
	}
	return in.inferObject(merged, ctx)
}

func (in *Inferrer) mergeInto(dst, src *parser.Schema, ctx Context) error {
	for name, p := range src.Properties.All() {
		dst.Properties.Set(name, p)
	}
	dst.Required = append(dst.Required, src.Required...)
	dst.ExpandableFields = append(dst.ExpandableFields, src.ExpandableFields...)
	for _, member := range src.AllOf {
		target, path, err := in.resolver.Resolve(member)
		if err != nil {
			return in.fail(ctx, "allOf member", err)
		}
		if path != "" {
			if err := in.resolver.Enter(path); err != nil {
				return in.fail(ctx, "allOf member", err)
			}
		}
		err = in.mergeInto(dst, target, ctx)
		if path != "" {
			in.resolver.Leave(path)
		}
		if err != nil {
			return err
		}
	}
	return nil
}
