// Package infer maps OpenAPI schema nodes to IR types.
//
// Inference is local: it sees one schema node plus a [Context] describing
// the component, the parent identifier and the field that led to the node.
// References stay nominal ([ir.Ref]); inline objects and enums become
// [ir.InlineObject] values. Identifiers handed out by one [Inferrer] are
// unique across every component it sees, so generated types can share a
// package without clashing.
package infer

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/arlyon/async-stripe-sub040/internal/ir"
	"github.com/arlyon/async-stripe-sub040/internal/overrides"
	"github.com/arlyon/async-stripe-sub040/oaserrors"
	"github.com/arlyon/async-stripe-sub040/parser"
)

// DefaultOpenEnumThreshold is the variant count above which an enum is open.
const DefaultOpenEnumThreshold = 12

// Options configure an Inferrer.
type Options struct {
	// OpenEnumThreshold opens enums with more variants than this.
	// Zero disables the threshold rule.
	OpenEnumThreshold int
	Overrides         *overrides.Table
}

// Context locates a schema node.
type Context struct {
	Component ir.ComponentPath
	// Owner is the object schema declaring Field, if any.
	Owner  *parser.Schema
	Parent ir.Ident
	Field  string
	Kind   ir.Kind
}

// child returns the context of a property of owner.
func (c Context) child(parent ir.Ident, owner *parser.Schema, field string) Context {
	return Context{Component: c.Component, Owner: owner, Parent: parent, Field: field, Kind: c.Kind}
}

// Inferrer converts schemas to IR.
//
// An Inferrer is not safe for concurrent use.
type Inferrer struct {
	doc      *parser.Document
	resolver *parser.Resolver
	opts     Options
	used     map[ir.Ident]bool
}

// New creates an Inferrer over doc.
func New(doc *parser.Document, opts Options) *Inferrer {
	if opts.OpenEnumThreshold < 0 {
		opts.OpenEnumThreshold = 0
	}
	return &Inferrer{
		doc:      doc,
		resolver: doc.NewResolver(),
		opts:     opts,
		used:     make(map[ir.Ident]bool),
	}
}

// Reserve marks idents as taken. Reserved idents are never handed out to
// inline objects.
func (in *Inferrer) Reserve(idents ...ir.Ident) {
	for _, ident := range idents {
		in.used[ident] = true
	}
}

// Taken reports whether ident has been handed out or reserved.
func (in *Inferrer) Taken(ident ir.Ident) bool {
	return in.used[ident]
}

// Unique reserves base, or base with the smallest free numeric suffix.
func (in *Inferrer) Unique(base ir.Ident) ir.Ident {
	return in.unique(base)
}

// InferComponent builds the object of a top-level component. The object
// takes the component's own identifier.
func (in *Inferrer) InferComponent(path ir.ComponentPath, s *parser.Schema) (ir.Object, error) {
	ident := path.Ident()
	ctx := Context{Component: path, Parent: ident, Kind: ir.KindType}
	if s.IsRef() || len(s.Union()) > 0 || len(s.AllOf) > 0 || len(s.Enum) > 0 {
		t, err := in.Infer(s, ctx)
		if err != nil {
			return nil, err
		}
		if obj, ok := ir.Unwrap(t).(*ir.InlineObject); ok {
			return obj.Data, nil
		}
		return nil, in.fail(ctx, fmt.Sprintf("component of shape %s is not an object", t), nil)
	}
	return in.InferStruct(s, ctx, ident)
}

// Resolver exposes the reference resolver.
func (in *Inferrer) Resolver() *parser.Resolver {
	return in.resolver
}

func (in *Inferrer) fail(ctx Context, msg string, cause error) error {
	return &oaserrors.ComponentError{
		Stage:     oaserrors.StageInference,
		Component: string(ctx.Component),
		Field:     ctx.Field,
		Message:   msg,
		Cause:     cause,
	}
}

// Infer maps s to an IR type. Optionality is not applied; see FieldType.
func (in *Inferrer) Infer(s *parser.Schema, ctx Context) (ir.Type, error) {
	if s == nil {
		return ir.NewSimple(ir.JSON), nil
	}
	if s.IsRef() {
		return in.inferRef(s, ctx)
	}
	if branches := s.Union(); len(branches) > 0 {
		return in.inferUnion(s, branches, ctx)
	}
	if len(s.AllOf) > 0 {
		return in.inferAllOf(s, ctx)
	}
	if len(s.Enum) > 0 && (s.Type == "" || s.Type == "string") {
		return in.enumObject(s, s.Enum, ctx), nil
	}

	switch s.Type {
	case "array":
		inner, err := in.Infer(s.Items, ctx)
		if err != nil {
			return nil, err
		}
		return ir.Wrap(ir.List, inner), nil
	case "object", "":
		return in.inferObject(s, ctx)
	case "string":
		return ir.NewSimple(stringKind(s, ctx.Field)), nil
	case "integer":
		return ir.NewSimple(integerKind(s, ctx.Field)), nil
	case "number":
		return ir.NewSimple(ir.Float64), nil
	case "boolean":
		return ir.NewSimple(ir.Bool), nil
	default:
		return nil, in.fail(ctx, fmt.Sprintf("unsupported schema type %q", s.Type), nil)
	}
}

// FieldType infers a property and wraps it in Option when the field is not
// required or admits null.
func (in *Inferrer) FieldType(s *parser.Schema, required bool, ctx Context) (ir.Type, error) {
	t, err := in.Infer(s, ctx)
	if err != nil {
		return nil, err
	}
	if !required || (s != nil && (s.Nullable || s.EnumHasNil)) {
		return ir.Optional(t), nil
	}
	return t, nil
}

func (in *Inferrer) inferRef(s *parser.Schema, ctx Context) (ir.Type, error) {
	path, ok := s.RefPath()
	if !ok {
		return nil, in.fail(ctx, "unsupported reference", &oaserrors.ReferenceError{Ref: s.Ref, Component: string(ctx.Component)})
	}
	if !in.resolver.Exists(path) {
		return nil, in.fail(ctx, "unresolved reference", &oaserrors.ReferenceError{
			Ref: s.Ref, Component: string(ctx.Component), Message: "component not found",
		})
	}
	return &ir.Ref{Path: path}, nil
}

func (in *Inferrer) inferObject(s *parser.Schema, ctx Context) (ir.Type, error) {
	if s.Properties.Len() > 0 {
		ident := in.objectIdent(s, ctx)
		st, err := in.InferStruct(s, ctx, ident)
		if err != nil {
			return nil, err
		}
		return &ir.InlineObject{Data: st, Meta: in.meta(s, ctx, ident)}, nil
	}
	if s.AdditionalProperties != nil {
		inner, err := in.Infer(s.AdditionalProperties, ctx)
		if err != nil {
			return nil, err
		}
		return ir.Wrap(ir.Map, inner), nil
	}
	return ir.NewSimple(ir.JSON), nil
}

// InferStruct builds the fields of an object schema. ident names the
// struct and prefixes the identifiers of nested inline objects.
func (in *Inferrer) InferStruct(s *parser.Schema, ctx Context, ident ir.Ident) (*ir.Struct, error) {
	st := &ir.Struct{}
	names := make(map[ir.Ident]bool)
	for name, ps := range s.Properties.All() {
		fctx := ctx.child(ident, s, name)
		f := &ir.Field{
			Name:       fieldIdent(name, names),
			WireName:   name,
			Required:   s.IsRequired(name),
			Expandable: s.IsExpandable(name),
		}
		if ps != nil {
			f.Doc = ps.Description
			f.Deprecated = ps.Deprecated
		}
		if _, ok := ps.ConstString(); ok && name == "object" {
			f.Type = ir.NewSimple(ir.String)
			f.Discriminator = true
			if !f.Required {
				f.Type = ir.Optional(f.Type)
			}
		} else {
			t, err := in.FieldType(ps, f.Required, fctx)
			if err != nil {
				return nil, err
			}
			f.Type = t
		}
		st.Fields = append(st.Fields, f)
	}
	return st, nil
}

func fieldIdent(wire string, seen map[ir.Ident]bool) ir.Ident {
	base := ir.NewIdent(wire)
	if base == "V" && wire == "" {
		base = "Empty"
	}
	ident := base
	for i := 2; seen[ident]; i++ {
		ident = ir.Ident(string(base) + strconv.Itoa(i))
	}
	seen[ident] = true
	return ident
}

func (in *Inferrer) meta(s *parser.Schema, ctx Context, ident ir.Ident) ir.ObjectMetadata {
	return ir.ObjectMetadata{
		Ident:     ident,
		Doc:       s.Description,
		Title:     s.Title,
		Parent:    ctx.Parent,
		FieldName: ctx.Field,
		Kind:      ctx.Kind,
	}
}

// objectIdent picks a unique identifier for an inline object: a
// non-generic title for response types, otherwise parent+field. A context
// without a field is a component root and keeps the parent's ident.
func (in *Inferrer) objectIdent(s *parser.Schema, ctx Context) ir.Ident {
	if ctx.Field == "" && ctx.Parent != "" {
		return ctx.Parent
	}
	if ctx.Kind == ir.KindType && !IsGenericTitle(s.Title) {
		if ident := ir.NewIdent(s.Title); !in.used[ident] {
			in.used[ident] = true
			return ident
		}
	}
	return in.unique(ir.JoinIdent(ctx.Parent, ctx.Field))
}

// unique reserves base, or base with the smallest free numeric suffix.
func (in *Inferrer) unique(base ir.Ident) ir.Ident {
	if base == "" {
		base = "Inline"
	}
	ident := base
	for i := 2; in.used[ident]; i++ {
		ident = ir.Ident(string(base) + strconv.Itoa(i))
	}
	in.used[ident] = true
	return ident
}

// IsGenericTitle reports titles that describe a schema's role rather than
// naming it: request-parameter titles, "optional_fields_*" helpers and
// lower-case snake_case names.
func IsGenericTitle(title string) bool {
	if title == "" {
		return true
	}
	if strings.HasSuffix(title, "_param") || strings.HasSuffix(title, "_params") ||
		strings.HasPrefix(title, "optional_fields_") {
		return true
	}
	return strings.ContainsRune(title, '_') && strings.ToLower(title) == title
}

func stringKind(s *parser.Schema, field string) ir.SimpleKind {
	switch s.Format {
	case "unix-time":
		return ir.Timestamp
	case "currency":
		return ir.Currency
	case "date":
		return ir.Date
	}
	if field == "currency" {
		return ir.Currency
	}
	return ir.String
}

func integerKind(s *parser.Schema, field string) ir.SimpleKind {
	if s.Format == "unix-time" {
		return ir.Timestamp
	}
	if s.Minimum != nil && *s.Minimum >= 0 {
		return ir.UInt64
	}
	if field == "count" || field == "quantity" || strings.HasSuffix(field, "_count") {
		return ir.UInt64
	}
	return ir.Int64
}
