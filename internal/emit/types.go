package emit

import (
	"github.com/arlyon/async-stripe-sub040/internal/ir"
)

// typeExpr renders t as a Go type expression valid in the writer's package.
func (w *writer) typeExpr(t ir.Type) string {
	switch v := t.(type) {
	case *ir.Simple:
		return w.simple(v.Kind)
	case *ir.Compound:
		inner := w.typeExpr(v.Inner)
		switch v.Container {
		case ir.Option:
			if nilable(v.Inner) {
				return inner
			}
			return "*" + inner
		case ir.Box:
			return "*" + inner
		case ir.List:
			return "[]" + inner
		case ir.Map:
			return "map[string]" + inner
		case ir.Expandable:
			return w.wire() + ".Expandable[" + w.expandableID(v.Inner) + ", " + inner + "]"
		}
	case *ir.Ref:
		obj, err := w.e.component(v.Path)
		if err != nil {
			w.fail("", "%v", err)
			return "any"
		}
		return w.qualify(w.e.plan.TypesPackage(v.Path)) + obj.Ident().String()
	case *ir.HoistedRef:
		pkg, ok := w.hoistedPackage(v)
		if !ok {
			w.fail(v.Ident, "hoisted type %s not found in %s", v.Ident, v.Component)
			return "any"
		}
		return w.qualify(pkg) + v.Ident.String()
	case *ir.ObjectID:
		if expr, ok := w.idType(v.Path); ok {
			return expr
		}
		return "string"
	case *ir.InlineObject:
		return v.Meta.Ident.String()
	}
	w.fail("", "unsupported type %v", t)
	return "any"
}

func (w *writer) simple(k ir.SimpleKind) string {
	switch k {
	case ir.Bool:
		return "bool"
	case ir.Int64:
		return "int64"
	case ir.UInt64:
		return "uint64"
	case ir.Float64:
		return "float64"
	case ir.String:
		return "string"
	case ir.Timestamp:
		return w.wire() + ".Timestamp"
	case ir.Currency:
		return w.wire() + ".Currency"
	case ir.Date:
		return w.wire() + ".Date"
	default:
		return w.wire() + ".Value"
	}
}

// nilable reports whether the Go rendering of t already has a nil value.
func nilable(t ir.Type) bool {
	switch v := t.(type) {
	case *ir.Compound:
		return v.Container != ir.Expandable
	case *ir.Simple:
		return v.Kind == ir.JSON
	}
	return false
}

func (w *writer) qualify(pkg string) string {
	if pkg == w.pkg || pkg == "" {
		return ""
	}
	w.use(w.e.ImportPath(pkg))
	return pkg + "."
}

func (w *writer) hoistedPackage(h *ir.HoistedRef) (string, bool) {
	obj, err := w.e.component(h.Component)
	if err != nil {
		return "", false
	}
	d, ok := obj.Dedupped.Get(h.Ident)
	if !ok {
		return "", false
	}
	if d.Info.Kind == ir.KindRequest {
		return w.e.plan.HomePackage(h.Component), true
	}
	return w.e.plan.TypesPackage(h.Component), true
}

// idOwner returns the component defining the id newtype used by path.
func (e *Emitter) idOwner(path ir.ComponentPath) (*ir.StripeObject, bool) {
	obj, ok := e.objs.Get(path)
	if !ok {
		return nil, false
	}
	if obj.IDType != "" && obj.IDType != path {
		obj, ok = e.objs.Get(obj.IDType)
	}
	if !ok || !obj.HasOwnID() {
		return nil, false
	}
	return obj, true
}

func idIdent(owner *ir.StripeObject) ir.Ident {
	return owner.Ident() + "ID"
}

// idType renders the id newtype used by path.
func (w *writer) idType(path ir.ComponentPath) (string, bool) {
	owner, ok := w.e.idOwner(path)
	if !ok {
		return "", false
	}
	return w.qualify(w.e.plan.TypesPackage(owner.Path)) + idIdent(owner).String(), true
}

// getter reports the id owner when the component's type has a GetID method.
func (e *Emitter) getter(path ir.ComponentPath) (*ir.StripeObject, bool) {
	obj, ok := e.objs.Get(path)
	if !ok || obj.IDType == "" {
		return nil, false
	}
	st, ok := obj.Data.(*ir.Struct)
	if !ok {
		return nil, false
	}
	f := st.Field("id")
	if f == nil {
		return nil, false
	}
	if _, ok := ir.Unwrap(f.Type).(*ir.ObjectID); !ok {
		return nil, false
	}
	return e.idOwner(path)
}

// unionGetter reports the shared id owner of a union whose variants all
// have GetID.
func (e *Emitter) unionGetter(en *ir.Enum) (*ir.StripeObject, bool) {
	var owner *ir.StripeObject
	for _, v := range en.Variants {
		ref, ok := v.Inner.(*ir.Ref)
		if !ok {
			return nil, false
		}
		o, ok := e.getter(ref.Path)
		if !ok || (owner != nil && o.Path != owner.Path) {
			return nil, false
		}
		owner = o
	}
	return owner, owner != nil
}

// typeGetter reports the id owner of a type that exposes GetID.
func (e *Emitter) typeGetter(t ir.Type) (*ir.StripeObject, bool) {
	switch v := ir.Unwrap(t).(type) {
	case *ir.Ref:
		return e.getter(v.Path)
	case *ir.InlineObject:
		if en, ok := v.Data.(*ir.Enum); ok {
			return e.unionGetter(en)
		}
	}
	return nil, false
}

// expandableID renders the id type of an expandable target.
func (w *writer) expandableID(target ir.Type) string {
	switch v := ir.Unwrap(target).(type) {
	case *ir.Ref:
		if expr, ok := w.idType(v.Path); ok {
			return expr
		}
	case *ir.InlineObject:
		if en, ok := v.Data.(*ir.Enum); ok {
			var first ir.ComponentPath
			for _, vr := range en.Variants {
				ref, ok := vr.Inner.(*ir.Ref)
				if !ok {
					return "string"
				}
				owner, ok := w.e.idOwner(ref.Path)
				if !ok || (first != "" && owner.Path != first) {
					return "string"
				}
				first = owner.Path
			}
			if first != "" {
				expr, _ := w.idType(first)
				return expr
			}
		}
	}
	return "string"
}

// inlines returns the inline objects nested in types, depth first.
func inlines(types ...ir.Type) []*ir.InlineObject {
	var out []*ir.InlineObject
	for _, t := range types {
		ir.Walk(t, func(t ir.Type) bool {
			if io, ok := t.(*ir.InlineObject); ok {
				out = append(out, io)
			}
			return true
		})
	}
	return out
}

// objectInlines returns the inline objects nested in o.
func objectInlines(o ir.Object) []*ir.InlineObject {
	return inlines(ir.ObjectTypes(o)...)
}
