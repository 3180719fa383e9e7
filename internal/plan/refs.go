package plan

import (
	"github.com/arlyon/async-stripe-sub040/internal/ir"
	"github.com/arlyon/async-stripe-sub040/internal/maputil"
)

// typeRefs returns the components referenced by obj's data and hoisted
// types, excluding obj itself.
func typeRefs(obj *ir.StripeObject) []ir.ComponentPath {
	seen := make(map[ir.ComponentPath]bool)
	visit := collect(obj.Path, seen)
	ir.WalkObject(obj.Data, visit)
	for _, d := range obj.Dedupped.All() {
		if d.Info.Kind == ir.KindType {
			ir.WalkObject(d.Object, visit)
		}
	}
	return maputil.SortedKeys(seen)
}

// requestRefs returns the components referenced by obj's requests and
// hoisted request types. obj itself is included when referenced.
func requestRefs(obj *ir.StripeObject) []ir.ComponentPath {
	seen := make(map[ir.ComponentPath]bool)
	visit := collect("", seen)
	for _, r := range obj.Requests {
		for _, pp := range r.PathParams {
			ir.Walk(pp.Type, visit)
		}
		ir.Walk(r.Params, visit)
		ir.Walk(r.Returned, visit)
	}
	for _, d := range obj.Dedupped.All() {
		if d.Info.Kind == ir.KindRequest {
			ir.WalkObject(d.Object, visit)
		}
	}
	return maputil.SortedKeys(seen)
}

func collect(self ir.ComponentPath, seen map[ir.ComponentPath]bool) func(ir.Type) bool {
	add := func(p ir.ComponentPath) {
		if p != self {
			seen[p] = true
		}
	}
	return func(t ir.Type) bool {
		switch v := t.(type) {
		case *ir.Ref:
			add(v.Path)
		case *ir.ObjectID:
			add(v.Path)
		case *ir.HoistedRef:
			add(v.Component)
		}
		return true
	}
}
