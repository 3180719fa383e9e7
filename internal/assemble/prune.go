package assemble

import (
	"fmt"

	"github.com/arlyon/async-stripe-sub040/internal/ir"
)

// prune drops requests and components that reference components missing
// from objs, repeating until nothing changes. It returns the number of
// requests dropped.
func (a *Assembler) prune(objs *ir.Components) int {
	dropped := 0
	for changed := true; changed; {
		changed = false
		for _, path := range objs.Keys() {
			obj, ok := objs.Get(path)
			if !ok {
				continue
			}

			kept := obj.Requests[:0]
			for _, req := range obj.Requests {
				if missing, ok := missingRef(objs, requestTypes(req)); ok {
					a.report(path, req.Operation(), assemblyError(path, req.Operation(),
						fmt.Sprintf("references skipped component %s", missing), nil))
					dropped++
					changed = true
					continue
				}
				kept = append(kept, req)
			}
			obj.Requests = kept

			if missing, ok := missingRef(objs, objectTypes(obj)); ok {
				a.report(path, "", assemblyError(path, "",
					fmt.Sprintf("references skipped component %s", missing), nil))
				dropped += len(obj.Requests)
				objs.Delete(path)
				changed = true
			}
		}
	}
	return dropped
}

func missingRef(objs *ir.Components, walk func(func(ir.Type) bool)) (ir.ComponentPath, bool) {
	var missing ir.ComponentPath
	walk(func(t ir.Type) bool {
		if missing != "" {
			return false
		}
		var path ir.ComponentPath
		switch v := t.(type) {
		case *ir.Ref:
			path = v.Path
		case *ir.ObjectID:
			path = v.Path
		case *ir.HoistedRef:
			path = v.Component
		}
		if path != "" && !objs.Has(path) {
			missing = path
		}
		return missing == ""
	})
	return missing, missing != ""
}

func objectTypes(obj *ir.StripeObject) func(func(ir.Type) bool) {
	return func(fn func(ir.Type) bool) {
		ir.WalkObject(obj.Data, fn)
		for _, d := range obj.Dedupped.All() {
			ir.WalkObject(d.Object, fn)
		}
	}
}

func requestTypes(req *ir.RequestSpec) func(func(ir.Type) bool) {
	return func(fn func(ir.Type) bool) {
		for _, p := range req.PathParams {
			ir.Walk(p.Type, fn)
		}
		ir.Walk(req.Params, fn)
		ir.Walk(req.Returned, fn)
	}
}
