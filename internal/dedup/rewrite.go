package dedup

import (
	"strings"

	"github.com/arlyon/async-stripe-sub040/internal/ir"
)

// hoist moves g's representative into the dedup table under g.name and
// rewrites every occurrence into a reference. It returns the number of
// occurrences replaced.
func (d *Deduplicator) hoist(obj *ir.StripeObject, g *group) int {
	rep := g.representative()
	d.ns.Reserve(g.name)
	d.rebase(rep.obj, g.name)
	obj.Dedupped.Set(g.name, &ir.DeduppedObject{
		Info:   ir.DeduppedInfo{Ident: g.name, Kind: g.kind},
		Object: rep.obj.Data,
		Doc:    rep.obj.Meta.Doc,
	})

	targets := make(map[*ir.InlineObject]bool, len(g.occurrences))
	for _, o := range g.occurrences {
		targets[o.obj] = true
	}
	ref := func(t ir.Type) ir.Type {
		if io, ok := t.(*ir.InlineObject); ok && targets[io] {
			return &ir.HoistedRef{Component: obj.Path, Ident: g.name}
		}
		return t
	}

	ir.RewriteObject(obj.Data, ref)
	for _, h := range obj.Dedupped.All() {
		ir.RewriteObject(h.Object, ref)
	}
	for _, r := range obj.Requests {
		if r.Params != nil {
			ir.RewriteObject(r.Params.Data, ref)
		}
		shared := r.Pagination != nil && r.Pagination.Item == r.Returned
		r.Returned = ir.Rewrite(r.Returned, ref)
		if shared {
			r.Pagination.Item = r.Returned
		} else if r.Pagination != nil {
			r.Pagination.Item = ir.Rewrite(r.Pagination.Item, ref)
		}
	}
	d.log.Debug("hoisted", "component", string(obj.Path), "ident", string(g.name), "occurrences", len(g.occurrences))
	return len(g.occurrences)
}

// rebase renames inline objects nested in rep whose idents were derived
// from rep's old ident so they follow the hoisted name.
func (d *Deduplicator) rebase(rep *ir.InlineObject, name ir.Ident) {
	old := rep.Ident()
	if old == name {
		return
	}
	ir.WalkObject(rep.Data, func(t ir.Type) bool {
		io, ok := t.(*ir.InlineObject)
		if !ok {
			return true
		}
		if io.Meta.Parent == old {
			io.Meta.Parent = name
		}
		if suffix, ok := strings.CutPrefix(string(io.Meta.Ident), string(old)); ok {
			renamed := name + ir.Ident(suffix)
			if !d.ns.Taken(renamed) {
				d.ns.Reserve(renamed)
				io.Meta.Ident = renamed
			}
		}
		return true
	})
}
