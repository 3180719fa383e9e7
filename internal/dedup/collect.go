package dedup

import (
	"slices"

	"github.com/arlyon/async-stripe-sub040/internal/ir"
)

// occurrence is one inline object found in a component.
type occurrence struct {
	obj   *ir.InlineObject
	depth int
}

// group is a set of structurally equal occurrences of one kind.
type group struct {
	kind        ir.Kind
	occurrences []*occurrence
	name        ir.Ident
}

// depth is the shallowest nesting level of the group.
func (g *group) depth() int {
	d := g.occurrences[0].depth
	for _, o := range g.occurrences[1:] {
		d = min(d, o.depth)
	}
	return d
}

// before orders groups outermost first, then by name.
func (g *group) before(o *group) bool {
	if gd, od := g.depth(), o.depth(); gd != od {
		return gd < od
	}
	return g.name < o.name
}

// representative is the occurrence whose object becomes the hoisted type:
// the shallowest, then the smallest ident.
func (g *group) representative() *occurrence {
	rep := g.occurrences[0]
	for _, o := range g.occurrences[1:] {
		if o.depth < rep.depth || (o.depth == rep.depth && o.obj.Ident() < rep.obj.Ident()) {
			rep = o
		}
	}
	return rep
}

// collect returns every inline object of obj in traversal order. Request
// parameter roots are not collected; their fields are.
func collect(obj *ir.StripeObject) []*occurrence {
	var out []*occurrence
	var visit func(t ir.Type, depth int)
	visit = func(t ir.Type, depth int) {
		switch v := t.(type) {
		case *ir.Compound:
			visit(v.Inner, depth)
		case *ir.InlineObject:
			out = append(out, &occurrence{obj: v, depth: depth})
			for _, c := range ir.ObjectTypes(v.Data) {
				visit(c, depth+1)
			}
		}
	}
	visitObject := func(o ir.Object, depth int) {
		for _, t := range ir.ObjectTypes(o) {
			visit(t, depth)
		}
	}

	visitObject(obj.Data, 0)
	for _, d := range obj.Dedupped.All() {
		visitObject(d.Object, 1)
	}
	for _, r := range obj.Requests {
		if r.Params != nil {
			visitObject(r.Params.Data, 0)
		}
		visit(r.Returned, 0)
	}
	return out
}

type groupKey struct {
	kind ir.Kind
	hash uint64
}

// candidates groups the occurrences of obj by structure and returns the
// groups with more than one member. Hash groups are split by deep
// comparison so collisions never merge different structures.
func candidates(obj *ir.StripeObject) []*group {
	byHash := make(map[groupKey][]*occurrence)
	var order []groupKey
	for _, o := range collect(obj) {
		key := groupKey{kind: o.obj.Meta.Kind, hash: ir.Hash(o.obj.Data)}
		if _, seen := byHash[key]; !seen {
			order = append(order, key)
		}
		byHash[key] = append(byHash[key], o)
	}

	var out []*group
	for _, key := range order {
		for _, g := range verify(key.kind, byHash[key]) {
			if len(g.occurrences) > 1 {
				out = append(out, g)
			}
		}
	}
	return out
}

func verify(kind ir.Kind, occs []*occurrence) []*group {
	var groups []*group
	for _, o := range occs {
		idx := slices.IndexFunc(groups, func(g *group) bool {
			return ir.ObjectEqual(g.occurrences[0].obj.Data, o.obj.Data)
		})
		if idx < 0 {
			groups = append(groups, &group{kind: kind, occurrences: []*occurrence{o}})
			continue
		}
		groups[idx].occurrences = append(groups[idx].occurrences, o)
	}
	return groups
}
