// Package dedup collapses structurally identical inline objects of a
// component into named types.
//
// The algorithm:
//  1. Collect every inline object of the component and group them by
//     structural hash, verifying each group by deep comparison
//  2. Derive a name for every group with more than one occurrence
//  3. Hoist the outermost named group into the component's dedup table and
//     replace its occurrences with references to it
//  4. Repeat until no group can be hoisted
//
// Names are a pure function of the occurrences' metadata, so the hoisted
// set does not depend on traversal order. Deduplication never fails: a
// group that cannot be named, or whose name is contested, stays inline.
package dedup

import (
	"github.com/arlyon/async-stripe-sub040/internal/ir"
	"github.com/arlyon/async-stripe-sub040/internal/issues"
	"github.com/arlyon/async-stripe-sub040/internal/severity"
	"github.com/arlyon/async-stripe-sub040/oaserrors"
	"github.com/arlyon/async-stripe-sub040/parser"
)

// Result reports what a deduplication run changed.
type Result struct {
	// Hoisted is the number of types added to dedup tables.
	Hoisted int
	// Replaced is the number of inline occurrences rewritten to references.
	Replaced int
	Issues   []issues.Issue
}

func (r *Result) merge(o Result) {
	r.Hoisted += o.Hoisted
	r.Replaced += o.Replaced
	r.Issues = append(r.Issues, o.Issues...)
}

// Deduplicator hoists duplicate inline objects.
type Deduplicator struct {
	ns  ir.Namespace
	log parser.Logger
}

// New creates a Deduplicator. ns holds the identifiers already in use;
// hoisted names are reserved in it.
func New(ns ir.Namespace, log parser.Logger) *Deduplicator {
	if ns == nil {
		ns = make(ir.IdentSet)
	}
	if log == nil {
		log = parser.NopLogger{}
	}
	return &Deduplicator{ns: ns, log: log}
}

// Run deduplicates every component in turn.
func (d *Deduplicator) Run(objs *ir.Components) Result {
	var res Result
	for _, obj := range objs.All() {
		res.merge(d.Component(obj))
	}
	return res
}

// Component deduplicates one component to a fixed point.
func (d *Deduplicator) Component(obj *ir.StripeObject) Result {
	var res Result
	contested := make(map[ir.Ident]bool)
	for {
		groups := candidates(obj)
		next := d.pick(obj, groups, contested, &res)
		if next == nil {
			return res
		}
		res.Replaced += d.hoist(obj, next)
		res.Hoisted++
	}
}

// pick names the groups of one pass, reports contested names and returns
// the outermost group that can be hoisted.
func (d *Deduplicator) pick(obj *ir.StripeObject, groups []*group, contested map[ir.Ident]bool, res *Result) *group {
	proposals := make(map[ir.Ident][]*group)
	for _, g := range groups {
		if g.name = deriveName(obj, g); g.name != "" {
			proposals[g.name] = append(proposals[g.name], g)
		}
	}

	var best *group
	for _, g := range groups {
		if g.name == "" || contested[g.name] {
			continue
		}
		if len(proposals[g.name]) > 1 || d.collides(obj, g) {
			contested[g.name] = true
			err := &oaserrors.DedupConflictError{Component: string(obj.Path), Ident: string(g.name)}
			res.Issues = append(res.Issues, issues.Issue{
				Component: string(obj.Path),
				Path:      issues.FormatPath("hoisted", string(g.name)),
				Message:   err.Error(),
				Severity:  severity.SeverityInfo,
				Err:       err,
			})
			d.log.Debug("dedup conflict", "component", string(obj.Path), "ident", string(g.name))
			continue
		}
		if best == nil || g.before(best) {
			best = g
		}
	}
	return best
}

// collides reports whether g's name is already used by something other
// than one of g's own occurrences.
func (d *Deduplicator) collides(obj *ir.StripeObject, g *group) bool {
	if obj.Dedupped.Has(g.name) {
		return true
	}
	if !d.ns.Taken(g.name) {
		return false
	}
	for _, o := range g.occurrences {
		if o.obj.Ident() == g.name {
			return false
		}
	}
	return true
}
