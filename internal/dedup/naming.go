package dedup

import (
	"regexp"

	"github.com/arlyon/async-stripe-sub040/internal/infer"
	"github.com/arlyon/async-stripe-sub040/internal/ir"
)

// docNoun matches descriptions shaped "The <noun> of ...".
var docNoun = regexp.MustCompile(`^The ([A-Za-z][A-Za-z ]*?) of\b`)

// deriveName names a group, or returns "" when no rule applies:
//   - every occurrence shares a non-generic title: the title
//   - every occurrence shares a parent and a "The <noun> of" doc: parent+noun
//   - a fieldless enum whose occurrences share a field name: parent+field,
//     where parent is the shared parent or else the component
func deriveName(obj *ir.StripeObject, g *group) ir.Ident {
	first := g.occurrences[0].obj.Meta
	if !infer.IsGenericTitle(first.Title) && all(g, func(m ir.ObjectMetadata) bool { return m.Title == first.Title }) {
		return ir.NewIdent(first.Title)
	}

	sameParent := all(g, func(m ir.ObjectMetadata) bool { return m.Parent == first.Parent })
	if noun := nounOf(first.Doc); sameParent && noun != "" &&
		all(g, func(m ir.ObjectMetadata) bool { return nounOf(m.Doc) == noun }) {
		return ir.JoinIdent(first.Parent, noun)
	}

	if _, ok := g.occurrences[0].obj.Data.(*ir.FieldlessEnum); ok && first.FieldName != "" &&
		all(g, func(m ir.ObjectMetadata) bool { return m.FieldName == first.FieldName }) {
		parent := first.Parent
		if !sameParent {
			parent = obj.Ident()
		}
		return ir.JoinIdent(parent, first.FieldName)
	}
	return ""
}

func nounOf(doc string) string {
	m := docNoun.FindStringSubmatch(doc)
	if m == nil {
		return ""
	}
	return m[1]
}

func all(g *group, pred func(ir.ObjectMetadata) bool) bool {
	for _, o := range g.occurrences {
		if !pred(o.obj.Meta) {
			return false
		}
	}
	return true
}
