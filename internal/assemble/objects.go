package assemble

import (
	"strings"

	"github.com/arlyon/async-stripe-sub040/internal/infer"
	"github.com/arlyon/async-stripe-sub040/internal/ir"
	"github.com/arlyon/async-stripe-sub040/parser"
)

// scan indexes object literals, id owners and deleted companions before
// any component is inferred, and reserves every top-level identifier.
func (a *Assembler) scan() {
	if a.scanned {
		return
	}
	a.scanned = true
	for path, s := range a.doc.ComponentSchemas() {
		a.in.Reserve(path.Ident(), idIdent(path))
		lit, ok := s.Property(infer.DiscriminatorField).ConstString()
		if !ok {
			continue
		}
		a.literal[path] = lit
		if isDeletedCompanion(s) {
			continue
		}
		if _, taken := a.index[lit]; !taken {
			a.index[lit] = path
		}
	}

	for path, s := range a.doc.ComponentSchemas() {
		if s.Property("id") == nil {
			continue
		}
		if !isDeletedCompanion(s) {
			a.idTypes[path] = path
			continue
		}
		if parent, ok := a.deletedParent(path); ok {
			a.deleted[path] = parent
		}
	}
	for child, parent := range a.deleted {
		if id, ok := a.idTypes[parent]; ok {
			a.idTypes[child] = id
		}
	}
}

// isDeletedCompanion reports a schema with a `deleted: true` literal.
func isDeletedCompanion(s *parser.Schema) bool {
	d := s.Property("deleted")
	return d != nil && d.Type == "boolean" && len(d.Enum) == 1 && d.Enum[0] == "true"
}

// deletedParent finds the entity a tombstone deletes: the component sharing
// its object literal, or the one named without the deleted_ prefix.
func (a *Assembler) deletedParent(path ir.ComponentPath) (ir.ComponentPath, bool) {
	if lit, ok := a.literal[path]; ok {
		if parent, ok := a.index[lit]; ok && parent != path {
			return parent, true
		}
	}
	name, ok := strings.CutPrefix(string(path), "deleted_")
	if !ok {
		return "", false
	}
	parent := ir.ComponentPath(name)
	_, exists := a.doc.Component(parent)
	return parent, exists
}

func idIdent(path ir.ComponentPath) ir.Ident {
	return path.Ident() + "ID"
}

// Objects assembles every component in document order. Components that
// fail are reported and omitted.
func (a *Assembler) Objects() *ir.Components {
	a.scan()
	objs := ir.NewComponents()
	for path, s := range a.doc.ComponentSchemas() {
		obj, err := a.object(path, s)
		if err != nil {
			a.report(path, "", assemblyError(path, "", "component skipped", err))
			continue
		}
		objs.Set(path, obj)
	}
	a.linkClasses(objs)
	return objs
}

func (a *Assembler) object(path ir.ComponentPath, s *parser.Schema) (*ir.StripeObject, error) {
	data, err := a.in.InferComponent(path, s)
	if err != nil {
		return nil, err
	}
	obj := ir.NewStripeObject(path, data)
	obj.Title = s.Title
	obj.Description = s.Description
	obj.Deprecated = s.Deprecated
	obj.ObjectName = a.literal[path]
	obj.DeletedOf = a.deleted[path]
	if r := s.StripeResource; r != nil {
		obj.Resource.InPackage = r.InPackage
	}

	if id, ok := a.idTypes[path]; ok {
		obj.IDType = id
		obj.IDPrefixes = a.prefixes(id)
		if st, ok := data.(*ir.Struct); ok {
			if f := st.Field("id"); f != nil {
				var t ir.Type = &ir.ObjectID{Path: id}
				if f.Optional() {
					t = ir.Optional(t)
				}
				f.Type = t
			}
		}
	}
	return obj, nil
}

// linkClasses resolves x-stripeResource.in_class, which names the parent by
// its class name within the same package.
func (a *Assembler) linkClasses(objs *ir.Components) {
	type classKey struct{ pkg, class string }
	classes := make(map[classKey]ir.ComponentPath)
	for path := range objs.All() {
		s, _ := a.doc.Component(path)
		if r := s.StripeResource; r != nil && r.ClassName != "" {
			key := classKey{r.InPackage, r.ClassName}
			if _, taken := classes[key]; !taken {
				classes[key] = path
			}
		}
	}
	for path, obj := range objs.All() {
		s, _ := a.doc.Component(path)
		r := s.StripeResource
		if r == nil || r.InClass == "" {
			continue
		}
		if parent, ok := classes[classKey{r.InPackage, r.InClass}]; ok && parent != path {
			obj.Resource.InClass = parent
		}
	}
}

// IDType returns the id owner of path, if it has one.
func (a *Assembler) IDType(path ir.ComponentPath) (ir.ComponentPath, bool) {
	id, ok := a.idTypes[path]
	return id, ok
}
