package ir

import (
	"iter"
	"strings"

	"github.com/arlyon/async-stripe-sub040/internal/maputil"
)

// Resource carries packaging hints from x-stripeResource.
type Resource struct {
	BaseIdent Ident
	// InPackage groups top-level components by feature area.
	InPackage string
	// InClass names the parent component this one nests under.
	InClass ComponentPath
}

// DeduppedInfo names a hoisted type.
type DeduppedInfo struct {
	Ident Ident
	Kind  Kind
}

// DeduppedObject is an inline object promoted to a named type within its
// owning component.
type DeduppedObject struct {
	Info   DeduppedInfo
	Object Object
	Doc    string
}

// PathParam is a placeholder parameter of a request path.
type PathParam struct {
	Name string
	Doc  string
	Type Type
}

// Pagination marks list responses. Item is the element type of data.
type Pagination struct {
	Item Type
}

// RequestSpec is one operation attached to a component.
type RequestSpec struct {
	Method       string
	PathTemplate string
	OperationID  string
	PathParams   []PathParam
	// Params holds query or form parameters; its metadata ident names the request.
	Params *InlineObject
	// Returned is the success response. For paginated requests it is the
	// list item type and Pagination is set.
	Returned   Type
	Pagination *Pagination
	// Form is true when parameters travel in a form-encoded body.
	Form       bool
	Doc        string
	Deprecated bool
}

// Ident returns the request's identifier.
func (r *RequestSpec) Ident() Ident { return r.Params.Meta.Ident }

// Operation returns "<method> <path>" for diagnostics, with the method in
// lower case to match parser.Operation.Key.
func (r *RequestSpec) Operation() string {
	return strings.ToLower(r.Method) + " " + r.PathTemplate
}

// StripeObject is an assembled component.
type StripeObject struct {
	Path     ComponentPath
	Resource Resource
	Data     Object
	// ObjectName is the literal of the `object` property, if any.
	ObjectName string
	// IDType is the component whose id newtype this component uses.
	IDType ComponentPath
	// IDPrefixes are the accepted prefixes of IDType's newtype.
	IDPrefixes []string
	// DeletedOf links a tombstone component to the entity it deletes.
	DeletedOf   ComponentPath
	Requests    []*RequestSpec
	Dedupped    *maputil.Ordered[Ident, *DeduppedObject]
	Title       string
	Description string
	DocURL      string
	Deprecated  bool
}

// NewStripeObject returns a component with an empty dedup table.
func NewStripeObject(path ComponentPath, data Object) *StripeObject {
	return &StripeObject{
		Path:     path,
		Resource: Resource{BaseIdent: path.Ident()},
		Data:     data,
		Dedupped: maputil.NewOrdered[Ident, *DeduppedObject](),
	}
}

// Ident returns the component's type identifier.
func (o *StripeObject) Ident() Ident { return o.Resource.BaseIdent }

// HasOwnID reports whether the component defines its id newtype.
func (o *StripeObject) HasOwnID() bool {
	return o.IDType != "" && o.IDType == o.Path
}

// Types yields every type reachable from the component: its data, its
// hoisted types and its requests.
func (o *StripeObject) Types() iter.Seq[Type] {
	return func(yield func(Type) bool) {
		stop := false
		visit := func(t Type) bool {
			if stop {
				return false
			}
			if !yield(t) {
				stop = true
				return false
			}
			return true
		}
		WalkObject(o.Data, visit)
		for _, d := range o.Dedupped.All() {
			WalkObject(d.Object, visit)
		}
		for _, r := range o.Requests {
			for _, p := range r.PathParams {
				Walk(p.Type, visit)
			}
			Walk(r.Params, visit)
			Walk(r.Returned, visit)
		}
	}
}

// RefPaths returns the distinct component paths referenced by o, sorted.
func (o *StripeObject) RefPaths() []ComponentPath {
	seen := make(map[ComponentPath]bool)
	for t := range o.Types() {
		switch v := t.(type) {
		case *Ref:
			seen[v.Path] = true
		case *ObjectID:
			seen[v.Path] = true
		case *HoistedRef:
			if v.Component != o.Path {
				seen[v.Component] = true
			}
		}
	}
	return maputil.SortedKeys(seen)
}

// Components is the insertion-ordered component map.
type Components = maputil.Ordered[ComponentPath, *StripeObject]

// ObjectIndex maps `object` literals to component paths.
type ObjectIndex map[string]ComponentPath

// NewComponents returns an empty component map.
func NewComponents() *Components {
	return maputil.NewOrdered[ComponentPath, *StripeObject]()
}
