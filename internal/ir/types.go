package ir

import "fmt"

// Type is an IR type. The set of implementations is closed.
type Type interface {
	isType()
	fmt.Stringer
}

// SimpleKind enumerates the primitive kinds.
type SimpleKind int

const (
	Bool SimpleKind = iota
	Int64
	UInt64
	Float64
	String
	Timestamp
	Currency
	Date
	JSON
)

var simpleNames = [...]string{"bool", "int64", "uint64", "float64", "string", "timestamp", "currency", "date", "json"}

// String returns the kind name.
func (k SimpleKind) String() string {
	if int(k) < len(simpleNames) {
		return simpleNames[k]
	}
	return "unknown"
}

// Container enumerates compound wrappers.
type Container int

const (
	Option Container = iota
	List
	Map
	Box
	// Expandable wraps a Ref whose wire value is either an id or the full object.
	Expandable
)

var containerNames = [...]string{"option", "list", "map", "box", "expandable"}

// String returns the container name.
func (c Container) String() string {
	if int(c) < len(containerNames) {
		return containerNames[c]
	}
	return "unknown"
}

// Simple is a primitive type.
type Simple struct {
	Kind SimpleKind
}

// Compound wraps an inner type in a container.
type Compound struct {
	Container Container
	Inner     Type
}

// Ref is a nominal reference to another top-level component.
type Ref struct {
	Path ComponentPath
}

// HoistedRef references a type hoisted by the deduplicator into Component.
type HoistedRef struct {
	Component ComponentPath
	Ident     Ident
}

// ObjectID references the id newtype of a component. Borrowed marks usage
// sites that only read the id (path parameters).
type ObjectID struct {
	Path     ComponentPath
	Borrowed bool
}

// InlineObject is an anonymous definition nested in a component or request.
type InlineObject struct {
	Data Object
	Meta ObjectMetadata
}

func (*Simple) isType()       {}
func (*Compound) isType()     {}
func (*Ref) isType()          {}
func (*HoistedRef) isType()   {}
func (*ObjectID) isType()     {}
func (*InlineObject) isType() {}

func (t *Simple) String() string { return t.Kind.String() }
func (t *Compound) String() string {
	return fmt.Sprintf("%s<%s>", t.Container, t.Inner)
}
func (t *Ref) String() string        { return "ref(" + string(t.Path) + ")" }
func (t *HoistedRef) String() string { return "hoisted(" + string(t.Component) + "." + string(t.Ident) + ")" }
func (t *ObjectID) String() string   { return "id(" + string(t.Path) + ")" }
func (t *InlineObject) String() string {
	return "inline(" + string(t.Meta.Ident) + ")"
}

// Ident returns the inline object's identifier.
func (t *InlineObject) Ident() Ident { return t.Meta.Ident }

// NewSimple returns a Simple of the given kind.
func NewSimple(kind SimpleKind) *Simple { return &Simple{Kind: kind} }

// Wrap returns inner wrapped in container.
func Wrap(container Container, inner Type) *Compound {
	return &Compound{Container: container, Inner: inner}
}

// Optional wraps t in Option unless it already is one.
func Optional(t Type) Type {
	if IsOption(t) {
		return t
	}
	return Wrap(Option, t)
}

// IsOption reports whether t is an Option compound.
func IsOption(t Type) bool {
	c, ok := t.(*Compound)
	return ok && c.Container == Option
}

// Unwrap strips Option and Box wrappers.
func Unwrap(t Type) Type {
	for {
		c, ok := t.(*Compound)
		if !ok || (c.Container != Option && c.Container != Box) {
			return t
		}
		t = c.Inner
	}
}

// Children returns the types directly nested in t. Inline objects yield the
// field and variant types of their data.
func Children(t Type) []Type {
	switch v := t.(type) {
	case *Compound:
		return []Type{v.Inner}
	case *InlineObject:
		return ObjectTypes(v.Data)
	default:
		return nil
	}
}

// Walk calls fn for t and every type nested inside it, depth first.
// Returning false from fn skips the children of that node.
func Walk(t Type, fn func(Type) bool) {
	if t == nil || !fn(t) {
		return
	}
	for _, c := range Children(t) {
		Walk(c, fn)
	}
}

// Rewrite replaces t and its descendants bottom-up with fn's result.
// fn receives each node after its children have been rewritten.
func Rewrite(t Type, fn func(Type) Type) Type {
	switch v := t.(type) {
	case *Compound:
		v.Inner = Rewrite(v.Inner, fn)
	case *InlineObject:
		RewriteObject(v.Data, fn)
	}
	return fn(t)
}
