package ir

// Object is the body of a named type. The set of implementations is closed.
type Object interface {
	isObject()
}

// Field is one member of a Struct.
type Field struct {
	// Name is the Go field name.
	Name Ident
	// WireName is the JSON key.
	WireName string
	Doc      string
	Type     Type
	// Required records that the schema lists the field as required.
	Required bool
	// Discriminator marks the `object` literal field of a polymorphic type.
	Discriminator bool
	Expandable    bool
	Deprecated    bool
}

// Optional reports whether a builder may finish without this field.
func (f *Field) Optional() bool { return IsOption(f.Type) }

// Struct is a record of fields.
type Struct struct {
	Fields []*Field
}

// Field returns the field with the given wire name, or nil.
func (s *Struct) Field(wire string) *Field {
	for _, f := range s.Fields {
		if f.WireName == wire {
			return f
		}
	}
	return nil
}

// RequiredFields returns the fields a builder must see before finishing.
func (s *Struct) RequiredFields() []*Field {
	var out []*Field
	for _, f := range s.Fields {
		if !f.Optional() {
			out = append(out, f)
		}
	}
	return out
}

// Variant is a member of an enumeration. Inner is nil for string variants.
type Variant struct {
	Wire  string
	Ident Ident
	Inner Type
	// Deprecated marks variants documented as deprecated.
	Deprecated bool
}

// FieldlessEnum is a string enumeration. Open enums accept unknown values.
type FieldlessEnum struct {
	Variants []*Variant
	Open     bool
}

// Enum is a union whose variants carry types. A non-empty Discriminator
// names the wire field whose literal selects the variant; an empty one
// makes the union untagged.
type Enum struct {
	Variants      []*Variant
	Discriminator string
	Open          bool
}

func (*Struct) isObject()        {}
func (*FieldlessEnum) isObject() {}
func (*Enum) isObject()          {}

// Kind distinguishes response types from request parameter types.
type Kind int

const (
	KindType Kind = iota
	KindRequest
)

// String returns the kind name.
func (k Kind) String() string {
	if k == KindRequest {
		return "request"
	}
	return "type"
}

// GenFlags control optional pieces of generated code.
type GenFlags struct {
	// Derives lists extra capabilities (e.g. "comparable", "default").
	Derives []string
	// Constructor requests a New<Ident> constructor.
	Constructor bool
}

// HasDerive reports whether name is in Derives.
func (g GenFlags) HasDerive(name string) bool {
	for _, d := range g.Derives {
		if d == name {
			return true
		}
	}
	return false
}

// ObjectMetadata describes where an object came from.
type ObjectMetadata struct {
	Ident     Ident
	Doc       string
	Title     string
	Parent    Ident
	FieldName string
	Kind      Kind
	Gen       GenFlags
}

// ObjectTypes returns the types directly referenced by an object's fields
// or variants.
func ObjectTypes(o Object) []Type {
	switch v := o.(type) {
	case *Struct:
		out := make([]Type, 0, len(v.Fields))
		for _, f := range v.Fields {
			out = append(out, f.Type)
		}
		return out
	case *Enum:
		var out []Type
		for _, vr := range v.Variants {
			if vr.Inner != nil {
				out = append(out, vr.Inner)
			}
		}
		return out
	default:
		return nil
	}
}

// WalkObject calls fn for every type reachable from o.
func WalkObject(o Object, fn func(Type) bool) {
	for _, t := range ObjectTypes(o) {
		Walk(t, fn)
	}
}

// RewriteObject rewrites every type reachable from o in place.
func RewriteObject(o Object, fn func(Type) Type) {
	switch v := o.(type) {
	case *Struct:
		for _, f := range v.Fields {
			f.Type = Rewrite(f.Type, fn)
		}
	case *Enum:
		for _, vr := range v.Variants {
			if vr.Inner != nil {
				vr.Inner = Rewrite(vr.Inner, fn)
			}
		}
	}
}

// IsOpen reports whether the object accepts unknown variants.
func IsOpen(o Object) bool {
	switch v := o.(type) {
	case *FieldlessEnum:
		return v.Open
	case *Enum:
		return v.Open
	}
	return false
}
