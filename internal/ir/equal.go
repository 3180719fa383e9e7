package ir

import (
	"hash"
	"hash/fnv"
	"strconv"
)

// Equal reports whether two types are structurally identical. Metadata of
// inline objects (ident, doc, title, parent) is ignored.
func Equal(a, b Type) bool {
	switch x := a.(type) {
	case nil:
		return b == nil
	case *Simple:
		y, ok := b.(*Simple)
		return ok && x.Kind == y.Kind
	case *Compound:
		y, ok := b.(*Compound)
		return ok && x.Container == y.Container && Equal(x.Inner, y.Inner)
	case *Ref:
		y, ok := b.(*Ref)
		return ok && x.Path == y.Path
	case *HoistedRef:
		y, ok := b.(*HoistedRef)
		return ok && x.Component == y.Component && x.Ident == y.Ident
	case *ObjectID:
		y, ok := b.(*ObjectID)
		return ok && x.Path == y.Path && x.Borrowed == y.Borrowed
	case *InlineObject:
		y, ok := b.(*InlineObject)
		return ok && x.Meta.Kind == y.Meta.Kind && ObjectEqual(x.Data, y.Data)
	}
	return false
}

// ObjectEqual reports whether two objects are structurally identical.
// Field and variant docs are ignored; names, wire names, types and openness
// are compared in order.
func ObjectEqual(a, b Object) bool {
	switch x := a.(type) {
	case *Struct:
		y, ok := b.(*Struct)
		if !ok || len(x.Fields) != len(y.Fields) {
			return false
		}
		for i, f := range x.Fields {
			g := y.Fields[i]
			if f.Name != g.Name || f.WireName != g.WireName ||
				f.Discriminator != g.Discriminator || f.Expandable != g.Expandable ||
				!Equal(f.Type, g.Type) {
				return false
			}
		}
		return true
	case *FieldlessEnum:
		y, ok := b.(*FieldlessEnum)
		return ok && x.Open == y.Open && variantsEqual(x.Variants, y.Variants)
	case *Enum:
		y, ok := b.(*Enum)
		return ok && x.Open == y.Open && x.Discriminator == y.Discriminator &&
			variantsEqual(x.Variants, y.Variants)
	}
	return false
}

func variantsEqual(a, b []*Variant) bool {
	if len(a) != len(b) {
		return false
	}
	for i, v := range a {
		w := b[i]
		if v.Wire != w.Wire || v.Ident != w.Ident || !Equal(v.Inner, w.Inner) {
			return false
		}
	}
	return true
}

// Hash computes a structural hash of an object consistent with ObjectEqual.
// Collisions are possible; confirm with ObjectEqual.
func Hash(o Object) uint64 {
	h := fnv.New64a()
	hashObject(h, o)
	return h.Sum64()
}

func writeString(h hash.Hash64, s string) {
	h.Write([]byte(strconv.Itoa(len(s))))
	h.Write([]byte{':'})
	h.Write([]byte(s))
}

func hashObject(h hash.Hash64, o Object) {
	switch x := o.(type) {
	case *Struct:
		writeString(h, "struct")
		for _, f := range x.Fields {
			writeString(h, string(f.Name))
			writeString(h, f.WireName)
			if f.Discriminator {
				writeString(h, "disc")
			}
			if f.Expandable {
				writeString(h, "exp")
			}
			hashType(h, f.Type)
		}
	case *FieldlessEnum:
		writeString(h, "fenum")
		if x.Open {
			writeString(h, "open")
		}
		hashVariants(h, x.Variants)
	case *Enum:
		writeString(h, "enum")
		writeString(h, x.Discriminator)
		if x.Open {
			writeString(h, "open")
		}
		hashVariants(h, x.Variants)
	default:
		writeString(h, "nil")
	}
}

func hashVariants(h hash.Hash64, vs []*Variant) {
	for _, v := range vs {
		writeString(h, v.Wire)
		writeString(h, string(v.Ident))
		hashType(h, v.Inner)
	}
}

func hashType(h hash.Hash64, t Type) {
	switch x := t.(type) {
	case nil:
		writeString(h, "none")
	case *Simple:
		writeString(h, x.Kind.String())
	case *Compound:
		writeString(h, x.Container.String())
		hashType(h, x.Inner)
	case *Ref:
		writeString(h, "ref")
		writeString(h, string(x.Path))
	case *HoistedRef:
		writeString(h, "hoisted")
		writeString(h, string(x.Component))
		writeString(h, string(x.Ident))
	case *ObjectID:
		writeString(h, "id")
		writeString(h, string(x.Path))
		if x.Borrowed {
			writeString(h, "borrowed")
		}
	case *InlineObject:
		writeString(h, "inline")
		writeString(h, x.Meta.Kind.String())
		hashObject(h, x.Data)
	}
}
