package emit

import (
	"strconv"

	"github.com/arlyon/async-stripe-sub040/internal/ir"
)

// componentTypes renders the component's own type, its nested inline
// objects, its hoisted types and its id newtype.
func (w *writer) componentTypes() {
	obj := w.obj
	ident := obj.Ident()
	w.claim(ident)
	w.object(ident, obj.Description, obj.DocURL, obj.Deprecated, obj.Data, ir.KindType)
	if owner, ok := w.e.getter(obj.Path); ok {
		w.structGetter(ident, obj.Data.(*ir.Struct), owner)
	}
	w.inlineObjects(objectInlines(obj.Data))

	for _, d := range obj.Dedupped.All() {
		if d.Info.Kind != ir.KindType || !w.claim(d.Info.Ident) {
			continue
		}
		w.object(d.Info.Ident, d.Doc, "", false, d.Object, ir.KindType)
		w.inlineObjects(objectInlines(d.Object))
	}

	if obj.HasOwnID() {
		w.idNewtype(obj)
	}
}

func (w *writer) inlineObjects(list []*ir.InlineObject) {
	for _, io := range list {
		if !w.claim(io.Meta.Ident) {
			continue
		}
		w.object(io.Meta.Ident, io.Meta.Doc, "", false, io.Data, io.Meta.Kind)
		if en, ok := io.Data.(*ir.Enum); ok {
			if owner, ok := w.e.unionGetter(en); ok {
				w.unionGetter(io.Meta.Ident, en, owner)
			}
		}
	}
}

func (w *writer) object(ident ir.Ident, doc, url string, deprecated bool, o ir.Object, kind ir.Kind) {
	switch v := o.(type) {
	case *ir.Struct:
		w.structType(ident, doc, url, deprecated, v, kind)
	case *ir.FieldlessEnum:
		w.fieldlessEnum(ident, doc, url, deprecated, v)
	case *ir.Enum:
		w.union(ident, doc, url, deprecated, v)
		if owner, ok := w.e.unionGetter(v); ok && ident == w.obj.Ident() {
			w.unionGetter(ident, v, owner)
		}
	default:
		w.fail(ident, "unsupported object %T", o)
	}
}

func (w *writer) structType(ident ir.Ident, doc, url string, deprecated bool, st *ir.Struct, kind ir.Kind) {
	w.docComment("", doc, url, deprecated)
	w.printf("type %s struct {\n", ident)
	w.fields(st)
	w.printf("}\n\n")
	if kind == ir.KindType {
		w.builder(ident, st)
	}
}

func (w *writer) fields(st *ir.Struct) {
	for _, f := range st.Fields {
		w.docComment("\t", f.Doc, "", f.Deprecated)
		tag := f.WireName
		if f.Optional() || !f.Required {
			tag += ",omitzero"
		}
		w.printf("\t%s %s `json:%s`\n", f.Name, w.typeExpr(f.Type), strconv.Quote(tag))
	}
}

// builder renders the streaming builder and the decoding entry points.
func (w *writer) builder(ident ir.Ident, st *ir.Struct) {
	b := lower(ident, "Builder")
	wire := w.wire()

	w.printf("type %s struct {\n", b)
	for _, f := range st.Fields {
		slot := "Slot"
		if !f.Optional() {
			slot = "Required"
		}
		w.printf("\t%s %s.%s[%s]\n", f.Name.Unexported(), wire, slot, w.typeExpr(f.Type))
	}
	w.printf("}\n\n")

	w.printf("func (b *%s) Key(name string) %s.Visitor {\n", b, wire)
	if len(st.Fields) > 0 {
		w.printf("\tswitch name {\n")
		for _, f := range st.Fields {
			w.printf("\tcase %q:\n\t\treturn &b.%s\n", f.WireName, f.Name.Unexported())
		}
		w.printf("\t}\n")
	}
	w.printf("\treturn nil\n}\n\n")

	required := st.RequiredFields()
	w.printf("func (b *%s) Missing() []string {\n", b)
	if len(required) == 0 {
		w.printf("\treturn nil\n}\n\n")
	} else {
		w.printf("\tvar out []string\n")
		for _, f := range required {
			w.printf("\tif !b.%s.Seen() {\n\t\tout = append(out, %q)\n\t}\n", f.Name.Unexported(), f.WireName)
		}
		w.printf("\treturn out\n}\n\n")
	}

	w.printf("func (b *%s) TakeOut() (*%s, bool) {\n", b, ident)
	locals := make(map[*ir.Field]string, len(required))
	for i, f := range required {
		local := "v" + strconv.Itoa(i)
		locals[f] = local
		w.printf("\t%s, ok := b.%s.Get()\n\tif !ok {\n\t\treturn nil, false\n\t}\n", local, f.Name.Unexported())
	}
	w.printf("\treturn &%s{\n", ident)
	for _, f := range st.Fields {
		if local, ok := locals[f]; ok {
			w.printf("\t\t%s: %s,\n", f.Name, local)
			continue
		}
		w.printf("\t\t%s: b.%s.Value(),\n", f.Name, f.Name.Unexported())
	}
	w.printf("\t}, true\n}\n\n")

	w.printf("// UnmarshalJSONFrom implements json.UnmarshalerFrom.\n")
	w.printf("func (x *%s) UnmarshalJSONFrom(dec *%s.Decoder) error {\n", ident, w.jsontext())
	w.printf("\tv, err := %s.DecodeObject[%s](dec, &%s{}, %q)\n", wire, ident, b, ident)
	w.printf("\tif err != nil {\n\t\treturn err\n\t}\n\t*x = *v\n\treturn nil\n}\n\n")

	w.printf("// UnmarshalJSON implements json.Unmarshaler.\n")
	w.printf("func (x *%s) UnmarshalJSON(data []byte) error {\n\treturn %s.Unmarshal(data, x)\n}\n\n", ident, w.json())

	w.printf("// %sFromValue builds %s from a decoded value tree.\n", ident, article(ident))
	w.printf("func %sFromValue(v any) (*%s, error) {\n", ident, ident)
	w.printf("\treturn %s.FromValue[%s](v, &%s{}, %q)\n}\n\n", wire, ident, b, ident)
}

func (w *writer) structGetter(ident ir.Ident, st *ir.Struct, owner *ir.StripeObject) {
	idExpr, _ := w.idType(owner.Path)
	f := st.Field("id")
	w.printf("// GetID returns the id of the %s.\n", ident)
	if ir.IsOption(f.Type) {
		w.printf("func (x %s) GetID() %s {\n\tif x.%s == nil {\n\t\treturn \"\"\n\t}\n\treturn *x.%s\n}\n\n", ident, idExpr, f.Name, f.Name)
		return
	}
	w.printf("func (x %s) GetID() %s {\n\treturn x.%s\n}\n\n", ident, idExpr, f.Name)
}

// idNewtype renders the id type defined by obj.
func (w *writer) idNewtype(obj *ir.StripeObject) {
	id := idIdent(obj)
	w.printf("// %s identifies %s.\n", id, article(obj.Ident()))
	w.printf("type %s string\n\n", id)

	w.printf("// %sPrefixes lists the prefixes %s starts with.\n", id, article(id))
	w.printf("var %sPrefixes = [...]string{", id)
	for i, p := range obj.IDPrefixes {
		if i > 0 {
			w.printf(", ")
		}
		w.printf("%q", p)
	}
	w.printf("}\n\n")

	w.printf("// Parse%s checks that s carries one of %sPrefixes.\n", id, id)
	w.printf("func Parse%s(s string) (%s, error) {\n", id, id)
	w.printf("\treturn %s.ParseID[%s](%q, s, %sPrefixes[:]...)\n}\n\n", w.wire(), id, id, id)

	w.printf("func (id %s) String() string {\n\treturn string(id)\n}\n\n", id)
}
