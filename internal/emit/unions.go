package emit

import (
	"github.com/arlyon/async-stripe-sub040/internal/ir"
)

// union renders an enum with typed variants as a struct holding one
// pointer per variant. Exactly one is set after decoding; open unions
// keep unrecognised payloads in Unknown.
func (w *writer) union(ident ir.Ident, doc, url string, deprecated bool, en *ir.Enum) {
	wire, jsontext := w.wire(), w.jsontext()

	w.docComment("", doc, url, deprecated)
	w.printf("type %s struct {\n", ident)
	for _, v := range en.Variants {
		if v.Deprecated {
			w.printf("\t// Deprecated: Stripe marks this variant as deprecated.\n")
		}
		w.printf("\t%s *%s\n", v.Ident, w.variantType(v))
	}
	if en.Open {
		w.printf("\t// Unknown holds a payload matching no variant.\n")
		w.printf("\tUnknown %s.Value\n", wire)
	}
	w.printf("}\n\n")

	w.printf("// UnmarshalJSONFrom implements json.UnmarshalerFrom.\n")
	w.printf("func (u *%s) UnmarshalJSONFrom(dec *%s.Decoder) error {\n", ident, jsontext)
	w.printf("\traw, err := dec.ReadValue()\n\tif err != nil {\n\t\treturn err\n\t}\n")
	w.printf("\t*u = %s{}\n", ident)
	if en.Discriminator != "" {
		w.taggedBody(ident, en)
	} else {
		w.untaggedBody(ident, en)
	}
	w.printf("}\n\n")

	w.printf("// UnmarshalJSON implements json.Unmarshaler.\n")
	w.printf("func (u *%s) UnmarshalJSON(data []byte) error {\n\treturn %s.Unmarshal(data, u)\n}\n\n", ident, w.json())

	w.printf("// MarshalJSONTo implements json.MarshalerTo.\n")
	w.printf("func (u %s) MarshalJSONTo(enc *%s.Encoder) error {\n", ident, jsontext)
	if len(en.Variants) > 0 || en.Open {
		w.printf("\tswitch {\n")
		for _, v := range en.Variants {
			w.printf("\tcase u.%s != nil:\n\t\treturn %s.MarshalEncode(enc, u.%s)\n", v.Ident, w.json(), v.Ident)
		}
		if en.Open {
			w.printf("\tcase u.Unknown != nil:\n\t\treturn enc.WriteValue(u.Unknown)\n")
		}
		w.printf("\t}\n")
	}
	w.printf("\treturn enc.WriteToken(%s.Null)\n}\n\n", jsontext)

	w.printf("// MarshalJSON implements json.Marshaler.\n")
	w.printf("func (u %s) MarshalJSON() ([]byte, error) {\n\treturn %s.Marshal(u)\n}\n\n", ident, w.json())

	if en.Open {
		w.printf("// IsUnknown reports whether the payload matched no variant.\n")
		w.printf("func (u %s) IsUnknown() bool {\n\treturn u.Unknown != nil\n}\n\n", ident)
	}
}

func (w *writer) variantType(v *ir.Variant) string {
	if v.Inner == nil {
		w.fail(v.Ident, "union variant %s has no type", v.Wire)
		return "any"
	}
	return w.typeExpr(ir.Unwrap(v.Inner))
}

func (w *writer) taggedBody(ident ir.Ident, en *ir.Enum) {
	wire := w.wire()
	if en.Discriminator == "object" {
		w.printf("\ttag, err := %s.PeekObject(raw)\n", wire)
	} else {
		w.printf("\ttag, err := %s.PeekField(raw, %q)\n", wire, en.Discriminator)
	}
	w.printf("\tif err != nil {\n\t\treturn err\n\t}\n")
	if len(en.Variants) > 0 {
		w.printf("\tswitch tag {\n")
		for _, v := range en.Variants {
			w.printf("\tcase %q:\n\t\treturn %s.Into(raw, &u.%s)\n", v.Wire, wire, v.Ident)
		}
		w.printf("\t}\n")
	}
	if en.Open {
		w.printf("\t%s.WarnUnknown(%q, tag)\n\tu.Unknown = raw.Clone()\n\treturn nil\n", wire, ident)
		return
	}
	w.printf("\treturn %s.UnknownVariant(%q, tag)\n", wire, ident)
}

// untaggedBody tries the variants in declaration order and keeps the first
// that decodes. Order decides ambiguous payloads: a customer carrying
// "deleted" still decodes as Customer because it is listed first.
func (w *writer) untaggedBody(ident ir.Ident, en *ir.Enum) {
	wire, jsontext := w.wire(), w.jsontext()
	if en.Open {
		w.printf("\terr = %s.Untagged(%q, raw,\n", wire, ident)
	} else {
		w.printf("\treturn %s.Untagged(%q, raw,\n", wire, ident)
	}
	for _, v := range en.Variants {
		w.printf("\t\tfunc(raw %s.Value) error { return %s.Into(raw, &u.%s) },\n", jsontext, wire, v.Ident)
	}
	w.printf("\t)\n")
	if en.Open {
		w.printf("\tif err != nil {\n\t\t%s.WarnUnknown(%q, raw.String())\n\t\tu.Unknown = raw.Clone()\n\t}\n\treturn nil\n", wire, ident)
	}
}

// unionGetter renders GetID for a union whose variants all expose it.
func (w *writer) unionGetter(ident ir.Ident, en *ir.Enum, owner *ir.StripeObject) {
	idExpr, _ := w.idType(owner.Path)
	w.printf("// GetID returns the id of whichever variant is set.\n")
	w.printf("func (u %s) GetID() %s {\n\tswitch {\n", ident, idExpr)
	for _, v := range en.Variants {
		w.printf("\tcase u.%s != nil:\n\t\treturn u.%s.GetID()\n", v.Ident, v.Ident)
	}
	w.printf("\t}\n\treturn \"\"\n}\n\n")
}
