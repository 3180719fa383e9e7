package emit

import (
	"strconv"

	"github.com/arlyon/async-stripe-sub040/internal/ir"
	"github.com/arlyon/async-stripe-sub040/internal/plan"
)

// enumConst names the constant of one variant.
func (w *writer) enumConst(ident ir.Ident, v *ir.Variant) ir.Ident {
	if name, ok := w.e.consts[w.pkg][constKey{ident, v.Wire}]; ok {
		return name
	}
	name := ident + v.Ident
	if w.e.taken(name) {
		name += "Value"
	}
	return name
}

type constKey struct {
	enum ir.Ident
	wire string
}

// constTable maps each enum variant of one package to its constant.
type constTable map[constKey]ir.Ident

// packageConsts names the enum constants of pkg in plan order. A name
// already used by a declaration or an earlier constant gets a "Value"
// suffix, then a counter.
func (e *Emitter) packageConsts(pkg *plan.Package) constTable {
	table := make(constTable)
	used := make(map[ir.Ident]bool)
	for _, f := range pkg.Files {
		for _, en := range fileEnums(f) {
			for _, v := range en.enum.Variants {
				key := constKey{en.ident, v.Wire}
				if _, ok := table[key]; ok {
					continue
				}
				base := en.ident + v.Ident
				name := base
				for i := 1; e.taken(name) || used[name]; i++ {
					name = base + "Value"
					if i > 1 {
						name += ir.Ident(strconv.Itoa(i))
					}
				}
				used[name] = true
				table[key] = name
			}
		}
	}
	return table
}

func (e *Emitter) taken(name ir.Ident) bool {
	return e.opts.Namespace != nil && e.opts.Namespace.Taken(name)
}

type namedEnum struct {
	ident ir.Ident
	enum  *ir.FieldlessEnum
}

// fileEnums lists the string enums f renders, in render order.
func fileEnums(f *plan.File) []namedEnum {
	var out []namedEnum
	add := func(ident ir.Ident, o ir.Object) {
		if en, ok := o.(*ir.FieldlessEnum); ok {
			out = append(out, namedEnum{ident, en})
		}
	}
	addInlines := func(list []*ir.InlineObject) {
		for _, io := range list {
			add(io.Meta.Ident, io.Data)
		}
	}
	hoisted := func(kind ir.Kind) {
		for _, d := range f.Component.Dedupped.All() {
			if d.Info.Kind == kind {
				add(d.Info.Ident, d.Object)
				addInlines(objectInlines(d.Object))
			}
		}
	}

	obj := f.Component
	if f.Types {
		add(obj.Ident(), obj.Data)
		addInlines(objectInlines(obj.Data))
		hoisted(ir.KindType)
	}
	if f.Requests {
		for _, r := range obj.Requests {
			addInlines(objectInlines(r.Params.Data))
			addInlines(inlines(r.Returned))
		}
		hoisted(ir.KindRequest)
	}
	return out
}

func (w *writer) fieldlessEnum(ident ir.Ident, doc, url string, deprecated bool, en *ir.FieldlessEnum) {
	values := lower(ident, "Values")
	wire := w.wire()

	w.docComment("", doc, url, deprecated)
	w.printf("type %s string\n\n", ident)

	if len(en.Variants) > 0 {
		w.printf("const (\n")
		for _, v := range en.Variants {
			if v.Deprecated {
				w.printf("\t// Deprecated: Stripe marks this value as deprecated.\n")
			}
			w.printf("\t%s %s = %q\n", w.enumConst(ident, v), ident, v.Wire)
		}
		w.printf(")\n\n")
	}

	w.printf("var %s = [...]%s{", values, ident)
	for i, v := range en.Variants {
		if i > 0 {
			w.printf(", ")
		}
		w.printf("%s", w.enumConst(ident, v))
	}
	w.printf("}\n\n")

	if en.Open {
		w.printf("// Parse%s maps s onto %s. Values unknown to this version are\n// kept and reported through the wire logger.\n", ident, article(ident))
	} else {
		w.printf("// Parse%s maps s onto %s, rejecting unknown values.\n", ident, article(ident))
	}
	w.printf("func Parse%s(s string) (%s, error) {\n", ident, ident)
	w.printf("\treturn %s.ParseEnum(%q, s, %t, %s[:]...)\n}\n\n", wire, ident, en.Open, values)

	w.printf("func (e %s) String() string {\n\treturn string(e)\n}\n\n", ident)

	if en.Open {
		w.printf("// IsUnknown reports whether e was not known when the package was generated.\n")
		w.printf("func (e %s) IsUnknown() bool {\n\treturn !%s.Known(e, %s[:]...)\n}\n\n", ident, wire, values)
	}

	w.printf("// MarshalText implements encoding.TextMarshaler.\n")
	w.printf("func (e %s) MarshalText() ([]byte, error) {\n\treturn []byte(e), nil\n}\n\n", ident)

	w.printf("// UnmarshalText implements encoding.TextUnmarshaler.\n")
	w.printf("func (e *%s) UnmarshalText(b []byte) error {\n", ident)
	w.printf("\tv, err := Parse%s(string(b))\n\tif err != nil {\n\t\treturn err\n\t}\n\t*e = v\n\treturn nil\n}\n\n", ident)
}
