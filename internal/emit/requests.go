package emit

import (
	"strconv"
	"strings"

	"github.com/arlyon/async-stripe-sub040/internal/ir"
	"github.com/arlyon/async-stripe-sub040/internal/naming"
	"github.com/arlyon/async-stripe-sub040/internal/pathtmpl"
)

// componentRequests renders the request builders of the component and the
// request-kind types hoisted into it.
func (w *writer) componentRequests() {
	obj := w.obj
	for _, r := range obj.Requests {
		if !w.claim(r.Ident()) {
			w.fail(r.Ident(), "request %s rendered twice", r.Ident())
			continue
		}
		w.request(r)
		w.inlineObjects(objectInlines(r.Params.Data))
		w.inlineObjects(inlines(r.Returned))
	}
	for _, d := range obj.Dedupped.All() {
		if d.Info.Kind != ir.KindRequest || !w.claim(d.Info.Ident) {
			continue
		}
		w.object(d.Info.Ident, d.Doc, "", false, d.Object, ir.KindRequest)
		w.inlineObjects(objectInlines(d.Object))
	}
}

// requestNames allocates the unexported names of one request builder.
type requestNames map[string]bool

func newRequestNames() requestNames {
	return requestNames{"params": true, "request": true, "r": true, "c": true, "ctx": true}
}

func (n requestNames) claim(base string) string {
	base = naming.EscapeKeyword(base)
	name := base
	for i := 2; n[name]; i++ {
		name = base + strconv.Itoa(i)
	}
	n[name] = true
	return name
}

type pathField struct {
	param string
	name  string
	typ   string
	doc   string
}

func (w *writer) request(r *ir.RequestSpec) {
	ident := r.Ident()
	params, ok := r.Params.Data.(*ir.Struct)
	if !ok {
		w.fail(ident, "request parameters are not a struct")
		return
	}
	paramsType := lower(ident, "Params")
	tmpl, err := pathtmpl.Parse(r.PathTemplate)
	if err != nil {
		w.fail(ident, "path template %q: %v", r.PathTemplate, err)
		return
	}

	fieldNames := newRequestNames()
	var paths []pathField
	for _, p := range r.PathParams {
		paths = append(paths, pathField{
			param: p.Name,
			name:  fieldNames.claim(naming.ToCamelCase(p.Name)),
			typ:   w.typeExpr(p.Type),
			doc:   p.Doc,
		})
	}

	doc := r.Doc
	if doc == "" {
		doc = r.Operation()
	}
	w.docComment("", doc, "", r.Deprecated)
	w.printf("type %s struct {\n", ident)
	for _, p := range paths {
		w.printf("\t%s %s\n", p.name, p.typ)
	}
	w.printf("\tparams %s\n}\n\n", paramsType)

	w.printf("type %s struct {\n", paramsType)
	w.fields(params)
	w.printf("}\n\n")

	w.constructor(ident, paths, params)
	w.setters(ident, params)
	w.requestMethod(r, tmpl, paths)
	w.send(r)
}

// constructor renders New<Ident>, taking path parameters and required
// parameters in declaration order.
func (w *writer) constructor(ident ir.Ident, paths []pathField, params *ir.Struct) {
	args := newRequestNames()
	var sig, body []string
	for _, p := range paths {
		arg := args.claim(naming.ToCamelCase(p.param))
		sig = append(sig, arg+" "+p.typ)
		body = append(body, "\tr."+p.name+" = "+arg)
	}
	for _, f := range params.RequiredFields() {
		arg := args.claim(f.Name.Unexported())
		sig = append(sig, arg+" "+w.typeExpr(f.Type))
		body = append(body, "\tr.params."+f.Name.String()+" = "+arg)
	}

	w.printf("// New%s returns %s with its required values set.\n", ident, article(ident))
	w.printf("func New%s(%s) *%s {\n", ident, strings.Join(sig, ", "), ident)
	w.printf("\tr := &%s{}\n", ident)
	for _, line := range body {
		w.printf("%s\n", line)
	}
	w.printf("\treturn r\n}\n\n")
}

func setterName(f *ir.Field) string {
	switch name := f.Name.String(); name {
	case "Send", "Paginate":
		return name + "Param"
	default:
		return name
	}
}

func (w *writer) setters(ident ir.Ident, params *ir.Struct) {
	for _, f := range params.Fields {
		if !f.Optional() {
			continue
		}
		inner := ir.Unwrap(f.Type)
		typ := w.typeExpr(inner)
		value := "v"
		if !nilable(inner) {
			value = "&v"
		}
		w.docComment("", f.Doc, "", f.Deprecated)
		w.printf("func (r *%s) %s(v %s) *%s {\n\tr.params.%s = %s\n\treturn r\n}\n\n",
			ident, setterName(f), typ, ident, f.Name, value)
	}
}

func (w *writer) requestMethod(r *ir.RequestSpec, tmpl *pathtmpl.Template, paths []pathField) {
	byParam := make(map[string]string, len(paths))
	for _, p := range paths {
		byParam[p.param] = p.name
	}
	if len(paths) > 0 {
		w.use("net/url")
	}
	path := tmpl.GoExpr(func(param string) string {
		return "url.PathEscape(string(r." + byParam[param] + "))"
	})

	w.printf("func (r *%s) request() *%s.Request {\n", r.Ident(), w.wire())
	w.printf("\treturn &%s.Request{\n", w.wire())
	w.printf("\t\tMethod: %q,\n", strings.ToUpper(r.Method))
	w.printf("\t\tPath:   %s,\n", path)
	w.printf("\t\tParams: &r.params,\n")
	if r.Form {
		w.printf("\t\tForm:   true,\n")
	}
	w.printf("\t}\n}\n\n")
}

func (w *writer) send(r *ir.RequestSpec) {
	ident := r.Ident()
	wire := w.wire()
	w.use("context")

	if r.Pagination == nil {
		out := w.typeExpr(ir.Unwrap(r.Returned))
		w.printf("// Send performs the request.\n")
		w.printf("func (r *%s) Send(ctx context.Context, c %s.Client) (*%s, error) {\n", ident, wire, out)
		w.printf("\treturn %s.Send[%s](ctx, c, r.request())\n}\n\n", wire, out)
		return
	}

	item := w.typeExpr(ir.Unwrap(r.Pagination.Item))
	w.printf("// Send fetches a single page.\n")
	w.printf("func (r *%s) Send(ctx context.Context, c %s.Client) (*%s.List[%s], error) {\n", ident, wire, wire, item)
	w.printf("\treturn %s.Send[%s.List[%s]](ctx, c, r.request())\n}\n\n", wire, wire, item)

	cursor := "nil"
	if owner, ok := w.e.typeGetter(r.Pagination.Item); ok {
		id, _ := w.idType(owner.Path)
		cursor = wire + ".ByID[" + id + ", " + item + "]"
	}
	w.use("iter")
	w.printf("// Paginate iterates over the items of every page.\n")
	w.printf("func (r *%s) Paginate(ctx context.Context, c %s.Client) iter.Seq2[%s, error] {\n", ident, wire, item)
	w.printf("\treturn %s.Paginate[%s](ctx, c, r.request(), %s)\n}\n", wire, item, cursor)
	w.printf("\n")
}
