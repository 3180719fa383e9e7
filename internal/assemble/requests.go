package assemble

import (
	"strings"

	"github.com/arlyon/async-stripe-sub040/internal/infer"
	"github.com/arlyon/async-stripe-sub040/internal/ir"
	"github.com/arlyon/async-stripe-sub040/internal/maputil"
	"github.com/arlyon/async-stripe-sub040/internal/pathtmpl"
	"github.com/arlyon/async-stripe-sub040/parser"
)

type operationOwner struct {
	path       ir.ComponentPath
	methodName string
}

// Requests attaches every operation to its owning component and returns
// the number of requests attached. Operations that cannot be assembled
// are reported and discarded.
func (a *Assembler) Requests(objs *ir.Components) int {
	a.scan()
	owners := a.declaredOwners()
	count := 0
	for op := range a.doc.Operations() {
		key := op.Key()
		owner, ok := owners[key]
		if !ok {
			owner = operationOwner{path: a.returnedOwner(op.Success)}
		}

		if err := op.Validate(); err != nil {
			a.report(owner.path, key, assemblyError(owner.path, key, "path parameters do not match the template", err))
			continue
		}
		if owner.path == "" {
			a.report("", key, assemblyError("", key, "operation has no owning component", nil))
			continue
		}
		obj, ok := objs.Get(owner.path)
		if !ok {
			a.report(owner.path, key, assemblyError(owner.path, key, "owning component was skipped", nil))
			continue
		}

		req, err := a.request(op, obj, owner.methodName)
		if err != nil {
			a.report(owner.path, key, assemblyError(owner.path, key, "request skipped", err))
			continue
		}
		obj.Requests = append(obj.Requests, req)
		count++
	}
	return count
}

// declaredOwners maps operation keys to the components listing them in
// x-stripeOperations. The first listing wins.
func (a *Assembler) declaredOwners() map[string]operationOwner {
	owners := make(map[string]operationOwner)
	for path, s := range a.doc.ComponentSchemas() {
		for _, so := range s.StripeOperations {
			key := strings.ToLower(so.Operation) + " " + so.Path
			if _, taken := owners[key]; !taken {
				owners[key] = operationOwner{path: path, methodName: so.MethodName}
			}
		}
	}
	return owners
}

// returnedOwner picks the component an operation returns: a direct
// reference, the item of a list, or the first union branch. Deleted
// companions map to the entity they delete.
func (a *Assembler) returnedOwner(s *parser.Schema) ir.ComponentPath {
	if s == nil {
		return ""
	}
	if path, ok := s.RefPath(); ok {
		if parent, ok := a.deleted[path]; ok {
			return parent
		}
		return path
	}
	if item := ListItem(s); item != nil {
		return a.returnedOwner(item)
	}
	for _, b := range s.Union() {
		if path := a.returnedOwner(b); path != "" {
			return path
		}
	}
	return ""
}

// ListItem returns the item schema of a Stripe list object: a `data`
// array together with `has_more` or an `object: list` literal.
func ListItem(s *parser.Schema) *parser.Schema {
	data := s.Property("data")
	if data == nil || data.Type != "array" {
		return nil
	}
	lit, _ := s.Property(infer.DiscriminatorField).ConstString()
	if s.Property("has_more") == nil && lit != "list" {
		return nil
	}
	return data.Items
}

func (a *Assembler) request(op *parser.Operation, obj *ir.StripeObject, methodName string) (*ir.RequestSpec, error) {
	tmpl, err := op.Template()
	if err != nil {
		return nil, err
	}
	ident := a.in.Unique(RequestIdent(op.Method, tmpl, obj.Ident(), methodName))
	req := &ir.RequestSpec{
		Method:       op.Method,
		PathTemplate: op.Path,
		OperationID:  op.OperationID,
		Doc:          op.Description,
		Deprecated:   op.Deprecated,
		Form:         op.Method != "GET" && op.Method != "DELETE",
	}
	if req.Doc == "" {
		req.Doc = op.Summary
	}

	byName := make(map[string]*parser.Parameter)
	for _, p := range op.Params(parser.InPath) {
		byName[p.Name] = p
	}
	for _, name := range tmpl.Params() {
		req.PathParams = append(req.PathParams, ir.PathParam{
			Name: name,
			Doc:  byName[name].Description,
			Type: a.pathParamType(name, obj),
		})
	}

	ctx := infer.Context{Component: obj.Path, Parent: ident, Kind: ir.KindRequest}
	params, err := a.in.InferStruct(paramsSchema(op), ctx, ident)
	if err != nil {
		return nil, err
	}
	req.Params = &ir.InlineObject{
		Data: params,
		Meta: ir.ObjectMetadata{
			Ident:  ident,
			Doc:    req.Doc,
			Parent: obj.Ident(),
			Kind:   ir.KindRequest,
			Gen:    ir.GenFlags{Constructor: true},
		},
	}

	rctx := infer.Context{Component: obj.Path, Parent: ident, Kind: ir.KindType}
	switch item := ListItem(op.Success); {
	case item != nil:
		rctx.Field = "item"
		t, err := a.in.Infer(item, rctx)
		if err != nil {
			return nil, err
		}
		req.Returned = t
		req.Pagination = &ir.Pagination{Item: t}
	case op.Success != nil:
		rctx.Field = "returned"
		t, err := a.in.Infer(op.Success, rctx)
		if err != nil {
			return nil, err
		}
		req.Returned = t
	default:
		req.Returned = ir.NewSimple(ir.JSON)
	}
	return req, nil
}

// pathParamType borrows the id newtype of the component a placeholder is
// named after. A bare {id} borrows the owner's id.
func (a *Assembler) pathParamType(name string, owner *ir.StripeObject) ir.Type {
	if id, ok := a.idTypes[ir.ComponentPath(name)]; ok {
		return &ir.ObjectID{Path: id, Borrowed: true}
	}
	if name == "id" && owner.IDType != "" {
		return &ir.ObjectID{Path: owner.IDType, Borrowed: true}
	}
	return ir.NewSimple(ir.String)
}

// paramsSchema gathers query and form parameters into one object schema.
// Dotted names nest into sub-objects.
func paramsSchema(op *parser.Operation) *parser.Schema {
	s := &parser.Schema{Type: "object", Properties: maputil.NewOrdered[string, *parser.Schema]()}
	for _, p := range op.Parameters {
		if p.In == parser.InPath {
			continue
		}
		ps := p.Schema
		if (p.Description != "" && ps.Description == "") || (p.Deprecated && !ps.Deprecated) {
			cp := *ps
			if cp.Description == "" {
				cp.Description = p.Description
			}
			cp.Deprecated = cp.Deprecated || p.Deprecated
			ps = &cp
		}
		setParam(s, p.Name, ps, p.Required)
	}
	return s
}

func setParam(s *parser.Schema, name string, ps *parser.Schema, required bool) {
	head, rest, nested := strings.Cut(name, ".")
	if required && !s.IsRequired(head) {
		s.Required = append(s.Required, head)
	}
	if !nested {
		s.Properties.Set(name, ps)
		return
	}
	child, ok := s.Properties.Get(head)
	if !ok || child.Properties == nil {
		child = &parser.Schema{Type: "object", Properties: maputil.NewOrdered[string, *parser.Schema]()}
		s.Properties.Set(head, child)
	}
	setParam(child, rest, ps, required)
}

// RequestIdent names a request: the x-stripeOperations method name, or a
// verb derived from the method and path, followed by the owner's ident.
//
//	post /v1/customers              -> CreateCustomer
//	get  /v1/customers/{customer}   -> RetrieveCustomer
//	post /v1/invoices/{invoice}/pay -> PayInvoice
func RequestIdent(method string, tmpl *pathtmpl.Template, owner ir.Ident, methodName string) ir.Ident {
	if methodName != "" {
		return ir.NewIdent(methodName) + owner
	}
	return derivedVerb(method, tmpl) + owner
}

func derivedVerb(method string, tmpl *pathtmpl.Template) ir.Ident {
	switch method {
	case "GET":
		if tmpl.EndsWithParam() {
			return "Retrieve"
		}
		return "List"
	case "DELETE":
		return "Delete"
	case "POST":
		if tmpl.EndsWithParam() {
			return "Update"
		}
		segs := tmpl.Segments
		if n := len(segs); n >= 2 && isParamSegment(segs[n-2]) && !isParamSegment(segs[n-1]) {
			return ir.NewIdent(segs[n-1][0].Literal)
		}
		return "Create"
	}
	return ir.NewIdent(strings.ToLower(method))
}

func isParamSegment(seg []pathtmpl.Part) bool {
	return len(seg) == 1 && seg[0].IsParam()
}
