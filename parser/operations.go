package parser

import (
	"fmt"
	"strings"

	"go.yaml.in/yaml/v4"

	"github.com/arlyon/async-stripe-sub040/internal/pathtmpl"
)

// ParamIn classifies where a parameter travels.
type ParamIn int

const (
	// InPath parameters fill {name} placeholders.
	InPath ParamIn = iota
	// InQuery parameters are encoded into the query string.
	InQuery
	// InForm parameters come from a form-encoded request body.
	InForm
)

// String returns the location name.
func (p ParamIn) String() string {
	switch p {
	case InPath:
		return "path"
	case InQuery:
		return "query"
	case InForm:
		return "form"
	default:
		return "unknown"
	}
}

// Parameter is a classified operation parameter.
type Parameter struct {
	Name        string
	In          ParamIn
	Description string
	Required    bool
	Style       string
	Explode     bool
	Deprecated  bool
	Schema      *Schema
}

const formContentType = "application/x-www-form-urlencoded"

// Operation is a single method on a path.
type Operation struct {
	// Method is upper case ("GET", "POST", "DELETE").
	Method      string
	Path        string
	OperationID string
	Summary     string
	Description string
	Parameters  []*Parameter
	// RequestBody is the form body schema, if any.
	RequestBody *Schema
	// Success is the first 2xx JSON response schema, if any.
	Success    *Schema
	Deprecated bool
	Extensions map[string]any
}

// Key returns "<method> <path>" for diagnostics.
func (o *Operation) Key() string {
	return strings.ToLower(o.Method) + " " + o.Path
}

// Params returns the parameters located in in, in declaration order.
func (o *Operation) Params(in ParamIn) []*Parameter {
	var out []*Parameter
	for _, p := range o.Parameters {
		if p.In == in {
			out = append(out, p)
		}
	}
	return out
}

// Template parses the operation's path template.
func (o *Operation) Template() (*pathtmpl.Template, error) {
	return pathtmpl.Parse(o.Path)
}

// Validate checks that path parameters and placeholders match one-to-one.
func (o *Operation) Validate() error {
	tmpl, err := o.Template()
	if err != nil {
		return err
	}
	names := make([]string, 0)
	for _, p := range o.Params(InPath) {
		names = append(names, p.Name)
	}
	return tmpl.CheckParams(names)
}

var httpMethods = map[string]bool{
	"get": true, "put": true, "post": true, "delete": true,
	"options": true, "head": true, "patch": true, "trace": true,
}

// decodePathItem decodes the operations of one path in document order.
func (d *Document) decodePathItem(path string, n *yaml.Node) ([]*Operation, error) {
	var shared []*yaml.Node
	if ps := child(n, "parameters"); ps != nil {
		shared = ps.Content
	}
	var ops []*Operation
	err := pairs(n, func(key string, val *yaml.Node) error {
		if !httpMethods[key] {
			return nil
		}
		op, err := d.decodeOperation(strings.ToUpper(key), path, val, shared)
		if err != nil {
			return fmt.Errorf("%s %s: %w", key, path, err)
		}
		ops = append(ops, op)
		return nil
	})
	return ops, err
}

func (d *Document) decodeOperation(method, path string, n *yaml.Node, shared []*yaml.Node) (*Operation, error) {
	op := &Operation{
		Method:      method,
		Path:        path,
		OperationID: scalar(child(n, "operationId")),
		Summary:     scalar(child(n, "summary")),
		Description: scalar(child(n, "description")),
		Deprecated:  boolValue(child(n, "deprecated")),
	}

	var paramNodes []*yaml.Node
	paramNodes = append(paramNodes, shared...)
	if ps := child(n, "parameters"); ps != nil {
		paramNodes = append(paramNodes, ps.Content...)
	}
	for _, pn := range paramNodes {
		p, err := d.decodeParameter(pn)
		if err != nil {
			return nil, err
		}
		if p != nil {
			op.Parameters = append(op.Parameters, p)
		}
	}

	if body := child(n, "requestBody"); body != nil {
		schemaNode := child(child(child(body, "content"), formContentType), "schema")
		if schemaNode != nil {
			s, err := DecodeSchema(schemaNode)
			if err != nil {
				return nil, fmt.Errorf("request body: %w", err)
			}
			if s.IsRef() {
				if target, ok := d.lookupRef(s.Ref); ok {
					s = target
				}
			}
			op.RequestBody = s
			for name, ps := range s.Properties.All() {
				op.Parameters = append(op.Parameters, &Parameter{
					Name:        name,
					In:          InForm,
					Description: ps.Description,
					Required:    s.IsRequired(name),
					Deprecated:  ps.Deprecated,
					Schema:      ps,
				})
			}
		}
	}

	err := pairs(child(n, "responses"), func(status string, val *yaml.Node) error {
		if op.Success != nil || !strings.HasPrefix(status, "2") {
			return nil
		}
		schemaNode := child(child(child(val, "content"), "application/json"), "schema")
		if schemaNode == nil {
			return nil
		}
		s, err := DecodeSchema(schemaNode)
		if err != nil {
			return fmt.Errorf("response %s: %w", status, err)
		}
		op.Success = s
		return nil
	})
	if err != nil {
		return nil, err
	}

	_ = pairs(n, func(key string, val *yaml.Node) error {
		if strings.HasPrefix(key, "x-") {
			if op.Extensions == nil {
				op.Extensions = make(map[string]any)
			}
			op.Extensions[key] = anyValue(val)
		}
		return nil
	})
	return op, nil
}

func (d *Document) decodeParameter(n *yaml.Node) (*Parameter, error) {
	if ref := scalar(child(n, "$ref")); ref != "" {
		target := d.parameterNodes[strings.TrimPrefix(ref, "#/components/parameters/")]
		if target == nil {
			return nil, fmt.Errorf("unresolved parameter reference %s", ref)
		}
		n = target
	}
	p := &Parameter{
		Name:        scalar(child(n, "name")),
		Description: scalar(child(n, "description")),
		Required:    boolValue(child(n, "required")),
		Style:       scalar(child(n, "style")),
		Explode:     boolValue(child(n, "explode")),
		Deprecated:  boolValue(child(n, "deprecated")),
	}
	switch in := scalar(child(n, "in")); in {
	case "path":
		p.In = InPath
		p.Required = true
	case "query":
		p.In = InQuery
	case "header", "cookie":
		// Transport-level parameters are handled by the runtime client.
		return nil, nil
	default:
		return nil, fmt.Errorf("parameter %s: unsupported location %q", p.Name, in)
	}
	s, err := DecodeSchema(child(n, "schema"))
	if err != nil {
		return nil, fmt.Errorf("parameter %s: %w", p.Name, err)
	}
	if s == nil {
		s = &Schema{Type: "string"}
	}
	p.Schema = s
	return p, nil
}
