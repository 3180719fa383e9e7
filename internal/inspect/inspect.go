// Package inspect summarises assembled components for the inspect command
// and the MCP tools.
package inspect

import (
	"fmt"
	"path"
	"strings"

	"github.com/arlyon/async-stripe-sub040/internal/assemble"
	"github.com/arlyon/async-stripe-sub040/internal/dedup"
	"github.com/arlyon/async-stripe-sub040/internal/docurl"
	"github.com/arlyon/async-stripe-sub040/internal/ir"
	"github.com/arlyon/async-stripe-sub040/internal/issues"
	"github.com/arlyon/async-stripe-sub040/internal/overrides"
	"github.com/arlyon/async-stripe-sub040/internal/plan"
	"github.com/arlyon/async-stripe-sub040/parser"
)

// Options configures Analyze.
type Options struct {
	OpenEnumThreshold int
	Overrides         *overrides.Table
	DocLookup         docurl.Lookup
	Logger            parser.Logger
}

// Analysis is the assembled, deduplicated and planned form of a document.
type Analysis struct {
	Components *ir.Components
	Plan       *plan.Plan
	Issues     []issues.Issue
}

// Analyze runs every pipeline stage up to rendering.
func Analyze(doc *parser.Document, opts Options) (*Analysis, error) {
	res := assemble.New(doc, assemble.Options{
		OpenEnumThreshold: opts.OpenEnumThreshold,
		Overrides:         opts.Overrides,
		Logger:            opts.Logger,
	}).Assemble()

	if opts.DocLookup != nil {
		for p, obj := range res.Components.All() {
			if url, ok := opts.DocLookup.Lookup(p); ok {
				obj.DocURL = url
			}
		}
	}

	deduped := dedup.New(res.Namespace, opts.Logger).Run(res.Components)
	p, err := plan.Build(res.Components, plan.Options{Overrides: opts.Overrides, Logger: opts.Logger})
	if err != nil {
		return nil, fmt.Errorf("inspect: failed to plan packages: %w", err)
	}

	all := append(res.Issues, deduped.Issues...)
	return &Analysis{Components: res.Components, Plan: p, Issues: all}, nil
}

// Entry is the one-line summary of a component.
type Entry struct {
	Path     string `json:"path"`
	Ident    string `json:"ident"`
	Package  string `json:"package"`
	Kind     string `json:"kind"`
	Requests int    `json:"requests,omitempty"`
}

// List returns an entry per component, in document order. A non-empty
// pkg keeps only components rendered in that package; a non-empty pattern
// keeps paths matching the glob.
func (a *Analysis) List(pkg, pattern string) ([]Entry, error) {
	if pattern != "" {
		if _, err := path.Match(pattern, ""); err != nil {
			return nil, fmt.Errorf("invalid pattern %q: %w", pattern, err)
		}
	}
	var out []Entry
	for p, obj := range a.Components.All() {
		home := a.Plan.TypesPackage(p)
		if pkg != "" && home != pkg {
			continue
		}
		if pattern != "" {
			if ok, _ := path.Match(pattern, string(p)); !ok {
				continue
			}
		}
		out = append(out, Entry{
			Path:     string(p),
			Ident:    string(obj.Ident()),
			Package:  home,
			Kind:     kindOf(obj.Data),
			Requests: len(obj.Requests),
		})
	}
	return out, nil
}

// Field describes one struct field.
type Field struct {
	Name       string `json:"name"`
	Wire       string `json:"wire"`
	Type       string `json:"type"`
	Required   bool   `json:"required,omitempty"`
	Expandable bool   `json:"expandable,omitempty"`
	Deprecated bool   `json:"deprecated,omitempty"`
}

// Variant describes one enum or union variant.
type Variant struct {
	Wire  string `json:"wire"`
	Ident string `json:"ident"`
	Type  string `json:"type,omitempty"`
}

// Request describes one request builder.
type Request struct {
	Ident     string `json:"ident"`
	Method    string `json:"method"`
	Path      string `json:"path"`
	Returns   string `json:"returns"`
	Paginated bool   `json:"paginated,omitempty"`
	Form      bool   `json:"form,omitempty"`
}

// Component is the detailed description of a component.
type Component struct {
	Path        string    `json:"path"`
	Ident       string    `json:"ident"`
	Package     string    `json:"package"`
	Kind        string    `json:"kind"`
	ObjectName  string    `json:"object_name,omitempty"`
	Description string    `json:"description,omitempty"`
	DocURL      string    `json:"doc_url,omitempty"`
	Deprecated  bool      `json:"deprecated,omitempty"`
	IDType      string    `json:"id_type,omitempty"`
	IDPrefixes  []string  `json:"id_prefixes,omitempty"`
	Open        bool      `json:"open,omitempty"`
	Fields      []Field   `json:"fields,omitempty"`
	Variants    []Variant `json:"variants,omitempty"`
	Requests    []Request `json:"requests,omitempty"`
	Hoisted     []string  `json:"hoisted,omitempty"`
	References  []string  `json:"references,omitempty"`
}

// Describe returns the description of the component at p.
func (a *Analysis) Describe(p ir.ComponentPath) (*Component, bool) {
	obj, ok := a.Components.Get(p)
	if !ok {
		return nil, false
	}

	c := &Component{
		Path:        string(p),
		Ident:       string(obj.Ident()),
		Package:     a.Plan.TypesPackage(p),
		Kind:        kindOf(obj.Data),
		ObjectName:  obj.ObjectName,
		Description: obj.Description,
		DocURL:      obj.DocURL,
		Deprecated:  obj.Deprecated,
		IDPrefixes:  obj.IDPrefixes,
		Open:        ir.IsOpen(obj.Data),
	}
	if owner, ok := a.Components.Get(obj.IDType); ok {
		c.IDType = string(owner.Ident()) + "ID"
	}

	switch data := obj.Data.(type) {
	case *ir.Struct:
		for _, f := range data.Fields {
			c.Fields = append(c.Fields, Field{
				Name:       string(f.Name),
				Wire:       f.WireName,
				Type:       f.Type.String(),
				Required:   !f.Optional(),
				Expandable: f.Expandable,
				Deprecated: f.Deprecated,
			})
		}
	case *ir.FieldlessEnum:
		c.Variants = variants(data.Variants)
	case *ir.Enum:
		c.Variants = variants(data.Variants)
	}

	for _, r := range obj.Requests {
		c.Requests = append(c.Requests, Request{
			Ident:     string(r.Ident()),
			Method:    strings.ToUpper(r.Method),
			Path:      r.PathTemplate,
			Returns:   typeString(r.Returned),
			Paginated: r.Pagination != nil,
			Form:      r.Form,
		})
	}
	for ident, d := range obj.Dedupped.All() {
		c.Hoisted = append(c.Hoisted, fmt.Sprintf("%s (%s)", ident, d.Info.Kind))
	}
	for _, ref := range obj.RefPaths() {
		c.References = append(c.References, string(ref))
	}
	return c, true
}

func variants(list []*ir.Variant) []Variant {
	out := make([]Variant, len(list))
	for i, v := range list {
		out[i] = Variant{Wire: v.Wire, Ident: string(v.Ident), Type: typeString(v.Inner)}
	}
	return out
}

func typeString(t ir.Type) string {
	if t == nil {
		return ""
	}
	return t.String()
}

func kindOf(o ir.Object) string {
	switch o.(type) {
	case *ir.Struct:
		return "struct"
	case *ir.FieldlessEnum:
		return "enum"
	case *ir.Enum:
		return "union"
	default:
		return "unknown"
	}
}
