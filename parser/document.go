package parser

import (
	"iter"
	"time"

	"github.com/hashicorp/go-version"
	"go.yaml.in/yaml/v4"

	"github.com/arlyon/async-stripe-sub040/internal/ir"
	"github.com/arlyon/async-stripe-sub040/internal/maputil"
)

// SourceFormat is the serialization format of the input document.
type SourceFormat string

const (
	// SourceFormatJSON indicates JSON input.
	SourceFormatJSON SourceFormat = "json"
	// SourceFormatYAML indicates YAML input.
	SourceFormatYAML SourceFormat = "yaml"
)

// Info is the document's info object.
type Info struct {
	Title   string
	Version string
}

// Document is an immutable, order-preserving view of an OpenAPI document.
type Document struct {
	// OpenAPI is the declared openapi version string.
	OpenAPI string
	// Version is the parsed OpenAPI version.
	Version *version.Version
	Info    Info

	SourcePath   string
	SourceFormat SourceFormat
	SourceSize   int64
	LoadTime     time.Duration

	schemas        *maputil.Ordered[ir.ComponentPath, *Schema]
	parameterNodes map[string]*yaml.Node
	operations     []*Operation
}

// ComponentSchemas yields every component schema in document order.
func (d *Document) ComponentSchemas() iter.Seq2[ir.ComponentPath, *Schema] {
	return d.schemas.All()
}

// Component returns the schema of a component.
func (d *Document) Component(path ir.ComponentPath) (*Schema, bool) {
	return d.schemas.Get(path)
}

// ComponentPaths returns all component paths in document order.
func (d *Document) ComponentPaths() []ir.ComponentPath {
	return d.schemas.Keys()
}

// ComponentCount returns the number of component schemas.
func (d *Document) ComponentCount() int {
	return d.schemas.Len()
}

// Operations yields every operation in document order.
func (d *Document) Operations() iter.Seq[*Operation] {
	return func(yield func(*Operation) bool) {
		for _, op := range d.operations {
			if !yield(op) {
				return
			}
		}
	}
}

// OperationCount returns the number of operations.
func (d *Document) OperationCount() int {
	return len(d.operations)
}

// lookupRef returns the component schema a reference points at.
func (d *Document) lookupRef(ref string) (*Schema, bool) {
	path, ok := ir.ComponentPathFromRef(ref)
	if !ok {
		return nil, false
	}
	return d.schemas.Get(path)
}

// NewResolver returns a reference resolver over the document.
func (d *Document) NewResolver() *Resolver {
	return &Resolver{doc: d, onStack: make(map[ir.ComponentPath]bool)}
}
