// Package assemble turns the components and operations of a parsed
// document into [ir.StripeObject] values with their requests attached.
//
// Assembly is tolerant: a component or operation that cannot be assembled
// is skipped and reported as an issue, and anything that references a
// skipped component is skipped in turn so the result is closed under
// references.
package assemble

import (
	"errors"

	"github.com/arlyon/async-stripe-sub040/internal/infer"
	"github.com/arlyon/async-stripe-sub040/internal/ir"
	"github.com/arlyon/async-stripe-sub040/internal/issues"
	"github.com/arlyon/async-stripe-sub040/internal/overrides"
	"github.com/arlyon/async-stripe-sub040/internal/severity"
	"github.com/arlyon/async-stripe-sub040/oaserrors"
	"github.com/arlyon/async-stripe-sub040/parser"
)

// Options configure an Assembler.
type Options struct {
	// OpenEnumThreshold is passed to inference; see infer.Options.
	OpenEnumThreshold int
	Overrides         *overrides.Table
	Logger            parser.Logger
}

// Result is the outcome of assembling a document.
type Result struct {
	// Components holds the assembled components in document order.
	Components *ir.Components
	// Index maps `object` literals to the component declaring them.
	Index  ir.ObjectIndex
	Issues []issues.Issue
	// RequestCount is the number of requests attached to components.
	RequestCount int
	// Namespace holds every identifier handed out during assembly.
	Namespace ir.Namespace
}

// Assembler assembles one document. It is not safe for concurrent use.
type Assembler struct {
	doc  *parser.Document
	opts Options
	log  parser.Logger
	in   *infer.Inferrer

	scanned bool
	index   ir.ObjectIndex
	literal map[ir.ComponentPath]string
	idTypes map[ir.ComponentPath]ir.ComponentPath
	deleted map[ir.ComponentPath]ir.ComponentPath
	issues  []issues.Issue
}

// New creates an Assembler over doc.
func New(doc *parser.Document, opts Options) *Assembler {
	log := opts.Logger
	if log == nil {
		log = parser.NopLogger{}
	}
	return &Assembler{
		doc:  doc,
		opts: opts,
		log:  log,
		in: infer.New(doc, infer.Options{
			OpenEnumThreshold: opts.OpenEnumThreshold,
			Overrides:         opts.Overrides,
		}),
		index:   make(ir.ObjectIndex),
		literal: make(map[ir.ComponentPath]string),
		idTypes: make(map[ir.ComponentPath]ir.ComponentPath),
		deleted: make(map[ir.ComponentPath]ir.ComponentPath),
	}
}

// Assemble runs object assembly, then request assembly, then prunes
// everything that references a skipped component.
func (a *Assembler) Assemble() *Result {
	a.scan()
	objs := a.Objects()
	count := a.Requests(objs)
	count -= a.prune(objs)
	return &Result{
		Components:   objs,
		Index:        a.index,
		Issues:       a.issues,
		RequestCount: count,
		Namespace:    a.in,
	}
}

// Issues returns the issues recorded so far.
func (a *Assembler) Issues() []issues.Issue {
	return a.issues
}

func (a *Assembler) report(path ir.ComponentPath, op string, err error) {
	var loc string
	var compErr *oaserrors.ComponentError
	if errors.As(err, &compErr) && compErr.Field != "" {
		loc = issues.FormatPath("fields", compErr.Field)
	}
	a.issues = append(a.issues, issues.Issue{
		Component: string(path),
		Operation: op,
		Path:      loc,
		Message:   err.Error(),
		Severity:  severity.SeverityWarning,
		Err:       err,
	})
	a.log.Warn("skipping", "component", string(path), "operation", op, "error", err)
}

func assemblyError(path ir.ComponentPath, op, msg string, cause error) error {
	return &oaserrors.ComponentError{
		Stage:     oaserrors.StageAssembly,
		Component: string(path),
		Operation: op,
		Message:   msg,
		Cause:     cause,
	}
}
