package generator

import (
	"fmt"
	"time"

	"github.com/spf13/afero"

	"github.com/arlyon/async-stripe-sub040/internal/assemble"
	"github.com/arlyon/async-stripe-sub040/internal/dedup"
	"github.com/arlyon/async-stripe-sub040/internal/docurl"
	"github.com/arlyon/async-stripe-sub040/internal/emit"
	"github.com/arlyon/async-stripe-sub040/internal/ir"
	"github.com/arlyon/async-stripe-sub040/internal/issues"
	"github.com/arlyon/async-stripe-sub040/internal/overrides"
	"github.com/arlyon/async-stripe-sub040/internal/plan"
	"github.com/arlyon/async-stripe-sub040/internal/severity"
	"github.com/arlyon/async-stripe-sub040/parser"
)

// Severity indicates the severity level of a generation issue
type Severity = severity.Severity

const (
	// SeverityInfo indicates informational messages about generation choices
	SeverityInfo = severity.SeverityInfo
	// SeverityWarning indicates skipped components or operations
	SeverityWarning = severity.SeverityWarning
	// SeverityError indicates validation errors
	SeverityError = severity.SeverityError
	// SeverityCritical indicates problems that prevent generation
	SeverityCritical = severity.SeverityCritical
)

// GenerateIssue represents a single generation issue or limitation
type GenerateIssue = issues.Issue

// Logger is the structured logger used by the pipeline.
type Logger = parser.Logger

// GeneratedFile represents a single generated file
type GeneratedFile struct {
	// Name is the slash-separated path relative to the output root
	// (e.g., "core/customer.go")
	Name string
	// Content is the generated Go source code
	Content []byte
}

// GenerateResult contains the results of generating code from a Stripe OpenAPI document
type GenerateResult struct {
	// Files contains all generated files in plan order
	Files []GeneratedFile
	// SourcePath is the path or name of the input document
	SourcePath string
	// SourceFormat is the format of the source file (JSON or YAML)
	SourceFormat parser.SourceFormat
	// APIVersion is the document's info.version
	APIVersion string
	// ModulePath is the import path of the output root
	ModulePath string
	// Packages lists the generated package names, sorted
	Packages []string
	// Issues contains all generation issues
	Issues []GenerateIssue
	// InfoCount is the total number of info messages
	InfoCount int
	// WarningCount is the total number of warnings
	WarningCount int
	// CriticalCount is the total number of critical issues
	CriticalCount int
	// ComponentCount is the number of components emitted
	ComponentCount int
	// RequestCount is the number of request builders emitted
	RequestCount int
	// HoistedCount is the number of inline objects hoisted by deduplication
	HoistedCount int
	// Success is true if generation completed without critical issues
	Success bool
	// LoadTime is the time taken to load the source data
	LoadTime time.Duration
	// GenerateTime is the time taken to generate code
	GenerateTime time.Duration
	// SourceSize is the size of the source data in bytes
	SourceSize int64
}

// HasCriticalIssues returns true if there are any critical issues
func (r *GenerateResult) HasCriticalIssues() bool {
	return r.CriticalCount > 0
}

// HasWarnings returns true if there are any warnings
func (r *GenerateResult) HasWarnings() bool {
	return r.WarningCount > 0
}

// GetFile returns the generated file with the given name, or nil if not found
func (r *GenerateResult) GetFile(name string) *GeneratedFile {
	for i := range r.Files {
		if r.Files[i].Name == name {
			return &r.Files[i]
		}
	}
	return nil
}

// Generator turns a Stripe OpenAPI document into Go packages.
type Generator struct {
	// ModulePath is the import path of the output root.
	// Default: "example.com/stripe"
	ModulePath string

	// RuntimePath is the import path of the wire runtime package.
	// Default: the wire package of this module
	RuntimePath string

	// Format runs every file through goimports formatting.
	// Default: true
	Format bool

	// OpenEnumThreshold opens enums without annotation or override that
	// have more variants than this. 0 disables the rule.
	OpenEnumThreshold int

	// Overrides is the operator override table. May be nil.
	Overrides *overrides.Table

	// DocLookup supplies documentation URLs for components. May be nil.
	DocLookup docurl.Lookup

	// StrictMode causes generation to fail on any warning or critical issue
	StrictMode bool

	// IncludeInfo determines whether to include informational messages
	IncludeInfo bool

	// Workers is the number of files rendered concurrently.
	// Default: 1
	Workers int

	// Logger receives pipeline diagnostics. Default: no logging
	Logger Logger

	// Fs is the filesystem the document is read from.
	// Default: the OS filesystem
	Fs afero.Fs

	// Progress is called after each rendered file. May be nil.
	Progress func(done, total int)
}

// New creates a new Generator instance with default settings
func New() *Generator {
	return &Generator{
		ModulePath:  emit.DefaultModulePath,
		RuntimePath: emit.DefaultRuntimePath,
		Format:      true,
		IncludeInfo: true,
		Workers:     1,
	}
}

func (g *Generator) log() Logger {
	if g.Logger == nil {
		return parser.NopLogger{}
	}
	return g.Logger
}

// Generate parses the document at specPath and generates code from it
func (g *Generator) Generate(specPath string) (*GenerateResult, error) {
	opts := []parser.Option{parser.WithFilePath(specPath), parser.WithLogger(g.log())}
	if g.Fs != nil {
		opts = append(opts, parser.WithFs(g.Fs))
	}
	doc, err := parser.ParseWithOptions(opts...)
	if err != nil {
		return nil, fmt.Errorf("generator: failed to parse specification: %w", err)
	}
	return g.GenerateDocument(doc)
}

// GenerateDocument generates code from an already-parsed document.
//
// Components and operations that cannot be inferred or assembled are
// skipped and reported as issues. Invalid overrides, emitter
// inconsistencies and strict-mode violations return an error.
func (g *Generator) GenerateDocument(doc *parser.Document) (*GenerateResult, error) {
	startTime := time.Now()
	log := g.log()

	result := &GenerateResult{
		SourcePath:   doc.SourcePath,
		SourceFormat: doc.SourceFormat,
		APIVersion:   doc.Info.Version,
		ModulePath:   g.ModulePath,
		LoadTime:     doc.LoadTime,
		SourceSize:   doc.SourceSize,
	}
	if result.ModulePath == "" {
		result.ModulePath = emit.DefaultModulePath
	}

	assembled := assemble.New(doc, assemble.Options{
		OpenEnumThreshold: g.OpenEnumThreshold,
		Overrides:         g.Overrides,
		Logger:            log,
	}).Assemble()
	result.Issues = append(result.Issues, assembled.Issues...)
	objs := assembled.Components

	g.applyDocURLs(objs)

	deduped := dedup.New(assembled.Namespace, log).Run(objs)
	result.Issues = append(result.Issues, deduped.Issues...)
	result.HoistedCount = deduped.Hoisted

	p, err := plan.Build(objs, plan.Options{Overrides: g.Overrides, Logger: log})
	if err != nil {
		return nil, fmt.Errorf("generator: failed to plan packages: %w", err)
	}
	result.Packages = p.PackageNames()

	em := emit.New(p, objs, emit.Options{
		ModulePath:  result.ModulePath,
		RuntimePath: g.RuntimePath,
		Format:      g.Format,
		Namespace:   assembled.Namespace,
		Logger:      log,
	})
	files, err := g.render(em, p)
	if err != nil {
		return nil, fmt.Errorf("generator: failed to render files: %w", err)
	}
	result.Files = files

	result.ComponentCount = objs.Len()
	for _, obj := range objs.All() {
		result.RequestCount += len(obj.Requests)
	}

	result.GenerateTime = time.Since(startTime)
	g.updateCounts(result)
	result.Success = result.CriticalCount == 0
	log.Info("generated",
		"components", result.ComponentCount,
		"requests", result.RequestCount,
		"hoisted", result.HoistedCount,
		"packages", len(result.Packages),
		"files", len(result.Files),
		"issues", len(result.Issues),
	)

	// In strict mode, fail on any issues
	if g.StrictMode && (result.CriticalCount > 0 || result.WarningCount > 0) {
		return result, fmt.Errorf("generator: generation failed in strict mode: %d critical issue(s), %d warning(s)",
			result.CriticalCount, result.WarningCount)
	}

	// Filter info messages if not included
	if !g.IncludeInfo {
		filtered := make([]GenerateIssue, 0, len(result.Issues))
		for _, issue := range result.Issues {
			if issue.Severity != SeverityInfo {
				filtered = append(filtered, issue)
			}
		}
		result.Issues = filtered
		result.InfoCount = 0
	}

	return result, nil
}

func (g *Generator) applyDocURLs(objs *ir.Components) {
	if g.DocLookup == nil {
		return
	}
	for path, obj := range objs.All() {
		if url, ok := g.DocLookup.Lookup(path); ok {
			obj.DocURL = url
		}
	}
}

// render emits every planned file followed by each package's doc.go, in
// plan order, on the worker pool.
func (g *Generator) render(em *emit.Emitter, p *plan.Plan) ([]GeneratedFile, error) {
	var jobs []renderJob
	for _, pkg := range p.Packages {
		for _, f := range pkg.Files {
			jobs = append(jobs, func() (*emit.File, error) { return em.File(f) })
		}
		jobs = append(jobs, func() (*emit.File, error) { return em.PackageDoc(pkg) })
	}
	rendered, err := runPool(g.Workers, jobs, g.Progress)
	if err != nil {
		return nil, err
	}
	files := make([]GeneratedFile, len(rendered))
	for i, f := range rendered {
		files[i] = GeneratedFile{Name: f.Path, Content: f.Content}
	}
	return files, nil
}

// updateCounts updates the issue counts in the result
func (g *Generator) updateCounts(result *GenerateResult) {
	counts := issues.Count(result.Issues)
	result.InfoCount = counts.Info
	result.WarningCount = counts.Warning
	result.CriticalCount = counts.Critical
}
