package parser

import (
	"bytes"
	"fmt"
	"io"
	"time"

	"github.com/spf13/afero"
	"go.yaml.in/yaml/v4"

	"github.com/arlyon/async-stripe-sub040/internal/ir"
	"github.com/arlyon/async-stripe-sub040/internal/maputil"
	"github.com/arlyon/async-stripe-sub040/internal/options"
	"github.com/arlyon/async-stripe-sub040/oaserrors"
)

// Parser loads OpenAPI documents.
type Parser struct {
	// Fs is the filesystem files are read from. Defaults to the OS filesystem.
	Fs afero.Fs
	// Logger receives debug output. Defaults to NopLogger.
	Logger Logger
	// SkipVersionCheck accepts documents outside SupportedVersions.
	SkipVersionCheck bool
}

// New creates a Parser with default settings.
func New() *Parser {
	return &Parser{Fs: afero.NewOsFs(), Logger: NopLogger{}}
}

func (p *Parser) log() Logger {
	if p.Logger == nil {
		return NopLogger{}
	}
	return p.Logger
}

// Parse reads and parses the document at path.
func (p *Parser) Parse(path string) (*Document, error) {
	fs := p.Fs
	if fs == nil {
		fs = afero.NewOsFs()
	}
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, &oaserrors.IOError{Path: path, Op: "read", Cause: err}
	}
	return p.ParseBytes(data, path)
}

// ParseReader parses a document from r. name labels errors.
func (p *Parser) ParseReader(r io.Reader, name string) (*Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, &oaserrors.IOError{Path: name, Op: "read", Cause: err}
	}
	return p.ParseBytes(data, name)
}

// ParseBytes parses a JSON or YAML document. name labels errors.
func (p *Parser) ParseBytes(data []byte, name string) (*Document, error) {
	start := time.Now()
	log := p.log().With("source", name)

	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, &oaserrors.SpecError{Path: name, Message: "not valid JSON or YAML", Cause: err}
	}
	top := deref(&root)
	if top == nil || top.Kind != yaml.MappingNode {
		return nil, &oaserrors.SpecError{Path: name, Message: "document root must be a mapping"}
	}

	doc := &Document{
		OpenAPI:        scalar(child(top, "openapi")),
		SourcePath:     name,
		SourceFormat:   detectFormat(data),
		SourceSize:     int64(len(data)),
		schemas:        maputil.NewOrdered[ir.ComponentPath, *Schema](),
		parameterNodes: make(map[string]*yaml.Node),
	}
	doc.Info = Info{
		Title:   scalar(child(child(top, "info"), "title")),
		Version: scalar(child(child(top, "info"), "version")),
	}

	v, err := checkVersion(doc.OpenAPI)
	if err != nil && !p.SkipVersionCheck {
		return nil, &oaserrors.SpecError{Path: name, Section: "openapi", Message: err.Error()}
	}
	doc.Version = v

	components := child(top, "components")
	schemas := child(components, "schemas")
	if schemas == nil {
		return nil, &oaserrors.SpecError{Path: name, Section: "components.schemas", Message: "section missing"}
	}
	err = pairs(schemas, func(key string, val *yaml.Node) error {
		s, err := DecodeSchema(val)
		if err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		if s == nil {
			s = &Schema{}
		}
		doc.schemas.Set(ir.ComponentPath(key), s)
		return nil
	})
	if err != nil {
		return nil, &oaserrors.SpecError{Path: name, Section: "components.schemas", Message: "invalid schema", Cause: err}
	}
	_ = pairs(child(components, "parameters"), func(key string, val *yaml.Node) error {
		doc.parameterNodes[key] = val
		return nil
	})

	paths := child(top, "paths")
	if paths == nil {
		return nil, &oaserrors.SpecError{Path: name, Section: "paths", Message: "section missing"}
	}
	err = pairs(paths, func(path string, val *yaml.Node) error {
		ops, err := doc.decodePathItem(path, val)
		if err != nil {
			return err
		}
		doc.operations = append(doc.operations, ops...)
		return nil
	})
	if err != nil {
		return nil, &oaserrors.SpecError{Path: name, Section: "paths", Message: "invalid operation", Cause: err}
	}

	doc.LoadTime = time.Since(start)
	log.Debug("parsed document",
		"openapi", doc.OpenAPI,
		"components", doc.ComponentCount(),
		"operations", doc.OperationCount(),
		"duration", doc.LoadTime)
	return doc, nil
}

// detectFormat reports JSON when the first non-space byte opens an object.
func detectFormat(data []byte) SourceFormat {
	trimmed := bytes.TrimLeft(data, " \t\r\n")
	if len(trimmed) > 0 && trimmed[0] == '{' {
		return SourceFormatJSON
	}
	return SourceFormatYAML
}

// Option configures ParseWithOptions.
type Option func(*parseConfig) error

type parseConfig struct {
	filePath *string
	bytes    []byte
	reader   io.Reader
	name     string
	parser   *Parser
}

// ParseWithOptions parses a document using functional options. Exactly one
// input source (WithFilePath, WithBytes or WithReader) must be given.
//
// Example:
//
//	doc, err := parser.ParseWithOptions(
//	    parser.WithFilePath("spec3.sdk.yaml"),
//	    parser.WithLogger(logger),
//	)
func ParseWithOptions(opts ...Option) (*Document, error) {
	cfg := &parseConfig{parser: New(), name: "<bytes>"}
	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, err
		}
	}
	if err := options.ValidateSingleInputSource(
		"no input source (use WithFilePath, WithBytes or WithReader)",
		"exactly one input source is required",
		cfg.filePath != nil, cfg.bytes != nil, cfg.reader != nil,
	); err != nil {
		return nil, err
	}
	switch {
	case cfg.filePath != nil:
		return cfg.parser.Parse(*cfg.filePath)
	case cfg.reader != nil:
		return cfg.parser.ParseReader(cfg.reader, cfg.name)
	default:
		return cfg.parser.ParseBytes(cfg.bytes, cfg.name)
	}
}

// Parse parses a document held in memory.
func Parse(data []byte) (*Document, error) {
	return ParseWithOptions(WithBytes(data))
}

// WithFilePath reads the document from path.
func WithFilePath(path string) Option {
	return func(cfg *parseConfig) error {
		if path == "" {
			return &oaserrors.ConfigError{Option: "file_path", Message: "path cannot be empty"}
		}
		cfg.filePath = &path
		cfg.name = path
		return nil
	}
}

// WithBytes parses data directly.
func WithBytes(data []byte) Option {
	return func(cfg *parseConfig) error {
		if data == nil {
			data = []byte{}
		}
		cfg.bytes = data
		return nil
	}
}

// WithReader reads the document from r.
func WithReader(r io.Reader) Option {
	return func(cfg *parseConfig) error {
		cfg.reader = r
		return nil
	}
}

// WithSourceName labels in-memory input in errors and logs.
func WithSourceName(name string) Option {
	return func(cfg *parseConfig) error {
		cfg.name = name
		return nil
	}
}

// WithFs reads files from fs.
func WithFs(fs afero.Fs) Option {
	return func(cfg *parseConfig) error {
		cfg.parser.Fs = fs
		return nil
	}
}

// WithLogger sets the logger.
func WithLogger(l Logger) Option {
	return func(cfg *parseConfig) error {
		cfg.parser.Logger = l
		return nil
	}
}

// WithSkipVersionCheck accepts unsupported openapi versions.
func WithSkipVersionCheck(skip bool) Option {
	return func(cfg *parseConfig) error {
		cfg.parser.SkipVersionCheck = skip
		return nil
	}
}
