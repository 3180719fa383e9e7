package generator

import (
	"fmt"

	"github.com/spf13/afero"

	"github.com/arlyon/async-stripe-sub040/internal/docurl"
	"github.com/arlyon/async-stripe-sub040/internal/emit"
	"github.com/arlyon/async-stripe-sub040/internal/options"
	"github.com/arlyon/async-stripe-sub040/internal/overrides"
	"github.com/arlyon/async-stripe-sub040/oaserrors"
	"github.com/arlyon/async-stripe-sub040/parser"
)

// Option is a function that configures a generate operation
type Option func(*generateConfig) error

// generateConfig holds configuration for a generate operation
type generateConfig struct {
	// Input source (exactly one must be set)
	filePath *string
	document *parser.Document

	outputDir         string
	modulePath        string
	runtimePath       string
	format            bool
	openEnumThreshold int
	overrides         *overrides.Table
	docLookup         docurl.Lookup
	strictMode        bool
	includeInfo       bool
	workers           int
	logger            Logger
	fs                afero.Fs
	progress          func(done, total int)
}

// GenerateWithOptions generates code from a Stripe OpenAPI document using functional options.
// When an output directory is given, the files are also written there.
//
// Example:
//
//	result, err := generator.GenerateWithOptions(
//	    generator.WithFilePath("spec3.sdk.json"),
//	    generator.WithModulePath("github.com/acme/stripe"),
//	    generator.WithOutputDir("./stripe"),
//	)
func GenerateWithOptions(opts ...Option) (*GenerateResult, error) {
	cfg, err := applyOptions(opts...)
	if err != nil {
		return nil, fmt.Errorf("generator: invalid options: %w", err)
	}

	g := &Generator{
		ModulePath:        cfg.modulePath,
		RuntimePath:       cfg.runtimePath,
		Format:            cfg.format,
		OpenEnumThreshold: cfg.openEnumThreshold,
		Overrides:         cfg.overrides,
		DocLookup:         cfg.docLookup,
		StrictMode:        cfg.strictMode,
		IncludeInfo:       cfg.includeInfo,
		Workers:           cfg.workers,
		Logger:            cfg.logger,
		Fs:                cfg.fs,
		Progress:          cfg.progress,
	}

	var result *GenerateResult
	if cfg.filePath != nil {
		result, err = g.Generate(*cfg.filePath)
	} else {
		result, err = g.GenerateDocument(cfg.document)
	}
	if err != nil {
		return result, err
	}

	if cfg.outputDir != "" {
		fs := cfg.fs
		if fs == nil {
			fs = afero.NewOsFs()
		}
		if err := result.WriteFiles(fs, cfg.outputDir); err != nil {
			return result, err
		}
	}
	return result, nil
}

// applyOptions applies option functions and validates configuration
func applyOptions(opts ...Option) (*generateConfig, error) {
	cfg := &generateConfig{
		modulePath:  emit.DefaultModulePath,
		runtimePath: emit.DefaultRuntimePath,
		format:      true,
		includeInfo: true,
		workers:     1,
	}

	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, err
		}
	}

	if err := options.ValidateSingleInputSource(
		"must specify an input source (use WithFilePath or WithDocument)",
		"must specify exactly one input source",
		cfg.filePath != nil, cfg.document != nil,
	); err != nil {
		return nil, err
	}

	return cfg, nil
}

// WithFilePath specifies a file path as the input source
func WithFilePath(path string) Option {
	return func(cfg *generateConfig) error {
		cfg.filePath = &path
		return nil
	}
}

// WithDocument specifies an already-parsed document as the input source
func WithDocument(doc *parser.Document) Option {
	return func(cfg *generateConfig) error {
		if doc == nil {
			return &oaserrors.ConfigError{Option: "document", Message: "document cannot be nil"}
		}
		cfg.document = doc
		return nil
	}
}

// WithOutputDir writes the generated tree to dir after a successful run
func WithOutputDir(dir string) Option {
	return func(cfg *generateConfig) error {
		cfg.outputDir = dir
		return nil
	}
}

// WithModulePath sets the import path of the output root
// Default: "example.com/stripe"
func WithModulePath(path string) Option {
	return func(cfg *generateConfig) error {
		if path == "" {
			return &oaserrors.ConfigError{Option: "module", Message: "module path cannot be empty"}
		}
		cfg.modulePath = path
		return nil
	}
}

// WithRuntimePath sets the import path of the wire runtime
func WithRuntimePath(path string) Option {
	return func(cfg *generateConfig) error {
		if path == "" {
			return &oaserrors.ConfigError{Option: "runtime", Message: "runtime path cannot be empty"}
		}
		cfg.runtimePath = path
		return nil
	}
}

// WithDocLookup sets the source of component documentation URLs
func WithDocLookup(l docurl.Lookup) Option {
	return func(cfg *generateConfig) error {
		cfg.docLookup = l
		return nil
	}
}

// WithOverrides sets the override table
func WithOverrides(t *overrides.Table) Option {
	return func(cfg *generateConfig) error {
		cfg.overrides = t
		return nil
	}
}

// WithFormat enables or disables goimports formatting of the output
// Default: true
func WithFormat(enabled bool) Option {
	return func(cfg *generateConfig) error {
		cfg.format = enabled
		return nil
	}
}

// WithOpenEnumThreshold opens unannotated enums with more than n variants. 0 disables the rule
func WithOpenEnumThreshold(n int) Option {
	return func(cfg *generateConfig) error {
		if n < 0 {
			return &oaserrors.ConfigError{Option: "open_enum_threshold", Value: n, Message: "cannot be negative"}
		}
		cfg.openEnumThreshold = n
		return nil
	}
}

// WithStrictMode enables or disables strict mode (fail on any warning)
// Default: false
func WithStrictMode(enabled bool) Option {
	return func(cfg *generateConfig) error {
		cfg.strictMode = enabled
		return nil
	}
}

// WithIncludeInfo enables or disables informational messages
// Default: true
func WithIncludeInfo(enabled bool) Option {
	return func(cfg *generateConfig) error {
		cfg.includeInfo = enabled
		return nil
	}
}

// WithLogger sets the pipeline logger
func WithLogger(l Logger) Option {
	return func(cfg *generateConfig) error {
		cfg.logger = l
		return nil
	}
}

// WithFs sets the filesystem used to read the document and write the output
// Default: the OS filesystem
func WithFs(fs afero.Fs) Option {
	return func(cfg *generateConfig) error {
		cfg.fs = fs
		return nil
	}
}

// WithProgress sets a callback invoked after each rendered file
func WithProgress(fn func(done, total int)) Option {
	return func(cfg *generateConfig) error {
		cfg.progress = fn
		return nil
	}
}

// WithWorkers sets the number of files rendered concurrently
// Default: 1
func WithWorkers(n int) Option {
	return func(cfg *generateConfig) error {
		if n < 1 {
			return &oaserrors.ConfigError{Option: "workers", Value: n, Message: "must be at least 1"}
		}
		cfg.workers = n
		return nil
	}
}
