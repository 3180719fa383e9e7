package commands

import (
	"context"
	"errors"
	"time"

	"github.com/spf13/cobra"

	"github.com/arlyon/async-stripe-sub040/generator"
	"github.com/arlyon/async-stripe-sub040/internal/cliutil"
	"github.com/arlyon/async-stripe-sub040/internal/config"
	"github.com/arlyon/async-stripe-sub040/internal/docurl"
	"github.com/arlyon/async-stripe-sub040/internal/severity"
	"github.com/arlyon/async-stripe-sub040/internal/ui"
	"github.com/arlyon/async-stripe-sub040/internal/watch"
	"github.com/arlyon/async-stripe-sub040/parser"
)

type generateFlags struct {
	spec      string
	out       string
	overrides string
	module    string
	runtime   string
	docs      string
	noFormat  bool
	strict    bool
	watch     bool
	workers   int
	quiet     bool
}

func newGenerateCmd(a *App) *cobra.Command {
	var f generateFlags
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate the client packages",
		Long: `Generate reads the document, infers a type for every component, assembles
request builders, hoists repeated inline objects and writes one Go package per
feature area. Generated files carry a "DO NOT EDIT" header; files without it
are never overwritten, and stale generated files are removed.

With --watch the document is regenerated whenever it changes.`,
		Example: `  stripegen generate --spec spec3.sdk.json --out ./stripe --module github.com/acme/stripe
  stripegen generate --overrides overrides.yaml --strict
  stripegen generate --watch`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := a.loadConfig()
			if err != nil {
				return err
			}
			if err := f.apply(cmd, a, cfg); err != nil {
				return err
			}
			log, err := logger(cmd, cfg)
			if err != nil {
				return err
			}

			run := func() error { return a.generate(cmd, cfg, log, f.quiet) }
			if !f.watch {
				return run()
			}

			w, err := watch.New(cfg.Spec, run, watch.DefaultDebounce, log)
			if err != nil {
				return err
			}
			cliutil.Writef(cmd.ErrOrStderr(), "watching %s\n", cfg.Spec)
			if err := w.Run(cmd.Context()); err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&f.spec, "spec", "s", "", "OpenAPI document to read")
	flags.StringVarP(&f.out, "out", "o", "", "output directory")
	flags.StringVar(&f.overrides, "overrides", "", "override file layered over the configured overrides")
	flags.StringVarP(&f.module, "module", "m", "", "import path of the output directory")
	flags.StringVar(&f.runtime, "runtime", "", "import path of the wire runtime package")
	flags.StringVar(&f.docs, "docs", "", "documentation URL source (.json, .yaml or .db)")
	flags.BoolVar(&f.noFormat, "no-format", false, "skip goimports formatting")
	flags.BoolVar(&f.strict, "strict", false, "fail on any warning")
	flags.BoolVarP(&f.watch, "watch", "w", false, "regenerate when the document changes")
	flags.IntVar(&f.workers, "workers", 0, "files rendered concurrently")
	flags.BoolVarP(&f.quiet, "quiet", "q", false, "print only errors")
	return cmd
}

// apply layers the flags the user set over cfg.
func (f *generateFlags) apply(cmd *cobra.Command, a *App, cfg *config.Config) error {
	changed := cmd.Flags().Changed
	if changed("spec") {
		cfg.Spec = f.spec
	}
	if changed("out") {
		cfg.Out = f.out
	}
	if changed("module") {
		cfg.Module = f.module
	}
	if changed("runtime") {
		cfg.Runtime = f.runtime
	}
	if changed("docs") {
		cfg.Docs = f.docs
	}
	if changed("no-format") {
		cfg.Format = !f.noFormat
	}
	if changed("strict") {
		cfg.Strict = f.strict
	}
	if changed("workers") {
		cfg.Workers = f.workers
	}
	if changed("overrides") {
		if err := cfg.LayerOverrides(a.fs(), f.overrides); err != nil {
			return err
		}
	}
	if err := cfg.Expand(); err != nil {
		return err
	}
	return cfg.Validate()
}

// generate runs one generation and writes the tree.
func (a *App) generate(cmd *cobra.Command, cfg *config.Config, log parser.Logger, quiet bool) error {
	start := time.Now()
	fs := a.fs()

	g := generator.New()
	g.ModulePath = cfg.Module
	if cfg.Runtime != "" {
		g.RuntimePath = cfg.Runtime
	}
	g.Format = cfg.Format
	g.OpenEnumThreshold = cfg.OpenEnumThreshold
	g.Overrides = &cfg.Overrides
	g.StrictMode = cfg.Strict
	g.Workers = cfg.Workers
	g.Logger = log
	g.Fs = fs

	if cfg.Docs != "" {
		lookup, closeDocs, err := docurl.Open(fs, cfg.Docs)
		if err != nil {
			return err
		}
		defer func() { _ = closeDocs() }()
		g.DocLookup = lookup
	}

	var progress *ui.Progress
	if !quiet {
		progress = ui.NewProgress(cmd.ErrOrStderr(), "rendering")
		g.Progress = progress.Update
	}
	result, err := g.Generate(cfg.Spec)
	if progress != nil {
		progress.Stop()
	}
	if result != nil && !quiet {
		ui.PrintIssues(cmd.ErrOrStderr(), result.Issues, severity.SeverityWarning)
	}
	if err != nil {
		return err
	}

	if err := result.WriteFiles(fs, cfg.Out); err != nil {
		return err
	}

	if !quiet {
		cliutil.Writef(cmd.OutOrStdout(), "%s\n", ui.RenderSummary(ui.Summary{
			Source:     result.SourcePath,
			OutDir:     cfg.Out,
			Components: result.ComponentCount,
			Requests:   result.RequestCount,
			Hoisted:    result.HoistedCount,
			Packages:   len(result.Packages),
			Files:      len(result.Files),
			Warnings:   result.WarningCount,
			Infos:      result.InfoCount,
			Duration:   time.Since(start),
		}))
	}
	return nil
}
