package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/arlyon/async-stripe-sub040/internal/cliutil"
	"github.com/arlyon/async-stripe-sub040/internal/inspect"
	"github.com/arlyon/async-stripe-sub040/internal/ir"
	"github.com/arlyon/async-stripe-sub040/internal/ui"
	"github.com/arlyon/async-stripe-sub040/parser"
)

func newInspectCmd(a *App) *cobra.Command {
	var (
		spec  string
		plain bool
	)
	cmd := &cobra.Command{
		Use:   "inspect <component>",
		Short: "Describe how a component is generated",
		Long: `Inspect prints the inferred shape of one component: its identifier, package,
fields, id type, request builders and hoisted types.`,
		Example: `  stripegen inspect customer
  stripegen inspect issuing.card --spec spec3.sdk.json --plain`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := a.loadConfig()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("spec") {
				cfg.Spec = spec
				if err := cfg.Expand(); err != nil {
					return err
				}
			}
			log, err := logger(cmd, cfg)
			if err != nil {
				return err
			}

			doc, err := parser.ParseWithOptions(
				parser.WithFilePath(cfg.Spec),
				parser.WithFs(a.fs()),
				parser.WithLogger(log),
			)
			if err != nil {
				return fmt.Errorf("inspect: failed to parse specification: %w", err)
			}
			analysis, err := inspect.Analyze(doc, inspect.Options{
				OpenEnumThreshold: cfg.OpenEnumThreshold,
				Overrides:         &cfg.Overrides,
				Logger:            log,
			})
			if err != nil {
				return err
			}

			c, ok := analysis.Describe(ir.ComponentPath(args[0]))
			if !ok {
				return fmt.Errorf("inspect: no component %q", args[0])
			}

			md := inspect.Markdown(c)
			render := ui.RenderMarkdown
			if plain {
				render = ui.RenderPlainMarkdown
			}
			out, err := render(md, ui.TerminalWidth())
			if err != nil {
				// Fall back to the raw markdown.
				out = md
			}
			cliutil.Writef(cmd.OutOrStdout(), "%s", out)
			return nil
		},
	}
	cmd.Flags().StringVarP(&spec, "spec", "s", "", "OpenAPI document to read")
	cmd.Flags().BoolVar(&plain, "plain", false, "render without colors")
	return cmd
}
