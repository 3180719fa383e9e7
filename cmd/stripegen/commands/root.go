// Package commands implements the stripegen command line.
package commands

import (
	"context"
	"log/slog"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/arlyon/async-stripe-sub040/internal/config"
	"github.com/arlyon/async-stripe-sub040/oaserrors"
	"github.com/arlyon/async-stripe-sub040/parser"
)

// App holds the environment commands run in. The zero value uses the OS
// filesystem and the working directory.
type App struct {
	Fs        afero.Fs
	Dir       string
	Home      string
	LookupEnv func(string) (string, bool)

	configFile string
	logLevel   string
	noColor    bool
}

// Execute runs the command line with os.Args.
func Execute(ctx context.Context) error {
	return NewRootCmd(&App{}).ExecuteContext(ctx)
}

// NewRootCmd builds the command tree for a.
func NewRootCmd(a *App) *cobra.Command {
	root := &cobra.Command{
		Use:   "stripegen",
		Short: "Generate a typed Go client from the Stripe OpenAPI document",
		Long: `stripegen reads the Stripe OpenAPI document (spec3.sdk.json) and writes one Go
package per feature area: structs and enums for every component, id newtypes,
and a request builder for every operation.

Settings are read from .stripegen.yaml (working directory, $HOME or
$HOME/.config/stripegen), STRIPEGEN_* environment variables and .env files.
Flags take precedence over all of them.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			if a.noColor {
				color.NoColor = true
			}
		},
	}

	root.PersistentFlags().StringVar(&a.configFile, "config", "", "config file (default: search for .stripegen.yaml)")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "log level: debug, info, warn, error")
	root.PersistentFlags().BoolVar(&a.noColor, "no-color", false, "disable colored output")

	root.AddCommand(
		newGenerateCmd(a),
		newInspectCmd(a),
		newMCPCmd(),
		newVersionCmd(),
	)
	return root
}

func (a *App) fs() afero.Fs {
	if a.Fs == nil {
		a.Fs = afero.NewOsFs()
	}
	return a.Fs
}

// loadConfig reads the layered configuration.
func (a *App) loadConfig() (*config.Config, error) {
	dir := a.Dir
	if dir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, &oaserrors.ConfigError{Option: "config", Message: "cannot determine working directory", Cause: err}
		}
		dir = wd
	}
	loader := &config.Loader{Fs: a.fs(), Dir: dir, Home: a.Home, LookupEnv: a.LookupEnv}
	cfg, err := loader.Load(a.configFile)
	if err != nil {
		return nil, err
	}
	if a.logLevel != "" {
		cfg.LogLevel = a.logLevel
	}
	return cfg, nil
}

// logger returns a text logger on cmd's error stream at cfg's level.
func logger(cmd *cobra.Command, cfg *config.Config) (parser.Logger, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.ToLower(cfg.LogLevel))); err != nil {
		return nil, &oaserrors.ConfigError{Option: "log_level", Value: cfg.LogLevel, Message: "unknown level", Cause: err}
	}
	return parser.NewTextLogger(cmd.ErrOrStderr(), level), nil
}
