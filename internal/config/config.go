// Package config loads stripegen settings from .stripegen.yaml, STRIPEGEN_
// environment variables and .env files.
//
// Precedence, highest first: process environment, .env.local, .env, the
// config file, defaults. Command-line flags are applied by the caller on top
// of the loaded Config.
package config

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/mitchellh/go-homedir"
	"github.com/spf13/afero"
	"github.com/spf13/viper"
	"go.yaml.in/yaml/v4"

	"github.com/arlyon/async-stripe-sub040/internal/infer"
	"github.com/arlyon/async-stripe-sub040/internal/overrides"
	"github.com/arlyon/async-stripe-sub040/oaserrors"
)

// FileName is the base name of the config file, without extension.
const FileName = ".stripegen"

// EnvPrefix prefixes environment variables read into the config.
const EnvPrefix = "STRIPEGEN"

// Config holds the settings of a generation run.
type Config struct {
	Spec              string          `mapstructure:"spec"`
	Out               string          `mapstructure:"out"`
	Module            string          `mapstructure:"module"`
	Runtime           string          `mapstructure:"runtime"`
	Docs              string          `mapstructure:"docs"`
	OverridesFile     string          `mapstructure:"overrides_file"`
	Format            bool            `mapstructure:"format"`
	Strict            bool            `mapstructure:"strict"`
	Workers           int             `mapstructure:"workers"`
	OpenEnumThreshold int             `mapstructure:"open_enum_threshold"`
	LogLevel          string          `mapstructure:"log_level"`
	// Overrides is read from the `overrides` key with the YAML decoder,
	// which keeps the case of enum identifiers that viper would fold.
	Overrides overrides.Table `mapstructure:"-"`

	// File is the config file that was read, if any.
	File string `mapstructure:"-"`
}

var defaults = map[string]any{
	"spec":                "spec3.sdk.json",
	"out":                 "./stripe",
	"module":              "example.com/stripe",
	"runtime":             "",
	"docs":                "",
	"overrides_file":      "",
	"format":              true,
	"strict":              false,
	"workers":             1,
	"open_enum_threshold": infer.DefaultOpenEnumThreshold,
	"log_level":           "warn",
}

// Loader reads configuration. The zero value uses the OS filesystem, the
// working directory and the user's home directory.
type Loader struct {
	Fs afero.Fs
	// Dir is the directory searched first and holding .env files.
	Dir string
	// Home overrides the home directory.
	Home string
	// LookupEnv overrides os.LookupEnv.
	LookupEnv func(string) (string, bool)
}

func (l *Loader) fs() afero.Fs {
	if l.Fs == nil {
		return afero.NewOsFs()
	}
	return l.Fs
}

func (l *Loader) home() string {
	if l.Home != "" {
		return l.Home
	}
	home, err := homedir.Dir()
	if err != nil {
		return ""
	}
	return home
}

// Load reads the config. An explicit file must exist; otherwise
// .stripegen.yaml is searched in Dir, the home directory and
// ~/.config/stripegen, and a missing file is not an error.
func (l *Loader) Load(explicit string) (*Config, error) {
	fs := l.fs()
	v := viper.New()
	v.SetFs(fs)
	for k, val := range defaults {
		v.SetDefault(k, val)
	}
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if explicit != "" {
		path, err := homedir.Expand(explicit)
		if err != nil {
			return nil, &oaserrors.ConfigError{Option: "config", Value: explicit, Message: "cannot expand path", Cause: err}
		}
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(FileName)
		v.SetConfigType("yaml")
		dir := l.Dir
		if dir == "" {
			dir = "."
		}
		v.AddConfigPath(dir)
		if home := l.home(); home != "" {
			v.AddConfigPath(home)
			v.AddConfigPath(filepath.Join(home, ".config", "stripegen"))
		}
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if explicit != "" || !errors.As(err, &notFound) {
			return nil, &oaserrors.ConfigError{Option: "config", Value: explicit, Message: "cannot read config file", Cause: err}
		}
	}

	if err := l.applyDotenv(v); err != nil {
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, &oaserrors.ConfigError{Option: "config", Message: "invalid config", Cause: err}
	}
	cfg.File = v.ConfigFileUsed()
	if cfg.File != "" {
		var file struct {
			Overrides overrides.Table `yaml:"overrides"`
		}
		if err := readYAML(fs, cfg.File, &file); err != nil {
			return nil, &oaserrors.ConfigError{Option: "overrides", Value: cfg.File, Message: "invalid overrides", Cause: err}
		}
		cfg.Overrides = file.Overrides
	}

	if cfg.OverridesFile != "" {
		if err := cfg.LayerOverrides(fs, cfg.OverridesFile); err != nil {
			return nil, err
		}
	}
	if err := cfg.Expand(); err != nil {
		return nil, err
	}
	return &cfg, cfg.Validate()
}

// applyDotenv reads .env then .env.local from Dir. Entries carrying the
// STRIPEGEN_ prefix apply unless the process environment already sets them.
func (l *Loader) applyDotenv(v *viper.Viper) error {
	lookup := l.LookupEnv
	if lookup == nil {
		lookup = os.LookupEnv
	}
	merged := make(map[string]string)
	for _, name := range []string{".env", ".env.local"} {
		path := filepath.Join(l.Dir, name)
		data, err := afero.ReadFile(l.fs(), path)
		if err != nil {
			continue
		}
		env, err := godotenv.Parse(bytes.NewReader(data))
		if err != nil {
			return &oaserrors.ConfigError{Option: name, Value: path, Message: "invalid dotenv file", Cause: err}
		}
		for k, val := range env {
			merged[k] = val
		}
	}
	for k, val := range merged {
		key, ok := strings.CutPrefix(k, EnvPrefix+"_")
		if !ok {
			continue
		}
		if _, set := lookup(k); set {
			continue
		}
		v.Set(strings.ToLower(key), val)
	}
	return nil
}

// Expand resolves "~" in the path settings.
func (c *Config) Expand() error {
	for _, p := range []*string{&c.Spec, &c.Out, &c.Docs, &c.OverridesFile} {
		expanded, err := homedir.Expand(*p)
		if err != nil {
			return &oaserrors.ConfigError{Option: "path", Value: *p, Message: "cannot expand path", Cause: err}
		}
		*p = expanded
	}
	return nil
}

// Validate checks the numeric settings.
func (c *Config) Validate() error {
	if c.Workers < 1 {
		return &oaserrors.ConfigError{Option: "workers", Value: c.Workers, Message: "must be at least 1"}
	}
	if c.OpenEnumThreshold < 0 {
		return &oaserrors.ConfigError{Option: "open_enum_threshold", Value: c.OpenEnumThreshold, Message: "must not be negative"}
	}
	return nil
}

// LayerOverrides reads the override file at path and layers it over the
// overrides already in c.
func (c *Config) LayerOverrides(fs afero.Fs, path string) error {
	table, err := LoadOverrides(fs, path)
	if err != nil {
		return err
	}
	c.Overrides = merge(c.Overrides, *table)
	return nil
}

// LoadOverrides reads an override table from a standalone YAML or JSON
// file whose top level holds the table's keys.
func LoadOverrides(fs afero.Fs, path string) (*overrides.Table, error) {
	expanded, err := homedir.Expand(path)
	if err != nil {
		return nil, &oaserrors.ConfigError{Option: "overrides", Value: path, Message: "cannot expand path", Cause: err}
	}
	var table overrides.Table
	if err := readYAML(fs, expanded, &table); err != nil {
		return nil, &oaserrors.ConfigError{Option: "overrides", Value: path, Message: "cannot read overrides", Cause: err}
	}
	return &table, nil
}

func readYAML(fs afero.Fs, path string, out any) error {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, out)
}

// merge layers b over a.
func merge(a, b overrides.Table) overrides.Table {
	out := overrides.Table{
		Packages:   mergeMap(a.Packages, b.Packages),
		IDPrefixes: mergeMap(a.IDPrefixes, b.IDPrefixes),
		OpenEnums:  mergeMap(a.OpenEnums, b.OpenEnums),
		Variants:   make(map[string]map[string]string),
	}
	for enum, m := range a.Variants {
		out.Variants[enum] = mergeMap(nil, m)
	}
	for enum, m := range b.Variants {
		out.Variants[enum] = mergeMap(out.Variants[enum], m)
	}
	return out
}

func mergeMap[V any](a, b map[string]V) map[string]V {
	out := make(map[string]V, len(a)+len(b))
	for k, v := range a {
		out[k] = v
	}
	for k, v := range b {
		out[k] = v
	}
	return out
}
