// Package docurl maps component paths to their API reference pages.
//
// Two sources are supported: a static YAML or JSON map and a SQLite
// database filled by a crawler. [Open] picks one by file extension.
package docurl

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
	"go.yaml.in/yaml/v4"

	"github.com/arlyon/async-stripe-sub040/internal/ir"
	"github.com/arlyon/async-stripe-sub040/oaserrors"
)

// Lookup returns the documentation URL of a component.
type Lookup interface {
	Lookup(path ir.ComponentPath) (string, bool)
}

// Static is an in-memory Lookup.
type Static map[ir.ComponentPath]string

// Lookup implements Lookup.
func (s Static) Lookup(path ir.ComponentPath) (string, bool) {
	url, ok := s[path]
	return url, ok && url != ""
}

// ParseStatic reads a flat map of component path to URL. JSON input is
// accepted since it is valid YAML.
func ParseStatic(data []byte) (Static, error) {
	var raw map[string]string
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("docurl: %w", err)
	}
	out := make(Static, len(raw))
	for k, v := range raw {
		out[ir.ComponentPath(k)] = strings.TrimSpace(v)
	}
	return out, nil
}

// LoadStatic reads a static map from fs.
func LoadStatic(fs afero.Fs, path string) (Static, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, &oaserrors.ConfigError{Option: "docs", Value: path, Message: "cannot read doc url map", Cause: err}
	}
	s, err := ParseStatic(data)
	if err != nil {
		return nil, &oaserrors.ConfigError{Option: "docs", Value: path, Message: "invalid doc url map", Cause: err}
	}
	return s, nil
}

// Chain consults each Lookup in order.
type Chain []Lookup

// Lookup implements Lookup.
func (c Chain) Lookup(path ir.ComponentPath) (string, bool) {
	for _, l := range c {
		if l == nil {
			continue
		}
		if url, ok := l.Lookup(path); ok {
			return url, true
		}
	}
	return "", false
}

// Open loads the source at path. Files ending in .db, .sqlite or .sqlite3
// are opened as SQLite databases; the returned close function releases
// them. Other files are read from fs as static maps.
func Open(fs afero.Fs, path string) (Lookup, func() error, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".db", ".sqlite", ".sqlite3":
		db, err := OpenSQLite(path)
		if err != nil {
			return nil, nil, err
		}
		return db, db.Close, nil
	default:
		s, err := LoadStatic(fs, path)
		if err != nil {
			return nil, nil, err
		}
		return s, func() error { return nil }, nil
	}
}
