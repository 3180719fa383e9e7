package generator

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"

	"github.com/arlyon/async-stripe-sub040/internal/emit"
	"github.com/arlyon/async-stripe-sub040/internal/fileutil"
	"github.com/arlyon/async-stripe-sub040/oaserrors"
)

var errNotGenerated = errors.New("refusing to replace a file without the generated header")

// WriteFiles writes all generated files below outputDir.
//
// Every target is checked before anything is written: an existing file
// without the generated header is never replaced. Generated files left
// over from earlier runs that the current plan no longer contains are
// removed.
func (r *GenerateResult) WriteFiles(fs afero.Fs, outputDir string) error {
	if err := fs.MkdirAll(outputDir, 0o755); err != nil {
		return &oaserrors.IOError{Path: outputDir, Op: "mkdir", Cause: err}
	}

	wanted := make(map[string]bool, len(r.Files))
	for _, file := range r.Files {
		target, err := targetPath(outputDir, file.Name)
		if err != nil {
			return err
		}
		wanted[target] = true
		generated, exists, err := isGenerated(fs, target)
		if err != nil {
			return &oaserrors.IOError{Path: target, Op: "read", Cause: err}
		}
		if exists && !generated {
			return &oaserrors.IOError{Path: target, Op: "write", Cause: errNotGenerated}
		}
	}

	stale, err := staleFiles(fs, outputDir, wanted)
	if err != nil {
		return err
	}
	for _, p := range stale {
		if err := fs.Remove(p); err != nil {
			return &oaserrors.IOError{Path: p, Op: "remove", Cause: err}
		}
	}

	for _, file := range r.Files {
		target, _ := targetPath(outputDir, file.Name)
		if err := file.WriteFile(fs, target); err != nil {
			return err
		}
	}
	return nil
}

// WriteFile writes a single generated file to the specified path.
func (f *GeneratedFile) WriteFile(fs afero.Fs, target string) error {
	// Ensure parent directory exists
	if err := fs.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return &oaserrors.IOError{Path: filepath.Dir(target), Op: "mkdir", Cause: err}
	}
	if err := afero.WriteFile(fs, target, f.Content, fileutil.ReadableByAll); err != nil {
		return &oaserrors.IOError{Path: target, Op: "write", Cause: err}
	}
	return nil
}

// targetPath joins a slash-separated file name to outputDir, rejecting
// names that would escape it.
func targetPath(outputDir, name string) (string, error) {
	clean := path.Clean(name)
	if name == "" || path.IsAbs(name) || clean == "." || clean == ".." || strings.HasPrefix(clean, "../") {
		return "", &oaserrors.IOError{Path: name, Op: "write", Cause: errors.New("file name must be relative to the output directory")}
	}
	return filepath.Join(outputDir, filepath.FromSlash(clean)), nil
}

// isGenerated reports whether the file at p starts with the generated header.
func isGenerated(fs afero.Fs, p string) (generated, exists bool, err error) {
	f, err := fs.Open(p)
	if errors.Is(err, os.ErrNotExist) {
		return false, false, nil
	}
	if err != nil {
		return false, false, err
	}
	defer f.Close()

	head := make([]byte, len(emit.Header))
	n, err := io.ReadFull(f, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return false, true, err
	}
	return bytes.Equal(head[:n], []byte(emit.Header)), true, nil
}

// staleFiles lists generated .go files below dir that are not wanted.
func staleFiles(fs afero.Fs, dir string, wanted map[string]bool) ([]string, error) {
	var stale []string
	err := afero.Walk(fs, dir, func(p string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() || filepath.Ext(p) != ".go" || wanted[p] {
			return nil
		}
		generated, _, err := isGenerated(fs, p)
		if err != nil {
			return err
		}
		if generated {
			stale = append(stale, p)
		}
		return nil
	})
	if err != nil {
		return nil, &oaserrors.IOError{Path: dir, Op: "scan", Cause: err}
	}
	return stale, nil
}
