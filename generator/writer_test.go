package generator

import (
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arlyon/async-stripe-sub040/internal/emit"
	"github.com/arlyon/async-stripe-sub040/oaserrors"
)

func generated(body string) []byte {
	return []byte(emit.Header + "\n\n" + body)
}

func TestWriteFiles(t *testing.T) {
	fs := afero.NewMemMapFs()
	out := "/out"
	require.NoError(t, afero.WriteFile(fs, "/out/core/old.go", generated("package core\n"), 0o644))
	require.NoError(t, afero.WriteFile(fs, "/out/core/handwritten.go", []byte("package core\n"), 0o644))
	require.NoError(t, afero.WriteFile(fs, "/out/core/customer.go", generated("package core\n// previous\n"), 0o644))

	result := &GenerateResult{Files: []GeneratedFile{
		{Name: "core/customer.go", Content: generated("package core\n")},
		{Name: "billing/meter.go", Content: generated("package billing\n")},
	}}
	require.NoError(t, result.WriteFiles(fs, out))

	content, err := afero.ReadFile(fs, filepath.Join(out, "core", "customer.go"))
	require.NoError(t, err)
	assert.Equal(t, generated("package core\n"), content)

	exists, _ := afero.Exists(fs, "/out/billing/meter.go")
	assert.True(t, exists)
	exists, _ = afero.Exists(fs, "/out/core/old.go")
	assert.False(t, exists, "stale generated file should be removed")
	exists, _ = afero.Exists(fs, "/out/core/handwritten.go")
	assert.True(t, exists, "hand-written file should be kept")
}

func TestWriteFilesRefusesHandwrittenTarget(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/out/core/customer.go", []byte("package core\n"), 0o644))
	require.NoError(t, afero.WriteFile(fs, "/out/core/old.go", generated("package core\n"), 0o644))

	result := &GenerateResult{Files: []GeneratedFile{{Name: "core/customer.go", Content: generated("package core\n")}}}
	err := result.WriteFiles(fs, "/out")
	require.Error(t, err)
	assert.ErrorIs(t, err, oaserrors.ErrIO)

	content, _ := afero.ReadFile(fs, "/out/core/customer.go")
	assert.Equal(t, "package core\n", string(content))
	exists, _ := afero.Exists(fs, "/out/core/old.go")
	assert.True(t, exists, "nothing is removed when a target is refused")
}

func TestWriteFilesRejectsEscapingNames(t *testing.T) {
	for _, name := range []string{"", "../evil.go", "/abs.go", "core/../../evil.go"} {
		t.Run(name, func(t *testing.T) {
			result := &GenerateResult{Files: []GeneratedFile{{Name: name, Content: generated("")}}}
			err := result.WriteFiles(afero.NewMemMapFs(), "/out")
			assert.ErrorIs(t, err, oaserrors.ErrIO)
		})
	}
}
