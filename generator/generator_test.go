package generator

import (
	"strings"
	"sync/atomic"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arlyon/async-stripe-sub040/internal/docurl"
	"github.com/arlyon/async-stripe-sub040/internal/emit"
	"github.com/arlyon/async-stripe-sub040/internal/testutil"
	"github.com/arlyon/async-stripe-sub040/oaserrors"
)

func TestNew(t *testing.T) {
	g := New()

	require.NotNil(t, g, "New() should not return nil")
	assert.Equal(t, emit.DefaultModulePath, g.ModulePath)
	assert.Equal(t, emit.DefaultRuntimePath, g.RuntimePath)
	assert.True(t, g.Format, "Format should be true by default")
	assert.True(t, g.IncludeInfo, "IncludeInfo should be true by default")
	assert.False(t, g.StrictMode, "StrictMode should be false by default")
	assert.Equal(t, 1, g.Workers)
}

func TestGenerateWithOptions_RequiresInputSource(t *testing.T) {
	_, err := GenerateWithOptions(WithModulePath("example.com/x"))
	require.Error(t, err)
	assert.ErrorIs(t, err, oaserrors.ErrConfig)
	assert.Contains(t, err.Error(), "must specify an input source")
}

func TestGenerateWithOptions_OnlyOneInputSource(t *testing.T) {
	_, err := GenerateWithOptions(
		WithFilePath("spec3.sdk.json"),
		WithDocument(testutil.ParseStripeMini(t)),
	)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "must specify exactly one input source")
}

func TestOptionValidation(t *testing.T) {
	tests := []struct {
		name string
		opt  Option
	}{
		{"empty module", WithModulePath("")},
		{"empty runtime", WithRuntimePath("")},
		{"nil document", WithDocument(nil)},
		{"negative threshold", WithOpenEnumThreshold(-1)},
		{"zero workers", WithWorkers(0)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.opt(&generateConfig{})
			require.Error(t, err)
			assert.ErrorIs(t, err, oaserrors.ErrConfig)
		})
	}
}

func TestGenerateStripeMini(t *testing.T) {
	result, err := GenerateWithOptions(
		WithDocument(testutil.ParseStripeMini(t)),
		WithModulePath("github.com/acme/stripe"),
	)
	require.NoError(t, err)

	assert.True(t, result.Success)
	assert.Equal(t, "github.com/acme/stripe", result.ModulePath)
	assert.Equal(t, 11, result.ComponentCount)
	assert.Equal(t, 9, result.RequestCount)
	assert.Equal(t, []string{"billing", "checkout", "core", "issuing"}, result.Packages)
	assert.Equal(t, 2, result.WarningCount, "dangling reference and missing placeholder")
	assert.True(t, result.HasWarnings())
	assert.False(t, result.HasCriticalIssues())

	customer := result.GetFile("core/customer.go")
	require.NotNil(t, customer)
	assert.True(t, strings.HasPrefix(string(customer.Content), emit.Header))
	for _, pkg := range result.Packages {
		assert.NotNil(t, result.GetFile(pkg+"/doc.go"), pkg)
	}
	assert.Nil(t, result.GetFile("core/broken_thing.go"))
}

func TestGenerateDeterministic(t *testing.T) {
	serial, err := GenerateWithOptions(WithDocument(testutil.ParseStripeMini(t)), WithWorkers(1))
	require.NoError(t, err)
	parallel, err := GenerateWithOptions(WithDocument(testutil.ParseStripeMini(t)), WithWorkers(4))
	require.NoError(t, err)

	require.Len(t, parallel.Files, len(serial.Files))
	for i := range serial.Files {
		assert.Equal(t, serial.Files[i].Name, parallel.Files[i].Name)
		assert.Equal(t, string(serial.Files[i].Content), string(parallel.Files[i].Content), serial.Files[i].Name)
	}
}

func TestGenerateStrictMode(t *testing.T) {
	result, err := GenerateWithOptions(
		WithDocument(testutil.ParseStripeMini(t)),
		WithStrictMode(true),
	)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "strict mode")
	require.NotNil(t, result, "result is returned alongside the strict-mode error")
	assert.NotEmpty(t, result.Files)
}

func TestGenerateExcludeInfo(t *testing.T) {
	result, err := GenerateWithOptions(
		WithDocument(testutil.ParseStripeMini(t)),
		WithIncludeInfo(false),
	)
	require.NoError(t, err)
	assert.Zero(t, result.InfoCount)
	for _, issue := range result.Issues {
		assert.NotEqual(t, SeverityInfo, issue.Severity)
	}
}

func TestGenerateDocLookup(t *testing.T) {
	lookup := docurl.Static{"customer": "https://docs.stripe.com/api/customers/object"}
	result, err := GenerateWithOptions(
		WithDocument(testutil.ParseStripeMini(t)),
		WithDocLookup(lookup),
	)
	require.NoError(t, err)

	customer := result.GetFile("core/customer.go")
	require.NotNil(t, customer)
	assert.Contains(t, string(customer.Content), "https://docs.stripe.com/api/customers/object")
}

func TestGenerateProgress(t *testing.T) {
	var calls, last atomic.Int64
	result, err := GenerateWithOptions(
		WithDocument(testutil.ParseStripeMini(t)),
		WithWorkers(3),
		WithProgress(func(done, total int) {
			calls.Add(1)
			last.Store(int64(total))
		}),
	)
	require.NoError(t, err)
	assert.Equal(t, int64(len(result.Files)), calls.Load())
	assert.Equal(t, int64(len(result.Files)), last.Load())
}

func TestGenerateFromFileAndWrite(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/specs/stripe_mini.yaml", testutil.StripeMini, 0o644))

	result, err := GenerateWithOptions(
		WithFilePath("/specs/stripe_mini.yaml"),
		WithFs(fs),
		WithOutputDir("/out"),
	)
	require.NoError(t, err)
	assert.Equal(t, "/specs/stripe_mini.yaml", result.SourcePath)

	for _, f := range result.Files {
		content, err := afero.ReadFile(fs, "/out/"+f.Name)
		require.NoError(t, err, f.Name)
		assert.Equal(t, f.Content, content)
	}
}

func TestGenerateMissingFile(t *testing.T) {
	_, err := GenerateWithOptions(
		WithFilePath("/nope.json"),
		WithFs(afero.NewMemMapFs()),
	)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse specification")
}
