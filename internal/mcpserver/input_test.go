package mcpserver

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arlyon/async-stripe-sub040/internal/testutil"
)

func writeMini(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "stripe_mini.yaml")
	require.NoError(t, os.WriteFile(path, testutil.StripeMini, 0o644))
	return path
}

func TestSpecInput_ResolveFile(t *testing.T) {
	doc, err := specInput{File: writeMini(t)}.resolve()
	require.NoError(t, err)
	assert.NotEmpty(t, doc.Info.Version)
}

func TestSpecInput_ResolveContent(t *testing.T) {
	doc, err := specInput{Content: string(testutil.StripeMini)}.resolve()
	require.NoError(t, err)
	assert.NotNil(t, doc)
}

func TestSpecInput_ResolveNoneProvided(t *testing.T) {
	_, err := specInput{}.resolve()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exactly one of file or content")
}

func TestSpecInput_ResolveMultipleProvided(t *testing.T) {
	_, err := specInput{File: "a.json", Content: "{}"}.resolve()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "got 2")
}

func TestSpecInput_ResolveFileNotFound(t *testing.T) {
	_, err := specInput{File: filepath.Join(t.TempDir(), "missing.json")}.resolve()
	assert.Error(t, err)
}

func TestSpecInput_InlineSizeLimit(t *testing.T) {
	prev := cfg.MaxInlineSize
	cfg.MaxInlineSize = 16
	t.Cleanup(func() { cfg.MaxInlineSize = prev })

	_, err := specInput{Content: strings.Repeat("x", 17)}.resolve()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exceeds maximum")
}

func TestDocCache_HitOnSameFile(t *testing.T) {
	docCache.reset()
	input := specInput{File: writeMini(t)}

	doc1, err := input.resolve()
	require.NoError(t, err)
	assert.Equal(t, 1, docCache.size())

	doc2, err := input.resolve()
	require.NoError(t, err)
	assert.Same(t, doc1, doc2, "expected same pointer from cache hit")
}

func TestDocCache_MissOnModifiedFile(t *testing.T) {
	docCache.reset()
	path := writeMini(t)
	input := specInput{File: path}

	doc1, err := input.resolve()
	require.NoError(t, err)

	// Ensure mtime differs from the first write on coarse-grained filesystems.
	future := time.Now().Add(2 * time.Second)
	require.NoError(t, os.Chtimes(path, future, future))

	doc2, err := input.resolve()
	require.NoError(t, err)
	assert.NotSame(t, doc1, doc2)
}

func TestDocCache_ContentHash(t *testing.T) {
	docCache.reset()
	input := specInput{Content: string(testutil.StripeMini)}

	doc1, err := input.resolve()
	require.NoError(t, err)
	doc2, err := input.resolve()
	require.NoError(t, err)
	assert.Same(t, doc1, doc2)
}

func TestDocCache_LRUEviction(t *testing.T) {
	docCache.reset()
	prev := docCache.maxSize
	docCache.maxSize = 2
	t.Cleanup(func() { docCache.maxSize = prev })

	docCache.putWithTTL("a", nil, time.Minute)
	time.Sleep(time.Millisecond)
	docCache.putWithTTL("b", nil, time.Minute)
	time.Sleep(time.Millisecond)
	docCache.putWithTTL("c", nil, time.Minute)

	assert.Equal(t, 2, docCache.size())
	docCache.mu.Lock()
	_, hasA := docCache.entries["a"]
	docCache.mu.Unlock()
	assert.False(t, hasA, "expected oldest entry to be evicted")
}

func TestDocCache_Sweep(t *testing.T) {
	docCache.reset()
	docCache.putWithTTL("expired", nil, time.Nanosecond)
	time.Sleep(time.Millisecond)
	docCache.sweep()
	assert.Zero(t, docCache.size())
}
