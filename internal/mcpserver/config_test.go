package mcpserver

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// clearMCPEnv clears all STRIPEGEN_MCP_* env vars to isolate tests from the ambient environment.
func clearMCPEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"STRIPEGEN_MCP_CACHE_ENABLED", "STRIPEGEN_MCP_CACHE_MAX_SIZE",
		"STRIPEGEN_MCP_CACHE_FILE_TTL", "STRIPEGEN_MCP_CACHE_CONTENT_TTL",
		"STRIPEGEN_MCP_CACHE_SWEEP_INTERVAL", "STRIPEGEN_MCP_LIST_LIMIT",
		"STRIPEGEN_MCP_MAX_LIMIT", "STRIPEGEN_MCP_MAX_INLINE_SIZE",
		"STRIPEGEN_MCP_MODULE", "STRIPEGEN_MCP_WORKERS",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadConfig_Defaults(t *testing.T) {
	clearMCPEnv(t)

	c := loadConfig()

	assert.True(t, c.CacheEnabled)
	assert.Equal(t, 4, c.CacheMaxSize)
	assert.Equal(t, 15*time.Minute, c.CacheFileTTL)
	assert.Equal(t, 15*time.Minute, c.CacheContentTTL)
	assert.Equal(t, 60*time.Second, c.CacheSweepInterval)
	assert.Equal(t, 100, c.ListLimit)
	assert.Equal(t, 1000, c.MaxLimit)
	assert.Equal(t, int64(16*1024*1024), c.MaxInlineSize)
	assert.Equal(t, "example.com/stripe", c.ModulePath)
	assert.Equal(t, 1, c.Workers)
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	clearMCPEnv(t)
	t.Setenv("STRIPEGEN_MCP_CACHE_ENABLED", "false")
	t.Setenv("STRIPEGEN_MCP_CACHE_MAX_SIZE", "8")
	t.Setenv("STRIPEGEN_MCP_CACHE_FILE_TTL", "30m")
	t.Setenv("STRIPEGEN_MCP_LIST_LIMIT", "20")
	t.Setenv("STRIPEGEN_MCP_MODULE", "github.com/acme/stripe")
	t.Setenv("STRIPEGEN_MCP_WORKERS", "4")

	c := loadConfig()

	assert.False(t, c.CacheEnabled)
	assert.Equal(t, 8, c.CacheMaxSize)
	assert.Equal(t, 30*time.Minute, c.CacheFileTTL)
	assert.Equal(t, 20, c.ListLimit)
	assert.Equal(t, "github.com/acme/stripe", c.ModulePath)
	assert.Equal(t, 4, c.Workers)
}

func TestLoadConfig_InvalidValues_UseDefaults(t *testing.T) {
	clearMCPEnv(t)
	t.Setenv("STRIPEGEN_MCP_CACHE_ENABLED", "maybe")
	t.Setenv("STRIPEGEN_MCP_CACHE_MAX_SIZE", "-1")
	t.Setenv("STRIPEGEN_MCP_CACHE_FILE_TTL", "soon")
	t.Setenv("STRIPEGEN_MCP_WORKERS", "zero")

	c := loadConfig()

	assert.True(t, c.CacheEnabled)
	assert.Equal(t, 4, c.CacheMaxSize)
	assert.Equal(t, 15*time.Minute, c.CacheFileTTL)
	assert.Equal(t, 1, c.Workers)
}
