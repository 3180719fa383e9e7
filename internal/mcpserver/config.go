package mcpserver

import (
	"log/slog"
	"os"
	"strconv"
	"time"
)

// serverConfig holds all configurable MCP server defaults.
// Loaded once at startup from environment variables via loadConfig().
type serverConfig struct {
	// Cache settings.
	CacheEnabled       bool
	CacheMaxSize       int
	CacheFileTTL       time.Duration
	CacheContentTTL    time.Duration
	CacheSweepInterval time.Duration

	// List tool defaults.
	ListLimit int
	MaxLimit  int

	// MaxInlineSize caps inline spec content in bytes.
	MaxInlineSize int64

	// Generate tool defaults.
	ModulePath string
	Workers    int
}

// cfg is the active server configuration, initialized at package load time.
var cfg = loadConfig()

// loadConfig reads configuration from STRIPEGEN_MCP_* environment variables.
// Invalid values log a warning and fall back to the hardcoded default.
func loadConfig() *serverConfig {
	return &serverConfig{
		CacheEnabled:       envBool("STRIPEGEN_MCP_CACHE_ENABLED", true),
		CacheMaxSize:       envInt("STRIPEGEN_MCP_CACHE_MAX_SIZE", 4),
		CacheFileTTL:       envDuration("STRIPEGEN_MCP_CACHE_FILE_TTL", 15*time.Minute),
		CacheContentTTL:    envDuration("STRIPEGEN_MCP_CACHE_CONTENT_TTL", 15*time.Minute),
		CacheSweepInterval: envDuration("STRIPEGEN_MCP_CACHE_SWEEP_INTERVAL", 60*time.Second),
		ListLimit:          envInt("STRIPEGEN_MCP_LIST_LIMIT", 100),
		MaxLimit:           envInt("STRIPEGEN_MCP_MAX_LIMIT", 1000),
		MaxInlineSize:      int64(envInt("STRIPEGEN_MCP_MAX_INLINE_SIZE", 16*1024*1024)),
		ModulePath:         envString("STRIPEGEN_MCP_MODULE", "example.com/stripe"),
		Workers:            envInt("STRIPEGEN_MCP_WORKERS", 1),
	}
}

func envString(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		slog.Warn("invalid bool env var, using default", "key", key, "value", v, "default", fallback)
		return fallback
	}
	return b
}

func envInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		slog.Warn("invalid int env var, using default", "key", key, "value", v, "default", fallback)
		return fallback
	}
	return n
}

func envDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		slog.Warn("invalid duration env var, using default", "key", key, "value", v, "default", fallback)
		return fallback
	}
	return d
}
