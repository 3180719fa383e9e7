// Package mcpserver implements an MCP (Model Context Protocol) server
// that exposes stripegen capabilities as MCP tools over stdio.
package mcpserver

import (
	"context"
	"regexp"
	"sort"
	"strings"
	"sync"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	stripegen "github.com/arlyon/async-stripe-sub040"
)

const serverInstructions = `stripegen MCP server: generates typed Go packages from the Stripe OpenAPI document and explains how each component maps to Go.

Tools:
- list_components: browse components with their Go identifier, package and kind. Filter by package or path glob; use group_by=package for counts.
- inspect_component: fields, variants, id type and request builders of one component.
- generate: write the Go tree to output_dir. Runs are serialised.

Configuration: defaults are configurable via STRIPEGEN_MCP_* environment variables set in your MCP client config.
- STRIPEGEN_MCP_MODULE (default: example.com/stripe): module path of generated code
- STRIPEGEN_MCP_WORKERS (default: 1): files rendered concurrently
- STRIPEGEN_MCP_LIST_LIMIT (default: 100): default page size of list_components
- STRIPEGEN_MCP_CACHE_ENABLED (default: true): cache parsed documents per session`

// runMu serialises pipeline runs. Generated trees and cached documents are
// shared by every tool call in a session.
var runMu sync.Mutex

// Run starts the MCP server over stdio and blocks until the client disconnects
// or the context is cancelled.
func Run(ctx context.Context) error {
	if cfg.CacheEnabled {
		docCache.startSweeper(ctx, cfg.CacheSweepInterval)
	}

	server := mcp.NewServer(
		&mcp.Implementation{Name: "stripegen", Version: stripegen.Version()},
		&mcp.ServerOptions{
			Instructions: serverInstructions,
		},
	)
	registerAllTools(server)
	return server.Run(ctx, &mcp.StdioTransport{})
}

func registerAllTools(server *mcp.Server) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "generate",
		Description: "Generate Go packages from a Stripe OpenAPI document and write them to output_dir. Stale generated files in output_dir are removed; hand-written files are never replaced. Returns a manifest of generated files, counts and warnings. Use strict=true to fail on any skipped component or operation.",
	}, handleGenerate)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "list_components",
		Description: "List the components of a Stripe OpenAPI document with their Go identifier, output package, kind (struct, enum, union) and request count. Filter by package or by a path glob such as issuing.* or *customer. Use group_by (package or kind) to get distribution counts instead of individual items. Use offset/limit to paginate.",
	}, handleListComponents)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "inspect_component",
		Description: "Describe one component as it will be generated: Go identifier, package, id newtype and prefixes, fields with wire names and types, enum or union variants, request builders and referenced components. Returns markdown text plus structured output.",
	}, handleInspectComponent)
}

// paginate applies offset/limit pagination to a slice, returning the
// requested page. A non-positive limit defaults to cfg.ListLimit.
func paginate[T any](items []T, offset, limit int) []T {
	if limit <= 0 {
		limit = cfg.ListLimit
	}
	if limit > cfg.MaxLimit {
		limit = cfg.MaxLimit
	}
	if offset < 0 || offset >= len(items) {
		return nil
	}
	end := offset + limit
	if end < offset || end > len(items) { // overflow or beyond slice
		end = len(items)
	}
	return items[offset:end]
}

// sanitizeError strips absolute filesystem paths from error messages
// to prevent leaking internal directory structure to MCP clients.
var pathPattern = regexp.MustCompile(`(?:/(?:home|tmp|var|Users|etc|opt|usr|private|root|mnt|srv|run|snap|nix)[a-zA-Z0-9._/-]*)`)

func sanitizeError(err error) string {
	if err == nil {
		return ""
	}
	return pathPattern.ReplaceAllString(err.Error(), "<path>")
}

// errResult creates an MCP error result from an error.
func errResult(err error) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		IsError: true,
		Content: []mcp.Content{&mcp.TextContent{Text: sanitizeError(err)}},
	}
}

// groupCount represents a single group in group_by results.
type groupCount struct {
	Key   string `json:"key"`
	Count int    `json:"count"`
}

// groupAndSort groups items by key, sorts by count descending (ties
// broken alphabetically by key), and returns the sorted groups.
func groupAndSort[T any](items []T, keyFn func(T) string) []groupCount {
	counts := make(map[string]int)
	for _, item := range items {
		counts[keyFn(item)]++
	}
	groups := make([]groupCount, 0, len(counts))
	for key, count := range counts {
		groups = append(groups, groupCount{Key: key, Count: count})
	}
	sort.Slice(groups, func(i, j int) bool {
		if groups[i].Count != groups[j].Count {
			return groups[i].Count > groups[j].Count
		}
		return groups[i].Key < groups[j].Key
	})
	return groups
}

// validGroupBy reports whether groupBy is empty or one of allowed.
func validGroupBy(groupBy string, allowed ...string) bool {
	if groupBy == "" {
		return true
	}
	for _, a := range allowed {
		if strings.EqualFold(groupBy, a) {
			return true
		}
	}
	return false
}
