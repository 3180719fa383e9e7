package mcpserver

import (
	"errors"
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPaginate(t *testing.T) {
	components := []string{"account", "billing.meter", "customer", "invoice", "issuing.card"}

	tests := []struct {
		name   string
		items  []string
		offset int
		limit  int
		want   []string
	}{
		{"whole catalog under the list limit", components, 0, 0, components},
		{"first page", components, 0, 2, []string{"account", "billing.meter"}},
		{"second page", components, 2, 2, []string{"customer", "invoice"}},
		{"last page is short", components, 4, 2, []string{"issuing.card"}},
		{"offset past the catalog", components, 5, 2, nil},
		{"negative offset", components, -1, 2, nil},
		{"limit past the end", components, 3, 10, []string{"invoice", "issuing.card"}},
		{"negative limit uses the list limit", components, 0, -1, components},
		{"limit near MaxInt", components, 1, math.MaxInt, components[1:]},
		{"no components", nil, 0, 2, nil},
		{"empty catalog", []string{}, 0, 2, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, paginate(tt.items, tt.offset, tt.limit))
		})
	}
}

func TestPaginateLimits(t *testing.T) {
	paths := make([]string, 1500)
	for i := range paths {
		paths[i] = fmt.Sprintf("component_%04d", i)
	}
	assert.Len(t, paginate(paths, 0, 0), cfg.ListLimit)
	assert.Len(t, paginate(paths, 0, len(paths)), cfg.MaxLimit)
	assert.Equal(t, "component_1400", paginate(paths, 1400, 0)[0])
}

func TestGroupAndSort(t *testing.T) {
	items := []string{"core", "billing", "core", "issuing", "billing", "core"}
	got := groupAndSort(items, func(s string) string { return s })
	assert.Equal(t, []groupCount{
		{Key: "core", Count: 3},
		{Key: "billing", Count: 2},
		{Key: "issuing", Count: 1},
	}, got)
}

func TestValidGroupBy(t *testing.T) {
	assert.True(t, validGroupBy("", "package", "kind"))
	assert.True(t, validGroupBy("Package", "package", "kind"))
	assert.False(t, validGroupBy("method", "package", "kind"))
}

func TestSanitizeError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, ""},
		{
			"spec path",
			errors.New("parse /home/dev/stripe/openapi/spec3.sdk.json: unexpected EOF"),
			"parse <path>: unexpected EOF",
		},
		{
			"output and config paths",
			errors.New("write /tmp/out/core/customer.go: read-only; see /etc/stripegen.yaml"),
			"write <path>: read-only; see <path>",
		},
		{
			"component paths are kept",
			errors.New(`component "billing.meter" not found`),
			`component "billing.meter" not found`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, sanitizeError(tt.err))
		})
	}
}
