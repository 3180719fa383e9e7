package plan

import (
	"go/token"
	"strings"
	"unicode"

	"github.com/arlyon/async-stripe-sub040/internal/ir"
	"github.com/arlyon/async-stripe-sub040/internal/overrides"
)

// namespacePackages maps path namespaces and underscore prefixes to
// packages. Unlisted namespaces become their own package.
var namespacePackages = map[string]string{
	"billing":        "billing",
	"billing_portal": "billing",
	"checkout":       "checkout",
	"issuing":        "issuing",
	"radar":          "fraud",
	"terminal":       "terminal",
	"treasury":       "treasury",
}

// underscorePrefixes are checked in order on paths without a namespace.
var underscorePrefixes = []string{
	"billing_portal_",
	"billing_",
	"checkout_",
	"issuing_",
	"radar_",
	"terminal_",
	"treasury_",
}

// reservedPackages collide with imports of generated files.
var reservedPackages = map[string]bool{
	"context":  true,
	"iter":     true,
	"json":     true,
	"jsontext": true,
	"shared":   true,
	"url":      true,
	"wire":     true,
}

func assign(obj *ir.StripeObject, table *overrides.Table) string {
	if pkg, ok := table.Package(obj.Path); ok {
		return pkg
	}
	if pkg := sanitize(obj.Resource.InPackage); pkg != "" {
		return pkg
	}
	if ns := obj.Path.Namespace(); ns != "" {
		if pkg, ok := namespacePackages[ns]; ok {
			return pkg
		}
		if pkg := sanitize(ns); pkg != "" {
			return pkg
		}
	}
	for _, prefix := range underscorePrefixes {
		if strings.HasPrefix(string(obj.Path), prefix) {
			return namespacePackages[strings.TrimSuffix(prefix, "_")]
		}
	}
	return CorePackage
}

// sanitize lower-cases name and drops characters a package name cannot
// hold. Reserved names get a "stripe" prefix.
// Example: "Financial Connections" -> "financialconnections"
func sanitize(name string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(name) {
		if r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)) {
			b.WriteRune(r)
		}
	}
	out := strings.TrimLeftFunc(b.String(), unicode.IsDigit)
	if reservedPackages[out] || token.IsKeyword(out) {
		return "stripe" + out
	}
	return out
}

// buildSuffixes are file name suffixes the go tool treats as build
// constraints or tests.
var buildSuffixes = []string{
	"_test", "_aix", "_android", "_darwin", "_dragonfly", "_freebsd", "_hurd",
	"_illumos", "_ios", "_js", "_linux", "_netbsd", "_openbsd", "_plan9",
	"_solaris", "_wasip1", "_windows", "_386", "_amd64", "_arm", "_arm64",
	"_loong64", "_mips", "_mips64", "_mipsle", "_ppc64", "_ppc64le",
	"_riscv64", "_s390x", "_wasm",
}

func safeFileBase(base string) string {
	for _, s := range buildSuffixes {
		if strings.HasSuffix(base, s) {
			return base + "_gen"
		}
	}
	if strings.HasPrefix(base, "_") || strings.HasPrefix(base, ".") {
		return "x" + base
	}
	return base
}
