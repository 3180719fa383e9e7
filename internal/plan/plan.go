// Package plan lays generated code out into Go packages and files.
//
// Every component gets a home package: an override pin, else its
// x-stripeResource in_package, else a heuristic on its path, else core.
// Go forbids import cycles, so types referenced from outside their package
// move to the shared package together with everything they reach. Requests
// always stay in the home package, which therefore only ever imports
// shared.
package plan

import (
	"cmp"
	"go/token"
	"slices"
	"strconv"
	"strings"

	"github.com/arlyon/async-stripe-sub040/internal/ir"
	"github.com/arlyon/async-stripe-sub040/internal/overrides"
	"github.com/arlyon/async-stripe-sub040/oaserrors"
	"github.com/arlyon/async-stripe-sub040/parser"
)

const (
	// CorePackage holds components no rule assigns elsewhere.
	CorePackage = "core"
	// SharedPackage holds types used across package boundaries.
	SharedPackage = "shared"
)

// File is one generated source file.
type File struct {
	// Name is the file name within its package directory.
	Name      string
	Package   string
	Component *ir.StripeObject
	// Types marks files rendering the component's types and hoisted types.
	Types bool
	// Requests marks files rendering the component's request builders.
	Requests bool
}

// Path returns the slash-separated path relative to the output root.
func (f *File) Path() string { return f.Package + "/" + f.Name }

// Package is one generated Go package.
type Package struct {
	Name  string
	Files []*File
}

// Plan is the immutable layout of the output tree.
type Plan struct {
	Packages []*Package
	types    map[ir.ComponentPath]string
	home     map[ir.ComponentPath]string
}

// Options configures Build.
type Options struct {
	Overrides *overrides.Table
	Logger    parser.Logger
}

// TypesPackage returns the package rendering the types of path.
func (p *Plan) TypesPackage(path ir.ComponentPath) string { return p.types[path] }

// HomePackage returns the package rendering the requests of path.
func (p *Plan) HomePackage(path ir.ComponentPath) string { return p.home[path] }

// Package returns the named package, or nil.
func (p *Plan) Package(name string) *Package {
	for _, pkg := range p.Packages {
		if pkg.Name == name {
			return pkg
		}
	}
	return nil
}

// Files returns every file in package then name order.
func (p *Plan) Files() []*File {
	var out []*File
	for _, pkg := range p.Packages {
		out = append(out, pkg.Files...)
	}
	return out
}

// PackageNames returns the package names in order.
func (p *Plan) PackageNames() []string {
	out := make([]string, len(p.Packages))
	for i, pkg := range p.Packages {
		out[i] = pkg.Name
	}
	return out
}

// Build plans objs. It fails only on unusable override pins.
func Build(objs *ir.Components, opts Options) (*Plan, error) {
	log := opts.Logger
	if log == nil {
		log = parser.NopLogger{}
	}
	if err := validatePins(opts.Overrides); err != nil {
		return nil, err
	}

	p := &Plan{
		types: make(map[ir.ComponentPath]string, objs.Len()),
		home:  make(map[ir.ComponentPath]string, objs.Len()),
	}
	for path, obj := range objs.All() {
		p.home[path] = assign(obj, opts.Overrides)
	}
	for path, obj := range objs.All() {
		if _, pinned := opts.Overrides.Package(path); pinned {
			continue
		}
		if parent := obj.Resource.InClass; parent != "" {
			if pkg, ok := p.home[parent]; ok {
				p.home[path] = pkg
			}
		}
	}
	for path, pkg := range p.home {
		p.types[path] = pkg
	}

	for _, path := range p.hoistShared(objs) {
		log.Debug("moved to shared package", "component", string(path), "home", p.home[path])
	}
	p.layout(objs)
	return p, nil
}

// hoistShared moves cross-package types into shared until nothing changes
// and returns the moved components in order.
func (p *Plan) hoistShared(objs *ir.Components) []ir.ComponentPath {
	var moved []ir.ComponentPath
	move := func(target ir.ComponentPath) bool {
		pkg, ok := p.types[target]
		if !ok || pkg == SharedPackage {
			return false
		}
		p.types[target] = SharedPackage
		moved = append(moved, target)
		return true
	}
	for changed := true; changed; {
		changed = false
		for path, obj := range objs.All() {
			for _, ref := range typeRefs(obj) {
				if p.types[ref] != p.types[path] && move(ref) {
					changed = true
				}
			}
			for _, ref := range requestRefs(obj) {
				if p.types[ref] != p.home[path] && move(ref) {
					changed = true
				}
			}
		}
	}
	slices.Sort(moved)
	return moved
}

func (p *Plan) layout(objs *ir.Components) {
	byName := make(map[string]*Package)
	pkgFor := func(name string) *Package {
		pkg, ok := byName[name]
		if !ok {
			pkg = &Package{Name: name}
			byName[name] = pkg
		}
		return pkg
	}
	used := make(map[string]map[string]bool)
	claim := func(pkg, base string) string {
		if used[pkg] == nil {
			used[pkg] = map[string]bool{"doc": true}
		}
		name := base
		for i := 2; used[pkg][name]; i++ {
			name = base + "_" + strconv.Itoa(i)
		}
		used[pkg][name] = true
		return name + ".go"
	}

	paths := objs.Keys()
	slices.Sort(paths)
	for _, path := range paths {
		obj, _ := objs.Get(path)
		types, home := p.types[path], p.home[path]
		base := p.fileBase(obj, objs, types)
		pkg := pkgFor(types)
		f := &File{Package: types, Component: obj, Types: true, Requests: types == home && len(obj.Requests) > 0}
		f.Name = claim(types, base)
		pkg.Files = append(pkg.Files, f)
		if types != home && len(obj.Requests) > 0 {
			req := &File{Package: home, Component: obj, Requests: true}
			req.Name = claim(home, p.fileBase(obj, objs, home)+"_requests")
			pkgFor(home).Files = append(pkgFor(home).Files, req)
		}
	}

	for _, pkg := range byName {
		slices.SortFunc(pkg.Files, func(a, b *File) int { return cmp.Compare(a.Name, b.Name) })
		p.Packages = append(p.Packages, pkg)
	}
	slices.SortFunc(p.Packages, func(a, b *Package) int { return cmp.Compare(a.Name, b.Name) })
}

// fileBase names a component's file inside pkg. Children of in_class
// parents are named <parent>_<child>.
func (p *Plan) fileBase(obj *ir.StripeObject, objs *ir.Components, pkg string) string {
	base := localName(obj.Path, pkg)
	if parent := obj.Resource.InClass; parent != "" && objs.Has(parent) && p.types[parent] == p.types[obj.Path] {
		parentBase := localName(parent, pkg)
		child := strings.TrimPrefix(base, parentBase+"_")
		base = parentBase + "_" + child
	}
	return safeFileBase(base)
}

// localName drops a namespace or prefix that repeats the package name.
// Example: ("issuing.card", "issuing") -> "card"
func localName(path ir.ComponentPath, pkg string) string {
	if ns := path.Namespace(); ns != "" && sanitize(ns) == pkg {
		return ir.ComponentPath(strings.TrimPrefix(string(path), ns+".")).Snake()
	}
	name := path.Snake()
	if rest, ok := strings.CutPrefix(name, pkg+"_"); ok && rest != "" {
		return rest
	}
	return name
}

func validatePins(t *overrides.Table) error {
	if err := t.Validate(nil); err != nil {
		return &oaserrors.ConfigError{Option: "overrides", Message: "invalid override table", Cause: err}
	}
	if t == nil {
		return nil
	}
	for path, pkg := range t.Packages {
		if !validPackageName(pkg) {
			return &oaserrors.ConfigError{
				Option:  "overrides.packages." + path,
				Value:   pkg,
				Message: "not a lower-case Go package name",
			}
		}
	}
	return nil
}

func validPackageName(name string) bool {
	return name != "" && token.IsIdentifier(name) && !token.IsKeyword(name) &&
		strings.ToLower(name) == name && !reservedPackages[name]
}
