// Package pathtmpl parses OpenAPI path templates such as
// "/v1/customers/{customer}/sources/{id}" into literal and placeholder parts.
package pathtmpl

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// pathLexer tokenizes path templates.
var pathLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Slash", Pattern: `/`},
	{Name: "LBrace", Pattern: `\{`},
	{Name: "RBrace", Pattern: `\}`},
	{Name: "Text", Pattern: `[^/{}]+`},
})

type rawTemplate struct {
	Segments []*rawSegment `( "/" @@ )+`
}

type rawSegment struct {
	Parts []*rawPart `@@+`
}

type rawPart struct {
	Param   *string `  "{" @Text "}"`
	Literal *string `| @Text`
}

var parser = participle.MustBuild[rawTemplate](
	participle.Lexer(pathLexer),
)

// Part is a literal run of text or a named placeholder.
type Part struct {
	Literal string
	Param   string
}

// IsParam reports whether the part is a placeholder.
func (p Part) IsParam() bool { return p.Param != "" }

// Template is a parsed path template.
type Template struct {
	Raw string
	// Parts is the flattened template, with "/" separators folded into literals.
	Parts []Part
	// Segments holds the parts of each "/"-separated segment.
	Segments [][]Part
}

// Parse parses a path template. The template must start with "/" and every
// placeholder must be a non-empty name in braces.
func Parse(raw string) (*Template, error) {
	tree, err := parser.ParseString("", raw)
	if err != nil {
		return nil, fmt.Errorf("pathtmpl: invalid template %q: %w", raw, err)
	}

	t := &Template{Raw: raw}
	var lit strings.Builder
	flush := func() {
		if lit.Len() > 0 {
			t.Parts = append(t.Parts, Part{Literal: lit.String()})
			lit.Reset()
		}
	}
	for _, seg := range tree.Segments {
		lit.WriteByte('/')
		parts := make([]Part, 0, len(seg.Parts))
		for _, p := range seg.Parts {
			if p.Param != nil {
				name := strings.TrimSpace(*p.Param)
				if name == "" {
					return nil, fmt.Errorf("pathtmpl: empty placeholder in %q", raw)
				}
				flush()
				t.Parts = append(t.Parts, Part{Param: name})
				parts = append(parts, Part{Param: name})
				continue
			}
			lit.WriteString(*p.Literal)
			parts = append(parts, Part{Literal: *p.Literal})
		}
		t.Segments = append(t.Segments, parts)
	}
	flush()
	return t, nil
}

// MustParse is like Parse but panics on error.
func MustParse(raw string) *Template {
	t, err := Parse(raw)
	if err != nil {
		panic(err)
	}
	return t
}

// Params returns placeholder names in order of appearance.
func (t *Template) Params() []string {
	var out []string
	for _, p := range t.Parts {
		if p.IsParam() {
			out = append(out, p.Param)
		}
	}
	return out
}

// StaticSegments returns the segments that contain no placeholder.
// Example: "/v1/customers/{customer}/sources" -> ["v1", "customers", "sources"]
func (t *Template) StaticSegments() []string {
	var out []string
	for _, seg := range t.Segments {
		if len(seg) == 1 && !seg[0].IsParam() {
			out = append(out, seg[0].Literal)
		}
	}
	return out
}

// EndsWithParam reports whether the final segment is a placeholder.
func (t *Template) EndsWithParam() bool {
	if len(t.Segments) == 0 {
		return false
	}
	last := t.Segments[len(t.Segments)-1]
	return len(last) == 1 && last[0].IsParam()
}

// CheckParams verifies that every name appears exactly once as a placeholder
// and that every placeholder has a name.
func (t *Template) CheckParams(names []string) error {
	counts := make(map[string]int)
	for _, p := range t.Params() {
		counts[p]++
	}
	declared := make(map[string]bool, len(names))
	for _, n := range names {
		declared[n] = true
		switch counts[n] {
		case 0:
			return fmt.Errorf("pathtmpl: parameter %q has no placeholder in %s", n, t.Raw)
		case 1:
		default:
			return fmt.Errorf("pathtmpl: placeholder {%s} appears %d times in %s", n, counts[n], t.Raw)
		}
	}
	for _, p := range t.Params() {
		if !declared[p] {
			return fmt.Errorf("pathtmpl: placeholder {%s} has no parameter in %s", p, t.Raw)
		}
	}
	return nil
}

// Expand substitutes placeholder values. Missing values expand to "".
func (t *Template) Expand(values map[string]string) string {
	var b strings.Builder
	for _, p := range t.Parts {
		if p.IsParam() {
			b.WriteString(values[p.Param])
			continue
		}
		b.WriteString(p.Literal)
	}
	return b.String()
}

// GoExpr renders the template as a Go string expression, using expr to
// render each placeholder.
// Example: "/v1/customers/{customer}" -> `"/v1/customers/" + string(r.customer)`
func (t *Template) GoExpr(expr func(param string) string) string {
	if len(t.Parts) == 0 {
		return `""`
	}
	terms := make([]string, 0, len(t.Parts))
	for _, p := range t.Parts {
		if p.IsParam() {
			terms = append(terms, expr(p.Param))
			continue
		}
		terms = append(terms, strconv.Quote(p.Literal))
	}
	return strings.Join(terms, " + ")
}
