package emit

import (
	"bytes"
	"fmt"
	"html"
	"regexp"
	"slices"
	"strings"

	"github.com/arlyon/async-stripe-sub040/internal/ir"
	"github.com/arlyon/async-stripe-sub040/internal/naming"
	"github.com/arlyon/async-stripe-sub040/oaserrors"
)

const (
	jsonPath     = "github.com/go-json-experiment/json"
	jsontextPath = "github.com/go-json-experiment/json/jsontext"
)

// writer accumulates the body of one file. The first error sticks and is
// returned by finish.
type writer struct {
	e        *Emitter
	pkg      string
	obj      *ir.StripeObject
	body     bytes.Buffer
	imports  map[string]bool
	rendered map[ir.Ident]bool
	err      error
}

func (e *Emitter) newWriter(pkg string, obj *ir.StripeObject) *writer {
	return &writer{
		e:        e,
		pkg:      pkg,
		obj:      obj,
		imports:  make(map[string]bool),
		rendered: make(map[ir.Ident]bool),
	}
}

func (w *writer) printf(format string, args ...any) {
	fmt.Fprintf(&w.body, format, args...)
}

func (w *writer) use(path string) { w.imports[path] = true }

// wire returns the runtime package qualifier.
func (w *writer) wire() string {
	w.use(w.e.opts.RuntimePath)
	return "wire"
}

func (w *writer) json() string {
	w.use(jsonPath)
	return "json"
}

func (w *writer) jsontext() string {
	w.use(jsontextPath)
	return "jsontext"
}

func (w *writer) fail(ident ir.Ident, format string, args ...any) {
	if w.err != nil {
		return
	}
	w.err = &oaserrors.EmitterError{
		Component: string(w.obj.Path),
		Ident:     string(ident),
		Message:   fmt.Sprintf(format, args...),
	}
}

// claim reports whether ident is rendered for the first time in this file.
func (w *writer) claim(ident ir.Ident) bool {
	if w.rendered[ident] {
		return false
	}
	w.rendered[ident] = true
	return true
}

func (w *writer) finish(name string) ([]byte, error) {
	if w.err != nil {
		return nil, w.err
	}
	data := fileData{Header: Header, Package: w.pkg, Body: w.body.String()}
	for p := range w.imports {
		if isStdlib(p) {
			data.Std = append(data.Std, p)
		} else {
			data.External = append(data.External, p)
		}
	}
	slices.Sort(data.Std)
	slices.Sort(data.External)

	src, err := executeTemplate("file", data)
	if err != nil {
		return nil, &oaserrors.EmitterError{Component: string(w.obj.Path), Message: "file template failed", Cause: err}
	}
	if !w.e.opts.Format {
		return src, nil
	}
	formatted, err := formatSource(name, src)
	if err != nil {
		return nil, &oaserrors.EmitterError{Component: string(w.obj.Path), Message: "generated source does not parse", Cause: err}
	}
	return formatted, nil
}

func isStdlib(path string) bool {
	first, _, _ := strings.Cut(path, "/")
	return !strings.Contains(first, ".")
}

var (
	htmlTag    = regexp.MustCompile(`<[^>]+>`)
	blankLines = regexp.MustCompile(`\n{3,}`)
)

// commentText turns a schema description into comment-safe plain text.
func commentText(doc string) string {
	doc = strings.ReplaceAll(doc, "</p>", "\n\n")
	doc = htmlTag.ReplaceAllString(doc, "")
	doc = html.UnescapeString(doc)
	doc = strings.ReplaceAll(doc, "\r\n", "\n")
	lines := strings.Split(doc, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimRight(l, " \t")
	}
	doc = blankLines.ReplaceAllString(strings.Join(lines, "\n"), "\n\n")
	return strings.TrimSpace(doc)
}

// comment writes text as line comments with the given indent.
func (w *writer) comment(indent, text string) {
	if text == "" {
		return
	}
	for _, line := range strings.Split(text, "\n") {
		if line == "" {
			w.printf("%s//\n", indent)
			continue
		}
		w.printf("%s// %s\n", indent, line)
	}
}

// docComment writes a declaration comment with optional reference URL and
// deprecation paragraph.
func (w *writer) docComment(indent, doc, url string, deprecated bool) {
	text := commentText(doc)
	if url != "" {
		if text != "" {
			text += "\n\n"
		}
		text += "For more details see <" + url + ">."
	}
	if deprecated {
		if text != "" {
			text += "\n\n"
		}
		text += "Deprecated: Stripe marks this as deprecated."
	}
	w.comment(indent, text)
}

// lower returns the unexported form of ident followed by suffix.
// Example: ("CreateCustomer", "Params") -> "createCustomerParams"
func lower(ident ir.Ident, suffix string) string {
	name := naming.ToCamelCase(string(ident)) + suffix
	return naming.EscapeKeyword(name)
}

// article prefixes name with "a" or "an" by its first sound.
func article[S ~string](name S) string {
	s := string(name)
	switch {
	case s == "":
		return s
	case strings.HasPrefix(s, "Us"), strings.HasPrefix(s, "Uni"), strings.HasPrefix(s, "Uti"):
		return "a " + s
	case strings.ContainsRune("AEIOU", rune(s[0])):
		return "an " + s
	}
	return "a " + s
}
