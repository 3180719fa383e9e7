package emit

import (
	"bytes"
	"embed"
	"text/template"

	"golang.org/x/tools/imports"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

var templates = template.Must(template.New("").ParseFS(templateFS, "templates/*.tmpl"))

// fileData feeds the "file" template.
type fileData struct {
	Header   string
	Package  string
	Std      []string
	External []string
	Body     string
}

// docEntry is one line of a package manifest.
type docEntry struct {
	Path      string
	Ident     string
	Operation string
}

// docData feeds the "doc" template.
type docData struct {
	Header     string
	Name       string
	Components []docEntry
	Requests   []docEntry
}

func executeTemplate(name string, data any) ([]byte, error) {
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, name, data); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// formatSource formats Go source and drops unused imports.
func formatSource(filename string, src []byte) ([]byte, error) {
	return imports.Process(filename, src, nil)
}
