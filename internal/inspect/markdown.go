package inspect

import (
	"fmt"
	"strings"
)

// Markdown renders c as a markdown document.
func Markdown(c *Component) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", c.Path)
	fmt.Fprintf(&b, "`%s` is a %s in package `%s`", c.Ident, c.Kind, c.Package)
	if c.ObjectName != "" {
		fmt.Fprintf(&b, " with object name `%s`", c.ObjectName)
	}
	b.WriteString(".\n\n")
	if c.Deprecated {
		b.WriteString("**Deprecated.**\n\n")
	}
	if c.Description != "" {
		b.WriteString(c.Description + "\n\n")
	}
	if c.DocURL != "" {
		fmt.Fprintf(&b, "Documentation: <%s>\n\n", c.DocURL)
	}

	if c.IDType != "" {
		b.WriteString("## ID\n\n")
		fmt.Fprintf(&b, "`%s`", c.IDType)
		if len(c.IDPrefixes) > 0 {
			fmt.Fprintf(&b, " with prefixes %s", codeList(c.IDPrefixes))
		}
		b.WriteString("\n\n")
	}

	if len(c.Fields) > 0 {
		b.WriteString("## Fields\n\n| Field | Wire | Type | Notes |\n|---|---|---|---|\n")
		for _, f := range c.Fields {
			var notes []string
			if f.Required {
				notes = append(notes, "required")
			}
			if f.Expandable {
				notes = append(notes, "expandable")
			}
			if f.Deprecated {
				notes = append(notes, "deprecated")
			}
			fmt.Fprintf(&b, "| %s | `%s` | `%s` | %s |\n", f.Name, f.Wire, f.Type, strings.Join(notes, ", "))
		}
		b.WriteString("\n")
	}

	if len(c.Variants) > 0 {
		title := "Variants"
		if c.Open {
			title += " (open)"
		}
		fmt.Fprintf(&b, "## %s\n\n| Variant | Wire | Type |\n|---|---|---|\n", title)
		for _, v := range c.Variants {
			typ := ""
			if v.Type != "" {
				typ = "`" + v.Type + "`"
			}
			fmt.Fprintf(&b, "| %s | `%s` | %s |\n", v.Ident, v.Wire, typ)
		}
		b.WriteString("\n")
	}

	if len(c.Requests) > 0 {
		b.WriteString("## Requests\n\n| Request | Method | Path | Returns |\n|---|---|---|---|\n")
		for _, r := range c.Requests {
			returns := "`" + r.Returns + "`"
			if r.Paginated {
				returns += " (list)"
			}
			fmt.Fprintf(&b, "| %s | %s | `%s` | %s |\n", r.Ident, r.Method, r.Path, returns)
		}
		b.WriteString("\n")
	}

	if len(c.Hoisted) > 0 {
		b.WriteString("## Hoisted types\n\n")
		for _, h := range c.Hoisted {
			fmt.Fprintf(&b, "- %s\n", h)
		}
		b.WriteString("\n")
	}

	if len(c.References) > 0 {
		fmt.Fprintf(&b, "## References\n\n%s\n", codeList(c.References))
	}
	return b.String()
}

func codeList(items []string) string {
	quoted := make([]string, len(items))
	for i, s := range items {
		quoted[i] = "`" + s + "`"
	}
	return strings.Join(quoted, ", ")
}
