// Package ui renders CLI output: issue lists, run summaries, progress and
// markdown.
package ui

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/fatih/color"
	"github.com/pterm/pterm"

	"github.com/arlyon/async-stripe-sub040/internal/issues"
	"github.com/arlyon/async-stripe-sub040/internal/severity"
)

var (
	PrimaryColor   = lipgloss.Color("#635BFF")
	SuccessColor   = lipgloss.Color("#00D924")
	WarningColor   = lipgloss.Color("#FFB800")
	ErrorColor     = lipgloss.Color("#FF4444")
	SecondaryColor = lipgloss.Color("#6C757D")

	TitleStyle = lipgloss.NewStyle().
			Foreground(PrimaryColor).
			Bold(true)

	LabelStyle = lipgloss.NewStyle().
			Foreground(SecondaryColor).
			Width(12)

	BoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(PrimaryColor).
			Padding(0, 2)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(ErrorColor).
			Bold(true)
)

var severityColors = map[severity.Severity]*color.Color{
	severity.SeverityInfo:     color.New(color.FgCyan),
	severity.SeverityWarning:  color.New(color.FgYellow, color.Bold),
	severity.SeverityError:    color.New(color.FgRed, color.Bold),
	severity.SeverityCritical: color.New(color.FgRed, color.Bold),
}

// IssueLine formats one issue with a colored severity symbol.
func IssueLine(issue issues.Issue) string {
	symbol := issues.Symbol(issue.Severity)
	if c, ok := severityColors[issue.Severity]; ok {
		symbol = c.Sprint(symbol)
	}
	return fmt.Sprintf("%s %s: %s", symbol, issue.Location(), issue.Message)
}

// PrintIssues writes issues at or above minSeverity, one per line.
func PrintIssues(w io.Writer, list []issues.Issue, minSeverity severity.Severity) {
	for _, issue := range list {
		if issue.Severity.AtLeast(minSeverity) {
			_, _ = fmt.Fprintln(w, IssueLine(issue))
		}
	}
}

// Summary holds the figures shown after a generation run.
type Summary struct {
	Source     string
	OutDir     string
	Components int
	Requests   int
	Hoisted    int
	Packages   int
	Files      int
	Warnings   int
	Infos      int
	Duration   time.Duration
}

// RenderSummary renders s as a boxed table.
func RenderSummary(s Summary) string {
	rows := []struct {
		label string
		value string
	}{
		{"source", s.Source},
		{"output", s.OutDir},
		{"components", fmt.Sprint(s.Components)},
		{"requests", fmt.Sprint(s.Requests)},
		{"hoisted", fmt.Sprint(s.Hoisted)},
		{"packages", fmt.Sprint(s.Packages)},
		{"files", fmt.Sprint(s.Files)},
		{"issues", fmt.Sprintf("%d warning(s), %d info", s.Warnings, s.Infos)},
		{"took", s.Duration.Round(time.Millisecond).String()},
	}

	lines := []string{TitleStyle.Render("stripegen")}
	for _, row := range rows {
		if row.value == "" {
			continue
		}
		lines = append(lines, LabelStyle.Render(row.label)+row.value)
	}
	return BoxStyle.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

// PrintError writes err in the error style.
func PrintError(w io.Writer, err error) {
	_, _ = fmt.Fprintln(w, ErrorStyle.Render("✗ "+err.Error()))
}

// RenderMarkdown renders markdown for the terminal, wrapped at width.
func RenderMarkdown(content string, width int) (string, error) {
	if width <= 0 {
		width = 80
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return "", err
	}
	return r.Render(content)
}

// RenderPlainMarkdown renders markdown without colors, for non-terminals.
func RenderPlainMarkdown(content string, width int) (string, error) {
	if width <= 0 {
		width = 80
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle("notty"),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return "", err
	}
	return r.Render(content)
}

// TerminalWidth returns the terminal width, or 80 when unknown.
func TerminalWidth() int {
	if w := pterm.GetTerminalWidth(); w > 0 {
		return w
	}
	return 80
}

// Progress drives a progress bar from generator progress callbacks. The bar
// starts on the first call, when the total is known.
type Progress struct {
	title string
	out   io.Writer
	bar   *pterm.ProgressbarPrinter
}

// NewProgress creates a progress bar writing to out.
func NewProgress(out io.Writer, title string) *Progress {
	return &Progress{title: title, out: out}
}

// Update records that done of total files are rendered.
func (p *Progress) Update(done, total int) {
	if p.bar == nil {
		bar, err := pterm.DefaultProgressbar.
			WithTotal(total).
			WithTitle(p.title).
			WithWriter(p.out).
			Start()
		if err != nil {
			return
		}
		p.bar = bar
	}
	if delta := done - p.bar.Current; delta > 0 {
		p.bar.Add(delta)
	}
}

// Stop stops the bar if it was started.
func (p *Progress) Stop() {
	if p.bar != nil {
		_, _ = p.bar.Stop()
		p.bar = nil
	}
}

// Indent prefixes every line of s with n spaces.
func Indent(s string, n int) string {
	pad := strings.Repeat(" ", n)
	lines := strings.Split(strings.TrimRight(s, "\n"), "\n")
	for i, line := range lines {
		lines[i] = pad + line
	}
	return strings.Join(lines, "\n")
}
