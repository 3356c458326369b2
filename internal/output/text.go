package output

import (
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/dshills/codelens/internal/suggest"
)

// TextWriter outputs a human-readable result. Styling degrades to plain text
// when w is not a terminal.
type TextWriter struct{}

type textStyles struct {
	title lipgloss.Style
	dim   lipgloss.Style
	label lipgloss.Style
	rule  lipgloss.Style
}

func newTextStyles(w io.Writer) textStyles {
	r := lipgloss.NewRenderer(w)
	return textStyles{
		title: r.NewStyle().Bold(true).Foreground(lipgloss.Color("205")),
		dim:   r.NewStyle().Faint(true),
		label: r.NewStyle().Bold(true),
		rule:  r.NewStyle().Foreground(lipgloss.Color("240")),
	}
}

func (t *TextWriter) Write(w io.Writer, res *suggest.Result) error {
	ew := &errWriter{w: w}
	st := newTextStyles(w)

	ew.println(st.title.Render(res.Title()))
	ew.printf("%s %s\n", st.label.Render("Source:"), res.Artifact.Origin.String())
	ew.printf("%s %s\n", st.label.Render("Model:"), res.Model)
	ew.println(st.rule.Render(strings.Repeat("─", 60)))
	ew.println(strings.TrimRight(res.Content, "\n"))
	ew.println(st.rule.Render(strings.Repeat("─", 60)))

	footer := "Completed in " + res.Elapsed.Round(1e6).String()
	if res.TokensUsed > 0 {
		footer += " · " + strconv.Itoa(res.TokensUsed) + " tokens"
	}
	ew.println(st.dim.Render(footer))

	return ew.err
}
