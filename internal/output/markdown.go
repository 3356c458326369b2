package output

import (
	"io"
	"strings"

	"github.com/dshills/codelens/internal/suggest"
)

// MarkdownWriter outputs a PR-comment-friendly result.
type MarkdownWriter struct{}

func (m *MarkdownWriter) Write(w io.Writer, res *suggest.Result) error {
	ew := &errWriter{w: w}

	ew.printf("## %s\n\n", res.Title())
	ew.printf("**`%s`** | %s\n\n", res.Artifact.Origin.String(), res.Model)
	ew.printf("%s\n\n", strings.TrimRight(res.Content, "\n"))
	ew.printf("*Generated in %s*\n", res.Elapsed.Round(1e6))

	return ew.err
}
