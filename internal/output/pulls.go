package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/dshills/codelens/internal/github"
)

// WritePullRequests lists pull requests and their matching files.
func WritePullRequests(w io.Writer, format string, prs []github.PullRequestSummary) error {
	switch format {
	case "json":
		if prs == nil {
			prs = []github.PullRequestSummary{}
		}
		return writeJSON(w, prs)
	case "markdown", "md":
		return markdownPullRequests(w, prs)
	case "text", "":
		return textPullRequests(w, prs)
	default:
		return fmt.Errorf("unsupported output format: %s", format)
	}
}

func textPullRequests(w io.Writer, prs []github.PullRequestSummary) error {
	ew := &errWriter{w: w}
	st := newTextStyles(w)
	for _, pr := range prs {
		ew.println(st.title.Render(pr.Label()))
		ew.println(st.dim.Render("  Created at: " + pr.CreatedAt.Format("2006-01-02 15:04:05 MST")))
		for _, f := range pr.Files {
			ew.printf("  %s %s\n", statusMark(f.Status, st), f.Name)
		}
		ew.println("")
	}
	return ew.err
}

func markdownPullRequests(w io.Writer, prs []github.PullRequestSummary) error {
	ew := &errWriter{w: w}
	ew.println("| PR | Title | Branch | Files |")
	ew.println("|----|-------|--------|-------|")
	for _, pr := range prs {
		names := make([]string, len(pr.Files))
		for i, f := range pr.Files {
			names[i] = "`" + f.Name + "`"
		}
		ew.printf("| #%d | %s | `%s` | %s |\n", pr.Number,
			strings.ReplaceAll(pr.Title, "|", `\|`), pr.Branch, strings.Join(names, ", "))
	}
	return ew.err
}

func statusMark(status string, st textStyles) string {
	var mark string
	switch status {
	case "added":
		mark = "+"
	case "removed":
		mark = "-"
	case "renamed":
		mark = ">"
	default:
		mark = "~"
	}
	return st.label.Render(mark)
}
