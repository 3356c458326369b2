// Package output formats suggestion results and pull-request listings for the
// terminal or for machine consumption.
//
// Three formats are supported:
//   - text: lipgloss-styled headings for a terminal (default)
//   - json: the full structure
//   - markdown: suitable for pasting into a PR comment
//
// Use [GetWriter] to obtain a [Writer] for a format string, or [WriteResult]
// to also handle destination selection.
package output
