package suggest

import (
	"fmt"
	"strings"
)

// Template selects which fixed prompt wraps the code.
type Template string

const (
	TemplateOptimize Template = "optimize"
	TemplateReview   Template = "review"
)

const optimizePreamble = "You are an expert Python developer. Analyze the following code and suggest any optimizations, " +
	"including removal of unnecessary variables, unused imports, better structure, and simplifications:\n\n"

// Section labels requested by the review template, in order.
var ReviewSections = []string{
	"Formatting Issues",
	"Errors or Bugs",
	"Unnecessary Variables or Imports",
}

const reviewHeader = `
You are a code reviewer.

Analyze the following Python code and provide only the following three sections in your response:

1. Formatting Issues (e.g., indentation, naming, spacing)
2. Errors or Bugs (logical or runtime issues)
3. Unnecessary Variables or Imports (anything unused or redundant)

Do not include any other commentary. Keep it concise and structured.

` + "```python\n"

const reviewFooter = "\n```"

// ParseTemplate converts a user-supplied name into a Template.
func ParseTemplate(name string) (Template, error) {
	switch t := Template(strings.ToLower(strings.TrimSpace(name))); t {
	case TemplateOptimize, TemplateReview:
		return t, nil
	default:
		return "", fmt.Errorf("unknown template %q (want optimize or review)", name)
	}
}

// Build wraps code in the given template. The code is inserted verbatim and
// is not truncated.
func Build(code string, tmpl Template) (string, error) {
	switch tmpl {
	case TemplateOptimize:
		return BuildOptimizePrompt(code), nil
	case TemplateReview:
		return BuildReviewPrompt(code), nil
	default:
		return "", fmt.Errorf("unknown template %q", tmpl)
	}
}

// BuildOptimizePrompt asks for optimizations of code.
func BuildOptimizePrompt(code string) string {
	return optimizePreamble + code
}

// BuildReviewPrompt asks for a three-section review of code.
func BuildReviewPrompt(code string) string {
	var b strings.Builder
	b.Grow(len(reviewHeader) + len(code) + len(reviewFooter))
	b.WriteString(reviewHeader)
	b.WriteString(code)
	b.WriteString(reviewFooter)
	return b.String()
}
