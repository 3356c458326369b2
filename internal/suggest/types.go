package suggest

import (
	"fmt"
	"time"

	"github.com/dshills/codelens/internal/source"
)

// Result is one model reply for one artifact.
type Result struct {
	ID         string          `json:"id"`
	Template   Template        `json:"template"`
	Model      string          `json:"model"`
	Artifact   source.Artifact `json:"artifact"`
	Content    string          `json:"content"`
	TokensUsed int             `json:"tokensUsed,omitempty"`
	Elapsed    time.Duration   `json:"elapsedNs"`
	CreatedAt  time.Time       `json:"createdAt"`
}

// Title is a short heading for the result.
func (r Result) Title() string {
	switch r.Template {
	case TemplateReview:
		return "AI Review Suggestions"
	default:
		return "Optimization Suggestions"
	}
}

// ModelCallError is returned when the model call fails. No partial Result
// accompanies it.
type ModelCallError struct {
	Template Template
	Model    string
	Err      error
}

func (e *ModelCallError) Error() string {
	return fmt.Sprintf("AI analysis failed (%s via %s): %v", e.Template, e.Model, e.Err)
}

func (e *ModelCallError) Unwrap() error { return e.Err }
