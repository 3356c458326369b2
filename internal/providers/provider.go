package providers

import (
	"context"
	"fmt"
	"net/http"
)

// Request contains the data sent to the model for one generation.
type Request struct {
	SystemPrompt string
	Prompt       string
	MaxTokens    int
	Temperature  float64
}

// Response contains the raw text returned by the model.
type Response struct {
	Content    string
	Model      string
	TokensUsed int
}

// Generator produces text from a prompt with a single remote call.
type Generator interface {
	Generate(ctx context.Context, req Request) (Response, error)
	Name() string
}

// Options configures a provider. Zero values select the public endpoint and
// default HTTP client.
type Options struct {
	APIKey     string
	BaseURL    string
	HTTPClient *http.Client
}

// New creates a provider by name. Only Gemini is supported.
func New(provider, model string, opts Options) (Generator, error) {
	switch provider {
	case "gemini", "google":
		return NewGemini(model, opts)
	default:
		return nil, fmt.Errorf("unknown provider: %s", provider)
	}
}
