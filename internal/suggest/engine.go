package suggest

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/dshills/codelens/internal/logging"
	"github.com/dshills/codelens/internal/providers"
	"github.com/dshills/codelens/internal/source"
)

// Engine sends prompts to a single Generator.
type Engine struct {
	gen    providers.Generator
	model  string
	logger *slog.Logger
	now    func() time.Time
}

// NewEngine returns an Engine that reports model as the model name in results.
func NewEngine(gen providers.Generator, model string, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Engine{gen: gen, model: model, logger: logger, now: time.Now}
}

// Run builds the prompt for art, calls the model once, and returns its reply.
func (e *Engine) Run(ctx context.Context, art source.Artifact, tmpl Template) (*Result, error) {
	prompt, err := Build(art.Content, tmpl)
	if err != nil {
		return nil, err
	}

	start := e.now()
	resp, err := e.gen.Generate(ctx, providers.Request{Prompt: prompt})
	elapsed := e.now().Sub(start)
	if err != nil {
		e.logger.Warn("model call failed",
			"template", tmpl, "source", art.Origin.String(), "elapsed", elapsed, "err", err)
		return nil, &ModelCallError{Template: tmpl, Model: e.model, Err: err}
	}

	model := resp.Model
	if model == "" {
		model = e.model
	}
	e.logger.Info("model call complete",
		"template", tmpl, "source", art.Origin.String(), "model", model,
		"tokens", resp.TokensUsed, "elapsed", elapsed)

	return &Result{
		ID:         uuid.NewString(),
		Template:   tmpl,
		Model:      model,
		Artifact:   art,
		Content:    resp.Content,
		TokensUsed: resp.TokensUsed,
		Elapsed:    elapsed,
		CreatedAt:  start,
	}, nil
}

// Optimize is Run with the optimize template.
func (e *Engine) Optimize(ctx context.Context, art source.Artifact) (*Result, error) {
	return e.Run(ctx, art, TemplateOptimize)
}

// Review is Run with the review template.
func (e *Engine) Review(ctx context.Context, art source.Artifact) (*Result, error) {
	return e.Run(ctx, art, TemplateReview)
}

func (e *Engine) String() string {
	return fmt.Sprintf("%s/%s", e.gen.Name(), e.model)
}
