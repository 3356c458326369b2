package suggest

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/dshills/codelens/internal/providers"
	"github.com/dshills/codelens/internal/source"
)

type fakeGenerator struct {
	calls   int
	prompts []string
	resp    providers.Response
	err     error
}

func (f *fakeGenerator) Name() string { return "fake" }

func (f *fakeGenerator) Generate(_ context.Context, req providers.Request) (providers.Response, error) {
	f.calls++
	f.prompts = append(f.prompts, req.Prompt)
	return f.resp, f.err
}

func TestEngine_Run(t *testing.T) {
	gen := &fakeGenerator{resp: providers.Response{Content: "1. Formatting Issues\nnone", TokensUsed: 42}}
	eng := NewEngine(gen, "gemini-2.0-flash", nil)
	art := source.FromPullRequest("octo/demo", "feature", 7, "app.py", sample)

	res, err := eng.Run(context.Background(), art, TemplateReview)
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}
	if gen.calls != 1 {
		t.Errorf("generator called %d times, want 1", gen.calls)
	}
	if gen.prompts[0] != BuildReviewPrompt(sample) {
		t.Error("engine should send the built review prompt")
	}
	if res.Content != "1. Formatting Issues\nnone" {
		t.Errorf("Content = %q, want verbatim model text", res.Content)
	}
	if res.Model != "gemini-2.0-flash" {
		t.Errorf("Model = %q", res.Model)
	}
	if res.ID == "" {
		t.Error("Result should carry an id")
	}
	if res.Artifact.Origin.PR != 7 {
		t.Errorf("Artifact origin = %+v", res.Artifact.Origin)
	}
	if res.TokensUsed != 42 {
		t.Errorf("TokensUsed = %d", res.TokensUsed)
	}
	if res.Title() != "AI Review Suggestions" {
		t.Errorf("Title() = %q", res.Title())
	}
}

func TestEngine_ModelFailure(t *testing.T) {
	gen := &fakeGenerator{err: errors.New("connection reset")}
	eng := NewEngine(gen, "gemini-2.0-flash", nil)
	art, _ := source.FromUpload("app.py", []byte(sample))

	res, err := eng.Optimize(context.Background(), art)
	if res != nil {
		t.Error("failed call must not return a partial result")
	}
	var mce *ModelCallError
	if !errors.As(err, &mce) {
		t.Fatalf("err = %T, want *ModelCallError", err)
	}
	if mce.Template != TemplateOptimize {
		t.Errorf("Template = %q", mce.Template)
	}
	if !strings.Contains(err.Error(), "connection reset") {
		t.Errorf("error should keep the cause: %v", err)
	}
	if gen.calls != 1 {
		t.Errorf("generator called %d times, want exactly 1", gen.calls)
	}
}

func TestEngine_UnknownTemplate(t *testing.T) {
	gen := &fakeGenerator{}
	eng := NewEngine(gen, "m", nil)
	if _, err := eng.Run(context.Background(), source.Artifact{}, Template("x")); err == nil {
		t.Fatal("Expected error")
	}
	if gen.calls != 0 {
		t.Error("model must not be called for an unknown template")
	}
}
