package output

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/dshills/codelens/internal/github"
	"github.com/dshills/codelens/internal/source"
	"github.com/dshills/codelens/internal/suggest"
)

func sampleResult() *suggest.Result {
	return &suggest.Result{
		ID:         "3f1c",
		Template:   suggest.TemplateReview,
		Model:      "gemini-2.0-flash",
		Artifact:   source.FromPullRequest("octo/demo", "feature", 7, "app.py", "import os\n"),
		Content:    "1. Formatting Issues\n- none\n\n2. Errors or Bugs\n- none\n",
		TokensUsed: 120,
		Elapsed:    1500 * time.Millisecond,
	}
}

func TestGetWriter(t *testing.T) {
	for _, f := range []string{"text", "", "json", "markdown", "md"} {
		if _, err := GetWriter(f); err != nil {
			t.Errorf("GetWriter(%q) error: %v", f, err)
		}
	}
	if _, err := GetWriter("sarif"); err == nil {
		t.Error("Expected error for unsupported format")
	}
}

func TestTextWriter(t *testing.T) {
	var buf bytes.Buffer
	if err := (&TextWriter{}).Write(&buf, sampleResult()); err != nil {
		t.Fatalf("Write error: %v", err)
	}
	out := buf.String()
	for _, want := range []string{
		"AI Review Suggestions",
		"octo/demo#7:app.py@feature",
		"gemini-2.0-flash",
		"2. Errors or Bugs",
		"Completed in 1.5s",
		"120 tokens",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestJSONWriter(t *testing.T) {
	var buf bytes.Buffer
	if err := (&JSONWriter{}).Write(&buf, sampleResult()); err != nil {
		t.Fatalf("Write error: %v", err)
	}
	var got map[string]any
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if got["template"] != "review" {
		t.Errorf("template = %v", got["template"])
	}
	if got["content"] != sampleResult().Content {
		t.Errorf("content should be verbatim, got %v", got["content"])
	}
}

func TestMarkdownWriter(t *testing.T) {
	res := sampleResult()
	res.Template = suggest.TemplateOptimize
	var buf bytes.Buffer
	if err := (&MarkdownWriter{}).Write(&buf, res); err != nil {
		t.Fatalf("Write error: %v", err)
	}
	out := buf.String()
	if !strings.HasPrefix(out, "## Optimization Suggestions\n") {
		t.Errorf("unexpected heading:\n%s", out)
	}
	if !strings.Contains(out, "*Generated in 1.5s*") {
		t.Errorf("missing footer:\n%s", out)
	}
}

func TestWriteResult_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.json")
	if err := WriteResult(nil, sampleResult(), "json", path); err != nil {
		t.Fatalf("WriteResult error: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !json.Valid(data) {
		t.Error("file should contain valid JSON")
	}
}

func TestWritePullRequests(t *testing.T) {
	prs := []github.PullRequestSummary{{
		Number: 7, Title: "Speed | up", Branch: "feature", Base: "main",
		CreatedAt: time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC),
		Files:     []github.ChangedFile{{Name: "app.py", Status: "added"}},
	}}

	var buf bytes.Buffer
	if err := WritePullRequests(&buf, "text", prs); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	if !strings.Contains(out, "#7 - Speed | up (→ feature)") || !strings.Contains(out, "+ app.py") {
		t.Errorf("text output:\n%s", out)
	}
	if !strings.Contains(out, "Created at: 2024-05-01 10:00:00 UTC") {
		t.Errorf("missing creation time:\n%s", out)
	}

	buf.Reset()
	if err := WritePullRequests(&buf, "markdown", prs); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), `| #7 | Speed \| up | `+"`feature`") {
		t.Errorf("markdown output:\n%s", buf.String())
	}

	buf.Reset()
	if err := WritePullRequests(&buf, "json", nil); err != nil {
		t.Fatal(err)
	}
	if strings.TrimSpace(buf.String()) != "[]" {
		t.Errorf("empty JSON list = %q", buf.String())
	}

	if err := WritePullRequests(&buf, "xml", prs); err == nil {
		t.Error("Expected error for unsupported format")
	}
}
