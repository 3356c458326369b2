package redact

import (
	"regexp"
	"sort"
	"strings"
)

const placeholder = "[REDACTED]"

// secretPatterns are regex heuristics for credentials that can end up in
// error bodies, URLs, or log lines.
var secretPatterns = []*regexp.Regexp{
	// Google API keys (Gemini)
	regexp.MustCompile(`AIza[0-9A-Za-z_-]{35}`),
	// GitHub classic and fine-grained tokens
	regexp.MustCompile(`gh[pousr]_[A-Za-z0-9_]{36,}`),
	regexp.MustCompile(`github_pat_[A-Za-z0-9_]{22,}`),
	// Bearer tokens
	regexp.MustCompile(`(?i)Bearer\s+[A-Za-z0-9._-]{20,}`),
	// API key headers and query parameters
	regexp.MustCompile(`(?i)(x-goog-api-key|api[_-]?key|access_token)(["']?\s*[:=]\s*["']?)[A-Za-z0-9._/+=-]{8,}`),
	regexp.MustCompile(`([?&]key=)[A-Za-z0-9._-]{8,}`),
	// Generic secrets/tokens/passwords in assignments
	regexp.MustCompile(`(?i)(secret|token|password|passwd|credential)\s*[:=]\s*["']([^"']{8,})["']`),
	// JWTs (three base64 segments separated by dots)
	regexp.MustCompile(`eyJ[A-Za-z0-9_-]{10,}\.eyJ[A-Za-z0-9_-]{10,}\.[A-Za-z0-9_-]{10,}`),
}

// Text replaces detected secrets in text with [REDACTED].
func Text(text string) string {
	result := text
	for _, pat := range secretPatterns {
		result = pat.ReplaceAllStringFunc(result, func(match string) string {
			return placeholder
		})
	}
	return result
}

// Redactor scrubs a fixed set of known secret values in addition to the
// pattern heuristics used by Text.
type Redactor struct {
	known []string
}

// New returns a Redactor for the given secrets. Empty and very short values
// are ignored so ordinary words are not masked.
func New(secrets ...string) *Redactor {
	var known []string
	for _, s := range secrets {
		if len(strings.TrimSpace(s)) >= 4 {
			known = append(known, s)
		}
	}
	// Longest first so a secret containing another is replaced whole.
	sort.Slice(known, func(i, j int) bool { return len(known[i]) > len(known[j]) })
	return &Redactor{known: known}
}

// Text scrubs known values, then applies the pattern heuristics.
func (r *Redactor) Text(text string) string {
	if r != nil {
		for _, s := range r.known {
			text = strings.ReplaceAll(text, s, placeholder)
		}
	}
	return Text(text)
}

// Error returns the scrubbed message of err, or "" for nil.
func (r *Redactor) Error(err error) string {
	if err == nil {
		return ""
	}
	return r.Text(err.Error())
}
