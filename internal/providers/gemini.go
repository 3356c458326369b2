package providers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	// DefaultGeminiBaseURL is the public Generative Language API root.
	DefaultGeminiBaseURL = "https://generativelanguage.googleapis.com/v1beta"
	// DefaultGeminiModel is used when no model is configured.
	DefaultGeminiModel = "gemini-2.0-flash"
)

// ErrMissingAPIKey is returned when no Gemini key is configured.
var ErrMissingAPIKey = errors.New("GEMINI_API_KEY (or GOOGLE_API_KEY) is not set")

// Gemini implements the Generator interface for Google's Gemini API.
type Gemini struct {
	apiKey  string
	model   string
	baseURL string
	client  *http.Client
}

// NewGemini creates a new Gemini provider.
func NewGemini(model string, opts Options) (*Gemini, error) {
	if strings.TrimSpace(opts.APIKey) == "" {
		return nil, ErrMissingAPIKey
	}
	if model == "" {
		model = DefaultGeminiModel
	}
	baseURL := strings.TrimRight(opts.BaseURL, "/")
	if baseURL == "" {
		baseURL = DefaultGeminiBaseURL
	}
	client := opts.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: 120 * time.Second}
	}
	return &Gemini{
		apiKey:  opts.APIKey,
		model:   strings.TrimPrefix(model, "models/"),
		baseURL: baseURL,
		client:  client,
	}, nil
}

func (g *Gemini) Name() string { return "gemini" }

// Model returns the model name requests are sent to.
func (g *Gemini) Model() string { return g.model }

// Generate sends one generateContent call. Failures are returned as-is; the
// call is never repeated.
func (g *Gemini) Generate(ctx context.Context, req Request) (Response, error) {
	endpoint := fmt.Sprintf("%s/models/%s:generateContent", g.baseURL, url.PathEscape(g.model))

	body := geminiRequest{
		Contents: []geminiContent{
			{
				Role:  "user",
				Parts: []geminiPart{{Text: req.Prompt}},
			},
		},
	}
	if req.SystemPrompt != "" {
		body.SystemInstruction = &geminiContent{Parts: []geminiPart{{Text: req.SystemPrompt}}}
	}
	if req.MaxTokens > 0 || req.Temperature > 0 {
		body.GenerationConfig = &geminiGenConfig{MaxOutputTokens: req.MaxTokens}
		if req.Temperature > 0 {
			body.GenerationConfig.Temperature = &req.Temperature
		}
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return Response{}, fmt.Errorf("marshaling request: %w", err)
	}

	respBody, err := g.do(ctx, http.MethodPost, endpoint, payload)
	if err != nil {
		return Response{}, err
	}

	var result geminiResponse
	if err := json.Unmarshal(respBody, &result); err != nil {
		return Response{}, fmt.Errorf("parsing response: %w", err)
	}
	if len(result.Candidates) == 0 || len(result.Candidates[0].Content.Parts) == 0 {
		if reason := result.PromptFeedback.BlockReason; reason != "" {
			return Response{}, fmt.Errorf("prompt blocked: %s", reason)
		}
		return Response{}, errors.New("no content in response")
	}

	var content strings.Builder
	for _, part := range result.Candidates[0].Content.Parts {
		content.WriteString(part.Text)
	}

	return Response{
		Content:    content.String(),
		Model:      g.model,
		TokensUsed: result.UsageMetadata.TotalTokenCount,
	}, nil
}

// ModelInfo describes one model available to the configured key.
type ModelInfo struct {
	Name             string   `json:"name"`
	DisplayName      string   `json:"displayName,omitempty"`
	Description      string   `json:"description,omitempty"`
	InputTokenLimit  int      `json:"inputTokenLimit,omitempty"`
	OutputTokenLimit int      `json:"outputTokenLimit,omitempty"`
	Methods          []string `json:"supportedGenerationMethods,omitempty"`
}

// SupportsGenerate reports whether the model accepts generateContent calls.
func (m ModelInfo) SupportsGenerate() bool {
	for _, method := range m.Methods {
		if method == "generateContent" {
			return true
		}
	}
	return false
}

// ListModels returns every model visible to the API key, following pagination.
func (g *Gemini) ListModels(ctx context.Context) ([]ModelInfo, error) {
	var models []ModelInfo
	pageToken := ""
	for {
		q := url.Values{"pageSize": {"100"}}
		if pageToken != "" {
			q.Set("pageToken", pageToken)
		}
		respBody, err := g.do(ctx, http.MethodGet, g.baseURL+"/models?"+q.Encode(), nil)
		if err != nil {
			return nil, err
		}
		var page struct {
			Models        []ModelInfo `json:"models"`
			NextPageToken string      `json:"nextPageToken"`
		}
		if err := json.Unmarshal(respBody, &page); err != nil {
			return nil, fmt.Errorf("parsing model list: %w", err)
		}
		models = append(models, page.Models...)
		if page.NextPageToken == "" {
			return models, nil
		}
		pageToken = page.NextPageToken
	}
}

// do issues one request with the API key header and classifies the status.
func (g *Gemini) do(ctx context.Context, method, endpoint string, payload []byte) ([]byte, error) {
	var reqBody io.Reader
	if payload != nil {
		reqBody = bytes.NewReader(payload)
	}
	httpReq, err := http.NewRequestWithContext(ctx, method, endpoint, reqBody)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	if payload != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	httpReq.Header.Set("x-goog-api-key", g.apiKey)

	httpResp, err := g.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("sending request: %w", err)
	}
	defer httpResp.Body.Close()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	switch {
	case httpResp.StatusCode == http.StatusTooManyRequests:
		return nil, &rateLimitError{message: string(respBody)}
	case httpResp.StatusCode == http.StatusUnauthorized || httpResp.StatusCode == http.StatusForbidden:
		return nil, &authError{message: string(respBody)}
	case httpResp.StatusCode != http.StatusOK:
		return nil, &APIError{Status: httpResp.StatusCode, Body: string(respBody)}
	}
	return respBody, nil
}

type geminiRequest struct {
	SystemInstruction *geminiContent   `json:"systemInstruction,omitempty"`
	Contents          []geminiContent  `json:"contents"`
	GenerationConfig  *geminiGenConfig `json:"generationConfig,omitempty"`
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiGenConfig struct {
	MaxOutputTokens int      `json:"maxOutputTokens,omitempty"`
	Temperature     *float64 `json:"temperature,omitempty"`
}

type geminiResponse struct {
	Candidates     []geminiCandidate `json:"candidates"`
	PromptFeedback geminiFeedback    `json:"promptFeedback"`
	UsageMetadata  geminiUsage       `json:"usageMetadata"`
}

type geminiCandidate struct {
	Content geminiContent `json:"content"`
}

type geminiFeedback struct {
	BlockReason string `json:"blockReason"`
}

type geminiUsage struct {
	TotalTokenCount int `json:"totalTokenCount"`
}
