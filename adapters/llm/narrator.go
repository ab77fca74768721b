package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"healthdash/ports"
)

// OllamaClient implements the Narrator port against a local Ollama server's
// /api/generate endpoint.
type OllamaClient struct {
	BaseURL string
	Model   string
	Timeout time.Duration

	httpClient *http.Client
}

// NewOllamaClient creates a narrator client. An empty baseURL defaults to the
// local Ollama listener.
func NewOllamaClient(baseURL, model string, timeout time.Duration) *OllamaClient {
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		baseURL = "http://localhost:11434"
	}
	if timeout <= 0 {
		timeout = 300 * time.Second
	}
	return &OllamaClient{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		Model:      model,
		Timeout:    timeout,
		httpClient: &http.Client{Timeout: timeout},
	}
}

type generateOptions struct {
	Temperature   float64  `json:"temperature"`
	TopP          float64  `json:"top_p,omitempty"`
	RepeatPenalty float64  `json:"repeat_penalty,omitempty"`
	NumPredict    int      `json:"num_predict,omitempty"`
	Stop          []string `json:"stop,omitempty"`
	Seed          int64    `json:"seed,omitempty"`
}

type generateBody struct {
	Model   string          `json:"model"`
	Prompt  string          `json:"prompt"`
	Stream  bool            `json:"stream"`
	Options generateOptions `json:"options"`
}

type generateResponse struct {
	Response string `json:"response"`
	Done     bool   `json:"done"`
	Error    string `json:"error"`
}

// Generate runs one non-streaming completion. Any transport, status or decode
// failure is returned as an error for the caller's fallback path.
func (c *OllamaClient) Generate(ctx context.Context, req ports.GenerationRequest) (string, error) {
	if strings.TrimSpace(c.Model) == "" {
		return "", fmt.Errorf("missing model")
	}

	body := generateBody{
		Model:  c.Model,
		Prompt: req.Prompt,
		Stream: false,
		Options: generateOptions{
			Temperature:   req.Temperature,
			TopP:          req.TopP,
			RepeatPenalty: req.RepeatPenalty,
			NumPredict:    req.MaxTokens,
			Stop:          req.Stop,
			Seed:          req.Seed,
		},
	}

	raw, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/api/generate", bytes.NewReader(raw))
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("generation request failed: %w", err)
	}
	defer resp.Body.Close()

	respRaw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("generation server returned %d: %s", resp.StatusCode, truncate(string(respRaw), 200))
	}

	var parsed generateResponse
	if err := json.Unmarshal(respRaw, &parsed); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	if parsed.Error != "" {
		return "", fmt.Errorf("generation server error: %s", parsed.Error)
	}

	return strings.TrimSpace(parsed.Response), nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

// MockNarrator is a canned narrator for testing.
type MockNarrator struct {
	Response string
	Err      error

	// LastRequest records the most recent call for assertions.
	LastRequest ports.GenerationRequest
	Calls       int
}

func (m *MockNarrator) Generate(_ context.Context, req ports.GenerationRequest) (string, error) {
	m.Calls++
	m.LastRequest = req
	if m.Err != nil {
		return "", m.Err
	}
	return m.Response, nil
}
