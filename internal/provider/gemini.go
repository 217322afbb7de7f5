package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"layoutsmith/internal/logging"
)

// GeminiConfig configures the Gemini-backed provider.
type GeminiConfig struct {
	APIKey     string
	BaseURL    string
	Model      string
	Timeout    time.Duration
	MaxRetries int
	RetryDelay time.Duration // grows linearly: delay, 2*delay, 3*delay...
}

// DefaultGeminiConfig returns sensible defaults.
func DefaultGeminiConfig(apiKey string) GeminiConfig {
	return GeminiConfig{
		APIKey:     apiKey,
		BaseURL:    "https://generativelanguage.googleapis.com/v1beta",
		Model:      "gemini-2.5-flash",
		Timeout:    2 * time.Minute,
		MaxRetries: 3,
		RetryDelay: 2 * time.Second,
	}
}

// GeminiClient implements CompletionProvider against the Gemini API.
type GeminiClient struct {
	apiKey     string
	baseURL    string
	model      string
	maxRetries int
	retryDelay time.Duration
	httpClient *http.Client
}

// NewGeminiClient creates a client with the given config.
func NewGeminiClient(config GeminiConfig) *GeminiClient {
	model := strings.TrimSpace(config.Model)
	if model == "" {
		model = "gemini-2.5-flash"
	}
	timeout := config.Timeout
	if timeout <= 0 {
		timeout = 2 * time.Minute
	}
	delay := config.RetryDelay
	if delay <= 0 {
		delay = 2 * time.Second
	}

	return &GeminiClient{
		apiKey:     config.APIKey,
		baseURL:    strings.TrimRight(config.BaseURL, "/"),
		model:      model,
		maxRetries: config.MaxRetries,
		retryDelay: delay,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Request/response wire types, trimmed to what we use.
type geminiRequest struct {
	Contents         []geminiContent        `json:"contents"`
	GenerationConfig geminiGenerationConfig `json:"generationConfig"`
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiGenerationConfig struct {
	Temperature      float64 `json:"temperature"`
	MaxOutputTokens  int     `json:"maxOutputTokens,omitempty"`
	ResponseMimeType string  `json:"responseMimeType,omitempty"`
}

type geminiResponse struct {
	Candidates []struct {
		Content      geminiContent `json:"content"`
		FinishReason string        `json:"finishReason"`
	} `json:"candidates"`
	PromptFeedback *struct {
		BlockReason string `json:"blockReason"`
	} `json:"promptFeedback"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}

// Complete sends one prompt and returns the model text. Retryable
// failures (network, 429, 5xx) are retried up to MaxRetries with linear
// backoff; auth and content-filter failures return immediately.
func (c *GeminiClient) Complete(ctx context.Context, prompt string, opts Options) (string, error) {
	if c.apiKey == "" {
		return "", &Error{Kind: KindAuth, Message: "no API key configured"}
	}

	reqBody := geminiRequest{
		Contents: []geminiContent{{
			Role:  "user",
			Parts: []geminiPart{{Text: prompt}},
		}},
		GenerationConfig: geminiGenerationConfig{
			Temperature:      opts.Temperature,
			MaxOutputTokens:  opts.MaxTokens,
			ResponseMimeType: "application/json",
		},
	}

	url := fmt.Sprintf("%s/models/%s:generateContent?key=%s", c.baseURL, c.model, c.apiKey)

	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			delay := time.Duration(attempt) * c.retryDelay
			logging.Provider("Retry %d/%d after %v: %v", attempt, c.maxRetries, delay, lastErr)
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return "", &Error{Kind: KindNetwork, Message: ctx.Err().Error()}
			}
		}

		text, err := c.doRequest(ctx, url, reqBody)
		if err == nil {
			return text, nil
		}

		var perr *Error
		if errors.As(err, &perr) && !perr.Retryable() {
			return "", err
		}
		lastErr = err
	}

	return "", fmt.Errorf("completion failed after %d retries: %w", c.maxRetries, lastErr)
}

func (c *GeminiClient) doRequest(ctx context.Context, url string, reqBody geminiRequest) (string, error) {
	timer := logging.StartTimer(logging.CategoryProvider, "gemini request")
	defer timer.StopWithThreshold(30 * time.Second)

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", &Error{Kind: KindInvalid, Message: fmt.Sprintf("failed to marshal request: %v", err)}
	}

	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewReader(jsonData))
	if err != nil {
		return "", &Error{Kind: KindInvalid, Message: fmt.Sprintf("failed to create request: %v", err)}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", &Error{Kind: KindNetwork, Message: err.Error()}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &Error{Kind: KindNetwork, Message: fmt.Sprintf("failed to read response: %v", err)}
	}

	if kind, bad := classifyStatus(resp.StatusCode); bad {
		return "", &Error{Kind: kind, StatusCode: resp.StatusCode, Message: truncate(string(body), 300)}
	}

	var geminiResp geminiResponse
	if err := json.Unmarshal(body, &geminiResp); err != nil {
		return "", &Error{Kind: KindServer, StatusCode: resp.StatusCode, Message: fmt.Sprintf("unparseable response: %v", err)}
	}

	if geminiResp.Error != nil {
		return "", &Error{Kind: KindServer, StatusCode: geminiResp.Error.Code, Message: geminiResp.Error.Message}
	}
	if geminiResp.PromptFeedback != nil && geminiResp.PromptFeedback.BlockReason != "" {
		return "", &Error{Kind: KindContentFiltered, Message: fmt.Sprintf("prompt blocked: %s", geminiResp.PromptFeedback.BlockReason)}
	}
	if len(geminiResp.Candidates) == 0 || len(geminiResp.Candidates[0].Content.Parts) == 0 {
		return "", &Error{Kind: KindServer, Message: "no completion returned"}
	}
	if reason := geminiResp.Candidates[0].FinishReason; reason == "SAFETY" || reason == "PROHIBITED_CONTENT" {
		return "", &Error{Kind: KindContentFiltered, Message: fmt.Sprintf("completion blocked: %s", reason)}
	}

	var result strings.Builder
	for _, part := range geminiResp.Candidates[0].Content.Parts {
		result.WriteString(part.Text)
	}
	return result.String(), nil
}

func classifyStatus(status int) (ErrorKind, bool) {
	switch {
	case status == http.StatusOK:
		return "", false
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return KindAuth, true
	case status == http.StatusTooManyRequests:
		return KindRateLimit, true
	case status >= 500:
		return KindServer, true
	default:
		return KindInvalid, true
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
