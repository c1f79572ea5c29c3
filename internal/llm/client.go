package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"
)

const (
	defaultEndpoint = "https://api.siliconflow.cn/v1/chat/completions"
	defaultModel    = "Qwen/Qwen2.5-7B-Instruct"
)

// Endpoint and credential each resolve through an ordered list of variable
// names, consulted at call time. First non-empty value wins.
var (
	apiURLVars = []string{"MAWID_LLM_API_URL", "MAWID_LLM_URL", "LLM_API_URL", "LLM_URL"}
	apiKeyVars = []string{"MAWID_LLM_API_KEY", "MAWID_LLM_KEY", "LLM_API_KEY", "LLM_KEY"}
)

// Throttling bodies that arrive without a 429 status.
var rateLimitMarkers = []string{"too many requests", "only request this after"}

// Client talks to an OpenAI-compatible chat completions endpoint. It performs
// exactly one round trip per call and never retries; rate-limit failures are
// surfaced distinguishably so the caller can decide.
type Client struct {
	model      string
	httpClient *http.Client
	lookupEnv  func(string) string
	logger     *slog.Logger
}

func NewClient(model string, logger *slog.Logger) *Client {
	if model == "" {
		model = defaultModel
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Client{
		model:      model,
		httpClient: &http.Client{Timeout: 60 * time.Second},
		lookupEnv:  os.Getenv,
		logger:     logger,
	}
}

type chatRequest struct {
	Model            string        `json:"model"`
	Messages         []chatMessage `json:"messages"`
	MaxTokens        int           `json:"max_tokens"`
	Temperature      float64       `json:"temperature"`
	TopP             float64       `json:"top_p"`
	TopK             int           `json:"top_k"`
	FrequencyPenalty float64       `json:"frequency_penalty"`
	Stream           bool          `json:"stream"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
		Delta struct {
			Content string `json:"content"`
		} `json:"delta"`
	} `json:"choices"`
}

func resolveVar(lookup func(string) string, names []string) string {
	for _, name := range names {
		if v := lookup(name); v != "" {
			return v
		}
	}
	return ""
}

// Complete sends the extraction prompt plus user text and returns the
// assistant's raw text content. Empty content with a nil error means the
// endpoint answered without a usable message; the extractor deals with that.
func (c *Client) Complete(ctx context.Context, userText string) (string, error) {
	apiKey := resolveVar(c.lookupEnv, apiKeyVars)
	if apiKey == "" {
		return "", ErrMissingAPIKey
	}
	endpoint := resolveVar(c.lookupEnv, apiURLVars)
	if endpoint == "" {
		endpoint = defaultEndpoint
	}

	body := chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: buildSystemPrompt()},
			{Role: "user", Content: buildUserPrompt(userText)},
		},
		MaxTokens:        2048,
		Temperature:      0.2,
		TopP:             0.7,
		TopK:             50,
		FrequencyPenalty: 0.5,
		Stream:           false,
	}

	data, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("marshaling completion request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+apiKey)
	req.Header.Set("Content-Type", "application/json")

	c.logger.Debug("completion request", "endpoint", endpoint, "model", c.model, "user_text_len", len(userText))

	requestStart := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("sending completion request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("reading completion response: %w", err)
	}

	c.logger.Debug("completion response",
		"status", resp.StatusCode,
		"bytes", len(respBody),
		"elapsed", time.Since(requestStart),
	)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		if isRateLimited(resp.StatusCode, respBody) {
			return "", &RateLimitError{Body: string(respBody)}
		}
		return "", &APIError{StatusCode: resp.StatusCode, Body: string(respBody)}
	}

	var out chatResponse
	if err := json.Unmarshal(respBody, &out); err != nil {
		return "", fmt.Errorf("parsing completion envelope: %w", err)
	}
	if len(out.Choices) == 0 {
		return "", nil
	}

	content := out.Choices[0].Message.Content
	if content == "" {
		content = out.Choices[0].Delta.Content
	}
	c.logger.Debug("completion content", "content", truncateStr(content, 2000))
	return content, nil
}

func isRateLimited(status int, body []byte) bool {
	if status == http.StatusTooManyRequests {
		return true
	}
	lower := strings.ToLower(string(body))
	for _, marker := range rateLimitMarkers {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return false
}

func truncateStr(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
