package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/use-agent/geolens/models"
)

// Client is the OpenAI-compatible chat-completions client used by the
// objectivity oracle.
type Client struct {
	httpClient *http.Client
	params     Params
}

// Params holds the provider settings for every call made by a Client.
type Params struct {
	APIKey  string
	Model   string
	BaseURL string // e.g. "https://api.groq.com/openai/v1"
}

// NewClient creates a new LLM client with the given http.Client.
// Pass nil to use a default client; per-call deadlines come from the context.
func NewClient(httpClient *http.Client, params Params) *Client {
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	return &Client{httpClient: httpClient, params: params}
}

// CompletionOptions tunes a single completion.
type CompletionOptions struct {
	Temperature float64
	MaxTokens   int
}

// chatRequest is the OpenAI chat completion request body.
type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// chatResponse is the minimal OpenAI chat completion response we need.
type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// chatErrorResponse captures an API error from the LLM provider.
type chatErrorResponse struct {
	Error struct {
		Message string `json:"message"`
		Type    string `json:"type"`
		Code    string `json:"code"`
	} `json:"error"`
}

// Complete sends prompt as a single user message and returns the trimmed
// content of the first choice.
func (c *Client) Complete(ctx context.Context, prompt string, opts CompletionOptions) (string, error) {
	reqBody := chatRequest{
		Model: c.params.Model,
		Messages: []chatMessage{
			{Role: "user", Content: prompt},
		},
		Temperature: opts.Temperature,
		MaxTokens:   opts.MaxTokens,
	}

	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	// Build URL: baseURL + /chat/completions
	endpoint := strings.TrimRight(c.params.BaseURL, "/") + "/chat/completions"

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(bodyBytes))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.params.APIKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", models.NewAuditError(models.ErrCodeLLMFailure, "LLM request failed", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", models.NewAuditError(models.ErrCodeLLMFailure, "failed to read LLM response", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", classifyLLMError(resp.StatusCode, respBody)
	}

	var chatResp chatResponse
	if err := json.Unmarshal(respBody, &chatResp); err != nil {
		return "", models.NewAuditError(models.ErrCodeLLMFailure, "failed to parse LLM response", err)
	}

	if len(chatResp.Choices) == 0 {
		return "", models.NewAuditError(models.ErrCodeLLMFailure, "LLM returned no choices", nil)
	}

	return strings.TrimSpace(chatResp.Choices[0].Message.Content), nil
}

// classifyLLMError maps HTTP status codes to appropriate error codes.
func classifyLLMError(statusCode int, body []byte) *models.AuditError {
	var errResp chatErrorResponse
	msg := "LLM API error"
	if err := json.Unmarshal(body, &errResp); err == nil && errResp.Error.Message != "" {
		msg = errResp.Error.Message
	}

	switch {
	case statusCode == http.StatusUnauthorized || statusCode == http.StatusForbidden:
		return models.NewAuditError(models.ErrCodeLLMAuthFailure, msg, nil)
	case statusCode == http.StatusTooManyRequests:
		return models.NewAuditError(models.ErrCodeLLMRateLimited, msg, nil)
	default:
		return models.NewAuditError(models.ErrCodeLLMFailure, fmt.Sprintf("LLM API returned %d: %s", statusCode, msg), nil)
	}
}
