// Package openai implements the upstream chat-completion client.
package openai

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
)

const (
	// DefaultBaseURL is the default upstream API endpoint.
	DefaultBaseURL = "https://api.openai.com/v1"

	// DefaultModel is the model used when none is configured.
	DefaultModel = "gpt-4o-mini"

	// DefaultTemperature is the sampling temperature for all requests.
	DefaultTemperature = 0.7

	// DefaultTimeout bounds a single upstream call. The provider offers no
	// other cancellation mechanism, so this is what keeps a request from
	// hanging forever.
	DefaultTimeout = 60 * time.Second

	// fallbackErrorMessage is used when the upstream error body has no message.
	fallbackErrorMessage = "Failed to generate"
)

// ErrEmptyCompletion is returned when the upstream responds 200 with no choices.
var ErrEmptyCompletion = errors.New("upstream response contained no choices")

// UpstreamError is a non-success response from the model provider.
// The handler propagates its status code and message to the caller verbatim.
type UpstreamError struct {
	StatusCode int
	Message    string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("upstream API error (HTTP %d): %s", e.StatusCode, e.Message)
}

// Client performs chat-completion calls against the upstream provider.
// One synchronous HTTP POST per call: no retries, no streaming.
type Client struct {
	apiKey      string
	baseURL     string
	model       string
	temperature float64
	httpClient  *http.Client
}

// ClientOption is a functional option for configuring Client.
type ClientOption func(*Client)

// WithBaseURL sets a custom base URL for the upstream API.
func WithBaseURL(url string) ClientOption {
	return func(c *Client) {
		c.baseURL = strings.TrimSuffix(url, "/")
	}
}

// WithModel sets the model identifier sent with every request.
func WithModel(model string) ClientOption {
	return func(c *Client) {
		if model != "" {
			c.model = model
		}
	}
}

// WithTemperature sets the sampling temperature.
func WithTemperature(temperature float64) ClientOption {
	return func(c *Client) {
		c.temperature = temperature
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(client *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = client
	}
}

// WithTimeout sets the HTTP client timeout.
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		if timeout > 0 {
			c.httpClient.Timeout = timeout
		}
	}
}

// NewClient creates a new Client with the given API key.
func NewClient(apiKey string, opts ...ClientOption) *Client {
	c := &Client{
		apiKey:      apiKey,
		baseURL:     DefaultBaseURL,
		model:       DefaultModel,
		temperature: DefaultTemperature,
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Complete sends the system/user prompt pair upstream and returns the raw
// assistant text. A non-2xx upstream status becomes an *UpstreamError;
// transport failures are returned as-is for the handler's 500 mapping.
func (c *Client) Complete(ctx context.Context, system, user string, maxTokens int) (string, error) {
	chatReq := ChatRequest{
		Model: c.model,
		Messages: []ChatMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
		Temperature: c.temperature,
		MaxTokens:   maxTokens,
	}

	body, err := json.Marshal(chatReq)
	if err != nil {
		return "", fmt.Errorf("failed to marshal chat request: %w", err)
	}

	url := c.baseURL + "/chat/completions"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create http request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read upstream response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", newUpstreamError(resp.StatusCode, respBody)
	}

	var chatResp ChatResponse
	if err := json.Unmarshal(respBody, &chatResp); err != nil {
		return "", fmt.Errorf("failed to unmarshal upstream response: %w", err)
	}

	if len(chatResp.Choices) == 0 {
		return "", ErrEmptyCompletion
	}

	return strings.TrimSpace(chatResp.Choices[0].Message.Content), nil
}

// newUpstreamError extracts the upstream-reported message, falling back to a
// generic one when the body carries none.
func newUpstreamError(status int, body []byte) *UpstreamError {
	message := fallbackErrorMessage

	var chatErr ChatErrorResponse
	if err := json.Unmarshal(body, &chatErr); err == nil && chatErr.Error.Message != "" {
		message = chatErr.Error.Message
	}

	return &UpstreamError{StatusCode: status, Message: message}
}
