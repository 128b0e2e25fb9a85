// Package openai implements the upstream chat-completion client.
package openai

// Wire types for the upstream chat-completion API.

// ChatRequest represents a chat completion request.
type ChatRequest struct {
	// Model specifies which model to use (e.g., "gpt-4o-mini").
	Model string `json:"model"`

	// Messages contains the system and user prompts.
	Messages []ChatMessage `json:"messages"`

	// Temperature controls randomness (0.0-2.0).
	Temperature float64 `json:"temperature"`

	// MaxTokens limits the response length.
	MaxTokens int `json:"max_tokens"`
}

// ChatMessage represents a single message in the conversation.
type ChatMessage struct {
	// Role is one of: "system", "user", "assistant".
	Role string `json:"role"`

	// Content is the message text content.
	Content string `json:"content"`
}

// ChatResponse represents a chat completion response.
type ChatResponse struct {
	// ID is the unique identifier for this completion.
	ID string `json:"id"`

	// Model is the model used for completion.
	Model string `json:"model"`

	// Choices contains the generated completions.
	Choices []ChatChoice `json:"choices"`

	// Usage contains token usage statistics.
	Usage ChatUsage `json:"usage"`
}

// ChatChoice represents a single completion choice.
type ChatChoice struct {
	// Index is the position of this choice in the list.
	Index int `json:"index"`

	// Message contains the generated message.
	Message ChatMessage `json:"message"`

	// FinishReason indicates why the model stopped generating.
	FinishReason string `json:"finish_reason"`
}

// ChatUsage contains token usage statistics.
type ChatUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// ChatErrorResponse represents an error response from the upstream API.
type ChatErrorResponse struct {
	Error ChatErrorDetail `json:"error"`
}

// ChatErrorDetail contains the error details.
type ChatErrorDetail struct {
	// Message is the human-readable error message.
	Message string `json:"message"`

	// Type categorizes the error (e.g., "invalid_request_error").
	Type string `json:"type"`

	// Code is the error code. Optional.
	Code string `json:"code,omitempty"`
}
