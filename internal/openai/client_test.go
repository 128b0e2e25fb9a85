package openai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestClient_Complete_Success(t *testing.T) {
	var captured ChatRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("path = %s, want /chat/completions", r.URL.Path)
		}
		if auth := r.Header.Get("Authorization"); auth != "Bearer sk-test" {
			t.Errorf("Authorization = %q", auth)
		}
		if err := json.NewDecoder(r.Body).Decode(&captured); err != nil {
			t.Fatalf("decode request: %v", err)
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(ChatResponse{
			Choices: []ChatChoice{
				{Message: ChatMessage{Role: "assistant", Content: "  {\"title\":\"Break\"}  \n"}},
			},
		})
	}))
	defer server.Close()

	client := NewClient("sk-test",
		WithBaseURL(server.URL),
		WithModel("gpt-4o-mini"),
		WithTemperature(0.7),
	)

	text, err := client.Complete(context.Background(), "system prompt", "user prompt", 300)
	if err != nil {
		t.Fatalf("Complete() error: %v", err)
	}
	if text != `{"title":"Break"}` {
		t.Errorf("text = %q, want trimmed assistant content", text)
	}

	if captured.Model != "gpt-4o-mini" {
		t.Errorf("Model = %q", captured.Model)
	}
	if captured.Temperature != 0.7 {
		t.Errorf("Temperature = %v", captured.Temperature)
	}
	if captured.MaxTokens != 300 {
		t.Errorf("MaxTokens = %d", captured.MaxTokens)
	}
	if len(captured.Messages) != 2 ||
		captured.Messages[0].Role != "system" || captured.Messages[0].Content != "system prompt" ||
		captured.Messages[1].Role != "user" || captured.Messages[1].Content != "user prompt" {
		t.Errorf("Messages = %+v", captured.Messages)
	}
}

func TestClient_Complete_UpstreamError(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		body        string
		wantMessage string
	}{
		{
			name:        "message propagated",
			status:      http.StatusTooManyRequests,
			body:        `{"error":{"message":"rate limited","type":"rate_limit_error"}}`,
			wantMessage: "rate limited",
		},
		{
			name:        "missing message falls back",
			status:      http.StatusBadGateway,
			body:        `{"unexpected":"shape"}`,
			wantMessage: "Failed to generate",
		},
		{
			name:        "non-json body falls back",
			status:      http.StatusServiceUnavailable,
			body:        "upstream down",
			wantMessage: "Failed to generate",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer server.Close()

			client := NewClient("sk-test", WithBaseURL(server.URL))

			_, err := client.Complete(context.Background(), "s", "u", 100)
			var upErr *UpstreamError
			if !errors.As(err, &upErr) {
				t.Fatalf("expected *UpstreamError, got %v", err)
			}
			if upErr.StatusCode != tt.status {
				t.Errorf("StatusCode = %d, want %d", upErr.StatusCode, tt.status)
			}
			if upErr.Message != tt.wantMessage {
				t.Errorf("Message = %q, want %q", upErr.Message, tt.wantMessage)
			}
		})
	}
}

func TestClient_Complete_EmptyChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(ChatResponse{})
	}))
	defer server.Close()

	client := NewClient("sk-test", WithBaseURL(server.URL))

	_, err := client.Complete(context.Background(), "s", "u", 100)
	if !errors.Is(err, ErrEmptyCompletion) {
		t.Errorf("expected ErrEmptyCompletion, got %v", err)
	}
}

func TestClient_Complete_TransportError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // connection refused from here on

	client := NewClient("sk-test", WithBaseURL(server.URL))

	_, err := client.Complete(context.Background(), "s", "u", 100)
	if err == nil {
		t.Fatal("expected transport error")
	}
	var upErr *UpstreamError
	if errors.As(err, &upErr) {
		t.Errorf("transport failure must not be an UpstreamError: %v", err)
	}
}

func TestClient_Complete_ContextCancellation(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
	}))
	defer server.Close()
	defer close(release)

	client := NewClient("sk-test", WithBaseURL(server.URL))

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := client.Complete(ctx, "s", "u", 100)
	if err == nil {
		t.Fatal("expected error from cancelled context")
	}
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("expected context deadline error, got %v", err)
	}
}

func TestClientOptions(t *testing.T) {
	custom := &http.Client{}
	client := NewClient("sk-test",
		WithBaseURL("https://example.com/v1/"),
		WithHTTPClient(custom),
		WithTimeout(5*time.Second),
	)

	if client.baseURL != "https://example.com/v1" {
		t.Errorf("baseURL = %q, want trailing slash trimmed", client.baseURL)
	}
	if client.httpClient != custom {
		t.Error("custom http client not applied")
	}
	if client.httpClient.Timeout != 5*time.Second {
		t.Errorf("timeout = %v", client.httpClient.Timeout)
	}
	if client.model != DefaultModel {
		t.Errorf("model = %q, want default", client.model)
	}
}
