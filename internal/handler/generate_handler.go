// Package handler provides HTTP handlers for the generation relay.
package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/meetingtimer/timer-relay/internal/config"
	"github.com/meetingtimer/timer-relay/internal/domain"
	"github.com/meetingtimer/timer-relay/internal/openai"
	"github.com/meetingtimer/timer-relay/internal/prompt"
	"github.com/meetingtimer/timer-relay/internal/relay"
)

// Completer is the upstream dependency of the generate handler.
type Completer interface {
	// Complete sends the prompt pair upstream and returns the raw assistant text.
	Complete(ctx context.Context, system, user string, maxTokens int) (string, error)
}

// GenerateHandler handles POST /api/generate: it validates the request,
// builds the prompt for the selected type, calls the upstream model once,
// and returns the normalized JSON result.
type GenerateHandler struct {
	cfg    *config.Configuration
	client Completer
	logger *slog.Logger
}

// GenerateHandlerOption is a functional option for configuring GenerateHandler.
type GenerateHandlerOption func(*GenerateHandler)

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) GenerateHandlerOption {
	return func(h *GenerateHandler) {
		h.logger = logger
	}
}

// NewGenerateHandler creates a new GenerateHandler.
func NewGenerateHandler(cfg *config.Configuration, client Completer, opts ...GenerateHandlerOption) *GenerateHandler {
	h := &GenerateHandler{
		cfg:    cfg,
		client: client,
		logger: slog.Default(),
	}

	for _, opt := range opts {
		opt(h)
	}

	return h
}

// HandleGenerate handles POST /api/generate.
func (h *GenerateHandler) HandleGenerate(c *gin.Context) {
	var req domain.GenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		sendError(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	c.Set("request_type", string(req.Type))

	if h.cfg.OpenAI.APIKey == "" {
		h.logger.Error("openai api key not configured")
		sendError(c, http.StatusInternalServerError, "OpenAI API key not configured")
		return
	}

	// Type dispatch and payload validation happen before any upstream call.
	spec, err := prompt.Build(req)
	if err != nil {
		var verr *prompt.ValidationError
		if errors.As(err, &verr) {
			sendError(c, http.StatusBadRequest, verr.Message)
			return
		}
		sendError(c, http.StatusBadRequest, err.Error())
		return
	}

	text, err := h.client.Complete(c.Request.Context(), spec.System, spec.User, spec.MaxTokens)
	if err != nil {
		h.handleCompletionError(c, req.Type, err)
		return
	}

	result, err := relay.Normalize(text)
	if err != nil {
		h.logger.Error("model output failed to parse",
			slog.String("request_type", string(req.Type)),
			slog.String("error", err.Error()),
		)
		sendError(c, http.StatusInternalServerError, err.Error())
		return
	}

	c.Data(http.StatusOK, "application/json; charset=utf-8", result)
}

// handleCompletionError maps upstream failures onto the response: provider
// errors keep their own status and message, transport failures become 500.
func (h *GenerateHandler) handleCompletionError(c *gin.Context, reqType domain.RequestType, err error) {
	var upErr *openai.UpstreamError
	if errors.As(err, &upErr) {
		h.logger.Error("upstream returned error",
			slog.String("request_type", string(reqType)),
			slog.Int("upstream_status", upErr.StatusCode),
			slog.String("message", upErr.Message),
		)
		sendError(c, upErr.StatusCode, upErr.Message)
		return
	}

	h.logger.Error("upstream call failed",
		slog.String("request_type", string(reqType)),
		slog.String("error", err.Error()),
	)

	message := err.Error()
	if message == "" {
		message = "Failed to generate"
	}
	sendError(c, http.StatusInternalServerError, message)
}

// HandleHealth handles GET /health.
// Reports whether the secrets are configured without revealing them.
func (h *GenerateHandler) HandleHealth(c *gin.Context) {
	secretConfigured := h.cfg.Auth.SecretToken != ""
	upstreamConfigured := h.cfg.OpenAI.APIKey != ""

	status := "healthy"
	if !secretConfigured || !upstreamConfigured {
		status = "degraded"
	}

	c.JSON(http.StatusOK, gin.H{
		"status":              status,
		"secret_configured":   secretConfigured,
		"upstream_configured": upstreamConfigured,
	})
}

// sendError writes the relay's flat error shape.
func sendError(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, gin.H{"error": message})
}
