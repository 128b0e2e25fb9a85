// Package handler provides HTTP handlers for the generation relay.
package handler

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/meetingtimer/timer-relay/internal/config"
)

// TokenHeader is the header carrying the shared secret for non-browser clients.
const TokenHeader = "x-api-token"

// AuthDecision is the outcome of the origin/token check for one request.
// It is derived per request and never stored.
type AuthDecision int

const (
	// DecisionTrusted admits the request by origin; no token is required.
	DecisionTrusted AuthDecision = iota

	// DecisionAdmitted admits the request because the token matched.
	DecisionAdmitted

	// DecisionUnconfigured fails closed: no secret is set server-side, so
	// there is nothing valid to compare a token against.
	DecisionUnconfigured

	// DecisionRejected rejects the request: token missing or mismatched.
	DecisionRejected
)

// Decide applies the trust rules: an allow-listed Origin (exact match) or
// Referer (prefix match) is trusted unconditionally; everything else must
// present the shared secret. Browser clients are trusted by origin because
// CORS already constrains them; tooling and scripts go through the token.
func Decide(allowedOrigins []string, secret, origin, referer, token string) AuthDecision {
	for _, allowed := range allowedOrigins {
		if origin == allowed || (referer != "" && strings.HasPrefix(referer, allowed)) {
			return DecisionTrusted
		}
	}

	if secret == "" {
		return DecisionUnconfigured
	}

	if token == "" || token != secret {
		return DecisionRejected
	}

	return DecisionAdmitted
}

// AuthMiddleware gates every request through Decide. Untrusted origins
// without a valid token get 401; an unconfigured secret yields 500 even when
// a token was supplied.
func AuthMiddleware(cfg *config.Configuration, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		referer := c.GetHeader("Referer")
		token := c.GetHeader(TokenHeader)

		switch Decide(cfg.Auth.AllowedOrigins, cfg.Auth.SecretToken, origin, referer, token) {
		case DecisionTrusted, DecisionAdmitted:
			c.Next()

		case DecisionUnconfigured:
			logger.Warn("shared secret not configured, failing closed",
				slog.String("path", c.Request.URL.Path),
				slog.String("client_ip", c.ClientIP()),
			)
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
				"error": "Server configuration error: API token not set",
			})

		case DecisionRejected:
			logger.Info("request rejected",
				slog.String("path", c.Request.URL.Path),
				slog.String("client_ip", c.ClientIP()),
			)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "Unauthorized: Valid API token required. Include 'x-api-token' header.",
			})
		}
	}
}
