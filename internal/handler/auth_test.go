package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/meetingtimer/timer-relay/internal/config"
)

var testAllowedOrigins = []string{
	"http://localhost:3000",
	"https://app.meetingtimer.pro",
}

func TestDecide(t *testing.T) {
	const secret = "relay-secret"

	tests := []struct {
		name    string
		secret  string
		origin  string
		referer string
		token   string
		want    AuthDecision
	}{
		{
			name:   "exact origin match is trusted",
			secret: secret,
			origin: "http://localhost:3000",
			want:   DecisionTrusted,
		},
		{
			name:   "trusted origin needs no token even with wrong token",
			secret: secret,
			origin: "https://app.meetingtimer.pro",
			token:  "wrong",
			want:   DecisionTrusted,
		},
		{
			name:    "referer prefix match is trusted",
			secret:  secret,
			referer: "https://app.meetingtimer.pro/rooms/42",
			want:    DecisionTrusted,
		},
		{
			name:   "origin is matched exactly, not by prefix",
			secret: secret,
			origin: "http://localhost:30001",
			want:   DecisionRejected,
		},
		{
			name:   "matching token admits untrusted client",
			secret: secret,
			token:  secret,
			want:   DecisionAdmitted,
		},
		{
			name:   "mismatched token is rejected",
			secret: secret,
			token:  "wrong",
			want:   DecisionRejected,
		},
		{
			name:   "missing token is rejected",
			secret: secret,
			want:   DecisionRejected,
		},
		{
			name:   "unset secret fails closed even with a token",
			secret: "",
			token:  "anything",
			want:   DecisionUnconfigured,
		},
		{
			name:   "unset secret with trusted origin still trusted",
			secret: "",
			origin: "http://localhost:3000",
			want:   DecisionTrusted,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Decide(testAllowedOrigins, tt.secret, tt.origin, tt.referer, tt.token)
			if got != tt.want {
				t.Errorf("Decide() = %v, want %v", got, tt.want)
			}
		})
	}
}

func setupAuthRouter(secret string) *gin.Engine {
	gin.SetMode(gin.TestMode)

	cfg := &config.Configuration{
		Auth: config.AuthConfig{
			AllowedOrigins: testAllowedOrigins,
			SecretToken:    secret,
		},
	}

	router := gin.New()
	router.Use(AuthMiddleware(cfg, slog.Default()))
	router.POST("/api/generate", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	return router
}

func TestAuthMiddleware(t *testing.T) {
	tests := []struct {
		name       string
		secret     string
		headers    map[string]string
		wantStatus int
		wantError  string
	}{
		{
			name:       "allow-listed origin admitted without token",
			secret:     "s3cret",
			headers:    map[string]string{"Origin": "http://localhost:3000"},
			wantStatus: http.StatusOK,
		},
		{
			name:       "referer prefix admitted without token",
			secret:     "s3cret",
			headers:    map[string]string{"Referer": "http://localhost:3000/room/1"},
			wantStatus: http.StatusOK,
		},
		{
			name:       "valid token admitted",
			secret:     "s3cret",
			headers:    map[string]string{"x-api-token": "s3cret"},
			wantStatus: http.StatusOK,
		},
		{
			name:       "no credentials rejected",
			secret:     "s3cret",
			headers:    nil,
			wantStatus: http.StatusUnauthorized,
			wantError:  "Unauthorized: Valid API token required. Include 'x-api-token' header.",
		},
		{
			name:       "wrong token rejected",
			secret:     "s3cret",
			headers:    map[string]string{"x-api-token": "nope"},
			wantStatus: http.StatusUnauthorized,
			wantError:  "Unauthorized: Valid API token required. Include 'x-api-token' header.",
		},
		{
			name:       "unset secret fails closed with token supplied",
			secret:     "",
			headers:    map[string]string{"x-api-token": "anything"},
			wantStatus: http.StatusInternalServerError,
			wantError:  "Server configuration error: API token not set",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := setupAuthRouter(tt.secret)

			req := httptest.NewRequest(http.MethodPost, "/api/generate", nil)
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d (body: %s)", w.Code, tt.wantStatus, w.Body.String())
			}
			if tt.wantError != "" {
				var body map[string]string
				if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
					t.Fatalf("decode body: %v", err)
				}
				if body["error"] != tt.wantError {
					t.Errorf("error = %q, want %q", body["error"], tt.wantError)
				}
			}
		})
	}
}

func TestCORSMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(CORSMiddleware(testAllowedOrigins))
	router.POST("/api/generate", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	t.Run("allow-listed origin reflected", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/generate", nil)
		req.Header.Set("Origin", "http://localhost:3000")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		if got := w.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:3000" {
			t.Errorf("Access-Control-Allow-Origin = %q", got)
		}
	})

	t.Run("unknown origin not reflected", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/generate", nil)
		req.Header.Set("Origin", "https://evil.example.com")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		if got := w.Header().Get("Access-Control-Allow-Origin"); got != "" {
			t.Errorf("Access-Control-Allow-Origin = %q, want empty", got)
		}
	})

	t.Run("preflight gets 204", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodOptions, "/api/generate", nil)
		req.Header.Set("Origin", "http://localhost:3000")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		if w.Code != http.StatusNoContent {
			t.Errorf("status = %d, want 204", w.Code)
		}
	})
}
