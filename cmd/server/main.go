// Package main is the entry point for the timer-relay server.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/meetingtimer/timer-relay/internal/config"
	"github.com/meetingtimer/timer-relay/internal/handler"
	"github.com/meetingtimer/timer-relay/internal/openai"
	"github.com/meetingtimer/timer-relay/internal/security"
	"github.com/meetingtimer/timer-relay/internal/ui"
)

func main() {
	// =========================================================================
	// 1. Setup structured logger (JSON format, secrets redacted)
	// =========================================================================
	logger := setupLogger()

	logger.Info("starting timer-relay")

	// =========================================================================
	// 2. Load configuration (Singleton)
	// =========================================================================
	cfg, err := config.GetConfig()
	if err != nil {
		logger.Error("failed to load configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger.Info("configuration loaded",
		slog.String("host", cfg.Server.Host),
		slog.Int("port", cfg.Server.Port),
		slog.String("model", cfg.OpenAI.Model),
		slog.Int("allowed_origins", len(cfg.Auth.AllowedOrigins)),
	)

	// Missing secrets are handled per request (fail closed), but the
	// operator should hear about them at startup.
	if cfg.Auth.SecretToken == "" {
		logger.Warn("shared secret not configured: non-browser clients will be rejected with 500")
	}
	if cfg.OpenAI.APIKey == "" {
		logger.Warn("openai api key not configured: every generate request will fail with 500")
	}

	// =========================================================================
	// 3. Create the completion client
	// =========================================================================
	client := openai.NewClient(cfg.OpenAI.APIKey,
		openai.WithBaseURL(cfg.OpenAI.BaseURL),
		openai.WithModel(cfg.OpenAI.Model),
		openai.WithTemperature(cfg.OpenAI.Temperature),
		openai.WithTimeout(time.Duration(cfg.OpenAI.TimeoutSeconds)*time.Second),
	)

	generateHandler := handler.NewGenerateHandler(cfg, client, handler.WithLogger(logger))

	// =========================================================================
	// 4. Setup Gin router with middleware
	// =========================================================================
	if cfg.Logging.Level != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	router.Use(handler.RecoveryMiddleware(logger))
	router.Use(handler.CORSMiddleware(cfg.Auth.AllowedOrigins))
	router.Use(handler.LoggingMiddleware(logger))

	router.POST("/api/generate", handler.AuthMiddleware(cfg, logger), generateHandler.HandleGenerate)
	router.GET("/health", generateHandler.HandleHealth)

	// =========================================================================
	// 5. Start HTTP server with graceful shutdown
	// =========================================================================
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeoutSeconds) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeoutSeconds) * time.Second,
	}

	go func() {
		logger.Info("server starting", slog.String("address", addr))
		ui.PrintBanner()
		ui.PrintStartupInfo(addr)

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}()

	// =========================================================================
	// 6. Graceful shutdown on SIGTERM/SIGINT
	// =========================================================================
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	logger.Info("shutdown signal received", slog.String("signal", sig.String()))
	ui.PrintShutdown()

	shutdownTimeout := time.Duration(cfg.Server.ShutdownTimeoutSeconds) * time.Second
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server shutdown error", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger.Info("server stopped gracefully")
	ui.PrintGoodbye()
}

// setupLogger creates a structured JSON logger with secret redaction.
func setupLogger() *slog.Logger {
	level := slog.LevelInfo

	if envLevel := os.Getenv("TIMER_RELAY_LOGGING_LEVEL"); envLevel != "" {
		switch envLevel {
		case "debug":
			level = slog.LevelDebug
		case "info":
			level = slog.LevelInfo
		case "warn":
			level = slog.LevelWarn
		case "error":
			level = slog.LevelError
		}
	}

	opts := &slog.HandlerOptions{
		Level: level,
	}

	// JSON output wrapped so the shared secret and upstream key can never
	// reach the logs.
	jsonHandler := slog.NewJSONHandler(os.Stdout, opts)
	logger := slog.New(security.NewRedactedHandler(jsonHandler))

	slog.SetDefault(logger)

	return logger
}
