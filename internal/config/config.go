// Package config provides configuration management using the Singleton pattern.
// It loads configuration from environment variables and config.yaml using Viper.
package config

import (
	"fmt"
	"net/url"
	"strings"
	"sync"
)

// Configuration holds all application configuration values.
type Configuration struct {
	// Server configuration
	Server ServerConfig `json:"server" mapstructure:"server"`

	// Auth configuration (origin allow-list + shared secret)
	Auth AuthConfig `json:"auth" mapstructure:"auth"`

	// OpenAI upstream configuration
	OpenAI OpenAIConfig `json:"openai" mapstructure:"openai"`

	// Logging configuration
	Logging LoggingConfig `json:"logging" mapstructure:"logging"`
}

// ServerConfig holds server-specific configuration.
type ServerConfig struct {
	// Host is the server bind address.
	Host string `json:"host" mapstructure:"host"`

	// Port is the server port number.
	Port int `json:"port" mapstructure:"port"`

	// ReadTimeout is the maximum duration for reading the entire request.
	ReadTimeoutSeconds int `json:"read_timeout_seconds" mapstructure:"read_timeout_seconds"`

	// WriteTimeout is the maximum duration before timing out writes of the response.
	WriteTimeoutSeconds int `json:"write_timeout_seconds" mapstructure:"write_timeout_seconds"`

	// ShutdownTimeout is the maximum duration to wait for active connections to finish.
	ShutdownTimeoutSeconds int `json:"shutdown_timeout_seconds" mapstructure:"shutdown_timeout_seconds"`
}

// AuthConfig holds the request authentication settings.
//
// This is a coarse shared-secret scheme, not per-user auth: browser clients
// are trusted by origin (CORS already constrains them), everything else must
// present the secret in the x-api-token header.
type AuthConfig struct {
	// AllowedOrigins are web origins trusted without a token.
	// Matched exactly against the Origin header, or as a prefix of Referer.
	AllowedOrigins []string `json:"allowed_origins" mapstructure:"allowed_origins"`

	// SecretToken is the shared secret required from non-browser clients.
	// When empty, non-allow-listed requests fail closed with HTTP 500.
	SecretToken string `json:"-" mapstructure:"secret_token"`
}

// OpenAIConfig holds the upstream chat-completion settings.
type OpenAIConfig struct {
	// APIKey authenticates against the upstream provider.
	// When empty, every generate request fails with HTTP 500.
	APIKey string `json:"-" mapstructure:"api_key"`

	// Model is the upstream model identifier.
	Model string `json:"model" mapstructure:"model"`

	// BaseURL is the upstream API base endpoint.
	BaseURL string `json:"base_url" mapstructure:"base_url"`

	// TimeoutSeconds bounds a single upstream call.
	TimeoutSeconds int `json:"timeout_seconds" mapstructure:"timeout_seconds"`

	// Temperature is the sampling temperature sent with every request.
	Temperature float64 `json:"temperature" mapstructure:"temperature"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	// Level is the minimum log level (debug, info, warn, error).
	Level string `json:"level" mapstructure:"level"`

	// Format is the log format (json, text).
	Format string `json:"format" mapstructure:"format"`
}

// configInstance holds the singleton configuration instance.
var (
	configInstance *Configuration
	configOnce     sync.Once
	configErr      error
)

// GetConfig returns the singleton Configuration instance.
// It initializes the configuration on first call using the default config path.
// Returns an error if configuration loading fails.
func GetConfig() (*Configuration, error) {
	configOnce.Do(func() {
		configInstance, configErr = loadConfig("")
	})
	return configInstance, configErr
}

// GetConfigWithPath returns the singleton Configuration instance with a custom config path.
// This should be used when you need to specify a non-default configuration file path.
// Returns an error if configuration loading fails.
func GetConfigWithPath(configPath string) (*Configuration, error) {
	configOnce.Do(func() {
		configInstance, configErr = loadConfig(configPath)
	})
	return configInstance, configErr
}

// MustGetConfig returns the singleton Configuration instance.
// It panics if the configuration cannot be loaded.
func MustGetConfig() *Configuration {
	cfg, err := GetConfig()
	if err != nil {
		panic(fmt.Sprintf("failed to load configuration: %v", err))
	}
	return cfg
}

// ResetConfig resets the singleton instance.
// This is primarily used for testing purposes.
func ResetConfig() {
	configOnce = sync.Once{}
	configInstance = nil
	configErr = nil
}

// Validate validates the configuration and returns an error if required fields are missing.
// The shared secret and the upstream API key are intentionally not required:
// their absence is handled per request (fail closed), so the server can boot
// in any environment and report the misconfiguration at call time.
func (c *Configuration) Validate() error {
	var validationErrors []string

	// Validate server configuration
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		validationErrors = append(validationErrors, "server.port must be between 1 and 65535")
	}

	// Validate auth configuration
	if len(c.Auth.AllowedOrigins) == 0 {
		validationErrors = append(validationErrors, "auth.allowed_origins cannot be empty, at least one trusted origin is required")
	}
	for i, origin := range c.Auth.AllowedOrigins {
		if !isValidOrigin(origin) {
			validationErrors = append(validationErrors, fmt.Sprintf(
				"auth.allowed_origins[%d] '%s' is invalid, must be scheme://host[:port] without a path",
				i, origin,
			))
		}
	}

	// Validate upstream configuration
	if c.OpenAI.Model == "" {
		validationErrors = append(validationErrors, "openai.model is required")
	}
	if c.OpenAI.BaseURL == "" {
		validationErrors = append(validationErrors, "openai.base_url is required")
	}
	if c.OpenAI.TimeoutSeconds <= 0 {
		validationErrors = append(validationErrors, "openai.timeout_seconds must be positive")
	}
	if c.OpenAI.Temperature < 0 || c.OpenAI.Temperature > 2 {
		validationErrors = append(validationErrors, "openai.temperature must be between 0 and 2")
	}

	// Validate logging configuration
	if c.Logging.Level != "" && !isValidLogLevel(c.Logging.Level) {
		validationErrors = append(validationErrors, fmt.Sprintf(
			"logging.level '%s' is invalid, must be one of: debug, info, warn, error",
			c.Logging.Level,
		))
	}

	if len(validationErrors) > 0 {
		return &ValidationError{Errors: validationErrors}
	}

	return nil
}

// isValidOrigin checks that an allow-list entry looks like a web origin.
func isValidOrigin(origin string) bool {
	u, err := url.Parse(origin)
	if err != nil {
		return false
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return false
	}
	if u.Host == "" || u.Path != "" {
		return false
	}
	return !strings.HasSuffix(origin, "/")
}

// isValidLogLevel checks if the log level is valid.
func isValidLogLevel(level string) bool {
	switch level {
	case "debug", "info", "warn", "error":
		return true
	default:
		return false
	}
}

// IsOriginAllowed reports whether the given origin is in the allow-list
// (exact match).
func (c *Configuration) IsOriginAllowed(origin string) bool {
	for _, allowed := range c.Auth.AllowedOrigins {
		if origin == allowed {
			return true
		}
	}
	return false
}
