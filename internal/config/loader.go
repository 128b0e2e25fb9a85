// Package config provides configuration management using the Singleton pattern.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

const (
	defaultConfigName = "config"
	defaultConfigType = "yaml"
	envPrefix         = "TIMER_RELAY"
)

// Primary secret environment variables. These are the names the timer client
// deployments already use, so they take priority over file configuration and
// over the TIMER_RELAY_-prefixed equivalents.
var (
	secretTokenEnvVars = []string{"API_SECRET_TOKEN", "VITE_API_SECRET_TOKEN"}
	openAIKeyEnvVars   = []string{"OPENAI_API_KEY", "VITE_OPENAI_API_KEY"}
)

// loadConfig loads the configuration from environment variables and files.
// Priority order (highest to lowest):
// 1. API_SECRET_TOKEN / OPENAI_API_KEY env vars - PRIMARY SOURCE for secrets
// 2. Environment variables (prefixed with TIMER_RELAY_)
// 3. config.yaml - FALLBACK for local development ONLY
// 4. Default values
func loadConfig(configPath string) (*Configuration, error) {
	v := viper.New()

	// Set defaults
	setDefaults(v)

	// Configure Viper
	v.SetConfigName(defaultConfigName)
	v.SetConfigType(defaultConfigType)

	// Add config search paths
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
		v.AddConfigPath("/etc/timer-relay")
		v.AddConfigPath("$HOME/.timer-relay")
	}

	// Enable environment variable override
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	// Read configuration file (fallback only)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, &ConfigError{
				Op:  "read",
				Err: fmt.Errorf("failed to read config file: %w", err),
			}
		}
		// Config file not found is OK - we prefer env vars anyway
	} else {
		fmt.Fprintf(os.Stderr, "[SECURITY] Warning: Using config.yaml - prefer env vars for secrets in production\n")
	}

	// Unmarshal configuration
	var cfg Configuration
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, &ConfigError{
			Op:  "unmarshal",
			Err: fmt.Errorf("failed to unmarshal config: %w", err),
		}
	}

	// PRIORITY: secrets from their dedicated env vars override everything
	loadSecretsFromEnv(&cfg)

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// setDefaults sets default configuration values.
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 3001)
	v.SetDefault("server.read_timeout_seconds", 30)
	v.SetDefault("server.write_timeout_seconds", 90)
	v.SetDefault("server.shutdown_timeout_seconds", 15)

	// Auth defaults: the two production web origins
	v.SetDefault("auth.allowed_origins", []string{
		"http://localhost:3000",
		"https://app.meetingtimer.pro",
	})
	v.SetDefault("auth.secret_token", "")

	// Upstream defaults
	v.SetDefault("openai.api_key", "")
	v.SetDefault("openai.model", "gpt-4o-mini")
	v.SetDefault("openai.base_url", "https://api.openai.com/v1")
	v.SetDefault("openai.timeout_seconds", 60)
	v.SetDefault("openai.temperature", 0.7)

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
}

// loadSecretsFromEnv overrides the shared secret and upstream API key from
// their dedicated environment variables when present. The first non-empty
// name in each list wins.
func loadSecretsFromEnv(cfg *Configuration) {
	if token := firstEnv(secretTokenEnvVars); token != "" {
		cfg.Auth.SecretToken = token
	}
	if key := firstEnv(openAIKeyEnvVars); key != "" {
		cfg.OpenAI.APIKey = key
	}
}

// firstEnv returns the value of the first set, non-empty environment variable.
func firstEnv(names []string) string {
	for _, name := range names {
		if value := strings.TrimSpace(os.Getenv(name)); value != "" {
			return value
		}
	}
	return ""
}
