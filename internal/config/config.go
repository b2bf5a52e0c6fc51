// Package config loads scout settings from the environment.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	ai "github.com/spetersoncode/scout"
)

// Config holds the settings shared by the scout commands.
type Config struct {
	// Reasoning backend
	Provider       ai.Provider
	Model          string
	GoogleKey      string
	AnthropicKey   string
	OpenAIKey      string
	VertexProject  string
	VertexLocation string

	// Tool backend
	MCPServerURL string

	// Reasoning loop
	MaxIterations int
	Temperature   float64
	MaxTokens     int
	Timeout       time.Duration

	// Server and logging
	Port      string
	LogLevel  string // debug, info, warn, error
	LogFormat string // text, json
}

// Load reads configuration from environment variables after loading a .env
// file if present (silent fail if not found), then validates it.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Provider:       ai.Provider(strings.ToLower(getEnvOrDefault("SCOUT_PROVIDER", string(ai.ProviderGoogle)))),
		Model:          os.Getenv("SCOUT_MODEL"),
		GoogleKey:      getEnvOrDefault("GEMINI_API_KEY", os.Getenv("GOOGLE_API_KEY")),
		AnthropicKey:   os.Getenv("ANTHROPIC_API_KEY"),
		OpenAIKey:      os.Getenv("OPENAI_API_KEY"),
		VertexProject:  os.Getenv("VERTEX_PROJECT"),
		VertexLocation: os.Getenv("VERTEX_LOCATION"),
		MCPServerURL:   SSEEndpoint(getEnvOrDefault("MCP_SERVER_URL", "http://localhost:3000")),
		MaxIterations:  getEnvIntOrDefault("SCOUT_MAX_ITERATIONS", 10),
		Temperature:    getEnvFloatOrDefault("SCOUT_TEMPERATURE", 0.2),
		MaxTokens:      getEnvIntOrDefault("SCOUT_MAX_TOKENS", 4096),
		Timeout:        getEnvDurationOrDefault("SCOUT_TIMEOUT", 5*time.Minute),
		Port:           getEnvOrDefault("SCOUT_PORT", "8000"),
		LogLevel:       strings.ToLower(getEnvOrDefault("SCOUT_LOG_LEVEL", "info")),
		LogFormat:      strings.ToLower(getEnvOrDefault("SCOUT_LOG_FORMAT", "text")),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that required configuration is present and in range.
func (c *Config) Validate() error {
	switch c.Provider {
	case ai.ProviderAnthropic:
		if c.AnthropicKey == "" {
			return fmt.Errorf("ANTHROPIC_API_KEY is required for anthropic provider")
		}
	case ai.ProviderOpenAI:
		if c.OpenAIKey == "" {
			return fmt.Errorf("OPENAI_API_KEY is required for openai provider")
		}
	case ai.ProviderGoogle:
		if c.GoogleKey == "" {
			return fmt.Errorf("GEMINI_API_KEY or GOOGLE_API_KEY is required for google provider")
		}
	case ai.ProviderVertex:
		if c.VertexProject == "" {
			return fmt.Errorf("VERTEX_PROJECT is required for vertex provider")
		}
	default:
		return fmt.Errorf("unknown provider: %s (must be anthropic, openai, google, or vertex)", c.Provider)
	}

	if c.MaxIterations < 1 {
		return fmt.Errorf("SCOUT_MAX_ITERATIONS must be at least 1, got %d", c.MaxIterations)
	}
	if c.Temperature < 0 || c.Temperature > 2 {
		return fmt.Errorf("SCOUT_TEMPERATURE must be between 0 and 2, got %g", c.Temperature)
	}
	if c.MaxTokens < 1 {
		return fmt.Errorf("SCOUT_MAX_TOKENS must be positive, got %d", c.MaxTokens)
	}
	if c.Timeout < 0 {
		return fmt.Errorf("SCOUT_TIMEOUT must not be negative, got %s", c.Timeout)
	}
	if _, err := ParseLevel(c.LogLevel); err != nil {
		return err
	}
	if c.LogFormat != "text" && c.LogFormat != "json" {
		return fmt.Errorf("SCOUT_LOG_FORMAT must be text or json, got %q", c.LogFormat)
	}
	return nil
}

// APIKey returns the key for the configured provider. Vertex has none.
func (c *Config) APIKey() string {
	switch c.Provider {
	case ai.ProviderAnthropic:
		return c.AnthropicKey
	case ai.ProviderOpenAI:
		return c.OpenAIKey
	case ai.ProviderGoogle:
		return c.GoogleKey
	default:
		return ""
	}
}

// SSEEndpoint returns the SSE endpoint for a tool backend base URL,
// appending "/sse" unless the URL already ends with it.
func SSEEndpoint(base string) string {
	base = strings.TrimRight(strings.TrimSpace(base), "/")
	if strings.HasSuffix(base, "/sse") {
		return base
	}
	return base + "/sse"
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvFloatOrDefault(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
