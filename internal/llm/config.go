package llm

import (
	"fmt"
	"os"
	"time"
)

// Config holds all LLM provider configuration.
type Config struct {
	// Provider selects which LLM provider to use.
	// Values: "anthropic", "openai", "mistral", "gemini", "mock"
	Provider string

	Anthropic AnthropicConfig
	OpenAI    OpenAIConfig
	Mistral   MistralConfig
	Gemini    GeminiConfig
	Retry     RetryConfig

	// Timeout is the maximum duration for a single LLM request
	// (including retries). Default: 30s.
	Timeout time.Duration
}

// AnthropicConfig holds Anthropic-specific configuration.
type AnthropicConfig struct {
	APIKey string
	Model  string // Default: "claude-haiku"
}

// OpenAIConfig holds OpenAI-specific configuration.
type OpenAIConfig struct {
	APIKey  string
	Model   string // Default: "gpt-4o-mini"
	BaseURL string // Optional. Override for OpenAI-compatible APIs.
}

// MistralConfig holds Mistral-specific configuration.
// Mistral exposes an OpenAI-compatible chat completions endpoint.
type MistralConfig struct {
	APIKey  string
	Model   string // Default: "mistral-small"
	BaseURL string // Default: "https://api.mistral.ai/v1"
}

// GeminiConfig holds Gemini-specific configuration.
type GeminiConfig struct {
	APIKey string
	Model  string // Default: "gemini-flash"
}

// RetryConfig configures retry behavior for transient failures.
type RetryConfig struct {
	MaxAttempts int
	InitialWait time.Duration
	MaxWait     time.Duration
	Multiplier  float64
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Provider: "mistral",
		Anthropic: AnthropicConfig{
			Model: "claude-haiku",
		},
		OpenAI: OpenAIConfig{
			Model: "gpt-4o-mini",
		},
		Mistral: MistralConfig{
			Model:   "mistral-small",
			BaseURL: "https://api.mistral.ai/v1",
		},
		Gemini: GeminiConfig{
			Model: "gemini-flash",
		},
		Retry: RetryConfig{
			MaxAttempts: 3,
			InitialWait: 1 * time.Second,
			MaxWait:     10 * time.Second,
			Multiplier:  2.0,
		},
		Timeout: 30 * time.Second,
	}
}

// ConfigFromEnv builds a Config from environment variables, falling back
// to defaults for unset values.
func ConfigFromEnv() Config {
	cfg := DefaultConfig()

	if p := os.Getenv("BOOKQUIZ_LLM_PROVIDER"); p != "" {
		cfg.Provider = p
	}

	if k := os.Getenv("BOOKQUIZ_ANTHROPIC_API_KEY"); k != "" {
		cfg.Anthropic.APIKey = k
	}
	if m := os.Getenv("BOOKQUIZ_ANTHROPIC_MODEL"); m != "" {
		cfg.Anthropic.Model = m
	}

	if k := os.Getenv("BOOKQUIZ_OPENAI_API_KEY"); k != "" {
		cfg.OpenAI.APIKey = k
	}
	if m := os.Getenv("BOOKQUIZ_OPENAI_MODEL"); m != "" {
		cfg.OpenAI.Model = m
	}
	if u := os.Getenv("BOOKQUIZ_OPENAI_BASE_URL"); u != "" {
		cfg.OpenAI.BaseURL = u
	}

	if k := os.Getenv("BOOKQUIZ_MISTRAL_API_KEY"); k != "" {
		cfg.Mistral.APIKey = k
	}
	if m := os.Getenv("BOOKQUIZ_MISTRAL_MODEL"); m != "" {
		cfg.Mistral.Model = m
	}
	if u := os.Getenv("BOOKQUIZ_MISTRAL_BASE_URL"); u != "" {
		cfg.Mistral.BaseURL = u
	}

	if k := os.Getenv("BOOKQUIZ_GEMINI_API_KEY"); k != "" {
		cfg.Gemini.APIKey = k
	}
	if m := os.Getenv("BOOKQUIZ_GEMINI_MODEL"); m != "" {
		cfg.Gemini.Model = m
	}

	return cfg
}

// DiscoverConfig probes standard API key env vars in priority order
// (Mistral → Gemini → OpenAI → Anthropic) and returns a Config for the
// first provider whose key is found. Returns (Config{}, false) if none found.
func DiscoverConfig() (Config, bool) {
	cfg := DefaultConfig()

	if k := os.Getenv("MISTRAL_API_KEY"); k != "" {
		cfg.Provider = "mistral"
		cfg.Mistral.APIKey = k
		return cfg, true
	}
	if k := os.Getenv("GEMINI_API_KEY"); k != "" {
		cfg.Provider = "gemini"
		cfg.Gemini.APIKey = k
		return cfg, true
	}
	if k := os.Getenv("OPENAI_API_KEY"); k != "" {
		cfg.Provider = "openai"
		cfg.OpenAI.APIKey = k
		return cfg, true
	}
	if k := os.Getenv("ANTHROPIC_API_KEY"); k != "" {
		cfg.Provider = "anthropic"
		cfg.Anthropic.APIKey = k
		return cfg, true
	}

	return Config{}, false
}

// Validate checks that the selected provider has its required API key set.
func (c Config) Validate() error {
	switch c.Provider {
	case "anthropic":
		if c.Anthropic.APIKey == "" {
			return fmt.Errorf("BOOKQUIZ_ANTHROPIC_API_KEY is required for the anthropic provider")
		}
	case "openai":
		if c.OpenAI.APIKey == "" {
			return fmt.Errorf("BOOKQUIZ_OPENAI_API_KEY is required for the openai provider")
		}
	case "mistral":
		if c.Mistral.APIKey == "" {
			return fmt.Errorf("BOOKQUIZ_MISTRAL_API_KEY is required for the mistral provider")
		}
	case "gemini":
		if c.Gemini.APIKey == "" {
			return fmt.Errorf("BOOKQUIZ_GEMINI_API_KEY is required for the gemini provider")
		}
	case "mock":
		// No API key needed.
	default:
		return fmt.Errorf("unknown LLM provider: %q", c.Provider)
	}
	return nil
}
