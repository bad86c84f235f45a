package llm

import "fmt"

const defaultMistralBaseURL = "https://api.mistral.ai/v1"

// mistralModels maps friendly names to Mistral model IDs.
var mistralModels = map[string]string{
	"mistral-small": "mistral-small-latest",
	"mistral-large": "mistral-large-latest",
}

// MistralProvider wraps OpenAIProvider with Mistral-specific defaults.
// Mistral exposes an OpenAI-compatible API, so the underlying SDK is reused.
// Note: Mistral does not support strict JSON-schema response format, but
// schema validation still runs on the reply after the fact.
type MistralProvider struct {
	*OpenAIProvider
}

// NewMistralProvider creates a provider targeting the Mistral API.
func NewMistralProvider(cfg MistralConfig) (*MistralProvider, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("mistral API key is required")
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultMistralBaseURL
	}

	oaiCfg := OpenAIConfig{
		APIKey:  cfg.APIKey,
		Model:   resolveModel(cfg.Model, mistralModels),
		BaseURL: baseURL,
	}

	inner, err := newOpenAIProviderRaw(oaiCfg)
	if err != nil {
		return nil, err
	}

	return &MistralProvider{OpenAIProvider: inner}, nil
}
