// Package llm provides the single bounded access point to chat-completion
// models. All model traffic goes through a Client so the agent runtime stays
// deterministic modulo the gateway.
package llm

// Provider represents an LLM provider.
type Provider string

// Supported providers.
const (
	// ProviderOpenAI talks to an OpenAI-compatible chat-completions endpoint.
	ProviderOpenAI Provider = "openai"
	// ProviderGemini talks to Google Gemini via the genai SDK.
	ProviderGemini Provider = "gemini"
)

// DefaultOpenAIBaseURL is used when no endpoint base is configured.
const DefaultOpenAIBaseURL = "https://api.openai.com/v1"

// DefaultModel is used when no model identifier is configured.
const DefaultModel = "gpt-4"

// DefaultTemperature is the sampling temperature used unless overridden.
const DefaultTemperature = 0.7

// Config holds the gateway configuration.
type Config struct {
	Provider    Provider
	Model       string
	Temperature float64
	BaseURL     string
	APIKey      string
}

// DefaultConfig returns the default gateway configuration (OpenAI, gpt-4).
func DefaultConfig() *Config {
	return &Config{
		Provider:    ProviderOpenAI,
		Model:       DefaultModel,
		Temperature: DefaultTemperature,
		BaseURL:     DefaultOpenAIBaseURL,
	}
}

// withDefaults fills zero-valued fields so providers never see an
// unconfigured model or endpoint.
func (c *Config) withDefaults() *Config {
	out := *c
	if out.Model == "" {
		out.Model = DefaultModel
	}
	if out.Temperature == 0 {
		out.Temperature = DefaultTemperature
	}
	if out.BaseURL == "" {
		out.BaseURL = DefaultOpenAIBaseURL
	}
	return &out
}
