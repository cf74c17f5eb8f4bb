// Package config loads runtime settings from the environment.
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/jonathan/interview-agents/internal/llm"
)

// Defaults for optional settings.
const (
	DefaultOpenSearchHost = "localhost"
	DefaultOpenSearchPort = 9200
	DefaultListenAddr     = ":8000"
)

// Settings holds every externally configurable value. All fields come from
// environment variables; use godotenv in main to load a .env file first.
type Settings struct {
	// LLM gateway
	Provider     string
	OpenAIAPIKey string
	OpenAIBase   string
	OpenAIModel  string
	GeminiAPIKey string

	// Infrastructure
	DatabaseURL    string
	OpenSearchHost string
	OpenSearchPort int

	// Server
	ListenAddr string
}

// Load reads settings from the environment.
func Load() (*Settings, error) {
	s := &Settings{
		Provider:       os.Getenv("LLM_PROVIDER"),
		OpenAIAPIKey:   os.Getenv("OPENAI_API_KEY"),
		OpenAIBase:     os.Getenv("OPENAI_API_BASE"),
		OpenAIModel:    os.Getenv("OPENAI_MODEL"),
		GeminiAPIKey:   os.Getenv("GEMINI_API_KEY"),
		DatabaseURL:    databaseURL(),
		OpenSearchHost: envOr("OPENSEARCH_HOST", DefaultOpenSearchHost),
		ListenAddr:     envOr("LISTEN_ADDR", DefaultListenAddr),
	}

	port := envOr("OPENSEARCH_PORT", "")
	if port == "" {
		s.OpenSearchPort = DefaultOpenSearchPort
	} else {
		n, err := strconv.Atoi(port)
		if err != nil {
			return nil, fmt.Errorf("invalid OPENSEARCH_PORT %q: %w", port, err)
		}
		s.OpenSearchPort = n
	}

	if s.Provider == "" {
		s.Provider = string(llm.ProviderOpenAI)
	}

	return s, nil
}

// LLMConfig builds the gateway configuration for the selected provider.
func (s *Settings) LLMConfig() (*llm.Config, error) {
	cfg := llm.DefaultConfig()
	cfg.Provider = llm.Provider(s.Provider)

	switch cfg.Provider {
	case llm.ProviderOpenAI:
		cfg.APIKey = s.OpenAIAPIKey
		if s.OpenAIBase != "" {
			cfg.BaseURL = s.OpenAIBase
		}
		if s.OpenAIModel != "" {
			cfg.Model = s.OpenAIModel
		}
	case llm.ProviderGemini:
		cfg.APIKey = s.GeminiAPIKey
		if cfg.APIKey == "" {
			return nil, fmt.Errorf("GEMINI_API_KEY is required for the gemini provider")
		}
	default:
		return nil, fmt.Errorf("unknown LLM provider %q", s.Provider)
	}

	if cfg.APIKey == "" {
		return nil, fmt.Errorf("no API key configured for provider %s", s.Provider)
	}
	return cfg, nil
}

// databaseURL prefers DATABASE_URL and falls back to the legacy
// SQLITE_DATABASE_URL variable some deployments still set.
func databaseURL() string {
	if url := os.Getenv("DATABASE_URL"); url != "" {
		return url
	}
	return os.Getenv("SQLITE_DATABASE_URL")
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
