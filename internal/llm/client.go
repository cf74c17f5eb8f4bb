package llm

import (
	"context"
	"fmt"
)

// Client is an abstraction over chat-completion providers.
// Implementations must be safe for concurrent use by multiple interview runs.
type Client interface {
	// Complete sends an ordered message sequence plus the available tool
	// descriptors and returns the assistant reply: either terminal text or a
	// tool invocation request.
	Complete(ctx context.Context, messages []Message, tools []ToolDescriptor) (Message, error)
	// Model returns the configured model identifier.
	Model() string
	// Close releases any resources held by the client.
	Close() error
}

// NewClient creates an LLM client based on configuration.
func NewClient(ctx context.Context, config *Config) (Client, error) {
	if config == nil {
		config = DefaultConfig()
	}
	if config.APIKey == "" {
		return nil, fmt.Errorf("API key is required")
	}

	switch config.Provider {
	case ProviderGemini:
		return NewGeminiClient(ctx, config)
	default:
		return NewOpenAIClient(config), nil
	}
}
