package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// OpenAIClient implements Client against an OpenAI-compatible
// chat-completions endpoint using the function-calling channel for tools.
type OpenAIClient struct {
	config *Config
	client *http.Client
}

// NewOpenAIClient creates a client for an OpenAI-compatible endpoint.
func NewOpenAIClient(config *Config) *OpenAIClient {
	return &OpenAIClient{
		config: config.withDefaults(),
		client: &http.Client{Timeout: 120 * time.Second},
	}
}

// chatRequest is the chat-completions request body.
type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	Tools       []chatTool    `json:"tools,omitempty"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatTool struct {
	Type     string       `json:"type"`
	Function chatFunction `json:"function"`
}

type chatFunction struct {
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Parameters  json.RawMessage `json:"parameters,omitempty"`
}

type chatResponse struct {
	Choices []chatChoice `json:"choices"`
	Error   *apiError    `json:"error,omitempty"`
}

type chatChoice struct {
	Message      chatReply `json:"message"`
	FinishReason string    `json:"finish_reason"`
}

type chatReply struct {
	Role      string     `json:"role"`
	Content   string     `json:"content"`
	ToolCalls []toolCall `json:"tool_calls,omitempty"`
}

type toolCall struct {
	ID       string       `json:"id"`
	Type     string       `json:"type"`
	Function functionCall `json:"function"`
}

type functionCall struct {
	Name      string `json:"name"`
	Arguments string `json:"arguments"`
}

type apiError struct {
	Message string `json:"message"`
	Type    string `json:"type"`
	Code    any    `json:"code"`
}

// Complete sends the conversation and returns the assistant reply.
func (c *OpenAIClient) Complete(ctx context.Context, messages []Message, tools []ToolDescriptor) (Message, error) {
	reqBody := chatRequest{
		Model:       c.config.Model,
		Messages:    toWireMessages(messages),
		Temperature: c.config.Temperature,
		Tools:       toWireTools(tools),
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return Message{}, &UpstreamError{Provider: "openai", Message: "failed to encode request", Cause: err}
	}

	endpoint := strings.TrimSuffix(c.config.BaseURL, "/") + "/chat/completions"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(jsonBody))
	if err != nil {
		return Message{}, &UpstreamError{Provider: "openai", Message: "failed to create request", Cause: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.config.APIKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return Message{}, &UpstreamError{Provider: "openai", Message: "request failed", Cause: err}
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return Message{}, &UpstreamError{Provider: "openai", Message: "failed to read response", Cause: err}
	}

	if resp.StatusCode != http.StatusOK {
		return Message{}, &UpstreamError{
			Provider: "openai",
			Message:  fmt.Sprintf("HTTP status %d: %s", resp.StatusCode, truncate(string(body), 200)),
		}
	}

	var parsed chatResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return Message{}, &UpstreamError{Provider: "openai", Message: "failed to decode response", Cause: err}
	}
	if parsed.Error != nil {
		return Message{}, &UpstreamError{Provider: "openai", Message: parsed.Error.Message}
	}
	if len(parsed.Choices) == 0 {
		return Message{}, &ModelRefusalError{Model: c.config.Model}
	}

	reply := parsed.Choices[0].Message
	if len(reply.ToolCalls) > 0 {
		call := reply.ToolCalls[0]
		args := call.Function.Arguments
		if args == "" {
			args = "{}"
		}
		return Message{
			Role:     RoleAssistant,
			Content:  reply.Content,
			ToolName: call.Function.Name,
			ToolArgs: json.RawMessage(args),
		}, nil
	}
	if strings.TrimSpace(reply.Content) == "" {
		return Message{}, &ModelRefusalError{Model: c.config.Model}
	}
	return Assistant(reply.Content), nil
}

// Model returns the configured model identifier.
func (c *OpenAIClient) Model() string {
	return c.config.Model
}

// Close releases resources held by the client.
func (c *OpenAIClient) Close() error {
	c.client.CloseIdleConnections()
	return nil
}

// toWireMessages maps gateway messages onto chat-completions roles. Tool
// observations travel as user turns: the runtime synthesises the scratch pad
// upstream, so no tool_call_id plumbing is needed here.
func toWireMessages(messages []Message) []chatMessage {
	out := make([]chatMessage, 0, len(messages))
	for _, m := range messages {
		role := "user"
		switch m.Role {
		case RoleSystem:
			role = "system"
		case RoleAssistant:
			role = "assistant"
		case RoleHuman, RoleTool:
			role = "user"
		}
		out = append(out, chatMessage{Role: role, Content: m.Content})
	}
	return out
}

func toWireTools(tools []ToolDescriptor) []chatTool {
	if len(tools) == 0 {
		return nil
	}
	out := make([]chatTool, 0, len(tools))
	for _, t := range tools {
		params := t.ArgumentSchema
		if len(params) == 0 {
			params = json.RawMessage(`{"type":"object","properties":{}}`)
		}
		out = append(out, chatTool{
			Type: "function",
			Function: chatFunction{
				Name:        t.Name,
				Description: t.Description,
				Parameters:  params,
			},
		})
	}
	return out
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
