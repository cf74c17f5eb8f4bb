package llm

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// GeminiClient implements Client for Google Gemini.
type GeminiClient struct {
	client *genai.Client
	config *Config
}

// NewGeminiClient creates a new Gemini client.
func NewGeminiClient(ctx context.Context, config *Config) (*GeminiClient, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(config.APIKey))
	if err != nil {
		return nil, &UpstreamError{Provider: "gemini", Message: "failed to create client", Cause: err}
	}
	return &GeminiClient{client: client, config: config.withDefaults()}, nil
}

// Complete sends the conversation and returns the assistant reply.
func (c *GeminiClient) Complete(ctx context.Context, messages []Message, tools []ToolDescriptor) (Message, error) {
	model := c.client.GenerativeModel(c.config.Model)
	model.SetTemperature(float32(c.config.Temperature))

	if decls := toFunctionDeclarations(tools); len(decls) > 0 {
		model.Tools = []*genai.Tool{{FunctionDeclarations: decls}}
	}

	history, outgoing := splitConversation(messages, model)
	if len(outgoing) == 0 {
		outgoing = []genai.Part{genai.Text("")}
	}

	cs := model.StartChat()
	cs.History = history

	resp, err := cs.SendMessage(ctx, outgoing...)
	if err != nil {
		return Message{}, &UpstreamError{Provider: "gemini", Message: "generation failed", Cause: err}
	}
	return c.fromResponse(resp)
}

// Model returns the configured model identifier.
func (c *GeminiClient) Model() string {
	return c.config.Model
}

// Close releases resources held by the client.
func (c *GeminiClient) Close() error {
	if c.client != nil {
		return c.client.Close()
	}
	return nil
}

// splitConversation maps the gateway message list onto Gemini chat state:
// the system message becomes the system instruction, the trailing run of
// human/tool turns becomes the outgoing message, everything between is
// history.
func splitConversation(messages []Message, model *genai.GenerativeModel) ([]*genai.Content, []genai.Part) {
	rest := messages
	if len(rest) > 0 && rest[0].Role == RoleSystem {
		model.SystemInstruction = &genai.Content{Parts: []genai.Part{genai.Text(rest[0].Content)}}
		rest = rest[1:]
	}

	// Find the start of the trailing non-assistant run.
	tail := len(rest)
	for tail > 0 && rest[tail-1].Role != RoleAssistant {
		tail--
	}

	history := make([]*genai.Content, 0, tail)
	for _, m := range rest[:tail] {
		role := "user"
		if m.Role == RoleAssistant {
			role = "model"
		}
		history = append(history, &genai.Content{
			Role:  role,
			Parts: []genai.Part{genai.Text(m.Content)},
		})
	}

	outgoing := make([]genai.Part, 0, len(rest)-tail)
	for _, m := range rest[tail:] {
		outgoing = append(outgoing, genai.Text(m.Content))
	}
	return history, outgoing
}

func (c *GeminiClient) fromResponse(resp *genai.GenerateContentResponse) (Message, error) {
	if len(resp.Candidates) == 0 {
		return Message{}, &ModelRefusalError{Model: c.config.Model}
	}
	candidate := resp.Candidates[0]
	if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		return Message{}, &ModelRefusalError{Model: c.config.Model}
	}

	var texts []string
	for _, part := range candidate.Content.Parts {
		switch p := part.(type) {
		case genai.FunctionCall:
			args, err := json.Marshal(p.Args)
			if err != nil {
				args = []byte("{}")
			}
			return Message{Role: RoleAssistant, ToolName: p.Name, ToolArgs: args}, nil
		case genai.Text:
			texts = append(texts, string(p))
		}
	}

	text := strings.TrimSpace(strings.Join(texts, ""))
	if text == "" {
		return Message{}, &ModelRefusalError{Model: c.config.Model}
	}
	return Assistant(text), nil
}

// toFunctionDeclarations converts tool descriptors to Gemini function
// declarations, translating each JSON Schema into a genai.Schema.
func toFunctionDeclarations(tools []ToolDescriptor) []*genai.FunctionDeclaration {
	decls := make([]*genai.FunctionDeclaration, 0, len(tools))
	for _, t := range tools {
		decl := &genai.FunctionDeclaration{
			Name:        t.Name,
			Description: t.Description,
		}
		if schema := schemaFromJSON(t.ArgumentSchema); schema != nil {
			decl.Parameters = schema
		}
		decls = append(decls, decl)
	}
	return decls
}

// jsonSchema is the subset of JSON Schema the tool descriptors use.
type jsonSchema struct {
	Type        string                 `json:"type"`
	Description string                 `json:"description"`
	Properties  map[string]*jsonSchema `json:"properties"`
	Required    []string               `json:"required"`
	Items       *jsonSchema            `json:"items"`
	Enum        []string               `json:"enum"`
}

func schemaFromJSON(raw json.RawMessage) *genai.Schema {
	if len(raw) == 0 {
		return nil
	}
	var js jsonSchema
	if err := json.Unmarshal(raw, &js); err != nil {
		return nil
	}
	return convertSchema(&js)
}

func convertSchema(js *jsonSchema) *genai.Schema {
	if js == nil {
		return nil
	}
	out := &genai.Schema{
		Description: js.Description,
		Required:    js.Required,
		Enum:        js.Enum,
	}
	switch js.Type {
	case "string":
		out.Type = genai.TypeString
	case "integer":
		out.Type = genai.TypeInteger
	case "number":
		out.Type = genai.TypeNumber
	case "boolean":
		out.Type = genai.TypeBoolean
	case "array":
		out.Type = genai.TypeArray
		out.Items = convertSchema(js.Items)
	default:
		out.Type = genai.TypeObject
	}
	if len(js.Properties) > 0 {
		out.Properties = make(map[string]*genai.Schema, len(js.Properties))
		for name, prop := range js.Properties {
			out.Properties[name] = convertSchema(prop)
		}
	}
	return out
}
