package llm

import "encoding/json"

// Role identifies the author of a message.
type Role string

// Message roles.
const (
	RoleSystem    Role = "system"
	RoleHuman     Role = "human"
	RoleAssistant Role = "assistant"
	RoleTool      Role = "tool"
)

// Message is a single turn in a conversation. An assistant message either
// carries terminal text content or a tool invocation request.
type Message struct {
	Role     Role            `json:"role"`
	Content  string          `json:"content"`
	ToolName string          `json:"tool_name,omitempty"`
	ToolArgs json.RawMessage `json:"tool_args,omitempty"`
}

// IsToolCall reports whether the message requests a tool invocation.
func (m Message) IsToolCall() bool {
	return m.Role == RoleAssistant && m.ToolName != ""
}

// System builds a system message.
func System(content string) Message {
	return Message{Role: RoleSystem, Content: content}
}

// Human builds a human message.
func Human(content string) Message {
	return Message{Role: RoleHuman, Content: content}
}

// Assistant builds a terminal assistant message.
func Assistant(content string) Message {
	return Message{Role: RoleAssistant, Content: content}
}

// ToolObservation builds a tool-result message.
func ToolObservation(content string) Message {
	return Message{Role: RoleTool, Content: content}
}

// ToolDescriptor describes a callable surfaced to the model through its
// function-calling channel. ArgumentSchema is a JSON Schema object.
type ToolDescriptor struct {
	Name           string          `json:"name"`
	Description    string          `json:"description"`
	ArgumentSchema json.RawMessage `json:"argument_schema"`
}
