// Package agents defines the three concrete interview agents. Each is an
// agent.Runtime parameterised with a role prompt and a fixed tool set; the
// tool bodies are deterministic collaborators that produce the structured
// records threaded through the pipeline.
package agents

import (
	"encoding/json"
)

// Agent display names, as reported in stage output.
const (
	HRAgentName          = "HR Agent"
	InterviewerAgentName = "Interviewer Agent"
	SupervisorAgentName  = "Supervisor Agent"
)

// promptFile is the embedded prompt bundle for all three agents.
const promptFile = "agents.json"

// emptyObjectSchema is the argument schema for tools that take no arguments.
var emptyObjectSchema = json.RawMessage(`{"type":"object","properties":{}}`)

// maxPromptChars bounds how much raw document text is inlined into a prompt.
const maxPromptChars = 6000

// mustJSON serialises a record for prompt injection.
func mustJSON(v any) string {
	data, err := json.Marshal(v)
	if err != nil {
		return "{}"
	}
	return string(data)
}

// clip truncates document text for prompt injection, keeping the head.
func clip(text string) string {
	if len(text) <= maxPromptChars {
		return text
	}
	return text[:maxPromptChars] + "\n[truncated]"
}

// orDefault substitutes placeholder text for missing documents.
func orDefault(text, placeholder string) string {
	if text == "" {
		return placeholder
	}
	return text
}
