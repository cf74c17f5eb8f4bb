package agents

import (
	"context"

	"github.com/jonathan/interview-agents/internal/llm"
)

// terminalClient answers every completion with the same terminal text, so
// stage runs finish without tool round-trips.
type terminalClient struct {
	reply string
	calls int
}

func (c *terminalClient) Complete(context.Context, []llm.Message, []llm.ToolDescriptor) (llm.Message, error) {
	c.calls++
	return llm.Assistant(c.reply), nil
}

func (c *terminalClient) Model() string { return "terminal" }
func (c *terminalClient) Close() error  { return nil }
