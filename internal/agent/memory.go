package agent

import (
	"sync"

	"github.com/jonathan/interview-agents/internal/llm"
)

// Memory is the append-only conversation log bound to a single agent
// instance. It records only human inputs and terminal assistant answers;
// in-progress tool steps never reach it.
type Memory struct {
	mu   sync.Mutex
	msgs []llm.Message
}

// NewMemory creates an empty conversation memory.
func NewMemory() *Memory {
	return &Memory{}
}

// Append adds a message to the log.
func (m *Memory) Append(msg llm.Message) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.msgs = append(m.msgs, msg)
}

// Snapshot returns a copy of the current log.
func (m *Memory) Snapshot() []llm.Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]llm.Message, len(m.msgs))
	copy(out, m.msgs)
	return out
}

// Clear resets the log.
func (m *Memory) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.msgs = nil
}

// Len returns the number of recorded messages.
func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.msgs)
}
