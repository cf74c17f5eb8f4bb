package agent

import "fmt"

// UnknownToolError indicates the model requested a tool that is not
// registered for this agent.
type UnknownToolError struct {
	Name string
}

func (e *UnknownToolError) Error() string {
	return fmt.Sprintf("unknown tool: %s", e.Name)
}

// ToolExecutionError wraps a failure raised by a tool callable.
type ToolExecutionError struct {
	Tool  string
	Cause error
}

func (e *ToolExecutionError) Error() string {
	return fmt.Sprintf("tool %s failed: %v", e.Tool, e.Cause)
}

func (e *ToolExecutionError) Unwrap() error {
	return e.Cause
}

// ToolLoopExceededError indicates the think-act loop ran past its
// iteration budget without producing a terminal answer.
type ToolLoopExceededError struct {
	Agent string
	Limit int
}

func (e *ToolLoopExceededError) Error() string {
	return fmt.Sprintf("agent %s exceeded %d tool-loop iterations", e.Agent, e.Limit)
}
