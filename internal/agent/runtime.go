// Package agent implements the think-act-observe loop that drives each
// interview agent: a system prompt, an append-only conversation memory, and
// a registry of named tools, combined into bounded model interactions.
package agent

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/jonathan/interview-agents/internal/llm"
	"github.com/jonathan/interview-agents/internal/logger"
)

// DefaultMaxIterations bounds the tool loop for a single run.
const DefaultMaxIterations = 8

// answerLogLimit caps logged answer text.
const answerLogLimit = 200

// Option configures a Runtime.
type Option func(*Runtime)

// WithMaxIterations overrides the tool-loop iteration budget.
func WithMaxIterations(n int) Option {
	return func(r *Runtime) {
		if n > 0 {
			r.maxIterations = n
		}
	}
}

// WithLogger attaches a structured logger; loop activity is logged at debug
// level under the agent's name.
func WithLogger(log *zap.Logger) Option {
	return func(r *Runtime) {
		r.log = logger.WithAgent(log, r.name)
	}
}

// Runtime is a single agent: one system prompt, one tool registry, one
// conversation memory, all driven through the LLM gateway. A Runtime is
// owned by one interview run and is not safe for concurrent Run calls.
type Runtime struct {
	name          string
	client        llm.Client
	systemPrompt  string
	registry      *Registry
	memory        *Memory
	maxIterations int
	log           *zap.Logger
}

// New constructs an agent runtime.
func New(name string, client llm.Client, systemPrompt string, registry *Registry, opts ...Option) *Runtime {
	if registry == nil {
		registry = NewRegistry()
	}
	r := &Runtime{
		name:          name,
		client:        client,
		systemPrompt:  systemPrompt,
		registry:      registry,
		memory:        NewMemory(),
		maxIterations: DefaultMaxIterations,
		log:           zap.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Name returns the agent name.
func (r *Runtime) Name() string {
	return r.name
}

// Memory returns the agent's conversation memory.
func (r *Runtime) Memory() *Memory {
	return r.memory
}

// Registry returns the agent's tool registry.
func (r *Runtime) Registry() *Registry {
	return r.registry
}

// step records one completed tool invocation for the scratch pad.
type step struct {
	call        llm.Message
	observation string
}

// Run drives the loop for one user input until the model produces a terminal
// answer. Long-term memory gains exactly two entries per terminating run:
// the human input and the final assistant text. Tool steps live only in the
// per-run scratch pad.
func (r *Runtime) Run(ctx context.Context, input string) (string, error) {
	var steps []step
	retried := make(map[string]bool)

	for iter := 0; iter < r.maxIterations; iter++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}

		reply, err := r.client.Complete(ctx, r.assemble(input, steps), r.registry.Descriptors())
		if err != nil {
			return "", err
		}

		if !reply.IsToolCall() {
			r.memory.Append(llm.Human(input))
			r.memory.Append(llm.Assistant(reply.Content))
			r.log.Debug("agent answered",
				zap.Int("tool_steps", len(steps)),
				zap.String("answer", logger.TruncateForLog(reply.Content, answerLogLimit)))
			return reply.Content, nil
		}

		if err := ctx.Err(); err != nil {
			return "", err
		}

		r.log.Debug("tool requested", zap.String("tool", reply.ToolName))
		observation, err := r.observe(ctx, reply, retried)
		if err != nil {
			return "", err
		}
		steps = append(steps, step{call: reply, observation: observation})
	}

	return "", &ToolLoopExceededError{Agent: r.name, Limit: r.maxIterations}
}

// observe invokes the requested tool and renders the observation fed back to
// the model. Unknown tools and first-time tool failures become tool-error
// observations so the model can recover; a repeated failure of the same tool
// aborts the run.
func (r *Runtime) observe(ctx context.Context, call llm.Message, retried map[string]bool) (string, error) {
	result, err := r.registry.Invoke(ctx, call.ToolName, call.ToolArgs)
	if err == nil {
		return renderResult(result), nil
	}

	if ctxErr := ctx.Err(); ctxErr != nil {
		return "", ctxErr
	}

	var unknown *UnknownToolError
	if errors.As(err, &unknown) {
		return fmt.Sprintf("tool error: %v", err), nil
	}

	var execErr *ToolExecutionError
	if errors.As(err, &execErr) {
		if retried[call.ToolName] {
			return "", err
		}
		retried[call.ToolName] = true
		return fmt.Sprintf("tool error: %v", err), nil
	}

	return "", err
}

// assemble builds the message list for one model turn: system prompt, the
// memory snapshot, the new human input, then the scratch pad of in-progress
// tool steps.
func (r *Runtime) assemble(input string, steps []step) []llm.Message {
	msgs := make([]llm.Message, 0, len(steps)+3)
	msgs = append(msgs, llm.System(r.systemPrompt))
	msgs = append(msgs, r.memory.Snapshot()...)
	msgs = append(msgs, llm.Human(input))
	if len(steps) > 0 {
		msgs = append(msgs, llm.ToolObservation(renderScratchpad(steps)))
	}
	return msgs
}

// renderScratchpad synthesises the tool steps taken so far into a single
// observation message.
func renderScratchpad(steps []step) string {
	var sb strings.Builder
	sb.WriteString("Tool calls so far:\n")
	for i, s := range steps {
		fmt.Fprintf(&sb, "%d. %s(%s) -> %s\n", i+1, s.call.ToolName, string(s.call.ToolArgs), s.observation)
	}
	sb.WriteString("Use these results to continue. Reply with the final answer when done.")
	return sb.String()
}

// renderResult serialises a tool result for the model.
func renderResult(result any) string {
	if result == nil {
		return "null"
	}
	if s, ok := result.(string); ok {
		return s
	}
	data, err := json.Marshal(result)
	if err != nil {
		return fmt.Sprintf("%v", result)
	}
	return string(data)
}
