package agent

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/xeipuuv/gojsonschema"

	"github.com/jonathan/interview-agents/internal/llm"
)

// ToolFunc is a tool callable. Args carry the model-supplied arguments as
// raw JSON; the returned value is marshalled into the observation fed back
// to the model.
type ToolFunc func(ctx context.Context, args json.RawMessage) (any, error)

// Tool is a named callable exposed to an agent. Description and
// ArgumentSchema are surfaced to the model via its function-calling channel.
type Tool struct {
	Name           string
	Description    string
	ArgumentSchema json.RawMessage
	Run            ToolFunc
}

// Registry maps tool names to callables for one agent. Names are unique
// within a registry; descriptor order follows registration order.
type Registry struct {
	order []string
	tools map[string]Tool
}

// NewRegistry creates an empty tool registry.
func NewRegistry() *Registry {
	return &Registry{tools: make(map[string]Tool)}
}

// Register adds a tool. Registering a duplicate name is an error.
func (r *Registry) Register(t Tool) error {
	if t.Name == "" {
		return fmt.Errorf("tool name is required")
	}
	if t.Run == nil {
		return fmt.Errorf("tool %s has no callable", t.Name)
	}
	if _, exists := r.tools[t.Name]; exists {
		return fmt.Errorf("tool %s already registered", t.Name)
	}
	r.tools[t.Name] = t
	r.order = append(r.order, t.Name)
	return nil
}

// MustRegister registers a tool and panics on error. Tool sets are fixed at
// agent construction, so a failure here is a programming error.
func (r *Registry) MustRegister(t Tool) {
	if err := r.Register(t); err != nil {
		panic(err)
	}
}

// Descriptors lists the registered tools in registration order.
func (r *Registry) Descriptors() []llm.ToolDescriptor {
	out := make([]llm.ToolDescriptor, 0, len(r.order))
	for _, name := range r.order {
		t := r.tools[name]
		out = append(out, llm.ToolDescriptor{
			Name:           t.Name,
			Description:    t.Description,
			ArgumentSchema: t.ArgumentSchema,
		})
	}
	return out
}

// Invoke runs the named tool. It fails with UnknownToolError if the name is
// absent and ToolExecutionError wrapping any failure from the callable,
// including arguments that do not satisfy the tool's schema.
func (r *Registry) Invoke(ctx context.Context, name string, args json.RawMessage) (any, error) {
	t, ok := r.tools[name]
	if !ok {
		return nil, &UnknownToolError{Name: name}
	}
	if len(args) == 0 {
		args = json.RawMessage("{}")
	}
	if err := validateArgs(t.ArgumentSchema, args); err != nil {
		return nil, &ToolExecutionError{Tool: name, Cause: err}
	}
	result, err := t.Run(ctx, args)
	if err != nil {
		return nil, &ToolExecutionError{Tool: name, Cause: err}
	}
	return result, nil
}

// validateArgs checks the model-supplied arguments against the tool's JSON
// Schema before the callable runs.
func validateArgs(schema, args json.RawMessage) error {
	if len(schema) == 0 {
		return nil
	}
	result, err := gojsonschema.Validate(
		gojsonschema.NewBytesLoader(schema),
		gojsonschema.NewBytesLoader(args),
	)
	if err != nil {
		return fmt.Errorf("argument validation: %w", err)
	}
	if result.Valid() {
		return nil
	}
	desc := "invalid arguments"
	if errs := result.Errors(); len(errs) > 0 {
		desc = errs[0].String()
	}
	return fmt.Errorf("invalid arguments: %s", desc)
}
