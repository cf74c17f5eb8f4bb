package llm

import "fmt"

// UpstreamError represents a transport or authorization failure talking to
// the model provider.
type UpstreamError struct {
	Provider string
	Message  string
	Cause    error
}

func (e *UpstreamError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s upstream error: %s: %v", e.Provider, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s upstream error: %s", e.Provider, e.Message)
}

func (e *UpstreamError) Unwrap() error {
	return e.Cause
}

// ModelRefusalError indicates the model returned no usable content.
type ModelRefusalError struct {
	Model string
}

func (e *ModelRefusalError) Error() string {
	return fmt.Sprintf("model %s returned no content", e.Model)
}
