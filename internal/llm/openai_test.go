package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(baseURL string) *OpenAIClient {
	return NewOpenAIClient(&Config{
		Provider: ProviderOpenAI,
		APIKey:   "test-key",
		BaseURL:  baseURL,
	})
}

func TestOpenAICompleteTextReply(t *testing.T) {
	var captured chatRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))

		_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"hello there"}}]}`))
	}))
	defer srv.Close()

	client := newTestClient(srv.URL)
	reply, err := client.Complete(context.Background(),
		[]Message{System("sys"), Human("hi")}, nil)

	require.NoError(t, err)
	assert.Equal(t, RoleAssistant, reply.Role)
	assert.Equal(t, "hello there", reply.Content)
	assert.False(t, reply.IsToolCall())

	require.Len(t, captured.Messages, 2)
	assert.Equal(t, "system", captured.Messages[0].Role)
	assert.Equal(t, "user", captured.Messages[1].Role)
	assert.Equal(t, DefaultModel, captured.Model)
}

func TestOpenAICompleteToolCall(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"",
			"tool_calls":[{"id":"1","type":"function",
				"function":{"name":"parse_cv","arguments":"{\"x\":1}"}}]}}]}`))
	}))
	defer srv.Close()

	client := newTestClient(srv.URL)
	reply, err := client.Complete(context.Background(), []Message{Human("go")},
		[]ToolDescriptor{{Name: "parse_cv"}})

	require.NoError(t, err)
	require.True(t, reply.IsToolCall())
	assert.Equal(t, "parse_cv", reply.ToolName)
	assert.JSONEq(t, `{"x":1}`, string(reply.ToolArgs))
}

func TestOpenAICompleteHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`rate limited`))
	}))
	defer srv.Close()

	client := newTestClient(srv.URL)
	_, err := client.Complete(context.Background(), []Message{Human("go")}, nil)

	var upstream *UpstreamError
	require.ErrorAs(t, err, &upstream)
	assert.Equal(t, "openai", upstream.Provider)
	assert.Contains(t, upstream.Message, "429")
}

func TestOpenAICompleteEmptyContentIsRefusal(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"  "}}]}`))
	}))
	defer srv.Close()

	client := newTestClient(srv.URL)
	_, err := client.Complete(context.Background(), []Message{Human("go")}, nil)

	var refusal *ModelRefusalError
	require.ErrorAs(t, err, &refusal)
}

func TestOpenAICompleteNoChoicesIsRefusal(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"choices":[]}`))
	}))
	defer srv.Close()

	client := newTestClient(srv.URL)
	_, err := client.Complete(context.Background(), []Message{Human("go")}, nil)

	var refusal *ModelRefusalError
	require.ErrorAs(t, err, &refusal)
}

func TestOpenAICompleteAPIErrorBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"error":{"message":"model overloaded","type":"server_error"}}`))
	}))
	defer srv.Close()

	client := newTestClient(srv.URL)
	_, err := client.Complete(context.Background(), []Message{Human("go")}, nil)

	var upstream *UpstreamError
	require.ErrorAs(t, err, &upstream)
	assert.Contains(t, upstream.Message, "model overloaded")
}

func TestToWireToolsDefaultsParameters(t *testing.T) {
	tools := toWireTools([]ToolDescriptor{{Name: "bare"}})

	require.Len(t, tools, 1)
	assert.Equal(t, "function", tools[0].Type)
	assert.JSONEq(t, `{"type":"object","properties":{}}`, string(tools[0].Function.Parameters))
}
