package llm

import (
	"encoding/json"
	"testing"

	"github.com/google/generative-ai-go/genai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSchemaFromJSON(t *testing.T) {
	raw := json.RawMessage(`{
		"type": "object",
		"properties": {
			"topic": {"type": "string", "description": "what to ask about"},
			"count": {"type": "integer"},
			"tags": {"type": "array", "items": {"type": "string"}},
			"difficulty": {"type": "string", "enum": ["easy", "medium", "hard"]}
		},
		"required": ["topic"]
	}`)

	schema := schemaFromJSON(raw)

	require.NotNil(t, schema)
	assert.Equal(t, genai.TypeObject, schema.Type)
	assert.Equal(t, []string{"topic"}, schema.Required)

	require.Contains(t, schema.Properties, "topic")
	assert.Equal(t, genai.TypeString, schema.Properties["topic"].Type)
	assert.Equal(t, "what to ask about", schema.Properties["topic"].Description)

	require.Contains(t, schema.Properties, "count")
	assert.Equal(t, genai.TypeInteger, schema.Properties["count"].Type)

	require.Contains(t, schema.Properties, "tags")
	assert.Equal(t, genai.TypeArray, schema.Properties["tags"].Type)
	require.NotNil(t, schema.Properties["tags"].Items)
	assert.Equal(t, genai.TypeString, schema.Properties["tags"].Items.Type)

	assert.Equal(t, []string{"easy", "medium", "hard"}, schema.Properties["difficulty"].Enum)
}

func TestSchemaFromJSONEmptyAndInvalid(t *testing.T) {
	assert.Nil(t, schemaFromJSON(nil))
	assert.Nil(t, schemaFromJSON(json.RawMessage("not json")))
}

func TestToFunctionDeclarations(t *testing.T) {
	decls := toFunctionDeclarations([]ToolDescriptor{
		{Name: "parse_cv", Description: "parses a CV"},
		{Name: "typed", ArgumentSchema: json.RawMessage(`{"type":"object","properties":{"q":{"type":"string"}}}`)},
	})

	require.Len(t, decls, 2)
	assert.Equal(t, "parse_cv", decls[0].Name)
	assert.Equal(t, "parses a CV", decls[0].Description)
	assert.Nil(t, decls[0].Parameters)
	require.NotNil(t, decls[1].Parameters)
	assert.Contains(t, decls[1].Parameters.Properties, "q")
}
