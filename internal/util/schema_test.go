package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sampleVerdict struct {
	Score    int      `json:"score" description:"Score from 1 to 5"`
	Reason   string   `json:"reason" description:"Short justification"`
	Evidence []string `json:"evidence,omitempty"`
	Internal string   `json:"-"`
	hidden   bool
}

// hidden exists only to prove unexported fields stay out of the schema.
var _ = sampleVerdict{}.hidden

func TestSchema(t *testing.T) {
	schema := Schema(sampleVerdict{})

	assert.Equal(t, "object", schema["type"])
	assert.Equal(t, false, schema["additionalProperties"])

	props, ok := schema["properties"].(map[string]any)
	require.True(t, ok)
	assert.Contains(t, props, "score")
	assert.Contains(t, props, "reason")
	assert.Contains(t, props, "evidence")
	assert.NotContains(t, props, "Internal")
	assert.NotContains(t, props, "hidden")

	score := props["score"].(map[string]any)
	assert.Equal(t, "integer", score["type"])
	assert.Equal(t, "Score from 1 to 5", score["description"])

	evidence := props["evidence"].(map[string]any)
	assert.Equal(t, "array", evidence["type"])

	required, ok := schema["required"].([]string)
	require.True(t, ok)
	assert.ElementsMatch(t, []string{"score", "reason"}, required)
}

func TestSchema_Pointer(t *testing.T) {
	schema := Schema(&sampleVerdict{})
	props := schema["properties"].(map[string]any)
	assert.Contains(t, props, "score")
}

func TestSchema_NonStruct(t *testing.T) {
	schema := Schema("not a struct")
	assert.Equal(t, "object", schema["type"])
	assert.Empty(t, schema["properties"])
}
