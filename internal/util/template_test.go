package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderTemplate(t *testing.T) {
	out, err := RenderTemplate("Patient: {{.name}}", map[string]any{"name": "Aaron697 Stanton715"})
	require.NoError(t, err)
	assert.Equal(t, "Patient: Aaron697 Stanton715", out)
}

func TestRenderTemplate_NoMarkers(t *testing.T) {
	out, err := RenderTemplate("plain text", nil)
	require.NoError(t, err)
	assert.Equal(t, "plain text", out)
}

func TestRenderTemplate_JoinFunc(t *testing.T) {
	out, err := RenderTemplate("- {{join \"\\n- \" .items}}", map[string]any{
		"items": []string{"a", "b", "c"},
	})
	require.NoError(t, err)
	assert.Equal(t, "- a\n- b\n- c", out)
}

func TestRenderTemplate_KeepsAngleBrackets(t *testing.T) {
	out, err := RenderTemplate("glucose {{.reading}}", map[string]any{"reading": ">400 mg/dL"})
	require.NoError(t, err)
	assert.Equal(t, "glucose >400 mg/dL", out)
}

func TestRenderTemplate_ParseError(t *testing.T) {
	_, err := RenderTemplate("{{.unclosed", nil)
	assert.Error(t, err)
}
