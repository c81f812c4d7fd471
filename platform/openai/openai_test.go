package openai

import (
	"testing"

	"github.com/openai/openai-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/triagemesh/triagemesh/platform"
)

func TestBuildTools_ConnectedAgent(t *testing.T) {
	tools, err := buildTools([]platform.ToolDescriptor{
		{
			Kind: platform.ToolKindConnectedAgent,
			ConnectedAgent: &platform.ConnectedAgentTool{
				Target:      platform.AgentHandle{ID: "agent-1", Name: "CanadianERTriageAgent"},
				Description: "Triage the patient based on CTAS",
			},
		},
	})
	require.NoError(t, err)
	require.Len(t, tools, 1)

	fn := tools[0].OfFunction
	require.NotNil(t, fn)
	assert.Equal(t, "delegate_to_CanadianERTriageAgent", fn.Function.Name)
	assert.Equal(t, "Triage the patient based on CTAS", fn.Function.Description.Value)

	params, ok := fn.Function.Parameters["properties"].(map[string]any)
	require.True(t, ok)
	assert.Contains(t, params, "task")
}

func TestBuildTools_SearchIndex(t *testing.T) {
	tools, err := buildTools([]platform.ToolDescriptor{
		{
			Kind: platform.ToolKindSearchIndex,
			SearchIndex: &platform.SearchIndexTool{
				IndexName: "idx-patient-data",
				QueryMode: platform.QueryModeVectorSemanticHybrid,
				TopK:      3,
			},
		},
	})
	require.NoError(t, err)
	require.Len(t, tools, 1)

	fs := tools[0].OfFileSearch
	require.NotNil(t, fs)
	assert.Equal(t, int64(3), fs.FileSearch.MaxNumResults.Value)
}

func TestBuildTools_UnknownKind(t *testing.T) {
	_, err := buildTools([]platform.ToolDescriptor{{Kind: platform.ToolKind("bogus")}})
	assert.Error(t, err)
}

func TestAdaptState(t *testing.T) {
	cases := map[openai.RunStatus]platform.RunState{
		openai.RunStatusQueued:         platform.RunStateQueued,
		openai.RunStatusInProgress:     platform.RunStateInProgress,
		openai.RunStatusCancelling:     platform.RunStateInProgress,
		openai.RunStatusRequiresAction: platform.RunStateRequiresAction,
		openai.RunStatusCompleted:      platform.RunStateCompleted,
		openai.RunStatusFailed:         platform.RunStateFailed,
		openai.RunStatusIncomplete:     platform.RunStateFailed,
		openai.RunStatusExpired:        platform.RunStateExpired,
		openai.RunStatusCancelled:      platform.RunStateCancelled,
	}
	for status, want := range cases {
		assert.Equal(t, want, adaptState(status), "status %s", status)
	}
}
