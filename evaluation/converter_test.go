package evaluation

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/triagemesh/triagemesh/platform"
)

type fakeRunClient struct {
	platform.Client

	run       platform.Run
	runErr    error
	messages  []platform.Message
	listErr   error
	toolCalls []platform.ToolCall
	stepsErr  error
}

func (f *fakeRunClient) GetRun(_ context.Context, threadID, runID string) (platform.Run, error) {
	if f.runErr != nil {
		return platform.Run{}, f.runErr
	}
	run := f.run
	run.ID = runID
	run.ThreadID = threadID
	return run, nil
}

func (f *fakeRunClient) ListMessages(_ context.Context, _ string, _ platform.SortOrder) ([]platform.Message, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.messages, nil
}

func (f *fakeRunClient) ListToolCalls(_ context.Context, _, _ string) ([]platform.ToolCall, error) {
	if f.stepsErr != nil {
		return nil, f.stepsErr
	}
	return f.toolCalls, nil
}

func TestThreadConverter_Convert(t *testing.T) {
	client := &fakeRunClient{
		run: platform.Run{State: platform.RunStateCompleted},
		messages: []platform.Message{
			{Role: platform.RoleUser, Text: "Assess this patient"},
			{Role: platform.RoleAssistant, Text: "Gathering history"},
			{Role: platform.RoleUser, Text: "Please hurry"},
			{Role: platform.RoleAssistant, Text: "CTAS level 2 assigned"},
		},
	}
	conv := NewThreadConverter(client)

	input, err := conv.Convert(context.Background(), "thread-1", "run-1")
	require.NoError(t, err)

	assert.Equal(t, "thread-1", input.ThreadID)
	assert.Equal(t, "run-1", input.RunID)
	assert.Equal(t, "Assess this patient", input.Query, "query is the first user message")
	assert.Equal(t, "CTAS level 2 assigned", input.Response, "response is the last assistant message")
}

func TestThreadConverter_PopulatesToolCalls(t *testing.T) {
	client := &fakeRunClient{
		run: platform.Run{State: platform.RunStateCompleted},
		messages: []platform.Message{
			{Role: platform.RoleUser, Text: "Assess this patient"},
			{Role: platform.RoleAssistant, Text: "CTAS level 2 assigned"},
		},
		toolCalls: []platform.ToolCall{
			{Name: "delegate_to_CanadianERPatientHistoryAgent", Arguments: `{"task":"retrieve history"}`, Output: "no prior visits"},
			{Name: "delegate_to_CanadianERTriageAgent", Arguments: `{"task":"triage"}`, Output: "level 2"},
		},
	}
	conv := NewThreadConverter(client)

	input, err := conv.Convert(context.Background(), "thread-1", "run-1")
	require.NoError(t, err)

	require.Len(t, input.ToolCalls, 2)
	assert.Equal(t, "delegate_to_CanadianERPatientHistoryAgent", input.ToolCalls[0].Name)
	assert.Equal(t, `{"task":"retrieve history"}`, input.ToolCalls[0].Arguments)
	assert.Equal(t, "no prior visits", input.ToolCalls[0].Output)
	assert.Equal(t, "delegate_to_CanadianERTriageAgent", input.ToolCalls[1].Name)
}

func TestThreadConverter_ListToolCallsFails(t *testing.T) {
	client := &fakeRunClient{
		run: platform.Run{State: platform.RunStateCompleted},
		messages: []platform.Message{
			{Role: platform.RoleUser, Text: "Assess this patient"},
		},
		stepsErr: errors.New("rate limited"),
	}
	conv := NewThreadConverter(client)

	_, err := conv.Convert(context.Background(), "thread-1", "run-1")

	var ce *ConversionError
	require.ErrorAs(t, err, &ce)
}

func TestThreadConverter_RunNotFound(t *testing.T) {
	conv := NewThreadConverter(&fakeRunClient{runErr: errors.New("404")})

	_, err := conv.Convert(context.Background(), "thread-1", "run-404")

	var ce *ConversionError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, "run-404", ce.RunID)
}

func TestThreadConverter_RunNotCompleted(t *testing.T) {
	for _, state := range []platform.RunState{
		platform.RunStateInProgress,
		platform.RunStateFailed,
		platform.RunStateExpired,
	} {
		conv := NewThreadConverter(&fakeRunClient{run: platform.Run{State: state}})

		_, err := conv.Convert(context.Background(), "thread-1", "run-1")

		var ce *ConversionError
		require.ErrorAs(t, err, &ce, "state %s must not be convertible", state)
	}
}

func TestThreadConverter_NoUserMessage(t *testing.T) {
	client := &fakeRunClient{
		run:      platform.Run{State: platform.RunStateCompleted},
		messages: []platform.Message{{Role: platform.RoleAssistant, Text: "hello"}},
	}
	conv := NewThreadConverter(client)

	_, err := conv.Convert(context.Background(), "thread-1", "run-1")

	var ce *ConversionError
	require.ErrorAs(t, err, &ce)
}

func TestThreadConverter_ListMessagesFails(t *testing.T) {
	client := &fakeRunClient{
		run:     platform.Run{State: platform.RunStateCompleted},
		listErr: errors.New("rate limited"),
	}
	conv := NewThreadConverter(client)

	_, err := conv.Convert(context.Background(), "thread-1", "run-1")

	var ce *ConversionError
	require.ErrorAs(t, err, &ce)
}
