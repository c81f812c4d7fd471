package triagemesh

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/triagemesh/triagemesh/config"
	"github.com/triagemesh/triagemesh/evaluation"
	"github.com/triagemesh/triagemesh/platform"
)

// stubPlatform is a minimal in-memory platform: every run completes right away.
type stubPlatform struct {
	agents   []platform.AgentHandle
	userText string
}

func (s *stubPlatform) ListAgents(_ context.Context) ([]platform.AgentHandle, error) {
	return s.agents, nil
}

func (s *stubPlatform) CreateAgent(_ context.Context, spec platform.AgentSpec) (platform.AgentHandle, error) {
	h := platform.AgentHandle{ID: fmt.Sprintf("agent-%d", len(s.agents)+1), Name: spec.Name}
	s.agents = append(s.agents, h)
	return h, nil
}

func (s *stubPlatform) CreateThread(_ context.Context) (platform.Thread, error) {
	return platform.Thread{ID: "thread-1"}, nil
}

func (s *stubPlatform) CreateMessage(_ context.Context, threadID string, role platform.Role, text string) (platform.Message, error) {
	s.userText = text
	return platform.Message{ID: "msg-1", ThreadID: threadID, Role: role, Text: text}, nil
}

func (s *stubPlatform) CreateRun(_ context.Context, threadID, agentID string) (platform.Run, error) {
	return platform.Run{ID: "run-1", ThreadID: threadID, AgentID: agentID, State: platform.RunStateCompleted}, nil
}

func (s *stubPlatform) GetRun(_ context.Context, threadID, runID string) (platform.Run, error) {
	return platform.Run{ID: runID, ThreadID: threadID, State: platform.RunStateCompleted}, nil
}

func (s *stubPlatform) ListMessages(_ context.Context, threadID string, _ platform.SortOrder) ([]platform.Message, error) {
	return []platform.Message{
		{ID: "msg-1", ThreadID: threadID, Role: platform.RoleUser, Text: s.userText},
		{ID: "msg-2", ThreadID: threadID, Role: platform.RoleAssistant, Text: "CTAS level 2 assigned"},
	}, nil
}

func (s *stubPlatform) ListToolCalls(_ context.Context, _, _ string) ([]platform.ToolCall, error) {
	return nil, nil
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()
	files := map[string]string{
		"conversation_instructions.txt":    "You coordinate the triage conversation.",
		"triage_instructions.txt":          "You perform CTAS assessments.",
		"patient_history_instructions.txt": "You retrieve patient history.",
		"user_prompt.txt":                  "Assess patient Aaron697 Stanton715.",
	}
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o600))
	}

	cfg := config.Default()
	cfg.Endpoint = "https://example.invalid"
	cfg.InstructionsDir = dir
	return cfg
}

func TestNew_RunWith(t *testing.T) {
	client := &stubPlatform{}
	mesh, err := New(testConfig(t), func(o *Options) {
		o.Client = client
		o.PollInterval = time.Millisecond
		o.Evaluators = map[string]evaluation.Evaluator{
			"relevance": evaluation.EvaluatorFunc(func(_ context.Context, in *evaluation.EvalInput) (*evaluation.Result, error) {
				return &evaluation.Result{Score: 5, Reason: in.Response}, nil
			}),
		}
	})
	require.NoError(t, err)

	result, err := mesh.RunWith(context.Background(), "Assess this patient")
	require.NoError(t, err)

	assert.Len(t, client.agents, 3)
	assert.Equal(t, "CTAS level 2 assigned", result.Transcript.FinalResponse())
	require.True(t, result.Record["relevance"].OK())
	assert.Equal(t, 5.0, result.Record["relevance"].Result.Score)
}

func TestNew_RunUsesConfiguredPrompt(t *testing.T) {
	client := &stubPlatform{}
	mesh, err := New(testConfig(t), func(o *Options) {
		o.Client = client
		o.PollInterval = time.Millisecond
		o.Evaluators = map[string]evaluation.Evaluator{}
	})
	require.NoError(t, err)

	_, err = mesh.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Assess patient Aaron697 Stanton715.", client.userText)
}

func TestNew_MissingInstructionsFailsFast(t *testing.T) {
	cfg := config.Default()
	cfg.Endpoint = "https://example.invalid"
	cfg.InstructionsDir = t.TempDir()

	_, err := New(cfg, func(o *Options) {
		o.Client = &stubPlatform{}
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "load fleet")
}

func TestDefaultEvaluators(t *testing.T) {
	evaluators := DefaultEvaluators(testConfig(t))

	for _, rubric := range evaluation.DefaultRubrics() {
		assert.Contains(t, evaluators, rubric.Name)
	}
	assert.Len(t, evaluators, len(evaluation.DefaultRubrics()))
}
