// Package openai implements platform.Client on top of the OpenAI Assistants
// API (assistants, threads, messages, runs). It adapts triagemesh's platform
// value types into the SDK's parameter unions and back.
package openai

import (
	"context"
	"fmt"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/triagemesh/triagemesh/platform"
)

// Options configure the platform adapter.
type Options struct {
	// APIKey overrides the environment-provided credential.
	APIKey string
	// BaseURL points the SDK at a compatible endpoint (e.g. an Azure OpenAI
	// deployment). Left empty the SDK default is used.
	BaseURL string
	// ListPageSize bounds each agent listing page.
	ListPageSize int64
}

// Client wraps the OpenAI SDK behind the platform.Client interface.
type Client struct {
	sdk  *openai.Client
	opts Options
}

var _ platform.Client = (*Client)(nil)

// NewClient creates a new platform client using the official SDK.
func NewClient(optFns ...func(o *Options)) *Client {
	opts := Options{ListPageSize: 100}
	for _, fn := range optFns {
		fn(&opts)
	}

	var clientOpts []option.RequestOption
	if opts.APIKey != "" {
		clientOpts = append(clientOpts, option.WithAPIKey(opts.APIKey))
	}
	if opts.BaseURL != "" {
		clientOpts = append(clientOpts, option.WithBaseURL(opts.BaseURL))
	}

	sdk := openai.NewClient(clientOpts...)

	return &Client{sdk: &sdk, opts: opts}
}

// NewClientFromSDK creates a new platform client from an existing SDK client.
func NewClientFromSDK(sdk *openai.Client, optFns ...func(o *Options)) *Client {
	opts := Options{ListPageSize: 100}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Client{sdk: sdk, opts: opts}
}

// ListAgents returns all currently listed assistants as agent handles.
func (c *Client) ListAgents(ctx context.Context) ([]platform.AgentHandle, error) {
	var handles []platform.AgentHandle
	iter := c.sdk.Beta.Assistants.ListAutoPaging(ctx, openai.BetaAssistantListParams{
		Limit: openai.Int(c.opts.ListPageSize),
	})
	for iter.Next() {
		a := iter.Current()
		handles = append(handles, platform.AgentHandle{
			ID:        a.ID,
			Name:      a.Name,
			CreatedAt: time.Unix(a.CreatedAt, 0).UTC(),
		})
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("list assistants: %w", err)
	}
	return handles, nil
}

// CreateAgent provisions a new assistant from the spec.
func (c *Client) CreateAgent(ctx context.Context, spec platform.AgentSpec) (platform.AgentHandle, error) {
	params := openai.BetaAssistantNewParams{
		Model:        openai.ChatModel(spec.Model),
		Name:         openai.String(spec.Name),
		Instructions: openai.String(spec.Instructions),
	}
	if spec.Description != "" {
		params.Description = openai.String(spec.Description)
	}
	if len(spec.Tools) > 0 {
		tools, err := buildTools(spec.Tools)
		if err != nil {
			return platform.AgentHandle{}, err
		}
		params.Tools = tools
	}

	a, err := c.sdk.Beta.Assistants.New(ctx, params)
	if err != nil {
		return platform.AgentHandle{}, fmt.Errorf("create assistant: %w", err)
	}
	return platform.AgentHandle{
		ID:        a.ID,
		Name:      a.Name,
		CreatedAt: time.Unix(a.CreatedAt, 0).UTC(),
	}, nil
}

// buildTools translates descriptors into SDK tool unions. Connected agents
// become delegation functions; search indexes become file search tools with a
// bounded result count.
func buildTools(descriptors []platform.ToolDescriptor) ([]openai.AssistantToolUnionParam, error) {
	tools := make([]openai.AssistantToolUnionParam, 0, len(descriptors))
	for _, d := range descriptors {
		switch d.Kind {
		case platform.ToolKindConnectedAgent:
			tools = append(tools, openai.AssistantToolUnionParam{
				OfFunction: &openai.FunctionToolParam{
					Function: openai.FunctionDefinitionParam{
						Name:        "delegate_to_" + d.ConnectedAgent.Target.Name,
						Description: openai.String(d.ConnectedAgent.Description),
						Parameters: map[string]any{
							"type": "object",
							"properties": map[string]any{
								"task": map[string]any{
									"type":        "string",
									"description": "The sub-task to delegate",
								},
							},
							"required": []string{"task"},
						},
					},
				},
			})
		case platform.ToolKindSearchIndex:
			tools = append(tools, openai.AssistantToolUnionParam{
				OfFileSearch: &openai.FileSearchToolParam{
					FileSearch: openai.FileSearchToolFileSearchParam{
						MaxNumResults: openai.Int(int64(d.SearchIndex.TopK)),
					},
				},
			})
		default:
			return nil, fmt.Errorf("unknown tool kind %q", d.Kind)
		}
	}
	return tools, nil
}

// CreateThread opens a new conversation thread.
func (c *Client) CreateThread(ctx context.Context) (platform.Thread, error) {
	t, err := c.sdk.Beta.Threads.New(ctx, openai.BetaThreadNewParams{})
	if err != nil {
		return platform.Thread{}, fmt.Errorf("create thread: %w", err)
	}
	return platform.Thread{ID: t.ID, CreatedAt: time.Unix(t.CreatedAt, 0).UTC()}, nil
}

// CreateMessage appends a message to the thread.
func (c *Client) CreateMessage(ctx context.Context, threadID string, role platform.Role, text string) (platform.Message, error) {
	m, err := c.sdk.Beta.Threads.Messages.New(ctx, threadID, openai.BetaThreadMessageNewParams{
		Role: openai.BetaThreadMessageNewParamsRole(role),
		Content: openai.BetaThreadMessageNewParamsContentUnion{
			OfString: openai.String(text),
		},
	})
	if err != nil {
		return platform.Message{}, fmt.Errorf("create message: %w", err)
	}
	return platform.Message{
		ID:        m.ID,
		ThreadID:  m.ThreadID,
		Role:      platform.Role(m.Role),
		Text:      messageText(*m),
		CreatedAt: time.Unix(m.CreatedAt, 0).UTC(),
	}, nil
}

// CreateRun starts a run of the assistant against the thread.
func (c *Client) CreateRun(ctx context.Context, threadID, agentID string) (platform.Run, error) {
	r, err := c.sdk.Beta.Threads.Runs.New(ctx, threadID, openai.BetaThreadRunNewParams{
		AssistantID: agentID,
	})
	if err != nil {
		return platform.Run{}, fmt.Errorf("create run: %w", err)
	}
	return adaptRun(*r), nil
}

// GetRun fetches the current state of the run.
func (c *Client) GetRun(ctx context.Context, threadID, runID string) (platform.Run, error) {
	r, err := c.sdk.Beta.Threads.Runs.Get(ctx, threadID, runID)
	if err != nil {
		return platform.Run{}, fmt.Errorf("get run: %w", err)
	}
	return adaptRun(*r), nil
}

// ListMessages returns the thread's messages in the requested creation order.
func (c *Client) ListMessages(ctx context.Context, threadID string, order platform.SortOrder) ([]platform.Message, error) {
	params := openai.BetaThreadMessageListParams{}
	if order == platform.SortOrderDescending {
		params.Order = openai.BetaThreadMessageListParamsOrderDesc
	} else {
		params.Order = openai.BetaThreadMessageListParamsOrderAsc
	}

	var messages []platform.Message
	iter := c.sdk.Beta.Threads.Messages.ListAutoPaging(ctx, threadID, params)
	for iter.Next() {
		m := iter.Current()
		messages = append(messages, platform.Message{
			ID:        m.ID,
			ThreadID:  m.ThreadID,
			Role:      platform.Role(m.Role),
			Text:      messageText(m),
			CreatedAt: time.Unix(m.CreatedAt, 0).UTC(),
		})
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	return messages, nil
}

// ListToolCalls returns the run's recorded tool invocations by walking its
// tool-call steps in ascending order.
func (c *Client) ListToolCalls(ctx context.Context, threadID, runID string) ([]platform.ToolCall, error) {
	var calls []platform.ToolCall
	iter := c.sdk.Beta.Threads.Runs.Steps.ListAutoPaging(ctx, threadID, runID, openai.BetaThreadRunStepListParams{
		Order: openai.BetaThreadRunStepListParamsOrderAsc,
	})
	for iter.Next() {
		step := iter.Current()
		if step.Type != "tool_calls" {
			continue
		}
		for _, tc := range step.StepDetails.ToolCalls {
			switch tc.Type {
			case "function":
				calls = append(calls, platform.ToolCall{
					Name:      tc.Function.Name,
					Arguments: tc.Function.Arguments,
					Output:    tc.Function.Output,
				})
			case "file_search":
				calls = append(calls, platform.ToolCall{Name: "file_search"})
			default:
				calls = append(calls, platform.ToolCall{Name: string(tc.Type)})
			}
		}
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("list run steps: %w", err)
	}
	return calls, nil
}

// messageText concatenates the text content blocks of a message.
func messageText(m openai.Message) string {
	var text string
	for _, block := range m.Content {
		if block.Type == "text" {
			text += block.Text.Value
		}
	}
	return text
}

// adaptRun maps an SDK run onto the platform lifecycle.
func adaptRun(r openai.Run) platform.Run {
	return platform.Run{
		ID:        r.ID,
		ThreadID:  r.ThreadID,
		AgentID:   r.AssistantID,
		State:     adaptState(r.Status),
		CreatedAt: time.Unix(r.CreatedAt, 0).UTC(),
	}
}

func adaptState(s openai.RunStatus) platform.RunState {
	switch s {
	case openai.RunStatusQueued:
		return platform.RunStateQueued
	case openai.RunStatusInProgress, openai.RunStatusCancelling:
		return platform.RunStateInProgress
	case openai.RunStatusRequiresAction:
		return platform.RunStateRequiresAction
	case openai.RunStatusCompleted:
		return platform.RunStateCompleted
	case openai.RunStatusFailed, openai.RunStatusIncomplete:
		return platform.RunStateFailed
	case openai.RunStatusExpired:
		return platform.RunStateExpired
	case openai.RunStatusCancelled:
		return platform.RunStateCancelled
	default:
		return platform.RunState(s)
	}
}
