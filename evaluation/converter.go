package evaluation

import (
	"context"
	"fmt"

	"github.com/triagemesh/triagemesh/platform"
)

// ThreadConverter builds evaluator inputs from the platform's thread and run
// records: the first user message becomes the query, the last assistant
// message the response, and the run's recorded tool invocations become the
// tool calls. Only completed runs are convertible.
type ThreadConverter struct {
	client platform.Client
}

var _ Converter = (*ThreadConverter)(nil)

// NewThreadConverter constructs a ThreadConverter over the platform client.
func NewThreadConverter(client platform.Client) *ThreadConverter {
	return &ThreadConverter{client: client}
}

// Convert implements Converter.
func (c *ThreadConverter) Convert(ctx context.Context, threadID, runID string) (*EvalInput, error) {
	run, err := c.client.GetRun(ctx, threadID, runID)
	if err != nil {
		return nil, &ConversionError{ThreadID: threadID, RunID: runID, Cause: fmt.Errorf("run not found: %w", err)}
	}
	if run.State != platform.RunStateCompleted {
		return nil, &ConversionError{ThreadID: threadID, RunID: runID, Cause: fmt.Errorf("run state is %q, want %q", run.State, platform.RunStateCompleted)}
	}

	messages, err := c.client.ListMessages(ctx, threadID, platform.SortOrderAscending)
	if err != nil {
		return nil, &ConversionError{ThreadID: threadID, RunID: runID, Cause: fmt.Errorf("list messages: %w", err)}
	}

	input := &EvalInput{ThreadID: threadID, RunID: runID}
	for _, m := range messages {
		switch m.Role {
		case platform.RoleUser:
			if input.Query == "" {
				input.Query = m.Text
			}
		case platform.RoleAssistant:
			input.Response = m.Text
		}
	}
	if input.Query == "" {
		return nil, &ConversionError{ThreadID: threadID, RunID: runID, Cause: fmt.Errorf("thread holds no user message")}
	}

	calls, err := c.client.ListToolCalls(ctx, threadID, runID)
	if err != nil {
		return nil, &ConversionError{ThreadID: threadID, RunID: runID, Cause: fmt.Errorf("list tool calls: %w", err)}
	}
	for _, tc := range calls {
		input.ToolCalls = append(input.ToolCalls, ToolCall{
			Name:      tc.Name,
			Arguments: tc.Arguments,
			Output:    tc.Output,
		})
	}

	return input, nil
}
