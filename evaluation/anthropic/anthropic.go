// Package anthropic provides model-judged evaluators backed by the Anthropic
// Messages API, as an alternative judge backend with the same verdict
// contract as the OpenAI judges.
package anthropic

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/triagemesh/triagemesh/evaluation"
)

const systemPrompt = "You are a strict evaluator of AI agent conversations. " +
	"Grade exactly the rubric you are given and nothing else. " +
	"Respond with a single JSON object of the form " +
	`{"score": <number 1-5>, "reason": "<short justification>"} and no other text.`

// Options configure the judge evaluator (model id, max tokens, API key).
type Options struct {
	Model     anthropic.Model
	MaxTokens int64
	APIKey    string
}

// Judge grades one rubric using the Messages API. It implements
// evaluation.Evaluator.
type Judge struct {
	client *anthropic.Client
	rubric evaluation.Rubric
	opts   Options
}

var _ evaluation.Evaluator = (*Judge)(nil)

// NewJudge creates a judge for the rubric using the official client.
func NewJudge(rubric evaluation.Rubric, optFns ...func(o *Options)) *Judge {
	opts := defaultOptions(optFns)

	var clientOpts []option.RequestOption
	if opts.APIKey != "" {
		clientOpts = append(clientOpts, option.WithAPIKey(opts.APIKey))
	}
	client := anthropic.NewClient(clientOpts...)

	return &Judge{client: &client, rubric: rubric, opts: opts}
}

// NewJudgeFromClient creates a judge for the rubric from an existing client.
func NewJudgeFromClient(client *anthropic.Client, rubric evaluation.Rubric, optFns ...func(o *Options)) *Judge {
	return &Judge{client: client, rubric: rubric, opts: defaultOptions(optFns)}
}

func defaultOptions(optFns []func(o *Options)) Options {
	opts := Options{
		Model:     anthropic.ModelClaude3_5Sonnet20241022,
		MaxTokens: 1024,
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	return opts
}

// Evaluate implements evaluation.Evaluator.
func (j *Judge) Evaluate(ctx context.Context, input *evaluation.EvalInput) (*evaluation.Result, error) {
	resp, err := j.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     j.opts.Model,
		MaxTokens: j.opts.MaxTokens,
		System: []anthropic.TextBlockParam{
			{Text: systemPrompt},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(evaluation.JudgePrompt(j.rubric, input))),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("anthropic judge call: %w", err)
	}

	var text strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			text.WriteString(block.Text)
		}
	}

	var v struct {
		Score  float64 `json:"score"`
		Reason string  `json:"reason"`
	}
	raw := extractJSON(text.String())
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		return nil, fmt.Errorf("parse judge verdict: %w", err)
	}

	return &evaluation.Result{
		Score:  v.Score,
		Reason: v.Reason,
		Details: map[string]any{
			"rubric": j.rubric.Name,
			"model":  string(j.opts.Model),
		},
	}, nil
}

// extractJSON trims any prose the model wrapped around the verdict object.
func extractJSON(s string) string {
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start == -1 || end == -1 || end < start {
		return s
	}
	return s[start : end+1]
}
