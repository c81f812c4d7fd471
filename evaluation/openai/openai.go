// Package openai provides model-judged evaluators backed by the OpenAI Chat
// Completions API. Each judge grades one rubric with its own model
// configuration and returns a schema-constrained verdict.
package openai

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/triagemesh/triagemesh/evaluation"
	"github.com/triagemesh/triagemesh/internal/util"
)

const systemPrompt = "You are a strict evaluator of AI agent conversations. " +
	"Grade exactly the rubric you are given and nothing else. " +
	"Return only the requested JSON verdict."

// verdict is the structured judge response. The JSON schema derived from it
// constrains the model output.
type verdict struct {
	Score  float64 `json:"score" description:"Score from 1 (worst) to 5 (best)"`
	Reason string  `json:"reason" description:"Short justification for the score"`
}

// Options configure the judge evaluator.
type Options struct {
	// Model is the judge deployment identifier.
	Model string
	// Temperature for the judge call. Low by default; judging should be stable.
	Temperature float64
	// APIKey and BaseURL override the environment-provided client settings.
	APIKey  string
	BaseURL string
}

// Judge grades one rubric using a chat completion. It implements
// evaluation.Evaluator.
type Judge struct {
	client *openai.Client
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
	if opts.BaseURL != "" {
		clientOpts = append(clientOpts, option.WithBaseURL(opts.BaseURL))
	}
	client := openai.NewClient(clientOpts...)

	return &Judge{client: &client, rubric: rubric, opts: opts}
}

// NewJudgeFromClient creates a judge for the rubric from an existing client.
func NewJudgeFromClient(client *openai.Client, rubric evaluation.Rubric, optFns ...func(o *Options)) *Judge {
	return &Judge{client: client, rubric: rubric, opts: defaultOptions(optFns)}
}

func defaultOptions(optFns []func(o *Options)) Options {
	opts := Options{
		Model:       openai.ChatModelGPT4o,
		Temperature: 0.0,
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	return opts
}

// Evaluate implements evaluation.Evaluator.
func (j *Judge) Evaluate(ctx context.Context, input *evaluation.EvalInput) (*evaluation.Result, error) {
	params := openai.ChatCompletionNewParams{
		Model: openai.ChatModel(j.opts.Model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(systemPrompt),
			openai.UserMessage(evaluation.JudgePrompt(j.rubric, input)),
		},
		Temperature: openai.Float(j.opts.Temperature),
		ResponseFormat: openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONSchema: &openai.ResponseFormatJSONSchemaParam{
				JSONSchema: openai.ResponseFormatJSONSchemaJSONSchemaParam{
					Name:   "verdict",
					Schema: util.Schema(verdict{}),
					Strict: openai.Bool(true),
				},
			},
		},
	}

	resp, err := j.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("openai judge call: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("openai judge returned no choices")
	}

	var v verdict
	if err := json.Unmarshal([]byte(resp.Choices[0].Message.Content), &v); err != nil {
		return nil, fmt.Errorf("parse judge verdict: %w", err)
	}

	return &evaluation.Result{
		Score:  v.Score,
		Reason: v.Reason,
		Details: map[string]any{
			"rubric": j.rubric.Name,
			"model":  j.opts.Model,
		},
	}, nil
}
