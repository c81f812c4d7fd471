// Package triagemesh provides a high-level façade over the orchestration
// core: a registry of remote agents, the conversation executor and the
// evaluation harness, sequenced by the orchestration driver. Most
// applications interact with this package by:
//  1. Loading a config.Config
//  2. Creating a TriageMesh via New() (optionally overriding the platform
//     client, evaluator set or converter)
//  3. Calling Run() to provision the fleet, execute the triage conversation
//     and score the transcript
//
// The façade delegates sequencing to orchestrate.Driver while keeping setup
// ergonomics concise. Defaults target the hosted platform configured in the
// config; tests typically inject an in-memory platform client.
package triagemesh

import (
	"context"
	"fmt"
	"time"

	"github.com/triagemesh/triagemesh/config"
	"github.com/triagemesh/triagemesh/evaluation"
	evalopenai "github.com/triagemesh/triagemesh/evaluation/openai"
	"github.com/triagemesh/triagemesh/executor"
	"github.com/triagemesh/triagemesh/logging"
	"github.com/triagemesh/triagemesh/orchestrate"
	"github.com/triagemesh/triagemesh/platform"
	platformopenai "github.com/triagemesh/triagemesh/platform/openai"
	"github.com/triagemesh/triagemesh/registry"
)

// Options configures the TriageMesh instance.
type Options struct {
	// Client overrides the platform client (defaults to the OpenAI-backed
	// adapter pointed at the configured endpoint).
	Client platform.Client

	// Converter overrides the evaluator input converter (defaults to the
	// platform-backed thread converter).
	Converter evaluation.Converter

	// Evaluators overrides the evaluator set (defaults to the built-in judge
	// rubrics on the configured judge deployment).
	Evaluators map[string]evaluation.Evaluator

	// PollInterval and Timeout tune the run wait loop.
	PollInterval time.Duration
	Timeout      time.Duration

	// Logger (defaults to NoOp logger if nil)
	Logger logging.Logger
}

// TriageMesh is the high-level façade aggregating the orchestration driver
// and its collaborators.
type TriageMesh struct {
	cfg    *config.Config
	driver *orchestrate.Driver
	logger logging.Logger
}

// New creates a new TriageMesh instance from the config with optional
// overrides. Instruction texts are loaded per role at construction time so a
// missing role fails fast, before anything is provisioned.
func New(cfg *config.Config, optFns ...func(o *Options)) (*TriageMesh, error) {
	opts := Options{
		PollInterval: 2 * time.Second,
		Timeout:      5 * time.Minute,
		Logger:       logging.NoOpLogger{},
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	if opts.Client == nil {
		opts.Client = platformopenai.NewClient(func(o *platformopenai.Options) {
			o.APIKey = cfg.APIKey
			o.BaseURL = cfg.Endpoint
		})
	}
	if opts.Converter == nil {
		opts.Converter = evaluation.NewThreadConverter(opts.Client)
	}
	if opts.Evaluators == nil {
		opts.Evaluators = DefaultEvaluators(cfg)
	}

	fleet, err := loadFleet(cfg)
	if err != nil {
		return nil, err
	}

	reg := registry.New(opts.Client, func(o *registry.Options) {
		o.Logger = opts.Logger
	})
	exec := executor.New(opts.Client, func(o *executor.Options) {
		o.PollInterval = opts.PollInterval
		o.Timeout = opts.Timeout
		o.Logger = opts.Logger
	})
	harness := evaluation.NewHarness(opts.Converter, opts.Evaluators, func(o *evaluation.Options) {
		o.Logger = opts.Logger
	})
	driver := orchestrate.New(opts.Client, reg, exec, harness, fleet, func(o *orchestrate.Options) {
		o.Logger = opts.Logger
	})

	return &TriageMesh{cfg: cfg, driver: driver, logger: opts.Logger}, nil
}

// DefaultEvaluators builds the built-in judge set on the configured judge
// deployment, one judge per rubric.
func DefaultEvaluators(cfg *config.Config) map[string]evaluation.Evaluator {
	evaluators := make(map[string]evaluation.Evaluator)
	for _, rubric := range evaluation.DefaultRubrics() {
		evaluators[rubric.Name] = evalopenai.NewJudge(rubric, func(o *evalopenai.Options) {
			if cfg.JudgeDeployment != "" {
				o.Model = cfg.JudgeDeployment
			}
			o.APIKey = cfg.APIKey
			o.BaseURL = cfg.Endpoint
		})
	}
	return evaluators
}

// loadFleet assembles the fleet description from configured instruction texts
// and the search index tuple.
func loadFleet(cfg *config.Config) (orchestrate.Fleet, error) {
	conversation, err := cfg.Instructions("conversation")
	if err != nil {
		return orchestrate.Fleet{}, fmt.Errorf("load fleet: %w", err)
	}
	triage, err := cfg.Instructions("triage")
	if err != nil {
		return orchestrate.Fleet{}, fmt.Errorf("load fleet: %w", err)
	}
	history, err := cfg.Instructions("patient_history")
	if err != nil {
		return orchestrate.Fleet{}, fmt.Errorf("load fleet: %w", err)
	}

	return orchestrate.Fleet{
		Model:                    cfg.ModelDeployment,
		ConversationInstructions: conversation,
		TriageInstructions:       triage,
		HistoryInstructions:      history,
		Search: platform.SearchIndexTool{
			ConnectionID: cfg.Search.ConnectionID,
			IndexName:    cfg.Search.IndexName,
			QueryMode:    platform.QueryMode(cfg.Search.QueryMode),
			TopK:         cfg.Search.TopK,
		},
	}, nil
}

// Run executes the full orchestration pipeline with the configured user
// prompt and returns the orchestration result, including the evaluation
// record.
func (m *TriageMesh) Run(ctx context.Context) (*orchestrate.Result, error) {
	prompt, err := m.cfg.UserPrompt()
	if err != nil {
		return nil, err
	}
	return m.RunWith(ctx, prompt)
}

// RunWith executes the pipeline with explicit user content.
func (m *TriageMesh) RunWith(ctx context.Context, content string) (*orchestrate.Result, error) {
	return m.driver.Run(ctx, content)
}
