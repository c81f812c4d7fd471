// Package orchestrate sequences the triage workflow end to end: provision the
// dependency agents, wire connected-agent and search tools into the composite
// conversation agent, execute the top-level conversation and evaluate the
// resulting transcript. The Driver is a linear pipeline of hard-barrier
// stages; any stage failure aborts the whole run and is reported with the
// stage name attached. Agents already created stay provisioned for reuse on
// the next run; nothing is rolled back.
package orchestrate

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/triagemesh/triagemesh/evaluation"
	"github.com/triagemesh/triagemesh/executor"
	"github.com/triagemesh/triagemesh/logging"
	"github.com/triagemesh/triagemesh/platform"
	"github.com/triagemesh/triagemesh/registry"
	"github.com/triagemesh/triagemesh/tool"
)

// Stage names one step of the orchestration pipeline.
type Stage string

const (
	// StageListExisting lists remote agents and primes the registry.
	StageListExisting Stage = "list_existing"
	// StageProvisionLeaves provisions the dependency agents.
	StageProvisionLeaves Stage = "provision_leaves"
	// StageComposeTools composes connected-agent tools for the composite agent.
	StageComposeTools Stage = "compose_tools"
	// StageProvisionComposite provisions the composite conversation agent.
	StageProvisionComposite Stage = "provision_composite"
	// StageExecute runs the top-level conversation.
	StageExecute Stage = "execute"
	// StageEvaluate scores the completed conversation.
	StageEvaluate Stage = "evaluate"
)

// StageError wraps a stage-local failure with the stage it occurred in.
type StageError struct {
	Stage Stage
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("orchestration stage %q failed: %v", e.Stage, e.Err)
}

// Unwrap exposes the underlying cause for errors.Is/As.
func (e *StageError) Unwrap() error { return e.Err }

// Default logical agent names of the triage fleet.
const (
	ConversationAgentName   = "CanadianERConversationAgent"
	TriageAgentName         = "CanadianERTriageAgent"
	PatientHistoryAgentName = "CanadianERPatientHistoryAgent"
)

// Fleet describes the three-agent triage fleet: two leaf agents (triage
// assessment, patient history retrieval over a search index) and the
// composite conversation agent that delegates to both.
type Fleet struct {
	// Model is the deployment identifier shared by all three agents.
	Model string
	// ConversationInstructions, TriageInstructions and HistoryInstructions
	// are the per-role instruction texts, loaded by name from configuration.
	ConversationInstructions string
	TriageInstructions       string
	HistoryInstructions      string
	// Search is the managed index tuple attached to the history agent.
	Search platform.SearchIndexTool
}

// Result bundles the outputs of one orchestration run.
type Result struct {
	// OrchestrationID correlates log entries of this run.
	OrchestrationID string
	// Transcript is the sanitized conversation of the top-level agent.
	Transcript *executor.Transcript
	// Record holds one outcome per configured evaluator.
	Record evaluation.Record
}

// Options holds dependency + configuration overrides passed to New().
type Options struct {
	// Logger receives stage events. Defaults to NoOpLogger.
	Logger logging.Logger
}

// Driver owns one orchestration pipeline. It holds lookup-only references to
// agent handles; ownership stays with the registry.
type Driver struct {
	client   platform.Client
	registry *registry.Registry
	executor *executor.Executor
	harness  *evaluation.Harness
	fleet    Fleet
	logger   logging.Logger
}

// New constructs a Driver over its collaborators.
func New(
	client platform.Client,
	reg *registry.Registry,
	exec *executor.Executor,
	harness *evaluation.Harness,
	fleet Fleet,
	optFns ...func(o *Options),
) *Driver {
	opts := Options{
		Logger: logging.NoOpLogger{},
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	return &Driver{
		client:   client,
		registry: reg,
		executor: exec,
		harness:  harness,
		fleet:    fleet,
		logger:   opts.Logger,
	}
}

// Run executes the full pipeline for the given user content and returns the
// evaluation record. Stages form hard barriers: each starts only after the
// previous one's remote calls have all returned successfully.
func (d *Driver) Run(ctx context.Context, content string) (*Result, error) {
	orchestrationID := uuid.NewString()
	d.logger.Info("orchestration run starting", "orchestration_run_id", orchestrationID)

	// list_existing
	stageStart := time.Now()
	existing, err := d.client.ListAgents(ctx)
	if err != nil {
		return nil, d.fail(StageListExisting, stageStart, err)
	}
	d.registry.Prime(existing)
	d.reportStage(StageListExisting, stageStart, nil)
	d.logger.Info("listed existing agents", "agent_count", len(existing))

	// provision_leaves
	stageStart = time.Now()
	triageHandle, err := d.registry.Ensure(ctx, platform.AgentSpec{
		Name:         TriageAgentName,
		Model:        d.fleet.Model,
		Description:  "Agent to perform Canadian ER triage assessments using CTAS",
		Instructions: d.fleet.TriageInstructions,
	})
	if err != nil {
		return nil, d.fail(StageProvisionLeaves, stageStart, err)
	}

	historySpec, err := tool.Attach(platform.AgentSpec{
		Name:         PatientHistoryAgentName,
		Model:        d.fleet.Model,
		Description:  "Agent to retrieve patient immunization and diagnostic report history using the search tool",
		Instructions: d.fleet.HistoryInstructions,
	}, tool.SearchIndex(d.fleet.Search.ConnectionID, d.fleet.Search.IndexName, d.fleet.Search.QueryMode, d.fleet.Search.TopK))
	if err != nil {
		return nil, d.fail(StageProvisionLeaves, stageStart, err)
	}
	historyHandle, err := d.registry.Ensure(ctx, historySpec)
	if err != nil {
		return nil, d.fail(StageProvisionLeaves, stageStart, err)
	}
	d.reportStage(StageProvisionLeaves, stageStart, nil)

	// compose_tools
	stageStart = time.Now()
	triageTool, err := tool.ConnectedAgent(triageHandle, "Triage the patient based on CTAS")
	if err != nil {
		return nil, d.fail(StageComposeTools, stageStart, err)
	}
	historyTool, err := tool.ConnectedAgent(historyHandle, "Retrieve patient history")
	if err != nil {
		return nil, d.fail(StageComposeTools, stageStart, err)
	}
	conversationSpec, err := tool.Attach(platform.AgentSpec{
		Name:         ConversationAgentName,
		Model:        d.fleet.Model,
		Description:  "Main conversation agent for Canadian ER triage",
		Instructions: d.fleet.ConversationInstructions,
	}, triageTool, historyTool)
	if err != nil {
		return nil, d.fail(StageComposeTools, stageStart, err)
	}
	d.reportStage(StageComposeTools, stageStart, nil)

	// provision_composite
	stageStart = time.Now()
	conversationHandle, err := d.registry.Ensure(ctx, conversationSpec)
	if err != nil {
		return nil, d.fail(StageProvisionComposite, stageStart, err)
	}
	d.reportStage(StageProvisionComposite, stageStart, nil)

	// execute
	stageStart = time.Now()
	transcript, err := d.executor.Execute(ctx, conversationHandle, content)
	if err != nil {
		return nil, d.fail(StageExecute, stageStart, err)
	}
	d.reportStage(StageExecute, stageStart, nil)
	d.logger.Info("conversation executed", "thread_id", transcript.ThreadID, "run_id", transcript.RunID)

	// evaluate
	stageStart = time.Now()
	record, err := d.harness.Evaluate(ctx, transcript.ThreadID, transcript.RunID)
	if err != nil {
		return nil, d.fail(StageEvaluate, stageStart, err)
	}
	d.reportStage(StageEvaluate, stageStart, nil)

	d.logger.Info("orchestration run completed",
		"orchestration_run_id", orchestrationID,
		"evaluator_count", len(record),
		"failed_evaluators", len(record.Failed()),
	)

	return &Result{
		OrchestrationID: orchestrationID,
		Transcript:      transcript,
		Record:          record,
	}, nil
}

// reportStage emits one stage outcome. Loggers implementing StageLogger get
// the structured stage record with timing; plain loggers get the level-based
// fallback lines.
func (d *Driver) reportStage(stage Stage, start time.Time, err error) {
	if sl, ok := d.logger.(logging.StageLogger); ok {
		sl.LogStage(string(stage), time.Since(start), err)
		return
	}
	if err != nil {
		d.logger.Error("orchestration stage failed", "stage", string(stage), "error", err.Error())
		return
	}
	d.logger.Debug("orchestration stage completed", "stage", string(stage))
}

func (d *Driver) fail(stage Stage, start time.Time, err error) error {
	d.reportStage(stage, start, err)
	return &StageError{Stage: stage, Err: err}
}
