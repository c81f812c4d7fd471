package evaluation

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/triagemesh/triagemesh/logging"
)

// Converter builds the evaluator input from a completed conversation. It is
// an external collaborator; implementations must fail with *ConversionError
// when the run cannot be converted.
type Converter interface {
	Convert(ctx context.Context, threadID, runID string) (*EvalInput, error)
}

// Options holds dependency + configuration overrides passed to NewHarness().
type Options struct {
	// Logger receives per-evaluator outcomes. Defaults to NoOpLogger.
	Logger logging.Logger
}

// Harness runs a configured mapping of evaluator name → evaluator as a
// partial-failure tolerant batch.
type Harness struct {
	converter  Converter
	evaluators map[string]Evaluator
	logger     logging.Logger
}

// NewHarness constructs a Harness over the converter and evaluator set.
func NewHarness(converter Converter, evaluators map[string]Evaluator, optFns ...func(o *Options)) *Harness {
	opts := Options{
		Logger: logging.NoOpLogger{},
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	return &Harness{
		converter:  converter,
		evaluators: evaluators,
		logger:     opts.Logger,
	}
}

// Evaluate converts the (threadID, runID) pair and runs every configured
// evaluator over the input. A converter failure aborts with no partial
// record. Evaluator failures are recorded per name and never abort the rest;
// the returned record holds exactly one entry per configured evaluator.
func (h *Harness) Evaluate(ctx context.Context, threadID, runID string) (Record, error) {
	input, err := h.converter.Convert(ctx, threadID, runID)
	if err != nil {
		return nil, err
	}
	h.logger.Info("converted run for evaluation", "thread_id", threadID, "run_id", runID, "evaluator_count", len(h.evaluators))

	el, hasEvalLogger := h.logger.(logging.EvaluatorLogger)

	record := make(Record, len(h.evaluators))
	for _, name := range h.names() {
		start := time.Now()
		result, err := runIsolated(ctx, h.evaluators[name], input)
		dur := time.Since(start)
		if err != nil {
			evalErr := &EvaluatorError{Name: name, Cause: err}
			record[name] = Outcome{Err: evalErr}
			if hasEvalLogger {
				el.LogEvaluator(name, dur, err)
			} else {
				h.logger.Warn("evaluator failed", "evaluator", name, "duration", dur, "error", err.Error())
			}
			continue
		}
		record[name] = Outcome{Result: result}
		if hasEvalLogger {
			el.LogEvaluator(name, dur, nil)
		} else {
			h.logger.Info("evaluator completed", "evaluator", name, "duration", dur, "score", result.Score)
		}
	}

	return record, nil
}

// names returns the configured evaluator names in stable order so logs and
// failures are deterministic across runs.
func (h *Harness) names() []string {
	names := make([]string, 0, len(h.evaluators))
	for name := range h.evaluators {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// runIsolated invokes one evaluator, converting panics into errors so a
// misbehaving evaluator cannot take down the batch.
func runIsolated(ctx context.Context, ev Evaluator, input *EvalInput) (result *Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			result = nil
			err = fmt.Errorf("evaluator panicked: %v", r)
		}
	}()

	result, err = ev.Evaluate(ctx, input)
	if err != nil {
		return nil, err
	}
	if result == nil {
		return nil, fmt.Errorf("evaluator returned no result")
	}
	return result, nil
}
