// Package evaluation converts a completed conversation into evaluator inputs
// and runs a configured set of evaluators over them. Failure isolation is the
// first-class contract here: evaluators are independent, externally authored
// and may legitimately fail, so the harness records each failure and keeps
// going. One bad evaluator never invalidates the rest of the batch.
package evaluation

import (
	"context"
	"fmt"
)

// ToolCall captures one tool invocation observed in a run, for evaluators
// that judge tool usage.
type ToolCall struct {
	Name      string
	Arguments string
	Output    string
}

// EvalInput is the structured payload handed to every evaluator. It is built
// once per evaluation from a (threadID, runID) pair and never mutated.
type EvalInput struct {
	ThreadID  string
	RunID     string
	Query     string
	Response  string
	ToolCalls []ToolCall
}

// Result is an evaluator's structured score payload. Score semantics are
// evaluator-defined; the harness treats the payload as opaque.
type Result struct {
	Score   float64
	Reason  string
	Details map[string]any
}

// Evaluator judges an EvalInput against a rubric. Each evaluator is
// independently constructed with its own model/config.
type Evaluator interface {
	Evaluate(ctx context.Context, input *EvalInput) (*Result, error)
}

// EvaluatorFunc is a functional adapter to allow ordinary functions to be
// used as Evaluators.
type EvaluatorFunc func(ctx context.Context, input *EvalInput) (*Result, error)

// Evaluate implements Evaluator.
func (f EvaluatorFunc) Evaluate(ctx context.Context, input *EvalInput) (*Result, error) {
	return f(ctx, input)
}

// ConversionError reports that the evaluator input could not be built, e.g.
// because the run was not found or not completed. It aborts the whole
// evaluation with no partial record.
type ConversionError struct {
	ThreadID string
	RunID    string
	Cause    error
}

func (e *ConversionError) Error() string {
	return fmt.Sprintf("converting thread %s run %s for evaluation: %v", e.ThreadID, e.RunID, e.Cause)
}

// Unwrap exposes the underlying cause for errors.Is/As.
func (e *ConversionError) Unwrap() error { return e.Cause }

// EvaluatorError records the isolated failure of a single evaluator.
type EvaluatorError struct {
	Name  string
	Cause error
}

func (e *EvaluatorError) Error() string {
	return fmt.Sprintf("evaluator %q failed: %v", e.Name, e.Cause)
}

// Unwrap exposes the underlying cause for errors.Is/As.
func (e *EvaluatorError) Unwrap() error { return e.Cause }

// Outcome is the result-or-error entry of one evaluator. Exactly one of the
// two fields is set.
type Outcome struct {
	Result *Result
	Err    *EvaluatorError
}

// OK reports whether the evaluator produced a result.
func (o Outcome) OK() bool { return o.Err == nil }

// Record maps every configured evaluator name to its outcome. A record covers
// the full configured set: every name appears exactly once, win or fail. It
// is never mutated after construction.
type Record map[string]Outcome

// Failed returns the names of evaluators that recorded an error.
func (r Record) Failed() []string {
	var names []string
	for name, o := range r {
		if !o.OK() {
			names = append(names, name)
		}
	}
	return names
}
