package evaluation

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/triagemesh/triagemesh/logging"
)

// evalRecorder captures LogEvaluator outcomes emitted by the harness.
type evalRecorder struct {
	logging.NoOpLogger

	names []string
	errs  map[string]error
}

func newEvalRecorder() *evalRecorder {
	return &evalRecorder{errs: map[string]error{}}
}

func (r *evalRecorder) LogEvaluator(name string, _ time.Duration, err error) {
	r.names = append(r.names, name)
	r.errs[name] = err
}

type fakeConverter struct {
	input *EvalInput
	err   error
	calls int
}

func (f *fakeConverter) Convert(_ context.Context, threadID, runID string) (*EvalInput, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	in := *f.input
	in.ThreadID = threadID
	in.RunID = runID
	return &in, nil
}

func testInput() *EvalInput {
	return &EvalInput{
		Query:    "Assess this patient",
		Response: "CTAS level 2 assigned",
	}
}

func constEvaluator(score float64) Evaluator {
	return EvaluatorFunc(func(_ context.Context, _ *EvalInput) (*Result, error) {
		return &Result{Score: score, Reason: "ok"}, nil
	})
}

func failingEvaluator(err error) Evaluator {
	return EvaluatorFunc(func(_ context.Context, _ *EvalInput) (*Result, error) {
		return nil, err
	})
}

func TestHarness_Evaluate_AllSucceed(t *testing.T) {
	h := NewHarness(&fakeConverter{input: testInput()}, map[string]Evaluator{
		"intent_resolution": constEvaluator(5),
		"task_adherence":    constEvaluator(4),
	})

	record, err := h.Evaluate(context.Background(), "thread-1", "run-1")
	require.NoError(t, err)

	require.Len(t, record, 2)
	assert.True(t, record["intent_resolution"].OK())
	assert.Equal(t, 5.0, record["intent_resolution"].Result.Score)
	assert.True(t, record["task_adherence"].OK())
	assert.Empty(t, record.Failed())
}

func TestHarness_Evaluate_IsolatesFailures(t *testing.T) {
	boom := errors.New("judge model unavailable")
	h := NewHarness(&fakeConverter{input: testInput()}, map[string]Evaluator{
		"intent_resolution":  constEvaluator(5),
		"task_adherence":     failingEvaluator(boom),
		"tool_call_accuracy": constEvaluator(3),
	})

	record, err := h.Evaluate(context.Background(), "thread-1", "run-1")
	require.NoError(t, err, "evaluator failures must not abort the batch")

	// Full coverage: one entry per configured evaluator, win or fail.
	require.Len(t, record, 3)
	assert.True(t, record["intent_resolution"].OK())
	assert.True(t, record["tool_call_accuracy"].OK())

	outcome := record["task_adherence"]
	require.False(t, outcome.OK())
	assert.Equal(t, "task_adherence", outcome.Err.Name)
	assert.ErrorIs(t, outcome.Err, boom)
	assert.Nil(t, outcome.Result)

	assert.Equal(t, []string{"task_adherence"}, record.Failed())
}

func TestHarness_Evaluate_RecoversPanics(t *testing.T) {
	h := NewHarness(&fakeConverter{input: testInput()}, map[string]Evaluator{
		"panicky": EvaluatorFunc(func(_ context.Context, _ *EvalInput) (*Result, error) {
			panic("nil map write")
		}),
		"steady": constEvaluator(4),
	})

	record, err := h.Evaluate(context.Background(), "thread-1", "run-1")
	require.NoError(t, err)

	require.False(t, record["panicky"].OK())
	assert.Contains(t, record["panicky"].Err.Error(), "panicked")
	assert.True(t, record["steady"].OK())
}

func TestHarness_Evaluate_RejectsNilResult(t *testing.T) {
	h := NewHarness(&fakeConverter{input: testInput()}, map[string]Evaluator{
		"empty": EvaluatorFunc(func(_ context.Context, _ *EvalInput) (*Result, error) {
			return nil, nil
		}),
	})

	record, err := h.Evaluate(context.Background(), "thread-1", "run-1")
	require.NoError(t, err)
	assert.False(t, record["empty"].OK())
}

func TestHarness_Evaluate_ConverterFailureAborts(t *testing.T) {
	convErr := &ConversionError{ThreadID: "thread-1", RunID: "run-1", Cause: errors.New("run not completed")}
	h := NewHarness(&fakeConverter{err: convErr}, map[string]Evaluator{
		"intent_resolution": constEvaluator(5),
	})

	record, err := h.Evaluate(context.Background(), "thread-1", "run-1")
	require.Error(t, err)
	assert.Nil(t, record, "no partial record on conversion failure")

	var ce *ConversionError
	assert.ErrorAs(t, err, &ce)
}

func TestHarness_Evaluate_ConvertsOncePerBatch(t *testing.T) {
	conv := &fakeConverter{input: testInput()}
	h := NewHarness(conv, map[string]Evaluator{
		"a": constEvaluator(1),
		"b": constEvaluator(2),
		"c": constEvaluator(3),
	})

	_, err := h.Evaluate(context.Background(), "thread-1", "run-1")
	require.NoError(t, err)
	assert.Equal(t, 1, conv.calls)
}

func TestHarness_Evaluate_ReportsPerEvaluatorOutcomes(t *testing.T) {
	boom := errors.New("judge model unavailable")
	rec := newEvalRecorder()
	h := NewHarness(&fakeConverter{input: testInput()}, map[string]Evaluator{
		"intent_resolution": constEvaluator(5),
		"task_adherence":    failingEvaluator(boom),
	}, func(o *Options) {
		o.Logger = rec
	})

	_, err := h.Evaluate(context.Background(), "thread-1", "run-1")
	require.NoError(t, err)

	assert.Equal(t, []string{"intent_resolution", "task_adherence"}, rec.names)
	assert.NoError(t, rec.errs["intent_resolution"])
	assert.ErrorIs(t, rec.errs["task_adherence"], boom)
}

func TestHarness_Evaluate_EmptyEvaluatorSet(t *testing.T) {
	h := NewHarness(&fakeConverter{input: testInput()}, nil)

	record, err := h.Evaluate(context.Background(), "thread-1", "run-1")
	require.NoError(t, err)
	assert.Empty(t, record)
}
