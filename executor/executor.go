// Package executor drives one request/response cycle against a remote agent:
// it opens a thread, appends the user message, starts a run, polls the run to
// a terminal state and collects the ordered transcript. Waiting for the run is
// the only blocking operation in the orchestration core; it is modeled as an
// explicit poll loop over an injectable clock so tests can script state
// sequences without real sleeps.
package executor

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/triagemesh/triagemesh/logging"
	"github.com/triagemesh/triagemesh/platform"
)

// MessageRejectedError reports malformed conversation input refused before or
// by the platform. It is fatal for the execution and is not retried.
type MessageRejectedError struct {
	Reason string
	Cause  error
}

func (e *MessageRejectedError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("message rejected: %s: %v", e.Reason, e.Cause)
	}
	return fmt.Sprintf("message rejected: %s", e.Reason)
}

// Unwrap exposes the underlying cause for errors.Is/As.
func (e *MessageRejectedError) Unwrap() error { return e.Cause }

// RunTerminatedError reports a run reaching a non-successful terminal state,
// or the executor's own deadline elapsing while the remote state was still
// non-terminal (State == platform.RunStateClientExpired). Fatal for the
// execution; retrying is a caller decision.
type RunTerminatedError struct {
	State platform.RunState
	RunID string
}

func (e *RunTerminatedError) Error() string {
	return fmt.Sprintf("run %s terminated with state %q", e.RunID, e.State)
}

// ErrRunCancelledByCaller is returned when the caller's context is cancelled
// during polling. The executor stops waiting and abandons the run locally; no
// remote cancel call is attempted.
var ErrRunCancelledByCaller = errors.New("run wait cancelled by caller")

// Clock abstracts time for the poll loop. The zero-dependency seam keeps
// tests deterministic: a fake clock scripts Now/After without sleeping.
type Clock interface {
	Now() time.Time
	After(d time.Duration) <-chan time.Time
}

type realClock struct{}

func (realClock) Now() time.Time                         { return time.Now() }
func (realClock) After(d time.Duration) <-chan time.Time { return time.After(d) }

// Transcript is the ordered, sanitized message sequence of a completed run.
type Transcript struct {
	ThreadID string
	RunID    string
	AgentID  string
	Messages []platform.Message
}

// FinalResponse returns the text of the last assistant message, or "" when
// the transcript holds none.
func (t *Transcript) FinalResponse() string {
	for i := len(t.Messages) - 1; i >= 0; i-- {
		if t.Messages[i].Role == platform.RoleAssistant {
			return t.Messages[i].Text
		}
	}
	return ""
}

// Options holds dependency + configuration overrides passed to New().
type Options struct {
	// PollInterval is the delay between run state polls.
	PollInterval time.Duration
	// Timeout bounds the total wait for a terminal state. Expiry is reported
	// as RunTerminatedError with the client-side expired state, distinct from
	// a platform-reported expiry.
	Timeout time.Duration
	// Clock overrides the time source (tests).
	Clock Clock
	// Logger receives execution events. Defaults to NoOpLogger.
	Logger logging.Logger
}

// Executor runs conversations against remote agents. Each Execute call
// creates exactly one thread and one run; neither is deleted afterwards
// (cleanup is left to the platform's retention policy).
type Executor struct {
	client       platform.Client
	pollInterval time.Duration
	timeout      time.Duration
	clock        Clock
	logger       logging.Logger
}

// New constructs an Executor with optional overrides.
func New(client platform.Client, optFns ...func(o *Options)) *Executor {
	opts := Options{
		PollInterval: 2 * time.Second,
		Timeout:      5 * time.Minute,
		Clock:        realClock{},
		Logger:       logging.NoOpLogger{},
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	return &Executor{
		client:       client,
		pollInterval: opts.PollInterval,
		timeout:      opts.Timeout,
		clock:        opts.Clock,
		logger:       opts.Logger,
	}
}

// reservedBrackets maps platform-reserved bracket glyphs (citation markers and
// their angle-bracket relatives) to plain ASCII brackets for downstream
// readability.
var reservedBrackets = strings.NewReplacer(
	"【", "[",
	"】", "]",
	"〈", "[",
	"〉", "]",
)

// Execute runs one conversation cycle: thread, user message, run, poll to a
// terminal state, ordered transcript. A completed run yields the thread's
// messages in ascending creation order with reserved bracket glyphs
// normalized; any other terminal state yields *RunTerminatedError.
func (e *Executor) Execute(ctx context.Context, agent platform.AgentHandle, content string) (*Transcript, error) {
	if strings.TrimSpace(content) == "" {
		return nil, &MessageRejectedError{Reason: "content must not be empty"}
	}

	thread, err := e.client.CreateThread(ctx)
	if err != nil {
		return nil, fmt.Errorf("create thread: %w", err)
	}
	e.logger.Info("thread created", "thread_id", thread.ID, "agent_name", agent.Name)

	msg, err := e.client.CreateMessage(ctx, thread.ID, platform.RoleUser, content)
	if err != nil {
		return nil, &MessageRejectedError{Reason: "platform refused user message", Cause: err}
	}
	e.logger.Debug("user message appended", "thread_id", thread.ID, "message_id", msg.ID)

	run, err := e.client.CreateRun(ctx, thread.ID, agent.ID)
	if err != nil {
		return nil, fmt.Errorf("create run: %w", err)
	}

	run, err = e.waitForTerminal(ctx, run)
	if err != nil {
		return nil, err
	}

	if run.State != platform.RunStateCompleted {
		return nil, &RunTerminatedError{State: run.State, RunID: run.ID}
	}

	messages, err := e.client.ListMessages(ctx, thread.ID, platform.SortOrderAscending)
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	for i := range messages {
		messages[i].Text = reservedBrackets.Replace(messages[i].Text)
	}

	e.logger.Info("run completed", "thread_id", thread.ID, "run_id", run.ID, "message_count", len(messages))

	return &Transcript{
		ThreadID: thread.ID,
		RunID:    run.ID,
		AgentID:  agent.ID,
		Messages: messages,
	}, nil
}

// waitForTerminal polls the run until the platform reports a terminal state,
// the executor deadline elapses, or the caller cancels.
func (e *Executor) waitForTerminal(ctx context.Context, run platform.Run) (platform.Run, error) {
	start := e.clock.Now()
	attempt := 0

	for {
		if run.State.IsTerminal() {
			return run, nil
		}

		elapsed := e.clock.Now().Sub(start)
		if pl, ok := e.logger.(logging.RunPollLogger); ok {
			pl.LogRunPoll(run.ID, string(run.State), attempt, elapsed)
		} else {
			e.logger.Debug("run poll", "run_id", run.ID, "state", string(run.State), "attempt", attempt, "elapsed", elapsed)
		}

		if elapsed >= e.timeout {
			return run, &RunTerminatedError{State: platform.RunStateClientExpired, RunID: run.ID}
		}

		select {
		case <-ctx.Done():
			// Local abandonment only; the remote run keeps going.
			return run, fmt.Errorf("run %s: %w", run.ID, ErrRunCancelledByCaller)
		case <-e.clock.After(e.pollInterval):
		}

		attempt++
		next, err := e.client.GetRun(ctx, run.ThreadID, run.ID)
		if err != nil {
			return run, fmt.Errorf("get run %s: %w", run.ID, err)
		}
		run = next
	}
}
