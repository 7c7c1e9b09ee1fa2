package assistant

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

// DefaultPollInterval is the delay between run status fetches. The service
// offers no push mechanism, so polling is the only option; the interval
// trades responsiveness against request volume.
const DefaultPollInterval = 500 * time.Millisecond

// ToolHandler executes one function tool call and returns the output to
// submit back into the run. args is the raw JSON argument payload supplied
// by the service.
type ToolHandler func(ctx context.Context, args json.RawMessage) (string, error)

// Waiter turns an asynchronous run into a synchronous result by polling its
// status at a fixed interval until it leaves the pending set.
type Waiter struct {
	client   Client
	interval time.Duration
	maxWait  time.Duration
	handlers map[string]ToolHandler
	logger   *zap.Logger
}

// NewWaiter creates a waiter polling every interval. maxWait of 0 means no
// client-side limit; the service's own run expiration is then the only
// circuit breaker.
func NewWaiter(client Client, interval, maxWait time.Duration, logger *zap.Logger) *Waiter {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	return &Waiter{
		client:   client,
		interval: interval,
		maxWait:  maxWait,
		handlers: make(map[string]ToolHandler),
		logger:   logger,
	}
}

// HandleFunc registers a handler for a function tool by name. Runs that
// require an unregistered function fail with UnhandledToolCallError.
func (w *Waiter) HandleFunc(name string, fn ToolHandler) {
	w.handlers[name] = fn
}

// WaitForRun blocks until the run reaches a status outside
// {queued, in_progress, cancelling}. The run is always returned exactly as
// last fetched, never with a locally fabricated status.
//
// requires_action runs are dispatched to the registered handlers and polling
// resumes after the outputs are submitted. If no handlers are registered at
// all, the run is returned as-is for the caller to deal with.
func (w *Waiter) WaitForRun(ctx context.Context, run openai.Run) (openai.Run, error) {
	started := time.Now()
	for {
		switch run.Status {
		case openai.RunStatusQueued, openai.RunStatusInProgress, openai.RunStatusCancelling:
			// Still pending, keep polling.
		case openai.RunStatusRequiresAction:
			next, dispatched, err := w.dispatchToolCalls(ctx, run)
			if err != nil {
				return run, err
			}
			if !dispatched {
				return run, nil
			}
			run = next
			continue
		case openai.RunStatusFailed, openai.RunStatusCancelled, openai.RunStatusExpired:
			return run, &RunFailedError{Run: run}
		default:
			return run, nil
		}

		if w.maxWait > 0 && time.Since(started) >= w.maxWait {
			return run, fmt.Errorf("run %s still %s after %s: %w", run.ID, run.Status, w.maxWait, ErrWaitTimeout)
		}

		select {
		case <-ctx.Done():
			return run, ctx.Err()
		case <-time.After(w.interval):
		}

		refreshed, err := w.client.RetrieveRun(ctx, run.ThreadID, run.ID)
		if err != nil {
			return run, fmt.Errorf("retrieve run %s: %w", run.ID, err)
		}
		run = refreshed
		w.logger.Debug("Polled run",
			zap.String("run_id", run.ID),
			zap.String("thread_id", run.ThreadID),
			zap.String("status", string(run.Status)))
	}
}

// dispatchToolCalls executes the run's pending tool calls and submits their
// outputs in a single request. The returned run is the post-submission
// snapshot. dispatched is false when this waiter has no handlers or the run
// carries no tool calls; the run is then left untouched.
func (w *Waiter) dispatchToolCalls(ctx context.Context, run openai.Run) (openai.Run, bool, error) {
	if len(w.handlers) == 0 {
		return run, false, nil
	}
	action := run.RequiredAction
	if action == nil || action.SubmitToolOutputs == nil || len(action.SubmitToolOutputs.ToolCalls) == 0 {
		return run, false, nil
	}

	calls := action.SubmitToolOutputs.ToolCalls
	outputs := make([]openai.ToolOutput, 0, len(calls))
	for _, call := range calls {
		handler, ok := w.handlers[call.Function.Name]
		if !ok {
			return run, false, &UnhandledToolCallError{RunID: run.ID, Function: call.Function.Name}
		}
		w.logger.Info("Executing tool call",
			zap.String("run_id", run.ID),
			zap.String("tool_call_id", call.ID),
			zap.String("function", call.Function.Name))
		out, err := handler(ctx, json.RawMessage(call.Function.Arguments))
		if err != nil {
			return run, false, fmt.Errorf("execute function %s for run %s: %w", call.Function.Name, run.ID, err)
		}
		outputs = append(outputs, openai.ToolOutput{
			ToolCallID: call.ID,
			Output:     out,
		})
	}

	next, err := w.client.SubmitToolOutputs(ctx, run.ThreadID, run.ID, openai.SubmitToolOutputsRequest{
		ToolOutputs: outputs,
	})
	if err != nil {
		return run, false, fmt.Errorf("submit tool outputs for run %s: %w", run.ID, err)
	}
	return next, true, nil
}
