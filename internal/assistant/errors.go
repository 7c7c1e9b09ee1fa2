package assistant

import (
	"errors"
	"fmt"

	"github.com/sashabaranov/go-openai"
)

// ErrWaitTimeout is returned when a run is still pending after the waiter's
// configured maximum wait.
var ErrWaitTimeout = errors.New("timed out waiting for run")

// RunFailedError reports a run that ended in failed, cancelled or expired.
// The run is also returned alongside the error so callers can inspect it.
type RunFailedError struct {
	Run openai.Run
}

func (e *RunFailedError) Error() string {
	if e.Run.LastError != nil {
		return fmt.Sprintf("run %s ended with status %s: %s: %s",
			e.Run.ID, e.Run.Status, e.Run.LastError.Code, e.Run.LastError.Message)
	}
	return fmt.Sprintf("run %s ended with status %s", e.Run.ID, e.Run.Status)
}

// UnhandledToolCallError reports a requires_action run that asked for a
// function no handler is registered for. Without a submitted tool output the
// run would stay in requires_action until the service expires it, so this is
// surfaced instead of polled past.
type UnhandledToolCallError struct {
	RunID    string
	Function string
}

func (e *UnhandledToolCallError) Error() string {
	return fmt.Sprintf("run %s requires function %q but no handler is registered", e.RunID, e.Function)
}
