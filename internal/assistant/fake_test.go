package assistant

import (
	"context"
	"fmt"
	"sync"

	"github.com/sashabaranov/go-openai"
)

// fakeClient scripts the remote service for tests. It records the order of
// calls, assigns ids and creation times, and walks each run through a
// per-run status script on successive retrieves (the last status sticks).
type fakeClient struct {
	mu        sync.Mutex
	calls     []string
	threadSeq int
	msgSeq    int
	runSeq    int
	clock     int

	messages map[string][]openai.Message
	runs     map[string]*openai.Run
	scripts  map[string][]openai.RunStatus

	// script holds the statuses successive retrieves report for every run
	// created after it is set.
	script []openai.RunStatus
	// reply is appended as an assistant message the moment a run first
	// reaches completed.
	reply string
	// toolCalls are attached when a run reaches requires_action.
	toolCalls []openai.ToolCall
	// afterTools is the status a run takes once tool outputs are submitted.
	afterTools openai.RunStatus

	submitted []openai.ToolOutput
	retrieves int
}

func newFakeClient() *fakeClient {
	return &fakeClient{
		messages:   make(map[string][]openai.Message),
		runs:       make(map[string]*openai.Run),
		scripts:    make(map[string][]openai.RunStatus),
		script:     []openai.RunStatus{openai.RunStatusCompleted},
		afterTools: openai.RunStatusCompleted,
	}
}

func (f *fakeClient) record(call string) {
	f.calls = append(f.calls, call)
}

func (f *fakeClient) callLog() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.calls))
	copy(out, f.calls)
	return out
}

func (f *fakeClient) CreateThread(ctx context.Context, request openai.ThreadRequest) (openai.Thread, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.threadSeq++
	id := fmt.Sprintf("thread_%d", f.threadSeq)
	f.record("CreateThread " + id)
	f.messages[id] = nil
	return openai.Thread{ID: id, Object: "thread"}, nil
}

func (f *fakeClient) CreateMessage(ctx context.Context, threadID string, request openai.MessageRequest) (openai.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("CreateMessage " + threadID)
	return f.appendMessage(threadID, request.Role, request.Content, nil), nil
}

// appendMessage must be called with the mutex held.
func (f *fakeClient) appendMessage(threadID, role, text string, runID *string) openai.Message {
	f.msgSeq++
	f.clock++
	msg := openai.Message{
		ID:        fmt.Sprintf("msg_%d", f.msgSeq),
		Object:    "thread.message",
		CreatedAt: f.clock,
		ThreadID:  threadID,
		Role:      role,
		RunID:     runID,
		Content: []openai.MessageContent{{
			Type: "text",
			Text: &openai.MessageText{Value: text},
		}},
	}
	f.messages[threadID] = append(f.messages[threadID], msg)
	return msg
}

func (f *fakeClient) CreateRun(ctx context.Context, threadID string, request openai.RunRequest) (openai.Run, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("CreateRun " + threadID)
	f.runSeq++
	run := &openai.Run{
		ID:          fmt.Sprintf("run_%d", f.runSeq),
		Object:      "thread.run",
		ThreadID:    threadID,
		AssistantID: request.AssistantID,
		Status:      openai.RunStatusQueued,
	}
	f.runs[run.ID] = run
	f.scripts[run.ID] = append([]openai.RunStatus(nil), f.script...)
	return *run, nil
}

func (f *fakeClient) RetrieveRun(ctx context.Context, threadID string, runID string) (openai.Run, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("RetrieveRun " + runID)
	f.retrieves++
	run, ok := f.runs[runID]
	if !ok {
		return openai.Run{}, fmt.Errorf("no such run %s", runID)
	}
	if script := f.scripts[runID]; len(script) > 0 {
		f.transition(run, script[0])
		f.scripts[runID] = script[1:]
	}
	return *run, nil
}

func (f *fakeClient) SubmitToolOutputs(ctx context.Context, threadID string, runID string, request openai.SubmitToolOutputsRequest) (openai.Run, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("SubmitToolOutputs " + runID)
	run, ok := f.runs[runID]
	if !ok {
		return openai.Run{}, fmt.Errorf("no such run %s", runID)
	}
	f.submitted = append(f.submitted, request.ToolOutputs...)
	run.RequiredAction = nil
	f.transition(run, f.afterTools)
	return *run, nil
}

// transition must be called with the mutex held.
func (f *fakeClient) transition(run *openai.Run, status openai.RunStatus) {
	run.Status = status
	switch status {
	case openai.RunStatusRequiresAction:
		run.RequiredAction = &openai.RunRequiredAction{
			Type: openai.RequiredActionTypeSubmitToolOutputs,
			SubmitToolOutputs: &openai.SubmitToolOutputs{
				ToolCalls: f.toolCalls,
			},
		}
	case openai.RunStatusFailed:
		run.LastError = &openai.RunLastError{
			Code:    openai.RunErrorServerError,
			Message: "the model blew up",
		}
	case openai.RunStatusCompleted:
		if f.reply != "" {
			id := run.ID
			f.appendMessage(run.ThreadID, openai.ChatMessageRoleAssistant, f.reply, &id)
		}
	}
}

func (f *fakeClient) ListMessage(ctx context.Context, threadID string, limit *int, order *string, after *string, before *string, runID *string) (openai.MessagesList, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("ListMessage " + threadID)

	stored := f.messages[threadID]
	ordered := make([]openai.Message, len(stored))
	copy(ordered, stored)
	// Newest first is the service default.
	if order == nil || *order != "asc" {
		for i, j := 0, len(ordered)-1; i < j; i, j = i+1, j-1 {
			ordered[i], ordered[j] = ordered[j], ordered[i]
		}
	}
	if after != nil {
		cut := -1
		for i, m := range ordered {
			if m.ID == *after {
				cut = i
				break
			}
		}
		if cut >= 0 {
			ordered = ordered[cut+1:]
		}
	}
	return openai.MessagesList{Messages: ordered, Object: "list"}, nil
}

func (f *fakeClient) CreateAssistant(ctx context.Context, request openai.AssistantRequest) (openai.Assistant, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("CreateAssistant")
	return openai.Assistant{ID: "asst_1", Model: request.Model, Name: request.Name, Tools: request.Tools}, nil
}

func (f *fakeClient) ModifyAssistant(ctx context.Context, assistantID string, request openai.AssistantRequest) (openai.Assistant, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("ModifyAssistant " + assistantID)
	return openai.Assistant{ID: assistantID, Model: request.Model, Name: request.Name, Tools: request.Tools}, nil
}

func (f *fakeClient) CreateFileBytes(ctx context.Context, request openai.FileBytesRequest) (openai.File, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("CreateFileBytes " + request.Name)
	return openai.File{ID: "file_1", FileName: request.Name, Purpose: string(request.Purpose)}, nil
}

var _ Client = (*fakeClient)(nil)
