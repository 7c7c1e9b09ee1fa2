package assistant

import (
	"context"
	"fmt"

	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

// Session composes conversations against one assistant. The assistant id is
// the only shared state between conversations and it is read-only, so a
// single Session is safe to use from concurrent goroutines, one thread each.
type Session struct {
	client      Client
	assistantID string
	waiter      *Waiter
	logger      *zap.Logger
}

func NewSession(client Client, assistantID string, waiter *Waiter, logger *zap.Logger) *Session {
	return &Session{
		client:      client,
		assistantID: assistantID,
		waiter:      waiter,
		logger:      logger,
	}
}

// AssistantID returns the assistant this session runs against.
func (s *Session) AssistantID() string {
	return s.assistantID
}

// CreateThread opens a new empty conversation thread. Threads exist
// independently of assistants; the association happens per run.
func (s *Session) CreateThread(ctx context.Context) (string, error) {
	thread, err := s.client.CreateThread(ctx, openai.ThreadRequest{})
	if err != nil {
		return "", fmt.Errorf("create thread: %w", err)
	}
	s.logger.Debug("Created thread", zap.String("thread_id", thread.ID))
	return thread.ID, nil
}

// SubmitMessage appends a user message to the thread and starts a run for
// it. The append strictly precedes run creation: a run executes against
// whatever messages exist in the thread at the moment it is created.
func (s *Session) SubmitMessage(ctx context.Context, threadID, text string) (openai.Run, error) {
	_, run, err := s.submit(ctx, threadID, text)
	return run, err
}

// CreateThreadAndRun opens a fresh thread and submits the first user
// message on it. Each call is independent, so concurrent calls model
// concurrent users of the same assistant.
func (s *Session) CreateThreadAndRun(ctx context.Context, text string) (string, openai.Run, error) {
	threadID, err := s.CreateThread(ctx)
	if err != nil {
		return "", openai.Run{}, err
	}
	run, err := s.SubmitMessage(ctx, threadID, text)
	return threadID, run, err
}

// Ask is the synchronous round trip: submit the text, wait for the run to
// finish and return the messages added after the submitted user message, in
// chronological order.
func (s *Session) Ask(ctx context.Context, threadID, text string) ([]openai.Message, error) {
	msg, run, err := s.submit(ctx, threadID, text)
	if err != nil {
		return nil, err
	}
	if _, err := s.waiter.WaitForRun(ctx, run); err != nil {
		return nil, err
	}
	return s.ResponseAfter(ctx, threadID, OrderAscending, msg.ID)
}

// Response lists every message in the thread. OrderAscending is
// chronological; OrderDescending (the service default) puts the newest
// message first.
func (s *Session) Response(ctx context.Context, threadID string, order Order) ([]openai.Message, error) {
	return s.list(ctx, threadID, order, "")
}

// ResponseAfter lists the messages created after afterMessageID, in the
// given order.
func (s *Session) ResponseAfter(ctx context.Context, threadID string, order Order, afterMessageID string) ([]openai.Message, error) {
	return s.list(ctx, threadID, order, afterMessageID)
}

func (s *Session) submit(ctx context.Context, threadID, text string) (openai.Message, openai.Run, error) {
	msg, err := s.client.CreateMessage(ctx, threadID, openai.MessageRequest{
		Role:    openai.ChatMessageRoleUser,
		Content: text,
	})
	if err != nil {
		return openai.Message{}, openai.Run{}, fmt.Errorf("append message to thread %s: %w", threadID, err)
	}
	run, err := s.client.CreateRun(ctx, threadID, openai.RunRequest{
		AssistantID: s.assistantID,
	})
	if err != nil {
		return msg, openai.Run{}, fmt.Errorf("create run on thread %s: %w", threadID, err)
	}
	s.logger.Debug("Submitted message",
		zap.String("thread_id", threadID),
		zap.String("message_id", msg.ID),
		zap.String("run_id", run.ID))
	return msg, run, nil
}

func (s *Session) list(ctx context.Context, threadID string, order Order, after string) ([]openai.Message, error) {
	var orderArg, afterArg *string
	if order != "" {
		v := string(order)
		orderArg = &v
	}
	if after != "" {
		afterArg = &after
	}
	listed, err := s.client.ListMessage(ctx, threadID, nil, orderArg, afterArg, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("list messages in thread %s: %w", threadID, err)
	}
	return listed.Messages, nil
}
