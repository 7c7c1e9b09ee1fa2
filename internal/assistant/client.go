package assistant

import (
	"context"

	"github.com/sashabaranov/go-openai"
)

// Client is the slice of the OpenAI Assistants API this package needs.
// *openai.Client satisfies it directly; tests substitute a fake.
type Client interface {
	CreateAssistant(ctx context.Context, request openai.AssistantRequest) (openai.Assistant, error)
	ModifyAssistant(ctx context.Context, assistantID string, request openai.AssistantRequest) (openai.Assistant, error)
	CreateThread(ctx context.Context, request openai.ThreadRequest) (openai.Thread, error)
	CreateMessage(ctx context.Context, threadID string, request openai.MessageRequest) (openai.Message, error)
	ListMessage(ctx context.Context, threadID string, limit *int, order *string, after *string, before *string, runID *string) (openai.MessagesList, error)
	CreateRun(ctx context.Context, threadID string, request openai.RunRequest) (openai.Run, error)
	RetrieveRun(ctx context.Context, threadID string, runID string) (openai.Run, error)
	SubmitToolOutputs(ctx context.Context, threadID string, runID string, request openai.SubmitToolOutputsRequest) (openai.Run, error)
	CreateFileBytes(ctx context.Context, request openai.FileBytesRequest) (openai.File, error)
}

var _ Client = (*openai.Client)(nil)

// Order controls message listing direction.
type Order string

const (
	// OrderAscending lists messages oldest first (chronological).
	OrderAscending Order = "asc"
	// OrderDescending is the service default: newest first, so the first
	// page of a paginated listing holds the latest messages.
	OrderDescending Order = "desc"
)
