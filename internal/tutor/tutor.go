// Package tutor defines the Math Tutor assistant: its instructions, the
// tools it can carry (code interpreter, document retrieval, the
// display_quiz function) and the console side of the quiz tool.
package tutor

import (
	"context"
	"fmt"

	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/xaenox/tutor-bot/internal/assistant"
)

const (
	// Name and Instructions define the assistant once; updates replace the
	// whole configuration, so they are re-sent on every modification.
	Name         = "Math Tutor"
	Instructions = "You are a personal math tutor. Answer questions briefly, in a sentence or less."
)

// Tutor creates or reuses the Math Tutor assistant and manages its tool
// configuration. The service's update operation replaces the entire
// configuration, so the attached tools and files are tracked here and
// re-sent in full on each change.
type Tutor struct {
	client  assistant.Client
	logger  *zap.Logger
	id      string
	model   string
	tools   []openai.AssistantTool
	fileIDs []string
}

func New(client assistant.Client, logger *zap.Logger) *Tutor {
	return &Tutor{client: client, logger: logger}
}

// EnsureAssistant reuses assistantID when set, otherwise creates the Math
// Tutor assistant on the given model. Returns the assistant id to run
// against.
func (t *Tutor) EnsureAssistant(ctx context.Context, assistantID, model string) (string, error) {
	t.model = model
	if assistantID != "" {
		t.id = assistantID
		t.logger.Info("Reusing existing assistant", zap.String("assistant_id", assistantID))
		return assistantID, nil
	}

	name := Name
	instructions := Instructions
	created, err := t.client.CreateAssistant(ctx, openai.AssistantRequest{
		Model:        model,
		Name:         &name,
		Instructions: &instructions,
	})
	if err != nil {
		return "", fmt.Errorf("create assistant: %w", err)
	}
	t.id = created.ID
	t.logger.Info("Created assistant",
		zap.String("assistant_id", created.ID),
		zap.String("model", model))
	return created.ID, nil
}

// AttachCodeInterpreter enables the hosted code execution tool.
func (t *Tutor) AttachCodeInterpreter(ctx context.Context) error {
	t.addTool(openai.AssistantTool{Type: openai.AssistantToolTypeCodeInterpreter})
	return t.update(ctx)
}

// AttachRetrieval uploads a document and enables the retrieval tool so the
// assistant can answer questions from it.
func (t *Tutor) AttachRetrieval(ctx context.Context, filename string, document []byte) error {
	file, err := t.client.CreateFileBytes(ctx, openai.FileBytesRequest{
		Name:    filename,
		Bytes:   document,
		Purpose: openai.PurposeAssistants,
	})
	if err != nil {
		return fmt.Errorf("upload document %s: %w", filename, err)
	}
	t.logger.Info("Uploaded document",
		zap.String("file_id", file.ID),
		zap.String("filename", filename))
	t.fileIDs = append(t.fileIDs, file.ID)
	t.addTool(openai.AssistantTool{Type: openai.AssistantToolTypeRetrieval})
	return t.update(ctx)
}

// AttachQuizFunction declares the display_quiz function tool. The handler
// itself is registered on the waiter, see Console.Handler.
func (t *Tutor) AttachQuizFunction(ctx context.Context) error {
	t.addTool(openai.AssistantTool{
		Type:     openai.AssistantToolTypeFunction,
		Function: QuizFunction(),
	})
	return t.update(ctx)
}

func (t *Tutor) addTool(tool openai.AssistantTool) {
	for _, existing := range t.tools {
		if existing.Type == tool.Type {
			return
		}
	}
	t.tools = append(t.tools, tool)
}

func (t *Tutor) update(ctx context.Context) error {
	name := Name
	instructions := Instructions
	_, err := t.client.ModifyAssistant(ctx, t.id, openai.AssistantRequest{
		Model:        t.model,
		Name:         &name,
		Instructions: &instructions,
		Tools:        t.tools,
		FileIDs:      t.fileIDs,
	})
	if err != nil {
		return fmt.Errorf("update assistant %s: %w", t.id, err)
	}
	return nil
}
