// Command tutor walks through a full conversation with the Math Tutor
// assistant: a question with a follow-up, three conversations running
// concurrently against the same assistant, and a quiz driven by the
// display_quiz function tool.
package main

import (
	"context"
	"fmt"
	"os"
	"sync"

	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/xaenox/tutor-bot/internal/assistant"
	"github.com/xaenox/tutor-bot/internal/tutor"
	"github.com/xaenox/tutor-bot/pkg/config"
)

func main() {
	logger, _ := zap.NewProduction()
	defer logger.Sync()

	cfg, err := config.LoadConfig("config.yaml")
	if err != nil {
		logger.Fatal("Failed to load config", zap.Error(err), zap.String("path", "config.yaml"))
	}

	ctx := context.Background()
	client := openai.NewClient(cfg.OpenAI.APIKey)

	tut := tutor.New(client, logger)
	assistantID, err := tut.EnsureAssistant(ctx, cfg.OpenAI.AssistantID, cfg.OpenAI.Model)
	if err != nil {
		logger.Fatal("Failed to set up assistant", zap.Error(err))
	}

	waiter := assistant.NewWaiter(client, cfg.OpenAI.PollInterval, cfg.OpenAI.MaxWait, logger)
	console := tutor.NewConsole(os.Stdin, os.Stdout)
	waiter.HandleFunc(tutor.FunctionName, console.Handler())

	session := assistant.NewSession(client, assistantID, waiter, logger)

	// One conversation, with a follow-up that relies on the thread keeping
	// its context.
	threadID, run, err := session.CreateThreadAndRun(ctx, "I need to solve the equation `3x + 11 = 14`. Can you help me?")
	if err != nil {
		logger.Fatal("Failed to start conversation", zap.Error(err))
	}
	if _, err := waiter.WaitForRun(ctx, run); err != nil {
		logger.Fatal("Run did not complete", zap.Error(err))
	}
	printThread(ctx, session, threadID, logger)

	replies, err := session.Ask(ctx, threadID, "Could you explain this to me?")
	if err != nil {
		logger.Fatal("Follow-up failed", zap.Error(err))
	}
	fmt.Println("# Follow-up")
	fmt.Println(assistant.Transcript(replies))

	// Three independent conversations against the same assistant. They
	// share nothing but the read-only assistant id, so they can run on
	// separate goroutines.
	questions := []string{
		"I need to solve the equation `3x + 11 = 14`. Can you help me?",
		"Could you explain linear algebra to me?",
		"I don't like math. What can I do?",
	}
	transcripts := make([]string, len(questions))
	var wg sync.WaitGroup
	for i, question := range questions {
		wg.Add(1)
		go func(i int, question string) {
			defer wg.Done()
			threadID, run, err := session.CreateThreadAndRun(ctx, question)
			if err != nil {
				logger.Error("Failed to start conversation", zap.Error(err), zap.String("question", question))
				return
			}
			if _, err := waiter.WaitForRun(ctx, run); err != nil {
				logger.Error("Run did not complete", zap.Error(err), zap.String("thread_id", threadID))
				return
			}
			messages, err := session.Response(ctx, threadID, assistant.OrderAscending)
			if err != nil {
				logger.Error("Failed to list messages", zap.Error(err), zap.String("thread_id", threadID))
				return
			}
			transcripts[i] = assistant.Transcript(messages)
		}(i, question)
	}
	wg.Wait()
	for _, transcript := range transcripts {
		fmt.Println("# Messages")
		fmt.Println(transcript)
	}

	// Equip the assistant with its tools and let it quiz the student
	// through the display_quiz function.
	if err := tut.AttachCodeInterpreter(ctx); err != nil {
		logger.Fatal("Failed to attach code interpreter", zap.Error(err))
	}
	if err := tut.AttachQuizFunction(ctx); err != nil {
		logger.Fatal("Failed to attach quiz function", zap.Error(err))
	}

	quizThread, run, err := session.CreateThreadAndRun(ctx,
		"Make a quiz with 2 questions: one open ended, one multiple choice. Then, give me feedback for the responses.")
	if err != nil {
		logger.Fatal("Failed to start quiz conversation", zap.Error(err))
	}
	if _, err := waiter.WaitForRun(ctx, run); err != nil {
		logger.Fatal("Quiz run did not complete", zap.Error(err))
	}
	printThread(ctx, session, quizThread, logger)
}

func printThread(ctx context.Context, session *assistant.Session, threadID string, logger *zap.Logger) {
	messages, err := session.Response(ctx, threadID, assistant.OrderAscending)
	if err != nil {
		logger.Fatal("Failed to list messages", zap.Error(err), zap.String("thread_id", threadID))
	}
	fmt.Println("# Messages")
	fmt.Println(assistant.Transcript(messages))
}
