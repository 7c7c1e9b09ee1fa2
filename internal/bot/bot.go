package bot

import (
	"context"
	"errors"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/xaenox/tutor-bot/internal/assistant"
	"github.com/xaenox/tutor-bot/internal/storage"
)

// Bot bridges Telegram chats to the tutor assistant. Every chat gets its
// own conversation thread, persisted so the conversation survives restarts;
// the assistant itself is shared read-only state across all chats.
type Bot struct {
	api     *tgbotapi.BotAPI
	storage storage.Storage
	session *assistant.Session
	logger  *zap.Logger
}

func New(token string, storage storage.Storage, session *assistant.Session, logger *zap.Logger) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to create bot: %w", err)
	}

	return &Bot{
		api:     api,
		storage: storage,
		session: session,
		logger:  logger,
	}, nil
}

func (b *Bot) Start() error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.api.GetUpdatesChan(u)

	for update := range updates {
		if update.Message == nil {
			continue
		}

		go b.handleMessage(update.Message)
	}

	return nil
}

func (b *Bot) handleMessage(message *tgbotapi.Message) {
	ctx := context.Background()

	if message.IsCommand() {
		b.handleCommand(ctx, message)
		return
	}

	text := message.Text
	if message.Caption != "" {
		text = message.Caption
	}
	if text == "" {
		return
	}

	correlationID := uuid.New().String()

	threadID, err := b.ensureThread(ctx, message.Chat.ID)
	if err != nil {
		b.logger.Error("Failed to prepare conversation thread",
			zap.Error(err),
			zap.String("correlation_id", correlationID),
			zap.Int64("chat_id", message.Chat.ID))
		b.sendErrorMessage(message.Chat.ID, "Sorry, I couldn't start our conversation. Please try again.")
		return
	}

	replies, err := b.session.Ask(ctx, threadID, text)
	if err != nil {
		b.logger.Error("Run did not complete",
			zap.Error(err),
			zap.String("correlation_id", correlationID),
			zap.Int64("chat_id", message.Chat.ID),
			zap.String("thread_id", threadID))
		b.sendErrorMessage(message.Chat.ID, runErrorText(err))
		return
	}

	for _, reply := range replies {
		if reply.Role != "assistant" {
			continue
		}
		if value := assistant.MessageText(reply); value != "" {
			b.sendReply(message.Chat.ID, message.MessageID, value)
		}
	}
}

// ensureThread looks up the chat's thread, creating and persisting one on
// first contact.
func (b *Bot) ensureThread(ctx context.Context, chatID int64) (string, error) {
	threadID, err := b.storage.GetThread(chatID)
	if err != nil {
		return "", fmt.Errorf("load thread for chat %d: %w", chatID, err)
	}
	if threadID != "" {
		if err := b.storage.UpdateThreadLastUsed(chatID); err != nil {
			b.logger.Warn("Failed to touch thread",
				zap.Error(err),
				zap.Int64("chat_id", chatID))
		}
		return threadID, nil
	}

	threadID, err = b.session.CreateThread(ctx)
	if err != nil {
		return "", err
	}
	if err := b.storage.SaveThread(chatID, threadID); err != nil {
		return "", fmt.Errorf("persist thread for chat %d: %w", chatID, err)
	}
	b.logger.Info("Started new conversation",
		zap.Int64("chat_id", chatID),
		zap.String("thread_id", threadID))
	return threadID, nil
}

func runErrorText(err error) string {
	var failed *assistant.RunFailedError
	var unhandled *assistant.UnhandledToolCallError
	switch {
	case errors.As(err, &failed):
		return "The tutor couldn't finish answering that one. Please try again."
	case errors.As(err, &unhandled):
		return "The tutor asked for a tool I don't support here. Try rephrasing your question."
	case errors.Is(err, assistant.ErrWaitTimeout):
		return "The tutor is taking too long. Please try again in a moment."
	default:
		return "Sorry, something went wrong while talking to the tutor. Please try again."
	}
}

func (b *Bot) handleCommand(ctx context.Context, message *tgbotapi.Message) {
	switch message.Command() {
	case "start":
		b.handleStart(message)
	case "help":
		b.handleHelp(message)
	case "new":
		b.handleNew(message)
	default:
		b.sendMessage(message.Chat.ID, "Unknown command. Use /help to see available commands.")
	}
}

func (b *Bot) handleStart(message *tgbotapi.Message) {
	welcome := `Welcome! I'm your personal math tutor. 🧮
Ask me anything — equations, concepts, homework problems — and I'll answer briefly.

Our conversation keeps its context, so follow-up questions work naturally.
Use /help to see all available commands.`

	b.sendMessage(message.Chat.ID, welcome)
}

func (b *Bot) handleHelp(message *tgbotapi.Message) {
	help := `Available commands:
/start - Start the bot
/help - Show this help message
/new - Forget our conversation and start a fresh one

Just send a math question as a regular message.`

	b.sendMessage(message.Chat.ID, help)
}

func (b *Bot) handleNew(message *tgbotapi.Message) {
	if err := b.storage.DeleteThread(message.Chat.ID); err != nil {
		b.logger.Error("Failed to delete thread",
			zap.Error(err),
			zap.Int64("chat_id", message.Chat.ID))
		b.sendErrorMessage(message.Chat.ID, "Sorry, I couldn't reset our conversation. Please try again.")
		return
	}
	b.sendMessage(message.Chat.ID, "Starting fresh! What would you like to work on?")
}

func (b *Bot) sendMessage(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := b.api.Send(msg); err != nil {
		b.logger.Error("Failed to send message",
			zap.Error(err),
			zap.Int64("chat_id", chatID))
	}
}

func (b *Bot) sendReply(chatID int64, replyToID int, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ReplyToMessageID = replyToID

	if _, err := b.api.Send(msg); err != nil {
		b.logger.Error("Failed to send reply",
			zap.Error(err),
			zap.Int64("chat_id", chatID))
	}
}

func (b *Bot) sendErrorMessage(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, "⚠️ "+text)
	if _, err := b.api.Send(msg); err != nil {
		b.logger.Error("Failed to send error message",
			zap.Error(err),
			zap.Int64("chat_id", chatID))
	}
}
