package main

import (
	"context"

	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/xaenox/tutor-bot/internal/assistant"
	"github.com/xaenox/tutor-bot/internal/bot"
	"github.com/xaenox/tutor-bot/internal/storage"
	"github.com/xaenox/tutor-bot/internal/tutor"
	"github.com/xaenox/tutor-bot/pkg/config"
)

func main() {
	// Initialize logger
	logger, _ := zap.NewProduction()
	defer logger.Sync()

	// Load configuration
	cfg, err := config.LoadConfig("config.yaml")
	if err != nil {
		logger.Fatal("Failed to load config", zap.Error(err), zap.String("path", "config.yaml"))
	}

	// Initialize storage
	var store storage.Storage
	if cfg.Database.UseInMemory {
		logger.Info("Using in-memory storage")
		store = storage.NewMemoryStorage()
	} else {
		logger.Info("Using PostgreSQL storage")
		dbConfig := storage.DatabaseConfig{
			Host:        cfg.Database.Host,
			Port:        cfg.Database.Port,
			User:        cfg.Database.User,
			Password:    cfg.Database.Password,
			DBName:      cfg.Database.DBName,
			SSLMode:     cfg.Database.SSLMode,
			UseInMemory: cfg.Database.UseInMemory,
		}
		store, err = storage.NewPostgresStorage(dbConfig)
		if err != nil {
			logger.Fatal("Failed to initialize storage", zap.Error(err))
		}
	}
	defer store.Close()

	client := openai.NewClient(cfg.OpenAI.APIKey)

	// Create or reuse the tutor assistant
	tut := tutor.New(client, logger)
	assistantID, err := tut.EnsureAssistant(context.Background(), cfg.OpenAI.AssistantID, cfg.OpenAI.Model)
	if err != nil {
		logger.Fatal("Failed to set up assistant", zap.Error(err))
	}

	waiter := assistant.NewWaiter(client, cfg.OpenAI.PollInterval, cfg.OpenAI.MaxWait, logger)
	session := assistant.NewSession(client, assistantID, waiter, logger)

	// Initialize bot
	b, err := bot.New(cfg.Telegram.Token, store, session, logger)
	if err != nil {
		logger.Fatal("Failed to create bot", zap.Error(err))
	}

	// Start the bot
	if err := b.Start(); err != nil {
		logger.Fatal("Bot error", zap.Error(err))
	}
}
