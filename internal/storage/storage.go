package storage

// Storage persists the chat → assistant-thread association.
type Storage interface {
	// GetThread returns the thread id for a chat, or "" when the chat has
	// no conversation yet.
	GetThread(chatID int64) (string, error)
	SaveThread(chatID int64, threadID string) error
	UpdateThreadLastUsed(chatID int64) error
	DeleteThread(chatID int64) error
	Close() error
}
