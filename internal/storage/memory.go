package storage

import (
	"sync"
	"time"

	"github.com/xaenox/tutor-bot/internal/models"
)

type MemoryStorage struct {
	mu      sync.RWMutex
	threads map[int64]models.ConversationThread
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{
		threads: make(map[int64]models.ConversationThread),
	}
}

func (s *MemoryStorage) GetThread(chatID int64) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if thread, exists := s.threads[chatID]; exists {
		return thread.ThreadID, nil
	}
	return "", nil
}

func (s *MemoryStorage) SaveThread(chatID int64, threadID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	s.threads[chatID] = models.ConversationThread{
		ChatID:     chatID,
		ThreadID:   threadID,
		CreatedAt:  now,
		LastUsedAt: now,
	}
	return nil
}

func (s *MemoryStorage) UpdateThreadLastUsed(chatID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if thread, exists := s.threads[chatID]; exists {
		thread.LastUsedAt = time.Now()
		s.threads[chatID] = thread
	}
	return nil
}

func (s *MemoryStorage) DeleteThread(chatID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.threads, chatID)
	return nil
}

func (s *MemoryStorage) Close() error {
	// Nothing to close for in-memory storage
	return nil
}
