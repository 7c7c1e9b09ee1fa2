package models

import "time"

// ConversationThread maps a chat to its remote assistant thread. The thread
// itself (the message log) lives on the service side; only the association
// is persisted so a chat resumes its conversation across restarts.
type ConversationThread struct {
	ChatID     int64     `json:"chat_id"`
	ThreadID   string    `json:"thread_id"`
	CreatedAt  time.Time `json:"created_at"`
	LastUsedAt time.Time `json:"last_used_at"`
}
