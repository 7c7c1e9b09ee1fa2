package storage

import "testing"

func TestMemoryStorageThreadLifecycle(t *testing.T) {
	s := NewMemoryStorage()
	defer s.Close()

	threadID, err := s.GetThread(42)
	if err != nil {
		t.Fatalf("get before save: %v", err)
	}
	if threadID != "" {
		t.Fatalf("expected no thread for a new chat, got %q", threadID)
	}

	if err := s.SaveThread(42, "thread_abc"); err != nil {
		t.Fatalf("save: %v", err)
	}
	threadID, err = s.GetThread(42)
	if err != nil {
		t.Fatalf("get after save: %v", err)
	}
	if threadID != "thread_abc" {
		t.Fatalf("expected thread_abc, got %q", threadID)
	}

	// Chats keep separate threads.
	if otherID, _ := s.GetThread(43); otherID != "" {
		t.Fatalf("thread leaked to another chat: %q", otherID)
	}

	if err := s.UpdateThreadLastUsed(42); err != nil {
		t.Fatalf("update last used: %v", err)
	}

	if err := s.SaveThread(42, "thread_new"); err != nil {
		t.Fatalf("replace: %v", err)
	}
	if threadID, _ = s.GetThread(42); threadID != "thread_new" {
		t.Fatalf("save should replace the thread, got %q", threadID)
	}

	if err := s.DeleteThread(42); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if threadID, _ = s.GetThread(42); threadID != "" {
		t.Fatalf("thread survived deletion: %q", threadID)
	}
}
