// File: internal/infra/fsstore/chat_store.go
package fsstore

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"ai-chat-archive/internal/domain"
	"ai-chat-archive/internal/domain/model"
	"ai-chat-archive/internal/domain/ports/repository"
)

// Compile-time checks
var (
	_ repository.ChatRepository      = (*ChatStore)(nil)
	_ repository.ChatIndexRepository = (*ChatStore)(nil)
)

// ChatStore persists chat metadata as <root>/chats/<title>.json and the
// ordered title registry as <root>/chats.txt, a JSON array. The index file
// name is kept for compatibility with existing data directories. The mutex
// guards the index read-modify-write so concurrent registrations cannot lose
// entries.
type ChatStore struct {
	dir       string
	indexPath string

	mu sync.Mutex
}

func NewChatStore(root string) (*ChatStore, error) {
	dir := filepath.Join(root, "chats")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create chat directory: %w", err)
	}
	s := &ChatStore{dir: dir, indexPath: filepath.Join(root, "chats.txt")}
	if _, err := os.Stat(s.indexPath); os.IsNotExist(err) {
		if err := os.WriteFile(s.indexPath, []byte("[]"), 0o644); err != nil {
			return nil, fmt.Errorf("initialize chat index: %w", err)
		}
	}
	return s, nil
}

func (s *ChatStore) chatPath(title string) string {
	return filepath.Join(s.dir, title+".json")
}

func (s *ChatStore) Save(ctx context.Context, chat *model.Chat) error {
	data, err := json.Marshal(chat)
	if err != nil {
		return fmt.Errorf("marshal chat %q: %w", chat.Title, err)
	}
	if err := os.WriteFile(s.chatPath(chat.Title), data, 0o644); err != nil {
		return fmt.Errorf("write chat %q: %w", chat.Title, domain.ErrStorage)
	}
	return nil
}

func (s *ChatStore) Find(ctx context.Context, title string) (*model.Chat, error) {
	data, err := os.ReadFile(s.chatPath(title))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("chat %q: %w", title, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("read chat %q: %w", title, domain.ErrStorage)
	}
	var chat model.Chat
	if err := json.Unmarshal(data, &chat); err != nil {
		return nil, fmt.Errorf("chat %q: %w", title, domain.ErrCorruptData)
	}
	return &chat, nil
}

func (s *ChatStore) ListTitles(ctx context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.readIndex()
}

func (s *ChatStore) Register(ctx context.Context, title string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	titles, err := s.readIndex()
	if err != nil {
		return err
	}
	for _, t := range titles {
		if t == title {
			return nil
		}
	}
	titles = append(titles, title)
	data, err := json.Marshal(titles)
	if err != nil {
		return fmt.Errorf("marshal chat index: %w", err)
	}
	if err := os.WriteFile(s.indexPath, data, 0o644); err != nil {
		return fmt.Errorf("write chat index: %w", domain.ErrStorage)
	}
	return nil
}

func (s *ChatStore) readIndex() ([]string, error) {
	data, err := os.ReadFile(s.indexPath)
	if err != nil {
		if os.IsNotExist(err) {
			// No chats yet is not an error.
			return []string{}, nil
		}
		return nil, fmt.Errorf("read chat index: %w", domain.ErrStorage)
	}
	if len(data) == 0 {
		return []string{}, nil
	}
	var titles []string
	if err := json.Unmarshal(data, &titles); err != nil {
		return nil, fmt.Errorf("chat index: %w", domain.ErrCorruptData)
	}
	return titles, nil
}
