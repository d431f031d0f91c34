// File: internal/infra/fsstore/message_store.go
package fsstore

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"ai-chat-archive/internal/domain"
	"ai-chat-archive/internal/domain/model"
	"ai-chat-archive/internal/domain/ports/repository"
)

// Compile-time check
var _ repository.MessageRepository = (*MessageStore)(nil)

// MessageStore keeps one JSON file per message under <root>/messages, named by
// the message's content hash. Writes need no locking: the key is derived from
// the content, so concurrent writers of the same message write identical bytes.
type MessageStore struct {
	dir string
}

func NewMessageStore(root string) (*MessageStore, error) {
	dir := filepath.Join(root, "messages")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create message directory: %w", err)
	}
	return &MessageStore{dir: dir}, nil
}

func (s *MessageStore) path(id string) string {
	return filepath.Join(s.dir, id+".json")
}

func (s *MessageStore) Put(ctx context.Context, msg *model.Message) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal message %s: %w", msg.ID, err)
	}
	if err := os.WriteFile(s.path(msg.ID), data, 0o644); err != nil {
		return fmt.Errorf("write message %s: %w", msg.ID, domain.ErrStorage)
	}
	return nil
}

func (s *MessageStore) Get(ctx context.Context, id string) (*model.Message, error) {
	data, err := os.ReadFile(s.path(id))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("message %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("read message %s: %w", id, domain.ErrStorage)
	}

	var raw struct {
		ID      string  `json:"id"`
		Role    string  `json:"role"`
		Content string  `json:"content"`
		Parent  *string `json:"parent"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("message %s: %w", id, domain.ErrCorruptData)
	}
	role, err := model.ParseRole(raw.Role)
	if err != nil {
		return nil, fmt.Errorf("message %s has role %q: %w", id, raw.Role, domain.ErrCorruptData)
	}
	// The file name is the authoritative key; a record carrying a different
	// embedded ID has been tampered with or misplaced.
	if raw.ID != "" && raw.ID != id {
		return nil, fmt.Errorf("message %s embeds ID %s: %w", id, raw.ID, domain.ErrCorruptData)
	}
	return &model.Message{ID: id, Role: role, Content: raw.Content, Parent: raw.Parent}, nil
}
