package repository

import (
	"context"

	"ai-chat-archive/internal/domain/model"
)

// MessageRepository is the content-addressed message store. Put is idempotent:
// the key is derived from the content, so rewriting a message overwrites it
// with identical bytes. Implementations return domain.ErrNotFound for missing
// IDs, domain.ErrCorruptData for unparseable records and domain.ErrStorage for
// I/O failures.
type MessageRepository interface {
	Put(ctx context.Context, msg *model.Message) error
	Get(ctx context.Context, id string) (*model.Message, error)
}
