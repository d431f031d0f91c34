package repository

import (
	"context"

	"ai-chat-archive/internal/domain/model"
)

// ChatRepository persists per-chat metadata keyed by title. Save is an upsert:
// creating a chat that already exists rewrites its record.
type ChatRepository interface {
	Save(ctx context.Context, chat *model.Chat) error
	Find(ctx context.Context, title string) (*model.Chat, error)
}

// ChatIndexRepository is the ordered registry of known chat titles.
// Register must be atomic with respect to the index read-modify-write so two
// concurrent registrations of different titles both survive. Registering an
// existing title is a no-op.
type ChatIndexRepository interface {
	ListTitles(ctx context.Context) ([]string, error)
	Register(ctx context.Context, title string) error
}
