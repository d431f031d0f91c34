// File: internal/infra/db/postgres/message_repo.go
package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"ai-chat-archive/internal/domain"
	"ai-chat-archive/internal/domain/model"
	"ai-chat-archive/internal/domain/ports/repository"
)

var _ repository.MessageRepository = (*MessageRepo)(nil)

type MessageRepo struct {
	pool *pgxpool.Pool
}

func NewMessageRepo(pool *pgxpool.Pool) *MessageRepo {
	return &MessageRepo{pool: pool}
}

func (r *MessageRepo) Put(ctx context.Context, msg *model.Message) error {
	// The ID is derived from the content, so a conflicting row is by
	// construction identical. DO NOTHING keeps the write idempotent.
	const q = `
INSERT INTO messages (id, role, content, parent)
VALUES ($1,$2,$3,$4)
ON CONFLICT (id) DO NOTHING;`
	if _, err := r.pool.Exec(ctx, q, msg.ID, string(msg.Role), msg.Content, msg.Parent); err != nil {
		return fmt.Errorf("insert message %s: %w", msg.ID, domain.ErrStorage)
	}
	return nil
}

func (r *MessageRepo) Get(ctx context.Context, id string) (*model.Message, error) {
	const q = `SELECT role, content, parent FROM messages WHERE id=$1;`
	var (
		roleStr string
		content string
		parent  *string
	)
	if err := r.pool.QueryRow(ctx, q, id).Scan(&roleStr, &content, &parent); err != nil {
		if err == pgx.ErrNoRows {
			return nil, fmt.Errorf("message %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("select message %s: %w", id, domain.ErrStorage)
	}
	role, err := model.ParseRole(roleStr)
	if err != nil {
		return nil, fmt.Errorf("message %s has role %q: %w", id, roleStr, domain.ErrCorruptData)
	}
	return &model.Message{ID: id, Role: role, Content: content, Parent: parent}, nil
}
