// File: internal/infra/db/postgres/chat_repo.go
package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"ai-chat-archive/internal/domain"
	"ai-chat-archive/internal/domain/model"
	"ai-chat-archive/internal/domain/ports/repository"
)

// Compile-time checks
var (
	_ repository.ChatRepository      = (*ChatRepo)(nil)
	_ repository.ChatIndexRepository = (*ChatRepo)(nil)
)

type ChatRepo struct {
	pool *pgxpool.Pool
}

func NewChatRepo(pool *pgxpool.Pool) *ChatRepo {
	return &ChatRepo{pool: pool}
}

func (r *ChatRepo) Save(ctx context.Context, chat *model.Chat) error {
	const q = `
INSERT INTO chats (title, head)
VALUES ($1,$2)
ON CONFLICT (title) DO UPDATE SET head = EXCLUDED.head;`
	if _, err := r.pool.Exec(ctx, q, chat.Title, chat.Head); err != nil {
		return fmt.Errorf("upsert chat %q: %w", chat.Title, domain.ErrStorage)
	}
	return nil
}

func (r *ChatRepo) Find(ctx context.Context, title string) (*model.Chat, error) {
	const q = `SELECT head FROM chats WHERE title=$1;`
	var head *string
	if err := r.pool.QueryRow(ctx, q, title).Scan(&head); err != nil {
		if err == pgx.ErrNoRows {
			return nil, fmt.Errorf("chat %q: %w", title, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("select chat %q: %w", title, domain.ErrStorage)
	}
	return &model.Chat{Title: title, Head: head}, nil
}

func (r *ChatRepo) ListTitles(ctx context.Context) ([]string, error) {
	const q = `SELECT title FROM chat_index ORDER BY position ASC;`
	rows, err := r.pool.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("list titles: %w", domain.ErrStorage)
	}
	defer rows.Close()

	titles := []string{}
	for rows.Next() {
		var title string
		if err := rows.Scan(&title); err != nil {
			return nil, fmt.Errorf("scan title: %w", domain.ErrStorage)
		}
		titles = append(titles, title)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows err: %w", domain.ErrStorage)
	}
	return titles, nil
}

func (r *ChatRepo) Register(ctx context.Context, title string) error {
	const q = `INSERT INTO chat_index (title) VALUES ($1);`
	if _, err := r.pool.Exec(ctx, q, title); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			// unique_violation: the title is already registered.
			return nil
		}
		return fmt.Errorf("register title %q: %w", title, domain.ErrStorage)
	}
	return nil
}
