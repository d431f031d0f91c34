//go:build integration

package postgres

import (
	"context"
	"errors"
	"testing"

	"ai-chat-archive/internal/domain"
	"ai-chat-archive/internal/domain/model"
)

func TestMessageRepo_PutGetIdempotent(t *testing.T) {
	cleanup(t)
	ctx := context.Background()
	repo := NewMessageRepo(testPool)

	msg := model.NewUserMessage("hello")
	if err := repo.Put(ctx, msg); err != nil {
		t.Fatalf("first Put: %v", err)
	}
	if err := repo.Put(ctx, msg); err != nil {
		t.Fatalf("second Put must be idempotent: %v", err)
	}

	got, err := repo.Get(ctx, msg.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Role != msg.Role || got.Content != msg.Content || got.Parent != nil {
		t.Fatalf("round trip mismatch: %+v", got)
	}

	if _, err := repo.Get(ctx, "deadbeef"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestChatRepo_UpsertAndIndexOrder(t *testing.T) {
	cleanup(t)
	ctx := context.Background()
	repo := NewChatRepo(testPool)

	chat := model.NewChat("demo")
	if err := repo.Save(ctx, chat); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := repo.Register(ctx, "demo"); err != nil {
		t.Fatalf("Register: %v", err)
	}
	// Second registration is a no-op, not an error.
	if err := repo.Register(ctx, "demo"); err != nil {
		t.Fatalf("duplicate Register: %v", err)
	}
	if err := repo.Register(ctx, "other"); err != nil {
		t.Fatalf("Register other: %v", err)
	}

	chat.Advance("abc123")
	if err := repo.Save(ctx, chat); err != nil {
		t.Fatalf("Save with head: %v", err)
	}

	got, err := repo.Find(ctx, "demo")
	if err != nil {
		t.Fatalf("Find: %v", err)
	}
	if got.Head == nil || *got.Head != "abc123" {
		t.Fatalf("head not persisted: %+v", got)
	}

	titles, err := repo.ListTitles(ctx)
	if err != nil {
		t.Fatalf("ListTitles: %v", err)
	}
	if len(titles) != 2 || titles[0] != "demo" || titles[1] != "other" {
		t.Fatalf("unexpected index: %v", titles)
	}

	if _, err := repo.Find(ctx, "ghost"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
