package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"ai-chat-archive/internal/domain"
	"ai-chat-archive/internal/domain/model"
)

// buildChain writes N hand-linked messages and returns them oldest first.
func buildChain(t *testing.T, msgs *memMessageRepo, n int) []*model.Message {
	t.Helper()
	ctx := context.Background()
	var chain []*model.Message
	var parent *string
	for i := 0; i < n; i++ {
		role := model.RoleUser
		if i%2 == 1 {
			role = model.RoleAssistant
		}
		m := &model.Message{
			Role:    role,
			Content: "msg-" + string(rune('0'+i)),
			Parent:  parent,
		}
		m.ID = model.ComputeMessageID(m.Role, m.Content, m.Parent)
		if err := msgs.Put(ctx, m); err != nil {
			t.Fatalf("put: %v", err)
		}
		id := m.ID
		parent = &id
		chain = append(chain, m)
	}
	return chain
}

func TestReconstruct_ChronologicalOrder(t *testing.T) {
	msgs := newMemMessageRepo()
	uc := NewChatUseCase(msgs, newMemChatRepo(), newMemChatRepo(), &stubCompleter{}, time.Second, newTestLogger())

	const n = 7
	chain := buildChain(t, msgs, n)
	head := chain[n-1].ID

	got, err := uc.reconstruct(context.Background(), head)
	if err != nil {
		t.Fatalf("reconstruct: %v", err)
	}
	if len(got) != n {
		t.Fatalf("expected %d messages, got %d", n, len(got))
	}
	for i, m := range got {
		if m.ID != chain[i].ID {
			t.Fatalf("position %d: expected %s, got %s", i, chain[i].ID, m.ID)
		}
	}
}

func TestReconstruct_RootReturnsSingleMessage(t *testing.T) {
	msgs := newMemMessageRepo()
	uc := NewChatUseCase(msgs, newMemChatRepo(), newMemChatRepo(), &stubCompleter{}, time.Second, newTestLogger())

	chain := buildChain(t, msgs, 5)
	got, err := uc.reconstruct(context.Background(), chain[0].ID)
	if err != nil {
		t.Fatalf("reconstruct: %v", err)
	}
	if len(got) != 1 || got[0].ID != chain[0].ID {
		t.Fatalf("reconstructing from the root should yield exactly the root")
	}
}

func TestReconstruct_DanglingParentIsBrokenChain(t *testing.T) {
	msgs := newMemMessageRepo()
	uc := NewChatUseCase(msgs, newMemChatRepo(), newMemChatRepo(), &stubCompleter{}, time.Second, newTestLogger())

	chain := buildChain(t, msgs, 4)
	msgs.delete(chain[1].ID)

	_, err := uc.reconstruct(context.Background(), chain[3].ID)
	if !errors.Is(err, domain.ErrBrokenChain) {
		t.Fatalf("expected ErrBrokenChain, got %v", err)
	}
}

func TestReconstruct_CycleIsCorruptData(t *testing.T) {
	ctx := context.Background()
	msgs := newMemMessageRepo()
	uc := NewChatUseCase(msgs, newMemChatRepo(), newMemChatRepo(), &stubCompleter{}, time.Second, newTestLogger())

	// Two messages pointing at each other. Such records can only come from a
	// corrupted store; the IDs here are forged on purpose.
	idA, idB := "aaaa", "bbbb"
	if err := msgs.Put(ctx, &model.Message{ID: idA, Role: model.RoleUser, Content: "a", Parent: &idB}); err != nil {
		t.Fatalf("put: %v", err)
	}
	if err := msgs.Put(ctx, &model.Message{ID: idB, Role: model.RoleAssistant, Content: "b", Parent: &idA}); err != nil {
		t.Fatalf("put: %v", err)
	}

	_, err := uc.reconstruct(ctx, idA)
	if !errors.Is(err, domain.ErrCorruptData) {
		t.Fatalf("expected ErrCorruptData for a parent cycle, got %v", err)
	}
}
