// File: internal/usecase/mocks_test.go
package usecase

import (
	"context"
	"errors"
	"sync"

	"github.com/rs/zerolog"

	"ai-chat-archive/internal/domain"
	"ai-chat-archive/internal/domain/model"
	"ai-chat-archive/internal/domain/ports/adapter"
	"ai-chat-archive/internal/domain/ports/repository"
)

func newTestLogger() *zerolog.Logger {
	logger := zerolog.New(nil)
	return &logger
}

// memMessageRepo is a small in-memory message store used by unit tests.
type memMessageRepo struct {
	mu     sync.RWMutex
	store  map[string]model.Message
	putErr error // simulate storage failures
	getErr error
}

func newMemMessageRepo() *memMessageRepo {
	return &memMessageRepo{store: make(map[string]model.Message)}
}

func (m *memMessageRepo) Put(ctx context.Context, msg *model.Message) error {
	if m.putErr != nil {
		return m.putErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.store[msg.ID] = *msg
	return nil
}

func (m *memMessageRepo) Get(ctx context.Context, id string) (*model.Message, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	msg, ok := m.store[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := msg
	return &cp, nil
}

func (m *memMessageRepo) delete(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.store, id)
}

var _ repository.MessageRepository = (*memMessageRepo)(nil)

// memChatRepo implements both the chat metadata and the index ports.
type memChatRepo struct {
	mu      sync.Mutex
	chats   map[string]model.Chat
	titles  []string
	saveErr error
	listErr error
}

func newMemChatRepo() *memChatRepo {
	return &memChatRepo{chats: make(map[string]model.Chat)}
}

func (m *memChatRepo) Save(ctx context.Context, chat *model.Chat) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.chats[chat.Title] = *chat
	return nil
}

func (m *memChatRepo) Find(ctx context.Context, title string) (*model.Chat, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	chat, ok := m.chats[title]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := chat
	return &cp, nil
}

func (m *memChatRepo) ListTitles(ctx context.Context) ([]string, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.titles...), nil
}

func (m *memChatRepo) Register(ctx context.Context, title string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, t := range m.titles {
		if t == title {
			return nil
		}
	}
	m.titles = append(m.titles, title)
	return nil
}

func (m *memChatRepo) drop(title string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.chats, title)
}

var (
	_ repository.ChatRepository      = (*memChatRepo)(nil)
	_ repository.ChatIndexRepository = (*memChatRepo)(nil)
)

// stubCompleter returns a canned reply or a canned error.
type stubCompleter struct {
	mu      sync.Mutex
	reply   string
	err     error
	prompts [][]adapter.Message
}

func (s *stubCompleter) Complete(ctx context.Context, history []adapter.Message) (string, error) {
	s.mu.Lock()
	s.prompts = append(s.prompts, append([]adapter.Message(nil), history...))
	s.mu.Unlock()
	if s.err != nil {
		return "", s.err
	}
	return s.reply, nil
}

func (s *stubCompleter) Model() string { return "stub-model" }

var _ adapter.CompletionAdapter = (*stubCompleter)(nil)

var errBoom = errors.New("boom")
