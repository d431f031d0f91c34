// File: internal/usecase/chat_uc.go
package usecase

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"ai-chat-archive/internal/domain"
	"ai-chat-archive/internal/domain/model"
	"ai-chat-archive/internal/domain/ports/adapter"
	"ai-chat-archive/internal/domain/ports/repository"
	"ai-chat-archive/internal/infra/logging"
)

// Compile-time check
var _ ChatUseCase = (*chatUC)(nil)

type ChatUseCase interface {
	// CreateChat registers the title and writes fresh metadata. Creating a chat
	// whose title already exists rewrites the metadata but leaves the index
	// untouched (create-or-reset).
	CreateChat(ctx context.Context, title string) (*model.Chat, error)

	// ListChats resolves every indexed title; chats whose metadata cannot be
	// read are skipped rather than failing the whole listing.
	ListChats(ctx context.Context) ([]*model.Chat, error)

	// PostUserMessage persists the user message as a new chain root, advances
	// the head, asks the completion adapter for a reply and, on success,
	// persists the assistant message chained to the user message and advances
	// the head again. Nothing already persisted is rolled back on failure.
	PostUserMessage(ctx context.Context, title, content string) (user, assistant *model.Message, err error)

	// FetchTranscript returns the chat and its full history, oldest first.
	// A chat with no head yields an empty transcript; a missing chat yields
	// domain.ErrNotFound.
	FetchTranscript(ctx context.Context, title string) (*model.Chat, []*model.Message, error)
}

type chatUC struct {
	messages repository.MessageRepository
	chats    repository.ChatRepository
	index    repository.ChatIndexRepository
	ai       adapter.CompletionAdapter
	timeout  time.Duration
	log      *zerolog.Logger

	locks sync.Map // chat title -> *sync.Mutex
}

func NewChatUseCase(
	messages repository.MessageRepository,
	chats repository.ChatRepository,
	index repository.ChatIndexRepository,
	ai adapter.CompletionAdapter,
	completionTimeout time.Duration,
	logger *zerolog.Logger,
) *chatUC {
	if completionTimeout <= 0 {
		completionTimeout = 60 * time.Second
	}
	l := logger.With().Str("component", "ChatService").Logger()
	return &chatUC{
		messages: messages,
		chats:    chats,
		index:    index,
		ai:       ai,
		timeout:  completionTimeout,
		log:      &l,
	}
}

// chatLock returns the mutex serializing head updates for one chat. Message
// writes themselves need no locking: content addressing makes them idempotent.
func (c *chatUC) chatLock(title string) *sync.Mutex {
	mu, _ := c.locks.LoadOrStore(title, &sync.Mutex{})
	return mu.(*sync.Mutex)
}

func (c *chatUC) CreateChat(ctx context.Context, title string) (*model.Chat, error) {
	if err := model.ValidateTitle(title); err != nil {
		return nil, err
	}
	chat := model.NewChat(title)
	if err := c.chats.Save(ctx, chat); err != nil {
		return nil, fmt.Errorf("save chat %q: %w", title, err)
	}
	if err := c.index.Register(ctx, title); err != nil {
		return nil, fmt.Errorf("register chat %q: %w", title, err)
	}
	c.log.Info().Str("chat", title).Msg("chat created")
	return chat, nil
}

func (c *chatUC) ListChats(ctx context.Context) ([]*model.Chat, error) {
	titles, err := c.index.ListTitles(ctx)
	if err != nil {
		return nil, fmt.Errorf("list titles: %w", err)
	}
	chats := make([]*model.Chat, 0, len(titles))
	for _, title := range titles {
		chat, err := c.chats.Find(ctx, title)
		if err != nil {
			// One unreadable chat must not break the whole listing.
			c.log.Warn().Err(err).Str("chat", title).Msg("skipping unreadable chat")
			continue
		}
		chats = append(chats, chat)
	}
	return chats, nil
}

func (c *chatUC) PostUserMessage(ctx context.Context, title, content string) (*model.Message, *model.Message, error) {
	if err := model.ValidateTitle(title); err != nil {
		return nil, nil, err
	}
	if strings.TrimSpace(content) == "" {
		return nil, nil, fmt.Errorf("empty content: %w", domain.ErrInvalidArgument)
	}
	log := logging.With(ctx, c.log)
	defer logging.TraceDuration(log, "ChatService.PostUserMessage")()

	// User messages never chain to the previous head: each one starts a new
	// root and only the assistant reply links back to it.
	user := model.NewUserMessage(content)

	mu := c.chatLock(title)
	mu.Lock()
	chat, err := c.chats.Find(ctx, title)
	if err != nil {
		mu.Unlock()
		return nil, nil, fmt.Errorf("load chat %q: %w", title, err)
	}
	if err := c.messages.Put(ctx, user); err != nil {
		mu.Unlock()
		return nil, nil, fmt.Errorf("persist user message: %w", err)
	}
	chat.Advance(user.ID)
	if err := c.chats.Save(ctx, chat); err != nil {
		mu.Unlock()
		return nil, nil, fmt.Errorf("advance head to user message: %w", err)
	}
	mu.Unlock()

	// The completion call runs outside the chat lock; readers may observe the
	// head at the user message while the reply is pending.
	history, err := c.reconstruct(ctx, user.ID)
	if err != nil {
		return user, nil, fmt.Errorf("reconstruct prompt: %w", err)
	}
	cctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()
	reply, err := c.ai.Complete(cctx, toAdapterMessages(history))
	if err != nil {
		log.Warn().Err(err).Str("chat", title).Msg("completion failed; head stays at user message")
		return user, nil, fmt.Errorf("%w: %v", domain.ErrCompletionFailed, err)
	}

	assistant := model.NewAssistantMessage(reply, user.ID)

	mu.Lock()
	defer mu.Unlock()
	if err := c.messages.Put(ctx, assistant); err != nil {
		return user, nil, fmt.Errorf("persist assistant message: %w", err)
	}
	chat, err = c.chats.Find(ctx, title)
	if err != nil {
		return user, nil, fmt.Errorf("reload chat %q: %w", title, err)
	}
	chat.Advance(assistant.ID)
	if err := c.chats.Save(ctx, chat); err != nil {
		return user, nil, fmt.Errorf("advance head to assistant message: %w", err)
	}

	log.Debug().Str("chat", title).Str("user_msg", user.ID).Str("assistant_msg", assistant.ID).Msg("message exchange persisted")
	return user, assistant, nil
}

func (c *chatUC) FetchTranscript(ctx context.Context, title string) (*model.Chat, []*model.Message, error) {
	if err := model.ValidateTitle(title); err != nil {
		return nil, nil, err
	}
	chat, err := c.chats.Find(ctx, title)
	if err != nil {
		return nil, nil, fmt.Errorf("load chat %q: %w", title, err)
	}
	if chat.Head == nil {
		// Distinguishable from a missing chat: the chat exists, it is just empty.
		return chat, []*model.Message{}, nil
	}
	messages, err := c.reconstruct(ctx, *chat.Head)
	if err != nil {
		return nil, nil, err
	}
	return chat, messages, nil
}
