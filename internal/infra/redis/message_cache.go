package redis

import (
	"context"
	"encoding/json"
	"time"

	"ai-chat-archive/internal/domain/model"
	"ai-chat-archive/internal/domain/ports/repository"
)

// Compile-time check
var _ repository.MessageRepository = (*CachedMessageRepo)(nil)

// CachedMessageRepo is a read-through/write-through cache in front of a
// message repository. Messages are immutable and content-addressed, so a
// cached entry can never go stale. Chat metadata is deliberately not cached:
// heads move, and readers must always see the stored head.
type CachedMessageRepo struct {
	inner  repository.MessageRepository
	client RedisClient
	ttl    time.Duration
}

func NewCachedMessageRepo(inner repository.MessageRepository, client RedisClient, ttl time.Duration) *CachedMessageRepo {
	return &CachedMessageRepo{inner: inner, client: client, ttl: ttl}
}

func key(id string) string { return "msg:" + id }

func (c *CachedMessageRepo) Put(ctx context.Context, msg *model.Message) error {
	if err := c.inner.Put(ctx, msg); err != nil {
		return err
	}
	// Cache population is best-effort; the store is authoritative.
	if data, err := json.Marshal(msg); err == nil {
		_ = c.client.Set(ctx, key(msg.ID), data, c.ttl)
	}
	return nil
}

func (c *CachedMessageRepo) Get(ctx context.Context, id string) (*model.Message, error) {
	if data, err := c.client.Get(ctx, key(id)); err == nil {
		var msg model.Message
		if err := json.Unmarshal([]byte(data), &msg); err == nil {
			return &msg, nil
		}
		// Unparseable cache entry: fall through to the store.
	}

	msg, err := c.inner.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if data, err := json.Marshal(msg); err == nil {
		_ = c.client.Set(ctx, key(id), data, c.ttl)
	}
	return msg, nil
}
