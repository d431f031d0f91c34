// File: internal/usecase/history.go
package usecase

import (
	"context"
	"errors"
	"fmt"

	"ai-chat-archive/internal/domain"
	"ai-chat-archive/internal/domain/model"
	"ai-chat-archive/internal/domain/ports/adapter"
)

// reconstruct walks parent links from headID back to the chain root and
// returns the messages in chronological order, root first. A dangling parent
// surfaces as domain.ErrBrokenChain; a repeated ID means the store holds a
// parent cycle and surfaces as domain.ErrCorruptData.
func (c *chatUC) reconstruct(ctx context.Context, headID string) ([]*model.Message, error) {
	visited := make(map[string]struct{})
	var reversed []*model.Message

	for id := headID; ; {
		if _, seen := visited[id]; seen {
			return nil, fmt.Errorf("parent cycle at message %s: %w", id, domain.ErrCorruptData)
		}
		visited[id] = struct{}{}

		msg, err := c.messages.Get(ctx, id)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, fmt.Errorf("message %s missing: %w", id, domain.ErrBrokenChain)
			}
			return nil, fmt.Errorf("load message %s: %w", id, err)
		}
		reversed = append(reversed, msg)
		if msg.Parent == nil {
			break
		}
		id = *msg.Parent
	}

	out := make([]*model.Message, len(reversed))
	for i, m := range reversed {
		out[len(reversed)-1-i] = m
	}
	return out, nil
}

func toAdapterMessages(msgs []*model.Message) []adapter.Message {
	out := make([]adapter.Message, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, adapter.Message{Role: string(m.Role), Content: m.Content})
	}
	return out
}
