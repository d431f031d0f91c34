package ai

import (
	"context"
	"fmt"
	"time"

	"ai-chat-archive/internal/domain/ports/adapter"
)

var _ adapter.CompletionAdapter = (*NoopAdapter)(nil)

// NoopAdapter implements adapter.CompletionAdapter for local/dev runs without
// an API key. It echoes the last user message instead of calling a provider.
type NoopAdapter struct{}

func NewNoopAdapter() *NoopAdapter { return &NoopAdapter{} }

func (a *NoopAdapter) Model() string { return "noop" }

func (a *NoopAdapter) Complete(ctx context.Context, history []adapter.Message) (string, error) {
	// Simulate slight processing time and respect ctx
	select {
	case <-time.After(100 * time.Millisecond):
	case <-ctx.Done():
		return "", ctx.Err()
	}
	if len(history) == 0 {
		return "Hello! Ask me anything.", nil
	}
	last := history[len(history)-1]
	return fmt.Sprintf("You said: %s", last.Content), nil
}
