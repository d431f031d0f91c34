package ai

import (
	"context"
	"time"

	"github.com/pkoukk/tiktoken-go"
	"github.com/rs/zerolog"

	"ai-chat-archive/internal/domain/ports/adapter"
	"ai-chat-archive/internal/infra/metrics"
)

var _ adapter.CompletionAdapter = (*instrumentedAI)(nil)

// instrumentedAI wraps a provider with token accounting, latency metrics and
// structured logging. Token counts are computed locally with tiktoken so they
// are available even for providers that do not report usage.
type instrumentedAI struct {
	inner    adapter.CompletionAdapter
	provider string
	logger   *zerolog.Logger
	codec    *tiktoken.Tiktoken
}

func NewInstrumentedAI(inner adapter.CompletionAdapter, provider string, logger *zerolog.Logger) adapter.CompletionAdapter {
	codec, err := tiktoken.EncodingForModel(inner.Model())
	if err != nil {
		// Unknown model names fall back to the cl100k_base vocabulary.
		codec, err = tiktoken.GetEncoding("cl100k_base")
		if err != nil {
			codec = nil
		}
	}
	sub := logger.With().Str("component", "ai").Str("provider", provider).Logger()
	return &instrumentedAI{inner: inner, provider: provider, logger: &sub, codec: codec}
}

func (a *instrumentedAI) Model() string { return a.inner.Model() }

func (a *instrumentedAI) Complete(ctx context.Context, history []adapter.Message) (string, error) {
	start := time.Now()
	reply, err := a.inner.Complete(ctx, history)
	latency := int(time.Since(start).Milliseconds())

	tokensIn := 0
	for _, m := range history {
		tokensIn += a.countTokens(m.Content)
	}
	tokensOut := a.countTokens(reply)

	metrics.ObserveCompletion(a.provider, a.inner.Model(), tokensIn, tokensOut, latency, err == nil)

	if err != nil {
		a.logger.Warn().Err(err).
			Str("model", a.inner.Model()).
			Int("tokens_in", tokensIn).
			Int("latency_ms", latency).
			Msg("completion failed")
		return "", err
	}
	a.logger.Debug().
		Str("model", a.inner.Model()).
		Int("tokens_in", tokensIn).
		Int("tokens_out", tokensOut).
		Int("latency_ms", latency).
		Msg("completion ok")
	return reply, nil
}

func (a *instrumentedAI) countTokens(text string) int {
	if a.codec == nil || text == "" {
		return 0
	}
	return len(a.codec.Encode(text, nil, nil))
}
