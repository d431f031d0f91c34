package sched

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"ai-chat-archive/internal/domain"
	"ai-chat-archive/internal/infra/metrics"
	"ai-chat-archive/internal/usecase"
)

// IntegrityWorker periodically walks every chat's chain and reports how many
// are broken (dangling parent) or corrupt (unreadable record or cycle). It
// never repairs anything; detection only.
type IntegrityWorker struct {
	interval time.Duration
	chatUC   usecase.ChatUseCase
	log      *zerolog.Logger
}

func NewIntegrityWorker(interval time.Duration, chatUC usecase.ChatUseCase, logger *zerolog.Logger) *IntegrityWorker {
	swLog := logger.With().Str("component", "IntegrityWorker").Logger()
	return &IntegrityWorker{
		interval: interval,
		chatUC:   chatUC,
		log:      &swLog,
	}
}

func (w *IntegrityWorker) Run(ctx context.Context) error {
	w.log.Info().Dur("interval", w.interval).Msg("Starting integrity worker")
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.log.Info().Msg("Stopping integrity worker")
			return ctx.Err()
		case <-ticker.C:
			w.sweep(ctx)
		}
	}
}

func (w *IntegrityWorker) sweep(ctx context.Context) {
	chats, err := w.chatUC.ListChats(ctx)
	if err != nil {
		w.log.Error().Err(err).Msg("sweep: list chats")
		return
	}

	broken, corrupt := 0, 0
	for _, chat := range chats {
		if _, _, err := w.chatUC.FetchTranscript(ctx, chat.Title); err != nil {
			switch {
			case errors.Is(err, domain.ErrBrokenChain):
				broken++
				w.log.Warn().Str("chat", chat.Title).Msg("sweep: broken chain")
			case errors.Is(err, domain.ErrCorruptData):
				corrupt++
				w.log.Warn().Str("chat", chat.Title).Msg("sweep: corrupt chain")
			default:
				w.log.Error().Err(err).Str("chat", chat.Title).Msg("sweep: transcript error")
			}
		}
	}

	metrics.SetChainHealth(len(chats), broken, corrupt)
	if broken+corrupt > 0 {
		w.log.Warn().Int("chats", len(chats)).Int("broken", broken).Int("corrupt", corrupt).Msg("sweep finished with damage")
	} else {
		w.log.Debug().Int("chats", len(chats)).Msg("sweep finished clean")
	}
}
