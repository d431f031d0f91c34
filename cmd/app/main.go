// File: cmd/app/main.go
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"ai-chat-archive/internal/config"
	"ai-chat-archive/internal/domain/ports/adapter"
	"ai-chat-archive/internal/domain/ports/repository"
	aiAdapters "ai-chat-archive/internal/infra/adapters/ai"
	pg "ai-chat-archive/internal/infra/db/postgres"
	"ai-chat-archive/internal/infra/fsstore"
	"ai-chat-archive/internal/infra/logging"
	"ai-chat-archive/internal/infra/metrics"
	red "ai-chat-archive/internal/infra/redis"
	"ai-chat-archive/internal/infra/sched"
	"ai-chat-archive/internal/infra/web"
	"ai-chat-archive/internal/infra/worker"
	"ai-chat-archive/internal/infra/ws"
	"ai-chat-archive/internal/usecase"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ---- CLI flags ----
	cfgPath := flag.String("config", "config.yaml", "path to YAML config file")
	devMode := flag.Bool("dev", false, "enable developer mode (console logs, noop AI fallback)")
	flag.Parse()

	cfg, err := config.LoadConfig(*cfgPath, *devMode)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := logging.New(cfg.Log, cfg.Runtime.Dev)
	if cfg.Runtime.Dev {
		logger.Info().Msg("dev mode enabled")
	}

	metrics.MustRegister()

	// ---- Storage ----
	var (
		messages repository.MessageRepository
		chats    repository.ChatRepository
		index    repository.ChatIndexRepository
	)
	switch cfg.Storage.Driver {
	case "postgres":
		pool, err := pg.NewPgxPool(ctx, cfg.Storage.PostgresURL, 10)
		if err != nil {
			logger.Fatal().Err(err).Msg("postgres connect")
		}
		defer pool.Close()
		if err := pg.EnsureSchema(ctx, pool); err != nil {
			logger.Fatal().Err(err).Msg("postgres schema")
		}
		messages = pg.NewMessageRepo(pool)
		chatRepo := pg.NewChatRepo(pool)
		chats, index = chatRepo, chatRepo
		logger.Info().Msg("storage: postgres")
	default:
		msgStore, err := fsstore.NewMessageStore(cfg.Storage.Dir)
		if err != nil {
			logger.Fatal().Err(err).Str("dir", cfg.Storage.Dir).Msg("message store init")
		}
		chatStore, err := fsstore.NewChatStore(cfg.Storage.Dir)
		if err != nil {
			logger.Fatal().Err(err).Str("dir", cfg.Storage.Dir).Msg("chat store init")
		}
		messages = msgStore
		chats, index = chatStore, chatStore
		logger.Info().Str("dir", cfg.Storage.Dir).Msg("storage: file")
	}

	// ---- Redis message cache (optional) ----
	if cfg.Redis.URL != "" {
		redisClient, err := red.NewClient(ctx, &cfg.Redis)
		if err != nil {
			logger.Fatal().Err(err).Msg("redis connect")
		}
		defer redisClient.Close()
		messages = red.NewCachedMessageRepo(messages, redisClient, cfg.Redis.TTL)
		logger.Info().Str("url", cfg.Redis.URL).Msg("message cache: redis")
	}

	// ---- Completion adapter (OpenAI -> Gemini -> noop in dev) ----
	var ai adapter.CompletionAdapter
	switch {
	case cfg.AI.OpenAIKey != "":
		ai, err = aiAdapters.NewOpenAIAdapter(cfg.AI.OpenAIKey, cfg.AI.Model, cfg.AI.MaxOutputTokens)
		if err != nil {
			logger.Fatal().Err(err).Msg("openai adapter")
		}
		ai = aiAdapters.NewInstrumentedAI(ai, "openai", logger)
		logger.Info().Str("model", ai.Model()).Msg("AI adapter: openai")
	case cfg.AI.GeminiKey != "":
		ai, err = aiAdapters.NewGeminiAdapter(ctx, cfg.AI.GeminiKey, cfg.AI.GeminiURL, cfg.AI.Model, cfg.AI.MaxOutputTokens)
		if err != nil {
			logger.Fatal().Err(err).Msg("gemini adapter")
		}
		ai = aiAdapters.NewInstrumentedAI(ai, "gemini", logger)
		logger.Info().Str("model", ai.Model()).Msg("AI adapter: gemini")
	case cfg.Runtime.Dev:
		ai = aiAdapters.NewInstrumentedAI(aiAdapters.NewNoopAdapter(), "noop", logger)
		logger.Warn().Msg("AI adapter: noop (no provider key configured)")
	default:
		logger.Fatal().Msg("no AI provider configured: set ai.openai_key or ai.gemini_key, or run with -dev")
	}
	ai = aiAdapters.NewLimitedAI(ai, cfg.AI.ConcurrentLimit)

	// ---- Use case ----
	chatUC := usecase.NewChatUseCase(messages, chats, index, ai, cfg.AI.Timeout, logger)

	// ---- Push channel ----
	pool := worker.NewPool(cfg.Push.Workers, logger)
	pool.Start(ctx)
	defer pool.Stop()
	hub := ws.NewHub(chatUC, pool, cfg.Push.SendBuffer, logger)

	// ---- HTTP ----
	router := web.NewServer(chatUC, logger).Router(hub)
	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: router,
	}
	go func() {
		logger.Info().Str("addr", server.Addr).Msg("http listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error().Err(err).Msg("http server error")
		}
	}()

	// ---- Integrity sweeper ----
	if cfg.Storage.SweepInterval > 0 {
		sweeper := sched.NewIntegrityWorker(cfg.Storage.SweepInterval, chatUC, logger)
		go func() { _ = sweeper.Run(ctx) }()
	}

	// ---- Graceful shutdown ----
	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	<-sigc
	logger.Info().Msg("shutdown requested")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("http shutdown")
	}
	cancel()
}
