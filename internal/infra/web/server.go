package web

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"ai-chat-archive/internal/infra/logging"
	"ai-chat-archive/internal/usecase"
)

type Server struct {
	chatUC usecase.ChatUseCase
	log    *zerolog.Logger
}

func NewServer(chatUC usecase.ChatUseCase, logger *zerolog.Logger) *Server {
	webLog := logger.With().Str("component", "web").Logger()
	return &Server{chatUC: chatUC, log: &webLog}
}

// Router builds the HTTP surface. The push endpoint is passed in as a plain
// handler so this package stays free of WebSocket details.
func (s *Server) Router(push http.Handler) *chi.Mux {
	r := chi.NewRouter()
	r.Use(s.traceMiddleware)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/api/chats", func(r chi.Router) {
		r.Get("/", s.handleListChats)
		r.Post("/", s.handleCreateChat)
		r.Get("/{id}", s.handleFetchChat)
	})

	if push != nil {
		r.Handle("/ws", push)
	}
	return r
}

// traceMiddleware stamps every request with a trace id for log correlation.
func (s *Server) traceMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := logging.WithTraceID(r.Context(), uuid.NewString())
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
