package web

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"ai-chat-archive/internal/domain"
	"ai-chat-archive/internal/domain/model"
	"ai-chat-archive/internal/infra/logging"
)

// Responses carry a {status: "success"|"error", ...} envelope so clients can
// branch without inspecting HTTP codes.

func writeJSON(w http.ResponseWriter, code int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, struct {
		Status string `json:"status"`
		Error  string `json:"error"`
	}{Status: "error", Error: msg})
}

func (s *Server) handleListChats(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logging.With(ctx, s.log)

	chats, err := s.chatUC.ListChats(ctx)
	if err != nil {
		log.Error().Err(err).Msg("list chats")
		writeError(w, http.StatusInternalServerError, "failed to list chats")
		return
	}

	writeJSON(w, http.StatusOK, struct {
		Status string        `json:"status"`
		Chats  []*model.Chat `json:"chats"`
	}{Status: "success", Chats: chats})
}

func (s *Server) handleCreateChat(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logging.With(ctx, s.log)

	var req struct {
		Title string `json:"title"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	chat, err := s.chatUC.CreateChat(ctx, req.Title)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidArgument) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		log.Error().Err(err).Str("title", req.Title).Msg("create chat")
		writeError(w, http.StatusInternalServerError, "failed to create chat")
		return
	}

	writeJSON(w, http.StatusOK, struct {
		Status string      `json:"status"`
		Chat   *model.Chat `json:"chat"`
	}{Status: "success", Chat: chat})
}

func (s *Server) handleFetchChat(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logging.With(ctx, s.log)
	title := chi.URLParam(r, "id")

	chat, messages, err := s.chatUC.FetchTranscript(ctx, title)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidArgument):
			writeError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, domain.ErrNotFound),
			errors.Is(err, domain.ErrBrokenChain),
			errors.Is(err, domain.ErrCorruptData):
			// Missing chat and unresolvable head look the same to the caller.
			writeError(w, http.StatusNotFound, "chat not found")
		default:
			log.Error().Err(err).Str("chat", title).Msg("fetch transcript")
			writeError(w, http.StatusInternalServerError, "failed to fetch chat")
		}
		return
	}

	writeJSON(w, http.StatusOK, struct {
		Status   string           `json:"status"`
		Chat     *model.Chat      `json:"chat"`
		Messages []*model.Message `json:"messages"`
	}{Status: "success", Chat: chat, Messages: messages})
}
