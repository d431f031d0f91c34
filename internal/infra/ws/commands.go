// File: internal/infra/ws/commands.go
package ws

import (
	"context"
	"encoding/json"
	"fmt"

	"ai-chat-archive/internal/domain/model"
	"ai-chat-archive/internal/infra/logging"
)

// Wire shapes. Commands arrive as a single JSON object with a "command"
// discriminator; events go out with an "event" discriminator.

type command struct {
	Command string `json:"command"` // send_message | new_chat | get_all
	ChatID  string `json:"chat_id,omitempty"`
	Title   string `json:"title,omitempty"`
	Content string `json:"content,omitempty"`
}

type messageUpdateEvent struct {
	Event    string           `json:"event"` // "message_update"
	ChatID   string           `json:"chat_id"`
	Messages []*model.Message `json:"messages"`
}

type chatUpdateEvent struct {
	Event string        `json:"event"` // "chat_update"
	Chats []*model.Chat `json:"chats"`
}

type errorEvent struct {
	Event   string `json:"event"` // "error"
	Command string `json:"command"`
	Error   string `json:"error"`
}

func (h *Hub) dispatch(ctx context.Context, c *client, raw []byte) {
	var cmd command
	if err := json.Unmarshal(raw, &cmd); err != nil {
		h.sendError(c, "", "malformed command")
		return
	}

	log := logging.With(ctx, h.log)
	log.Debug().Str("command", cmd.Command).Str("client_id", c.id).Msg("command received")

	switch cmd.Command {
	case "get_all":
		h.handleGetAll(ctx, c)
	case "new_chat":
		h.handleNewChat(ctx, c, cmd)
	case "send_message":
		h.handleSendMessage(ctx, c, cmd)
	default:
		h.sendError(c, cmd.Command, fmt.Sprintf("unknown command %q", cmd.Command))
	}
}

func (h *Hub) handleGetAll(ctx context.Context, c *client) {
	chats, err := h.chatUC.ListChats(ctx)
	if err != nil {
		h.sendError(c, "get_all", "failed to list chats")
		return
	}
	payload, _ := json.Marshal(chatUpdateEvent{Event: "chat_update", Chats: chats})
	h.sendTo(c, "chat_update", payload)
}

func (h *Hub) handleNewChat(ctx context.Context, c *client, cmd command) {
	if _, err := h.chatUC.CreateChat(ctx, cmd.Title); err != nil {
		h.sendError(c, "new_chat", err.Error())
		return
	}
	chats, err := h.chatUC.ListChats(ctx)
	if err != nil {
		h.sendError(c, "new_chat", "chat created but listing failed")
		return
	}
	// Everyone sees the new chat, not just the issuer.
	payload, _ := json.Marshal(chatUpdateEvent{Event: "chat_update", Chats: chats})
	h.broadcast("chat_update", payload)
}

func (h *Hub) handleSendMessage(ctx context.Context, c *client, cmd command) {
	if cmd.ChatID == "" || cmd.Content == "" {
		h.sendError(c, "send_message", "chat_id and content are required")
		return
	}

	chatID, content := cmd.ChatID, cmd.Content
	err := h.pool.Submit(func(taskCtx context.Context) error {
		user, assistant, err := h.chatUC.PostUserMessage(logging.WithChat(taskCtx, chatID), chatID, content)
		if err != nil {
			h.sendError(c, "send_message", err.Error())
			return nil // reported to the client; not a pool failure
		}
		payload, _ := json.Marshal(messageUpdateEvent{
			Event:    "message_update",
			ChatID:   chatID,
			Messages: []*model.Message{user, assistant},
		})
		h.broadcast("message_update", payload)
		return nil
	})
	if err != nil {
		h.sendError(c, "send_message", "server busy, try again")
	}
}

func (h *Hub) sendError(c *client, cmd, msg string) {
	payload, _ := json.Marshal(errorEvent{Event: "error", Command: cmd, Error: msg})
	h.sendTo(c, "error", payload)
}
