package model

import (
	"fmt"
	"strings"

	"ai-chat-archive/internal/domain"
)

// Chat is a named conversation. Head points at the most recently appended
// message; nil means the chat has no messages yet. The title doubles as the
// storage key, so there is no separate numeric ID.
type Chat struct {
	Title string  `json:"title"`
	Head  *string `json:"head"`
}

func NewChat(title string) *Chat {
	return &Chat{Title: title, Head: nil}
}

// Advance moves the head to a new message ID. Heads only ever move forward;
// nothing rewinds or clears a head once set.
func (c *Chat) Advance(messageID string) {
	id := messageID
	c.Head = &id
}

// ValidateTitle rejects titles that are empty or unsafe as storage keys.
func ValidateTitle(title string) error {
	if strings.TrimSpace(title) == "" {
		return fmt.Errorf("empty title: %w", domain.ErrInvalidArgument)
	}
	if strings.ContainsAny(title, "/\\\x00") || strings.Contains(title, "..") {
		return fmt.Errorf("title %q contains path-unsafe characters: %w", title, domain.ErrInvalidArgument)
	}
	return nil
}
