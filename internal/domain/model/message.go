package model

import (
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"fmt"

	"ai-chat-archive/internal/domain"
)

// Role is the closed set of message authors.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// ParseRole validates a stored role string against the closed enumeration.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleUser, RoleAssistant:
		return Role(s), nil
	default:
		return "", fmt.Errorf("unknown role %q: %w", s, domain.ErrInvalidArgument)
	}
}

// Message is an immutable, content-addressed chat message. ID is derived from
// the other three fields, so identical {role, content, parent} triples always
// collapse to the same message.
type Message struct {
	ID      string  `json:"id"`
	Role    Role    `json:"role"`
	Content string  `json:"content"`
	Parent  *string `json:"parent"`
}

// ComputeMessageID hashes the canonical serialization of {role, content, parent}.
// The ID field itself is never part of the digest. SHA-1 is used for identity
// and de-duplication, not for adversarial collision resistance.
func ComputeMessageID(role Role, content string, parent *string) string {
	canonical, _ := json.Marshal(struct {
		Role    Role    `json:"role"`
		Content string  `json:"content"`
		Parent  *string `json:"parent"`
	}{role, content, parent})
	sum := sha1.Sum(canonical)
	return hex.EncodeToString(sum[:])
}

// NewUserMessage builds a user message. User messages are always chain roots;
// only assistant replies link back to them.
func NewUserMessage(content string) *Message {
	return &Message{
		ID:      ComputeMessageID(RoleUser, content, nil),
		Role:    RoleUser,
		Content: content,
		Parent:  nil,
	}
}

// NewAssistantMessage builds an assistant message chained to its prompt.
func NewAssistantMessage(content string, parent string) *Message {
	p := parent
	return &Message{
		ID:      ComputeMessageID(RoleAssistant, content, &p),
		Role:    RoleAssistant,
		Content: content,
		Parent:  &p,
	}
}
