package model

import (
	"errors"
	"testing"

	"ai-chat-archive/internal/domain"
)

func TestComputeMessageID_Deterministic(t *testing.T) {
	parent := "abc123"
	a := ComputeMessageID(RoleUser, "hello", &parent)
	b := ComputeMessageID(RoleUser, "hello", &parent)
	if a != b {
		t.Fatalf("same inputs produced different IDs: %s vs %s", a, b)
	}
	if len(a) != 40 {
		t.Fatalf("expected 40-char hex sha1 digest, got %q", a)
	}
}

func TestComputeMessageID_FieldSensitivity(t *testing.T) {
	parent := "abc123"
	base := ComputeMessageID(RoleUser, "hello", &parent)

	if got := ComputeMessageID(RoleAssistant, "hello", &parent); got == base {
		t.Fatalf("changing role did not change the ID")
	}
	if got := ComputeMessageID(RoleUser, "hello!", &parent); got == base {
		t.Fatalf("changing content did not change the ID")
	}
	other := "def456"
	if got := ComputeMessageID(RoleUser, "hello", &other); got == base {
		t.Fatalf("changing parent did not change the ID")
	}
	if got := ComputeMessageID(RoleUser, "hello", nil); got == base {
		t.Fatalf("nil parent should hash differently from a set parent")
	}
}

func TestNewMessages(t *testing.T) {
	u := NewUserMessage("hi")
	if u.Parent != nil {
		t.Fatalf("user messages must be chain roots, got parent %v", *u.Parent)
	}
	if u.ID != ComputeMessageID(RoleUser, "hi", nil) {
		t.Fatalf("user message ID not content-derived")
	}

	a := NewAssistantMessage("hello there", u.ID)
	if a.Parent == nil || *a.Parent != u.ID {
		t.Fatalf("assistant message must chain to the user message")
	}
	if a.ID == u.ID {
		t.Fatalf("distinct messages collided")
	}
}

func TestParseRole(t *testing.T) {
	if _, err := ParseRole("user"); err != nil {
		t.Fatalf("user should parse: %v", err)
	}
	if _, err := ParseRole("assistant"); err != nil {
		t.Fatalf("assistant should parse: %v", err)
	}
	if _, err := ParseRole("system"); !errors.Is(err, domain.ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument for unknown role, got %v", err)
	}
}

func TestValidateTitle(t *testing.T) {
	for _, ok := range []string{"demo", "my chat", "chat-42"} {
		if err := ValidateTitle(ok); err != nil {
			t.Fatalf("title %q should validate: %v", ok, err)
		}
	}
	for _, bad := range []string{"", "   ", "a/b", "a\\b", "..", "x\x00y"} {
		if err := ValidateTitle(bad); !errors.Is(err, domain.ErrInvalidArgument) {
			t.Fatalf("title %q should be rejected, got %v", bad, err)
		}
	}
}

func TestChatAdvance(t *testing.T) {
	c := NewChat("demo")
	if c.Head != nil {
		t.Fatalf("new chat must start with no head")
	}
	c.Advance("id-1")
	if c.Head == nil || *c.Head != "id-1" {
		t.Fatalf("head not advanced")
	}
	c.Advance("id-2")
	if *c.Head != "id-2" {
		t.Fatalf("head not advanced a second time")
	}
}
