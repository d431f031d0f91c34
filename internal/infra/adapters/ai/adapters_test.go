package ai

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"ai-chat-archive/internal/domain/ports/adapter"
)

type stubAdapter struct {
	mu       sync.Mutex
	inFlight int32
	peak     int32
	reply    string
	err      error
	delay    time.Duration
}

func (s *stubAdapter) Model() string { return "stub-model" }

func (s *stubAdapter) Complete(ctx context.Context, history []adapter.Message) (string, error) {
	cur := atomic.AddInt32(&s.inFlight, 1)
	defer atomic.AddInt32(&s.inFlight, -1)
	s.mu.Lock()
	if cur > s.peak {
		s.peak = cur
	}
	s.mu.Unlock()
	if s.delay > 0 {
		select {
		case <-time.After(s.delay):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	return s.reply, s.err
}

func TestNoopAdapter_EchoesLastUserMessage(t *testing.T) {
	a := NewNoopAdapter()
	reply, err := a.Complete(context.Background(), []adapter.Message{
		{Role: "user", Content: "first"},
		{Role: "assistant", Content: "ok"},
		{Role: "user", Content: "second"},
	})
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if !strings.Contains(reply, "second") {
		t.Fatalf("reply should echo the last message, got %q", reply)
	}
}

func TestNoopAdapter_RespectsContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	a := NewNoopAdapter()
	if _, err := a.Complete(ctx, nil); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestLimitedAI_CapsConcurrency(t *testing.T) {
	stub := &stubAdapter{reply: "ok", delay: 20 * time.Millisecond}
	limited := NewLimitedAI(stub, 2)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := limited.Complete(context.Background(), nil); err != nil {
				t.Errorf("Complete: %v", err)
			}
		}()
	}
	wg.Wait()

	if stub.peak > 2 {
		t.Fatalf("concurrency cap exceeded: peak=%d", stub.peak)
	}
}

func TestLimitedAI_ZeroLimitDisables(t *testing.T) {
	stub := &stubAdapter{reply: "ok"}
	if got := NewLimitedAI(stub, 0); got != adapter.CompletionAdapter(stub) {
		t.Fatal("zero limit should return the inner adapter unchanged")
	}
}

func TestInstrumentedAI_PassesThrough(t *testing.T) {
	logger := zerolog.New(io.Discard)
	stub := &stubAdapter{reply: "hello back"}
	wrapped := NewInstrumentedAI(stub, "test", &logger)

	if wrapped.Model() != "stub-model" {
		t.Fatalf("Model() not forwarded: %q", wrapped.Model())
	}
	reply, err := wrapped.Complete(context.Background(), []adapter.Message{{Role: "user", Content: "hello"}})
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if reply != "hello back" {
		t.Fatalf("reply not forwarded: %q", reply)
	}

	stub.err = errors.New("provider down")
	if _, err := wrapped.Complete(context.Background(), nil); err == nil {
		t.Fatal("expected provider error to surface")
	}
}
