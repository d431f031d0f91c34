package adapter

import "context"

// Message is the wire shape handed to completion providers.
type Message struct {
	Role    string `json:"role"` // "user" | "assistant"
	Content string `json:"content"`
}

// CompletionAdapter is the port for the external language-model call. Complete
// takes the transcript oldest-first and returns the generated assistant text.
// Any provider failure, malformed response or timeout surfaces as an error;
// callers translate it uniformly into "no assistant reply".
type CompletionAdapter interface {
	Complete(ctx context.Context, history []Message) (string, error)

	// Model reports the provider model name, used for logging and metrics labels.
	Model() string
}
