// Package ai wraps the remote chat completion endpoint behind a narrow
// interface. Nothing from the transport library leaks past this package.
package ai

import (
	"context"

	"chat_cli/pkg/chat"
)

// Message represents a single chat message for completion requests.
type Message struct {
	Role    string
	Content string
}

// ChatRequest defines the input to a chat completion call.
type ChatRequest struct {
	Model    string
	Messages []Message
}

// ChatResponse is a normalized non-streaming completion result.
type ChatResponse struct {
	Content string
	Model   string
}

// ChatStream is a lazy, single-pass sequence of response fragments.
// Fragments arrive in order with no loss or duplication; concatenating
// them yields the full response text. A stream is not restartable. After
// Next returns false, Err reports whether the transport failed mid-stream.
type ChatStream interface {
	Next() bool
	Content() string
	Err() error
	Close() error
}

// Provider issues chat completion requests. Each call performs exactly
// one network request; there are no implicit retries.
type Provider interface {
	CreateChatCompletion(ctx context.Context, req ChatRequest) (ChatResponse, error)
	CreateChatCompletionStream(ctx context.Context, req ChatRequest) (ChatStream, error)
}

// TransportError normalizes every transport or provider failure (auth,
// network, malformed response) into one kind carrying the underlying
// cause. It is recoverable within a single turn.
type TransportError struct {
	Cause error
}

func (e *TransportError) Error() string {
	return "completion request failed: " + e.Cause.Error()
}

func (e *TransportError) Unwrap() error {
	return e.Cause
}

// SingleMessage sends text as a standalone two-message exchange (system
// prompt plus one user message) and returns the complete reply. An empty
// systemPrompt falls back to the default.
func SingleMessage(ctx context.Context, p Provider, model, text, systemPrompt string) (ChatResponse, error) {
	return p.CreateChatCompletion(ctx, singleMessageRequest(model, text, systemPrompt))
}

// SingleMessageStream is the streaming variant of SingleMessage.
func SingleMessageStream(ctx context.Context, p Provider, model, text, systemPrompt string) (ChatStream, error) {
	return p.CreateChatCompletionStream(ctx, singleMessageRequest(model, text, systemPrompt))
}

func singleMessageRequest(model, text, systemPrompt string) ChatRequest {
	if systemPrompt == "" {
		systemPrompt = chat.DefaultSystemPrompt
	}
	return ChatRequest{
		Model: model,
		Messages: []Message{
			{Role: chat.RoleSystem, Content: systemPrompt},
			{Role: chat.RoleUser, Content: text},
		},
	}
}
