// Package session drives the chat control flow: single-turn and
// interactive multi-turn sessions over one conversation.
package session

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"chat_cli/pkg/ai"
	"chat_cli/pkg/chat"
	"chat_cli/pkg/ui"
)

// Tokens that end an interactive session, matched case-insensitively.
var exitTokens = map[string]bool{
	"exit": true,
	"quit": true,
	":q":   true,
	"q":    true,
}

// Driver owns one conversation and processes turns strictly serially:
// at most one request is in flight, and an issued request runs to
// completion or failure with no mid-stream abort.
type Driver struct {
	provider ai.Provider
	model    string
	renderer ui.StreamRenderer
	stream   bool

	in  io.Reader
	out io.Writer

	conv chat.Conversation
}

// New wires a driver. stream selects incremental delivery; the renderer
// decides how incremental output reaches the terminal.
func New(provider ai.Provider, model string, renderer ui.StreamRenderer, stream bool, in io.Reader, out io.Writer) *Driver {
	return &Driver{
		provider: provider,
		model:    model,
		renderer: renderer,
		stream:   stream,
		in:       in,
		out:      out,
	}
}

// Conversation returns the session history accumulated so far.
func (d *Driver) Conversation() chat.Conversation {
	return d.conv
}

// RunOnce processes a single message and terminates: the one-shot
// equivalent of a single interactive turn. A transport failure is
// returned to the caller for a non-zero exit.
func (d *Driver) RunOnce(ctx context.Context, message, systemPrompt string) error {
	d.conv = chat.Start(systemPrompt)
	return d.turn(ctx, message)
}

// RunInteractive loops over turns until the user enters an exit token or
// input ends. A failed turn is reported inline and never ends the loop.
func (d *Driver) RunInteractive(ctx context.Context, systemPrompt string) error {
	d.conv = chat.Start(systemPrompt)

	fmt.Fprintln(d.out, "Interactive chat. Type 'exit' to quit.")

	scanner := bufio.NewScanner(d.in)
	for {
		fmt.Fprint(d.out, "you> ")

		if !scanner.Scan() {
			// End of input terminates the session like an exit token.
			fmt.Fprintln(d.out)
			return scanner.Err()
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if exitTokens[strings.ToLower(line)] {
			slog.Info("session_exit", "token", line)
			fmt.Fprintln(d.out, "Bye.")
			return nil
		}

		if err := d.turn(ctx, line); err != nil {
			// Surface the cause and keep the session alive.
			fmt.Fprintf(d.out, "error: %v\n", err)
		}
	}
}

// turn appends the user message, issues exactly one completion request
// and renders the result. On success the assistant reply is appended to
// the conversation; on failure nothing is appended, including the case
// where a stream died after emitting partial text. The user message
// stays either way.
func (d *Driver) turn(ctx context.Context, text string) error {
	d.conv = d.conv.AppendUser(text)

	req := ai.ChatRequest{
		Model:    d.model,
		Messages: toRequestMessages(d.conv),
	}

	if !d.stream {
		resp, err := d.provider.CreateChatCompletion(ctx, req)
		if err != nil {
			return err
		}
		d.renderer.RenderFull(resp.Content)
		d.conv = d.conv.AppendAssistant(resp.Content)
		return nil
	}

	stream, err := d.provider.CreateChatCompletionStream(ctx, req)
	if err != nil {
		return err
	}
	defer stream.Close()

	var accumulated strings.Builder
	for stream.Next() {
		delta := stream.Content()
		if delta == "" {
			continue
		}
		accumulated.WriteString(delta)
		d.renderer.Chunk(delta, accumulated.String())
	}

	if err := stream.Err(); err != nil {
		// Text already on the terminal stands; the conversation does
		// not gain an assistant message for a failed stream.
		d.renderer.Finish(accumulated.String())
		slog.Error("stream_failed", "error", err, "partial_length", accumulated.Len())
		return err
	}

	d.renderer.Finish(accumulated.String())
	d.conv = d.conv.AppendAssistant(accumulated.String())

	slog.Debug("turn_complete",
		"history_length", len(d.conv),
		"response_length", accumulated.Len())
	return nil
}

func toRequestMessages(conv chat.Conversation) []ai.Message {
	messages := make([]ai.Message, 0, len(conv))
	for _, msg := range conv {
		messages = append(messages, ai.Message{Role: msg.Role, Content: msg.Content})
	}
	return messages
}
