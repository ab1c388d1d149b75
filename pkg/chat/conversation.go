// Package chat holds the in-memory conversation state for one session.
package chat

// DefaultSystemPrompt seeds a conversation when the user supplies no
// system prompt of their own.
const DefaultSystemPrompt = "You are a helpful assistant"

// Message roles understood by chat completion endpoints.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is a single role-tagged entry in a conversation. Messages are
// never modified once appended.
type Message struct {
	Role    string
	Content string
}

// Conversation is the ordered, append-only message log for one session.
// The first message is always the system prompt; user and assistant
// messages alternate after it as the session progresses. History lives
// only for the lifetime of the process.
type Conversation []Message

// Start returns a new conversation seeded with the given system prompt,
// or DefaultSystemPrompt when the prompt is empty.
func Start(systemPrompt string) Conversation {
	if systemPrompt == "" {
		systemPrompt = DefaultSystemPrompt
	}
	return Conversation{{Role: RoleSystem, Content: systemPrompt}}
}

// AppendUser returns the conversation extended with a user message.
func (c Conversation) AppendUser(text string) Conversation {
	return append(c, Message{Role: RoleUser, Content: text})
}

// AppendAssistant returns the conversation extended with an assistant
// message. Called only after a completion succeeded; a failed turn leaves
// the conversation without an assistant reply.
func (c Conversation) AppendAssistant(text string) Conversation {
	return append(c, Message{Role: RoleAssistant, Content: text})
}

// SystemPrompt returns the system prompt the conversation was started with.
func (c Conversation) SystemPrompt() string {
	if len(c) == 0 {
		return ""
	}
	return c[0].Content
}
