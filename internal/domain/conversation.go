package domain

// ConversationRole identifies the author of a conversation turn
type ConversationRole string

const (
	RoleUser      ConversationRole = "user"
	RoleAssistant ConversationRole = "assistant"
)

// ConversationTurn is a single chat-history entry supplied by the caller.
// The core treats history as a read-only input list and never mutates it.
type ConversationTurn struct {
	Role    ConversationRole
	Content string
}
