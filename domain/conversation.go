// Package domain contains core concepts of the conversation system.
// No runtime, network, or UI logic should be added here.
package domain

import (
	"time"

	"github.com/google/uuid"
)

type ConversationID string

func NewConversationID() ConversationID {
	return ConversationID(uuid.NewString())
}

// DefaultTitle is used when a conversation is created without one.
const DefaultTitle = "New conversation"

// Conversation is the aggregate root owning its participants and messages.
// UpdatedAt is the only field mutated after creation: it is bumped exactly
// when a message is persisted into the conversation, never otherwise.
type Conversation struct {
	ID        ConversationID
	Title     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Participant ties a user to a conversation. The pair is unique, written once
// at conversation creation and never removed. LastReadAt is recorded for a
// future read-cursor feature; nothing reads it today.
type Participant struct {
	ConversationID ConversationID
	UserID         UserID
	JoinedAt       time.Time
	LastReadAt     time.Time
}
