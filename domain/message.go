// Package domain contains core concepts of the conversation system.
// This file defines Message entities and related rules.
// Messages are immutable once persisted.
package domain

import "time"

// MessageID is assigned by the store, strictly increasing within a
// conversation. Its order is authoritative: it may differ from the wall-clock
// order in which two racing senders issued their requests.
type MessageID uint64

// Message represents an immutable chat event.
type Message struct {
	ID             MessageID
	ConversationID ConversationID
	SenderID       UserID
	Content        string
	SentAt         time.Time
	// ClientID is a client-supplied reconciliation token, stored and echoed
	// verbatim. It is not a uniqueness key: resubmissions with the same token
	// are persisted as distinct messages.
	ClientID string
}
