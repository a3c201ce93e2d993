package domain

import "time"

// View types are the wire-facing projections assembled by the services and
// carried by domain events. They are what clients see, both over the REST
// surface and inside fan-out frames.

type UserView struct {
	ID       UserID `json:"id"`
	Username string `json:"username"`
	Avatar   string `json:"avatar,omitempty"`
}

type MessageView struct {
	ID             MessageID      `json:"id"`
	ConversationID ConversationID `json:"conversationId"`
	SenderID       UserID         `json:"senderId"`
	Content        string         `json:"content"`
	SentAt         time.Time      `json:"sentAt"`
	ClientID       string         `json:"clientId,omitempty"`
	Sender         UserView       `json:"sender"`
}

type ParticipantView struct {
	UserID     UserID    `json:"userId"`
	JoinedAt   time.Time `json:"joinedAt"`
	LastReadAt time.Time `json:"lastReadAt"`
	User       UserView  `json:"user"`
}

type ConversationView struct {
	ID           ConversationID    `json:"id"`
	Title        string            `json:"title"`
	CreatedAt    time.Time         `json:"createdAt"`
	UpdatedAt    time.Time         `json:"updatedAt"`
	Participants []ParticipantView `json:"participants"`
	LastMessage  *MessageView      `json:"lastMessage,omitempty"`
	// UnreadCount is not computed yet: last_read_at is stored but never
	// consulted, so every summary carries a constant zero.
	UnreadCount int `json:"unreadCount"`
}
