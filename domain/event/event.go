package event

import (
	"chat-core/domain"

	"github.com/samber/lo"
)

// DomainEvent is something that happened and is worth delivering to the
// sessions subscribed to its channels. Events only exist for operations that
// already succeeded against the store: a failed operation publishes nothing.
type DomainEvent interface {
	Channels() []domain.Channel
}

// MessageSent targets the conversation channel, so every connected session of
// every participant receives it, including the sender's other devices.
type MessageSent struct {
	Message domain.MessageView
}

func (e MessageSent) Channels() []domain.Channel {
	return []domain.Channel{domain.ConversationChannel(e.Message.ConversationID)}
}

// ConversationCreated targets each participant's personal channel. Live
// sessions are notified but not auto-joined to the new conversation channel;
// they resubscribe on their next connect.
type ConversationCreated struct {
	Conversation domain.ConversationView
}

func (e ConversationCreated) Channels() []domain.Channel {
	return lo.Map(e.Conversation.Participants, func(p domain.ParticipantView, _ int) domain.Channel {
		return domain.UserChannel(p.UserID)
	})
}

// MessageFlagged is telemetry produced by the moderation sink. It carries no
// channels on purpose: it is never fanned out to clients.
type MessageFlagged struct {
	ConversationID domain.ConversationID
	MessageID      domain.MessageID
	SenderID       domain.UserID
	Terms          []string
	Lang           string
}

func (MessageFlagged) Channels() []domain.Channel { return nil }
