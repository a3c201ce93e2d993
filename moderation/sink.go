package moderation

import (
	"chat-core/contract"
	"chat-core/domain/event"
	"context"
	"log/slog"

	"github.com/abadojack/whatlanggo"
)

// Sink observes MessageSent events from the fanout, runs term detection plus
// language identification, and republishes hits as MessageFlagged telemetry.
// It sits after persistence on purpose: moderation can never change what
// participants receive.
type Sink struct {
	moderator Moderator
	publisher contract.IPublisher
	log       *slog.Logger
}

func NewSink(moderator Moderator, publisher contract.IPublisher, log *slog.Logger) *Sink {
	return &Sink{moderator: moderator, publisher: publisher, log: log}
}

func (s *Sink) Consume(ctx context.Context, e event.DomainEvent) error {
	sent, ok := e.(event.MessageSent)
	if !ok {
		return nil
	}

	terms := s.moderator.Flag(sent.Message.Content)
	if len(terms) == 0 {
		return nil
	}

	info := whatlanggo.Detect(sent.Message.Content)
	flagged := event.MessageFlagged{
		ConversationID: sent.Message.ConversationID,
		MessageID:      sent.Message.ID,
		SenderID:       sent.Message.SenderID,
		Terms:          terms,
		Lang:           info.Lang.Iso6391(),
	}

	s.log.Warn("Message flagged",
		"conversation_id", flagged.ConversationID,
		"message_id", flagged.MessageID,
		"sender_id", flagged.SenderID,
		"terms", flagged.Terms,
		"lang", flagged.Lang)
	s.publisher.Publish(ctx, flagged)
	return nil
}
