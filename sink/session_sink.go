package sink

import (
	"chat-core/domain/event"
	"context"
)

// SessionSink buffers fanned-out events for one live connection. The gateway
// session drains Events from its write pump and turns them into frames.
type SessionSink struct {
	Events chan event.DomainEvent
}

func NewSessionSink(bufferSize int) *SessionSink {
	return &SessionSink{Events: make(chan event.DomainEvent, bufferSize)}
}

// Consume is called by the fanout worker. When the session cannot keep up,
// the event is dropped for that connection only; the client recovers through
// an explicit history re-fetch, never through replay.
func (s *SessionSink) Consume(ctx context.Context, e event.DomainEvent) error {
	select {
	case s.Events <- e:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
