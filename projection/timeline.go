// Package projection builds local timelines from observed events. Used by
// tests and tooling that want to assert on what a subscriber actually saw;
// it never emits events itself.
package projection

import (
	"chat-core/domain"
	"chat-core/domain/event"
	"context"
	"sync"
)

// Timeline accumulates the message views delivered to one subscriber, in
// arrival order. Safe for use as a sink behind the fan-out worker.
type Timeline struct {
	mu       sync.Mutex
	Messages []domain.MessageView
}

func NewTimeline() *Timeline {
	return &Timeline{}
}

func (t *Timeline) Consume(_ context.Context, e event.DomainEvent) error {
	switch evt := e.(type) {
	case event.MessageSent:
		t.mu.Lock()
		t.Messages = append(t.Messages, evt.Message)
		t.mu.Unlock()
	}
	return nil
}

// Snapshot copies the accumulated views so callers can assert without racing
// the fan-out goroutine.
func (t *Timeline) Snapshot() []domain.MessageView {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]domain.MessageView, len(t.Messages))
	copy(out, t.Messages)
	return out
}
