// Package observability aggregates process-local counters for the debug
// surface. It observes events and never modifies domain state.
package observability

import (
	"chat-core/domain/event"
	"context"
	"sync/atomic"
	"time"
)

// Stats counts what flowed through the fanout plus process health gauges.
// It is wired as a permanent sink; everything here is best-effort telemetry.
type Stats struct {
	startedAt            time.Time
	messagesSent         atomic.Uint64
	conversationsCreated atomic.Uint64
	messagesFlagged      atomic.Uint64
	cpuPercent           atomic.Uint64 // basis points
	ramPercent           atomic.Uint64 // basis points
}

func NewStats() *Stats {
	return &Stats{startedAt: time.Now().UTC()}
}

func (s *Stats) Consume(_ context.Context, e event.DomainEvent) error {
	switch e.(type) {
	case event.MessageSent:
		s.messagesSent.Add(1)
	case event.ConversationCreated:
		s.conversationsCreated.Add(1)
	case event.MessageFlagged:
		s.messagesFlagged.Add(1)
	}
	return nil
}

func (s *Stats) SetProcessGauges(cpuPercent float64, ramPercent float32) {
	s.cpuPercent.Store(uint64(cpuPercent * 100))
	s.ramPercent.Store(uint64(float64(ramPercent) * 100))
}

// Snapshot feeds the debug server's stats panel.
func (s *Stats) Snapshot() map[string]any {
	return map[string]any{
		"UptimeSeconds":        int(time.Since(s.startedAt).Seconds()),
		"MessagesSent":         s.messagesSent.Load(),
		"ConversationsCreated": s.conversationsCreated.Load(),
		"MessagesFlagged":      s.messagesFlagged.Load(),
		"CPUPercent":           float64(s.cpuPercent.Load()) / 100,
		"RAMPercent":           float64(s.ramPercent.Load()) / 100,
	}
}
