package workers

import (
	"chat-core/contract"
	"chat-core/domain/event"
	"context"
	"log/slog"
	"time"
)

// EventFanout delivers published domain events to the sessions subscribed to
// each of the event's channels, plus a fixed set of permanent sinks
// (moderation, search index, stats).
//
// It provides best-effort fan-out with no guarantees regarding delivery or
// retries: a session that missed an event recovers by re-fetching history,
// never through replay. Ordering within one conversation is preserved because
// events are consumed from a single channel in publish order.
type EventFanout struct {
	log            *slog.Logger
	registry       contract.IRegistry
	events         chan event.DomainEvent
	sinkTimeout    time.Duration
	permanentSinks []contract.EventSink
}

func NewEventFanout(log *slog.Logger, registry contract.IRegistry,
	events chan event.DomainEvent, sinkTimeout time.Duration) *EventFanout {
	return &EventFanout{log: log, registry: registry, events: events, sinkTimeout: sinkTimeout}
}

func (w *EventFanout) Add(sinks ...contract.EventSink) *EventFanout {
	w.permanentSinks = append(w.permanentSinks, sinks...)
	return w
}

func (w *EventFanout) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			w.log.Debug("Context done, stopping fanout")
			return nil
		case evt, ok := <-w.events:
			if !ok {
				return nil
			}
			w.Fanout(ctx, evt)
		}
	}
}

// Fanout pushes one event to every subscribed session sink and every
// permanent sink. A slow sink only costs its own delivery timeout.
func (w *EventFanout) Fanout(ctx context.Context, evt event.DomainEvent) {
	for _, channel := range evt.Channels() {
		for _, sink := range w.registry.SinksForChannel(channel) {
			w.deliver(ctx, sink, evt)
		}
	}
	for _, sink := range w.permanentSinks {
		w.deliver(ctx, sink, evt)
	}
}

func (w *EventFanout) deliver(ctx context.Context, sink contract.EventSink, evt event.DomainEvent) {
	deliveryCtx, cancel := context.WithTimeout(ctx, w.sinkTimeout)
	defer cancel()
	if err := sink.Consume(deliveryCtx, evt); err != nil {
		w.log.Debug("Sink delivery failed", "error", err)
	}
}
