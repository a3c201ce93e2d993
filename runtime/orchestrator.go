package runtime

import (
	"chat-core/contract"
	"chat-core/domain"
	"chat-core/domain/event"
	"chat-core/runtime/workers"
	"context"
	"log/slog"
	"time"
)

// Orchestrator owns the event pipeline: the publish channel, the registry of
// live connections and the supervised fanout worker. Sessions publish events
// only for operations that already succeeded against the store.
type Orchestrator struct {
	log            *slog.Logger
	supervisor     contract.ISupervisor
	registry       contract.IRegistry
	events         chan event.DomainEvent
	permanentSinks []contract.EventSink
	extraWorkers   []contract.Worker
	sinkTimeout    time.Duration
}

func NewOrchestrator(log *slog.Logger, supervisor contract.ISupervisor,
	registry contract.IRegistry, bufferSize int, sinkTimeout time.Duration) *Orchestrator {
	return &Orchestrator{
		log:         log,
		supervisor:  supervisor,
		registry:    registry,
		events:      make(chan event.DomainEvent, bufferSize),
		sinkTimeout: sinkTimeout,
	}
}

// AddSinks registers permanent sinks receiving every event regardless of
// channel subscriptions (moderation, search index, stats).
func (o *Orchestrator) AddSinks(sinks ...contract.EventSink) {
	o.permanentSinks = append(o.permanentSinks, sinks...)
}

// AddWorkers registers extra supervised workers (health monitoring).
func (o *Orchestrator) AddWorkers(w ...contract.Worker) {
	o.extraWorkers = append(o.extraWorkers, w...)
}

// Publish enqueues an event for fan-out. It blocks until the pipeline
// accepts it or the caller's context is gone; a dropped connection mid-call
// simply means nobody reads the result.
func (o *Orchestrator) Publish(ctx context.Context, e event.DomainEvent) {
	select {
	case o.events <- e:
	case <-ctx.Done():
		o.log.Warn("Publish abandoned, context done")
	}
}

func (o *Orchestrator) RegisterConnection(connID contract.ConnID, sink contract.EventSink) {
	o.registry.Register(connID, sink)
}

func (o *Orchestrator) SubscribeChannel(connID contract.ConnID, channel domain.Channel) {
	o.registry.Subscribe(connID, channel)
}

// DropConnection removes the connection from every channel it held.
// Disconnect never mutates durable state.
func (o *Orchestrator) DropConnection(connID contract.ConnID) {
	o.registry.Drop(connID)
}

// Start wires the fanout worker plus any extra workers under the supervisor
// and launches them. Restart-on-panic comes from the supervisor.
func (o *Orchestrator) Start(ctx context.Context) error {
	fanout := workers.NewEventFanout(o.log, o.registry, o.events, o.sinkTimeout).
		Add(o.permanentSinks...)

	o.supervisor.Add(fanout)
	o.supervisor.Add(o.extraWorkers...)
	go o.supervisor.Run(ctx)
	return nil
}

func (o *Orchestrator) Stop() {
	o.supervisor.Stop()
}
