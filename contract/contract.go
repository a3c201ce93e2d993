//go:generate go run go.uber.org/mock/mockgen -source=contract.go -destination=../mocks/mock_contract.go -package=mocks
package contract

import (
	"chat-core/domain"
	"chat-core/domain/event"
	"context"
	"reflect"
)

type ISupervisor interface {
	Add(worker ...Worker) ISupervisor
	Run(ctx context.Context)
	Start(ctx context.Context, worker Worker)
	Stop()
}

// Worker doesn't protect itself: the supervisor recovers its panics.
type Worker interface {
	Run(ctx context.Context) error
}

// GetWorkerName uses reflection to retrieve the type name of the worker.
// This is used for logging and supervision purposes only, avoiding the need
// for manual naming in the Worker interface.
func GetWorkerName(w Worker) string {
	if w == nil {
		return "NilWorker"
	}
	t := reflect.TypeOf(w)
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t.Name()
}

// EventSink receives fanned-out domain events. A session sink feeds one live
// connection; permanent sinks (moderation, search index) observe everything.
type EventSink interface {
	Consume(ctx context.Context, e event.DomainEvent) error
}

// ConnID identifies one physical connection. A user connected from several
// devices holds several ConnIDs.
type ConnID string

type IRegistry interface {
	Register(connID ConnID, sink EventSink)
	Subscribe(connID ConnID, channel domain.Channel)
	Drop(connID ConnID)
	SinksForChannel(channel domain.Channel) []EventSink
}

type IPublisher interface {
	Publish(ctx context.Context, e event.DomainEvent)
}
