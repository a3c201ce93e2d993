package runtime

import (
	"chat-core/contract"
	"chat-core/domain"
	"chat-core/domain/event"
	"chat-core/projection"
	"chat-core/runtime/workers"
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"
)

func TestOrchestrator_Publish_Reaches_Subscribed_Sink(t *testing.T) {
	req := require.New(t)
	log := logs.GetLoggerFromLevel(slog.LevelDebug)

	registry := NewRegistry()
	orchestrator := NewOrchestrator(log, workers.NewSupervisor(log), registry, 16, time.Second)

	timeline := projection.NewTimeline()
	permanent := projection.NewTimeline()
	orchestrator.AddSinks(permanent)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	req.NoError(orchestrator.Start(ctx))

	// Given one live connection subscribed to a conversation channel
	connID := contract.ConnID("conn-1")
	orchestrator.RegisterConnection(connID, timeline)
	orchestrator.SubscribeChannel(connID, domain.ConversationChannel("conv-1"))

	// When an event for that channel is published
	orchestrator.Publish(ctx, event.MessageSent{Message: domain.MessageView{
		ID:             1,
		ConversationID: "conv-1",
		Content:        "hello",
	}})

	// Then both the session sink and the permanent sink observe it
	req.Eventually(func() bool {
		return len(timeline.Snapshot()) == 1 && len(permanent.Snapshot()) == 1
	}, time.Second, 10*time.Millisecond)

	// And a dropped connection stops receiving while permanent sinks continue
	orchestrator.DropConnection(connID)
	orchestrator.Publish(ctx, event.MessageSent{Message: domain.MessageView{
		ID:             2,
		ConversationID: "conv-1",
		Content:        "after drop",
	}})

	req.Eventually(func() bool {
		return len(permanent.Snapshot()) == 2
	}, time.Second, 10*time.Millisecond)
	req.Len(timeline.Snapshot(), 1)
}

func TestOrchestrator_Publish_Abandoned_On_Context_Done(t *testing.T) {
	log := logs.GetLoggerFromLevel(slog.LevelDebug)

	// An unstarted orchestrator with a full buffer never accepts the publish
	orchestrator := NewOrchestrator(log, workers.NewSupervisor(log), NewRegistry(), 0, time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	done := make(chan struct{})
	go func() {
		orchestrator.Publish(ctx, event.MessageSent{})
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(500 * time.Millisecond):
		t.Fatal("Publish should return once the caller context is done")
	}
}
