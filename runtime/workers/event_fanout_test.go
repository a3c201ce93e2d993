package workers

import (
	"chat-core/contract"
	"chat-core/domain"
	"chat-core/domain/event"
	"chat-core/mocks"
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestEventFanout_Delivers_To_Channel_And_Permanent_Sinks(t *testing.T) {
	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	mockRegistry := mocks.NewMockIRegistry(ctrl)

	sessionSink := mocks.NewMockEventSink(ctrl)
	permanentSink := mocks.NewMockEventSink(ctrl)
	channelSinks := []contract.EventSink{sessionSink, sessionSink}

	fanout := NewEventFanout(log, mockRegistry, make(chan event.DomainEvent), 10*time.Second).
		Add(permanentSink)

	evt := event.MessageSent{Message: domain.MessageView{ID: 1, ConversationID: "conv-1"}}

	// Given two live sessions on the conversation channel
	mockRegistry.EXPECT().SinksForChannel(domain.ConversationChannel("conv-1")).Return(channelSinks).Times(1)
	// Then both session deliveries and the permanent sink fire
	sessionSink.EXPECT().Consume(gomock.Any(), evt).Return(nil).Times(2)
	permanentSink.EXPECT().Consume(gomock.Any(), evt).Return(nil).Times(1)

	// When the event is fanned out
	fanout.Fanout(context.Background(), evt)
}

func TestEventFanout_Telemetry_Event_Reaches_Permanent_Sinks_Only(t *testing.T) {
	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	mockRegistry := mocks.NewMockIRegistry(ctrl)
	permanentSink := mocks.NewMockEventSink(ctrl)

	fanout := NewEventFanout(log, mockRegistry, make(chan event.DomainEvent), time.Second).
		Add(permanentSink)

	// A flagged-message event targets no channel, so the registry is never asked
	evt := event.MessageFlagged{ConversationID: "conv-1", MessageID: 1}
	permanentSink.EXPECT().Consume(gomock.Any(), evt).Return(nil).Times(1)

	fanout.Fanout(context.Background(), evt)
}

func TestEventFanout_SinkTimeout(t *testing.T) {
	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRegistry := mocks.NewMockIRegistry(ctrl)
	slowSink := mocks.NewMockEventSink(ctrl)

	sinkTimeout := 20 * time.Millisecond
	fanout := NewEventFanout(log, mockRegistry, make(chan event.DomainEvent), sinkTimeout)

	mockRegistry.EXPECT().SinksForChannel(gomock.Any()).Return([]contract.EventSink{slowSink}).Times(1)
	// Given a sink that only returns when its delivery context expires
	slowSink.EXPECT().Consume(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, evt event.DomainEvent) error {
			<-ctx.Done()
			return ctx.Err()
		}).
		Times(1)

	// When the event is fanned out, the slow sink costs its timeout and no more
	start := time.Now()
	fanout.Fanout(context.Background(), event.MessageSent{Message: domain.MessageView{ConversationID: "conv-1"}})

	if elapsed := time.Since(start); elapsed > time.Second {
		t.Fatalf("fanout blocked for %v, expected roughly the sink timeout", elapsed)
	}
}

func TestEventFanout_Run_Stops_On_Context_Cancel(t *testing.T) {
	req := require.New(t)
	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	fanout := NewEventFanout(log, mocks.NewMockIRegistry(ctrl), make(chan event.DomainEvent), time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- fanout.Run(ctx) }()

	cancel()
	select {
	case err := <-done:
		req.NoError(err)
	case <-time.After(500 * time.Millisecond):
		req.Fail("Fanout worker should stop when its context is canceled")
	}
}
