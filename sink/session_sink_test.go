package sink

import (
	"chat-core/domain"
	"chat-core/domain/event"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func Test_SessionSink_Buffers_Events(t *testing.T) {
	req := require.New(t)
	s := NewSessionSink(2)

	evt := event.MessageSent{Message: domain.MessageView{ID: 1}}
	req.NoError(s.Consume(context.Background(), evt))

	select {
	case got := <-s.Events:
		req.Equal(evt, got)
	default:
		req.Fail("Event should be buffered")
	}
}

func Test_SessionSink_Drops_When_Full_And_Context_Expires(t *testing.T) {
	req := require.New(t)
	s := NewSessionSink(1)

	req.NoError(s.Consume(context.Background(), event.MessageSent{Message: domain.MessageView{ID: 1}}))

	// The buffer is full and nobody drains: delivery gives up with the
	// context, costing only this connection its event
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	err := s.Consume(ctx, event.MessageSent{Message: domain.MessageView{ID: 2}})
	req.ErrorIs(err, context.DeadlineExceeded)
}
