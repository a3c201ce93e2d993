package projection

import (
	"chat-core/domain"
	"chat-core/domain/event"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestTimeline_Consume_MessageSent(t *testing.T) {
	timeline := NewTimeline()
	ctx := context.Background()

	evt1 := event.MessageSent{Message: domain.MessageView{
		ID:       1,
		SenderID: "alice",
		Content:  "Hello Bob",
		SentAt:   time.Now(),
	}}

	evt2 := event.MessageSent{Message: domain.MessageView{
		ID:       2,
		SenderID: "clara",
		Content:  "Hi Bob",
		SentAt:   time.Now().Add(time.Second),
	}}

	err := timeline.Consume(ctx, evt1)
	require.NoError(t, err)
	err = timeline.Consume(ctx, evt2)
	require.NoError(t, err)

	messages := timeline.Snapshot()
	require.Len(t, messages, 2)
	require.Equal(t, domain.UserID("alice"), messages[0].SenderID)
	require.Equal(t, domain.UserID("clara"), messages[1].SenderID)
}

func TestTimeline_Consume_IgnoresOtherEvents(t *testing.T) {
	timeline := NewTimeline()

	err := timeline.Consume(context.Background(), event.ConversationCreated{})
	require.NoError(t, err)

	require.Empty(t, timeline.Snapshot())
}
