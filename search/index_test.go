package search

import (
	"chat-core/domain"
	"chat-core/domain/event"
	"context"
	"log/slog"
	"testing"

	"github.com/blugelabs/bluge"
	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"
)

func newTestIndex(t *testing.T) *MessageIndex {
	t.Helper()
	writer, err := bluge.OpenWriter(bluge.DefaultConfig(t.TempDir()))
	require.NoError(t, err)
	t.Cleanup(func() { _ = writer.Close() })
	return NewMessageIndex(writer, logs.GetLoggerFromLevel(slog.LevelDebug), 10)
}

func Test_Index_And_Search_Scoped_To_Conversation(t *testing.T) {
	req := require.New(t)
	index := newTestIndex(t)
	ctx := context.Background()

	// Given messages in two conversations
	messages := []domain.MessageView{
		{ID: 1, ConversationID: "conv-1", SenderID: "alice", Content: "deployment is broken again"},
		{ID: 2, ConversationID: "conv-1", SenderID: "bob", Content: "lunch anyone"},
		{ID: 3, ConversationID: "conv-2", SenderID: "alice", Content: "deployment looks fine here"},
	}
	for _, m := range messages {
		req.NoError(index.IndexMessage(m))
	}

	// When searching one conversation
	ids, err := index.Search(ctx, "conv-1", "deployment")
	req.NoError(err)

	// Then only that conversation's hit comes back
	req.Equal([]domain.MessageID{1}, ids)
}

func Test_Search_No_Match(t *testing.T) {
	req := require.New(t)
	index := newTestIndex(t)

	req.NoError(index.IndexMessage(domain.MessageView{
		ID: 1, ConversationID: "conv-1", Content: "hello world",
	}))

	ids, err := index.Search(context.Background(), "conv-1", "zebra")
	req.NoError(err)
	req.Empty(ids)
}

func Test_Consume_Indexes_MessageSent_Only(t *testing.T) {
	req := require.New(t)
	index := newTestIndex(t)
	ctx := context.Background()

	req.NoError(index.Consume(ctx, event.MessageSent{Message: domain.MessageView{
		ID: 5, ConversationID: "conv-1", Content: "indexed through fanout",
	}}))
	req.NoError(index.Consume(ctx, event.ConversationCreated{}))

	ids, err := index.Search(ctx, "conv-1", "fanout")
	req.NoError(err)
	req.Equal([]domain.MessageID{5}, ids)
}

func Test_Reindex_Same_Document_Updates_In_Place(t *testing.T) {
	req := require.New(t)
	index := newTestIndex(t)
	ctx := context.Background()

	// The doc id is conversation-scoped, so re-delivery of the same event
	// overwrites instead of duplicating
	message := domain.MessageView{ID: 1, ConversationID: "conv-1", Content: "repeated delivery"}
	req.NoError(index.IndexMessage(message))
	req.NoError(index.IndexMessage(message))

	ids, err := index.Search(ctx, "conv-1", "repeated")
	req.NoError(err)
	req.Equal([]domain.MessageID{1}, ids)
}
