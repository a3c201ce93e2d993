// Package search maintains a best-effort full-text index over persisted
// messages. The index is fed by fan-out, rebuildable from the store, and is
// never a source of truth: every hit is resolved back through the store.
package search

import (
	"chat-core/domain"
	"chat-core/domain/event"
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/blugelabs/bluge"
)

type MessageIndex struct {
	writer *bluge.Writer
	log    *slog.Logger
	limit  int
}

func NewMessageIndex(writer *bluge.Writer, log *slog.Logger, limit int) *MessageIndex {
	return &MessageIndex{writer: writer, log: log, limit: limit}
}

// Consume implements the EventSink interface: every fanned-out MessageSent
// lands in the index. Indexing failures are logged and swallowed; a missed
// document only degrades search, never delivery.
func (i *MessageIndex) Consume(_ context.Context, e event.DomainEvent) error {
	sent, ok := e.(event.MessageSent)
	if !ok {
		return nil
	}
	if err := i.IndexMessage(sent.Message); err != nil {
		i.log.Error("Failed to index message",
			"conversation_id", sent.Message.ConversationID,
			"message_id", sent.Message.ID,
			"error", err)
	}
	return nil
}

func (i *MessageIndex) IndexMessage(m domain.MessageView) error {
	docID := fmt.Sprintf("%s:%d", m.ConversationID, m.ID)
	doc := bluge.NewDocument(docID).
		AddField(bluge.NewTextField("content", m.Content)).
		AddField(bluge.NewKeywordField("conversation_id", string(m.ConversationID))).
		AddField(bluge.NewKeywordField("message_id", strconv.FormatUint(uint64(m.ID), 10)).StoreValue())
	return i.writer.Update(doc.ID(), doc)
}

// Search runs a term query scoped to one conversation and returns matching
// message ids, best first.
func (i *MessageIndex) Search(ctx context.Context, conversationID domain.ConversationID, query string) ([]domain.MessageID, error) {
	reader, err := i.writer.Reader()
	if err != nil {
		return nil, err
	}
	defer func() { _ = reader.Close() }()

	q := bluge.NewBooleanQuery().
		AddMust(bluge.NewMatchQuery(query).SetField("content")).
		AddMust(bluge.NewTermQuery(string(conversationID)).SetField("conversation_id"))

	iterator, err := reader.Search(ctx, bluge.NewTopNSearch(i.limit, q))
	if err != nil {
		return nil, err
	}

	var ids []domain.MessageID
	for {
		match, err := iterator.Next()
		if err != nil {
			return nil, err
		}
		if match == nil {
			break
		}
		err = match.VisitStoredFields(func(field string, value []byte) bool {
			if field == "message_id" {
				if id, parseErr := strconv.ParseUint(string(value), 10, 64); parseErr == nil {
					ids = append(ids, domain.MessageID(id))
				}
			}
			return true
		})
		if err != nil {
			return nil, err
		}
	}
	return ids, nil
}
