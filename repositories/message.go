//go:generate go run go.uber.org/mock/mockgen -source=message.go -destination=../mocks/mock_message_repository.go -package=mocks
package repositories

import (
	"chat-core/domain"
	"chat-core/errors"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/samber/lo"
)

type IMessageRepository interface {
	AppendMessage(conversationID domain.ConversationID, senderID domain.UserID, content, clientID string) (domain.Message, error)
	GetMessage(conversationID domain.ConversationID, id domain.MessageID) (domain.Message, error)
	ListMessages(conversationID domain.ConversationID) ([]domain.Message, error)
	LatestMessage(conversationID domain.ConversationID) (*domain.Message, error)
}

type MessageRepository struct {
	db  *badger.DB
	log *slog.Logger
}

func NewMessageRepository(db *badger.DB, log *slog.Logger) MessageRepository {
	return MessageRepository{db: db, log: log}
}

type diskMessage struct {
	ID             uint64    `json:"id"`
	ConversationID string    `json:"conversation_id"`
	SenderID       string    `json:"sender_id"`
	Content        string    `json:"content"`
	SentAt         time.Time `json:"sent_at"`
	ClientID       string    `json:"client_id,omitempty"`
}

// AppendMessage assigns the next per-conversation id, writes the message and
// bumps the conversation's updated_at, all in one transaction. Racing appends
// against the same conversation both read the sequence and conversation rows,
// so badger's conflict detection serializes them; the loser retries and gets
// the next id. The resulting id order is the order every reader observes.
func (m MessageRepository) AppendMessage(conversationID domain.ConversationID, senderID domain.UserID, content, clientID string) (domain.Message, error) {
	for {
		message, err := m.tryAppend(conversationID, senderID, content, clientID)
		if err == badger.ErrConflict {
			m.log.Debug("Concurrent append, retrying", "conversation_id", conversationID)
			continue
		}
		return message, err
	}
}

func (m MessageRepository) tryAppend(conversationID domain.ConversationID, senderID domain.UserID, content, clientID string) (domain.Message, error) {
	var message domain.Message
	err := m.db.Update(func(txn *badger.Txn) error {
		// The conversation row must exist; reading it also makes the
		// updated_at bump part of the conflict window.
		convItem, err := txn.Get(conversationKey(conversationID))
		if err != nil {
			return err
		}
		var conv diskConversation
		if err = convItem.Value(func(val []byte) error {
			return json.Unmarshal(val, &conv)
		}); err != nil {
			return err
		}

		nextID, err := nextSequence(txn, conversationID)
		if err != nil {
			return err
		}

		now := time.Now().UTC()
		message = domain.Message{
			ID:             nextID,
			ConversationID: conversationID,
			SenderID:       senderID,
			Content:        content,
			SentAt:         now,
			ClientID:       clientID,
		}
		msgBytes, err := json.Marshal(fromMessage(message))
		if err != nil {
			return err
		}
		if err = txn.Set(messageKey(conversationID, nextID), msgBytes); err != nil {
			return err
		}

		conv.UpdatedAt = now
		convBytes, err := json.Marshal(conv)
		if err != nil {
			return err
		}
		return txn.Set(conversationKey(conversationID), convBytes)
	})
	if err == badger.ErrConflict {
		return domain.Message{}, err
	}
	if err == badger.ErrKeyNotFound {
		return domain.Message{}, errors.ErrNotFound
	}
	if err != nil {
		return domain.Message{}, fmt.Errorf("%w: %v", errors.ErrPersistence, err)
	}
	return message, nil
}

func nextSequence(txn *badger.Txn, conversationID domain.ConversationID) (domain.MessageID, error) {
	var last uint64
	item, err := txn.Get(sequenceKey(conversationID))
	switch err {
	case nil:
		if err = item.Value(func(val []byte) error {
			parsed, parseErr := strconv.ParseUint(string(val), 10, 64)
			last = parsed
			return parseErr
		}); err != nil {
			return 0, err
		}
	case badger.ErrKeyNotFound:
		last = 0
	default:
		return 0, err
	}
	next := last + 1
	if err = txn.Set(sequenceKey(conversationID), []byte(strconv.FormatUint(next, 10))); err != nil {
		return 0, err
	}
	return domain.MessageID(next), nil
}

func (m MessageRepository) GetMessage(conversationID domain.ConversationID, id domain.MessageID) (domain.Message, error) {
	var disk diskMessage
	err := m.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(messageKey(conversationID, id))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &disk)
		})
	})
	if err == badger.ErrKeyNotFound {
		return domain.Message{}, errors.ErrNotFound
	}
	if err != nil {
		return domain.Message{}, fmt.Errorf("%w: %v", errors.ErrPersistence, err)
	}
	return toMessage(disk), nil
}

// ListMessages returns the full log in strict insertion order. The padded id
// inside the key makes the prefix scan come back already sorted.
func (m MessageRepository) ListMessages(conversationID domain.ConversationID) ([]domain.Message, error) {
	var disks []diskMessage
	err := m.db.View(func(txn *badger.Txn) error {
		prefix := messagePrefix(conversationID)
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			var disk diskMessage
			err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &disk)
			})
			if err != nil {
				return err
			}
			disks = append(disks, disk)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errors.ErrPersistence, err)
	}
	return lo.Map(disks, func(d diskMessage, _ int) domain.Message {
		return toMessage(d)
	}), nil
}

// LatestMessage seeks past the highest possible id and walks one step back
// through a reverse iterator. Returns nil when the log is empty.
func (m MessageRepository) LatestMessage(conversationID domain.ConversationID) (*domain.Message, error) {
	var disk *diskMessage
	err := m.db.View(func(txn *badger.Txn) error {
		prefix := messagePrefix(conversationID)
		options := badger.DefaultIteratorOptions
		options.Reverse = true
		it := txn.NewIterator(options)
		defer it.Close()

		seekKey := append(append([]byte{}, prefix...), []byte(maxPaddedID)...)
		it.Seek(seekKey)
		if !it.ValidForPrefix(prefix) {
			return nil
		}
		var d diskMessage
		if err := it.Item().Value(func(val []byte) error {
			return json.Unmarshal(val, &d)
		}); err != nil {
			return err
		}
		disk = &d
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errors.ErrPersistence, err)
	}
	if disk == nil {
		return nil, nil
	}
	message := toMessage(*disk)
	return &message, nil
}

func fromMessage(m domain.Message) diskMessage {
	return diskMessage{
		ID:             uint64(m.ID),
		ConversationID: string(m.ConversationID),
		SenderID:       string(m.SenderID),
		Content:        m.Content,
		SentAt:         m.SentAt,
		ClientID:       m.ClientID,
	}
}

func toMessage(d diskMessage) domain.Message {
	return domain.Message{
		ID:             domain.MessageID(d.ID),
		ConversationID: domain.ConversationID(d.ConversationID),
		SenderID:       domain.UserID(d.SenderID),
		Content:        d.Content,
		SentAt:         d.SentAt,
		ClientID:       d.ClientID,
	}
}
