//go:generate go run go.uber.org/mock/mockgen -source=conversation.go -destination=../mocks/mock_conversation_repository.go -package=mocks
package repositories

import (
	"chat-core/domain"
	"chat-core/errors"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/samber/lo"
)

type IConversationRepository interface {
	CreateConversation(conv domain.Conversation, participants []domain.Participant) error
	GetConversation(id domain.ConversationID) (domain.Conversation, error)
	GetParticipants(id domain.ConversationID) ([]domain.Participant, error)
	IsParticipant(id domain.ConversationID, userID domain.UserID) (bool, error)
	GetUserConversationIDs(userID domain.UserID) ([]domain.ConversationID, error)
	ListUserConversations(userID domain.UserID) ([]domain.Conversation, error)
}

type ConversationRepository struct {
	db  *badger.DB
	log *slog.Logger
}

func NewConversationRepository(db *badger.DB, log *slog.Logger) ConversationRepository {
	return ConversationRepository{db: db, log: log}
}

// diskConversation is the storage representation of a conversation row.
type diskConversation struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type diskParticipant struct {
	ConversationID string    `json:"conversation_id"`
	UserID         string    `json:"user_id"`
	JoinedAt       time.Time `json:"joined_at"`
	LastReadAt     time.Time `json:"last_read_at"`
}

// CreateConversation writes the conversation row, every participant row and
// the per-user membership index in a single transaction. Either all of it
// lands or none of it does.
func (r ConversationRepository) CreateConversation(conv domain.Conversation, participants []domain.Participant) error {
	convBytes, err := json.Marshal(fromConversation(conv))
	if err != nil {
		return fmt.Errorf("%w: %v", errors.ErrPersistence, err)
	}
	err = r.db.Update(func(txn *badger.Txn) error {
		if err := txn.Set(conversationKey(conv.ID), convBytes); err != nil {
			return err
		}
		for _, p := range participants {
			bytes, err := json.Marshal(fromParticipant(p))
			if err != nil {
				return err
			}
			if err := txn.Set(participantKey(p.ConversationID, p.UserID), bytes); err != nil {
				return err
			}
			if err := txn.Set(membershipKey(p.UserID, p.ConversationID), nil); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("%w: %v", errors.ErrPersistence, err)
	}
	return nil
}

func (r ConversationRepository) GetConversation(id domain.ConversationID) (domain.Conversation, error) {
	var disk diskConversation
	err := r.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(conversationKey(id))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &disk)
		})
	})
	if err == badger.ErrKeyNotFound {
		return domain.Conversation{}, errors.ErrNotFound
	}
	if err != nil {
		return domain.Conversation{}, fmt.Errorf("%w: %v", errors.ErrPersistence, err)
	}
	return toConversation(disk), nil
}

func (r ConversationRepository) GetParticipants(id domain.ConversationID) ([]domain.Participant, error) {
	var disks []diskParticipant
	err := r.db.View(func(txn *badger.Txn) error {
		prefix := participantPrefix(id)
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			var disk diskParticipant
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
	return lo.Map(disks, func(d diskParticipant, _ int) domain.Participant {
		return toParticipant(d)
	}), nil
}

func (r ConversationRepository) IsParticipant(id domain.ConversationID, userID domain.UserID) (bool, error) {
	err := r.db.View(func(txn *badger.Txn) error {
		_, err := txn.Get(participantKey(id, userID))
		return err
	})
	switch err {
	case nil:
		return true, nil
	case badger.ErrKeyNotFound:
		return false, nil
	default:
		return false, fmt.Errorf("%w: %v", errors.ErrPersistence, err)
	}
}

// GetUserConversationIDs scans the membership index. This is the lightweight
// call the gateway uses to bootstrap channel subscriptions on connect.
func (r ConversationRepository) GetUserConversationIDs(userID domain.UserID) ([]domain.ConversationID, error) {
	var ids []domain.ConversationID
	err := r.db.View(func(txn *badger.Txn) error {
		prefix := membershipPrefix(userID)
		options := badger.DefaultIteratorOptions
		options.PrefetchValues = false
		it := txn.NewIterator(options)
		defer it.Close()
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			key := it.Item().Key()
			ids = append(ids, domain.ConversationID(key[len(prefix):]))
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errors.ErrPersistence, err)
	}
	return ids, nil
}

func (r ConversationRepository) ListUserConversations(userID domain.UserID) ([]domain.Conversation, error) {
	ids, err := r.GetUserConversationIDs(userID)
	if err != nil {
		return nil, err
	}
	conversations := make([]domain.Conversation, 0, len(ids))
	for _, id := range ids {
		conv, err := r.GetConversation(id)
		if err != nil {
			return nil, err
		}
		conversations = append(conversations, conv)
	}
	return conversations, nil
}

func fromConversation(c domain.Conversation) diskConversation {
	return diskConversation{
		ID:        string(c.ID),
		Title:     c.Title,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

func toConversation(d diskConversation) domain.Conversation {
	return domain.Conversation{
		ID:        domain.ConversationID(d.ID),
		Title:     d.Title,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
}

func fromParticipant(p domain.Participant) diskParticipant {
	return diskParticipant{
		ConversationID: string(p.ConversationID),
		UserID:         string(p.UserID),
		JoinedAt:       p.JoinedAt,
		LastReadAt:     p.LastReadAt,
	}
}

func toParticipant(d diskParticipant) domain.Participant {
	return domain.Participant{
		ConversationID: domain.ConversationID(d.ConversationID),
		UserID:         domain.UserID(d.UserID),
		JoinedAt:       d.JoinedAt,
		LastReadAt:     d.LastReadAt,
	}
}
