//go:generate go run go.uber.org/mock/mockgen -source=message_service.go -destination=../mocks/mock_message_service.go -package=mocks
package services

import (
	"chat-core/domain"
	"chat-core/errors"
	"chat-core/repositories"
	"context"
	"fmt"
	"strings"

	"github.com/samber/lo"
)

type IMessageService interface {
	AddMessage(ctx context.Context, conversationID domain.ConversationID, senderID domain.UserID, content, clientID string) (domain.MessageView, error)
	GetConversationMessages(ctx context.Context, conversationID domain.ConversationID, userID domain.UserID) ([]domain.MessageView, error)
	SearchMessages(ctx context.Context, conversationID domain.ConversationID, userID domain.UserID, query string) ([]domain.MessageView, error)
}

// MessageSearcher is the best-effort index fed by fan-out. It is rebuildable
// and never consulted for anything but search.
type MessageSearcher interface {
	Search(ctx context.Context, conversationID domain.ConversationID, query string) ([]domain.MessageID, error)
}

type MessageService struct {
	conversations repositories.IConversationRepository
	messages      repositories.IMessageRepository
	users         repositories.IUserRepository
	searcher      MessageSearcher
}

func NewMessageService(
	conversations repositories.IConversationRepository,
	messages repositories.IMessageRepository,
	users repositories.IUserRepository,
	searcher MessageSearcher,
) *MessageService {
	return &MessageService{conversations: conversations, messages: messages, users: users, searcher: searcher}
}

// AddMessage validates sender membership, persists the message with a
// store-assigned id and bumps the conversation's updated_at in the same
// transaction. The clientID token is stored and echoed verbatim; duplicate
// submissions carrying the same token are persisted as distinct messages.
func (s *MessageService) AddMessage(_ context.Context, conversationID domain.ConversationID, senderID domain.UserID, content, clientID string) (domain.MessageView, error) {
	if strings.TrimSpace(content) == "" {
		return domain.MessageView{}, fmt.Errorf("%w: content is blank", errors.ErrValidation)
	}

	member, err := s.conversations.IsParticipant(conversationID, senderID)
	if err != nil {
		return domain.MessageView{}, err
	}
	if !member {
		return domain.MessageView{}, fmt.Errorf("%w: sender is not a participant", errors.ErrAuthorization)
	}

	message, err := s.messages.AppendMessage(conversationID, senderID, content, clientID)
	if err != nil {
		return domain.MessageView{}, err
	}
	return toMessageView(message, s.senderProjection(senderID)), nil
}

// GetConversationMessages returns the full log in strict insertion order,
// for participants only.
func (s *MessageService) GetConversationMessages(_ context.Context, conversationID domain.ConversationID, userID domain.UserID) ([]domain.MessageView, error) {
	if err := s.requireMembership(conversationID, userID); err != nil {
		return nil, err
	}
	messages, err := s.messages.ListMessages(conversationID)
	if err != nil {
		return nil, err
	}
	return s.assemble(messages)
}

// SearchMessages runs a term query against the index and resolves the hits
// through the store, so results always reflect persisted content.
func (s *MessageService) SearchMessages(ctx context.Context, conversationID domain.ConversationID, userID domain.UserID, query string) ([]domain.MessageView, error) {
	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("%w: query is blank", errors.ErrValidation)
	}
	if err := s.requireMembership(conversationID, userID); err != nil {
		return nil, err
	}
	if s.searcher == nil {
		return nil, nil
	}
	ids, err := s.searcher.Search(ctx, conversationID, query)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errors.ErrPersistence, err)
	}
	messages := make([]domain.Message, 0, len(ids))
	for _, id := range ids {
		message, err := s.messages.GetMessage(conversationID, id)
		if err != nil {
			// The index may briefly be ahead of or behind the store.
			continue
		}
		messages = append(messages, message)
	}
	return s.assemble(messages)
}

func (s *MessageService) requireMembership(conversationID domain.ConversationID, userID domain.UserID) error {
	member, err := s.conversations.IsParticipant(conversationID, userID)
	if err != nil {
		return err
	}
	if !member {
		return fmt.Errorf("%w: not a participant", errors.ErrAuthorization)
	}
	return nil
}

func (s *MessageService) assemble(messages []domain.Message) ([]domain.MessageView, error) {
	senderIDs := lo.Uniq(lo.Map(messages, func(m domain.Message, _ int) domain.UserID {
		return m.SenderID
	}))
	users, err := s.users.GetUsers(senderIDs)
	if err != nil {
		return nil, err
	}
	return lo.Map(messages, func(m domain.Message, _ int) domain.MessageView {
		return toMessageView(m, projectionOrFallback(users, m.SenderID))
	}), nil
}

func (s *MessageService) senderProjection(id domain.UserID) domain.UserView {
	users, err := s.users.GetUsers([]domain.UserID{id})
	if err != nil {
		return domain.UserView{ID: id}
	}
	return projectionOrFallback(users, id)
}
