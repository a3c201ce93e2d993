//go:generate go run go.uber.org/mock/mockgen -source=conversation_service.go -destination=../mocks/mock_conversation_service.go -package=mocks
package services

import (
	"chat-core/domain"
	"chat-core/errors"
	"chat-core/repositories"
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/samber/lo"
)

type IConversationService interface {
	CreateConversation(ctx context.Context, creatorID domain.UserID, participantIDs []domain.UserID, title string) (domain.ConversationView, error)
	GetUserConversations(ctx context.Context, userID domain.UserID) ([]domain.ConversationView, error)
	GetConversationByID(ctx context.Context, conversationID domain.ConversationID, userID domain.UserID) (domain.ConversationView, []domain.MessageView, error)
	GetUserConversationIDs(ctx context.Context, userID domain.UserID) ([]domain.ConversationID, error)
}

type ConversationService struct {
	conversations repositories.IConversationRepository
	messages      repositories.IMessageRepository
	users         repositories.IUserRepository
}

func NewConversationService(
	conversations repositories.IConversationRepository,
	messages repositories.IMessageRepository,
	users repositories.IUserRepository,
) *ConversationService {
	return &ConversationService{conversations: conversations, messages: messages, users: users}
}

// CreateConversation validates the participant set, folds the creator into it
// and creates the conversation row plus every participant row atomically.
// The returned view carries resolved display projections and a zero unread
// count; updated_at equals created_at until the first message lands.
func (s *ConversationService) CreateConversation(_ context.Context, creatorID domain.UserID, participantIDs []domain.UserID, title string) (domain.ConversationView, error) {
	if len(participantIDs) == 0 {
		return domain.ConversationView{}, fmt.Errorf("%w: participant set is empty", errors.ErrValidation)
	}
	ids := lo.Uniq(append([]domain.UserID{creatorID}, participantIDs...))
	if title == "" {
		title = domain.DefaultTitle
	}

	now := time.Now().UTC()
	conversation := domain.Conversation{
		ID:        domain.NewConversationID(),
		Title:     title,
		CreatedAt: now,
		UpdatedAt: now,
	}
	participants := lo.Map(ids, func(id domain.UserID, _ int) domain.Participant {
		return domain.Participant{
			ConversationID: conversation.ID,
			UserID:         id,
			JoinedAt:       now,
			LastReadAt:     now,
		}
	})

	if err := s.conversations.CreateConversation(conversation, participants); err != nil {
		return domain.ConversationView{}, err
	}
	return s.assembleView(conversation, participants, nil)
}

// GetUserConversations returns every conversation the user participates in,
// annotated with its latest message, most recently active first.
func (s *ConversationService) GetUserConversations(_ context.Context, userID domain.UserID) ([]domain.ConversationView, error) {
	conversations, err := s.conversations.ListUserConversations(userID)
	if err != nil {
		return nil, err
	}

	views := make([]domain.ConversationView, 0, len(conversations))
	for _, conversation := range conversations {
		participants, err := s.conversations.GetParticipants(conversation.ID)
		if err != nil {
			return nil, err
		}
		latest, err := s.messages.LatestMessage(conversation.ID)
		if err != nil {
			return nil, err
		}
		view, err := s.assembleView(conversation, participants, latest)
		if err != nil {
			return nil, err
		}
		views = append(views, view)
	}

	sort.SliceStable(views, func(i, j int) bool {
		return views[i].UpdatedAt.After(views[j].UpdatedAt)
	})
	return views, nil
}

// GetConversationByID returns the conversation with its full history, for
// participants only. A non-participant caller and an absent conversation get
// the same answer: membership must not be probeable through error shapes.
func (s *ConversationService) GetConversationByID(_ context.Context, conversationID domain.ConversationID, userID domain.UserID) (domain.ConversationView, []domain.MessageView, error) {
	member, err := s.conversations.IsParticipant(conversationID, userID)
	if err != nil {
		return domain.ConversationView{}, nil, err
	}
	if !member {
		return domain.ConversationView{}, nil, errors.ErrAuthorization
	}

	conversation, err := s.conversations.GetConversation(conversationID)
	if err != nil {
		return domain.ConversationView{}, nil, err
	}
	participants, err := s.conversations.GetParticipants(conversationID)
	if err != nil {
		return domain.ConversationView{}, nil, err
	}
	messages, err := s.messages.ListMessages(conversationID)
	if err != nil {
		return domain.ConversationView{}, nil, err
	}

	view, err := s.assembleView(conversation, participants, nil)
	if err != nil {
		return domain.ConversationView{}, nil, err
	}
	messageViews, err := s.assembleMessages(messages)
	if err != nil {
		return domain.ConversationView{}, nil, err
	}
	if len(messageViews) > 0 {
		view.LastMessage = &messageViews[len(messageViews)-1]
	}
	return view, messageViews, nil
}

func (s *ConversationService) GetUserConversationIDs(_ context.Context, userID domain.UserID) ([]domain.ConversationID, error) {
	return s.conversations.GetUserConversationIDs(userID)
}

func (s *ConversationService) assembleView(conversation domain.Conversation, participants []domain.Participant, latest *domain.Message) (domain.ConversationView, error) {
	ids := lo.Map(participants, func(p domain.Participant, _ int) domain.UserID {
		return p.UserID
	})
	users, err := s.users.GetUsers(ids)
	if err != nil {
		return domain.ConversationView{}, err
	}

	view := domain.ConversationView{
		ID:        conversation.ID,
		Title:     conversation.Title,
		CreatedAt: conversation.CreatedAt,
		UpdatedAt: conversation.UpdatedAt,
		Participants: lo.Map(participants, func(p domain.Participant, _ int) domain.ParticipantView {
			return domain.ParticipantView{
				UserID:     p.UserID,
				JoinedAt:   p.JoinedAt,
				LastReadAt: p.LastReadAt,
				User:       projectionOrFallback(users, p.UserID),
			}
		}),
		UnreadCount: 0,
	}
	if latest != nil {
		messageView := toMessageView(*latest, projectionOrFallback(users, latest.SenderID))
		view.LastMessage = &messageView
	}
	return view, nil
}

func (s *ConversationService) assembleMessages(messages []domain.Message) ([]domain.MessageView, error) {
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

// projectionOrFallback degrades to a bare id when the identity side has no
// profile for a referenced user. The reference is weak: its absence must not
// break a conversation view.
func projectionOrFallback(users map[domain.UserID]domain.User, id domain.UserID) domain.UserView {
	if user, ok := users[id]; ok {
		return domain.UserView{ID: user.ID, Username: user.Username, Avatar: user.Avatar}
	}
	return domain.UserView{ID: id}
}

func toMessageView(m domain.Message, sender domain.UserView) domain.MessageView {
	return domain.MessageView{
		ID:             m.ID,
		ConversationID: m.ConversationID,
		SenderID:       m.SenderID,
		Content:        m.Content,
		SentAt:         m.SentAt,
		ClientID:       m.ClientID,
		Sender:         sender,
	}
}
