package services

import (
	"chat-core/domain"
	"chat-core/errors"
	"chat-core/mocks"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func newMessageServiceMocks(t *testing.T) (*MessageService, *mocks.MockIConversationRepository, *mocks.MockIMessageRepository, *mocks.MockIUserRepository, *mocks.MockMessageSearcher) {
	ctrl := gomock.NewController(t)
	conversations := mocks.NewMockIConversationRepository(ctrl)
	messages := mocks.NewMockIMessageRepository(ctrl)
	users := mocks.NewMockIUserRepository(ctrl)
	searcher := mocks.NewMockMessageSearcher(ctrl)
	service := NewMessageService(conversations, messages, users, searcher)
	return service, conversations, messages, users, searcher
}

func Test_AddMessage_Blank_Content(t *testing.T) {
	req := require.New(t)
	service, _, _, _, _ := newMessageServiceMocks(t)

	for _, content := range []string{"", "   ", "\n\t"} {
		_, err := service.AddMessage(context.Background(), "conv-1", "alice", content, "")
		req.ErrorIs(err, errors.ErrValidation)
	}
}

func Test_AddMessage_NonMember_Rejected(t *testing.T) {
	req := require.New(t)
	service, conversations, _, _, _ := newMessageServiceMocks(t)

	// Given mallory is not in the participant set
	conversations.EXPECT().IsParticipant(domain.ConversationID("conv-1"), domain.UserID("mallory")).Return(false, nil)

	// When she tries to post
	_, err := service.AddMessage(context.Background(), "conv-1", "mallory", "let me in", "")

	// Then the send fails with an authorization error and nothing is persisted
	req.ErrorIs(err, errors.ErrAuthorization)
}

func Test_AddMessage_Success_Echoes_ClientID(t *testing.T) {
	req := require.New(t)
	service, conversations, messages, users, _ := newMessageServiceMocks(t)

	now := time.Now().UTC()
	conversations.EXPECT().IsParticipant(domain.ConversationID("conv-1"), domain.UserID("alice")).Return(true, nil)
	messages.EXPECT().AppendMessage(domain.ConversationID("conv-1"), domain.UserID("alice"), "hello", "tok-42").
		Return(domain.Message{
			ID:             7,
			ConversationID: "conv-1",
			SenderID:       "alice",
			Content:        "hello",
			SentAt:         now,
			ClientID:       "tok-42",
		}, nil)
	users.EXPECT().GetUsers([]domain.UserID{"alice"}).
		Return(map[domain.UserID]domain.User{"alice": {ID: "alice", Username: "Alice"}}, nil)

	view, err := service.AddMessage(context.Background(), "conv-1", "alice", "hello", "tok-42")
	req.NoError(err)
	req.Equal(domain.MessageID(7), view.ID)
	req.Equal("tok-42", view.ClientID)
	req.Equal("Alice", view.Sender.Username)
}

func Test_AddMessage_Sender_Profile_Missing(t *testing.T) {
	req := require.New(t)
	service, conversations, messages, users, _ := newMessageServiceMocks(t)

	conversations.EXPECT().IsParticipant(gomock.Any(), gomock.Any()).Return(true, nil)
	messages.EXPECT().AppendMessage(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(domain.Message{ID: 1, ConversationID: "conv-1", SenderID: "ghost", Content: "boo"}, nil)
	users.EXPECT().GetUsers(gomock.Any()).Return(map[domain.UserID]domain.User{}, nil)

	// The weak user reference degrades to a bare id projection
	view, err := service.AddMessage(context.Background(), "conv-1", "ghost", "boo", "")
	req.NoError(err)
	req.Equal(domain.UserID("ghost"), view.Sender.ID)
	req.Empty(view.Sender.Username)
}

func Test_GetConversationMessages_NonMember(t *testing.T) {
	req := require.New(t)
	service, conversations, _, _, _ := newMessageServiceMocks(t)

	conversations.EXPECT().IsParticipant(domain.ConversationID("conv-1"), domain.UserID("mallory")).Return(false, nil)

	_, err := service.GetConversationMessages(context.Background(), "conv-1", "mallory")
	req.ErrorIs(err, errors.ErrAuthorization)
}

func Test_GetConversationMessages_Preserves_Order(t *testing.T) {
	req := require.New(t)
	service, conversations, messages, users, _ := newMessageServiceMocks(t)

	conversations.EXPECT().IsParticipant(gomock.Any(), gomock.Any()).Return(true, nil)
	messages.EXPECT().ListMessages(domain.ConversationID("conv-1")).Return([]domain.Message{
		{ID: 1, SenderID: "alice", Content: "first"},
		{ID: 2, SenderID: "bob", Content: "second"},
		{ID: 3, SenderID: "alice", Content: "third"},
	}, nil)
	users.EXPECT().GetUsers(gomock.Any()).Return(map[domain.UserID]domain.User{
		"alice": {ID: "alice", Username: "Alice"},
		"bob":   {ID: "bob", Username: "Bob"},
	}, nil)

	views, err := service.GetConversationMessages(context.Background(), "conv-1", "alice")
	req.NoError(err)
	req.Len(views, 3)
	req.Equal(domain.MessageID(1), views[0].ID)
	req.Equal(domain.MessageID(3), views[2].ID)
	req.Equal("Bob", views[1].Sender.Username)
}

func Test_SearchMessages_Blank_Query(t *testing.T) {
	req := require.New(t)
	service, _, _, _, _ := newMessageServiceMocks(t)

	_, err := service.SearchMessages(context.Background(), "conv-1", "alice", "  ")
	req.ErrorIs(err, errors.ErrValidation)
}

func Test_SearchMessages_Skips_Stale_Index_Hits(t *testing.T) {
	req := require.New(t)
	service, conversations, messages, users, searcher := newMessageServiceMocks(t)

	conversations.EXPECT().IsParticipant(gomock.Any(), gomock.Any()).Return(true, nil)
	searcher.EXPECT().Search(gomock.Any(), domain.ConversationID("conv-1"), "hello").
		Return([]domain.MessageID{4, 9}, nil)
	messages.EXPECT().GetMessage(domain.ConversationID("conv-1"), domain.MessageID(4)).
		Return(domain.Message{ID: 4, SenderID: "alice", Content: "hello there"}, nil)
	// Id 9 is a stale hit no longer resolvable in the store
	messages.EXPECT().GetMessage(domain.ConversationID("conv-1"), domain.MessageID(9)).
		Return(domain.Message{}, errors.ErrNotFound)
	users.EXPECT().GetUsers(gomock.Any()).Return(map[domain.UserID]domain.User{}, nil)

	views, err := service.SearchMessages(context.Background(), "conv-1", "alice", "hello")
	req.NoError(err)
	req.Len(views, 1)
	req.Equal(domain.MessageID(4), views[0].ID)
}
