package repositories

import (
	"chat-core/domain"
	"chat-core/errors"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func Test_CreateConversation_And_Fetch(t *testing.T) {
	req := require.New(t)
	db := openTestDB(t)
	repo := NewConversationRepository(db, slog.Default())

	// Given a conversation with two participants
	conversationID := domain.ConversationID(uuid.NewString())
	now := time.Now().UTC()
	err := repo.CreateConversation(domain.Conversation{
		ID:        conversationID,
		Title:     "project sync",
		CreatedAt: now,
		UpdatedAt: now,
	}, []domain.Participant{
		{ConversationID: conversationID, UserID: "alice", JoinedAt: now, LastReadAt: now},
		{ConversationID: conversationID, UserID: "bob", JoinedAt: now, LastReadAt: now},
	})
	req.NoError(err)

	// When fetching it back
	conv, err := repo.GetConversation(conversationID)
	req.NoError(err)
	req.Equal("project sync", conv.Title)

	participants, err := repo.GetParticipants(conversationID)
	req.NoError(err)
	req.Len(participants, 2)
}

func Test_GetConversation_NotFound(t *testing.T) {
	req := require.New(t)
	repo := NewConversationRepository(openTestDB(t), slog.Default())

	_, err := repo.GetConversation(domain.ConversationID(uuid.NewString()))
	req.ErrorIs(err, errors.ErrNotFound)
}

func Test_IsParticipant(t *testing.T) {
	req := require.New(t)
	db := openTestDB(t)
	repo := NewConversationRepository(db, slog.Default())
	conversationID := seedConversation(t, db, "alice", "bob")

	ok, err := repo.IsParticipant(conversationID, "alice")
	req.NoError(err)
	req.True(ok)

	ok, err = repo.IsParticipant(conversationID, "mallory")
	req.NoError(err)
	req.False(ok)

	// Unknown conversation reads the same as non-membership
	ok, err = repo.IsParticipant(domain.ConversationID(uuid.NewString()), "alice")
	req.NoError(err)
	req.False(ok)
}

func Test_GetUserConversationIDs(t *testing.T) {
	req := require.New(t)
	db := openTestDB(t)
	repo := NewConversationRepository(db, slog.Default())

	first := seedConversation(t, db, "alice", "bob")
	second := seedConversation(t, db, "alice")
	seedConversation(t, db, "bob")

	ids, err := repo.GetUserConversationIDs("alice")
	req.NoError(err)
	req.ElementsMatch([]domain.ConversationID{first, second}, ids)

	ids, err = repo.GetUserConversationIDs("nobody")
	req.NoError(err)
	req.Empty(ids)
}

func Test_ListUserConversations(t *testing.T) {
	req := require.New(t)
	db := openTestDB(t)
	repo := NewConversationRepository(db, slog.Default())

	first := seedConversation(t, db, "alice", "bob")
	second := seedConversation(t, db, "alice")

	conversations, err := repo.ListUserConversations("alice")
	req.NoError(err)
	req.Len(conversations, 2)
	ids := []domain.ConversationID{conversations[0].ID, conversations[1].ID}
	req.ElementsMatch([]domain.ConversationID{first, second}, ids)
}
