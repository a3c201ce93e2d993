package repositories

import (
	"chat-core/domain"
	"chat-core/errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func Test_CreateUser_And_Lookup(t *testing.T) {
	req := require.New(t)
	repo := NewUserRepository(openTestDB(t))

	id, err := repo.CreateUser("alice@example.com", "alice", "hashed")
	req.NoError(err)
	req.NotEmpty(id)

	byEmail, err := repo.GetUserByEmail("alice@example.com")
	req.NoError(err)
	req.Equal(id, byEmail.ID)
	req.Equal("hashed", byEmail.PasswordHash)

	// The projection never carries credentials
	user, err := repo.GetUser(domain.UserID(id))
	req.NoError(err)
	req.Equal("alice", user.Username)
}

func Test_CreateUser_Duplicate_Email(t *testing.T) {
	req := require.New(t)
	repo := NewUserRepository(openTestDB(t))

	_, err := repo.CreateUser("alice@example.com", "alice", "hashed")
	req.NoError(err)

	_, err = repo.CreateUser("alice@example.com", "impostor", "other")
	req.ErrorIs(err, errors.ErrUserAlreadyExists)
}

func Test_GetUsers_Skips_Unknown_IDs(t *testing.T) {
	req := require.New(t)
	repo := NewUserRepository(openTestDB(t))

	aliceID, err := repo.CreateUser("alice@example.com", "alice", "hashed")
	req.NoError(err)

	users, err := repo.GetUsers([]domain.UserID{domain.UserID(aliceID), "ghost"})
	req.NoError(err)
	req.Len(users, 1)
	req.Equal("alice", users[domain.UserID(aliceID)].Username)
}

func Test_GetUser_NotFound(t *testing.T) {
	req := require.New(t)
	repo := NewUserRepository(openTestDB(t))

	_, err := repo.GetUser("ghost")
	req.ErrorIs(err, errors.ErrNotFound)
}
