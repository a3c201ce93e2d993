//go:generate go run go.uber.org/mock/mockgen -source=auth_service.go -destination=../mocks/mock_auth_service.go -package=mocks
package services

import (
	"chat-core/auth"
	"chat-core/errors"
	"chat-core/repositories"
	"fmt"
	"time"
)

type IAuthService interface {
	Register(email, username, password string) (string, auth.Token, error)
	Login(email, password string) (string, auth.Token, error)
}

type AuthService struct {
	users         repositories.IUserRepository
	tokenDuration time.Duration
}

func NewAuthService(users repositories.IUserRepository, tokenDuration time.Duration) IAuthService {
	return &AuthService{users: users, tokenDuration: tokenDuration}
}

// Register validates the request, hashes the password and persists the user,
// then issues the initial session token. Returns the new user id and token.
func (s *AuthService) Register(email, username, password string) (string, auth.Token, error) {
	valReq := auth.RegisterRequest{
		Email:    email,
		Username: username,
		Password: password,
	}

	// Validation runs before any expensive cryptographic operation.
	if err := auth.ValidateRegister(valReq); err != nil {
		return "", "", fmt.Errorf("%w: %v", errors.ErrValidation, err)
	}

	// Hashing happens in the service layer to keep the repository unaware of
	// plain passwords.
	hashedPassword, err := auth.HashPassword(password)
	if err != nil {
		return "", "", fmt.Errorf("hashing failed: %w", err)
	}

	userID, err := s.users.CreateUser(email, username, hashedPassword)
	if err != nil {
		return "", "", err // Propagates ErrUserAlreadyExists if the email is taken
	}

	token, err := auth.GenerateToken(userID, s.tokenDuration)
	if err != nil {
		return "", "", errors.ErrTokenGeneration
	}
	return userID, auth.Token(token), nil
}

func (s *AuthService) Login(email, password string) (string, auth.Token, error) {
	user, err := s.users.GetUserByEmail(email)
	if err != nil {
		// Generic error to prevent user enumeration attacks
		return "", "", errors.ErrInvalidCredentials
	}

	match, err := auth.ComparePassword(password, user.PasswordHash)
	if err != nil || !match {
		return "", "", errors.ErrInvalidCredentials
	}

	token, err := auth.GenerateToken(user.ID, s.tokenDuration)
	if err != nil {
		return "", "", errors.ErrTokenGeneration
	}
	return user.ID, auth.Token(token), nil
}
