package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/cadenza-audio/cadenza/internal/db"
	"github.com/cadenza-audio/cadenza/internal/logger"
	"github.com/cadenza-audio/cadenza/internal/models"
)

// Custom auth service errors
var (
	// ErrUsernameTaken indicates the requested username is already registered
	ErrUsernameTaken = errors.New("username already taken")

	// ErrBadCredentials indicates an unknown username or wrong password
	ErrBadCredentials = errors.New("invalid username or password")
)

// IsUsernameTaken checks if the error is a username taken error
func IsUsernameTaken(err error) bool {
	return errors.Is(err, ErrUsernameTaken)
}

// IsBadCredentials checks if the error is a bad credentials error
func IsBadCredentials(err error) bool {
	return errors.Is(err, ErrBadCredentials)
}

// Service registers users and exchanges credentials for access tokens.
type Service struct {
	repos  *db.Repositories
	tokens *TokenManager
}

// NewService creates a new auth service
func NewService(repos *db.Repositories, tokens *TokenManager) *Service {
	return &Service{repos: repos, tokens: tokens}
}

// Register creates a new user account with a bcrypt-hashed password.
func (s *Service) Register(ctx context.Context, username, password, nickname string) (*models.User, error) {
	hash, err := HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := models.NewUser(username, hash)
	user.Nickname = nickname
	if err := s.repos.Users.Create(ctx, user); err != nil {
		if db.IsDuplicate(err) {
			return nil, ErrUsernameTaken
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	logger.Log.Info().
		Str("user_id", user.ID.String()).
		Str("username", user.Username).
		Msg("User registered")

	return user, nil
}

// Login verifies credentials and returns a signed access token. Unknown
// usernames and wrong passwords are indistinguishable to the caller.
func (s *Service) Login(ctx context.Context, username, password string) (string, *models.User, error) {
	user, err := s.repos.Users.GetByUsername(ctx, username)
	if err != nil {
		if db.IsNotFound(err) {
			return "", nil, ErrBadCredentials
		}
		return "", nil, fmt.Errorf("failed to get user: %w", err)
	}

	if !CheckPassword(user.PasswordHash, password) {
		return "", nil, ErrBadCredentials
	}

	token, err := s.tokens.Issue(Identity{UserID: user.ID, Username: user.Username})
	if err != nil {
		return "", nil, fmt.Errorf("failed to issue token: %w", err)
	}

	logger.Log.Info().
		Str("user_id", user.ID.String()).
		Str("username", user.Username).
		Msg("User logged in")

	return token, user, nil
}
