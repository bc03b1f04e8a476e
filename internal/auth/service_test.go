package auth

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cadenza-audio/cadenza/internal/config"
	"github.com/cadenza-audio/cadenza/internal/db"
	"github.com/cadenza-audio/cadenza/internal/logger"
)

func setupAuthTest(t *testing.T) *Service {
	t.Helper()

	logger.Init("error", false)

	database, err := db.New(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close() })

	sqlDB, err := database.GetSQLDB()
	require.NoError(t, err)
	require.NoError(t, db.RunMigrations(sqlDB, "file://../../migrations"))

	tokens := NewTokenManager(config.AuthConfig{JWTSecret: "test-secret", TokenTTL: time.Hour})
	return NewService(db.NewRepositories(database), tokens)
}

func TestRegisterAndLogin(t *testing.T) {
	svc := setupAuthTest(t)
	ctx := context.Background()

	user, err := svc.Register(ctx, "alice", "s3cretpw", "Alice")
	require.NoError(t, err)
	assert.Equal(t, "alice", user.Username)
	assert.Equal(t, "Alice", user.Nickname)
	assert.NotEqual(t, "s3cretpw", user.PasswordHash)

	token, logged, err := svc.Login(ctx, "alice", "s3cretpw")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, user.ID, logged.ID)
}

func TestRegister_DuplicateUsername(t *testing.T) {
	svc := setupAuthTest(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, "alice", "s3cretpw", "")
	require.NoError(t, err)

	_, err = svc.Register(ctx, "alice", "otherpw", "")
	assert.ErrorIs(t, err, ErrUsernameTaken)
}

func TestLogin_BadCredentials(t *testing.T) {
	svc := setupAuthTest(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, "alice", "s3cretpw", "")
	require.NoError(t, err)

	_, _, err = svc.Login(ctx, "alice", "wrongpw")
	assert.ErrorIs(t, err, ErrBadCredentials)

	_, _, err = svc.Login(ctx, "nobody", "s3cretpw")
	assert.ErrorIs(t, err, ErrBadCredentials)
}
