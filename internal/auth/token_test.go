package auth

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cadenza-audio/cadenza/internal/config"
)

func testTokenManager(ttl time.Duration) *TokenManager {
	return NewTokenManager(config.AuthConfig{
		JWTSecret: "test-secret-for-signing",
		TokenTTL:  ttl,
	})
}

func TestTokenRoundTrip(t *testing.T) {
	tm := testTokenManager(time.Hour)
	id := Identity{UserID: uuid.New(), Username: "alice"}

	token, err := tm.Issue(id)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	got, err := tm.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, id, got)
}

func TestVerify_ExpiredToken(t *testing.T) {
	tm := testTokenManager(-time.Minute)

	token, err := tm.Issue(Identity{UserID: uuid.New(), Username: "alice"})
	require.NoError(t, err)

	_, err = tm.Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerify_WrongSecret(t *testing.T) {
	token, err := testTokenManager(time.Hour).Issue(Identity{UserID: uuid.New(), Username: "alice"})
	require.NoError(t, err)

	other := NewTokenManager(config.AuthConfig{JWTSecret: "different-secret", TokenTTL: time.Hour})
	_, err = other.Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerify_Garbage(t *testing.T) {
	_, err := testTokenManager(time.Hour).Verify("not.a.token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("hunter22")
	require.NoError(t, err)
	assert.NotEqual(t, "hunter22", hash)

	assert.True(t, CheckPassword(hash, "hunter22"))
	assert.False(t, CheckPassword(hash, "hunter23"))
	assert.False(t, CheckPassword("", "hunter22"))
}

func TestIdentityContext(t *testing.T) {
	id := Identity{UserID: uuid.New(), Username: "alice"}
	ctx := WithIdentity(context.Background(), id)

	got, err := IdentityFrom(ctx)
	require.NoError(t, err)
	assert.Equal(t, id, got)

	_, err = IdentityFrom(context.Background())
	assert.ErrorIs(t, err, ErrNoIdentity)
}
