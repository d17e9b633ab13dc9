package service

import (
	"testing"
	"time"

	apperrors "github.com/qconnect/clinic-api/internal/errors"
	"github.com/qconnect/clinic-api/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestTokenService(accessTTL time.Duration) *TokenService {
	return NewTokenService("test-secret-key", accessTTL, 7*24*time.Hour)
}

func testUser() *model.User {
	return &model.User{
		Model: gorm.Model{ID: 42},
		Name:  "Alice",
		Email: "alice@example.com",
		Role:  model.RolePatient,
	}
}

func TestTokenService_IssueAndVerify(t *testing.T) {
	t.Parallel()

	svc := newTestTokenService(15 * time.Minute)
	user := testUser()

	token, expiresAt, err := svc.IssueAccessToken(user)
	require.NoError(t, err)
	require.NotEmpty(t, token)
	assert.WithinDuration(t, time.Now().Add(15*time.Minute), expiresAt, 2*time.Second)

	claims, err := svc.VerifyAccessToken(token)
	require.NoError(t, err)

	assert.Equal(t, uint(42), claims.UserID)
	assert.Equal(t, "alice@example.com", claims.Email)
	assert.Equal(t, model.RolePatient, claims.Role)
	require.NotNil(t, claims.ExpiresAt)
	assert.WithinDuration(t, expiresAt, claims.ExpiresAt.Time, time.Second)
}

func TestTokenService_VerifyExpired(t *testing.T) {
	t.Parallel()

	svc := newTestTokenService(-time.Minute)

	token, _, err := svc.IssueAccessToken(testUser())
	require.NoError(t, err)

	_, err = svc.VerifyAccessToken(token)
	assert.ErrorIs(t, err, apperrors.ErrTokenExpired)
}

func TestTokenService_VerifyWrongSecret(t *testing.T) {
	t.Parallel()

	token, _, err := newTestTokenService(15 * time.Minute).IssueAccessToken(testUser())
	require.NoError(t, err)

	other := NewTokenService("different-secret", 15*time.Minute, time.Hour)
	_, err = other.VerifyAccessToken(token)
	assert.ErrorIs(t, err, apperrors.ErrInvalidToken)
	assert.NotErrorIs(t, err, apperrors.ErrTokenExpired)
}

func TestTokenService_VerifyGarbage(t *testing.T) {
	t.Parallel()

	svc := newTestTokenService(15 * time.Minute)
	_, err := svc.VerifyAccessToken("not-a-jwt")
	assert.ErrorIs(t, err, apperrors.ErrInvalidToken)
}

func TestTokenService_NewRefreshToken(t *testing.T) {
	t.Parallel()

	svc := newTestTokenService(15 * time.Minute)

	raw, hash, expiresAt, err := svc.NewRefreshToken()
	require.NoError(t, err)

	// 32 random bytes base64url-encoded without padding
	assert.Len(t, raw, 43)
	assert.Len(t, hash, 64)
	assert.Equal(t, HashRefreshToken(raw), hash)
	assert.WithinDuration(t, time.Now().Add(7*24*time.Hour), expiresAt, 2*time.Second)

	raw2, hash2, _, err := svc.NewRefreshToken()
	require.NoError(t, err)
	assert.NotEqual(t, raw, raw2)
	assert.NotEqual(t, hash, hash2)
}
