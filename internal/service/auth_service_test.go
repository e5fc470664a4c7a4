package service

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"task-planner/internal/model"
)

func TestAuthService_TokenRoundTrip(t *testing.T) {
	auth := newTestAuth()
	user := model.User{ID: uuid.New(), Email: "a@example.com"}

	token, err := auth.GenerateToken(user)
	require.NoError(t, err)

	claims, err := auth.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, "a@example.com", claims.Email)
}

func TestAuthService_RejectsExpiredAndForeignTokens(t *testing.T) {
	auth := newTestAuth()
	user := model.User{ID: uuid.New(), Email: "a@example.com"}

	auth.now = func() time.Time { return time.Now().Add(-48 * time.Hour) }
	expired, err := auth.GenerateToken(user)
	require.NoError(t, err)
	auth.now = time.Now

	_, err = auth.ValidateToken(expired)
	assert.ErrorIs(t, err, ErrInvalidToken)

	other := NewAuthService("another-secret", 24)
	foreign, err := other.GenerateToken(user)
	require.NoError(t, err)
	_, err = auth.ValidateToken(foreign)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = auth.ValidateToken("not-a-jwt")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestAuthService_Passwords(t *testing.T) {
	auth := newTestAuth()
	hash, err := auth.HashPassword("hunter22")
	require.NoError(t, err)
	assert.NotEqual(t, "hunter22", hash)
	assert.NoError(t, auth.ComparePasswords(hash, "hunter22"))
	assert.Error(t, auth.ComparePasswords(hash, "hunter23"))
}
