package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTRoundTrip(t *testing.T) {
	s := NewJWTService("secret", time.Hour, 24*time.Hour)

	token, err := s.GenerateAccessToken("user-1", "responder")
	require.NoError(t, err)

	claims, err := s.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "responder", claims.Role)
	assert.Equal(t, TokenTypeAccess, claims.TokenType)
}

func TestJWTRefreshTokenType(t *testing.T) {
	s := NewJWTService("secret", time.Hour, 24*time.Hour)

	token, err := s.GenerateRefreshToken("user-1", "requester")
	require.NoError(t, err)

	claims, err := s.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, TokenTypeRefresh, claims.TokenType)
}

func TestJWTExpiredToken(t *testing.T) {
	s := NewJWTService("secret", -time.Minute, 24*time.Hour)

	token, err := s.GenerateAccessToken("user-1", "requester")
	require.NoError(t, err)

	_, err = s.ValidateToken(token)
	require.Error(t, err)
}

func TestJWTWrongSecret(t *testing.T) {
	s := NewJWTService("secret", time.Hour, 24*time.Hour)
	other := NewJWTService("different", time.Hour, 24*time.Hour)

	token, err := s.GenerateAccessToken("user-1", "requester")
	require.NoError(t, err)

	_, err = other.ValidateToken(token)
	require.Error(t, err)
}
