package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"helpnet/models"
	"helpnet/utils"
)

func newAuthFixture() (*AuthService, *fakeUserStore) {
	users := newFakeUserStore()
	jwtService := utils.NewJWTService("test-secret", time.Hour, 24*time.Hour)
	return NewAuthService(users, jwtService), users
}

func registerRequest() models.RegisterRequest {
	return models.RegisterRequest{
		Name:     "Ada Lovelace",
		Email:    "ada@example.com",
		Password: "correct-horse-battery",
		Role:     models.RoleResponder,
	}
}

func TestRegisterAndLogin(t *testing.T) {
	service, _ := newAuthFixture()
	ctx := context.Background()

	registered, err := service.Register(ctx, registerRequest())
	require.NoError(t, err)
	assert.NotEmpty(t, registered.AccessToken)
	assert.NotEmpty(t, registered.RefreshToken)
	assert.Empty(t, registered.User.Password)
	assert.Equal(t, models.RoleResponder, registered.User.Role)

	logged, err := service.Login(ctx, models.LoginRequest{
		Email:    "ada@example.com",
		Password: "correct-horse-battery",
	})
	require.NoError(t, err)
	assert.Equal(t, registered.User.ID, logged.User.ID)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	service, _ := newAuthFixture()
	ctx := context.Background()

	_, err := service.Register(ctx, registerRequest())
	require.NoError(t, err)

	_, err = service.Register(ctx, registerRequest())
	require.Error(t, err)
	se, ok := utils.GetServiceError(err)
	require.True(t, ok)
	assert.Equal(t, models.ErrCodeConflict, se.Code)
}

func TestLoginWrongPassword(t *testing.T) {
	service, _ := newAuthFixture()
	ctx := context.Background()

	_, err := service.Register(ctx, registerRequest())
	require.NoError(t, err)

	_, err = service.Login(ctx, models.LoginRequest{
		Email:    "ada@example.com",
		Password: "wrong",
	})
	require.Error(t, err)
	se, ok := utils.GetServiceError(err)
	require.True(t, ok)
	assert.Equal(t, models.ErrCodeAuthentication, se.Code)
}

func TestRefreshTokenRoundTrip(t *testing.T) {
	service, _ := newAuthFixture()
	ctx := context.Background()

	registered, err := service.Register(ctx, registerRequest())
	require.NoError(t, err)

	refreshed, err := service.RefreshToken(ctx, registered.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, refreshed.AccessToken)

	// An access token is not accepted as a refresh token.
	_, err = service.RefreshToken(ctx, registered.AccessToken)
	require.Error(t, err)
}
