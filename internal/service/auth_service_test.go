package service

import (
	"context"
	"testing"
	"time"

	"material-kb/internal/dto"
	"material-kb/pkg/auth"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func newTestAuthService(t *testing.T) (*AuthService, *auth.JWTManager) {
	t.Helper()
	jwtManager := auth.NewJWTManager("test-secret", time.Hour, 24*time.Hour)
	return NewAuthService(&memUserStore{}, jwtManager, zaptest.NewLogger(t)), jwtManager
}

func TestAuthService_RegisterLoginRefresh(t *testing.T) {
	svc, jwtManager := newTestAuthService(t)
	ctx := context.Background()

	registered, err := svc.Register(ctx, &dto.RegisterRequest{Username: "alice", Email: "Alice@Example.com", Password: "s3cretpass"})
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", registered.User.Email)
	assert.Equal(t, "Bearer", registered.TokenType)
	assert.Equal(t, int64(3600), registered.ExpiresIn)

	claims, err := jwtManager.ValidateToken(registered.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "alice", claims.Username)

	loggedIn, err := svc.Login(ctx, &dto.LoginRequest{Email: "alice@example.com", Password: "s3cretpass"})
	require.NoError(t, err)
	assert.Equal(t, registered.User.ID, loggedIn.User.ID)

	refreshed, err := svc.RefreshToken(ctx, loggedIn.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, registered.User.ID, refreshed.User.ID)

	_, err = svc.RefreshToken(ctx, loggedIn.AccessToken)
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthService_Errors(t *testing.T) {
	svc, _ := newTestAuthService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, &dto.RegisterRequest{Username: "bob", Email: "bob@example.com", Password: "short"})
	assert.ErrorIs(t, err, ErrInvalidRequest)

	_, err = svc.Register(ctx, &dto.RegisterRequest{Username: "bob", Email: "bob@example.com", Password: "longenough"})
	require.NoError(t, err)

	_, err = svc.Register(ctx, &dto.RegisterRequest{Username: "bob2", Email: "bob@example.com", Password: "longenough"})
	assert.ErrorIs(t, err, ErrUserExists)

	_, err = svc.Login(ctx, &dto.LoginRequest{Email: "bob@example.com", Password: "wrong-password"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(ctx, &dto.LoginRequest{Email: "nobody@example.com", Password: "longenough"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}
