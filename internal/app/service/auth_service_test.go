package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/triorate/triorate-backend/config"
	"github.com/triorate/triorate-backend/internal/app/model"
	"github.com/triorate/triorate-backend/internal/app/repository"
	"github.com/triorate/triorate-backend/internal/db"
	"github.com/triorate/triorate-backend/pkg/util"
)

func setupAuthServiceTest(t *testing.T) *AuthService {
	gdb, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() { db.CleanupTestDB(gdb) })

	jwtCfg := config.JWTConfig{
		Secret:             "test-secret",
		AccessTokenExpiry:  15 * time.Minute,
		RefreshTokenExpiry: 7 * 24 * time.Hour,
	}
	return NewAuthService(repository.NewUserRepository(gdb), jwtCfg)
}

func TestAuthService_Register(t *testing.T) {
	svc := setupAuthServiceTest(t)

	user, err := svc.Register("Alice@Example.com", "password123", "alice")
	require.NoError(t, err)

	assert.Equal(t, "alice@example.com", user.Email)
	assert.Equal(t, model.RoleUser, user.Role)
	assert.NotEqual(t, "password123", user.PasswordHash)

	// duplicate email is rejected
	_, err = svc.Register("alice@example.com", "otherpassword", "alice2")
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestAuthService_Login(t *testing.T) {
	svc := setupAuthServiceTest(t)
	_, err := svc.Register("alice@example.com", "password123", "alice")
	require.NoError(t, err)

	t.Run("Valid credentials", func(t *testing.T) {
		user, tokens, err := svc.Login("alice@example.com", "password123")
		require.NoError(t, err)
		assert.Equal(t, "alice", user.Username)
		assert.NotEmpty(t, tokens.AccessToken)
		assert.NotEmpty(t, tokens.RefreshToken)

		claims, err := util.ValidateToken(tokens.AccessToken, "test-secret")
		require.NoError(t, err)
		assert.Equal(t, user.ID, claims.UserID)
		assert.Equal(t, "user", claims.Role)
	})

	t.Run("Wrong password", func(t *testing.T) {
		_, _, err := svc.Login("alice@example.com", "wrong")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("Unknown email", func(t *testing.T) {
		_, _, err := svc.Login("nobody@example.com", "password123")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})
}

func TestAuthService_Refresh(t *testing.T) {
	svc := setupAuthServiceTest(t)
	_, err := svc.Register("alice@example.com", "password123", "alice")
	require.NoError(t, err)
	_, tokens, err := svc.Login("alice@example.com", "password123")
	require.NoError(t, err)

	t.Run("Valid refresh token", func(t *testing.T) {
		fresh, err := svc.Refresh(context.Background(), tokens.RefreshToken)
		require.NoError(t, err)
		assert.NotEmpty(t, fresh.AccessToken)
	})

	t.Run("Access token is not accepted", func(t *testing.T) {
		_, err := svc.Refresh(context.Background(), tokens.AccessToken)
		assert.ErrorIs(t, err, util.ErrInvalidToken)
	})
}
