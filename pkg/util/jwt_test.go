package util

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-key-for-jwt-testing"

func TestGenerateTokenPair(t *testing.T) {
	tests := []struct {
		name          string
		userID        uint
		email         string
		role          string
		accessExpiry  time.Duration
		refreshExpiry time.Duration
	}{
		{
			name:          "Reviewer token generation",
			userID:        1,
			email:         "reviewer@example.com",
			role:          "reviewer",
			accessExpiry:  15 * time.Minute,
			refreshExpiry: 7 * 24 * time.Hour,
		},
		{
			name:          "Admin token generation",
			userID:        2,
			email:         "admin@example.com",
			role:          "admin",
			accessExpiry:  15 * time.Minute,
			refreshExpiry: 7 * 24 * time.Hour,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tokens, err := GenerateTokenPair(
				tt.userID,
				tt.email,
				tt.role,
				testSecret,
				tt.accessExpiry,
				tt.refreshExpiry,
			)

			require.NoError(t, err)
			require.NotNil(t, tokens)
			assert.NotEmpty(t, tokens.AccessToken)
			assert.NotEmpty(t, tokens.RefreshToken)
			assert.NotEqual(t, tokens.AccessToken, tokens.RefreshToken)
		})
	}
}

func TestValidateToken(t *testing.T) {
	tokens, err := GenerateTokenPair(
		123,
		"reviewer@example.com",
		"reviewer",
		testSecret,
		15*time.Minute,
		7*24*time.Hour,
	)
	require.NoError(t, err)

	t.Run("Valid access token", func(t *testing.T) {
		claims, err := ValidateToken(tokens.AccessToken, testSecret)
		require.NoError(t, err)
		assert.Equal(t, uint(123), claims.UserID)
		assert.Equal(t, "reviewer@example.com", claims.Email)
		assert.Equal(t, "reviewer", claims.Role)
		assert.Equal(t, "access", claims.Subject)
	})

	t.Run("Valid refresh token", func(t *testing.T) {
		claims, err := ValidateToken(tokens.RefreshToken, testSecret)
		require.NoError(t, err)
		assert.Equal(t, "refresh", claims.Subject)
	})

	t.Run("Wrong secret", func(t *testing.T) {
		claims, err := ValidateToken(tokens.AccessToken, "wrong-secret")
		assert.ErrorIs(t, err, ErrInvalidToken)
		assert.Nil(t, claims)
	})

	t.Run("Malformed token", func(t *testing.T) {
		claims, err := ValidateToken("not.a.token", testSecret)
		assert.ErrorIs(t, err, ErrInvalidToken)
		assert.Nil(t, claims)
	})

	t.Run("Expired token", func(t *testing.T) {
		expired, err := GenerateTokenPair(
			1, "reviewer@example.com", "reviewer",
			testSecret, -1*time.Minute, -1*time.Minute,
		)
		require.NoError(t, err)

		claims, err := ValidateToken(expired.AccessToken, testSecret)
		assert.ErrorIs(t, err, ErrExpiredToken)
		assert.Nil(t, claims)
	})
}
