package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashPassword(t *testing.T) {
	tests := []struct {
		name     string
		password string
	}{
		{name: "Valid password", password: "password123"},
		{name: "Empty password", password: ""}, // bcrypt can hash empty strings
		{name: "Password with special chars", password: "p@ssw0rd!#%&*()"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hash, err := HashPassword(tt.password)
			require.NoError(t, err)
			assert.NotEmpty(t, hash)
			assert.NotEqual(t, tt.password, hash)
			assert.Contains(t, hash, "$2a$")
		})
	}
}

func TestVerifyPassword(t *testing.T) {
	password := "mySecurePassword123"
	hash, err := HashPassword(password)
	require.NoError(t, err)

	assert.True(t, VerifyPassword(hash, password))
	assert.False(t, VerifyPassword(hash, "wrongPassword"))
	assert.False(t, VerifyPassword(hash, ""))
	assert.False(t, VerifyPassword("not-a-hash", password))
}

func TestHashPassword_UniqueSalts(t *testing.T) {
	h1, err := HashPassword("samePassword")
	require.NoError(t, err)
	h2, err := HashPassword("samePassword")
	require.NoError(t, err)

	assert.NotEqual(t, h1, h2)
	assert.True(t, VerifyPassword(h1, "samePassword"))
	assert.True(t, VerifyPassword(h2, "samePassword"))
}
