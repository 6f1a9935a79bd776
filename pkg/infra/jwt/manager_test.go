package jwt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJwtManager_CreateAndValidate(t *testing.T) {
	manager := NewJwtManager("test-secret")

	token, err := manager.CreateToken("admin@example.com")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := manager.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "admin@example.com", claims.Subject)
}

func TestJwtManager_RejectsWrongSecret(t *testing.T) {
	manager := NewJwtManager("test-secret")
	other := NewJwtManager("different-secret")

	token, err := manager.CreateToken("admin@example.com")
	require.NoError(t, err)

	_, err = other.ValidateToken(token)
	assert.Error(t, err)
}

func TestJwtManager_RejectsGarbage(t *testing.T) {
	manager := NewJwtManager("test-secret")

	_, err := manager.ValidateToken("not-a-token")
	assert.Error(t, err)
}
