package jwt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromAuthHeader_ValidBearer(t *testing.T) {
	token, err := GenerateToken(42, "ops@example.com", true)
	require.NoError(t, err)

	claims, err := FromAuthHeader("Bearer " + token)
	require.NoError(t, err)
	assert.Equal(t, uint(42), claims.UserID)
	assert.Equal(t, "ops@example.com", claims.Email)
	assert.True(t, claims.IsAdmin)
}

func TestFromAuthHeader_MissingHeader(t *testing.T) {
	claims, err := FromAuthHeader("")
	assert.Nil(t, claims)
	assert.ErrorIs(t, err, ErrMissingAuthHeader)
}

func TestFromAuthHeader_GarbageToken(t *testing.T) {
	claims, err := FromAuthHeader("Bearer not-a-token")
	assert.Nil(t, claims)
	assert.Error(t, err)
}

func TestValidateToken_RoundTrip(t *testing.T) {
	token, err := GenerateToken(7, "viewer@example.com", false)
	require.NoError(t, err)

	claims, err := ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, uint(7), claims.UserID)
	assert.False(t, claims.IsAdmin)
}
