package util

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndValidateJWT_RoundTrips(t *testing.T) {
	token, err := GenerateJWT("u1", "alice", true, false, []string{"g1", "g2"}, "test-secret", 1)
	require.NoError(t, err)

	claims, err := ValidateJWT(token, "test-secret")
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.UserID)
	assert.Equal(t, "alice", claims.Username)
	assert.True(t, claims.IsAdmin)
	assert.False(t, claims.IsSuperAdmin)
	assert.ElementsMatch(t, []string{"g1", "g2"}, claims.GuildIDs)
}

func TestValidateJWT_RejectsWrongSecret(t *testing.T) {
	token, err := GenerateJWT("u1", "alice", false, false, nil, "real-secret", 1)
	require.NoError(t, err)

	_, err = ValidateJWT(token, "wrong-secret")
	require.Error(t, err)
}

func TestValidateJWT_RejectsExpiredToken(t *testing.T) {
	token, err := GenerateJWT("u1", "alice", false, false, nil, "test-secret", 0)
	require.NoError(t, err)
	time.Sleep(2 * time.Millisecond)

	_, err = ValidateJWT(token, "test-secret")
	require.Error(t, err)
}

func TestValidateJWT_RejectsGarbage(t *testing.T) {
	_, err := ValidateJWT("not.a.jwt", "test-secret")
	require.Error(t, err)
}
