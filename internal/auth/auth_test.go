package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndVerifyToken(t *testing.T) {
	hash, err := HashToken("abc123def456")
	require.NoError(t, err)
	assert.Contains(t, hash, "$argon2id$")

	ok, err := VerifyToken("abc123def456", hash)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = VerifyToken("wrong-token", hash)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestHashesAreSalted(t *testing.T) {
	h1, err := HashToken("same-token")
	require.NoError(t, err)
	h2, err := HashToken("same-token")
	require.NoError(t, err)
	assert.NotEqual(t, h1, h2)
}

func TestVerifyTokenMalformedHash(t *testing.T) {
	_, err := VerifyToken("token", "not-an-encoded-hash")
	assert.ErrorIs(t, err, ErrInvalidHash)
}

func TestSessionJWTRoundTrip(t *testing.T) {
	require.NoError(t, Init())

	token, err := CreateSessionJWT("alice")
	require.NoError(t, err)

	username, err := VerifySessionJWT(token)
	require.NoError(t, err)
	assert.Equal(t, "alice", username)
}

func TestSessionJWTGarbage(t *testing.T) {
	require.NoError(t, Init())
	_, err := VerifySessionJWT("garbage.token.value")
	assert.Error(t, err)
}
