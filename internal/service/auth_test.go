package service

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := hashPassword("s3cret-passphrase")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(hash, "$argon2id$v=19$"))
	assert.True(t, verifyPassword(hash, "s3cret-passphrase"))
	assert.False(t, verifyPassword(hash, "wrong-passphrase"))
}

func TestHashPasswordSaltsDiffer(t *testing.T) {
	first, err := hashPassword("same password")
	require.NoError(t, err)
	second, err := hashPassword("same password")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
	assert.True(t, verifyPassword(first, "same password"))
	assert.True(t, verifyPassword(second, "same password"))
}

func TestVerifyPasswordRejectsMalformedHash(t *testing.T) {
	assert.False(t, verifyPassword("not-a-hash", "password"))
	assert.False(t, verifyPassword("$argon2id$v=19$m=65536,t=1,p=4$bad!salt$hash", "password"))
	assert.False(t, verifyPassword("", "password"))
}
