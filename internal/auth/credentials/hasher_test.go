package credentials

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndVerifyPassword(t *testing.T) {
	hash, version, err := HashPassword("correct-horse")
	require.NoError(t, err)

	assert.Equal(t, HashVersionArgon2id, version)
	assert.True(t, strings.HasPrefix(hash, "$argon2id$"))
	assert.NotContains(t, hash, "correct-horse")

	require.NoError(t, VerifyPassword(hash, "correct-horse"))
	assert.Error(t, VerifyPassword(hash, "wrong"))
}

func TestHashPasswordIsSalted(t *testing.T) {
	first, _, err := HashPassword("correct-horse")
	require.NoError(t, err)
	second, _, err := HashPassword("correct-horse")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}

func TestHashPasswordTooShort(t *testing.T) {
	_, _, err := HashPassword("short")
	assert.Error(t, err)
}

func TestVerifyPasswordMalformedHash(t *testing.T) {
	cases := []string{
		"",
		"plaintext",
		"$argon2id$v=19$m=65536,t=1,p=4$salt",
		"$bcrypt$v=19$m=65536,t=1,p=4$c2FsdA$a2V5",
		"$argon2id$v=99$m=65536,t=1,p=4$c2FsdA$a2V5",
	}

	for _, hash := range cases {
		assert.ErrorIs(t, VerifyPassword(hash, "whatever"), ErrMalformedHash, hash)
	}
}
