package password

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndVerify(t *testing.T) {
	hash, err := Hash("secret-password")
	require.NoError(t, err)
	assert.NotEqual(t, "secret-password", hash)

	assert.True(t, Verify("secret-password", hash))
	assert.False(t, Verify("wrong-password", hash))
	assert.False(t, Verify("secret-password", "not-a-hash"))
}

func TestHashToken(t *testing.T) {
	h1 := HashToken("token-a")
	h2 := HashToken("token-a")
	h3 := HashToken("token-b")

	assert.Equal(t, h1, h2)
	assert.NotEqual(t, h1, h3)
	assert.Len(t, h1, 64) // hex-encoded sha256
}

func TestValidatePassword(t *testing.T) {
	assert.True(t, ValidatePassword("12345678"))
	assert.False(t, ValidatePassword("1234567"))
}
