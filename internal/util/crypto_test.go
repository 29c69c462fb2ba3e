package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateToken(t *testing.T) {
	token1, err := GenerateToken()
	require.NoError(t, err)
	assert.Len(t, token1, 64) // 32 bytes hex encoded

	token2, err := GenerateToken()
	require.NoError(t, err)
	assert.NotEqual(t, token1, token2)
}

func TestHmacSHA256(t *testing.T) {
	hash1 := HmacSHA256("secret", "data")
	hash2 := HmacSHA256("secret", "data")
	assert.Equal(t, hash1, hash2)

	assert.NotEqual(t, hash1, HmacSHA256("other-secret", "data"))
	assert.NotEqual(t, hash1, HmacSHA256("secret", "other-data"))
}

func TestConstantTimeEqual(t *testing.T) {
	assert.True(t, ConstantTimeEqual("token", "token"))
	assert.False(t, ConstantTimeEqual("token", "other"))
	assert.False(t, ConstantTimeEqual("token", "toke"))
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("hunter2")
	require.NoError(t, err)

	assert.True(t, CheckPasswordHash("hunter2", hash))
	assert.False(t, CheckPasswordHash("wrong", hash))
}

func TestMaskCode(t *testing.T) {
	assert.Equal(t, "ABCD-****", MaskCode("ABCD-1234"))
	assert.Equal(t, "****", MaskCode("AB"))
}
