package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateToken(t *testing.T) {
	t.Run("generates 64 character hex string", func(t *testing.T) {
		token, err := GenerateToken()
		require.NoError(t, err)
		assert.Len(t, token, 64)
	})

	t.Run("generates unique tokens", func(t *testing.T) {
		token1, _ := GenerateToken()
		token2, _ := GenerateToken()
		assert.NotEqual(t, token1, token2)
	})

	t.Run("generates valid hex", func(t *testing.T) {
		token, _ := GenerateToken()
		for _, c := range token {
			assert.True(t, (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f'))
		}
	})
}

func TestHashToken(t *testing.T) {
	t.Run("returns 64 character hex string", func(t *testing.T) {
		hash := HashToken("test-token")
		assert.Len(t, hash, 64)
	})

	t.Run("same input produces same hash", func(t *testing.T) {
		assert.Equal(t, HashToken("test-token"), HashToken("test-token"))
	})

	t.Run("different input produces different hash", func(t *testing.T) {
		assert.NotEqual(t, HashToken("token-1"), HashToken("token-2"))
	})

	t.Run("produces expected SHA-256", func(t *testing.T) {
		assert.Equal(t,
			"e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855",
			HashToken(""))
	})
}

func TestPasswordHash(t *testing.T) {
	hash, err := HashPassword("correct horse")
	require.NoError(t, err)

	assert.True(t, CheckPasswordHash("correct horse", hash))
	assert.False(t, CheckPasswordHash("wrong horse", hash))
	assert.False(t, CheckPasswordHash("correct horse", "not-a-hash"))
}

func TestMaskEmail(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"alice@example.com", "a***@example.com"},
		{"a@example.com", "*@example.com"},
		{"@example.com", "*@example.com"},
		{"no-at-sign", "***"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, MaskEmail(tt.in))
		})
	}
}
