package crypto

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPassword(t *testing.T) {
	hashed, err := HashPassword("secret123")
	require.NoError(t, err)
	require.NotEqual(t, "secret123", hashed)

	require.True(t, ComparePassword(hashed, "secret123"))
	require.False(t, ComparePassword(hashed, "secret124"))
	require.False(t, ComparePassword("not-a-hash", "secret123"))
}

func TestGenerateRandomString(t *testing.T) {
	a, err := GenerateRandomString()
	require.NoError(t, err)
	b, err := GenerateRandomString()
	require.NoError(t, err)
	require.NotEqual(t, a, b)
}
