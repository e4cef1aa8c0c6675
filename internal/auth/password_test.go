package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPasswordHashing(t *testing.T) {
	t.Run("hash verifies against the original password", func(t *testing.T) {
		hash, err := HashPassword("correct horse battery")
		require.NoError(t, err)
		assert.NotEqual(t, "correct horse battery", hash)
		assert.True(t, CheckPassword(hash, "correct horse battery"))
	})

	t.Run("wrong password fails", func(t *testing.T) {
		hash, err := HashPassword("correct horse battery")
		require.NoError(t, err)
		assert.False(t, CheckPassword(hash, "wrong password"))
	})

	t.Run("short passwords are rejected", func(t *testing.T) {
		_, err := HashPassword("short")
		require.Error(t, err)
	})

	t.Run("garbage hash never verifies", func(t *testing.T) {
		assert.False(t, CheckPassword("not-a-hash", "anything at all"))
	})
}
