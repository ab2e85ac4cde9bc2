package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("hunter2")
	require.NoError(t, err)
	assert.NotEqual(t, "hunter2", hash)

	assert.True(t, CheckPassword(hash, "hunter2", false))
	assert.False(t, CheckPassword(hash, "hunter3", false))
	assert.False(t, CheckPassword(hash, hash, true))
}

func TestCheckPasswordPlaintextRows(t *testing.T) {
	assert.False(t, CheckPassword("1234", "1234", false))
	assert.True(t, CheckPassword("1234", "1234", true))
	assert.False(t, CheckPassword("1234", "12345", true))
	assert.False(t, CheckPassword("", "", false))
}
