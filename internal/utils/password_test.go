package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"golang.org/x/crypto/bcrypt"
)

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := HashPassword("s3cret-pass", bcrypt.MinCost)
	assert.NoError(t, err)
	assert.NotEqual(t, "s3cret-pass", hash)

	assert.True(t, VerifyPassword(hash, "s3cret-pass"))
	assert.False(t, VerifyPassword(hash, "wrong-pass"))
}

func TestHashPassword_DistinctSalts(t *testing.T) {
	a, err := HashPassword("same-password", bcrypt.MinCost)
	assert.NoError(t, err)
	b, err := HashPassword("same-password", bcrypt.MinCost)
	assert.NoError(t, err)
	assert.NotEqual(t, a, b)
}
