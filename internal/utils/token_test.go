package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSessionTokenRoundtrip(t *testing.T) {
	tok, err := NewSessionToken("test-secret", 42, "USER", 1)
	assert.NoError(t, err)
	assert.NotEmpty(t, tok.Token)

	uid, role, err := ParseSessionToken("test-secret", tok.Token)
	assert.NoError(t, err)
	assert.Equal(t, uint64(42), uid)
	assert.Equal(t, "USER", role)
}

func TestParseSessionToken_WrongSecret(t *testing.T) {
	tok, err := NewSessionToken("test-secret", 42, "USER", 1)
	assert.NoError(t, err)

	_, _, err = ParseSessionToken("another-secret", tok.Token)
	assert.Equal(t, ErrInvalidToken, err)
}

func TestParseSessionToken_Expired(t *testing.T) {
	tok, err := NewSessionToken("test-secret", 42, "USER", -1)
	assert.NoError(t, err)

	_, _, err = ParseSessionToken("test-secret", tok.Token)
	assert.Equal(t, ErrInvalidToken, err)
}

func TestParseSessionToken_Garbage(t *testing.T) {
	_, _, err := ParseSessionToken("test-secret", "not.a.jwt")
	assert.Equal(t, ErrInvalidToken, err)
}

func TestNewSessionToken_DistinctPerLogin(t *testing.T) {
	// The jti claim must make two tokens for the same user distinct even
	// when issued within the same second.
	a, err := NewSessionToken("test-secret", 7, "USER", 1)
	assert.NoError(t, err)
	b, err := NewSessionToken("test-secret", 7, "USER", 1)
	assert.NoError(t, err)
	assert.NotEqual(t, a.Token, b.Token)
	assert.NotEqual(t, HashSessionRaw(a.Token), HashSessionRaw(b.Token))
}

func TestHashSessionRaw(t *testing.T) {
	h := HashSessionRaw("some-token")
	assert.Len(t, h, 64)
	assert.Equal(t, h, HashSessionRaw("some-token"))
	assert.NotEqual(t, h, HashSessionRaw("other-token"))
}
