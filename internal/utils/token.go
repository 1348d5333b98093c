package utils // package utils provides helper functions for session token creation and hashing

import (
	"crypto/rand"   // secure random number generation
	"crypto/sha256" // SHA-256 hashing for stored session tokens
	"encoding/hex"  // hex encoding of random bytes and digests
	"errors"        // sentinel error for invalid tokens
	"strconv"       // numeric claim conversion
	"time"          // expiry computation

	"github.com/golang-jwt/jwt/v5" // JWT library for creating signed tokens
)

// SessionToken is a signed HS256 JWT handed to the client in an HttpOnly
// cookie after login or registration. The server keeps only a SHA-256 hash
// of the serialized token in the sessions table; presenting a token whose
// hash has been deleted (logout) fails authentication even before expiry.
type SessionToken struct {
	Token string    // the serialized JWT string
	Exp   time.Time // the UTC expiration time
}

// ErrInvalidToken is returned by ParseSessionToken for malformed, expired
// or wrongly signed tokens.
var ErrInvalidToken = errors.New("invalid session token")

// NewSessionToken builds and signs an HS256 JWT for a user. The jti claim
// carries random bytes so two logins by the same user in the same second
// still produce distinct tokens (and distinct stored hashes).
func NewSessionToken(secret string, userID uint64, role string, ttlHours int) (SessionToken, error) {
	exp := time.Now().UTC().Add(time.Duration(ttlHours) * time.Hour)
	jti, err := randomHex(16)
	if err != nil {
		return SessionToken{}, err
	}
	claims := jwt.MapClaims{
		"sub":  userID,
		"role": role,
		"jti":  jti,
		"exp":  exp.Unix(),
		"iat":  time.Now().UTC().Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString([]byte(secret))
	if err != nil {
		return SessionToken{}, err
	}
	return SessionToken{Token: signed, Exp: exp}, nil
}

// ParseSessionToken verifies the signature and expiry of a session token
// and returns the user ID and role claims. Callers must additionally check
// the sessions table so revoked tokens are rejected.
func ParseSessionToken(secret, raw string) (uint64, string, error) {
	tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return []byte(secret), nil
	})
	if err != nil || !tok.Valid {
		return 0, "", ErrInvalidToken
	}
	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return 0, "", ErrInvalidToken
	}
	var uid uint64
	switch sub := claims["sub"].(type) {
	case float64:
		uid = uint64(sub)
	case string:
		n, err := strconv.ParseUint(sub, 10, 64)
		if err != nil {
			return 0, "", ErrInvalidToken
		}
		uid = n
	default:
		return 0, "", ErrInvalidToken
	}
	role, _ := claims["role"].(string)
	if uid == 0 || role == "" {
		return 0, "", ErrInvalidToken
	}
	return uid, role, nil
}

// HashSessionRaw returns the SHA-256 hash of the serialized token as a hex
// string. Only the hash is persisted.
func HashSessionRaw(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}

// randomHex returns a hex-encoded string generated from n bytes of
// cryptographically secure random data.
func randomHex(n int) (string, error) {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
