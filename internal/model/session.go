package model

import "time"

// Session is a server-side record of a login. The cookie handed to the
// client contains a signed token; only a SHA-256 hash of it is stored
// here so a leaked table cannot be replayed. Logout deletes the row.
type Session struct {
	ID        uint64    // sessions.id
	UserID    uint64    // sessions.user_id
	TokenHash string    // sessions.token_hash
	ExpiresAt time.Time // sessions.expires_at
	CreatedAt time.Time // sessions.created_at
}
