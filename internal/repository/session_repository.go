package repository

import (
	"context"
	"database/sql"
	"time"
)

// SessionRepo persists login sessions. Only token hashes are stored; the
// raw signed token lives in the client cookie. A session row that has
// been deleted (logout) or has expired no longer authenticates.
type SessionRepo struct{ DB *sql.DB }

func NewSessionRepo(db *sql.DB) *SessionRepo { return &SessionRepo{DB: db} }

// Store records a new session for a user.
func (r *SessionRepo) Store(ctx context.Context, userID uint64, tokenHash string, expiresAt time.Time) error {
	_, err := r.DB.ExecContext(ctx,
		"INSERT INTO sessions (user_id, token_hash, expires_at) VALUES (?,?,?)",
		userID, tokenHash, expiresAt.UTC())
	return err
}

// Validate returns the owning user ID for a live session hash. Expired or
// unknown hashes yield sql.ErrNoRows.
func (r *SessionRepo) Validate(ctx context.Context, tokenHash string) (uint64, error) {
	var userID uint64
	err := r.DB.QueryRowContext(ctx,
		"SELECT user_id FROM sessions WHERE token_hash = ? AND expires_at > UTC_TIMESTAMP() LIMIT 1",
		tokenHash).Scan(&userID)
	return userID, err
}

// DeleteByHash revokes a single session (logout).
func (r *SessionRepo) DeleteByHash(ctx context.Context, tokenHash string) error {
	_, err := r.DB.ExecContext(ctx, "DELETE FROM sessions WHERE token_hash = ?", tokenHash)
	return err
}

// DeleteAllForUser revokes every session of a user.
func (r *SessionRepo) DeleteAllForUser(ctx context.Context, userID uint64) error {
	_, err := r.DB.ExecContext(ctx, "DELETE FROM sessions WHERE user_id = ?", userID)
	return err
}

// PurgeExpired removes stale rows. Called opportunistically from main at
// startup; correctness never depends on it because Validate checks expiry.
func (r *SessionRepo) PurgeExpired(ctx context.Context) error {
	_, err := r.DB.ExecContext(ctx, "DELETE FROM sessions WHERE expires_at <= UTC_TIMESTAMP()")
	return err
}
