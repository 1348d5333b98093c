package repository

import (
	"context"
	"database/sql"
	"strings"
)

// LikeRepo persists likes on past events. A like is a pure toggle: the
// (event, user) pair either has one row or none, and counts are derived
// by counting rows at read time.
type LikeRepo struct{ DB *sql.DB }

func NewLikeRepo(db *sql.DB) *LikeRepo { return &LikeRepo{DB: db} }

// Toggle flips the like state for a (user, event) pair and reports the
// resulting state: true when the like now exists, false when it was
// removed. The unique key on (event_id, user_id) makes the insert path
// safe under races; a duplicate-key error means another request already
// liked, which is treated as the liked state.
func (r *LikeRepo) Toggle(ctx context.Context, eventID, userID uint64) (bool, error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return false, err
	}
	defer func() { _ = tx.Rollback() }()

	var id uint64
	err = tx.QueryRowContext(ctx,
		"SELECT id FROM likes WHERE event_id = ? AND user_id = ? LIMIT 1",
		eventID, userID).Scan(&id)
	switch {
	case err == nil:
		if _, err := tx.ExecContext(ctx, "DELETE FROM likes WHERE id = ?", id); err != nil {
			return false, err
		}
		return false, tx.Commit()
	case err == sql.ErrNoRows:
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO likes (event_id, user_id) VALUES (?,?)", eventID, userID); err != nil {
			if strings.Contains(strings.ToLower(err.Error()), "1062") {
				return true, tx.Commit()
			}
			return false, err
		}
		return true, tx.Commit()
	default:
		return false, err
	}
}

// CountByEvent returns the number of likes for one past event.
func (r *LikeRepo) CountByEvent(ctx context.Context, eventID uint64) (int, error) {
	var n int
	err := r.DB.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM likes WHERE event_id = ?", eventID).Scan(&n)
	return n, err
}

// CountsForEvents returns like counts keyed by event ID for a batch of
// past events. Events without likes are absent from the map.
func (r *LikeRepo) CountsForEvents(ctx context.Context, eventIDs []uint64) (map[uint64]int, error) {
	counts := make(map[uint64]int)
	if len(eventIDs) == 0 {
		return counts, nil
	}
	query, args := inClause(
		"SELECT event_id, COUNT(*) FROM likes WHERE event_id IN (", ") GROUP BY event_id", eventIDs)
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var id uint64
		var n int
		if err := rows.Scan(&id, &n); err != nil {
			return nil, err
		}
		counts[id] = n
	}
	return counts, rows.Err()
}

// LikedByUser returns the set of event IDs (from the given batch) that
// the user has liked.
func (r *LikeRepo) LikedByUser(ctx context.Context, userID uint64, eventIDs []uint64) (map[uint64]bool, error) {
	liked := make(map[uint64]bool)
	if len(eventIDs) == 0 {
		return liked, nil
	}
	query, args := inClause(
		"SELECT event_id FROM likes WHERE user_id = ? AND event_id IN (", ")", eventIDs, userID)
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var id uint64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		liked[id] = true
	}
	return liked, rows.Err()
}

// inClause builds "prefix ?,?,? suffix" with leading args placed before
// the ID placeholders.
func inClause(prefix, suffix string, ids []uint64, leading ...interface{}) (string, []interface{}) {
	placeholders := make([]string, len(ids))
	args := make([]interface{}, 0, len(leading)+len(ids))
	args = append(args, leading...)
	for i, id := range ids {
		placeholders[i] = "?"
		args = append(args, id)
	}
	return prefix + strings.Join(placeholders, ",") + suffix, args
}
