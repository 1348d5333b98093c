package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/aylinkal/band-events/internal/model"
)

// CommentRepo persists reviews on past events. Creation date and time are
// assigned here from the server clock, never taken from the client.
type CommentRepo struct{ DB *sql.DB }

func NewCommentRepo(db *sql.DB) *CommentRepo { return &CommentRepo{DB: db} }

// Create inserts a comment stamped with the current UTC date and time and
// returns the stored row.
func (r *CommentRepo) Create(ctx context.Context, userID, eventID uint64, reviewText string, rating int) (model.Comment, error) {
	now := time.Now().UTC()
	date := now.Format(dateLayout)
	clock := now.Format("15:04:05")
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO comments (user_id, event_id, review_text, rating, date, time) VALUES (?,?,?,?,?,?)",
		userID, eventID, reviewText, rating, date, clock)
	if err != nil {
		return model.Comment{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.Comment{}, err
	}
	return model.Comment{
		ID:         uint64(id),
		UserID:     userID,
		EventID:    eventID,
		ReviewText: reviewText,
		Rating:     rating,
		Date:       now.Truncate(24 * time.Hour),
		Time:       clock,
	}, nil
}

// CommentDetail is a comment joined with its author's username, shaped
// for event listings and detail pages.
type CommentDetail struct {
	ID         uint64 `json:"id"`
	UserID     uint64 `json:"user_id"`
	Username   string `json:"username"`
	ReviewText string `json:"review_text"`
	Rating     int    `json:"rating"`
	Date       string `json:"date"`
	Time       string `json:"time"`
}

// ListByEvent returns all comments on one past event, newest first.
func (r *CommentRepo) ListByEvent(ctx context.Context, eventID uint64) ([]CommentDetail, error) {
	const q = `SELECT c.id, c.user_id, u.username, c.review_text, c.rating, c.date, c.time
	           FROM comments c
	           JOIN users u ON u.id = c.user_id
	           WHERE c.event_id = ?
	           ORDER BY c.id DESC`
	rows, err := r.DB.QueryContext(ctx, q, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]CommentDetail, 0)
	for rows.Next() {
		d, _, err := scanCommentDetail(rows, false)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// ListForEvents returns comments for a batch of past events keyed by
// event ID, newest first within each event.
func (r *CommentRepo) ListForEvents(ctx context.Context, eventIDs []uint64) (map[uint64][]CommentDetail, error) {
	result := make(map[uint64][]CommentDetail)
	if len(eventIDs) == 0 {
		return result, nil
	}
	query, args := inClause(
		`SELECT c.id, c.user_id, u.username, c.review_text, c.rating, c.date, c.time, c.event_id
		 FROM comments c
		 JOIN users u ON u.id = c.user_id
		 WHERE c.event_id IN (`, `) ORDER BY c.event_id, c.id DESC`, eventIDs)
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		d, eventID, err := scanCommentDetail(rows, true)
		if err != nil {
			return nil, err
		}
		result[eventID] = append(result[eventID], d)
	}
	return result, rows.Err()
}

// scanCommentDetail scans one joined comment row. When withEvent is true
// the row carries a trailing event_id column.
func scanCommentDetail(rows *sql.Rows, withEvent bool) (CommentDetail, uint64, error) {
	var d CommentDetail
	var date time.Time
	var eventID uint64
	dest := []interface{}{&d.ID, &d.UserID, &d.Username, &d.ReviewText, &d.Rating, &date, &d.Time}
	if withEvent {
		dest = append(dest, &eventID)
	}
	if err := rows.Scan(dest...); err != nil {
		return CommentDetail{}, 0, err
	}
	d.Date = date.Format(dateLayout)
	return d, eventID, nil
}
