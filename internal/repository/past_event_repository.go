package repository

import (
	"context"
	"database/sql"

	"github.com/aylinkal/band-events/internal/model"
)

// PastEventRepo provides persistence for events that have already taken
// place. Past events are the anchor for likes and comments.
type PastEventRepo struct{ DB *sql.DB }

func NewPastEventRepo(db *sql.DB) *PastEventRepo { return &PastEventRepo{DB: db} }

const pastEventCols = "id, name, description, date, location, image_path, created_at"

// Create inserts a past event and returns its ID.
func (r *PastEventRepo) Create(ctx context.Context, ev model.EventInfo) (uint64, error) {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO past_events (name, description, date, location, image_path) VALUES (?,?,?,?,?)",
		ev.Name, ev.Description, ev.Date.Format(dateLayout), ev.Location, ev.ImagePath)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// GetByID fetches a single past event. Missing rows yield sql.ErrNoRows.
func (r *PastEventRepo) GetByID(ctx context.Context, id uint64) (model.PastEvent, error) {
	var ev model.PastEvent
	row := r.DB.QueryRowContext(ctx,
		"SELECT "+pastEventCols+" FROM past_events WHERE id = ? LIMIT 1", id)
	err := scanEventInfo(row, &ev.EventInfo)
	return ev, err
}

// ListRecent returns up to limit past events, newest date first.
func (r *PastEventRepo) ListRecent(ctx context.Context, limit int) ([]model.PastEvent, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+pastEventCols+" FROM past_events ORDER BY date DESC, id DESC LIMIT ?", limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	events := make([]model.PastEvent, 0)
	for rows.Next() {
		var ev model.PastEvent
		if err := scanEventInfo(rows, &ev.EventInfo); err != nil {
			return nil, err
		}
		events = append(events, ev)
	}
	return events, rows.Err()
}

// DeleteByID removes a past event together with its likes and comments in
// one transaction and returns the image path (if any) so the caller can
// release the file after commit.
func (r *PastEventRepo) DeleteByID(ctx context.Context, id uint64) (*string, error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	var image sql.NullString
	err = tx.QueryRowContext(ctx,
		"SELECT image_path FROM past_events WHERE id = ? LIMIT 1", id).Scan(&image)
	if err != nil {
		return nil, err
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM likes WHERE event_id = ?", id); err != nil {
		return nil, err
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM comments WHERE event_id = ?", id); err != nil {
		return nil, err
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM past_events WHERE id = ?", id); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	if image.Valid && image.String != "" {
		p := image.String
		return &p, nil
	}
	return nil, nil
}

// rowScanner lets scanEventInfo work with both *sql.Row and *sql.Rows.
type rowScanner interface{ Scan(dest ...interface{}) error }

func scanEventInfo(row rowScanner, ev *model.EventInfo) error {
	var desc, image sql.NullString
	if err := row.Scan(&ev.ID, &ev.Name, &desc, &ev.Date, &ev.Location, &image, &ev.CreatedAt); err != nil {
		return err
	}
	if desc.Valid {
		d := desc.String
		ev.Description = &d
	}
	if image.Valid {
		p := image.String
		ev.ImagePath = &p
	}
	return nil
}
