package repository

import (
	"context"
	"database/sql"
	"log"
	"time"

	"github.com/aylinkal/band-events/internal/model"
)

// UpcomingEventRepo provides persistence for scheduled future events and
// implements the lifecycle transition that turns them into past events
// once their date has elapsed.
type UpcomingEventRepo struct{ DB *sql.DB }

func NewUpcomingEventRepo(db *sql.DB) *UpcomingEventRepo { return &UpcomingEventRepo{DB: db} }

// Create inserts an upcoming event and returns its ID.
func (r *UpcomingEventRepo) Create(ctx context.Context, ev model.EventInfo) (uint64, error) {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO upcoming_events (name, description, date, location, image_path) VALUES (?,?,?,?,?)",
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

// ListRecent returns up to limit upcoming events, newest date first.
func (r *UpcomingEventRepo) ListRecent(ctx context.Context, limit int) ([]model.UpcomingEvent, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT id, name, description, date, location, image_path, created_at FROM upcoming_events ORDER BY date DESC, id DESC LIMIT ?", limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectUpcoming(rows)
}

// ListAll returns every upcoming event. The table is small by nature (a
// band's schedule), so the lifecycle sweep and the booking conflict check
// both work from the full set.
func (r *UpcomingEventRepo) ListAll(ctx context.Context) ([]model.UpcomingEvent, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT id, name, description, date, location, image_path, created_at FROM upcoming_events")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectUpcoming(rows)
}

// ExistsOnDate reports whether any upcoming event is scheduled on the
// given calendar date.
func (r *UpcomingEventRepo) ExistsOnDate(ctx context.Context, date time.Time) (bool, error) {
	var one int
	err := r.DB.QueryRowContext(ctx,
		"SELECT 1 FROM upcoming_events WHERE date = ? LIMIT 1", date.Format(dateLayout)).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// DeleteByID removes an upcoming event and its like rows in one
// transaction, returning the image path for file cleanup.
func (r *UpcomingEventRepo) DeleteByID(ctx context.Context, id uint64) (*string, error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	var image sql.NullString
	err = tx.QueryRowContext(ctx,
		"SELECT image_path FROM upcoming_events WHERE id = ? LIMIT 1", id).Scan(&image)
	if err != nil {
		return nil, err
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM upcoming_event_likes WHERE upcoming_event_id = ?", id); err != nil {
		return nil, err
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM upcoming_events WHERE id = ?", id); err != nil {
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

// ExpiredBefore returns the subset of events whose date falls strictly
// before the calendar date of today. Time-of-day is ignored on both sides.
func ExpiredBefore(events []model.UpcomingEvent, today time.Time) []model.UpcomingEvent {
	day := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, time.UTC)
	expired := make([]model.UpcomingEvent, 0)
	for _, ev := range events {
		if ev.Date.Before(day) {
			expired = append(expired, ev)
		}
	}
	return expired
}

// PromoteElapsed migrates every upcoming event dated strictly before today
// into a past event. Each event is handled in its own transaction: the
// upcoming row is deleted first as a claim, and the past event is inserted
// only when exactly one row was affected. Two requests racing over the
// same expired event therefore produce a single past event; the loser's
// delete affects zero rows and it skips the insert. Running the sweep
// again with no new data is a no-op, which is what makes the duplicated
// invocation sites (events listing and booking submission) harmless.
//
// The event's image path is carried onto the past event so the stored
// file keeps an owner. Likes collected while the event was upcoming have
// no place on a past event (past-event likes are a separate user action),
// so they are dropped here; the discard is logged rather than silent.
func (r *UpcomingEventRepo) PromoteElapsed(ctx context.Context, today time.Time) (int, error) {
	events, err := r.ListAll(ctx)
	if err != nil {
		return 0, err
	}
	promoted := 0
	for _, ev := range ExpiredBefore(events, today) {
		if err := r.promoteOne(ctx, ev); err != nil {
			return promoted, err
		}
		promoted++
	}
	return promoted, nil
}

func (r *UpcomingEventRepo) promoteOne(ctx context.Context, ev model.UpcomingEvent) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	var likeCount int
	if err := tx.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM upcoming_event_likes WHERE upcoming_event_id = ?", ev.ID).Scan(&likeCount); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM upcoming_event_likes WHERE upcoming_event_id = ?", ev.ID); err != nil {
		return err
	}
	res, err := tx.ExecContext(ctx, "DELETE FROM upcoming_events WHERE id = ?", ev.ID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		// Another request promoted this event between ListAll and here.
		return nil
	}
	if _, err := tx.ExecContext(ctx,
		"INSERT INTO past_events (name, description, date, location, image_path) VALUES (?,?,?,?,?)",
		ev.Name, ev.Description, ev.Date.Format(dateLayout), ev.Location, ev.ImagePath); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	if likeCount > 0 {
		log.Printf("lifecycle: promoted event %q (%s), discarded %d upcoming likes",
			ev.Name, ev.Date.Format(dateLayout), likeCount)
	}
	return nil
}

func collectUpcoming(rows *sql.Rows) ([]model.UpcomingEvent, error) {
	events := make([]model.UpcomingEvent, 0)
	for rows.Next() {
		var ev model.UpcomingEvent
		if err := scanEventInfo(rows, &ev.EventInfo); err != nil {
			return nil, err
		}
		events = append(events, ev)
	}
	return events, rows.Err()
}
