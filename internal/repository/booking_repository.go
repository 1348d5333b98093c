package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/aylinkal/band-events/internal/model"
)

// BookingRepo persists user booking requests. Bookings have no foreign
// key into the event tables: each row duplicates the event fields because
// it describes an event that does not exist yet.
type BookingRepo struct{ DB *sql.DB }

func NewBookingRepo(db *sql.DB) *BookingRepo { return &BookingRepo{DB: db} }

const bookingCols = "id, event_name, user_id, description, location, image_path, booking_date, band_response, created_at"

// Create inserts a booking with band_response defaulting to "Pending" and
// returns its ID.
func (r *BookingRepo) Create(ctx context.Context, b model.Booking) (uint64, error) {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO bookings (event_name, user_id, description, location, image_path, booking_date) VALUES (?,?,?,?,?,?)",
		b.EventName, b.UserID, b.Description, b.Location, b.ImagePath, b.BookingDate.Format(dateLayout))
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// GetByID fetches a single booking.
func (r *BookingRepo) GetByID(ctx context.Context, id uint64) (model.Booking, error) {
	row := r.DB.QueryRowContext(ctx,
		"SELECT "+bookingCols+" FROM bookings WHERE id = ? LIMIT 1", id)
	return scanBooking(row)
}

// ListByUser returns a user's bookings, newest requested date first.
func (r *BookingRepo) ListByUser(ctx context.Context, userID uint64) ([]model.Booking, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+bookingCols+" FROM bookings WHERE user_id = ? ORDER BY booking_date DESC, id DESC", userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectBookings(rows)
}

// ListAll returns every booking request, newest first. Used by organizers
// to review and answer requests.
func (r *BookingRepo) ListAll(ctx context.Context) ([]model.Booking, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+bookingCols+" FROM bookings ORDER BY booking_date DESC, id DESC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectBookings(rows)
}

// SetResponse updates the organizer answer on a booking. Missing rows
// yield sql.ErrNoRows.
func (r *BookingRepo) SetResponse(ctx context.Context, id uint64, response string) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE bookings SET band_response = ? WHERE id = ?", response, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		// Distinguish a missing row from an unchanged value.
		var one int
		if qerr := r.DB.QueryRowContext(ctx,
			"SELECT 1 FROM bookings WHERE id = ? LIMIT 1", id).Scan(&one); qerr != nil {
			return qerr
		}
	}
	return nil
}

// DeleteExpiredForUser removes the user's bookings whose requested date
// has passed and returns the image paths of the removed rows so the
// caller can release the files. Run at the start of the my-bookings view.
func (r *BookingRepo) DeleteExpiredForUser(ctx context.Context, userID uint64, today time.Time) ([]string, error) {
	day := today.Format(dateLayout)
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	images, err := collectImagePaths(ctx, tx,
		"SELECT image_path FROM bookings WHERE user_id = ? AND booking_date < ? AND image_path IS NOT NULL",
		userID, day)
	if err != nil {
		return nil, err
	}
	if _, err := tx.ExecContext(ctx,
		"DELETE FROM bookings WHERE user_id = ? AND booking_date < ?", userID, day); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return images, nil
}

func scanBooking(row rowScanner) (model.Booking, error) {
	var b model.Booking
	var name, desc, loc, image sql.NullString
	err := row.Scan(&b.ID, &name, &b.UserID, &desc, &loc, &image, &b.BookingDate, &b.BandResponse, &b.CreatedAt)
	if err != nil {
		return model.Booking{}, err
	}
	if name.Valid {
		v := name.String
		b.EventName = &v
	}
	if desc.Valid {
		v := desc.String
		b.Description = &v
	}
	if loc.Valid {
		v := loc.String
		b.Location = &v
	}
	if image.Valid {
		v := image.String
		b.ImagePath = &v
	}
	return b, nil
}

func collectBookings(rows *sql.Rows) ([]model.Booking, error) {
	bookings := make([]model.Booking, 0)
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		bookings = append(bookings, b)
	}
	return bookings, rows.Err()
}
