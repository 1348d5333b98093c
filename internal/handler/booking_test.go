package handler

import (
	"net/http"
	"net/url"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"

	"github.com/aylinkal/band-events/internal/repository"
	"github.com/aylinkal/band-events/internal/storage"
)

func TestParseBookingDate(t *testing.T) {
	d, msg := parseBookingDate("2026-09-15")
	assert.Empty(t, msg)
	assert.Equal(t, time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC), d)

	_, msg = parseBookingDate("")
	assert.Equal(t, "Please enter a booking date.", msg)

	_, msg = parseBookingDate("   ")
	assert.Equal(t, "Please enter a booking date.", msg)

	_, msg = parseBookingDate("15/09/2026")
	assert.Equal(t, "Invalid date format. Please use YYYY-MM-DD.", msg)
}

func TestPastBookingDateError(t *testing.T) {
	today := time.Date(2026, 8, 29, 14, 30, 0, 0, time.UTC)

	msg := pastBookingDateError(today, time.Date(2026, 8, 28, 0, 0, 0, 0, time.UTC))
	assert.Equal(t, "Booking date cannot be in the past.", msg)

	// Booking for today is allowed; only strictly earlier dates fail.
	assert.Empty(t, pastBookingDateError(today, time.Date(2026, 8, 29, 0, 0, 0, 0, time.UTC)))
	assert.Empty(t, pastBookingDateError(today, time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC)))
}

func TestCreateBooking_Unauthorized(t *testing.T) {
	c, rec := newTestContext(http.MethodPost, "/v1/bookings", "", "")

	h := &BookingHandler{}
	err := h.CreateBooking(c)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestCreateBooking_ConflictingDateCreatesNothing(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	assert.NoError(t, err)
	defer db.Close()

	images, err := storage.NewImageStore(t.TempDir())
	assert.NoError(t, err)
	h := NewBookingHandler(
		repository.NewBookingRepo(db),
		repository.NewUpcomingEventRepo(db),
		repository.NewUserRepo(db),
		images,
	)

	// The lifecycle sweep finds nothing to promote, then the conflict
	// check hits an upcoming event on the requested date. No INSERT is
	// expected: a conflicting request must leave the table untouched.
	mock.ExpectQuery("SELECT id, name, description, date, location, image_path, created_at FROM upcoming_events").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "description", "date", "location", "image_path", "created_at"}))
	mock.ExpectQuery("SELECT 1 FROM upcoming_events WHERE date = ? LIMIT 1").
		WithArgs("2100-06-01").
		WillReturnRows(sqlmock.NewRows([]string{"1"}).AddRow(1))

	form := url.Values{}
	form.Set("event_name", "Barn dance")
	form.Set("booking_date", "2100-06-01")
	c, rec := newTestContext(http.MethodPost, "/v1/bookings", form.Encode(), echo.MIMEApplicationForm)
	c.Set("user_id", uint64(4))

	err = h.CreateBooking(c)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), bookingConflictMsg)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMyBookings_Unauthorized(t *testing.T) {
	c, rec := newTestContext(http.MethodGet, "/v1/bookings", "", "")

	h := &BookingHandler{}
	err := h.MyBookings(c)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
