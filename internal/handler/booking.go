package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/aylinkal/band-events/internal/model"
	"github.com/aylinkal/band-events/internal/queue"
	"github.com/aylinkal/band-events/internal/repository"
	queue_publisher "github.com/aylinkal/band-events/internal/service"
	"github.com/aylinkal/band-events/internal/storage"
)

// bookingConflictMsg is the field error shown when the requested date
// collides with an upcoming event. Only the first conflict matters; the
// check stops at one match.
const bookingConflictMsg = "There is an upcoming event on this date. Please choose another date."

// BookingHandler implements booking submission and the my-bookings view.
// Submissions are validated against the upcoming event calendar but NOT
// against other pending bookings: two users may request the same free
// date and it is the organizer's call how to answer.
type BookingHandler struct {
	Bookings       *repository.BookingRepo
	UpcomingEvents *repository.UpcomingEventRepo
	Users          *repository.UserRepo
	Images         *storage.ImageStore
}

func NewBookingHandler(bookings *repository.BookingRepo, upcoming *repository.UpcomingEventRepo, users *repository.UserRepo, images *storage.ImageStore) *BookingHandler {
	if bookings == nil || upcoming == nil || users == nil || images == nil {
		panic("nil dependency passed to NewBookingHandler")
	}
	return &BookingHandler{Bookings: bookings, UpcomingEvents: upcoming, Users: users, Images: images}
}

type bookingView struct {
	ID           uint64  `json:"id"`
	EventName    *string `json:"event_name,omitempty"`
	Description  *string `json:"description,omitempty"`
	Location     *string `json:"location,omitempty"`
	Image        *string `json:"image,omitempty"`
	BookingDate  string  `json:"booking_date"`
	BandResponse string  `json:"band_response"`
	CreatedAt    string  `json:"created_at"`
}

// parseBookingDate validates presence and format of the booking_date
// field. The returned message is empty on success.
func parseBookingDate(raw string) (time.Time, string) {
	if strings.TrimSpace(raw) == "" {
		return time.Time{}, "Please enter a booking date."
	}
	d, err := time.Parse(dateLayout, strings.TrimSpace(raw))
	if err != nil {
		return time.Time{}, "Invalid date format. Please use YYYY-MM-DD."
	}
	return d, ""
}

// pastBookingDateError rejects dates strictly before today's calendar
// date. Time-of-day is ignored on both sides.
func pastBookingDateError(today, date time.Time) string {
	day := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, time.UTC)
	if date.Before(day) {
		return "Booking date cannot be in the past."
	}
	return ""
}

// CreateBooking handles POST /v1/bookings (multipart form). The lifecycle
// sweep runs first so the conflict check sees only genuinely upcoming
// events. On success the booking is stored with band_response "Pending"
// and a booking.requested message is published for the journal; publish
// failures are logged inside the publisher and never fail the request.
func (h *BookingHandler) CreateBooking(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if _, err := h.UpcomingEvents.PromoteElapsed(ctx, time.Now().UTC()); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "lifecycle sweep failed"})
	}

	errs := map[string]string{}
	date, msg := parseBookingDate(c.FormValue("booking_date"))
	if msg != "" {
		errs["booking_date"] = msg
	} else if msg := pastBookingDateError(time.Now().UTC(), date); msg != "" {
		errs["booking_date"] = msg
	} else {
		conflict, err := h.UpcomingEvents.ExistsOnDate(ctx, date)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
		}
		if conflict {
			errs["booking_date"] = bookingConflictMsg
		}
	}
	if len(errs) > 0 {
		return fieldErrors(c, errs)
	}

	booking := model.Booking{
		UserID:      userID,
		BookingDate: date,
	}
	if v := strings.TrimSpace(c.FormValue("event_name")); v != "" {
		booking.EventName = &v
	}
	if v := strings.TrimSpace(c.FormValue("description")); v != "" {
		booking.Description = &v
	}
	if v := strings.TrimSpace(c.FormValue("location")); v != "" {
		booking.Location = &v
	}
	if fh, err := c.FormFile("event_image"); err == nil && fh != nil {
		path, err := h.Images.Save(fh)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "store image failed"})
		}
		booking.ImagePath = &path
	}

	id, err := h.Bookings.Create(ctx, booking)
	if err != nil {
		if booking.ImagePath != nil {
			h.Images.Remove(*booking.ImagePath)
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create booking failed"})
	}
	booking.ID = id
	booking.BandResponse = "Pending"

	h.publishRequested(ctx, booking)

	return c.JSON(http.StatusCreated, toBookingView(booking, time.Now().UTC()))
}

// MyBookings handles GET /v1/bookings. Bookings whose requested date has
// passed are purged (and their image files released) before listing, the
// same sweep-on-read pattern the event listing uses.
func (h *BookingHandler) MyBookings(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	released, err := h.Bookings.DeleteExpiredForUser(ctx, userID, time.Now().UTC())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "purge failed"})
	}
	h.Images.RemoveAll(released)

	bookings, err := h.Bookings.ListByUser(ctx, userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	views := make([]bookingView, 0, len(bookings))
	for _, b := range bookings {
		views = append(views, toBookingView(b, b.CreatedAt))
	}
	return c.JSON(http.StatusOK, echo.Map{"bookings": views})
}

// publishRequested fires the broker message without blocking the request
// on broker availability.
func (h *BookingHandler) publishRequested(ctx context.Context, b model.Booking) {
	username := ""
	if u, err := h.Users.GetByID(ctx, b.UserID); err == nil {
		username = u.Username
	}
	ev := queue.BookingRequestedEvent{
		BookingID:   b.ID,
		UserID:      b.UserID,
		Username:    username,
		BookingDate: b.BookingDate.Format(dateLayout),
		RequestedAt: time.Now().UTC().Format(time.RFC3339),
	}
	if b.EventName != nil {
		ev.EventName = *b.EventName
	}
	if b.Location != nil {
		ev.Location = *b.Location
	}
	go func() {
		pubCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = queue_publisher.PublishBookingRequested(pubCtx, ev)
	}()
}

func toBookingView(b model.Booking, createdAt time.Time) bookingView {
	return bookingView{
		ID:           b.ID,
		EventName:    b.EventName,
		Description:  b.Description,
		Location:     b.Location,
		Image:        b.ImagePath,
		BookingDate:  b.BookingDate.Format(dateLayout),
		BandResponse: b.BandResponse,
		CreatedAt:    createdAt.UTC().Format(time.RFC3339),
	}
}
