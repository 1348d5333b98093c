package handler

import (
	"context"
	"database/sql"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/aylinkal/band-events/internal/model"
	"github.com/aylinkal/band-events/internal/repository"
	"github.com/aylinkal/band-events/internal/storage"
)

// OrganizerHandler covers the ORGANIZER-only surface: event management
// and answering booking requests. RequireRole guards every route here,
// so the methods assume an organizer principal.
type OrganizerHandler struct {
	PastEvents     *repository.PastEventRepo
	UpcomingEvents *repository.UpcomingEventRepo
	Bookings       *repository.BookingRepo
	Images         *storage.ImageStore
}

func NewOrganizerHandler(past *repository.PastEventRepo, upcoming *repository.UpcomingEventRepo, bookings *repository.BookingRepo, images *storage.ImageStore) *OrganizerHandler {
	if past == nil || upcoming == nil || bookings == nil || images == nil {
		panic("nil dependency passed to NewOrganizerHandler")
	}
	return &OrganizerHandler{PastEvents: past, UpcomingEvents: upcoming, Bookings: bookings, Images: images}
}

// eventForm holds the parsed multipart event form shared by the past and
// upcoming create endpoints.
type eventForm struct {
	Info  model.EventInfo
	Image *multipart.FileHeader
}

// parseEventForm validates the create-event form. Name, date and
// location are required; description and image are optional.
func parseEventForm(c echo.Context) (eventForm, map[string]string) {
	errs := map[string]string{}
	var form eventForm

	name := strings.TrimSpace(c.FormValue("name"))
	if name == "" {
		errs["name"] = "Please enter an event name."
	}
	form.Info.Name = name

	rawDate := strings.TrimSpace(c.FormValue("date"))
	if rawDate == "" {
		errs["date"] = "Please enter an event date."
	} else if d, err := time.Parse(dateLayout, rawDate); err != nil {
		errs["date"] = "Invalid date format. Please use YYYY-MM-DD."
	} else {
		form.Info.Date = d
	}

	location := strings.TrimSpace(c.FormValue("location"))
	if location == "" {
		errs["location"] = "Please enter a location."
	}
	form.Info.Location = location

	if v := strings.TrimSpace(c.FormValue("description")); v != "" {
		form.Info.Description = &v
	}
	if fh, err := c.FormFile("event_image"); err == nil && fh != nil {
		form.Image = fh
	}
	return form, errs
}

// CreatePastEvent handles POST /v1/events/past. Duplicates are
// allowed on purpose: a band can play the same venue on the same date in
// reality, so the calendar holds no uniqueness constraint for past shows.
func (h *OrganizerHandler) CreatePastEvent(c echo.Context) error {
	return h.createEvent(c, h.PastEvents.Create)
}

// CreateUpcomingEvent handles POST /v1/events/upcoming.
func (h *OrganizerHandler) CreateUpcomingEvent(c echo.Context) error {
	return h.createEvent(c, h.UpcomingEvents.Create)
}

func (h *OrganizerHandler) createEvent(c echo.Context, insert func(context.Context, model.EventInfo) (uint64, error)) error {
	form, errs := parseEventForm(c)
	if len(errs) > 0 {
		return fieldErrors(c, errs)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if form.Image != nil {
		path, err := h.Images.Save(form.Image)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "store image failed"})
		}
		form.Info.ImagePath = &path
	}

	id, err := insert(ctx, form.Info)
	if err != nil {
		if form.Info.ImagePath != nil {
			h.Images.Remove(*form.Info.ImagePath)
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create event failed"})
	}

	return c.JSON(http.StatusCreated, echo.Map{
		"id":       id,
		"name":     form.Info.Name,
		"date":     form.Info.Date.Format(dateLayout),
		"location": form.Info.Location,
		"image":    form.Info.ImagePath,
	})
}

// DeletePastEvent handles DELETE /v1/events/past/:id. Likes and
// comments go with the event; the image file is released after commit.
func (h *OrganizerHandler) DeletePastEvent(c echo.Context) error {
	return h.deleteEvent(c, h.PastEvents.DeleteByID)
}

// DeleteUpcomingEvent handles DELETE /v1/events/upcoming/:id.
func (h *OrganizerHandler) DeleteUpcomingEvent(c echo.Context) error {
	return h.deleteEvent(c, h.UpcomingEvents.DeleteByID)
}

func (h *OrganizerHandler) deleteEvent(c echo.Context, remove func(context.Context, uint64) (*string, error)) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	image, err := remove(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "event not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
	}
	if image != nil {
		h.Images.Remove(*image)
	}
	return c.NoContent(http.StatusNoContent)
}

// ListAllBookings handles GET /v1/organizer/bookings and returns every
// booking request for review.
func (h *OrganizerHandler) ListAllBookings(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	bookings, err := h.Bookings.ListAll(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	views := make([]bookingView, 0, len(bookings))
	for _, b := range bookings {
		views = append(views, toBookingView(b, b.CreatedAt))
	}
	return c.JSON(http.StatusOK, echo.Map{"bookings": views})
}

type respondReq struct {
	BandResponse string `json:"band_response" form:"band_response"`
}

// RespondBooking handles PATCH /v1/bookings/:id/response. The response is
// free text ("Accepted", "Declined", a counter-offer); the only rule is
// that it cannot be blank.
func (h *OrganizerHandler) RespondBooking(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req respondReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	response := strings.TrimSpace(req.BandResponse)
	if response == "" {
		return fieldErrors(c, map[string]string{"band_response": "Please enter a response."})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Bookings.SetResponse(ctx, id, response); err != nil {
		if err == sql.ErrNoRows {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	booking, err := h.Bookings.GetByID(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, toBookingView(booking, booking.CreatedAt))
}
