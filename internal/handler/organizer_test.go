package handler

import (
	"net/http"
	"net/url"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"

	"github.com/aylinkal/band-events/internal/repository"
)

func eventFormBody(name, date, location string) string {
	v := url.Values{}
	v.Set("name", name)
	v.Set("date", date)
	v.Set("location", location)
	return v.Encode()
}

func TestParseEventForm_OK(t *testing.T) {
	c, _ := newTestContext(http.MethodPost, "/v1/organizer/events/upcoming",
		eventFormBody("Summer Fest", "2026-09-15", "Riverside Park"), echo.MIMEApplicationForm)

	form, errs := parseEventForm(c)
	assert.Empty(t, errs)
	assert.Equal(t, "Summer Fest", form.Info.Name)
	assert.Equal(t, time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC), form.Info.Date)
	assert.Equal(t, "Riverside Park", form.Info.Location)
	assert.Nil(t, form.Info.Description)
	assert.Nil(t, form.Image)
}

func TestParseEventForm_MissingFields(t *testing.T) {
	c, _ := newTestContext(http.MethodPost, "/v1/organizer/events/upcoming",
		eventFormBody("", "", ""), echo.MIMEApplicationForm)

	_, errs := parseEventForm(c)
	assert.Equal(t, "Please enter an event name.", errs["name"])
	assert.Equal(t, "Please enter an event date.", errs["date"])
	assert.Equal(t, "Please enter a location.", errs["location"])
}

func TestParseEventForm_BadDate(t *testing.T) {
	c, _ := newTestContext(http.MethodPost, "/v1/organizer/events/upcoming",
		eventFormBody("Summer Fest", "15.09.2026", "Riverside Park"), echo.MIMEApplicationForm)

	_, errs := parseEventForm(c)
	assert.Equal(t, "Invalid date format. Please use YYYY-MM-DD.", errs["date"])
}

func TestRespondBooking_InvalidID(t *testing.T) {
	c, rec := newTestContext(http.MethodPatch, "/v1/bookings/abc/response",
		`{"band_response":"Accepted"}`, echo.MIMEApplicationJSON)
	c.SetParamNames("id")
	c.SetParamValues("abc")

	h := &OrganizerHandler{Bookings: &repository.BookingRepo{}}
	err := h.RespondBooking(c)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRespondBooking_BlankResponse(t *testing.T) {
	c, rec := newTestContext(http.MethodPatch, "/v1/bookings/5/response",
		`{"band_response":"   "}`, echo.MIMEApplicationJSON)
	c.SetParamNames("id")
	c.SetParamValues("5")

	h := &OrganizerHandler{Bookings: &repository.BookingRepo{}}
	err := h.RespondBooking(c)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Please enter a response.")
}
