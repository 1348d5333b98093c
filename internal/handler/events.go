package handler

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/aylinkal/band-events/internal/config"
	"github.com/aylinkal/band-events/internal/middleware"
	"github.com/aylinkal/band-events/internal/model"
	"github.com/aylinkal/band-events/internal/repository"
	"github.com/aylinkal/band-events/internal/utils"
)

const dateLayout = "2006-01-02"

// eventPageSize caps how many past and upcoming events a listing returns.
const eventPageSize = 25

// EventHandler serves the public event listing and detail pages. Both are
// read paths, so each begins by running the lifecycle transition that
// migrates elapsed upcoming events into past events.
type EventHandler struct {
	Cfg            config.Config
	Sessions       *repository.SessionRepo
	PastEvents     *repository.PastEventRepo
	UpcomingEvents *repository.UpcomingEventRepo
	Likes          *repository.LikeRepo
	Comments       *repository.CommentRepo
}

func NewEventHandler(cfg config.Config, sessions *repository.SessionRepo, past *repository.PastEventRepo, upcoming *repository.UpcomingEventRepo, likes *repository.LikeRepo, comments *repository.CommentRepo) *EventHandler {
	if sessions == nil || past == nil || upcoming == nil || likes == nil || comments == nil {
		panic("nil repository passed to NewEventHandler")
	}
	return &EventHandler{Cfg: cfg, Sessions: sessions, PastEvents: past, UpcomingEvents: upcoming, Likes: likes, Comments: comments}
}

// ----- view DTOs -----

type pastEventView struct {
	ID          uint64                     `json:"id"`
	Name        string                     `json:"name"`
	Description *string                    `json:"description,omitempty"`
	Date        string                     `json:"date"`
	Location    string                     `json:"location"`
	Image       *string                    `json:"image,omitempty"`
	LikeCount   int                        `json:"like_count"`
	Liked       bool                       `json:"liked"`
	Comments    []repository.CommentDetail `json:"comments"`
}

type upcomingEventView struct {
	ID          uint64  `json:"id"`
	Name        string  `json:"name"`
	Description *string `json:"description,omitempty"`
	Date        string  `json:"date"`
	Location    string  `json:"location"`
	Image       *string `json:"image,omitempty"`
}

// ListEvents handles GET /v1/events. It promotes elapsed upcoming events,
// then returns up to 25 most recent past and upcoming events; past events
// carry their comments, like counts and, for authenticated callers,
// whether the caller liked them.
func (h *EventHandler) ListEvents(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if _, err := h.UpcomingEvents.PromoteElapsed(ctx, time.Now().UTC()); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "lifecycle sweep failed"})
	}

	past, err := h.PastEvents.ListRecent(ctx, eventPageSize)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	upcoming, err := h.UpcomingEvents.ListRecent(ctx, eventPageSize)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	ids := make([]uint64, len(past))
	for i, ev := range past {
		ids[i] = ev.ID
	}
	counts, err := h.Likes.CountsForEvents(ctx, ids)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	comments, err := h.Comments.ListForEvents(ctx, ids)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	liked := map[uint64]bool{}
	if uid := h.optionalUserID(c); uid != 0 {
		if m, err := h.Likes.LikedByUser(ctx, uid, ids); err == nil {
			liked = m
		}
	}

	pastViews := make([]pastEventView, 0, len(past))
	for _, ev := range past {
		view := toPastView(ev, counts[ev.ID], liked[ev.ID], comments[ev.ID])
		pastViews = append(pastViews, view)
	}
	upcomingViews := make([]upcomingEventView, 0, len(upcoming))
	for _, ev := range upcoming {
		upcomingViews = append(upcomingViews, toUpcomingView(ev))
	}

	return c.JSON(http.StatusOK, echo.Map{
		"past_events":     pastViews,
		"upcoming_events": upcomingViews,
	})
}

// GetPastEvent handles GET /v1/events/past/:id and renders a single past
// event with its comments and likes.
func (h *EventHandler) GetPastEvent(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	ev, err := h.PastEvents.GetByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "event not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	count, err := h.Likes.CountByEvent(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	comments, err := h.Comments.ListByEvent(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	likedByCaller := false
	if uid := h.optionalUserID(c); uid != 0 {
		if m, err := h.Likes.LikedByUser(ctx, uid, []uint64{id}); err == nil {
			likedByCaller = m[id]
		}
	}
	return c.JSON(http.StatusOK, toPastView(ev, count, likedByCaller, comments))
}

// optionalUserID identifies the caller when a valid session is presented
// but never fails the request: the event pages are public.
func (h *EventHandler) optionalUserID(c echo.Context) uint64 {
	raw := ""
	if cookie, err := c.Cookie(middleware.SessionCookieName); err == nil {
		raw = cookie.Value
	}
	if raw == "" {
		auth := c.Request().Header.Get("Authorization")
		if len(auth) > 7 && auth[:7] == "Bearer " {
			raw = auth[7:]
		}
	}
	if raw == "" {
		return 0
	}
	uid, _, err := utils.ParseSessionToken(h.Cfg.JWTSecret, raw)
	if err != nil {
		return 0
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
	defer cancel()
	sessionUID, err := h.Sessions.Validate(ctx, utils.HashSessionRaw(raw))
	if err != nil || sessionUID != uid {
		return 0
	}
	return uid
}

func toPastView(ev model.PastEvent, likeCount int, liked bool, comments []repository.CommentDetail) pastEventView {
	if comments == nil {
		comments = []repository.CommentDetail{}
	}
	return pastEventView{
		ID:          ev.ID,
		Name:        ev.Name,
		Description: ev.Description,
		Date:        ev.Date.Format(dateLayout),
		Location:    ev.Location,
		Image:       ev.ImagePath,
		LikeCount:   likeCount,
		Liked:       liked,
		Comments:    comments,
	}
}

func toUpcomingView(ev model.UpcomingEvent) upcomingEventView {
	return upcomingEventView{
		ID:          ev.ID,
		Name:        ev.Name,
		Description: ev.Description,
		Date:        ev.Date.Format(dateLayout),
		Location:    ev.Location,
		Image:       ev.ImagePath,
	}
}
