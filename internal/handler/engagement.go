package handler

import (
	"context"
	"database/sql"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/labstack/echo/v4"

	"github.com/aylinkal/band-events/internal/repository"
)

// maxReviewLen bounds the review body, matching the column width.
const maxReviewLen = 1000

// EngagementHandler implements the like toggle and comment submission on
// past events. Both require an authenticated user; SessionAuth rejects
// anonymous calls before these methods run.
type EngagementHandler struct {
	PastEvents *repository.PastEventRepo
	Likes      *repository.LikeRepo
	Comments   *repository.CommentRepo
}

func NewEngagementHandler(past *repository.PastEventRepo, likes *repository.LikeRepo, comments *repository.CommentRepo) *EngagementHandler {
	if past == nil || likes == nil || comments == nil {
		panic("nil repository passed to NewEngagementHandler")
	}
	return &EngagementHandler{PastEvents: past, Likes: likes, Comments: comments}
}

type commentReq struct {
	ReviewText string `json:"review_text" form:"review_text"`
	Rating     int    `json:"rating" form:"rating"`
}

// validateComment enforces the two comment rules: a non-empty review of
// at most 1000 characters and a rating between 1 and 5 inclusive.
func validateComment(reviewText string, rating int) map[string]string {
	errs := map[string]string{}
	if strings.TrimSpace(reviewText) == "" {
		errs["review_text"] = "Please enter your review."
	} else if utf8.RuneCountInString(reviewText) > maxReviewLen {
		errs["review_text"] = "Review is too long. Maximum length is 1000 characters."
	}
	if rating < 1 || rating > 5 {
		errs["rating"] = "Rating must be between 1 and 5."
	}
	return errs
}

// ToggleLike handles POST /v1/events/past/:id/like. When a like by the
// caller already exists for the event it is removed; otherwise one is
// created. The response reports the resulting state and the derived
// count; there is no stored counter to get out of sync.
func (h *EngagementHandler) ToggleLike(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	eventID, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if _, err := h.PastEvents.GetByID(ctx, eventID); err != nil {
		if err == sql.ErrNoRows {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "event not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	liked, err := h.Likes.Toggle(ctx, eventID, userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "toggle failed"})
	}
	count, err := h.Likes.CountByEvent(ctx, eventID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"event_id":   eventID,
		"liked":      liked,
		"like_count": count,
	})
}

// CreateComment handles POST /v1/events/past/:id/comments. The creation
// date and time are server-assigned; clients supply only text and rating.
func (h *EngagementHandler) CreateComment(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	eventID, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req commentReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if errs := validateComment(req.ReviewText, req.Rating); len(errs) > 0 {
		return fieldErrors(c, errs)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if _, err := h.PastEvents.GetByID(ctx, eventID); err != nil {
		if err == sql.ErrNoRows {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "event not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	comment, err := h.Comments.Create(ctx, userID, eventID, strings.TrimSpace(req.ReviewText), req.Rating)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create comment failed"})
	}
	return c.JSON(http.StatusCreated, echo.Map{
		"id":          comment.ID,
		"event_id":    comment.EventID,
		"review_text": comment.ReviewText,
		"rating":      comment.Rating,
		"date":        comment.Date.Format(dateLayout),
		"time":        comment.Time,
	})
}
