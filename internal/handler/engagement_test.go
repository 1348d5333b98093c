package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"

	"github.com/aylinkal/band-events/internal/repository"
)

func newTestContext(method, target, body, contentType string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, contentType)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func newEngagementHandler() *EngagementHandler {
	// Repos with a nil DB are fine for paths rejected before any query.
	return NewEngagementHandler(&repository.PastEventRepo{}, &repository.LikeRepo{}, &repository.CommentRepo{})
}

func TestValidateComment_OK(t *testing.T) {
	assert.Empty(t, validateComment("Great show!", 1))
	assert.Empty(t, validateComment("Great show!", 5))
}

func TestValidateComment_RatingBounds(t *testing.T) {
	errs := validateComment("Great show!", 0)
	assert.Equal(t, "Rating must be between 1 and 5.", errs["rating"])

	errs = validateComment("Great show!", 6)
	assert.Equal(t, "Rating must be between 1 and 5.", errs["rating"])
}

func TestValidateComment_EmptyReview(t *testing.T) {
	errs := validateComment("   ", 3)
	assert.Equal(t, "Please enter your review.", errs["review_text"])
}

func TestValidateComment_ReviewTooLong(t *testing.T) {
	errs := validateComment(strings.Repeat("a", maxReviewLen+1), 3)
	assert.Equal(t, "Review is too long. Maximum length is 1000 characters.", errs["review_text"])

	assert.Empty(t, validateComment(strings.Repeat("a", maxReviewLen), 3))
}

func TestToggleLike_Unauthorized(t *testing.T) {
	c, rec := newTestContext(http.MethodPost, "/v1/events/past/1/like", "", "")
	c.SetParamNames("id")
	c.SetParamValues("1")

	err := newEngagementHandler().ToggleLike(c)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestToggleLike_InvalidID(t *testing.T) {
	c, rec := newTestContext(http.MethodPost, "/v1/events/past/abc/like", "", "")
	c.Set("user_id", uint64(1))
	c.SetParamNames("id")
	c.SetParamValues("abc")

	err := newEngagementHandler().ToggleLike(c)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateComment_RejectsInvalidBodyBeforeQuery(t *testing.T) {
	c, rec := newTestContext(http.MethodPost, "/v1/events/past/1/comments",
		`{"review_text":"","rating":9}`, echo.MIMEApplicationJSON)
	c.Set("user_id", uint64(1))
	c.SetParamNames("id")
	c.SetParamValues("1")

	err := newEngagementHandler().CreateComment(c)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Please enter your review.")
	assert.Contains(t, rec.Body.String(), "Rating must be between 1 and 5.")
}
