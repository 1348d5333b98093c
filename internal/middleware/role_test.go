package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
)

func runWithRole(t *testing.T, role interface{}, allowed ...string) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if role != nil {
		c.Set("role", role)
	}
	next := func(c echo.Context) error { return c.String(http.StatusOK, "ok") }
	err := RequireRole(allowed...)(next)(c)
	assert.NoError(t, err)
	return rec
}

func TestRequireRole_Allows(t *testing.T) {
	rec := runWithRole(t, "ORGANIZER", "ORGANIZER")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRequireRole_RejectsOtherRole(t *testing.T) {
	rec := runWithRole(t, "USER", "ORGANIZER")
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestRequireRole_RejectsMissingRole(t *testing.T) {
	rec := runWithRole(t, nil, "ORGANIZER")
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestRequireRole_RejectsNonStringRole(t *testing.T) {
	rec := runWithRole(t, 42, "ORGANIZER")
	assert.Equal(t, http.StatusForbidden, rec.Code)
}
