package middleware // middleware provides shared request processing for handlers

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/aylinkal/band-events/internal/repository"
	"github.com/aylinkal/band-events/internal/utils"
)

// SessionCookieName is the cookie carrying the signed session token.
const SessionCookieName = "session"

// SessionAuth returns an Echo middleware that authenticates requests from
// the session cookie (browser clients) or a Bearer token (API clients).
// The token signature and expiry are verified first, then the sessions
// table is consulted so that tokens revoked by logout stop working. On
// success the user ID and role are stored in the echo context under
// "user_id" and "role" for handlers to read.
func SessionAuth(secret string, sessions *repository.SessionRepo) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw := tokenFromRequest(c)
			if raw == "" {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "login required"})
			}
			uid, role, err := utils.ParseSessionToken(secret, raw)
			if err != nil {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid session"})
			}
			ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
			defer cancel()
			sessionUID, err := sessions.Validate(ctx, utils.HashSessionRaw(raw))
			if err != nil || sessionUID != uid {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "session expired"})
			}
			c.Set("user_id", uid)
			c.Set("role", role)
			return next(c)
		}
	}
}

// tokenFromRequest prefers the session cookie and falls back to a Bearer
// Authorization header.
func tokenFromRequest(c echo.Context) string {
	if cookie, err := c.Cookie(SessionCookieName); err == nil && cookie.Value != "" {
		return cookie.Value
	}
	auth := c.Request().Header.Get("Authorization")
	if strings.HasPrefix(auth, "Bearer ") {
		return strings.TrimPrefix(auth, "Bearer ")
	}
	return ""
}
