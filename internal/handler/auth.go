package handler

import (
	"context"
	"database/sql"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/aylinkal/band-events/internal/config"
	"github.com/aylinkal/band-events/internal/middleware"
	"github.com/aylinkal/band-events/internal/repository"
	"github.com/aylinkal/band-events/internal/storage"
	"github.com/aylinkal/band-events/internal/utils"
)

// AuthHandler bundles dependencies for registration, login, logout and
// account deletion. Credential hashing and session issuance live here;
// everything else in the application receives the authenticated
// principal from middleware.
type AuthHandler struct {
	Cfg      config.Config
	Users    *repository.UserRepo
	Sessions *repository.SessionRepo
	Images   *storage.ImageStore
}

func NewAuthHandler(cfg config.Config, u *repository.UserRepo, s *repository.SessionRepo, images *storage.ImageStore) *AuthHandler {
	return &AuthHandler{Cfg: cfg, Users: u, Sessions: s, Images: images}
}

// ----- DTOs -----

type registerReq struct {
	Username        string `json:"username" form:"username"`
	FirstName       string `json:"first_name" form:"first_name"`
	Password        string `json:"password" form:"password"`
	PasswordConfirm string `json:"password_confirm" form:"password_confirm"`
}
type loginReq struct {
	Username string `json:"username" form:"username"`
	Password string `json:"password" form:"password"`
}

type userPart struct {
	ID        uint64 `json:"id"`
	Username  string `json:"username"`
	FirstName string `json:"first_name"`
	Role      string `json:"role"`
}
type authResp struct {
	User    userPart  `json:"user"`
	Token   string    `json:"token"`
	Expires time.Time `json:"expires"`
}

// validateRegistration checks the registration form. The password
// mismatch check is the one rule with security relevance here; account
// creation and hashing happen in the repository.
func validateRegistration(req registerReq) map[string]string {
	errs := map[string]string{}
	if strings.TrimSpace(req.Username) == "" {
		errs["username"] = "Please enter a username."
	}
	if strings.TrimSpace(req.FirstName) == "" {
		errs["first_name"] = "Please enter your first name."
	}
	if req.Password == "" {
		errs["password"] = "Please enter a password."
	}
	if req.PasswordConfirm == "" {
		errs["password_confirm"] = "Please confirm your password."
	} else if req.Password != "" && req.Password != req.PasswordConfirm {
		errs["password_confirm"] = "Passwords do not match."
	}
	return errs
}

// Register creates an account and logs the new user in immediately.
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if errs := validateRegistration(req); len(errs) > 0 {
		return fieldErrors(c, errs)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	uid, err := h.Users.Create(ctx, req.Username, strings.TrimSpace(req.FirstName), req.Password, "USER", h.Cfg.BcryptCost)
	if err != nil {
		if err == repository.ErrUsernameExists {
			return fieldErrors(c, map[string]string{"username": "This username is already taken."})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create user failed"})
	}

	token, err := h.openSession(ctx, uid, "USER")
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "open session failed"})
	}
	h.setSessionCookie(c, token)

	return c.JSON(http.StatusCreated, authResp{
		User:    userPart{ID: uid, Username: strings.ToLower(strings.TrimSpace(req.Username)), FirstName: strings.TrimSpace(req.FirstName), Role: "USER"},
		Token:   token.Token,
		Expires: token.Exp,
	})
}

// Login verifies credentials and opens a session.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if strings.TrimSpace(req.Username) == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "username/password required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, err := h.Users.GetByUsername(ctx, req.Username)
	if err != nil {
		if err == sql.ErrNoRows {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "Invalid credentials"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if !utils.VerifyPassword(u.PasswordHash, req.Password) {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "Invalid credentials"})
	}

	token, err := h.openSession(ctx, u.ID, u.Role)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "open session failed"})
	}
	h.setSessionCookie(c, token)

	return c.JSON(http.StatusOK, authResp{
		User:    userPart{ID: u.ID, Username: u.Username, FirstName: u.FirstName, Role: u.Role},
		Token:   token.Token,
		Expires: token.Exp,
	})
}

// Logout revokes the presented session and clears the cookie. An absent
// or already-invalid token still clears the cookie and returns 204; there
// is nothing useful to report to a client that is already logged out.
func (h *AuthHandler) Logout(c echo.Context) error {
	raw := ""
	if cookie, err := c.Cookie(middleware.SessionCookieName); err == nil {
		raw = cookie.Value
	}
	if raw == "" {
		auth := c.Request().Header.Get("Authorization")
		raw = strings.TrimPrefix(auth, "Bearer ")
	}
	if raw != "" {
		ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
		defer cancel()
		_ = h.Sessions.DeleteByHash(ctx, utils.HashSessionRaw(raw))
	}
	h.clearSessionCookie(c)
	return c.NoContent(http.StatusNoContent)
}

// Me returns the authenticated principal (protected).
func (h *AuthHandler) Me(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	u, err := h.Users.GetByID(ctx, uid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load user failed"})
	}
	return c.JSON(http.StatusOK, userPart{ID: u.ID, Username: u.Username, FirstName: u.FirstName, Role: u.Role})
}

// DeleteAccount removes the caller's account together with their likes,
// comments, bookings and sessions, then releases booking image files and
// clears the cookie.
func (h *AuthHandler) DeleteAccount(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	images, err := h.Users.DeleteByID(ctx, uid)
	if err != nil {
		if err == sql.ErrNoRows {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete account failed"})
	}
	if h.Images != nil {
		h.Images.RemoveAll(images)
	}
	h.clearSessionCookie(c)
	return c.NoContent(http.StatusNoContent)
}

func (h *AuthHandler) openSession(ctx context.Context, uid uint64, role string) (utils.SessionToken, error) {
	token, err := utils.NewSessionToken(h.Cfg.JWTSecret, uid, role, h.Cfg.SessionTTLHours)
	if err != nil {
		return utils.SessionToken{}, err
	}
	if err := h.Sessions.Store(ctx, uid, utils.HashSessionRaw(token.Token), token.Exp); err != nil {
		return utils.SessionToken{}, err
	}
	return token, nil
}

func (h *AuthHandler) setSessionCookie(c echo.Context, token utils.SessionToken) {
	c.SetCookie(&http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    token.Token,
		Path:     "/",
		Expires:  token.Exp,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   h.Cfg.Env == "prod",
	})
}

func (h *AuthHandler) clearSessionCookie(c echo.Context) {
	c.SetCookie(&http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
