package router

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/aylinkal/band-events/internal/config"
	"github.com/aylinkal/band-events/internal/handler"
	"github.com/aylinkal/band-events/internal/middleware"
	"github.com/aylinkal/band-events/internal/repository"
)

// Handlers collects every handler the router wires up.
type Handlers struct {
	Auth       *handler.AuthHandler
	Events     *handler.EventHandler
	Engagement *handler.EngagementHandler
	Bookings   *handler.BookingHandler
	Organizer  *handler.OrganizerHandler
}

// Register mounts all routes. Auth endpoints sit behind the Redis token
// bucket; the public event pages sit behind the shared response cache.
// Everything under the authenticated group requires a live session, and
// the organizer surface additionally requires the ORGANIZER role.
func Register(e *echo.Echo, cfg config.Config, h Handlers, sessions *repository.SessionRepo, rdb *redis.Client) {
	e.GET("/healthz", handler.Health)
	e.GET("/", handler.Home)

	v1 := e.Group("/v1")

	limiter := middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb)
	auth := v1.Group("/auth", limiter)
	auth.POST("/register", h.Auth.Register)
	auth.POST("/login", h.Auth.Login)
	auth.POST("/logout", h.Auth.Logout)

	cache := middleware.NewRedisCache(config.LoadCacheConfig(), rdb)
	v1.GET("/events", h.Events.ListEvents, cache)
	v1.GET("/events/past/:id", h.Events.GetPastEvent, cache)

	authed := v1.Group("", middleware.SessionAuth(cfg.JWTSecret, sessions))
	authed.GET("/me", h.Auth.Me)
	authed.DELETE("/me", h.Auth.DeleteAccount)
	authed.POST("/events/past/:id/like", h.Engagement.ToggleLike)
	authed.POST("/events/past/:id/comments", h.Engagement.CreateComment)
	authed.POST("/bookings", h.Bookings.CreateBooking)
	authed.GET("/bookings", h.Bookings.MyBookings)

	organizer := middleware.RequireRole("ORGANIZER")
	authed.POST("/events/past", h.Organizer.CreatePastEvent, organizer)
	authed.POST("/events/upcoming", h.Organizer.CreateUpcomingEvent, organizer)
	authed.DELETE("/events/past/:id", h.Organizer.DeletePastEvent, organizer)
	authed.DELETE("/events/upcoming/:id", h.Organizer.DeleteUpcomingEvent, organizer)
	authed.GET("/organizer/bookings", h.Organizer.ListAllBookings, organizer)
	authed.PATCH("/bookings/:id/response", h.Organizer.RespondBooking, organizer)
}
