package main

import (
	"context"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/aylinkal/band-events/internal/config"
	"github.com/aylinkal/band-events/internal/database"
	"github.com/aylinkal/band-events/internal/handler"
	"github.com/aylinkal/band-events/internal/queue"
	"github.com/aylinkal/band-events/internal/repository"
	"github.com/aylinkal/band-events/internal/router"
	"github.com/aylinkal/band-events/internal/storage"
)

func main() {
	_ = godotenv.Load() // .env is optional; real deployments set the environment directly
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	images, err := storage.NewImageStore(cfg.ImageDir)
	if err != nil {
		log.Fatalf("image store: %v", err)
	}

	users := repository.NewUserRepo(db)
	sessions := repository.NewSessionRepo(db)
	pastEvents := repository.NewPastEventRepo(db)
	upcomingEvents := repository.NewUpcomingEventRepo(db)
	likes := repository.NewLikeRepo(db)
	comments := repository.NewCommentRepo(db)
	bookings := repository.NewBookingRepo(db)

	// Drop sessions that expired while the server was down.
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	if err := sessions.PurgeExpired(ctx); err != nil {
		log.Printf("purge sessions: %v", err)
	}
	cancel()

	rdb := config.NewRedisClient()

	handlers := router.Handlers{
		Auth:       handler.NewAuthHandler(cfg, users, sessions, images),
		Events:     handler.NewEventHandler(cfg, sessions, pastEvents, upcomingEvents, likes, comments),
		Engagement: handler.NewEngagementHandler(pastEvents, likes, comments),
		Bookings:   handler.NewBookingHandler(bookings, upcomingEvents, users, images),
		Organizer:  handler.NewOrganizerHandler(pastEvents, upcomingEvents, bookings, images),
	}

	e := echo.New()
	e.HideBanner = true
	router.Register(e, cfg, handlers, sessions, rdb)

	go func() {
		if err := queue.StartBookingConsumer(); err != nil {
			log.Printf("booking consumer stopped: %v", err)
		}
	}()

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
