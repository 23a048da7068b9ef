package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"student-housing/internal/config"
	"student-housing/internal/handler"
	"student-housing/internal/middleware"
	"student-housing/internal/pkg/i18n"
	"student-housing/internal/realtime"
	"student-housing/internal/repository"
	"student-housing/internal/scheduler"
	"student-housing/internal/service"
	"student-housing/internal/service/auth"
)

func main() {
	envErr := godotenv.Load()

	cfg := config.Load()
	log := config.NewLogger(cfg)
	slog.SetDefault(log)

	if envErr != nil {
		log.Info("no .env file found, using environment variables")
	}

	if err := run(cfg, log); err != nil {
		log.Error("server stopped with error", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, log *slog.Logger) error {
	if err := i18n.LoadTranslations(cfg.LocalesPath); err != nil {
		log.Warn("failed to load translations, falling back to message keys", "path", cfg.LocalesPath, "error", err)
	}

	bounds, err := config.LoadFilterBounds(cfg.FiltersFile)
	if err != nil {
		return err
	}

	db, err := config.NewPostgresDB(cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	var redisClient *redis.Client
	if client, err := config.NewRedisClient(cfg); err != nil {
		log.Warn("failed to connect to Redis, caching disabled", "error", err)
	} else {
		redisClient = client
		defer redisClient.Close()
	}

	minioClient, err := config.NewMinIOClient(cfg, log)
	if err != nil {
		log.Warn("failed to connect to MinIO, media upload will not work", "error", err)
	}

	listener, err := config.NewNotificationListener(cfg, log)
	if err != nil {
		return err
	}
	defer listener.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	repos := repository.NewRepositories(db)

	feed := realtime.NewFeed(repos.Notification, log)
	go func() {
		if err := feed.Run(ctx, listener.Notify); err != nil && !errors.Is(err, context.Canceled) {
			log.Error("change feed stopped", "error", err)
		}
	}()

	services := service.NewServices(repos, redisClient, minioClient, bounds, cfg, log)
	handlers := handler.NewHandlers(services, feed, log)

	jobs := scheduler.New(cfg.MaintenanceSchedule, services.Subscription, repos.Session, log)
	if err := jobs.Start(); err != nil {
		return err
	}
	defer jobs.Stop()

	app := fiber.New(fiber.Config{
		ErrorHandler: middleware.NewErrorHandler(log),
		BodyLimit:    12 * 1024 * 1024,
	})

	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Next: func(c *fiber.Ctx) bool {
			return c.Path() == "/health"
		},
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.CORSOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET, POST, PUT, PATCH, DELETE, OPTIONS",
	}))

	setupRoutes(app, handlers, services.Auth)

	serverErr := make(chan error, 1)
	go func() {
		log.Info("server starting", "port", cfg.Port, "environment", cfg.Environment)
		serverErr <- app.Listen(":" + cfg.Port)
	}()

	select {
	case err := <-serverErr:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	feed.Close()
	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		log.Error("graceful shutdown failed", "error", err)
	}
	services.ViewTracking.Wait()
	return nil
}

func setupRoutes(app *fiber.App, h *handler.Handlers, authService auth.Service) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	v1 := app.Group("/api/v1")

	authRoutes := v1.Group("/auth")
	authRoutes.Post("/register", h.Auth.Register)
	authRoutes.Post("/login", h.Auth.Login)
	authRoutes.Post("/refresh", h.Auth.RefreshToken)
	authRoutes.Post("/logout", h.Auth.Logout)

	listings := v1.Group("/listings")
	listings.Get("/", h.Listing.Search)
	listings.Get("/filters", h.Listing.Filters)
	listings.Get("/mine", middleware.AuthRequired(authService), h.Listing.Mine)
	listings.Post("/", middleware.AuthRequired(authService), h.Listing.Create)
	listings.Post("/media", middleware.AuthRequired(authService), h.Media.Upload)
	listings.Get("/:id", middleware.OptionalAuth(authService), h.Listing.Get)

	protected := v1.Group("", middleware.AuthRequired(authService))

	protected.Get("/me", h.Auth.Me)
	protected.Get("/dashboard", h.Dashboard.GetStats)

	subscriptions := protected.Group("/subscription")
	subscriptions.Get("/", h.Subscription.Get)
	subscriptions.Post("/checkout", h.Subscription.Checkout)

	notifications := protected.Group("/notifications")
	notifications.Get("/", h.Notification.List)
	notifications.Post("/", h.Notification.Send)
	notifications.Delete("/", h.Notification.ClearAll)
	notifications.Get("/unread-count", h.Notification.GetUnreadCount)
	notifications.Get("/stream", h.Notification.Stream)
	notifications.Post("/mark-all-read", h.Notification.MarkAllAsRead)
	notifications.Patch("/:id/read", h.Notification.MarkAsRead)
	notifications.Delete("/:id", h.Notification.Delete)
}
