package service

import (
	"log/slog"

	"github.com/minio/minio-go/v7"
	"github.com/redis/go-redis/v9"

	"student-housing/internal/config"
	"student-housing/internal/pkg/filterquery"
	"student-housing/internal/repository"
	"student-housing/internal/service/auth"
	"student-housing/internal/service/dashboard"
	"student-housing/internal/service/email"
	"student-housing/internal/service/listing"
	"student-housing/internal/service/media"
	"student-housing/internal/service/notification"
	"student-housing/internal/service/subscription"
	"student-housing/internal/service/viewtracking"
)

type Services struct {
	Auth         auth.Service
	Listing      listing.Service
	Notification notification.Service
	ViewTracking viewtracking.Service
	Dashboard    dashboard.Service
	Subscription subscription.Service
	Media        media.Service
	Email        email.Service
}

func NewServices(
	repos *repository.Repositories,
	redis *redis.Client,
	minioClient *minio.Client,
	bounds filterquery.Bounds,
	cfg *config.Config,
	logger *slog.Logger,
) *Services {
	emailService := email.NewService(cfg, logger)
	authService := auth.NewService(repos.User, repos.Session, emailService, cfg, logger)
	dashboardService := dashboard.NewService(repos.Listing, redis)
	listingService := listing.NewService(repos.Listing, dashboardService, bounds)
	notificationService := notification.NewService(repos.Notification, repos.Listing, repos.User, dashboardService, emailService, redis, logger)
	viewTrackingService := viewtracking.NewService(repos.ListingView, viewtracking.DefaultTimeout, logger)
	subscriptionService := subscription.NewService(repos.Subscription, cfg.SubscriptionDuration)

	var mediaService media.Service
	if minioClient != nil {
		mediaService = media.NewService(minioClient, cfg)
	}

	return &Services{
		Auth:         authService,
		Listing:      listingService,
		Notification: notificationService,
		ViewTracking: viewTrackingService,
		Dashboard:    dashboardService,
		Subscription: subscriptionService,
		Media:        mediaService,
		Email:        emailService,
	}
}
