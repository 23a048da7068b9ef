package handler

import (
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"student-housing/internal/domain"
	"student-housing/internal/middleware"
	"student-housing/internal/realtime"
	"student-housing/internal/service"
)

type Handlers struct {
	Auth         *AuthHandler
	Listing      *ListingHandler
	Media        *MediaHandler
	Notification *NotificationHandler
	Dashboard    *DashboardHandler
	Subscription *SubscriptionHandler
}

func NewHandlers(services *service.Services, feed *realtime.Feed, logger *slog.Logger) *Handlers {
	return &Handlers{
		Auth:         NewAuthHandler(services.Auth),
		Listing:      NewListingHandler(services.Listing, services.ViewTracking, logger),
		Media:        NewMediaHandler(services.Media),
		Notification: NewNotificationHandler(services.Notification, feed, logger),
		Dashboard:    NewDashboardHandler(services.Dashboard),
		Subscription: NewSubscriptionHandler(services.Subscription),
	}
}

func getPaginationParams(c *fiber.Ctx) domain.PaginationParams {
	params := domain.DefaultPagination()

	if page := c.QueryInt("page", 1); page > 0 {
		params.Page = page
	}
	if pageSize := c.QueryInt("page_size", domain.DefaultPageSize); pageSize > 0 {
		params.PageSize = pageSize
	}

	params.Validate()
	return params
}

func parseIDParam(c *fiber.Ctx, name, label string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params(name))
	if err != nil {
		return uuid.Nil, middleware.BadRequest("Invalid " + label + " ID")
	}
	return id, nil
}
