package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"student-housing/internal/domain"
	"student-housing/internal/middleware"
	"student-housing/internal/service/subscription"
)

type SubscriptionHandler struct {
	subscriptionService subscription.Service
}

func NewSubscriptionHandler(subscriptionService subscription.Service) *SubscriptionHandler {
	return &SubscriptionHandler{subscriptionService: subscriptionService}
}

func (h *SubscriptionHandler) Get(c *fiber.Ctx) error {
	sub, err := h.subscriptionService.Get(c.UserContext(), middleware.GetCurrentUserID(c))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"subscription": sub})
}

func (h *SubscriptionHandler) Checkout(c *fiber.Ctx) error {
	var input domain.CheckoutInput
	if err := c.BodyParser(&input); err != nil {
		return middleware.BadRequest("Invalid request body")
	}

	sub, err := h.subscriptionService.Checkout(c.UserContext(), middleware.GetCurrentUserID(c), input.Tier)
	if err != nil {
		if errors.Is(err, subscription.ErrInvalidTier) {
			return domain.NewValidationError("tier", "must be basic or premium")
		}
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"subscription": sub})
}
