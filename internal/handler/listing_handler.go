package handler

import (
	"errors"
	"log/slog"
	"net/url"

	"github.com/gofiber/fiber/v2"

	"student-housing/internal/domain"
	"student-housing/internal/middleware"
	"student-housing/internal/pkg/filterquery"
	"student-housing/internal/service/listing"
	"student-housing/internal/service/viewtracking"
)

type ListingHandler struct {
	listingService listing.Service
	viewTracking   viewtracking.Service
	logger         *slog.Logger
}

func NewListingHandler(listingService listing.Service, viewTracking viewtracking.Service, logger *slog.Logger) *ListingHandler {
	return &ListingHandler{
		listingService: listingService,
		viewTracking:   viewTracking,
		logger:         logger.With("handler", "listing"),
	}
}

type listingSearchResponse struct {
	domain.PaginatedResponse[domain.Listing]
	Filters domain.FilterOptions `json:"filters"`
	Query   string               `json:"query"`
}

type emptyListingsResponse struct {
	Data  []domain.Listing         `json:"data"`
	Error middleware.ErrorResponse `json:"error"`
}

// Search answers GET /listings. The response echoes the normalized filter and
// its canonical query string so clients can keep the address bar in sync.
// When the store fails the body still carries an empty collection.
func (h *ListingHandler) Search(c *fiber.Ctx) error {
	values, err := url.ParseQuery(string(c.Request().URI().QueryString()))
	if err != nil {
		return middleware.BadRequest("Malformed query string")
	}

	filter, err := filterquery.Decode(values, h.listingService.Bounds())
	if err != nil {
		return middleware.BadRequest(err.Error())
	}

	result, err := h.listingService.Search(c.UserContext(), filter, getPaginationParams(c))
	if err != nil {
		if errors.Is(err, filterquery.ErrInvalidFilter) {
			return middleware.BadRequest(err.Error())
		}
		h.logger.Error("listing search failed", "error", err)
		return c.Status(fiber.StatusBadGateway).JSON(emptyListingsResponse{
			Data: []domain.Listing{},
			Error: middleware.ErrorResponse{
				Code:    "UPSTREAM_ERROR",
				Message: "Listings are temporarily unavailable",
			},
		})
	}

	return c.JSON(listingSearchResponse{
		PaginatedResponse: result,
		Filters:           filter,
		Query:             filterquery.Encode(filter).Encode(),
	})
}

func (h *ListingHandler) Filters(c *fiber.Ctx) error {
	bounds := h.listingService.Bounds()
	return c.JSON(fiber.Map{
		"bounds":   bounds,
		"defaults": filterquery.Default(bounds),
	})
}

// Get returns one listing and records a view for it.
func (h *ListingHandler) Get(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id", "listing")
	if err != nil {
		return err
	}

	result, err := h.listingService.GetByID(c.UserContext(), id)
	if err != nil {
		if errors.Is(err, listing.ErrNotFound) {
			return middleware.NotFound("Listing not found")
		}
		return err
	}

	h.viewTracking.Track(result.ID, middleware.GetOptionalUserID(c))

	return c.JSON(result)
}

func (h *ListingHandler) Create(c *fiber.Ctx) error {
	userID := middleware.GetCurrentUserID(c)

	created, err := h.listingService.Create(c.UserContext(), userID, c.Body())
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(created)
}

func (h *ListingHandler) Mine(c *fiber.Ctx) error {
	userID := middleware.GetCurrentUserID(c)

	listings, err := h.listingService.ListByOwner(c.UserContext(), userID)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{"data": listings})
}
