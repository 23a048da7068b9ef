package listing

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"

	"student-housing/internal/domain"
	"student-housing/internal/pkg/filterquery"
	"student-housing/internal/pkg/schema"
	"student-housing/internal/repository"
	"student-housing/internal/service/dashboard"
)

var ErrNotFound = errors.New("listing not found")

type Service interface {
	Search(ctx context.Context, filter domain.FilterOptions, params domain.PaginationParams) (domain.PaginatedResponse[domain.Listing], error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Listing, error)
	Create(ctx context.Context, ownerID uuid.UUID, body []byte) (*domain.Listing, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]domain.Listing, error)
	Bounds() filterquery.Bounds
}

type service struct {
	listingRepo  repository.ListingRepository
	dashboardSvc dashboard.Service
	bounds       filterquery.Bounds
}

func NewService(listingRepo repository.ListingRepository, dashboardSvc dashboard.Service, bounds filterquery.Bounds) Service {
	return &service{
		listingRepo:  listingRepo,
		dashboardSvc: dashboardSvc,
		bounds:       bounds,
	}
}

func (s *service) Bounds() filterquery.Bounds {
	return s.bounds
}

// Search normalizes filter before it reaches the query builder, so callers
// may pass raw control state.
func (s *service) Search(ctx context.Context, filter domain.FilterOptions, params domain.PaginationParams) (domain.PaginatedResponse[domain.Listing], error) {
	normalized, err := filterquery.Normalize(filter, s.bounds)
	if err != nil {
		return domain.PaginatedResponse[domain.Listing]{}, err
	}

	params.Validate()
	listings, total, err := s.listingRepo.Search(ctx, normalized, params)
	if err != nil {
		return domain.PaginatedResponse[domain.Listing]{}, err
	}

	return domain.NewPaginatedResponse(listings, params.Page, params.PageSize, total), nil
}

func (s *service) GetByID(ctx context.Context, id uuid.UUID) (*domain.Listing, error) {
	listing, err := s.listingRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if listing == nil {
		return nil, ErrNotFound
	}
	return listing, nil
}

// Create validates the raw request body against the listing schema and the
// configured property types before inserting.
func (s *service) Create(ctx context.Context, ownerID uuid.UUID, body []byte) (*domain.Listing, error) {
	var input domain.CreateListingInput
	if err := schema.Decode(schema.ListingCreate, body, &input); err != nil {
		return nil, domain.NewValidationError("body", err.Error())
	}

	propertyType := strings.ToLower(strings.TrimSpace(input.PropertyType))
	if !s.bounds.AllowsType(propertyType) {
		return nil, domain.NewValidationError("property_type", "is not a supported property type")
	}
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, domain.NewValidationError("title", "is required")
	}
	location := strings.TrimSpace(input.Location)
	if location == "" {
		return nil, domain.NewValidationError("location", "is required")
	}

	images := input.Images
	if images == nil {
		images = []string{}
	}

	listing := &domain.Listing{
		ID:           uuid.New(),
		OwnerID:      ownerID,
		Title:        title,
		Description:  input.Description,
		Price:        input.Price,
		Location:     location,
		PropertyType: propertyType,
		Beds:         input.Beds,
		Baths:        input.Baths,
		Area:         strings.TrimSpace(input.Area),
		Images:       images,
		VideoURL:     input.VideoURL,
	}

	if err := s.listingRepo.Create(ctx, listing); err != nil {
		return nil, err
	}

	if s.dashboardSvc != nil {
		s.dashboardSvc.Invalidate(ctx, ownerID)
	}

	return listing, nil
}

func (s *service) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]domain.Listing, error) {
	return s.listingRepo.ListByOwner(ctx, ownerID)
}
