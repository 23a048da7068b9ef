package listing_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"student-housing/internal/domain"
	"student-housing/internal/mocks"
	"student-housing/internal/pkg/filterquery"
	"student-housing/internal/service/listing"
)

func TestListingService_Search(t *testing.T) {
	ctx := context.Background()

	t.Run("Filter is normalized before querying", func(t *testing.T) {
		repo := new(mocks.ListingRepository)
		svc := listing.NewService(repo, nil, filterquery.DefaultBounds())

		beds := 1
		raw := domain.FilterOptions{
			Search:        "  Bologna ",
			PriceRange:    [2]float64{876, 224},
			PropertyTypes: []string{"Apartment", "apartment"},
			Bedrooms:      &beds,
		}
		expected := domain.FilterOptions{
			Search:        "Bologna",
			PriceRange:    [2]float64{200, 900},
			PropertyTypes: []string{"apartment"},
			Bedrooms:      &beds,
		}
		params := domain.PaginationParams{Page: 1, PageSize: domain.DefaultPageSize}
		rows := []domain.Listing{{ID: uuid.New(), Price: 500, PropertyType: "apartment", Beds: 2}}

		repo.On("Search", ctx, expected, params).Return(rows, int64(1), nil).Once()

		resp, err := svc.Search(ctx, raw, domain.PaginationParams{})
		require.NoError(t, err)
		assert.Equal(t, rows, resp.Data)
		assert.False(t, resp.HasNext)
		repo.AssertExpectations(t)
	})

	t.Run("Unknown property type", func(t *testing.T) {
		repo := new(mocks.ListingRepository)
		svc := listing.NewService(repo, nil, filterquery.DefaultBounds())

		_, err := svc.Search(ctx, domain.FilterOptions{
			PriceRange:    [2]float64{0, 3000},
			PropertyTypes: []string{"castle"},
		}, domain.DefaultPagination())

		assert.ErrorIs(t, err, filterquery.ErrInvalidFilter)
		repo.AssertNotCalled(t, "Search", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Store failure", func(t *testing.T) {
		repo := new(mocks.ListingRepository)
		svc := listing.NewService(repo, nil, filterquery.DefaultBounds())

		repo.On("Search", ctx, mock.Anything, mock.Anything).Return(nil, int64(0), errors.New("unavailable")).Once()

		_, err := svc.Search(ctx, filterquery.Default(filterquery.DefaultBounds()), domain.DefaultPagination())
		assert.Error(t, err)
	})
}

func TestListingService_GetByID(t *testing.T) {
	ctx := context.Background()
	repo := new(mocks.ListingRepository)
	svc := listing.NewService(repo, nil, filterquery.DefaultBounds())

	id := uuid.New()
	repo.On("GetByID", ctx, id).Return(nil, nil).Once()

	_, err := svc.GetByID(ctx, id)
	assert.ErrorIs(t, err, listing.ErrNotFound)
}

func TestListingService_Create(t *testing.T) {
	ctx := context.Background()
	ownerID := uuid.New()

	t.Run("Success", func(t *testing.T) {
		repo := new(mocks.ListingRepository)
		svc := listing.NewService(repo, nil, filterquery.DefaultBounds())

		body := []byte(`{
			"title": " Bright studio ",
			"price": 650,
			"location": "Via Zamboni, Bologna",
			"property_type": "Studio",
			"beds": 1,
			"baths": 1,
			"area": "35 m2",
			"images": ["https://cdn.example.com/a.jpg"]
		}`)

		repo.On("Create", ctx, mock.MatchedBy(func(l *domain.Listing) bool {
			return l.OwnerID == ownerID &&
				l.Title == "Bright studio" &&
				l.PropertyType == "studio" &&
				l.Price == 650 &&
				len(l.Images) == 1
		})).Return(nil).Once()

		created, err := svc.Create(ctx, ownerID, body)
		require.NoError(t, err)
		assert.Equal(t, "studio", created.PropertyType)
		repo.AssertExpectations(t)
	})

	t.Run("Schema violation", func(t *testing.T) {
		repo := new(mocks.ListingRepository)
		svc := listing.NewService(repo, nil, filterquery.DefaultBounds())

		_, err := svc.Create(ctx, ownerID, []byte(`{"title": "x", "price": -1}`))

		var verr *domain.ValidationError
		require.ErrorAs(t, err, &verr)
		repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("Unsupported property type", func(t *testing.T) {
		repo := new(mocks.ListingRepository)
		svc := listing.NewService(repo, nil, filterquery.DefaultBounds())

		body := []byte(`{"title": "Castle", "price": 900, "location": "Torino", "property_type": "castle", "beds": 5, "baths": 3}`)
		_, err := svc.Create(ctx, ownerID, body)

		var verr *domain.ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, "property_type", verr.Field)
	})

	t.Run("Too many images", func(t *testing.T) {
		repo := new(mocks.ListingRepository)
		svc := listing.NewService(repo, nil, filterquery.DefaultBounds())

		body := []byte(`{"title": "Room", "price": 400, "location": "Milano", "property_type": "room", "beds": 1, "baths": 1,
			"images": ["https://a/1","https://a/2","https://a/3","https://a/4","https://a/5","https://a/6",
			"https://a/7","https://a/8","https://a/9","https://a/10","https://a/11"]}`)
		_, err := svc.Create(ctx, ownerID, body)

		assert.Error(t, err)
		repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})
}
