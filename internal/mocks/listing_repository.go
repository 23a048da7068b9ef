package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"student-housing/internal/domain"
)

type ListingRepository struct {
	mock.Mock
}

func (m *ListingRepository) Create(ctx context.Context, listing *domain.Listing) error {
	args := m.Called(ctx, listing)
	return args.Error(0)
}

func (m *ListingRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Listing, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Listing), args.Error(1)
}

func (m *ListingRepository) Search(ctx context.Context, filter domain.FilterOptions, params domain.PaginationParams) ([]domain.Listing, int64, error) {
	args := m.Called(ctx, filter, params)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]domain.Listing), args.Get(1).(int64), args.Error(2)
}

func (m *ListingRepository) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]domain.Listing, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Listing), args.Error(1)
}

func (m *ListingRepository) StatsByOwner(ctx context.Context, ownerID uuid.UUID) ([]domain.ListingStats, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ListingStats), args.Error(1)
}

type ListingViewRepository struct {
	mock.Mock
}

func (m *ListingViewRepository) Create(ctx context.Context, view *domain.ListingView) error {
	args := m.Called(ctx, view)
	return args.Error(0)
}
