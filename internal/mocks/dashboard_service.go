package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"student-housing/internal/domain"
)

type DashboardService struct {
	mock.Mock
}

func (m *DashboardService) GetStats(ctx context.Context, ownerID uuid.UUID) (*domain.DashboardStats, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DashboardStats), args.Error(1)
}

func (m *DashboardService) Invalidate(ctx context.Context, ownerID uuid.UUID) {
	m.Called(ctx, ownerID)
}
