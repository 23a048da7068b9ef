package dashboard

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"student-housing/internal/domain"
	"student-housing/internal/repository"
)

const cacheTTL = time.Minute

type Service interface {
	GetStats(ctx context.Context, ownerID uuid.UUID) (*domain.DashboardStats, error)
	Invalidate(ctx context.Context, ownerID uuid.UUID)
}

type service struct {
	listingRepo repository.ListingRepository
	redis       *redis.Client
}

func NewService(listingRepo repository.ListingRepository, redis *redis.Client) Service {
	return &service{
		listingRepo: listingRepo,
		redis:       redis,
	}
}

func CacheKey(ownerID uuid.UUID) string {
	return "dashboard:" + ownerID.String()
}

func (s *service) GetStats(ctx context.Context, ownerID uuid.UUID) (*domain.DashboardStats, error) {
	cacheKey := CacheKey(ownerID)

	if s.redis != nil {
		if cached, err := s.redis.Get(ctx, cacheKey).Result(); err == nil {
			var stats domain.DashboardStats
			if json.Unmarshal([]byte(cached), &stats) == nil {
				return &stats, nil
			}
		}
	}

	rows, err := s.listingRepo.StatsByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	stats := Fold(rows)

	if s.redis != nil {
		if statsJSON, err := json.Marshal(stats); err == nil {
			_ = s.redis.Set(ctx, cacheKey, statsJSON, cacheTTL).Err()
		}
	}

	return stats, nil
}

func (s *service) Invalidate(ctx context.Context, ownerID uuid.UUID) {
	if s.redis != nil {
		s.redis.Del(ctx, CacheKey(ownerID))
	}
}

// Fold sums the per-listing counters into dashboard totals.
func Fold(rows []domain.ListingStats) *domain.DashboardStats {
	if rows == nil {
		rows = []domain.ListingStats{}
	}
	stats := &domain.DashboardStats{
		TotalListings: len(rows),
		Listings:      rows,
	}
	for _, row := range rows {
		stats.TotalViews += row.Views
		stats.TotalInterests += row.Interests
	}
	return stats
}
