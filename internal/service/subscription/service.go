package subscription

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"student-housing/internal/domain"
	"student-housing/internal/repository"
)

var ErrInvalidTier = errors.New("invalid subscription tier")

type Service interface {
	Get(ctx context.Context, userID uuid.UUID) (*domain.Subscription, error)
	// Checkout activates tier for the configured duration. No payment is
	// taken; any running subscription is canceled first.
	Checkout(ctx context.Context, userID uuid.UUID, tier domain.SubscriptionTier) (*domain.Subscription, error)
	ExpireDue(ctx context.Context) (int64, error)
}

type service struct {
	subRepo  repository.SubscriptionRepository
	duration time.Duration
	now      func() time.Time
}

func NewService(subRepo repository.SubscriptionRepository, duration time.Duration) Service {
	return &service{
		subRepo:  subRepo,
		duration: duration,
		now:      time.Now,
	}
}

func (s *service) Get(ctx context.Context, userID uuid.UUID) (*domain.Subscription, error) {
	return s.subRepo.GetActive(ctx, userID)
}

func (s *service) Checkout(ctx context.Context, userID uuid.UUID, tier domain.SubscriptionTier) (*domain.Subscription, error) {
	if !tier.IsValid() {
		return nil, ErrInvalidTier
	}

	sub := &domain.Subscription{
		ID:        uuid.New(),
		UserID:    userID,
		Tier:      tier,
		Status:    domain.SubscriptionActive,
		ExpiresAt: s.now().Add(s.duration).UTC(),
	}

	if err := s.subRepo.Activate(ctx, sub); err != nil {
		return nil, err
	}
	return sub, nil
}

func (s *service) ExpireDue(ctx context.Context) (int64, error) {
	return s.subRepo.ExpireDue(ctx)
}
