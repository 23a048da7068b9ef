package subscription_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"student-housing/internal/domain"
	"student-housing/internal/mocks"
	"student-housing/internal/service/subscription"
)

func TestSubscriptionService_Checkout(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	duration := 30 * 24 * time.Hour

	t.Run("Activates tier", func(t *testing.T) {
		repo := new(mocks.SubscriptionRepository)
		svc := subscription.NewService(repo, duration)

		repo.On("Activate", ctx, mock.MatchedBy(func(s *domain.Subscription) bool {
			return s.UserID == userID && s.Tier == domain.TierPremium && s.Status == domain.SubscriptionActive
		})).Return(nil).Once()

		before := time.Now()
		sub, err := svc.Checkout(ctx, userID, domain.TierPremium)
		require.NoError(t, err)
		assert.WithinDuration(t, before.Add(duration), sub.ExpiresAt, 5*time.Second)
		assert.True(t, sub.IsActive(time.Now()))
		repo.AssertExpectations(t)
	})

	t.Run("Invalid tier", func(t *testing.T) {
		repo := new(mocks.SubscriptionRepository)
		svc := subscription.NewService(repo, duration)

		_, err := svc.Checkout(ctx, userID, domain.SubscriptionTier("gold"))
		assert.ErrorIs(t, err, subscription.ErrInvalidTier)
		repo.AssertNotCalled(t, "Activate", mock.Anything, mock.Anything)
	})
}

func TestSubscriptionService_ExpireDue(t *testing.T) {
	ctx := context.Background()
	repo := new(mocks.SubscriptionRepository)
	svc := subscription.NewService(repo, time.Hour)

	repo.On("ExpireDue", ctx).Return(int64(2), nil).Once()

	n, err := svc.ExpireDue(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
}
