package domain

import (
	"time"

	"github.com/google/uuid"
)

type Subscription struct {
	ID        uuid.UUID          `json:"id" db:"id"`
	UserID    uuid.UUID          `json:"user_id" db:"user_id"`
	Tier      SubscriptionTier   `json:"tier" db:"tier"`
	Status    SubscriptionStatus `json:"status" db:"status"`
	ExpiresAt time.Time          `json:"expires_at" db:"expires_at"`
	CreatedAt time.Time          `json:"created_at" db:"created_at"`
}

type SubscriptionTier string

const (
	TierBasic   SubscriptionTier = "basic"
	TierPremium SubscriptionTier = "premium"
)

func (t SubscriptionTier) IsValid() bool {
	switch t {
	case TierBasic, TierPremium:
		return true
	default:
		return false
	}
}

// FeaturesListings reports whether listings of a subscriber on this tier are
// shown first and badged in search results.
func (t SubscriptionTier) FeaturesListings() bool {
	return t == TierPremium
}

type SubscriptionStatus string

const (
	SubscriptionActive   SubscriptionStatus = "active"
	SubscriptionExpired  SubscriptionStatus = "expired"
	SubscriptionCanceled SubscriptionStatus = "canceled"
)

type CheckoutInput struct {
	Tier SubscriptionTier `json:"tier"`
}

func (s *Subscription) IsActive(now time.Time) bool {
	return s.Status == SubscriptionActive && now.Before(s.ExpiresAt)
}
