package domain

import (
	"time"

	"github.com/google/uuid"
)

type ListingView struct {
	ID        uuid.UUID  `json:"id" db:"id"`
	ListingID uuid.UUID  `json:"listing_id" db:"listing_id"`
	ViewerID  *uuid.UUID `json:"viewer_id,omitempty" db:"viewer_id"`
	CreatedAt time.Time  `json:"created_at" db:"created_at"`
}
