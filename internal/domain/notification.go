package domain

import (
	"time"

	"github.com/google/uuid"
)

type Notification struct {
	ID          uuid.UUID        `json:"id" db:"id"`
	RecipientID uuid.UUID        `json:"recipient_id" db:"recipient_id"`
	SenderID    uuid.UUID        `json:"sender_id" db:"sender_id"`
	Message     string           `json:"message" db:"message"`
	ListingID   *uuid.UUID       `json:"listing_id,omitempty" db:"listing_id"`
	Read        bool             `json:"read" db:"read"`
	Type        NotificationType `json:"type" db:"type"`
	CreatedAt   time.Time        `json:"created_at" db:"created_at"`
}

type NotificationType string

const (
	NotifInterest NotificationType = "interest"
)

type SendNotificationInput struct {
	RecipientID uuid.UUID  `json:"recipient_id"`
	ListingID   *uuid.UUID `json:"listing_id,omitempty"`
	Message     string     `json:"message"`
}
