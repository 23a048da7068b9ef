package domain

import "github.com/google/uuid"

type ListingStats struct {
	ListingID uuid.UUID `json:"listing_id" db:"listing_id"`
	Title     string    `json:"title" db:"title"`
	Views     int64     `json:"views" db:"views"`
	Interests int64     `json:"interests" db:"interests"`
}

type DashboardStats struct {
	TotalListings  int            `json:"total_listings"`
	TotalViews     int64          `json:"total_views"`
	TotalInterests int64          `json:"total_interests"`
	Listings       []ListingStats `json:"listings"`
}
