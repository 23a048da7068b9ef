package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

const MaxListingImages = 10

type Listing struct {
	ID           uuid.UUID      `json:"id" db:"id"`
	OwnerID      uuid.UUID      `json:"owner_id" db:"owner_id"`
	Title        string         `json:"title" db:"title"`
	Description  *string        `json:"description,omitempty" db:"description"`
	Price        float64        `json:"price" db:"price"`
	Location     string         `json:"location" db:"location"`
	PropertyType string         `json:"property_type" db:"property_type"`
	Beds         int            `json:"beds" db:"beds"`
	Baths        int            `json:"baths" db:"baths"`
	Area         string         `json:"area" db:"area"`
	Images       pq.StringArray `json:"images" db:"images"`
	VideoURL     *string        `json:"video_url,omitempty" db:"video_url"`
	IsFeatured   bool           `json:"is_featured" db:"is_featured"`
	CreatedAt    time.Time      `json:"created_at" db:"created_at"`
}

type CreateListingInput struct {
	Title        string   `json:"title"`
	Description  *string  `json:"description,omitempty"`
	Price        float64  `json:"price"`
	Location     string   `json:"location"`
	PropertyType string   `json:"property_type"`
	Beds         int      `json:"beds"`
	Baths        int      `json:"baths"`
	Area         string   `json:"area"`
	Images       []string `json:"images"`
	VideoURL     *string  `json:"video_url,omitempty"`
}

// FilterOptions is the canonical search filter. A nil Bedrooms or Bathrooms
// means no minimum.
type FilterOptions struct {
	Search        string     `json:"search"`
	PriceRange    [2]float64 `json:"price_range"`
	PropertyTypes []string   `json:"property_types"`
	Bedrooms      *int       `json:"bedrooms"`
	Bathrooms     *int       `json:"bathrooms"`
}
