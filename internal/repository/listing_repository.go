package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"student-housing/internal/domain"
)

type ListingRepository interface {
	Create(ctx context.Context, listing *domain.Listing) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Listing, error)
	Search(ctx context.Context, filter domain.FilterOptions, params domain.PaginationParams) ([]domain.Listing, int64, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]domain.Listing, error)
	StatsByOwner(ctx context.Context, ownerID uuid.UUID) ([]domain.ListingStats, error)
}

type listingRepository struct {
	db *sqlx.DB
}

func NewListingRepository(db *sqlx.DB) ListingRepository {
	return &listingRepository{db: db}
}

func (r *listingRepository) Create(ctx context.Context, listing *domain.Listing) error {
	query := `
		INSERT INTO listings (id, owner_id, title, description, price, location, property_type, beds, baths, area, images, video_url)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING created_at`

	return r.db.QueryRowxContext(ctx, query,
		listing.ID, listing.OwnerID, listing.Title, listing.Description, listing.Price,
		listing.Location, listing.PropertyType, listing.Beds, listing.Baths, listing.Area,
		listing.Images, listing.VideoURL,
	).Scan(&listing.CreatedAt)
}

func (r *listingRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Listing, error) {
	var listing domain.Listing
	query := fmt.Sprintf(`SELECT l.*, %s AS is_featured FROM listings l WHERE l.id = $1`, featuredExpr)

	err := r.db.GetContext(ctx, &listing, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &listing, nil
}

func (r *listingRepository) Search(ctx context.Context, filter domain.FilterOptions, params domain.PaginationParams) ([]domain.Listing, int64, error) {
	params.Validate()
	stmt := searchListingsSQL(filter, params)

	var total int64
	if err := r.db.GetContext(ctx, &total, stmt.CountSQL, stmt.CountArgs...); err != nil {
		return nil, 0, err
	}

	listings := []domain.Listing{}
	if total == 0 {
		return listings, 0, nil
	}

	err := r.db.SelectContext(ctx, &listings, stmt.Query, stmt.Args...)
	return listings, total, err
}

func (r *listingRepository) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]domain.Listing, error) {
	listings := []domain.Listing{}
	query := fmt.Sprintf(`
		SELECT l.*, %s AS is_featured FROM listings l
		WHERE l.owner_id = $1
		ORDER BY l.created_at DESC`, featuredExpr)

	err := r.db.SelectContext(ctx, &listings, query, ownerID)
	return listings, err
}

// StatsByOwner returns view and interest counts for every listing of the
// owner in a single round trip.
func (r *listingRepository) StatsByOwner(ctx context.Context, ownerID uuid.UUID) ([]domain.ListingStats, error) {
	stats := []domain.ListingStats{}
	query := `
		SELECT l.id AS listing_id, l.title,
			COALESCE(v.views, 0) AS views,
			COALESCE(n.interests, 0) AS interests
		FROM listings l
		LEFT JOIN (
			SELECT listing_id, COUNT(*) AS views
			FROM listing_views
			GROUP BY listing_id
		) v ON v.listing_id = l.id
		LEFT JOIN (
			SELECT listing_id, COUNT(*) AS interests
			FROM notifications
			WHERE type = $2 AND listing_id IS NOT NULL
			GROUP BY listing_id
		) n ON n.listing_id = l.id
		WHERE l.owner_id = $1
		ORDER BY l.created_at DESC`

	err := r.db.SelectContext(ctx, &stats, query, ownerID, domain.NotifInterest)
	return stats, err
}
