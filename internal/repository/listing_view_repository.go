package repository

import (
	"context"

	"github.com/jmoiron/sqlx"

	"student-housing/internal/domain"
)

type ListingViewRepository interface {
	Create(ctx context.Context, view *domain.ListingView) error
}

type listingViewRepository struct {
	db *sqlx.DB
}

func NewListingViewRepository(db *sqlx.DB) ListingViewRepository {
	return &listingViewRepository{db: db}
}

func (r *listingViewRepository) Create(ctx context.Context, view *domain.ListingView) error {
	query := `
		INSERT INTO listing_views (id, listing_id, viewer_id)
		VALUES ($1, $2, $3)
		RETURNING created_at`

	return r.db.QueryRowxContext(ctx, query, view.ID, view.ListingID, view.ViewerID).Scan(&view.CreatedAt)
}
