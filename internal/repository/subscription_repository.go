package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"student-housing/internal/domain"
)

type SubscriptionRepository interface {
	GetActive(ctx context.Context, userID uuid.UUID) (*domain.Subscription, error)
	Activate(ctx context.Context, sub *domain.Subscription) error
	ExpireDue(ctx context.Context) (int64, error)
}

type subscriptionRepository struct {
	db *sqlx.DB
}

func NewSubscriptionRepository(db *sqlx.DB) SubscriptionRepository {
	return &subscriptionRepository{db: db}
}

func (r *subscriptionRepository) GetActive(ctx context.Context, userID uuid.UUID) (*domain.Subscription, error) {
	var sub domain.Subscription
	query := `
		SELECT * FROM subscriptions
		WHERE user_id = $1 AND status = $2 AND expires_at > NOW()
		ORDER BY expires_at DESC
		LIMIT 1`

	err := r.db.GetContext(ctx, &sub, query, userID, domain.SubscriptionActive)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &sub, nil
}

// Activate cancels whatever subscription the user has running and inserts
// sub as the only active one.
func (r *subscriptionRepository) Activate(ctx context.Context, sub *domain.Subscription) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	cancelQuery := `UPDATE subscriptions SET status = $2 WHERE user_id = $1 AND status = $3`
	if _, err := tx.ExecContext(ctx, cancelQuery, sub.UserID, domain.SubscriptionCanceled, domain.SubscriptionActive); err != nil {
		return err
	}

	insertQuery := `
		INSERT INTO subscriptions (id, user_id, tier, status, expires_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at`
	if err := tx.QueryRowxContext(ctx, insertQuery,
		sub.ID, sub.UserID, sub.Tier, sub.Status, sub.ExpiresAt,
	).Scan(&sub.CreatedAt); err != nil {
		return err
	}

	return tx.Commit()
}

func (r *subscriptionRepository) ExpireDue(ctx context.Context) (int64, error) {
	query := `UPDATE subscriptions SET status = $1 WHERE status = $2 AND expires_at <= NOW()`
	result, err := r.db.ExecContext(ctx, query, domain.SubscriptionExpired, domain.SubscriptionActive)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
