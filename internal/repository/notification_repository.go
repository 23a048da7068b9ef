package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"student-housing/internal/domain"
)

type NotificationRepository interface {
	Create(ctx context.Context, notif *domain.Notification) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Notification, error)
	ListByRecipient(ctx context.Context, recipientID uuid.UUID, unreadOnly bool, params domain.PaginationParams) ([]domain.Notification, int64, error)
	MarkAsRead(ctx context.Context, recipientID, id uuid.UUID) (bool, error)
	MarkAllAsRead(ctx context.Context, recipientID uuid.UUID) error
	Delete(ctx context.Context, recipientID, id uuid.UUID) (bool, error)
	DeleteAllByRecipient(ctx context.Context, recipientID uuid.UUID) (int64, error)
	CountUnread(ctx context.Context, recipientID uuid.UUID) (int64, error)
}

type notificationRepository struct {
	db *sqlx.DB
}

func NewNotificationRepository(db *sqlx.DB) NotificationRepository {
	return &notificationRepository{db: db}
}

func (r *notificationRepository) Create(ctx context.Context, notif *domain.Notification) error {
	query := `
		INSERT INTO notifications (id, recipient_id, sender_id, message, listing_id, type)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING read, created_at`

	return r.db.QueryRowxContext(ctx, query,
		notif.ID, notif.RecipientID, notif.SenderID, notif.Message, notif.ListingID, notif.Type,
	).Scan(&notif.Read, &notif.CreatedAt)
}

func (r *notificationRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Notification, error) {
	var notif domain.Notification
	query := `SELECT * FROM notifications WHERE id = $1`

	err := r.db.GetContext(ctx, &notif, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &notif, nil
}

func (r *notificationRepository) ListByRecipient(ctx context.Context, recipientID uuid.UUID, unreadOnly bool, params domain.PaginationParams) ([]domain.Notification, int64, error) {
	params.Validate()

	filter := `WHERE recipient_id = $1`
	if unreadOnly {
		filter += ` AND read = false`
	}

	var total int64
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM notifications `+filter, recipientID); err != nil {
		return nil, 0, err
	}

	notifications := []domain.Notification{}
	query := `
		SELECT * FROM notifications
		` + filter + `
		ORDER BY created_at DESC, id
		LIMIT $2 OFFSET $3`
	err := r.db.SelectContext(ctx, &notifications, query, recipientID, params.PageSize, params.Offset())
	return notifications, total, err
}

// MarkAsRead reports whether a notification with this id belongs to the
// recipient. Marking an already read notification is a no-op that still
// reports true.
func (r *notificationRepository) MarkAsRead(ctx context.Context, recipientID, id uuid.UUID) (bool, error) {
	query := `UPDATE notifications SET read = true WHERE id = $1 AND recipient_id = $2`
	result, err := r.db.ExecContext(ctx, query, id, recipientID)
	if err != nil {
		return false, err
	}
	affected, err := result.RowsAffected()
	return affected > 0, err
}

func (r *notificationRepository) MarkAllAsRead(ctx context.Context, recipientID uuid.UUID) error {
	query := `UPDATE notifications SET read = true WHERE recipient_id = $1 AND read = false`
	_, err := r.db.ExecContext(ctx, query, recipientID)
	return err
}

func (r *notificationRepository) Delete(ctx context.Context, recipientID, id uuid.UUID) (bool, error) {
	query := `DELETE FROM notifications WHERE id = $1 AND recipient_id = $2`
	result, err := r.db.ExecContext(ctx, query, id, recipientID)
	if err != nil {
		return false, err
	}
	affected, err := result.RowsAffected()
	return affected > 0, err
}

func (r *notificationRepository) DeleteAllByRecipient(ctx context.Context, recipientID uuid.UUID) (int64, error) {
	query := `DELETE FROM notifications WHERE recipient_id = $1`
	result, err := r.db.ExecContext(ctx, query, recipientID)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

func (r *notificationRepository) CountUnread(ctx context.Context, recipientID uuid.UUID) (int64, error) {
	var count int64
	query := `SELECT COUNT(*) FROM notifications WHERE recipient_id = $1 AND read = false`
	err := r.db.GetContext(ctx, &count, query, recipientID)
	return count, err
}
