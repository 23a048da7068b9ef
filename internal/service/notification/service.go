package notification

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"student-housing/internal/domain"
	"student-housing/internal/repository"
	"student-housing/internal/service/dashboard"
	"student-housing/internal/service/email"
)

const (
	MaxMessageLength = 2000
	listCacheTTL     = 5 * time.Minute
)

var (
	ErrSelfContact       = errors.New("cannot contact yourself")
	ErrRecipientNotOwner = errors.New("recipient is not the owner of the listing")
	ErrListingNotFound   = errors.New("listing not found")
	ErrNotFound          = errors.New("notification not found")
)

type Service interface {
	Send(ctx context.Context, senderID uuid.UUID, input domain.SendNotificationInput) (*domain.Notification, error)
	List(ctx context.Context, recipientID uuid.UUID, unreadOnly bool, params domain.PaginationParams) (domain.PaginatedResponse[domain.Notification], error)
	UnreadCount(ctx context.Context, recipientID uuid.UUID) (int64, error)
	MarkRead(ctx context.Context, recipientID, id uuid.UUID) error
	MarkAllRead(ctx context.Context, recipientID uuid.UUID) error
	Delete(ctx context.Context, recipientID, id uuid.UUID) error
	ClearAll(ctx context.Context, recipientID uuid.UUID) (int64, error)
}

type service struct {
	notifRepo    repository.NotificationRepository
	listingRepo  repository.ListingRepository
	userRepo     repository.UserRepository
	dashboardSvc dashboard.Service
	emailSvc     email.Service
	redis        *redis.Client
	logger       *slog.Logger
}

func NewService(
	notifRepo repository.NotificationRepository,
	listingRepo repository.ListingRepository,
	userRepo repository.UserRepository,
	dashboardSvc dashboard.Service,
	emailSvc email.Service,
	redis *redis.Client,
	logger *slog.Logger,
) Service {
	return &service{
		notifRepo:    notifRepo,
		listingRepo:  listingRepo,
		userRepo:     userRepo,
		dashboardSvc: dashboardSvc,
		emailSvc:     emailSvc,
		redis:        redis,
		logger:       logger.With("service", "notification"),
	}
}

// Send records an interest from senderID to the owner of a listing. Nothing
// is written when the sender is the recipient or the recipient does not own
// the listing.
func (s *service) Send(ctx context.Context, senderID uuid.UUID, input domain.SendNotificationInput) (*domain.Notification, error) {
	message := strings.TrimSpace(input.Message)
	if message == "" {
		return nil, domain.NewValidationError("message", "is required")
	}
	if len([]rune(message)) > MaxMessageLength {
		return nil, domain.NewValidationError("message", fmt.Sprintf("must be at most %d characters", MaxMessageLength))
	}
	if input.RecipientID == uuid.Nil {
		return nil, domain.NewValidationError("recipient_id", "is required")
	}
	if input.ListingID == nil {
		return nil, domain.NewValidationError("listing_id", "is required")
	}
	if senderID == input.RecipientID {
		return nil, ErrSelfContact
	}

	listing, err := s.listingRepo.GetByID(ctx, *input.ListingID)
	if err != nil {
		return nil, fmt.Errorf("failed to get listing: %w", err)
	}
	if listing == nil {
		return nil, ErrListingNotFound
	}
	if listing.OwnerID != input.RecipientID {
		return nil, ErrRecipientNotOwner
	}

	notif := &domain.Notification{
		ID:          uuid.New(),
		RecipientID: input.RecipientID,
		SenderID:    senderID,
		Message:     message,
		ListingID:   input.ListingID,
		Type:        domain.NotifInterest,
	}
	if err := s.notifRepo.Create(ctx, notif); err != nil {
		return nil, err
	}

	s.invalidateCache(ctx, notif.RecipientID)
	s.invalidateDashboard(ctx, notif.RecipientID)

	if s.emailSvc != nil {
		go s.sendInterestEmail(notif.RecipientID, senderID, listing.Title, message)
	}

	return notif, nil
}

func (s *service) sendInterestEmail(recipientID, senderID uuid.UUID, listingTitle, message string) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	recipient, err := s.userRepo.GetByID(ctx, recipientID)
	if err != nil || recipient == nil {
		s.logger.Warn("interest email skipped, recipient not loaded", "recipient_id", recipientID, "error", err)
		return
	}
	senderName := "A student"
	if sender, err := s.userRepo.GetByID(ctx, senderID); err == nil && sender != nil {
		senderName = sender.FullName
	}

	if err := s.emailSvc.SendInterestEmail(ctx, recipient.Email, recipient.FullName, senderName, listingTitle, message); err != nil {
		s.logger.Warn("failed to send interest email", "recipient_id", recipientID, "error", err)
	}
}

func (s *service) List(ctx context.Context, recipientID uuid.UUID, unreadOnly bool, params domain.PaginationParams) (domain.PaginatedResponse[domain.Notification], error) {
	cacheKey := fmt.Sprintf("notifications:%s:%t:%d:%d", recipientID, unreadOnly, params.Page, params.PageSize)

	if s.redis != nil {
		if cached, err := s.redis.Get(ctx, cacheKey).Result(); err == nil {
			var resp domain.PaginatedResponse[domain.Notification]
			if json.Unmarshal([]byte(cached), &resp) == nil {
				return resp, nil
			}
		}
	}

	notifications, total, err := s.notifRepo.ListByRecipient(ctx, recipientID, unreadOnly, params)
	if err != nil {
		return domain.PaginatedResponse[domain.Notification]{}, err
	}

	resp := domain.NewPaginatedResponse(notifications, params.Page, params.PageSize, total)

	if s.redis != nil {
		if data, err := json.Marshal(resp); err == nil {
			_ = s.redis.Set(ctx, cacheKey, data, listCacheTTL).Err()
		}
	}

	return resp, nil
}

func (s *service) UnreadCount(ctx context.Context, recipientID uuid.UUID) (int64, error) {
	return s.notifRepo.CountUnread(ctx, recipientID)
}

// MarkRead is idempotent; a notification never goes back to unread.
func (s *service) MarkRead(ctx context.Context, recipientID, id uuid.UUID) error {
	found, err := s.notifRepo.MarkAsRead(ctx, recipientID, id)
	if err != nil {
		return err
	}
	if !found {
		return ErrNotFound
	}
	s.invalidateCache(ctx, recipientID)
	return nil
}

func (s *service) MarkAllRead(ctx context.Context, recipientID uuid.UUID) error {
	if err := s.notifRepo.MarkAllAsRead(ctx, recipientID); err != nil {
		return err
	}
	s.invalidateCache(ctx, recipientID)
	return nil
}

func (s *service) Delete(ctx context.Context, recipientID, id uuid.UUID) error {
	found, err := s.notifRepo.Delete(ctx, recipientID, id)
	if err != nil {
		return err
	}
	if !found {
		return ErrNotFound
	}
	s.invalidateCache(ctx, recipientID)
	s.invalidateDashboard(ctx, recipientID)
	return nil
}

func (s *service) ClearAll(ctx context.Context, recipientID uuid.UUID) (int64, error) {
	deleted, err := s.notifRepo.DeleteAllByRecipient(ctx, recipientID)
	if err != nil {
		return 0, err
	}
	s.invalidateCache(ctx, recipientID)
	s.invalidateDashboard(ctx, recipientID)
	return deleted, nil
}

func (s *service) invalidateCache(ctx context.Context, recipientID uuid.UUID) {
	if s.redis == nil {
		return
	}
	keys, err := s.redis.Keys(ctx, fmt.Sprintf("notifications:%s:*", recipientID)).Result()
	if err == nil && len(keys) > 0 {
		s.redis.Del(ctx, keys...)
	}
}

// invalidateDashboard drops the owner's cached totals, which count interest
// rows.
func (s *service) invalidateDashboard(ctx context.Context, ownerID uuid.UUID) {
	if s.dashboardSvc != nil {
		s.dashboardSvc.Invalidate(ctx, ownerID)
	}
}
