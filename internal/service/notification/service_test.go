package notification_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"student-housing/internal/domain"
	"student-housing/internal/mocks"
	"student-housing/internal/service/notification"
)

func newService(notifRepo *mocks.NotificationRepository, listingRepo *mocks.ListingRepository) notification.Service {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return notification.NewService(notifRepo, listingRepo, new(mocks.UserRepository), nil, nil, nil, logger)
}

func newServiceWithDashboard(notifRepo *mocks.NotificationRepository, dashboardSvc *mocks.DashboardService) notification.Service {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return notification.NewService(notifRepo, new(mocks.ListingRepository), new(mocks.UserRepository), dashboardSvc, nil, nil, logger)
}

func TestNotificationService_Send(t *testing.T) {
	ctx := context.Background()
	ownerID := uuid.New()
	studentID := uuid.New()
	listingID := uuid.New()
	listing := &domain.Listing{ID: listingID, OwnerID: ownerID, Title: "Sunny room near campus"}

	t.Run("Success", func(t *testing.T) {
		notifRepo := new(mocks.NotificationRepository)
		listingRepo := new(mocks.ListingRepository)
		svc := newService(notifRepo, listingRepo)

		listingRepo.On("GetByID", ctx, listingID).Return(listing, nil).Once()
		notifRepo.On("Create", ctx, mock.MatchedBy(func(n *domain.Notification) bool {
			return n.RecipientID == ownerID &&
				n.SenderID == studentID &&
				n.Message == "Is it still available?" &&
				n.Type == domain.NotifInterest &&
				!n.Read &&
				n.ListingID != nil && *n.ListingID == listingID
		})).Return(nil).Once()

		notif, err := svc.Send(ctx, studentID, domain.SendNotificationInput{
			RecipientID: ownerID,
			ListingID:   &listingID,
			Message:     "  Is it still available?  ",
		})

		require.NoError(t, err)
		assert.Equal(t, ownerID, notif.RecipientID)
		notifRepo.AssertExpectations(t)
		listingRepo.AssertExpectations(t)
	})

	t.Run("Self contact is rejected without insert", func(t *testing.T) {
		notifRepo := new(mocks.NotificationRepository)
		listingRepo := new(mocks.ListingRepository)
		svc := newService(notifRepo, listingRepo)

		notif, err := svc.Send(ctx, ownerID, domain.SendNotificationInput{
			RecipientID: ownerID,
			ListingID:   &listingID,
			Message:     "Hello me",
		})

		assert.ErrorIs(t, err, notification.ErrSelfContact)
		assert.Nil(t, notif)
		notifRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		listingRepo.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
	})

	t.Run("Recipient must own the listing", func(t *testing.T) {
		notifRepo := new(mocks.NotificationRepository)
		listingRepo := new(mocks.ListingRepository)
		svc := newService(notifRepo, listingRepo)

		listingRepo.On("GetByID", ctx, listingID).Return(listing, nil).Once()

		_, err := svc.Send(ctx, studentID, domain.SendNotificationInput{
			RecipientID: uuid.New(),
			ListingID:   &listingID,
			Message:     "Hi",
		})

		assert.ErrorIs(t, err, notification.ErrRecipientNotOwner)
		notifRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("Unknown listing", func(t *testing.T) {
		notifRepo := new(mocks.NotificationRepository)
		listingRepo := new(mocks.ListingRepository)
		svc := newService(notifRepo, listingRepo)

		listingRepo.On("GetByID", ctx, listingID).Return(nil, nil).Once()

		_, err := svc.Send(ctx, studentID, domain.SendNotificationInput{
			RecipientID: ownerID,
			ListingID:   &listingID,
			Message:     "Hi",
		})

		assert.ErrorIs(t, err, notification.ErrListingNotFound)
	})

	t.Run("Empty message", func(t *testing.T) {
		notifRepo := new(mocks.NotificationRepository)
		listingRepo := new(mocks.ListingRepository)
		svc := newService(notifRepo, listingRepo)

		_, err := svc.Send(ctx, studentID, domain.SendNotificationInput{
			RecipientID: ownerID,
			ListingID:   &listingID,
			Message:     "   ",
		})

		var verr *domain.ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, "message", verr.Field)
		notifRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("Insert failure is returned", func(t *testing.T) {
		notifRepo := new(mocks.NotificationRepository)
		listingRepo := new(mocks.ListingRepository)
		svc := newService(notifRepo, listingRepo)

		listingRepo.On("GetByID", ctx, listingID).Return(listing, nil).Once()
		notifRepo.On("Create", ctx, mock.Anything).Return(errors.New("connection reset")).Once()

		_, err := svc.Send(ctx, studentID, domain.SendNotificationInput{
			RecipientID: ownerID,
			ListingID:   &listingID,
			Message:     "Hi",
		})

		assert.EqualError(t, err, "connection reset")
	})
}

func TestNotificationService_MarkRead(t *testing.T) {
	ctx := context.Background()
	recipientID := uuid.New()
	notifID := uuid.New()

	t.Run("Success", func(t *testing.T) {
		notifRepo := new(mocks.NotificationRepository)
		svc := newService(notifRepo, new(mocks.ListingRepository))

		notifRepo.On("MarkAsRead", ctx, recipientID, notifID).Return(true, nil).Once()

		assert.NoError(t, svc.MarkRead(ctx, recipientID, notifID))
		notifRepo.AssertExpectations(t)
	})

	t.Run("Not found for another recipient", func(t *testing.T) {
		notifRepo := new(mocks.NotificationRepository)
		svc := newService(notifRepo, new(mocks.ListingRepository))

		other := uuid.New()
		notifRepo.On("MarkAsRead", ctx, other, notifID).Return(false, nil).Once()

		assert.ErrorIs(t, svc.MarkRead(ctx, other, notifID), notification.ErrNotFound)
	})
}

func TestNotificationService_Delete(t *testing.T) {
	ctx := context.Background()
	recipientID := uuid.New()
	notifID := uuid.New()

	t.Run("Success", func(t *testing.T) {
		notifRepo := new(mocks.NotificationRepository)
		svc := newService(notifRepo, new(mocks.ListingRepository))

		notifRepo.On("Delete", ctx, recipientID, notifID).Return(true, nil).Once()

		assert.NoError(t, svc.Delete(ctx, recipientID, notifID))
	})

	t.Run("Missing", func(t *testing.T) {
		notifRepo := new(mocks.NotificationRepository)
		svc := newService(notifRepo, new(mocks.ListingRepository))

		notifRepo.On("Delete", ctx, recipientID, notifID).Return(false, nil).Once()

		assert.ErrorIs(t, svc.Delete(ctx, recipientID, notifID), notification.ErrNotFound)
	})

	t.Run("Refreshes the owner dashboard", func(t *testing.T) {
		notifRepo := new(mocks.NotificationRepository)
		dashboardSvc := new(mocks.DashboardService)
		svc := newServiceWithDashboard(notifRepo, dashboardSvc)

		notifRepo.On("Delete", ctx, recipientID, notifID).Return(true, nil).Once()
		dashboardSvc.On("Invalidate", ctx, recipientID).Return().Once()

		require.NoError(t, svc.Delete(ctx, recipientID, notifID))
		dashboardSvc.AssertExpectations(t)
	})

	t.Run("Missing row leaves the dashboard alone", func(t *testing.T) {
		notifRepo := new(mocks.NotificationRepository)
		dashboardSvc := new(mocks.DashboardService)
		svc := newServiceWithDashboard(notifRepo, dashboardSvc)

		notifRepo.On("Delete", ctx, recipientID, notifID).Return(false, nil).Once()

		assert.ErrorIs(t, svc.Delete(ctx, recipientID, notifID), notification.ErrNotFound)
		dashboardSvc.AssertNotCalled(t, "Invalidate", mock.Anything, mock.Anything)
	})
}

func TestNotificationService_ClearAll(t *testing.T) {
	ctx := context.Background()
	recipientID := uuid.New()
	notifRepo := new(mocks.NotificationRepository)
	svc := newService(notifRepo, new(mocks.ListingRepository))

	notifRepo.On("DeleteAllByRecipient", ctx, recipientID).Return(int64(3), nil).Once()

	deleted, err := svc.ClearAll(ctx, recipientID)
	require.NoError(t, err)
	assert.Equal(t, int64(3), deleted)

	t.Run("Refreshes the owner dashboard", func(t *testing.T) {
		notifRepo := new(mocks.NotificationRepository)
		dashboardSvc := new(mocks.DashboardService)
		svc := newServiceWithDashboard(notifRepo, dashboardSvc)

		notifRepo.On("DeleteAllByRecipient", ctx, recipientID).Return(int64(2), nil).Once()
		dashboardSvc.On("Invalidate", ctx, recipientID).Return().Once()

		_, err := svc.ClearAll(ctx, recipientID)
		require.NoError(t, err)
		dashboardSvc.AssertExpectations(t)
	})
}

func TestNotificationService_List(t *testing.T) {
	ctx := context.Background()
	recipientID := uuid.New()
	notifRepo := new(mocks.NotificationRepository)
	svc := newService(notifRepo, new(mocks.ListingRepository))

	params := domain.PaginationParams{Page: 1, PageSize: 2}
	rows := []domain.Notification{
		{ID: uuid.New(), RecipientID: recipientID, Message: "b"},
		{ID: uuid.New(), RecipientID: recipientID, Message: "a", Read: true},
	}
	notifRepo.On("ListByRecipient", ctx, recipientID, false, params).Return(rows, int64(3), nil).Once()

	resp, err := svc.List(ctx, recipientID, false, params)
	require.NoError(t, err)
	assert.Len(t, resp.Data, 2)
	assert.Equal(t, 2, resp.TotalPages)
	assert.True(t, resp.HasNext)
}
