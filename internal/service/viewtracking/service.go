// Package viewtracking records listing detail views without making the
// caller wait for the write.
package viewtracking

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"student-housing/internal/domain"
	"student-housing/internal/repository"
)

const DefaultTimeout = 5 * time.Second

type Service interface {
	// Track records one view of listingID. viewerID is nil for anonymous
	// visitors. Failures are logged and never retried.
	Track(listingID uuid.UUID, viewerID *uuid.UUID)
	// Wait blocks until every in-flight write has finished.
	Wait()
}

type service struct {
	viewRepo repository.ListingViewRepository
	timeout  time.Duration
	logger   *slog.Logger
	wg       sync.WaitGroup
}

func NewService(viewRepo repository.ListingViewRepository, timeout time.Duration, logger *slog.Logger) Service {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &service{
		viewRepo: viewRepo,
		timeout:  timeout,
		logger:   logger.With("service", "viewtracking"),
	}
}

func (s *service) Track(listingID uuid.UUID, viewerID *uuid.UUID) {
	view := &domain.ListingView{
		ID:        uuid.New(),
		ListingID: listingID,
		ViewerID:  viewerID,
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
		defer cancel()

		if err := s.viewRepo.Create(ctx, view); err != nil {
			s.logger.Warn("failed to record listing view", "listing_id", listingID, "error", err)
		}
	}()
}

func (s *service) Wait() {
	s.wg.Wait()
}
