package scheduler

import (
	"context"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

const jobTimeout = time.Minute

// SubscriptionExpirer marks subscriptions past their expiry date as expired.
type SubscriptionExpirer interface {
	ExpireDue(ctx context.Context) (int64, error)
}

// SessionCleaner removes refresh sessions that can no longer be used.
type SessionCleaner interface {
	DeleteExpired(ctx context.Context) (int64, error)
}

// Scheduler runs periodic maintenance jobs.
type Scheduler struct {
	cron          *cron.Cron
	schedule      string
	subscriptions SubscriptionExpirer
	sessions      SessionCleaner
	logger        *slog.Logger
	isRunning     bool
}

func New(schedule string, subscriptions SubscriptionExpirer, sessions SessionCleaner, logger *slog.Logger) *Scheduler {
	return &Scheduler{
		cron:          cron.New(cron.WithChain(cron.Recover(cron.DefaultLogger), cron.SkipIfStillRunning(cron.DefaultLogger))),
		schedule:      schedule,
		subscriptions: subscriptions,
		sessions:      sessions,
		logger:        logger.With("component", "scheduler"),
	}
}

func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc(s.schedule, s.RunMaintenance); err != nil {
		return err
	}

	s.cron.Start()
	s.isRunning = true
	s.logger.Info("scheduler started", "schedule", s.schedule)
	return nil
}

// Stop waits for a running job to finish.
func (s *Scheduler) Stop() {
	if !s.isRunning {
		return
	}
	<-s.cron.Stop().Done()
	s.isRunning = false
	s.logger.Info("scheduler stopped")
}

// RunMaintenance expires due subscriptions and deletes expired sessions.
// A failing step is logged and does not prevent the other.
func (s *Scheduler) RunMaintenance() {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	if expired, err := s.subscriptions.ExpireDue(ctx); err != nil {
		s.logger.Error("failed to expire subscriptions", "error", err)
	} else if expired > 0 {
		s.logger.Info("subscriptions expired", "count", expired)
	}

	if deleted, err := s.sessions.DeleteExpired(ctx); err != nil {
		s.logger.Error("failed to delete expired sessions", "error", err)
	} else if deleted > 0 {
		s.logger.Info("expired sessions deleted", "count", deleted)
	}
}
