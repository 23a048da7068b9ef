// Package realtime fans the notification change feed out to per-recipient
// subscriptions and keeps the in-memory notification list of a connected
// client.
package realtime

import (
	"context"
	"log/slog"
	"sync"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"student-housing/internal/domain"
	"student-housing/internal/pkg/schema"
)

const subscriptionBuffer = 16

// Loader reads a notification row by id. It returns nil when the row no
// longer exists.
type Loader interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Notification, error)
}

// Feed routes inserted notification rows to the subscriptions of their
// recipient. Events are delivered in the order the change feed emits them;
// a subscriber that falls behind by more than its buffer loses events.
type Feed struct {
	mu     sync.RWMutex
	subs   map[uuid.UUID]map[*Subscription]struct{}
	closed bool
	loader Loader
	logger *slog.Logger
}

func NewFeed(loader Loader, logger *slog.Logger) *Feed {
	return &Feed{
		subs:   make(map[uuid.UUID]map[*Subscription]struct{}),
		loader: loader,
		logger: logger.With("component", "realtime.Feed"),
	}
}

// insertedEvent is the change feed payload. The row itself is loaded
// separately so the payload size does not depend on the message.
type insertedEvent struct {
	ID          uuid.UUID `json:"id"`
	RecipientID uuid.UUID `json:"recipient_id"`
}

// Subscribe registers a stream of notifications addressed to recipientID.
// The caller owns the subscription and must Close it.
func (f *Feed) Subscribe(recipientID uuid.UUID) *Subscription {
	sub := &Subscription{
		feed:        f,
		recipientID: recipientID,
		events:      make(chan domain.Notification, subscriptionBuffer),
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if f.closed {
		sub.closed = true
		close(sub.events)
		return sub
	}

	if f.subs[recipientID] == nil {
		f.subs[recipientID] = make(map[*Subscription]struct{})
	}
	f.subs[recipientID][sub] = struct{}{}
	return sub
}

// Publish delivers n to every open subscription of its recipient and returns
// how many received it.
func (f *Feed) Publish(n domain.Notification) int {
	f.mu.RLock()
	defer f.mu.RUnlock()

	delivered := 0
	for sub := range f.subs[n.RecipientID] {
		select {
		case sub.events <- n:
			delivered++
		default:
			f.logger.Warn("subscription buffer full, dropping event",
				"recipient_id", n.RecipientID, "notification_id", n.ID)
		}
	}
	return delivered
}

// Run consumes raw change feed notifications until ctx is done or the
// channel is closed. Payloads that fail schema validation and rows that can
// no longer be loaded are logged and skipped.
func (f *Feed) Run(ctx context.Context, notifications <-chan *pq.Notification) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case raw, ok := <-notifications:
			if !ok {
				return nil
			}
			if raw == nil {
				f.logger.Warn("change feed reconnected, events emitted while disconnected are lost")
				continue
			}
			f.handle(ctx, raw)
		}
	}
}

func (f *Feed) handle(ctx context.Context, raw *pq.Notification) {
	var event insertedEvent
	if err := schema.Decode(schema.NotificationEvent, []byte(raw.Extra), &event); err != nil {
		f.logger.Warn("discarding malformed change feed row", "channel", raw.Channel, "error", err)
		return
	}
	if f.SubscriberCount(event.RecipientID) == 0 {
		return
	}

	n, err := f.loader.GetByID(ctx, event.ID)
	if err != nil {
		f.logger.Warn("failed to load notification", "notification_id", event.ID, "error", err)
		return
	}
	if n == nil {
		f.logger.Debug("notification deleted before dispatch", "notification_id", event.ID)
		return
	}

	delivered := f.Publish(*n)
	f.logger.Debug("notification dispatched",
		"notification_id", n.ID, "recipient_id", n.RecipientID, "subscribers", delivered)
}

// Close ends every open subscription. Later Subscribe calls return already
// closed subscriptions.
func (f *Feed) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, set := range f.subs {
		for sub := range set {
			if !sub.closed {
				sub.closed = true
				close(sub.events)
			}
		}
	}
	f.subs = make(map[uuid.UUID]map[*Subscription]struct{})
	f.closed = true
}

func (f *Feed) remove(sub *Subscription) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if sub.closed {
		return
	}
	sub.closed = true
	close(sub.events)

	if set, ok := f.subs[sub.recipientID]; ok {
		delete(set, sub)
		if len(set) == 0 {
			delete(f.subs, sub.recipientID)
		}
	}
}

// SubscriberCount reports how many open subscriptions recipientID has.
func (f *Feed) SubscriberCount(recipientID uuid.UUID) int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return len(f.subs[recipientID])
}

// Subscription is a single-use stream of notifications for one recipient.
type Subscription struct {
	feed        *Feed
	recipientID uuid.UUID
	events      chan domain.Notification
	closed      bool // guarded by feed.mu
}

// Events is closed when the subscription or the feed is closed.
func (s *Subscription) Events() <-chan domain.Notification {
	return s.events
}

// Close is safe to call more than once and from any goroutine.
func (s *Subscription) Close() {
	s.feed.remove(s)
}
