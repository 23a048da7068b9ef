package realtime

import (
	"sync"

	"github.com/google/uuid"

	"student-housing/internal/domain"
	"student-housing/internal/pkg/i18n"
)

const toastMessageLimit = 140

type Toast struct {
	Title   string `json:"title"`
	Message string `json:"message"`
}

// Inbox is the notification list a connected client holds in memory.
// Realtime inserts are merged at the head without refetching.
type Inbox struct {
	mu          sync.Mutex
	recipientID uuid.UUID
	locale      string
	limit       int
	items       []domain.Notification
	unread      int64
}

// NewInbox seeds the list with initial, newest first, and the recipient's
// unread total, which may cover more rows than initial holds. A limit of
// zero keeps every entry.
func NewInbox(recipientID uuid.UUID, initial []domain.Notification, unread int64, locale string, limit int) *Inbox {
	items := make([]domain.Notification, len(initial))
	copy(items, initial)
	return &Inbox{
		recipientID: recipientID,
		locale:      locale,
		limit:       limit,
		items:       items,
		unread:      unread,
	}
}

// Apply prepends n and returns the toast to raise. Events for another
// recipient and ids already in the list are ignored.
func (b *Inbox) Apply(n domain.Notification) (Toast, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if n.RecipientID != b.recipientID {
		return Toast{}, false
	}
	for _, existing := range b.items {
		if existing.ID == n.ID {
			return Toast{}, false
		}
	}

	b.items = append([]domain.Notification{n}, b.items...)
	if b.limit > 0 && len(b.items) > b.limit {
		b.items = b.items[:b.limit]
	}
	if !n.Read {
		b.unread++
	}

	return Toast{
		Title:   i18n.Translate(b.locale, "TOAST_INTEREST_TITLE"),
		Message: truncate(n.Message, toastMessageLimit),
	}, true
}

func (b *Inbox) Items() []domain.Notification {
	b.mu.Lock()
	defer b.mu.Unlock()

	out := make([]domain.Notification, len(b.items))
	copy(out, b.items)
	return out
}

func (b *Inbox) UnreadCount() int64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.unread
}

func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit-1]) + "…"
}
