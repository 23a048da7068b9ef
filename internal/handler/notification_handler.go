package handler

import (
	"bufio"
	"errors"
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/valyala/fasthttp"

	"student-housing/internal/domain"
	"student-housing/internal/middleware"
	"student-housing/internal/pkg/i18n"
	"student-housing/internal/realtime"
	"student-housing/internal/service/notification"
)

const streamKeepAlive = 15 * time.Second

type NotificationHandler struct {
	notifService notification.Service
	feed         *realtime.Feed
	keepAlive    time.Duration
	logger       *slog.Logger
}

func NewNotificationHandler(notifService notification.Service, feed *realtime.Feed, logger *slog.Logger) *NotificationHandler {
	return &NotificationHandler{
		notifService: notifService,
		feed:         feed,
		keepAlive:    streamKeepAlive,
		logger:       logger.With("handler", "notification"),
	}
}

func (h *NotificationHandler) List(c *fiber.Ctx) error {
	userID := middleware.GetCurrentUserID(c)
	unreadOnly := c.QueryBool("unread_only", false)

	result, err := h.notifService.List(c.UserContext(), userID, unreadOnly, getPaginationParams(c))
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(result)
}

func (h *NotificationHandler) GetUnreadCount(c *fiber.Ctx) error {
	count, err := h.notifService.UnreadCount(c.UserContext(), middleware.GetCurrentUserID(c))
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"count": count,
	})
}

// Send records an interest in a listing for its owner.
func (h *NotificationHandler) Send(c *fiber.Ctx) error {
	var input domain.SendNotificationInput
	if err := c.BodyParser(&input); err != nil {
		return middleware.BadRequest("Invalid request body")
	}

	notif, err := h.notifService.Send(c.UserContext(), middleware.GetCurrentUserID(c), input)
	if err != nil {
		switch {
		case errors.Is(err, notification.ErrSelfContact):
			return middleware.BadRequest("You cannot contact yourself")
		case errors.Is(err, notification.ErrRecipientNotOwner):
			return middleware.NewError(fiber.StatusUnprocessableEntity, "Recipient is not the owner of this listing")
		case errors.Is(err, notification.ErrListingNotFound):
			return middleware.NotFound("Listing not found")
		}
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(notif)
}

func (h *NotificationHandler) MarkAsRead(c *fiber.Ctx) error {
	notifID, err := parseIDParam(c, "id", "notification")
	if err != nil {
		return err
	}

	if err := h.notifService.MarkRead(c.UserContext(), middleware.GetCurrentUserID(c), notifID); err != nil {
		if errors.Is(err, notification.ErrNotFound) {
			return middleware.NotFound("Notification not found")
		}
		return err
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func (h *NotificationHandler) MarkAllAsRead(c *fiber.Ctx) error {
	if err := h.notifService.MarkAllRead(c.UserContext(), middleware.GetCurrentUserID(c)); err != nil {
		return err
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func (h *NotificationHandler) Delete(c *fiber.Ctx) error {
	notifID, err := parseIDParam(c, "id", "notification")
	if err != nil {
		return err
	}

	if err := h.notifService.Delete(c.UserContext(), middleware.GetCurrentUserID(c), notifID); err != nil {
		if errors.Is(err, notification.ErrNotFound) {
			return middleware.NotFound("Notification not found")
		}
		return err
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func (h *NotificationHandler) ClearAll(c *fiber.Ctx) error {
	deleted, err := h.notifService.ClearAll(c.UserContext(), middleware.GetCurrentUserID(c))
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{"deleted": deleted})
}

type notificationEvent struct {
	Notification domain.Notification `json:"notification"`
	Toast        realtime.Toast      `json:"toast"`
	UnreadCount  int64               `json:"unread_count"`
}

type snapshotEvent struct {
	Notifications []domain.Notification `json:"notifications"`
	UnreadCount   int64                 `json:"unread_count"`
}

// Stream pushes the recipient's notifications as server-sent events: one
// snapshot, then one event per inserted row. The subscription is taken
// before the snapshot is read so no insert falls between the two.
func (h *NotificationHandler) Stream(c *fiber.Ctx) error {
	userID := middleware.GetCurrentUserID(c)
	locale := c.Query("lang", i18n.DefaultLocale)
	params := getPaginationParams(c)

	sub := h.feed.Subscribe(userID)

	unread, err := h.notifService.UnreadCount(c.UserContext(), userID)
	if err != nil {
		sub.Close()
		return err
	}
	snapshot, err := h.notifService.List(c.UserContext(), userID, false, params)
	if err != nil {
		sub.Close()
		return err
	}
	inbox := realtime.NewInbox(userID, snapshot.Data, unread, locale, params.PageSize)

	c.Set(fiber.HeaderContentType, "text/event-stream")
	c.Set(fiber.HeaderCacheControl, "no-cache")
	c.Set(fiber.HeaderConnection, "keep-alive")
	c.Set("X-Accel-Buffering", "no")

	logger := h.logger.With("user_id", userID)
	logger.Info("notification stream opened", "subscribers", h.feed.SubscriberCount(userID))

	c.Context().SetBodyStreamWriter(fasthttp.StreamWriter(func(w *bufio.Writer) {
		defer func() {
			sub.Close()
			logger.Info("notification stream closed")
		}()

		if err := writeEvent(w, "snapshot", snapshotEvent{
			Notifications: inbox.Items(),
			UnreadCount:   inbox.UnreadCount(),
		}); err != nil {
			return
		}

		ticker := time.NewTicker(h.keepAlive)
		defer ticker.Stop()

		for {
			select {
			case n, ok := <-sub.Events():
				if !ok {
					return
				}
				toast, applied := inbox.Apply(n)
				if !applied {
					continue
				}
				if err := writeEvent(w, "notification", notificationEvent{
					Notification: n,
					Toast:        toast,
					UnreadCount:  inbox.UnreadCount(),
				}); err != nil {
					return
				}
			case <-ticker.C:
				if err := writeKeepAlive(w); err != nil {
					return
				}
			}
		}
	}))

	return nil
}
