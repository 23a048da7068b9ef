package config

import (
	"log/slog"
	"time"

	"github.com/lib/pq"
)

// NewNotificationListener opens a dedicated LISTEN connection for the
// notification change feed. pq reconnects on its own and delivers a nil
// notification after every reconnect.
func NewNotificationListener(cfg *Config, logger *slog.Logger) (*pq.Listener, error) {
	listener := pq.NewListener(cfg.DatabaseURL, 10*time.Second, time.Minute, func(ev pq.ListenerEventType, err error) {
		switch ev {
		case pq.ListenerEventConnected:
			logger.Info("change feed connected", "channel", cfg.NotificationChannel)
		case pq.ListenerEventDisconnected:
			logger.Warn("change feed disconnected", "channel", cfg.NotificationChannel, "error", err)
		case pq.ListenerEventReconnected:
			logger.Info("change feed reconnected", "channel", cfg.NotificationChannel)
		case pq.ListenerEventConnectionAttemptFailed:
			logger.Error("change feed connection attempt failed", "error", err)
		}
	})

	if err := listener.Listen(cfg.NotificationChannel); err != nil {
		_ = listener.Close()
		return nil, err
	}

	return listener, nil
}
