// Package cartsync bridges the cart synchronizer's notifier port onto the
// notifications bounded context.
package cartsync

import (
	"context"
	"log/slog"

	cartports "github.com/Apurer/go-gin-cart-server/internal/domains/cart/ports"
	"github.com/Apurer/go-gin-cart-server/internal/domains/notifications/domain"
	notificationports "github.com/Apurer/go-gin-cart-server/internal/domains/notifications/ports"
)

var _ cartports.Notifier = (*Notifier)(nil)

// Notifier records sync progress as notifications. Delivery is best-effort:
// the synchronizer must never fail because a notification could not be kept.
type Notifier struct {
	notifications notificationports.Service
	logger        *slog.Logger
}

// NewNotifier wires the notifications service into the cart sync port.
func NewNotifier(notifications notificationports.Service, logger *slog.Logger) *Notifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &Notifier{notifications: notifications, logger: logger}
}

// Notify implements the cart notifier port.
func (n *Notifier) Notify(ctx context.Context, status cartports.SyncStatus, title, message string) {
	if n == nil || n.notifications == nil {
		return
	}
	if _, err := n.notifications.Show(ctx, mapStatus(status), title, message); err != nil {
		n.logger.Warn("recording sync notification failed",
			slog.String("status", string(status)),
			slog.String("error", err.Error()),
		)
	}
}

func mapStatus(status cartports.SyncStatus) domain.Status {
	switch status {
	case cartports.SyncPending:
		return domain.StatusPending
	case cartports.SyncSuccess:
		return domain.StatusSuccess
	default:
		return domain.StatusError
	}
}
