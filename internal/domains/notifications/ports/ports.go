package ports

import (
	"context"

	"github.com/Apurer/go-gin-cart-server/internal/domains/notifications/domain"
)

// Store keeps the latest notification.
type Store interface {
	Set(ctx context.Context, n domain.Notification) error
	Latest(ctx context.Context) (*domain.Notification, error)
	Clear(ctx context.Context) error
}

// Publisher pushes notification transitions to live consumers.
type Publisher interface {
	Publish(n domain.Notification)
}

// Service defines the notification use cases exposed to adapters.
type Service interface {
	Show(ctx context.Context, status domain.Status, title, message string) (domain.Notification, error)
	Current(ctx context.Context) (*domain.Notification, error)
	Clear(ctx context.Context) error
}
