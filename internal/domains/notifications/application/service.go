package application

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/Apurer/go-gin-cart-server/internal/domains/notifications/domain"
	"github.com/Apurer/go-gin-cart-server/internal/domains/notifications/ports"
)

// ErrUnknownStatus indicates a status outside pending/success/error.
var ErrUnknownStatus = errors.New("unknown notification status")

// Service keeps the latest notification and fans transitions out to an
// optional publisher.
type Service struct {
	store     ports.Store
	publisher ports.Publisher
	now       func() time.Time
	newID     func() string
}

// Option configures the service.
type Option func(*Service)

// WithPublisher wires a live transition sink, e.g. the websocket hub.
func WithPublisher(publisher ports.Publisher) Option {
	return func(s *Service) { s.publisher = publisher }
}

// WithClock overrides the time source for deterministic testing.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// NewService wires the notification keeper with its store.
func NewService(store ports.Store, opts ...Option) *Service {
	s := &Service{
		store: store,
		now:   time.Now,
		newID: func() string { return uuid.NewString() },
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// Show records a new notification, superseding the previous one.
func (s *Service) Show(ctx context.Context, status domain.Status, title, message string) (domain.Notification, error) {
	if !domain.KnownStatus(status) {
		return domain.Notification{}, ErrUnknownStatus
	}
	n := domain.Notification{
		ID:      s.newID(),
		Status:  status,
		Title:   title,
		Message: message,
		At:      s.now(),
	}
	if err := s.store.Set(ctx, n); err != nil {
		return domain.Notification{}, err
	}
	if s.publisher != nil {
		s.publisher.Publish(n)
	}
	return n, nil
}

// Current returns the latest notification, or nil when none was shown yet.
func (s *Service) Current(ctx context.Context) (*domain.Notification, error) {
	return s.store.Latest(ctx)
}

// Clear drops the current notification. The sync flows never call this; it
// exists for UI layers that want an explicit dismiss.
func (s *Service) Clear(ctx context.Context) error {
	return s.store.Clear(ctx)
}

var _ ports.Service = (*Service)(nil)
