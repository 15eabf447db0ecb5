package application

import (
	"context"
	"errors"
	"strings"

	carttypes "github.com/Apurer/go-gin-cart-server/internal/domains/cart/application/types"
	"github.com/Apurer/go-gin-cart-server/internal/domains/cart/domain"
	"github.com/Apurer/go-gin-cart-server/internal/domains/cart/ports"
)

// Service orchestrates the cart bounded context use cases. Every committed
// mutation is reported to the change observer so the synchronizer can react.
type Service struct {
	repo     ports.Repository
	observer ports.ChangeObserver
}

// Option configures the service.
type Option func(*Service)

// WithChangeObserver wires the synchronizer (or any observer) into the service.
func WithChangeObserver(observer ports.ChangeObserver) Option {
	return func(s *Service) {
		s.observer = observer
	}
}

// NewService wires the cart service with its dependencies.
func NewService(repo ports.Repository, opts ...Option) *Service {
	s := &Service{repo: repo}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// AddItem adds one unit of a product to the cart, creating the cart lazily.
func (s *Service) AddItem(ctx context.Context, input carttypes.AddItemInput) (*carttypes.CartProjection, error) {
	cart, err := s.loadOrCreate(ctx, input.CartID)
	if err != nil {
		return nil, mapError(err)
	}
	if err := cart.AddItem(input.ItemID, input.Title, input.UnitPrice); err != nil {
		return nil, mapError(err)
	}
	return s.commit(ctx, cart)
}

// RemoveItem removes one unit of a product. Removing an unknown item from an
// existing cart is a no-op and the cart is not re-persisted.
func (s *Service) RemoveItem(ctx context.Context, input carttypes.RemoveItemInput) (*carttypes.CartProjection, error) {
	projection, err := s.repo.GetByID(ctx, input.CartID)
	if err != nil {
		return nil, mapError(err)
	}
	cart := projection.Cart
	if !cart.RemoveItem(input.ItemID) {
		return projection, nil
	}
	return s.commit(ctx, cart)
}

// Replace overwrites the cart wholesale, creating it when absent. The dirty
// flag is left as-is, so replacing with freshly fetched remote state never
// triggers a push by itself.
func (s *Service) Replace(ctx context.Context, input carttypes.ReplaceCartInput) (*carttypes.CartProjection, error) {
	cart, err := s.loadOrCreate(ctx, input.CartID)
	if err != nil {
		return nil, mapError(err)
	}
	cart.Replace(input.Items, input.TotalQuantity)
	return s.commit(ctx, cart)
}

// GetByID loads a single cart.
func (s *Service) GetByID(ctx context.Context, input carttypes.CartIdentifier) (*carttypes.CartProjection, error) {
	projection, err := s.repo.GetByID(ctx, input.CartID)
	if err != nil {
		return nil, mapError(err)
	}
	return projection, nil
}

// MarkSynced clears the dirty flag after a successful remote push. The
// observer is not told: a sync acknowledgement is not a local mutation.
// Only the flag is reset; the acknowledgement runs on the synchronizer
// goroutine and must not rewrite lines a handler committed meanwhile.
func (s *Service) MarkSynced(ctx context.Context, input carttypes.CartIdentifier) error {
	if err := s.repo.ClearChanged(ctx, input.CartID); err != nil {
		return mapError(err)
	}
	return nil
}

// List exposes all carts for admin use cases.
func (s *Service) List(ctx context.Context) ([]*carttypes.CartProjection, error) {
	result, err := s.repo.List(ctx)
	if err != nil {
		return nil, mapError(err)
	}
	return result, nil
}

func (s *Service) loadOrCreate(ctx context.Context, cartID string) (*domain.Cart, error) {
	if strings.TrimSpace(cartID) == "" {
		return nil, domain.ErrEmptyCartID
	}
	projection, err := s.repo.GetByID(ctx, cartID)
	if err == nil {
		return projection.Cart, nil
	}
	if !errors.Is(err, ports.ErrNotFound) {
		return nil, err
	}
	return domain.NewCart(cartID)
}

func (s *Service) commit(ctx context.Context, cart *domain.Cart) (*carttypes.CartProjection, error) {
	saved, err := s.repo.Save(ctx, cart)
	if err != nil {
		return nil, mapError(err)
	}
	if s.observer != nil && saved != nil && saved.Cart != nil {
		s.observer.Observe(saved.Cart.ID, saved.Cart.Snapshot(), saved.Cart.Changed)
	}
	return saved, nil
}

var _ ports.Service = (*Service)(nil)
