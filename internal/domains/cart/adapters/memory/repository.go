package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	carttypes "github.com/Apurer/go-gin-cart-server/internal/domains/cart/application/types"
	"github.com/Apurer/go-gin-cart-server/internal/domains/cart/domain"
	"github.com/Apurer/go-gin-cart-server/internal/domains/cart/ports"
	"github.com/Apurer/go-gin-cart-server/internal/shared/projection"
)

var _ ports.Repository = (*Repository)(nil)

type record struct {
	cart     *domain.Cart
	metadata projection.Metadata
}

// Repository is an in-memory cart persistence adapter for development and tests.
type Repository struct {
	mu    sync.RWMutex
	carts map[string]record
	now   func() time.Time
}

// NewRepository constructs an empty in-memory repository.
func NewRepository() *Repository {
	return &Repository{
		carts: map[string]record{},
		now:   time.Now,
	}
}

// WithClock overrides the time source for deterministic testing.
func (r *Repository) WithClock(now func() time.Time) {
	if now != nil {
		r.now = now
	}
}

// Save stores a deep copy of the cart and returns the resulting projection.
func (r *Repository) Save(_ context.Context, cart *domain.Cart) (*carttypes.CartProjection, error) {
	if cart == nil || cart.ID == "" {
		return nil, domain.ErrEmptyCartID
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	meta := projection.Metadata{CreatedAt: now, UpdatedAt: now}
	if existing, ok := r.carts[cart.ID]; ok {
		meta.CreatedAt = existing.metadata.CreatedAt
	}
	r.carts[cart.ID] = record{cart: cart.Clone(), metadata: meta}
	return &carttypes.CartProjection{Cart: cart.Clone(), Metadata: meta}, nil
}

// GetByID returns a deep copy of the stored cart.
func (r *Repository) GetByID(_ context.Context, id string) (*carttypes.CartProjection, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rec, ok := r.carts[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	return &carttypes.CartProjection{Cart: rec.cart.Clone(), Metadata: rec.metadata}, nil
}

// ClearChanged flips the dirty flag off in place, leaving the stored lines
// untouched.
func (r *Repository) ClearChanged(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec, ok := r.carts[id]
	if !ok {
		return ports.ErrNotFound
	}
	rec.cart.Changed = false
	r.carts[id] = rec
	return nil
}

// List returns all carts sorted by id for stable output.
func (r *Repository) List(_ context.Context) ([]*carttypes.CartProjection, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	result := make([]*carttypes.CartProjection, 0, len(r.carts))
	for _, rec := range r.carts {
		result = append(result, &carttypes.CartProjection{Cart: rec.cart.Clone(), Metadata: rec.metadata})
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Cart.ID < result[j].Cart.ID })
	return result, nil
}
