package ports

import (
	"context"
	"errors"

	carttypes "github.com/Apurer/go-gin-cart-server/internal/domains/cart/application/types"
	"github.com/Apurer/go-gin-cart-server/internal/domains/cart/domain"
)

var ErrNotFound = errors.New("cart not found")

type Repository interface {
	Save(ctx context.Context, cart *domain.Cart) (*carttypes.CartProjection, error)
	GetByID(ctx context.Context, id string) (*carttypes.CartProjection, error)
	List(ctx context.Context) ([]*carttypes.CartProjection, error)
	// ClearChanged atomically resets the dirty flag without touching the
	// cart lines, so a sync acknowledgement cannot overwrite a mutation
	// committed while the push was in flight.
	ClearChanged(ctx context.Context, id string) error
}
