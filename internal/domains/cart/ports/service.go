package ports

import (
	"context"

	carttypes "github.com/Apurer/go-gin-cart-server/internal/domains/cart/application/types"
)

// Service defines the cart use cases exposed to adapters (inbound/driving port).
type Service interface {
	AddItem(ctx context.Context, input carttypes.AddItemInput) (*carttypes.CartProjection, error)
	RemoveItem(ctx context.Context, input carttypes.RemoveItemInput) (*carttypes.CartProjection, error)
	Replace(ctx context.Context, input carttypes.ReplaceCartInput) (*carttypes.CartProjection, error)
	GetByID(ctx context.Context, input carttypes.CartIdentifier) (*carttypes.CartProjection, error)
	MarkSynced(ctx context.Context, input carttypes.CartIdentifier) error
	List(ctx context.Context) ([]*carttypes.CartProjection, error)
}
