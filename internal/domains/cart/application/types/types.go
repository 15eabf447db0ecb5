package types

import (
	"github.com/Apurer/go-gin-cart-server/internal/domains/cart/domain"
	"github.com/Apurer/go-gin-cart-server/internal/shared/projection"
)

// CartProjection is a cart aggregate view plus persistence metadata.
type CartProjection struct {
	Cart     *domain.Cart
	Metadata projection.Metadata
}

// CartIdentifier addresses a single cart.
type CartIdentifier struct {
	CartID string
}

// AddItemInput carries one add-to-cart command. Quantity in the aggregate is
// always incremented by exactly one unit per command.
type AddItemInput struct {
	CartID    string
	ItemID    string
	Title     string
	UnitPrice float64
}

// RemoveItemInput carries one remove-from-cart command.
type RemoveItemInput struct {
	CartID string
	ItemID string
}

// ReplaceCartInput overwrites a cart wholesale, typically with remote state.
type ReplaceCartInput struct {
	CartID        string
	Items         []domain.Line
	TotalQuantity int
}
