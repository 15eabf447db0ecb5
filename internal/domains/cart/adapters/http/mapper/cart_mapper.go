package mapper

import (
	"time"

	carttypes "github.com/Apurer/go-gin-cart-server/internal/domains/cart/application/types"
	"github.com/Apurer/go-gin-cart-server/internal/domains/cart/domain"
)

// CartLine is the HTTP representation of one cart line.
type CartLine struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	Price      float64 `json:"price"`
	Quantity   int     `json:"quantity"`
	TotalPrice float64 `json:"totalPrice"`
}

// Cart is the HTTP representation of a cart.
type Cart struct {
	CartID        string     `json:"cartId"`
	Items         []CartLine `json:"items"`
	TotalQuantity int        `json:"totalQuantity"`
	Changed       bool       `json:"changed"`
	UpdatedAt     string     `json:"updatedAt,omitempty"`
}

// AddItemPayload captures the inbound add-to-cart body.
type AddItemPayload struct {
	ID    string  `json:"id" binding:"required"`
	Title string  `json:"title"`
	Price float64 `json:"price"`
}

// ReplaceCartPayload captures the inbound wholesale replace body.
type ReplaceCartPayload struct {
	Items         []CartLine `json:"items"`
	TotalQuantity int        `json:"totalQuantity"`
}

// ToAddItemInput maps the payload onto the application command.
func ToAddItemInput(cartID string, payload AddItemPayload) carttypes.AddItemInput {
	return carttypes.AddItemInput{
		CartID:    cartID,
		ItemID:    payload.ID,
		Title:     payload.Title,
		UnitPrice: payload.Price,
	}
}

// ToReplaceInput maps the payload onto the application command.
func ToReplaceInput(cartID string, payload ReplaceCartPayload) carttypes.ReplaceCartInput {
	items := make([]domain.Line, 0, len(payload.Items))
	for _, line := range payload.Items {
		items = append(items, domain.Line{
			ID:         line.ID,
			Name:       line.Name,
			UnitPrice:  line.Price,
			Quantity:   line.Quantity,
			TotalPrice: line.TotalPrice,
		})
	}
	return carttypes.ReplaceCartInput{
		CartID:        cartID,
		Items:         items,
		TotalQuantity: payload.TotalQuantity,
	}
}

// FromProjection maps a cart projection onto the HTTP representation.
func FromProjection(projection *carttypes.CartProjection) Cart {
	if projection == nil || projection.Cart == nil {
		return Cart{Items: []CartLine{}}
	}
	cart := Cart{
		CartID:        projection.Cart.ID,
		Items:         make([]CartLine, 0, len(projection.Cart.Lines)),
		TotalQuantity: projection.Cart.TotalQuantity,
		Changed:       projection.Cart.Changed,
	}
	if !projection.Metadata.UpdatedAt.IsZero() {
		cart.UpdatedAt = projection.Metadata.UpdatedAt.UTC().Format(time.RFC3339Nano)
	}
	for _, line := range projection.Cart.Lines {
		cart.Items = append(cart.Items, CartLine{
			ID:         line.ID,
			Name:       line.Name,
			Price:      line.UnitPrice,
			Quantity:   line.Quantity,
			TotalPrice: line.TotalPrice,
		})
	}
	return cart
}

// FromProjectionList maps a list of projections.
func FromProjectionList(projections []*carttypes.CartProjection) []Cart {
	result := make([]Cart, 0, len(projections))
	for _, projection := range projections {
		result = append(result, FromProjection(projection))
	}
	return result
}
