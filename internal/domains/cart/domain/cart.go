package domain

import (
	"errors"
	"strings"
)

// Line is one product entry in a cart, carrying the aggregated quantity and price.
type Line struct {
	ID         string
	Name       string
	UnitPrice  float64
	Quantity   int
	TotalPrice float64
}

// Snapshot is the persistable view of a cart: the lines plus their aggregated
// quantity. The dirty flag is deliberately not part of it.
type Snapshot struct {
	Items         []Line
	TotalQuantity int
}

// Cart is the aggregate managed by the cart bounded context. Lines keep their
// insertion order and hold unique IDs; TotalQuantity always equals the sum of
// line quantities, and every line keeps TotalPrice == UnitPrice * Quantity.
// Changed marks that local state diverges from the last known remote state.
type Cart struct {
	ID            string
	Lines         []Line
	TotalQuantity int
	Changed       bool
}

var (
	ErrEmptyCartID  = errors.New("cart id is required")
	ErrEmptyItemID  = errors.New("item id is required")
	ErrInvalidPrice = errors.New("item price must be greater or equal to zero")
)

// NewCart builds an empty cart for the given id.
func NewCart(id string) (*Cart, error) {
	if strings.TrimSpace(id) == "" {
		return nil, ErrEmptyCartID
	}
	return &Cart{ID: id}, nil
}

// AddItem adds one unit of the product to the cart. A new line starts at
// quantity 1; an existing line keeps its first-seen name and unit price and
// only grows. The cart is marked dirty.
func (c *Cart) AddItem(itemID, name string, unitPrice float64) error {
	if strings.TrimSpace(itemID) == "" {
		return ErrEmptyItemID
	}
	if unitPrice < 0 {
		return ErrInvalidPrice
	}
	if line := c.line(itemID); line != nil {
		line.Quantity++
		line.TotalPrice += line.UnitPrice
	} else {
		c.Lines = append(c.Lines, Line{
			ID:         itemID,
			Name:       name,
			UnitPrice:  unitPrice,
			Quantity:   1,
			TotalPrice: unitPrice,
		})
	}
	c.TotalQuantity++
	c.Changed = true
	return nil
}

// RemoveItem removes one unit of the product. Unknown ids are a no-op; the
// guarded decrement keeps quantities and the total from ever going negative.
// It reports whether the cart was mutated.
func (c *Cart) RemoveItem(itemID string) bool {
	idx := c.lineIndex(itemID)
	if idx < 0 {
		return false
	}
	line := &c.Lines[idx]
	if line.Quantity <= 1 {
		c.Lines = append(c.Lines[:idx], c.Lines[idx+1:]...)
	} else {
		line.Quantity--
		line.TotalPrice -= line.UnitPrice
	}
	c.TotalQuantity--
	c.Changed = true
	return true
}

// Replace overwrites the lines and total wholesale, typically with state
// fetched from the remote store. The dirty flag is left untouched.
func (c *Cart) Replace(lines []Line, totalQuantity int) {
	c.Lines = cloneLines(lines)
	c.TotalQuantity = totalQuantity
}

// MarkSynced records that the current state reached the remote store.
func (c *Cart) MarkSynced() {
	c.Changed = false
}

// Snapshot returns a defensive copy of the persistable cart state.
func (c *Cart) Snapshot() Snapshot {
	return Snapshot{Items: cloneLines(c.Lines), TotalQuantity: c.TotalQuantity}
}

// Clone returns a deep copy of the cart.
func (c *Cart) Clone() *Cart {
	if c == nil {
		return nil
	}
	clone := *c
	clone.Lines = cloneLines(c.Lines)
	return &clone
}

func (c *Cart) line(itemID string) *Line {
	if idx := c.lineIndex(itemID); idx >= 0 {
		return &c.Lines[idx]
	}
	return nil
}

func (c *Cart) lineIndex(itemID string) int {
	for i := range c.Lines {
		if c.Lines[i].ID == itemID {
			return i
		}
	}
	return -1
}

func cloneLines(lines []Line) []Line {
	if lines == nil {
		return nil
	}
	return append([]Line{}, lines...)
}
