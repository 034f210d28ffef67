package cart

import (
	"github.com/loomcart/loomcart/internal/types"
)

// Cart holds a customer's pending line items. There is exactly one cart per
// customer; lines are embedded, never shared.
type Cart struct {
	ID         string `db:"id" json:"id"`
	CustomerID string `db:"customer_id" json:"customer_id"`
	Lines      []Line `db:"-" json:"lines"`

	types.BaseModel
}

// Line is one cart entry. Lines are unique per (ProductID, Size); the same
// product in two sizes makes two lines.
type Line struct {
	ProductID string `db:"product_id" json:"product_id"`
	Size      string `db:"size" json:"size,omitempty"`
	Quantity  int    `db:"quantity" json:"quantity"`
}

// Key returns the line's identifying key
func (l Line) Key() types.CartLineKey {
	return types.CartLineKey{ProductID: l.ProductID, Size: l.Size}
}

// FindLine returns the index of the line matching key, or -1
func (c *Cart) FindLine(key types.CartLineKey) int {
	for i, l := range c.Lines {
		if l.ProductID == key.ProductID && l.Size == key.Size {
			return i
		}
	}
	return -1
}

// RemoveLine deletes the line matching key if present. Removal of an absent
// line is a no-op.
func (c *Cart) RemoveLine(key types.CartLineKey) {
	if i := c.FindLine(key); i >= 0 {
		c.Lines = append(c.Lines[:i], c.Lines[i+1:]...)
	}
}
