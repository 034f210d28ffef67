package product

import (
	"github.com/loomcart/loomcart/internal/types"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

// Product represents a sellable item. Apparel products carry a size list and
// track stock per size; everything else tracks a single stock count.
type Product struct {
	ID    string          `db:"id" json:"id"`
	Name  string          `db:"name" json:"name"`
	Price decimal.Decimal `db:"price" json:"price"`

	// Sizes lists the size labels a sized product is sold in. Empty for
	// unsized products.
	Sizes []string `db:"-" json:"sizes,omitempty"`

	// Stock is the available count for unsized products
	Stock int `db:"stock" json:"stock"`

	// SizeStock maps size label to available count for sized products.
	// Every listed size has an entry; a missing entry counts as zero.
	SizeStock map[string]int `db:"-" json:"size_stock,omitempty"`

	types.BaseModel
}

// HasSizes reports whether the product is sold in sizes
func (p *Product) HasSizes() bool {
	return len(p.Sizes) > 0
}

// AvailableStock returns the sellable count for the given size. The second
// return value is false when the product is sized and no size was given, in
// which case the count cannot be determined and a size selection is required.
// Negative and unknown-size counts clamp to zero.
func (p *Product) AvailableStock(size string) (int, bool) {
	if !p.HasSizes() {
		return lo.Max([]int{p.Stock, 0}), true
	}

	if size == "" {
		return 0, false
	}

	return lo.Max([]int{p.SizeStock[size], 0}), true
}
