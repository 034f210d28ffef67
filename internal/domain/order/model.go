package order

import (
	"time"

	"github.com/loomcart/loomcart/internal/types"
	"github.com/shopspring/decimal"
)

// Order represents a completed (or pending) purchase
type Order struct {
	ID            string              `db:"id" json:"id"`
	CustomerID    string              `db:"customer_id" json:"customer_id"`
	TotalAmount   decimal.Decimal     `db:"total_amount" json:"total_amount"`
	PaymentStatus types.PaymentStatus `db:"payment_status" json:"payment_status"`
	CouponCode    *string             `db:"coupon_code" json:"coupon_code,omitempty"`
	Items         []LineItem          `db:"-" json:"items"`

	types.BaseModel
}

// LineItem is a priced snapshot of a cart line at checkout time
type LineItem struct {
	OrderID   string          `db:"order_id" json:"-"`
	ProductID string          `db:"product_id" json:"product_id"`
	Size      string          `db:"size" json:"size,omitempty"`
	Quantity  int             `db:"quantity" json:"quantity"`
	UnitPrice decimal.Decimal `db:"unit_price" json:"unit_price"`
}

// SpendingSummary is the derived spending aggregate for one customer,
// computed over completed orders only. It is never persisted.
type SpendingSummary struct {
	CustomerID    string          `db:"customer_id" json:"customer_id"`
	TotalSpent    decimal.Decimal `db:"total_spent" json:"total_spent"`
	OrderCount    int             `db:"order_count" json:"order_count"`
	AvgOrderValue decimal.Decimal `db:"avg_order_value" json:"avg_order_value"`
	FirstOrderAt  *time.Time      `db:"first_order_at" json:"first_order_at,omitempty"`
	LastOrderAt   *time.Time      `db:"last_order_at" json:"last_order_at,omitempty"`
}

// Normalize recomputes the average so the aggregate invariant
// avg == total / count holds regardless of how the summary was produced.
func (s *SpendingSummary) Normalize() {
	if s.OrderCount > 0 {
		s.AvgOrderValue = s.TotalSpent.Div(decimal.NewFromInt(int64(s.OrderCount)))
	} else {
		s.AvgOrderValue = decimal.Zero
	}
}
