package types

// PaymentStatus represents the payment state of an order. Only completed
// orders count towards a customer's spending aggregate.
type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusCompleted PaymentStatus = "completed"
	PaymentStatusRefunded  PaymentStatus = "refunded"
)
