package dto

import (
	"github.com/loomcart/loomcart/internal/types"
	"github.com/shopspring/decimal"
)

// VIPEligibilityResponse reports how a customer stands against the VIP
// program. It always carries the raw totals so callers can show how far the
// customer is from the next threshold.
type VIPEligibilityResponse struct {
	IsEligible         bool            `json:"is_eligible"`
	MeetsBasicCriteria bool            `json:"meets_basic_criteria"`
	TotalSpent         decimal.Decimal `json:"total_spent"`
	OrderCount         int             `json:"order_count"`
	AvgOrderValue      decimal.Decimal `json:"avg_order_value"`
	Tier               types.VIPTier   `json:"tier"`
	HasVIPCoupon       bool            `json:"has_vip_coupon"`
	EligibilityReason  string          `json:"eligibility_reason"`
}

// VIPClaimResponse is the outcome of a claim attempt. Issued and Reason are
// mutually exclusive: a rejected claim is a normal outcome, not an error.
type VIPClaimResponse struct {
	Issued bool                     `json:"issued"`
	Reason types.VIPRejectionReason `json:"reason,omitempty"`
	Coupon *CouponResponse          `json:"coupon,omitempty"`
}

// VIPCustomerResult is one customer's outcome in a batch evaluation
type VIPCustomerResult struct {
	CustomerID string        `json:"customer_id"`
	Tier       types.VIPTier `json:"tier"`
	Outcome    string        `json:"outcome"`
	CouponCode string        `json:"coupon_code,omitempty"`
}

// Batch outcome labels
const (
	VIPOutcomeCreated      = "created"
	VIPOutcomeNotSelected  = "not_selected"
	VIPOutcomeInCooldown   = "in_cooldown"
	VIPOutcomeActiveCoupon = "already_has_vip_coupon"
	VIPOutcomeNotQualified = "not_qualified"
)

// VIPBatchResponse summarises a full program evaluation pass
type VIPBatchResponse struct {
	Created             int                 `json:"created"`
	EligibleNotSelected int                 `json:"eligible_not_selected"`
	InCooldown          int                 `json:"in_cooldown"`
	AlreadyHadCoupon    int                 `json:"already_had_coupon"`
	NotQualified        int                 `json:"not_qualified"`
	Results             []VIPCustomerResult `json:"results"`
}
