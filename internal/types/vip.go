package types

import "github.com/shopspring/decimal"

// VIPTier represents the benefit tier a customer qualifies for based on
// their spending history. Tiers are ordered: none < bronze < silver < gold
// < platinum.
type VIPTier string

const (
	VIPTierNone     VIPTier = "none"
	VIPTierBronze   VIPTier = "bronze"
	VIPTierSilver   VIPTier = "silver"
	VIPTierGold     VIPTier = "gold"
	VIPTierPlatinum VIPTier = "platinum"
)

var vipTierRank = map[VIPTier]int{
	VIPTierNone:     0,
	VIPTierBronze:   1,
	VIPTierSilver:   2,
	VIPTierGold:     3,
	VIPTierPlatinum: 4,
}

// Rank returns the ordinal position of the tier for comparisons.
// Unknown tiers rank below none.
func (t VIPTier) Rank() int {
	if r, ok := vipTierRank[t]; ok {
		return r
	}
	return -1
}

// AtLeast reports whether t is the same tier as other or a better one
func (t VIPTier) AtLeast(other VIPTier) bool {
	return t.Rank() >= other.Rank()
}

// VIPRejectionReason enumerates the outcomes of a claim attempt that did not
// produce a coupon. These are expected outcomes, not errors.
type VIPRejectionReason string

const (
	VIPRejectionNotQualified VIPRejectionReason = "not_qualified"
	VIPRejectionInCooldown   VIPRejectionReason = "in_cooldown"
	VIPRejectionActiveCoupon VIPRejectionReason = "already_has_vip_coupon"
	VIPRejectionNotSelected  VIPRejectionReason = "not_selected"
)

// VIPCouponCodePrefix marks coupons issued by the VIP program
const VIPCouponCodePrefix = "VIP"

// VIPBenefit is the coupon terms attached to a tier. Better tiers get a
// deeper discount, a lower spend floor and a longer validity window.
type VIPBenefit struct {
	DiscountPercentage int
	MinimumAmount      decimal.Decimal
	ValidityDays       int
}

var vipBenefitSchedule = map[VIPTier]VIPBenefit{
	VIPTierPlatinum: {DiscountPercentage: 35, MinimumAmount: decimal.NewFromInt(100), ValidityDays: 180},
	VIPTierGold:     {DiscountPercentage: 30, MinimumAmount: decimal.NewFromInt(150), ValidityDays: 120},
	VIPTierSilver:   {DiscountPercentage: 25, MinimumAmount: decimal.NewFromInt(200), ValidityDays: 90},
	VIPTierBronze:   {DiscountPercentage: 20, MinimumAmount: decimal.NewFromInt(250), ValidityDays: 90},
}

// Benefit returns the coupon terms for the tier and whether the tier has any
func (t VIPTier) Benefit() (VIPBenefit, bool) {
	b, ok := vipBenefitSchedule[t]
	return b, ok
}
