package service

import (
	"regexp"
	"testing"
	"time"

	"github.com/loomcart/loomcart/internal/domain/coupon"
	"github.com/loomcart/loomcart/internal/domain/order"
	"github.com/loomcart/loomcart/internal/testutil"
	"github.com/loomcart/loomcart/internal/types"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

type VIPServiceSuite struct {
	testutil.BaseServiceTestSuite
	vipService VIPService
	orderRepo  *testutil.InMemoryOrderStore
	couponRepo *testutil.InMemoryCouponStore
}

func TestVIPService(t *testing.T) {
	suite.Run(t, new(VIPServiceSuite))
}

func (s *VIPServiceSuite) SetupTest() {
	s.BaseServiceTestSuite.SetupTest()
	s.setupService()
}

func (s *VIPServiceSuite) setupService() {
	stores := s.GetStores()
	s.orderRepo = stores.OrderRepo.(*testutil.InMemoryOrderStore)
	s.couponRepo = stores.CouponRepo.(*testutil.InMemoryCouponStore)

	// Selection is deterministic per (customer, window); force full admission
	// by default so gating tests control their own rate.
	s.GetConfig().VIP.SelectionRate = 1.0

	s.vipService = NewVIPService(ServiceParams{
		Logger:       s.GetLogger(),
		Config:       s.GetConfig(),
		DB:           s.GetDB(),
		Cache:        s.GetCache(),
		CustomerRepo: stores.CustomerRepo,
		OrderRepo:    stores.OrderRepo,
		CouponRepo:   stores.CouponRepo,
		ProductRepo:  stores.ProductRepo,
		CartRepo:     stores.CartRepo,
	})
}

// blockSelection pins the selection rate below the customer's stable sample
// so the selection gate rejects them this window.
func (s *VIPServiceSuite) blockSelection(customerID string) {
	u := sampleUnit(customerID, selectionWindow(time.Now().UTC()))
	s.GetConfig().VIP.SelectionRate = u / 2
}

func (s *VIPServiceSuite) createCompletedOrders(customerID string, count int, each decimal.Decimal) {
	for i := 0; i < count; i++ {
		err := s.orderRepo.Create(s.GetContext(), &order.Order{
			ID:            types.GenerateUUIDWithPrefix(types.UUID_PREFIX_ORDER),
			CustomerID:    customerID,
			TotalAmount:   each,
			PaymentStatus: types.PaymentStatusCompleted,
			BaseModel:     types.GetDefaultBaseModel(s.GetContext()),
		})
		s.NoError(err)
	}
}

func (s *VIPServiceSuite) createVIPCoupon(customerID string, code string, active bool, createdAt time.Time, expiresAt time.Time) {
	base := types.GetDefaultBaseModel(s.GetContext())
	base.CreatedAt = createdAt
	base.UpdatedAt = createdAt

	err := s.couponRepo.Create(s.GetContext(), &coupon.Coupon{
		ID:                 types.GenerateUUIDWithPrefix(types.UUID_PREFIX_COUPON),
		Code:               code,
		DiscountPercentage: 30,
		MinimumAmount:      decimal.NewFromInt(150),
		ExpiresAt:          expiresAt,
		IsActive:           active,
		CustomerID:         customerID,
		Tier:               types.VIPTierGold,
		BaseModel:          base,
	})
	s.NoError(err)
}

func summaryOf(total int64, count int) *order.SpendingSummary {
	sum := &order.SpendingSummary{
		CustomerID: "cust_test",
		TotalSpent: decimal.NewFromInt(total),
		OrderCount: count,
	}
	sum.Normalize()
	return sum
}

func (s *VIPServiceSuite) TestTierClassification() {
	testCases := []struct {
		name     string
		summary  *order.SpendingSummary
		expected types.VIPTier
	}{
		{
			name:     "platinum_by_total_spent",
			summary:  summaryOf(2500, 10),
			expected: types.VIPTierPlatinum,
		},
		{
			name:     "platinum_by_order_count_and_avg",
			summary:  summaryOf(2400, 8),
			expected: types.VIPTierPlatinum,
		},
		{
			name:     "gold_by_total_spent",
			summary:  summaryOf(1500, 6),
			expected: types.VIPTierGold,
		},
		{
			name:     "gold_loyal_customer",
			summary:  summaryOf(1600, 8),
			expected: types.VIPTierGold,
		},
		{
			name:     "not_qualified_low_spend",
			summary:  summaryOf(500, 2),
			expected: types.VIPTierNone,
		},
		{
			name: "not_qualified_many_small_orders",
			// 9 orders of 100 clear no qualification profile
			summary:  summaryOf(900, 9),
			expected: types.VIPTierNone,
		},
		{
			name:     "not_qualified_no_history",
			summary:  summaryOf(0, 0),
			expected: types.VIPTierNone,
		},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			s.Equal(tc.expected, classifyTier(tc.summary))
		})
	}
}

func (s *VIPServiceSuite) TestTierMonotonicity() {
	// With order count fixed, a higher total never yields a lower tier.
	totals := []int64{100, 500, 900, 1100, 1300, 1600, 1900, 2100, 3000}
	prevRank := -1
	for _, total := range totals {
		tier := classifyTier(summaryOf(total, 6))
		s.GreaterOrEqual(tier.Rank(), prevRank, "total %d lowered the tier", total)
		prevRank = tier.Rank()
	}
}

func (s *VIPServiceSuite) TestEvaluateCustomerNoHistory() {
	resp, err := s.vipService.EvaluateCustomer(s.GetContext(), "cust_unknown")
	s.NoError(err)
	s.False(resp.IsEligible)
	s.False(resp.MeetsBasicCriteria)
	s.Equal(types.VIPTierNone, resp.Tier)
	s.Equal(0, resp.OrderCount)
	s.True(resp.TotalSpent.IsZero())
	s.NotEmpty(resp.EligibilityReason)
}

func (s *VIPServiceSuite) TestEvaluateCustomerIsReadOnly() {
	s.createCompletedOrders("cust_1", 10, decimal.NewFromInt(250))

	resp, err := s.vipService.EvaluateCustomer(s.GetContext(), "cust_1")
	s.NoError(err)
	s.True(resp.IsEligible)
	s.Equal(types.VIPTierPlatinum, resp.Tier)

	coupons, err := s.couponRepo.ListByCustomer(s.GetContext(), "cust_1")
	s.NoError(err)
	s.Empty(coupons, "eligibility check must not issue coupons")
}

func (s *VIPServiceSuite) TestClaimCouponIssuesPlatinum() {
	// totalSpent=2500, orderCount=10, avg=250
	s.createCompletedOrders("cust_1", 10, decimal.NewFromInt(250))

	resp, err := s.vipService.ClaimCoupon(s.GetContext(), "cust_1")
	s.NoError(err)
	s.True(resp.Issued)
	s.Empty(resp.Reason)
	s.NotNil(resp.Coupon)

	c := resp.Coupon.Coupon
	s.Regexp(regexp.MustCompile(`^VIP[A-Z0-9]{6}$`), c.Code)
	s.Equal(types.VIPTierPlatinum, c.Tier)
	s.Equal(35, c.DiscountPercentage)
	s.True(c.MinimumAmount.Equal(decimal.NewFromInt(100)))
	s.WithinDuration(time.Now().UTC().AddDate(0, 0, 180), c.ExpiresAt, time.Minute)
	s.True(c.IsActive)
	s.Equal("cust_1", c.CustomerID)
}

func (s *VIPServiceSuite) TestClaimCouponNotQualified() {
	s.createCompletedOrders("cust_1", 2, decimal.NewFromInt(100))

	resp, err := s.vipService.ClaimCoupon(s.GetContext(), "cust_1")
	s.NoError(err)
	s.False(resp.Issued)
	s.Equal(types.VIPRejectionNotQualified, resp.Reason)
	s.Nil(resp.Coupon)
}

func (s *VIPServiceSuite) TestClaimCouponWithActiveCoupon() {
	s.createCompletedOrders("cust_1", 10, decimal.NewFromInt(250))
	now := s.GetNow()
	s.createVIPCoupon("cust_1", "VIPAAAAAA", true, now.AddDate(0, -1, 0), now.AddDate(0, 2, 0))

	resp, err := s.vipService.ClaimCoupon(s.GetContext(), "cust_1")
	s.NoError(err)
	s.False(resp.Issued)
	s.Equal(types.VIPRejectionActiveCoupon, resp.Reason)
	s.NotNil(resp.Coupon, "the existing coupon is reported back")
	s.Equal("VIPAAAAAA", resp.Coupon.Code)

	coupons, err := s.couponRepo.ListByCustomer(s.GetContext(), "cust_1")
	s.NoError(err)
	s.Len(coupons, 1, "no second coupon may be created")
}

func (s *VIPServiceSuite) TestClaimCouponInCooldown() {
	s.createCompletedOrders("cust_1", 10, decimal.NewFromInt(250))
	now := s.GetNow()

	// Issued 2 months ago, already used up: still inside the 3 month window.
	s.createVIPCoupon("cust_1", "VIPBBBBBB", false, now.AddDate(0, -2, 0), now.AddDate(0, 1, 0))

	resp, err := s.vipService.ClaimCoupon(s.GetContext(), "cust_1")
	s.NoError(err)
	s.False(resp.Issued)
	s.Equal(types.VIPRejectionInCooldown, resp.Reason)
}

func (s *VIPServiceSuite) TestClaimCouponAfterCooldownExpires() {
	s.createCompletedOrders("cust_1", 10, decimal.NewFromInt(250))
	now := s.GetNow()

	// Issued 4 months ago and spent: outside the window, issuance allowed.
	s.createVIPCoupon("cust_1", "VIPCCCCCC", false, now.AddDate(0, -4, 0), now.AddDate(0, -1, 0))

	resp, err := s.vipService.ClaimCoupon(s.GetContext(), "cust_1")
	s.NoError(err)
	s.True(resp.Issued)
}

func (s *VIPServiceSuite) TestClaimCouponNotSelected() {
	s.createCompletedOrders("cust_1", 10, decimal.NewFromInt(250))
	s.blockSelection("cust_1")

	resp, err := s.vipService.ClaimCoupon(s.GetContext(), "cust_1")
	s.NoError(err)
	s.False(resp.Issued)
	s.Equal(types.VIPRejectionNotSelected, resp.Reason)

	coupons, err := s.couponRepo.ListByCustomer(s.GetContext(), "cust_1")
	s.NoError(err)
	s.Empty(coupons)
}

func (s *VIPServiceSuite) TestEvaluateAgreesWithClaim() {
	// Repeated checks inside one window must tell the customer the same
	// thing a claim would do.
	s.createCompletedOrders("cust_1", 10, decimal.NewFromInt(250))
	s.blockSelection("cust_1")

	eval, err := s.vipService.EvaluateCustomer(s.GetContext(), "cust_1")
	s.NoError(err)

	claim, err := s.vipService.ClaimCoupon(s.GetContext(), "cust_1")
	s.NoError(err)
	s.Equal(eval.IsEligible, claim.Issued)

	s.GetConfig().VIP.SelectionRate = 1.0

	eval, err = s.vipService.EvaluateCustomer(s.GetContext(), "cust_1")
	s.NoError(err)

	claim, err = s.vipService.ClaimCoupon(s.GetContext(), "cust_1")
	s.NoError(err)
	s.Equal(eval.IsEligible, claim.Issued)
}

func (s *VIPServiceSuite) TestClaimCouponRequiresCustomerID() {
	_, err := s.vipService.ClaimCoupon(s.GetContext(), "")
	s.Error(err)
}

func (s *VIPServiceSuite) TestEvaluateBatch() {
	now := s.GetNow()

	// Qualifies, gets a coupon.
	s.createCompletedOrders("cust_new", 10, decimal.NewFromInt(250))
	// Qualifies but already holds an active coupon.
	s.createCompletedOrders("cust_held", 10, decimal.NewFromInt(300))
	s.createVIPCoupon("cust_held", "VIPDDDDDD", true, now.AddDate(0, -1, 0), now.AddDate(0, 2, 0))
	// Qualifies but sits in cooldown.
	s.createCompletedOrders("cust_cool", 10, decimal.NewFromInt(300))
	s.createVIPCoupon("cust_cool", "VIPEEEEEE", false, now.AddDate(0, -2, 0), now.AddDate(0, 1, 0))
	// Does not qualify.
	s.createCompletedOrders("cust_small", 1, decimal.NewFromInt(100))

	resp, err := s.vipService.EvaluateBatch(s.GetContext())
	s.NoError(err)
	s.Equal(1, resp.Created)
	s.Equal(1, resp.AlreadyHadCoupon)
	s.Equal(1, resp.InCooldown)
	s.Equal(1, resp.NotQualified)
	s.Equal(0, resp.EligibleNotSelected)
	s.Len(resp.Results, 4)

	coupons, err := s.couponRepo.ListByCustomer(s.GetContext(), "cust_new")
	s.NoError(err)
	s.Len(coupons, 1)
	s.Equal(types.VIPTierPlatinum, coupons[0].Tier)
}
