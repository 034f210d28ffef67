package service

import (
	"testing"
	"time"

	"github.com/loomcart/loomcart/internal/api/dto"
	"github.com/loomcart/loomcart/internal/domain/coupon"
	"github.com/loomcart/loomcart/internal/domain/customer"
	ierr "github.com/loomcart/loomcart/internal/errors"
	"github.com/loomcart/loomcart/internal/testutil"
	"github.com/loomcart/loomcart/internal/types"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

type CouponServiceSuite struct {
	testutil.BaseServiceTestSuite
	couponService CouponService
	couponRepo    *testutil.InMemoryCouponStore
	customerRepo  *testutil.InMemoryCustomerStore
}

func TestCouponService(t *testing.T) {
	suite.Run(t, new(CouponServiceSuite))
}

func (s *CouponServiceSuite) SetupTest() {
	s.BaseServiceTestSuite.SetupTest()
	s.setupService()
	s.setupTestData()
}

func (s *CouponServiceSuite) setupService() {
	stores := s.GetStores()
	s.couponRepo = stores.CouponRepo.(*testutil.InMemoryCouponStore)
	s.customerRepo = stores.CustomerRepo.(*testutil.InMemoryCustomerStore)

	s.couponService = NewCouponService(ServiceParams{
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

func (s *CouponServiceSuite) setupTestData() {
	err := s.customerRepo.Create(s.GetContext(), &customer.Customer{
		ID:         "cust_1",
		ExternalID: "ext-1",
		Name:       "Test Customer",
		BaseModel:  types.GetDefaultBaseModel(s.GetContext()),
	})
	s.NoError(err)
}

func (s *CouponServiceSuite) createCoupon(req *dto.CreateCouponRequest) *dto.CouponResponse {
	resp, err := s.couponService.CreateCoupon(s.GetContext(), req)
	s.NoError(err)
	return resp
}

func (s *CouponServiceSuite) TestCreateCoupon() {
	testCases := []struct {
		name          string
		req           *dto.CreateCouponRequest
		expectedError bool
	}{
		{
			name: "successful_creation",
			req: &dto.CreateCouponRequest{
				Code:               "SUMMER20",
				DiscountPercentage: 20,
				MinimumAmount:      decimal.NewFromInt(50),
				ExpiresAt:          s.GetNow().AddDate(0, 1, 0),
				CustomerID:         "cust_1",
			},
		},
		{
			name: "discount_over_cap",
			req: &dto.CreateCouponRequest{
				Code:               "TOOBIG",
				DiscountPercentage: 61,
				ExpiresAt:          s.GetNow().AddDate(0, 1, 0),
				CustomerID:         "cust_1",
			},
			expectedError: true,
		},
		{
			name: "expiry_in_the_past",
			req: &dto.CreateCouponRequest{
				Code:               "STALE",
				DiscountPercentage: 10,
				ExpiresAt:          s.GetNow().AddDate(0, -1, 0),
				CustomerID:         "cust_1",
			},
			expectedError: true,
		},
		{
			name: "unknown_owner",
			req: &dto.CreateCouponRequest{
				Code:               "ORPHAN",
				DiscountPercentage: 10,
				ExpiresAt:          s.GetNow().AddDate(0, 1, 0),
				CustomerID:         "cust_missing",
			},
			expectedError: true,
		},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			resp, err := s.couponService.CreateCoupon(s.GetContext(), tc.req)
			if tc.expectedError {
				s.Error(err)
			} else {
				s.NoError(err)
				s.Equal(tc.req.Code, resp.Code)
				s.True(resp.IsActive)
			}
		})
	}
}

func (s *CouponServiceSuite) TestCreateCouponDuplicateCode() {
	req := &dto.CreateCouponRequest{
		Code:               "ONCE",
		DiscountPercentage: 10,
		ExpiresAt:          s.GetNow().AddDate(0, 1, 0),
		CustomerID:         "cust_1",
	}
	s.createCoupon(req)

	_, err := s.couponService.CreateCoupon(s.GetContext(), req)
	s.Error(err)
	s.True(ierr.IsAlreadyExists(err))
}

func (s *CouponServiceSuite) TestValidateCoupon() {
	s.createCoupon(&dto.CreateCouponRequest{
		Code:               "SAVE25",
		DiscountPercentage: 25,
		MinimumAmount:      decimal.NewFromInt(100),
		ExpiresAt:          s.GetNow().AddDate(0, 1, 0),
		CustomerID:         "cust_1",
	})

	testCases := []struct {
		name           string
		customerID     string
		req            *dto.ValidateCouponRequest
		expectedValid  bool
		expectedReason string
	}{
		{
			name:          "valid_above_minimum",
			customerID:    "cust_1",
			req:           &dto.ValidateCouponRequest{Code: "SAVE25", OrderTotal: decimal.NewFromInt(200)},
			expectedValid: true,
		},
		{
			name:           "below_minimum",
			customerID:     "cust_1",
			req:            &dto.ValidateCouponRequest{Code: "SAVE25", OrderTotal: decimal.NewFromInt(50)},
			expectedReason: dto.CouponReasonMinimumAmount,
		},
		{
			name:           "not_the_owner",
			customerID:     "cust_2",
			req:            &dto.ValidateCouponRequest{Code: "SAVE25", OrderTotal: decimal.NewFromInt(200)},
			expectedReason: dto.CouponReasonNotOwned,
		},
		{
			name:           "unknown_code",
			customerID:     "cust_1",
			req:            &dto.ValidateCouponRequest{Code: "NOPE", OrderTotal: decimal.NewFromInt(200)},
			expectedReason: dto.CouponReasonNotFound,
		},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			resp, err := s.couponService.ValidateCoupon(s.GetContext(), tc.customerID, tc.req)
			s.NoError(err)
			s.Equal(tc.expectedValid, resp.Valid)
			if !tc.expectedValid {
				s.Equal(tc.expectedReason, resp.Reason)
				s.True(resp.FinalAmount.Equal(tc.req.OrderTotal), "no discount applies to an invalid coupon")
			}
		})
	}
}

func (s *CouponServiceSuite) TestValidateCouponComputesDiscount() {
	s.createCoupon(&dto.CreateCouponRequest{
		Code:               "SAVE25",
		DiscountPercentage: 25,
		MinimumAmount:      decimal.NewFromInt(100),
		ExpiresAt:          s.GetNow().AddDate(0, 1, 0),
		CustomerID:         "cust_1",
	})

	resp, err := s.couponService.ValidateCoupon(s.GetContext(), "cust_1", &dto.ValidateCouponRequest{
		Code:       "SAVE25",
		OrderTotal: decimal.NewFromInt(200),
	})
	s.NoError(err)
	s.True(resp.Valid)
	s.Equal(25, resp.DiscountPercentage)
	s.True(resp.DiscountAmount.Equal(decimal.NewFromInt(50)))
	s.True(resp.FinalAmount.Equal(decimal.NewFromInt(150)))
}

func (s *CouponServiceSuite) TestValidateCouponDeactivatesExpired() {
	// Seed directly: CreateCoupon rejects past expiry dates.
	err := s.couponRepo.Create(s.GetContext(), &coupon.Coupon{
		ID:                 types.GenerateUUIDWithPrefix(types.UUID_PREFIX_COUPON),
		Code:               "EXPIRED",
		DiscountPercentage: 10,
		MinimumAmount:      decimal.Zero,
		ExpiresAt:          s.GetNow().AddDate(0, -1, 0),
		IsActive:           true,
		CustomerID:         "cust_1",
		BaseModel:          types.GetDefaultBaseModel(s.GetContext()),
	})
	s.NoError(err)

	resp, err := s.couponService.ValidateCoupon(s.GetContext(), "cust_1", &dto.ValidateCouponRequest{
		Code:       "EXPIRED",
		OrderTotal: decimal.NewFromInt(500),
	})
	s.NoError(err)
	s.False(resp.Valid)
	s.Equal(dto.CouponReasonExpired, resp.Reason)

	stored, err := s.couponRepo.GetByCode(s.GetContext(), "EXPIRED")
	s.NoError(err)
	s.False(stored.IsActive, "expired coupons deactivate on the first validation attempt")
}

func (s *CouponServiceSuite) TestIssueVIPCoupon() {
	c, err := s.couponService.IssueVIPCoupon(s.GetContext(), "cust_1", types.VIPTierGold)
	s.NoError(err)
	s.Equal(30, c.DiscountPercentage)
	s.True(c.MinimumAmount.Equal(decimal.NewFromInt(150)))
	s.WithinDuration(time.Now().UTC().AddDate(0, 0, 120), c.ExpiresAt, time.Minute)
	s.Equal(types.VIPTierGold, c.Tier)

	_, err = s.couponService.IssueVIPCoupon(s.GetContext(), "cust_1", types.VIPTierNone)
	s.Error(err)
	s.True(ierr.IsInvalidOperation(err))
}

func (s *CouponServiceSuite) TestRedeemCoupon() {
	s.createCoupon(&dto.CreateCouponRequest{
		Code:               "SAVE25",
		DiscountPercentage: 25,
		MinimumAmount:      decimal.NewFromInt(100),
		ExpiresAt:          s.GetNow().AddDate(0, 1, 0),
		CustomerID:         "cust_1",
	})

	c, discount, err := s.couponService.RedeemCoupon(s.GetContext(), "cust_1", "SAVE25", decimal.NewFromInt(200))
	s.NoError(err)
	s.True(discount.Equal(decimal.NewFromInt(50)))
	s.False(c.IsActive, "redemption consumes the coupon")

	// Second redemption fails: the coupon is spent.
	_, _, err = s.couponService.RedeemCoupon(s.GetContext(), "cust_1", "SAVE25", decimal.NewFromInt(200))
	s.Error(err)
	s.True(ierr.IsInvalidOperation(err))
}

func (s *CouponServiceSuite) TestListCouponsByCustomer() {
	s.createCoupon(&dto.CreateCouponRequest{
		Code:               "A10",
		DiscountPercentage: 10,
		ExpiresAt:          s.GetNow().AddDate(0, 1, 0),
		CustomerID:         "cust_1",
	})
	s.createCoupon(&dto.CreateCouponRequest{
		Code:               "B20",
		DiscountPercentage: 20,
		ExpiresAt:          s.GetNow().AddDate(0, 1, 0),
		CustomerID:         "cust_1",
	})

	resp, err := s.couponService.ListCouponsByCustomer(s.GetContext(), "cust_1")
	s.NoError(err)
	s.Equal(2, resp.Total)
	s.Len(resp.Items, 2)
}

func (s *CouponServiceSuite) TestGetCouponByIDOrCode() {
	created := s.createCoupon(&dto.CreateCouponRequest{
		Code:               "SPRING10",
		DiscountPercentage: 10,
		ExpiresAt:          s.GetNow().AddDate(0, 1, 0),
		CustomerID:         "cust_1",
	})

	byID, err := s.couponService.GetCoupon(s.GetContext(), created.ID)
	s.NoError(err)
	s.Equal("SPRING10", byID.Code)

	byCode, err := s.couponService.GetCoupon(s.GetContext(), "SPRING10")
	s.NoError(err)
	s.Equal(created.ID, byCode.ID)

	_, err = s.couponService.GetCoupon(s.GetContext(), "NOPE")
	s.Error(err)
	s.True(ierr.IsNotFound(err))
}
