package service

import (
	"testing"

	"github.com/loomcart/loomcart/internal/api/dto"
	ierr "github.com/loomcart/loomcart/internal/errors"
	"github.com/loomcart/loomcart/internal/testutil"
	"github.com/stretchr/testify/suite"
)

type CustomerServiceSuite struct {
	testutil.BaseServiceTestSuite
	customerService CustomerService
}

func TestCustomerService(t *testing.T) {
	suite.Run(t, new(CustomerServiceSuite))
}

func (s *CustomerServiceSuite) SetupTest() {
	s.BaseServiceTestSuite.SetupTest()

	stores := s.GetStores()
	s.customerService = NewCustomerService(ServiceParams{
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

func (s *CustomerServiceSuite) TestCreateCustomer() {
	testCases := []struct {
		name          string
		req           *dto.CreateCustomerRequest
		expectedError bool
	}{
		{
			name: "success",
			req: &dto.CreateCustomerRequest{
				ExternalID: "ext_1",
				Name:       "Ada",
				Email:      "ada@example.com",
			},
		},
		{
			name: "no_email",
			req: &dto.CreateCustomerRequest{
				ExternalID: "ext_2",
				Name:       "Grace",
			},
		},
		{
			name: "missing_external_id",
			req: &dto.CreateCustomerRequest{
				Name: "Ada",
			},
			expectedError: true,
		},
		{
			name: "invalid_email",
			req: &dto.CreateCustomerRequest{
				ExternalID: "ext_3",
				Name:       "Ada",
				Email:      "not-an-email",
			},
			expectedError: true,
		},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			resp, err := s.customerService.CreateCustomer(s.GetContext(), tc.req)
			if tc.expectedError {
				s.Error(err)
				return
			}
			s.NoError(err)
			s.NotEmpty(resp.ID)
			s.Equal(tc.req.ExternalID, resp.ExternalID)
		})
	}
}

func (s *CustomerServiceSuite) TestGetCustomer() {
	created, err := s.customerService.CreateCustomer(s.GetContext(), &dto.CreateCustomerRequest{
		ExternalID: "ext_1",
		Name:       "Ada",
	})
	s.NoError(err)

	resp, err := s.customerService.GetCustomer(s.GetContext(), created.ID)
	s.NoError(err)
	s.Equal("Ada", resp.Name)

	_, err = s.customerService.GetCustomer(s.GetContext(), "cust_missing")
	s.Error(err)
	s.True(ierr.IsNotFound(err))
}

func (s *CustomerServiceSuite) TestGetCustomerByExternalID() {
	created, err := s.customerService.CreateCustomer(s.GetContext(), &dto.CreateCustomerRequest{
		ExternalID: "ext_1",
		Name:       "Ada",
	})
	s.NoError(err)

	resp, err := s.customerService.GetCustomerByExternalID(s.GetContext(), "ext_1")
	s.NoError(err)
	s.Equal(created.ID, resp.ID)

	_, err = s.customerService.GetCustomerByExternalID(s.GetContext(), "ext_unknown")
	s.Error(err)
	s.True(ierr.IsNotFound(err))
}
