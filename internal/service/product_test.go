package service

import (
	"testing"

	"github.com/loomcart/loomcart/internal/api/dto"
	ierr "github.com/loomcart/loomcart/internal/errors"
	"github.com/loomcart/loomcart/internal/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

type ProductServiceSuite struct {
	testutil.BaseServiceTestSuite
	productService ProductService
	productRepo    *testutil.InMemoryProductStore
}

func TestProductService(t *testing.T) {
	suite.Run(t, new(ProductServiceSuite))
}

func (s *ProductServiceSuite) SetupTest() {
	s.BaseServiceTestSuite.SetupTest()
	s.setupService()
}

func (s *ProductServiceSuite) setupService() {
	stores := s.GetStores()
	s.productRepo = stores.ProductRepo.(*testutil.InMemoryProductStore)

	s.productService = NewProductService(ServiceParams{
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

func (s *ProductServiceSuite) TestCreateProduct() {
	testCases := []struct {
		name          string
		req           *dto.CreateProductRequest
		expectedError bool
	}{
		{
			name: "unsized_product",
			req: &dto.CreateProductRequest{
				Name:  "Mug",
				Price: decimal.NewFromInt(12),
				Stock: 40,
			},
		},
		{
			name: "sized_product",
			req: &dto.CreateProductRequest{
				Name:      "Shirt",
				Price:     decimal.NewFromInt(25),
				Sizes:     []string{"S", "M", "L"},
				SizeStock: map[string]int{"S": 5, "M": 10},
			},
		},
		{
			name: "missing_name",
			req: &dto.CreateProductRequest{
				Price: decimal.NewFromInt(12),
			},
			expectedError: true,
		},
		{
			name: "negative_price",
			req: &dto.CreateProductRequest{
				Name:  "Mug",
				Price: decimal.NewFromInt(-1),
			},
			expectedError: true,
		},
		{
			name: "negative_size_stock",
			req: &dto.CreateProductRequest{
				Name:      "Shirt",
				Price:     decimal.NewFromInt(25),
				Sizes:     []string{"S"},
				SizeStock: map[string]int{"S": -2},
			},
			expectedError: true,
		},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			resp, err := s.productService.CreateProduct(s.GetContext(), tc.req)
			if tc.expectedError {
				s.Error(err)
				return
			}
			s.NoError(err)
			s.NotNil(resp)
			s.NotEmpty(resp.ID)
		})
	}
}

func (s *ProductServiceSuite) TestCreateProductSeedsEveryListedSize() {
	resp, err := s.productService.CreateProduct(s.GetContext(), &dto.CreateProductRequest{
		Name:      "Shirt",
		Price:     decimal.NewFromInt(25),
		Sizes:     []string{"S", "M", "L"},
		SizeStock: map[string]int{"M": 10},
	})
	s.NoError(err)

	// Unsupplied sizes start at zero rather than being absent.
	s.Equal(map[string]int{"S": 0, "M": 10, "L": 0}, resp.SizeStock)
}

func (s *ProductServiceSuite) TestGetProduct() {
	created, err := s.productService.CreateProduct(s.GetContext(), &dto.CreateProductRequest{
		Name:  "Mug",
		Price: decimal.NewFromInt(12),
		Stock: 40,
	})
	s.NoError(err)

	resp, err := s.productService.GetProduct(s.GetContext(), created.ID)
	s.NoError(err)
	s.Equal("Mug", resp.Name)
	s.Equal(40, resp.Stock)

	// Served from cache on the second read.
	resp, err = s.productService.GetProduct(s.GetContext(), created.ID)
	s.NoError(err)
	s.Equal(created.ID, resp.ID)

	_, err = s.productService.GetProduct(s.GetContext(), "prod_missing")
	s.Error(err)
	s.True(ierr.IsNotFound(err))
}

func (s *ProductServiceSuite) TestListProducts() {
	for _, name := range []string{"Mug", "Shirt", "Cap"} {
		_, err := s.productService.CreateProduct(s.GetContext(), &dto.CreateProductRequest{
			Name:  name,
			Price: decimal.NewFromInt(10),
			Stock: 5,
		})
		s.NoError(err)
	}

	resp, err := s.productService.ListProducts(s.GetContext())
	s.NoError(err)
	s.Equal(3, resp.Total)
	s.Len(resp.Items, 3)
}

func (s *ProductServiceSuite) TestUpdateStockUnsized() {
	created, err := s.productService.CreateProduct(s.GetContext(), &dto.CreateProductRequest{
		Name:  "Mug",
		Price: decimal.NewFromInt(12),
		Stock: 40,
	})
	s.NoError(err)

	stock := 15
	resp, err := s.productService.UpdateStock(s.GetContext(), created.ID, &dto.UpdateStockRequest{Stock: &stock})
	s.NoError(err)
	s.Equal(15, resp.Stock)

	// A sized payload against an unsized product is rejected.
	_, err = s.productService.UpdateStock(s.GetContext(), created.ID, &dto.UpdateStockRequest{
		SizeStock: map[string]int{"M": 3},
	})
	s.Error(err)
	s.True(ierr.IsValidation(err))
}

func (s *ProductServiceSuite) TestUpdateStockSizedMustCoverAllSizes() {
	created, err := s.productService.CreateProduct(s.GetContext(), &dto.CreateProductRequest{
		Name:      "Shirt",
		Price:     decimal.NewFromInt(25),
		Sizes:     []string{"S", "M", "L"},
		SizeStock: map[string]int{"S": 5, "M": 10, "L": 2},
	})
	s.NoError(err)

	_, err = s.productService.UpdateStock(s.GetContext(), created.ID, &dto.UpdateStockRequest{
		SizeStock: map[string]int{"S": 1, "M": 1},
	})
	s.Error(err)
	s.True(ierr.IsValidation(err))

	resp, err := s.productService.UpdateStock(s.GetContext(), created.ID, &dto.UpdateStockRequest{
		SizeStock: map[string]int{"S": 1, "M": 1, "L": 1},
	})
	s.NoError(err)
	s.Equal(map[string]int{"S": 1, "M": 1, "L": 1}, resp.SizeStock)
}

func (s *ProductServiceSuite) TestUpdateStockInvalidatesCachedProduct() {
	created, err := s.productService.CreateProduct(s.GetContext(), &dto.CreateProductRequest{
		Name:  "Mug",
		Price: decimal.NewFromInt(12),
		Stock: 40,
	})
	s.NoError(err)

	// Prime the cache.
	_, err = s.productService.GetProduct(s.GetContext(), created.ID)
	s.NoError(err)

	stock := 7
	_, err = s.productService.UpdateStock(s.GetContext(), created.ID, &dto.UpdateStockRequest{Stock: &stock})
	s.NoError(err)

	resp, err := s.productService.GetProduct(s.GetContext(), created.ID)
	s.NoError(err)
	s.Equal(7, resp.Stock)
}
