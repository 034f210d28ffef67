package service

import (
	"context"

	"github.com/loomcart/loomcart/internal/api/dto"
	"github.com/loomcart/loomcart/internal/cache"
	"github.com/loomcart/loomcart/internal/domain/product"
	ierr "github.com/loomcart/loomcart/internal/errors"
	"github.com/loomcart/loomcart/internal/types"
	"github.com/samber/lo"
)

// ProductService manages the catalog and stock counts
type ProductService interface {
	CreateProduct(ctx context.Context, req *dto.CreateProductRequest) (*dto.ProductResponse, error)
	GetProduct(ctx context.Context, id string) (*dto.ProductResponse, error)
	ListProducts(ctx context.Context) (*dto.ListProductsResponse, error)

	// UpdateStock replaces the product's stock counts. Restocking a sized
	// product must cover every listed size.
	UpdateStock(ctx context.Context, id string, req *dto.UpdateStockRequest) (*dto.ProductResponse, error)
}

type productService struct {
	ServiceParams
}

// NewProductService creates a new product service
func NewProductService(params ServiceParams) ProductService {
	return &productService{ServiceParams: params}
}

func (s *productService) CreateProduct(ctx context.Context, req *dto.CreateProductRequest) (*dto.ProductResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	p := &product.Product{
		ID:        types.GenerateUUIDWithPrefix(types.UUID_PREFIX_PRODUCT),
		Name:      req.Name,
		Price:     req.Price,
		Sizes:     req.Sizes,
		BaseModel: types.GetDefaultBaseModel(ctx),
	}

	if len(req.Sizes) > 0 {
		// Every listed size carries a count; unsupplied sizes start at zero.
		p.SizeStock = make(map[string]int, len(req.Sizes))
		for _, size := range req.Sizes {
			p.SizeStock[size] = req.SizeStock[size]
		}
	} else {
		p.Stock = req.Stock
	}

	if err := s.ProductRepo.Create(ctx, p); err != nil {
		return nil, err
	}

	return dto.NewProductResponse(p), nil
}

func (s *productService) GetProduct(ctx context.Context, id string) (*dto.ProductResponse, error) {
	cacheKey := cache.GenerateKey(cache.PrefixProduct, id)
	if cached, found := s.Cache.Get(ctx, cacheKey); found {
		if p, ok := cached.(*product.Product); ok {
			return dto.NewProductResponse(p), nil
		}
	}

	p, err := s.ProductRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	s.Cache.Set(ctx, cacheKey, p, cache.DefaultExpiration)
	return dto.NewProductResponse(p), nil
}

func (s *productService) ListProducts(ctx context.Context) (*dto.ListProductsResponse, error) {
	products, err := s.ProductRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	return &dto.ListProductsResponse{
		Items: lo.Map(products, func(p *product.Product, _ int) *dto.ProductResponse {
			return dto.NewProductResponse(p)
		}),
		Total: len(products),
	}, nil
}

func (s *productService) UpdateStock(ctx context.Context, id string, req *dto.UpdateStockRequest) (*dto.ProductResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	p, err := s.ProductRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if p.HasSizes() {
		if req.SizeStock == nil {
			return nil, ierr.NewError("size_stock is required for sized products").
				WithHint("Provide a count for every listed size").
				Mark(ierr.ErrValidation)
		}
		missing := lo.Filter(p.Sizes, func(size string, _ int) bool {
			_, ok := req.SizeStock[size]
			return !ok
		})
		if len(missing) > 0 {
			return nil, ierr.NewError("size_stock must cover every listed size").
				WithHint("Provide a count for every listed size").
				WithReportableDetails(map[string]any{"missing_sizes": missing}).
				Mark(ierr.ErrValidation)
		}
		p.SizeStock = req.SizeStock
	} else {
		if req.Stock == nil {
			return nil, ierr.NewError("stock is required for unsized products").
				WithHint("Provide a stock count").
				Mark(ierr.ErrValidation)
		}
		p.Stock = *req.Stock
	}

	if err := s.ProductRepo.Update(ctx, p); err != nil {
		return nil, err
	}

	s.Cache.Delete(ctx, cache.GenerateKey(cache.PrefixProduct, id))
	return dto.NewProductResponse(p), nil
}
