package service

import (
	"context"

	"github.com/loomcart/loomcart/internal/api/dto"
	"github.com/loomcart/loomcart/internal/domain/customer"
	"github.com/loomcart/loomcart/internal/types"
)

// CustomerService manages customer records
type CustomerService interface {
	CreateCustomer(ctx context.Context, req *dto.CreateCustomerRequest) (*dto.CustomerResponse, error)
	GetCustomer(ctx context.Context, id string) (*dto.CustomerResponse, error)
	GetCustomerByExternalID(ctx context.Context, externalID string) (*dto.CustomerResponse, error)
}

type customerService struct {
	ServiceParams
}

// NewCustomerService creates a new customer service
func NewCustomerService(params ServiceParams) CustomerService {
	return &customerService{ServiceParams: params}
}

func (s *customerService) CreateCustomer(ctx context.Context, req *dto.CreateCustomerRequest) (*dto.CustomerResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	c := &customer.Customer{
		ID:         types.GenerateUUIDWithPrefix(types.UUID_PREFIX_CUSTOMER),
		ExternalID: req.ExternalID,
		Name:       req.Name,
		Email:      req.Email,
		BaseModel:  types.GetDefaultBaseModel(ctx),
	}

	if err := s.CustomerRepo.Create(ctx, c); err != nil {
		return nil, err
	}

	return dto.NewCustomerResponse(c), nil
}

func (s *customerService) GetCustomer(ctx context.Context, id string) (*dto.CustomerResponse, error) {
	c, err := s.CustomerRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return dto.NewCustomerResponse(c), nil
}

func (s *customerService) GetCustomerByExternalID(ctx context.Context, externalID string) (*dto.CustomerResponse, error) {
	c, err := s.CustomerRepo.GetByExternalID(ctx, externalID)
	if err != nil {
		return nil, err
	}
	return dto.NewCustomerResponse(c), nil
}
