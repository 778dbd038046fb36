package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"backend/internal/model"
	"backend/internal/repository"
	"backend/pkg/apperror"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// --- DTOs ---

type CustomerAddressRequest struct {
	AddressType string `json:"address_type" binding:"required,oneof=BILLING SHIPPING"`
	FullAddress string `json:"full_address" binding:"required"`
}

type CreateCustomerRequest struct {
	Code      string                   `json:"code" binding:"required"`
	Name      string                   `json:"name" binding:"required"`
	TaxCode   string                   `json:"tax_code"`
	Email     string                   `json:"email" binding:"omitempty,email"`
	Addresses []CustomerAddressRequest `json:"addresses"`
}

type UpdateCustomerRequest struct {
	Name    *string `json:"name"`
	TaxCode *string `json:"tax_code"`
	Email   *string `json:"email" binding:"omitempty,email"`
}

type CustomerAddressResponse struct {
	ID          string `json:"id"`
	AddressType string `json:"address_type"`
	FullAddress string `json:"full_address"`
}

type CustomerResponse struct {
	ID        string                    `json:"id"`
	Code      string                    `json:"code"`
	Name      string                    `json:"name"`
	TaxCode   string                    `json:"tax_code"`
	Email     string                    `json:"email"`
	Addresses []CustomerAddressResponse `json:"addresses,omitempty"`
	CreatedAt string                    `json:"created_at"`
}

// --- Interface ---

type CustomerService interface {
	CreateCustomer(ctx context.Context, req CreateCustomerRequest) (CustomerResponse, error)
	UpdateCustomer(ctx context.Context, id string, req UpdateCustomerRequest) (CustomerResponse, error)
	GetCustomer(ctx context.Context, id string) (CustomerResponse, error)
	ListCustomers(ctx context.Context, page, limit int) ([]CustomerResponse, int64, error)
	DeleteCustomer(ctx context.Context, id string) error
}

type customerService struct {
	customerRepo repository.CustomerRepository
}

func NewCustomerService(customerRepo repository.CustomerRepository) CustomerService {
	return &customerService{customerRepo: customerRepo}
}

// --- Implementation ---

func (s *customerService) CreateCustomer(ctx context.Context, req CreateCustomerRequest) (CustomerResponse, error) {
	tenantID, ok := repository.TenantFrom(ctx)
	if !ok {
		return CustomerResponse{}, apperror.Validation("missing tenant context")
	}

	if _, err := s.customerRepo.FindByCode(ctx, req.Code); err == nil {
		return CustomerResponse{}, apperror.Conflict("customer code already exists: " + req.Code)
	}

	customer := model.Customer{
		TenantID: tenantID,
		Code:     req.Code,
		Name:     req.Name,
		TaxCode:  req.TaxCode,
		Email:    req.Email,
	}
	for _, addr := range req.Addresses {
		customer.Addresses = append(customer.Addresses, model.CustomerAddress{
			AddressType: addr.AddressType,
			FullAddress: addr.FullAddress,
		})
	}

	if err := s.customerRepo.Create(ctx, &customer); err != nil {
		return CustomerResponse{}, fmt.Errorf("failed to create customer: %w", err)
	}

	return toCustomerResponse(customer), nil
}

func (s *customerService) UpdateCustomer(ctx context.Context, id string, req UpdateCustomerRequest) (CustomerResponse, error) {
	customerID, err := uuid.Parse(id)
	if err != nil {
		return CustomerResponse{}, apperror.Validation("invalid customer id")
	}

	customer, err := s.customerRepo.FindByID(ctx, customerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return CustomerResponse{}, apperror.NotFound("customer")
		}
		return CustomerResponse{}, fmt.Errorf("failed to fetch customer: %w", err)
	}

	if req.Name != nil {
		customer.Name = *req.Name
	}
	if req.TaxCode != nil {
		customer.TaxCode = *req.TaxCode
	}
	if req.Email != nil {
		customer.Email = *req.Email
	}

	if err := s.customerRepo.Update(ctx, customer); err != nil {
		return CustomerResponse{}, fmt.Errorf("failed to update customer: %w", err)
	}

	return toCustomerResponse(*customer), nil
}

func (s *customerService) GetCustomer(ctx context.Context, id string) (CustomerResponse, error) {
	customerID, err := uuid.Parse(id)
	if err != nil {
		return CustomerResponse{}, apperror.Validation("invalid customer id")
	}

	customer, err := s.customerRepo.FindByID(ctx, customerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return CustomerResponse{}, apperror.NotFound("customer")
		}
		return CustomerResponse{}, fmt.Errorf("failed to fetch customer: %w", err)
	}

	return toCustomerResponse(*customer), nil
}

func (s *customerService) ListCustomers(ctx context.Context, page, limit int) ([]CustomerResponse, int64, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}

	customers, total, err := s.customerRepo.List(ctx, page, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch customers: %w", err)
	}

	result := make([]CustomerResponse, 0, len(customers))
	for _, c := range customers {
		result = append(result, toCustomerResponse(c))
	}
	return result, total, nil
}

func (s *customerService) DeleteCustomer(ctx context.Context, id string) error {
	customerID, err := uuid.Parse(id)
	if err != nil {
		return apperror.Validation("invalid customer id")
	}

	if _, err := s.customerRepo.FindByID(ctx, customerID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperror.NotFound("customer")
		}
		return fmt.Errorf("failed to fetch customer: %w", err)
	}

	return s.customerRepo.Delete(ctx, customerID)
}

// --- Mapping ---

func toCustomerResponse(customer model.Customer) CustomerResponse {
	resp := CustomerResponse{
		ID:        customer.ID.String(),
		Code:      customer.Code,
		Name:      customer.Name,
		TaxCode:   customer.TaxCode,
		Email:     customer.Email,
		CreatedAt: customer.CreatedAt.Format(time.RFC3339),
	}
	for _, addr := range customer.Addresses {
		resp.Addresses = append(resp.Addresses, CustomerAddressResponse{
			ID:          addr.ID.String(),
			AddressType: addr.AddressType,
			FullAddress: addr.FullAddress,
		})
	}
	return resp
}
