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

type CreateTenantRequest struct {
	Name               string `json:"name" binding:"required"`
	RegistrationNumber string `json:"registration_number" binding:"required"`
	TaxNumber          string `json:"tax_number"`
	Email              string `json:"email" binding:"omitempty,email"`
}

type TenantResponse struct {
	ID                 string `json:"id"`
	Name               string `json:"name"`
	RegistrationNumber string `json:"registration_number"`
	TaxNumber          string `json:"tax_number"`
	Email              string `json:"email"`
	Status             string `json:"status"`
	CreatedAt          string `json:"created_at"`
}

// --- Interface ---

type TenantService interface {
	CreateTenant(ctx context.Context, req CreateTenantRequest) (TenantResponse, error)
	GetTenant(ctx context.Context, id string) (TenantResponse, error)
	ListTenants(ctx context.Context) ([]TenantResponse, error)
	SuspendTenant(ctx context.Context, id string) (TenantResponse, error)
	ActivateTenant(ctx context.Context, id string) (TenantResponse, error)
}

type tenantService struct {
	tenantRepo repository.TenantRepository
}

func NewTenantService(tenantRepo repository.TenantRepository) TenantService {
	return &tenantService{tenantRepo: tenantRepo}
}

// --- Implementation ---

func (s *tenantService) CreateTenant(ctx context.Context, req CreateTenantRequest) (TenantResponse, error) {
	if _, err := s.tenantRepo.FindByRegistrationNumber(ctx, req.RegistrationNumber); err == nil {
		return TenantResponse{}, apperror.Conflict("registration number already exists: " + req.RegistrationNumber)
	}

	tenant := model.Tenant{
		Name:               req.Name,
		RegistrationNumber: req.RegistrationNumber,
		TaxNumber:          req.TaxNumber,
		Email:              req.Email,
		Status:             model.TenantStatusActive,
	}

	if err := s.tenantRepo.Create(ctx, &tenant); err != nil {
		return TenantResponse{}, fmt.Errorf("failed to create tenant: %w", err)
	}

	return toTenantResponse(tenant), nil
}

func (s *tenantService) GetTenant(ctx context.Context, id string) (TenantResponse, error) {
	tenantID, err := uuid.Parse(id)
	if err != nil {
		return TenantResponse{}, apperror.Validation("invalid tenant id")
	}

	tenant, err := s.tenantRepo.FindByID(ctx, tenantID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return TenantResponse{}, apperror.NotFound("tenant")
		}
		return TenantResponse{}, fmt.Errorf("failed to fetch tenant: %w", err)
	}

	return toTenantResponse(*tenant), nil
}

func (s *tenantService) ListTenants(ctx context.Context) ([]TenantResponse, error) {
	tenants, err := s.tenantRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch tenants: %w", err)
	}

	result := make([]TenantResponse, 0, len(tenants))
	for _, t := range tenants {
		result = append(result, toTenantResponse(t))
	}
	return result, nil
}

func (s *tenantService) SuspendTenant(ctx context.Context, id string) (TenantResponse, error) {
	return s.setStatus(ctx, id, model.TenantStatusSuspended)
}

func (s *tenantService) ActivateTenant(ctx context.Context, id string) (TenantResponse, error) {
	return s.setStatus(ctx, id, model.TenantStatusActive)
}

func (s *tenantService) setStatus(ctx context.Context, id, status string) (TenantResponse, error) {
	tenantID, err := uuid.Parse(id)
	if err != nil {
		return TenantResponse{}, apperror.Validation("invalid tenant id")
	}

	tenant, err := s.tenantRepo.FindByID(ctx, tenantID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return TenantResponse{}, apperror.NotFound("tenant")
		}
		return TenantResponse{}, fmt.Errorf("failed to fetch tenant: %w", err)
	}

	tenant.Status = status
	if err := s.tenantRepo.Update(ctx, tenant); err != nil {
		return TenantResponse{}, fmt.Errorf("failed to update tenant: %w", err)
	}

	return toTenantResponse(*tenant), nil
}

// --- Mapping ---

func toTenantResponse(tenant model.Tenant) TenantResponse {
	return TenantResponse{
		ID:                 tenant.ID.String(),
		Name:               tenant.Name,
		RegistrationNumber: tenant.RegistrationNumber,
		TaxNumber:          tenant.TaxNumber,
		Email:              tenant.Email,
		Status:             tenant.Status,
		CreatedAt:          tenant.CreatedAt.Format(time.RFC3339),
	}
}
