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
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// --- DTOs ---

type CreateTaxRequest struct {
	Name      string `json:"name" binding:"required"`
	ShortName string `json:"short_name" binding:"required"`
	Percent   string `json:"percent" binding:"required"`
	ValidFrom string `json:"valid_from" binding:"required"` // YYYY-MM-DD
	ValidTo   string `json:"valid_to"`                      // optional, YYYY-MM-DD
}

type TaxResponse struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	ShortName string  `json:"short_name"`
	Percent   string  `json:"percent"`
	ValidFrom string  `json:"valid_from"`
	ValidTo   *string `json:"valid_to"`
	CreatedAt string  `json:"created_at"`
}

// --- Interface ---

type TaxService interface {
	CreateTax(ctx context.Context, req CreateTaxRequest) (TaxResponse, error)
	GetTax(ctx context.Context, id string) (TaxResponse, error)
	ListTaxes(ctx context.Context, page, limit int) ([]TaxResponse, int64, error)
	// ValidTaxes returns the tax definitions applicable on the target date.
	// Document services fetch this once and resolve every line against it.
	ValidTaxes(ctx context.Context, targetDate time.Time) ([]model.Tax, error)
}

type taxService struct {
	taxRepo repository.TaxRepository
}

func NewTaxService(taxRepo repository.TaxRepository) TaxService {
	return &taxService{taxRepo: taxRepo}
}

// --- Implementation ---

func (s *taxService) CreateTax(ctx context.Context, req CreateTaxRequest) (TaxResponse, error) {
	tenantID, ok := repository.TenantFrom(ctx)
	if !ok {
		return TaxResponse{}, apperror.Validation("missing tenant context")
	}

	percent, err := decimal.NewFromString(req.Percent)
	if err != nil {
		return TaxResponse{}, apperror.Validation("invalid percent: " + req.Percent)
	}
	if percent.IsNegative() {
		return TaxResponse{}, apperror.Validation("percent must not be negative")
	}

	validFrom, err := time.Parse("2006-01-02", req.ValidFrom)
	if err != nil {
		return TaxResponse{}, apperror.Validation("invalid valid_from: " + req.ValidFrom)
	}

	var validTo *time.Time
	if req.ValidTo != "" {
		parsed, err := time.Parse("2006-01-02", req.ValidTo)
		if err != nil {
			return TaxResponse{}, apperror.Validation("invalid valid_to: " + req.ValidTo)
		}
		if parsed.Before(validFrom) {
			return TaxResponse{}, apperror.Validation("valid_to must not precede valid_from")
		}
		validTo = &parsed
	}

	tax := model.Tax{
		TenantID:  tenantID,
		Name:      req.Name,
		ShortName: req.ShortName,
		Percent:   percent,
		ValidFrom: validFrom,
		ValidTo:   validTo,
	}

	if err := s.taxRepo.Create(ctx, &tax); err != nil {
		return TaxResponse{}, fmt.Errorf("failed to create tax: %w", err)
	}

	return toTaxResponse(tax), nil
}

func (s *taxService) GetTax(ctx context.Context, id string) (TaxResponse, error) {
	taxID, err := uuid.Parse(id)
	if err != nil {
		return TaxResponse{}, apperror.Validation("invalid tax id")
	}

	tax, err := s.taxRepo.FindByID(ctx, taxID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return TaxResponse{}, apperror.NotFound("tax")
		}
		return TaxResponse{}, fmt.Errorf("failed to fetch tax: %w", err)
	}

	return toTaxResponse(*tax), nil
}

func (s *taxService) ListTaxes(ctx context.Context, page, limit int) ([]TaxResponse, int64, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}

	taxes, total, err := s.taxRepo.List(ctx, page, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch taxes: %w", err)
	}

	result := make([]TaxResponse, 0, len(taxes))
	for _, t := range taxes {
		result = append(result, toTaxResponse(t))
	}
	return result, total, nil
}

func (s *taxService) ValidTaxes(ctx context.Context, targetDate time.Time) ([]model.Tax, error) {
	taxes, err := s.taxRepo.FindValid(ctx, targetDate)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch valid taxes: %w", err)
	}
	return taxes, nil
}

// FindTaxPercent resolves the percent for a tax ID against a pre-fetched
// snapshot of valid definitions. It never touches storage: line loops call it
// once per line against a single snapshot. An unresolved rate is a
// precondition failure, not a silent zero.
func FindTaxPercent(snapshot []model.Tax, taxID uuid.UUID) (decimal.Decimal, error) {
	for _, t := range snapshot {
		if t.ID == taxID {
			return t.Percent, nil
		}
	}
	return decimal.Decimal{}, apperror.Precondition("no valid tax rate for tax "+taxID.String(), nil)
}

// --- Mapping ---

func toTaxResponse(tax model.Tax) TaxResponse {
	resp := TaxResponse{
		ID:        tax.ID.String(),
		Name:      tax.Name,
		ShortName: tax.ShortName,
		Percent:   tax.Percent.StringFixed(2),
		ValidFrom: tax.ValidFrom.Format("2006-01-02"),
		CreatedAt: tax.CreatedAt.Format(time.RFC3339),
	}
	if tax.ValidTo != nil {
		s := tax.ValidTo.Format("2006-01-02")
		resp.ValidTo = &s
	}
	return resp
}
