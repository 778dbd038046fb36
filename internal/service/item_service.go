package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"backend/internal/model"
	"backend/internal/pricing"
	"backend/internal/repository"
	"backend/pkg/apperror"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// --- DTOs ---

type CreateItemRequest struct {
	Code       string `json:"code" binding:"required"`
	Barcode    string `json:"barcode" binding:"required"`
	Name       string `json:"name" binding:"required"`
	UOM        string `json:"uom"`
	TaxID      string `json:"tax_id" binding:"required"`
	CategoryID string `json:"category_id"`
	// Exactly one of the two prices is authoritative; the other is derived
	// from it using the item's tax rate.
	InputMode string `json:"input_mode" binding:"required,oneof=NET_FIRST GROSS_FIRST"`
	Price     string `json:"price" binding:"required"`
}

type UpdateItemRequest struct {
	Name      *string `json:"name"`
	UOM       *string `json:"uom"`
	Status    *string `json:"status" binding:"omitempty,oneof=ACTIVE INACTIVE"`
	InputMode *string `json:"input_mode" binding:"omitempty,oneof=NET_FIRST GROSS_FIRST"`
	Price     *string `json:"price"`
}

type ItemResponse struct {
	ID         string  `json:"id"`
	Code       string  `json:"code"`
	Barcode    string  `json:"barcode"`
	Name       string  `json:"name"`
	UOM        string  `json:"uom"`
	TaxID      string  `json:"tax_id"`
	TaxPercent *string `json:"tax_percent,omitempty"`
	CategoryID *string `json:"category_id"`
	NetPrice   string  `json:"net_price"`
	GrossPrice string  `json:"gross_price"`
	Status     string  `json:"status"`
	CreatedAt  string  `json:"created_at"`
}

// --- Interface ---

type ItemService interface {
	CreateItem(ctx context.Context, req CreateItemRequest) (ItemResponse, error)
	UpdateItem(ctx context.Context, id string, req UpdateItemRequest) (ItemResponse, error)
	GetItem(ctx context.Context, id string) (ItemResponse, error)
	GetItemByBarcode(ctx context.Context, barcode string) (ItemResponse, error)
	ListItems(ctx context.Context, page, limit int) ([]ItemResponse, int64, error)
	DeactivateItem(ctx context.Context, id string) error
}

type itemService struct {
	itemRepo repository.ItemRepository
	taxRepo  repository.TaxRepository
}

func NewItemService(itemRepo repository.ItemRepository, taxRepo repository.TaxRepository) ItemService {
	return &itemService{itemRepo: itemRepo, taxRepo: taxRepo}
}

// --- Implementation ---

func (s *itemService) CreateItem(ctx context.Context, req CreateItemRequest) (ItemResponse, error) {
	tenantID, ok := repository.TenantFrom(ctx)
	if !ok {
		return ItemResponse{}, apperror.Validation("missing tenant context")
	}

	taxID, err := uuid.Parse(req.TaxID)
	if err != nil {
		return ItemResponse{}, apperror.Validation("invalid tax_id")
	}

	price, err := decimal.NewFromString(req.Price)
	if err != nil {
		return ItemResponse{}, apperror.Validation("invalid price: " + req.Price)
	}

	// Uniqueness inside the tenant, checked up front for a friendly error;
	// the composite unique indexes remain the real guarantee.
	if _, err := s.itemRepo.FindByCode(ctx, req.Code); err == nil {
		return ItemResponse{}, apperror.Conflict("item code already exists: " + req.Code)
	}
	if _, err := s.itemRepo.FindByBarcode(ctx, req.Barcode); err == nil {
		return ItemResponse{}, apperror.Conflict("item barcode already exists: " + req.Barcode)
	}

	snapshot, err := s.taxRepo.FindValid(ctx, time.Now())
	if err != nil {
		return ItemResponse{}, fmt.Errorf("failed to fetch valid taxes: %w", err)
	}
	percent, err := FindTaxPercent(snapshot, taxID)
	if err != nil {
		return ItemResponse{}, err
	}

	pair := pricing.DerivePair(req.InputMode, price, percent)

	item := model.Item{
		TenantID:   tenantID,
		Code:       req.Code,
		Barcode:    req.Barcode,
		Name:       req.Name,
		UOM:        req.UOM,
		TaxID:      taxID,
		NetPrice:   pair.Net,
		GrossPrice: pair.Gross,
		Status:     model.ItemStatusActive,
	}
	if req.CategoryID != "" {
		categoryID, err := uuid.Parse(req.CategoryID)
		if err != nil {
			return ItemResponse{}, apperror.Validation("invalid category_id")
		}
		item.CategoryID = &categoryID
	}

	if err := s.itemRepo.Create(ctx, &item); err != nil {
		return ItemResponse{}, fmt.Errorf("failed to create item: %w", err)
	}

	return toItemResponse(item), nil
}

func (s *itemService) UpdateItem(ctx context.Context, id string, req UpdateItemRequest) (ItemResponse, error) {
	itemID, err := uuid.Parse(id)
	if err != nil {
		return ItemResponse{}, apperror.Validation("invalid item id")
	}

	item, err := s.itemRepo.FindByID(ctx, itemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ItemResponse{}, apperror.NotFound("item")
		}
		return ItemResponse{}, fmt.Errorf("failed to fetch item: %w", err)
	}

	if req.Name != nil {
		item.Name = *req.Name
	}
	if req.UOM != nil {
		item.UOM = *req.UOM
	}
	if req.Status != nil {
		item.Status = *req.Status
	}

	if req.Price != nil {
		price, err := decimal.NewFromString(*req.Price)
		if err != nil {
			return ItemResponse{}, apperror.Validation("invalid price: " + *req.Price)
		}
		mode := pricing.InputModeNetFirst
		if req.InputMode != nil {
			mode = *req.InputMode
		}

		snapshot, err := s.taxRepo.FindValid(ctx, time.Now())
		if err != nil {
			return ItemResponse{}, fmt.Errorf("failed to fetch valid taxes: %w", err)
		}
		percent, err := FindTaxPercent(snapshot, item.TaxID)
		if err != nil {
			return ItemResponse{}, err
		}

		pair := pricing.DerivePair(mode, price, percent)
		item.NetPrice = pair.Net
		item.GrossPrice = pair.Gross
	}

	if err := s.itemRepo.Update(ctx, item); err != nil {
		return ItemResponse{}, fmt.Errorf("failed to update item: %w", err)
	}

	return toItemResponse(*item), nil
}

func (s *itemService) GetItem(ctx context.Context, id string) (ItemResponse, error) {
	itemID, err := uuid.Parse(id)
	if err != nil {
		return ItemResponse{}, apperror.Validation("invalid item id")
	}

	item, err := s.itemRepo.FindByID(ctx, itemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ItemResponse{}, apperror.NotFound("item")
		}
		return ItemResponse{}, fmt.Errorf("failed to fetch item: %w", err)
	}

	return toItemResponse(*item), nil
}

func (s *itemService) GetItemByBarcode(ctx context.Context, barcode string) (ItemResponse, error) {
	item, err := s.itemRepo.FindByBarcode(ctx, barcode)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ItemResponse{}, apperror.NotFound("item")
		}
		return ItemResponse{}, fmt.Errorf("failed to fetch item: %w", err)
	}

	return toItemResponse(*item), nil
}

func (s *itemService) ListItems(ctx context.Context, page, limit int) ([]ItemResponse, int64, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}

	items, total, err := s.itemRepo.List(ctx, page, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch items: %w", err)
	}

	result := make([]ItemResponse, 0, len(items))
	for _, it := range items {
		result = append(result, toItemResponse(it))
	}
	return result, total, nil
}

func (s *itemService) DeactivateItem(ctx context.Context, id string) error {
	itemID, err := uuid.Parse(id)
	if err != nil {
		return apperror.Validation("invalid item id")
	}

	item, err := s.itemRepo.FindByID(ctx, itemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperror.NotFound("item")
		}
		return fmt.Errorf("failed to fetch item: %w", err)
	}

	item.Status = model.ItemStatusInactive
	if err := s.itemRepo.Update(ctx, item); err != nil {
		return fmt.Errorf("failed to deactivate item: %w", err)
	}
	return nil
}

// --- Mapping ---

func toItemResponse(item model.Item) ItemResponse {
	resp := ItemResponse{
		ID:         item.ID.String(),
		Code:       item.Code,
		Barcode:    item.Barcode,
		Name:       item.Name,
		UOM:        item.UOM,
		TaxID:      item.TaxID.String(),
		NetPrice:   item.NetPrice.StringFixed(2),
		GrossPrice: item.GrossPrice.StringFixed(2),
		Status:     item.Status,
		CreatedAt:  item.CreatedAt.Format(time.RFC3339),
	}
	if item.Tax != nil {
		percent := item.Tax.Percent.StringFixed(2)
		resp.TaxPercent = &percent
	}
	if item.CategoryID != nil {
		s := item.CategoryID.String()
		resp.CategoryID = &s
	}
	return resp
}
