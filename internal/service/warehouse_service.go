package service

import (
	"context"
	"errors"
	"fmt"

	"backend/internal/model"
	"backend/internal/pricing"
	"backend/internal/repository"
	"backend/pkg/apperror"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// --- DTOs ---

type CreateWarehouseRequest struct {
	Name string `json:"name" binding:"required"`
}

type SetStockRequest struct {
	ItemID     string `json:"item_id" binding:"required"`
	Quantity   string `json:"quantity" binding:"required"`
	PriceStack string `json:"price_stack" binding:"required"` // net unit price
}

type WarehouseResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type StockResponse struct {
	WarehouseID string `json:"warehouse_id"`
	ItemID      string `json:"item_id"`
	Quantity    string `json:"quantity"`
	PriceStack  string `json:"price_stack"`
}

// --- Interface ---

type WarehouseService interface {
	CreateWarehouse(ctx context.Context, req CreateWarehouseRequest) (WarehouseResponse, error)
	ListWarehouses(ctx context.Context) ([]WarehouseResponse, error)
	// SetStock upserts the quantity and stacked price of an item in a
	// warehouse.
	SetStock(ctx context.Context, warehouseID string, req SetStockRequest) (StockResponse, error)
}

type warehouseService struct {
	warehouseRepo repository.WarehouseRepository
	itemRepo      repository.ItemRepository
}

func NewWarehouseService(warehouseRepo repository.WarehouseRepository, itemRepo repository.ItemRepository) WarehouseService {
	return &warehouseService{warehouseRepo: warehouseRepo, itemRepo: itemRepo}
}

// --- Implementation ---

func (s *warehouseService) CreateWarehouse(ctx context.Context, req CreateWarehouseRequest) (WarehouseResponse, error) {
	tenantID, ok := repository.TenantFrom(ctx)
	if !ok {
		return WarehouseResponse{}, apperror.Validation("missing tenant context")
	}

	warehouse := model.Warehouse{TenantID: tenantID, Name: req.Name}
	if err := s.warehouseRepo.Create(ctx, &warehouse); err != nil {
		return WarehouseResponse{}, fmt.Errorf("failed to create warehouse: %w", err)
	}

	return WarehouseResponse{ID: warehouse.ID.String(), Name: warehouse.Name}, nil
}

func (s *warehouseService) ListWarehouses(ctx context.Context) ([]WarehouseResponse, error) {
	warehouses, err := s.warehouseRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch warehouses: %w", err)
	}

	result := make([]WarehouseResponse, 0, len(warehouses))
	for _, w := range warehouses {
		result = append(result, WarehouseResponse{ID: w.ID.String(), Name: w.Name})
	}
	return result, nil
}

func (s *warehouseService) SetStock(ctx context.Context, warehouseID string, req SetStockRequest) (StockResponse, error) {
	whID, err := uuid.Parse(warehouseID)
	if err != nil {
		return StockResponse{}, apperror.Validation("invalid warehouse id")
	}
	itemID, err := uuid.Parse(req.ItemID)
	if err != nil {
		return StockResponse{}, apperror.Validation("invalid item_id")
	}
	quantity, err := decimal.NewFromString(req.Quantity)
	if err != nil || quantity.IsNegative() {
		return StockResponse{}, apperror.Validation("quantity must not be negative")
	}
	priceStack, err := decimal.NewFromString(req.PriceStack)
	if err != nil || priceStack.IsNegative() {
		return StockResponse{}, apperror.Validation("price_stack must not be negative")
	}

	if _, err := s.warehouseRepo.FindByID(ctx, whID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return StockResponse{}, apperror.NotFound("warehouse")
		}
		return StockResponse{}, fmt.Errorf("failed to fetch warehouse: %w", err)
	}
	if _, err := s.itemRepo.FindByID(ctx, itemID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return StockResponse{}, apperror.NotFound("item")
		}
		return StockResponse{}, fmt.Errorf("failed to fetch item: %w", err)
	}

	stock, err := s.warehouseRepo.FindStock(ctx, whID, itemID)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return StockResponse{}, fmt.Errorf("failed to fetch stock: %w", err)
		}
		stock = &model.WarehouseStock{WarehouseID: whID, ItemID: itemID}
	}

	stock.Quantity = quantity
	stock.PriceStack = pricing.Round2(priceStack)
	if err := s.warehouseRepo.SaveStock(ctx, stock); err != nil {
		return StockResponse{}, fmt.Errorf("failed to save stock: %w", err)
	}

	return StockResponse{
		WarehouseID: whID.String(),
		ItemID:      itemID.String(),
		Quantity:    stock.Quantity.StringFixed(3),
		PriceStack:  stock.PriceStack.StringFixed(2),
	}, nil
}
