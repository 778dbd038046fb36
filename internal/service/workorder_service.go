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

type WorkOrderItemRequest struct {
	ItemID   string `json:"item_id" binding:"required"`
	Quantity string `json:"quantity" binding:"required"`
}

type CreateWorkOrderRequest struct {
	WarehouseID string                 `json:"warehouse_id"`
	Note        string                 `json:"note"`
	Items       []WorkOrderItemRequest `json:"items" binding:"required"`
}

type WorkOrderItemResponse struct {
	ID          string `json:"id"`
	ItemID      string `json:"item_id"`
	Position    int    `json:"position"`
	Quantity    string `json:"quantity"`
	TaxPercent  string `json:"tax_percent"`
	PriceSource string `json:"price_source"`
	UnitPrice   string `json:"unit_price"`
	FinanceVP   string `json:"finance_vp"`
	FinanceMP   string `json:"finance_mp"`
}

type WorkOrderResponse struct {
	ID          string                  `json:"id"`
	Number      string                  `json:"number"`
	WarehouseID *string                 `json:"warehouse_id"`
	Status      string                  `json:"status"`
	Note        string                  `json:"note"`
	Items       []WorkOrderItemResponse `json:"items,omitempty"`
	CreatedAt   string                  `json:"created_at"`
}

// --- Interface ---

type WorkOrderService interface {
	CreateWorkOrder(ctx context.Context, req CreateWorkOrderRequest) (WorkOrderResponse, error)
	CloseWorkOrder(ctx context.Context, id string) (WorkOrderResponse, error)
	GetWorkOrder(ctx context.Context, id string) (WorkOrderResponse, error)
	ListWorkOrders(ctx context.Context, page, limit int) ([]WorkOrderResponse, int64, error)
}

type workOrderService struct {
	orderRepo     repository.WorkOrderRepository
	warehouseRepo repository.WarehouseRepository
	itemRepo      repository.ItemRepository
	taxRepo       repository.TaxRepository
	txManager     repository.TransactionManager
}

func NewWorkOrderService(
	orderRepo repository.WorkOrderRepository,
	warehouseRepo repository.WarehouseRepository,
	itemRepo repository.ItemRepository,
	taxRepo repository.TaxRepository,
	txManager repository.TransactionManager,
) WorkOrderService {
	return &workOrderService{
		orderRepo:     orderRepo,
		warehouseRepo: warehouseRepo,
		itemRepo:      itemRepo,
		taxRepo:       taxRepo,
		txManager:     txManager,
	}
}

// --- Implementation ---

func (s *workOrderService) CreateWorkOrder(ctx context.Context, req CreateWorkOrderRequest) (WorkOrderResponse, error) {
	tenantID, ok := repository.TenantFrom(ctx)
	if !ok {
		return WorkOrderResponse{}, apperror.Validation("missing tenant context")
	}
	if len(req.Items) == 0 {
		return WorkOrderResponse{}, apperror.Validation("work order requires at least one item")
	}

	var warehouseID *uuid.UUID
	if req.WarehouseID != "" {
		parsed, err := uuid.Parse(req.WarehouseID)
		if err != nil {
			return WorkOrderResponse{}, apperror.Validation("invalid warehouse_id")
		}
		warehouseID = &parsed
	}

	var order model.WorkOrder
	err := s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if warehouseID != nil {
			if _, err := s.warehouseRepo.FindByID(txCtx, *warehouseID); err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return apperror.NotFound("warehouse")
				}
				return fmt.Errorf("failed to fetch warehouse: %w", err)
			}
		}

		snapshot, err := s.taxRepo.FindValid(txCtx, time.Now())
		if err != nil {
			return fmt.Errorf("failed to fetch valid taxes: %w", err)
		}

		number, err := s.generateNumber(txCtx)
		if err != nil {
			return fmt.Errorf("failed to generate work order number: %w", err)
		}

		order = model.WorkOrder{
			TenantID:    tenantID,
			Number:      number,
			WarehouseID: warehouseID,
			Status:      model.WorkOrderStatusOpen,
			Note:        req.Note,
		}

		for i, lineReq := range req.Items {
			line, err := s.buildLine(txCtx, snapshot, warehouseID, i+1, lineReq)
			if err != nil {
				return err
			}
			order.Items = append(order.Items, *line)
		}

		return s.orderRepo.Create(txCtx, &order)
	})
	if err != nil {
		return WorkOrderResponse{}, err
	}

	reloaded, err := s.orderRepo.FindByID(ctx, order.ID)
	if err != nil {
		return WorkOrderResponse{}, fmt.Errorf("failed to reload work order: %w", err)
	}

	return toWorkOrderResponse(*reloaded), nil
}

// buildLine prices a work order line net-first. The warehouse price stack is
// preferred; an item never stocked in the warehouse falls back to the catalog
// net price.
func (s *workOrderService) buildLine(ctx context.Context, snapshot []model.Tax, warehouseID *uuid.UUID, position int, req WorkOrderItemRequest) (*model.WorkOrderItem, error) {
	itemID, err := uuid.Parse(req.ItemID)
	if err != nil {
		return nil, apperror.Validation("invalid item_id")
	}
	quantity, err := decimal.NewFromString(req.Quantity)
	if err != nil || !quantity.IsPositive() {
		return nil, apperror.Validation("quantity must be a positive number")
	}

	item, err := s.itemRepo.FindActiveByID(ctx, itemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("item")
		}
		return nil, fmt.Errorf("failed to fetch item: %w", err)
	}

	percent, err := FindTaxPercent(snapshot, item.TaxID)
	if err != nil {
		return nil, err
	}

	unitPrice := item.NetPrice
	priceSource := model.PriceSourceCatalog
	if warehouseID != nil {
		stock, err := s.warehouseRepo.FindStock(ctx, *warehouseID, itemID)
		switch {
		case err == nil && stock.PriceStack.IsPositive():
			unitPrice = stock.PriceStack
			priceSource = model.PriceSourceWarehouse
		case err != nil && !errors.Is(err, gorm.ErrRecordNotFound):
			return nil, fmt.Errorf("failed to fetch warehouse stock: %w", err)
		}
	}

	pair := pricing.DerivePair(pricing.InputModeNetFirst, pricing.Round2(quantity.Mul(unitPrice)), percent)

	return &model.WorkOrderItem{
		ItemID:      itemID,
		Position:    position,
		Quantity:    quantity,
		TaxPercent:  percent,
		PriceSource: priceSource,
		UnitPrice:   unitPrice,
		FinanceVP:   pair.Net,
		FinanceMP:   pair.Gross,
	}, nil
}

func (s *workOrderService) CloseWorkOrder(ctx context.Context, id string) (WorkOrderResponse, error) {
	orderID, err := uuid.Parse(id)
	if err != nil {
		return WorkOrderResponse{}, apperror.Validation("invalid work order id")
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		order, err := s.orderRepo.FindByID(txCtx, orderID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperror.NotFound("work order")
			}
			return fmt.Errorf("failed to fetch work order: %w", err)
		}
		if order.Status != model.WorkOrderStatusOpen {
			return apperror.Precondition("work order is already closed", nil)
		}
		return s.orderRepo.UpdateStatus(txCtx, orderID, model.WorkOrderStatusClosed)
	})
	if err != nil {
		return WorkOrderResponse{}, err
	}

	return s.GetWorkOrder(ctx, id)
}

func (s *workOrderService) GetWorkOrder(ctx context.Context, id string) (WorkOrderResponse, error) {
	orderID, err := uuid.Parse(id)
	if err != nil {
		return WorkOrderResponse{}, apperror.Validation("invalid work order id")
	}

	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return WorkOrderResponse{}, apperror.NotFound("work order")
		}
		return WorkOrderResponse{}, fmt.Errorf("failed to fetch work order: %w", err)
	}

	return toWorkOrderResponse(*order), nil
}

func (s *workOrderService) ListWorkOrders(ctx context.Context, page, limit int) ([]WorkOrderResponse, int64, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}

	orders, total, err := s.orderRepo.List(ctx, page, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch work orders: %w", err)
	}

	result := make([]WorkOrderResponse, 0, len(orders))
	for _, o := range orders {
		result = append(result, toWorkOrderResponse(o))
	}
	return result, total, nil
}

func (s *workOrderService) generateNumber(ctx context.Context) (string, error) {
	today := time.Now().Format("20060102")
	prefix := "WO-" + today + "-"

	count, err := s.orderRepo.CountByPrefix(ctx, prefix)
	if err != nil {
		return "", err
	}

	return fmt.Sprintf("%s%05d", prefix, count+1), nil
}

// --- Mapping ---

func toWorkOrderResponse(order model.WorkOrder) WorkOrderResponse {
	resp := WorkOrderResponse{
		ID:        order.ID.String(),
		Number:    order.Number,
		Status:    order.Status,
		Note:      order.Note,
		CreatedAt: order.CreatedAt.Format(time.RFC3339),
	}
	if order.WarehouseID != nil {
		s := order.WarehouseID.String()
		resp.WarehouseID = &s
	}

	for _, it := range order.Items {
		resp.Items = append(resp.Items, WorkOrderItemResponse{
			ID:          it.ID.String(),
			ItemID:      it.ItemID.String(),
			Position:    it.Position,
			Quantity:    it.Quantity.StringFixed(3),
			TaxPercent:  it.TaxPercent.StringFixed(2),
			PriceSource: it.PriceSource,
			UnitPrice:   it.UnitPrice.StringFixed(2),
			FinanceVP:   it.FinanceVP.StringFixed(2),
			FinanceMP:   it.FinanceMP.StringFixed(2),
		})
	}

	return resp
}
