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

type CreateCalculationRequest struct {
	InputMode string `json:"input_mode" binding:"required,oneof=NET_FIRST GROSS_FIRST"`
	Note      string `json:"note"`
}

type CalculationItemRequest struct {
	ItemID   string `json:"item_id" binding:"required"`
	Quantity string `json:"quantity" binding:"required"`
	// UnitPrice overrides the catalog price when present. Interpreted per the
	// calculation's input mode: net for NET_FIRST, gross for GROSS_FIRST.
	UnitPrice string `json:"unit_price"`
}

// UpdateCalculationItemRequest edits an existing line. The catalog item a
// line points at is fixed at creation; only quantity and unit price change.
type UpdateCalculationItemRequest struct {
	Quantity  string `json:"quantity"`
	UnitPrice string `json:"unit_price"`
}

type CalculationExpenseRequest struct {
	Kind        string `json:"kind" binding:"required,oneof=INTERNAL EXTERNAL"`
	Description string `json:"description"`
	Amount      string `json:"amount" binding:"required"`
	TaxPercent  string `json:"tax_percent" binding:"required"`
}

type CalculationItemResponse struct {
	ID         string `json:"id"`
	ItemID     string `json:"item_id"`
	ItemName   string `json:"item_name,omitempty"`
	Position   int    `json:"position"`
	Quantity   string `json:"quantity"`
	TaxPercent string `json:"tax_percent"`

	FinanceVP         string `json:"finance_vp"`
	FinanceMP         string `json:"finance_mp"`
	FinanceVPInternal string `json:"finance_vp_internal"`
	FinanceMPInternal string `json:"finance_mp_internal"`
	FinanceVPFinal    string `json:"finance_vp_final"`
	FinanceMPFinal    string `json:"finance_mp_final"`
}

type CalculationExpenseResponse struct {
	ID          string `json:"id"`
	Kind        string `json:"kind"`
	Description string `json:"description"`
	Amount      string `json:"amount"`
	TaxPercent  string `json:"tax_percent"`
}

type CalculationResponse struct {
	ID             string                       `json:"id"`
	Number         string                       `json:"number"`
	InputMode      string                       `json:"input_mode"`
	Status         string                       `json:"status"`
	TotalFinanceMP string                       `json:"total_finance_mp"`
	Note           string                       `json:"note"`
	Items          []CalculationItemResponse    `json:"items,omitempty"`
	Expenses       []CalculationExpenseResponse `json:"expenses,omitempty"`
	CreatedAt      string                       `json:"created_at"`
}

// --- Interface ---

type CalculationService interface {
	CreateCalculation(ctx context.Context, req CreateCalculationRequest) (CalculationResponse, error)
	GetCalculation(ctx context.Context, id string) (CalculationResponse, error)
	ListCalculations(ctx context.Context, page, limit int) ([]CalculationResponse, int64, error)
	CloseCalculation(ctx context.Context, id string) (CalculationResponse, error)

	AddItem(ctx context.Context, id string, req CalculationItemRequest) (CalculationResponse, error)
	UpdateItem(ctx context.Context, id, itemID string, req UpdateCalculationItemRequest) (CalculationResponse, error)
	RemoveItem(ctx context.Context, id, itemID string) (CalculationResponse, error)

	AddExpense(ctx context.Context, id string, req CalculationExpenseRequest) (CalculationResponse, error)
	UpdateExpense(ctx context.Context, id, expenseID string, req CalculationExpenseRequest) (CalculationResponse, error)
	RemoveExpense(ctx context.Context, id, expenseID string) (CalculationResponse, error)
}

type calculationService struct {
	calcRepo  repository.CalculationRepository
	itemRepo  repository.ItemRepository
	taxRepo   repository.TaxRepository
	txManager repository.TransactionManager
}

func NewCalculationService(
	calcRepo repository.CalculationRepository,
	itemRepo repository.ItemRepository,
	taxRepo repository.TaxRepository,
	txManager repository.TransactionManager,
) CalculationService {
	return &calculationService{
		calcRepo:  calcRepo,
		itemRepo:  itemRepo,
		taxRepo:   taxRepo,
		txManager: txManager,
	}
}

// --- Implementation ---

func (s *calculationService) CreateCalculation(ctx context.Context, req CreateCalculationRequest) (CalculationResponse, error) {
	tenantID, ok := repository.TenantFrom(ctx)
	if !ok {
		return CalculationResponse{}, apperror.Validation("missing tenant context")
	}

	number, err := s.generateNumber(ctx)
	if err != nil {
		return CalculationResponse{}, fmt.Errorf("failed to generate calculation number: %w", err)
	}

	calc := model.Calculation{
		TenantID:       tenantID,
		Number:         number,
		InputMode:      req.InputMode,
		Status:         model.CalculationStatusOpen,
		TotalFinanceMP: decimal.Zero,
		Note:           req.Note,
	}

	if err := s.calcRepo.Create(ctx, &calc); err != nil {
		return CalculationResponse{}, fmt.Errorf("failed to create calculation: %w", err)
	}

	return toCalculationResponse(calc), nil
}

func (s *calculationService) GetCalculation(ctx context.Context, id string) (CalculationResponse, error) {
	calcID, err := uuid.Parse(id)
	if err != nil {
		return CalculationResponse{}, apperror.Validation("invalid calculation id")
	}

	calc, err := s.calcRepo.FindByIDWithChildren(ctx, calcID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return CalculationResponse{}, apperror.NotFound("calculation")
		}
		return CalculationResponse{}, fmt.Errorf("failed to fetch calculation: %w", err)
	}

	return toCalculationResponse(*calc), nil
}

func (s *calculationService) ListCalculations(ctx context.Context, page, limit int) ([]CalculationResponse, int64, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}

	calcs, total, err := s.calcRepo.List(ctx, page, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch calculations: %w", err)
	}

	result := make([]CalculationResponse, 0, len(calcs))
	for _, c := range calcs {
		result = append(result, toCalculationResponse(c))
	}
	return result, total, nil
}

func (s *calculationService) CloseCalculation(ctx context.Context, id string) (CalculationResponse, error) {
	calcID, err := uuid.Parse(id)
	if err != nil {
		return CalculationResponse{}, apperror.Validation("invalid calculation id")
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		calc, err := s.calcRepo.FindByID(txCtx, calcID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperror.NotFound("calculation")
			}
			return fmt.Errorf("failed to fetch calculation: %w", err)
		}
		if calc.Status != model.CalculationStatusOpen {
			return apperror.Precondition("calculation is already closed", nil)
		}

		calc.Status = model.CalculationStatusClosed
		return s.calcRepo.UpdateHeader(txCtx, calc)
	})
	if err != nil {
		return CalculationResponse{}, err
	}

	return s.GetCalculation(ctx, id)
}

func (s *calculationService) AddItem(ctx context.Context, id string, req CalculationItemRequest) (CalculationResponse, error) {
	calcID, err := uuid.Parse(id)
	if err != nil {
		return CalculationResponse{}, apperror.Validation("invalid calculation id")
	}
	itemID, err := uuid.Parse(req.ItemID)
	if err != nil {
		return CalculationResponse{}, apperror.Validation("invalid item_id")
	}
	quantity, err := decimal.NewFromString(req.Quantity)
	if err != nil || !quantity.IsPositive() {
		return CalculationResponse{}, apperror.Validation("quantity must be a positive number")
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		calc, err := s.mustOpenCalculation(txCtx, calcID)
		if err != nil {
			return err
		}

		item, err := s.itemRepo.FindActiveByID(txCtx, itemID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperror.NotFound("item")
			}
			return fmt.Errorf("failed to fetch item: %w", err)
		}

		snapshot, err := s.taxRepo.FindValid(txCtx, time.Now())
		if err != nil {
			return fmt.Errorf("failed to fetch valid taxes: %w", err)
		}
		percent, err := FindTaxPercent(snapshot, item.TaxID)
		if err != nil {
			return err
		}

		unit := item.NetPrice
		if calc.InputMode == pricing.InputModeGrossFirst {
			unit = item.GrossPrice
		}
		if req.UnitPrice != "" {
			unit, err = decimal.NewFromString(req.UnitPrice)
			if err != nil {
				return apperror.Validation("invalid unit_price: " + req.UnitPrice)
			}
		}

		pair := pricing.DerivePair(calc.InputMode, pricing.Round2(quantity.Mul(unit)), percent)

		line := model.CalculationItem{
			CalculationID: calcID,
			ItemID:        itemID,
			Position:      len(calc.Items) + 1,
			Quantity:      quantity,
			TaxPercent:    percent,
			FinanceVP:     pair.Net,
			FinanceMP:     pair.Gross,
		}
		if err := s.calcRepo.CreateItem(txCtx, &line); err != nil {
			return fmt.Errorf("failed to create calculation item: %w", err)
		}

		return s.recompute(txCtx, calcID)
	})
	if err != nil {
		return CalculationResponse{}, err
	}

	return s.GetCalculation(ctx, id)
}

func (s *calculationService) UpdateItem(ctx context.Context, id, itemID string, req UpdateCalculationItemRequest) (CalculationResponse, error) {
	calcID, err := uuid.Parse(id)
	if err != nil {
		return CalculationResponse{}, apperror.Validation("invalid calculation id")
	}
	lineID, err := uuid.Parse(itemID)
	if err != nil {
		return CalculationResponse{}, apperror.Validation("invalid item id")
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		calc, err := s.mustOpenCalculation(txCtx, calcID)
		if err != nil {
			return err
		}

		var line *model.CalculationItem
		for i := range calc.Items {
			if calc.Items[i].ID == lineID {
				line = &calc.Items[i]
				break
			}
		}
		if line == nil {
			return apperror.NotFound("calculation item")
		}

		// The stored pair was computed with the current quantity, so the
		// implied unit price must be derived from it before any edit.
		previousQuantity := line.Quantity

		if req.Quantity != "" {
			quantity, err := decimal.NewFromString(req.Quantity)
			if err != nil || !quantity.IsPositive() {
				return apperror.Validation("quantity must be a positive number")
			}
			line.Quantity = quantity
		}

		unit := line.FinanceVP
		if calc.InputMode == pricing.InputModeGrossFirst {
			unit = line.FinanceMP
		}
		if !previousQuantity.IsZero() {
			unit = unit.Div(previousQuantity)
		}
		if req.UnitPrice != "" {
			unit, err = decimal.NewFromString(req.UnitPrice)
			if err != nil {
				return apperror.Validation("invalid unit_price: " + req.UnitPrice)
			}
		}

		// The tax percent stays as snapshotted at line creation.
		pair := pricing.DerivePair(calc.InputMode, pricing.Round2(line.Quantity.Mul(unit)), line.TaxPercent)
		line.FinanceVP = pair.Net
		line.FinanceMP = pair.Gross

		if err := s.calcRepo.SaveItem(txCtx, line); err != nil {
			return fmt.Errorf("failed to update calculation item: %w", err)
		}

		return s.recompute(txCtx, calcID)
	})
	if err != nil {
		return CalculationResponse{}, err
	}

	return s.GetCalculation(ctx, id)
}

func (s *calculationService) RemoveItem(ctx context.Context, id, itemID string) (CalculationResponse, error) {
	calcID, err := uuid.Parse(id)
	if err != nil {
		return CalculationResponse{}, apperror.Validation("invalid calculation id")
	}
	lineID, err := uuid.Parse(itemID)
	if err != nil {
		return CalculationResponse{}, apperror.Validation("invalid item id")
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if _, err := s.mustOpenCalculation(txCtx, calcID); err != nil {
			return err
		}
		if err := s.calcRepo.DeleteItem(txCtx, calcID, lineID); err != nil {
			return fmt.Errorf("failed to delete calculation item: %w", err)
		}
		return s.recompute(txCtx, calcID)
	})
	if err != nil {
		return CalculationResponse{}, err
	}

	return s.GetCalculation(ctx, id)
}

func (s *calculationService) AddExpense(ctx context.Context, id string, req CalculationExpenseRequest) (CalculationResponse, error) {
	calcID, err := uuid.Parse(id)
	if err != nil {
		return CalculationResponse{}, apperror.Validation("invalid calculation id")
	}
	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		return CalculationResponse{}, apperror.Validation("invalid amount: " + req.Amount)
	}
	percent, err := decimal.NewFromString(req.TaxPercent)
	if err != nil {
		return CalculationResponse{}, apperror.Validation("invalid tax_percent: " + req.TaxPercent)
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if _, err := s.mustOpenCalculation(txCtx, calcID); err != nil {
			return err
		}

		expense := model.CalculationExpense{
			CalculationID: calcID,
			Kind:          req.Kind,
			Description:   req.Description,
			Amount:        pricing.Round2(amount),
			TaxPercent:    percent,
		}
		if err := s.calcRepo.CreateExpense(txCtx, &expense); err != nil {
			return fmt.Errorf("failed to create expense: %w", err)
		}

		return s.recompute(txCtx, calcID)
	})
	if err != nil {
		return CalculationResponse{}, err
	}

	return s.GetCalculation(ctx, id)
}

func (s *calculationService) UpdateExpense(ctx context.Context, id, expenseID string, req CalculationExpenseRequest) (CalculationResponse, error) {
	calcID, err := uuid.Parse(id)
	if err != nil {
		return CalculationResponse{}, apperror.Validation("invalid calculation id")
	}
	expID, err := uuid.Parse(expenseID)
	if err != nil {
		return CalculationResponse{}, apperror.Validation("invalid expense id")
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		calc, err := s.mustOpenCalculation(txCtx, calcID)
		if err != nil {
			return err
		}

		var expense *model.CalculationExpense
		for i := range calc.Expenses {
			if calc.Expenses[i].ID == expID {
				expense = &calc.Expenses[i]
				break
			}
		}
		if expense == nil {
			return apperror.NotFound("expense")
		}

		if req.Kind != "" {
			expense.Kind = req.Kind
		}
		if req.Description != "" {
			expense.Description = req.Description
		}
		if req.Amount != "" {
			amount, err := decimal.NewFromString(req.Amount)
			if err != nil {
				return apperror.Validation("invalid amount: " + req.Amount)
			}
			expense.Amount = pricing.Round2(amount)
		}
		if req.TaxPercent != "" {
			percent, err := decimal.NewFromString(req.TaxPercent)
			if err != nil {
				return apperror.Validation("invalid tax_percent: " + req.TaxPercent)
			}
			expense.TaxPercent = percent
		}

		if err := s.calcRepo.SaveExpense(txCtx, expense); err != nil {
			return fmt.Errorf("failed to update expense: %w", err)
		}

		return s.recompute(txCtx, calcID)
	})
	if err != nil {
		return CalculationResponse{}, err
	}

	return s.GetCalculation(ctx, id)
}

func (s *calculationService) RemoveExpense(ctx context.Context, id, expenseID string) (CalculationResponse, error) {
	calcID, err := uuid.Parse(id)
	if err != nil {
		return CalculationResponse{}, apperror.Validation("invalid calculation id")
	}
	expID, err := uuid.Parse(expenseID)
	if err != nil {
		return CalculationResponse{}, apperror.Validation("invalid expense id")
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if _, err := s.mustOpenCalculation(txCtx, calcID); err != nil {
			return err
		}
		if err := s.calcRepo.DeleteExpense(txCtx, calcID, expID); err != nil {
			return fmt.Errorf("failed to delete expense: %w", err)
		}
		return s.recompute(txCtx, calcID)
	})
	if err != nil {
		return CalculationResponse{}, err
	}

	return s.GetCalculation(ctx, id)
}

// recompute redistributes all expenses over the calculation's lines and
// refreshes the stored internal/final pairs plus the header total. It always
// starts from the original FinanceVP/FinanceMP values, so repeated runs are
// idempotent.
func (s *calculationService) recompute(ctx context.Context, calcID uuid.UUID) error {
	calc, err := s.calcRepo.FindByIDWithChildren(ctx, calcID)
	if err != nil {
		return fmt.Errorf("failed to reload calculation: %w", err)
	}

	lines := make([]pricing.AllocationLine, len(calc.Items))
	for i, it := range calc.Items {
		lines[i] = pricing.AllocationLine{Net: it.FinanceVP, Gross: it.FinanceMP}
	}

	var internalEntries, externalEntries []pricing.PoolEntry
	for _, e := range calc.Expenses {
		entry := pricing.PoolEntry{Amount: e.Amount, TaxPercent: e.TaxPercent}
		if e.Kind == model.ExpenseKindInternal {
			internalEntries = append(internalEntries, entry)
		} else {
			externalEntries = append(externalEntries, entry)
		}
	}

	allocated, err := pricing.Allocate(lines, pricing.BuildPool(internalEntries), pricing.BuildPool(externalEntries))
	if err != nil {
		if errors.Is(err, pricing.ErrZeroAllocationBase) {
			return apperror.Precondition("expenses cannot be distributed over zero-value lines", err)
		}
		return err
	}

	total := decimal.Zero
	for i := range calc.Items {
		calc.Items[i].FinanceVPInternal = allocated[i].NetInternal
		calc.Items[i].FinanceMPInternal = allocated[i].GrossInternal
		calc.Items[i].FinanceVPFinal = allocated[i].NetFinal
		calc.Items[i].FinanceMPFinal = allocated[i].GrossFinal
		if err := s.calcRepo.SaveItem(ctx, &calc.Items[i]); err != nil {
			return fmt.Errorf("failed to save allocated item: %w", err)
		}
		total = pricing.Round2(total.Add(calc.Items[i].FinanceMP))
	}

	calc.TotalFinanceMP = total
	return s.calcRepo.UpdateHeader(ctx, calc)
}

func (s *calculationService) mustOpenCalculation(ctx context.Context, calcID uuid.UUID) (*model.Calculation, error) {
	calc, err := s.calcRepo.FindByIDWithChildren(ctx, calcID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("calculation")
		}
		return nil, fmt.Errorf("failed to fetch calculation: %w", err)
	}
	if calc.Status != model.CalculationStatusOpen {
		return nil, apperror.Precondition("calculation is closed", nil)
	}
	return calc, nil
}

func (s *calculationService) generateNumber(ctx context.Context) (string, error) {
	today := time.Now().Format("20060102")
	prefix := "CAL-" + today + "-"

	count, err := s.calcRepo.CountByPrefix(ctx, prefix)
	if err != nil {
		return "", err
	}

	return fmt.Sprintf("%s%05d", prefix, count+1), nil
}

// --- Mapping ---

func toCalculationResponse(calc model.Calculation) CalculationResponse {
	resp := CalculationResponse{
		ID:             calc.ID.String(),
		Number:         calc.Number,
		InputMode:      calc.InputMode,
		Status:         calc.Status,
		TotalFinanceMP: calc.TotalFinanceMP.StringFixed(2),
		Note:           calc.Note,
		CreatedAt:      calc.CreatedAt.Format(time.RFC3339),
	}

	for _, it := range calc.Items {
		line := CalculationItemResponse{
			ID:                it.ID.String(),
			ItemID:            it.ItemID.String(),
			Position:          it.Position,
			Quantity:          it.Quantity.StringFixed(3),
			TaxPercent:        it.TaxPercent.StringFixed(2),
			FinanceVP:         it.FinanceVP.StringFixed(2),
			FinanceMP:         it.FinanceMP.StringFixed(2),
			FinanceVPInternal: it.FinanceVPInternal.StringFixed(2),
			FinanceMPInternal: it.FinanceMPInternal.StringFixed(2),
			FinanceVPFinal:    it.FinanceVPFinal.StringFixed(2),
			FinanceMPFinal:    it.FinanceMPFinal.StringFixed(2),
		}
		if it.Item != nil {
			line.ItemName = it.Item.Name
		}
		resp.Items = append(resp.Items, line)
	}

	for _, e := range calc.Expenses {
		resp.Expenses = append(resp.Expenses, CalculationExpenseResponse{
			ID:          e.ID.String(),
			Kind:        e.Kind,
			Description: e.Description,
			Amount:      e.Amount.StringFixed(2),
			TaxPercent:  e.TaxPercent.StringFixed(2),
		})
	}

	return resp
}
