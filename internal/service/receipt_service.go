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

type ReceiptItemRequest struct {
	ItemID   string `json:"item_id" binding:"required"`
	Quantity string `json:"quantity" binding:"required"`
	// UnitPrice overrides the catalog gross price when present.
	UnitPrice string `json:"unit_price"`
	// DiscountPercent and DiscountValue are mutually exclusive. If a client
	// sends both anyway, the percent wins.
	DiscountPercent string `json:"discount_percent"`
	DiscountValue   string `json:"discount_value"`
}

type ReceiptPaymentRequest struct {
	Kind   string `json:"kind" binding:"required,oneof=CASH CARD CHECK"`
	Amount string `json:"amount" binding:"required"`
}

type CreateReceiptRequest struct {
	CustomerID string                  `json:"customer_id"`
	Items      []ReceiptItemRequest    `json:"items" binding:"required"`
	Payments   []ReceiptPaymentRequest `json:"payments" binding:"required"`
}

type ReceiptItemResponse struct {
	ID              string  `json:"id"`
	ItemID          string  `json:"item_id"`
	Position        int     `json:"position"`
	Quantity        string  `json:"quantity"`
	UnitPrice       string  `json:"unit_price"`
	TaxPercent      string  `json:"tax_percent"`
	DiscountPercent *string `json:"discount_percent"`
	DiscountValue   *string `json:"discount_value"`
	FinanceMP       string  `json:"finance_mp"`
	FinanceFinalMP  string  `json:"finance_final_mp"`
	FinanceVP       string  `json:"finance_vp"`
	TaxFinance      string  `json:"tax_finance"`
}

type ReceiptPaymentResponse struct {
	ID     string `json:"id"`
	Kind   string `json:"kind"`
	Amount string `json:"amount"`
}

type ReceiptResponse struct {
	ID         string                   `json:"id"`
	Number     string                   `json:"number"`
	CustomerID *string                  `json:"customer_id"`
	Items      []ReceiptItemResponse    `json:"items,omitempty"`
	Payments   []ReceiptPaymentResponse `json:"payments,omitempty"`
	CreatedAt  string                   `json:"created_at"`
}

// PaymentCheckResponse reports whether a receipt's payments settle its lines.
type PaymentCheckResponse struct {
	ReceiptID    string `json:"receipt_id"`
	ItemTotal    string `json:"item_total"`
	PaymentTotal string `json:"payment_total"`
	Difference   string `json:"difference"`
	Matches      bool   `json:"matches"`
}

// --- Interface ---

type ReceiptService interface {
	CreateReceipt(ctx context.Context, req CreateReceiptRequest) (ReceiptResponse, error)
	GetReceipt(ctx context.Context, id string) (ReceiptResponse, error)
	ListReceipts(ctx context.Context, page, limit int) ([]ReceiptResponse, int64, error)
	// CheckPayments compares the payment sum against the final line total.
	// It is a diagnostic: inserts are accepted even when the sums diverge.
	CheckPayments(ctx context.Context, id string) (PaymentCheckResponse, error)
}

type receiptService struct {
	receiptRepo repository.ReceiptRepository
	itemRepo    repository.ItemRepository
	taxRepo     repository.TaxRepository
	txManager   repository.TransactionManager
}

func NewReceiptService(
	receiptRepo repository.ReceiptRepository,
	itemRepo repository.ItemRepository,
	taxRepo repository.TaxRepository,
	txManager repository.TransactionManager,
) ReceiptService {
	return &receiptService{
		receiptRepo: receiptRepo,
		itemRepo:    itemRepo,
		taxRepo:     taxRepo,
		txManager:   txManager,
	}
}

// --- Implementation ---

func (s *receiptService) CreateReceipt(ctx context.Context, req CreateReceiptRequest) (ReceiptResponse, error) {
	tenantID, ok := repository.TenantFrom(ctx)
	if !ok {
		return ReceiptResponse{}, apperror.Validation("missing tenant context")
	}
	if len(req.Items) == 0 {
		return ReceiptResponse{}, apperror.Validation("receipt requires at least one item")
	}
	if len(req.Payments) == 0 {
		return ReceiptResponse{}, apperror.Validation("receipt requires at least one payment")
	}

	var receipt model.Receipt
	err := s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		snapshot, err := s.taxRepo.FindValid(txCtx, time.Now())
		if err != nil {
			return fmt.Errorf("failed to fetch valid taxes: %w", err)
		}

		number, err := s.generateNumber(txCtx)
		if err != nil {
			return fmt.Errorf("failed to generate receipt number: %w", err)
		}

		receipt = model.Receipt{
			TenantID: tenantID,
			Number:   number,
		}
		if req.CustomerID != "" {
			customerID, err := uuid.Parse(req.CustomerID)
			if err != nil {
				return apperror.Validation("invalid customer_id")
			}
			receipt.CustomerID = &customerID
		}

		for i, lineReq := range req.Items {
			line, err := s.buildLine(txCtx, snapshot, i+1, lineReq)
			if err != nil {
				return err
			}
			receipt.Items = append(receipt.Items, *line)
		}

		for _, payReq := range req.Payments {
			amount, err := decimal.NewFromString(payReq.Amount)
			if err != nil {
				return apperror.Validation("invalid payment amount: " + payReq.Amount)
			}
			receipt.Payments = append(receipt.Payments, model.ReceiptPayment{
				Kind:   payReq.Kind,
				Amount: pricing.Round2(amount),
			})
		}

		return s.receiptRepo.Create(txCtx, &receipt)
	})
	if err != nil {
		return ReceiptResponse{}, err
	}

	reloaded, err := s.receiptRepo.FindByID(ctx, receipt.ID)
	if err != nil {
		return ReceiptResponse{}, fmt.Errorf("failed to reload receipt: %w", err)
	}

	return toReceiptResponse(*reloaded), nil
}

func (s *receiptService) buildLine(ctx context.Context, snapshot []model.Tax, position int, req ReceiptItemRequest) (*model.ReceiptItem, error) {
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

	unitPrice := item.GrossPrice
	if req.UnitPrice != "" {
		unitPrice, err = decimal.NewFromString(req.UnitPrice)
		if err != nil {
			return nil, apperror.Validation("invalid unit_price: " + req.UnitPrice)
		}
		unitPrice = pricing.Round2(unitPrice)
	}

	var discountPercent, discountValue *decimal.Decimal
	if req.DiscountPercent != "" {
		parsed, err := decimal.NewFromString(req.DiscountPercent)
		if err != nil {
			return nil, apperror.Validation("invalid discount_percent: " + req.DiscountPercent)
		}
		discountPercent = &parsed
	}
	if req.DiscountValue != "" {
		parsed, err := decimal.NewFromString(req.DiscountValue)
		if err != nil {
			return nil, apperror.Validation("invalid discount_value: " + req.DiscountValue)
		}
		discountValue = &parsed
	}

	financeMP := pricing.Round2(quantity.Mul(unitPrice))
	financeFinalMP := pricing.ApplyDiscount(financeMP, discountPercent, discountValue)
	if financeFinalMP.IsNegative() {
		return nil, apperror.Validation("discount exceeds line value")
	}

	return &model.ReceiptItem{
		ItemID:          itemID,
		Position:        position,
		Quantity:        quantity,
		UnitPrice:       unitPrice,
		TaxPercent:      percent,
		DiscountPercent: discountPercent,
		DiscountValue:   discountValue,
		FinanceMP:       financeMP,
		FinanceFinalMP:  financeFinalMP,
		FinanceVP:       pricing.NetFromGross(financeFinalMP, percent),
		TaxFinance:      pricing.TaxFinance(financeFinalMP, percent),
	}, nil
}

func (s *receiptService) GetReceipt(ctx context.Context, id string) (ReceiptResponse, error) {
	receiptID, err := uuid.Parse(id)
	if err != nil {
		return ReceiptResponse{}, apperror.Validation("invalid receipt id")
	}

	receipt, err := s.receiptRepo.FindByID(ctx, receiptID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ReceiptResponse{}, apperror.NotFound("receipt")
		}
		return ReceiptResponse{}, fmt.Errorf("failed to fetch receipt: %w", err)
	}

	return toReceiptResponse(*receipt), nil
}

func (s *receiptService) ListReceipts(ctx context.Context, page, limit int) ([]ReceiptResponse, int64, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}

	receipts, total, err := s.receiptRepo.List(ctx, page, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch receipts: %w", err)
	}

	result := make([]ReceiptResponse, 0, len(receipts))
	for _, r := range receipts {
		result = append(result, toReceiptResponse(r))
	}
	return result, total, nil
}

func (s *receiptService) CheckPayments(ctx context.Context, id string) (PaymentCheckResponse, error) {
	receiptID, err := uuid.Parse(id)
	if err != nil {
		return PaymentCheckResponse{}, apperror.Validation("invalid receipt id")
	}

	receipt, err := s.receiptRepo.FindByID(ctx, receiptID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return PaymentCheckResponse{}, apperror.NotFound("receipt")
		}
		return PaymentCheckResponse{}, fmt.Errorf("failed to fetch receipt: %w", err)
	}

	itemTotal := decimal.Zero
	for _, it := range receipt.Items {
		itemTotal = pricing.Round2(itemTotal.Add(it.FinanceFinalMP))
	}
	paymentTotal := decimal.Zero
	for _, p := range receipt.Payments {
		paymentTotal = pricing.Round2(paymentTotal.Add(p.Amount))
	}

	diff := itemTotal.Sub(paymentTotal)
	return PaymentCheckResponse{
		ReceiptID:    receipt.ID.String(),
		ItemTotal:    itemTotal.StringFixed(2),
		PaymentTotal: paymentTotal.StringFixed(2),
		Difference:   diff.StringFixed(2),
		Matches:      diff.IsZero(),
	}, nil
}

func (s *receiptService) generateNumber(ctx context.Context) (string, error) {
	today := time.Now().Format("20060102")
	prefix := "RCP-" + today + "-"

	count, err := s.receiptRepo.CountByPrefix(ctx, prefix)
	if err != nil {
		return "", err
	}

	return fmt.Sprintf("%s%05d", prefix, count+1), nil
}

// --- Mapping ---

func toReceiptResponse(receipt model.Receipt) ReceiptResponse {
	resp := ReceiptResponse{
		ID:        receipt.ID.String(),
		Number:    receipt.Number,
		CreatedAt: receipt.CreatedAt.Format(time.RFC3339),
	}
	if receipt.CustomerID != nil {
		s := receipt.CustomerID.String()
		resp.CustomerID = &s
	}

	for _, it := range receipt.Items {
		line := ReceiptItemResponse{
			ID:             it.ID.String(),
			ItemID:         it.ItemID.String(),
			Position:       it.Position,
			Quantity:       it.Quantity.StringFixed(3),
			UnitPrice:      it.UnitPrice.StringFixed(2),
			TaxPercent:     it.TaxPercent.StringFixed(2),
			FinanceMP:      it.FinanceMP.StringFixed(2),
			FinanceFinalMP: it.FinanceFinalMP.StringFixed(2),
			FinanceVP:      it.FinanceVP.StringFixed(2),
			TaxFinance:     it.TaxFinance.StringFixed(2),
		}
		if it.DiscountPercent != nil {
			s := it.DiscountPercent.StringFixed(2)
			line.DiscountPercent = &s
		}
		if it.DiscountValue != nil {
			s := it.DiscountValue.StringFixed(2)
			line.DiscountValue = &s
		}
		resp.Items = append(resp.Items, line)
	}

	for _, p := range receipt.Payments {
		resp.Payments = append(resp.Payments, ReceiptPaymentResponse{
			ID:     p.ID.String(),
			Kind:   p.Kind,
			Amount: p.Amount.StringFixed(2),
		})
	}

	return resp
}
