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

type InvoiceItemRequest struct {
	ItemID          string `json:"item_id" binding:"required"`
	Quantity        string `json:"quantity" binding:"required"`
	UnitPrice       string `json:"unit_price"`
	DiscountPercent string `json:"discount_percent"`
	DiscountValue   string `json:"discount_value"`
}

type CreateInvoiceRequest struct {
	CustomerID string               `json:"customer_id" binding:"required"`
	Note       string               `json:"note"`
	Items      []InvoiceItemRequest `json:"items" binding:"required"`
}

type InvoiceItemResponse struct {
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

type InvoiceResponse struct {
	ID           string                `json:"id"`
	Number       string                `json:"number"`
	CustomerID   string                `json:"customer_id"`
	CustomerName string                `json:"customer_name,omitempty"`
	Status       string                `json:"status"`
	Note         string                `json:"note"`
	Items        []InvoiceItemResponse `json:"items,omitempty"`
	CreatedAt    string                `json:"created_at"`
}

// --- Interface ---

type InvoiceService interface {
	CreateInvoice(ctx context.Context, req CreateInvoiceRequest) (InvoiceResponse, error)
	IssueInvoice(ctx context.Context, id string) (InvoiceResponse, error)
	GetInvoice(ctx context.Context, id string) (InvoiceResponse, error)
	ListInvoices(ctx context.Context, page, limit int) ([]InvoiceResponse, int64, error)
}

type invoiceService struct {
	invoiceRepo  repository.InvoiceRepository
	customerRepo repository.CustomerRepository
	itemRepo     repository.ItemRepository
	taxRepo      repository.TaxRepository
	txManager    repository.TransactionManager
}

func NewInvoiceService(
	invoiceRepo repository.InvoiceRepository,
	customerRepo repository.CustomerRepository,
	itemRepo repository.ItemRepository,
	taxRepo repository.TaxRepository,
	txManager repository.TransactionManager,
) InvoiceService {
	return &invoiceService{
		invoiceRepo:  invoiceRepo,
		customerRepo: customerRepo,
		itemRepo:     itemRepo,
		taxRepo:      taxRepo,
		txManager:    txManager,
	}
}

// --- Implementation ---

func (s *invoiceService) CreateInvoice(ctx context.Context, req CreateInvoiceRequest) (InvoiceResponse, error) {
	tenantID, ok := repository.TenantFrom(ctx)
	if !ok {
		return InvoiceResponse{}, apperror.Validation("missing tenant context")
	}
	if len(req.Items) == 0 {
		return InvoiceResponse{}, apperror.Validation("invoice requires at least one item")
	}

	customerID, err := uuid.Parse(req.CustomerID)
	if err != nil {
		return InvoiceResponse{}, apperror.Validation("invalid customer_id")
	}

	var invoice model.Invoice
	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if _, err := s.customerRepo.FindByID(txCtx, customerID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperror.NotFound("customer")
			}
			return fmt.Errorf("failed to fetch customer: %w", err)
		}

		snapshot, err := s.taxRepo.FindValid(txCtx, time.Now())
		if err != nil {
			return fmt.Errorf("failed to fetch valid taxes: %w", err)
		}

		number, err := s.generateNumber(txCtx)
		if err != nil {
			return fmt.Errorf("failed to generate invoice number: %w", err)
		}

		invoice = model.Invoice{
			TenantID:   tenantID,
			Number:     number,
			CustomerID: customerID,
			Status:     model.InvoiceStatusDraft,
			Note:       req.Note,
		}

		for i, lineReq := range req.Items {
			line, err := s.buildLine(txCtx, snapshot, i+1, lineReq)
			if err != nil {
				return err
			}
			invoice.Items = append(invoice.Items, *line)
		}

		return s.invoiceRepo.Create(txCtx, &invoice)
	})
	if err != nil {
		return InvoiceResponse{}, err
	}

	reloaded, err := s.invoiceRepo.FindByID(ctx, invoice.ID)
	if err != nil {
		return InvoiceResponse{}, fmt.Errorf("failed to reload invoice: %w", err)
	}

	return toInvoiceResponse(*reloaded), nil
}

// buildLine prices one invoice line exactly like a receipt line: gross from
// quantity and unit price, optional discount with percent precedence, net and
// VAT derived from the final gross.
func (s *invoiceService) buildLine(ctx context.Context, snapshot []model.Tax, position int, req InvoiceItemRequest) (*model.InvoiceItem, error) {
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

	return &model.InvoiceItem{
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

func (s *invoiceService) IssueInvoice(ctx context.Context, id string) (InvoiceResponse, error) {
	invoiceID, err := uuid.Parse(id)
	if err != nil {
		return InvoiceResponse{}, apperror.Validation("invalid invoice id")
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		invoice, err := s.invoiceRepo.FindByID(txCtx, invoiceID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperror.NotFound("invoice")
			}
			return fmt.Errorf("failed to fetch invoice: %w", err)
		}
		if invoice.Status != model.InvoiceStatusDraft {
			return apperror.Precondition("invoice is already issued", nil)
		}
		return s.invoiceRepo.UpdateStatus(txCtx, invoiceID, model.InvoiceStatusIssued)
	})
	if err != nil {
		return InvoiceResponse{}, err
	}

	return s.GetInvoice(ctx, id)
}

func (s *invoiceService) GetInvoice(ctx context.Context, id string) (InvoiceResponse, error) {
	invoiceID, err := uuid.Parse(id)
	if err != nil {
		return InvoiceResponse{}, apperror.Validation("invalid invoice id")
	}

	invoice, err := s.invoiceRepo.FindByID(ctx, invoiceID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return InvoiceResponse{}, apperror.NotFound("invoice")
		}
		return InvoiceResponse{}, fmt.Errorf("failed to fetch invoice: %w", err)
	}

	return toInvoiceResponse(*invoice), nil
}

func (s *invoiceService) ListInvoices(ctx context.Context, page, limit int) ([]InvoiceResponse, int64, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}

	invoices, total, err := s.invoiceRepo.List(ctx, page, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch invoices: %w", err)
	}

	result := make([]InvoiceResponse, 0, len(invoices))
	for _, inv := range invoices {
		result = append(result, toInvoiceResponse(inv))
	}
	return result, total, nil
}

func (s *invoiceService) generateNumber(ctx context.Context) (string, error) {
	today := time.Now().Format("20060102")
	prefix := "INV-" + today + "-"

	count, err := s.invoiceRepo.CountByPrefix(ctx, prefix)
	if err != nil {
		return "", err
	}

	return fmt.Sprintf("%s%05d", prefix, count+1), nil
}

// --- Mapping ---

func toInvoiceResponse(invoice model.Invoice) InvoiceResponse {
	resp := InvoiceResponse{
		ID:         invoice.ID.String(),
		Number:     invoice.Number,
		CustomerID: invoice.CustomerID.String(),
		Status:     invoice.Status,
		Note:       invoice.Note,
		CreatedAt:  invoice.CreatedAt.Format(time.RFC3339),
	}
	if invoice.Customer != nil {
		resp.CustomerName = invoice.Customer.Name
	}

	for _, it := range invoice.Items {
		line := InvoiceItemResponse{
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

	return resp
}
