package service

import (
	"context"
	"testing"

	"backend/internal/model"
	"backend/internal/repository"
	"backend/pkg/apperror"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func receiptFixture(t *testing.T) (context.Context, ReceiptService, *model.Item) {
	t.Helper()

	tenantID := uuid.New()
	ctx := repository.WithTenant(context.Background(), tenantID)

	taxID := uuid.New()
	taxRepo := &fakeTaxRepo{taxes: []model.Tax{
		{ID: taxID, TenantID: tenantID, ShortName: "A", Percent: decimal.NewFromInt(20)},
	}}

	itemRepo := newFakeItemRepo()
	item := &model.Item{
		TenantID: tenantID, Code: "SKU-1", Barcode: "200001",
		Name: "Gadget", TaxID: taxID,
		NetPrice:   decimal.RequireFromString("83.33"),
		GrossPrice: decimal.NewFromInt(100),
		Status:     model.ItemStatusActive,
	}
	require.NoError(t, itemRepo.Create(ctx, item))

	svc := NewReceiptService(newFakeReceiptRepo(), itemRepo, taxRepo, fakeTxManager{})
	return ctx, svc, item
}

func TestReceiptServiceComputesLineFinance(t *testing.T) {
	ctx, svc, item := receiptFixture(t)

	resp, err := svc.CreateReceipt(ctx, CreateReceiptRequest{
		Items: []ReceiptItemRequest{
			{ItemID: item.ID.String(), Quantity: "2"},
		},
		Payments: []ReceiptPaymentRequest{
			{Kind: model.PaymentKindCash, Amount: "200"},
		},
	})
	require.NoError(t, err)
	require.Len(t, resp.Items, 1)

	line := resp.Items[0]
	assert.Equal(t, "100.00", line.UnitPrice)
	assert.Equal(t, "200.00", line.FinanceMP)
	assert.Equal(t, "200.00", line.FinanceFinalMP)
	assert.Equal(t, "166.67", line.FinanceVP)
	assert.Equal(t, "33.33", line.TaxFinance)

	check, err := svc.CheckPayments(ctx, resp.ID)
	require.NoError(t, err)
	assert.True(t, check.Matches)
	assert.Equal(t, "0.00", check.Difference)
}

func TestReceiptServicePercentDiscountWinsOverValue(t *testing.T) {
	ctx, svc, item := receiptFixture(t)

	// Clients are expected to send one or the other; when both arrive, the
	// percent path has always taken precedence and stays that way.
	resp, err := svc.CreateReceipt(ctx, CreateReceiptRequest{
		Items: []ReceiptItemRequest{
			{
				ItemID:          item.ID.String(),
				Quantity:        "2",
				DiscountPercent: "10",
				DiscountValue:   "50",
			},
		},
		Payments: []ReceiptPaymentRequest{
			{Kind: model.PaymentKindCard, Amount: "180"},
		},
	})
	require.NoError(t, err)
	require.Len(t, resp.Items, 1)

	assert.Equal(t, "200.00", resp.Items[0].FinanceMP)
	assert.Equal(t, "180.00", resp.Items[0].FinanceFinalMP)
	assert.Equal(t, "150.00", resp.Items[0].FinanceVP)
	assert.Equal(t, "30.00", resp.Items[0].TaxFinance)
}

func TestReceiptServiceAcceptsMismatchedPayments(t *testing.T) {
	ctx, svc, item := receiptFixture(t)

	// A payment sum off by a cent is stored anyway; the check endpoint is the
	// place that reports the difference.
	resp, err := svc.CreateReceipt(ctx, CreateReceiptRequest{
		Items: []ReceiptItemRequest{
			{ItemID: item.ID.String(), Quantity: "2"},
		},
		Payments: []ReceiptPaymentRequest{
			{Kind: model.PaymentKindCash, Amount: "199.99"},
		},
	})
	require.NoError(t, err)

	check, err := svc.CheckPayments(ctx, resp.ID)
	require.NoError(t, err)
	assert.False(t, check.Matches)
	assert.Equal(t, "200.00", check.ItemTotal)
	assert.Equal(t, "199.99", check.PaymentTotal)
	assert.Equal(t, "0.01", check.Difference)
}

func TestReceiptServiceSplitPayments(t *testing.T) {
	ctx, svc, item := receiptFixture(t)

	resp, err := svc.CreateReceipt(ctx, CreateReceiptRequest{
		Items: []ReceiptItemRequest{
			{ItemID: item.ID.String(), Quantity: "2"},
		},
		Payments: []ReceiptPaymentRequest{
			{Kind: model.PaymentKindCash, Amount: "50"},
			{Kind: model.PaymentKindCard, Amount: "150"},
		},
	})
	require.NoError(t, err)
	require.Len(t, resp.Payments, 2)

	check, err := svc.CheckPayments(ctx, resp.ID)
	require.NoError(t, err)
	assert.True(t, check.Matches)
}

func TestReceiptServiceValidation(t *testing.T) {
	ctx, svc, item := receiptFixture(t)

	tests := []struct {
		name string
		req  CreateReceiptRequest
	}{
		{
			name: "no items",
			req: CreateReceiptRequest{
				Payments: []ReceiptPaymentRequest{{Kind: model.PaymentKindCash, Amount: "10"}},
			},
		},
		{
			name: "no payments",
			req: CreateReceiptRequest{
				Items: []ReceiptItemRequest{{ItemID: item.ID.String(), Quantity: "1"}},
			},
		},
		{
			name: "zero quantity",
			req: CreateReceiptRequest{
				Items:    []ReceiptItemRequest{{ItemID: item.ID.String(), Quantity: "0"}},
				Payments: []ReceiptPaymentRequest{{Kind: model.PaymentKindCash, Amount: "10"}},
			},
		},
		{
			name: "discount exceeds line value",
			req: CreateReceiptRequest{
				Items:    []ReceiptItemRequest{{ItemID: item.ID.String(), Quantity: "1", DiscountValue: "500"}},
				Payments: []ReceiptPaymentRequest{{Kind: model.PaymentKindCash, Amount: "10"}},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreateReceipt(ctx, tt.req)
			require.Error(t, err)
			appErr, ok := apperror.As(err)
			require.True(t, ok)
			assert.Equal(t, apperror.KindValidation, appErr.Kind)
		})
	}
}

func TestReceiptServiceRejectsInactiveItem(t *testing.T) {
	ctx, svc, item := receiptFixture(t)
	_ = item

	_, err := svc.CreateReceipt(ctx, CreateReceiptRequest{
		Items:    []ReceiptItemRequest{{ItemID: uuid.NewString(), Quantity: "1"}},
		Payments: []ReceiptPaymentRequest{{Kind: model.PaymentKindCash, Amount: "10"}},
	})
	require.Error(t, err)
	appErr, ok := apperror.As(err)
	require.True(t, ok)
	assert.Equal(t, apperror.KindNotFound, appErr.Kind)
}
