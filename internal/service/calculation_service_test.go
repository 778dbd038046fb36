package service

import (
	"context"
	"testing"

	"backend/internal/model"
	"backend/internal/pricing"
	"backend/internal/repository"
	"backend/pkg/apperror"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedCalculation(repo *fakeCalculationRepo, tenantID uuid.UUID, status string) *model.Calculation {
	calc := &model.Calculation{
		ID:        uuid.New(),
		TenantID:  tenantID,
		Number:    "CAL-20260830-00001",
		InputMode: pricing.InputModeNetFirst,
		Status:    status,
		Items: []model.CalculationItem{
			{
				ID: uuid.New(), ItemID: uuid.New(), Position: 1,
				Quantity:   decimal.NewFromInt(1),
				TaxPercent: decimal.NewFromInt(20),
				FinanceVP:  decimal.RequireFromString("83.33"),
				FinanceMP:  decimal.NewFromInt(100),
			},
			{
				ID: uuid.New(), ItemID: uuid.New(), Position: 2,
				Quantity:   decimal.NewFromInt(1),
				TaxPercent: decimal.NewFromInt(20),
				FinanceVP:  decimal.NewFromInt(250),
				FinanceMP:  decimal.NewFromInt(300),
			},
		},
	}
	for i := range calc.Items {
		calc.Items[i].CalculationID = calc.ID
	}
	stored := *calc
	repo.calcs[calc.ID] = &stored
	return calc
}

func TestCalculationServiceDistributesInternalExpense(t *testing.T) {
	tenantID := uuid.New()
	ctx := repository.WithTenant(context.Background(), tenantID)

	calcRepo := newFakeCalculationRepo()
	calc := seedCalculation(calcRepo, tenantID, model.CalculationStatusOpen)

	svc := NewCalculationService(calcRepo, newFakeItemRepo(), &fakeTaxRepo{}, fakeTxManager{})

	resp, err := svc.AddExpense(ctx, calc.ID.String(), CalculationExpenseRequest{
		Kind:       model.ExpenseKindInternal,
		Amount:     "40",
		TaxPercent: "20",
	})
	require.NoError(t, err)
	require.Len(t, resp.Items, 2)

	// Pool 40.00 with VAT portion 6.67; the 100/300 split gives shares of
	// 10.00 and 30.00 gross.
	assert.Equal(t, "110.00", resp.Items[0].FinanceMPInternal)
	assert.Equal(t, "330.00", resp.Items[1].FinanceMPInternal)
	assert.Equal(t, "91.66", resp.Items[0].FinanceVPInternal)
	assert.Equal(t, "275.00", resp.Items[1].FinanceVPInternal)

	// No external expenses: the final pair equals the internal pair.
	assert.Equal(t, resp.Items[0].FinanceMPInternal, resp.Items[0].FinanceMPFinal)
	assert.Equal(t, resp.Items[1].FinanceVPInternal, resp.Items[1].FinanceVPFinal)

	assert.Equal(t, "400.00", resp.TotalFinanceMP)
}

func TestCalculationServiceRemovingLastExpenseRestoresOriginals(t *testing.T) {
	tenantID := uuid.New()
	ctx := repository.WithTenant(context.Background(), tenantID)

	calcRepo := newFakeCalculationRepo()
	calc := seedCalculation(calcRepo, tenantID, model.CalculationStatusOpen)

	svc := NewCalculationService(calcRepo, newFakeItemRepo(), &fakeTaxRepo{}, fakeTxManager{})

	resp, err := svc.AddExpense(ctx, calc.ID.String(), CalculationExpenseRequest{
		Kind:       model.ExpenseKindInternal,
		Amount:     "40",
		TaxPercent: "20",
	})
	require.NoError(t, err)
	require.Len(t, resp.Expenses, 1)
	assert.NotEqual(t, resp.Items[0].FinanceMP, resp.Items[0].FinanceMPFinal)

	resp, err = svc.RemoveExpense(ctx, calc.ID.String(), resp.Expenses[0].ID)
	require.NoError(t, err)

	// The recompute always restarts from the original pair, so dropping the
	// only expense passes values through untouched.
	assert.Equal(t, "100.00", resp.Items[0].FinanceMPFinal)
	assert.Equal(t, "83.33", resp.Items[0].FinanceVPFinal)
	assert.Equal(t, "300.00", resp.Items[1].FinanceMPFinal)
	assert.Equal(t, "250.00", resp.Items[1].FinanceVPFinal)
}

func TestCalculationServiceAddItemDerivesPairNetFirst(t *testing.T) {
	tenantID := uuid.New()
	ctx := repository.WithTenant(context.Background(), tenantID)

	taxID := uuid.New()
	taxRepo := &fakeTaxRepo{taxes: []model.Tax{
		{ID: taxID, TenantID: tenantID, ShortName: "A", Percent: decimal.NewFromInt(20)},
	}}

	itemRepo := newFakeItemRepo()
	catalogItem := &model.Item{
		TenantID: tenantID, Code: "WID-1", Barcode: "100001",
		Name: "Widget", TaxID: taxID,
		NetPrice:   decimal.NewFromInt(50),
		GrossPrice: decimal.NewFromInt(60),
		Status:     model.ItemStatusActive,
	}
	require.NoError(t, itemRepo.Create(ctx, catalogItem))

	calcRepo := newFakeCalculationRepo()
	svc := NewCalculationService(calcRepo, itemRepo, taxRepo, fakeTxManager{})

	created, err := svc.CreateCalculation(ctx, CreateCalculationRequest{InputMode: pricing.InputModeNetFirst})
	require.NoError(t, err)

	resp, err := svc.AddItem(ctx, created.ID, CalculationItemRequest{
		ItemID:   catalogItem.ID.String(),
		Quantity: "2",
	})
	require.NoError(t, err)
	require.Len(t, resp.Items, 1)

	assert.Equal(t, 1, resp.Items[0].Position)
	assert.Equal(t, "20.00", resp.Items[0].TaxPercent)
	assert.Equal(t, "100.00", resp.Items[0].FinanceVP)
	assert.Equal(t, "120.00", resp.Items[0].FinanceMP)
	assert.Equal(t, "100.00", resp.Items[0].FinanceVPFinal)
	assert.Equal(t, "120.00", resp.Items[0].FinanceMPFinal)
	assert.Equal(t, "120.00", resp.TotalFinanceMP)
}

func TestCalculationServiceUpdateItemQuantityRescalesPair(t *testing.T) {
	tenantID := uuid.New()
	ctx := repository.WithTenant(context.Background(), tenantID)

	taxID := uuid.New()
	taxRepo := &fakeTaxRepo{taxes: []model.Tax{
		{ID: taxID, TenantID: tenantID, ShortName: "A", Percent: decimal.NewFromInt(20)},
	}}

	itemRepo := newFakeItemRepo()
	catalogItem := &model.Item{
		TenantID: tenantID, Code: "WID-1", Barcode: "100001",
		Name: "Widget", TaxID: taxID,
		NetPrice:   decimal.NewFromInt(50),
		GrossPrice: decimal.NewFromInt(60),
		Status:     model.ItemStatusActive,
	}
	require.NoError(t, itemRepo.Create(ctx, catalogItem))

	calcRepo := newFakeCalculationRepo()
	svc := NewCalculationService(calcRepo, itemRepo, taxRepo, fakeTxManager{})

	created, err := svc.CreateCalculation(ctx, CreateCalculationRequest{InputMode: pricing.InputModeNetFirst})
	require.NoError(t, err)

	resp, err := svc.AddItem(ctx, created.ID, CalculationItemRequest{
		ItemID:   catalogItem.ID.String(),
		Quantity: "2",
	})
	require.NoError(t, err)
	require.Len(t, resp.Items, 1)
	require.Equal(t, "100.00", resp.Items[0].FinanceVP)

	// Doubling the quantity without touching the unit price must double the
	// stored pair: the implied unit (100/2 = 50) applies to the new quantity.
	resp, err = svc.UpdateItem(ctx, created.ID, resp.Items[0].ID, UpdateCalculationItemRequest{
		Quantity: "4",
	})
	require.NoError(t, err)
	assert.Equal(t, "4.000", resp.Items[0].Quantity)
	assert.Equal(t, "200.00", resp.Items[0].FinanceVP)
	assert.Equal(t, "240.00", resp.Items[0].FinanceMP)

	// An explicit unit price replaces the implied one at the kept quantity.
	resp, err = svc.UpdateItem(ctx, created.ID, resp.Items[0].ID, UpdateCalculationItemRequest{
		UnitPrice: "10",
	})
	require.NoError(t, err)
	assert.Equal(t, "4.000", resp.Items[0].Quantity)
	assert.Equal(t, "40.00", resp.Items[0].FinanceVP)
	assert.Equal(t, "48.00", resp.Items[0].FinanceMP)
}

func TestCalculationServiceRejectsMutationWhenClosed(t *testing.T) {
	tenantID := uuid.New()
	ctx := repository.WithTenant(context.Background(), tenantID)

	calcRepo := newFakeCalculationRepo()
	calc := seedCalculation(calcRepo, tenantID, model.CalculationStatusClosed)

	svc := NewCalculationService(calcRepo, newFakeItemRepo(), &fakeTaxRepo{}, fakeTxManager{})

	_, err := svc.AddExpense(ctx, calc.ID.String(), CalculationExpenseRequest{
		Kind:       model.ExpenseKindExternal,
		Amount:     "10",
		TaxPercent: "20",
	})
	require.Error(t, err)

	appErr, ok := apperror.As(err)
	require.True(t, ok)
	assert.Equal(t, apperror.KindPrecondition, appErr.Kind)
}

func TestCalculationServiceCloseIsTerminal(t *testing.T) {
	tenantID := uuid.New()
	ctx := repository.WithTenant(context.Background(), tenantID)

	calcRepo := newFakeCalculationRepo()
	calc := seedCalculation(calcRepo, tenantID, model.CalculationStatusOpen)

	svc := NewCalculationService(calcRepo, newFakeItemRepo(), &fakeTaxRepo{}, fakeTxManager{})

	resp, err := svc.CloseCalculation(ctx, calc.ID.String())
	require.NoError(t, err)
	assert.Equal(t, model.CalculationStatusClosed, resp.Status)

	_, err = svc.CloseCalculation(ctx, calc.ID.String())
	require.Error(t, err)
	appErr, ok := apperror.As(err)
	require.True(t, ok)
	assert.Equal(t, apperror.KindPrecondition, appErr.Kind)
}
