package service

import (
	"context"
	"testing"

	"backend/internal/repository"
	"backend/pkg/apperror"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeReportRepo records the window passed down and serves canned rows.
type fakeReportRepo struct {
	startDate    string
	endExclusive string
	receiptRows  []repository.SalesDataRow
	invoiceRows  []repository.SalesDataRow
}

func (f *fakeReportRepo) ReceiptSales(ctx context.Context, tenantID uuid.UUID, groupBy, startDate, endExclusive string) ([]repository.SalesDataRow, error) {
	f.startDate = startDate
	f.endExclusive = endExclusive
	return f.receiptRows, nil
}

func (f *fakeReportRepo) InvoiceSales(ctx context.Context, tenantID uuid.UUID, groupBy, startDate, endExclusive string) ([]repository.SalesDataRow, error) {
	return f.invoiceRows, nil
}

func salesRow(period, qty, net, gross, tax string) repository.SalesDataRow {
	return repository.SalesDataRow{
		Period:     period,
		Quantity:   decimal.RequireFromString(qty),
		NetValue:   decimal.RequireFromString(net),
		GrossValue: decimal.RequireFromString(gross),
		TaxFinance: decimal.RequireFromString(tax),
	}
}

func TestMergeSalesRowsSumsSharedPeriods(t *testing.T) {
	receipts := []repository.SalesDataRow{
		salesRow("2026-08-01", "3", "100.00", "120.00", "20.00"),
		salesRow("2026-08-02", "1", "50.00", "60.00", "10.00"),
	}
	invoices := []repository.SalesDataRow{
		salesRow("2026-08-01", "2", "200.00", "240.00", "40.00"),
		salesRow("2026-08-03", "5", "10.00", "12.00", "2.00"),
	}

	merged := mergeSalesRows(receipts, invoices)
	require.Len(t, merged, 3)

	assert.Equal(t, "2026-08-01", merged[0].Period)
	assert.Equal(t, "5", merged[0].Quantity.String())
	assert.Equal(t, "300.00", merged[0].NetValue.StringFixed(2))
	assert.Equal(t, "360.00", merged[0].GrossValue.StringFixed(2))
	assert.Equal(t, "60.00", merged[0].TaxFinance.StringFixed(2))

	// Buckets present in only one source pass through.
	assert.Equal(t, "2026-08-02", merged[1].Period)
	assert.Equal(t, "60.00", merged[1].GrossValue.StringFixed(2))
	assert.Equal(t, "2026-08-03", merged[2].Period)
	assert.Equal(t, "12.00", merged[2].GrossValue.StringFixed(2))
}

func TestMergeSalesRowsEmptySources(t *testing.T) {
	merged := mergeSalesRows(nil, nil)
	assert.Empty(t, merged)

	only := []repository.SalesDataRow{salesRow("2026-08-01", "1", "10.00", "12.00", "2.00")}
	merged = mergeSalesRows(only, nil)
	require.Len(t, merged, 1)
	assert.Equal(t, "2026-08-01", merged[0].Period)
}

func TestSalesRowsForEndDateIsInclusive(t *testing.T) {
	ctx := repository.WithTenant(context.Background(), uuid.New())

	// A single-day window: a sale stamped 2026-08-29T10:00 must fall inside
	// [2026-08-29, 2026-08-30), so the bound handed to the repositories is
	// midnight of the following day.
	repo := &fakeReportRepo{
		receiptRows: []repository.SalesDataRow{
			salesRow("2026-08-29", "2", "166.67", "200.00", "33.33"),
		},
	}
	svc := NewReportService(repo)

	rows, err := svc.SalesRowsFor(ctx, "day", "2026-08-29", "2026-08-29")
	require.NoError(t, err)

	assert.Equal(t, "2026-08-29", repo.startDate)
	assert.Equal(t, "2026-08-30", repo.endExclusive)
	require.Len(t, rows, 1)
	assert.Equal(t, "200.00", rows[0].GrossValue.StringFixed(2))
}

func TestSalesRowsForHandlesMonthEndRollover(t *testing.T) {
	ctx := repository.WithTenant(context.Background(), uuid.New())

	repo := &fakeReportRepo{}
	svc := NewReportService(repo)

	_, err := svc.SalesRowsFor(ctx, "day", "2026-02-01", "2026-02-28")
	require.NoError(t, err)
	assert.Equal(t, "2026-03-01", repo.endExclusive)

	_, err = svc.SalesRowsFor(ctx, "day", "2026-02-01", "not-a-date")
	require.Error(t, err)
	appErr, ok := apperror.As(err)
	require.True(t, ok)
	assert.Equal(t, apperror.KindValidation, appErr.Kind)
}
