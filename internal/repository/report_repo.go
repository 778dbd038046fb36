package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// SalesDataRow is one date bucket of sold-line sums from a single document
// source (receipts or invoices). Rows from both sources carry the same period
// key format so the service layer can merge them.
type SalesDataRow struct {
	Period     string          `gorm:"column:period"`
	Quantity   decimal.Decimal `gorm:"column:quantity"`
	NetValue   decimal.Decimal `gorm:"column:net_value"`
	GrossValue decimal.Decimal `gorm:"column:gross_value"`
	TaxFinance decimal.Decimal `gorm:"column:tax_finance"`
}

type ReportRepository interface {
	// ReceiptSales sums receipt lines per bucket. groupBy is a DATE_TRUNC
	// field name: day, week or month. The window is half-open:
	// startDate <= created_at < endExclusive.
	ReceiptSales(ctx context.Context, tenantID uuid.UUID, groupBy, startDate, endExclusive string) ([]SalesDataRow, error)
	// InvoiceSales sums issued-invoice lines per bucket over the same
	// half-open window.
	InvoiceSales(ctx context.Context, tenantID uuid.UUID, groupBy, startDate, endExclusive string) ([]SalesDataRow, error)
}

type reportRepository struct {
	db *gorm.DB
}

func NewReportRepository(db *gorm.DB) ReportRepository {
	return &reportRepository{db: db}
}

func (r *reportRepository) ReceiptSales(ctx context.Context, tenantID uuid.UUID, groupBy, startDate, endExclusive string) ([]SalesDataRow, error) {
	query := `
		SELECT
			TO_CHAR(DATE_TRUNC($1, rc.created_at), 'YYYY-MM-DD') AS period,
			COALESCE(SUM(ri.quantity), 0) AS quantity,
			COALESCE(SUM(ri.finance_vp), 0) AS net_value,
			COALESCE(SUM(ri.finance_final_mp), 0) AS gross_value,
			COALESCE(SUM(ri.tax_finance), 0) AS tax_finance
		FROM receipt_items ri
		JOIN receipts rc ON rc.id = ri.receipt_id
		WHERE rc.tenant_id = $2
		  AND rc.created_at >= $3::timestamptz
		  AND rc.created_at < $4::timestamptz
		GROUP BY DATE_TRUNC($1, rc.created_at)
		ORDER BY period
	`

	var rows []SalesDataRow
	if err := r.db.WithContext(ctx).Raw(query,
		groupBy, tenantID, startDate, endExclusive,
	).Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to query receipt sales: %w", err)
	}

	return rows, nil
}

func (r *reportRepository) InvoiceSales(ctx context.Context, tenantID uuid.UUID, groupBy, startDate, endExclusive string) ([]SalesDataRow, error) {
	query := `
		SELECT
			TO_CHAR(DATE_TRUNC($1, iv.created_at), 'YYYY-MM-DD') AS period,
			COALESCE(SUM(ii.quantity), 0) AS quantity,
			COALESCE(SUM(ii.finance_vp), 0) AS net_value,
			COALESCE(SUM(ii.finance_final_mp), 0) AS gross_value,
			COALESCE(SUM(ii.tax_finance), 0) AS tax_finance
		FROM invoice_items ii
		JOIN invoices iv ON iv.id = ii.invoice_id
		WHERE iv.tenant_id = $2
		  AND iv.status = 'ISSUED'
		  AND iv.created_at >= $3::timestamptz
		  AND iv.created_at < $4::timestamptz
		GROUP BY DATE_TRUNC($1, iv.created_at)
		ORDER BY period
	`

	var rows []SalesDataRow
	if err := r.db.WithContext(ctx).Raw(query,
		groupBy, tenantID, startDate, endExclusive,
	).Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to query invoice sales: %w", err)
	}

	return rows, nil
}
