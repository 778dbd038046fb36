package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"backend/internal/pricing"
	"backend/internal/repository"
	"backend/pkg/apperror"

	"github.com/shopspring/decimal"
)

// --- DTOs ---

type SalesReportRequest struct {
	GroupBy   string `form:"group_by" binding:"omitempty,oneof=day week month"`
	StartDate string `form:"start_date" binding:"required"` // YYYY-MM-DD
	EndDate   string `form:"end_date" binding:"required"`   // YYYY-MM-DD
}

type SalesReportRow struct {
	Period     string `json:"period"`
	Quantity   string `json:"quantity"`
	NetValue   string `json:"net_value"`
	GrossValue string `json:"gross_value"`
	TaxFinance string `json:"tax_finance"`
}

type SalesReportResponse struct {
	GroupBy   string           `json:"group_by"`
	StartDate string           `json:"start_date"`
	EndDate   string           `json:"end_date"`
	Rows      []SalesReportRow `json:"rows"`
}

// --- Interface ---

type ReportService interface {
	// SalesReport merges receipt and issued-invoice line sums into one
	// date-bucketed series.
	SalesReport(ctx context.Context, req SalesReportRequest) (SalesReportResponse, error)
	// SalesRowsFor returns raw merged rows for a tenant and window, for
	// internal consumers such as the summary mailer.
	SalesRowsFor(ctx context.Context, groupBy, startDate, endDate string) ([]repository.SalesDataRow, error)
}

type reportService struct {
	reportRepo repository.ReportRepository
}

func NewReportService(reportRepo repository.ReportRepository) ReportService {
	return &reportService{reportRepo: reportRepo}
}

// --- Implementation ---

func (s *reportService) SalesReport(ctx context.Context, req SalesReportRequest) (SalesReportResponse, error) {
	if req.GroupBy == "" {
		req.GroupBy = "day"
	}
	if _, err := time.Parse("2006-01-02", req.StartDate); err != nil {
		return SalesReportResponse{}, apperror.Validation("invalid start_date: " + req.StartDate)
	}
	if _, err := time.Parse("2006-01-02", req.EndDate); err != nil {
		return SalesReportResponse{}, apperror.Validation("invalid end_date: " + req.EndDate)
	}

	merged, err := s.SalesRowsFor(ctx, req.GroupBy, req.StartDate, req.EndDate)
	if err != nil {
		return SalesReportResponse{}, err
	}

	resp := SalesReportResponse{
		GroupBy:   req.GroupBy,
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
		Rows:      make([]SalesReportRow, 0, len(merged)),
	}
	for _, row := range merged {
		resp.Rows = append(resp.Rows, SalesReportRow{
			Period:     row.Period,
			Quantity:   row.Quantity.StringFixed(3),
			NetValue:   row.NetValue.StringFixed(2),
			GrossValue: row.GrossValue.StringFixed(2),
			TaxFinance: row.TaxFinance.StringFixed(2),
		})
	}
	return resp, nil
}

func (s *reportService) SalesRowsFor(ctx context.Context, groupBy, startDate, endDate string) ([]repository.SalesDataRow, error) {
	tenantID, ok := repository.TenantFrom(ctx)
	if !ok {
		return nil, apperror.Validation("missing tenant context")
	}

	end, err := time.Parse("2006-01-02", endDate)
	if err != nil {
		return nil, apperror.Validation("invalid end_date: " + endDate)
	}
	// endDate is inclusive. The repositories take a half-open window, so the
	// bound passed down is midnight of the following day; a sale stamped any
	// time on the end date itself still counts.
	endExclusive := end.AddDate(0, 0, 1).Format("2006-01-02")

	receiptRows, err := s.reportRepo.ReceiptSales(ctx, tenantID, groupBy, startDate, endExclusive)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch receipt sales: %w", err)
	}
	invoiceRows, err := s.reportRepo.InvoiceSales(ctx, tenantID, groupBy, startDate, endExclusive)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch invoice sales: %w", err)
	}

	return mergeSalesRows(receiptRows, invoiceRows), nil
}

// mergeSalesRows combines bucketed rows from both document sources, summing
// buckets that share a period key. The result is sorted by period.
func mergeSalesRows(sets ...[]repository.SalesDataRow) []repository.SalesDataRow {
	byPeriod := make(map[string]repository.SalesDataRow)
	for _, rows := range sets {
		for _, row := range rows {
			acc, ok := byPeriod[row.Period]
			if !ok {
				acc = repository.SalesDataRow{
					Period:     row.Period,
					Quantity:   decimal.Zero,
					NetValue:   decimal.Zero,
					GrossValue: decimal.Zero,
					TaxFinance: decimal.Zero,
				}
			}
			acc.Quantity = acc.Quantity.Add(row.Quantity)
			acc.NetValue = pricing.Round2(acc.NetValue.Add(row.NetValue))
			acc.GrossValue = pricing.Round2(acc.GrossValue.Add(row.GrossValue))
			acc.TaxFinance = pricing.Round2(acc.TaxFinance.Add(row.TaxFinance))
			byPeriod[row.Period] = acc
		}
	}

	merged := make([]repository.SalesDataRow, 0, len(byPeriod))
	for _, row := range byPeriod {
		merged = append(merged, row)
	}
	sort.Slice(merged, func(i, j int) bool { return merged[i].Period < merged[j].Period })
	return merged
}
