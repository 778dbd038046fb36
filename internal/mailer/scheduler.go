package mailer

import (
	"context"
	"log"
	"time"

	"backend/internal/repository"
	"backend/internal/service"
	"backend/pkg/email"
)

// Scheduler sends each active tenant a daily summary of the previous
// day's sales. Tenants without a contact email are skipped.
type Scheduler struct {
	emailService  *email.Service
	reportService service.ReportService
	tenantRepo    repository.TenantRepository
	interval      time.Duration
}

func NewScheduler(
	emailService *email.Service,
	reportService service.ReportService,
	tenantRepo repository.TenantRepository,
	interval time.Duration,
) *Scheduler {
	if interval <= 0 {
		interval = 24 * time.Hour
	}
	return &Scheduler{
		emailService:  emailService,
		reportService: reportService,
		tenantRepo:    tenantRepo,
		interval:      interval,
	}
}

// Run blocks until ctx is cancelled, sending one summary round per tick.
func (s *Scheduler) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.sendSummaries(ctx)
		}
	}
}

func (s *Scheduler) sendSummaries(ctx context.Context) {
	tenants, err := s.tenantRepo.ListActive(ctx)
	if err != nil {
		log.Println("mailer: failed to list active tenants:", err)
		return
	}

	yesterday := time.Now().AddDate(0, 0, -1).Format("2006-01-02")

	for _, tenant := range tenants {
		if tenant.Email == "" {
			continue
		}

		tenantCtx := repository.WithTenant(ctx, tenant.ID)
		rows, err := s.reportService.SalesRowsFor(tenantCtx, "day", yesterday, yesterday)
		if err != nil {
			log.Printf("mailer: failed to build summary for tenant %s: %v", tenant.ID, err)
			continue
		}
		if len(rows) == 0 {
			continue
		}

		summary := make([]email.SummaryRow, 0, len(rows))
		for _, row := range rows {
			summary = append(summary, email.SummaryRow{
				Period:     row.Period,
				Quantity:   row.Quantity.StringFixed(3),
				NetValue:   row.NetValue.StringFixed(2),
				TaxFinance: row.TaxFinance.StringFixed(2),
			})
		}

		if err := s.emailService.SendSalesSummary(tenant.Email, tenant.Name, summary); err != nil {
			log.Printf("mailer: failed to send summary to %s: %v", tenant.Email, err)
		}
	}
}
