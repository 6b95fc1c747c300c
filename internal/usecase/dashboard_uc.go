package usecase

import (
	"context"
	"time"

	"github.com/invisiedge/Atreo-sub001/internal/domain"
	"github.com/invisiedge/Atreo-sub001/internal/platform/logger"
	"github.com/shopspring/decimal"
)

// DashboardUsecase aggregates the landing page overview.
type DashboardUsecase struct {
	employees domain.EmployeeRepository
	invoices  domain.InvoiceRepository
	payments  domain.PaymentRepository
	assets    domain.AssetRepository
	tools     domain.ToolRepository
	logger    *logger.Logger
	now       func() time.Time
}

func NewDashboardUsecase(employees domain.EmployeeRepository, invoices domain.InvoiceRepository, payments domain.PaymentRepository, assets domain.AssetRepository, tools domain.ToolRepository, log *logger.Logger) *DashboardUsecase {
	return &DashboardUsecase{
		employees: employees,
		invoices:  invoices,
		payments:  payments,
		assets:    assets,
		tools:     tools,
		logger:    log.Named("DashboardUsecase"),
		now:       time.Now,
	}
}

// monthBounds returns the first instant of t's month and of the following one, in UTC.
func monthBounds(t time.Time) (time.Time, time.Time) {
	t = t.UTC()
	start := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(0, 1, 0)
}

func (uc *DashboardUsecase) Summary(ctx context.Context, actor *domain.Actor, organizationID string) (*domain.DashboardSummary, error) {
	org, err := actor.ScopeOrganization(organizationID)
	if err != nil {
		return nil, err
	}
	summary := &domain.DashboardSummary{OrganizationID: org, OutstandingAmount: decimal.Zero}

	if summary.EmployeesByStatus, err = uc.employees.CountByStatus(ctx, org); err != nil {
		return nil, err
	}
	summary.ActiveEmployees = summary.EmployeesByStatus[domain.EmployeeActive]

	if summary.InvoicesByStatus, err = uc.invoices.TotalsByStatus(ctx, org); err != nil {
		return nil, err
	}
	for _, status := range []domain.InvoiceStatus{domain.InvoicePending, domain.InvoiceOverdue} {
		summary.OutstandingAmount = summary.OutstandingAmount.Add(summary.InvoicesByStatus[status].Amount)
	}

	from, to := monthBounds(uc.now())
	if summary.PaymentsThisMonth, err = uc.payments.SumCompleted(ctx, org, from, to); err != nil {
		return nil, err
	}
	if summary.AssetsByStatus, err = uc.assets.CountByStatus(ctx, org); err != nil {
		return nil, err
	}
	if summary.ToolCount, err = uc.tools.Count(ctx, org); err != nil {
		return nil, err
	}
	return summary, nil
}
