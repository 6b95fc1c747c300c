package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/invisiedge/Atreo-sub001/internal/domain"
	"github.com/invisiedge/Atreo-sub001/internal/platform/logger"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type PaymentInput struct {
	OrganizationID string                `json:"organization_id"`
	Type           *domain.PaymentType   `json:"type"`
	EmployeeID     *string               `json:"employee_id"`
	InvoiceID      *string               `json:"invoice_id"`
	Period         *string               `json:"period"`
	Amount         *decimal.Decimal      `json:"amount"`
	Currency       *string               `json:"currency" validate:"omitempty,len=3"`
	Method         *domain.PaymentMethod `json:"method"`
	Status         *domain.PaymentStatus `json:"status"`
	PaidAt         *Date                 `json:"paid_at"`
	Reference      *string               `json:"reference" validate:"omitempty,max=120"`
	Notes          *string               `json:"notes" validate:"omitempty,max=2000"`
}

// PaymentUsecase records salary, invoice and other payments.
type PaymentUsecase struct {
	payments  domain.PaymentRepository
	employees domain.EmployeeRepository
	invoices  *InvoiceUsecase
	logger    *logger.Logger
}

func NewPaymentUsecase(payments domain.PaymentRepository, employees domain.EmployeeRepository, invoices *InvoiceUsecase, log *logger.Logger) *PaymentUsecase {
	return &PaymentUsecase{payments: payments, employees: employees, invoices: invoices, logger: log.Named("PaymentUsecase")}
}

func (uc *PaymentUsecase) List(ctx context.Context, actor *domain.Actor, filter domain.PaymentFilter) (*domain.Page[*domain.Payment], error) {
	org, err := actor.ScopeOrganization(filter.OrganizationID)
	if err != nil {
		return nil, err
	}
	filter.OrganizationID = org
	filter.Normalize()
	items, total, err := uc.payments.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	return domain.NewPage(items, total, filter.ListFilter), nil
}

func (uc *PaymentUsecase) Get(ctx context.Context, actor *domain.Actor, id string) (*domain.Payment, error) {
	p, err := uc.payments.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return loadScoped(actor, p, p.OrganizationID, nil)
}

func applyPayment(p *domain.Payment, in PaymentInput) {
	if in.Type != nil {
		p.Type = *in.Type
	}
	setString(&p.EmployeeID, in.EmployeeID)
	setString(&p.InvoiceID, in.InvoiceID)
	setString(&p.Period, in.Period)
	if in.Amount != nil {
		p.Amount = *in.Amount
	}
	if in.Currency != nil {
		p.Currency = strings.ToUpper(strings.TrimSpace(*in.Currency))
	}
	if in.Method != nil {
		p.Method = *in.Method
	}
	if in.Status != nil {
		p.Status = *in.Status
	}
	setDate(&p.PaidAt, in.PaidAt)
	setString(&p.Reference, in.Reference)
	setString(&p.Notes, in.Notes)
}

// checkReferences verifies that referenced employees and invoices exist in the payment's tenant.
func (uc *PaymentUsecase) checkReferences(ctx context.Context, p *domain.Payment, previous *domain.Payment) error {
	if p.EmployeeID != "" {
		e, err := uc.employees.GetByID(ctx, p.EmployeeID)
		if err != nil || e.OrganizationID != p.OrganizationID {
			return fmt.Errorf("%w: employee %s does not exist", domain.ErrInvalidInput, p.EmployeeID)
		}
	}
	if p.Type != domain.PaymentInvoice {
		p.InvoiceID = ""
		return nil
	}
	inv, err := uc.invoices.invoices.GetByID(ctx, p.InvoiceID)
	if err != nil || inv.OrganizationID != p.OrganizationID {
		return fmt.Errorf("%w: invoice %s does not exist", domain.ErrInvalidInput, p.InvoiceID)
	}
	if inv.Status == domain.InvoiceCancelled {
		return fmt.Errorf("%w: invoice %s is cancelled", domain.ErrConflict, inv.InvoiceNumber)
	}
	alreadyCounted := previous != nil && previous.InvoiceID == p.InvoiceID && previous.Status == domain.PaymentCompleted
	if inv.Status == domain.InvoicePaid && !alreadyCounted {
		return fmt.Errorf("%w: invoice %s is already paid", domain.ErrConflict, inv.InvoiceNumber)
	}
	return nil
}

func (uc *PaymentUsecase) Create(ctx context.Context, actor *domain.Actor, in PaymentInput) (*domain.Payment, error) {
	org, err := actor.OrganizationForCreate(in.OrganizationID)
	if err != nil {
		return nil, err
	}
	p := &domain.Payment{OrganizationID: org}
	applyPayment(p, in)
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if err := uc.checkReferences(ctx, p, nil); err != nil {
		return nil, err
	}
	if err := uc.payments.Create(ctx, p); err != nil {
		return nil, err
	}
	uc.logger.Info("Payment recorded",
		zap.String("payment_id", p.ID),
		zap.String("type", string(p.Type)),
		zap.String("amount", p.Amount.String()),
		zap.String("status", string(p.Status)))

	if err := uc.invoices.publisher.Publish(ctx, domain.SubjectPaymentRecorded, p); err != nil {
		uc.logger.Warn("Failed to publish payment recorded event", zap.String("payment_id", p.ID), zap.Error(err))
	}
	uc.settleInvoice(ctx, p)
	return p, nil
}

func (uc *PaymentUsecase) Update(ctx context.Context, actor *domain.Actor, id string, in PaymentInput) (*domain.Payment, error) {
	p, err := uc.Get(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	previous := *p
	applyPayment(p, in)
	if p.Status.IsValid() && !previous.Status.CanTransitionTo(p.Status) {
		return nil, fmt.Errorf("%w: a %s payment cannot be moved to %s", domain.ErrConflict, previous.Status, p.Status)
	}
	if p.Status != domain.PaymentCompleted && in.PaidAt == nil {
		p.PaidAt = nil
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if err := uc.checkReferences(ctx, p, &previous); err != nil {
		return nil, err
	}
	if err := uc.payments.Update(ctx, p); err != nil {
		return nil, err
	}
	uc.logger.Info("Payment updated", zap.String("payment_id", p.ID), zap.String("status", string(p.Status)))
	uc.settleInvoice(ctx, p)
	return p, nil
}

// Delete removes a payment that has not been completed.
func (uc *PaymentUsecase) Delete(ctx context.Context, actor *domain.Actor, id string) error {
	p, err := uc.Get(ctx, actor, id)
	if err != nil {
		return err
	}
	if p.Status == domain.PaymentCompleted {
		return fmt.Errorf("%w: completed payments cannot be deleted", domain.ErrConflict)
	}
	if err := uc.payments.Delete(ctx, p.ID); err != nil {
		return err
	}
	uc.logger.Info("Payment deleted", zap.String("payment_id", p.ID))
	return nil
}

// settleInvoice marks the invoice of a completed payment as paid once the
// completed payments cover its total. Failures are logged only; the payment
// itself has already been stored.
func (uc *PaymentUsecase) settleInvoice(ctx context.Context, p *domain.Payment) {
	if p.Type != domain.PaymentInvoice || p.Status != domain.PaymentCompleted {
		return
	}
	log := uc.logger.With(zap.String("payment_id", p.ID), zap.String("invoice_id", p.InvoiceID))
	inv, err := uc.invoices.invoices.GetByID(ctx, p.InvoiceID)
	if err != nil {
		log.Warn("Failed to load invoice for settlement", zap.Error(err))
		return
	}
	if inv.Status.IsTerminal() {
		return
	}
	paid, err := uc.payments.SumCompletedForInvoice(ctx, inv.ID)
	if err != nil {
		log.Warn("Failed to sum invoice payments", zap.Error(err))
		return
	}
	if paid.LessThan(inv.Total) {
		log.Info("Invoice partially paid", zap.String("paid", paid.String()), zap.String("total", inv.Total.String()))
		return
	}
	if err := uc.invoices.invoices.SetStatus(ctx, inv.ID, domain.InvoicePaid); err != nil {
		log.Warn("Failed to mark invoice paid", zap.Error(err))
		return
	}
	inv.Status = domain.InvoicePaid
	log.Info("Invoice settled by payments", zap.String("paid", paid.String()))
	uc.invoices.publishPaid(ctx, inv)
}
