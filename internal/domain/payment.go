package domain

import (
	"fmt"
	"regexp"
	"time"

	"github.com/shopspring/decimal"
)

var periodPattern = regexp.MustCompile(`^\d{4}-(0[1-9]|1[0-2])$`)

type PaymentType string

const (
	PaymentSalary        PaymentType = "salary"
	PaymentInvoice       PaymentType = "invoice"
	PaymentReimbursement PaymentType = "reimbursement"
	PaymentOther         PaymentType = "other"
)

func (t PaymentType) IsValid() bool {
	switch t {
	case PaymentSalary, PaymentInvoice, PaymentReimbursement, PaymentOther:
		return true
	}
	return false
}

type PaymentMethod string

const (
	MethodBankTransfer PaymentMethod = "bank_transfer"
	MethodCard         PaymentMethod = "card"
	MethodCash         PaymentMethod = "cash"
	MethodCheque       PaymentMethod = "cheque"
	MethodOther        PaymentMethod = "other"
)

func (m PaymentMethod) IsValid() bool {
	switch m {
	case MethodBankTransfer, MethodCard, MethodCash, MethodCheque, MethodOther:
		return true
	}
	return false
}

type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentCompleted PaymentStatus = "completed"
	PaymentFailed    PaymentStatus = "failed"
)

func (s PaymentStatus) IsValid() bool {
	switch s {
	case PaymentPending, PaymentCompleted, PaymentFailed:
		return true
	}
	return false
}

// CanTransitionTo reports whether a payment in s may move to next.
// Completed payments count toward invoice settlement and stay completed.
func (s PaymentStatus) CanTransitionTo(next PaymentStatus) bool {
	if !next.IsValid() {
		return false
	}
	return s != PaymentCompleted || next == PaymentCompleted
}

type Payment struct {
	ID             string          `json:"id"`
	OrganizationID string          `json:"organization_id"`
	Type           PaymentType     `json:"type"`
	EmployeeID     string          `json:"employee_id,omitempty"`
	InvoiceID      string          `json:"invoice_id,omitempty"`
	Period         string          `json:"period,omitempty"`
	Amount         decimal.Decimal `json:"amount"`
	Currency       string          `json:"currency"`
	Method         PaymentMethod   `json:"method"`
	Status         PaymentStatus   `json:"status"`
	PaidAt         *time.Time      `json:"paid_at,omitempty"`
	Reference      string          `json:"reference,omitempty"`
	Notes          string          `json:"notes,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// Validate checks the references each payment type requires and fills defaults.
func (p *Payment) Validate() error {
	if !p.Type.IsValid() {
		return fmt.Errorf("%w: unknown type %q", ErrInvalidInput, p.Type)
	}
	if p.Amount.Sign() <= 0 {
		return fmt.Errorf("%w: amount must be positive", ErrInvalidInput)
	}
	if p.Method == "" {
		p.Method = MethodBankTransfer
	}
	if !p.Method.IsValid() {
		return fmt.Errorf("%w: unknown method %q", ErrInvalidInput, p.Method)
	}
	if p.Status == "" {
		p.Status = PaymentPending
	}
	if !p.Status.IsValid() {
		return fmt.Errorf("%w: unknown status %q", ErrInvalidInput, p.Status)
	}
	switch p.Type {
	case PaymentSalary:
		if p.EmployeeID == "" {
			return fmt.Errorf("%w: employee_id is required for salary payments", ErrInvalidInput)
		}
		if !periodPattern.MatchString(p.Period) {
			return fmt.Errorf("%w: period must be formatted YYYY-MM", ErrInvalidInput)
		}
	case PaymentReimbursement:
		if p.EmployeeID == "" {
			return fmt.Errorf("%w: employee_id is required for reimbursements", ErrInvalidInput)
		}
	case PaymentInvoice:
		if p.InvoiceID == "" {
			return fmt.Errorf("%w: invoice_id is required for invoice payments", ErrInvalidInput)
		}
	}
	if p.Period != "" && !periodPattern.MatchString(p.Period) {
		return fmt.Errorf("%w: period must be formatted YYYY-MM", ErrInvalidInput)
	}
	if p.Status == PaymentCompleted && p.PaidAt == nil {
		now := time.Now().UTC()
		p.PaidAt = &now
	}
	if p.Currency == "" {
		p.Currency = DefaultCurrency
	}
	return nil
}
