package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

type InvoiceStatus string

const (
	InvoiceDraft     InvoiceStatus = "draft"
	InvoicePending   InvoiceStatus = "pending"
	InvoicePaid      InvoiceStatus = "paid"
	InvoiceOverdue   InvoiceStatus = "overdue"
	InvoiceCancelled InvoiceStatus = "cancelled"
)

func (s InvoiceStatus) IsValid() bool {
	switch s {
	case InvoiceDraft, InvoicePending, InvoicePaid, InvoiceOverdue, InvoiceCancelled:
		return true
	}
	return false
}

// IsTerminal reports whether no further status change is allowed.
func (s InvoiceStatus) IsTerminal() bool {
	return s == InvoicePaid || s == InvoiceCancelled
}

// CanTransitionTo reports whether an invoice in s may move to next.
func (s InvoiceStatus) CanTransitionTo(next InvoiceStatus) bool {
	if !next.IsValid() || s.IsTerminal() {
		return false
	}
	if next == InvoiceDraft {
		return s == InvoiceDraft
	}
	return true
}

type LineItem struct {
	Description string          `json:"description" validate:"required"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
}

// Amount is quantity times unit price.
func (li LineItem) Amount() decimal.Decimal {
	return li.Quantity.Mul(li.UnitPrice)
}

type Invoice struct {
	ID             string          `json:"id"`
	OrganizationID string          `json:"organization_id"`
	InvoiceNumber  string          `json:"invoice_number"`
	VendorName     string          `json:"vendor_name"`
	Description    string          `json:"description,omitempty"`
	Category       string          `json:"category,omitempty"`
	Items          []LineItem      `json:"items"`
	Subtotal       decimal.Decimal `json:"subtotal"`
	Tax            decimal.Decimal `json:"tax"`
	Total          decimal.Decimal `json:"total"`
	Currency       string          `json:"currency"`
	IssueDate      *time.Time      `json:"issue_date,omitempty"`
	DueDate        *time.Time      `json:"due_date,omitempty"`
	Status         InvoiceStatus   `json:"status"`
	AttachmentKey  string          `json:"attachment_key,omitempty"`
	AttachmentURL  string          `json:"attachment_url,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// Recalculate derives subtotal and total from the line items. Without items the
// supplied total is kept and the subtotal becomes total minus tax.
func (inv *Invoice) Recalculate() {
	if len(inv.Items) == 0 {
		inv.Subtotal = inv.Total.Sub(inv.Tax)
		return
	}
	subtotal := decimal.Zero
	for _, item := range inv.Items {
		subtotal = subtotal.Add(item.Amount())
	}
	inv.Subtotal = subtotal
	inv.Total = subtotal.Add(inv.Tax)
}

func (inv *Invoice) Validate() error {
	if inv.InvoiceNumber == "" || inv.VendorName == "" {
		return fmt.Errorf("%w: invoice_number and vendor_name are required", ErrInvalidInput)
	}
	if inv.Status == "" {
		inv.Status = InvoiceDraft
	}
	if !inv.Status.IsValid() {
		return fmt.Errorf("%w: unknown status %q", ErrInvalidInput, inv.Status)
	}
	for i, item := range inv.Items {
		if item.Quantity.Sign() <= 0 {
			return fmt.Errorf("%w: items[%d].quantity must be positive", ErrInvalidInput, i)
		}
		if item.UnitPrice.IsNegative() {
			return fmt.Errorf("%w: items[%d].unit_price cannot be negative", ErrInvalidInput, i)
		}
	}
	if inv.Tax.IsNegative() {
		return fmt.Errorf("%w: tax cannot be negative", ErrInvalidInput)
	}
	inv.Recalculate()
	if inv.Total.IsNegative() || inv.Subtotal.IsNegative() {
		return fmt.Errorf("%w: total cannot be lower than tax", ErrInvalidInput)
	}
	if inv.IssueDate != nil && inv.DueDate != nil && inv.DueDate.Before(*inv.IssueDate) {
		return fmt.Errorf("%w: due_date is before issue_date", ErrInvalidInput)
	}
	if inv.Currency == "" {
		inv.Currency = DefaultCurrency
	}
	return nil
}
