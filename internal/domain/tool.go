package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

type BillingCycle string

const (
	BillingMonthly BillingCycle = "monthly"
	BillingYearly  BillingCycle = "yearly"
	BillingOneTime BillingCycle = "one-time"
	BillingFree    BillingCycle = "free"
)

func (c BillingCycle) IsValid() bool {
	switch c {
	case BillingMonthly, BillingYearly, BillingOneTime, BillingFree:
		return true
	}
	return false
}

// Tool is an entry of the credential vault. SealedPassword never leaves the service
// except through the credential reveal operation.
type Tool struct {
	ID             string          `json:"id"`
	OrganizationID string          `json:"organization_id"`
	Name           string          `json:"name"`
	Category       string          `json:"category,omitempty"`
	URL            string          `json:"url,omitempty"`
	Username       string          `json:"username,omitempty"`
	SealedPassword string          `json:"-"`
	HasPassword    bool            `json:"has_password"`
	Notes          string          `json:"notes,omitempty"`
	AssignedTo     []string        `json:"assigned_to"`
	Cost           decimal.Decimal `json:"cost"`
	BillingCycle   BillingCycle    `json:"billing_cycle"`
	RenewalDate    *time.Time      `json:"renewal_date,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// ToolCredentials is the decrypted view returned by a reveal.
type ToolCredentials struct {
	ToolID   string `json:"tool_id"`
	URL      string `json:"url,omitempty"`
	Username string `json:"username,omitempty"`
	Password string `json:"password"`
}

func (t *Tool) Validate() error {
	if t.Name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	if t.BillingCycle == "" {
		t.BillingCycle = BillingMonthly
	}
	if !t.BillingCycle.IsValid() {
		return fmt.Errorf("%w: unknown billing_cycle %q", ErrInvalidInput, t.BillingCycle)
	}
	if t.Cost.IsNegative() {
		return fmt.Errorf("%w: cost cannot be negative", ErrInvalidInput)
	}
	return nil
}
