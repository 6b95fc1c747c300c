package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// Repositories operate on plain domain entities. Identifiers are hex ObjectID
// strings; a malformed identifier is reported as ErrNotFound.

type OrganizationRepository interface {
	Create(ctx context.Context, org *Organization) error
	GetByID(ctx context.Context, id string) (*Organization, error)
	Update(ctx context.Context, org *Organization) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter ListFilter) ([]*Organization, int64, error)
}

type UserRepository interface {
	Create(ctx context.Context, user *User) error
	GetByID(ctx context.Context, id string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	Update(ctx context.Context, user *User) error
	UpdatePassword(ctx context.Context, id, passwordHash string) error
	MarkEmailVerified(ctx context.Context, id string) error
	TouchLastLogin(ctx context.Context, id string, at time.Time) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter UserFilter) ([]*User, int64, error)
	CountByRole(ctx context.Context, role Role) (int64, error)
	// CountByOrganization counts the users that still reference orgID.
	CountByOrganization(ctx context.Context, orgID string) (int64, error)
}

type EmployeeRepository interface {
	Create(ctx context.Context, employee *Employee) error
	GetByID(ctx context.Context, id string) (*Employee, error)
	Update(ctx context.Context, employee *Employee) error
	AddDocument(ctx context.Context, id, key string) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter EmployeeFilter) ([]*Employee, int64, error)
	CountByStatus(ctx context.Context, orgID string) (map[EmployeeStatus]int64, error)
}

type ToolRepository interface {
	Create(ctx context.Context, tool *Tool) error
	GetByID(ctx context.Context, id string) (*Tool, error)
	Update(ctx context.Context, tool *Tool) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter ToolFilter) ([]*Tool, int64, error)
	Count(ctx context.Context, orgID string) (int64, error)
}

// StatusTotal aggregates a group of documents sharing one status.
type StatusTotal struct {
	Count  int64           `json:"count"`
	Amount decimal.Decimal `json:"amount"`
}

type InvoiceRepository interface {
	Create(ctx context.Context, invoice *Invoice) error
	GetByID(ctx context.Context, id string) (*Invoice, error)
	Update(ctx context.Context, invoice *Invoice) error
	SetStatus(ctx context.Context, id string, status InvoiceStatus) error
	SetAttachment(ctx context.Context, id, key, url string) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter InvoiceFilter) ([]*Invoice, int64, error)
	TotalsByStatus(ctx context.Context, orgID string) (map[InvoiceStatus]StatusTotal, error)
}

type PaymentRepository interface {
	Create(ctx context.Context, payment *Payment) error
	GetByID(ctx context.Context, id string) (*Payment, error)
	Update(ctx context.Context, payment *Payment) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter PaymentFilter) ([]*Payment, int64, error)
	// SumCompletedForInvoice adds up the completed payments referencing invoiceID.
	SumCompletedForInvoice(ctx context.Context, invoiceID string) (decimal.Decimal, error)
	// SumCompleted aggregates completed payments of orgID paid within [from, to).
	SumCompleted(ctx context.Context, orgID string, from, to time.Time) (StatusTotal, error)
}

type AssetRepository interface {
	Create(ctx context.Context, asset *Asset) error
	GetByID(ctx context.Context, id string) (*Asset, error)
	Update(ctx context.Context, asset *Asset) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter AssetFilter) ([]*Asset, int64, error)
	CountByStatus(ctx context.Context, orgID string) (map[AssetStatus]int64, error)
}

type AuditRepository interface {
	Create(ctx context.Context, entry *AuditLog) error
	List(ctx context.Context, filter AuditFilter) ([]*AuditLog, int64, error)
}
