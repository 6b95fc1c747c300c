package domain

import "time"

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// ListFilter carries the paging, search and tenant scope shared by every list query.
type ListFilter struct {
	OrganizationID string
	Search         string
	Page           int
	Limit          int
}

// Normalize clamps paging values into the accepted range.
func (f *ListFilter) Normalize() {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit < 1 {
		f.Limit = DefaultPageSize
	}
	if f.Limit > MaxPageSize {
		f.Limit = MaxPageSize
	}
}

// Skip is the number of documents preceding the current page.
func (f ListFilter) Skip() int64 {
	return int64((f.Page - 1) * f.Limit)
}

type UserFilter struct {
	ListFilter
	Role     Role
	IsActive *bool
}

type EmployeeFilter struct {
	ListFilter
	Department string
	Status     EmployeeStatus
}

type ToolFilter struct {
	ListFilter
	Category string
}

type InvoiceFilter struct {
	ListFilter
	Status     InvoiceStatus
	VendorName string
	From       *time.Time
	To         *time.Time
}

type PaymentFilter struct {
	ListFilter
	Type       PaymentType
	Status     PaymentStatus
	EmployeeID string
	InvoiceID  string
	Period     string
}

type AssetFilter struct {
	ListFilter
	Category   AssetCategory
	Status     AssetStatus
	AssignedTo string
}

type AuditFilter struct {
	ListFilter
	Module string
	UserID string
	Action AuditAction
	From   *time.Time
	To     *time.Time
}

// Page is one page of a list query.
type Page[T any] struct {
	Items []T   `json:"items"`
	Total int64 `json:"total"`
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
}

// NewPage wraps items with the paging values of f. A nil slice is rendered as an empty list.
func NewPage[T any](items []T, total int64, f ListFilter) *Page[T] {
	if items == nil {
		items = []T{}
	}
	return &Page[T]{Items: items, Total: total, Page: f.Page, Limit: f.Limit}
}
