package domain

import "github.com/shopspring/decimal"

// DashboardSummary is the overview shown on the landing page of the dashboard.
type DashboardSummary struct {
	OrganizationID    string                        `json:"organization_id,omitempty"`
	ActiveEmployees   int64                         `json:"active_employees"`
	EmployeesByStatus map[EmployeeStatus]int64      `json:"employees_by_status"`
	InvoicesByStatus  map[InvoiceStatus]StatusTotal `json:"invoices_by_status"`
	OutstandingAmount decimal.Decimal               `json:"outstanding_amount"`
	PaymentsThisMonth StatusTotal                   `json:"payments_this_month"`
	AssetsByStatus    map[AssetStatus]int64         `json:"assets_by_status"`
	ToolCount         int64                         `json:"tool_count"`
}
