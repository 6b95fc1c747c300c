package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

type EmploymentType string

const (
	EmploymentFullTime EmploymentType = "full-time"
	EmploymentPartTime EmploymentType = "part-time"
	EmploymentContract EmploymentType = "contract"
	EmploymentIntern   EmploymentType = "intern"
)

func (t EmploymentType) IsValid() bool {
	switch t {
	case EmploymentFullTime, EmploymentPartTime, EmploymentContract, EmploymentIntern:
		return true
	}
	return false
}

type EmployeeStatus string

const (
	EmployeeActive     EmployeeStatus = "active"
	EmployeeOnLeave    EmployeeStatus = "on-leave"
	EmployeeTerminated EmployeeStatus = "terminated"
)

func (s EmployeeStatus) IsValid() bool {
	switch s {
	case EmployeeActive, EmployeeOnLeave, EmployeeTerminated:
		return true
	}
	return false
}

// BankAccount holds the payout details of an employee.
type BankAccount struct {
	BankName      string `json:"bank_name,omitempty"`
	AccountName   string `json:"account_name,omitempty"`
	AccountNumber string `json:"account_number,omitempty"`
	RoutingCode   string `json:"routing_code,omitempty"`
}

type Employee struct {
	ID             string          `json:"id"`
	OrganizationID string          `json:"organization_id"`
	EmployeeCode   string          `json:"employee_code"`
	FirstName      string          `json:"first_name"`
	LastName       string          `json:"last_name"`
	Email          string          `json:"email,omitempty"`
	Phone          string          `json:"phone,omitempty"`
	Department     string          `json:"department,omitempty"`
	Designation    string          `json:"designation,omitempty"`
	EmploymentType EmploymentType  `json:"employment_type"`
	Status         EmployeeStatus  `json:"status"`
	JoinDate       *time.Time      `json:"join_date,omitempty"`
	Salary         decimal.Decimal `json:"salary"`
	Currency       string          `json:"currency"`
	BankAccount    BankAccount     `json:"bank_account"`
	Documents      []string        `json:"documents"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// FullName joins first and last name.
func (e *Employee) FullName() string {
	if e.LastName == "" {
		return e.FirstName
	}
	return e.FirstName + " " + e.LastName
}

func (e *Employee) Validate() error {
	if e.EmployeeCode == "" || e.FirstName == "" {
		return fmt.Errorf("%w: employee_code and first_name are required", ErrInvalidInput)
	}
	if e.EmploymentType == "" {
		e.EmploymentType = EmploymentFullTime
	}
	if !e.EmploymentType.IsValid() {
		return fmt.Errorf("%w: unknown employment_type %q", ErrInvalidInput, e.EmploymentType)
	}
	if e.Status == "" {
		e.Status = EmployeeActive
	}
	if !e.Status.IsValid() {
		return fmt.Errorf("%w: unknown status %q", ErrInvalidInput, e.Status)
	}
	if e.Salary.IsNegative() {
		return fmt.Errorf("%w: salary cannot be negative", ErrInvalidInput)
	}
	if e.Currency == "" {
		e.Currency = DefaultCurrency
	}
	return nil
}
