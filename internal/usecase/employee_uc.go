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

type BankAccountInput struct {
	BankName      *string `json:"bank_name"`
	AccountName   *string `json:"account_name"`
	AccountNumber *string `json:"account_number" validate:"omitempty,max=64"`
	RoutingCode   *string `json:"routing_code" validate:"omitempty,max=64"`
}

type EmployeeInput struct {
	OrganizationID string                 `json:"organization_id"`
	EmployeeCode   *string                `json:"employee_code" validate:"omitempty,max=40"`
	FirstName      *string                `json:"first_name" validate:"omitempty,max=80"`
	LastName       *string                `json:"last_name" validate:"omitempty,max=80"`
	Email          *string                `json:"email" validate:"omitempty,email"`
	Phone          *string                `json:"phone" validate:"omitempty,max=40"`
	Department     *string                `json:"department"`
	Designation    *string                `json:"designation"`
	EmploymentType *domain.EmploymentType `json:"employment_type"`
	Status         *domain.EmployeeStatus `json:"status"`
	JoinDate       *Date                  `json:"join_date"`
	Salary         *decimal.Decimal       `json:"salary"`
	Currency       *string                `json:"currency" validate:"omitempty,len=3"`
	BankAccount    *BankAccountInput      `json:"bank_account"`
}

// EmployeeUsecase manages the employee directory of a tenant.
type EmployeeUsecase struct {
	employees domain.EmployeeRepository
	files     *FileUsecase
	logger    *logger.Logger
}

func NewEmployeeUsecase(employees domain.EmployeeRepository, files *FileUsecase, log *logger.Logger) *EmployeeUsecase {
	return &EmployeeUsecase{employees: employees, files: files, logger: log.Named("EmployeeUsecase")}
}

func (uc *EmployeeUsecase) List(ctx context.Context, actor *domain.Actor, filter domain.EmployeeFilter) (*domain.Page[*domain.Employee], error) {
	org, err := actor.ScopeOrganization(filter.OrganizationID)
	if err != nil {
		return nil, err
	}
	filter.OrganizationID = org
	filter.Normalize()
	items, total, err := uc.employees.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	return domain.NewPage(items, total, filter.ListFilter), nil
}

func (uc *EmployeeUsecase) Get(ctx context.Context, actor *domain.Actor, id string) (*domain.Employee, error) {
	e, err := uc.employees.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return loadScoped(actor, e, e.OrganizationID, nil)
}

func applyEmployee(e *domain.Employee, in EmployeeInput) {
	setString(&e.EmployeeCode, in.EmployeeCode)
	setString(&e.FirstName, in.FirstName)
	setString(&e.LastName, in.LastName)
	setString(&e.Phone, in.Phone)
	setString(&e.Department, in.Department)
	setString(&e.Designation, in.Designation)
	if in.Email != nil {
		e.Email = normalizeEmail(*in.Email)
	}
	if in.EmploymentType != nil {
		e.EmploymentType = *in.EmploymentType
	}
	if in.Status != nil {
		e.Status = *in.Status
	}
	setDate(&e.JoinDate, in.JoinDate)
	if in.Salary != nil {
		e.Salary = *in.Salary
	}
	if in.Currency != nil {
		e.Currency = strings.ToUpper(strings.TrimSpace(*in.Currency))
	}
	if b := in.BankAccount; b != nil {
		setString(&e.BankAccount.BankName, b.BankName)
		setString(&e.BankAccount.AccountName, b.AccountName)
		setString(&e.BankAccount.AccountNumber, b.AccountNumber)
		setString(&e.BankAccount.RoutingCode, b.RoutingCode)
	}
}

func (uc *EmployeeUsecase) Create(ctx context.Context, actor *domain.Actor, in EmployeeInput) (*domain.Employee, error) {
	org, err := actor.OrganizationForCreate(in.OrganizationID)
	if err != nil {
		return nil, err
	}
	e := &domain.Employee{OrganizationID: org, Documents: []string{}}
	applyEmployee(e, in)
	if err := e.Validate(); err != nil {
		return nil, err
	}
	if err := uc.employees.Create(ctx, e); err != nil {
		return nil, err
	}
	uc.logger.Info("Employee created", zap.String("employee_id", e.ID), zap.String("organization_id", org))
	return e, nil
}

func (uc *EmployeeUsecase) Update(ctx context.Context, actor *domain.Actor, id string, in EmployeeInput) (*domain.Employee, error) {
	e, err := uc.Get(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	applyEmployee(e, in)
	if err := e.Validate(); err != nil {
		return nil, err
	}
	if err := uc.employees.Update(ctx, e); err != nil {
		return nil, err
	}
	uc.logger.Info("Employee updated", zap.String("employee_id", e.ID))
	return e, nil
}

func (uc *EmployeeUsecase) Delete(ctx context.Context, actor *domain.Actor, id string) error {
	e, err := uc.Get(ctx, actor, id)
	if err != nil {
		return err
	}
	if err := uc.employees.Delete(ctx, e.ID); err != nil {
		return err
	}
	uc.logger.Info("Employee deleted", zap.String("employee_id", e.ID))
	return nil
}

// AddDocument uploads a file and appends its key to the employee's documents.
func (uc *EmployeeUsecase) AddDocument(ctx context.Context, actor *domain.Actor, id string, in UploadInput) (*domain.StoredObject, error) {
	e, err := uc.Get(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	obj, err := uc.files.store(ctx, tenantPrefix(e.OrganizationID, "employees", e.ID), in)
	if err != nil {
		return nil, err
	}
	if err := uc.employees.AddDocument(ctx, e.ID, obj.Key); err != nil {
		if derr := uc.files.storage.Delete(ctx, obj.Key); derr != nil {
			uc.logger.Warn("Failed to remove orphaned document", zap.String("key", obj.Key), zap.Error(derr))
		}
		return nil, fmt.Errorf("attach document: %w", err)
	}
	uc.logger.Info("Employee document added", zap.String("employee_id", e.ID), zap.String("key", obj.Key))
	return obj, nil
}
