package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/invisiedge/Atreo-sub001/internal/domain"
	"github.com/invisiedge/Atreo-sub001/internal/platform/logger"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type AssetInput struct {
	OrganizationID string                `json:"organization_id"`
	AssetTag       *string               `json:"asset_tag" validate:"omitempty,max=60"`
	Name           *string               `json:"name" validate:"omitempty,max=160"`
	Category       *domain.AssetCategory `json:"category"`
	SerialNumber   *string               `json:"serial_number" validate:"omitempty,max=120"`
	PurchaseDate   *Date                 `json:"purchase_date"`
	PurchaseCost   *decimal.Decimal      `json:"purchase_cost"`
	Status         *domain.AssetStatus   `json:"status"`
}

type AssetUsecase struct {
	assets    domain.AssetRepository
	employees domain.EmployeeRepository
	logger    *logger.Logger
	now       func() time.Time
}

func NewAssetUsecase(assets domain.AssetRepository, employees domain.EmployeeRepository, log *logger.Logger) *AssetUsecase {
	return &AssetUsecase{assets: assets, employees: employees, logger: log.Named("AssetUsecase"), now: time.Now}
}

func (uc *AssetUsecase) List(ctx context.Context, actor *domain.Actor, filter domain.AssetFilter) (*domain.Page[*domain.Asset], error) {
	org, err := actor.ScopeOrganization(filter.OrganizationID)
	if err != nil {
		return nil, err
	}
	filter.OrganizationID = org
	filter.Normalize()
	items, total, err := uc.assets.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	return domain.NewPage(items, total, filter.ListFilter), nil
}

func (uc *AssetUsecase) Get(ctx context.Context, actor *domain.Actor, id string) (*domain.Asset, error) {
	a, err := uc.assets.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return loadScoped(actor, a, a.OrganizationID, nil)
}

func applyAsset(a *domain.Asset, in AssetInput) {
	setString(&a.AssetTag, in.AssetTag)
	setString(&a.Name, in.Name)
	setString(&a.SerialNumber, in.SerialNumber)
	if in.Category != nil {
		a.Category = *in.Category
	}
	setDate(&a.PurchaseDate, in.PurchaseDate)
	if in.PurchaseCost != nil {
		a.PurchaseCost = *in.PurchaseCost
	}
	if in.Status != nil {
		a.Status = *in.Status
	}
}

func (uc *AssetUsecase) Create(ctx context.Context, actor *domain.Actor, in AssetInput) (*domain.Asset, error) {
	org, err := actor.OrganizationForCreate(in.OrganizationID)
	if err != nil {
		return nil, err
	}
	a := &domain.Asset{OrganizationID: org}
	applyAsset(a, in)
	if err := a.Validate(); err != nil {
		return nil, err
	}
	if err := uc.assets.Create(ctx, a); err != nil {
		return nil, err
	}
	uc.logger.Info("Asset created", zap.String("asset_id", a.ID), zap.String("asset_tag", a.AssetTag))
	return a, nil
}

// Update edits an asset. Moving an assigned asset to another status releases it.
func (uc *AssetUsecase) Update(ctx context.Context, actor *domain.Actor, id string, in AssetInput) (*domain.Asset, error) {
	a, err := uc.Get(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	applyAsset(a, in)
	if err := a.Validate(); err != nil {
		return nil, err
	}
	if err := uc.assets.Update(ctx, a); err != nil {
		return nil, err
	}
	uc.logger.Info("Asset updated", zap.String("asset_id", a.ID), zap.String("status", string(a.Status)))
	return a, nil
}

func (uc *AssetUsecase) Delete(ctx context.Context, actor *domain.Actor, id string) error {
	a, err := uc.Get(ctx, actor, id)
	if err != nil {
		return err
	}
	if a.Status == domain.AssetAssigned {
		return fmt.Errorf("%w: unassign the asset before deleting it", domain.ErrConflict)
	}
	if err := uc.assets.Delete(ctx, a.ID); err != nil {
		return err
	}
	uc.logger.Info("Asset deleted", zap.String("asset_id", a.ID))
	return nil
}

// Assign hands an asset to an employee of the same organization.
func (uc *AssetUsecase) Assign(ctx context.Context, actor *domain.Actor, id, employeeID string) (*domain.Asset, error) {
	a, err := uc.Get(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	switch a.Status {
	case domain.AssetRetired, domain.AssetMaintenance:
		return nil, fmt.Errorf("%w: asset is %s", domain.ErrConflict, a.Status)
	case domain.AssetAssigned:
		if a.AssignedTo == employeeID {
			return a, nil
		}
		return nil, fmt.Errorf("%w: asset is already assigned", domain.ErrConflict)
	}
	e, err := uc.employees.GetByID(ctx, employeeID)
	if err != nil || e.OrganizationID != a.OrganizationID {
		return nil, fmt.Errorf("%w: employee %s does not exist", domain.ErrInvalidInput, employeeID)
	}
	if e.Status == domain.EmployeeTerminated {
		return nil, fmt.Errorf("%w: employee %s is terminated", domain.ErrConflict, e.EmployeeCode)
	}
	now := uc.now().UTC()
	a.Status = domain.AssetAssigned
	a.AssignedTo = e.ID
	a.AssignedAt = &now
	if err := uc.assets.Update(ctx, a); err != nil {
		return nil, err
	}
	uc.logger.Info("Asset assigned", zap.String("asset_id", a.ID), zap.String("employee_id", e.ID))
	return a, nil
}

func (uc *AssetUsecase) Unassign(ctx context.Context, actor *domain.Actor, id string) (*domain.Asset, error) {
	a, err := uc.Get(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if a.Status != domain.AssetAssigned {
		return nil, fmt.Errorf("%w: asset is not assigned", domain.ErrConflict)
	}
	a.Status = domain.AssetAvailable
	a.AssignedTo = ""
	a.AssignedAt = nil
	if err := uc.assets.Update(ctx, a); err != nil {
		return nil, err
	}
	uc.logger.Info("Asset unassigned", zap.String("asset_id", a.ID))
	return a, nil
}
