package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

type AssetCategory string

const (
	AssetLaptop    AssetCategory = "laptop"
	AssetDesktop   AssetCategory = "desktop"
	AssetPhone     AssetCategory = "phone"
	AssetMonitor   AssetCategory = "monitor"
	AssetFurniture AssetCategory = "furniture"
	AssetOther     AssetCategory = "other"
)

func (c AssetCategory) IsValid() bool {
	switch c {
	case AssetLaptop, AssetDesktop, AssetPhone, AssetMonitor, AssetFurniture, AssetOther:
		return true
	}
	return false
}

type AssetStatus string

const (
	AssetAvailable   AssetStatus = "available"
	AssetAssigned    AssetStatus = "assigned"
	AssetMaintenance AssetStatus = "maintenance"
	AssetRetired     AssetStatus = "retired"
)

func (s AssetStatus) IsValid() bool {
	switch s {
	case AssetAvailable, AssetAssigned, AssetMaintenance, AssetRetired:
		return true
	}
	return false
}

type Asset struct {
	ID             string          `json:"id"`
	OrganizationID string          `json:"organization_id"`
	AssetTag       string          `json:"asset_tag"`
	Name           string          `json:"name"`
	Category       AssetCategory   `json:"category"`
	SerialNumber   string          `json:"serial_number,omitempty"`
	PurchaseDate   *time.Time      `json:"purchase_date,omitempty"`
	PurchaseCost   decimal.Decimal `json:"purchase_cost"`
	Status         AssetStatus     `json:"status"`
	AssignedTo     string          `json:"assigned_to,omitempty"`
	AssignedAt     *time.Time      `json:"assigned_at,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// Validate checks enums and keeps status consistent with assignment.
func (a *Asset) Validate() error {
	if a.AssetTag == "" || a.Name == "" {
		return fmt.Errorf("%w: asset_tag and name are required", ErrInvalidInput)
	}
	if a.Category == "" {
		a.Category = AssetOther
	}
	if !a.Category.IsValid() {
		return fmt.Errorf("%w: unknown category %q", ErrInvalidInput, a.Category)
	}
	if a.Status == "" {
		a.Status = AssetAvailable
	}
	if !a.Status.IsValid() {
		return fmt.Errorf("%w: unknown status %q", ErrInvalidInput, a.Status)
	}
	if a.PurchaseCost.IsNegative() {
		return fmt.Errorf("%w: purchase_cost cannot be negative", ErrInvalidInput)
	}
	if a.Status == AssetAssigned && a.AssignedTo == "" {
		return fmt.Errorf("%w: use the assign operation to assign an asset", ErrInvalidInput)
	}
	if a.Status != AssetAssigned {
		a.AssignedTo = ""
		a.AssignedAt = nil
	}
	return nil
}
