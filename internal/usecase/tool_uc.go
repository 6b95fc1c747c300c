package usecase

import (
	"context"
	"fmt"

	"github.com/invisiedge/Atreo-sub001/internal/domain"
	"github.com/invisiedge/Atreo-sub001/internal/platform/logger"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type ToolInput struct {
	OrganizationID string               `json:"organization_id"`
	Name           *string              `json:"name" validate:"omitempty,max=120"`
	Category       *string              `json:"category" validate:"omitempty,max=60"`
	URL            *string              `json:"url" validate:"omitempty,url"`
	Username       *string              `json:"username" validate:"omitempty,max=200"`
	Password       *string              `json:"password" validate:"omitempty,max=500"`
	Notes          *string              `json:"notes" validate:"omitempty,max=2000"`
	AssignedTo     []string             `json:"assigned_to"`
	Cost           *decimal.Decimal     `json:"cost"`
	BillingCycle   *domain.BillingCycle `json:"billing_cycle"`
	RenewalDate    *Date                `json:"renewal_date"`
}

// ToolUsecase manages the credential vault. Passwords are sealed before they are stored.
type ToolUsecase struct {
	tools  domain.ToolRepository
	sealer SecretSealer
	logger *logger.Logger
}

func NewToolUsecase(tools domain.ToolRepository, sealer SecretSealer, log *logger.Logger) *ToolUsecase {
	return &ToolUsecase{tools: tools, sealer: sealer, logger: log.Named("ToolUsecase")}
}

func (uc *ToolUsecase) List(ctx context.Context, actor *domain.Actor, filter domain.ToolFilter) (*domain.Page[*domain.Tool], error) {
	org, err := actor.ScopeOrganization(filter.OrganizationID)
	if err != nil {
		return nil, err
	}
	filter.OrganizationID = org
	filter.Normalize()
	items, total, err := uc.tools.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	return domain.NewPage(items, total, filter.ListFilter), nil
}

func (uc *ToolUsecase) Get(ctx context.Context, actor *domain.Actor, id string) (*domain.Tool, error) {
	t, err := uc.tools.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return loadScoped(actor, t, t.OrganizationID, nil)
}

func (uc *ToolUsecase) apply(t *domain.Tool, in ToolInput) error {
	setString(&t.Name, in.Name)
	setString(&t.Category, in.Category)
	setString(&t.URL, in.URL)
	setString(&t.Username, in.Username)
	setString(&t.Notes, in.Notes)
	if in.AssignedTo != nil {
		t.AssignedTo = in.AssignedTo
	}
	if in.Cost != nil {
		t.Cost = *in.Cost
	}
	if in.BillingCycle != nil {
		t.BillingCycle = *in.BillingCycle
	}
	setDate(&t.RenewalDate, in.RenewalDate)
	if in.Password != nil {
		if *in.Password == "" {
			t.SealedPassword = ""
		} else {
			sealed, err := uc.sealer.Seal(*in.Password)
			if err != nil {
				return fmt.Errorf("seal password: %w", err)
			}
			t.SealedPassword = sealed
		}
	}
	t.HasPassword = t.SealedPassword != ""
	return nil
}

func (uc *ToolUsecase) Create(ctx context.Context, actor *domain.Actor, in ToolInput) (*domain.Tool, error) {
	org, err := actor.OrganizationForCreate(in.OrganizationID)
	if err != nil {
		return nil, err
	}
	t := &domain.Tool{OrganizationID: org, AssignedTo: []string{}}
	if err := uc.apply(t, in); err != nil {
		return nil, err
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	if err := uc.tools.Create(ctx, t); err != nil {
		return nil, err
	}
	uc.logger.Info("Tool created", zap.String("tool_id", t.ID), zap.String("organization_id", org))
	return t, nil
}

// Update changes a tool. A nil password keeps the stored one, an empty password clears it.
func (uc *ToolUsecase) Update(ctx context.Context, actor *domain.Actor, id string, in ToolInput) (*domain.Tool, error) {
	t, err := uc.Get(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if err := uc.apply(t, in); err != nil {
		return nil, err
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	if err := uc.tools.Update(ctx, t); err != nil {
		return nil, err
	}
	uc.logger.Info("Tool updated", zap.String("tool_id", t.ID))
	return t, nil
}

func (uc *ToolUsecase) Delete(ctx context.Context, actor *domain.Actor, id string) error {
	t, err := uc.Get(ctx, actor, id)
	if err != nil {
		return err
	}
	if err := uc.tools.Delete(ctx, t.ID); err != nil {
		return err
	}
	uc.logger.Info("Tool deleted", zap.String("tool_id", t.ID))
	return nil
}

// RevealCredentials decrypts the stored password of a tool.
func (uc *ToolUsecase) RevealCredentials(ctx context.Context, actor *domain.Actor, id string) (*domain.ToolCredentials, error) {
	t, err := uc.Get(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	creds := &domain.ToolCredentials{ToolID: t.ID, URL: t.URL, Username: t.Username}
	if t.SealedPassword != "" {
		password, err := uc.sealer.Open(t.SealedPassword)
		if err != nil {
			uc.logger.Error("Failed to open sealed password", zap.String("tool_id", t.ID), zap.Error(err))
			return nil, err
		}
		creds.Password = password
	}
	uc.logger.Info("Tool credentials revealed", zap.String("tool_id", t.ID), zap.String("by", actor.UserID))
	return creds, nil
}
