package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/invisiedge/Atreo-sub001/internal/domain"
	"github.com/invisiedge/Atreo-sub001/internal/platform/logger"
	"go.uber.org/zap"
)

type OrganizationInput struct {
	Name         *string `json:"name" validate:"omitempty,max=160"`
	Slug         *string `json:"slug" validate:"omitempty,max=80"`
	ContactEmail *string `json:"contact_email" validate:"omitempty,email"`
	Address      *string `json:"address" validate:"omitempty,max=500"`
	Currency     *string `json:"currency" validate:"omitempty,len=3"`
	IsActive     *bool   `json:"is_active"`
}

// OrganizationUsecase manages tenants. Creating and deleting tenants is reserved to super-admins.
type OrganizationUsecase struct {
	orgs   domain.OrganizationRepository
	users  domain.UserRepository
	logger *logger.Logger
}

func NewOrganizationUsecase(orgs domain.OrganizationRepository, users domain.UserRepository, log *logger.Logger) *OrganizationUsecase {
	return &OrganizationUsecase{orgs: orgs, users: users, logger: log.Named("OrganizationUsecase")}
}

func (uc *OrganizationUsecase) List(ctx context.Context, actor *domain.Actor, filter domain.ListFilter) (*domain.Page[*domain.Organization], error) {
	org, err := actor.ScopeOrganization(filter.OrganizationID)
	if err != nil {
		return nil, err
	}
	filter.OrganizationID = org
	filter.Normalize()
	orgs, total, err := uc.orgs.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	return domain.NewPage(orgs, total, filter), nil
}

func (uc *OrganizationUsecase) Get(ctx context.Context, actor *domain.Actor, id string) (*domain.Organization, error) {
	if !actor.CanAccessOrganization(id) {
		return nil, domain.ErrNotFound
	}
	return uc.orgs.GetByID(ctx, id)
}

func (uc *OrganizationUsecase) apply(org *domain.Organization, in OrganizationInput) {
	setString(&org.Name, in.Name)
	setString(&org.ContactEmail, in.ContactEmail)
	setString(&org.Address, in.Address)
	if in.Slug != nil {
		org.Slug = domain.Slugify(*in.Slug)
	}
	if in.Currency != nil {
		org.Currency = strings.ToUpper(strings.TrimSpace(*in.Currency))
	}
	if in.IsActive != nil {
		org.IsActive = *in.IsActive
	}
}

func (uc *OrganizationUsecase) Create(ctx context.Context, actor *domain.Actor, in OrganizationInput) (*domain.Organization, error) {
	if !actor.IsSuperAdmin() {
		return nil, fmt.Errorf("%w: only super-admins can create organizations", domain.ErrForbidden)
	}
	org := &domain.Organization{IsActive: true}
	uc.apply(org, in)
	if org.Slug == "" {
		org.Slug = domain.Slugify(org.Name)
	}
	if err := org.Validate(); err != nil {
		return nil, err
	}
	if err := uc.orgs.Create(ctx, org); err != nil {
		return nil, err
	}
	uc.logger.Info("Organization created", zap.String("organization_id", org.ID), zap.String("slug", org.Slug))
	return org, nil
}

func (uc *OrganizationUsecase) Update(ctx context.Context, actor *domain.Actor, id string, in OrganizationInput) (*domain.Organization, error) {
	org, err := uc.Get(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if in.IsActive != nil && !actor.IsSuperAdmin() {
		return nil, fmt.Errorf("%w: only super-admins can change organization status", domain.ErrForbidden)
	}
	uc.apply(org, in)
	if err := org.Validate(); err != nil {
		return nil, err
	}
	if err := uc.orgs.Update(ctx, org); err != nil {
		return nil, err
	}
	uc.logger.Info("Organization updated", zap.String("organization_id", org.ID), zap.String("by", actor.UserID))
	return org, nil
}

// Delete removes an organization that no user references anymore.
func (uc *OrganizationUsecase) Delete(ctx context.Context, actor *domain.Actor, id string) error {
	if !actor.IsSuperAdmin() {
		return fmt.Errorf("%w: only super-admins can delete organizations", domain.ErrForbidden)
	}
	if _, err := uc.orgs.GetByID(ctx, id); err != nil {
		return err
	}
	users, err := uc.users.CountByOrganization(ctx, id)
	if err != nil {
		return err
	}
	if users > 0 {
		return fmt.Errorf("%w: organization still has %d users", domain.ErrConflict, users)
	}
	if err := uc.orgs.Delete(ctx, id); err != nil {
		return err
	}
	uc.logger.Info("Organization deleted", zap.String("organization_id", id), zap.String("by", actor.UserID))
	return nil
}
