package usecase

import (
	"context"
	"fmt"

	"github.com/invisiedge/Atreo-sub001/internal/domain"
	"github.com/invisiedge/Atreo-sub001/internal/platform/auth"
	"github.com/invisiedge/Atreo-sub001/internal/platform/logger"
	"github.com/invisiedge/Atreo-sub001/internal/platform/sanitize"
	"go.uber.org/zap"
)

type CreateUserInput struct {
	OrganizationID string             `json:"organization_id"`
	Name           string             `json:"name" validate:"required,max=120"`
	Email          string             `json:"email" validate:"required,email"`
	Password       string             `json:"password" validate:"required,min=8"`
	Role           domain.Role        `json:"role" validate:"required"`
	Permissions    domain.Permissions `json:"permissions"`
	IsActive       *bool              `json:"is_active"`
}

type UpdateUserInput struct {
	Name  *string      `json:"name" validate:"omitempty,max=120"`
	Email *string      `json:"email" validate:"omitempty,email"`
	Role  *domain.Role `json:"role"`
}

// UserUsecase manages dashboard accounts inside the caller's tenant.
type UserUsecase struct {
	users     domain.UserRepository
	orgs      domain.OrganizationRepository
	publisher EventPublisher
	logger    *logger.Logger
}

func NewUserUsecase(users domain.UserRepository, orgs domain.OrganizationRepository, publisher EventPublisher, log *logger.Logger) *UserUsecase {
	return &UserUsecase{users: users, orgs: orgs, publisher: publisher, logger: log.Named("UserUsecase")}
}

func (uc *UserUsecase) List(ctx context.Context, actor *domain.Actor, filter domain.UserFilter) (*domain.Page[*domain.User], error) {
	org, err := actor.ScopeOrganization(filter.OrganizationID)
	if err != nil {
		return nil, err
	}
	filter.OrganizationID = org
	filter.Normalize()
	users, total, err := uc.users.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	return domain.NewPage(users, total, filter.ListFilter), nil
}

func (uc *UserUsecase) Get(ctx context.Context, actor *domain.Actor, id string) (*domain.User, error) {
	user, err := uc.users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return loadScoped(actor, user, user.OrganizationID, nil)
}

// Create adds a user. Only roles ranked below the caller can be granted.
func (uc *UserUsecase) Create(ctx context.Context, actor *domain.Actor, in CreateUserInput) (*domain.User, error) {
	if !in.Role.IsValid() {
		return nil, fmt.Errorf("%w: unknown role %q", domain.ErrInvalidInput, in.Role)
	}
	if !actor.Role.CanManage(in.Role) {
		return nil, fmt.Errorf("%w: cannot create a user with role %s", domain.ErrForbidden, in.Role)
	}

	var orgID string
	if in.Role != domain.RoleSuperAdmin {
		var err error
		if orgID, err = actor.OrganizationForCreate(in.OrganizationID); err != nil {
			return nil, err
		}
		if _, err := uc.orgs.GetByID(ctx, orgID); err != nil {
			return nil, fmt.Errorf("%w: organization %s does not exist", domain.ErrInvalidInput, orgID)
		}
	}

	if err := in.Permissions.Validate(); err != nil {
		return nil, err
	}
	if err := auth.ValidatePasswordStrength(in.Password); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		OrganizationID: orgID,
		Name:           sanitize.Text(in.Name),
		Email:          normalizeEmail(in.Email),
		PasswordHash:   hash,
		Role:           in.Role,
		Permissions:    in.Permissions.Normalize(),
		IsActive:       in.IsActive == nil || *in.IsActive,
	}
	if user.Name == "" {
		return nil, fmt.Errorf("%w: name is required", domain.ErrInvalidInput)
	}
	if err := uc.users.Create(ctx, user); err != nil {
		return nil, err
	}
	uc.logger.Info("User created", zap.String("user_id", user.ID), zap.String("role", string(user.Role)), zap.String("by", actor.UserID))

	if err := uc.publisher.Publish(ctx, domain.SubjectUserCreated, user); err != nil {
		uc.logger.Warn("Failed to publish user created event", zap.String("user_id", user.ID), zap.Error(err))
	}
	return user, nil
}

// loadManaged loads a user the actor is allowed to modify.
func (uc *UserUsecase) loadManaged(ctx context.Context, actor *domain.Actor, id string) (*domain.User, error) {
	user, err := uc.Get(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if user.ID == actor.UserID {
		return nil, fmt.Errorf("%w: use the account endpoints to change your own account", domain.ErrForbidden)
	}
	if !actor.Role.CanManage(user.Role) {
		return nil, fmt.Errorf("%w: cannot manage a user with role %s", domain.ErrForbidden, user.Role)
	}
	return user, nil
}

func (uc *UserUsecase) Update(ctx context.Context, actor *domain.Actor, id string, in UpdateUserInput) (*domain.User, error) {
	user, err := uc.Get(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	self := user.ID == actor.UserID
	if !self && !actor.Role.CanManage(user.Role) {
		return nil, fmt.Errorf("%w: cannot manage a user with role %s", domain.ErrForbidden, user.Role)
	}

	setString(&user.Name, in.Name)
	if in.Email != nil {
		user.Email = normalizeEmail(*in.Email)
	}
	if in.Role != nil && *in.Role != user.Role {
		if self {
			return nil, fmt.Errorf("%w: cannot change your own role", domain.ErrForbidden)
		}
		if !in.Role.IsValid() {
			return nil, fmt.Errorf("%w: unknown role %q", domain.ErrInvalidInput, *in.Role)
		}
		if !actor.Role.CanManage(*in.Role) {
			return nil, fmt.Errorf("%w: cannot grant role %s", domain.ErrForbidden, *in.Role)
		}
		if (*in.Role == domain.RoleSuperAdmin) != (user.Role == domain.RoleSuperAdmin) {
			return nil, fmt.Errorf("%w: super-admin accounts cannot be converted", domain.ErrInvalidInput)
		}
		user.Role = *in.Role
	}
	if user.Name == "" {
		return nil, fmt.Errorf("%w: name is required", domain.ErrInvalidInput)
	}
	if err := uc.users.Update(ctx, user); err != nil {
		return nil, err
	}
	uc.logger.Info("User updated", zap.String("user_id", user.ID), zap.String("by", actor.UserID))
	return user, nil
}

// UpdatePermissions replaces the permission tree of a user.
func (uc *UserUsecase) UpdatePermissions(ctx context.Context, actor *domain.Actor, id string, perms domain.Permissions) (*domain.User, error) {
	user, err := uc.loadManaged(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if err := perms.Validate(); err != nil {
		return nil, err
	}
	user.Permissions = perms.Normalize()
	if err := uc.users.Update(ctx, user); err != nil {
		return nil, err
	}
	uc.logger.Info("User permissions updated", zap.String("user_id", user.ID), zap.String("by", actor.UserID))
	return user, nil
}

func (uc *UserUsecase) SetStatus(ctx context.Context, actor *domain.Actor, id string, active bool) (*domain.User, error) {
	user, err := uc.loadManaged(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	user.IsActive = active
	if err := uc.users.Update(ctx, user); err != nil {
		return nil, err
	}
	uc.logger.Info("User status changed", zap.String("user_id", user.ID), zap.Bool("is_active", active), zap.String("by", actor.UserID))
	return user, nil
}

func (uc *UserUsecase) Delete(ctx context.Context, actor *domain.Actor, id string) error {
	user, err := uc.loadManaged(ctx, actor, id)
	if err != nil {
		return err
	}
	if err := uc.users.Delete(ctx, user.ID); err != nil {
		return err
	}
	uc.logger.Info("User deleted", zap.String("user_id", user.ID), zap.String("by", actor.UserID))
	return nil
}
