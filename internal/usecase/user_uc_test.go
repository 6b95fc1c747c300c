package usecase

import (
	"context"
	"testing"

	"github.com/invisiedge/Atreo-sub001/internal/domain"
	"github.com/invisiedge/Atreo-sub001/internal/platform/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newUserUsecase() (*UserUsecase, *MockUserRepository, *MockOrganizationRepository, *MockPublisher) {
	users := new(MockUserRepository)
	orgs := new(MockOrganizationRepository)
	pub := new(MockPublisher)
	return NewUserUsecase(users, orgs, pub, logger.NewNop()), users, orgs, pub
}

func TestUserUsecase_CreateRespectsRoleRank(t *testing.T) {
	ctx := context.Background()
	uc, users, _, _ := newUserUsecase()

	_, err := uc.Create(ctx, tenantActor(domain.RoleManager), CreateUserInput{
		Name: "Eve", Email: "eve@acme.test", Password: "Secret123", Role: domain.RoleAdmin,
	})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = uc.Create(ctx, tenantActor(domain.RoleManager), CreateUserInput{
		Name: "Eve", Email: "eve@acme.test", Password: "Secret123", Role: domain.RoleManager,
	})
	assert.ErrorIs(t, err, domain.ErrForbidden, "peers cannot be created")
	users.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestUserUsecase_CreateInOwnOrganization(t *testing.T) {
	ctx := context.Background()
	uc, users, orgs, pub := newUserUsecase()
	orgs.On("GetByID", ctx, "org-1").Return(&domain.Organization{ID: "org-1"}, nil)
	users.On("Create", ctx, mock.AnythingOfType("*domain.User")).Return(nil).Run(func(args mock.Arguments) {
		args.Get(1).(*domain.User).ID = "u-new"
	})
	pub.On("Publish", ctx, domain.SubjectUserCreated, mock.Anything).Return(nil)

	user, err := uc.Create(ctx, tenantActor(domain.RoleAdmin), CreateUserInput{
		Name:     "<b>Bob</b>",
		Email:    " Bob@Acme.test ",
		Password: "Secret123",
		Role:     domain.RoleUser,
		Permissions: domain.Permissions{
			"invoices": {"list": {Write: true}, "attachments": {}},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "u-new", user.ID)
	assert.Equal(t, "org-1", user.OrganizationID)
	assert.Equal(t, "Bob", user.Name)
	assert.Equal(t, "bob@acme.test", user.Email)
	assert.True(t, user.IsActive)
	assert.False(t, user.EmailVerified)
	assert.Equal(t, domain.Permissions{"invoices": {"list": {Read: true, Write: true}}}, user.Permissions)
	assert.NotEqual(t, "Secret123", user.PasswordHash)
	pub.AssertExpectations(t)
}

func TestUserUsecase_CreateRejectsForeignOrganizationAndUnknownPermissions(t *testing.T) {
	ctx := context.Background()
	uc, _, orgs, _ := newUserUsecase()

	_, err := uc.Create(ctx, tenantActor(domain.RoleAdmin), CreateUserInput{
		OrganizationID: "org-2", Name: "Bob", Email: "bob@acme.test", Password: "Secret123", Role: domain.RoleUser,
	})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	orgs.On("GetByID", ctx, "org-1").Return(&domain.Organization{ID: "org-1"}, nil)
	_, err = uc.Create(ctx, tenantActor(domain.RoleAdmin), CreateUserInput{
		Name: "Bob", Email: "bob@acme.test", Password: "Secret123", Role: domain.RoleUser,
		Permissions: domain.Permissions{"payroll": {"bonuses": {Read: true}}},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestUserUsecase_SuperAdminMustNameOrganization(t *testing.T) {
	ctx := context.Background()
	uc, _, _, _ := newUserUsecase()

	_, err := uc.Create(ctx, superActor(), CreateUserInput{
		Name: "Bob", Email: "bob@acme.test", Password: "Secret123", Role: domain.RoleAdmin,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestUserUsecase_GetHidesOtherTenants(t *testing.T) {
	ctx := context.Background()
	uc, users, _, _ := newUserUsecase()
	users.On("GetByID", ctx, "u-2").Return(&domain.User{ID: "u-2", OrganizationID: "org-2"}, nil)

	_, err := uc.Get(ctx, tenantActor(domain.RoleAdmin), "u-2")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	user, err := uc.Get(ctx, superActor(), "u-2")
	require.NoError(t, err)
	assert.Equal(t, "org-2", user.OrganizationID)
}

func TestUserUsecase_ListIsScopedToTenant(t *testing.T) {
	ctx := context.Background()
	uc, users, _, _ := newUserUsecase()
	users.On("List", ctx, mock.MatchedBy(func(f domain.UserFilter) bool {
		return f.OrganizationID == "org-1" && f.Page == 1 && f.Limit == domain.DefaultPageSize
	})).Return(nil, int64(0), nil)

	page, err := uc.List(ctx, tenantActor(domain.RoleAdmin), domain.UserFilter{})
	require.NoError(t, err)
	assert.NotNil(t, page.Items)
	assert.Empty(t, page.Items)

	_, err = uc.List(ctx, tenantActor(domain.RoleAdmin), domain.UserFilter{ListFilter: domain.ListFilter{OrganizationID: "org-9"}})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestUserUsecase_ManagementGuards(t *testing.T) {
	ctx := context.Background()
	uc, users, _, _ := newUserUsecase()
	users.On("GetByID", ctx, "u-actor").Return(&domain.User{ID: "u-actor", OrganizationID: "org-1", Role: domain.RoleAdmin}, nil)
	users.On("GetByID", ctx, "u-peer").Return(&domain.User{ID: "u-peer", OrganizationID: "org-1", Role: domain.RoleAdmin}, nil)
	users.On("GetByID", ctx, "u-low").Return(&domain.User{ID: "u-low", OrganizationID: "org-1", Role: domain.RoleUser, IsActive: true}, nil)
	users.On("Update", ctx, mock.AnythingOfType("*domain.User")).Return(nil)

	actor := tenantActor(domain.RoleAdmin)

	_, err := uc.SetStatus(ctx, actor, "u-actor", false)
	assert.ErrorIs(t, err, domain.ErrForbidden, "cannot deactivate yourself")

	_, err = uc.SetStatus(ctx, actor, "u-peer", false)
	assert.ErrorIs(t, err, domain.ErrForbidden, "cannot manage an equal rank")

	user, err := uc.SetStatus(ctx, actor, "u-low", false)
	require.NoError(t, err)
	assert.False(t, user.IsActive)

	promoted := domain.RoleAdmin
	_, err = uc.Update(ctx, actor, "u-low", UpdateUserInput{Role: &promoted})
	assert.ErrorIs(t, err, domain.ErrForbidden, "cannot grant own rank")

	_, err = uc.UpdatePermissions(ctx, actor, "u-low", domain.Permissions{"nope": {}})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	name := "Renamed"
	self, err := uc.Update(ctx, actor, "u-actor", UpdateUserInput{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "Renamed", self.Name)
}
