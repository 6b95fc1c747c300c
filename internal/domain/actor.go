package domain

import (
	"fmt"
	"time"
)

// Actor is the authenticated caller of a request.
type Actor struct {
	UserID         string
	Email          string
	Role           Role
	OrganizationID string
	Permissions    Permissions
	TokenID        string
	TokenExpiresAt time.Time
}

// ActorFromUser builds the actor for an authenticated user.
func ActorFromUser(u *User, tokenID string, expiresAt time.Time) *Actor {
	return &Actor{
		UserID:         u.ID,
		Email:          u.Email,
		Role:           u.Role,
		OrganizationID: u.OrganizationID,
		Permissions:    u.Permissions,
		TokenID:        tokenID,
		TokenExpiresAt: expiresAt,
	}
}

func (a *Actor) IsSuperAdmin() bool {
	return a != nil && a.Role == RoleSuperAdmin
}

func (a *Actor) HasModuleAccess(module string) bool {
	return a != nil && HasModuleAccess(a.Role, a.Permissions, module)
}

func (a *Actor) HasPageAccess(module, page string, t AccessType) bool {
	return a != nil && HasPageAccess(a.Role, a.Permissions, module, page, t)
}

// ScopeOrganization resolves the organization a query runs against.
// Tenant users are pinned to their own organization; super-admins may
// request any organization or none (all tenants).
func (a *Actor) ScopeOrganization(requested string) (string, error) {
	if a == nil {
		return "", ErrUnauthorized
	}
	if a.IsSuperAdmin() {
		return requested, nil
	}
	if requested != "" && requested != a.OrganizationID {
		return "", fmt.Errorf("%w: organization %s is outside your tenant", ErrForbidden, requested)
	}
	return a.OrganizationID, nil
}

// OrganizationForCreate resolves the organization a new document belongs to.
func (a *Actor) OrganizationForCreate(requested string) (string, error) {
	org, err := a.ScopeOrganization(requested)
	if err != nil {
		return "", err
	}
	if org == "" {
		return "", fmt.Errorf("%w: organization_id is required", ErrInvalidInput)
	}
	return org, nil
}

// CanAccessOrganization reports whether a document of orgID is visible to the actor.
func (a *Actor) CanAccessOrganization(orgID string) bool {
	if a == nil {
		return false
	}
	return a.IsSuperAdmin() || a.OrganizationID == orgID
}
