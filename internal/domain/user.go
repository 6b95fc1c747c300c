package domain

import "time"

// User is a dashboard account. Admin accounts are users holding the admin or super-admin role.
type User struct {
	ID             string      `json:"id"`
	OrganizationID string      `json:"organization_id,omitempty"`
	Name           string      `json:"name"`
	Email          string      `json:"email"`
	PasswordHash   string      `json:"-"`
	Role           Role        `json:"role"`
	Permissions    Permissions `json:"permissions"`
	IsActive       bool        `json:"is_active"`
	EmailVerified  bool        `json:"email_verified"`
	LastLoginAt    *time.Time  `json:"last_login_at,omitempty"`
	CreatedAt      time.Time   `json:"created_at"`
	UpdatedAt      time.Time   `json:"updated_at"`
}
