package domain

// Role is the coarse-grained role of a dashboard user.
type Role string

const (
	RoleSuperAdmin Role = "super-admin"
	RoleAdmin      Role = "admin"
	RoleManager    Role = "manager"
	RoleAccountant Role = "accountant"
	RoleUser       Role = "user"
)

var roleRank = map[Role]int{
	RoleSuperAdmin: 4,
	RoleAdmin:      3,
	RoleManager:    2,
	RoleAccountant: 1,
	RoleUser:       1,
}

// IsValid checks if the Role is one of the defined constants.
func (r Role) IsValid() bool {
	_, ok := roleRank[r]
	return ok
}

// Rank orders roles for user management; unknown roles rank zero.
func (r Role) Rank() int {
	return roleRank[r]
}

// IsAdmin reports whether the role bypasses page-level permission checks.
func (r Role) IsAdmin() bool {
	return r == RoleAdmin || r == RoleSuperAdmin
}

// CanManage reports whether a user holding r may create or modify a user holding target.
// Super-admins manage anyone, everybody else only strictly lower ranks.
func (r Role) CanManage(target Role) bool {
	if r == RoleSuperAdmin {
		return true
	}
	return r.Rank() > target.Rank()
}
