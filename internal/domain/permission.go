package domain

import (
	"fmt"
	"sort"
	"strings"
)

// AccessType is the kind of access requested on a page.
type AccessType string

const (
	AccessRead  AccessType = "read"
	AccessWrite AccessType = "write"
)

// Module names of the permission catalogue.
const (
	ModuleDashboard     = "dashboard"
	ModuleEmployees     = "employees"
	ModulePayroll       = "payroll"
	ModuleInvoices      = "invoices"
	ModulePayments      = "payments"
	ModuleTools         = "tools"
	ModuleAssets        = "assets"
	ModuleOrganizations = "organizations"
	ModuleUsers         = "users"
	ModuleAudit         = "audit"
	ModuleFiles         = "files"
)

// Catalogue lists every module and the pages it contains.
var Catalogue = map[string][]string{
	ModuleDashboard:     {"overview"},
	ModuleEmployees:     {"list", "details", "documents"},
	ModulePayroll:       {"salaries", "reimbursements"},
	ModuleInvoices:      {"list", "attachments"},
	ModulePayments:      {"list"},
	ModuleTools:         {"list", "credentials"},
	ModuleAssets:        {"list", "assignments"},
	ModuleOrganizations: {"list"},
	ModuleUsers:         {"list", "permissions"},
	ModuleAudit:         {"logs"},
	ModuleFiles:         {"uploads"},
}

// accountantModules is the read-only allowlist for the accountant role.
var accountantModules = map[string]bool{
	ModuleDashboard: true,
	ModuleEmployees: true,
	ModulePayroll:   true,
	ModuleInvoices:  true,
	ModulePayments:  true,
}

// Access holds the two flags of a permission leaf.
type Access struct {
	Read  bool `json:"read" bson:"read"`
	Write bool `json:"write" bson:"write"`
}

// Permissions maps module -> page -> access flags.
type Permissions map[string]map[string]Access

// Allows reports whether the leaf grants the requested access. Write implies read.
func (a Access) Allows(t AccessType) bool {
	switch t {
	case AccessRead:
		return a.Read || a.Write
	case AccessWrite:
		return a.Write
	}
	return false
}

// HasModuleAccess reports whether the holder of role/perms may enter module at all.
func HasModuleAccess(role Role, perms Permissions, module string) bool {
	if role.IsAdmin() {
		return true
	}
	if role == RoleAccountant {
		return accountantModules[module]
	}
	for _, access := range perms[module] {
		if access.Read || access.Write {
			return true
		}
	}
	return false
}

// HasPageAccess reports whether the holder of role/perms has the requested access on module/page.
func HasPageAccess(role Role, perms Permissions, module, page string, t AccessType) bool {
	if role.IsAdmin() {
		return true
	}
	if role == RoleAccountant {
		return t == AccessRead && accountantModules[module]
	}
	pages, ok := perms[module]
	if !ok {
		return false
	}
	return pages[page].Allows(t)
}

// Validate rejects modules and pages that are not part of the catalogue.
func (p Permissions) Validate() error {
	var unknown []string
	for module, pages := range p {
		known, ok := Catalogue[module]
		if !ok {
			unknown = append(unknown, module)
			continue
		}
		for page := range pages {
			if !contains(known, page) {
				unknown = append(unknown, module+"."+page)
			}
		}
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return fmt.Errorf("%w: unknown permission keys: %s", ErrInvalidInput, strings.Join(unknown, ", "))
	}
	return nil
}

// Normalize drops leaves that grant nothing and fills in read for write-only leaves.
func (p Permissions) Normalize() Permissions {
	out := make(Permissions, len(p))
	for module, pages := range p {
		for page, access := range pages {
			if !access.Read && !access.Write {
				continue
			}
			if access.Write {
				access.Read = true
			}
			if out[module] == nil {
				out[module] = make(map[string]Access)
			}
			out[module][page] = access
		}
	}
	return out
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
