package domain

// AppRole is a role label as stored by the backend.
type AppRole string

const (
	RoleSuperAdmin   AppRole = "super_admin"
	RoleCompanyAdmin AppRole = "company_admin"
	RoleHR           AppRole = "hr"
	RoleEmployee     AppRole = "employee"
)

// Known returns true if the role is part of the fixed enumeration.
func (r AppRole) Known() bool {
	switch r {
	case RoleSuperAdmin, RoleCompanyAdmin, RoleHR, RoleEmployee:
		return true
	}
	return false
}
