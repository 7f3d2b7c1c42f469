package session

import "github.com/crewbase/crewbase-go/pkg/domain"

// Client-side navigation routes.
const (
	RouteHome         = "/"
	RouteLogin        = "/login"
	RouteRegister     = "/register"
	RouteSuperAdmin   = "/super-admin"
	RouteCompanyAdmin = "/company-admin"
	RouteHR           = "/hr"
	RouteEmployee     = "/employee"

	RouteCompanyAdminEmployees = "/company-admin/employees"
	RouteCompanyAdminLeaves    = "/company-admin/leaves"
	RouteHREmployees           = "/hr/employees"
	RouteHRLeaves              = "/hr/leaves"
)

// ResolveLandingRoute picks the first screen after authentication.
// super_admin in the global role set wins regardless of memberships;
// otherwise the first membership's role decides; no membership or an
// unrecognized role falls through to the public route.
func ResolveLandingRoute(roles []domain.AppRole, memberships []domain.CompanyUser) string {
	for _, role := range roles {
		if role == domain.RoleSuperAdmin {
			return RouteSuperAdmin
		}
	}

	if len(memberships) == 0 {
		return RouteHome
	}

	switch memberships[0].Role {
	case domain.RoleCompanyAdmin:
		return RouteCompanyAdmin
	case domain.RoleHR:
		return RouteHR
	case domain.RoleEmployee:
		return RouteEmployee
	}
	return RouteHome
}
