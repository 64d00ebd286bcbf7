package auth

import (
	"github.com/aurelia-concierge/vetting-service/internal/domain"
	"github.com/aurelia-concierge/vetting-service/internal/repository"
)

// Caller represents the authenticated entity behind a request.
type Caller struct {
	Kind        domain.SubjectType
	Claims      *Claims
	Principal   *domain.Principal
	Officer     *domain.VettingOfficer
	Permissions map[string]struct{}
}

// HasPermission reports whether the permission table grants key to the caller.
func (c *Caller) HasPermission(key string) bool {
	_, ok := c.Permissions[key]
	return ok
}

// IsAdmin reports admin status: an admin role, or an explicit admin.access grant.
func (c *Caller) IsAdmin() bool {
	if c.Principal == nil {
		return false
	}
	return IsAdminRole(c.Principal.Role) || c.HasPermission(domain.PermAdminAccess)
}

// IsAdminRole reports whether role carries administrative rights by itself.
func IsAdminRole(role domain.Role) bool {
	return role == domain.RoleAdmin || role == domain.RoleDevAdmin
}

// AuthorizeVettingAccess applies the three-tier visibility rule:
// managers see everything, supervisors see their company, officers see their assignments.
func AuthorizeVettingAccess(officer *domain.VettingOfficer, app *domain.VettingApplication) bool {
	if officer == nil || app == nil {
		return false
	}
	switch officer.AccessLevel {
	case domain.AccessLevelManager:
		return true
	case domain.AccessLevelSupervisor:
		return app.AssignedCompanyID != nil && *app.AssignedCompanyID == officer.VettingCompanyID
	case domain.AccessLevelOfficer:
		return app.IsAssignedTo(officer.ID)
	default:
		return false
	}
}

// ApplicationScopeFor translates the visibility rule into a repository scope.
func ApplicationScopeFor(officer *domain.VettingOfficer) repository.ApplicationScope {
	switch officer.AccessLevel {
	case domain.AccessLevelManager:
		return repository.ApplicationScope{}
	case domain.AccessLevelSupervisor:
		companyID := officer.VettingCompanyID
		return repository.ApplicationScope{CompanyID: &companyID}
	default:
		officerID := officer.ID
		return repository.ApplicationScope{OfficerID: &officerID}
	}
}

// AuthorizeImpersonation reports whether a token may switch to another user type.
func AuthorizeImpersonation(claims *Claims) bool {
	if claims == nil || claims.Kind != domain.SubjectTypePrincipal {
		return false
	}
	return IsAdminRole(claims.Role) || claims.OriginalDevAdmin || claims.OriginalMasterAdmin
}
