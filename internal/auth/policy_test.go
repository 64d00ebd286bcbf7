package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/aurelia-concierge/vetting-service/internal/domain"
)

func strPtr(s string) *string { return &s }

func TestAuthorizeVettingAccess(t *testing.T) {
	app := &domain.VettingApplication{
		ID:                 "app-1",
		AssignedCompanyID:  strPtr("company-a"),
		PrimaryOfficerID:   strPtr("officer-1"),
		SecondaryOfficerID: strPtr("officer-2"),
	}

	cases := []struct {
		name    string
		officer domain.VettingOfficer
		want    bool
	}{
		{"manager elsewhere", domain.VettingOfficer{ID: "m", VettingCompanyID: "company-b", AccessLevel: domain.AccessLevelManager}, true},
		{"supervisor same company", domain.VettingOfficer{ID: "s", VettingCompanyID: "company-a", AccessLevel: domain.AccessLevelSupervisor}, true},
		{"supervisor other company", domain.VettingOfficer{ID: "s", VettingCompanyID: "company-b", AccessLevel: domain.AccessLevelSupervisor}, false},
		{"primary officer", domain.VettingOfficer{ID: "officer-1", VettingCompanyID: "company-a", AccessLevel: domain.AccessLevelOfficer}, true},
		{"secondary officer", domain.VettingOfficer{ID: "officer-2", VettingCompanyID: "company-a", AccessLevel: domain.AccessLevelOfficer}, true},
		{"unassigned officer same company", domain.VettingOfficer{ID: "officer-3", VettingCompanyID: "company-a", AccessLevel: domain.AccessLevelOfficer}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			officer := tc.officer
			assert.Equal(t, tc.want, AuthorizeVettingAccess(&officer, app))
		})
	}
}

func TestApplicationScopeFor(t *testing.T) {
	manager := &domain.VettingOfficer{ID: "m", VettingCompanyID: "c", AccessLevel: domain.AccessLevelManager}
	supervisor := &domain.VettingOfficer{ID: "s", VettingCompanyID: "c", AccessLevel: domain.AccessLevelSupervisor}
	officer := &domain.VettingOfficer{ID: "o", VettingCompanyID: "c", AccessLevel: domain.AccessLevelOfficer}

	scope := ApplicationScopeFor(manager)
	assert.Nil(t, scope.CompanyID)
	assert.Nil(t, scope.OfficerID)

	scope = ApplicationScopeFor(supervisor)
	if assert.NotNil(t, scope.CompanyID) {
		assert.Equal(t, "c", *scope.CompanyID)
	}
	assert.Nil(t, scope.OfficerID)

	scope = ApplicationScopeFor(officer)
	assert.Nil(t, scope.CompanyID)
	if assert.NotNil(t, scope.OfficerID) {
		assert.Equal(t, "o", *scope.OfficerID)
	}
}

func TestAuthorizeImpersonation(t *testing.T) {
	principal := func(role domain.Role, dev, master bool) *Claims {
		return &Claims{Kind: domain.SubjectTypePrincipal, Role: role, OriginalDevAdmin: dev, OriginalMasterAdmin: master}
	}

	assert.True(t, AuthorizeImpersonation(principal(domain.RoleDevAdmin, false, false)))
	assert.True(t, AuthorizeImpersonation(principal(domain.RoleAdmin, false, false)))
	assert.True(t, AuthorizeImpersonation(principal(domain.RoleClient, true, false)))
	assert.True(t, AuthorizeImpersonation(principal(domain.RoleInvestor, false, true)))
	assert.False(t, AuthorizeImpersonation(principal(domain.RoleClient, false, false)))
	assert.False(t, AuthorizeImpersonation(&Claims{Kind: domain.SubjectTypeOfficer, OriginalDevAdmin: true}))
	assert.False(t, AuthorizeImpersonation(nil))
}

func TestCallerIsAdmin(t *testing.T) {
	admin := &Caller{Principal: &domain.Principal{Role: domain.RoleAdmin}}
	granted := &Caller{
		Principal:   &domain.Principal{Role: domain.RoleHR},
		Permissions: map[string]struct{}{domain.PermAdminAccess: {}},
	}
	client := &Caller{Principal: &domain.Principal{Role: domain.RoleClient}}
	officer := &Caller{Officer: &domain.VettingOfficer{AccessLevel: domain.AccessLevelManager}}

	assert.True(t, admin.IsAdmin())
	assert.True(t, granted.IsAdmin())
	assert.False(t, client.IsAdmin())
	assert.False(t, officer.IsAdmin())
}
