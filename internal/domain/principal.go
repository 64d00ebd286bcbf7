package domain

import "time"

// Role enumerates principal types known to the identity directory.
type Role string

const (
	RoleClient          Role = "client"
	RoleServiceProvider Role = "service_provider"
	RoleRegionalPartner Role = "regional_partner"
	RoleAdmin           Role = "admin"
	RolePersonnel       Role = "personnel"
	RoleInvestor        Role = "investor"
	RoleHR              Role = "hr"
	RoleDevAdmin        Role = "dev_admin"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	switch r {
	case RoleClient, RoleServiceProvider, RoleRegionalPartner, RoleAdmin,
		RolePersonnel, RoleInvestor, RoleHR, RoleDevAdmin:
		return true
	}
	return false
}

// SubType distinguishes individual accounts from company accounts.
type SubType string

const (
	SubTypeNone       SubType = ""
	SubTypeIndividual SubType = "individual"
	SubTypeCompany    SubType = "company"
)

// Permission keys granted through the permission table.
const (
	PermAdminAccess = "admin.access"
)

// Principal is any authenticated actor in the identity directory.
type Principal struct {
	ID           string
	Email        string
	DisplayName  string
	Role         Role
	SubType      SubType
	PasswordHash string
	IsActive     bool
	Profile      Profile
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// PermissionGrant binds a permission key to a principal.
type PermissionGrant struct {
	PrincipalID string
	Permission  string
	CreatedAt   time.Time
}

// ProfileKind tags which profile variant is populated.
type ProfileKind string

const (
	ProfileKindClient          ProfileKind = "client"
	ProfileKindServiceProvider ProfileKind = "service_provider"
	ProfileKindRegionalPartner ProfileKind = "regional_partner"
	ProfileKindAdmin           ProfileKind = "admin"
	ProfileKindPersonnel       ProfileKind = "personnel"
	ProfileKindInvestor        ProfileKind = "investor"
	ProfileKindHR              ProfileKind = "hr"
)

// Profile holds exactly one role specific variant, selected by Kind.
type Profile struct {
	Kind            ProfileKind             `json:"kind"`
	Client          *ClientProfile          `json:"client,omitempty"`
	ServiceProvider *ServiceProviderProfile `json:"service_provider,omitempty"`
	RegionalPartner *RegionalPartnerProfile `json:"regional_partner,omitempty"`
	Admin           *AdminProfile           `json:"admin,omitempty"`
	Personnel       *PersonnelProfile       `json:"personnel,omitempty"`
	Investor        *InvestorProfile        `json:"investor,omitempty"`
	HR              *HRProfile              `json:"hr,omitempty"`
}

type ClientProfile struct {
	MembershipTier string   `json:"membership_tier"`
	Phone          string   `json:"phone,omitempty"`
	CompanyName    string   `json:"company_name,omitempty"`
	PreferredCity  string   `json:"preferred_city,omitempty"`
	Preferences    []string `json:"preferences,omitempty"`
}

type ServiceProviderProfile struct {
	ServiceCategories []string `json:"service_categories"`
	CompanyName       string   `json:"company_name,omitempty"`
	Regions           []string `json:"regions,omitempty"`
	Rating            float64  `json:"rating,omitempty"`
	Verified          bool     `json:"verified"`
}

type RegionalPartnerProfile struct {
	Region        string  `json:"region"`
	CompanyName   string  `json:"company_name,omitempty"`
	CommissionPct float64 `json:"commission_pct,omitempty"`
}

type AdminProfile struct {
	Department string `json:"department,omitempty"`
}

type PersonnelProfile struct {
	Position       string   `json:"position"`
	Certifications []string `json:"certifications,omitempty"`
	Available      bool     `json:"available"`
}

type InvestorProfile struct {
	Firm          string `json:"firm,omitempty"`
	Accredited    bool   `json:"accredited"`
	InvestorClass string `json:"investor_class,omitempty"`
}

type HRProfile struct {
	Department string `json:"department,omitempty"`
}
