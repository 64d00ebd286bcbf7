package domain

import "time"

// AccessLevel bounds which applications an officer may see.
type AccessLevel string

const (
	AccessLevelOfficer    AccessLevel = "officer"
	AccessLevelSupervisor AccessLevel = "supervisor"
	AccessLevelManager    AccessLevel = "manager"
)

// Valid reports whether a is a known access level.
func (a AccessLevel) Valid() bool {
	switch a {
	case AccessLevelOfficer, AccessLevelSupervisor, AccessLevelManager:
		return true
	}
	return false
}

// ClearanceLevel is an informational sensitivity rating.
type ClearanceLevel string

const (
	ClearanceStandard  ClearanceLevel = "standard"
	ClearanceEnhanced  ClearanceLevel = "enhanced"
	ClearanceTopSecret ClearanceLevel = "top_secret"
)

// Valid reports whether c is a known clearance level.
func (c ClearanceLevel) Valid() bool {
	switch c {
	case ClearanceStandard, ClearanceEnhanced, ClearanceTopSecret:
		return true
	}
	return false
}

// VettingOfficer works for exactly one vetting company.
type VettingOfficer struct {
	ID               string
	VettingCompanyID string
	Email            string
	FirstName        string
	LastName         string
	AccessLevel      AccessLevel
	ClearanceLevel   ClearanceLevel
	Specializations  []string
	IsActive         bool
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// FullName joins first and last name.
func (o *VettingOfficer) FullName() string {
	if o.LastName == "" {
		return o.FirstName
	}
	return o.FirstName + " " + o.LastName
}
