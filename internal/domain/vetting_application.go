package domain

import "time"

// ApplicantType enumerates who may apply for vetting.
type ApplicantType string

const (
	ApplicantClient          ApplicantType = "client"
	ApplicantServiceProvider ApplicantType = "service_provider"
	ApplicantRegionalPartner ApplicantType = "regional_partner"
	ApplicantPersonnel       ApplicantType = "personnel"
)

// Valid reports whether t is a known applicant type.
func (t ApplicantType) Valid() bool {
	switch t {
	case ApplicantClient, ApplicantServiceProvider, ApplicantRegionalPartner, ApplicantPersonnel:
		return true
	}
	return false
}

// VettingTier is the depth of background check required.
type VettingTier string

const (
	TierBasic         VettingTier = "basic"
	TierEnhanced      VettingTier = "enhanced"
	TierComprehensive VettingTier = "comprehensive"
	TierExecutive     VettingTier = "executive"
)

// Valid reports whether t is a known tier.
func (t VettingTier) Valid() bool {
	_, ok := tierDurations[t]
	return ok
}

var tierDurations = map[VettingTier]time.Duration{
	TierBasic:         3 * 24 * time.Hour,
	TierEnhanced:      7 * 24 * time.Hour,
	TierComprehensive: 14 * 24 * time.Hour,
	TierExecutive:     21 * 24 * time.Hour,
}

// ExpectedDuration returns the planned processing window for the tier.
func (t VettingTier) ExpectedDuration() time.Duration {
	return tierDurations[t]
}

// PriorityLevel enumerates processing urgency.
type PriorityLevel string

const (
	PriorityLow      PriorityLevel = "low"
	PriorityStandard PriorityLevel = "standard"
	PriorityHigh     PriorityLevel = "high"
	PriorityUrgent   PriorityLevel = "urgent"
)

var priorityRank = map[PriorityLevel]int{
	PriorityLow:      1,
	PriorityStandard: 2,
	PriorityHigh:     3,
	PriorityUrgent:   4,
}

// Rank orders priorities; higher is more urgent. Unknown values rank 0.
func (p PriorityLevel) Rank() int {
	return priorityRank[p]
}

// Valid reports whether p is a known priority.
func (p PriorityLevel) Valid() bool {
	return p.Rank() > 0
}

// ApplicationStatus enumerates lifecycle states for vetting applications.
type ApplicationStatus string

const (
	StatusSubmitted              ApplicationStatus = "submitted"
	StatusInReview               ApplicationStatus = "in_review"
	StatusAdditionalInfoRequired ApplicationStatus = "additional_info_required"
	StatusApproved               ApplicationStatus = "approved"
	StatusRejected               ApplicationStatus = "rejected"
	StatusSuspended              ApplicationStatus = "suspended"
)

// Valid reports whether s is a known status.
func (s ApplicationStatus) Valid() bool {
	_, ok := forwardTransitions[s]
	return ok
}

// Terminal reports whether s ends the vetting lifecycle.
func (s ApplicationStatus) Terminal() bool {
	return s == StatusApproved || s == StatusRejected || s == StatusSuspended
}

var forwardTransitions = map[ApplicationStatus][]ApplicationStatus{
	StatusSubmitted:              {StatusInReview},
	StatusInReview:               {StatusAdditionalInfoRequired, StatusApproved, StatusRejected, StatusSuspended},
	StatusAdditionalInfoRequired: {StatusInReview},
	StatusApproved:               nil,
	StatusRejected:               nil,
	StatusSuspended:              nil,
}

// IsForwardTransition reports whether from -> to follows the forward-only lattice.
// Same-state updates are always allowed.
func IsForwardTransition(from, to ApplicationStatus) bool {
	if from == to {
		return true
	}
	for _, next := range forwardTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// VettingApplication is one applicant's request to be vetted.
type VettingApplication struct {
	ID                      string
	ApplicantEmail          string
	ApplicantName           string
	UserType                ApplicantType
	SubType                 SubType
	VettingTier             VettingTier
	PriorityLevel           PriorityLevel
	CurrentStatus           ApplicationStatus
	AssignedCompanyID       *string
	PrimaryOfficerID        *string
	SecondaryOfficerID      *string
	SubmittedAt             time.Time
	EstimatedCompletionDate time.Time
	ActualCompletionDate    *time.Time
	AdminNotes              string
	UpdatedAt               time.Time
	Version                 int
}

// IsAssignedTo reports whether officerID is the primary or secondary assignee.
func (a *VettingApplication) IsAssignedTo(officerID string) bool {
	if officerID == "" {
		return false
	}
	if a.PrimaryOfficerID != nil && *a.PrimaryOfficerID == officerID {
		return true
	}
	return a.SecondaryOfficerID != nil && *a.SecondaryOfficerID == officerID
}

// CompanyID returns the assigned company or empty string.
func (a *VettingApplication) CompanyID() string {
	if a.AssignedCompanyID == nil {
		return ""
	}
	return *a.AssignedCompanyID
}
