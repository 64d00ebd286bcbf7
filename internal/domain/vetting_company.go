package domain

import "time"

// VettingCompany is a licensed firm that performs vetting and owns officers.
type VettingCompany struct {
	ID                string
	CompanyName       string
	LicenseNumber     string
	Specializations   []string
	IsActive          bool
	ContractStartDate time.Time
	ContractEndDate   *time.Time
	CreatedAt         time.Time
	UpdatedAt         time.Time
}
