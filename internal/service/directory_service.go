package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/aurelia-concierge/vetting-service/internal/domain"
	"github.com/aurelia-concierge/vetting-service/internal/repository"
	apperrors "github.com/aurelia-concierge/vetting-service/pkg/util/errorutil"
)

// DirectoryService manages vetting companies and their officers.
type DirectoryService struct {
	companies repository.CompanyRepository
	officers  repository.OfficerRepository
	now       func() time.Time
}

// CreateCompanyInput carries the fields of a new vetting company.
type CreateCompanyInput struct {
	CompanyName       string
	LicenseNumber     string
	Specializations   []string
	ContractStartDate *time.Time
	ContractEndDate   *time.Time
}

// CreateOfficerInput carries the fields of a new vetting officer.
type CreateOfficerInput struct {
	VettingCompanyID string
	Email            string
	FirstName        string
	LastName         string
	AccessLevel      domain.AccessLevel
	ClearanceLevel   domain.ClearanceLevel
	Specializations  []string
}

// OfficerListFilters define listing parameters.
type OfficerListFilters struct {
	CompanyID   *string
	AccessLevel *domain.AccessLevel
	Active      *bool
	Limit       int
	Offset      int
}

// NewDirectoryService constructs the service.
func NewDirectoryService(repos repository.Repositories) *DirectoryService {
	return &DirectoryService{
		companies: repos.Companies,
		officers:  repos.Officers,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// ListCompanies returns companies, optionally including inactive ones.
func (s *DirectoryService) ListCompanies(ctx context.Context, includeInactive bool) ([]domain.VettingCompany, error) {
	return s.companies.List(ctx, !includeInactive)
}

// GetCompany fetches a company.
func (s *DirectoryService) GetCompany(ctx context.Context, id string) (*domain.VettingCompany, error) {
	company, err := s.companies.GetByID(ctx, id)
	if err != nil {
		return nil, mapRepoError(err, "vetting company", id)
	}
	return company, nil
}

// CreateCompany registers an active vetting company.
func (s *DirectoryService) CreateCompany(ctx context.Context, input CreateCompanyInput) (*domain.VettingCompany, error) {
	name := strings.TrimSpace(input.CompanyName)
	license := strings.TrimSpace(input.LicenseNumber)
	if name == "" || license == "" {
		return nil, apperrors.NewValidationError("company name and license number are required", nil)
	}

	start := s.now()
	if input.ContractStartDate != nil {
		start = input.ContractStartDate.UTC()
	}
	if input.ContractEndDate != nil && input.ContractEndDate.Before(start) {
		return nil, apperrors.NewValidationError("contract end date precedes start date", map[string]any{
			"contract_start_date": start,
			"contract_end_date":   *input.ContractEndDate,
		})
	}

	company := &domain.VettingCompany{
		ID:                uuid.NewString(),
		CompanyName:       name,
		LicenseNumber:     license,
		Specializations:   input.Specializations,
		IsActive:          true,
		ContractStartDate: start,
		ContractEndDate:   input.ContractEndDate,
	}
	if err := s.companies.Create(ctx, company); err != nil {
		return nil, mapRepoError(err, "vetting company", company.ID)
	}
	return company, nil
}

// ListOfficers lists officers with filters.
func (s *DirectoryService) ListOfficers(ctx context.Context, filters OfficerListFilters) ([]domain.VettingOfficer, error) {
	return s.officers.List(ctx, repository.OfficerFilter{
		CompanyID:   filters.CompanyID,
		AccessLevel: filters.AccessLevel,
		Active:      filters.Active,
		Limit:       filters.Limit,
		Offset:      filters.Offset,
	})
}

// CreateOfficer adds an officer to an active company.
func (s *DirectoryService) CreateOfficer(ctx context.Context, input CreateOfficerInput) (*domain.VettingOfficer, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if email == "" || strings.TrimSpace(input.FirstName) == "" {
		return nil, apperrors.NewValidationError("email and first name are required", nil)
	}
	if input.AccessLevel == "" {
		input.AccessLevel = domain.AccessLevelOfficer
	}
	if input.ClearanceLevel == "" {
		input.ClearanceLevel = domain.ClearanceStandard
	}
	if !input.AccessLevel.Valid() || !input.ClearanceLevel.Valid() {
		return nil, apperrors.NewValidationError("unknown access or clearance level", map[string]any{
			"access_level":    input.AccessLevel,
			"clearance_level": input.ClearanceLevel,
		})
	}

	company, err := s.companies.GetByID(ctx, input.VettingCompanyID)
	if err != nil {
		return nil, mapRepoError(err, "vetting company", input.VettingCompanyID)
	}
	if !company.IsActive {
		return nil, apperrors.NewConflict("vetting company inactive", map[string]any{"vetting_company_id": company.ID})
	}

	if existing, err := s.officers.GetByEmail(ctx, email); err == nil && existing != nil {
		return nil, apperrors.NewConflict("officer email already exists", map[string]any{"email": email})
	} else if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.MapError(err)
	}

	officer := &domain.VettingOfficer{
		ID:               uuid.NewString(),
		VettingCompanyID: company.ID,
		Email:            email,
		FirstName:        strings.TrimSpace(input.FirstName),
		LastName:         strings.TrimSpace(input.LastName),
		AccessLevel:      input.AccessLevel,
		ClearanceLevel:   input.ClearanceLevel,
		Specializations:  input.Specializations,
		IsActive:         true,
	}
	if err := s.officers.Create(ctx, officer); err != nil {
		return nil, mapRepoError(err, "vetting officer", officer.ID)
	}
	return officer, nil
}
