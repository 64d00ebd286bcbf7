package service

import (
	"context"

	"github.com/aurelia-concierge/vetting-service/internal/domain"
	"github.com/aurelia-concierge/vetting-service/internal/repository"
	apperrors "github.com/aurelia-concierge/vetting-service/pkg/util/errorutil"
)

// AssignmentService validates company and officer assignments for applications and tasks.
type AssignmentService struct {
	companies repository.CompanyRepository
	officers  repository.OfficerRepository
}

// NewAssignmentService creates the service.
func NewAssignmentService(companies repository.CompanyRepository, officers repository.OfficerRepository) *AssignmentService {
	return &AssignmentService{companies: companies, officers: officers}
}

// Assignment is the company plus officers an application is routed to.
type Assignment struct {
	CompanyID          *string
	PrimaryOfficerID   *string
	SecondaryOfficerID *string
}

// ValidateApplicationAssignment checks that the company is active and both officers
// are active members of it. Officers without a company are rejected.
func (s *AssignmentService) ValidateApplicationAssignment(ctx context.Context, a Assignment) error {
	if a.CompanyID == nil {
		if a.PrimaryOfficerID != nil || a.SecondaryOfficerID != nil {
			return apperrors.NewValidationError("officers require an assigned company", nil)
		}
		return nil
	}
	company, err := s.companies.GetByID(ctx, *a.CompanyID)
	if err != nil {
		if mapped := mapRepoError(err, "vetting company", *a.CompanyID); apperrors.IsCode(mapped, "NOT_FOUND") {
			return apperrors.NewValidationError("assigned company does not exist", map[string]any{"company_id": *a.CompanyID})
		}
		return apperrors.MapError(err)
	}
	if !company.IsActive {
		return apperrors.NewValidationError("assigned company is inactive", map[string]any{"company_id": company.ID})
	}
	if a.PrimaryOfficerID != nil && a.SecondaryOfficerID != nil && *a.PrimaryOfficerID == *a.SecondaryOfficerID {
		return apperrors.NewValidationError("primary and secondary officer must differ", nil)
	}
	for _, officerID := range []*string{a.PrimaryOfficerID, a.SecondaryOfficerID} {
		if officerID == nil {
			continue
		}
		if _, err := s.OfficerInCompany(ctx, *officerID, company.ID); err != nil {
			return err
		}
	}
	return nil
}

// OfficerInCompany loads an active officer and verifies company membership.
func (s *AssignmentService) OfficerInCompany(ctx context.Context, officerID, companyID string) (*domain.VettingOfficer, error) {
	officer, err := s.officers.GetByID(ctx, officerID)
	if err != nil {
		if mapped := mapRepoError(err, "vetting officer", officerID); apperrors.IsCode(mapped, "NOT_FOUND") {
			return nil, apperrors.NewValidationError("officer does not exist", map[string]any{"officer_id": officerID})
		}
		return nil, apperrors.MapError(err)
	}
	if !officer.IsActive {
		return nil, apperrors.NewValidationError("officer is inactive", map[string]any{"officer_id": officerID})
	}
	if officer.VettingCompanyID != companyID {
		return nil, apperrors.NewValidationError("officer does not belong to the assigned company", map[string]any{
			"officer_id": officerID,
			"company_id": companyID,
		})
	}
	return officer, nil
}
