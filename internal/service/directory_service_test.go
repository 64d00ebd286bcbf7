package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aurelia-concierge/vetting-service/internal/domain"
	apperrors "github.com/aurelia-concierge/vetting-service/pkg/util/errorutil"
)

func TestDirectoryCreateCompany(t *testing.T) {
	f := newVettingFixture(t, false)
	ctx := context.Background()
	directory := NewDirectoryService(f.repos)

	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	company, err := directory.CreateCompany(ctx, CreateCompanyInput{
		CompanyName:       "  Harbor Checks ",
		LicenseNumber:     "VS-3003",
		ContractStartDate: &start,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, company.ID)
	assert.Equal(t, "Harbor Checks", company.CompanyName)
	assert.True(t, company.IsActive)
	assert.Equal(t, start, company.ContractStartDate)

	fetched, err := directory.GetCompany(ctx, company.ID)
	require.NoError(t, err)
	assert.Equal(t, "VS-3003", fetched.LicenseNumber)

	_, err = directory.CreateCompany(ctx, CreateCompanyInput{CompanyName: "No License"})
	assert.True(t, apperrors.IsCode(err, "VALIDATION_FAILED"))

	end := start.Add(-24 * time.Hour)
	_, err = directory.CreateCompany(ctx, CreateCompanyInput{CompanyName: "Backwards", LicenseNumber: "X", ContractStartDate: &start, ContractEndDate: &end})
	assert.True(t, apperrors.IsCode(err, "VALIDATION_FAILED"))

	_, err = directory.GetCompany(ctx, "missing")
	assert.True(t, apperrors.IsCode(err, "NOT_FOUND"))
}

func TestDirectoryListCompanies(t *testing.T) {
	f := newVettingFixture(t, false)
	ctx := context.Background()
	directory := NewDirectoryService(f.repos)

	require.NoError(t, f.repos.Companies.Create(ctx, &domain.VettingCompany{ID: "dormant", CompanyName: "Dormant", LicenseNumber: "D"}))

	active, err := directory.ListCompanies(ctx, false)
	require.NoError(t, err)
	require.Len(t, active, 2)
	assert.Equal(t, "Atlas", active[0].CompanyName)
	assert.Equal(t, "Meridian", active[1].CompanyName)

	all, err := directory.ListCompanies(ctx, true)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestDirectoryCreateOfficer(t *testing.T) {
	f := newVettingFixture(t, false)
	ctx := context.Background()
	directory := NewDirectoryService(f.repos)

	officer, err := directory.CreateOfficer(ctx, CreateOfficerInput{
		VettingCompanyID: companyA,
		Email:            "New.Officer@Vet.Test",
		FirstName:        "Nadia",
		LastName:         "Holm",
	})
	require.NoError(t, err)
	assert.Equal(t, "new.officer@vet.test", officer.Email)
	assert.Equal(t, domain.AccessLevelOfficer, officer.AccessLevel)
	assert.Equal(t, domain.ClearanceStandard, officer.ClearanceLevel)
	assert.True(t, officer.IsActive)

	_, err = directory.CreateOfficer(ctx, CreateOfficerInput{VettingCompanyID: companyB, Email: "new.officer@vet.test", FirstName: "Dup"})
	assert.True(t, apperrors.IsCode(err, "CONFLICT"))

	_, err = directory.CreateOfficer(ctx, CreateOfficerInput{VettingCompanyID: "missing", Email: "x@vet.test", FirstName: "X"})
	assert.True(t, apperrors.IsCode(err, "NOT_FOUND"))

	_, err = directory.CreateOfficer(ctx, CreateOfficerInput{VettingCompanyID: companyA, Email: "y@vet.test", FirstName: "Y", AccessLevel: "director"})
	assert.True(t, apperrors.IsCode(err, "VALIDATION_FAILED"))

	require.NoError(t, f.repos.Companies.Create(ctx, &domain.VettingCompany{ID: "dormant", CompanyName: "Dormant", LicenseNumber: "D"}))
	_, err = directory.CreateOfficer(ctx, CreateOfficerInput{VettingCompanyID: "dormant", Email: "z@vet.test", FirstName: "Z"})
	assert.True(t, apperrors.IsCode(err, "CONFLICT"))
}

func TestDirectoryListOfficersFilters(t *testing.T) {
	f := newVettingFixture(t, false)
	ctx := context.Background()
	directory := NewDirectoryService(f.repos)

	company := companyA
	officers, err := directory.ListOfficers(ctx, OfficerListFilters{CompanyID: &company})
	require.NoError(t, err)
	ids := make([]string, 0, len(officers))
	for _, o := range officers {
		ids = append(ids, o.ID)
	}
	assert.Equal(t, []string{"officer-1", "officer-2", "supervisor"}, ids)

	level := domain.AccessLevelSupervisor
	supervisors, err := directory.ListOfficers(ctx, OfficerListFilters{AccessLevel: &level})
	require.NoError(t, err)
	assert.Len(t, supervisors, 2)

	paged, err := directory.ListOfficers(ctx, OfficerListFilters{CompanyID: &company, Limit: 1, Offset: 1})
	require.NoError(t, err)
	require.Len(t, paged, 1)
	assert.Equal(t, "officer-2", paged[0].ID)
}
