package persistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/aurelia-concierge/vetting-service/internal/auth"
	"github.com/aurelia-concierge/vetting-service/internal/domain"
	"github.com/aurelia-concierge/vetting-service/internal/repository"
)

// DemoPassword is the login password of every seeded principal.
const DemoPassword = "concierge-demo"

// Stable ids for seeded directory records.
const (
	DemoCompanyAtlas    = "vc-atlas"
	DemoCompanyMeridian = "vc-meridian"

	DemoOfficerManager    = "vo-manager"
	DemoOfficerSupervisor = "vo-supervisor"
	DemoOfficerPrimary    = "vo-officer-1"
	DemoOfficerSecondary  = "vo-officer-2"
	DemoOfficerMeridian   = "vo-officer-3"
)

func strPtr(s string) *string { return &s }

func demoPrincipals() []domain.Principal {
	return []domain.Principal{
		{ID: "pr-admin", Email: "admin@aurelia.test", DisplayName: "Master Admin", Role: domain.RoleAdmin,
			Profile: domain.Profile{Kind: domain.ProfileKindAdmin, Admin: &domain.AdminProfile{Department: "operations"}}},
		{ID: "pr-dev-admin", Email: "dev@aurelia.test", DisplayName: "Dev Admin", Role: domain.RoleDevAdmin,
			Profile: domain.Profile{Kind: domain.ProfileKindAdmin, Admin: &domain.AdminProfile{Department: "engineering"}}},
		{ID: "pr-client", Email: "client@aurelia.test", DisplayName: "Isabella Laurent", Role: domain.RoleClient, SubType: domain.SubTypeIndividual,
			Profile: domain.Profile{Kind: domain.ProfileKindClient, Client: &domain.ClientProfile{MembershipTier: "platinum", PreferredCity: "Monaco"}}},
		{ID: "pr-client-company", Email: "office@laurent-holdings.test", DisplayName: "Laurent Holdings", Role: domain.RoleClient, SubType: domain.SubTypeCompany,
			Profile: domain.Profile{Kind: domain.ProfileKindClient, Client: &domain.ClientProfile{MembershipTier: "gold", CompanyName: "Laurent Holdings"}}},
		{ID: "pr-provider", Email: "yachts@provider.test", DisplayName: "Azure Yachting", Role: domain.RoleServiceProvider, SubType: domain.SubTypeCompany,
			Profile: domain.Profile{Kind: domain.ProfileKindServiceProvider, ServiceProvider: &domain.ServiceProviderProfile{ServiceCategories: []string{"yacht_charter"}, CompanyName: "Azure Yachting", Regions: []string{"riviera"}}}},
		{ID: "pr-partner", Email: "dubai@partner.test", DisplayName: "Gulf Partners", Role: domain.RoleRegionalPartner, SubType: domain.SubTypeCompany,
			Profile: domain.Profile{Kind: domain.ProfileKindRegionalPartner, RegionalPartner: &domain.RegionalPartnerProfile{Region: "middle_east", CommissionPct: 12.5}}},
		{ID: "pr-personnel", Email: "chauffeur@aurelia.test", DisplayName: "Marco Bellini", Role: domain.RolePersonnel, SubType: domain.SubTypeIndividual,
			Profile: domain.Profile{Kind: domain.ProfileKindPersonnel, Personnel: &domain.PersonnelProfile{Position: "chauffeur", Available: true}}},
		{ID: "pr-investor", Email: "investor@aurelia.test", DisplayName: "Northwind Capital", Role: domain.RoleInvestor,
			Profile: domain.Profile{Kind: domain.ProfileKindInvestor, Investor: &domain.InvestorProfile{Firm: "Northwind Capital", Accredited: true}}},
		{ID: "pr-hr", Email: "hr@aurelia.test", DisplayName: "People Team", Role: domain.RoleHR,
			Profile: domain.Profile{Kind: domain.ProfileKindHR, HR: &domain.HRProfile{Department: "people"}}},
	}
}

func demoCompanies() []domain.VettingCompany {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(2, 0, 0)
	return []domain.VettingCompany{
		{ID: DemoCompanyAtlas, CompanyName: "Atlas Screening", LicenseNumber: "VS-1001",
			Specializations: []string{"background_check", "financial_verification"}, IsActive: true,
			ContractStartDate: start, ContractEndDate: &end},
		{ID: DemoCompanyMeridian, CompanyName: "Meridian Assurance", LicenseNumber: "VS-2002",
			Specializations: []string{"security_clearance", "psychological_assessment"}, IsActive: true,
			ContractStartDate: start},
	}
}

func demoOfficers() []domain.VettingOfficer {
	return []domain.VettingOfficer{
		{ID: DemoOfficerManager, VettingCompanyID: DemoCompanyAtlas, Email: "manager@atlas.test", FirstName: "Helena", LastName: "Voss",
			AccessLevel: domain.AccessLevelManager, ClearanceLevel: domain.ClearanceTopSecret, IsActive: true},
		{ID: DemoOfficerSupervisor, VettingCompanyID: DemoCompanyAtlas, Email: "supervisor@atlas.test", FirstName: "Jonas", LastName: "Reyes",
			AccessLevel: domain.AccessLevelSupervisor, ClearanceLevel: domain.ClearanceEnhanced, IsActive: true},
		{ID: DemoOfficerPrimary, VettingCompanyID: DemoCompanyAtlas, Email: "officer1@atlas.test", FirstName: "Priya", LastName: "Natarajan",
			AccessLevel: domain.AccessLevelOfficer, ClearanceLevel: domain.ClearanceStandard, Specializations: []string{"identity_verification"}, IsActive: true},
		{ID: DemoOfficerSecondary, VettingCompanyID: DemoCompanyAtlas, Email: "officer2@atlas.test", FirstName: "Tomas", LastName: "Berg",
			AccessLevel: domain.AccessLevelOfficer, ClearanceLevel: domain.ClearanceStandard, Specializations: []string{"financial_verification"}, IsActive: true},
		{ID: DemoOfficerMeridian, VettingCompanyID: DemoCompanyMeridian, Email: "officer@meridian.test", FirstName: "Amara", LastName: "Okafor",
			AccessLevel: domain.AccessLevelOfficer, ClearanceLevel: domain.ClearanceEnhanced, IsActive: true},
	}
}

func demoApplications(now time.Time) []domain.VettingApplication {
	app := func(id, email, name string, userType domain.ApplicantType, tier domain.VettingTier, priority domain.PriorityLevel,
		status domain.ApplicationStatus, company, primary string, age time.Duration) domain.VettingApplication {
		submitted := now.Add(-age)
		return domain.VettingApplication{
			ID: id, ApplicantEmail: email, ApplicantName: name, UserType: userType, VettingTier: tier,
			PriorityLevel: priority, CurrentStatus: status,
			AssignedCompanyID: strPtr(company), PrimaryOfficerID: strPtr(primary),
			SubmittedAt: submitted, EstimatedCompletionDate: submitted.Add(tier.ExpectedDuration()), UpdatedAt: submitted,
		}
	}
	return []domain.VettingApplication{
		app("va-yachting", "yachts@provider.test", "Azure Yachting", domain.ApplicantServiceProvider, domain.TierEnhanced,
			domain.PriorityHigh, domain.StatusInReview, DemoCompanyAtlas, DemoOfficerPrimary, 72*time.Hour),
		app("va-chauffeur", "chauffeur@aurelia.test", "Marco Bellini", domain.ApplicantPersonnel, domain.TierBasic,
			domain.PriorityStandard, domain.StatusSubmitted, DemoCompanyAtlas, DemoOfficerSecondary, 24*time.Hour),
		app("va-gulf", "dubai@partner.test", "Gulf Partners", domain.ApplicantRegionalPartner, domain.TierExecutive,
			domain.PriorityUrgent, domain.StatusSubmitted, DemoCompanyMeridian, DemoOfficerMeridian, 12*time.Hour),
	}
}

// SeedDemoData loads the demo identity and vetting directories. Records that already
// exist are left untouched, so seeding is safe on every start.
func SeedDemoData(ctx context.Context, repos repository.Repositories, bcryptCost int, logger *zap.Logger) error {
	hash, err := auth.HashPassword(DemoPassword, bcryptCost)
	if err != nil {
		return fmt.Errorf("hash demo password: %w", err)
	}

	created := 0
	for _, p := range demoPrincipals() {
		p := p
		p.PasswordHash = hash
		p.IsActive = true
		if err := skipDuplicate(repos.Principals.Create(ctx, &p), &created); err != nil {
			return fmt.Errorf("seed principal %s: %w", p.Email, err)
		}
	}
	if err := repos.Permissions.Grant(ctx, &domain.PermissionGrant{PrincipalID: "pr-hr", Permission: domain.PermAdminAccess}); err != nil {
		return fmt.Errorf("seed permission: %w", err)
	}

	for _, c := range demoCompanies() {
		c := c
		if err := skipDuplicate(repos.Companies.Create(ctx, &c), &created); err != nil {
			return fmt.Errorf("seed company %s: %w", c.CompanyName, err)
		}
	}
	for _, o := range demoOfficers() {
		o := o
		if err := skipDuplicate(repos.Officers.Create(ctx, &o), &created); err != nil {
			return fmt.Errorf("seed officer %s: %w", o.Email, err)
		}
	}

	now := time.Now().UTC()
	for _, app := range demoApplications(now) {
		app := app
		err := repos.Applications.Create(ctx, &app)
		if errors.Is(err, repository.ErrDuplicate) {
			continue
		}
		if err != nil {
			return fmt.Errorf("seed application %s: %w", app.ID, err)
		}
		created++
		for i, taskType := range domain.TasksForTier(app.VettingTier) {
			task := domain.VerificationTask{
				ID:                fmt.Sprintf("%s-task-%d", app.ID, i+1),
				ApplicationID:     app.ID,
				TaskType:          taskType,
				AssignedOfficerID: app.PrimaryOfficerID,
				Status:            domain.TaskPending,
				Priority:          app.PriorityLevel,
				RequiredDocuments: domain.RequiredDocumentsFor(taskType),
				DueDate:           &app.EstimatedCompletionDate,
				CreatedAt:         app.SubmittedAt,
				UpdatedAt:         app.SubmittedAt,
			}
			if err := skipDuplicate(repos.Tasks.Create(ctx, &task), &created); err != nil {
				return fmt.Errorf("seed task %s: %w", task.ID, err)
			}
		}
	}

	logger.Info("demo data seeded", zap.Int("created", created))
	return nil
}

func skipDuplicate(err error, created *int) error {
	switch {
	case err == nil:
		*created++
		return nil
	case errors.Is(err, repository.ErrDuplicate):
		return nil
	default:
		return err
	}
}
