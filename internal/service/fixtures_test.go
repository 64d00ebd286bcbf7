package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/aurelia-concierge/vetting-service/internal/domain"
	"github.com/aurelia-concierge/vetting-service/internal/events"
	"github.com/aurelia-concierge/vetting-service/internal/repository"
)

const (
	companyA = "company-a"
	companyB = "company-b"
)

type recordingDispatcher struct {
	mu     sync.Mutex
	events []events.Event
}

func (d *recordingDispatcher) Publish(_ context.Context, event events.Event) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.events = append(d.events, event)
	return nil
}

func (d *recordingDispatcher) Subscribe(events.EventType, events.EventHandler) {}

func (d *recordingDispatcher) ofType(eventType events.EventType) []events.Event {
	d.mu.Lock()
	defer d.mu.Unlock()
	var out []events.Event
	for _, e := range d.events {
		if e.Type == eventType {
			out = append(out, e)
		}
	}
	return out
}

type vettingFixture struct {
	repos      repository.Repositories
	dispatcher *recordingDispatcher
	vetting    *VettingService
	tasks      *TaskService
	overview   *OverviewService

	manager     *domain.VettingOfficer
	supervisor  *domain.VettingOfficer
	officer1    *domain.VettingOfficer
	officer2    *domain.VettingOfficer
	officerB    *domain.VettingOfficer
	supervisorB *domain.VettingOfficer
}

func newVettingFixture(t *testing.T, strict bool) *vettingFixture {
	t.Helper()
	ctx := context.Background()
	repos := repository.NewMemoryStore().Repositories()

	for _, c := range []domain.VettingCompany{
		{ID: companyA, CompanyName: "Atlas", LicenseNumber: "L-A", IsActive: true},
		{ID: companyB, CompanyName: "Meridian", LicenseNumber: "L-B", IsActive: true},
	} {
		c := c
		require.NoError(t, repos.Companies.Create(ctx, &c))
	}

	officer := func(id, company string, level domain.AccessLevel) *domain.VettingOfficer {
		o := &domain.VettingOfficer{
			ID: id, VettingCompanyID: company, Email: id + "@vet.test", FirstName: id,
			AccessLevel: level, ClearanceLevel: domain.ClearanceStandard, IsActive: true,
		}
		require.NoError(t, repos.Officers.Create(ctx, o))
		return o
	}

	dispatcher := &recordingDispatcher{}
	deps := VettingDependencies{Repos: repos, Dispatcher: dispatcher, StrictTransitions: strict}
	return &vettingFixture{
		repos:       repos,
		dispatcher:  dispatcher,
		vetting:     NewVettingService(deps),
		tasks:       NewTaskService(deps),
		overview:    NewOverviewService(repos),
		manager:     officer("manager", companyB, domain.AccessLevelManager),
		supervisor:  officer("supervisor", companyA, domain.AccessLevelSupervisor),
		officer1:    officer("officer-1", companyA, domain.AccessLevelOfficer),
		officer2:    officer("officer-2", companyA, domain.AccessLevelOfficer),
		officerB:    officer("officer-b", companyB, domain.AccessLevelOfficer),
		supervisorB: officer("supervisor-b", companyB, domain.AccessLevelSupervisor),
	}
}

type submitOpt func(*SubmitApplicationInput)

func withPriority(p domain.PriorityLevel) submitOpt {
	return func(in *SubmitApplicationInput) { in.PriorityLevel = p }
}

func withTier(tier domain.VettingTier) submitOpt {
	return func(in *SubmitApplicationInput) { in.VettingTier = tier }
}

func withAssignment(company, primary, secondary string) submitOpt {
	return func(in *SubmitApplicationInput) {
		in.AssignedCompanyID = strPtr(company)
		in.PrimaryOfficerID = strPtr(primary)
		if secondary != "" {
			in.SecondaryOfficerID = strPtr(secondary)
		}
	}
}

func (f *vettingFixture) submit(t *testing.T, opts ...submitOpt) *domain.VettingApplication {
	t.Helper()
	input := SubmitApplicationInput{
		ApplicantEmail: "applicant@example.test",
		ApplicantName:  "Applicant",
		UserType:       domain.ApplicantServiceProvider,
		VettingTier:    domain.TierBasic,
		PriorityLevel:  domain.PriorityStandard,
	}
	for _, opt := range opts {
		opt(&input)
	}
	app, _, err := f.vetting.Submit(context.Background(), principalActor("applicant"), input)
	require.NoError(t, err)
	return app
}

// at pins the clock of both services so submissions get distinct timestamps.
func (f *vettingFixture) at(ts time.Time) {
	f.vetting.now = func() time.Time { return ts }
	f.tasks.now = func() time.Time { return ts }
}

func appIDs(apps []domain.VettingApplication) []string {
	ids := make([]string, 0, len(apps))
	for _, a := range apps {
		ids = append(ids, a.ID)
	}
	return ids
}
