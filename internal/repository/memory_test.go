package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aurelia-concierge/vetting-service/internal/domain"
)

func strPtr(s string) *string { return &s }

func seedApplications(t *testing.T, store *MemoryStore) {
	t.Helper()
	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	apps := []domain.VettingApplication{
		{ID: "a1", PriorityLevel: domain.PriorityStandard, CurrentStatus: domain.StatusSubmitted, SubmittedAt: base, AssignedCompanyID: strPtr("c1"), PrimaryOfficerID: strPtr("o1")},
		{ID: "a2", PriorityLevel: domain.PriorityUrgent, CurrentStatus: domain.StatusInReview, SubmittedAt: base, AssignedCompanyID: strPtr("c1"), SecondaryOfficerID: strPtr("o1")},
		{ID: "a3", PriorityLevel: domain.PriorityStandard, CurrentStatus: domain.StatusSubmitted, SubmittedAt: base.Add(time.Hour), AssignedCompanyID: strPtr("c2"), PrimaryOfficerID: strPtr("o2")},
		{ID: "a4", PriorityLevel: domain.PriorityLow, CurrentStatus: domain.StatusApproved, SubmittedAt: base.Add(2 * time.Hour)},
	}
	for i := range apps {
		require.NoError(t, store.Applications().Create(context.Background(), &apps[i]))
	}
}

func ids(apps []domain.VettingApplication) []string {
	out := make([]string, 0, len(apps))
	for _, a := range apps {
		out = append(out, a.ID)
	}
	return out
}

func TestApplicationListOrdering(t *testing.T) {
	store := NewMemoryStore()
	seedApplications(t, store)

	apps, err := store.Applications().List(context.Background(), ApplicationFilter{})
	require.NoError(t, err)
	assert.Equal(t, []string{"a2", "a3", "a1", "a4"}, ids(apps))
}

func TestApplicationListScopes(t *testing.T) {
	store := NewMemoryStore()
	seedApplications(t, store)
	ctx := context.Background()

	byCompany, err := store.Applications().List(ctx, ApplicationFilter{Scope: ApplicationScope{CompanyID: strPtr("c1")}})
	require.NoError(t, err)
	assert.Equal(t, []string{"a2", "a1"}, ids(byCompany))

	byOfficer, err := store.Applications().List(ctx, ApplicationFilter{Scope: ApplicationScope{OfficerID: strPtr("o1")}})
	require.NoError(t, err)
	assert.Equal(t, []string{"a2", "a1"}, ids(byOfficer))

	count, err := store.Applications().Count(ctx, ApplicationFilter{
		Scope:    ApplicationScope{CompanyID: strPtr("c1")},
		Statuses: []domain.ApplicationStatus{domain.StatusSubmitted},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestApplicationListPagination(t *testing.T) {
	store := NewMemoryStore()
	seedApplications(t, store)

	page, err := store.Applications().List(context.Background(), ApplicationFilter{Limit: 2, Offset: 1})
	require.NoError(t, err)
	assert.Equal(t, []string{"a3", "a1"}, ids(page))

	empty, err := store.Applications().List(context.Background(), ApplicationFilter{Limit: 2, Offset: 10})
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestApplicationUpdateVersioning(t *testing.T) {
	store := NewMemoryStore()
	seedApplications(t, store)
	ctx := context.Background()

	app, err := store.Applications().GetByID(ctx, "a1")
	require.NoError(t, err)
	stale := *app

	app.AdminNotes = "first"
	require.NoError(t, store.Applications().Update(ctx, app))
	assert.Equal(t, 1, app.Version)

	stale.AdminNotes = "second"
	assert.ErrorIs(t, store.Applications().Update(ctx, &stale), ErrVersionConflict)

	missing := domain.VettingApplication{ID: "nope"}
	assert.ErrorIs(t, store.Applications().Update(ctx, &missing), ErrNotFound)
}

func TestTaskReadsAreCopies(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	task := &domain.VerificationTask{
		ID:                "t1",
		ApplicationID:     "a1",
		TaskType:          domain.TaskBackgroundCheck,
		Status:            domain.TaskPending,
		RequiredDocuments: []string{"consent_form"},
		Findings:          &domain.Findings{Score: 80, Issues: []string{"gap"}},
	}
	require.NoError(t, store.Tasks().Create(ctx, task))

	got, err := store.Tasks().GetByID(ctx, "t1")
	require.NoError(t, err)
	got.RequiredDocuments[0] = "mutated"
	got.Findings.Issues[0] = "mutated"

	again, err := store.Tasks().GetByID(ctx, "t1")
	require.NoError(t, err)
	assert.Equal(t, "consent_form", again.RequiredDocuments[0])
	assert.Equal(t, "gap", again.Findings.Issues[0])
}

func TestTaskListFilters(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	now := time.Now().UTC()
	tasks := []domain.VerificationTask{
		{ID: "t1", ApplicationID: "a1", TaskType: domain.TaskIdentityVerification, Status: domain.TaskCompleted, AssignedOfficerID: strPtr("o1"), CreatedAt: now},
		{ID: "t2", ApplicationID: "a1", TaskType: domain.TaskBackgroundCheck, Status: domain.TaskPending, CreatedAt: now.Add(time.Second)},
		{ID: "t3", ApplicationID: "a2", TaskType: domain.TaskBackgroundCheck, Status: domain.TaskPending, AssignedOfficerID: strPtr("o1"), CreatedAt: now},
	}
	for i := range tasks {
		require.NoError(t, store.Tasks().Create(ctx, &tasks[i]))
	}

	byApp, err := store.Tasks().ListByApplication(ctx, "a1")
	require.NoError(t, err)
	require.Len(t, byApp, 2)
	assert.Equal(t, "t1", byApp[0].ID)

	mine, err := store.Tasks().List(ctx, TaskFilter{OfficerID: strPtr("o1"), Statuses: []domain.TaskStatus{domain.TaskPending}})
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, "t3", mine[0].ID)
}

func TestPrincipalEmailIsUniqueAndCaseInsensitive(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, store.Principals().Create(ctx, &domain.Principal{ID: "p1", Email: "Ada@Example.com", Role: domain.RoleClient}))
	err := store.Principals().Create(ctx, &domain.Principal{ID: "p2", Email: "ada@example.com", Role: domain.RoleClient})
	assert.ErrorIs(t, err, ErrDuplicate)

	got, err := store.Principals().GetByEmail(ctx, "ADA@example.com")
	require.NoError(t, err)
	assert.Equal(t, "p1", got.ID)

	_, err = store.Principals().GetByID(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPermissionGrantsAreIdempotent(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	grant := &domain.PermissionGrant{PrincipalID: "p1", Permission: domain.PermAdminAccess}

	require.NoError(t, store.Permissions().Grant(ctx, grant))
	require.NoError(t, store.Permissions().Grant(ctx, grant))

	perms, err := store.Permissions().ListByPrincipal(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, []string{domain.PermAdminAccess}, perms)
}

func TestWithTxCommitsAllWrites(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	repos := store.Repositories()
	require.NotNil(t, repos.Tx)

	err := repos.WithTx(ctx, func(tx Repositories) error {
		assert.Nil(t, tx.Tx)
		if err := tx.Applications.Create(ctx, &domain.VettingApplication{ID: "a1"}); err != nil {
			return err
		}
		// nested units of work join the outer one
		return tx.WithTx(ctx, func(inner Repositories) error {
			return inner.Tasks.Create(ctx, &domain.VerificationTask{ID: "t1", ApplicationID: "a1"})
		})
	})
	require.NoError(t, err)

	_, err = store.Applications().GetByID(ctx, "a1")
	require.NoError(t, err)
	_, err = store.Tasks().GetByID(ctx, "t1")
	require.NoError(t, err)
}

func TestWithTxDiscardsWritesOnError(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	seedApplications(t, store)
	boom := errors.New("boom")

	err := store.WithTx(ctx, func(tx Repositories) error {
		require.NoError(t, tx.Applications.Create(ctx, &domain.VettingApplication{ID: "a9"}))
		require.NoError(t, tx.Tasks.Create(ctx, &domain.VerificationTask{ID: "t9", ApplicationID: "a9"}))
		require.NoError(t, tx.History.Create(ctx, &domain.ApplicationHistory{ID: "h9", ApplicationID: "a1"}))
		require.NoError(t, tx.Permissions.Grant(ctx, &domain.PermissionGrant{PrincipalID: "p1", Permission: "admin.access"}))
		return boom
	})
	require.ErrorIs(t, err, boom)

	_, err = store.Applications().GetByID(ctx, "a9")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = store.Tasks().GetByID(ctx, "t9")
	assert.ErrorIs(t, err, ErrNotFound)
	history, err := store.History().ListByApplication(ctx, "a1")
	require.NoError(t, err)
	assert.Empty(t, history)
	perms, err := store.Permissions().ListByPrincipal(ctx, "p1")
	require.NoError(t, err)
	assert.Empty(t, perms)

	all, err := store.Applications().List(ctx, ApplicationFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 4)
}
