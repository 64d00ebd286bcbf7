package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/aurelia-concierge/vetting-service/internal/auth"
	"github.com/aurelia-concierge/vetting-service/internal/domain"
	"github.com/aurelia-concierge/vetting-service/internal/events"
	"github.com/aurelia-concierge/vetting-service/internal/repository"
	apperrors "github.com/aurelia-concierge/vetting-service/pkg/util/errorutil"
)

// VettingService coordinates the vetting application lifecycle.
type VettingService struct {
	repos             repository.Repositories
	applications      repository.ApplicationRepository
	tasks             repository.TaskRepository
	officers          repository.OfficerRepository
	companies         repository.CompanyRepository
	history           repository.ApplicationHistoryRepository
	assignments       *AssignmentService
	dispatcher        events.Dispatcher
	strictTransitions bool
	now               func() time.Time
}

// VettingDependencies bundles repositories for the vetting services.
type VettingDependencies struct {
	Repos             repository.Repositories
	Dispatcher        events.Dispatcher
	StrictTransitions bool
}

// NewVettingService constructs the service.
func NewVettingService(deps VettingDependencies) *VettingService {
	return &VettingService{
		repos:             deps.Repos,
		applications:      deps.Repos.Applications,
		tasks:             deps.Repos.Tasks,
		officers:          deps.Repos.Officers,
		companies:         deps.Repos.Companies,
		history:           deps.Repos.History,
		assignments:       NewAssignmentService(deps.Repos.Companies, deps.Repos.Officers),
		dispatcher:        deps.Dispatcher,
		strictTransitions: deps.StrictTransitions,
		now:               func() time.Time { return time.Now().UTC() },
	}
}

// SubmitApplicationInput describes a new vetting application.
type SubmitApplicationInput struct {
	ApplicantEmail     string
	ApplicantName      string
	UserType           domain.ApplicantType
	SubType            domain.SubType
	VettingTier        domain.VettingTier
	PriorityLevel      domain.PriorityLevel
	AssignedCompanyID  *string
	PrimaryOfficerID   *string
	SecondaryOfficerID *string
}

// ApplicationListFilter holds the user filters applied after scope.
type ApplicationListFilter struct {
	Statuses     []domain.ApplicationStatus
	UserTypes    []domain.ApplicantType
	Priorities   []domain.PriorityLevel
	Tiers        []domain.VettingTier
	AssignedToMe bool
}

// ApplicationSummary counts the caller's whole scope, ignoring user filters.
type ApplicationSummary struct {
	Total    int
	ByStatus map[domain.ApplicationStatus]int
}

// ApplicationList is a scoped, filtered, ordered listing.
type ApplicationList struct {
	Applications []domain.VettingApplication
	Summary      ApplicationSummary
}

// ApplicationDetail is one application with everything an officer needs to work it.
type ApplicationDetail struct {
	Application domain.VettingApplication
	Company     *domain.VettingCompany
	Officers    []domain.VettingOfficer
	Tasks       []domain.VerificationTask
	History     []domain.ApplicationHistory
}

// ApplicationPatch carries the optional fields of an update. An empty string
// on an officer id clears that slot.
type ApplicationPatch struct {
	Status             *domain.ApplicationStatus
	AdminNotes         *string
	PriorityLevel      *domain.PriorityLevel
	AssignedCompanyID  *string
	PrimaryOfficerID   *string
	SecondaryOfficerID *string
	ExpectedVersion    *int
}

func (p ApplicationPatch) empty() bool {
	return p.Status == nil && p.AdminNotes == nil && p.PriorityLevel == nil &&
		p.AssignedCompanyID == nil && p.PrimaryOfficerID == nil && p.SecondaryOfficerID == nil
}

const defaultPageLimit = 20

// AdminApplicationFilter drives the unscoped admin listing.
type AdminApplicationFilter struct {
	Statuses  []domain.ApplicationStatus
	UserTypes []domain.ApplicantType
	CompanyID *string
	OfficerID *string
	Page      int
	Limit     int
}

// ApplicationPage is one page of the admin listing.
type ApplicationPage struct {
	Applications []domain.VettingApplication
	Total        int
	Page         int
	Limit        int
}

// TotalPages returns the page count for Total at Limit.
func (p ApplicationPage) TotalPages() int {
	if p.Limit <= 0 {
		return 0
	}
	return (p.Total + p.Limit - 1) / p.Limit
}

// Submit creates an application in submitted state and generates its tier tasks.
func (s *VettingService) Submit(ctx context.Context, actor events.Actor, input SubmitApplicationInput) (*domain.VettingApplication, []domain.VerificationTask, error) {
	input.ApplicantEmail = strings.ToLower(strings.TrimSpace(input.ApplicantEmail))
	if input.ApplicantEmail == "" {
		return nil, nil, apperrors.NewValidationError("applicant email is required", nil)
	}
	if !input.UserType.Valid() {
		return nil, nil, apperrors.NewValidationError("invalid user type", map[string]any{"user_type": input.UserType})
	}
	if !input.VettingTier.Valid() {
		return nil, nil, apperrors.NewValidationError("invalid vetting tier", map[string]any{"vetting_tier": input.VettingTier})
	}
	if input.PriorityLevel == "" {
		input.PriorityLevel = domain.PriorityStandard
	}
	if !input.PriorityLevel.Valid() {
		return nil, nil, apperrors.NewValidationError("invalid priority level", map[string]any{"priority_level": input.PriorityLevel})
	}

	assignment := Assignment{
		CompanyID:          normalizeID(input.AssignedCompanyID),
		PrimaryOfficerID:   normalizeID(input.PrimaryOfficerID),
		SecondaryOfficerID: normalizeID(input.SecondaryOfficerID),
	}
	if err := s.assignments.ValidateApplicationAssignment(ctx, assignment); err != nil {
		return nil, nil, err
	}

	now := s.now()
	app := &domain.VettingApplication{
		ID:                      uuid.NewString(),
		ApplicantEmail:          input.ApplicantEmail,
		ApplicantName:           strings.TrimSpace(input.ApplicantName),
		UserType:                input.UserType,
		SubType:                 input.SubType,
		VettingTier:             input.VettingTier,
		PriorityLevel:           input.PriorityLevel,
		CurrentStatus:           domain.StatusSubmitted,
		AssignedCompanyID:       assignment.CompanyID,
		PrimaryOfficerID:        assignment.PrimaryOfficerID,
		SecondaryOfficerID:      assignment.SecondaryOfficerID,
		SubmittedAt:             now,
		EstimatedCompletionDate: now.Add(input.VettingTier.ExpectedDuration()),
		UpdatedAt:               now,
	}
	taskTypes := domain.TasksForTier(app.VettingTier)
	tasks := make([]domain.VerificationTask, 0, len(taskTypes))
	for _, taskType := range taskTypes {
		due := app.EstimatedCompletionDate
		tasks = append(tasks, domain.VerificationTask{
			ID:                uuid.NewString(),
			ApplicationID:     app.ID,
			TaskType:          taskType,
			AssignedOfficerID: app.PrimaryOfficerID,
			Status:            domain.TaskPending,
			Priority:          app.PriorityLevel,
			RequiredDocuments: domain.RequiredDocumentsFor(taskType),
			DueDate:           &due,
			CreatedAt:         now,
			UpdatedAt:         now,
		})
	}

	err := s.repos.WithTx(ctx, func(tx repository.Repositories) error {
		if err := tx.Applications.Create(ctx, app); err != nil {
			return mapRepoError(err, "vetting application", app.ID)
		}
		for i := range tasks {
			if err := tx.Tasks.Create(ctx, &tasks[i]); err != nil {
				return mapRepoError(err, "verification task", tasks[i].ID)
			}
		}
		return nil
	})
	if err != nil {
		return nil, nil, apperrors.MapError(err)
	}

	publish(ctx, s.dispatcher, events.Event{
		Type:          events.EventApplicationSubmitted,
		ApplicationID: app.ID,
		Actor:         actor,
		Payload: events.ApplicationSubmittedPayload{
			ApplicantEmail: app.ApplicantEmail,
			UserType:       app.UserType,
			Tier:           app.VettingTier,
			Priority:       app.PriorityLevel,
			TaskCount:      len(tasks),
		},
	})
	return app, tasks, nil
}

// List returns the officer's scoped applications, filtered and ordered by priority then recency.
func (s *VettingService) List(ctx context.Context, officer *domain.VettingOfficer, filter ApplicationListFilter) (*ApplicationList, error) {
	if officer == nil {
		return nil, apperrors.NewUnauthorized("vetting officer required")
	}
	scope := auth.ApplicationScopeFor(officer)

	scoped, err := s.applications.List(ctx, repository.ApplicationFilter{Scope: scope})
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	summary := ApplicationSummary{Total: len(scoped), ByStatus: make(map[domain.ApplicationStatus]int)}
	for _, app := range scoped {
		summary.ByStatus[app.CurrentStatus]++
	}

	repoFilter := repository.ApplicationFilter{
		Scope:      scope,
		Statuses:   filter.Statuses,
		UserTypes:  filter.UserTypes,
		Priorities: filter.Priorities,
		Tiers:      filter.Tiers,
	}
	if filter.AssignedToMe {
		repoFilter.OfficerID = strPtr(officer.ID)
	}
	apps, err := s.applications.List(ctx, repoFilter)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if apps == nil {
		apps = []domain.VettingApplication{}
	}
	return &ApplicationList{Applications: apps, Summary: summary}, nil
}

// Get returns an application with its tasks, company, officers and history.
func (s *VettingService) Get(ctx context.Context, officer *domain.VettingOfficer, id string) (*ApplicationDetail, error) {
	app, err := s.scopedApplication(ctx, officer, id)
	if err != nil {
		return nil, err
	}

	detail := &ApplicationDetail{Application: *app}
	if detail.Tasks, err = s.tasks.ListByApplication(ctx, app.ID); err != nil {
		return nil, apperrors.MapError(err)
	}
	if detail.History, err = s.history.ListByApplication(ctx, app.ID); err != nil {
		return nil, apperrors.MapError(err)
	}
	if app.AssignedCompanyID != nil {
		company, err := s.companies.GetByID(ctx, *app.AssignedCompanyID)
		if err == nil {
			detail.Company = company
		} else if mapped := mapRepoError(err, "vetting company", *app.AssignedCompanyID); !apperrors.IsCode(mapped, "NOT_FOUND") {
			return nil, apperrors.MapError(err)
		}
	}
	for _, officerID := range []*string{app.PrimaryOfficerID, app.SecondaryOfficerID} {
		if officerID == nil {
			continue
		}
		assigned, err := s.officers.GetByID(ctx, *officerID)
		if err != nil {
			if mapped := mapRepoError(err, "vetting officer", *officerID); apperrors.IsCode(mapped, "NOT_FOUND") {
				continue
			}
			return nil, apperrors.MapError(err)
		}
		detail.Officers = append(detail.Officers, *assigned)
	}
	return detail, nil
}

// Update applies patch to an application visible to officer.
func (s *VettingService) Update(ctx context.Context, officer *domain.VettingOfficer, id string, patch ApplicationPatch) (*domain.VettingApplication, error) {
	app, err := s.scopedApplication(ctx, officer, id)
	if err != nil {
		return nil, err
	}
	if patch.empty() {
		return nil, apperrors.NewValidationError("no fields to update", nil)
	}
	if patch.ExpectedVersion != nil && *patch.ExpectedVersion != app.Version {
		return nil, apperrors.NewConflict("vetting application was modified by another request", map[string]any{
			"id":      app.ID,
			"version": app.Version,
		})
	}

	before := *app
	now := s.now()
	var entries []domain.ApplicationHistory
	payload := events.ApplicationUpdatedPayload{}

	if patch.Status != nil && *patch.Status != app.CurrentStatus {
		next := *patch.Status
		if !next.Valid() {
			return nil, apperrors.NewValidationError("invalid status", map[string]any{"status": next})
		}
		if s.strictTransitions && !domain.IsForwardTransition(app.CurrentStatus, next) {
			return nil, apperrors.NewValidationError("status transition not allowed", map[string]any{
				"from": app.CurrentStatus,
				"to":   next,
			})
		}
		app.CurrentStatus = next
		if next.Terminal() {
			completed := now
			app.ActualCompletionDate = &completed
		} else {
			app.ActualCompletionDate = nil
		}
		entries = append(entries, historyEntry(app.ID, officer.ID, domain.ChangeTypeStatus,
			map[string]any{"status": before.CurrentStatus}, map[string]any{"status": next}))
		payload.OldStatus, payload.NewStatus = &before.CurrentStatus, &next
	}

	if patch.PriorityLevel != nil && *patch.PriorityLevel != app.PriorityLevel {
		next := *patch.PriorityLevel
		if !next.Valid() {
			return nil, apperrors.NewValidationError("invalid priority level", map[string]any{"priority_level": next})
		}
		app.PriorityLevel = next
		entries = append(entries, historyEntry(app.ID, officer.ID, domain.ChangeTypePriority,
			map[string]any{"priority_level": before.PriorityLevel}, map[string]any{"priority_level": next}))
		payload.OldPriority, payload.NewPriority = &before.PriorityLevel, &next
	}

	if patch.AssignedCompanyID != nil || patch.PrimaryOfficerID != nil || patch.SecondaryOfficerID != nil {
		assignment := Assignment{
			CompanyID:          app.AssignedCompanyID,
			PrimaryOfficerID:   app.PrimaryOfficerID,
			SecondaryOfficerID: app.SecondaryOfficerID,
		}
		if patch.AssignedCompanyID != nil {
			assignment.CompanyID = normalizeID(patch.AssignedCompanyID)
		}
		if patch.PrimaryOfficerID != nil {
			assignment.PrimaryOfficerID = normalizeID(patch.PrimaryOfficerID)
		}
		if patch.SecondaryOfficerID != nil {
			assignment.SecondaryOfficerID = normalizeID(patch.SecondaryOfficerID)
		}
		changed := !sameStringPtr(assignment.CompanyID, app.AssignedCompanyID) ||
			!sameStringPtr(assignment.PrimaryOfficerID, app.PrimaryOfficerID) ||
			!sameStringPtr(assignment.SecondaryOfficerID, app.SecondaryOfficerID)
		if changed {
			if err := s.assignments.ValidateApplicationAssignment(ctx, assignment); err != nil {
				return nil, err
			}
			app.AssignedCompanyID = assignment.CompanyID
			app.PrimaryOfficerID = assignment.PrimaryOfficerID
			app.SecondaryOfficerID = assignment.SecondaryOfficerID
			entries = append(entries, historyEntry(app.ID, officer.ID, domain.ChangeTypeAssignment,
				assignmentValue(before.AssignedCompanyID, before.PrimaryOfficerID, before.SecondaryOfficerID),
				assignmentValue(app.AssignedCompanyID, app.PrimaryOfficerID, app.SecondaryOfficerID)))
			payload.Reassigned = true
		}
	}

	if patch.AdminNotes != nil && *patch.AdminNotes != app.AdminNotes {
		app.AdminNotes = *patch.AdminNotes
		entries = append(entries, historyEntry(app.ID, officer.ID, domain.ChangeTypeNotes,
			map[string]any{"admin_notes": before.AdminNotes}, map[string]any{"admin_notes": app.AdminNotes}))
		payload.NotesEdited = true
	}

	app.UpdatedAt = now
	var movedTasks []domain.VerificationTask
	err = s.repos.WithTx(ctx, func(tx repository.Repositories) error {
		if err := tx.Applications.Update(ctx, app); err != nil {
			return mapRepoError(err, "vetting application", app.ID)
		}
		if payload.Reassigned {
			moved, err := reassignOpenTasks(ctx, tx, &before, app, now)
			if err != nil {
				return err
			}
			movedTasks = moved
		}
		for i := range entries {
			entries[i].CreatedAt = now
			if err := tx.History.Create(ctx, &entries[i]); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	payload.ReassignedTasks = len(movedTasks)
	publish(ctx, s.dispatcher, events.Event{
		Type:          events.EventApplicationUpdated,
		ApplicationID: app.ID,
		Actor:         officerActor(officer.ID),
		Payload:       payload,
	})
	for i := range movedTasks {
		publish(ctx, s.dispatcher, events.Event{
			Type:          events.EventTaskUpdated,
			ApplicationID: app.ID,
			Actor:         officerActor(officer.ID),
			Payload:       taskPayload(&movedTasks[i]),
		})
	}
	return app, nil
}

// reassignOpenTasks keeps unfinished tasks worked by officers of the application's
// current company. A task moves to the new primary officer (or becomes unassigned)
// when its officer left the application or belongs to another company.
// Finished tasks are immutable and keep their officer.
func reassignOpenTasks(ctx context.Context, tx repository.Repositories, before, after *domain.VettingApplication, now time.Time) ([]domain.VerificationTask, error) {
	dropped := map[string]bool{}
	for _, id := range []*string{before.PrimaryOfficerID, before.SecondaryOfficerID} {
		if id != nil && !after.IsAssignedTo(*id) {
			dropped[*id] = true
		}
	}
	companyChanged := !sameStringPtr(before.AssignedCompanyID, after.AssignedCompanyID)

	tasks, err := tx.Tasks.ListByApplication(ctx, after.ID)
	if err != nil {
		return nil, err
	}
	var moved []domain.VerificationTask
	for i := range tasks {
		task := &tasks[i]
		if task.Status.Finished() || task.AssignedOfficerID == nil {
			continue
		}
		assignee := *task.AssignedOfficerID
		stale := dropped[assignee]
		if !stale && companyChanged {
			officer, err := tx.Officers.GetByID(ctx, assignee)
			switch {
			case errors.Is(err, repository.ErrNotFound):
				stale = true
			case err != nil:
				return nil, err
			default:
				stale = after.AssignedCompanyID == nil || officer.VettingCompanyID != *after.AssignedCompanyID
			}
		}
		if !stale || sameStringPtr(task.AssignedOfficerID, after.PrimaryOfficerID) {
			continue
		}
		task.AssignedOfficerID = normalizeID(after.PrimaryOfficerID)
		task.UpdatedAt = now
		if err := tx.Tasks.Update(ctx, task); err != nil {
			return nil, mapRepoError(err, "verification task", task.ID)
		}
		moved = append(moved, *task)
	}
	return moved, nil
}

// AdminList returns one page of every application, newest and most urgent first.
func (s *VettingService) AdminList(ctx context.Context, filter AdminApplicationFilter) (*ApplicationPage, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit <= 0 {
		filter.Limit = defaultPageLimit
	}
	repoFilter := repository.ApplicationFilter{
		Statuses:  filter.Statuses,
		UserTypes: filter.UserTypes,
		CompanyID: normalizeID(filter.CompanyID),
		OfficerID: normalizeID(filter.OfficerID),
	}
	total, err := s.applications.Count(ctx, repoFilter)
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	repoFilter.Limit = filter.Limit
	repoFilter.Offset = (filter.Page - 1) * filter.Limit
	apps, err := s.applications.List(ctx, repoFilter)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if apps == nil {
		apps = []domain.VettingApplication{}
	}
	return &ApplicationPage{Applications: apps, Total: total, Page: filter.Page, Limit: filter.Limit}, nil
}

// scopedApplication loads an application and applies the visibility rule.
// Missing records are NotFound; records outside scope are Forbidden.
func (s *VettingService) scopedApplication(ctx context.Context, officer *domain.VettingOfficer, id string) (*domain.VettingApplication, error) {
	if officer == nil {
		return nil, apperrors.NewUnauthorized("vetting officer required")
	}
	app, err := s.applications.GetByID(ctx, id)
	if err != nil {
		return nil, apperrors.MapError(mapRepoError(err, "vetting application", id))
	}
	if !auth.AuthorizeVettingAccess(officer, app) {
		return nil, apperrors.NewForbidden("application is outside your vetting scope")
	}
	return app, nil
}

func historyEntry(applicationID, officerID string, changeType domain.ApplicationChangeType, oldValue, newValue map[string]any) domain.ApplicationHistory {
	return domain.ApplicationHistory{
		ID:            uuid.NewString(),
		ApplicationID: applicationID,
		ChangedByType: domain.SubjectTypeOfficer,
		ChangedByID:   officerID,
		ChangeType:    changeType,
		OldValue:      oldValue,
		NewValue:      newValue,
	}
}

func assignmentValue(companyID, primaryID, secondaryID *string) map[string]any {
	return map[string]any{
		"assigned_company_id":  strValue(companyID),
		"primary_officer_id":   strValue(primaryID),
		"secondary_officer_id": strValue(secondaryID),
	}
}
