package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/aurelia-concierge/vetting-service/internal/auth"
	"github.com/aurelia-concierge/vetting-service/internal/domain"
	"github.com/aurelia-concierge/vetting-service/internal/events"
	"github.com/aurelia-concierge/vetting-service/internal/repository"
	apperrors "github.com/aurelia-concierge/vetting-service/pkg/util/errorutil"
)

// TaskService manages verification tasks within an officer's scope.
// Finishing tasks never changes the parent application's status.
type TaskService struct {
	applications repository.ApplicationRepository
	tasks        repository.TaskRepository
	assignments  *AssignmentService
	dispatcher   events.Dispatcher
	now          func() time.Time
}

// NewTaskService constructs the service.
func NewTaskService(deps VettingDependencies) *TaskService {
	return &TaskService{
		applications: deps.Repos.Applications,
		tasks:        deps.Repos.Tasks,
		assignments:  NewAssignmentService(deps.Repos.Companies, deps.Repos.Officers),
		dispatcher:   deps.Dispatcher,
		now:          func() time.Time { return time.Now().UTC() },
	}
}

// TaskCreateInput describes a manually added task.
type TaskCreateInput struct {
	TaskType          domain.TaskType
	AssignedOfficerID *string
	Priority          domain.PriorityLevel
	RequiredDocuments []string
	DueDate           *time.Time
	Notes             string
}

// TaskPatch carries optional task fields. DocumentsReceived replaces the list when non-nil.
type TaskPatch struct {
	Status            *domain.TaskStatus
	Result            *domain.TaskResult
	Findings          *domain.Findings
	DocumentsReceived []string
	Notes             *string
	AssignedOfficerID *string
	Priority          *domain.PriorityLevel
	DueDate           *time.Time
	ExpectedVersion   *int
}

func (p TaskPatch) empty() bool {
	return p.Status == nil && p.Result == nil && p.Findings == nil && p.DocumentsReceived == nil &&
		p.Notes == nil && p.AssignedOfficerID == nil && p.Priority == nil && p.DueDate == nil
}

// ListByApplication returns the tasks of an application visible to officer.
func (s *TaskService) ListByApplication(ctx context.Context, officer *domain.VettingOfficer, applicationID string) ([]domain.VerificationTask, error) {
	if _, err := s.scopedApplication(ctx, officer, applicationID); err != nil {
		return nil, err
	}
	tasks, err := s.tasks.ListByApplication(ctx, applicationID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if tasks == nil {
		tasks = []domain.VerificationTask{}
	}
	return tasks, nil
}

// Get returns one task when its application is visible to officer.
func (s *TaskService) Get(ctx context.Context, officer *domain.VettingOfficer, taskID string) (*domain.VerificationTask, error) {
	task, err := s.tasks.GetByID(ctx, taskID)
	if err != nil {
		return nil, apperrors.MapError(mapRepoError(err, "verification task", taskID))
	}
	if _, err := s.scopedApplication(ctx, officer, task.ApplicationID); err != nil {
		return nil, err
	}
	return task, nil
}

// Create adds a task to an open application.
func (s *TaskService) Create(ctx context.Context, officer *domain.VettingOfficer, applicationID string, input TaskCreateInput) (*domain.VerificationTask, error) {
	app, err := s.scopedApplication(ctx, officer, applicationID)
	if err != nil {
		return nil, err
	}
	if app.CurrentStatus.Terminal() {
		return nil, apperrors.NewConflict("application is closed", map[string]any{"status": app.CurrentStatus})
	}
	if !input.TaskType.Valid() {
		return nil, apperrors.NewValidationError("invalid task type", map[string]any{"task_type": input.TaskType})
	}
	if input.Priority == "" {
		input.Priority = app.PriorityLevel
	}
	if !input.Priority.Valid() {
		return nil, apperrors.NewValidationError("invalid priority", map[string]any{"priority": input.Priority})
	}

	assignee := normalizeID(input.AssignedOfficerID)
	if assignee == nil {
		assignee = app.PrimaryOfficerID
	}
	if assignee != nil {
		if err := s.checkAssignee(ctx, app, *assignee); err != nil {
			return nil, err
		}
	}

	docs := input.RequiredDocuments
	if docs == nil {
		docs = domain.RequiredDocumentsFor(input.TaskType)
	}
	due := input.DueDate
	if due == nil {
		estimate := app.EstimatedCompletionDate
		due = &estimate
	}

	now := s.now()
	task := &domain.VerificationTask{
		ID:                uuid.NewString(),
		ApplicationID:     app.ID,
		TaskType:          input.TaskType,
		AssignedOfficerID: assignee,
		Status:            domain.TaskPending,
		Priority:          input.Priority,
		RequiredDocuments: docs,
		DueDate:           due,
		Notes:             strings.TrimSpace(input.Notes),
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if err := s.tasks.Create(ctx, task); err != nil {
		return nil, apperrors.MapError(mapRepoError(err, "verification task", task.ID))
	}

	publish(ctx, s.dispatcher, events.Event{
		Type:          events.EventTaskCreated,
		ApplicationID: app.ID,
		Actor:         officerActor(officer.ID),
		Payload:       taskPayload(task),
	})
	return task, nil
}

// Update applies patch when the caller is the assignee or has supervisor/manager access,
// and the parent application is in scope.
func (s *TaskService) Update(ctx context.Context, officer *domain.VettingOfficer, taskID string, patch TaskPatch) (*domain.VerificationTask, error) {
	if officer == nil {
		return nil, apperrors.NewUnauthorized("vetting officer required")
	}
	task, err := s.tasks.GetByID(ctx, taskID)
	if err != nil {
		return nil, apperrors.MapError(mapRepoError(err, "verification task", taskID))
	}
	app, err := s.scopedApplication(ctx, officer, task.ApplicationID)
	if err != nil {
		return nil, err
	}
	if officer.AccessLevel == domain.AccessLevelOfficer && !task.IsAssignedTo(officer.ID) {
		return nil, apperrors.NewForbidden("task is assigned to another officer")
	}
	if patch.empty() {
		return nil, apperrors.NewValidationError("no fields to update", nil)
	}
	if patch.ExpectedVersion != nil && *patch.ExpectedVersion != task.Version {
		return nil, apperrors.NewConflict("verification task was modified by another request", map[string]any{
			"id":      task.ID,
			"version": task.Version,
		})
	}
	if task.Status.Finished() {
		return nil, apperrors.NewConflict("task is already finished", map[string]any{"status": task.Status})
	}

	now := s.now()
	if patch.Status != nil && *patch.Status != task.Status {
		next := *patch.Status
		if !next.Valid() {
			return nil, apperrors.NewValidationError("invalid task status", map[string]any{"status": next})
		}
		task.Status = next
		if next == domain.TaskInProgress || next.Finished() {
			if task.StartedAt == nil {
				started := now
				task.StartedAt = &started
			}
		}
		if next.Finished() {
			completed := now
			task.CompletedAt = &completed
		}
	}
	if patch.Result != nil {
		if !patch.Result.Valid() {
			return nil, apperrors.NewValidationError("invalid task result", map[string]any{"result": *patch.Result})
		}
		task.Result = *patch.Result
	}
	if patch.Findings != nil {
		if patch.Findings.Score < 0 || patch.Findings.Score > 100 {
			return nil, apperrors.NewValidationError("findings score must be between 0 and 100", map[string]any{"score": patch.Findings.Score})
		}
		findings := *patch.Findings
		task.Findings = &findings
	}
	if patch.DocumentsReceived != nil {
		task.DocumentsReceived = append([]string{}, patch.DocumentsReceived...)
	}
	if patch.Notes != nil {
		task.Notes = strings.TrimSpace(*patch.Notes)
	}
	if patch.Priority != nil {
		if !patch.Priority.Valid() {
			return nil, apperrors.NewValidationError("invalid priority", map[string]any{"priority": *patch.Priority})
		}
		task.Priority = *patch.Priority
	}
	if patch.DueDate != nil {
		due := *patch.DueDate
		task.DueDate = &due
	}
	if patch.AssignedOfficerID != nil {
		assignee := normalizeID(patch.AssignedOfficerID)
		if assignee != nil {
			if err := s.checkAssignee(ctx, app, *assignee); err != nil {
				return nil, err
			}
		}
		task.AssignedOfficerID = assignee
	}

	task.UpdatedAt = now
	if err := s.tasks.Update(ctx, task); err != nil {
		return nil, apperrors.MapError(mapRepoError(err, "verification task", task.ID))
	}

	publish(ctx, s.dispatcher, events.Event{
		Type:          events.EventTaskUpdated,
		ApplicationID: app.ID,
		Actor:         officerActor(officer.ID),
		Payload:       taskPayload(task),
	})
	if task.Status.Finished() {
		s.notifyIfAllTasksFinished(ctx, app, officer.ID)
	}
	return task, nil
}

// notifyIfAllTasksFinished publishes a rollup event; the application status is left untouched.
func (s *TaskService) notifyIfAllTasksFinished(ctx context.Context, app *domain.VettingApplication, officerID string) {
	tasks, err := s.tasks.ListByApplication(ctx, app.ID)
	if err != nil || len(tasks) == 0 {
		return
	}
	payload := events.TasksCompletedPayload{TaskCount: len(tasks), Status: app.CurrentStatus, CompletedAt: s.now()}
	for _, t := range tasks {
		if !t.Status.Finished() {
			return
		}
		switch t.Result {
		case domain.ResultPass:
			payload.Passed++
		case domain.ResultFail:
			payload.Failed++
		}
	}
	publish(ctx, s.dispatcher, events.Event{
		Type:          events.EventApplicationTasksCompleted,
		ApplicationID: app.ID,
		Actor:         officerActor(officerID),
		Payload:       payload,
	})
}

func (s *TaskService) checkAssignee(ctx context.Context, app *domain.VettingApplication, officerID string) error {
	if app.AssignedCompanyID == nil {
		return apperrors.NewValidationError("application has no assigned company", map[string]any{"application_id": app.ID})
	}
	_, err := s.assignments.OfficerInCompany(ctx, officerID, *app.AssignedCompanyID)
	return err
}

func (s *TaskService) scopedApplication(ctx context.Context, officer *domain.VettingOfficer, applicationID string) (*domain.VettingApplication, error) {
	if officer == nil {
		return nil, apperrors.NewUnauthorized("vetting officer required")
	}
	app, err := s.applications.GetByID(ctx, applicationID)
	if err != nil {
		return nil, apperrors.MapError(mapRepoError(err, "vetting application", applicationID))
	}
	if !auth.AuthorizeVettingAccess(officer, app) {
		return nil, apperrors.NewForbidden("application is outside your vetting scope")
	}
	return app, nil
}

func taskPayload(task *domain.VerificationTask) events.TaskPayload {
	return events.TaskPayload{
		TaskID:            task.ID,
		TaskType:          task.TaskType,
		Status:            task.Status,
		Result:            task.Result,
		AssignedOfficerID: task.AssignedOfficerID,
	}
}
