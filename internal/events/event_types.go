package events

import (
	"time"

	"github.com/aurelia-concierge/vetting-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventApplicationSubmitted      EventType = "application_submitted"
	EventApplicationUpdated        EventType = "application_updated"
	EventTaskCreated               EventType = "task_created"
	EventTaskUpdated               EventType = "task_updated"
	EventApplicationTasksCompleted EventType = "application_tasks_completed"
)

// AllEventTypes lists every event the vetting workflow emits.
func AllEventTypes() []EventType {
	return []EventType{
		EventApplicationSubmitted,
		EventApplicationUpdated,
		EventTaskCreated,
		EventTaskUpdated,
		EventApplicationTasksCompleted,
	}
}

// Actor encapsulates actor metadata for an event.
type Actor struct {
	Type domain.SubjectType `json:"type"`
	ID   string             `json:"id"`
}

// Event represents a domain event emitted by services.
type Event struct {
	ID            string      `json:"id"`
	Type          EventType   `json:"type"`
	ApplicationID string      `json:"application_id"`
	Actor         Actor       `json:"actor"`
	Timestamp     time.Time   `json:"timestamp"`
	Payload       interface{} `json:"payload"`
}

// ApplicationSubmittedPayload payload.
type ApplicationSubmittedPayload struct {
	ApplicantEmail string               `json:"applicant_email"`
	UserType       domain.ApplicantType `json:"user_type"`
	Tier           domain.VettingTier   `json:"tier"`
	Priority       domain.PriorityLevel `json:"priority"`
	TaskCount      int                  `json:"task_count"`
}

// ApplicationUpdatedPayload lists which fields moved; unchanged pointers are omitted.
type ApplicationUpdatedPayload struct {
	OldStatus       *domain.ApplicationStatus `json:"old_status,omitempty"`
	NewStatus       *domain.ApplicationStatus `json:"new_status,omitempty"`
	OldPriority     *domain.PriorityLevel     `json:"old_priority,omitempty"`
	NewPriority     *domain.PriorityLevel     `json:"new_priority,omitempty"`
	Reassigned      bool                      `json:"reassigned"`
	ReassignedTasks int                       `json:"reassigned_tasks,omitempty"`
	NotesEdited     bool                      `json:"notes_edited"`
}

// TaskPayload is shared by task creation and task updates.
type TaskPayload struct {
	TaskID            string            `json:"task_id"`
	TaskType          domain.TaskType   `json:"task_type"`
	Status            domain.TaskStatus `json:"status"`
	Result            domain.TaskResult `json:"result,omitempty"`
	AssignedOfficerID *string           `json:"assigned_officer_id,omitempty"`
}

// TasksCompletedPayload is emitted once every task of an application is finished.
// The application status is left for an officer to decide.
type TasksCompletedPayload struct {
	TaskCount   int                      `json:"task_count"`
	Passed      int                      `json:"passed"`
	Failed      int                      `json:"failed"`
	Status      domain.ApplicationStatus `json:"status"`
	CompletedAt time.Time                `json:"completed_at"`
}
