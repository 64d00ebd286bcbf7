package domain

import "time"

// ApplicationChangeType captures what changed in a history entry.
type ApplicationChangeType string

const (
	ChangeTypeStatus     ApplicationChangeType = "status"
	ChangeTypeAssignment ApplicationChangeType = "assignment"
	ChangeTypePriority   ApplicationChangeType = "priority"
	ChangeTypeNotes      ApplicationChangeType = "notes"
)

// ApplicationHistory is an immutable audit trail entry.
type ApplicationHistory struct {
	ID            string
	ApplicationID string
	ChangedByType SubjectType
	ChangedByID   string
	ChangeType    ApplicationChangeType
	OldValue      map[string]any
	NewValue      map[string]any
	CreatedAt     time.Time
}
