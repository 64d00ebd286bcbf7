package domain

import "time"

// TaskType enumerates units of vetting work.
type TaskType string

const (
	TaskIdentityVerification    TaskType = "identity_verification"
	TaskBackgroundCheck         TaskType = "background_check"
	TaskFinancialVerification   TaskType = "financial_verification"
	TaskCredentialValidation    TaskType = "credential_validation"
	TaskPsychologicalAssessment TaskType = "psychological_assessment"
	TaskReferenceCheck          TaskType = "reference_check"
	TaskSecurityClearance       TaskType = "security_clearance"
)

// Valid reports whether t is a known task type.
func (t TaskType) Valid() bool {
	switch t {
	case TaskIdentityVerification, TaskBackgroundCheck, TaskFinancialVerification,
		TaskCredentialValidation, TaskPsychologicalAssessment, TaskReferenceCheck,
		TaskSecurityClearance:
		return true
	}
	return false
}

// TaskStatus enumerates verification task states.
type TaskStatus string

const (
	TaskPending    TaskStatus = "pending"
	TaskInProgress TaskStatus = "in_progress"
	TaskCompleted  TaskStatus = "completed"
	TaskFailed     TaskStatus = "failed"
)

// Valid reports whether s is a known task status.
func (s TaskStatus) Valid() bool {
	switch s {
	case TaskPending, TaskInProgress, TaskCompleted, TaskFailed:
		return true
	}
	return false
}

// Finished reports whether the task can no longer change.
func (s TaskStatus) Finished() bool {
	return s == TaskCompleted || s == TaskFailed
}

// TaskResult is the verdict recorded on a task.
type TaskResult string

const (
	ResultNone         TaskResult = ""
	ResultPass         TaskResult = "pass"
	ResultFail         TaskResult = "fail"
	ResultUndetermined TaskResult = "undetermined"
)

// Valid reports whether r is a known result (empty is allowed).
func (r TaskResult) Valid() bool {
	switch r {
	case ResultNone, ResultPass, ResultFail, ResultUndetermined:
		return true
	}
	return false
}

// Findings summarises what an officer found while working a task.
type Findings struct {
	Score           float64  `json:"score"`
	Issues          []string `json:"issues"`
	Recommendations []string `json:"recommendations"`
}

// VerificationTask is one unit of work within an application's tier.
type VerificationTask struct {
	ID                string
	ApplicationID     string
	TaskType          TaskType
	AssignedOfficerID *string
	Status            TaskStatus
	Priority          PriorityLevel
	Result            TaskResult
	Findings          *Findings
	RequiredDocuments []string
	DocumentsReceived []string
	Notes             string
	StartedAt         *time.Time
	CompletedAt       *time.Time
	DueDate           *time.Time
	CreatedAt         time.Time
	UpdatedAt         time.Time
	Version           int
}

// IsAssignedTo reports whether the task belongs to officerID.
func (t *VerificationTask) IsAssignedTo(officerID string) bool {
	return t.AssignedOfficerID != nil && *t.AssignedOfficerID == officerID
}

// tierTasks lists the tasks generated when an application enters a tier.
var tierTasks = map[VettingTier][]TaskType{
	TierBasic:    nil,
	TierEnhanced: {TaskIdentityVerification, TaskBackgroundCheck},
	TierComprehensive: {
		TaskIdentityVerification, TaskBackgroundCheck,
		TaskFinancialVerification, TaskCredentialValidation,
	},
	TierExecutive: {
		TaskIdentityVerification, TaskBackgroundCheck,
		TaskFinancialVerification, TaskCredentialValidation,
		TaskPsychologicalAssessment, TaskSecurityClearance,
	},
}

// TasksForTier returns the task types required by tier.
func TasksForTier(tier VettingTier) []TaskType {
	return append([]TaskType(nil), tierTasks[tier]...)
}

var requiredDocuments = map[TaskType][]string{
	TaskIdentityVerification:    {"government_id", "proof_of_address"},
	TaskBackgroundCheck:         {"consent_form"},
	TaskFinancialVerification:   {"bank_statement", "tax_return"},
	TaskCredentialValidation:    {"certifications"},
	TaskPsychologicalAssessment: {"assessment_consent"},
	TaskReferenceCheck:          {"reference_list"},
	TaskSecurityClearance:       {"clearance_application"},
}

// RequiredDocumentsFor returns the default documents requested for a task type.
func RequiredDocumentsFor(t TaskType) []string {
	return append([]string(nil), requiredDocuments[t]...)
}
