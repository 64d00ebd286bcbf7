package dto

import (
	"time"

	"github.com/aurelia-concierge/vetting-service/internal/domain"
)

// OfficerLoginResponse is returned by vetting officer login.
type OfficerLoginResponse struct {
	Auth    AuthResponse     `json:"auth"`
	Officer OfficerResponse  `json:"officer"`
	Company *CompanyResponse `json:"company,omitempty"`
}

// SubmitApplicationRequest payload. ApplicantEmail defaults to the caller's email.
// The assignment fields are accepted from admins only.
type SubmitApplicationRequest struct {
	ApplicantEmail     string               `json:"applicant_email" validate:"omitempty,email"`
	ApplicantName      string               `json:"applicant_name" validate:"max=200"`
	UserType           domain.ApplicantType `json:"user_type" validate:"required"`
	SubType            domain.SubType       `json:"sub_type" validate:"omitempty,oneof=individual company"`
	VettingTier        domain.VettingTier   `json:"vetting_tier" validate:"required"`
	PriorityLevel      domain.PriorityLevel `json:"priority_level"`
	AssignedCompanyID  *string              `json:"assigned_company_id"`
	PrimaryOfficerID   *string              `json:"primary_officer_id"`
	SecondaryOfficerID *string              `json:"secondary_officer_id"`
}

// UpdateApplicationRequest payload; omitted fields are left unchanged.
type UpdateApplicationRequest struct {
	Status             *domain.ApplicationStatus `json:"status"`
	AdminNotes         *string                   `json:"admin_notes" validate:"omitempty,max=5000"`
	PriorityLevel      *domain.PriorityLevel     `json:"priority_level"`
	AssignedCompanyID  *string                   `json:"assigned_company_id"`
	PrimaryOfficerID   *string                   `json:"primary_officer_id"`
	SecondaryOfficerID *string                   `json:"secondary_officer_id"`
	ExpectedVersion    *int                      `json:"expected_version" validate:"omitempty,min=0"`
}

// CreateTaskRequest payload.
type CreateTaskRequest struct {
	TaskType          domain.TaskType      `json:"task_type" validate:"required"`
	AssignedOfficerID *string              `json:"assigned_officer_id"`
	Priority          domain.PriorityLevel `json:"priority"`
	RequiredDocuments []string             `json:"required_documents"`
	DueDate           *time.Time           `json:"due_date"`
	Notes             string               `json:"notes" validate:"max=5000"`
}

// UpdateTaskRequest payload; omitted fields are left unchanged.
type UpdateTaskRequest struct {
	Status            *domain.TaskStatus    `json:"status"`
	Result            *domain.TaskResult    `json:"result"`
	Findings          *FindingsRequest      `json:"findings"`
	DocumentsReceived []string              `json:"documents_received"`
	Notes             *string               `json:"notes" validate:"omitempty,max=5000"`
	AssignedOfficerID *string               `json:"assigned_officer_id"`
	Priority          *domain.PriorityLevel `json:"priority"`
	DueDate           *time.Time            `json:"due_date"`
	ExpectedVersion   *int                  `json:"expected_version" validate:"omitempty,min=0"`
}

// FindingsRequest carries a task's findings.
type FindingsRequest struct {
	Score           float64  `json:"score" validate:"min=0,max=100"`
	Issues          []string `json:"issues"`
	Recommendations []string `json:"recommendations"`
}

// ApplicationResponse is the wire form of a vetting application.
type ApplicationResponse struct {
	ID                      string                   `json:"id"`
	ApplicantEmail          string                   `json:"applicant_email"`
	ApplicantName           string                   `json:"applicant_name"`
	UserType                domain.ApplicantType     `json:"user_type"`
	SubType                 domain.SubType           `json:"sub_type,omitempty"`
	VettingTier             domain.VettingTier       `json:"vetting_tier"`
	PriorityLevel           domain.PriorityLevel     `json:"priority_level"`
	CurrentStatus           domain.ApplicationStatus `json:"current_status"`
	AssignedCompanyID       *string                  `json:"assigned_company_id"`
	PrimaryOfficerID        *string                  `json:"primary_officer_id"`
	SecondaryOfficerID      *string                  `json:"secondary_officer_id"`
	SubmittedAt             time.Time                `json:"submitted_at"`
	EstimatedCompletionDate time.Time                `json:"estimated_completion_date"`
	ActualCompletionDate    *time.Time               `json:"actual_completion_date"`
	AdminNotes              string                   `json:"admin_notes"`
	UpdatedAt               time.Time                `json:"updated_at"`
	Version                 int                      `json:"version"`
}

// ApplicationSummaryResponse counts the caller's whole scope.
type ApplicationSummaryResponse struct {
	Total    int                              `json:"total"`
	ByStatus map[domain.ApplicationStatus]int `json:"by_status"`
}

// ApplicationListResponse is the scoped officer listing.
type ApplicationListResponse struct {
	Applications []ApplicationResponse      `json:"applications"`
	Summary      ApplicationSummaryResponse `json:"summary"`
}

// ApplicationDetailResponse is one application with related records.
type ApplicationDetailResponse struct {
	Application ApplicationResponse `json:"application"`
	Company     *CompanyResponse    `json:"company"`
	Officers    []OfficerResponse   `json:"officers"`
	Tasks       []TaskResponse      `json:"tasks"`
	History     []HistoryResponse   `json:"history"`
}

// SubmitApplicationResponse returns the new application and its generated tasks.
type SubmitApplicationResponse struct {
	Application ApplicationResponse `json:"application"`
	Tasks       []TaskResponse      `json:"tasks"`
}

// TaskResponse is the wire form of a verification task.
type TaskResponse struct {
	ID                string               `json:"id"`
	ApplicationID     string               `json:"application_id"`
	TaskType          domain.TaskType      `json:"task_type"`
	AssignedOfficerID *string              `json:"assigned_officer_id"`
	Status            domain.TaskStatus    `json:"status"`
	Priority          domain.PriorityLevel `json:"priority"`
	Result            domain.TaskResult    `json:"result,omitempty"`
	Findings          *domain.Findings     `json:"findings,omitempty"`
	RequiredDocuments []string             `json:"required_documents"`
	DocumentsReceived []string             `json:"documents_received"`
	Notes             string               `json:"notes"`
	StartedAt         *time.Time           `json:"started_at"`
	CompletedAt       *time.Time           `json:"completed_at"`
	DueDate           *time.Time           `json:"due_date"`
	CreatedAt         time.Time            `json:"created_at"`
	UpdatedAt         time.Time            `json:"updated_at"`
	Version           int                  `json:"version"`
}

// CompanyResponse is the public view of a vetting company.
type CompanyResponse struct {
	ID                string     `json:"id"`
	CompanyName       string     `json:"company_name"`
	LicenseNumber     string     `json:"license_number"`
	Specializations   []string   `json:"specializations"`
	IsActive          bool       `json:"is_active"`
	ContractStartDate time.Time  `json:"contract_start_date"`
	ContractEndDate   *time.Time `json:"contract_end_date"`
}

// OfficerResponse is the public view of a vetting officer.
type OfficerResponse struct {
	ID               string                `json:"id"`
	VettingCompanyID string                `json:"vetting_company_id"`
	Email            string                `json:"email"`
	FirstName        string                `json:"first_name"`
	LastName         string                `json:"last_name"`
	AccessLevel      domain.AccessLevel    `json:"access_level"`
	ClearanceLevel   domain.ClearanceLevel `json:"clearance_level"`
	Specializations  []string              `json:"specializations"`
	IsActive         bool                  `json:"is_active"`
}

// HistoryResponse is one audit trail entry.
type HistoryResponse struct {
	ID            string                       `json:"id"`
	ChangedByType domain.SubjectType           `json:"changed_by_type"`
	ChangedByID   string                       `json:"changed_by_id"`
	ChangeType    domain.ApplicationChangeType `json:"change_type"`
	OldValue      map[string]any               `json:"old_value"`
	NewValue      map[string]any               `json:"new_value"`
	CreatedAt     time.Time                    `json:"created_at"`
}

// CreateCompanyRequest payload.
type CreateCompanyRequest struct {
	CompanyName       string     `json:"company_name" validate:"required,max=200"`
	LicenseNumber     string     `json:"license_number" validate:"required,max=100"`
	Specializations   []string   `json:"specializations"`
	ContractStartDate *time.Time `json:"contract_start_date"`
	ContractEndDate   *time.Time `json:"contract_end_date"`
}

// CreateOfficerRequest payload.
type CreateOfficerRequest struct {
	VettingCompanyID string                `json:"vetting_company_id" validate:"required"`
	Email            string                `json:"email" validate:"required,email"`
	FirstName        string                `json:"first_name" validate:"required,max=100"`
	LastName         string                `json:"last_name" validate:"max=100"`
	AccessLevel      domain.AccessLevel    `json:"access_level" validate:"omitempty,oneof=officer supervisor manager"`
	ClearanceLevel   domain.ClearanceLevel `json:"clearance_level" validate:"omitempty,oneof=standard enhanced top_secret"`
	Specializations  []string              `json:"specializations"`
}
