package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/aurelia-concierge/vetting-service/internal/api/dto"
	"github.com/aurelia-concierge/vetting-service/internal/auth"
	"github.com/aurelia-concierge/vetting-service/internal/domain"
	"github.com/aurelia-concierge/vetting-service/internal/events"
	"github.com/aurelia-concierge/vetting-service/internal/service"
	apperrors "github.com/aurelia-concierge/vetting-service/pkg/util/errorutil"
)

// VettingHandler exposes the officer facing vetting endpoints.
type VettingHandler struct {
	auth    *service.AuthService
	vetting *service.VettingService
	tasks   *service.TaskService
}

// NewVettingHandler constructs handler.
func NewVettingHandler(authService *service.AuthService, vetting *service.VettingService, tasks *service.TaskService) *VettingHandler {
	return &VettingHandler{auth: authService, vetting: vetting, tasks: tasks}
}

// Login handles POST /vetting/login.
func (h *VettingHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	session, err := h.auth.LoginOfficer(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.OfficerLoginResponse{
		Auth:    dto.AuthResponse{Token: session.Token, ExpiresAt: session.ExpiresAt},
		Officer: officerResponse(session.Officer),
		Company: companyResponse(session.Company),
	}})
}

// SubmitApplication handles POST /vetting/applications for an authenticated principal.
func (h *VettingHandler) SubmitApplication(c *fiber.Ctx) error {
	caller, ok := auth.CallerFromContext(c)
	if !ok || caller.Principal == nil {
		return apperrors.NewUnauthorized("principal required")
	}
	var req dto.SubmitApplicationRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	if !caller.IsAdmin() && (req.AssignedCompanyID != nil || req.PrimaryOfficerID != nil || req.SecondaryOfficerID != nil) {
		return apperrors.NewForbidden("only admins may route an application to a vetting company or officer")
	}
	email := req.ApplicantEmail
	if email == "" {
		email = caller.Principal.Email
	}
	name := req.ApplicantName
	if name == "" {
		name = caller.Principal.DisplayName
	}

	app, tasks, err := h.vetting.Submit(c.UserContext(),
		events.Actor{Type: domain.SubjectTypePrincipal, ID: caller.Principal.ID},
		service.SubmitApplicationInput{
			ApplicantEmail:     email,
			ApplicantName:      name,
			UserType:           req.UserType,
			SubType:            req.SubType,
			VettingTier:        req.VettingTier,
			PriorityLevel:      req.PriorityLevel,
			AssignedCompanyID:  req.AssignedCompanyID,
			PrimaryOfficerID:   req.PrimaryOfficerID,
			SecondaryOfficerID: req.SecondaryOfficerID,
		})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.SubmitApplicationResponse{
		Application: applicationResponse(app),
		Tasks:       taskResponses(tasks),
	}})
}

// ListApplications handles GET /vetting/applications.
func (h *VettingHandler) ListApplications(c *fiber.Ctx) error {
	officer, err := officerFromContext(c)
	if err != nil {
		return err
	}
	list, err := h.vetting.List(c.UserContext(), officer, service.ApplicationListFilter{
		Statuses:     csvQuery[domain.ApplicationStatus](c, "status"),
		UserTypes:    csvQuery[domain.ApplicantType](c, "user_type", "userType"),
		Priorities:   csvQuery[domain.PriorityLevel](c, "priority"),
		Tiers:        csvQuery[domain.VettingTier](c, "tier"),
		AssignedToMe: c.QueryBool("assigned"),
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.ApplicationListResponse{
		Applications: applicationResponses(list.Applications),
		Summary: dto.ApplicationSummaryResponse{
			Total:    list.Summary.Total,
			ByStatus: list.Summary.ByStatus,
		},
	}})
}

// GetApplication handles GET /vetting/applications/:id.
func (h *VettingHandler) GetApplication(c *fiber.Ctx) error {
	officer, err := officerFromContext(c)
	if err != nil {
		return err
	}
	detail, err := h.vetting.Get(c.UserContext(), officer, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": applicationDetailResponse(detail)})
}

// UpdateApplication handles PATCH /vetting/applications/:id.
func (h *VettingHandler) UpdateApplication(c *fiber.Ctx) error {
	officer, err := officerFromContext(c)
	if err != nil {
		return err
	}
	var req dto.UpdateApplicationRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	app, err := h.vetting.Update(c.UserContext(), officer, c.Params("id"), service.ApplicationPatch{
		Status:             req.Status,
		AdminNotes:         req.AdminNotes,
		PriorityLevel:      req.PriorityLevel,
		AssignedCompanyID:  req.AssignedCompanyID,
		PrimaryOfficerID:   req.PrimaryOfficerID,
		SecondaryOfficerID: req.SecondaryOfficerID,
		ExpectedVersion:    req.ExpectedVersion,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": applicationResponse(app)})
}

// ListTasks handles GET /vetting/applications/:id/tasks.
func (h *VettingHandler) ListTasks(c *fiber.Ctx) error {
	officer, err := officerFromContext(c)
	if err != nil {
		return err
	}
	tasks, err := h.tasks.ListByApplication(c.UserContext(), officer, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": taskResponses(tasks)})
}

// CreateTask handles POST /vetting/applications/:id/tasks.
func (h *VettingHandler) CreateTask(c *fiber.Ctx) error {
	officer, err := officerFromContext(c)
	if err != nil {
		return err
	}
	var req dto.CreateTaskRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	task, err := h.tasks.Create(c.UserContext(), officer, c.Params("id"), service.TaskCreateInput{
		TaskType:          req.TaskType,
		AssignedOfficerID: req.AssignedOfficerID,
		Priority:          req.Priority,
		RequiredDocuments: req.RequiredDocuments,
		DueDate:           req.DueDate,
		Notes:             req.Notes,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": taskResponse(task)})
}

// GetTask handles GET /vetting/tasks/:id.
func (h *VettingHandler) GetTask(c *fiber.Ctx) error {
	officer, err := officerFromContext(c)
	if err != nil {
		return err
	}
	task, err := h.tasks.Get(c.UserContext(), officer, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": taskResponse(task)})
}

// UpdateTask handles PATCH /vetting/tasks/:id.
func (h *VettingHandler) UpdateTask(c *fiber.Ctx) error {
	officer, err := officerFromContext(c)
	if err != nil {
		return err
	}
	var req dto.UpdateTaskRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	patch := service.TaskPatch{
		Status:            req.Status,
		Result:            req.Result,
		DocumentsReceived: req.DocumentsReceived,
		Notes:             req.Notes,
		AssignedOfficerID: req.AssignedOfficerID,
		Priority:          req.Priority,
		DueDate:           req.DueDate,
		ExpectedVersion:   req.ExpectedVersion,
	}
	if req.Findings != nil {
		patch.Findings = &domain.Findings{
			Score:           req.Findings.Score,
			Issues:          req.Findings.Issues,
			Recommendations: req.Findings.Recommendations,
		}
	}
	task, err := h.tasks.Update(c.UserContext(), officer, c.Params("id"), patch)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": taskResponse(task)})
}

func officerFromContext(c *fiber.Ctx) (*domain.VettingOfficer, error) {
	caller, ok := auth.CallerFromContext(c)
	if !ok || caller.Officer == nil {
		return nil, apperrors.NewUnauthorized("vetting officer required")
	}
	return caller.Officer, nil
}
