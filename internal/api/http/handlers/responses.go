package handlers

import (
	"github.com/aurelia-concierge/vetting-service/internal/api/dto"
	"github.com/aurelia-concierge/vetting-service/internal/domain"
	"github.com/aurelia-concierge/vetting-service/internal/service"
)

func principalResponse(p *domain.Principal) dto.PrincipalResponse {
	return dto.PrincipalResponse{
		ID:          p.ID,
		Email:       p.Email,
		DisplayName: p.DisplayName,
		Role:        p.Role,
		SubType:     p.SubType,
		Profile:     p.Profile,
	}
}

func sessionResponse(s *service.Session) dto.SessionResponse {
	return dto.SessionResponse{
		Auth:                dto.AuthResponse{Token: s.Token, ExpiresAt: s.ExpiresAt},
		Principal:           principalResponse(s.Principal),
		IsAdmin:             s.IsAdmin,
		OriginalDevAdmin:    s.OriginalDevAdmin,
		OriginalMasterAdmin: s.OriginalMasterAdmin,
	}
}

func applicationResponse(app *domain.VettingApplication) dto.ApplicationResponse {
	return dto.ApplicationResponse{
		ID:                      app.ID,
		ApplicantEmail:          app.ApplicantEmail,
		ApplicantName:           app.ApplicantName,
		UserType:                app.UserType,
		SubType:                 app.SubType,
		VettingTier:             app.VettingTier,
		PriorityLevel:           app.PriorityLevel,
		CurrentStatus:           app.CurrentStatus,
		AssignedCompanyID:       app.AssignedCompanyID,
		PrimaryOfficerID:        app.PrimaryOfficerID,
		SecondaryOfficerID:      app.SecondaryOfficerID,
		SubmittedAt:             app.SubmittedAt,
		EstimatedCompletionDate: app.EstimatedCompletionDate,
		ActualCompletionDate:    app.ActualCompletionDate,
		AdminNotes:              app.AdminNotes,
		UpdatedAt:               app.UpdatedAt,
		Version:                 app.Version,
	}
}

func applicationResponses(apps []domain.VettingApplication) []dto.ApplicationResponse {
	items := make([]dto.ApplicationResponse, 0, len(apps))
	for i := range apps {
		items = append(items, applicationResponse(&apps[i]))
	}
	return items
}

func taskResponse(task *domain.VerificationTask) dto.TaskResponse {
	return dto.TaskResponse{
		ID:                task.ID,
		ApplicationID:     task.ApplicationID,
		TaskType:          task.TaskType,
		AssignedOfficerID: task.AssignedOfficerID,
		Status:            task.Status,
		Priority:          task.Priority,
		Result:            task.Result,
		Findings:          task.Findings,
		RequiredDocuments: nonNil(task.RequiredDocuments),
		DocumentsReceived: nonNil(task.DocumentsReceived),
		Notes:             task.Notes,
		StartedAt:         task.StartedAt,
		CompletedAt:       task.CompletedAt,
		DueDate:           task.DueDate,
		CreatedAt:         task.CreatedAt,
		UpdatedAt:         task.UpdatedAt,
		Version:           task.Version,
	}
}

func taskResponses(tasks []domain.VerificationTask) []dto.TaskResponse {
	items := make([]dto.TaskResponse, 0, len(tasks))
	for i := range tasks {
		items = append(items, taskResponse(&tasks[i]))
	}
	return items
}

func companyResponse(c *domain.VettingCompany) *dto.CompanyResponse {
	if c == nil {
		return nil
	}
	return &dto.CompanyResponse{
		ID:                c.ID,
		CompanyName:       c.CompanyName,
		LicenseNumber:     c.LicenseNumber,
		Specializations:   nonNil(c.Specializations),
		IsActive:          c.IsActive,
		ContractStartDate: c.ContractStartDate,
		ContractEndDate:   c.ContractEndDate,
	}
}

func officerResponse(o *domain.VettingOfficer) dto.OfficerResponse {
	return dto.OfficerResponse{
		ID:               o.ID,
		VettingCompanyID: o.VettingCompanyID,
		Email:            o.Email,
		FirstName:        o.FirstName,
		LastName:         o.LastName,
		AccessLevel:      o.AccessLevel,
		ClearanceLevel:   o.ClearanceLevel,
		Specializations:  nonNil(o.Specializations),
		IsActive:         o.IsActive,
	}
}

func applicationDetailResponse(detail *service.ApplicationDetail) dto.ApplicationDetailResponse {
	resp := dto.ApplicationDetailResponse{
		Application: applicationResponse(&detail.Application),
		Company:     companyResponse(detail.Company),
		Officers:    make([]dto.OfficerResponse, 0, len(detail.Officers)),
		Tasks:       taskResponses(detail.Tasks),
		History:     make([]dto.HistoryResponse, 0, len(detail.History)),
	}
	for i := range detail.Officers {
		resp.Officers = append(resp.Officers, officerResponse(&detail.Officers[i]))
	}
	for _, h := range detail.History {
		resp.History = append(resp.History, dto.HistoryResponse{
			ID:            h.ID,
			ChangedByType: h.ChangedByType,
			ChangedByID:   h.ChangedByID,
			ChangeType:    h.ChangeType,
			OldValue:      h.OldValue,
			NewValue:      h.NewValue,
			CreatedAt:     h.CreatedAt,
		})
	}
	return resp
}

func nonNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
