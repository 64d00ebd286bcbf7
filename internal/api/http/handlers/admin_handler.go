package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/aurelia-concierge/vetting-service/internal/domain"
	"github.com/aurelia-concierge/vetting-service/internal/service"
	"github.com/aurelia-concierge/vetting-service/pkg/util/pagination"
)

// AdminVettingHandler exposes the unscoped admin views of the vetting workflow.
type AdminVettingHandler struct {
	vetting  *service.VettingService
	overview *service.OverviewService
}

// NewAdminVettingHandler constructs handler.
func NewAdminVettingHandler(vetting *service.VettingService, overview *service.OverviewService) *AdminVettingHandler {
	return &AdminVettingHandler{vetting: vetting, overview: overview}
}

// Overview handles GET /admin/vetting/overview.
func (h *AdminVettingHandler) Overview(c *fiber.Ctx) error {
	overview, err := h.overview.ComputeOverview(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": overview})
}

// ListApplications handles GET /admin/vetting/applications.
func (h *AdminVettingHandler) ListApplications(c *fiber.Ctx) error {
	params := pagination.FromQuery(c)
	page, err := h.vetting.AdminList(c.UserContext(), service.AdminApplicationFilter{
		Statuses:  csvQuery[domain.ApplicationStatus](c, "status"),
		UserTypes: csvQuery[domain.ApplicantType](c, "user_type", "userType"),
		CompanyID: optionalQuery(c, "company"),
		OfficerID: optionalQuery(c, "officer"),
		Page:      params.Page,
		Limit:     params.Limit,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"data": applicationResponses(page.Applications),
		"meta": pagination.NewMeta(params, page.Total),
	})
}
