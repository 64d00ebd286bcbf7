package handlers

import (
	"net/http"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/aurelia-concierge/vetting-service/internal/api/dto"
	"github.com/aurelia-concierge/vetting-service/internal/domain"
	"github.com/aurelia-concierge/vetting-service/internal/service"
	"github.com/aurelia-concierge/vetting-service/pkg/util/pagination"
)

// DirectoryHandler exposes admin management of vetting companies and officers.
type DirectoryHandler struct {
	directory *service.DirectoryService
}

// NewDirectoryHandler constructs handler.
func NewDirectoryHandler(directory *service.DirectoryService) *DirectoryHandler {
	return &DirectoryHandler{directory: directory}
}

// ListCompanies handles GET /admin/vetting/companies.
func (h *DirectoryHandler) ListCompanies(c *fiber.Ctx) error {
	includeInactive, _ := strconv.ParseBool(c.Query("include_inactive"))
	companies, err := h.directory.ListCompanies(c.UserContext(), includeInactive)
	if err != nil {
		return err
	}
	items := make([]*dto.CompanyResponse, 0, len(companies))
	for i := range companies {
		items = append(items, companyResponse(&companies[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// GetCompany handles GET /admin/vetting/companies/:id.
func (h *DirectoryHandler) GetCompany(c *fiber.Ctx) error {
	company, err := h.directory.GetCompany(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": companyResponse(company)})
}

// CreateCompany handles POST /admin/vetting/companies.
func (h *DirectoryHandler) CreateCompany(c *fiber.Ctx) error {
	var req dto.CreateCompanyRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	company, err := h.directory.CreateCompany(c.UserContext(), service.CreateCompanyInput{
		CompanyName:       req.CompanyName,
		LicenseNumber:     req.LicenseNumber,
		Specializations:   req.Specializations,
		ContractStartDate: req.ContractStartDate,
		ContractEndDate:   req.ContractEndDate,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": companyResponse(company)})
}

// ListOfficers handles GET /admin/vetting/officers.
func (h *DirectoryHandler) ListOfficers(c *fiber.Ctx) error {
	params := pagination.FromQuery(c)
	filters := service.OfficerListFilters{
		CompanyID: optionalQuery(c, "company"),
		Limit:     params.Limit,
		Offset:    params.Offset,
	}
	if level := optionalQuery(c, "access_level"); level != nil {
		accessLevel := domain.AccessLevel(*level)
		filters.AccessLevel = &accessLevel
	}
	if raw := optionalQuery(c, "active"); raw != nil {
		if active, err := strconv.ParseBool(*raw); err == nil {
			filters.Active = &active
		}
	}
	officers, err := h.directory.ListOfficers(c.UserContext(), filters)
	if err != nil {
		return err
	}
	items := make([]dto.OfficerResponse, 0, len(officers))
	for i := range officers {
		items = append(items, officerResponse(&officers[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// CreateOfficer handles POST /admin/vetting/officers.
func (h *DirectoryHandler) CreateOfficer(c *fiber.Ctx) error {
	var req dto.CreateOfficerRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	officer, err := h.directory.CreateOfficer(c.UserContext(), service.CreateOfficerInput{
		VettingCompanyID: req.VettingCompanyID,
		Email:            req.Email,
		FirstName:        req.FirstName,
		LastName:         req.LastName,
		AccessLevel:      req.AccessLevel,
		ClearanceLevel:   req.ClearanceLevel,
		Specializations:  req.Specializations,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": officerResponse(officer)})
}
