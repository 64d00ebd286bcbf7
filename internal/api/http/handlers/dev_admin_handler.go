package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/aurelia-concierge/vetting-service/internal/api/dto"
	"github.com/aurelia-concierge/vetting-service/internal/auth"
	"github.com/aurelia-concierge/vetting-service/internal/service"
	apperrors "github.com/aurelia-concierge/vetting-service/pkg/util/errorutil"
)

// DevAdminHandler exposes impersonation for development admins.
type DevAdminHandler struct {
	auth *service.AuthService
}

// NewDevAdminHandler constructs handler.
func NewDevAdminHandler(authService *service.AuthService) *DevAdminHandler {
	return &DevAdminHandler{auth: authService}
}

// SwitchUserType handles POST /dev-admin/switch-user-type.
func (h *DevAdminHandler) SwitchUserType(c *fiber.Ctx) error {
	caller, ok := auth.CallerFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.SwitchUserTypeRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	session, err := h.auth.SwitchUserType(c.UserContext(), caller, service.SwitchUserTypeInput{
		TargetUserType: req.TargetUserType,
		TargetUserID:   req.TargetUserID,
		TargetSubType:  req.TargetSubType,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": sessionResponse(session)})
}
