package handlers

import (
	"sort"

	"github.com/gofiber/fiber/v2"

	"github.com/aurelia-concierge/vetting-service/internal/api/dto"
	"github.com/aurelia-concierge/vetting-service/internal/auth"
	"github.com/aurelia-concierge/vetting-service/internal/service"
	apperrors "github.com/aurelia-concierge/vetting-service/pkg/util/errorutil"
)

// AuthHandler exposes principal session endpoints.
type AuthHandler struct {
	auth *service.AuthService
}

// NewAuthHandler constructs handler.
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{auth: authService}
}

// Login handles POST /auth/login.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	session, err := h.auth.LoginPrincipal(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": sessionResponse(session)})
}

// Logout handles POST /auth/logout.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	caller, ok := auth.CallerFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	if err := h.auth.Logout(c.UserContext(), caller); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"status": "logged_out"}})
}

// Me handles GET /auth/me.
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	caller, ok := auth.CallerFromContext(c)
	if !ok || caller.Principal == nil {
		return apperrors.NewUnauthorized("principal required")
	}
	perms := make([]string, 0, len(caller.Permissions))
	for p := range caller.Permissions {
		perms = append(perms, p)
	}
	sort.Strings(perms)
	return c.JSON(fiber.Map{"data": dto.MeResponse{
		Principal:           principalResponse(caller.Principal),
		IsAdmin:             caller.IsAdmin(),
		Permissions:         perms,
		OriginalDevAdmin:    caller.Claims.OriginalDevAdmin,
		OriginalMasterAdmin: caller.Claims.OriginalMasterAdmin,
	}})
}
