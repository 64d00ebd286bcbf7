package auth

import (
	"github.com/gofiber/fiber/v2"

	"github.com/aurelia-concierge/vetting-service/internal/domain"
	apperrors "github.com/aurelia-concierge/vetting-service/pkg/util/errorutil"
)

// RequirePrincipal ensures a directory principal is authenticated.
func RequirePrincipal() fiber.Handler {
	return func(c *fiber.Ctx) error {
		caller, ok := CallerFromContext(c)
		if !ok {
			return apperrors.NewUnauthorized("authentication required")
		}
		if caller.Kind != domain.SubjectTypePrincipal || caller.Principal == nil {
			return apperrors.NewForbidden("principal token required")
		}
		return c.Next()
	}
}

// RequireOfficer ensures the caller is a vetting officer with one of the allowed access levels.
// No levels means any officer.
func RequireOfficer(allowed ...domain.AccessLevel) fiber.Handler {
	allowedSet := make(map[domain.AccessLevel]struct{}, len(allowed))
	for _, level := range allowed {
		allowedSet[level] = struct{}{}
	}

	return func(c *fiber.Ctx) error {
		caller, ok := CallerFromContext(c)
		if !ok {
			return apperrors.NewUnauthorized("authentication required")
		}
		if caller.Kind != domain.SubjectTypeOfficer || caller.Officer == nil {
			return apperrors.NewForbidden("vetting officer token required")
		}
		if len(allowedSet) == 0 {
			return c.Next()
		}
		if _, exists := allowedSet[caller.Officer.AccessLevel]; !exists {
			return apperrors.NewForbidden("insufficient access level")
		}
		return c.Next()
	}
}

// RequireAdmin ensures the caller is an admin principal.
func RequireAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		caller, ok := CallerFromContext(c)
		if !ok {
			return apperrors.NewUnauthorized("authentication required")
		}
		if !caller.IsAdmin() {
			return apperrors.NewForbidden("admin access required")
		}
		return c.Next()
	}
}

// RequireImpersonator ensures the token may switch user types.
func RequireImpersonator() fiber.Handler {
	return func(c *fiber.Ctx) error {
		caller, ok := CallerFromContext(c)
		if !ok {
			return apperrors.NewUnauthorized("authentication required")
		}
		if !AuthorizeImpersonation(caller.Claims) {
			return apperrors.NewForbidden("impersonation not permitted")
		}
		return c.Next()
	}
}
