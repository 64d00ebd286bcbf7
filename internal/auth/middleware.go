package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	apperrors "github.com/aurelia-concierge/vetting-service/pkg/util/errorutil"
)

const callerKey = "auth_caller"

// AuthMiddleware validates bearer tokens and loads callers.
type AuthMiddleware struct {
	authenticator *Authenticator
}

// NewAuthMiddleware constructs middleware.
func NewAuthMiddleware(authenticator *Authenticator) *AuthMiddleware {
	return &AuthMiddleware{authenticator: authenticator}
}

// Handle enforces authentication for protected routes.
func (m *AuthMiddleware) Handle(c *fiber.Ctx) error {
	authHeader := c.Get(fiber.HeaderAuthorization)
	if authHeader == "" {
		return apperrors.NewUnauthorized("missing authorization header")
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
		return apperrors.NewUnauthorized("invalid authorization header")
	}

	caller, err := m.authenticator.Authenticate(c.UserContext(), strings.TrimSpace(parts[1]))
	if err != nil {
		return err
	}

	c.Locals(callerKey, caller)
	return c.Next()
}

// CallerFromContext retrieves the authenticated entity.
func CallerFromContext(c *fiber.Ctx) (*Caller, bool) {
	val := c.Locals(callerKey)
	if val == nil {
		return nil, false
	}
	caller, ok := val.(*Caller)
	return caller, ok
}
