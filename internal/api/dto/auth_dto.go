package dto

import (
	"time"

	"github.com/aurelia-concierge/vetting-service/internal/domain"
)

// LoginRequest is shared by principal and vetting officer login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// AuthResponse standard response for auth endpoints.
type AuthResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// PrincipalResponse is the public view of a directory principal.
type PrincipalResponse struct {
	ID          string         `json:"id"`
	Email       string         `json:"email"`
	DisplayName string         `json:"display_name"`
	Role        domain.Role    `json:"role"`
	SubType     domain.SubType `json:"sub_type,omitempty"`
	Profile     domain.Profile `json:"profile"`
}

// SessionResponse is returned by login and user type switching.
type SessionResponse struct {
	Auth                AuthResponse      `json:"auth"`
	Principal           PrincipalResponse `json:"principal"`
	IsAdmin             bool              `json:"is_admin"`
	OriginalDevAdmin    bool              `json:"original_dev_admin"`
	OriginalMasterAdmin bool              `json:"original_master_admin"`
}

// MeResponse describes the authenticated principal.
type MeResponse struct {
	Principal           PrincipalResponse `json:"principal"`
	IsAdmin             bool              `json:"is_admin"`
	Permissions         []string          `json:"permissions"`
	OriginalDevAdmin    bool              `json:"original_dev_admin"`
	OriginalMasterAdmin bool              `json:"original_master_admin"`
}

// SwitchUserTypeRequest selects the principal a dev admin impersonates.
type SwitchUserTypeRequest struct {
	TargetUserType domain.Role     `json:"target_user_type" validate:"required"`
	TargetUserID   *string         `json:"target_user_id,omitempty"`
	TargetSubType  *domain.SubType `json:"target_sub_type,omitempty" validate:"omitempty,oneof=individual company"`
}
