package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"strings"
	"time"

	"github.com/aurelia-concierge/vetting-service/internal/auth"
	"github.com/aurelia-concierge/vetting-service/internal/config"
	"github.com/aurelia-concierge/vetting-service/internal/domain"
	"github.com/aurelia-concierge/vetting-service/internal/repository"
	apperrors "github.com/aurelia-concierge/vetting-service/pkg/util/errorutil"
)

// AuthService coordinates login, logout and user type switching.
type AuthService struct {
	principals      repository.PrincipalRepository
	permissions     repository.PermissionRepository
	officers        repository.OfficerRepository
	companies       repository.CompanyRepository
	revocations     auth.RevocationList
	tokenMgr        *auth.TokenManager
	sessionTTL      time.Duration
	vettingTTL      time.Duration
	officerPassword string
}

// AuthDependencies encapsulates repo requirements for auth service.
type AuthDependencies struct {
	Repos       repository.Repositories
	Tokens      *auth.TokenManager
	Revocations auth.RevocationList
}

// NewAuthService builds the service.
func NewAuthService(cfg config.AuthConfig, deps AuthDependencies) *AuthService {
	return &AuthService{
		principals:      deps.Repos.Principals,
		permissions:     deps.Repos.Permissions,
		officers:        deps.Repos.Officers,
		companies:       deps.Repos.Companies,
		revocations:     deps.Revocations,
		tokenMgr:        deps.Tokens,
		sessionTTL:      cfg.SessionTTL(),
		vettingTTL:      cfg.VettingTTL(),
		officerPassword: cfg.OfficerPassword,
	}
}

// Session is a freshly issued principal token.
type Session struct {
	Token               string
	ExpiresAt           time.Time
	Principal           *domain.Principal
	IsAdmin             bool
	OriginalDevAdmin    bool
	OriginalMasterAdmin bool
}

// OfficerSession is a freshly issued vetting officer token.
type OfficerSession struct {
	Token     string
	ExpiresAt time.Time
	Officer   *domain.VettingOfficer
	Company   *domain.VettingCompany
}

// SwitchUserTypeInput selects the principal to impersonate.
type SwitchUserTypeInput struct {
	TargetUserType domain.Role
	TargetUserID   *string
	TargetSubType  *domain.SubType
}

// LoginPrincipal authenticates a directory principal by bcrypt password.
func (s *AuthService) LoginPrincipal(ctx context.Context, email, password string) (*Session, error) {
	principal, err := s.principals.GetByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NewUnauthorized("invalid credentials")
		}
		return nil, apperrors.MapError(err)
	}
	if err := auth.ComparePassword(principal.PasswordHash, password); err != nil {
		return nil, apperrors.NewUnauthorized("invalid credentials")
	}
	if !principal.IsActive {
		return nil, apperrors.NewUnauthorized("account is inactive")
	}
	return s.issueSession(ctx, principal, false, false)
}

// LoginOfficer authenticates a vetting officer by directory lookup and the shared mock password.
func (s *AuthService) LoginOfficer(ctx context.Context, email, password string) (*OfficerSession, error) {
	officer, err := s.officers.GetByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NewUnauthorized("invalid credentials")
		}
		return nil, apperrors.MapError(err)
	}
	if s.officerPassword == "" || subtle.ConstantTimeCompare([]byte(password), []byte(s.officerPassword)) != 1 {
		return nil, apperrors.NewUnauthorized("invalid credentials")
	}
	if !officer.IsActive {
		return nil, apperrors.NewUnauthorized("officer is inactive")
	}

	token, exp, err := s.tokenMgr.Issue(auth.IssueInput{
		SubjectID:      officer.ID,
		Kind:           domain.SubjectTypeOfficer,
		Email:          officer.Email,
		AccessLevel:    officer.AccessLevel,
		ClearanceLevel: officer.ClearanceLevel,
		CompanyID:      officer.VettingCompanyID,
	}, s.vettingTTL)
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	session := &OfficerSession{Token: token, ExpiresAt: exp, Officer: officer}
	if company, err := s.companies.GetByID(ctx, officer.VettingCompanyID); err == nil {
		session.Company = company
	}
	return session, nil
}

// Logout revokes the caller's current token.
func (s *AuthService) Logout(ctx context.Context, caller *auth.Caller) error {
	if caller == nil || caller.Claims == nil {
		return apperrors.NewUnauthorized("authentication required")
	}
	if s.revocations == nil || caller.Claims.ExpiresAt == nil {
		return nil
	}
	if err := s.revocations.Revoke(ctx, caller.Claims.ID, caller.Claims.ExpiresAt.Time); err != nil {
		return apperrors.NewInternalError(err)
	}
	return nil
}

// SwitchUserType issues a token for another principal, carrying the caller's
// privilege provenance forward. Flags come only from the verified caller token.
func (s *AuthService) SwitchUserType(ctx context.Context, caller *auth.Caller, input SwitchUserTypeInput) (*Session, error) {
	if caller == nil || !auth.AuthorizeImpersonation(caller.Claims) {
		return nil, apperrors.NewForbidden("impersonation not permitted")
	}
	if !input.TargetUserType.Valid() {
		return nil, apperrors.NewValidationError("invalid target user type", map[string]any{"target_user_type": input.TargetUserType})
	}

	originalDevAdmin := caller.Claims.Role == domain.RoleDevAdmin || caller.Claims.OriginalDevAdmin
	originalMasterAdmin := caller.Claims.Role == domain.RoleAdmin || caller.Claims.OriginalMasterAdmin
	if input.TargetUserType == domain.RoleDevAdmin && !originalDevAdmin {
		return nil, apperrors.NewForbidden("switching to dev_admin requires dev admin provenance")
	}

	target, err := s.resolveTarget(ctx, input)
	if err != nil {
		return nil, err
	}
	return s.issueSession(ctx, target, originalDevAdmin, originalMasterAdmin)
}

func (s *AuthService) resolveTarget(ctx context.Context, input SwitchUserTypeInput) (*domain.Principal, error) {
	if id := normalizeID(input.TargetUserID); id != nil {
		principal, err := s.principals.GetByID(ctx, *id)
		if err != nil {
			return nil, apperrors.MapError(mapRepoError(err, "principal", *id))
		}
		if principal.Role != input.TargetUserType {
			return nil, apperrors.NewValidationError("target user does not have the requested type", map[string]any{
				"target_user_id":   principal.ID,
				"target_user_type": input.TargetUserType,
			})
		}
		if !principal.IsActive {
			return nil, apperrors.NewValidationError("target user is inactive", map[string]any{"target_user_id": principal.ID})
		}
		return principal, nil
	}

	active := true
	role := input.TargetUserType
	candidates, err := s.principals.List(ctx, repository.PrincipalFilter{
		Role:    &role,
		SubType: input.TargetSubType,
		Active:  &active,
		Limit:   1,
	})
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if len(candidates) == 0 {
		return nil, apperrors.NewNotFound("principal", map[string]any{"target_user_type": input.TargetUserType})
	}
	target := candidates[0]
	return &target, nil
}

func (s *AuthService) issueSession(ctx context.Context, principal *domain.Principal, originalDevAdmin, originalMasterAdmin bool) (*Session, error) {
	token, exp, err := s.tokenMgr.Issue(auth.IssueInput{
		SubjectID:           principal.ID,
		Kind:                domain.SubjectTypePrincipal,
		Email:               principal.Email,
		Role:                principal.Role,
		SubType:             principal.SubType,
		OriginalDevAdmin:    originalDevAdmin,
		OriginalMasterAdmin: originalMasterAdmin,
	}, s.sessionTTL)
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	isAdmin := auth.IsAdminRole(principal.Role)
	if !isAdmin {
		perms, err := s.permissions.ListByPrincipal(ctx, principal.ID)
		if err != nil {
			return nil, apperrors.MapError(err)
		}
		for _, p := range perms {
			if p == domain.PermAdminAccess {
				isAdmin = true
			}
		}
	}

	return &Session{
		Token:               token,
		ExpiresAt:           exp,
		Principal:           principal,
		IsAdmin:             isAdmin,
		OriginalDevAdmin:    originalDevAdmin,
		OriginalMasterAdmin: originalMasterAdmin,
	}, nil
}
