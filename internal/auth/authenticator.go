package auth

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/aurelia-concierge/vetting-service/internal/domain"
	"github.com/aurelia-concierge/vetting-service/internal/repository"
	apperrors "github.com/aurelia-concierge/vetting-service/pkg/util/errorutil"
)

// Authenticator resolves bearer tokens into live callers.
type Authenticator struct {
	tokens      *TokenManager
	principals  repository.PrincipalRepository
	permissions repository.PermissionRepository
	officers    repository.OfficerRepository
	revocations RevocationList
	logger      *zap.Logger
}

// NewAuthenticator wires the token manager to the directories. revocations may be nil.
func NewAuthenticator(
	tokens *TokenManager,
	principals repository.PrincipalRepository,
	permissions repository.PermissionRepository,
	officers repository.OfficerRepository,
	revocations RevocationList,
	logger *zap.Logger,
) *Authenticator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Authenticator{
		tokens:      tokens,
		principals:  principals,
		permissions: permissions,
		officers:    officers,
		revocations: revocations,
		logger:      logger,
	}
}

// Authenticate verifies the token and loads the principal or officer it names.
func (a *Authenticator) Authenticate(ctx context.Context, raw string) (*Caller, error) {
	claims, err := a.tokens.ParseToken(raw)
	if err != nil {
		if apperrors.IsCode(err, "CONFIG_ERROR") {
			return nil, err
		}
		return nil, apperrors.NewUnauthorized("invalid token")
	}

	if a.revocations != nil {
		revoked, err := a.revocations.IsRevoked(ctx, claims.ID)
		switch {
		case err != nil:
			a.logger.Warn("revocation check unavailable", zap.String("jti", claims.ID), zap.Error(err))
		case revoked:
			return nil, apperrors.NewUnauthorized("token revoked")
		}
	}

	caller := &Caller{Kind: claims.Kind, Claims: claims}

	switch claims.Kind {
	case domain.SubjectTypePrincipal:
		principal, err := a.principals.GetByID(ctx, claims.SubjectID())
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, apperrors.NewUnauthorized("principal not found")
			}
			return nil, apperrors.MapError(err)
		}
		if !principal.IsActive {
			return nil, apperrors.NewUnauthorized("principal is inactive")
		}
		if principal.Role != claims.Role {
			return nil, apperrors.NewUnauthorized("token role does not match principal")
		}
		perms, err := a.permissions.ListByPrincipal(ctx, principal.ID)
		if err != nil {
			return nil, apperrors.MapError(err)
		}
		caller.Principal = principal
		caller.Permissions = make(map[string]struct{}, len(perms))
		for _, p := range perms {
			caller.Permissions[p] = struct{}{}
		}
	case domain.SubjectTypeOfficer:
		officer, err := a.officers.GetByID(ctx, claims.SubjectID())
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, apperrors.NewUnauthorized("officer not found")
			}
			return nil, apperrors.MapError(err)
		}
		if !officer.IsActive {
			return nil, apperrors.NewUnauthorized("officer is inactive")
		}
		caller.Officer = officer
	default:
		return nil, apperrors.NewUnauthorized("unknown subject")
	}

	return caller, nil
}

// Revoke adds the caller's token to the revocation list.
func (a *Authenticator) Revoke(ctx context.Context, claims *Claims) error {
	if a.revocations == nil || claims == nil || claims.ExpiresAt == nil {
		return nil
	}
	return a.revocations.Revoke(ctx, claims.ID, claims.ExpiresAt.Time)
}
