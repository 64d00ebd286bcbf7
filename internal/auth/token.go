package auth

import (
	"errors"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/aurelia-concierge/vetting-service/internal/domain"
	apperrors "github.com/aurelia-concierge/vetting-service/pkg/util/errorutil"
)

// ErrInvalidToken is returned for any token that fails signature, issuer or expiry checks.
var ErrInvalidToken = errors.New("invalid token")

// TokenManager handles issuing and validating JWT tokens.
type TokenManager struct {
	secret []byte
	issuer string
}

// NewTokenManager builds a new manager.
func NewTokenManager(secret, issuer string) *TokenManager {
	return &TokenManager{secret: []byte(secret), issuer: issuer}
}

// Claims describes JWT payload. The subject id travels in RegisteredClaims.Subject.
type Claims struct {
	Kind                domain.SubjectType    `json:"kind"`
	Email               string                `json:"email"`
	Role                domain.Role           `json:"role,omitempty"`
	SubType             domain.SubType        `json:"sub_type,omitempty"`
	AccessLevel         domain.AccessLevel    `json:"access_level,omitempty"`
	ClearanceLevel      domain.ClearanceLevel `json:"clearance_level,omitempty"`
	CompanyID           string                `json:"company_id,omitempty"`
	OriginalDevAdmin    bool                  `json:"original_dev_admin,omitempty"`
	OriginalMasterAdmin bool                  `json:"original_master_admin,omitempty"`
	jwt.RegisteredClaims
}

// SubjectID returns the principal or officer id the token was issued for.
func (c *Claims) SubjectID() string {
	return c.Subject
}

// IssueInput carries everything encoded into a new token.
type IssueInput struct {
	SubjectID           string
	Kind                domain.SubjectType
	Email               string
	Role                domain.Role
	SubType             domain.SubType
	AccessLevel         domain.AccessLevel
	ClearanceLevel      domain.ClearanceLevel
	CompanyID           string
	OriginalDevAdmin    bool
	OriginalMasterAdmin bool
}

// Issue builds and signs a JWT valid for ttl.
func (tm *TokenManager) Issue(in IssueInput, ttl time.Duration) (string, time.Time, error) {
	if len(tm.secret) == 0 {
		return "", time.Time{}, apperrors.NewConfigError("token signing secret is not configured")
	}
	now := time.Now()
	expiresAt := now.Add(ttl)
	claims := &Claims{
		Kind:                in.Kind,
		Email:               in.Email,
		Role:                in.Role,
		SubType:             in.SubType,
		AccessLevel:         in.AccessLevel,
		ClearanceLevel:      in.ClearanceLevel,
		CompanyID:           in.CompanyID,
		OriginalDevAdmin:    in.OriginalDevAdmin,
		OriginalMasterAdmin: in.OriginalMasterAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    tm.issuer,
			Subject:   in.SubjectID,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(tm.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return tokenString, expiresAt, nil
}

// ParseToken validates and returns claims.
func (tm *TokenManager) ParseToken(tokenStr string) (*Claims, error) {
	if len(tm.secret) == 0 {
		return nil, apperrors.NewConfigError("token signing secret is not configured")
	}
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	}
	if tm.issuer != "" {
		opts = append(opts, jwt.WithIssuer(tm.issuer))
	}
	parsed, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		return tm.secret, nil
	}, opts...)
	if err != nil {
		return nil, ErrInvalidToken
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid || claims.Subject == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
