package auth

import (
	"testing"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aurelia-concierge/vetting-service/internal/domain"
	apperrors "github.com/aurelia-concierge/vetting-service/pkg/util/errorutil"
)

func TestIssueAndParseRoundTrip(t *testing.T) {
	tm := NewTokenManager("secret", "vetting-service")

	token, expiresAt, err := tm.Issue(IssueInput{
		SubjectID:        "p-1",
		Kind:             domain.SubjectTypePrincipal,
		Email:            "dev@aurelia.test",
		Role:             domain.RoleDevAdmin,
		OriginalDevAdmin: true,
	}, time.Hour)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expiresAt, 5*time.Second)

	claims, err := tm.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, "p-1", claims.SubjectID())
	assert.Equal(t, domain.RoleDevAdmin, claims.Role)
	assert.True(t, claims.OriginalDevAdmin)
	assert.False(t, claims.OriginalMasterAdmin)
	assert.NotEmpty(t, claims.ID)
}

func TestIssueWithoutSecretIsConfigError(t *testing.T) {
	tm := NewTokenManager("", "vetting-service")

	_, _, err := tm.Issue(IssueInput{SubjectID: "p-1", Kind: domain.SubjectTypePrincipal}, time.Hour)
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, "CONFIG_ERROR"))
}

func TestParseRejectsWrongSecretIssuerAndExpiry(t *testing.T) {
	tm := NewTokenManager("secret", "vetting-service")
	in := IssueInput{SubjectID: "p-1", Kind: domain.SubjectTypePrincipal, Role: domain.RoleClient}

	other, _, err := NewTokenManager("other", "vetting-service").Issue(in, time.Hour)
	require.NoError(t, err)
	_, err = tm.ParseToken(other)
	assert.ErrorIs(t, err, ErrInvalidToken)

	foreign, _, err := NewTokenManager("secret", "someone-else").Issue(in, time.Hour)
	require.NoError(t, err)
	_, err = tm.ParseToken(foreign)
	assert.ErrorIs(t, err, ErrInvalidToken)

	expired, _, err := tm.Issue(in, -time.Minute)
	require.NoError(t, err)
	_, err = tm.ParseToken(expired)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseRejectsNoneAlgorithm(t *testing.T) {
	tm := NewTokenManager("secret", "vetting-service")
	claims := &Claims{
		Kind: domain.SubjectTypePrincipal,
		Role: domain.RoleAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "p-1",
			Issuer:    "vetting-service",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = tm.ParseToken(unsigned)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("correct horse", 4)
	require.NoError(t, err)

	assert.NoError(t, ComparePassword(hash, "correct horse"))
	assert.ErrorIs(t, ComparePassword(hash, "battery staple"), ErrPasswordMismatch)
}
