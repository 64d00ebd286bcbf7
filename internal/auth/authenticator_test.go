package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aurelia-concierge/vetting-service/internal/domain"
	"github.com/aurelia-concierge/vetting-service/internal/repository"
	apperrors "github.com/aurelia-concierge/vetting-service/pkg/util/errorutil"
)

type authFixture struct {
	store         *repository.MemoryStore
	tokens        *TokenManager
	redis         *miniredis.Miniredis
	authenticator *Authenticator
}

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	store := repository.NewMemoryStore()
	ctx := context.Background()
	require.NoError(t, store.Principals().Create(ctx, &domain.Principal{ID: "p-client", Email: "client@aurelia.test", Role: domain.RoleClient, IsActive: true}))
	require.NoError(t, store.Principals().Create(ctx, &domain.Principal{ID: "p-hr", Email: "hr@aurelia.test", Role: domain.RoleHR, IsActive: true}))
	require.NoError(t, store.Principals().Create(ctx, &domain.Principal{ID: "p-gone", Email: "gone@aurelia.test", Role: domain.RoleClient}))
	require.NoError(t, store.Permissions().Grant(ctx, &domain.PermissionGrant{PrincipalID: "p-hr", Permission: domain.PermAdminAccess}))
	require.NoError(t, store.Officers().Create(ctx, &domain.VettingOfficer{ID: "o-1", VettingCompanyID: "c-1", Email: "o1@vet.test", AccessLevel: domain.AccessLevelOfficer, IsActive: true}))

	tokens := NewTokenManager("secret", "vetting-service")
	return &authFixture{
		store:         store,
		tokens:        tokens,
		redis:         mr,
		authenticator: NewAuthenticator(tokens, store.Principals(), store.Permissions(), store.Officers(), NewRedisRevocationList(client), nil),
	}
}

func (f *authFixture) issue(t *testing.T, in IssueInput) string {
	t.Helper()
	token, _, err := f.tokens.Issue(in, time.Hour)
	require.NoError(t, err)
	return token
}

func TestAuthenticatePrincipal(t *testing.T) {
	f := newAuthFixture(t)
	token := f.issue(t, IssueInput{SubjectID: "p-hr", Kind: domain.SubjectTypePrincipal, Role: domain.RoleHR})

	caller, err := f.authenticator.Authenticate(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, "p-hr", caller.Principal.ID)
	assert.True(t, caller.IsAdmin())
}

func TestAuthenticateRejectsStaleOrInactivePrincipals(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	mismatch := f.issue(t, IssueInput{SubjectID: "p-client", Kind: domain.SubjectTypePrincipal, Role: domain.RoleAdmin})
	_, err := f.authenticator.Authenticate(ctx, mismatch)
	assert.True(t, apperrors.IsCode(err, "UNAUTHORIZED"))

	inactive := f.issue(t, IssueInput{SubjectID: "p-gone", Kind: domain.SubjectTypePrincipal, Role: domain.RoleClient})
	_, err = f.authenticator.Authenticate(ctx, inactive)
	assert.True(t, apperrors.IsCode(err, "UNAUTHORIZED"))

	missing := f.issue(t, IssueInput{SubjectID: "p-missing", Kind: domain.SubjectTypePrincipal, Role: domain.RoleClient})
	_, err = f.authenticator.Authenticate(ctx, missing)
	assert.True(t, apperrors.IsCode(err, "UNAUTHORIZED"))

	_, err = f.authenticator.Authenticate(ctx, "not-a-jwt")
	assert.True(t, apperrors.IsCode(err, "UNAUTHORIZED"))
}

func TestAuthenticateOfficer(t *testing.T) {
	f := newAuthFixture(t)
	token := f.issue(t, IssueInput{
		SubjectID:   "o-1",
		Kind:        domain.SubjectTypeOfficer,
		AccessLevel: domain.AccessLevelManager,
	})

	caller, err := f.authenticator.Authenticate(context.Background(), token)
	require.NoError(t, err)
	require.NotNil(t, caller.Officer)
	// Access level comes from the directory, not from the token.
	assert.Equal(t, domain.AccessLevelOfficer, caller.Officer.AccessLevel)
	assert.False(t, caller.IsAdmin())
}

func TestRevokedTokenIsRejected(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()
	token := f.issue(t, IssueInput{SubjectID: "p-client", Kind: domain.SubjectTypePrincipal, Role: domain.RoleClient})

	caller, err := f.authenticator.Authenticate(ctx, token)
	require.NoError(t, err)
	require.NoError(t, f.authenticator.Revoke(ctx, caller.Claims))
	assert.True(t, f.redis.Exists(revokedKeyPrefix+caller.Claims.ID))

	_, err = f.authenticator.Authenticate(ctx, token)
	assert.True(t, apperrors.IsCode(err, "UNAUTHORIZED"))
}

func TestRevocationFailsOpenWhenRedisIsDown(t *testing.T) {
	f := newAuthFixture(t)
	token := f.issue(t, IssueInput{SubjectID: "p-client", Kind: domain.SubjectTypePrincipal, Role: domain.RoleClient})
	f.redis.Close()

	caller, err := f.authenticator.Authenticate(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, "p-client", caller.Principal.ID)
}

func newTestApp(f *authFixture) *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			domainErr := apperrors.ToDomainError(err)
			return c.Status(domainErr.HTTPStatus).SendString(domainErr.Code)
		},
	})
	mw := NewAuthMiddleware(f.authenticator)
	ok := func(c *fiber.Ctx) error { return c.SendStatus(http.StatusOK) }
	app.Get("/principal", mw.Handle, RequirePrincipal(), ok)
	app.Get("/officer", mw.Handle, RequireOfficer(domain.AccessLevelSupervisor, domain.AccessLevelManager), ok)
	app.Get("/admin", mw.Handle, RequireAdmin(), ok)
	app.Get("/switch", mw.Handle, RequireImpersonator(), ok)
	return app
}

func doGet(t *testing.T, app *fiber.App, path, token string) int {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp.StatusCode
}

func TestMiddlewareGuards(t *testing.T) {
	f := newAuthFixture(t)
	app := newTestApp(f)

	client := f.issue(t, IssueInput{SubjectID: "p-client", Kind: domain.SubjectTypePrincipal, Role: domain.RoleClient})
	hr := f.issue(t, IssueInput{SubjectID: "p-hr", Kind: domain.SubjectTypePrincipal, Role: domain.RoleHR})
	officer := f.issue(t, IssueInput{SubjectID: "o-1", Kind: domain.SubjectTypeOfficer})

	assert.Equal(t, http.StatusUnauthorized, doGet(t, app, "/principal", ""))
	assert.Equal(t, http.StatusOK, doGet(t, app, "/principal", client))
	assert.Equal(t, http.StatusForbidden, doGet(t, app, "/principal", officer))
	assert.Equal(t, http.StatusForbidden, doGet(t, app, "/officer", officer))
	assert.Equal(t, http.StatusForbidden, doGet(t, app, "/officer", client))
	assert.Equal(t, http.StatusOK, doGet(t, app, "/admin", hr))
	assert.Equal(t, http.StatusForbidden, doGet(t, app, "/admin", client))
	assert.Equal(t, http.StatusForbidden, doGet(t, app, "/switch", client))
	assert.Equal(t, http.StatusForbidden, doGet(t, app, "/switch", hr))
}
