package persistence

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/aurelia-concierge/vetting-service/internal/auth"
	"github.com/aurelia-concierge/vetting-service/internal/domain"
	"github.com/aurelia-concierge/vetting-service/internal/repository"
)

func TestSeedDemoDataIsIdempotent(t *testing.T) {
	store := repository.NewMemoryStore()
	repos := store.Repositories()
	ctx := context.Background()

	require.NoError(t, SeedDemoData(ctx, repos, 4, zap.NewNop()))
	require.NoError(t, SeedDemoData(ctx, repos, 4, zap.NewNop()))

	principals, err := repos.Principals.List(ctx, repository.PrincipalFilter{})
	require.NoError(t, err)
	assert.Len(t, principals, len(demoPrincipals()))

	apps, err := repos.Applications.List(ctx, repository.ApplicationFilter{})
	require.NoError(t, err)
	assert.Len(t, apps, 3)
	assert.Equal(t, domain.PriorityUrgent, apps[0].PriorityLevel)

	tasks, err := repos.Tasks.ListByApplication(ctx, "va-yachting")
	require.NoError(t, err)
	assert.Len(t, tasks, 2)

	basic, err := repos.Tasks.ListByApplication(ctx, "va-chauffeur")
	require.NoError(t, err)
	assert.Empty(t, basic)
}

func TestSeededPrincipalsCanLogIn(t *testing.T) {
	store := repository.NewMemoryStore()
	repos := store.Repositories()
	ctx := context.Background()
	require.NoError(t, SeedDemoData(ctx, repos, 4, zap.NewNop()))

	admin, err := repos.Principals.GetByEmail(ctx, "admin@aurelia.test")
	require.NoError(t, err)
	assert.True(t, admin.IsActive)
	assert.NoError(t, auth.ComparePassword(admin.PasswordHash, DemoPassword))

	perms, err := repos.Permissions.ListByPrincipal(ctx, "pr-hr")
	require.NoError(t, err)
	assert.Contains(t, perms, domain.PermAdminAccess)
}
