package permissions

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/mamadbah2/layerfarm/internal/config"
	"github.com/mamadbah2/layerfarm/internal/domain/models"
	"github.com/mamadbah2/layerfarm/internal/repository/gormdb"
)

func newService(t *testing.T) *Service {
	t.Helper()

	store, err := gormdb.Open(config.DatabaseConfig{
		Driver: config.DriverSQLite,
		DSN:    filepath.Join(t.TempDir(), "test.db"),
	}, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	require.NoError(t, store.Migrate(context.Background()))

	return NewService(store, zap.NewNop())
}

func allowedFeatures(perms map[string]bool) []string {
	var out []string
	for _, f := range models.Features {
		if perms[f] {
			out = append(out, f)
		}
	}
	return out
}

func TestReseedThenGetMatchesDefaults(t *testing.T) {
	ctx := context.Background()
	svc := newService(t)
	require.NoError(t, svc.ReseedDefaults(ctx))

	super, err := svc.Get(ctx, models.RoleSuperUser)
	require.NoError(t, err)
	assert.Len(t, super, len(models.Features))
	assert.Equal(t, models.Features, allowedFeatures(super))

	admin, err := svc.Get(ctx, models.RoleAdmin)
	require.NoError(t, err)
	assert.Len(t, allowedFeatures(admin), len(models.Features)-1)
	assert.False(t, admin[models.FeatureSettings])

	operator, err := svc.Get(ctx, models.RoleOperator)
	require.NoError(t, err)
	assert.Equal(t, []string{models.FeatureStock, models.FeatureDailyLogs, models.FeatureHealth}, allowedFeatures(operator))

	manager, err := svc.Get(ctx, models.RoleManager)
	require.NoError(t, err)
	assert.Equal(t, []string{models.FeatureDashboard, models.FeatureReports, models.FeatureAIAnalysis}, allowedFeatures(manager))
}

func TestReseedRestoresOverrides(t *testing.T) {
	ctx := context.Background()
	svc := newService(t)
	require.NoError(t, svc.ReseedDefaults(ctx))

	deny := false
	_, err := svc.Set(ctx, models.RoleSuperUser, models.FeatureUsers, &deny)
	require.NoError(t, err)

	require.NoError(t, svc.ReseedDefaults(ctx))
	ok, err := svc.Allowed(ctx, models.RoleSuperUser, models.FeatureUsers)
	require.NoError(t, err)
	assert.True(t, ok)

	rows, _, err := svc.List(ctx, "")
	require.NoError(t, err)
	assert.Len(t, rows, len(models.Roles)*len(models.Features))
}

func TestSetLastWriteWins(t *testing.T) {
	ctx := context.Background()
	svc := newService(t)

	yes, no := true, false
	_, err := svc.Set(ctx, models.RoleOperator, models.FeatureSales, &yes)
	require.NoError(t, err)
	perm, err := svc.Set(ctx, models.RoleOperator, models.FeatureSales, &no)
	require.NoError(t, err)
	assert.False(t, perm.Allowed)

	ok, err := svc.Allowed(ctx, models.RoleOperator, models.FeatureSales)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSetDefaultsToAllowedAndAcceptsUnknownNames(t *testing.T) {
	ctx := context.Background()
	svc := newService(t)

	perm, err := svc.Set(ctx, "TAMU", "kalender", nil)
	require.NoError(t, err)
	assert.True(t, perm.Allowed)

	_, grouped, err := svc.List(ctx, "TAMU")
	require.NoError(t, err)
	assert.Len(t, grouped["TAMU"], 1)
}

func TestSetRequiresRoleAndFeature(t *testing.T) {
	svc := newService(t)

	_, err := svc.Set(context.Background(), "", models.FeatureStock, nil)
	assert.ErrorIs(t, err, models.ErrValidation)
	_, err = svc.Set(context.Background(), models.RoleAdmin, " ", nil)
	assert.ErrorIs(t, err, models.ErrValidation)
}

func TestEnsureDefaultsOnlySeedsEmptyTable(t *testing.T) {
	ctx := context.Background()
	svc := newService(t)

	deny := false
	_, err := svc.Set(ctx, models.RoleAdmin, models.FeatureStock, &deny)
	require.NoError(t, err)

	require.NoError(t, svc.EnsureDefaults(ctx))
	rows, _, err := svc.List(ctx, "")
	require.NoError(t, err)
	assert.Len(t, rows, 1)

	empty := newService(t)
	require.NoError(t, empty.EnsureDefaults(ctx))
	rows, _, err = empty.List(ctx, "")
	require.NoError(t, err)
	assert.Len(t, rows, len(models.Roles)*len(models.Features))
}

func TestUnknownCellIsDenied(t *testing.T) {
	svc := newService(t)
	ok, err := svc.Allowed(context.Background(), "NOBODY", models.FeatureDashboard)
	require.NoError(t, err)
	assert.False(t, ok)
}
