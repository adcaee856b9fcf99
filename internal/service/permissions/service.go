package permissions

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/mamadbah2/layerfarm/internal/domain/models"
)

// Repository is the storage the permission matrix needs.
type Repository interface {
	ListPermissions(ctx context.Context, role string) ([]models.RolePermission, error)
	UpsertPermission(ctx context.Context, perm *models.RolePermission) error
	ReplacePermissions(ctx context.Context, perms []models.RolePermission) error
	CountPermissions(ctx context.Context) (int64, error)
}

// Service manages the role x feature access matrix.
type Service struct {
	repo   Repository
	logger *zap.Logger
}

// NewService wires a permission service.
func NewService(repo Repository, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{repo: repo, logger: logger}
}

var defaultGrants = map[models.Role]func(models.Feature) bool{
	models.RoleSuperUser: func(models.Feature) bool { return true },
	models.RoleAdmin:     func(f models.Feature) bool { return f != models.FeatureSettings },
	models.RoleOperator:  oneOf(models.FeatureDailyLogs, models.FeatureStock, models.FeatureHealth),
	models.RoleManager:   oneOf(models.FeatureDashboard, models.FeatureReports, models.FeatureAIAnalysis),
}

func oneOf(features ...models.Feature) func(models.Feature) bool {
	set := make(map[models.Feature]bool, len(features))
	for _, f := range features {
		set[f] = true
	}
	return func(f models.Feature) bool { return set[f] }
}

// DefaultMatrix returns every (role, feature) cell of the default table,
// denied cells included.
func DefaultMatrix() []models.RolePermission {
	out := make([]models.RolePermission, 0, len(models.Roles)*len(models.Features))
	for _, role := range models.Roles {
		grant := defaultGrants[role]
		for _, feature := range models.Features {
			out = append(out, models.RolePermission{Role: role, Feature: feature, Allowed: grant(feature)})
		}
	}
	return out
}

// Get returns the stored feature flags for role.
func (s *Service) Get(ctx context.Context, role string) (map[string]bool, error) {
	rows, err := s.repo.ListPermissions(ctx, role)
	if err != nil {
		return nil, err
	}

	out := make(map[string]bool, len(rows))
	for _, row := range rows {
		out[row.Feature] = row.Allowed
	}
	return out, nil
}

// List returns the stored rows, optionally for one role, plus the same rows
// grouped by role.
func (s *Service) List(ctx context.Context, role string) ([]models.RolePermission, map[string][]models.RolePermission, error) {
	rows, err := s.repo.ListPermissions(ctx, role)
	if err != nil {
		return nil, nil, err
	}

	grouped := make(map[string][]models.RolePermission)
	for _, row := range rows {
		grouped[row.Role] = append(grouped[row.Role], row)
	}
	return rows, grouped, nil
}

// Set upserts one cell. A nil allowed grants access. Role and feature strings
// are not checked against the known lists.
func (s *Service) Set(ctx context.Context, role, feature string, allowed *bool) (models.RolePermission, error) {
	role, feature = strings.TrimSpace(role), strings.TrimSpace(feature)
	if role == "" || feature == "" {
		return models.RolePermission{}, models.Invalid("Role dan fitur wajib diisi")
	}

	perm := models.RolePermission{Role: role, Feature: feature, Allowed: true}
	if allowed != nil {
		perm.Allowed = *allowed
	}
	if err := s.repo.UpsertPermission(ctx, &perm); err != nil {
		return models.RolePermission{}, err
	}

	s.logger.Info("permission updated",
		zap.String("role", role),
		zap.String("feature", feature),
		zap.Bool("allowed", perm.Allowed))
	return perm, nil
}

// ReseedDefaults restores the default table. Cells outside it are untouched.
func (s *Service) ReseedDefaults(ctx context.Context) error {
	if err := s.repo.ReplacePermissions(ctx, DefaultMatrix()); err != nil {
		return fmt.Errorf("reseed permissions: %w", err)
	}
	s.logger.Info("default permissions applied")
	return nil
}

// EnsureDefaults seeds the default table when no permission is stored yet.
func (s *Service) EnsureDefaults(ctx context.Context) error {
	count, err := s.repo.CountPermissions(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	return s.ReseedDefaults(ctx)
}

// Allowed reports whether role may use feature. Unknown cells are denied.
func (s *Service) Allowed(ctx context.Context, role, feature string) (bool, error) {
	perms, err := s.Get(ctx, role)
	if err != nil {
		return false, err
	}
	return perms[feature], nil
}
