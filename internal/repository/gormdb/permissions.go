package gormdb

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/mamadbah2/layerfarm/internal/domain/models"
)

var permissionUpsert = clause.OnConflict{
	Columns:   []clause.Column{{Name: "role"}, {Name: "feature"}},
	DoUpdates: clause.AssignmentColumns([]string{"allowed", "updated_at"}),
}

// ListPermissions returns the matrix ordered by role and feature, optionally for one role.
func (s *Store) ListPermissions(ctx context.Context, role string) ([]models.RolePermission, error) {
	q := s.db.WithContext(ctx).Model(&models.RolePermission{})
	if role != "" {
		q = q.Where("role = ?", role)
	}

	var rows []models.RolePermission
	if err := q.Order("role asc").Order("feature asc").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list permissions: %w", err)
	}
	return rows, nil
}

// UpsertPermission creates or updates a single (role, feature) cell.
func (s *Store) UpsertPermission(ctx context.Context, perm *models.RolePermission) error {
	perm.UpdatedAt = time.Now().UTC()
	if err := s.db.WithContext(ctx).Clauses(permissionUpsert).Create(perm).Error; err != nil {
		return fmt.Errorf("upsert permission %s/%s: %w", perm.Role, perm.Feature, err)
	}
	return nil
}

// ReplacePermissions upserts every row inside one transaction.
func (s *Store) ReplacePermissions(ctx context.Context, perms []models.RolePermission) error {
	now := time.Now().UTC()
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i := range perms {
			perms[i].UpdatedAt = now
			if err := tx.Clauses(permissionUpsert).Create(&perms[i]).Error; err != nil {
				return fmt.Errorf("upsert permission %s/%s: %w", perms[i].Role, perms[i].Feature, err)
			}
		}
		return nil
	})
}

// CountPermissions returns the number of stored matrix cells.
func (s *Store) CountPermissions(ctx context.Context) (int64, error) {
	var count int64
	if err := s.db.WithContext(ctx).Model(&models.RolePermission{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("count permissions: %w", err)
	}
	return count, nil
}
