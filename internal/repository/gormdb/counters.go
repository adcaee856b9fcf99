package gormdb

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/mamadbah2/layerfarm/internal/domain/models"
)

// NextValue increments the named counter and returns its new value. The
// increment is a single UPDATE so concurrent callers never observe the same
// value.
func (s *Store) NextValue(ctx context.Context, name string) (int64, error) {
	var counter models.Counter
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		seed := models.Counter{Name: name}
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&seed).Error; err != nil {
			return err
		}
		res := tx.Model(&models.Counter{}).Where("name = ?", name).
			Update("value", gorm.Expr("value + ?", 1))
		if res.Error != nil {
			return res.Error
		}
		return tx.First(&counter, "name = ?", name).Error
	})
	if err != nil {
		return 0, fmt.Errorf("next value for %s: %w", name, err)
	}
	return counter.Value, nil
}

// CurrentValue returns the last value handed out by the named counter, 0 when
// it was never used.
func (s *Store) CurrentValue(ctx context.Context, name string) (int64, error) {
	var counter models.Counter
	err := s.db.WithContext(ctx).Where("name = ?", name).Limit(1).Find(&counter).Error
	if err != nil {
		return 0, fmt.Errorf("current value for %s: %w", name, err)
	}
	return counter.Value, nil
}
