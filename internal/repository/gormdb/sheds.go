package gormdb

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/mamadbah2/layerfarm/internal/domain/models"
)

// ListSheds returns every shed, newest first.
func (s *Store) ListSheds(ctx context.Context) ([]models.Shed, error) {
	var sheds []models.Shed
	if err := s.db.WithContext(ctx).Order("created_at desc").Find(&sheds).Error; err != nil {
		return nil, fmt.Errorf("list sheds: %w", err)
	}
	return sheds, nil
}

// FindShed loads a shed by id.
func (s *Store) FindShed(ctx context.Context, id string) (models.Shed, error) {
	var shed models.Shed
	if err := s.db.WithContext(ctx).First(&shed, "id = ?", id).Error; err != nil {
		return models.Shed{}, lookupErr(err, msgShedNotFound)
	}
	return shed, nil
}

// ShedNameExists reports whether another shed already uses name.
func (s *Store) ShedNameExists(ctx context.Context, name, excludeID string) (bool, error) {
	var count int64
	q := s.db.WithContext(ctx).Model(&models.Shed{}).Where("name = ?", name)
	if excludeID != "" {
		q = q.Where("id <> ?", excludeID)
	}
	if err := q.Count(&count).Error; err != nil {
		return false, fmt.Errorf("check shed name: %w", err)
	}
	return count > 0, nil
}

// CreateShed inserts a shed.
func (s *Store) CreateShed(ctx context.Context, shed *models.Shed) error {
	if err := s.db.WithContext(ctx).Create(shed).Error; err != nil {
		return writeErr(err, msgShedExists)
	}
	return nil
}

// UpdateShed applies column updates to a shed and returns the fresh row.
func (s *Store) UpdateShed(ctx context.Context, id string, updates map[string]any) (models.Shed, error) {
	var shed models.Shed
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&shed, "id = ?", id).Error; err != nil {
			return lookupErr(err, msgShedNotFound)
		}
		if len(updates) > 0 {
			if err := tx.Model(&shed).Updates(updates).Error; err != nil {
				return writeErr(err, msgShedExists)
			}
		}
		return tx.First(&shed, "id = ?", id).Error
	})
	return shed, err
}

// DeleteShed removes a shed and, through the foreign key, its logs.
func (s *Store) DeleteShed(ctx context.Context, id string) error {
	res := s.db.WithContext(ctx).Delete(&models.Shed{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("delete shed: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return models.NotFound(msgShedNotFound)
	}
	return nil
}

// ListDailyLogs returns logs matching filter, newest date first.
func (s *Store) ListDailyLogs(ctx context.Context, filter models.DailyLogFilter) ([]models.DailyLog, error) {
	q := s.db.WithContext(ctx).Model(&models.DailyLog{}).Preload("Shed")
	if filter.ShedID != "" {
		q = q.Where("shed_id = ?", filter.ShedID)
	}
	q = dateRange(q, "date", filter.From, filter.To)
	if filter.Limit > 0 {
		q = q.Limit(filter.Limit)
	}

	var logs []models.DailyLog
	if err := q.Order("date desc").Find(&logs).Error; err != nil {
		return nil, fmt.Errorf("list daily logs: %w", err)
	}
	return logs, nil
}

// FindDailyLog loads a daily log by id.
func (s *Store) FindDailyLog(ctx context.Context, id string) (models.DailyLog, error) {
	var log models.DailyLog
	if err := s.db.WithContext(ctx).Preload("Shed").First(&log, "id = ?", id).Error; err != nil {
		return models.DailyLog{}, lookupErr(err, msgDailyLogNotFound)
	}
	return log, nil
}

// CreateDailyLog inserts the log and decrements the shed's bird count by the
// reported deaths in the same transaction. The count never drops below zero.
func (s *Store) CreateDailyLog(ctx context.Context, log *models.DailyLog) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var shed models.Shed
		if err := tx.Select("id").First(&shed, "id = ?", log.ShedID).Error; err != nil {
			return lookupErr(err, msgShedNotFound)
		}

		if err := tx.Omit("Shed").Create(log).Error; err != nil {
			return fmt.Errorf("insert daily log: %w", err)
		}

		if log.Deaths > 0 {
			err := tx.Model(&models.Shed{}).
				Where("id = ?", log.ShedID).
				Update("bird_count", gorm.Expr("CASE WHEN bird_count > ? THEN bird_count - ? ELSE 0 END", log.Deaths, log.Deaths)).
				Error
			if err != nil {
				return fmt.Errorf("decrement bird count: %w", err)
			}
		}

		if err := tx.First(&shed, "id = ?", log.ShedID).Error; err != nil {
			return fmt.Errorf("reload shed: %w", err)
		}
		log.Shed = &shed
		return nil
	})
}

// DeleteDailyLog removes a log. The shed's bird count is left untouched.
func (s *Store) DeleteDailyLog(ctx context.Context, id string) error {
	res := s.db.WithContext(ctx).Delete(&models.DailyLog{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("delete daily log: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return models.NotFound(msgDailyLogNotFound)
	}
	return nil
}
