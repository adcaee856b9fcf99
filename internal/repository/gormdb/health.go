package gormdb

import (
	"context"
	"fmt"

	"github.com/mamadbah2/layerfarm/internal/domain/models"
)

// ListHealthRecords returns health records newest first.
func (s *Store) ListHealthRecords(ctx context.Context, filter models.HealthFilter) ([]models.HealthRecord, error) {
	q := s.db.WithContext(ctx).Model(&models.HealthRecord{})
	if filter.ShedID != "" {
		q = q.Where("shed_id = ?", filter.ShedID)
	}
	q = dateRange(q, "date", filter.From, filter.To)

	var records []models.HealthRecord
	if err := q.Order("date desc").Find(&records).Error; err != nil {
		return nil, fmt.Errorf("list health records: %w", err)
	}
	return records, nil
}

// CreateHealthRecord inserts a health record.
func (s *Store) CreateHealthRecord(ctx context.Context, record *models.HealthRecord) error {
	if err := s.db.WithContext(ctx).Create(record).Error; err != nil {
		return fmt.Errorf("insert health record: %w", err)
	}
	return nil
}

// ListVaccines returns vaccine schedules by ascending date.
func (s *Store) ListVaccines(ctx context.Context, filter models.HealthFilter) ([]models.VaccineSchedule, error) {
	q := s.db.WithContext(ctx).Model(&models.VaccineSchedule{}).Preload("Shed")
	if filter.ShedID != "" {
		q = q.Where("shed_id = ?", filter.ShedID)
	}
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	q = dateRange(q, "scheduled_at", filter.From, filter.To)

	var schedules []models.VaccineSchedule
	if err := q.Order("scheduled_at asc").Find(&schedules).Error; err != nil {
		return nil, fmt.Errorf("list vaccine schedules: %w", err)
	}
	return schedules, nil
}

// CreateVaccine inserts a vaccine schedule.
func (s *Store) CreateVaccine(ctx context.Context, schedule *models.VaccineSchedule) error {
	if err := s.db.WithContext(ctx).Omit("Shed").Create(schedule).Error; err != nil {
		return fmt.Errorf("insert vaccine schedule: %w", err)
	}
	return nil
}

// FindVaccine loads a vaccine schedule with its shed.
func (s *Store) FindVaccine(ctx context.Context, id string) (models.VaccineSchedule, error) {
	var schedule models.VaccineSchedule
	if err := s.db.WithContext(ctx).Preload("Shed").First(&schedule, "id = ?", id).Error; err != nil {
		return models.VaccineSchedule{}, lookupErr(err, msgVaccineNotFound)
	}
	return schedule, nil
}

// SetVaccineStatus updates the status of a vaccine schedule.
func (s *Store) SetVaccineStatus(ctx context.Context, id string, status models.VaccineStatus) error {
	res := s.db.WithContext(ctx).Model(&models.VaccineSchedule{}).Where("id = ?", id).Update("status", status)
	if res.Error != nil {
		return fmt.Errorf("update vaccine status: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return models.NotFound(msgVaccineNotFound)
	}
	return nil
}
