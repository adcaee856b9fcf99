package gormdb

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mamadbah2/layerfarm/internal/domain/models"
)

// SaveAnalysis appends an analysis audit row and returns its id.
func (s *Store) SaveAnalysis(ctx context.Context, record models.AnalysisRecord) (string, error) {
	if record.ID == "" {
		record.ID = uuid.NewString()
	}
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now().UTC()
	}
	if err := s.db.WithContext(ctx).Create(&record).Error; err != nil {
		return "", fmt.Errorf("insert analysis record: %w", err)
	}
	return record.ID, nil
}

// ListAnalyses returns the newest analysis rows, optionally for one type.
func (s *Store) ListAnalyses(ctx context.Context, analysisType string, limit int) ([]models.AnalysisRecord, error) {
	q := s.db.WithContext(ctx).Model(&models.AnalysisRecord{})
	if analysisType != "" {
		q = q.Where("type = ?", analysisType)
	}
	if limit > 0 {
		q = q.Limit(limit)
	}

	var records []models.AnalysisRecord
	if err := q.Order("created_at desc").Find(&records).Error; err != nil {
		return nil, fmt.Errorf("list analysis records: %w", err)
	}
	return records, nil
}
