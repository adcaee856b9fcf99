package farm

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/mamadbah2/layerfarm/internal/domain/models"
)

// DailyLogInput is the body of a daily log create request.
type DailyLogInput struct {
	ShedID         string  `json:"shedId"`
	Date           string  `json:"date"`
	RecordedBy     string  `json:"recordedBy"`
	GoodEggs       int     `json:"goodEggs"`
	CrackedEggs    int     `json:"crackedEggs"`
	CreamEggs      int     `json:"creamEggs"`
	RawFeedKg      float64 `json:"rawFeedKg"`
	FinishedFeedKg float64 `json:"finishedFeedKg"`
	Deaths         int     `json:"deaths"`
	Culls          int     `json:"culls"`
	Vaccination    *string `json:"vaccination"`
	VaccineDoses   int     `json:"vaccineDoses"`
}

// ListDailyLogs returns logs matching filter.
func (s *Service) ListDailyLogs(ctx context.Context, filter models.DailyLogFilter) ([]models.DailyLog, error) {
	return s.repo.ListDailyLogs(ctx, filter)
}

// GetDailyLog returns one log with its shed.
func (s *Service) GetDailyLog(ctx context.Context, id string) (models.DailyLog, error) {
	return s.repo.FindDailyLog(ctx, id)
}

// CreateDailyLog stores a log and decrements the shed's birds by the deaths.
func (s *Service) CreateDailyLog(ctx context.Context, in DailyLogInput) (models.DailyLog, error) {
	if strings.TrimSpace(in.ShedID) == "" || strings.TrimSpace(in.RecordedBy) == "" {
		return models.DailyLog{}, models.Invalid("Kandang dan user wajib diisi")
	}
	if in.GoodEggs < 0 || in.CrackedEggs < 0 || in.CreamEggs < 0 || in.Deaths < 0 || in.Culls < 0 ||
		in.VaccineDoses < 0 || in.RawFeedKg < 0 || in.FinishedFeedKg < 0 {
		return models.DailyLog{}, models.Invalid("Jumlah tidak boleh negatif")
	}

	date, err := models.ParseDate(in.Date)
	if err != nil {
		return models.DailyLog{}, err
	}
	if date.IsZero() {
		date = s.now().UTC()
	}

	log := models.DailyLog{
		ShedID:         in.ShedID,
		Date:           date,
		RecordedBy:     strings.TrimSpace(in.RecordedBy),
		GoodEggs:       in.GoodEggs,
		CrackedEggs:    in.CrackedEggs,
		CreamEggs:      in.CreamEggs,
		RawFeedKg:      in.RawFeedKg,
		FinishedFeedKg: in.FinishedFeedKg,
		Deaths:         in.Deaths,
		Culls:          in.Culls,
		Vaccination:    in.Vaccination,
		VaccineDoses:   in.VaccineDoses,
	}
	if err := s.repo.CreateDailyLog(ctx, &log); err != nil {
		return models.DailyLog{}, err
	}

	s.logger.Info("daily log recorded",
		zap.String("shed_id", log.ShedID),
		zap.Int("eggs", log.TotalEggs()),
		zap.Int("deaths", log.Deaths))

	if s.mirror != nil {
		if err := s.mirror.AppendDailyLog(ctx, log); err != nil {
			s.logger.Warn("daily log mirror failed", zap.String("log_id", log.ID), zap.Error(err))
		}
	}
	return log, nil
}

// DeleteDailyLog removes a log. Bird counts are not restored.
func (s *Service) DeleteDailyLog(ctx context.Context, id string) error {
	return s.repo.DeleteDailyLog(ctx, id)
}
