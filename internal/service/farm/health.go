package farm

import (
	"context"
	"strings"

	"github.com/mamadbah2/layerfarm/internal/domain/models"
)

// HealthRecordInput is the body of a health record create request.
type HealthRecordInput struct {
	ShedID     string  `json:"shedId"`
	Date       string  `json:"date"`
	RecordedBy string  `json:"recordedBy"`
	Sick       int     `json:"sick"`
	Symptoms   *string `json:"symptoms"`
	Diagnosis  *string `json:"diagnosis"`
	Recovered  int     `json:"recovered"`
	Medicine   *string `json:"medicine"`
	Dose       *string `json:"dose"`
	Notes      *string `json:"notes"`
}

// HealthTotals sums sick and recovered birds over a listing.
type HealthTotals struct {
	Sick      int `json:"totalSakit"`
	Recovered int `json:"totalSembuh"`
}

// VaccineInput is the body of a vaccine schedule create request.
type VaccineInput struct {
	ShedID      string  `json:"shedId"`
	VaccineName string  `json:"vaccineName"`
	ScheduledAt string  `json:"scheduledAt"`
	BirdCount   *int    `json:"birdCount"`
	Notes       *string `json:"notes"`
}

// ListHealthRecords returns matching records with their totals.
func (s *Service) ListHealthRecords(ctx context.Context, filter models.HealthFilter) ([]models.HealthRecord, HealthTotals, error) {
	records, err := s.repo.ListHealthRecords(ctx, filter)
	if err != nil {
		return nil, HealthTotals{}, err
	}

	var totals HealthTotals
	for _, r := range records {
		totals.Sick += r.Sick
		totals.Recovered += r.Recovered
	}
	return records, totals, nil
}

// CreateHealthRecord validates and stores a health record for an existing shed.
func (s *Service) CreateHealthRecord(ctx context.Context, in HealthRecordInput) (models.HealthRecord, error) {
	if strings.TrimSpace(in.ShedID) == "" || strings.TrimSpace(in.RecordedBy) == "" {
		return models.HealthRecord{}, models.Invalid("Kandang dan user wajib dipilih")
	}
	if in.Sick < 0 || in.Recovered < 0 {
		return models.HealthRecord{}, models.Invalid("Jumlah tidak boleh negatif")
	}
	if _, err := s.repo.FindShed(ctx, in.ShedID); err != nil {
		return models.HealthRecord{}, err
	}

	date, err := models.ParseDate(in.Date)
	if err != nil {
		return models.HealthRecord{}, err
	}
	if date.IsZero() {
		date = s.now().UTC()
	}

	record := models.HealthRecord{
		ShedID:     in.ShedID,
		Date:       date,
		RecordedBy: strings.TrimSpace(in.RecordedBy),
		Sick:       in.Sick,
		Symptoms:   in.Symptoms,
		Diagnosis:  in.Diagnosis,
		Recovered:  in.Recovered,
		Medicine:   in.Medicine,
		Dose:       in.Dose,
		Notes:      in.Notes,
	}
	if err := s.repo.CreateHealthRecord(ctx, &record); err != nil {
		return models.HealthRecord{}, err
	}
	return record, nil
}

// ListVaccines returns matching vaccine schedules.
func (s *Service) ListVaccines(ctx context.Context, filter models.HealthFilter) ([]models.VaccineSchedule, error) {
	return s.repo.ListVaccines(ctx, filter)
}

// CreateVaccine schedules a vaccination. Bird count defaults to the shed's
// current population.
func (s *Service) CreateVaccine(ctx context.Context, in VaccineInput) (models.VaccineSchedule, error) {
	if strings.TrimSpace(in.ShedID) == "" || strings.TrimSpace(in.VaccineName) == "" || strings.TrimSpace(in.ScheduledAt) == "" {
		return models.VaccineSchedule{}, models.Invalid("Kandang, nama vaksin, dan tanggal jadwal wajib diisi")
	}
	scheduledAt, err := models.ParseDate(in.ScheduledAt)
	if err != nil {
		return models.VaccineSchedule{}, err
	}
	shed, err := s.repo.FindShed(ctx, in.ShedID)
	if err != nil {
		return models.VaccineSchedule{}, err
	}

	schedule := models.VaccineSchedule{
		ShedID:      shed.ID,
		VaccineName: strings.TrimSpace(in.VaccineName),
		ScheduledAt: scheduledAt,
		BirdCount:   shed.BirdCount,
		Status:      models.VaccineScheduled,
		Notes:       in.Notes,
	}
	if in.BirdCount != nil {
		if *in.BirdCount < 0 {
			return models.VaccineSchedule{}, models.Invalid("Jumlah tidak boleh negatif")
		}
		schedule.BirdCount = *in.BirdCount
	}
	if err := s.repo.CreateVaccine(ctx, &schedule); err != nil {
		return models.VaccineSchedule{}, err
	}
	schedule.Shed = &shed
	return schedule, nil
}

// CompleteVaccine marks a schedule as done.
func (s *Service) CompleteVaccine(ctx context.Context, id string) (models.VaccineSchedule, error) {
	if err := s.repo.SetVaccineStatus(ctx, id, models.VaccineDone); err != nil {
		return models.VaccineSchedule{}, err
	}
	return s.repo.FindVaccine(ctx, id)
}
