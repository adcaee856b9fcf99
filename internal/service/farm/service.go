// Package farm covers sheds, their daily production logs and bird health.
package farm

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/layerfarm/internal/domain/models"
)

// Repository is the storage the farm service needs.
type Repository interface {
	ListSheds(ctx context.Context) ([]models.Shed, error)
	FindShed(ctx context.Context, id string) (models.Shed, error)
	ShedNameExists(ctx context.Context, name, excludeID string) (bool, error)
	CreateShed(ctx context.Context, shed *models.Shed) error
	UpdateShed(ctx context.Context, id string, updates map[string]any) (models.Shed, error)
	DeleteShed(ctx context.Context, id string) error

	ListDailyLogs(ctx context.Context, filter models.DailyLogFilter) ([]models.DailyLog, error)
	FindDailyLog(ctx context.Context, id string) (models.DailyLog, error)
	CreateDailyLog(ctx context.Context, log *models.DailyLog) error
	DeleteDailyLog(ctx context.Context, id string) error

	ListHealthRecords(ctx context.Context, filter models.HealthFilter) ([]models.HealthRecord, error)
	CreateHealthRecord(ctx context.Context, record *models.HealthRecord) error
	ListVaccines(ctx context.Context, filter models.HealthFilter) ([]models.VaccineSchedule, error)
	CreateVaccine(ctx context.Context, schedule *models.VaccineSchedule) error
	FindVaccine(ctx context.Context, id string) (models.VaccineSchedule, error)
	SetVaccineStatus(ctx context.Context, id string, status models.VaccineStatus) error
}

// DailyLogMirror receives every stored daily log. Failures are logged only.
type DailyLogMirror interface {
	AppendDailyLog(ctx context.Context, log models.DailyLog) error
}

// Service implements the farm operations.
type Service struct {
	repo   Repository
	mirror DailyLogMirror
	logger *zap.Logger
	now    func() time.Time
}

// NewService wires a farm service. mirror may be nil.
func NewService(repo Repository, mirror DailyLogMirror, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{repo: repo, mirror: mirror, logger: logger, now: time.Now}
}

// ShedInput is the body of shed create and update requests. Nil fields are
// left unchanged on update.
type ShedInput struct {
	Name      *string          `json:"name"`
	Type      *models.ShedType `json:"type"`
	Capacity  *int             `json:"capacity"`
	BirdCount *int             `json:"birdCount"`
	IsActive  *bool            `json:"isActive"`
}

func validShedType(t models.ShedType) bool {
	switch t {
	case models.ShedLitter, models.ShedBattery, models.ShedColony:
		return true
	}
	return false
}

// ListSheds returns every shed.
func (s *Service) ListSheds(ctx context.Context) ([]models.Shed, error) {
	return s.repo.ListSheds(ctx)
}

// GetShed returns one shed.
func (s *Service) GetShed(ctx context.Context, id string) (models.Shed, error) {
	return s.repo.FindShed(ctx, id)
}

// CreateShed validates and stores a new shed.
func (s *Service) CreateShed(ctx context.Context, in ShedInput) (models.Shed, error) {
	if in.Name == nil || strings.TrimSpace(*in.Name) == "" || in.Type == nil || in.Capacity == nil {
		return models.Shed{}, models.Invalid("Nama, jenis, dan kapasitas wajib diisi")
	}
	if !validShedType(*in.Type) {
		return models.Shed{}, models.Invalid("Jenis kandang tidak valid")
	}
	if *in.Capacity < 0 || (in.BirdCount != nil && *in.BirdCount < 0) {
		return models.Shed{}, models.Invalid("Jumlah tidak boleh negatif")
	}

	name := strings.TrimSpace(*in.Name)
	exists, err := s.repo.ShedNameExists(ctx, name, "")
	if err != nil {
		return models.Shed{}, err
	}
	if exists {
		return models.Shed{}, models.Invalid("Nama kandang sudah ada")
	}

	shed := models.Shed{Name: name, Type: *in.Type, Capacity: *in.Capacity, IsActive: true}
	if in.BirdCount != nil {
		shed.BirdCount = *in.BirdCount
	}
	if err := s.repo.CreateShed(ctx, &shed); err != nil {
		return models.Shed{}, err
	}
	if in.IsActive != nil && !*in.IsActive {
		return s.repo.UpdateShed(ctx, shed.ID, map[string]any{"is_active": false})
	}
	return shed, nil
}

// UpdateShed applies the non-nil fields of in.
func (s *Service) UpdateShed(ctx context.Context, id string, in ShedInput) (models.Shed, error) {
	updates := make(map[string]any)
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return models.Shed{}, models.Invalid("Nama kandang wajib diisi")
		}
		exists, err := s.repo.ShedNameExists(ctx, name, id)
		if err != nil {
			return models.Shed{}, err
		}
		if exists {
			return models.Shed{}, models.Invalid("Nama kandang sudah ada")
		}
		updates["name"] = name
	}
	if in.Type != nil {
		if !validShedType(*in.Type) {
			return models.Shed{}, models.Invalid("Jenis kandang tidak valid")
		}
		updates["type"] = *in.Type
	}
	if in.Capacity != nil {
		if *in.Capacity < 0 {
			return models.Shed{}, models.Invalid("Jumlah tidak boleh negatif")
		}
		updates["capacity"] = *in.Capacity
	}
	if in.BirdCount != nil {
		if *in.BirdCount < 0 {
			return models.Shed{}, models.Invalid("Jumlah tidak boleh negatif")
		}
		updates["bird_count"] = *in.BirdCount
	}
	if in.IsActive != nil {
		updates["is_active"] = *in.IsActive
	}
	return s.repo.UpdateShed(ctx, id, updates)
}

// DeleteShed removes a shed with its logs.
func (s *Service) DeleteShed(ctx context.Context, id string) error {
	return s.repo.DeleteShed(ctx, id)
}
