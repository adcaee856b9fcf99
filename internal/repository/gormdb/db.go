package gormdb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/mamadbah2/layerfarm/internal/config"
	"github.com/mamadbah2/layerfarm/internal/domain/models"
)

// Store is the relational repository shared by every service. Each method owns
// its own statement or transaction.
type Store struct {
	db     *gorm.DB
	logger *zap.Logger
}

// Open connects to the configured database.
func Open(cfg config.DatabaseConfig, logger *zap.Logger) (*Store, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	var dialector gorm.Dialector
	switch cfg.Driver {
	case config.DriverPostgres:
		dialector = postgres.Open(cfg.DSN)
	case config.DriverSQLite:
		dialector = sqlite.Open(cfg.DSN)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		TranslateError: true,
		NowFunc:        func() time.Time { return time.Now().UTC() },
		Logger: gormlogger.New(zap.NewStdLog(logger), gormlogger.Config{
			SlowThreshold:             500 * time.Millisecond,
			LogLevel:                  gormlogger.Warn,
			IgnoreRecordNotFoundError: true,
		}),
	})
	if err != nil {
		return nil, fmt.Errorf("connect %s database: %w", cfg.Driver, err)
	}

	if cfg.Driver == config.DriverSQLite {
		// sqlite allows a single writer; serialize through one connection.
		sqlDB, err := db.DB()
		if err != nil {
			return nil, fmt.Errorf("sqlite handle: %w", err)
		}
		sqlDB.SetMaxOpenConns(1)
		if err := db.Exec("PRAGMA foreign_keys = ON").Error; err != nil {
			return nil, fmt.Errorf("enable sqlite foreign keys: %w", err)
		}
	}

	return &Store{db: db, logger: logger}, nil
}

// Migrate creates or updates every table. Models are migrated one by one so a
// failure on one table does not block the rest.
func (s *Store) Migrate(ctx context.Context) error {
	tables := []any{
		&models.Shed{},
		&models.DailyLog{},
		&models.StockItem{},
		&models.SalesInvoice{},
		&models.Receivable{},
		&models.Payable{},
		&models.CashEntry{},
		&models.HealthRecord{},
		&models.VaccineSchedule{},
		&models.EggPrice{},
		&models.RolePermission{},
		&models.AnalysisRecord{},
		&models.Counter{},
	}

	var errs []error
	for _, table := range tables {
		if err := s.db.WithContext(ctx).AutoMigrate(table); err != nil {
			s.logger.Warn("migration failed", zap.String("table", fmt.Sprintf("%T", table)), zap.Error(err))
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Ping verifies the database connection.
func (s *Store) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// Close releases the underlying connection pool.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func lookupErr(err error, message string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.NotFound(message)
	}
	return err
}

func writeErr(err error, duplicateMessage string) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return models.Invalid(duplicateMessage)
	}
	return err
}

func dateRange(q *gorm.DB, column string, from, to time.Time) *gorm.DB {
	if !from.IsZero() {
		q = q.Where(column+" >= ?", from.UTC())
	}
	if !to.IsZero() {
		q = q.Where(column+" <= ?", to.UTC())
	}
	return q
}

const (
	msgShedNotFound       = "Kandang tidak ditemukan"
	msgShedExists         = "Nama kandang sudah ada"
	msgDailyLogNotFound   = "Data harian tidak ditemukan"
	msgStockNotFound      = "Stok tidak ditemukan"
	msgStockExists        = "Nama stok sudah ada"
	msgSaleNotFound       = "Penjualan tidak ditemukan"
	msgInvoiceExists      = "Nomor invoice sudah ada"
	msgReceivableNotFound = "Piutang tidak ditemukan"
	msgPayableNotFound    = "Utang tidak ditemukan"
	msgVoucherExists      = "Nomor bukti sudah ada"
	msgVaccineNotFound    = "Jadwal vaksin tidak ditemukan"
)
