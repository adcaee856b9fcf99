package sheets

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"google.golang.org/api/option"
	sheetsapi "google.golang.org/api/sheets/v4"

	"github.com/mamadbah2/layerfarm/internal/config"
	"github.com/mamadbah2/layerfarm/internal/domain/models"
)

// DailyLogMirror appends every recorded daily log to a spreadsheet so farm
// staff can follow production without database access.
type DailyLogMirror struct {
	service       *sheetsapi.Service
	spreadsheetID string
	sheetRange    string
	logger        *zap.Logger
}

// NewDailyLogMirror builds a mirror authenticated with the configured
// service account file. Extra options are appended after the credentials.
func NewDailyLogMirror(ctx context.Context, cfg config.SheetsConfig, logger *zap.Logger, extra ...option.ClientOption) (*DailyLogMirror, error) {
	opts := []option.ClientOption{
		option.WithCredentialsFile(cfg.CredentialsPath),
		option.WithScopes(sheetsapi.SpreadsheetsScope),
	}
	return newDailyLogMirror(ctx, cfg, logger, append(opts, extra...)...)
}

func newDailyLogMirror(ctx context.Context, cfg config.SheetsConfig, logger *zap.Logger, opts ...option.ClientOption) (*DailyLogMirror, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.DailyLogRange == "" {
		return nil, fmt.Errorf("daily log range must not be empty")
	}

	service, err := sheetsapi.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize sheets client: %w", err)
	}

	return &DailyLogMirror{
		service:       service,
		spreadsheetID: cfg.SpreadsheetID,
		sheetRange:    cfg.DailyLogRange,
		logger:        logger,
	}, nil
}

// AppendDailyLog writes one row per log. Columns follow the order of the
// farm's paper form: date, shed, recorder, egg grades, feed, losses and the
// remaining bird count.
func (m *DailyLogMirror) AppendDailyLog(ctx context.Context, log models.DailyLog) error {
	payload := &sheetsapi.ValueRange{Values: [][]interface{}{dailyLogRow(log)}}

	call := m.service.Spreadsheets.Values.Append(m.spreadsheetID, m.sheetRange, payload).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx)

	if _, err := call.Do(); err != nil {
		return fmt.Errorf("append daily log into range %s: %w", m.sheetRange, err)
	}

	m.logger.Debug("daily log mirrored to sheet", zap.String("range", m.sheetRange), zap.String("log_id", log.ID))
	return nil
}

func dailyLogRow(log models.DailyLog) []interface{} {
	shedName, birds := "", ""
	if log.Shed != nil {
		shedName = log.Shed.Name
		birds = fmt.Sprint(log.Shed.BirdCount)
	}

	return []interface{}{
		log.Date.Format("2006-01-02"),
		shedName,
		log.RecordedBy,
		log.GoodEggs,
		log.CrackedEggs,
		log.CreamEggs,
		log.TotalEggs(),
		log.RawFeedKg,
		log.FinishedFeedKg,
		log.Deaths,
		log.Culls,
		birds,
	}
}
