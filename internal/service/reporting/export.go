package reporting

import (
	"context"
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/mamadbah2/layerfarm/internal/domain/models"
)

const (
	dailyLogSheet = "Data Harian"
	salesSheet    = "Penjualan"
	cellDate      = "2006-01-02"
)

var (
	dailyLogHeader = []any{
		"Tanggal", "Kandang", "Telur Baik", "Telur Retak", "Telur Krem", "Total Telur",
		"Pakan Bahan Baku (kg)", "Pakan Jadi (kg)", "Kematian", "Afkir", "Vaksin", "Dicatat Oleh",
	}
	salesHeader = []any{
		"Tanggal", "No. Invoice", "Pelanggan", "Telur (kg)", "Telur (peti)", "Ayam Afkir",
		"Ayam Pulet", "Total", "Dibayar", "Sisa",
	}
)

// ExportFileName names the workbook for a period. Open bounds read "awal" and "akhir".
func ExportFileName(p Period) string {
	start, end := "awal", "akhir"
	if !p.Start.IsZero() {
		start = p.Start.Format("20060102")
	}
	if !p.End.IsZero() {
		end = p.End.Format("20060102")
	}
	return fmt.Sprintf("laporan_%s_%s.xlsx", start, end)
}

// Export writes an xlsx workbook with the daily logs and sales of the period.
// Zero bounds are open.
func (s *Service) Export(ctx context.Context, p Period, w io.Writer) error {
	logs, err := s.repo.ListDailyLogs(ctx, models.DailyLogFilter{From: p.Start, To: p.End})
	if err != nil {
		return fmt.Errorf("load daily logs: %w", err)
	}
	sales, err := s.repo.ListSales(ctx, models.SalesFilter{From: p.Start, To: p.End})
	if err != nil {
		return fmt.Errorf("load sales: %w", err)
	}

	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName(f.GetSheetName(f.GetActiveSheetIndex()), dailyLogSheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	if _, err := f.NewSheet(salesSheet); err != nil {
		return fmt.Errorf("create sheet: %w", err)
	}

	rows := make([][]any, 0, len(logs))
	for _, l := range logs {
		rows = append(rows, dailyLogRow(l))
	}
	if err := writeSheet(f, dailyLogSheet, dailyLogHeader, rows); err != nil {
		return err
	}

	rows = rows[:0]
	for _, inv := range sales {
		rows = append(rows, []any{
			inv.Date.Format(cellDate), inv.InvoiceNumber, inv.Customer, inv.EggKg, inv.EggCrates,
			inv.CulledBirds, inv.Pullets, inv.Total, inv.Paid, inv.Remainder,
		})
	}
	if err := writeSheet(f, salesSheet, salesHeader, rows); err != nil {
		return err
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	s.logger.Info("report exported",
		zap.Int("daily_logs", len(logs)),
		zap.Int("sales", len(sales)),
		zap.Time("start", p.Start),
		zap.Time("end", p.End),
	)
	return nil
}

func dailyLogRow(l models.DailyLog) []any {
	shed := l.ShedID
	if l.Shed != nil {
		shed = l.Shed.Name
	}
	vaccine := ""
	if l.Vaccination != nil {
		vaccine = *l.Vaccination
	}
	return []any{
		l.Date.Format(cellDate), shed, l.GoodEggs, l.CrackedEggs, l.CreamEggs, l.TotalEggs(),
		l.RawFeedKg, l.FinishedFeedKg, l.Deaths, l.Culls, vaccine, l.RecordedBy,
	}
}

func writeSheet(f *excelize.File, sheet string, header []any, rows [][]any) error {
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("write %s header: %w", sheet, err)
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("write %s row %d: %w", sheet, i+2, err)
		}
	}
	return nil
}

// ParsePeriod reads optional startDate/endDate query values. An end date
// covers the whole day.
func ParsePeriod(start, end string) (Period, error) {
	var p Period
	var err error
	if p.Start, err = models.ParseDate(start); err != nil {
		return Period{}, err
	}
	if p.End, err = models.ParseDate(end); err != nil {
		return Period{}, err
	}
	if !p.End.IsZero() {
		p.End = models.EndOfDay(p.End)
	}
	if !p.Start.IsZero() && !p.End.IsZero() && p.End.Before(p.Start) {
		return Period{}, models.Invalid("Tanggal akhir harus setelah tanggal mulai")
	}
	return p, nil
}
