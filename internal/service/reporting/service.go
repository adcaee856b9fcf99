// Package reporting builds the periodic farm digest and spreadsheet exports.
package reporting

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"go.uber.org/zap"

	"github.com/mamadbah2/layerfarm/internal/domain/models"
)

const digestLayout = "02 Jan 2006"

// Repository is the read-only storage reporting needs.
type Repository interface {
	ListSheds(ctx context.Context) ([]models.Shed, error)
	ListDailyLogs(ctx context.Context, filter models.DailyLogFilter) ([]models.DailyLog, error)
	ListSales(ctx context.Context, filter models.SalesFilter) ([]models.SalesInvoice, error)
}

// Service exposes farm summaries and exports.
type Service struct {
	repo   Repository
	logger *zap.Logger
}

// NewService wires a new reporting service instance.
func NewService(repo Repository, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{repo: repo, logger: logger}
}

// Period is a closed date range.
type Period struct {
	Start time.Time
	End   time.Time
}

// LastWeek is the seven days ending at end.
func LastWeek(end time.Time) Period {
	end = end.UTC()
	return Period{Start: end.AddDate(0, 0, -7), End: end}
}

// WeeklyDigest renders a short plain-text summary of production, mortality
// and sales for the period.
func (s *Service) WeeklyDigest(ctx context.Context, p Period) (string, error) {
	logs, err := s.repo.ListDailyLogs(ctx, models.DailyLogFilter{From: p.Start, To: p.End})
	if err != nil {
		return "", fmt.Errorf("load daily logs: %w", err)
	}
	sheds, err := s.repo.ListSheds(ctx)
	if err != nil {
		return "", fmt.Errorf("load sheds: %w", err)
	}
	sales, err := s.repo.ListSales(ctx, models.SalesFilter{From: p.Start, To: p.End})
	if err != nil {
		return "", fmt.Errorf("load sales: %w", err)
	}

	lines := []string{
		fmt.Sprintf("Ringkasan Peternakan %s - %s", p.Start.Format(digestLayout), p.End.Format(digestLayout)),
		eggsLine(logs),
		feedLine(logs, sheds),
		mortalityLine(logs, sheds),
		salesLine(sales),
	}
	return strings.Join(lines, "\n"), nil
}

func eggsLine(logs []models.DailyLog) string {
	if len(logs) == 0 {
		return "Produksi telur: belum ada data."
	}
	total := 0
	for _, l := range logs {
		total += l.TotalEggs()
	}
	return fmt.Sprintf("Produksi telur: %s butir dari %d catatan.", number(float64(total)), len(logs))
}

func feedLine(logs []models.DailyLog, sheds []models.Shed) string {
	if len(logs) == 0 {
		return "Pakan: belum ada data."
	}
	var feed float64
	for _, l := range logs {
		feed += l.TotalFeedKg()
	}
	line := fmt.Sprintf("Pakan: %s kg.", decimal(feed))
	if birds := population(sheds); birds > 0 {
		line += fmt.Sprintf(" Pakan per ekor %s kg.", humanize.FormatFloat("#.###,###", feed/float64(birds)))
	}
	return line
}

func mortalityLine(logs []models.DailyLog, sheds []models.Shed) string {
	deaths, culls := 0, 0
	for _, l := range logs {
		deaths += l.Deaths
		culls += l.Culls
	}
	if deaths == 0 && culls == 0 {
		return "Mortalitas: tidak ada kematian tercatat."
	}
	line := fmt.Sprintf("Mortalitas: %d ekor mati, %d ekor afkir.", deaths, culls)
	if birds := population(sheds); birds > 0 {
		rate := math.Round(float64(deaths)/float64(birds+deaths)*10000) / 100
		line += fmt.Sprintf(" Tingkat kematian %s%% dari populasi %s ekor.", decimal(rate), number(float64(birds)))
	}
	return line
}

func salesLine(sales []models.SalesInvoice) string {
	if len(sales) == 0 {
		return "Penjualan: belum ada transaksi."
	}
	summary := models.SummarizeSales(sales)
	return fmt.Sprintf("Penjualan: %d transaksi, Rp %s (belum dibayar Rp %s).",
		summary.Transactions, number(summary.Total), number(summary.Outstanding))
}

func population(sheds []models.Shed) int {
	total := 0
	for _, s := range sheds {
		if s.IsActive {
			total += s.BirdCount
		}
	}
	return total
}

// number formats v as a whole number with dot thousand separators.
func number(v float64) string {
	return humanize.FormatFloat("#.###,", math.Round(v))
}

func decimal(v float64) string {
	return humanize.FormatFloat("#.###,##", v)
}
