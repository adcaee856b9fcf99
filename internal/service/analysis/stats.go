package analysis

import (
	"math"
	"strconv"

	"github.com/dustin/go-humanize"

	"github.com/mamadbah2/layerfarm/internal/domain/models"
)

// logStats aggregates daily logs. Averages are per log and are 0 when there
// is no history.
type logStats struct {
	count        int
	totalEggs    int
	totalFeedKg  float64
	totalDeaths  int
	totalCulls   int
	vaccinations int
}

func summarizeLogs(logs []models.DailyLog) logStats {
	s := logStats{count: len(logs)}
	for _, l := range logs {
		s.totalEggs += l.TotalEggs()
		s.totalFeedKg += l.TotalFeedKg()
		s.totalDeaths += l.Deaths
		s.totalCulls += l.Culls
		if l.Vaccination != nil && *l.Vaccination != "" {
			s.vaccinations++
		}
	}
	return s
}

func (s logStats) avgEggs() float64 {
	if s.count == 0 {
		return 0
	}
	return float64(s.totalEggs) / float64(s.count)
}

func (s logStats) avgFeedKg() float64 {
	if s.count == 0 {
		return 0
	}
	return s.totalFeedKg / float64(s.count)
}

func (s logStats) avgDeaths() float64 {
	if s.count == 0 {
		return 0
	}
	return float64(s.totalDeaths) / float64(s.count)
}

// fcr is feed kg per egg, ok is false without egg output.
func (s logStats) fcr() (float64, bool) {
	avg := s.avgEggs()
	if avg <= 0 {
		return 0, false
	}
	return s.avgFeedKg() / avg, true
}

func (s logStats) fcrText() string {
	v, ok := s.fcr()
	if !ok {
		return "N/A"
	}
	return fixed(v, 2)
}

func fixed(v float64, decimals int) string {
	return strconv.FormatFloat(v, 'f', decimals, 64)
}

func plain(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// rupiah formats v with dot thousand separators, e.g. 1.250.000.
func rupiah(v float64) string {
	return humanize.FormatFloat("#.###,", math.Round(v))
}
