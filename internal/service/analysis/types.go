package analysis

import (
	"errors"
	"time"

	"github.com/mamadbah2/layerfarm/internal/domain/models"
)

// Type names one analysis category.
type Type string

const (
	ProductionPrediction  Type = "PRODUCTION_PREDICTION"
	CostAnalysis          Type = "COST_ANALYSIS"
	PerformanceAnalysis   Type = "PERFORMANCE_ANALYSIS"
	HealthAnalysis        Type = "HEALTH_ANALYSIS"
	ProfitabilityAnalysis Type = "PROFITABILITY_ANALYSIS"
	FeedOptimization      Type = "FEED_OPTIMIZATION"
)

var titles = map[Type]string{
	ProductionPrediction:  "Prediksi Produksi Telur",
	CostAnalysis:          "Analisis Biaya Produksi",
	PerformanceAnalysis:   "Analisis Performa Peternakan",
	HealthAnalysis:        "Analisis Kesehatan Ayam",
	ProfitabilityAnalysis: "Analisis Profitabilitas",
	FeedOptimization:      "Optimasi Formulasi Pakan",
}

// Title returns the display title of t.
func (t Type) Title() string { return titles[t] }

// Valid reports whether t is one of the five farm analyses.
func (t Type) Valid() bool {
	switch t {
	case ProductionPrediction, CostAnalysis, PerformanceAnalysis, HealthAnalysis, ProfitabilityAnalysis:
		return true
	}
	return false
}

const (
	DefaultWindowDays = 30
	MaxWindowDays     = 365

	feedHistoryLimit = 30
	defaultFCR       = 2.2
)

var (
	// ErrUnavailable means no completion provider is configured.
	ErrUnavailable = errors.New("completion provider not configured")
	// ErrCompletion wraps failures of the completion call itself.
	ErrCompletion = errors.New("completion call failed")
)

// Snapshot is the data a prompt is rendered from. Logs and Sales are newest first.
type Snapshot struct {
	Shed       *models.Shed
	Sheds      []models.Shed
	Logs       []models.DailyLog
	Stock      []models.StockItem
	Sales      []models.SalesInvoice
	WindowDays int
	Now        time.Time
}

// Request selects an analysis.
type Request struct {
	Type       Type   `json:"analysisType"`
	ShedID     string `json:"shedId"`
	WindowDays int    `json:"windowDays"`
}

// Response is returned for a completed analysis.
type Response struct {
	Message    string `json:"message"`
	Analysis   Result `json:"analysis"`
	Title      string `json:"title"`
	AnalysisID string `json:"analysisId"`
}

// FeedRequest asks for a feed formulation for one shed.
type FeedRequest struct {
	ShedID       string   `json:"shedId"`
	BirdCount    int      `json:"birdCount"`
	TargetOutput *float64 `json:"targetOutput"`
}

// ShedRef identifies the shed a formulation was made for.
type ShedRef struct {
	ID   string          `json:"id"`
	Name string          `json:"name"`
	Type models.ShedType `json:"type"`
}

// FeedSummary carries the historical figures used in the prompt.
type FeedSummary struct {
	BirdCount     int    `json:"birdCount"`
	FCR           string `json:"fcr"`
	AvgProduction string `json:"avgProduction"`
	AvgFeed       string `json:"avgFeed"`
}

// FeedResponse is returned for a completed feed optimization.
type FeedResponse struct {
	Message    string      `json:"message"`
	Analysis   Result      `json:"analysis"`
	Shed       ShedRef     `json:"kandang"`
	Summary    FeedSummary `json:"summary"`
	AnalysisID string      `json:"analysisId"`
}

// FeedContext is the data the feed prompt is rendered from.
type FeedContext struct {
	Shed         models.Shed
	BirdCount    int
	TargetOutput *float64
	Logs         []models.DailyLog
	RawMaterials []models.StockItem
}
