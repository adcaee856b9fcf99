// Package analysis builds farm analysis prompts, calls the completion
// provider and turns the answer into typed, audited results.
package analysis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/mamadbah2/layerfarm/internal/domain/models"
	"github.com/mamadbah2/layerfarm/pkg/clients/completion"
	"github.com/mamadbah2/layerfarm/pkg/metrics"
)

// DataSource loads the farm data prompts are rendered from.
type DataSource interface {
	ListSheds(ctx context.Context) ([]models.Shed, error)
	FindShed(ctx context.Context, id string) (models.Shed, error)
	ListDailyLogs(ctx context.Context, filter models.DailyLogFilter) ([]models.DailyLog, error)
	ListStock(ctx context.Context, category models.StockCategory) ([]models.StockItem, error)
	ListSales(ctx context.Context, filter models.SalesFilter) ([]models.SalesInvoice, error)
}

// RecordStore persists analysis audit records.
type RecordStore interface {
	SaveAnalysis(ctx context.Context, record models.AnalysisRecord) (string, error)
	ListAnalyses(ctx context.Context, analysisType string, limit int) ([]models.AnalysisRecord, error)
}

// Options tunes the completion call.
type Options struct {
	Provider  string
	Timeout   time.Duration
	MaxTokens int
}

// Service runs analyses end to end.
type Service struct {
	data    DataSource
	records RecordStore
	client  completion.Client
	opts    Options
	metrics *metrics.Metrics
	logger  *zap.Logger
	now     func() time.Time
}

// NewService wires the analysis service. A nil client makes every analysis
// fail with ErrUnavailable.
func NewService(data DataSource, records RecordStore, client completion.Client, opts Options, m *metrics.Metrics, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 60 * time.Second
	}
	return &Service{
		data:    data,
		records: records,
		client:  client,
		opts:    opts,
		metrics: m,
		logger:  logger,
		now:     time.Now,
	}
}

// Available reports whether a completion provider is configured.
func (s *Service) Available() bool {
	return s.client != nil
}

// Run executes one of the five farm analyses and stores its audit record.
func (s *Service) Run(ctx context.Context, req Request) (Response, error) {
	if req.Type == "" {
		return Response{}, models.Invalid("Jenis analisis wajib dipilih")
	}
	if !req.Type.Valid() {
		return Response{}, models.Invalid("Jenis analisis tidak valid")
	}
	if req.WindowDays < 0 {
		return Response{}, models.Invalid("Periode analisis tidak valid")
	}
	if s.client == nil {
		s.metrics.AnalysisRequest(string(req.Type), "unavailable")
		return Response{}, ErrUnavailable
	}

	snap, err := s.snapshot(ctx, req)
	if err != nil {
		return Response{}, err
	}
	prompt, err := BuildPrompt(req.Type, snap)
	if err != nil {
		return Response{}, err
	}

	result, err := s.complete(ctx, req.Type, analysisSystemPrompt, prompt)
	if err != nil {
		return Response{}, err
	}
	id, err := s.record(ctx, result)
	if err != nil {
		return Response{}, err
	}

	return Response{
		Message:    "Analisis berhasil",
		Analysis:   result,
		Title:      req.Type.Title(),
		AnalysisID: id,
	}, nil
}

// OptimizeFeed asks for a feed formulation for one shed.
func (s *Service) OptimizeFeed(ctx context.Context, req FeedRequest) (FeedResponse, error) {
	if req.ShedID == "" || req.BirdCount <= 0 {
		return FeedResponse{}, models.Invalid("Kandang dan jumlah ayam wajib diisi")
	}
	if s.client == nil {
		s.metrics.AnalysisRequest(string(FeedOptimization), "unavailable")
		return FeedResponse{}, ErrUnavailable
	}

	shed, err := s.data.FindShed(ctx, req.ShedID)
	if err != nil {
		return FeedResponse{}, err
	}
	logs, err := s.data.ListDailyLogs(ctx, models.DailyLogFilter{ShedID: shed.ID, Limit: feedHistoryLimit})
	if err != nil {
		return FeedResponse{}, err
	}
	materials, err := s.data.ListStock(ctx, models.StockFeedRawMaterial)
	if err != nil {
		return FeedResponse{}, err
	}

	fc := FeedContext{
		Shed:         shed,
		BirdCount:    req.BirdCount,
		TargetOutput: req.TargetOutput,
		Logs:         logs,
		RawMaterials: materials,
	}
	result, err := s.complete(ctx, FeedOptimization, feedSystemPrompt, BuildFeedPrompt(fc))
	if err != nil {
		return FeedResponse{}, err
	}
	id, err := s.record(ctx, result)
	if err != nil {
		return FeedResponse{}, err
	}

	stats := summarizeLogs(logs)
	return FeedResponse{
		Message:  "Optimasi pakan berhasil",
		Analysis: result,
		Shed:     ShedRef{ID: shed.ID, Name: shed.Name, Type: shed.Type},
		Summary: FeedSummary{
			BirdCount:     req.BirdCount,
			FCR:           fixed(feedFCR(stats), 2),
			AvgProduction: fixed(stats.avgEggs(), 0),
			AvgFeed:       fixed(stats.avgFeedKg(), 1),
		},
		AnalysisID: id,
	}, nil
}

// ListAnalyses returns stored audit records, newest first.
func (s *Service) ListAnalyses(ctx context.Context, analysisType string, limit int) ([]models.AnalysisRecord, error) {
	if analysisType != "" && !Type(analysisType).Valid() && Type(analysisType) != FeedOptimization {
		return nil, models.Invalid("Jenis analisis tidak valid")
	}
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return s.records.ListAnalyses(ctx, analysisType, limit)
}

func (s *Service) snapshot(ctx context.Context, req Request) (Snapshot, error) {
	window := req.WindowDays
	if window == 0 {
		window = DefaultWindowDays
	}
	if window > MaxWindowDays {
		window = MaxWindowDays
	}
	now := s.now().UTC()
	from := now.AddDate(0, 0, -window)
	snap := Snapshot{WindowDays: window, Now: now}

	if req.ShedID != "" {
		shed, err := s.data.FindShed(ctx, req.ShedID)
		if err != nil {
			return Snapshot{}, err
		}
		snap.Shed = &shed
		snap.Sheds = []models.Shed{shed}
	} else {
		sheds, err := s.data.ListSheds(ctx)
		if err != nil {
			return Snapshot{}, err
		}
		snap.Sheds = sheds
	}

	// Each loader fills its own field of snap.
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		snap.Logs, err = s.data.ListDailyLogs(gctx, models.DailyLogFilter{ShedID: req.ShedID, From: from})
		return err
	})
	g.Go(func() (err error) {
		snap.Stock, err = s.data.ListStock(gctx, "")
		return err
	})
	g.Go(func() (err error) {
		snap.Sales, err = s.data.ListSales(gctx, models.SalesFilter{From: from})
		return err
	})
	if err := g.Wait(); err != nil {
		return Snapshot{}, fmt.Errorf("load analysis data: %w", err)
	}

	return snap, nil
}

func (s *Service) complete(ctx context.Context, t Type, system, prompt string) (Result, error) {
	callCtx, cancel := context.WithTimeout(ctx, s.opts.Timeout)
	defer cancel()

	started := time.Now()
	raw, err := s.client.Complete(callCtx, completion.Request{
		System:    system,
		Prompt:    prompt,
		MaxTokens: s.opts.MaxTokens,
	})
	s.metrics.ObserveCompletion(s.opts.Provider, time.Since(started))
	if err != nil {
		s.metrics.AnalysisRequest(string(t), "error")
		s.logger.Error("completion call failed",
			zap.String("type", string(t)),
			zap.String("provider", s.opts.Provider),
			zap.Error(err),
		)
		return nil, fmt.Errorf("%w: %w", ErrCompletion, err)
	}

	result, ok := Interpret(t, raw)
	outcome := "ok"
	if !ok {
		outcome = "fallback"
		s.logger.Warn("completion output was not usable JSON, using fallback",
			zap.String("type", string(t)),
			zap.Int("raw_length", len(raw)),
		)
	}
	s.metrics.AnalysisRequest(string(t), outcome)
	return result, nil
}

func (s *Service) record(ctx context.Context, result Result) (string, error) {
	encoded, err := json.Marshal(result)
	if err != nil {
		return "", err
	}
	id, err := s.records.SaveAnalysis(ctx, models.AnalysisRecord{
		Type:           string(result.Kind()),
		Result:         string(encoded),
		Recommendation: result.Recommendation(),
		CreatedAt:      s.now().UTC(),
	})
	if err != nil {
		return "", fmt.Errorf("save analysis record: %w", err)
	}
	return id, nil
}

// IsUnavailable reports whether err means no completion provider is configured.
func IsUnavailable(err error) bool {
	return errors.Is(err, ErrUnavailable)
}
