// Package scheduler runs the periodic farm digest.
package scheduler

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/mamadbah2/layerfarm/internal/config"
	"github.com/mamadbah2/layerfarm/internal/domain/models"
	"github.com/mamadbah2/layerfarm/internal/service/analysis"
	"github.com/mamadbah2/layerfarm/internal/service/notify"
	"github.com/mamadbah2/layerfarm/internal/service/reporting"
	"github.com/mamadbah2/layerfarm/pkg/metrics"
)

const digestTimeout = 2 * time.Minute

// Digester renders the plain-text farm summary.
type Digester interface {
	WeeklyDigest(ctx context.Context, p reporting.Period) (string, error)
}

// Analyzer runs an AI analysis.
type Analyzer interface {
	Run(ctx context.Context, req analysis.Request) (analysis.Response, error)
}

// Scheduler manages scheduled tasks.
type Scheduler struct {
	cron     *cron.Cron
	cfg      config.ReportingConfig
	digester Digester
	analyzer Analyzer
	notifier notify.Notifier
	metrics  *metrics.Metrics
	logger   *zap.Logger
	now      func() time.Time
}

// NewScheduler creates a scheduler running in the configured timezone.
// analyzer may be nil, in which case digests carry no AI section.
func NewScheduler(cfg config.ReportingConfig, digester Digester, analyzer Analyzer, notifier notify.Notifier, m *metrics.Metrics, logger *zap.Logger) (*Scheduler, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	loc := time.UTC
	if cfg.Timezone != "" {
		var err error
		if loc, err = time.LoadLocation(cfg.Timezone); err != nil {
			return nil, fmt.Errorf("load timezone %q: %w", cfg.Timezone, err)
		}
	}

	return &Scheduler{
		cron:     cron.New(cron.WithLocation(loc)),
		cfg:      cfg,
		digester: digester,
		analyzer: analyzer,
		notifier: notifier,
		metrics:  m,
		logger:   logger,
		now:      time.Now,
	}, nil
}

// Start registers the digest job and starts the cron loop.
func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc(s.cfg.CronSchedule, s.runDigest); err != nil {
		return fmt.Errorf("schedule digest %q: %w", s.cfg.CronSchedule, err)
	}
	s.logger.Info("starting scheduler", zap.String("schedule", s.cfg.CronSchedule), zap.String("timezone", s.cfg.Timezone))
	s.cron.Start()
	return nil
}

// Stop stops the cron loop and waits for a running digest to finish.
func (s *Scheduler) Stop() {
	s.logger.Info("stopping scheduler")
	<-s.cron.Stop().Done()
}

func (s *Scheduler) runDigest() {
	ctx, cancel := context.WithTimeout(context.Background(), digestTimeout)
	defer cancel()

	if err := s.SendDigest(ctx); err != nil {
		s.logger.Error("failed to send digest", zap.Error(err))
	}
}

// SendDigest builds the digest for the past week and hands it to the notifier.
func (s *Scheduler) SendDigest(ctx context.Context) error {
	s.logger.Info("generating digest")

	text, err := s.digester.WeeklyDigest(ctx, reporting.LastWeek(s.now()))
	if err != nil {
		s.metrics.DigestRun("error")
		return fmt.Errorf("build digest: %w", err)
	}

	if section := s.analysisSection(ctx); section != "" {
		text += "\n\n" + section
	}

	if err := s.notifier.Send(ctx, models.OutboundMessage{Message: text}); err != nil {
		s.metrics.DigestRun("error")
		return fmt.Errorf("send digest: %w", err)
	}
	s.metrics.DigestRun("ok")
	s.logger.Info("digest sent")
	return nil
}

// analysisSection is best effort; a failed analysis leaves the digest without it.
func (s *Scheduler) analysisSection(ctx context.Context) string {
	if s.analyzer == nil || s.cfg.DigestAnalysisType == "" {
		return ""
	}

	resp, err := s.analyzer.Run(ctx, analysis.Request{
		Type:       analysis.Type(s.cfg.DigestAnalysisType),
		WindowDays: 7,
	})
	if err != nil {
		s.logger.Warn("digest analysis skipped", zap.String("type", s.cfg.DigestAnalysisType), zap.Error(err))
		return ""
	}

	lines := []string{resp.Title}
	if overview := resp.Analysis.Overview(); overview != "" {
		lines = append(lines, overview)
	}
	if rec := resp.Analysis.Recommendation(); rec != "" {
		lines = append(lines, "Rekomendasi: "+rec)
	}
	return strings.Join(lines, "\n")
}
